package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/albumsync/internal/repositories"
	"github.com/desertthunder/albumsync/internal/services"
	"github.com/desertthunder/albumsync/internal/shared"
	"github.com/desertthunder/albumsync/internal/tasks"
	"github.com/desertthunder/albumsync/internal/ui"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	photos     services.PhotoService
	api        *services.APIService
	httpClient *http.Client
	db         *sql.DB
	logger     *log.Logger
	output     io.Writer
	paint      ui.Painter
}

// RunnerOpts contains configuration options for creating a Runner.
//
// Photos, API and DB are built from Config and command flags when nil.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Photos     services.PhotoService
	API        *services.APIService
	HTTPClient *http.Client
	DB         *sql.DB
	Logger     *log.Logger
	Output     io.Writer
	Painter    ui.Painter
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Painter == nil {
		if opts.Output == os.Stdout {
			opts.Painter = ui.DefaultPalette()
		} else {
			opts.Painter = ui.Plain{}
		}
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		photos:     opts.Photos,
		api:        opts.API,
		httpClient: opts.HTTPClient,
		db:         opts.DB,
		logger:     opts.Logger,
		output:     opts.Output,
		paint:      opts.Painter,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		syncCommand, planCommand, queriesCommand, validateCommand,
		peopleCommand, tagsCommand, albumsCommand, historyCommand, setupCommand, apiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// photoService returns the injected service or builds an [services.ImmichService] from the connection flags.
func (r *Runner) photoService(cmd *cli.Command) (services.PhotoService, error) {
	if r.photos != nil {
		return r.photos, nil
	}

	apiKey := cmd.String("api-key")
	if apiKey == "" {
		return nil, fmt.Errorf("%w: set --api-key, IMMICH_API_KEY or immich.api_key", shared.ErrMissingCredentials)
	}

	r.photos = services.NewImmichService(services.ImmichOptions{
		BaseURL:           cmd.String("url"),
		APIKey:            apiKey,
		Timeout:           r.config.Immich.Timeout(),
		PageSize:          r.config.Immich.PageSize,
		RequestsPerSecond: r.config.Immich.RequestsPerSecond,
		HTTPClient:        r.httpClient,
	})
	return r.photos, nil
}

func (r *Runner) apiService(cmd *cli.Command) (*services.APIService, error) {
	if r.api != nil {
		return r.api, nil
	}

	apiKey := cmd.String("api-key")
	if apiKey == "" {
		return nil, fmt.Errorf("%w: set --api-key, IMMICH_API_KEY or immich.api_key", shared.ErrMissingCredentials)
	}

	client := r.httpClient
	if client == nil {
		client = &http.Client{Timeout: r.config.Immich.Timeout()}
	}
	r.api = services.NewAPIService(cmd.String("url"), apiKey, client)
	return r.api, nil
}

// database returns the injected handle or opens and migrates the configured database.
//
// The returned close function is a no-op for injected handles.
func (r *Runner) database() (*sql.DB, func(), error) {
	if r.db != nil {
		return r.db, func() {}, nil
	}

	path := r.config.Database.Path
	if path == "" {
		return nil, nil, fmt.Errorf("%w: database.path", shared.ErrMissingConfig)
	}

	db, err := shared.NewDatabase(path)
	if err != nil {
		return nil, nil, err
	}
	shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return db, func() { db.Close() }, nil
}

// historyRecorder opens the sync history store. Failures are logged and disable recording.
func (r *Runner) historyRecorder(enabled bool) (tasks.RunRecorder, func()) {
	if !enabled {
		return nil, func() {}
	}

	db, closeDB, err := r.database()
	if err != nil {
		r.logger.Warn("sync history disabled", "error", err)
		return nil, func() {}
	}
	return repositories.NewHistoryRecorder(db), closeDB
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writeBytes(data []byte) error {
	if _, err := r.output.Write(data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) configPathOrDefault() string {
	if r.configPath == "" {
		return defaultConfigPath
	}
	return r.configPath
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", r.paint.Title(title))
	r.writePlain("═══════════════════════════════════════\n")
}
