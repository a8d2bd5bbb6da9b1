// package albums loads and validates smart album definitions.
//
// A definitions file is a JSON or YAML list of {name, query} entries. Load
// rejects unknown fields, checks every entry against its struct tags, then
// applies the rules tags cannot express: names are unique, people and
// any_people are exclusive, and every timespan ends on or after its start.
package albums

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/desertthunder/albumsync/internal/models"
	"github.com/desertthunder/albumsync/internal/query"
	"github.com/desertthunder/albumsync/internal/shared"
)

// Format is the encoding of a definitions file.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// AlbumError is a validation failure for one album definition.
type AlbumError struct {
	Index int
	Album string
	Field string
	Err   error
}

func (e *AlbumError) Error() string {
	name := e.Album
	if name == "" {
		name = fmt.Sprintf("#%d", e.Index)
	} else {
		name = fmt.Sprintf("%q", name)
	}
	if e.Field != "" {
		return fmt.Sprintf("%v: album %s: %s: %v", shared.ErrInvalidConfig, name, e.Field, e.Err)
	}
	return fmt.Sprintf("%v: album %s: %v", shared.ErrInvalidConfig, name, e.Err)
}

func (e *AlbumError) Unwrap() []error { return []error{shared.ErrInvalidConfig, e.Err} }

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// FormatFromPath picks the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: unsupported album file extension %q (want .json, .yaml or .yml)", shared.ErrInvalidConfig, filepath.Ext(path))
	}
}

// Load reads, parses and validates the definitions at path.
func Load(path string) ([]models.FilterConfig, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: album definitions file", shared.ErrMissingConfig)
	}

	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", shared.ErrMissingConfig, path)
		}
		return nil, fmt.Errorf("failed to read album definitions: %w", err)
	}

	configs, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return configs, nil
}

// Parse decodes and validates definitions in the given format.
func Parse(data []byte, format Format) ([]models.FilterConfig, error) {
	var configs []models.FilterConfig

	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&configs); err != nil {
			return nil, fmt.Errorf("%w: %v", shared.ErrInvalidConfig, err)
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&configs); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: %v", shared.ErrInvalidConfig, err)
		}
	default:
		return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidConfig, format)
	}

	if err := Validate(configs); err != nil {
		return nil, err
	}
	return configs, nil
}

// Validate checks every definition and returns all failures joined.
func Validate(configs []models.FilterConfig) error {
	var errs []error
	seen := make(map[string]int, len(configs))

	for i, cfg := range configs {
		if err := validate.Struct(cfg); err != nil {
			var verrs validator.ValidationErrors
			if !errors.As(err, &verrs) {
				return fmt.Errorf("%w: %v", shared.ErrInvalidConfig, err)
			}
			for _, fe := range verrs {
				errs = append(errs, &AlbumError{Index: i, Album: cfg.Name, Field: fieldPath(fe), Err: errors.New(describe(fe))})
			}
			continue
		}

		if first, dup := seen[cfg.Name]; dup {
			errs = append(errs, &AlbumError{Index: i, Album: cfg.Name, Field: "name", Err: fmt.Errorf("duplicate album name (first defined at #%d)", first)})
			continue
		}
		seen[cfg.Name] = i

		if err := query.Check(cfg.Query); err != nil {
			errs = append(errs, &AlbumError{Index: i, Album: cfg.Name, Field: "query", Err: err})
		}
	}

	return errors.Join(errs...)
}

// fieldPath strips the leading type name from the namespace: "FilterConfig.query.timespan[0].end" → "query.timespan[0].end".
func fieldPath(fe validator.FieldError) string {
	_, path, found := strings.Cut(fe.Namespace(), ".")
	if !found {
		return fe.Field()
	}
	return path
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required and must not be empty"
	case "min":
		return fmt.Sprintf("must have at least %s entries", fe.Param())
	case "datetime":
		return fmt.Sprintf("%q is not a YYYY-MM-DD date", fe.Value())
	case "oneof":
		return fmt.Sprintf("%q must be one of %s", fe.Value(), fe.Param())
	default:
		return fmt.Sprintf("failed %q validation", fe.Tag())
	}
}
