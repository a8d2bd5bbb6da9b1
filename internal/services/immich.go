// Immich API [PhotoService] implementation
//
// Endpoints are documented at https://immich.app/docs/api
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/desertthunder/albumsync/internal/models"
	"github.com/desertthunder/albumsync/internal/shared"
)

const (
	DefaultImmichURL = "http://localhost:2283"

	defaultTimeout        = 60 * time.Second
	defaultSearchPageSize = 250
	peoplePageSize        = 1000

	// naive ISO timestamp; the server interprets it in its own zone
	searchTimeLayout = "2006-01-02T15:04:05"
)

// ImmichOptions configures an [ImmichService]. Zero values select the defaults.
type ImmichOptions struct {
	BaseURL           string
	APIKey            string
	Timeout           time.Duration
	PageSize          int
	RequestsPerSecond float64
	HTTPClient        *http.Client
}

// ImmichService implements [PhotoService] against the Immich REST API.
type ImmichService struct {
	baseURL    string
	apiKey     string
	pageSize   int
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewImmichService creates a client for the server at opts.BaseURL.
func NewImmichService(opts ImmichOptions) *ImmichService {
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultImmichURL
	}

	client := opts.HTTPClient
	if client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		client = &http.Client{Timeout: timeout}
	}

	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = defaultSearchPageSize
	}

	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}

	return &ImmichService{
		baseURL:    baseURL,
		apiKey:     opts.APIKey,
		pageSize:   pageSize,
		httpClient: client,
		limiter:    rate.NewLimiter(limit, 1),
	}
}

// Name returns the service name.
func (s *ImmichService) Name() string {
	return "Immich"
}

func (s *ImmichService) doRequest(ctx context.Context, method, endpoint string, body, result any) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return &UpstreamError{Method: method, Path: endpoint, Err: err}
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("x-api-key", s.apiKey)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return &UpstreamError{Method: method, Path: endpoint, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		return &UpstreamError{Method: method, Path: endpoint, StatusCode: resp.StatusCode, Body: string(data)}
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil && !errors.Is(err, io.EOF) {
			return &UpstreamError{Method: method, Path: endpoint, StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to decode response: %w", err)}
		}
	}

	return nil
}

// ServerVersion calls GET /api/server/version.
func (s *ImmichService) ServerVersion(ctx context.Context) (models.ServerVersion, error) {
	var v models.ServerVersion
	if err := s.doRequest(ctx, http.MethodGet, "/api/server/version", nil, &v); err != nil {
		return models.ServerVersion{}, err
	}
	return v, nil
}

// ListPeople pages through GET /api/people, excluding hidden people.
func (s *ImmichService) ListPeople(ctx context.Context) ([]models.Person, error) {
	var people []models.Person

	for page := 1; ; page++ {
		var resp struct {
			People      []models.Person `json:"people"`
			HasNextPage bool            `json:"hasNextPage"`
		}

		params := url.Values{}
		params.Set("page", strconv.Itoa(page))
		params.Set("size", strconv.Itoa(peoplePageSize))
		params.Set("withHidden", "false")

		if err := s.doRequest(ctx, http.MethodGet, "/api/people?"+params.Encode(), nil, &resp); err != nil {
			return nil, err
		}

		people = append(people, resp.People...)
		if !resp.HasNextPage || len(resp.People) == 0 {
			return people, nil
		}
	}
}

// ListTags calls GET /api/tags.
func (s *ImmichService) ListTags(ctx context.Context) ([]models.Tag, error) {
	var tags []models.Tag
	if err := s.doRequest(ctx, http.MethodGet, "/api/tags", nil, &tags); err != nil {
		return nil, err
	}
	return tags, nil
}

// ListAlbums calls GET /api/albums?shared=false.
func (s *ImmichService) ListAlbums(ctx context.Context) ([]models.Album, error) {
	var albums []models.Album
	if err := s.doRequest(ctx, http.MethodGet, "/api/albums?shared=false", nil, &albums); err != nil {
		return nil, err
	}
	return albums, nil
}

// CreateAlbum calls POST /api/albums.
func (s *ImmichService) CreateAlbum(ctx context.Context, name string) (*models.Album, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: album name", shared.ErrMissingArgument)
	}

	var album models.Album
	body := map[string]string{"albumName": name}
	if err := s.doRequest(ctx, http.MethodPost, "/api/albums", body, &album); err != nil {
		return nil, err
	}
	return &album, nil
}

// GetAlbum calls GET /api/albums/{id}.
func (s *ImmichService) GetAlbum(ctx context.Context, albumID string, withAssets bool) (*models.Album, error) {
	endpoint := fmt.Sprintf("/api/albums/%s?withoutAssets=%t", url.PathEscape(albumID), !withAssets)

	var album models.Album
	if err := s.doRequest(ctx, http.MethodGet, endpoint, nil, &album); err != nil {
		var upstream *UpstreamError
		if errors.As(err, &upstream) && upstream.NotFound() {
			return nil, fmt.Errorf("%w: %s: %w", shared.ErrAlbumNotFound, albumID, err)
		}
		return nil, err
	}
	return &album, nil
}

type searchRequest struct {
	IsVisible   bool     `json:"isVisible"`
	WithExif    bool     `json:"withExif"`
	Country     string   `json:"country,omitempty"`
	State       string   `json:"state,omitempty"`
	City        string   `json:"city,omitempty"`
	TakenAfter  string   `json:"takenAfter,omitempty"`
	TakenBefore string   `json:"takenBefore,omitempty"`
	IsFavorite  *bool    `json:"isFavorite,omitempty"`
	PersonIDs   []string `json:"personIds,omitempty"`
	TagIDs      []string `json:"tagIds,omitempty"`
	Type        string   `json:"type,omitempty"`
	Size        int      `json:"size"`
	Page        int      `json:"page"`
}

type searchResponse struct {
	Assets struct {
		Items    []models.Asset `json:"items"`
		NextPage *string        `json:"nextPage"`
	} `json:"assets"`
}

func newSearchRequest(q models.AtomicQuery) searchRequest {
	req := searchRequest{
		IsVisible:  true,
		WithExif:   true,
		Country:    q.Country,
		State:      q.State,
		City:       q.City,
		IsFavorite: q.Favorite,
		PersonIDs:  q.PersonIDs,
		TagIDs:     q.TagIDs,
		Type:       q.Type,
	}
	if q.After != nil {
		req.TakenAfter = q.After.Format(searchTimeLayout)
	}
	if q.Before != nil {
		req.TakenBefore = q.Before.Format(searchTimeLayout)
	}
	return req
}

// Search pages through POST /api/search/metadata until a page comes back empty or short.
func (s *ImmichService) Search(ctx context.Context, query models.AtomicQuery) ([]models.Asset, error) {
	req := newSearchRequest(query)
	req.Size = s.pageSize

	var assets []models.Asset
	for page := 1; ; page++ {
		req.Page = page

		var resp searchResponse
		if err := s.doRequest(ctx, http.MethodPost, "/api/search/metadata", req, &resp); err != nil {
			return nil, err
		}

		items := resp.Assets.Items
		assets = append(assets, items...)
		if len(items) < s.pageSize {
			return assets, nil
		}
	}
}

type bulkIDs struct {
	IDs []string `json:"ids"`
}

// AddAssets calls PUT /api/albums/{id}/assets.
func (s *ImmichService) AddAssets(ctx context.Context, albumID string, assetIDs []string) error {
	endpoint := fmt.Sprintf("/api/albums/%s/assets", url.PathEscape(albumID))
	return s.doRequest(ctx, http.MethodPut, endpoint, bulkIDs{IDs: assetIDs}, nil)
}

// RemoveAssets calls DELETE /api/albums/{id}/assets.
func (s *ImmichService) RemoveAssets(ctx context.Context, albumID string, assetIDs []string) error {
	endpoint := fmt.Sprintf("/api/albums/%s/assets", url.PathEscape(albumID))
	return s.doRequest(ctx, http.MethodDelete, endpoint, bulkIDs{IDs: assetIDs}, nil)
}
