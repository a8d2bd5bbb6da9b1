package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/albumsync/internal/models"
	"github.com/desertthunder/albumsync/internal/shared"
	tu "github.com/desertthunder/albumsync/internal/testing"
)

func newTestImmich(t *testing.T, handler http.HandlerFunc, pageSize int) *ImmichService {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewImmichService(ImmichOptions{BaseURL: server.URL, APIKey: "test-key", PageSize: pageSize})
}

func TestImmichService(t *testing.T) {
	t.Run("NewImmichService", func(t *testing.T) {
		t.Run("applies defaults", func(t *testing.T) {
			svc := NewImmichService(ImmichOptions{})
			if svc.baseURL != DefaultImmichURL {
				t.Errorf("expected baseURL %s, got %s", DefaultImmichURL, svc.baseURL)
			}
			if svc.pageSize != defaultSearchPageSize {
				t.Errorf("expected page size %d, got %d", defaultSearchPageSize, svc.pageSize)
			}
			if svc.httpClient.Timeout != defaultTimeout {
				t.Errorf("expected timeout %s, got %s", defaultTimeout, svc.httpClient.Timeout)
			}
		})

		t.Run("trims trailing slash and keeps custom client", func(t *testing.T) {
			client := &http.Client{}
			svc := NewImmichService(ImmichOptions{BaseURL: "http://photos:2283/", HTTPClient: client, Timeout: time.Second})
			if svc.baseURL != "http://photos:2283" {
				t.Errorf("unexpected baseURL %s", svc.baseURL)
			}
			if svc.httpClient != client {
				t.Error("expected custom client to be used")
			}
		})
	})

	t.Run("Name", func(t *testing.T) {
		if name := NewImmichService(ImmichOptions{}).Name(); name != "Immich" {
			t.Errorf("expected name 'Immich', got %s", name)
		}
	})

	t.Run("sends auth headers", func(t *testing.T) {
		svc := newTestImmich(t, func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("x-api-key") != "test-key" {
				t.Errorf("expected x-api-key header, got %q", r.Header.Get("x-api-key"))
			}
			if r.Header.Get("Accept") != "application/json" || r.Header.Get("Content-Type") != "application/json" {
				t.Error("expected JSON Accept and Content-Type headers")
			}
			json.NewEncoder(w).Encode(map[string]int{"major": 1, "minor": 118, "patch": 2})
		}, 0)

		v, err := svc.ServerVersion(context.Background())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if v.String() != "1.118.2" {
			t.Errorf("expected 1.118.2, got %s", v)
		}
	})

	t.Run("ListPeople follows hasNextPage", func(t *testing.T) {
		var pages []string
		svc := newTestImmich(t, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/api/people" {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			q := r.URL.Query()
			if q.Get("size") != "1000" || q.Get("withHidden") != "false" {
				t.Errorf("unexpected query %s", r.URL.RawQuery)
			}
			pages = append(pages, q.Get("page"))

			switch q.Get("page") {
			case "1":
				fmt.Fprint(w, `{"people":[{"id":"p1","name":"Alice"},{"id":"p2","name":""}],"hasNextPage":true}`)
			default:
				fmt.Fprint(w, `{"people":[{"id":"p3","name":"Bob"}],"hasNextPage":false}`)
			}
		}, 0)

		people, err := svc.ListPeople(context.Background())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(people) != 3 || people[2].Name != "Bob" {
			t.Errorf("unexpected people %+v", people)
		}
		if strings.Join(pages, ",") != "1,2" {
			t.Errorf("expected pages 1,2, got %v", pages)
		}
	})

	t.Run("ListTags", func(t *testing.T) {
		svc := newTestImmich(t, func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `[{"id":"t1","name":"Japan","value":"Trips/Japan"}]`)
		}, 0)

		tags, err := svc.ListTags(context.Background())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(tags) != 1 || tags[0].Value != "Trips/Japan" {
			t.Errorf("unexpected tags %+v", tags)
		}
	})

	t.Run("ListAlbums excludes shared", func(t *testing.T) {
		svc := newTestImmich(t, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Query().Get("shared") != "false" {
				t.Errorf("expected shared=false, got %s", r.URL.RawQuery)
			}
			fmt.Fprint(w, `[{"id":"a1","albumName":"Japan 2024","assetCount":3}]`)
		}, 0)

		albums, err := svc.ListAlbums(context.Background())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(albums) != 1 || albums[0].Name != "Japan 2024" || albums[0].AssetCount != 3 {
			t.Errorf("unexpected albums %+v", albums)
		}
	})

	t.Run("CreateAlbum", func(t *testing.T) {
		svc := newTestImmich(t, func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost || r.URL.Path != "/api/albums" {
				t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
			}
			var body map[string]string
			json.NewDecoder(r.Body).Decode(&body)
			w.WriteHeader(http.StatusCreated)
			fmt.Fprintf(w, `{"id":"new","albumName":%q}`, body["albumName"])
		}, 0)

		album, err := svc.CreateAlbum(context.Background(), "Family")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if album.ID != "new" || album.Name != "Family" {
			t.Errorf("unexpected album %+v", album)
		}

		if _, err := svc.CreateAlbum(context.Background(), ""); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})

	t.Run("GetAlbum", func(t *testing.T) {
		svc := newTestImmich(t, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/api/albums/missing" {
				w.WriteHeader(http.StatusNotFound)
				fmt.Fprint(w, `{"message":"Not found"}`)
				return
			}
			if r.URL.Query().Get("withoutAssets") != "false" {
				t.Errorf("expected withoutAssets=false, got %s", r.URL.RawQuery)
			}
			fmt.Fprint(w, `{"id":"a1","albumName":"Japan","assets":[{"id":"x"},{"id":"y"}]}`)
		}, 0)

		album, err := svc.GetAlbum(context.Background(), "a1", true)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(album.Assets) != 2 {
			t.Errorf("expected 2 assets, got %d", len(album.Assets))
		}

		_, err = svc.GetAlbum(context.Background(), "missing", true)
		if !errors.Is(err, shared.ErrAlbumNotFound) || !errors.Is(err, shared.ErrUpstream) {
			t.Errorf("expected ErrAlbumNotFound wrapping ErrUpstream, got %v", err)
		}
	})

	t.Run("Search", func(t *testing.T) {
		t.Run("builds request body", func(t *testing.T) {
			after := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
			before := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
			fav := false

			svc := newTestImmich(t, func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost || r.URL.Path != "/api/search/metadata" {
					t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
				}
				var body map[string]any
				if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
					t.Fatalf("bad body: %v", err)
				}

				want := map[string]any{
					"isVisible":   true,
					"withExif":    true,
					"country":     "Japan",
					"takenAfter":  "2024-01-01T00:00:00",
					"takenBefore": "2024-01-02T00:00:00",
					"isFavorite":  false,
					"type":        "IMAGE",
					"size":        float64(10),
					"page":        float64(1),
				}
				for k, v := range want {
					if body[k] != v {
						t.Errorf("body[%s] = %v, want %v", k, body[k], v)
					}
				}
				if _, ok := body["city"]; ok {
					t.Error("unset fields must be omitted")
				}
				if ids, _ := body["personIds"].([]any); len(ids) != 1 || ids[0] != "p1" {
					t.Errorf("personIds = %v", body["personIds"])
				}
				fmt.Fprint(w, `{"assets":{"items":[{"id":"x"}]}}`)
			}, 10)

			q := models.AtomicQuery{Country: "Japan", After: &after, Before: &before, Favorite: &fav, PersonIDs: []string{"p1"}, Type: models.MediaImage}
			assets, err := svc.Search(context.Background(), q)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(assets) != 1 {
				t.Errorf("expected 1 asset, got %d", len(assets))
			}
		})

		t.Run("pages until a short page", func(t *testing.T) {
			calls := 0
			svc := newTestImmich(t, func(w http.ResponseWriter, r *http.Request) {
				calls++
				var body struct {
					Page int `json:"page"`
				}
				json.NewDecoder(r.Body).Decode(&body)
				switch body.Page {
				case 1:
					fmt.Fprint(w, `{"assets":{"items":[{"id":"a"},{"id":"b"}]}}`)
				case 2:
					fmt.Fprint(w, `{"assets":{"items":[{"id":"c"},{"id":"d"}]}}`)
				default:
					fmt.Fprint(w, `{"assets":{"items":[{"id":"e"}]}}`)
				}
			}, 2)

			assets, err := svc.Search(context.Background(), models.AtomicQuery{})
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(assets) != 5 || calls != 3 {
				t.Errorf("expected 5 assets in 3 calls, got %d in %d", len(assets), calls)
			}
		})

		t.Run("stops on an empty page", func(t *testing.T) {
			calls := 0
			svc := newTestImmich(t, func(w http.ResponseWriter, r *http.Request) {
				calls++
				if calls == 1 {
					fmt.Fprint(w, `{"assets":{"items":[{"id":"a"},{"id":"b"}]}}`)
					return
				}
				fmt.Fprint(w, `{"assets":{"items":[]}}`)
			}, 2)

			assets, err := svc.Search(context.Background(), models.AtomicQuery{})
			if err != nil || len(assets) != 2 || calls != 2 {
				t.Errorf("got %d assets in %d calls, err %v", len(assets), calls, err)
			}
		})
	})

	t.Run("AddAssets and RemoveAssets", func(t *testing.T) {
		var got []string
		svc := newTestImmich(t, func(w http.ResponseWriter, r *http.Request) {
			var body struct {
				IDs []string `json:"ids"`
			}
			json.NewDecoder(r.Body).Decode(&body)
			got = append(got, r.Method+" "+r.URL.Path+" "+strings.Join(body.IDs, ","))
			fmt.Fprint(w, `[]`)
		}, 0)

		ctx := context.Background()
		if err := svc.RemoveAssets(ctx, "a1", []string{"c"}); err != nil {
			t.Fatalf("RemoveAssets: %v", err)
		}
		if err := svc.AddAssets(ctx, "a1", []string{"a", "b"}); err != nil {
			t.Fatalf("AddAssets: %v", err)
		}

		want := []string{"DELETE /api/albums/a1/assets c", "PUT /api/albums/a1/assets a,b"}
		if strings.Join(got, "|") != strings.Join(want, "|") {
			t.Errorf("calls = %v, want %v", got, want)
		}
	})

	t.Run("errors", func(t *testing.T) {
		t.Run("status >= 400 is an UpstreamError", func(t *testing.T) {
			svc := newTestImmich(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
				io.WriteString(w, "boom")
			}, 0)

			_, err := svc.ListTags(context.Background())

			var upstream *UpstreamError
			if !errors.As(err, &upstream) {
				t.Fatalf("expected UpstreamError, got %v", err)
			}
			if upstream.StatusCode != 500 || upstream.Method != http.MethodGet || upstream.Path != "/api/tags" || upstream.Body != "boom" {
				t.Errorf("unexpected error fields %+v", upstream)
			}
			if !errors.Is(err, shared.ErrUpstream) {
				t.Error("expected error to wrap ErrUpstream")
			}
		})

		t.Run("transport failure is not retried", func(t *testing.T) {
			client := &http.Client{Transport: tu.NewMockRoundTripper(nil, errors.New("connection refused"))}
			svc := NewImmichService(ImmichOptions{BaseURL: "http://photos", HTTPClient: client})

			_, err := svc.ListAlbums(context.Background())
			if !errors.Is(err, shared.ErrUpstream) {
				t.Errorf("expected ErrUpstream, got %v", err)
			}
			if !strings.Contains(err.Error(), "connection refused") {
				t.Errorf("expected cause in message, got %v", err)
			}
		})

		t.Run("canceled context", func(t *testing.T) {
			svc := newTestImmich(t, func(w http.ResponseWriter, r *http.Request) {}, 0)
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			if _, err := svc.ServerVersion(ctx); !errors.Is(err, context.Canceled) {
				t.Errorf("expected context.Canceled, got %v", err)
			}
		})
	})
}

func TestCheckVersion(t *testing.T) {
	tc := []struct {
		name    string
		version models.ServerVersion
		min     string
		wantErr error
	}{
		{name: "newer", version: models.ServerVersion{Major: 1, Minor: 118, Patch: 2}, min: "1.100.0"},
		{name: "equal", version: models.ServerVersion{Major: 1, Minor: 100, Patch: 0}, min: "1.100.0"},
		{name: "major bump", version: models.ServerVersion{Major: 2, Minor: 0, Patch: 0}, min: "1.100.0"},
		{name: "older", version: models.ServerVersion{Major: 1, Minor: 99, Patch: 9}, min: "1.100.0", wantErr: shared.ErrUnsupportedVersion},
		{name: "no minimum", version: models.ServerVersion{}, min: ""},
		{name: "bad minimum", version: models.ServerVersion{Major: 1}, min: "one", wantErr: shared.ErrInvalidConfig},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckVersion(tt.version, tt.min)
			if tt.wantErr == nil && err != nil {
				t.Errorf("expected no error, got %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}
