package testing

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/desertthunder/albumsync/internal/models"
	"github.com/desertthunder/albumsync/internal/shared"
)

// FakeAsset is an asset held by [FakePhotoService] together with the metadata searches match on.
type FakeAsset struct {
	ID        string
	Country   string
	State     string
	City      string
	TakenAt   time.Time
	Favorite  bool
	PersonIDs []string
	TagIDs    []string
	Type      string
}

// FakePhotoService is an in-memory photo server implementing services.PhotoService.
//
// Every call is appended to Calls as "Method arg..." so tests can assert on
// ordering. Fail injects an error for the named method.
type FakePhotoService struct {
	mu sync.Mutex

	Version models.ServerVersion
	People  []models.Person
	Tags    []models.Tag
	Assets  []FakeAsset
	Albums  map[string]*models.Album
	Members map[string]models.AssetIDSet

	Fail  map[string]error
	Calls []string

	nextAlbum int
}

// NewFakePhotoService returns an empty server reporting version 1.118.0.
func NewFakePhotoService() *FakePhotoService {
	return &FakePhotoService{
		Version: models.ServerVersion{Major: 1, Minor: 118, Patch: 0},
		Albums:  map[string]*models.Album{},
		Members: map[string]models.AssetIDSet{},
		Fail:    map[string]error{},
	}
}

// AddAlbum seeds an existing album with the given members and returns its ID.
func (f *FakePhotoService) AddAlbum(name string, assetIDs ...string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.addAlbum(name, assetIDs...)
}

func (f *FakePhotoService) addAlbum(name string, assetIDs ...string) string {
	f.nextAlbum++
	id := fmt.Sprintf("album-%d", f.nextAlbum)
	f.Albums[id] = &models.Album{ID: id, Name: name}
	f.Members[id] = models.NewAssetIDSet(assetIDs...)
	return id
}

// AlbumMembers returns the sorted members of the album called name.
func (f *FakePhotoService) AlbumMembers(name string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, a := range f.Albums {
		if a.Name == name {
			return f.Members[id].Sorted()
		}
	}
	return nil
}

// CallsTo returns the recorded calls whose method is one of methods.
func (f *FakePhotoService) CallsTo(methods ...string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, c := range f.Calls {
		method, _, _ := strings.Cut(c, " ")
		if slices.Contains(methods, method) {
			out = append(out, c)
		}
	}
	return out
}

// ResetCalls clears the call log.
func (f *FakePhotoService) ResetCalls() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = nil
}

func (f *FakePhotoService) record(method string, args ...string) error {
	f.Calls = append(f.Calls, strings.TrimSpace(method+" "+strings.Join(args, " ")))
	return f.Fail[method]
}

func (f *FakePhotoService) Name() string { return "fake" }

func (f *FakePhotoService) ServerVersion(ctx context.Context) (models.ServerVersion, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("ServerVersion"); err != nil {
		return models.ServerVersion{}, err
	}
	return f.Version, nil
}

func (f *FakePhotoService) ListPeople(ctx context.Context) ([]models.Person, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("ListPeople"); err != nil {
		return nil, err
	}
	return slices.Clone(f.People), nil
}

func (f *FakePhotoService) ListTags(ctx context.Context) ([]models.Tag, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("ListTags"); err != nil {
		return nil, err
	}
	return slices.Clone(f.Tags), nil
}

func (f *FakePhotoService) ListAlbums(ctx context.Context) ([]models.Album, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("ListAlbums"); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(f.Albums))
	for id := range f.Albums {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	albums := make([]models.Album, 0, len(ids))
	for _, id := range ids {
		a := *f.Albums[id]
		a.AssetCount = f.Members[id].Len()
		albums = append(albums, a)
	}
	return albums, nil
}

func (f *FakePhotoService) CreateAlbum(ctx context.Context, name string) (*models.Album, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("CreateAlbum", name); err != nil {
		return nil, err
	}
	id := f.addAlbum(name)
	a := *f.Albums[id]
	return &a, nil
}

func (f *FakePhotoService) GetAlbum(ctx context.Context, albumID string, withAssets bool) (*models.Album, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("GetAlbum", albumID); err != nil {
		return nil, err
	}

	stored, ok := f.Albums[albumID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", shared.ErrAlbumNotFound, albumID)
	}

	a := *stored
	a.AssetCount = f.Members[albumID].Len()
	if withAssets {
		for _, id := range f.Members[albumID].Sorted() {
			a.Assets = append(a.Assets, models.Asset{ID: id})
		}
	}
	return &a, nil
}

func (f *FakePhotoService) Search(ctx context.Context, q models.AtomicQuery) ([]models.Asset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("Search", q.String()); err != nil {
		return nil, err
	}

	var out []models.Asset
	for _, a := range f.Assets {
		if matches(a, q) {
			out = append(out, models.Asset{ID: a.ID})
		}
	}
	return out, nil
}

func (f *FakePhotoService) AddAssets(ctx context.Context, albumID string, assetIDs []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("AddAssets", albumID, strings.Join(assetIDs, ",")); err != nil {
		return err
	}
	members, ok := f.Members[albumID]
	if !ok {
		return fmt.Errorf("%w: %s", shared.ErrAlbumNotFound, albumID)
	}
	members.Add(assetIDs...)
	return nil
}

func (f *FakePhotoService) RemoveAssets(ctx context.Context, albumID string, assetIDs []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("RemoveAssets", albumID, strings.Join(assetIDs, ",")); err != nil {
		return err
	}
	members, ok := f.Members[albumID]
	if !ok {
		return fmt.Errorf("%w: %s", shared.ErrAlbumNotFound, albumID)
	}
	for _, id := range assetIDs {
		delete(members, id)
	}
	return nil
}

func matches(a FakeAsset, q models.AtomicQuery) bool {
	switch {
	case q.Country != "" && a.Country != q.Country,
		q.State != "" && a.State != q.State,
		q.City != "" && a.City != q.City,
		q.Type != "" && a.Type != q.Type,
		q.Favorite != nil && a.Favorite != *q.Favorite,
		q.After != nil && a.TakenAt.Before(*q.After),
		q.Before != nil && !a.TakenAt.Before(*q.Before):
		return false
	}
	for _, id := range q.PersonIDs {
		if !slices.Contains(a.PersonIDs, id) {
			return false
		}
	}
	for _, id := range q.TagIDs {
		if !slices.Contains(a.TagIDs, id) {
			return false
		}
	}
	return true
}
