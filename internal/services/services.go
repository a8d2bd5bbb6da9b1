// package services defines interface PhotoService for the photo server HTTP API
//
// Immich
package services

import (
	"context"

	"github.com/desertthunder/albumsync/internal/models"
)

// PhotoService defines the operations the album sync needs from a photo server.
type PhotoService interface {
	// ServerVersion reports the server release.
	ServerVersion(ctx context.Context) (models.ServerVersion, error)

	// ListPeople returns every visible person, following pagination.
	ListPeople(ctx context.Context) ([]models.Person, error)

	// ListTags returns every tag.
	ListTags(ctx context.Context) ([]models.Tag, error)

	// ListAlbums returns the albums owned by the authenticated user, without assets.
	ListAlbums(ctx context.Context) ([]models.Album, error)

	// CreateAlbum creates an empty album.
	CreateAlbum(ctx context.Context, name string) (*models.Album, error)

	// GetAlbum retrieves an album, with its member assets when withAssets is set.
	GetAlbum(ctx context.Context, albumID string, withAssets bool) (*models.Album, error)

	// Search runs one atomic query and returns every matching asset across all pages.
	Search(ctx context.Context, query models.AtomicQuery) ([]models.Asset, error)

	// AddAssets adds assets to an album.
	AddAssets(ctx context.Context, albumID string, assetIDs []string) error

	// RemoveAssets removes assets from an album.
	RemoveAssets(ctx context.Context, albumID string, assetIDs []string) error

	// Name returns the name of the service (e.g., "Immich")
	Name() string
}
