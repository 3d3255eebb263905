// Package series reconciles folders and provider metadata into catalog
// entries, and answers title and monitoring lookups against the catalog.
package series

import (
	"context"

	"github.com/vmunix/tvkeep/internal/events"
	"github.com/vmunix/tvkeep/internal/library"
)

// SearchResult is a ranked summary from a provider title search.
type SearchResult struct {
	TVDBID int64
	Title  string
	Year   int
}

// Metadata is the provider's full record for one series.
type Metadata struct {
	TVDBID   int64
	Title    string
	Year     int
	Status   string
	Overview string
	Network  string
}

//go:generate mockgen -destination=mocks/mock_series.go -package=mocks github.com/vmunix/tvkeep/internal/series Catalog,MetadataClient

// MetadataClient looks series up at the external metadata provider.
// Search and full-record fetch are separate capabilities.
type MetadataClient interface {
	// SearchByTitle returns candidates in provider rank order.
	// No candidates is an empty slice and a nil error.
	SearchByTitle(ctx context.Context, text string) ([]SearchResult, error)

	// FetchByID returns the full record, or ok=false if the provider
	// has no series with that ID.
	FetchByID(ctx context.Context, tvdbID int64) (meta Metadata, ok bool, err error)
}

// Catalog persists catalog entries. Insert must be atomic with respect to
// its own existence check and fail with library.ErrDuplicate when the TVDB
// ID is already present. GetByTVDBID fails with library.ErrNotFound.
type Catalog interface {
	Exists(ctx context.Context, tvdbID int64) (bool, error)
	Insert(ctx context.Context, s *library.Series) error
	All(ctx context.Context) ([]*library.Series, error)
	GetByTVDBID(ctx context.Context, tvdbID int64) (*library.Series, error)
}

// SeasonFolderSource supplies the season-folder default read at add time.
type SeasonFolderSource interface {
	UseSeasonFolder() bool
}

// Publisher receives catalog change events.
type Publisher interface {
	Publish(ctx context.Context, e events.Event) error
}

// StaticSeasonFolder is a SeasonFolderSource with a fixed value.
type StaticSeasonFolder bool

// UseSeasonFolder returns the fixed value.
func (s StaticSeasonFolder) UseSeasonFolder() bool { return bool(s) }
