// internal/library/testutil_test.go
package library

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vmunix/tvkeep/internal/database"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.OpenAndMigrate(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// catalog is the behavior shared by Store and MemStore.
type catalog interface {
	Exists(ctx context.Context, tvdbID int64) (bool, error)
	Insert(ctx context.Context, s *Series) error
	GetByTVDBID(ctx context.Context, tvdbID int64) (*Series, error)
	All(ctx context.Context) ([]*Series, error)
}

// forEachCatalog runs fn against a fresh SQLite store and a fresh MemStore.
func forEachCatalog(t *testing.T, fn func(t *testing.T, c catalog)) {
	t.Run("sqlite", func(t *testing.T) { fn(t, NewStore(setupTestDB(t))) })
	t.Run("memory", func(t *testing.T) { fn(t, NewMemStore()) })
}

func testSeries(tvdbID int64, title string) *Series {
	return &Series{
		TVDBID:           tvdbID,
		Title:            title,
		Path:             "/tv/" + title,
		QualityProfileID: 1,
		Monitored:        true,
		SeasonFolder:     true,
	}
}
