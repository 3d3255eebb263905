package metadata

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/vmunix/tvkeep/pkg/tvdb"
)

const (
	seriesTTL = 7 * 24 * time.Hour
	searchTTL = time.Hour
)

// Cache key prefixes
const (
	keyPrefixSearch = "tvdb:search:"
	keyPrefixSeries = "tvdb:series:"
)

// TVDB is the subset of the TVDB client the service uses.
type TVDB interface {
	Search(ctx context.Context, query string) ([]tvdb.SearchResult, error)
	GetSeries(ctx context.Context, id int) (*tvdb.Series, error)
}

// TVDBService provides cached access to TVDB metadata. Only successful
// responses are cached; a missing series is never remembered.
type TVDBService struct {
	client TVDB
	cache  *Cache
	log    *slog.Logger
}

// NewTVDBService creates a new TVDB service. A nil cache disables caching.
func NewTVDBService(client TVDB, cache *Cache, log *slog.Logger) *TVDBService {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &TVDBService{
		client: client,
		cache:  cache,
		log:    log.With("component", "metadata"),
	}
}

func searchKey(query string) string {
	return keyPrefixSearch + strings.ToLower(strings.TrimSpace(query))
}

func seriesKey(tvdbID int) string {
	return keyPrefixSeries + strconv.Itoa(tvdbID)
}

// Search searches for series by name (cached). Results keep TVDB's ranking.
func (s *TVDBService) Search(ctx context.Context, query string) ([]tvdb.SearchResult, error) {
	key := searchKey(query)

	var results []tvdb.SearchResult
	if s.lookup(ctx, key, &results) {
		s.log.Debug("cache hit for search", "query", query, "results", len(results))
		return results, nil
	}

	results, err := s.client.Search(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	s.store(ctx, key, results, searchTTL)
	return results, nil
}

// GetSeries fetches series metadata by TVDB ID (cached).
// Returns tvdb.ErrNotFound if TVDB has no such series.
func (s *TVDBService) GetSeries(ctx context.Context, tvdbID int) (*tvdb.Series, error) {
	key := seriesKey(tvdbID)

	var series tvdb.Series
	if s.lookup(ctx, key, &series) {
		s.log.Debug("cache hit for series", "tvdb_id", tvdbID, "name", series.Name)
		return &series, nil
	}

	found, err := s.client.GetSeries(ctx, tvdbID)
	if err != nil {
		return nil, fmt.Errorf("get series: %w", err)
	}

	s.store(ctx, key, found, seriesTTL)
	return found, nil
}

// InvalidateSeries removes the cached record for a series.
func (s *TVDBService) InvalidateSeries(ctx context.Context, tvdbID int) error {
	if s.cache == nil {
		return nil
	}
	if err := s.cache.Delete(ctx, seriesKey(tvdbID)); err != nil {
		return fmt.Errorf("invalidate series %d: %w", tvdbID, err)
	}
	s.log.Debug("invalidated series cache", "tvdb_id", tvdbID)
	return nil
}

// lookup reads key from the cache. Cache failures are logged and treated
// as misses so a broken cache never blocks provider access.
func (s *TVDBService) lookup(ctx context.Context, key string, out any) bool {
	if s.cache == nil {
		return false
	}
	hit, err := s.cache.getJSON(ctx, key, out)
	if err != nil {
		s.log.Warn("cache read failed", "key", key, "error", err)
		return false
	}
	if !hit {
		s.log.Debug("cache miss", "key", key)
	}
	return hit
}

func (s *TVDBService) store(ctx context.Context, key string, v any, ttl time.Duration) {
	if s.cache == nil {
		return
	}
	if err := s.cache.setJSON(ctx, key, v, ttl); err != nil {
		s.log.Warn("cache write failed", "key", key, "error", err)
	}
}

// isNotFound reports whether err is TVDB's not-found response.
func isNotFound(err error) bool {
	return errors.Is(err, tvdb.ErrNotFound)
}
