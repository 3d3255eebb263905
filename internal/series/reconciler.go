package series

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/vmunix/tvkeep/internal/events"
	"github.com/vmunix/tvkeep/internal/library"
	"github.com/vmunix/tvkeep/pkg/release"
)

// Reconciler owns the rules for adding series to the catalog and
// answering lookups against it.
type Reconciler struct {
	catalog   Catalog
	metadata  MetadataClient
	config    SeasonFolderSource
	resolver  *Resolver
	publisher Publisher
	log       *slog.Logger
}

// Option configures a Reconciler.
type Option func(*Reconciler)

// WithLogger sets the logger. The default discards output.
func WithLogger(log *slog.Logger) Option {
	return func(r *Reconciler) {
		r.log = log
	}
}

// WithPublisher sets where SeriesAdded events go. The default publishes nothing.
func WithPublisher(p Publisher) Option {
	return func(r *Reconciler) {
		r.publisher = p
	}
}

// NewReconciler creates a reconciler over the given catalog, provider and
// season-folder configuration.
func NewReconciler(catalog Catalog, metadata MetadataClient, config SeasonFolderSource, opts ...Option) *Reconciler {
	r := &Reconciler{
		catalog:  catalog,
		metadata: metadata,
		config:   config,
		log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.resolver = NewResolver(metadata, r.log)
	r.log = r.log.With("component", "reconciler")
	return r
}

// Resolver returns the path resolver the reconciler uses for AddFromPath.
func (r *Reconciler) Resolver() *Resolver {
	return r.resolver
}

// AddSeries catalogs the series with tvdbID at path. The entry takes its
// title from the provider's full record, is monitored, and records the
// configured season-folder default.
//
// Returns ErrDuplicate if tvdbID is already cataloged (including when a
// concurrent add wins the race), ErrNotFound if the provider has no such
// series, ErrProvider on provider faults and ErrStorage if the insert fails.
// The catalog is unchanged on any error.
func (r *Reconciler) AddSeries(ctx context.Context, path string, tvdbID, qualityProfileID int64) (*library.Series, error) {
	if tvdbID <= 0 {
		return nil, fmt.Errorf("add series: tvdb id %d: %w", tvdbID, library.ErrInvalid)
	}

	found, err := r.catalog.Exists(ctx, tvdbID)
	if err != nil {
		return nil, fmt.Errorf("add series %d: %w: %w", tvdbID, ErrStorage, err)
	}
	if found {
		return nil, fmt.Errorf("add series %d: %w", tvdbID, ErrDuplicate)
	}

	seasonFolder := r.config.UseSeasonFolder()

	meta, found, err := fetchFullRecord(ctx, r.metadata, tvdbID)
	if err != nil {
		return nil, fmt.Errorf("add series %d: %w", tvdbID, err)
	}
	if !found {
		return nil, fmt.Errorf("add series %d: %w", tvdbID, ErrNotFound)
	}

	entry := &library.Series{
		TVDBID:           tvdbID,
		Title:            meta.Title,
		Year:             meta.Year,
		Status:           meta.Status,
		Overview:         meta.Overview,
		Path:             path,
		QualityProfileID: qualityProfileID,
		Monitored:        true,
		SeasonFolder:     seasonFolder,
	}

	if err := r.catalog.Insert(ctx, entry); err != nil {
		if errors.Is(err, library.ErrDuplicate) {
			return nil, fmt.Errorf("add series %d: %w", tvdbID, ErrDuplicate)
		}
		return nil, fmt.Errorf("add series %d: %w: %w", tvdbID, ErrStorage, err)
	}

	r.log.Info("series added",
		"tvdb_id", entry.TVDBID,
		"title", entry.Title,
		"path", entry.Path,
		"quality_profile_id", entry.QualityProfileID,
		"season_folder", entry.SeasonFolder)

	r.publishAdded(ctx, entry)
	return entry, nil
}

func (r *Reconciler) publishAdded(ctx context.Context, s *library.Series) {
	if r.publisher == nil {
		return
	}
	e := &events.SeriesAdded{
		BaseEvent:        events.NewBaseEvent(events.EventSeriesAdded, events.EntitySeries, s.ID),
		TVDBID:           s.TVDBID,
		Title:            s.Title,
		Path:             s.Path,
		QualityProfileID: s.QualityProfileID,
		Monitored:        s.Monitored,
		SeasonFolder:     s.SeasonFolder,
	}
	// The entry is committed; a lost notification must not undo the add.
	if err := r.publisher.Publish(ctx, e); err != nil {
		r.log.Warn("failed to publish series added", "tvdb_id", s.TVDBID, "error", err)
	}
}

// AddFromPath resolves path to a provider series and adds it.
// Returns ErrNotFound if the path does not resolve, otherwise the same
// errors as AddSeries.
func (r *Reconciler) AddFromPath(ctx context.Context, path string, qualityProfileID int64) (*library.Series, error) {
	res, ok, err := r.resolver.ResolveFromPath(ctx, path)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("resolve %q: %w", path, ErrNotFound)
	}
	return r.AddSeries(ctx, path, res.Series.TVDBID, qualityProfileID)
}

// FindSeries returns the first cataloged series, in insertion order, whose
// normalized title equals the normalized query. ok is false when nothing
// matches, whether or not the catalog is empty.
func (r *Reconciler) FindSeries(ctx context.Context, title string) (*library.Series, bool, error) {
	all, err := r.catalog.All(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("find series %q: %w: %w", title, ErrStorage, err)
	}

	want := release.NormalizeTitle(title)
	for _, s := range all {
		if release.NormalizeTitle(s.Title) == want {
			return s, true, nil
		}
	}

	r.log.Debug("no catalog match", "query", title, "normalized", want, "catalog_size", len(all))
	return nil, false, nil
}

// IsMonitored reports whether tvdbID is cataloged and monitored.
// An uncataloged series is not monitored.
func (r *Reconciler) IsMonitored(ctx context.Context, tvdbID int64) (bool, error) {
	s, err := r.catalog.GetByTVDBID(ctx, tvdbID)
	if errors.Is(err, library.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("is monitored %d: %w: %w", tvdbID, ErrStorage, err)
	}
	return s.Monitored, nil
}

// List returns every cataloged series in insertion order.
func (r *Reconciler) List(ctx context.Context) ([]*library.Series, error) {
	all, err := r.catalog.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("list series: %w: %w", ErrStorage, err)
	}
	return all, nil
}
