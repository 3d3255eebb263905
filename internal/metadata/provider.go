package metadata

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"golang.org/x/sync/singleflight"

	"github.com/vmunix/tvkeep/internal/series"
	"github.com/vmunix/tvkeep/pkg/tvdb"
)

// Provider implements series.MetadataClient over TheTVDB.
// Concurrent identical requests share one upstream call.
type Provider struct {
	service *TVDBService
	group   singleflight.Group
}

var _ series.MetadataClient = (*Provider)(nil)

// NewProvider creates a provider over the cached TVDB service.
func NewProvider(service *TVDBService) *Provider {
	return &Provider{service: service}
}

// do runs fn once per key across concurrent callers. The shared call is
// detached from any single caller's cancellation; each caller stops waiting
// when its own ctx is done.
func (p *Provider) do(ctx context.Context, key string, fn func(context.Context) (any, error)) (any, error) {
	shared := context.WithoutCancel(ctx)
	ch := p.group.DoChan(key, func() (any, error) {
		return fn(shared)
	})
	select {
	case res := <-ch:
		return res.Val, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// SearchByTitle returns TVDB's ranked candidates for text.
// No matches is an empty slice and a nil error.
func (p *Provider) SearchByTitle(ctx context.Context, text string) ([]series.SearchResult, error) {
	v, err := p.do(ctx, "search:"+text, func(ctx context.Context) (any, error) {
		return p.service.Search(ctx, text)
	})
	if err != nil {
		if isNotFound(err) {
			return []series.SearchResult{}, nil
		}
		return nil, err
	}

	hits := v.([]tvdb.SearchResult)
	results := make([]series.SearchResult, 0, len(hits))
	for _, h := range hits {
		results = append(results, series.SearchResult{
			TVDBID: int64(h.ID),
			Title:  h.Name,
			Year:   h.Year,
		})
	}
	return results, nil
}

// FetchByID returns the full record for tvdbID. ok is false when TVDB has
// no such series.
func (p *Provider) FetchByID(ctx context.Context, tvdbID int64) (series.Metadata, bool, error) {
	if tvdbID <= 0 || tvdbID > math.MaxInt {
		return series.Metadata{}, false, nil
	}

	v, err := p.do(ctx, "series:"+strconv.FormatInt(tvdbID, 10), func(ctx context.Context) (any, error) {
		return p.service.GetSeries(ctx, int(tvdbID))
	})
	if err != nil {
		if isNotFound(err) {
			return series.Metadata{}, false, nil
		}
		return series.Metadata{}, false, fmt.Errorf("fetch series %d: %w", tvdbID, err)
	}

	s := v.(*tvdb.Series)
	return series.Metadata{
		TVDBID:   int64(s.ID),
		Title:    s.Name,
		Year:     s.Year,
		Status:   s.Status,
		Overview: s.Overview,
		Network:  s.Network,
	}, true, nil
}
