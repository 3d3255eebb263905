package series

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/vmunix/tvkeep/pkg/release"
)

// Resolution is the outcome of mapping a folder to a provider series.
type Resolution struct {
	Path        string
	SearchTitle string       // Query sent to the provider
	Candidate   SearchResult // Search hit that was selected
	Series      Metadata     // Full record fetched for Candidate
	Confidence  release.MatchConfidence
}

// Resolver maps folder paths to provider series.
type Resolver struct {
	metadata MetadataClient
	log      *slog.Logger
}

// NewResolver creates a resolver. A nil logger discards output.
func NewResolver(metadata MetadataClient, log *slog.Logger) *Resolver {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Resolver{metadata: metadata, log: log.With("component", "resolver")}
}

// ResolveFromPath searches the provider with the folder's unchanged leaf
// name, selects the provider's top-ranked candidate, and fetches that
// candidate's full record. ok is false when the folder has no usable name, the search has no
// candidates, or the provider has no full record for the candidate.
// Provider faults and malformed responses are reported as ErrProvider.
func (r *Resolver) ResolveFromPath(ctx context.Context, path string) (Resolution, bool, error) {
	res := Resolution{Path: path}

	folder := LeafFolder(path)
	res.SearchTitle = folder
	if res.SearchTitle == "" {
		r.log.Debug("no folder name to search", "path", path)
		return res, false, nil
	}

	candidates, err := r.metadata.SearchByTitle(ctx, res.SearchTitle)
	if err != nil {
		return res, false, fmt.Errorf("search %q: %w: %w", res.SearchTitle, ErrProvider, err)
	}
	if len(candidates) == 0 {
		r.log.Debug("no search results", "path", path, "query", res.SearchTitle)
		return res, false, nil
	}

	// Provider ranking decides: the first candidate is always the one used.
	res.Candidate = candidates[0]
	if res.Candidate.TVDBID <= 0 {
		return res, false, fmt.Errorf("search %q: top result has tvdb id %d: %w", res.SearchTitle, res.Candidate.TVDBID, ErrProvider)
	}

	meta, found, err := fetchFullRecord(ctx, r.metadata, res.Candidate.TVDBID)
	if err != nil {
		return res, false, err
	}
	if !found {
		r.log.Debug("search result has no full record", "path", path, "tvdb_id", res.Candidate.TVDBID)
		return res, false, nil
	}

	res.Series = meta
	res.Confidence = release.MatchTitle(folder, []string{meta.Title}).Confidence

	r.log.Debug("resolved path",
		"path", path,
		"tvdb_id", meta.TVDBID,
		"title", meta.Title,
		"candidates", len(candidates),
		"confidence", res.Confidence.String())

	return res, true, nil
}

// fetchFullRecord calls FetchByID and rejects records that do not describe
// the requested series.
func fetchFullRecord(ctx context.Context, metadata MetadataClient, tvdbID int64) (Metadata, bool, error) {
	meta, found, err := metadata.FetchByID(ctx, tvdbID)
	if err != nil {
		return Metadata{}, false, fmt.Errorf("fetch tvdb id %d: %w: %w", tvdbID, ErrProvider, err)
	}
	if !found {
		return Metadata{}, false, nil
	}
	if meta.TVDBID != tvdbID {
		return Metadata{}, false, fmt.Errorf("fetch tvdb id %d: record has id %d: %w", tvdbID, meta.TVDBID, ErrProvider)
	}
	if strings.TrimSpace(meta.Title) == "" {
		return Metadata{}, false, fmt.Errorf("fetch tvdb id %d: record has no title: %w", tvdbID, ErrProvider)
	}
	return meta, true, nil
}

// LeafFolder returns the last element of a Windows or POSIX path, ignoring
// trailing separators: `D:\TV Shows\The Simpsons\` gives "The Simpsons".
func LeafFolder(path string) string {
	trimmed := strings.TrimRight(path, `/\`)
	if i := strings.LastIndexAny(trimmed, `/\`); i >= 0 {
		trimmed = trimmed[i+1:]
	}
	return strings.TrimSpace(trimmed)
}
