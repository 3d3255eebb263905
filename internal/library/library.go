// Package library stores the series catalog: one entry per TVDB series,
// keyed uniquely by its TVDB ID.
package library

import (
	"fmt"
	"time"
)

// Series is a catalog entry for a tracked series.
type Series struct {
	ID               int64
	TVDBID           int64 // Unique across the catalog
	Title            string
	Year             int
	Status           string // Provider status, e.g. "Continuing"
	Overview         string
	Path             string
	QualityProfileID int64
	Monitored        bool
	SeasonFolder     bool
	AddedAt          time.Time
}

// validate checks the invariants every persisted entry must satisfy.
func (s *Series) validate() error {
	if s.TVDBID <= 0 {
		return fmt.Errorf("tvdb id %d: %w", s.TVDBID, ErrInvalid)
	}
	if s.Title == "" {
		return fmt.Errorf("tvdb id %d: empty title: %w", s.TVDBID, ErrInvalid)
	}
	return nil
}
