package events

import "fmt"

// EntitySeries is the entity type of catalog events. Entity IDs are
// catalog row IDs, not TVDB IDs.
const EntitySeries = "series"

// Catalog event types.
const (
	EventSeriesAdded = "series.added"
)

// SeriesAdded is emitted after a series is committed to the catalog.
type SeriesAdded struct {
	BaseEvent
	TVDBID           int64  `json:"tvdb_id"`
	Title            string `json:"title"`
	Path             string `json:"path"`
	QualityProfileID int64  `json:"quality_profile_id"`
	Monitored        bool   `json:"monitored"`
	SeasonFolder     bool   `json:"season_folder"`
}

// Describe summarizes the added series.
func (e *SeriesAdded) Describe() string {
	return fmt.Sprintf("%s (tvdb %d) at %s", e.Title, e.TVDBID, e.Path)
}
