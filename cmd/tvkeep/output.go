package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/vmunix/tvkeep/internal/library"
)

// seriesView is the JSON and table shape of a catalog entry.
type seriesView struct {
	ID               int64     `json:"id"`
	TVDBID           int64     `json:"tvdb_id"`
	Title            string    `json:"title"`
	Year             int       `json:"year,omitempty"`
	Status           string    `json:"status,omitempty"`
	Path             string    `json:"path"`
	QualityProfileID int64     `json:"quality_profile_id"`
	Monitored        bool      `json:"monitored"`
	SeasonFolder     bool      `json:"season_folder"`
	AddedAt          time.Time `json:"added_at"`
}

func toView(s *library.Series) seriesView {
	return seriesView{
		ID:               s.ID,
		TVDBID:           s.TVDBID,
		Title:            s.Title,
		Year:             s.Year,
		Status:           s.Status,
		Path:             s.Path,
		QualityProfileID: s.QualityProfileID,
		Monitored:        s.Monitored,
		SeasonFolder:     s.SeasonFolder,
		AddedAt:          s.AddedAt,
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func displayTitle(title string, year int) string {
	if year > 0 {
		return fmt.Sprintf("%s (%d)", title, year)
	}
	return title
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func printSeriesTable(w io.Writer, all []*library.Series) {
	fmt.Fprintf(w, "  %-6s %-8s %-36s %-9s %-7s %s\n", "ID", "TVDB", "TITLE", "MONITORED", "SEASONS", "PATH")
	fmt.Fprintln(w, "  "+strings.Repeat("-", 90))
	for _, s := range all {
		fmt.Fprintf(w, "  %-6d %-8d %-36s %-9s %-7s %s\n",
			s.ID,
			s.TVDBID,
			truncate(displayTitle(s.Title, s.Year), 36),
			yesNo(s.Monitored),
			yesNo(s.SeasonFolder),
			s.Path)
	}
}

func printSeries(w io.Writer, s *library.Series) {
	fmt.Fprintf(w, "%s\n", displayTitle(s.Title, s.Year))
	fmt.Fprintf(w, "  TVDB ID:        %d\n", s.TVDBID)
	fmt.Fprintf(w, "  Path:           %s\n", s.Path)
	fmt.Fprintf(w, "  Quality:        %d\n", s.QualityProfileID)
	fmt.Fprintf(w, "  Monitored:      %s\n", yesNo(s.Monitored))
	fmt.Fprintf(w, "  Season folders: %s\n", yesNo(s.SeasonFolder))
	if s.Status != "" {
		fmt.Fprintf(w, "  Status:         %s\n", s.Status)
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 3 {
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}

func formatTimeAgo(t time.Time, now time.Time) string {
	ago := now.Sub(t)
	switch {
	case ago < time.Minute:
		return "just now"
	case ago < time.Hour:
		return fmt.Sprintf("%dm ago", int(ago.Minutes()))
	case ago < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(ago.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(ago.Hours()/24))
	}
}
