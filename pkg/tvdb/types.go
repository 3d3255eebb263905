// Package tvdb provides a client for the TVDB API v4.
package tvdb

// Series is the full TVDB record for a series.
type Series struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Year     int    `json:"year"`   // Extracted from firstAired
	Status   string `json:"status"` // "Continuing", "Ended", "Upcoming"
	Overview string `json:"overview"`
	Network  string `json:"network"`
}

// SearchResult is a ranked summary returned by the search endpoint.
type SearchResult struct {
	ID       int    `json:"tvdb_id"`
	Name     string `json:"name"`
	Year     int    `json:"year"`
	Status   string `json:"status"`
	Overview string `json:"overview"`
	Network  string `json:"network"`
}

type loginResponse struct {
	Status string `json:"status"`
	Data   struct {
		Token string `json:"token"`
	} `json:"data"`
}

type searchItem struct {
	ObjectID string `json:"objectID"`
	Name     string `json:"name"`
	Year     string `json:"year"`
	Status   string `json:"status"`
	Overview string `json:"overview"`
	Network  string `json:"network"`
	TVDBID   string `json:"tvdb_id"`
}

type searchResponse struct {
	Status string       `json:"status"`
	Data   []searchItem `json:"data"`
}

// named is the {"name": ...} shape TVDB uses for nested lookups.
type named struct {
	Name string `json:"name"`
}

type seriesRecord struct {
	ID              int    `json:"id"`
	Name            string `json:"name"`
	Status          named  `json:"status"`
	Overview        string `json:"overview"`
	FirstAired      string `json:"firstAired"` // YYYY-MM-DD
	OriginalNetwork named  `json:"originalNetwork"`
}

type seriesResponse struct {
	Status string       `json:"status"`
	Data   seriesRecord `json:"data"`
}
