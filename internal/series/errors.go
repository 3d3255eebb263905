package series

import "errors"

var (
	// ErrNotFound indicates an add could not find the series it names.
	// Lookups report absence with ok=false instead.
	ErrNotFound = errors.New("series not found")

	// ErrDuplicate indicates the TVDB ID is already in the catalog.
	ErrDuplicate = errors.New("series already in catalog")

	// ErrProvider indicates the metadata provider failed or returned malformed data.
	ErrProvider = errors.New("metadata provider failure")

	// ErrStorage indicates the catalog could not be read or written.
	ErrStorage = errors.New("catalog storage failure")
)
