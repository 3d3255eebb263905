package library

import (
	"context"
	"fmt"
	"time"
)

const seriesColumns = "id, tvdb_id, title, year, status, overview, path, quality_profile_id, monitored, season_folder, added_at"

type scanner interface {
	Scan(dest ...any) error
}

func scanSeries(row scanner) (*Series, error) {
	s := &Series{}
	err := row.Scan(&s.ID, &s.TVDBID, &s.Title, &s.Year, &s.Status, &s.Overview, &s.Path,
		&s.QualityProfileID, &s.Monitored, &s.SeasonFolder, &s.AddedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func exists(ctx context.Context, q querier, tvdbID int64) (bool, error) {
	var found int
	err := q.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM series WHERE tvdb_id = ?)", tvdbID).Scan(&found)
	if err != nil {
		return false, fmt.Errorf("check series %d: %w", tvdbID, mapSQLiteError(err))
	}
	return found == 1, nil
}

// Exists reports whether a series with the TVDB ID is cataloged.
func (s *Store) Exists(ctx context.Context, tvdbID int64) (bool, error) {
	return exists(ctx, s.db, tvdbID)
}

// Exists reports whether a series with the TVDB ID is cataloged, within a transaction.
func (t *Tx) Exists(ctx context.Context, tvdbID int64) (bool, error) {
	return exists(ctx, t.tx, tvdbID)
}

func insertSeries(ctx context.Context, q querier, s *Series) error {
	now := time.Now().UTC()
	result, err := q.ExecContext(ctx, `
		INSERT INTO series (tvdb_id, title, year, status, overview, path, quality_profile_id, monitored, season_folder, added_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.TVDBID, s.Title, s.Year, s.Status, s.Overview, s.Path, s.QualityProfileID, s.Monitored, s.SeasonFolder, now,
	)
	if err != nil {
		return fmt.Errorf("insert series %d: %w", s.TVDBID, mapSQLiteError(err))
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}
	s.ID = id
	s.AddedAt = now
	return nil
}

// Insert adds a series to the catalog, setting ID and AddedAt.
// The existence check and the insert share one transaction, and the
// UNIQUE(tvdb_id) constraint settles any race the check misses.
// Returns ErrDuplicate if the TVDB ID is already cataloged.
func (s *Store) Insert(ctx context.Context, series *Series) error {
	if err := series.validate(); err != nil {
		return err
	}

	tx, err := s.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if err := tx.Insert(ctx, series); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit series %d: %w", series.TVDBID, err)
	}
	return nil
}

// Insert adds a series within a transaction.
// Returns ErrDuplicate if the TVDB ID is already cataloged.
func (t *Tx) Insert(ctx context.Context, series *Series) error {
	if err := series.validate(); err != nil {
		return err
	}
	found, err := t.Exists(ctx, series.TVDBID)
	if err != nil {
		return err
	}
	if found {
		return fmt.Errorf("insert series %d: %w", series.TVDBID, ErrDuplicate)
	}
	return insertSeries(ctx, t.tx, series)
}

func getByTVDBID(ctx context.Context, q querier, tvdbID int64) (*Series, error) {
	row := q.QueryRowContext(ctx, "SELECT "+seriesColumns+" FROM series WHERE tvdb_id = ?", tvdbID)
	s, err := scanSeries(row)
	if err != nil {
		return nil, fmt.Errorf("get series %d: %w", tvdbID, mapSQLiteError(err))
	}
	return s, nil
}

// GetByTVDBID retrieves a series by TVDB ID.
// Returns ErrNotFound if the series is not cataloged.
func (s *Store) GetByTVDBID(ctx context.Context, tvdbID int64) (*Series, error) {
	return getByTVDBID(ctx, s.db, tvdbID)
}

// GetByTVDBID retrieves a series by TVDB ID within a transaction.
func (t *Tx) GetByTVDBID(ctx context.Context, tvdbID int64) (*Series, error) {
	return getByTVDBID(ctx, t.tx, tvdbID)
}

func listSeries(ctx context.Context, q querier) ([]*Series, error) {
	rows, err := q.QueryContext(ctx, "SELECT "+seriesColumns+" FROM series ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("list series: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []*Series
	for rows.Next() {
		s, err := scanSeries(rows)
		if err != nil {
			return nil, fmt.Errorf("scan series: %w", err)
		}
		results = append(results, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate series: %w", err)
	}
	return results, nil
}

// All returns every cataloged series in insertion order.
func (s *Store) All(ctx context.Context) ([]*Series, error) {
	return listSeries(ctx, s.db)
}

// All returns every cataloged series within a transaction.
func (t *Tx) All(ctx context.Context) ([]*Series, error) {
	return listSeries(ctx, t.tx)
}
