package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/zapponejosh/panchang-api/internal/festival"
	"github.com/zapponejosh/panchang-api/internal/region"
)

// parseTimestamp parses a timestamp from SQLite TEXT format.
// Returns the zero time if parsing fails.
func parseTimestamp(s string) time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// =============================================================================
// Dataset Import
// =============================================================================

// ImportDataset stores ds as a new version and makes it the active one.
// Returns ErrDuplicate if the version was already imported.
func (db *DB) ImportDataset(ctx context.Context, ds festival.Dataset) error {
	if err := ds.Validate(); err != nil {
		return err
	}

	err := db.WithTx(ctx, func(tx *Tx) error {
		return importDataset(ctx, tx, ds)
	})
	if err != nil {
		return err
	}

	db.logger.Info("dataset imported",
		slog.String("version", ds.Version),
		slog.Int("festivals", ds.Count()),
	)
	return nil
}

func importDataset(ctx context.Context, q querier, ds festival.Dataset) error {
	_, err := q.ExecContext(ctx,
		"INSERT INTO dataset_versions (version, first_year, last_year) VALUES (?, ?, ?)",
		ds.Version, ds.FirstYear, ds.LastYear,
	)
	if err != nil {
		if isConstraintViolation(err) {
			return fmt.Errorf("dataset %s: %w", ds.Version, ErrDuplicate)
		}
		return fmt.Errorf("insert dataset version: %w", err)
	}

	for code, entries := range ds.Regions {
		for i, e := range entries {
			_, err := q.ExecContext(ctx, `
				INSERT INTO festivals (version, region, date, name, type, position)
				VALUES (?, ?, ?, ?, ?, ?)`,
				ds.Version, string(code), e.Date, e.Name, string(e.Type), i,
			)
			if err != nil {
				return fmt.Errorf("insert festival %s/%s %q: %w", code, e.Date, e.Name, err)
			}
		}
	}

	return activate(ctx, q, ds.Version)
}

// Activate makes an imported version the one LoadActiveDataset returns.
func (db *DB) Activate(ctx context.Context, version string) error {
	return db.WithTx(ctx, func(tx *Tx) error {
		return activate(ctx, tx, version)
	})
}

func activate(ctx context.Context, q querier, version string) error {
	if _, err := q.ExecContext(ctx, "UPDATE dataset_versions SET active = 0 WHERE active = 1"); err != nil {
		return fmt.Errorf("deactivate datasets: %w", err)
	}

	res, err := q.ExecContext(ctx, "UPDATE dataset_versions SET active = 1 WHERE version = ?", version)
	if err != nil {
		return fmt.Errorf("activate dataset %s: %w", version, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("activate dataset %s: %w", version, err)
	}
	if n == 0 {
		return fmt.Errorf("dataset %s: %w", version, ErrNotFound)
	}
	return nil
}

// =============================================================================
// Dataset Queries
// =============================================================================

// LoadActiveDataset returns the active dataset.
// Returns ErrNotFound if nothing has been imported.
func (db *DB) LoadActiveDataset(ctx context.Context) (festival.Dataset, error) {
	var version string
	err := db.QueryRowContext(ctx,
		"SELECT version FROM dataset_versions WHERE active = 1",
	).Scan(&version)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return festival.Dataset{}, ErrNotFound
		}
		return festival.Dataset{}, fmt.Errorf("query active dataset: %w", err)
	}

	return db.LoadDataset(ctx, version)
}

// LoadDataset returns an imported dataset by version.
// Returns ErrNotFound if the version doesn't exist.
func (db *DB) LoadDataset(ctx context.Context, version string) (festival.Dataset, error) {
	ds := festival.Dataset{
		Version: version,
		Regions: make(map[region.Code][]festival.Entry),
	}

	err := db.QueryRowContext(ctx,
		"SELECT first_year, last_year FROM dataset_versions WHERE version = ?",
		version,
	).Scan(&ds.FirstYear, &ds.LastYear)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return festival.Dataset{}, ErrNotFound
		}
		return festival.Dataset{}, fmt.Errorf("query dataset %s: %w", version, err)
	}

	rows, err := db.QueryContext(ctx, `
		SELECT region, date, name, type
		FROM festivals
		WHERE version = ?
		ORDER BY region, position`,
		version,
	)
	if err != nil {
		return festival.Dataset{}, fmt.Errorf("query festivals: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var code, typ string
		var e festival.Entry
		if err := rows.Scan(&code, &e.Date, &e.Name, &typ); err != nil {
			return festival.Dataset{}, fmt.Errorf("scan festival row: %w", err)
		}
		e.Type = festival.Type(typ)
		ds.Regions[region.Code(code)] = append(ds.Regions[region.Code(code)], e)
	}
	if err := rows.Err(); err != nil {
		return festival.Dataset{}, fmt.Errorf("iterate festival rows: %w", err)
	}

	return ds, nil
}

// ListVersions returns every imported dataset version, newest import first.
func (db *DB) ListVersions(ctx context.Context) ([]DatasetVersion, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT v.version, v.first_year, v.last_year, v.active, v.imported_at,
		       (SELECT COUNT(*) FROM festivals f WHERE f.version = v.version)
		FROM dataset_versions v
		ORDER BY v.imported_at DESC, v.version DESC`)
	if err != nil {
		return nil, fmt.Errorf("query dataset versions: %w", err)
	}
	defer rows.Close()

	var versions []DatasetVersion
	for rows.Next() {
		var v DatasetVersion
		var importedAt string
		if err := rows.Scan(&v.Version, &v.FirstYear, &v.LastYear, &v.Active, &importedAt, &v.Festivals); err != nil {
			return nil, fmt.Errorf("scan dataset version: %w", err)
		}
		v.ImportedAt = parseTimestamp(importedAt)
		versions = append(versions, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate dataset versions: %w", err)
	}

	return versions, nil
}

// CountFestivals returns the number of festival rows stored for a version.
func (db *DB) CountFestivals(ctx context.Context, version string) (int, error) {
	var n int
	err := db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM festivals WHERE version = ?", version,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count festivals: %w", err)
	}
	return n, nil
}

// =============================================================================
// Startup
// =============================================================================

// EnsureDataset returns the active dataset, importing fallback first when
// the database holds none and seed is true.
func (db *DB) EnsureDataset(ctx context.Context, fallback festival.Dataset, seed bool) (festival.Dataset, error) {
	ds, err := db.LoadActiveDataset(ctx)
	if err == nil {
		return ds, nil
	}
	if !IsNotFound(err) || !seed {
		return festival.Dataset{}, err
	}

	db.logger.Info("no active dataset, seeding compiled-in dataset",
		slog.String("version", fallback.Version),
	)
	if err := db.ImportDataset(ctx, fallback); err != nil {
		return festival.Dataset{}, fmt.Errorf("seed dataset: %w", err)
	}

	return db.LoadActiveDataset(ctx)
}
