package database

// migrationsSQL contains all database migrations.
// Migrations are applied in order by version number.
var migrationsSQL = map[int]string{
	1: migrationV1DatasetSchema,
	2: migrationV2FestivalIndexes,
}

// migrationV1DatasetSchema creates the versioned festival dataset tables.
//
// A dataset version is imported once and never edited. Exactly one version
// is active at a time; the server loads the active version at startup and
// serves it read-only for the life of the process.
const migrationV1DatasetSchema = `
-- ============================================================================
-- Table: dataset_versions
-- ============================================================================
CREATE TABLE IF NOT EXISTS dataset_versions (
    version TEXT PRIMARY KEY,

    -- Inclusive span of Gregorian years the dataset enumerates.
    -- Dates outside the span have no festivals.
    first_year INTEGER NOT NULL,
    last_year INTEGER NOT NULL CHECK (last_year >= first_year),

    -- 1 for the version the server loads, 0 otherwise
    active INTEGER NOT NULL DEFAULT 0 CHECK (active IN (0, 1)),

    imported_at TEXT NOT NULL DEFAULT (datetime('now'))
);

-- ============================================================================
-- Table: festivals
-- ============================================================================
CREATE TABLE IF NOT EXISTS festivals (
    id INTEGER PRIMARY KEY AUTOINCREMENT,

    version TEXT NOT NULL,

    region TEXT NOT NULL CHECK (region IN ('IN', 'US', 'global')),

    -- ISO 8601 date: YYYY-MM-DD
    date TEXT NOT NULL,

    name TEXT NOT NULL,

    type TEXT NOT NULL CHECK (type IN (
        'Hindu',
        'National',
        'Regional',
        'Vrat',
        'Christian',
        'Federal',
        'Global',
        'Astronomical'
    )),

    -- Order of the entry within its region table
    position INTEGER NOT NULL,

    FOREIGN KEY (version) REFERENCES dataset_versions(version) ON DELETE CASCADE,
    UNIQUE (version, region, position)
);
`

// migrationV2FestivalIndexes adds lookup indexes.
const migrationV2FestivalIndexes = `
-- Loading a version region by region in table order
CREATE INDEX IF NOT EXISTS idx_festivals_version_region
    ON festivals(version, region, position);

-- Ad-hoc lookups by date (import verification, cmd tools)
CREATE INDEX IF NOT EXISTS idx_festivals_date
    ON festivals(date);

-- At most one active version
CREATE UNIQUE INDEX IF NOT EXISTS idx_dataset_versions_active
    ON dataset_versions(active)
    WHERE active = 1;
`
