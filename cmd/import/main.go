// Command import loads a festival dataset JSON file into the SQLite database.
//
// Usage:
//
//	go run ./cmd/import -json data/festivals-2026.2.json -db data/panchang.db
//
// This tool:
// 1. Parses and validates the dataset file (or the compiled-in dataset with -builtin)
// 2. Creates/opens the SQLite database and runs migrations
// 3. Imports every region table in a single transaction
// 4. Marks the new version active, unless -activate=false
//
// Importing a version that already exists fails. Use -activate-only to switch
// the active version without importing anything.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"time"

	"github.com/zapponejosh/panchang-api/internal/database"
	"github.com/zapponejosh/panchang-api/internal/festival"
	"github.com/zapponejosh/panchang-api/internal/region"
)

func main() {
	// Parse command line flags
	jsonPath := flag.String("json", "", "Path to dataset JSON file")
	builtin := flag.Bool("builtin", false, "Import the compiled-in dataset instead of -json")
	dbPath := flag.String("db", "data/panchang.db", "Path to SQLite database")
	activate := flag.Bool("activate", true, "Make the imported version active")
	activateOnly := flag.String("activate-only", "", "Activate an already imported version and exit")
	list := flag.Bool("list", false, "List imported versions and exit")
	verbose := flag.Bool("v", false, "Verbose output")
	flag.Parse()

	// Setup logger
	logLevel := slog.LevelInfo
	if *verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))

	opts := options{
		jsonPath:     *jsonPath,
		builtin:      *builtin,
		dbPath:       *dbPath,
		activate:     *activate,
		activateOnly: *activateOnly,
		list:         *list,
	}

	if err := run(opts, logger); err != nil {
		logger.Error("import failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

type options struct {
	jsonPath     string
	builtin      bool
	dbPath       string
	activate     bool
	activateOnly string
	list         bool
}

func run(opts options, logger *slog.Logger) error {
	ctx := context.Background()
	startTime := time.Now()

	logger.Info("opening database", slog.String("path", opts.dbPath))

	db, err := database.Open(database.DefaultConfig(opts.dbPath), logger)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	migrated, err := db.Migrate(ctx)
	if err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("migrations complete", slog.Int("applied", migrated))

	switch {
	case opts.list:
		return printVersions(ctx, db)
	case opts.activateOnly != "":
		if err := db.Activate(ctx, opts.activateOnly); err != nil {
			return fmt.Errorf("activate %s: %w", opts.activateOnly, err)
		}
		logger.Info("dataset activated", slog.String("version", opts.activateOnly))
		return nil
	}

	ds, err := loadDataset(opts)
	if err != nil {
		return err
	}

	logger.Info("parsed dataset",
		slog.String("version", ds.Version),
		slog.Int("first_year", ds.FirstYear),
		slog.Int("last_year", ds.LastYear),
		slog.Int("entries", ds.Count()),
	)

	// Remember the current active version so -activate=false can restore it
	previous, err := db.LoadActiveDataset(ctx)
	if err != nil && !database.IsNotFound(err) {
		return fmt.Errorf("load active dataset: %w", err)
	}

	if err := db.ImportDataset(ctx, ds); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return fmt.Errorf("version %s is already imported; use -activate-only to switch to it", ds.Version)
		}
		return fmt.Errorf("import dataset: %w", err)
	}

	if !opts.activate && previous.Version != "" {
		if err := db.Activate(ctx, previous.Version); err != nil {
			return fmt.Errorf("restore active version %s: %w", previous.Version, err)
		}
	}

	// Verify import
	stored, err := db.CountFestivals(ctx, ds.Version)
	if err != nil {
		return fmt.Errorf("count festivals: %w", err)
	}
	if stored != ds.Count() {
		return fmt.Errorf("verify import: stored %d festivals, dataset has %d", stored, ds.Count())
	}

	elapsed := time.Since(startTime)
	logger.Info("import verified",
		slog.String("version", ds.Version),
		slog.Int("festivals", stored),
		slog.Duration("elapsed", elapsed),
	)

	// Print summary
	fmt.Println()
	fmt.Println("=== Import Summary ===")
	fmt.Printf("Version:             %s\n", ds.Version)
	fmt.Printf("Years:               %d-%d\n", ds.FirstYear, ds.LastYear)
	for _, code := range regionCodes(ds) {
		fmt.Printf("  %-18s %d\n", code+":", len(ds.Regions[code]))
	}
	fmt.Printf("Festivals imported:  %d\n", stored)
	fmt.Printf("Active:              %t\n", opts.activate || previous.Version == "")
	fmt.Printf("Time elapsed:        %v\n", elapsed.Round(time.Millisecond))

	return nil
}

func loadDataset(opts options) (festival.Dataset, error) {
	if opts.builtin {
		return festival.DefaultDataset()
	}
	if opts.jsonPath == "" {
		return festival.Dataset{}, errors.New("-json or -builtin is required")
	}

	f, err := os.Open(opts.jsonPath)
	if err != nil {
		return festival.Dataset{}, fmt.Errorf("open dataset file: %w", err)
	}
	defer f.Close()

	ds, err := festival.ReadDataset(f)
	if err != nil {
		return festival.Dataset{}, fmt.Errorf("read %s: %w", opts.jsonPath, err)
	}
	return ds, nil
}

func regionCodes(ds festival.Dataset) []region.Code {
	codes := make([]region.Code, 0, len(ds.Regions))
	for code := range ds.Regions {
		codes = append(codes, code)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })
	return codes
}

func printVersions(ctx context.Context, db *database.DB) error {
	versions, err := db.ListVersions(ctx)
	if err != nil {
		return fmt.Errorf("list versions: %w", err)
	}
	if len(versions) == 0 {
		fmt.Println("No datasets imported.")
		return nil
	}

	fmt.Printf("%-12s %-10s %-10s %-7s %s\n", "VERSION", "YEARS", "FESTIVALS", "ACTIVE", "IMPORTED")
	for _, v := range versions {
		active := ""
		if v.Active {
			active = "*"
		}
		fmt.Printf("%-12s %d-%d  %-10d %-7s %s\n",
			v.Version, v.FirstYear, v.LastYear, v.Festivals, active,
			v.ImportedAt.Format(time.RFC3339))
	}
	return nil
}
