// Command panchang prints a Panchang month, or a single day, to the terminal.
//
// Usage:
//
//	go run ./cmd/panchang -year 2026 -month 2 -region IN
//	go run ./cmd/panchang -date 2026-02-16 -tz Asia/Kolkata
//	go run ./cmd/panchang -year 2026 -month 3 -db data/panchang.db -json
//
// Without -db the compiled-in festival dataset is used.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/zapponejosh/panchang-api/internal/calendar"
	"github.com/zapponejosh/panchang-api/internal/database"
	"github.com/zapponejosh/panchang-api/internal/festival"
	"github.com/zapponejosh/panchang-api/internal/logger"
	"github.com/zapponejosh/panchang-api/internal/region"
)

func main() {
	now := time.Now()
	year := flag.Int("year", now.Year(), "Year to print")
	month := flag.Int("month", int(now.Month()), "Month to print (1-12)")
	date := flag.String("date", "", "Print a single day (YYYY-MM-DD) instead of a month")
	code := flag.String("region", "", "Festival region: IN, US or global")
	tz := flag.String("tz", "", "IANA timezone used to pick the region when -region is not set")
	dbPath := flag.String("db", "", "Read the active festival dataset from this SQLite database")
	asJSON := flag.Bool("json", false, "Print JSON instead of a table")
	flag.Parse()

	if *code != "" {
		if _, ok := region.Lookup(*code); !ok {
			fmt.Fprintf(os.Stderr, "Error: unknown region %q (use IN, US or global)\n", *code)
			os.Exit(2)
		}
	}
	rg := region.Select(*code, *tz, region.Default)

	registry, err := loadRegistry(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	cal := calendar.New(registry)

	if *date != "" {
		d, err := calendar.ParseDate(*date)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(2)
		}
		day := cal.Day(d, rg.Code)
		if *asJSON {
			printJSON(day)
			return
		}
		printDay(day)
		return
	}

	view, err := cal.Month(*year, *month, rg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
	if *asJSON {
		printJSON(view)
		return
	}
	printMonth(view)
}

func loadRegistry(dbPath string) (*festival.Registry, error) {
	if dbPath == "" {
		return festival.MustDefaultRegistry(), nil
	}

	cfg := database.DefaultConfig(dbPath)
	cfg.MustExist = true

	db, err := database.Open(cfg, logger.Discard())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("database %s does not exist; run cmd/import first", dbPath)
		}
		return nil, fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	ds, err := db.LoadActiveDataset(context.Background())
	if err != nil {
		if database.IsNotFound(err) || isMissingSchema(err) {
			return nil, fmt.Errorf("no active dataset in %s; run cmd/import first", dbPath)
		}
		return nil, err
	}
	return festival.NewRegistry(ds)
}

// isMissingSchema reports whether err comes from a database file that was
// never migrated.
func isMissingSchema(err error) bool {
	return strings.Contains(err.Error(), "no such table")
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printMonth(view calendar.MonthView) {
	fmt.Printf("=== Panchang for %s %d (%s) ===\n", view.MonthName, view.Year, view.Region.Name)
	if !view.Covered {
		fmt.Println("(no festival data for this year)")
	}
	fmt.Println()

	fmt.Printf("%-10s  %-3s  %-2s  %-26s  %-9s  %-22s  %-5s  %-5s  %s\n",
		"DATE", "DAY", "#", "TITHI", "RASHI", "NAKSHATRA", "RISE", "SET", "FESTIVALS")
	fmt.Println(strings.Repeat("-", 110))

	for _, d := range view.Days {
		fmt.Printf("%-10s  %-3s  %2d  %-26s  %-9s  %-22s  %-5s  %-5s  %s\n",
			d.Date,
			d.WeekdayName[:3],
			d.Tithi.DisplayNumber,
			fmt.Sprintf("%s %s", d.Tithi.Paksha, d.Tithi.Name),
			d.Astro.Rashi,
			d.Astro.Nakshatra,
			d.Astro.Sunrise,
			d.Astro.Sunset,
			festivalList(d.Festivals),
		)
	}

	fmt.Println()
	fmt.Println("Upcoming:")
	if len(view.Upcoming) == 0 {
		fmt.Println("  (none)")
	}
	for _, e := range view.Upcoming {
		fmt.Printf("  %s  %-30s %s\n", e.Date, e.Name, e.Type)
	}
}

func printDay(d calendar.Day) {
	fmt.Printf("=== %s (%s) ===\n\n", d.Date, d.WeekdayName)
	fmt.Printf("  Tithi:        %d %s (%s Paksha)\n", d.Tithi.Number, d.Tithi.Name, d.Tithi.Paksha)
	fmt.Printf("  Samvat:       %s %d, %s\n", d.Samvat.Era, d.Samvat.Year, d.Samvat.MonthName)
	fmt.Printf("  Rashi:        %s\n", d.Astro.Rashi)
	fmt.Printf("  Nakshatra:    %s\n", d.Astro.Nakshatra)
	fmt.Printf("  Sunrise:      %s\n", d.Astro.Sunrise)
	fmt.Printf("  Sunset:       %s\n", d.Astro.Sunset)
	fmt.Printf("  Rahu Kaal:    %s\n", d.Muhurat.RahuKaal)
	fmt.Printf("  Yamaganda:    %s\n", d.Muhurat.Yamaganda)
	fmt.Printf("  Gulika Kaal:  %s\n", d.Muhurat.GulikaKaal)
	fmt.Printf("  Abhijit:      %s\n", d.Muhurat.Abhijit)
	fmt.Printf("  Festivals:    %s\n", festivalList(d.Festivals))
}

func festivalList(entries []festival.Entry) string {
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name)
	}
	return strings.Join(names, ", ")
}
