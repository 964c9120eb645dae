// Command apitest smoke-tests a running Panchang API server.
//
// Usage:
//
//	go run ./cmd/apitest -url http://localhost:8080 -v
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/zapponejosh/panchang-api/internal/api"
	"github.com/zapponejosh/panchang-api/internal/calendar"
	"github.com/zapponejosh/panchang-api/internal/festival"
	"github.com/zapponejosh/panchang-api/internal/region"
)

// =============================================================================
// Response Types
// =============================================================================

// APIResponse is the envelope with the payload kept raw for typed decoding.
type APIResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   *api.ErrorInfo  `json:"error,omitempty"`
}

// HealthResponse is the response for /health
type HealthResponse struct {
	Status  string `json:"status"`
	Dataset string `json:"dataset"`
}

// =============================================================================
// Test Runner
// =============================================================================

type TestRunner struct {
	baseURL      string
	client       *http.Client
	verbose      bool
	successCount int
	errorCount   int
	errors       []string
}

func NewTestRunner(baseURL string, verbose bool) *TestRunner {
	return &TestRunner{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		verbose: verbose,
	}
}

func (tr *TestRunner) Run() {
	fmt.Println("==============================================")
	fmt.Println("Panchang API Test Suite")
	fmt.Println("==============================================")
	fmt.Printf("Base URL: %s\n", tr.baseURL)
	fmt.Println()

	// Run test groups
	tr.testHealth()
	tr.testToday()
	tr.testSpecificDates()
	tr.testRegionSelection()
	tr.testMonth()
	tr.testFestivals()
	tr.testMuhurat()
	tr.testEdgeCases()

	// Print summary
	tr.printSummary()
}

// =============================================================================
// Test Groups
// =============================================================================

func (tr *TestRunner) testHealth() {
	tr.printSection("Health Check")

	var health HealthResponse
	if err := tr.getData("/health", &health); err != nil {
		tr.recordError("Health", err.Error())
		return
	}

	if health.Status == "healthy" {
		tr.recordSuccess(fmt.Sprintf("Health check passed (dataset %s)", health.Dataset))
	} else {
		tr.recordError("Health", fmt.Sprintf("Unexpected status: %s", health.Status))
	}

	resp, err := tr.getRaw("/metrics")
	if err != nil {
		tr.recordError("Metrics", err.Error())
		return
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode == http.StatusOK && strings.Contains(string(body), "panchang_http_requests_total") {
		tr.recordSuccess("Metrics endpoint exposes request counters")
	} else {
		tr.recordError("Metrics", fmt.Sprintf("HTTP %d", resp.StatusCode))
	}
}

func (tr *TestRunner) testToday() {
	tr.printSection("Today")

	for _, code := range []region.Code{region.CodeGlobal, region.CodeIndia, region.CodeUS} {
		var day api.DayResponse
		if err := tr.getData("/api/v1/panchang/today?region="+code.String(), &day); err != nil {
			tr.recordError("Today ("+code.String()+")", err.Error())
			continue
		}
		tr.recordSuccess(fmt.Sprintf("Today in %s: %s, %s %s",
			day.Region.Name, day.Date, day.Tithi.Paksha, day.Tithi.Name))
		if tr.verbose {
			tr.printDayDetail(day.Day)
		}
	}
}

func (tr *TestRunner) testSpecificDates() {
	tr.printSection("Specific Date Tests")

	testCases := []struct {
		date        string
		region      region.Code
		tithi       string
		festival    string
		description string
	}{
		{"2026-02-01", region.CodeGlobal, "Purnima", "", "Reference Purnima"},
		{"2026-02-16", region.CodeIndia, "Amavasya", "Maha Shivaratri", "Maha Shivaratri"},
		{"2026-02-16", region.CodeUS, "Amavasya", "Presidents' Day", "Presidents' Day"},
		{"2026-03-03", region.CodeIndia, "Purnima", "Holika Dahan", "Holika Dahan"},
		{"2026-03-03", region.CodeGlobal, "Purnima", "Total Lunar Eclipse", "Lunar eclipse"},
		{"2026-08-15", region.CodeIndia, "", "Independence Day", "Indian Independence Day"},
	}

	for _, tc := range testCases {
		name := tc.date + " " + tc.region.String()
		var day api.DayResponse
		path := fmt.Sprintf("/api/v1/panchang/date/%s?region=%s", tc.date, tc.region)
		if err := tr.getData(path, &day); err != nil {
			tr.recordError(name, err.Error())
			continue
		}

		if tc.tithi != "" && day.Tithi.Name != tc.tithi {
			tr.recordError(name, fmt.Sprintf("Expected tithi '%s', got '%s'", tc.tithi, day.Tithi.Name))
			continue
		}
		if tc.festival != "" && !hasFestival(day.Festivals, tc.festival) {
			tr.recordError(name, fmt.Sprintf("Expected festival '%s', got [%s]",
				tc.festival, festivalNames(day.Festivals)))
			continue
		}

		tr.recordSuccess(fmt.Sprintf("%s: %s %s [%s] (%s)",
			name, day.Tithi.Paksha, day.Tithi.Name, festivalNames(day.Festivals), tc.description))
		if tr.verbose {
			tr.printDayDetail(day.Day)
		}
	}
}

func (tr *TestRunner) testRegionSelection() {
	tr.printSection("Region Selection")

	testCases := []struct {
		query string
		want  region.Code
	}{
		{"tz=Asia/Kolkata", region.CodeIndia},
		{"tz=America/Chicago", region.CodeUS},
		{"region=us&tz=Asia/Kolkata", region.CodeUS},
	}

	for _, tc := range testCases {
		var day api.DayResponse
		if err := tr.getData("/api/v1/panchang/date/2026-02-16?"+tc.query, &day); err != nil {
			tr.recordError(tc.query, err.Error())
			continue
		}
		if day.Region.Code == tc.want {
			tr.recordSuccess(fmt.Sprintf("%s -> %s", tc.query, day.Region.Code))
		} else {
			tr.recordError(tc.query, fmt.Sprintf("Expected region %s, got %s", tc.want, day.Region.Code))
		}
	}

	var resolved struct {
		Region region.Region `json:"region"`
	}
	if err := tr.getData("/api/v1/regions/resolve?tz=Asia/Calcutta", &resolved); err != nil {
		tr.recordError("Resolve", err.Error())
	} else if resolved.Region.Code != region.CodeIndia {
		tr.recordError("Resolve", fmt.Sprintf("Asia/Calcutta resolved to %s", resolved.Region.Code))
	} else {
		tr.recordSuccess("Asia/Calcutta resolves to India")
	}
}

func (tr *TestRunner) testMonth() {
	tr.printSection("Month View (February 2026, India)")

	var view calendar.MonthView
	if err := tr.getData("/api/v1/panchang/month/2026/2?region=IN", &view); err != nil {
		tr.recordError("Month", err.Error())
		return
	}

	if len(view.Days) == 28 {
		tr.recordSuccess("February 2026 has 28 day cells")
	} else {
		tr.recordError("Month", fmt.Sprintf("Expected 28 days, got %d", len(view.Days)))
	}

	for i := 1; i < len(view.Upcoming); i++ {
		if view.Upcoming[i-1].Date > view.Upcoming[i].Date {
			tr.recordError("Month", "Upcoming events are not in date order")
			return
		}
	}
	tr.recordSuccess(fmt.Sprintf("Upcoming: [%s]", festivalNames(view.Upcoming)))

	if tr.verbose {
		for _, d := range view.Days {
			fmt.Printf("    %s %-9s %2d %-12s %s\n",
				d.Date, d.WeekdayName, d.Tithi.DisplayNumber, d.Tithi.Name, festivalNames(d.Festivals))
		}
		fmt.Println()
	}
}

func (tr *TestRunner) testFestivals() {
	tr.printSection("Festivals")

	var byDate api.FestivalsResponse
	if err := tr.getData("/api/v1/festivals/date/2026-01-01?region=US", &byDate); err != nil {
		tr.recordError("Festivals by date", err.Error())
	} else if len(byDate.Festivals) == 2 {
		tr.recordSuccess("2026-01-01 (US) keeps the regional and global New Year's Day")
	} else {
		tr.recordError("Festivals by date", fmt.Sprintf("Expected 2 entries, got %d", len(byDate.Festivals)))
	}

	var upcoming api.FestivalsResponse
	if err := tr.getData("/api/v1/festivals/upcoming?region=IN&from=2026-01-10&limit=3", &upcoming); err != nil {
		tr.recordError("Upcoming", err.Error())
	} else if len(upcoming.Festivals) <= 3 {
		tr.recordSuccess(fmt.Sprintf("Upcoming %s..%s: [%s]",
			upcoming.From, upcoming.To, festivalNames(upcoming.Festivals)))
	} else {
		tr.recordError("Upcoming", fmt.Sprintf("limit=3 returned %d entries", len(upcoming.Festivals)))
	}

	var ds api.DatasetResponse
	if err := tr.getData("/api/v1/dataset", &ds); err != nil {
		tr.recordError("Dataset", err.Error())
	} else {
		tr.recordSuccess(fmt.Sprintf("Dataset %s covers %d-%d with %d entries",
			ds.Version, ds.FirstYear, ds.LastYear, ds.Entries))
	}
}

func (tr *TestRunner) testMuhurat() {
	tr.printSection("Muhurat")

	for wd := 0; wd < 7; wd++ {
		var resp api.MuhuratResponse
		if err := tr.getData(fmt.Sprintf("/api/v1/muhurat/%d", wd), &resp); err != nil {
			tr.recordError(time.Weekday(wd).String(), err.Error())
			continue
		}
		tr.recordSuccess(fmt.Sprintf("%-9s Rahu Kaal %s", resp.WeekdayName, resp.Muhurat.RahuKaal))
	}
}

func (tr *TestRunner) testEdgeCases() {
	tr.printSection("Edge Cases")

	badRequests := []struct {
		path        string
		description string
	}{
		{"/api/v1/panchang/date/2026-13-01", "Invalid month in date"},
		{"/api/v1/panchang/date/not-a-date", "Malformed date"},
		{"/api/v1/panchang/month/2026/13", "Month out of range"},
		{"/api/v1/panchang/date/2026-02-16?region=XX", "Unknown region"},
		{"/api/v1/muhurat/7", "Weekday out of range"},
	}

	for _, tc := range badRequests {
		resp, err := tr.getRaw(tc.path)
		if err != nil {
			tr.recordError(tc.description, err.Error())
			continue
		}
		resp.Body.Close()
		if resp.StatusCode == http.StatusBadRequest {
			tr.recordSuccess(fmt.Sprintf("%s rejected", tc.description))
		} else {
			tr.recordError(tc.description, fmt.Sprintf("Expected 400, got %d", resp.StatusCode))
		}
	}

	var day api.DayResponse
	if err := tr.getData("/api/v1/panchang/date/2031-06-01?region=IN", &day); err != nil {
		tr.recordError("Outside dataset", err.Error())
	} else if !day.Covered && len(day.Festivals) == 0 {
		tr.recordSuccess("Dates outside the dataset return no festivals")
	} else {
		tr.recordError("Outside dataset", "Expected an uncovered day with no festivals")
	}
}

// =============================================================================
// Helper Methods
// =============================================================================

func (tr *TestRunner) getData(path string, target any) error {
	resp, err := tr.getRaw(path)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read error: %w", err)
	}

	var apiResp APIResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return fmt.Errorf("parse error: %w", err)
	}

	if !apiResp.Success {
		errMsg := "unknown error"
		if apiResp.Error != nil {
			errMsg = apiResp.Error.Message
		}
		return fmt.Errorf("API error (HTTP %d): %s", resp.StatusCode, errMsg)
	}

	return json.Unmarshal(apiResp.Data, target)
}

func (tr *TestRunner) getRaw(path string) (*http.Response, error) {
	return tr.client.Get(tr.baseURL + path)
}

func hasFestival(entries []festival.Entry, name string) bool {
	for _, e := range entries {
		if e.Name == name {
			return true
		}
	}
	return false
}

func festivalNames(entries []festival.Entry) string {
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name)
	}
	return strings.Join(names, ", ")
}

func (tr *TestRunner) printSection(name string) {
	fmt.Println()
	fmt.Printf("--- %s ---\n", name)
	fmt.Println()
}

func (tr *TestRunner) printDayDetail(d calendar.Day) {
	fmt.Printf("    Samvat:    %d %s\n", d.Samvat.Year, d.Samvat.MonthName)
	fmt.Printf("    Rashi:     %s, Nakshatra: %s\n", d.Astro.Rashi, d.Astro.Nakshatra)
	fmt.Printf("    Sun:       %s - %s\n", d.Astro.Sunrise, d.Astro.Sunset)
	fmt.Printf("    Rahu Kaal: %s\n", d.Muhurat.RahuKaal)
	fmt.Println()
}

func (tr *TestRunner) recordSuccess(msg string) {
	tr.successCount++
	fmt.Printf("  ✓ %s\n", msg)
}

func (tr *TestRunner) recordError(context, msg string) {
	tr.errorCount++
	errStr := fmt.Sprintf("%s: %s", context, msg)
	tr.errors = append(tr.errors, errStr)
	fmt.Printf("  ✗ %s\n", errStr)
}

func (tr *TestRunner) printSummary() {
	fmt.Println()
	fmt.Println("==============================================")
	fmt.Println("Summary")
	fmt.Println("==============================================")
	fmt.Printf("  Passed: %d\n", tr.successCount)
	fmt.Printf("  Failed: %d\n", tr.errorCount)
	fmt.Println()

	if tr.errorCount > 0 {
		fmt.Println("Failures:")
		for _, err := range tr.errors {
			fmt.Printf("  • %s\n", err)
		}
		fmt.Println()
	}

	if tr.errorCount == 0 {
		fmt.Println("All tests passed! ✓")
	} else {
		fmt.Printf("Tests completed with %d failure(s)\n", tr.errorCount)
	}
}

// =============================================================================
// Main
// =============================================================================

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "Base URL of the API")
	verbose := flag.Bool("v", false, "Verbose output (show day details)")
	flag.Parse()

	// Check if server is reachable
	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(*baseURL + "/health")
	if err != nil {
		fmt.Printf("Error: Cannot connect to %s\n", *baseURL)
		fmt.Println("Make sure the API server is running.")
		os.Exit(1)
	}
	resp.Body.Close()

	runner := NewTestRunner(*baseURL, *verbose)
	runner.Run()

	// Exit with error code if tests failed
	if runner.errorCount > 0 {
		os.Exit(1)
	}
}
