// Command coverage requests every day of a year range from a running Panchang
// API and checks each day cell for consistency.
//
// Usage:
//
//	go run ./cmd/coverage -url http://localhost:8080 -start 2026 -years 2 -region IN -o coverage.json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"time"

	"github.com/zapponejosh/panchang-api/internal/api"
	"github.com/zapponejosh/panchang-api/internal/calendar"
)

// APIResponse matches the API response structure
type APIResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   *api.ErrorInfo  `json:"error,omitempty"`
}

// TestResult holds the result for a single date
type TestResult struct {
	Date      string `json:"date"`
	Success   bool   `json:"success"`
	Tithi     int    `json:"tithi"`
	Paksha    string `json:"paksha"`
	Covered   bool   `json:"covered"`
	Festivals int    `json:"festivals"`
	Error     string `json:"error,omitempty"`
}

// MonthStats tracks statistics for each month
type MonthStats struct {
	Month       string   `json:"month"`
	TotalDays   int      `json:"total_days"`
	SuccessDays int      `json:"success_days"`
	FailedDays  int      `json:"failed_days"`
	Festivals   int      `json:"festivals"`
	FailedDates []string `json:"failed_dates,omitempty"`
}

// Analysis is the summary of a run.
type Analysis struct {
	TotalTested  int                    `json:"total_tested"`
	TotalSuccess int                    `json:"total_success"`
	TotalFailed  int                    `json:"total_failed"`
	Uncovered    int                    `json:"uncovered_days"`
	ByMonth      map[string]*MonthStats `json:"by_month"`
	Failures     []TestResult           `json:"failures,omitempty"`
}

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "Base URL of the API")
	startYear := flag.Int("start", 2026, "Start year")
	years := flag.Int("years", 2, "Number of years to test")
	regionCode := flag.String("region", "IN", "Festival region to request")
	verbose := flag.Bool("v", false, "Verbose output (show each date)")
	outputFile := flag.String("o", "", "Output results to JSON file")
	flag.Parse()

	endYear := *startYear + *years - 1

	fmt.Println("================================================================")
	fmt.Println("Panchang API - Full Coverage Test")
	fmt.Println("================================================================")
	fmt.Printf("Base URL:    %s\n", *baseURL)
	fmt.Printf("Region:      %s\n", *regionCode)
	fmt.Printf("Date Range:  %d-01-01 to %d-12-31\n", *startYear, endYear)
	fmt.Printf("Total Years: %d\n", *years)
	fmt.Println()

	// Check if server is reachable
	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get(*baseURL + "/health")
	if err != nil {
		fmt.Printf("Error: Cannot connect to %s\n", *baseURL)
		fmt.Println("Make sure the API server is running.")
		os.Exit(1)
	}
	resp.Body.Close()

	results := testAllDates(client, *baseURL, *regionCode, *startYear, endYear, *verbose)
	analysis := analyzeResults(results)

	printSummary(analysis, *startYear, endYear)
	printMonths(analysis)
	printAllFailures(analysis)

	if *outputFile != "" {
		saveResults(*outputFile, results, analysis)
	}

	// Exit with error code if there were failures
	if analysis.TotalFailed > 0 {
		os.Exit(1)
	}
}

func testAllDates(client *http.Client, baseURL, regionCode string, startYear, endYear int, verbose bool) []TestResult {
	var results []TestResult

	totalDays := 0
	for year := startYear; year <= endYear; year++ {
		start := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
		end := time.Date(year, 12, 31, 0, 0, 0, 0, time.UTC)
		totalDays += calendar.DaysBetween(start, end) + 1
	}

	fmt.Printf("Testing %d days...\n\n", totalDays)

	tested := 0
	failed := 0
	lastProgress := -1

	for year := startYear; year <= endYear; year++ {
		current := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
		endOfYear := time.Date(year, 12, 31, 0, 0, 0, 0, time.UTC)

		for !current.After(endOfYear) {
			dateStr := calendar.FormatDate(current)
			result := testDate(client, baseURL, regionCode, dateStr)
			results = append(results, result)

			tested++
			if !result.Success {
				failed++
			}

			// Show progress
			progress := (tested * 100) / totalDays
			if progress != lastProgress && progress%5 == 0 {
				fmt.Printf("  Progress: %d%% (%d/%d) - Failures: %d\n", progress, tested, totalDays, failed)
				lastProgress = progress
			}

			if verbose {
				status := "✓"
				if !result.Success {
					status = "✗"
				}
				fmt.Printf("  %s %s: tithi %2d %-7s [%d festivals]\n",
					status, dateStr, result.Tithi, result.Paksha, result.Festivals)
				if !result.Success {
					fmt.Printf("      Error: %s\n", result.Error)
				}
			}

			current = current.AddDate(0, 0, 1)
		}
	}

	fmt.Println()
	return results
}

func testDate(client *http.Client, baseURL, regionCode, dateStr string) TestResult {
	result := TestResult{Date: dateStr}

	url := fmt.Sprintf("%s/api/v1/panchang/date/%s?region=%s", baseURL, dateStr, regionCode)
	resp, err := client.Get(url)
	if err != nil {
		result.Error = fmt.Sprintf("Connection error: %v", err)
		return result
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		result.Error = fmt.Sprintf("Read error: %v", err)
		return result
	}

	var apiResp APIResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		result.Error = fmt.Sprintf("Parse error: %v", err)
		return result
	}

	if !apiResp.Success {
		errMsg := "Unknown error"
		if apiResp.Error != nil {
			errMsg = apiResp.Error.Message
		}
		result.Error = fmt.Sprintf("API error (HTTP %d): %s", resp.StatusCode, errMsg)
		return result
	}

	var day api.DayResponse
	if err := json.Unmarshal(apiResp.Data, &day); err != nil {
		result.Error = fmt.Sprintf("Parse error: %v", err)
		return result
	}

	result.Tithi = day.Tithi.Number
	result.Paksha = string(day.Tithi.Paksha)
	result.Covered = day.Covered
	result.Festivals = len(day.Festivals)

	if msg := checkDay(dateStr, day); msg != "" {
		result.Error = msg
		return result
	}

	result.Success = true
	return result
}

// checkDay returns a description of the first inconsistency in a day cell.
func checkDay(dateStr string, day api.DayResponse) string {
	switch {
	case day.Date != dateStr:
		return fmt.Sprintf("date mismatch: got %s", day.Date)
	case day.Tithi.Number < 1 || day.Tithi.Number > calendar.TithisPerMonth:
		return fmt.Sprintf("tithi %d out of range", day.Tithi.Number)
	case day.Tithi.Number <= 15 && day.Tithi.Paksha != calendar.Krishna:
		return fmt.Sprintf("tithi %d should be Krishna, got %s", day.Tithi.Number, day.Tithi.Paksha)
	case day.Tithi.Number > 15 && day.Tithi.Paksha != calendar.Shukla:
		return fmt.Sprintf("tithi %d should be Shukla, got %s", day.Tithi.Number, day.Tithi.Paksha)
	case day.Samvat.Era != calendar.EraName:
		return fmt.Sprintf("unexpected era %q", day.Samvat.Era)
	case day.Astro.Rashi == "" || day.Astro.Nakshatra == "":
		return "missing rashi or nakshatra"
	case day.Muhurat.RahuKaal == "" || day.Muhurat.Yamaganda == "" || day.Muhurat.Abhijit == "":
		return "missing muhurat window"
	case !day.Covered && len(day.Festivals) > 0:
		return "festivals returned for an uncovered year"
	}
	for _, f := range day.Festivals {
		if f.Date != dateStr {
			return fmt.Sprintf("festival %q dated %s", f.Name, f.Date)
		}
	}
	return ""
}

func analyzeResults(results []TestResult) *Analysis {
	analysis := &Analysis{
		ByMonth: make(map[string]*MonthStats),
	}

	for _, r := range results {
		analysis.TotalTested++
		if !r.Covered {
			analysis.Uncovered++
		}

		month := r.Date[:7]
		stats, ok := analysis.ByMonth[month]
		if !ok {
			stats = &MonthStats{Month: month}
			analysis.ByMonth[month] = stats
		}
		stats.TotalDays++
		stats.Festivals += r.Festivals

		if r.Success {
			analysis.TotalSuccess++
			stats.SuccessDays++
		} else {
			analysis.TotalFailed++
			stats.FailedDays++
			stats.FailedDates = append(stats.FailedDates, r.Date)
			analysis.Failures = append(analysis.Failures, r)
		}
	}

	return analysis
}

func printSummary(analysis *Analysis, startYear, endYear int) {
	fmt.Println("================================================================")
	fmt.Println("SUMMARY")
	fmt.Println("================================================================")
	fmt.Printf("Years:          %d-%d\n", startYear, endYear)
	fmt.Printf("Days tested:    %d\n", analysis.TotalTested)
	fmt.Printf("Passed:         %d\n", analysis.TotalSuccess)
	fmt.Printf("Failed:         %d\n", analysis.TotalFailed)
	fmt.Printf("Uncovered days: %d (no festival data for the year)\n", analysis.Uncovered)

	if analysis.TotalTested > 0 {
		rate := float64(analysis.TotalSuccess) / float64(analysis.TotalTested) * 100
		fmt.Printf("Success rate:   %.2f%%\n", rate)
	}
	fmt.Println()
}

func printMonths(analysis *Analysis) {
	fmt.Println("================================================================")
	fmt.Println("BY MONTH")
	fmt.Println("================================================================")

	months := make([]string, 0, len(analysis.ByMonth))
	for m := range analysis.ByMonth {
		months = append(months, m)
	}
	sort.Strings(months)

	fmt.Printf("%-8s  %5s  %6s  %6s  %9s\n", "MONTH", "DAYS", "PASSED", "FAILED", "FESTIVALS")
	for _, m := range months {
		s := analysis.ByMonth[m]
		marker := ""
		if s.Festivals == 0 {
			marker = "  (no festivals)"
		}
		fmt.Printf("%-8s  %5d  %6d  %6d  %9d%s\n",
			s.Month, s.TotalDays, s.SuccessDays, s.FailedDays, s.Festivals, marker)
	}
	fmt.Println()
}

func printAllFailures(analysis *Analysis) {
	if len(analysis.Failures) == 0 {
		fmt.Println("All days passed! ✓")
		return
	}

	fmt.Println("================================================================")
	fmt.Println("FAILURES")
	fmt.Println("================================================================")

	shown := analysis.Failures
	if len(shown) > 50 {
		shown = shown[:50]
	}
	for _, r := range shown {
		fmt.Printf("  ✗ %s: %s\n", r.Date, r.Error)
	}
	if len(analysis.Failures) > len(shown) {
		fmt.Printf("  ... and %d more\n", len(analysis.Failures)-len(shown))
	}
	fmt.Println()
}

func saveResults(filename string, results []TestResult, analysis *Analysis) {
	output := struct {
		GeneratedAt string       `json:"generated_at"`
		Analysis    *Analysis    `json:"analysis"`
		Results     []TestResult `json:"results"`
	}{
		GeneratedAt: time.Now().Format(time.RFC3339),
		Analysis:    analysis,
		Results:     results,
	}

	data, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		fmt.Printf("Error marshaling results: %v\n", err)
		return
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		fmt.Printf("Error writing file: %v\n", err)
		return
	}

	fmt.Printf("Results saved to %s\n", filename)
}
