package api

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zapponejosh/panchang-api/internal/calendar"
	"github.com/zapponejosh/panchang-api/internal/config"
	"github.com/zapponejosh/panchang-api/internal/database"
	"github.com/zapponejosh/panchang-api/internal/festival"
	"github.com/zapponejosh/panchang-api/internal/metrics"
	"github.com/zapponejosh/panchang-api/internal/region"
)

// =============================================================================
// TEST SETUP HELPERS
// =============================================================================

// testEnv sets up a complete test environment with database, config, and handlers
type testEnv struct {
	db       *database.DB
	cfg      *config.Config
	registry *festival.Registry
	metrics  *metrics.Metrics
	handlers *Handlers
	router   http.Handler
	logs     *bytes.Buffer
}

// setupTest creates a fresh test environment seeded with the default dataset.
func setupTest(t *testing.T) *testEnv {
	t.Helper()

	logs := &bytes.Buffer{}
	log := slog.New(slog.NewJSONHandler(logs, &slog.HandlerOptions{Level: slog.LevelWarn}))

	db, err := database.Open(database.Config{
		Path:            ":memory:",
		MaxOpenConns:    1,
		MaxIdleConns:    1,
		ConnMaxLifetime: time.Hour,
	}, log)
	require.NoError(t, err, "open test database")
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	_, err = db.Migrate(ctx)
	require.NoError(t, err, "migrate test database")

	seed, err := festival.DefaultDataset()
	require.NoError(t, err)
	ds, err := db.EnsureDataset(ctx, seed, true)
	require.NoError(t, err, "seed dataset")

	registry, err := festival.NewRegistry(ds)
	require.NoError(t, err)

	cfg := &config.Config{
		Port:            8080,
		Env:             config.EnvDevelopment,
		ShutdownTimeout: time.Second,
		DatabasePath:    config.MemoryDatabase,
		DefaultRegion:   string(region.CodeGlobal),
		LogLevel:        "error",
		LogFormat:       "text",
	}

	m := metrics.New()
	handlers := NewHandlers(db, registry, cfg, m)

	return &testEnv{
		db:       db,
		cfg:      cfg,
		registry: registry,
		metrics:  m,
		handlers: handlers,
		router:   SetupRoutes(handlers, m, log),
		logs:     logs,
	}
}

// envelope mirrors Response with the payload left raw for typed decoding.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *ErrorInfo      `json:"error"`
}

// get serves a GET through the full router.
func (env *testEnv) get(t *testing.T, path string) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	env.router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
	return rr
}

// parseResponse decodes the envelope and, when v is non-nil, its data.
func parseResponse(t *testing.T, rr *httptest.ResponseRecorder, v any) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&env), "decode response")
	if v != nil {
		require.NoError(t, json.Unmarshal(env.Data, v), "decode data")
	}
	return env
}

// logRecord returns the first JSON log record with the given message.
func (env *testEnv) logRecord(t *testing.T, msg string) map[string]any {
	t.Helper()
	sc := bufio.NewScanner(bytes.NewReader(env.logs.Bytes()))
	for sc.Scan() {
		var rec map[string]any
		require.NoError(t, json.Unmarshal(sc.Bytes(), &rec))
		if rec["msg"] == msg {
			return rec
		}
	}
	t.Fatalf("no log record %q in:\n%s", msg, env.logs.String())
	return nil
}

func festivalNames(entries []festival.Entry) []string {
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name)
	}
	return names
}

// =============================================================================
// HEALTH & METRICS
// =============================================================================

func TestHealthCheck(t *testing.T) {
	env := setupTest(t)

	rr := env.get(t, "/health")
	require.Equal(t, http.StatusOK, rr.Code)

	var data map[string]string
	resp := parseResponse(t, rr, &data)
	assert.True(t, resp.Success)
	assert.Equal(t, "healthy", data["status"])
	assert.Equal(t, env.registry.Version(), data["dataset"])
}

func TestHealthCheck_DatabaseDown(t *testing.T) {
	env := setupTest(t)
	env.db.Close()

	rr := env.get(t, "/health")
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)

	resp := parseResponse(t, rr, nil)
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, CodeUnavailable, resp.Error.Code)
}

func TestHandlerErrors_LogRequestID(t *testing.T) {
	env := setupTest(t)
	env.db.Close()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/dataset", nil)
	req.Header.Set("X-Request-Id", "req-dataset")
	rr := httptest.NewRecorder()
	env.router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusInternalServerError, rr.Code)

	rec := env.logRecord(t, "failed to list dataset versions")
	assert.Equal(t, "req-dataset", rec["request_id"])
	assert.NotEmpty(t, rec["error"])
}

func TestMetrics_RecordsRoutePattern(t *testing.T) {
	env := setupTest(t)

	env.get(t, "/api/v1/panchang/date/2026-02-16")
	env.get(t, "/api/v1/panchang/date/2026-03-01")
	env.get(t, "/api/v1/panchang/date/garbage")

	route := "/api/v1/panchang/date/{date}"
	assert.Equal(t, 2.0, testutil.ToFloat64(env.metrics.HTTPRequests.WithLabelValues(route, "GET", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(env.metrics.HTTPRequests.WithLabelValues(route, "GET", "400")))
	assert.Equal(t, 2.0, testutil.ToFloat64(env.metrics.DaysComputed.WithLabelValues("global")))

	rr := env.get(t, "/metrics")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "panchang_http_requests_total")
}

// =============================================================================
// PANCHANG ENDPOINTS
// =============================================================================

func TestGetDate_India(t *testing.T) {
	env := setupTest(t)

	rr := env.get(t, "/api/v1/panchang/date/2026-02-16?region=IN")
	require.Equal(t, http.StatusOK, rr.Code)

	var day DayResponse
	resp := parseResponse(t, rr, &day)
	assert.True(t, resp.Success)
	assert.Equal(t, region.CodeIndia, day.Region.Code)
	assert.True(t, day.Covered)
	assert.Equal(t, "2026-02-16", day.Date)
	assert.Equal(t, "Monday", day.WeekdayName)
	assert.Equal(t, 15, day.Tithi.Number)
	assert.Equal(t, "Amavasya", day.Tithi.Name)
	assert.Equal(t, "Phalguna", day.Samvat.MonthName)
	assert.Equal(t, "07:30 - 09:00", day.Muhurat.RahuKaal)
	assert.Equal(t, []string{"Maha Shivaratri"}, festivalNames(day.Festivals))
}

func TestGetDate_RegionFromTimezone(t *testing.T) {
	env := setupTest(t)

	rr := env.get(t, "/api/v1/panchang/date/2026-02-16?tz=America/Chicago")
	require.Equal(t, http.StatusOK, rr.Code)

	var day DayResponse
	parseResponse(t, rr, &day)
	assert.Equal(t, region.CodeUS, day.Region.Code)
	assert.Equal(t, []string{"Presidents' Day"}, festivalNames(day.Festivals))
	assert.Equal(t, 1.0, testutil.ToFloat64(env.metrics.RegionResolution.WithLabelValues("timezone")))
}

func TestGetDate_DefaultRegion(t *testing.T) {
	env := setupTest(t)

	// Unmatched timezone resolves to global
	rr := env.get(t, "/api/v1/panchang/date/2026-02-16?tz=Europe/Paris")
	require.Equal(t, http.StatusOK, rr.Code)

	var day DayResponse
	parseResponse(t, rr, &day)
	assert.Equal(t, region.CodeGlobal, day.Region.Code)
	assert.NotNil(t, day.Festivals)
	assert.Empty(t, day.Festivals)
}

func TestGetDate_UnmatchedTimezoneIgnoresConfiguredDefault(t *testing.T) {
	env := setupTest(t)
	env.cfg.DefaultRegion = string(region.CodeIndia)

	rr := env.get(t, "/api/v1/panchang/date/2026-01-26?tz=Europe/Paris")
	require.Equal(t, http.StatusOK, rr.Code)

	var day DayResponse
	parseResponse(t, rr, &day)
	assert.Equal(t, region.CodeGlobal, day.Region.Code)
	assert.Empty(t, day.Festivals, "Republic Day belongs to IN only")

	rr = env.get(t, "/api/v1/panchang/date/2026-01-26")
	require.Equal(t, http.StatusOK, rr.Code)
	parseResponse(t, rr, &day)
	assert.Equal(t, region.CodeIndia, day.Region.Code)
	assert.Equal(t, []string{"Republic Day"}, festivalNames(day.Festivals))
}

func TestGetDate_CodeBeatsTimezone(t *testing.T) {
	env := setupTest(t)

	rr := env.get(t, "/api/v1/panchang/date/2026-02-16?region=in&tz=America/New_York")
	require.Equal(t, http.StatusOK, rr.Code)

	var day DayResponse
	parseResponse(t, rr, &day)
	assert.Equal(t, region.CodeIndia, day.Region.Code)
}

func TestGetDate_OutsideDataset(t *testing.T) {
	env := setupTest(t)

	rr := env.get(t, "/api/v1/panchang/date/2031-02-16?region=IN")
	require.Equal(t, http.StatusOK, rr.Code)

	var day DayResponse
	parseResponse(t, rr, &day)
	assert.False(t, day.Covered)
	assert.Empty(t, day.Festivals)
	assert.Equal(t, 1.0, testutil.ToFloat64(env.metrics.UncoveredLookups))
}

func TestGetDate_BadRequests(t *testing.T) {
	env := setupTest(t)

	tests := []struct {
		name string
		path string
	}{
		{"malformed date", "/api/v1/panchang/date/16-02-2026"},
		{"impossible date", "/api/v1/panchang/date/2026-02-30"},
		{"unknown region", "/api/v1/panchang/date/2026-02-16?region=FR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := env.get(t, tt.path)
			assert.Equal(t, http.StatusBadRequest, rr.Code)

			resp := parseResponse(t, rr, nil)
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, CodeBadRequest, resp.Error.Code)
		})
	}
}

func TestGetToday_UsesRegionTimezone(t *testing.T) {
	env := setupTest(t)
	// 20:00 UTC on the 15th is already the 16th in Kolkata
	env.handlers.now = func() time.Time {
		return time.Date(2026, time.February, 15, 20, 0, 0, 0, time.UTC)
	}

	var india DayResponse
	parseResponse(t, env.get(t, "/api/v1/panchang/today?region=IN"), &india)
	assert.Equal(t, "2026-02-16", india.Date)

	var global DayResponse
	parseResponse(t, env.get(t, "/api/v1/panchang/today"), &global)
	assert.Equal(t, "2026-02-15", global.Date)
}

func TestGetMonth(t *testing.T) {
	env := setupTest(t)

	rr := env.get(t, "/api/v1/panchang/month/2026/2?region=IN")
	require.Equal(t, http.StatusOK, rr.Code)

	var view calendar.MonthView
	parseResponse(t, rr, &view)
	assert.Equal(t, 2026, view.Year)
	assert.Equal(t, 2, view.Month)
	assert.Equal(t, "February", view.MonthName)
	assert.Len(t, view.Days, 28)
	assert.Equal(t, "2026-02-01", view.Days[0].Date)
	assert.Equal(t, 30, view.Days[0].Tithi.Number)
	assert.Equal(t, []string{"Vijaya Ekadashi", "Maha Shivaratri"}, festivalNames(view.Upcoming))
	assert.Equal(t, 28.0, testutil.ToFloat64(env.metrics.DaysComputed.WithLabelValues("IN")))
}

func TestGetMonth_DistantYearsAdvanceTithi(t *testing.T) {
	env := setupTest(t)

	for _, path := range []string{
		"/api/v1/panchang/month/1700/1",
		"/api/v1/panchang/month/9999/12",
	} {
		rr := env.get(t, path)
		require.Equal(t, http.StatusOK, rr.Code, path)

		var view calendar.MonthView
		parseResponse(t, rr, &view)
		require.Len(t, view.Days, 31, path)
		assert.False(t, view.Covered, path)
		for i := 1; i < len(view.Days); i++ {
			prev, cur := view.Days[i-1].Tithi.Number, view.Days[i].Tithi.Number
			assert.Equal(t, prev%30+1, cur, "%s day %s", path, view.Days[i].Date)
		}
	}
}

func TestGetMonth_BadRequests(t *testing.T) {
	env := setupTest(t)

	for _, path := range []string{
		"/api/v1/panchang/month/2026/13",
		"/api/v1/panchang/month/2026/0",
		"/api/v1/panchang/month/2026/feb",
		"/api/v1/panchang/month/year/2",
		"/api/v1/panchang/month/0/2",
	} {
		rr := env.get(t, path)
		assert.Equal(t, http.StatusBadRequest, rr.Code, path)
	}
}

// =============================================================================
// FESTIVAL ENDPOINTS
// =============================================================================

func TestGetFestivals_KeepsDuplicates(t *testing.T) {
	env := setupTest(t)

	rr := env.get(t, "/api/v1/festivals/date/2026-01-01?region=US")
	require.Equal(t, http.StatusOK, rr.Code)

	var resp FestivalsResponse
	parseResponse(t, rr, &resp)
	assert.Equal(t, "2026-01-01", resp.Date)
	assert.Equal(t, []string{"New Year's Day", "New Year's Day"}, festivalNames(resp.Festivals))
	assert.Equal(t, festival.TypeFederal, resp.Festivals[0].Type)
	assert.Equal(t, festival.TypeGlobal, resp.Festivals[1].Type)
}

func TestGetUpcoming(t *testing.T) {
	env := setupTest(t)

	rr := env.get(t, "/api/v1/festivals/upcoming?region=IN&from=2026-01-10&limit=2")
	require.Equal(t, http.StatusOK, rr.Code)

	var resp FestivalsResponse
	parseResponse(t, rr, &resp)
	assert.Equal(t, "2026-01-10", resp.From)
	assert.Equal(t, "2026-01-31", resp.To)
	assert.Equal(t, []string{"Makar Sankranti", "Pongal"}, festivalNames(resp.Festivals))
}

func TestGetUpcoming_DefaultsToToday(t *testing.T) {
	env := setupTest(t)
	env.handlers.now = func() time.Time {
		return time.Date(2026, time.February, 10, 12, 0, 0, 0, time.UTC)
	}

	var resp FestivalsResponse
	parseResponse(t, env.get(t, "/api/v1/festivals/upcoming?region=IN"), &resp)
	assert.Equal(t, "2026-02-10", resp.From)
	assert.Equal(t, "2026-02-28", resp.To)
	assert.Equal(t, []string{"Vijaya Ekadashi", "Maha Shivaratri"}, festivalNames(resp.Festivals))
}

func TestGetUpcoming_BadRequests(t *testing.T) {
	env := setupTest(t)

	for _, path := range []string{
		"/api/v1/festivals/upcoming?from=tomorrow",
		"/api/v1/festivals/upcoming?limit=0",
		"/api/v1/festivals/upcoming?limit=101",
		"/api/v1/festivals/upcoming?limit=ten",
	} {
		rr := env.get(t, path)
		assert.Equal(t, http.StatusBadRequest, rr.Code, path)
	}
}

// =============================================================================
// MUHURAT, REGIONS, DATASET
// =============================================================================

func TestGetMuhurat(t *testing.T) {
	env := setupTest(t)

	rr := env.get(t, "/api/v1/muhurat/0")
	require.Equal(t, http.StatusOK, rr.Code)

	var resp MuhuratResponse
	parseResponse(t, rr, &resp)
	assert.Equal(t, "Sunday", resp.WeekdayName)
	assert.Equal(t, "16:30 - 18:00", resp.Muhurat.RahuKaal)

	for _, path := range []string{"/api/v1/muhurat/7", "/api/v1/muhurat/-1", "/api/v1/muhurat/sunday"} {
		assert.Equal(t, http.StatusBadRequest, env.get(t, path).Code, path)
	}
}

func TestResolveRegion(t *testing.T) {
	env := setupTest(t)

	tests := []struct {
		tz   string
		want region.Code
	}{
		{"Asia/Kolkata", region.CodeIndia},
		{"America/Los_Angeles", region.CodeUS},
		{"Europe/London", region.CodeGlobal},
		{"", region.CodeGlobal},
	}

	for _, tt := range tests {
		t.Run("tz="+tt.tz, func(t *testing.T) {
			rr := env.get(t, "/api/v1/regions/resolve?tz="+tt.tz)
			require.Equal(t, http.StatusOK, rr.Code)

			var data struct {
				Timezone string        `json:"timezone"`
				Region   region.Region `json:"region"`
			}
			parseResponse(t, rr, &data)
			assert.Equal(t, tt.tz, data.Timezone)
			assert.Equal(t, tt.want, data.Region.Code)
		})
	}

	rr := env.get(t, "/api/v1/regions/resolve")
	require.Equal(t, http.StatusOK, rr.Code)
	var data struct {
		Region region.Region `json:"region"`
	}
	parseResponse(t, rr, &data)
	assert.Equal(t, region.Default, data.Region)
}

func TestListRegions(t *testing.T) {
	env := setupTest(t)

	var data struct {
		Regions []region.Region `json:"regions"`
		Default region.Region   `json:"default"`
	}
	parseResponse(t, env.get(t, "/api/v1/regions"), &data)
	assert.Equal(t, region.All(), data.Regions)
	assert.Equal(t, region.Global, data.Default)
}

func TestGetDataset(t *testing.T) {
	env := setupTest(t)

	rr := env.get(t, "/api/v1/dataset")
	require.Equal(t, http.StatusOK, rr.Code)

	var resp DatasetResponse
	parseResponse(t, rr, &resp)

	ds := env.registry.Dataset()
	assert.Equal(t, ds.Version, resp.Version)
	assert.Equal(t, ds.FirstYear, resp.FirstYear)
	assert.Equal(t, ds.LastYear, resp.LastYear)
	assert.Equal(t, ds.Count(), resp.Entries)
	assert.Equal(t, len(ds.Regions[region.CodeIndia]), resp.Regions[region.CodeIndia])
	require.Len(t, resp.Stored, 1)
	assert.True(t, resp.Stored[0].Active)
	assert.Equal(t, ds.Count(), resp.Stored[0].Festivals)
}

// =============================================================================
// ROUTER & MIDDLEWARE
// =============================================================================

func TestUnknownRoute(t *testing.T) {
	env := setupTest(t)

	rr := env.get(t, "/api/v1/readings/today")
	assert.Equal(t, http.StatusNotFound, rr.Code)

	resp := parseResponse(t, rr, nil)
	require.NotNil(t, resp.Error)
	assert.Equal(t, CodeNotFound, resp.Error.Code)
}

func TestMethodNotAllowed(t *testing.T) {
	env := setupTest(t)

	rr := httptest.NewRecorder()
	env.router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/v1/dataset", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestCORSPreflight(t *testing.T) {
	env := setupTest(t)

	rr := httptest.NewRecorder()
	env.router.ServeHTTP(rr, httptest.NewRequest(http.MethodOptions, "/api/v1/dataset", nil))

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestRecoveryMiddleware(t *testing.T) {
	handler := RecoveryMiddleware()(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			panic("boom")
		}),
	)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	resp := parseResponse(t, rr, nil)
	require.NotNil(t, resp.Error)
	assert.Equal(t, CodeInternal, resp.Error.Code)
}
