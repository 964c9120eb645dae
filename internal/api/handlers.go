package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/zapponejosh/panchang-api/internal/calendar"
	"github.com/zapponejosh/panchang-api/internal/config"
	"github.com/zapponejosh/panchang-api/internal/database"
	"github.com/zapponejosh/panchang-api/internal/festival"
	"github.com/zapponejosh/panchang-api/internal/logger"
	"github.com/zapponejosh/panchang-api/internal/metrics"
	"github.com/zapponejosh/panchang-api/internal/region"
)

// Upcoming scan limits.
const (
	DefaultUpcomingLimit = 10
	MaxUpcomingLimit     = 100
)

// Handlers contains all HTTP handlers and their dependencies.
type Handlers struct {
	db       *database.DB
	registry *festival.Registry
	calendar *calendar.Calendar
	cfg      *config.Config
	metrics  *metrics.Metrics

	now func() time.Time
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(db *database.DB, registry *festival.Registry, cfg *config.Config, m *metrics.Metrics) *Handlers {
	return &Handlers{
		db:       db,
		registry: registry,
		calendar: calendar.New(registry),
		cfg:      cfg,
		metrics:  m,
		now:      time.Now,
	}
}

// DayResponse is a single calendar day with the region it was built for.
type DayResponse struct {
	Region  region.Region `json:"region"`
	Covered bool          `json:"covered"`
	calendar.Day
}

// FestivalsResponse lists festivals for a date or a range.
type FestivalsResponse struct {
	Date      string           `json:"date,omitempty"`
	From      string           `json:"from,omitempty"`
	To        string           `json:"to,omitempty"`
	Region    region.Region    `json:"region"`
	Covered   bool             `json:"covered"`
	Festivals []festival.Entry `json:"festivals"`
}

// MuhuratResponse holds the windows for one weekday.
type MuhuratResponse struct {
	Weekday     int                    `json:"weekday"`
	WeekdayName string                 `json:"weekday_name"`
	Muhurat     calendar.MuhuratWindow `json:"muhurat"`
}

// DatasetResponse describes the loaded festival dataset.
type DatasetResponse struct {
	Version   string                    `json:"version"`
	FirstYear int                       `json:"first_year"`
	LastYear  int                       `json:"last_year"`
	Entries   int                       `json:"entries"`
	Regions   map[region.Code]int       `json:"regions"`
	Stored    []database.DatasetVersion `json:"stored,omitempty"`
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// Check database health
	if err := h.db.Health(ctx); err != nil {
		logger.Warn(ctx, "health check failed", slog.Any("error", err))
		WriteError(w, http.StatusServiceUnavailable, "Database unhealthy", CodeUnavailable)
		return
	}

	WriteSuccess(w, map[string]string{
		"status":  "healthy",
		"dataset": h.registry.Version(),
	})
}

// GetToday handles GET /api/v1/panchang/today
// "Today" is the civil date in the selected region's timezone.
func (h *Handlers) GetToday(w http.ResponseWriter, r *http.Request) {
	rg, ok := h.requestRegion(w, r)
	if !ok {
		return
	}

	today := h.now().In(rg.Location())
	WriteSuccess(w, h.day(today, rg))
}

// GetDate handles GET /api/v1/panchang/date/{YYYY-MM-DD}
func (h *Handlers) GetDate(w http.ResponseWriter, r *http.Request) {
	date, ok := h.pathDate(w, r)
	if !ok {
		return
	}
	rg, ok := h.requestRegion(w, r)
	if !ok {
		return
	}

	WriteSuccess(w, h.day(date, rg))
}

// GetMonth handles GET /api/v1/panchang/month/{year}/{month}
func (h *Handlers) GetMonth(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		WriteBadRequest(w, fmt.Sprintf("Invalid year: %s", chi.URLParam(r, "year")))
		return
	}
	month, err := strconv.Atoi(chi.URLParam(r, "month"))
	if err != nil {
		WriteBadRequest(w, fmt.Sprintf("Invalid month: %s", chi.URLParam(r, "month")))
		return
	}
	rg, ok := h.requestRegion(w, r)
	if !ok {
		return
	}

	view, err := h.calendar.Month(year, month, rg)
	if err != nil {
		if errors.Is(err, calendar.ErrInvalidDate) {
			WriteBadRequest(w, err.Error())
			return
		}
		logger.Error(r.Context(), "failed to build month", err,
			slog.Int("year", year),
			slog.Int("month", month))
		WriteInternalError(w, "Failed to build month")
		return
	}

	h.metrics.DaysComputed.WithLabelValues(rg.Code.String()).Add(float64(len(view.Days)))
	h.observeFestivals(rg, view.Covered, len(view.Upcoming))

	WriteSuccess(w, view)
}

// GetFestivals handles GET /api/v1/festivals/date/{YYYY-MM-DD}
func (h *Handlers) GetFestivals(w http.ResponseWriter, r *http.Request) {
	date, ok := h.pathDate(w, r)
	if !ok {
		return
	}
	rg, ok := h.requestRegion(w, r)
	if !ok {
		return
	}

	entries := h.registry.For(date, rg.Code)
	covered := h.registry.Covers(date.Year())
	h.observeFestivals(rg, covered, len(entries))

	WriteSuccess(w, FestivalsResponse{
		Date:      calendar.FormatDate(date),
		Region:    rg,
		Covered:   covered,
		Festivals: entries,
	})
}

// GetUpcoming handles GET /api/v1/festivals/upcoming?from=YYYY-MM-DD&limit=N
// Scans from the given day (default today) to the end of its month.
func (h *Handlers) GetUpcoming(w http.ResponseWriter, r *http.Request) {
	rg, ok := h.requestRegion(w, r)
	if !ok {
		return
	}

	from := h.now().In(rg.Location())
	if s := r.URL.Query().Get("from"); s != "" {
		d, err := calendar.ParseDate(s)
		if err != nil {
			WriteBadRequest(w, fmt.Sprintf("Invalid from date: %s. Use YYYY-MM-DD", s))
			return
		}
		from = d
	}

	limit := DefaultUpcomingLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		l, err := strconv.Atoi(s)
		if err != nil || l < 1 || l > MaxUpcomingLimit {
			WriteBadRequest(w, fmt.Sprintf("limit must be between 1 and %d", MaxUpcomingLimit))
			return
		}
		limit = l
	}

	from = calendar.CivilDate(from)
	end := time.Date(from.Year(), from.Month(), calendar.DaysIn(from.Year(), from.Month()), 0, 0, 0, 0, time.UTC)

	entries := h.calendar.Upcoming(from, rg.Code, limit)
	covered := h.registry.Covers(from.Year())
	h.observeFestivals(rg, covered, len(entries))

	WriteSuccess(w, FestivalsResponse{
		From:      calendar.FormatDate(from),
		To:        calendar.FormatDate(end),
		Region:    rg,
		Covered:   covered,
		Festivals: entries,
	})
}

// GetMuhurat handles GET /api/v1/muhurat/{weekday}, weekday 0 (Sunday) to 6.
func (h *Handlers) GetMuhurat(w http.ResponseWriter, r *http.Request) {
	s := chi.URLParam(r, "weekday")
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 || n > 6 {
		WriteBadRequest(w, fmt.Sprintf("Invalid weekday: %s. Use 0 (Sunday) through 6 (Saturday)", s))
		return
	}

	wd := time.Weekday(n)
	WriteSuccess(w, MuhuratResponse{
		Weekday:     n,
		WeekdayName: wd.String(),
		Muhurat:     calendar.ComputeMuhurat(wd),
	})
}

// ListRegions handles GET /api/v1/regions
func (h *Handlers) ListRegions(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, map[string]any{
		"regions": region.All(),
		"default": h.cfg.Region(),
	})
}

// ResolveRegion handles GET /api/v1/regions/resolve?tz=Asia/Kolkata
// Resolution is total: a missing or unmatched tz resolves to region.Default.
func (h *Handlers) ResolveRegion(w http.ResponseWriter, r *http.Request) {
	tz := r.URL.Query().Get("tz")

	WriteSuccess(w, map[string]any{
		"timezone": tz,
		"region":   region.Resolve(tz),
	})
}

// GetDataset handles GET /api/v1/dataset
func (h *Handlers) GetDataset(w http.ResponseWriter, r *http.Request) {
	ds := h.registry.Dataset()

	counts := make(map[region.Code]int, len(ds.Regions))
	for code, entries := range ds.Regions {
		counts[code] = len(entries)
	}

	stored, err := h.db.ListVersions(r.Context())
	if err != nil {
		logger.Error(r.Context(), "failed to list dataset versions", err)
		WriteInternalError(w, "Failed to list dataset versions")
		return
	}

	WriteSuccess(w, DatasetResponse{
		Version:   ds.Version,
		FirstYear: ds.FirstYear,
		LastYear:  ds.LastYear,
		Entries:   ds.Count(),
		Regions:   counts,
		Stored:    stored,
	})
}

// day assembles one day and records it.
func (h *Handlers) day(date time.Time, rg region.Region) DayResponse {
	d := h.calendar.Day(date, rg.Code)
	covered := h.registry.Covers(date.Year())

	h.metrics.DaysComputed.WithLabelValues(rg.Code.String()).Inc()
	h.observeFestivals(rg, covered, len(d.Festivals))

	return DayResponse{Region: rg, Covered: covered, Day: d}
}

func (h *Handlers) observeFestivals(rg region.Region, covered bool, n int) {
	h.metrics.FestivalMatches.WithLabelValues(rg.Code.String()).Add(float64(n))
	if !covered {
		h.metrics.UncoveredLookups.Inc()
	}
}

// pathDate parses the {date} URL parameter, writing a 400 on failure.
func (h *Handlers) pathDate(w http.ResponseWriter, r *http.Request) (time.Time, bool) {
	s := chi.URLParam(r, "date")
	date, err := calendar.ParseDate(s)
	if err != nil {
		WriteBadRequest(w, fmt.Sprintf("Invalid date format: %s. Use YYYY-MM-DD", s))
		return time.Time{}, false
	}
	return date, true
}

// requestRegion picks the festival region for a request: ?region= when
// given, then ?tz=, then the configured default. An unknown ?region= is a
// 400 rather than a silent fallback.
func (h *Handlers) requestRegion(w http.ResponseWriter, r *http.Request) (region.Region, bool) {
	q := r.URL.Query()
	code, tz := q.Get("region"), q.Get("tz")

	if code != "" {
		if _, ok := region.Lookup(code); !ok {
			WriteBadRequest(w, fmt.Sprintf("Unknown region: %s. Use IN, US or global", code))
			return region.Region{}, false
		}
	}

	fallback := h.cfg.Region()
	rg := region.Select(code, tz, fallback)

	source := "default"
	switch {
	case code != "":
		source = "code"
	case tz != "":
		source = "timezone"
	}
	h.metrics.RegionResolution.WithLabelValues(source).Inc()

	return rg, true
}
