package transport

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"region-latency-demo/internal/middleware"
	"region-latency-demo/internal/region"
	"region-latency-demo/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// DatabaseQuery holds the query parameters of the analytics endpoint
type DatabaseQuery struct {
	Region string `validate:"omitempty,hostname_rfc1123,max=32"`
	Trends string `validate:"omitempty,boolean"`
}

const invalidTrendsMessage = "Invalid trends. Must be true or false"

// AnalyticsErrorResponse is the error body of the analytics endpoint
type AnalyticsErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// AnalyticsHandler serves per-region database statistics
type AnalyticsHandler struct {
	analytics service.AnalyticsService
	logger    *zap.Logger
}

// NewAnalyticsHandler creates a new AnalyticsHandler
func NewAnalyticsHandler(analytics service.AnalyticsService, logger *zap.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		analytics: analytics,
		logger:    logger,
	}
}

// RegisterRoutes registers the analytics routes
func (h *AnalyticsHandler) RegisterRoutes(r chi.Router) {
	r.Get("/api/database", h.GetDatabaseStats)
	r.Get("/api/regions", h.ListRegions)
}

// GetDatabaseStats handles GET /api/database?region=<code>&trends=true
func (h *AnalyticsHandler) GetDatabaseStats(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	query := DatabaseQuery{
		Region: r.URL.Query().Get("region"),
		Trends: r.URL.Query().Get("trends"),
	}
	if err := middleware.ValidateRequest(query); err != nil {
		middleware.RespondWithJSON(w, http.StatusBadRequest, AnalyticsErrorResponse{Error: h.invalidQueryMessage(err)})
		return
	}
	includeTrends, _ := strconv.ParseBool(query.Trends)

	stats, err := h.analytics.GetDatabaseStats(r.Context(), service.StatsRequest{
		Region:        query.Region,
		IncludeTrends: includeTrends,
		Start:         start,
	})
	if err != nil {
		if errors.Is(err, region.ErrUnknownRegion) {
			middleware.RespondWithJSON(w, http.StatusBadRequest, AnalyticsErrorResponse{Error: h.invalidRegionMessage()})
			return
		}

		h.logger.Error("Database query error", zap.String("region", query.Region), zap.Error(err))
		middleware.RespondWithJSON(w, http.StatusInternalServerError, AnalyticsErrorResponse{
			Error:   "Failed to fetch database statistics",
			Details: err.Error(),
		})
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, stats)
}

// ListRegions returns the configured region codes
func (h *AnalyticsHandler) ListRegions(w http.ResponseWriter, r *http.Request) {
	middleware.RespondWithJSON(w, http.StatusOK, map[string]any{
		"regions": h.analytics.Regions(),
		"default": h.analytics.DefaultRegion(),
	})
}

// invalidQueryMessage reports the region first when both parameters are bad
func (h *AnalyticsHandler) invalidQueryMessage(err error) string {
	for _, fe := range middleware.FormatValidationErrors(err) {
		if fe.Field == "Region" {
			return h.invalidRegionMessage()
		}
	}
	return invalidTrendsMessage
}

func (h *AnalyticsHandler) invalidRegionMessage() string {
	return "Invalid region. Must be one of: " + strings.Join(h.analytics.Regions(), ", ")
}
