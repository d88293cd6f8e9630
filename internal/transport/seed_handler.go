package transport

import (
	"context"
	"errors"
	"net/http"

	"region-latency-demo/internal/middleware"
	"region-latency-demo/internal/region"
	"region-latency-demo/internal/seeder"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// SeedRunner is the part of the seeder the HTTP layer drives
type SeedRunner interface {
	SeedRegion(ctx context.Context, code string) (*seeder.Report, error)
	SeedAll(ctx context.Context) ([]*seeder.Report, error)
	RecordCount(ctx context.Context, code string) (int64, error)
	RecordCounts(ctx context.Context) (map[string]int64, error)
}

// RegionParam is the {region} path parameter
type RegionParam struct {
	Region string `validate:"required,hostname_rfc1123,max=32"`
}

// CountResponse reports the user count of one region
type CountResponse struct {
	Region string `json:"region"`
	Count  int64  `json:"count"`
}

// SeedAllResponse reports every region's seeding run and refreshed counts
type SeedAllResponse struct {
	Reports []*seeder.Report `json:"reports"`
	Counts  map[string]int64 `json:"counts"`
}

// SeedHandler triggers seeding runs and reports record counts
type SeedHandler struct {
	seeder SeedRunner
	logger *zap.Logger
}

// NewSeedHandler creates a new SeedHandler
func NewSeedHandler(s SeedRunner, logger *zap.Logger) *SeedHandler {
	return &SeedHandler{
		seeder: s,
		logger: logger,
	}
}

// RegisterRoutes registers the seeding routes. guard wraps the routes that
// write data; counts stay public.
func (h *SeedHandler) RegisterRoutes(r chi.Router, guard ...func(http.Handler) http.Handler) {
	r.Get("/api/regions/{region}/count", h.CountRecords)

	r.Group(func(r chi.Router) {
		r.Use(guard...)
		r.Post("/api/regions/{region}/seed", h.SeedRegion)
		r.Post("/api/seed", h.SeedAll)
	})
}

// SeedRegion handles POST /api/regions/{region}/seed
func (h *SeedHandler) SeedRegion(w http.ResponseWriter, r *http.Request) {
	code, ok := h.regionParam(w, r)
	if !ok {
		return
	}

	report, err := h.seeder.SeedRegion(r.Context(), code)
	if err != nil {
		h.respondSeedError(w, code, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, report)
}

// SeedAll handles POST /api/seed
func (h *SeedHandler) SeedAll(w http.ResponseWriter, r *http.Request) {
	reports, err := h.seeder.SeedAll(r.Context())
	if err != nil {
		h.respondSeedError(w, "", err)
		return
	}

	counts, err := h.seeder.RecordCounts(r.Context())
	if err != nil {
		h.logger.Error("Failed to refresh record counts", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to count records")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, SeedAllResponse{Reports: reports, Counts: counts})
}

// CountRecords handles GET /api/regions/{region}/count
func (h *SeedHandler) CountRecords(w http.ResponseWriter, r *http.Request) {
	code, ok := h.regionParam(w, r)
	if !ok {
		return
	}

	count, err := h.seeder.RecordCount(r.Context(), code)
	if err != nil {
		if errors.Is(err, region.ErrUnknownRegion) {
			middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("Failed to count records", zap.String("region", code), zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to count records")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, CountResponse{Region: code, Count: count})
}

func (h *SeedHandler) regionParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	param := RegionParam{Region: chi.URLParam(r, "region")}
	if err := middleware.ValidateRequest(param); err != nil {
		middleware.RespondWithValidationErrors(w, middleware.FormatValidationErrors(err))
		return "", false
	}
	return param.Region, true
}

func (h *SeedHandler) respondSeedError(w http.ResponseWriter, code string, err error) {
	switch {
	case errors.Is(err, region.ErrUnknownRegion):
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, seeder.ErrNoRegions):
		middleware.RespondWithError(w, http.StatusServiceUnavailable, err.Error())
	default:
		h.logger.Error("Seeding failed", zap.String("region", code), zap.Error(err))
		middleware.RespondWithErrorDetails(w, http.StatusInternalServerError, "seeding failed", map[string]any{
			"reason": err.Error(),
		})
	}
}
