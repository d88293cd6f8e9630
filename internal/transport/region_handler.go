package transport

import (
	"net/http"

	"region-latency-demo/internal/middleware"
	"region-latency-demo/internal/region"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// DeploymentHeader carries "{region}::{identifier}" on edge deployments
const DeploymentHeader = "X-Vercel-Id"

// RegionResponse reports the region that served a request
type RegionResponse struct {
	Region string `json:"region"`
}

// PinnedRegionResponse is returned by the pinned-region endpoint
type PinnedRegionResponse struct {
	Message string `json:"message"`
	Region  string `json:"region"`
}

// RegionHandler reports where the serving function runs
type RegionHandler struct {
	logger *zap.Logger
}

// NewRegionHandler creates a new RegionHandler
func NewRegionHandler(logger *zap.Logger) *RegionHandler {
	return &RegionHandler{logger: logger}
}

// RegisterRoutes registers the deployment region routes
func (h *RegionHandler) RegisterRoutes(r chi.Router) {
	r.Post("/api/region", h.GetDeploymentRegion)
	r.Get("/api/sf", h.GetPinnedRegion)
}

// GetDeploymentRegion returns the region prefix of the deployment id header
func (h *RegionHandler) GetDeploymentRegion(w http.ResponseWriter, r *http.Request) {
	code := region.FromDeploymentID(r.Header.Get(DeploymentHeader))
	h.logger.Debug("Deployment region resolved", zap.String("region", code))
	middleware.RespondWithJSON(w, http.StatusOK, RegionResponse{Region: code})
}

// GetPinnedRegion is deployed pinned to San Francisco so its latency can be
// compared with the regional routes.
func (h *RegionHandler) GetPinnedRegion(w http.ResponseWriter, r *http.Request) {
	middleware.RespondWithJSON(w, http.StatusOK, PinnedRegionResponse{
		Message: "This endpoint always runs in San Francisco region",
		Region:  region.FromDeploymentID(r.Header.Get(DeploymentHeader)),
	})
}
