package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/sentiserve/ml-api/internal/core/ports"
)

// InfoHandler handles GET / — service metadata for API discovery.
type InfoHandler struct {
	name    string
	version string
}

func NewInfoHandler(name, version string) *InfoHandler {
	return &InfoHandler{name: name, version: version}
}

func (h *InfoHandler) Root(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"name":           h.name,
		"version":        h.version,
		"health":         "/health",
		"metrics":        "/metrics",
		"authentication": "JWT bearer token required for protected endpoints",
	})
}

// HealthHandler handles GET /health — liveness probe. Returns 200 as long as
// the process is alive, with the model-loaded flag for operators.
type HealthHandler struct {
	predictions ports.PredictionService
	version     string
}

func NewHealthHandler(predictions ports.PredictionService, version string) *HealthHandler {
	return &HealthHandler{predictions: predictions, version: version}
}

type healthResponse struct {
	Status      string `json:"status"`
	ModelLoaded bool   `json:"model_loaded"`
	Version     string `json:"version"`
}

func (h *HealthHandler) Liveness(c echo.Context) error {
	return c.JSON(http.StatusOK, healthResponse{
		Status:      "healthy",
		ModelLoaded: h.predictions.Loaded(),
		Version:     h.version,
	})
}

// ReadinessHandler handles GET /health/ready — readiness probe. Checks the
// optional Redis and Mongo dependencies; a nil client is skipped, since both
// are optional at runtime.
type ReadinessHandler struct {
	redis *redis.Client
	mongo *mongo.Database
}

func NewReadinessHandler(rdb *redis.Client, db *mongo.Database) *ReadinessHandler {
	return &ReadinessHandler{redis: rdb, mongo: db}
}

type dependencyStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type readinessResponse struct {
	Status       string                      `json:"status"`
	Dependencies map[string]dependencyStatus `json:"dependencies"`
}

func (h *ReadinessHandler) Readiness(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 3*time.Second)
	defer cancel()

	deps := make(map[string]dependencyStatus)
	healthy := true

	if h.redis != nil {
		if err := h.redis.Ping(ctx).Err(); err != nil {
			deps["redis"] = dependencyStatus{Status: "unhealthy", Error: err.Error()}
			healthy = false
		} else {
			deps["redis"] = dependencyStatus{Status: "ok"}
		}
	}

	if h.mongo != nil {
		if err := h.mongo.Client().Ping(ctx, nil); err != nil {
			deps["mongodb"] = dependencyStatus{Status: "unhealthy", Error: err.Error()}
			healthy = false
		} else {
			deps["mongodb"] = dependencyStatus{Status: "ok"}
		}
	}

	status := "ok"
	httpStatus := http.StatusOK
	if !healthy {
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable
	}

	return c.JSON(httpStatus, readinessResponse{
		Status:       status,
		Dependencies: deps,
	})
}
