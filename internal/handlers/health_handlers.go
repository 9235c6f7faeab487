package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"sgspadmin/internal/caching"
	"sgspadmin/internal/services"

	"github.com/labstack/echo/v4"
)

const healthCheckTimeout = 3 * time.Second

// Pinger is satisfied by *pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandlers handles health check and readiness endpoints
type HealthHandlers struct {
	db       Pinger
	cacheSvc caching.CacheService
	minioSvc services.MinioService
	buckets  []string
	version  string
	started  time.Time
}

// NewHealthHandlers creates a new health handlers instance. cacheSvc and
// minioSvc may be nil when those backends are not configured.
func NewHealthHandlers(db Pinger, cacheSvc caching.CacheService, minioSvc services.MinioService, buckets []string, version string) *HealthHandlers {
	return &HealthHandlers{
		db:       db,
		cacheSvc: cacheSvc,
		minioSvc: minioSvc,
		buckets:  buckets,
		version:  version,
		started:  time.Now(),
	}
}

// HealthStatus represents the overall health status
type HealthStatus struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Services  map[string]string `json:"services,omitempty"`
	Uptime    string            `json:"uptime"`
	Version   string            `json:"version"`
}

// LivenessCheck reports that the process is serving requests
func (h *HealthHandlers) LivenessCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, &HealthStatus{
		Status:    "alive",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Uptime:    time.Since(h.started).Round(time.Second).String(),
		Version:   h.version,
	})
}

// ReadinessCheck pings every configured dependency
func (h *HealthHandlers) ReadinessCheck(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), healthCheckTimeout)
	defer cancel()

	status := &HealthStatus{
		Status:    "ready",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Services:  make(map[string]string),
		Uptime:    time.Since(h.started).Round(time.Second).String(),
		Version:   h.version,
	}

	record := func(name string, err error) {
		if err != nil {
			status.Services[name] = "unhealthy"
			status.Status = "not_ready"
			return
		}
		status.Services[name] = "healthy"
	}

	record("database", h.db.Ping(ctx))
	if h.cacheSvc != nil {
		record("redis", h.cacheSvc.Ping(ctx))
	}
	if h.minioSvc != nil {
		record("storage", h.checkBuckets(ctx))
	}

	code := http.StatusOK
	if status.Status != "ready" {
		code = http.StatusServiceUnavailable
	}
	return c.JSON(code, status)
}

func (h *HealthHandlers) checkBuckets(ctx context.Context) error {
	for _, bucket := range h.buckets {
		if bucket == "" {
			continue
		}
		ok, err := h.minioSvc.BucketExists(ctx, bucket)
		if err != nil {
			return err
		}
		if !ok {
			return errBucketMissing
		}
	}
	return nil
}

var errBucketMissing = errors.New("bucket missing")
