package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"cross-country/runflow/internal/models/entities"
)

// HealthCheckHandler handles GET /healthCheck
func (h *Handlers) HealthCheckHandler(upSince time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		services := make(map[string]entities.ServiceStatus)

		dbStatus := entities.ServiceStatus{Status: "ok", Details: "Database connected (" + h.deps.Config.DB.Driver + ")"}
		if err := h.deps.Repo.Stats.Ping(ctx); err != nil {
			dbStatus = entities.ServiceStatus{Status: "down", Details: err.Error()}
		}
		services["database"] = dbStatus

		if h.deps.Redis != nil {
			redisStatus := entities.ServiceStatus{Status: "ok", Details: "Redis connected"}
			if err := h.deps.Redis.Ping(ctx).Err(); err != nil {
				redisStatus = entities.ServiceStatus{Status: "down", Details: err.Error()}
			}
			services["redis"] = redisStatus
		}

		mirror := entities.ServiceStatus{Status: "ok", Details: "Sheet webhook configured"}
		if !h.deps.Services.Sheets.Enabled() {
			mirror = entities.ServiceStatus{Status: "disabled", Details: "SHEETS_WEBHOOK_URL not set"}
		}
		services["sheet_mirror"] = mirror

		overallStatus := "ok"
		code := http.StatusOK
		for _, svc := range services {
			if svc.Status == "down" {
				overallStatus = "down"
				code = http.StatusServiceUnavailable
				break
			}
		}

		resp := entities.HealthCheckResponse{
			Services: services,
			Status:   overallStatus,
			UpSince:  upSince,
			Uptime:   time.Since(upSince).Round(time.Second).String(),
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(resp)
	}
}
