package routes

import (
	"github.com/go-chi/chi/v5"

	"cross-country/runflow/internal/api"
	"cross-country/runflow/internal/middleware"
)

// RegisterAPIRoutes registers all API v1 routes and the signed export download
func RegisterAPIRoutes(r chi.Router, handlers *api.Handlers, deps *api.Dependencies) {
	checkInLimiter := middleware.NewRateLimiter(deps.Config.CheckInRatePerSec, deps.Config.CheckInBurst).
		WithTrustedProxies(deps.Config.TrustedProxies)

	r.Route("/api/v1", func(v1 chi.Router) {
		// Public routes
		v1.Get("/config/training", handlers.TrainingPolicy())
		v1.Get("/roster", handlers.Roster())
		v1.With(checkInLimiter.Middleware()).Post("/presence", handlers.CheckIn())

		v1.Post("/auth/login", handlers.Login())
		v1.Post("/auth/logout", handlers.Logout())

		// Admin-only group
		v1.Route("/admin", func(admin chi.Router) {
			admin.Use(middleware.IsAdminMiddleware())

			admin.Get("/attendance", handlers.Attendance())
			admin.Get("/months", handlers.Months())
			admin.Get("/records", handlers.Records())
			admin.Post("/export-link", handlers.ExportLink())
			admin.Get("/mirror/status", handlers.MirrorStatus())
			admin.Post("/mirror/sync", handlers.MirrorSync())
			admin.Get("/sheet/frequency-table", handlers.SheetFrequencyTable())
		})
	})

	r.Get("/export/attendance.xlsx", handlers.DownloadExport())
}
