package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/Capstone-E1/aquasmart_wqi/internal/store"
	"github.com/Capstone-E1/aquasmart_wqi/internal/wqi"
	"github.com/Capstone-E1/aquasmart_wqi/internal/ws"
)

// SetupRoutes configures all HTTP routes for the water quality index API.
// mqtt may be nil.
func SetupRoutes(engine *wqi.Engine, dataStore store.DataStore, wsHub *ws.Hub, mqtt ConnectionStatus, defaultVariant wqi.Variant) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"}, // In production, specify allowed origins
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	handlers := NewHandlers(engine, dataStore, wsHub, mqtt, defaultVariant)

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", handlers.GetHealth)

		// Regulatory class limits
		r.Get("/reference", handlers.GetReference)

		// Evaluate with the configured default variant
		r.Post("/evaluate", handlers.EvaluateDefault)

		// Latest evaluation per device
		r.Get("/evaluations/latest", handlers.GetLatestEvaluations)

		r.Route("/variants", func(r chi.Router) {
			r.Get("/", handlers.GetVariants)

			r.Route("/{variant}", func(r chi.Router) {
				r.Get("/", handlers.GetVariant)
				r.Post("/evaluate", handlers.Evaluate)

				// Report downloads
				r.Post("/report.xlsx", handlers.ExportReportExcel)
				r.Post("/report.csv", handlers.ExportReportCSV)
			})
		})
	})

	// WebSocket route for live evaluations
	r.HandleFunc("/ws", wsHub.HandleWebSocket)

	return r
}
