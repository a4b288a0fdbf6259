package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/BoldMakerAI/ai-candy-generator/internal/api"
	apiMiddleware "github.com/BoldMakerAI/ai-candy-generator/internal/api/middleware"
	"github.com/BoldMakerAI/ai-candy-generator/internal/metrics"
	"github.com/BoldMakerAI/ai-candy-generator/internal/watermark"
)

// setupRouter creates and configures the application router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	// Apply standard middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)
	r.Use(metrics.Middleware)

	// Generation makes two backend calls plus retries.
	candyHandler := api.NewCandyHandler(app.generator, app.eventEmitter, watermark.DefaultText,
		api.WithGenerateTimeout(app.config.Server.RequestTimeout()))

	r.Route("/api", func(r chi.Router) {
		r.Get("/candy-types", candyHandler.ListCandyTypes)
		r.Post("/candies/download", candyHandler.DownloadCandy)
		r.Post("/candies", candyHandler.GenerateCandy)
	})

	r.Handle("/metrics", promhttp.Handler())

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, err := w.Write([]byte("OK"))
		if err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
