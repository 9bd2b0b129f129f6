// Package httpapi assembles the HTTP surface: routing, CORS, and the request
// middleware chain around the handlers.
package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"quotereel/internal/httpapi/handlers"
	"quotereel/internal/httpkit"
	"quotereel/internal/pkg/logger"
	"quotereel/internal/pkg/middleware"
)

type Deps struct {
	Handlers    handlers.Deps
	CORSOrigins []string
	Log         *logger.Logger
}

func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logging(d.Log))
	r.Use(middleware.Recovery(d.Log))
	r.Use(httpkit.CORS(httpkit.CORSOptions{
		AllowedOrigins:   d.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: false,
		MaxAgeSeconds:    600,
	}))

	h := handlers.New(d.Handlers)

	r.Get("/health", h.Health)

	r.Route("/api", func(r chi.Router) {
		r.Post("/generate", h.Generate)

		r.Get("/history", h.ListHistory)
		r.Delete("/history", h.ClearHistory)

		r.Get("/videos", h.ListVideos)
		r.Post("/videos", h.UploadVideo)
		r.Delete("/videos/{filename}", h.DeleteVideo)

		r.Get("/download/{outputID}", h.Download)
		r.Get("/cleanups", h.ListCleanups)
		r.Post("/sync", h.SyncPools)
	})

	return r
}
