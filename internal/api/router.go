package api

import (
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/capgif/backend/internal/api/handlers"
	"github.com/capgif/backend/internal/api/middleware"
	"github.com/capgif/backend/internal/auth"
	"github.com/capgif/backend/internal/config"
	"github.com/capgif/backend/internal/db"
	"github.com/capgif/backend/internal/job"
)

func NewRouter(cfg *config.Config, database *db.Database, jwtService *auth.JWTService, runner handlers.Runner, jobQueue *job.Queue) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger)
	r.Use(cors.Handler(middleware.CORSHandler(cfg.CORSOrigins)))

	// Handlers
	authHandler := handlers.NewAuthHandler(database, jwtService)
	uploadHandler := handlers.NewUploadHandler(runner, cfg.UploadDir, cfg.MaxUploadBytes)
	jobHandler := handlers.NewJobHandler(jobQueue, cfg.UploadDir)
	gifHandler := handlers.NewGifHandler(cfg.GifDir)

	// Each upload fans out into several encoder processes; keep admission low.
	uploadLimiter := middleware.NewRateLimiter(10, time.Minute)

	// Public GIF downloads
	r.Get("/gifs/*", gifHandler.Serve)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", handlers.Health)

		// Auth (public)
		r.Group(func(r chi.Router) {
			r.Use(middleware.MaxBodySize(1 << 20))
			r.Post("/auth/login", authHandler.Login)
		})

		// Upload (public, rate limited; MIME admission happens in the handler)
		r.With(uploadLimiter.Handler).Post("/upload", uploadHandler.Upload)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(jwtService))
			r.Use(middleware.MaxBodySize(1 << 20))

			r.Get("/auth/me", authHandler.Me)

			// Async generation jobs
			r.Post("/jobs", jobHandler.Enqueue)
			r.Get("/jobs", jobHandler.ListJobs)
			r.Get("/jobs/{id}", jobHandler.GetJob)
			r.Delete("/jobs/{id}", jobHandler.CancelJob)
		})
	})

	return r
}
