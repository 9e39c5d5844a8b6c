package api

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/hugh/linkstash/internal/api/handlers"
	"github.com/hugh/linkstash/internal/api/middleware"
	"github.com/hugh/linkstash/internal/auth"
	"github.com/hugh/linkstash/internal/bookmarks"
	"github.com/hugh/linkstash/internal/groups"
	"github.com/hugh/linkstash/internal/settings"
	"github.com/hugh/linkstash/internal/tags"
	"github.com/hugh/linkstash/internal/transfer"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Router struct {
	chi.Router
}

type RouterConfig struct {
	DB             *gorm.DB
	Redis          *redis.Client
	Logger         *slog.Logger
	JWTService     *auth.JWTService
	AuthService    *auth.Service
	GuestDomain    string
	AllowedOrigins []string
	RateLimitReqs  int // requests per window, 0 disables
	RateLimitSecs  int // window length in seconds
}

func NewRouter(cfg RouterConfig) *Router {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Logging(cfg.Logger))

	if cfg.RateLimitReqs > 0 {
		r.Use(middleware.RateLimit(cfg.RateLimitReqs, cfg.RateLimitSecs))
	}

	allowedOrigins := cfg.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:3000", "http://localhost:8080"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Services
	groupService := groups.NewService(cfg.DB, cfg.GuestDomain)
	bookmarkService := bookmarks.NewService(cfg.DB, groupService, cfg.Logger, cfg.GuestDomain)
	tagService := tags.NewService(cfg.DB)
	transferService := transfer.NewService(cfg.DB, bookmarkService)
	settingsService := settings.NewService(cfg.DB)

	// Handlers
	healthHandler := handlers.NewHealthHandler(cfg.DB, cfg.Redis)
	authHandler := handlers.NewAuthHandler(cfg.AuthService)
	bookmarkHandler := handlers.NewBookmarkHandler(bookmarkService)
	groupHandler := handlers.NewGroupHandler(groupService)
	tagHandler := handlers.NewTagHandler(tagService)
	transferHandler := handlers.NewTransferHandler(transferService)
	settingsHandler := handlers.NewSettingsHandler(settingsService)

	// Health endpoints (no auth required)
	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)

	r.Route("/api/v1", func(r chi.Router) {
		// Public auth endpoints
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/guest", authHandler.Guest)

		// Public bookmark listing; a valid token enriches the rows with the
		// viewer's tags and personal filing.
		r.Group(func(r chi.Router) {
			r.Use(middleware.OptionalAuth(cfg.JWTService))
			r.Get("/bookmarks/public", bookmarkHandler.Public)
		})

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWTService))

			r.Get("/me", authHandler.Me)

			r.Route("/bookmarks", func(r chi.Router) {
				r.Get("/", bookmarkHandler.List)
				r.Post("/", bookmarkHandler.Create)
				r.Get("/export/json", transferHandler.ExportJSON)
				r.Get("/export/html", transferHandler.ExportHTML)
				r.Post("/import/json", transferHandler.ImportJSON)
				r.Post("/import/html", transferHandler.ImportHTML)
				r.Get("/{id}", bookmarkHandler.Get)
				r.Put("/{id}", bookmarkHandler.Update)
				r.Delete("/{id}", bookmarkHandler.Delete)
			})

			r.Route("/groups", func(r chi.Router) {
				r.Get("/", groupHandler.List)
				r.Get("/flat", groupHandler.Flat)
				r.Post("/", groupHandler.Create)
				r.Put("/{id}", groupHandler.Update)
				r.Delete("/{id}", groupHandler.Delete)
			})

			r.Route("/tags", func(r chi.Router) {
				r.Get("/", tagHandler.List)
				r.Post("/", tagHandler.Create)
				r.Put("/{id}", tagHandler.Update)
				r.Delete("/{id}", tagHandler.Delete)
			})

			r.Route("/settings", func(r chi.Router) {
				r.Get("/", settingsHandler.List)
				r.Put("/", settingsHandler.Update)
			})
		})
	})

	return &Router{r}
}
