// Package api exposes the CMS service over REST: blog posts with slug/id
// resolution, the image upload pipeline, the contact inbox, the admin
// dashboard, and token-based admin auth.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v2"
	"github.com/go-chi/render"

	"github.com/brightpages/brightpages/pkg/cms"
)

// RouterConfig bundles everything the HTTP surface needs.
type RouterConfig struct {
	Service        cms.Service
	Auth           AuthConfig
	AllowedOrigins []string
	UploadMaxBytes int64
	Logger         *httplog.Logger
}

// NewRouter assembles the full route tree. Layout mirrors the front end's
// expectations: everything under /api, health and banner at the root.
func NewRouter(cfg RouterConfig) http.Handler {
	auth := NewAuth(cfg.Auth)
	blogs := NewBlogHandler(cfg.Service, auth)
	uploads := NewUploadHandler(cfg.Service, auth, cfg.UploadMaxBytes)
	contacts := NewContactHandler(cfg.Service, auth)
	admin := NewAdminHandler(cfg.Service, auth)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	if cfg.Logger != nil {
		r.Use(httplog.RequestLogger(cfg.Logger))
	}
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// Credentialed CORS with an explicit origin allow-list; preflights get a
	// neutral 200 before any body processing.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", handleHealth)
	r.Get("/", handleRoot)

	r.Route("/api", func(r chi.Router) {
		r.Mount("/auth", auth.Routes())
		r.Mount("/blogs", blogs.Routes())
		r.Mount("/upload", uploads.Routes())
		r.Mount("/contacts", contacts.Routes())
		r.Mount("/admin", admin.Routes())
	})

	return r
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{
		"status":  "healthy",
		"message": "brightpages backend running",
	})
}

func handleRoot(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{
		"message": "brightpages backend running",
	})
}
