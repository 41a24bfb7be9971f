// Package rest is the HTTP+JSON transport: routing, middleware, request
// decoding and the mapping of service errors to status codes.
package rest

import (
	"io/fs"
	"net/http"
	"path"
	"strings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/dmitrijs2005/csvdrop/internal/logging"
	"github.com/dmitrijs2005/csvdrop/internal/server/metrics"
)

type RouterDeps struct {
	Handler           *Handler
	RateLimiter       *RateLimiter
	CORSAllowedOrigin string
	Logger            logging.Logger
	Metrics           metrics.Recorder
	// Gatherer backs /metrics; nil leaves the route out.
	Gatherer prometheus.Gatherer
	// Static holds the upload form served at /; nil leaves it out.
	Static fs.FS
}

// NewRouter builds the API.
//
// Middleware order:
//
//	RequestID → Recovery → Logging → CORS
//
// /register and /login are additionally rate limited per client IP.
func NewRouter(deps *RouterDeps) http.Handler {
	m := deps.Metrics
	if m == nil {
		m = metrics.Nop{}
	}
	h := deps.Handler

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(newRecoveryMiddleware(deps.Logger))
	r.Use(newLoggingMiddleware(deps.Logger, m))
	r.Use(newCORSMiddleware(deps.CORSAllowedOrigin))

	r.Group(func(r chi.Router) {
		if deps.RateLimiter != nil {
			r.Use(deps.RateLimiter.Middleware)
		}
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)
	})

	r.Post("/logout", h.Logout)
	r.Get("/profile", h.Profile)
	r.Post("/update-profile", h.UpdateProfile)

	r.Get("/upload", h.UploadURL)
	r.Post("/upload", h.InlineUpload)
	r.Post("/inputs", h.SaveInputs)

	r.Get("/healthz", h.Healthz)

	if deps.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", metrics.Handler(deps.Gatherer))
	}

	if deps.Static != nil {
		r.Method(http.MethodGet, "/*", staticHandler(deps.Static, notFound))
	}

	r.NotFound(notFound)
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeMessage(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	return r
}

func notFound(w http.ResponseWriter, _ *http.Request) {
	writeMessage(w, http.StatusNotFound, "not found")
}

// staticHandler serves files from fsys and hands paths that do not exist
// to miss.
func staticHandler(fsys fs.FS, miss http.HandlerFunc) http.Handler {
	files := http.FileServer(http.FS(fsys))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := strings.TrimPrefix(path.Clean("/"+r.URL.Path), "/")
		if name == "" {
			name = "."
		}
		if _, err := fs.Stat(fsys, name); err != nil {
			miss(w, r)
			return
		}
		files.ServeHTTP(w, r)
	})
}
