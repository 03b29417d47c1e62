package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/epi-dashboard-service/internal/domain"
	"github.com/couchcryptid/epi-dashboard-service/internal/view"
)

// Navigator is the view state the API drives.
type Navigator interface {
	sharedobs.ReadinessChecker
	Current() domain.Page
	View(page domain.Page) (*view.View, error)
	Navigate(ctx context.Context, page domain.Page) (domain.Snapshot, error)
	Select(ctx context.Context, page domain.Page, field domain.Field, value string) (domain.Snapshot, error)
	Reset(ctx context.Context, page domain.Page) (domain.Snapshot, error)
	Refresh(ctx context.Context) (domain.Snapshot, error)
	Layer() (*view.MapLayer, error)
}

// Options configures a Server.
type Options struct {
	Addr           string
	AllowedOrigins string // comma-separated; "*" allows any origin
	Catalog        domain.Catalog
}

// Server exposes health, metrics, the record query endpoints and the view API.
type Server struct {
	httpServer *http.Server
	nav        Navigator
	store      domain.RecordStore
	catalog    domain.Catalog
	logger     *slog.Logger
}

// NewServer creates an HTTP server. Query endpoints are served from store.
func NewServer(opts Options, nav Navigator, store domain.RecordStore, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         opts.Addr,
			Handler:      corsMiddleware(opts.AllowedOrigins, mux),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		nav:     nav,
		store:   store,
		catalog: opts.Catalog,
		logger:  logger,
	}

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(nav))
	mux.Handle("GET /metrics", promhttp.Handler())

	s.registerQueryRoutes(mux)
	s.registerAPIRoutes(mux)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func corsMiddleware(allowedOrigins string, next http.Handler) http.Handler {
	var origins []string
	for _, o := range strings.Split(allowedOrigins, ",") {
		if t := strings.TrimSpace(o); t != "" {
			origins = append(origins, t)
		}
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if allowed := allowOrigin(origins, r.Header.Get("Origin")); allowed != "" {
			h := w.Header()
			h.Set("Access-Control-Allow-Origin", allowed)
			h.Set("Access-Control-Allow-Headers", "Content-Type")
			h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			h.Add("Vary", "Origin")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// allowOrigin returns the Access-Control-Allow-Origin value for origin, or
// "" when the origin is not allowed.
func allowOrigin(origins []string, origin string) string {
	for _, o := range origins {
		if o == "*" {
			if origin == "" {
				return "*"
			}
			return origin
		}
		if o == origin && origin != "" {
			return origin
		}
	}
	return ""
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // client may have gone away
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
