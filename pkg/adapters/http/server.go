package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/aretw0/thicket"
	"github.com/aretw0/thicket/pkg/domain"
	"github.com/aretw0/thicket/pkg/fixture"
	"github.com/aretw0/thicket/pkg/service"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

// RequestIDHeader carries the id assigned to every request.
const RequestIDHeader = "X-Request-Id"

// Server serves generated fixtures from a catalog.
type Server struct {
	Service *service.Service

	// Metrics serves GET /metrics when set.
	Metrics http.Handler

	Logger *slog.Logger
}

// Option configures the Server built by NewHandler.
type Option func(*Server)

// WithMetrics mounts h on GET /metrics.
func WithMetrics(h http.Handler) Option {
	return func(s *Server) {
		s.Metrics = h
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.Logger = logger
		}
	}
}

// NewHandler creates the HTTP handler for a fixture service.
func NewHandler(svc *service.Service, opts ...Option) http.Handler {
	s := &Server{
		Service: svc,
		Logger:  slog.New(slog.NewJSONHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s.Routes()
}

// Routes builds the chi router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)
	r.Use(enableCORS)

	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/fixtures", s.ListFixtures)
	r.Get("/fixtures/{name}", s.GetFixture)
	if s.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.Metrics)
	}
	return r
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		w.Header().Set("Access-Control-Expose-Headers", "X-Request-Id, X-Seed, X-Node-Count, X-Tree-Depth, X-Cache")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r)
	})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.Logger.Debug("request served",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", w.Header().Get(RequestIDHeader),
		)
	})
}

// GetHealth handles GET /health.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles GET /info.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"app":     "thicket-http",
		"version": thicket.Version,
	})
}

// ListFixtures handles GET /fixtures.
func (s *Server) ListFixtures(w http.ResponseWriter, r *http.Request) {
	list, err := s.Service.List(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// GetFixture handles GET /fixtures/{name}?layout=&seed=&html=.
// Without a seed a random one is drawn; it is reported in X-Seed either way.
// Only requests with an explicit seed are cached.
func (s *Server) GetFixture(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := service.Request{Name: chi.URLParam(r, "name")}

	layout, err := fixture.ParseLayout(q.Get("layout"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	req.Layout = layout

	if v := q.Get("seed"); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			s.fail(w, r, badRequest("seed must be an unsigned integer"))
			return
		}
		req.Seed = &seed
	}
	if v := q.Get("html"); v != "" {
		html, err := strconv.ParseBool(v)
		if err != nil {
			s.fail(w, r, badRequest("html must be a boolean"))
			return
		}
		req.HTML = &html
	}

	res, err := s.Service.Generate(r.Context(), req)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	w.Header().Set("X-Seed", strconv.FormatUint(res.Seed, 10))
	if req.Seed != nil && s.Service.Cache != nil {
		cache := "MISS"
		if res.Cached {
			cache = "HIT"
		}
		w.Header().Set("X-Cache", cache)
	}
	if !res.Cached {
		w.Header().Set("X-Node-Count", strconv.Itoa(res.NodeCount))
		w.Header().Set("X-Tree-Depth", strconv.Itoa(res.Depth))
	}
	writeRaw(w, res.Data)
}

// -- Helpers --

type requestError struct{ msg string }

func (e requestError) Error() string { return e.msg }

func badRequest(msg string) error { return requestError{msg} }

func statusOf(err error) int {
	var re requestError
	switch {
	case errors.As(err, &re), errors.Is(err, domain.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrFixtureNotFound):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusOf(err)
	if status == http.StatusInternalServerError {
		s.Logger.Error("request failed", "path", r.URL.Path, "err", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response encode failed", "error", err)
	}
}

func writeRaw(w http.ResponseWriter, data []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
