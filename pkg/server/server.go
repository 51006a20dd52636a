// Package server exposes the solver over HTTP.
//
// The API is intentionally small: one endpoint to solve a graph, one to
// verify a proposed driver set, plus health and version probes. Solve
// results are cached by graph content hash, so repeated requests for the
// same graph return without re-running the search.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	charmlog "github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/dagmin/dagmin/pkg/buildinfo"
	"github.com/dagmin/dagmin/pkg/cache"
	dagminerrors "github.com/dagmin/dagmin/pkg/errors"
	dagminio "github.com/dagmin/dagmin/pkg/io"
	"github.com/dagmin/dagmin/pkg/observability"
	"github.com/dagmin/dagmin/pkg/solver"
)

// DefaultTimeout bounds a single solve request when the client does not
// pass its own budget.
const DefaultTimeout = 30 * time.Second

// Server handles solve and verify requests.
type Server struct {
	cache   cache.Cache
	logger  *charmlog.Logger
	timeout time.Duration
}

// Option configures a Server.
type Option func(*Server)

// WithCache sets the result cache backend. Defaults to [cache.NullCache].
func WithCache(c cache.Cache) Option {
	return func(s *Server) { s.cache = c }
}

// WithLogger sets the request logger.
func WithLogger(l *charmlog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithTimeout sets the default per-request solve budget.
func WithTimeout(d time.Duration) Option {
	return func(s *Server) { s.timeout = d }
}

// New creates a server with the given options.
func New(opts ...Option) *Server {
	s := &Server{
		cache:   cache.NewNullCache(),
		logger:  charmlog.Default(),
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler builds the HTTP routing table.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealth)
	r.Get("/version", s.handleVersion)
	r.Post("/api/solve", s.handleSolve)
	r.Post("/api/verify", s.handleVerify)

	return r
}

// ListenAndServe runs the server on addr until ctx is canceled, then shuts
// down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	s.logger.Info("listening", "addr", addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start).Round(time.Microsecond),
		)
	})
}

// solveRequest is the solve endpoint body: a graph document plus an
// optional budget override.
type solveRequest struct {
	dagminio.GraphDoc
	TimeoutSeconds float64 `json:"timeout_seconds,omitempty"`
}

// solveResponse wraps the solver result with a cache indicator.
type solveResponse struct {
	solver.Result
	Cached bool `json:"cached"`
}

func (s *Server) handleSolve(w http.ResponseWriter, r *http.Request) {
	var req solveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest,
			dagminerrors.Wrap(dagminerrors.ErrCodeMalformedInput, err, "decode request"))
		return
	}

	g, err := dagminio.FromDoc(req.GraphDoc)
	if err != nil {
		s.writeError(w, http.StatusBadRequest,
			dagminerrors.Wrap(dagminerrors.ErrCodeInvalidInput, err, "build graph"))
		return
	}

	hooks := observability.Cache()
	key := cache.SolveKey(cache.GraphHash(g))
	if data, found, err := s.cache.Get(r.Context(), key); err == nil && found {
		var res solver.Result
		if json.Unmarshal(data, &res) == nil {
			hooks.OnCacheHit(r.Context(), "solve")
			res.RunID = uuid.NewString()
			s.writeJSON(w, http.StatusOK, solveResponse{Result: res, Cached: true})
			return
		}
	}
	hooks.OnCacheMiss(r.Context(), "solve")

	timeout := s.timeout
	if req.TimeoutSeconds > 0 {
		timeout = time.Duration(req.TimeoutSeconds * float64(time.Second))
	}

	res, err := solver.Solve(r.Context(), g, solver.Options{Timeout: timeout})
	if err != nil {
		s.writeError(w, http.StatusInternalServerError,
			dagminerrors.Wrap(dagminerrors.ErrCodeInternal, err, "solve"))
		return
	}

	// Only verified solutions are worth keeping; an incomplete result
	// depends on the budget that produced it.
	if res.Completed {
		if data, err := json.Marshal(res); err == nil {
			if err := s.cache.Set(r.Context(), key, data, cache.DefaultTTL); err != nil {
				s.logger.Warn("cache write failed", "err", err)
			} else {
				hooks.OnCacheSet(r.Context(), "solve", len(data))
			}
		}
	}

	s.writeJSON(w, http.StatusOK, solveResponse{Result: res})
}

// verifyRequest is the verify endpoint body: a graph document plus the
// driver set to check.
type verifyRequest struct {
	dagminio.GraphDoc
	DriverSet []string `json:"driver_set"`
}

type verifyResponse struct {
	Valid     bool     `json:"valid"`
	DriverSet []string `json:"driver_set"`
	Nodes     int      `json:"nodes"`
	Edges     int      `json:"edges"`
}

func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest,
			dagminerrors.Wrap(dagminerrors.ErrCodeMalformedInput, err, "decode request"))
		return
	}

	g, err := dagminio.FromDoc(req.GraphDoc)
	if err != nil {
		s.writeError(w, http.StatusBadRequest,
			dagminerrors.Wrap(dagminerrors.ErrCodeInvalidInput, err, "build graph"))
		return
	}

	valid, err := solver.Verify(g, req.DriverSet)
	if err != nil {
		var unknown *solver.UnknownDriverNodeError
		if errors.As(err, &unknown) {
			s.writeError(w, http.StatusBadRequest,
				dagminerrors.Wrap(dagminerrors.ErrCodeNotFound, err, "verify"))
			return
		}
		s.writeError(w, http.StatusInternalServerError,
			dagminerrors.Wrap(dagminerrors.ErrCodeInternal, err, "verify"))
		return
	}

	s.writeJSON(w, http.StatusOK, verifyResponse{
		Valid:     valid,
		DriverSet: req.DriverSet,
		Nodes:     g.NodeCount(),
		Edges:     g.EdgeCount(),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"version": buildinfo.Version,
		"commit":  buildinfo.Commit,
		"built":   buildinfo.Date,
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("write response", "err", err)
	}
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.writeJSON(w, status, errorResponse{
		Code:    string(dagminerrors.GetCode(err)),
		Message: err.Error(),
	})
}
