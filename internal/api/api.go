// Package api exposes the strategy wizard over HTTP. Each session is a
// server-side conversation; clients create a session, submit answers, and
// poll the session snapshot to render the turn log, progress bar, and the
// current input control.
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/quadrant-labs/StrategyPipe/internal/flow"
	"github.com/quadrant-labs/StrategyPipe/internal/store"
)

// DefaultAddr is the listen address used when none is configured.
const DefaultAddr = ":8080"

// Opts holds configuration options for API server creation.
type Opts struct {
	Addr         string
	AuthToken    string
	AuthDisabled bool
}

// Option defines a configuration option for API server creation.
type Option func(*Opts)

// WithAddr sets the listen address.
func WithAddr(addr string) Option {
	return func(o *Opts) {
		o.Addr = addr
	}
}

// WithAuthToken sets the bearer token required on every API route.
func WithAuthToken(token string) Option {
	return func(o *Opts) {
		o.AuthToken = token
	}
}

// WithAuthDisabled bypasses the auth gate entirely, for local development.
func WithAuthDisabled(disabled bool) Option {
	return func(o *Opts) {
		o.AuthDisabled = disabled
	}
}

// Server wires the flow engine and session store to HTTP routes.
type Server struct {
	engine       *flow.Engine
	sessions     *store.SessionStore
	addr         string
	authToken    string
	authDisabled bool
}

// NewServer creates an API server over the given engine and session store.
func NewServer(engine *flow.Engine, sessions *store.SessionStore, options ...Option) *Server {
	opts := Opts{Addr: DefaultAddr}
	for _, opt := range options {
		opt(&opts)
	}
	return &Server{
		engine:       engine,
		sessions:     sessions,
		addr:         opts.Addr,
		authToken:    opts.AuthToken,
		authDisabled: opts.AuthDisabled,
	}
}

// Routes builds the HTTP router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	r.Get("/health", s.healthHandler)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(s.authMiddleware)
		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", s.createSessionHandler)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.getSessionHandler)
				r.Delete("/", s.deleteSessionHandler)
				r.Post("/answers", s.submitAnswerHandler)
				r.Post("/selection", s.toggleSelectionHandler)
				r.Post("/restart", s.restartSessionHandler)
			})
		})
	})
	return r
}

// Run starts the HTTP server and blocks until it exits.
func (s *Server) Run() error {
	slog.Info("Server.Run: StrategyPipe API listening", "addr", s.addr, "authDisabled", s.authDisabled)
	return http.ListenAndServe(s.addr, s.Routes())
}
