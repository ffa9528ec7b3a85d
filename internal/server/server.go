// Package server exposes the ranking engine over HTTP.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/rs/cors"

	"github.com/rnwolfe/prio/internal/config"
	"github.com/rnwolfe/prio/internal/rank"
)

// Server is the prio HTTP API server.
type Server struct {
	cfg     config.Config
	engine  *rank.Engine
	logger  *slog.Logger
	version string
	httpSrv *http.Server
}

// New creates a Server that ranks with engine under cfg.
func New(cfg config.Config, engine *rank.Engine, ver string, logger *slog.Logger) *Server {
	s := &Server{
		cfg:     cfg,
		engine:  engine,
		logger:  logger,
		version: ver,
	}
	s.httpSrv = &http.Server{
		Addr:              s.Addr(),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 15 * time.Second,
	}
	return s
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	if s.cfg.Server.Addr == "" {
		return config.DefaultAddr
	}
	return s.cfg.Server.Addr
}

// Start begins listening and blocks until the server stops. A graceful Stop
// makes it return nil.
func (s *Server) Start() error {
	s.logger.Info("server listening",
		slog.String("addr", s.Addr()),
		slog.Bool("auth", s.cfg.Server.AuthSecret != ""))
	if err := s.httpSrv.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Stop gracefully shuts down the HTTP server.
func (s *Server) Stop(ctx context.Context) error {
	return s.httpSrv.Shutdown(ctx)
}

// Handler returns the full middleware chain around the routes.
func (s *Server) Handler() http.Handler {
	h := &Handlers{
		Engine:          s.engine,
		DefaultStrategy: s.cfg.Rank.Strategy,
		Logger:          s.logger,
		Version:         s.version,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", h.health)

	apiMux := http.NewServeMux()
	h.RegisterRoutes(apiMux)
	if secret := s.cfg.Server.AuthSecret; secret != "" {
		mux.Handle("/api/", authMiddleware(secret, apiMux))
	} else {
		mux.Handle("/api/", apiMux)
	}

	origins := s.cfg.Server.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization", requestIDHeader},
		ExposedHeaders: []string{requestIDHeader},
	})

	return requestID(c.Handler(logRequests(s.logger, recoverer(s.logger, mux))))
}
