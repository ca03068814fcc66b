package server

import (
	"context"
	"net/http"
	"time"

	"github.com/zcorpion/zcorpion-be/internal/advisor"
	"github.com/zcorpion/zcorpion-be/internal/auth"
	"github.com/zcorpion/zcorpion-be/internal/config"
	"github.com/zcorpion/zcorpion-be/internal/http/handlers"
	"github.com/zcorpion/zcorpion-be/internal/middleware"
	"github.com/zcorpion/zcorpion-be/internal/storage"
)

// publicPaths are reachable without a bearer token.
var publicPaths = []string{
	"/health",
	"/register",
	"/login",
	"/password-reset",
	"/password-reset/confirm",
}

// Server wraps an http.Server with configured routes.
type Server struct {
	inner *http.Server
}

// New wires up middleware, routes, and returns a ready server.
func New(cfg config.Config, store storage.Store) *Server {
	mux := http.NewServeMux()

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL, cfg.ResetTTL)
	advice := advisor.NewClient(cfg.GeminiBaseURL, cfg.GeminiAPIKey, cfg.GeminiModel)

	handlers.NewHealthHandler(time.Now()).Register(mux)
	handlers.NewAuthHandler(store, store, tokens).Register(mux)
	handlers.NewProfileHandler(store).Register(mux)
	handlers.NewMovementHandler(store, store).Register(mux)
	handlers.NewGoalHandler(store).Register(mux)
	handlers.NewDashboardHandler(store, store).Register(mux)
	handlers.NewAdviceHandler(advice, store, store, store).Register(mux)
	handlers.NewSnapshotHandler(store, store, store).Register(mux)

	handler := middleware.CORS(cfg.CORSOrigins,
		middleware.Logging(
			middleware.Auth(tokens, mux, publicPaths...)))

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddress(),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	return &Server{inner: httpServer}
}

// Handler exposes the composed middleware chain, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.inner.Handler
}

// Start begins serving HTTP traffic.
func (s *Server) Start() error {
	return s.inner.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.inner.Shutdown(ctx)
}
