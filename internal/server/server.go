// Package server sets up the HTTP server, router, and all route definitions.
//
// This package is the "wiring" layer — the composition root where every
// dependency is assembled in one place:
//
//	main.go reads config → server.New() builds:
//	    store (jsonfile OR sqlite) → SnippetService ┐
//	    crypto.Cipher ──────────────┘               ├→ handlers → routes
//	    auth.PasswordService → UserService ─────────┘
//
// Handlers never touch the store, services never touch HTTP, and nothing
// outside New ever constructs a dependency. Swapping a backend or injecting
// fakes in tests is a one-line change here.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sakif/snippet-vault/internal/auth"
	"github.com/sakif/snippet-vault/internal/crypto"
	"github.com/sakif/snippet-vault/internal/handler"
	"github.com/sakif/snippet-vault/internal/middleware"
	"github.com/sakif/snippet-vault/internal/service"
	"github.com/sakif/snippet-vault/internal/store"
	"github.com/sakif/snippet-vault/internal/store/jsonfile"
	sqliteStore "github.com/sakif/snippet-vault/internal/store/sqlite"
)

// Config holds server configuration, assembled by main.go from the
// environment and passed in as one value. No package reads env vars except
// main — everything downstream gets explicit config.
type Config struct {
	Port          int
	DataFile      string // path to the JSON document (default backend)
	DBPath        string // if set, use the SQLite backend instead
	EncryptionKey string // base64 of 32 bytes; validated by crypto.New
}

// Server owns the router, the document store, and the config.
// The store is closed during graceful shutdown.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	store  store.DocumentStore
}

// New creates a Server: builds the cipher (failing fast on a bad key),
// selects and opens the store backend, wires services and handlers, and
// registers routes.
//
// A key error here is a ConfigurationError in spirit — main treats any New
// failure as fatal, so the process never serves requests with a missing or
// malformed encryption key.
func New(cfg Config, logger *slog.Logger) (*Server, error) {
	cipher, err := crypto.New(cfg.EncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("configuring cipher: %w", err)
	}

	st, err := newStore(cfg)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		store:  st,
	}

	s.setupRoutes(cipher)

	return s, nil
}

// newStore picks the storage backend: SQLite when DB_PATH is set,
// otherwise the JSON file. Both implement store.DocumentStore with
// identical external behaviour.
func newStore(cfg Config) (store.DocumentStore, error) {
	if cfg.DBPath != "" {
		return sqliteStore.New(cfg.DBPath)
	}
	return jsonfile.New(cfg.DataFile)
}

// setupRoutes configures middleware and the route table.
//
// ROUTE STRUCTURE:
//
//	GET  /healthz            → liveness check
//	GET  /snippets           → list snippets (optional ?language= filter)
//	GET  /snippets/{id}      → get single snippet
//	POST /snippets           → create snippet
//	POST /user               → register
//	POST /user/login         → login
//
// MIDDLEWARE ORDER MATTERS — it executes in the order added:
// RequestID (tracing) → RealIP (proxy headers) → Recoverer (panics → 500)
// → request logger.
func (s *Server) setupRoutes(cipher *crypto.Cipher) {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	snippetService := service.NewSnippetService(s.store, cipher, s.logger)
	userService := service.NewUserService(s.store, auth.NewPasswordService(), s.logger)

	snippetHandler := handler.NewSnippetHandler(snippetService, s.logger)
	userHandler := handler.NewUserHandler(userService, s.logger)

	s.router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	s.router.Get("/snippets", snippetHandler.HandleList)
	s.router.Get("/snippets/{id}", snippetHandler.HandleGet)
	s.router.Post("/snippets", snippetHandler.HandleCreate)

	s.router.Post("/user", userHandler.HandleRegister)
	s.router.Post("/user/login", userHandler.HandleLogin)
}

// Router exposes the configured router — used by end-to-end handler tests
// to drive the full stack through httptest without opening a port.
func (s *Server) Router() http.Handler {
	return s.router
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully: stop accepting connections, drain in-flight requests (30s),
// close the store (flushes the SQLite WAL and releases the file lock).
func (s *Server) Start() error {
	defer s.store.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("url", fmt.Sprintf("http://localhost:%d", s.config.Port)),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
