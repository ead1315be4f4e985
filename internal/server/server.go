// Package server wires the dependency graph and the routes. It is the
// composition root: everything is constructed here, in one place, and
// handed down — no package reaches for globals or the environment.
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

	"github.com/Barun-Mishra-09/jobspot/internal/auth"
	"github.com/Barun-Mishra-09/jobspot/internal/handler"
	"github.com/Barun-Mishra-09/jobspot/internal/middleware"
	sqliteRepo "github.com/Barun-Mishra-09/jobspot/internal/repository/sqlite"
	"github.com/Barun-Mishra-09/jobspot/internal/service"
	"github.com/Barun-Mishra-09/jobspot/internal/storage"
)

// Config holds everything the server needs, read once in main and passed in
// whole. Production toggles the Secure cookie flag.
type Config struct {
	Port       int
	DBPath     string
	Production bool

	TokenSecret string

	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string

	Storage storage.Config
}

// Server owns the router and the database connection. The connection is
// closed during graceful shutdown to flush the WAL and release the file lock.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New assembles the full dependency chain:
//
//	sqlite.DB → services (auth, profile, saved jobs) → handlers → routes
//	          ↘ TokenService / PasswordService / GoogleProvider / S3Store
func New(cfg Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	tokens, err := auth.NewTokenService(cfg.TokenSecret, cfg.Production)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating token service: %w", err)
	}

	media, err := storage.New(context.Background(), cfg.Storage)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating media store: %w", err)
	}

	passwords := auth.NewPasswordService()
	google := auth.NewGoogleProvider(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL)

	authService := service.NewAuthService(db, tokens, passwords, google, media, logger)
	profileService := service.NewProfileService(db, media, logger)
	savedJobService := service.NewSavedJobService(db, db, logger)

	authHandler := handler.NewAuthHandler(authService, tokens, logger)
	profileHandler := handler.NewProfileHandler(profileService, logger)
	savedJobHandler := handler.NewSavedJobHandler(savedJobService, logger)

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}

	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(logger))

	s.router.Post("/register", authHandler.HandleRegister)
	s.router.Post("/login", authHandler.HandleLogin)
	s.router.Post("/logout", authHandler.HandleLogout)
	s.router.Get("/logout", authHandler.HandleLogout) // legacy clients
	s.router.Get("/oauth/callback", authHandler.HandleGoogleCallback)

	s.router.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth(tokens))

		r.Get("/profile/me", authHandler.HandleMe)
		r.Put("/profile/update", profileHandler.HandleUpdate)
		r.Get("/jobs/save/{id}", savedJobHandler.HandleToggle)
		r.Post("/jobs/save/{id}", savedJobHandler.HandleToggle)
		r.Get("/jobs/saved", savedJobHandler.HandleListSaved)
	})

	return s, nil
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully: stop accepting connections, give in-flight requests 30s,
// close the database.
func (s *Server) Start() error {
	defer s.db.Close()

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
			slog.String("database", s.config.DBPath),
			slog.Bool("production", s.config.Production),
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
