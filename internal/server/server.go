// Package server wires the router, middleware, and handlers together and
// owns the HTTP server lifecycle.
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

	"github.com/sakif/blogstack/internal/auth"
	"github.com/sakif/blogstack/internal/handler"
	"github.com/sakif/blogstack/internal/middleware"
	sqliteRepo "github.com/sakif/blogstack/internal/repository/sqlite"
	"github.com/sakif/blogstack/internal/service"
)

// Config holds everything the server needs to start.
type Config struct {
	Port          int
	TemplateDir   string
	StaticDir     string
	DBPath        string
	SessionSecret string

	// SecureCookies marks session and flash cookies Secure. Off for local
	// development over plain HTTP.
	SecureCookies bool
}

// Server is the composed application: router, database, and dependencies.
// The database connection is owned here and closed on shutdown.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New opens the database, builds every layer, and wires the routes.
func New(cfg Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}

	if err := s.setupRoutes(); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// Handler exposes the composed router. Tests drive requests through it with
// httptest without binding a port.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Close releases the database connection. Start does this itself; Close is
// for callers (tests) that never call Start.
func (s *Server) Close() error {
	return s.db.Close()
}

func (s *Server) setupRoutes() error {
	sessions, err := auth.NewSessionService(s.config.SessionSecret, s.config.SecureCookies)
	if err != nil {
		return fmt.Errorf("creating session service: %w", err)
	}

	renderer, err := handler.NewRenderer(s.config.TemplateDir, s.logger)
	if err != nil {
		return fmt.Errorf("creating renderer: %w", err)
	}

	authService := service.NewAuthService(s.db, auth.NewPasswordService(), s.logger)
	blogService := service.NewBlogService(s.db, s.db, s.logger)

	authHandler := handler.NewAuthHandler(authService, sessions, renderer, s.logger)
	blogHandler := handler.NewBlogHandler(blogService, renderer, s.logger)
	adminHandler := handler.NewAdminHandler(blogService, renderer, s.logger)

	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	// Resolve the session cookie on every request so templates and guards
	// see the logged-in user.
	s.router.Use(auth.WithUser(sessions, s.db))

	fileServer := http.FileServer(http.Dir(s.config.StaticDir))
	s.router.Handle("/static/*", http.StripPrefix("/static/", fileServer))

	s.router.Get("/", blogHandler.HandleIndex)
	s.router.Get("/about", blogHandler.HandleAbout)
	s.router.Get("/contact", blogHandler.HandleContact)

	s.router.Get("/register", authHandler.HandleRegisterPage)
	s.router.Post("/register", authHandler.HandleRegister)
	s.router.Get("/login", authHandler.HandleLoginPage)
	s.router.Post("/login", authHandler.HandleLogin)

	s.router.Get("/post/{id}", blogHandler.HandleShowPost)

	// Guards compose per-route: reading a post is public, commenting and
	// logging out need a session, authoring needs the admin flag.
	s.router.Group(func(r chi.Router) {
		r.Use(auth.RequireUser)
		r.Get("/logout", authHandler.HandleLogout)
		r.Post("/post/{id}", blogHandler.HandleCreateComment)
	})

	s.router.Group(func(r chi.Router) {
		r.Use(auth.RequireAdmin)
		r.Get("/new-post", adminHandler.HandleNewPostPage)
		r.Post("/new-post", adminHandler.HandleCreatePost)
		r.Get("/edit-post/{id}", adminHandler.HandleEditPostPage)
		r.Post("/edit-post/{id}", adminHandler.HandleUpdatePost)
		r.Get("/delete/{id}", adminHandler.HandleDeletePost)
	})

	return nil
}

// Start runs the HTTP server until a shutdown signal arrives, then drains
// in-flight requests and closes the database.
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
