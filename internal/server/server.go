// Package server provides the HTTP server for the bookstore application.
// It handles routing, middleware configuration, and server lifecycle management.
//
// The server follows a structured initialization approach with dependency
// injection and proper lifecycle management, including graceful shutdown and
// periodic maintenance tasks.
package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/bookhaven/bookstore-backend/internal/auth"
	"github.com/bookhaven/bookstore-backend/internal/cache"
	"github.com/bookhaven/bookstore-backend/internal/config"
	"github.com/bookhaven/bookstore-backend/internal/constants"
	"github.com/bookhaven/bookstore-backend/internal/database"
	"github.com/bookhaven/bookstore-backend/internal/handlers"
	"github.com/bookhaven/bookstore-backend/internal/repository"
	"github.com/bookhaven/bookstore-backend/internal/service"
	"github.com/bookhaven/bookstore-backend/internal/utils/ratelimit"
	"github.com/bookhaven/bookstore-backend/migrations"
	"github.com/bookhaven/bookstore-backend/scripts"
)

// Handlers contains all HTTP handlers for the application.
// It centralizes handler management for consistent request processing
// and simplifies dependency injection throughout the application.
type Handlers struct {
	// AuthHandler manages registration, login, and the dashboard
	AuthHandler *handlers.AuthHandler

	// PasswordResetHandler manages the forgot/reset password flow
	PasswordResetHandler *handlers.PasswordResetHandler

	// UserHandler manages user profile and account endpoints
	UserHandler *handlers.UserHandler

	// BookHandler manages the book catalog endpoints
	BookHandler *handlers.BookHandler

	// AuthorHandler manages author endpoints
	AuthorHandler *handlers.AuthorHandler

	// CategoryHandler manages category endpoints
	CategoryHandler *handlers.CategoryHandler
}

// AuthProviders contains all authentication providers for the application.
// This structure encapsulates authentication-related dependencies
// to simplify initialization and testing.
type AuthProviders struct {
	// JWTService handles JWT token generation and validation
	JWTService *auth.JWTService

	// PasswordCfg contains password hashing and validation configuration
	PasswordCfg *auth.PasswordConfig
}

// Server represents the API server for the bookstore application.
// It encapsulates all server components and handles server lifecycle
// management, including initialization, startup, and graceful shutdown.
type Server struct {
	// Config contains application configuration
	Config *config.AppConfig

	// Db provides database access
	Db *database.Pool

	// Cache is the Redis-backed page cache, nil when caching is disabled
	Cache *cache.Cache

	// router handles HTTP routing
	router chi.Router

	// Handlers contains all HTTP request handlers
	Handlers *Handlers

	// authProviders contains authentication services
	authProviders *AuthProviders

	// rateLimits throttles credential-sensitive endpoints per client IP
	rateLimits *ratelimit.Store

	// httpServer is the underlying HTTP server
	httpServer *http.Server
}

// NewServer creates a new server instance with all required components.
// It initializes the database, cache, authentication providers,
// repositories, services, and handlers, then sets up the HTTP routes.
//
// The initialization follows a specific order to ensure proper dependency
// management: database → cache → auth providers → repositories → services →
// handlers → routes.
func NewServer(cfg *config.AppConfig) (*Server, error) {
	s := &Server{
		Config: cfg,
	}

	if err := s.setupDatabase(); err != nil {
		return nil, fmt.Errorf("failed to set up database: %w", err)
	}

	if err := s.setupCache(); err != nil {
		return nil, fmt.Errorf("failed to set up cache: %w", err)
	}

	if err := s.setupAuthProviders(); err != nil {
		return nil, fmt.Errorf("failed to set up auth providers: %w", err)
	}

	if err := s.setupRepositories(); err != nil {
		return nil, fmt.Errorf("failed to set up repositories: %w", err)
	}

	if err := s.setupServices(); err != nil {
		return nil, fmt.Errorf("failed to set up services: %w", err)
	}

	if err := s.setupHandlers(); err != nil {
		return nil, fmt.Errorf("failed to set up handlers: %w", err)
	}

	s.setupRateLimiting()

	s.SetupRoutes()

	s.httpServer = &http.Server{
		Addr:         cfg.Server.ServerAddress(),
		Handler:      s.router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  constants.DefaultIdleTimeout,
	}

	return s, nil
}

// setupDatabase initializes the database connection and runs migrations.
// It ensures the database schema is up to date and seeds initial data
// such as roles and default categories.
func (s *Server) setupDatabase() error {
	db, err := database.Connect(s.Config)
	if err != nil {
		return err
	}

	s.Db = db

	migrator := migrations.NewMigrator(db)
	if err := migrator.RunMigrations(context.Background()); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	passwordCfg := auth.ConfigFromAppConfig(s.Config)
	seeder := scripts.NewSeeder(db, passwordCfg)
	if err := seeder.SeedDatabase(context.Background()); err != nil {
		return fmt.Errorf("failed to seed database: %w", err)
	}

	return nil
}

// setupCache connects to the Redis page cache. A disabled cache is not an
// error; listings simply hit the database on every request.
func (s *Server) setupCache() error {
	pageCache, err := cache.Connect(s.Config)
	if err != nil {
		return err
	}

	s.Cache = pageCache
	return nil
}

// setupAuthProviders initializes authentication providers.
// It creates services for JWT token management and password handling.
func (s *Server) setupAuthProviders() error {
	jwtService := auth.NewJWTService(&s.Config.JWT)
	passwordCfg := auth.ConfigFromAppConfig(s.Config)

	s.authProviders = &AuthProviders{
		JWTService:  jwtService,
		PasswordCfg: passwordCfg,
	}

	return nil
}

// repositories holds all repositories used by the server.
// These provide data access abstraction for different domain entities.
var repositories struct {
	userRepo     repository.UserRepository
	roleRepo     repository.RoleRepository
	resetRepo    *repository.PasswordResetRepository
	bookRepo     repository.BookRepository
	authorRepo   repository.AuthorRepository
	categoryRepo repository.CategoryRepository
}

// setupRepositories initializes all data repositories.
// It creates repository instances for each domain entity using the
// database connection.
func (s *Server) setupRepositories() error {
	repositories.userRepo = repository.NewUserRepository(s.Db)
	repositories.roleRepo = repository.NewRoleRepository(s.Db)
	repositories.resetRepo = repository.NewPasswordResetRepository(s.Db)
	repositories.bookRepo = repository.NewBookRepository(s.Db)
	repositories.authorRepo = repository.NewAuthorRepository(s.Db)
	repositories.categoryRepo = repository.NewCategoryRepository(s.Db)

	return nil
}

// services holds all services used by the server.
// These provide business logic implementations for the application.
var services struct {
	authService     *service.AuthService
	userService     *service.UserService
	resetService    *service.PasswordResetService
	bookService     *service.BookService
	authorService   *service.AuthorService
	categoryService *service.CategoryService
}

// setupServices initializes all business services.
// It creates service instances using the previously initialized repositories.
func (s *Server) setupServices() error {
	if s.authProviders == nil || s.authProviders.JWTService == nil {
		return fmt.Errorf("JWT service not initialized")
	}
	if s.authProviders.PasswordCfg == nil {
		return fmt.Errorf("password config not initialized")
	}

	services.authService = service.NewAuthService(
		repositories.userRepo,
		repositories.roleRepo,
		s.authProviders.JWTService,
		s.authProviders.PasswordCfg,
	)

	services.userService = service.NewUserService(repositories.userRepo)

	// The reset service still works without an email sender; tokens are
	// issued and logged but no mail goes out.
	var emailSender service.EmailSender
	if s.Config.Email.SendGridAPIKey != "" {
		sender, err := service.NewEmailService(s.Config)
		if err != nil {
			return fmt.Errorf("failed to create email service: %w", err)
		}
		emailSender = sender
	} else {
		log.Warn().Msg("No SendGrid API key configured, password reset emails disabled")
	}

	services.resetService = service.NewPasswordResetService(
		s.Db,
		repositories.userRepo,
		repositories.resetRepo,
		emailSender,
		s.authProviders.PasswordCfg,
	)

	services.bookService = service.NewBookService(repositories.bookRepo, s.Cache, s.Config.Uploads.CoverDir)
	services.authorService = service.NewAuthorService(repositories.authorRepo, s.Cache)
	services.categoryService = service.NewCategoryService(repositories.categoryRepo, s.Cache)

	return nil
}

// setupHandlers initializes all HTTP request handlers.
// It creates handler instances using the previously initialized services.
func (s *Server) setupHandlers() error {
	s.Handlers = &Handlers{
		AuthHandler:          handlers.NewAuthHandler(services.authService, services.userService, s.authProviders.JWTService),
		PasswordResetHandler: handlers.NewPasswordResetHandler(services.resetService),
		UserHandler:          handlers.NewUserHandler(services.userService, services.authService),
		BookHandler:          handlers.NewBookHandler(services.bookService),
		AuthorHandler:        handlers.NewAuthorHandler(services.authorService),
		CategoryHandler:      handlers.NewCategoryHandler(services.categoryService, services.bookService),
	}

	if s.Handlers.AuthHandler == nil {
		return fmt.Errorf("failed to initialize AuthHandler")
	}

	return nil
}

// setupRateLimiting creates the limiter store used to throttle the login
// and forgot-password endpoints.
func (s *Server) setupRateLimiting() {
	rate := ratelimit.Rate{
		RequestsPerSecond: float64(constants.AuthRateLimitRequests) / constants.AuthRateLimitWindow.Seconds(),
		Burst:             constants.AuthRateLimitRequests,
	}

	s.rateLimits = ratelimit.NewStore(rate, constants.RateLimitCleanupInterval)
}

// Start starts the HTTP server and sets up signal handling for graceful
// shutdown. It runs in a blocking mode, waiting for either server errors
// or shutdown signals.
func (s *Server) Start() error {
	serverErrors := make(chan error, 1)

	go func() {
		log.Info().
			Str("address", s.Config.Server.ServerAddress()).
			Msg("Starting server")

		serverErrors <- s.httpServer.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	s.SetupMaintenanceTasks()

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Info().
			Str("signal", sig.String()).
			Msg("Shutdown signal received")

		ctx, cancel := context.WithTimeout(context.Background(), s.Config.Server.ShutdownTimeout)
		defer cancel()

		if err := s.Shutdown(ctx); err != nil {
			if closeErr := s.httpServer.Close(); closeErr != nil {
				log.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the server, closing all connections
// properly. In-flight requests are completed before shutting down.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	log.Info().Msg("Server stopped gracefully")

	s.Cache.Close()

	s.Db.Close()
	log.Info().Msg("Database connection closed")

	return nil
}

// SetupMaintenanceTasks sets up periodic maintenance tasks for the server.
// Expired password reset tokens are purged on a fixed schedule so the
// tokens table does not accumulate dead rows.
func (s *Server) SetupMaintenanceTasks() {
	ticker := time.NewTicker(constants.DBMaintenanceInterval)
	go func() {
		for range ticker.C {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)

			if count, err := services.resetService.CleanupExpiredTokens(ctx); err != nil {
				log.Error().Err(err).Msg("Failed to cleanup expired reset tokens")
			} else if count > 0 {
				log.Info().Int64("count", count).Msg("Cleaned up expired reset tokens")
			}

			cancel()
		}
	}()
}
