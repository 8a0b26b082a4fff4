// Package server provides the HTTP server for the bookstore application.
// It handles routing, middleware configuration, and server lifecycle management.
//
// Routes are grouped by access tier: public endpoints (catalog browsing,
// login, password reset), authenticated endpoints (dashboard, profile), and
// admin endpoints (catalog and user management). Protection is applied
// through middleware on the route groups.
package server

import (
	"net/http"
	"os"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/bookhaven/bookstore-backend/internal/constants"
	"github.com/bookhaven/bookstore-backend/internal/middleware"
	"github.com/bookhaven/bookstore-backend/internal/utils"
	"github.com/bookhaven/bookstore-backend/internal/utils/ratelimit"
)

// SetupRoutes configures the routes for the application.
// It creates a router hierarchy with middleware and grouped routes
// according to functionality for organized API structure.
//
// The configured routes include:
// - Health check and version endpoints (unprotected)
// - Login, logout, and password reset endpoints
// - Read-only catalog endpoints (books, authors, categories)
// - User profile endpoints (authenticated)
// - Catalog and user management endpoints (admin only)
// - Static serving of uploaded cover images
func (s *Server) SetupRoutes() {
	r := chi.NewRouter()

	allowedOrigins := getAllowedOrigins()
	r.Use(corsMiddleware(allowedOrigins))

	// Base middleware. Identity resolution runs before request logging so
	// log entries carry the user ID; route groups still enforce their own
	// authentication requirements.
	r.Use(chimiddleware.RequestID)
	r.Use(middleware.Recovery())
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.OptionalJWTAuth(s.authProviders.JWTService))
	if s.Config.Logging.RequestLog {
		r.Use(middleware.RequestLog())
	}

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		utils.MethodNotAllowed(w)
	})

	// Health check and version routes (unprotected)
	r.Group(func(r chi.Router) {
		r.Get(constants.HealthPath, func(w http.ResponseWriter, r *http.Request) {
			if err := s.Db.HealthCheck(r.Context()); err != nil {
				log.Error().Err(err).Msg("Health check failed")
				utils.Error(w, constants.StatusServiceUnavailable, "service_unavailable", "Service is not healthy", nil)
				return
			}

			utils.JSON(w, constants.StatusOK, map[string]string{
				"status":  "healthy",
				"version": s.Config.App.Version,
			})
		})

		r.Get(constants.VersionPath, func(w http.ResponseWriter, r *http.Request) {
			utils.JSON(w, constants.StatusOK, map[string]string{
				"version":     s.Config.App.Version,
				"environment": s.Config.App.Environment,
			})
		})
	})

	// Uploaded cover images
	coverServer := http.StripPrefix(constants.CoversBasePath+"/", http.FileServer(http.Dir(s.Config.Uploads.CoverDir)))
	r.Handle(constants.CoversBasePath+"/*", coverServer)

	// Browser-facing auth flow
	r.Route(constants.AuthBasePath, func(r chi.Router) {
		// Public auth endpoints
		r.Group(func(r chi.Router) {
			// Visiting the login page records where the visitor came
			// from so a successful login can send them back there.
			r.With(middleware.RememberOrigin()).Get("/login", s.Handlers.AuthHandler.LoginPage)
			r.With(ratelimit.Middleware(s.rateLimits, rateLimitCategoryAuth)).Post("/login", s.Handlers.AuthHandler.Login)

			r.Get("/forgot-password", s.Handlers.PasswordResetHandler.ForgotPasswordForm)
			r.With(ratelimit.Middleware(s.rateLimits, rateLimitCategoryAuth)).Post("/forgot-password", s.Handlers.PasswordResetHandler.ForgotPassword)

			r.Get("/reset-password", s.Handlers.PasswordResetHandler.ResetPasswordForm)
			r.Post("/reset-password", s.Handlers.PasswordResetHandler.ResetPassword)
		})

		// Protected auth endpoints
		r.Group(func(r chi.Router) {
			r.Use(middleware.JWTAuth(s.authProviders.JWTService))
			r.Get("/dashboard", s.Handlers.AuthHandler.Dashboard)
			r.Post("/logout", s.Handlers.AuthHandler.Logout)
		})
	})

	// API routes
	r.Route(constants.APIBasePath, func(r chi.Router) {
		r.Post("/auth/register", s.Handlers.AuthHandler.Register)

		// Book catalog
		r.Route("/books", func(r chi.Router) {
			r.Get("/", s.Handlers.BookHandler.ListBooks)
			r.Get("/{bookID}", s.Handlers.BookHandler.GetBook)

			r.Group(func(r chi.Router) {
				r.Use(middleware.JWTAuth(s.authProviders.JWTService))
				r.Use(middleware.RequireRole(constants.RoleAdmin))

				r.Post("/", s.Handlers.BookHandler.CreateBook)
				r.Put("/{bookID}", s.Handlers.BookHandler.UpdateBook)
				r.Delete("/{bookID}", s.Handlers.BookHandler.DeleteBook)
				r.Post("/{bookID}/cover", s.Handlers.BookHandler.UploadCover)
			})
		})

		// Authors
		r.Route("/authors", func(r chi.Router) {
			r.Get("/", s.Handlers.AuthorHandler.ListAuthors)
			r.Get("/{authorID}", s.Handlers.AuthorHandler.GetAuthor)

			r.Group(func(r chi.Router) {
				r.Use(middleware.JWTAuth(s.authProviders.JWTService))
				r.Use(middleware.RequireRole(constants.RoleAdmin))

				r.Post("/", s.Handlers.AuthorHandler.CreateAuthor)
				r.Put("/{authorID}", s.Handlers.AuthorHandler.UpdateAuthor)
				r.Delete("/{authorID}", s.Handlers.AuthorHandler.DeleteAuthor)
			})
		})

		// Categories
		r.Route("/categories", func(r chi.Router) {
			r.Get("/", s.Handlers.CategoryHandler.ListCategories)
			r.Get("/{categoryID}", s.Handlers.CategoryHandler.GetCategory)
			r.Get("/{categoryID}/books", s.Handlers.CategoryHandler.ListCategoryBooks)

			r.Group(func(r chi.Router) {
				r.Use(middleware.JWTAuth(s.authProviders.JWTService))
				r.Use(middleware.RequireRole(constants.RoleAdmin))

				r.Post("/", s.Handlers.CategoryHandler.CreateCategory)
				r.Put("/{categoryID}", s.Handlers.CategoryHandler.UpdateCategory)
				r.Delete("/{categoryID}", s.Handlers.CategoryHandler.DeleteCategory)
			})
		})

		// User routes (all protected)
		r.Route("/users", func(r chi.Router) {
			r.Use(middleware.JWTAuth(s.authProviders.JWTService))

			r.Route("/me", func(r chi.Router) {
				r.Get("/", s.Handlers.UserHandler.GetProfile)
				r.Put("/", s.Handlers.UserHandler.UpdateProfile)
				r.Post("/change-password", s.Handlers.UserHandler.ChangePassword)
			})

			// User administration
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(constants.RoleAdmin))

				r.Get("/", s.Handlers.UserHandler.ListUsers)
				r.Delete("/{id}", s.Handlers.UserHandler.DeleteUser)
			})
		})
	})

	// Set the router
	s.router = r
}

// rateLimitCategoryAuth groups the login and forgot-password endpoints under
// a single throttle bucket per client.
const rateLimitCategoryAuth = "auth"

// GetRouter returns the configured router.
// This method is primarily used for testing and for
// integrating the router with other components.
func (s *Server) GetRouter() chi.Router {
	return s.router
}

// corsMiddleware creates a custom CORS middleware with the specified allowed
// origins. It adds CORS headers to responses for allowed origins and answers
// OPTIONS preflight requests directly.
func corsMiddleware(allowedOrigins []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			for _, allowedOrigin := range allowedOrigins {
				if allowedOrigin == "*" || allowedOrigin == origin {
					w.Header().Set("Access-Control-Allow-Origin", origin)
					w.Header().Set("Access-Control-Allow-Credentials", "true")

					if r.Method != http.MethodOptions {
						next.ServeHTTP(w, r)
						return
					}

					w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
					w.Header().Set("Access-Control-Allow-Headers", "Accept, Authorization, Content-Type, X-Request-ID")
					w.Header().Set("Access-Control-Max-Age", "300")

					w.WriteHeader(constants.StatusNoContent)
					return
				}
			}

			// Origin not allowed, continue without CORS headers
			next.ServeHTTP(w, r)
		})
	}
}

// getAllowedOrigins reads allowed CORS origins from the ALLOWED_ORIGINS
// environment variable or falls back to localhost defaults.
func getAllowedOrigins() []string {
	allowedOriginsEnv := os.Getenv("ALLOWED_ORIGINS")

	if allowedOriginsEnv != "" {
		origins := strings.Split(allowedOriginsEnv, ",")
		for i, origin := range origins {
			origins[i] = strings.TrimSpace(origin)
		}
		log.Info().Strs("allowed_origins", origins).Msg("Using CORS allowed origins from environment")
		return origins
	}

	defaultOrigins := []string{"http://localhost:5173", "https://localhost:5173", "http://localhost:8080"}
	log.Info().Strs("allowed_origins", defaultOrigins).Msg("Using default CORS allowed origins")
	return defaultOrigins
}
