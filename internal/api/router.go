package api

import (
	"time"

	"github.com/avelez/accountd/internal/api/handlers"
	"github.com/avelez/accountd/internal/auth"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Rate-limit windows for the credential endpoints. Login is looser than
// password change.
const (
	limiterWindow = 15 * time.Minute
	loginAttempts = 10
	patchAttempts = 5
)

// NewRouter creates and configures a new Chi router.
func NewRouter(accountHandler *handlers.AccountHandler, authority *auth.Authority, corsOrigin string) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{corsOrigin},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	loginLimiter := newIPRateLimiter(limiterWindow, loginAttempts)
	patchLimiter := newIPRateLimiter(limiterWindow, patchAttempts)

	r.With(loginLimiter.Handler).Post("/login", accountHandler.Login)
	r.Post("/logout", accountHandler.Logout)
	r.Get("/me", accountHandler.Me)

	r.Route("/users", func(r chi.Router) {
		r.Get("/", accountHandler.List)
		r.Post("/", accountHandler.Register)
		r.Route("/{email}", func(r chi.Router) {
			r.Get("/", accountHandler.Get)
			r.With(authority.Middleware(), patchLimiter.Handler).Patch("/", accountHandler.ChangePassword)
			r.Delete("/", accountHandler.Delete)
		})
	})

	return r
}
