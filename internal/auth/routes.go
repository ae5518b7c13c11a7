package auth

import (
	"net/http"

	"github.com/danclocks/cleanjam-sub001/internal/middleware"
	"github.com/danclocks/cleanjam-sub001/internal/users"
	"github.com/go-chi/chi/v5"
)

func SetupRoutes() http.Handler {
	r := chi.NewRouter()

	r.Post("/signup", SignupHandler)
	r.Post("/login", LoginHandler)
	r.Post("/logout", LogoutHandler)
	r.Post("/resend-verification", ResendVerificationHandler)

	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthMiddleware(gw, resolver))
		r.Use(middleware.RequireTier(users.TierResident))
		r.Get("/me", MeHandler)
	})

	return r
}
