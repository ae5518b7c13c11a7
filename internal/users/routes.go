package users

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Middleware matches the shape produced by the guard package. The guard itself
// depends on this package for the tier model, so the wired middlewares are
// passed in from main rather than imported here.
type Middleware = func(http.Handler) http.Handler

// SetupRoutes wires the user-administration surface.
func SetupRoutes(authn, admin, supadmin Middleware) http.Handler {
	r := chi.NewRouter()

	r.Group(func(r chi.Router) {
		r.Use(authn, admin)
		r.Get("/", ListHandler)
		r.Patch("/{user_id}/active", SetActiveHandler)
	})

	r.Group(func(r chi.Router) {
		r.Use(authn, supadmin)
		r.Patch("/{user_id}/role", UpdateRoleHandler)
	})

	return r
}

// SetupProfileRoutes wires the /user/profile lookup used by admin tooling.
func SetupProfileRoutes(authn, admin Middleware) http.Handler {
	r := chi.NewRouter()

	r.Group(func(r chi.Router) {
		r.Use(authn, admin)
		r.Get("/profile", ProfileHandler)
	})

	return r
}
