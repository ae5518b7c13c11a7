package reports

import (
	"net/http"

	"github.com/danclocks/cleanjam-sub001/internal/identity"
	"github.com/danclocks/cleanjam-sub001/internal/middleware"
	"github.com/danclocks/cleanjam-sub001/internal/users"
	"github.com/go-chi/chi/v5"
)

func SetupRoutes() http.Handler {
	r := chi.NewRouter()
	authn := middleware.AuthMiddleware(identity.Default(), users.Store{})

	r.Group(func(r chi.Router) {
		r.Use(authn)
		r.Use(middleware.RequireTier(users.TierResident))
		r.Post("/", CreateHandler)
		r.Get("/mine", MineHandler)
		r.Get("/{report_id}", GetHandler)
	})

	r.Group(func(r chi.Router) {
		r.Use(authn)
		r.Use(middleware.RequireTier(users.TierAdmin))
		r.Get("/", ListHandler)
		r.Patch("/{report_id}/status", UpdateStatusHandler)
	})

	r.Group(func(r chi.Router) {
		r.Use(authn)
		r.Use(middleware.RequireTier(users.TierSupAdmin))
		r.Delete("/{report_id}", DeleteHandler)
	})

	return r
}
