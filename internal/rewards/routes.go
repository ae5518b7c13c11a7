package rewards

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
		r.Get("/me", MeHandler)
		r.Post("/redeem", RedeemHandler)
	})

	r.Group(func(r chi.Router) {
		r.Use(authn)
		r.Use(middleware.RequireTier(users.TierAdmin))
		r.Post("/entries", CreateEntryHandler)
		r.Get("/entries", ListEntriesHandler)
	})

	return r
}
