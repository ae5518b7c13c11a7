package schedules

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func SetupRoutes() http.Handler {
	r := chi.NewRouter()

	// Schedules are public: residents check them without an account.
	r.Get("/", ListHandler)
	r.Get("/parishes", ParishesHandler)

	return r
}
