package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/danclocks/cleanjam-sub001/internal/auth"
	"github.com/danclocks/cleanjam-sub001/internal/db"
	"github.com/danclocks/cleanjam-sub001/internal/identity"
	"github.com/danclocks/cleanjam-sub001/internal/middleware"
	"github.com/danclocks/cleanjam-sub001/internal/reports"
	"github.com/danclocks/cleanjam-sub001/internal/rewards"
	"github.com/danclocks/cleanjam-sub001/internal/schedules"
	"github.com/danclocks/cleanjam-sub001/internal/users"
	"github.com/danclocks/cleanjam-sub001/internal/webhooks"
	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func RootHandler(w http.ResponseWriter, r *http.Request) {
	response := "Server is up!"
	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprintln(w, response)
}

func main() {
	_ = godotenv.Load(".env.local")
	db.Connect()
	identity.Init()

	port := os.Getenv("PORT")
	if port == "" {
		port = "5050"
	}

	auth.Init()
	users.Init()
	reports.Init()
	schedules.Init()
	rewards.Init()

	authn := middleware.AuthMiddleware(identity.Default(), users.Store{})
	requireAdmin := middleware.RequireTier(users.TierAdmin)
	requireSupAdmin := middleware.RequireTier(users.TierSupAdmin)

	r := chi.NewRouter()
	r.Use(middleware.CORSMiddleware)
	r.Get("/", RootHandler)
	r.Handle("/metrics", promhttp.Handler())

	r.Mount("/auth", auth.SetupRoutes())
	r.Mount("/user", users.SetupProfileRoutes(authn, requireAdmin))
	r.Mount("/users", users.SetupRoutes(authn, requireAdmin, requireSupAdmin))
	r.Mount("/reports", reports.SetupRoutes())
	r.Mount("/schedules", schedules.SetupRoutes())
	r.Mount("/rewards", rewards.SetupRoutes())
	r.Mount("/webhooks", webhooks.SetupRoutes())

	fmt.Println("Server listening on port :" + port + "...")

	http.ListenAndServe("0.0.0.0:"+port, r)
}
