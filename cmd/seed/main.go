package main

import (
	"log"

	"github.com/danclocks/cleanjam-sub001/internal/db"
	"github.com/danclocks/cleanjam-sub001/internal/schedules"
	"github.com/danclocks/cleanjam-sub001/internal/seeds"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load(".env.local")
	db.Connect()
	schedules.Init()

	if err := seeds.SeedAll(); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Println("Seeding complete")
}
