package reports

import (
	"log"

	"github.com/danclocks/cleanjam-sub001/internal/db"
)

func Init() {
	if err := db.EnsureSchema(db.DB, "civic"); err != nil {
		log.Fatal("Failed to ensure schema civic: ", err)
	}

	if err := db.DB.AutoMigrate(&Report{}); err != nil {
		log.Fatal("Failed to auto-migrate tables", err)
	}
}
