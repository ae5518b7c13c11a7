package seeds

import (
	"fmt"
	"os"

	"github.com/danclocks/cleanjam-sub001/internal/db"
	"github.com/danclocks/cleanjam-sub001/internal/schedules"
	"github.com/goccy/go-yaml"
	"gorm.io/gorm/clause"
)

type zoneFixture struct {
	Parish         string `yaml:"parish"`
	Community      string `yaml:"community"`
	PickupDay      string `yaml:"pickup_day"`
	CollectionType string `yaml:"collection_type"`
}

type zonesFile struct {
	Zones []zoneFixture `yaml:"zones"`
}

// SeedZones loads the pickup-zone fixture and upserts it. Re-running is safe:
// existing slots are left untouched.
func SeedZones() error {
	path := os.Getenv("ZONES_SEED_PATH")
	if path == "" {
		path = "seeds/zones.yaml"
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading zone fixture %s: %w", path, err)
	}

	var file zonesFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return fmt.Errorf("parsing zone fixture: %w", err)
	}

	for _, fixture := range file.Zones {
		zone := schedules.Zone{
			Parish:         schedules.NormalizeArea(fixture.Parish),
			Community:      schedules.NormalizeArea(fixture.Community),
			PickupDay:      fixture.PickupDay,
			CollectionType: schedules.CollectionType(fixture.CollectionType),
		}
		if err := db.DB.
			Clauses(clause.OnConflict{DoNothing: true}).
			Create(&zone).Error; err != nil {
			return fmt.Errorf("seeding zone %s/%s: %w", zone.Parish, zone.Community, err)
		}
	}

	return nil
}
