package schedules

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type CollectionType string

const (
	CollectionGarbage   CollectionType = "garbage"
	CollectionRecycling CollectionType = "recycling"
)

type Zone struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	Parish         string         `gorm:"index;uniqueIndex:idx_zone_slot;not null" json:"parish"`
	Community      string         `gorm:"uniqueIndex:idx_zone_slot;not null" json:"community"`
	PickupDay      string         `gorm:"uniqueIndex:idx_zone_slot;not null" json:"pickup_day"`
	CollectionType CollectionType `gorm:"type:text;uniqueIndex:idx_zone_slot;not null" json:"collection_type"`
}

func (Zone) TableName() string { return "civic.pickup_zones" }

var titleCaser = cases.Title(language.English)

// NormalizeArea canonicalizes parish/community names so "kingston", "KINGSTON"
// and " Kingston " all hit the same rows. Zones are stored normalized and
// lookups normalize their input the same way.
func NormalizeArea(name string) string {
	return titleCaser.String(strings.Join(strings.Fields(name), " "))
}
