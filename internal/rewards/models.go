package rewards

import (
	"math"
	"time"
)

type Material string

const (
	MaterialPlastic Material = "plastic"
	MaterialGlass   Material = "glass"
	MaterialMetal   Material = "metal"
	MaterialPaper   Material = "paper"
)

func ParseMaterial(s string) (Material, bool) {
	switch Material(s) {
	case MaterialPlastic, MaterialGlass, MaterialMetal, MaterialPaper:
		return Material(s), true
	}
	return "", false
}

// Points credited per kilogram, by material.
var pointsPerKg = map[Material]float64{
	MaterialPlastic: 10,
	MaterialGlass:   5,
	MaterialMetal:   15,
	MaterialPaper:   3,
}

// PointsFor converts a weigh-in to points, rounding down. Unknown materials
// credit nothing.
func PointsFor(material Material, weightKg float64) int {
	if weightKg <= 0 {
		return 0
	}
	return int(math.Floor(pointsPerKg[material] * weightKg))
}

type Entry struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	Points    int       `gorm:"not null" json:"points"`
	Material  Material  `gorm:"type:text" json:"material"`
	WeightKg  float64   `json:"weight_kg"`
	Source    string    `gorm:"not null" json:"source"` // depot, drive, bonus
	EventID   string    `gorm:"uniqueIndex;default:null" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

func (Entry) TableName() string { return "civic.reward_entries" }

type Redemption struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	Points    int       `gorm:"not null" json:"points"`
	CodeHash  string    `gorm:"not null" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

func (Redemption) TableName() string { return "civic.reward_redemptions" }

// DisplayTier maps a points balance to the badge shown on the dashboard.
// This is presentation only: a brand-new account showing Bronze is cosmetic
// defaulting and has nothing to do with the guard's fail-closed role handling.
func DisplayTier(points int) string {
	switch {
	case points >= 500:
		return "Gold"
	case points >= 100:
		return "Silver"
	default:
		return "Bronze"
	}
}
