package reports

import (
	"time"

	"github.com/lib/pq"
)

type Category string

const (
	CategoryGarbage  Category = "garbage"
	CategoryDumping  Category = "dumping"
	CategoryOverflow Category = "overflow"
	CategoryOther    Category = "other"
)

func ParseCategory(s string) (Category, bool) {
	switch Category(s) {
	case CategoryGarbage, CategoryDumping, CategoryOverflow, CategoryOther:
		return Category(s), true
	}
	return "", false
}

type Status string

const (
	StatusOpen       Status = "open"
	StatusInProgress Status = "in_progress"
	StatusResolved   Status = "resolved"
	StatusRejected   Status = "rejected"
)

func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case StatusOpen, StatusInProgress, StatusResolved, StatusRejected:
		return Status(s), true
	}
	return "", false
}

// transitions holds the legal status moves. Resolved and rejected are terminal.
var transitions = map[Status][]Status{
	StatusOpen:       {StatusInProgress, StatusResolved, StatusRejected},
	StatusInProgress: {StatusResolved, StatusRejected},
}

func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

type Report struct {
	ID          string         `gorm:"primaryKey" json:"id"`
	UserID      uint           `gorm:"index;not null" json:"user_id"`
	Category    Category       `gorm:"type:text;not null" json:"category"`
	Description string         `json:"description"`
	Parish      string         `gorm:"index" json:"parish"`
	Community   string         `json:"community"`
	Latitude    float64        `json:"latitude"`
	Longitude   float64        `json:"longitude"`
	Photos      pq.StringArray `gorm:"type:text[]" json:"photos"`
	Status      Status         `gorm:"type:text;default:'open'" json:"status"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

func (Report) TableName() string { return "civic.reports" }
