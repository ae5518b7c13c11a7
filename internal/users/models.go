package users

import "time"

type User struct {
	UserID    uint      `gorm:"primaryKey" json:"user_id"`
	AuthID    string    `gorm:"uniqueIndex;not null" json:"auth_id"`
	Email     string    `gorm:"not null" json:"email"`
	Username  string    `json:"username"`
	FullName  string    `json:"full_name"`
	AvatarURL string    `json:"avatar_url"`
	Role      Role      `gorm:"type:text;default:'resident'" json:"role"`
	IsActive  bool      `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string { return "app_auth.users" }
