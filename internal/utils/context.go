package utils

import (
	"context"
)

type contextKey string

const (
	ContextIdentityKey contextKey = "identity"
	ContextUserKey     contextKey = "appUser"
)

// IdentityData is the provider-verified identity carried through the request
// context by the guard. It is the only place handlers should read auth info from.
type IdentityData struct {
	AuthID string `json:"auth_id"`
	Email  string `json:"email"`
}

// UserData is the resolved ApplicationUser carried through the request context.
type UserData struct {
	UserID   uint   `json:"user_id"`
	AuthID   string `json:"auth_id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
	IsActive bool   `json:"is_active"`
}

func GetIdentityFromContext(ctx context.Context) (IdentityData, bool) {
	id, ok := ctx.Value(ContextIdentityKey).(IdentityData)
	return id, ok
}

func GetUserFromContext(ctx context.Context) (UserData, bool) {
	u, ok := ctx.Value(ContextUserKey).(UserData)
	return u, ok
}
