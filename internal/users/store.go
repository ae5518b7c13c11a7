package users

import (
	"context"
	"errors"

	"github.com/danclocks/cleanjam-sub001/internal/db"
	"github.com/danclocks/cleanjam-sub001/internal/utils"
	"gorm.io/gorm"
)

var (
	// ErrProfileNotFound means the identity is valid at the provider but has no
	// application row. Callers must fail closed (404, never a resident default).
	ErrProfileNotFound = errors.New("no application user for auth id")

	// ErrStoreUnavailable wraps query failures that are not a missing row.
	ErrStoreUnavailable = errors.New("user store unavailable")
)

// Store resolves verified identities to application users. It implements the
// guard's RoleResolver against the shared database handle.
type Store struct{}

func (Store) ResolveByAuthID(ctx context.Context, authID string) (utils.UserData, error) {
	var user User
	err := db.DB.WithContext(ctx).First(&user, "auth_id = ?", authID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.UserData{}, ErrProfileNotFound
		}
		return utils.UserData{}, errors.Join(ErrStoreUnavailable, err)
	}

	return utils.UserData{
		UserID:   user.UserID,
		AuthID:   user.AuthID,
		Email:    user.Email,
		FullName: user.FullName,
		Role:     string(user.Role),
		IsActive: user.IsActive,
	}, nil
}
