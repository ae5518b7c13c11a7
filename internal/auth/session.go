package auth

import (
	"time"

	"github.com/danclocks/cleanjam-sub001/internal/identity"
	"github.com/danclocks/cleanjam-sub001/internal/utils"
)

// SessionUser is the denormalized profile copy embedded in the session so the
// frontend doesn't re-fetch it on every page render.
type SessionUser struct {
	UserID   uint   `json:"user_id"`
	AuthID   string `json:"auth_id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

// Session is the client-held session payload returned by login. The server
// keeps no copy: it is created here at login, destroyed by the client at
// logout or on any authorization failure, and the provider owns the durable
// session state behind the tokens.
type Session struct {
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	ExpiresAt    time.Time   `json:"expires_at"`
	User         SessionUser `json:"user"`
}

func NewSession(result identity.LoginResult, user utils.UserData) Session {
	return Session{
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
		ExpiresAt:    result.ExpiresAt,
		User: SessionUser{
			UserID:   user.UserID,
			AuthID:   user.AuthID,
			Email:    user.Email,
			FullName: user.FullName,
			Role:     user.Role,
		},
	}
}
