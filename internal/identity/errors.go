package identity

import "errors"

// Failure kinds surfaced by the gateway client. Handlers and the guard map
// these onto stable response codes; raw provider text is carried in the
// wrapped error for diagnostics only.
var (
	ErrEmailInvalid       = errors.New("email address is malformed")
	ErrEmailTaken         = errors.New("email address already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNoSession          = errors.New("no access token presented")
	ErrInvalidSession     = errors.New("access token rejected by provider")
	ErrUserNotFound       = errors.New("no identity exists for that email")
	ErrProvider           = errors.New("identity provider request failed")
)
