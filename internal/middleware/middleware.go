package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/danclocks/cleanjam-sub001/internal/httperr"
	"github.com/danclocks/cleanjam-sub001/internal/identity"
	"github.com/danclocks/cleanjam-sub001/internal/metrics"
	"github.com/danclocks/cleanjam-sub001/internal/users"
	"github.com/danclocks/cleanjam-sub001/internal/utils"
)

// TokenVerifier maps a bearer token to a provider-verified identity.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, accessToken string) (utils.IdentityData, error)
}

// RoleResolver maps a verified identity's subject id to its application user.
type RoleResolver interface {
	ResolveByAuthID(ctx context.Context, authID string) (utils.UserData, error)
}

// BearerToken pulls the token out of an Authorization header. The only
// accepted shape is "Bearer <token>".
func BearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return "", false
	}
	return token, true
}

// AuthMiddleware runs the first three guard stages: bearer extraction, token
// verification at the provider, and role resolution against the user table.
// On success the identity and application user are injected into the request
// context; any stage failure short-circuits with its stage-specific code and
// the wrapped handler never runs.
func AuthMiddleware(verifier TokenVerifier, resolver RoleResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := BearerToken(r)
			if !ok {
				metrics.GuardDecision("token", "no_session")
				httperr.Write(w, http.StatusUnauthorized, httperr.CodeNoSession, "Missing or malformed Authorization header")
				return
			}

			ident, err := verifier.VerifyToken(r.Context(), token)
			if err != nil {
				if errors.Is(err, identity.ErrProvider) {
					metrics.GuardDecision("verify", "upstream_error")
					httperr.Write(w, http.StatusBadGateway, httperr.CodeUpstreamError, "Identity provider unavailable")
					return
				}
				metrics.GuardDecision("verify", "invalid_session")
				httperr.Write(w, http.StatusUnauthorized, httperr.CodeInvalidSession, "Access token rejected")
				return
			}

			user, err := resolver.ResolveByAuthID(r.Context(), ident.AuthID)
			if err != nil {
				if errors.Is(err, users.ErrProfileNotFound) {
					metrics.GuardDecision("resolve", "profile_not_found")
					httperr.Write(w, http.StatusNotFound, httperr.CodeProfileNotFound, "No application account for this identity")
					return
				}
				metrics.GuardDecision("resolve", "upstream_error")
				httperr.Write(w, http.StatusBadGateway, httperr.CodeUpstreamError, "User store unavailable")
				return
			}

			ctx := context.WithValue(r.Context(), utils.ContextIdentityKey, ident)
			ctx = context.WithValue(ctx, utils.ContextUserKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireTier runs the authorization stage against the user resolved by
// AuthMiddleware. Deactivated users have no effective tier: a stored admin
// role on an inactive row still denies.
func RequireTier(required users.Tier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := utils.GetUserFromContext(r.Context())
			if !ok {
				metrics.GuardDecision("tier", "no_session")
				httperr.Write(w, http.StatusUnauthorized, httperr.CodeNoSession, "No resolved user in request context")
				return
			}

			tier := users.EffectiveTier(users.Role(user.Role), user.IsActive)
			if !tier.Satisfies(required) {
				metrics.GuardDecision("tier", "forbidden")
				httperr.Write(w, http.StatusForbidden, httperr.CodeForbidden, "Insufficient privileges")
				return
			}

			metrics.GuardDecision("tier", "authorized")
			next.ServeHTTP(w, r)
		})
	}
}
