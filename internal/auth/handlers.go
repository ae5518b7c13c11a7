package auth

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os"

	"github.com/danclocks/cleanjam-sub001/internal/db"
	"github.com/danclocks/cleanjam-sub001/internal/httperr"
	"github.com/danclocks/cleanjam-sub001/internal/identity"
	"github.com/danclocks/cleanjam-sub001/internal/metrics"
	"github.com/danclocks/cleanjam-sub001/internal/middleware"
	"github.com/danclocks/cleanjam-sub001/internal/users"
	"github.com/danclocks/cleanjam-sub001/internal/utils"
	"golang.org/x/time/rate"
)

// Gateway is the slice of the identity provider client the handlers need.
// Tests swap in a fake via SetGateway.
type Gateway interface {
	SignUp(ctx context.Context, email, password, fullName string) (string, error)
	LogIn(ctx context.Context, email, password string) (identity.LoginResult, error)
	LogOut(ctx context.Context, accessToken string) error
	VerifyToken(ctx context.Context, accessToken string) (utils.IdentityData, error)
	ResendVerification(ctx context.Context, email string) error
}

var (
	gw       Gateway
	resolver middleware.RoleResolver = users.Store{}
)

// loginLimiter covers login and resend-verification: 1 request/sec sustained,
// bursts of 5, per client IP.
var loginLimiter = newIPLimiter(rate.Limit(1), 5)

// SetGateway and SetResolver swap the external collaborators; used by tests.
func SetGateway(g Gateway)                  { gw = g }
func SetResolver(r middleware.RoleResolver) { resolver = r }

func SignupHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		FullName string `json:"full_name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperr.Write(w, http.StatusBadRequest, httperr.CodeValidationError, "Invalid request body")
		return
	}

	if req.Email == "" || req.Password == "" || req.FullName == "" {
		httperr.Write(w, http.StatusBadRequest, httperr.CodeMissingFields, "Email, password and full name are required")
		return
	}
	if !identity.ValidEmail(req.Email) {
		httperr.Write(w, http.StatusBadRequest, httperr.CodeInvalidEmail, "Email address is not valid")
		return
	}

	authID, err := gw.SignUp(r.Context(), req.Email, req.Password, req.FullName)
	if err != nil {
		switch {
		case errors.Is(err, identity.ErrEmailTaken):
			metrics.AuthOp("signup", "email_taken")
			httperr.Write(w, http.StatusConflict, httperr.CodeEmailTaken, "An account with this email already exists")
		case errors.Is(err, identity.ErrEmailInvalid):
			httperr.Write(w, http.StatusBadRequest, httperr.CodeInvalidEmail, "Email address is not valid")
		default:
			log.Println("signup: provider error:", err)
			metrics.AuthOp("signup", "upstream_error")
			httperr.Write(w, http.StatusBadGateway, httperr.CodeUpstreamError, "Could not reach the identity provider")
		}
		return
	}

	user := users.User{
		AuthID:   authID,
		Email:    req.Email,
		FullName: req.FullName,
		Role:     users.RoleResident,
		IsActive: true,
	}
	if err := db.DB.WithContext(r.Context()).Create(&user).Error; err != nil {
		// The provider account exists but our row failed; the user can still
		// not act until a row exists, so surface the failure.
		log.Println("signup: creating application user:", err)
		metrics.AuthOp("signup", "store_error")
		httperr.Write(w, http.StatusBadGateway, httperr.CodeUpstreamError, "Account created but registration is incomplete, contact support")
		return
	}

	metrics.AuthOp("signup", "ok")
	httperr.JSON(w, http.StatusCreated, map[string]any{"user_id": user.UserID})
}

func LoginHandler(w http.ResponseWriter, r *http.Request) {
	if !loginLimiter.Allow(clientIP(r)) {
		httperr.Write(w, http.StatusTooManyRequests, httperr.CodeRateLimited, "Too many attempts, slow down")
		return
	}

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperr.Write(w, http.StatusBadRequest, httperr.CodeValidationError, "Invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		httperr.Write(w, http.StatusBadRequest, httperr.CodeMissingFields, "Email and password are required")
		return
	}

	result, err := gw.LogIn(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, identity.ErrInvalidCredentials) {
			metrics.AuthOp("login", "invalid_credentials")
			httperr.Write(w, http.StatusUnauthorized, httperr.CodeInvalidCreds, "Invalid email or password")
			return
		}
		log.Println("login: provider error:", err)
		metrics.AuthOp("login", "upstream_error")
		httperr.Write(w, http.StatusBadGateway, httperr.CodeUpstreamError, "Could not reach the identity provider")
		return
	}

	user, err := resolver.ResolveByAuthID(r.Context(), result.Identity.AuthID)
	if err != nil {
		if errors.Is(err, users.ErrProfileNotFound) {
			metrics.AuthOp("login", "profile_not_found")
			httperr.Write(w, http.StatusNotFound, httperr.CodeProfileNotFound, "No application account for this identity")
			return
		}
		log.Println("login: resolving user:", err)
		metrics.AuthOp("login", "store_error")
		httperr.Write(w, http.StatusBadGateway, httperr.CodeUpstreamError, "User store unavailable")
		return
	}

	metrics.AuthOp("login", "ok")
	httperr.OK(w, NewSession(result, user))
}

func LogoutHandler(w http.ResponseWriter, r *http.Request) {
	token, ok := middleware.BearerToken(r)
	if !ok {
		httperr.Write(w, http.StatusUnauthorized, httperr.CodeNoSession, "Missing or malformed Authorization header")
		return
	}

	if _, err := gw.VerifyToken(r.Context(), token); err != nil {
		metrics.AuthOp("logout", "invalid_session")
		httperr.Write(w, http.StatusUnauthorized, httperr.CodeInvalidSession, "Access token rejected")
		return
	}

	// Best-effort remote revoke. A stale provider session is a lesser harm
	// than a client stuck holding tokens, so failure here is logged and the
	// redirect still happens.
	if err := gw.LogOut(r.Context(), token); err != nil {
		log.Println("logout: remote revoke failed:", err)
	}

	metrics.AuthOp("logout", "ok")
	w.Header().Set("Cache-Control", "no-store")
	http.Redirect(w, r, siteRoot(), http.StatusFound)
}

func ResendVerificationHandler(w http.ResponseWriter, r *http.Request) {
	if !loginLimiter.Allow(clientIP(r)) {
		httperr.Write(w, http.StatusTooManyRequests, httperr.CodeRateLimited, "Too many attempts, slow down")
		return
	}

	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperr.Write(w, http.StatusBadRequest, httperr.CodeValidationError, "Invalid request body")
		return
	}
	if req.Email == "" {
		httperr.Write(w, http.StatusBadRequest, httperr.CodeMissingEmail, "Email is required")
		return
	}
	if !identity.ValidEmail(req.Email) {
		httperr.Write(w, http.StatusBadRequest, httperr.CodeInvalidEmail, "Email address is not valid")
		return
	}

	if err := gw.ResendVerification(r.Context(), req.Email); err != nil {
		switch {
		case errors.Is(err, identity.ErrUserNotFound):
			metrics.AuthOp("resend", "user_not_found")
			httperr.Write(w, http.StatusNotFound, httperr.CodeUserNotFound, "No account with this email, sign up first")
		case errors.Is(err, identity.ErrEmailInvalid):
			httperr.Write(w, http.StatusBadRequest, httperr.CodeInvalidEmail, "Email address is not valid")
		default:
			log.Println("resend: provider error:", err)
			metrics.AuthOp("resend", "upstream_error")
			httperr.Write(w, http.StatusBadGateway, httperr.CodeUpstreamError, "Could not reach the identity provider")
		}
		return
	}

	metrics.AuthOp("resend", "ok")
	httperr.OK(w, map[string]string{"code": "VERIFICATION_SENT"})
}

// MeHandler echoes the user the guard already resolved; no re-fetch, no
// re-verification.
func MeHandler(w http.ResponseWriter, r *http.Request) {
	userData, ok := utils.GetUserFromContext(r.Context())
	if !ok {
		httperr.Write(w, http.StatusUnauthorized, httperr.CodeNoSession, "No resolved user in request context")
		return
	}

	httperr.OK(w, userData)
}

func siteRoot() string {
	if root := os.Getenv("SITE_URL"); root != "" {
		return root
	}
	return "/"
}
