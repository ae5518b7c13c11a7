package middleware_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danclocks/cleanjam-sub001/internal/identity"
	"github.com/danclocks/cleanjam-sub001/internal/middleware"
	"github.com/danclocks/cleanjam-sub001/internal/users"
	"github.com/danclocks/cleanjam-sub001/internal/utils"
)

// mockVerifier implements middleware.TokenVerifier without any network dependency.
type mockVerifier struct {
	identity utils.IdentityData
	err      error
	calls    int
}

func (m *mockVerifier) VerifyToken(ctx context.Context, token string) (utils.IdentityData, error) {
	m.calls++
	return m.identity, m.err
}

// mockResolver implements middleware.RoleResolver without a database.
type mockResolver struct {
	user  utils.UserData
	err   error
	calls int
}

func (m *mockResolver) ResolveByAuthID(ctx context.Context, authID string) (utils.UserData, error) {
	m.calls++
	return m.user, m.err
}

// countingHandler records whether the business logic behind the guard ran.
type countingHandler struct {
	calls int
}

func (h *countingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.calls++
	w.WriteHeader(http.StatusOK)
}

// callGuard sends one request through AuthMiddleware (optionally chained with
// RequireTier) and returns the recorded response plus the inner handler.
func callGuard(t *testing.T, verifier *mockVerifier, resolver *mockResolver, required users.Tier, authHeader string) (*httptest.ResponseRecorder, *countingHandler) {
	t.Helper()

	inner := &countingHandler{}
	var handler http.Handler = inner
	if required != users.TierNone {
		handler = middleware.RequireTier(required)(handler)
	}
	handler = middleware.AuthMiddleware(verifier, resolver)(handler)

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec, inner
}

func responseCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Code string `json:"code"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("response body is not JSON: %q", rec.Body.String())
	}
	return body.Code
}

// TestGuard_MissingHeader verifies that a request with no Authorization header
// gets 401 NO_SESSION and that neither the provider nor the handler is touched.
func TestGuard_MissingHeader(t *testing.T) {
	verifier := &mockVerifier{}
	resolver := &mockResolver{}

	rec, inner := callGuard(t, verifier, resolver, users.TierResident, "")

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
	if got := responseCode(t, rec); got != "NO_SESSION" {
		t.Errorf("expected code NO_SESSION, got %q", got)
	}
	if verifier.calls != 0 {
		t.Errorf("verifier should not be called, got %d calls", verifier.calls)
	}
	if inner.calls != 0 {
		t.Errorf("business logic should not run, got %d calls", inner.calls)
	}
}

// TestGuard_MalformedHeader verifies that a non-Bearer Authorization header is
// treated the same as a missing one.
func TestGuard_MalformedHeader(t *testing.T) {
	verifier := &mockVerifier{}
	resolver := &mockResolver{}

	rec, inner := callGuard(t, verifier, resolver, users.TierResident, "Basic dXNlcjpwYXNz")

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
	if got := responseCode(t, rec); got != "NO_SESSION" {
		t.Errorf("expected code NO_SESSION, got %q", got)
	}
	if verifier.calls != 0 || inner.calls != 0 {
		t.Errorf("nothing past extraction should run (verifier=%d inner=%d)", verifier.calls, inner.calls)
	}
}

// TestGuard_RejectedToken verifies that a provider rejection yields 401
// INVALID_SESSION and role resolution never starts.
func TestGuard_RejectedToken(t *testing.T) {
	verifier := &mockVerifier{err: identity.ErrInvalidSession}
	resolver := &mockResolver{}

	rec, inner := callGuard(t, verifier, resolver, users.TierResident, "Bearer expired-token")

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
	if got := responseCode(t, rec); got != "INVALID_SESSION" {
		t.Errorf("expected code INVALID_SESSION, got %q", got)
	}
	if resolver.calls != 0 {
		t.Errorf("resolver should not be called after verification failure")
	}
	if inner.calls != 0 {
		t.Errorf("business logic should not run")
	}
}

// TestGuard_ProviderDown verifies that a provider outage is surfaced as 502
// UPSTREAM_ERROR rather than an auth failure.
func TestGuard_ProviderDown(t *testing.T) {
	verifier := &mockVerifier{err: identity.ErrProvider}
	resolver := &mockResolver{}

	rec, _ := callGuard(t, verifier, resolver, users.TierResident, "Bearer some-token")

	if rec.Code != http.StatusBadGateway {
		t.Errorf("expected 502, got %d", rec.Code)
	}
	if got := responseCode(t, rec); got != "UPSTREAM_ERROR" {
		t.Errorf("expected code UPSTREAM_ERROR, got %q", got)
	}
}

// TestGuard_NoProfile verifies that a valid identity with no application row
// gets 404 PROFILE_NOT_FOUND, never FORBIDDEN.
func TestGuard_NoProfile(t *testing.T) {
	verifier := &mockVerifier{identity: utils.IdentityData{AuthID: "auth-123"}}
	resolver := &mockResolver{err: users.ErrProfileNotFound}

	rec, inner := callGuard(t, verifier, resolver, users.TierResident, "Bearer good-token")

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
	if got := responseCode(t, rec); got != "PROFILE_NOT_FOUND" {
		t.Errorf("expected code PROFILE_NOT_FOUND, got %q", got)
	}
	if inner.calls != 0 {
		t.Errorf("business logic should not run")
	}
}

// TestGuard_InsufficientTier verifies that a resident hitting an admin route
// gets 403 FORBIDDEN.
func TestGuard_InsufficientTier(t *testing.T) {
	verifier := &mockVerifier{identity: utils.IdentityData{AuthID: "auth-123"}}
	resolver := &mockResolver{user: utils.UserData{
		UserID:   7,
		AuthID:   "auth-123",
		Role:     "resident",
		IsActive: true,
	}}

	rec, inner := callGuard(t, verifier, resolver, users.TierAdmin, "Bearer good-token")

	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", rec.Code)
	}
	if got := responseCode(t, rec); got != "FORBIDDEN" {
		t.Errorf("expected code FORBIDDEN, got %q", got)
	}
	if inner.calls != 0 {
		t.Errorf("business logic should not run")
	}
}

// TestGuard_DeactivatedAdmin verifies that is_active=false revokes all tiers:
// a stored admin role on an inactive row still denies, even though the raw
// role predicate alone would pass.
func TestGuard_DeactivatedAdmin(t *testing.T) {
	if !users.IsAdminTier(users.RoleAdmin) {
		t.Fatal("precondition: the raw predicate must accept an admin role")
	}

	verifier := &mockVerifier{identity: utils.IdentityData{AuthID: "auth-42"}}
	resolver := &mockResolver{user: utils.UserData{
		UserID:   42,
		AuthID:   "auth-42",
		Role:     "admin",
		IsActive: false,
	}}

	rec, inner := callGuard(t, verifier, resolver, users.TierAdmin, "Bearer good-token")

	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403 for deactivated admin, got %d", rec.Code)
	}
	if inner.calls != 0 {
		t.Errorf("business logic should not run")
	}
}

// TestGuard_UnclassifiedRole verifies that reserved roles with no tier
// (field_officer, partner) are denied everywhere, not defaulted to resident.
func TestGuard_UnclassifiedRole(t *testing.T) {
	for _, role := range []string{"field_officer", "partner"} {
		verifier := &mockVerifier{identity: utils.IdentityData{AuthID: "auth-9"}}
		resolver := &mockResolver{user: utils.UserData{
			UserID:   9,
			AuthID:   "auth-9",
			Role:     role,
			IsActive: true,
		}}

		rec, inner := callGuard(t, verifier, resolver, users.TierResident, "Bearer good-token")

		if rec.Code != http.StatusForbidden {
			t.Errorf("role %s: expected 403, got %d", role, rec.Code)
		}
		if inner.calls != 0 {
			t.Errorf("role %s: business logic should not run", role)
		}
	}
}

// TestGuard_Authorized verifies the happy path: the handler runs exactly once
// and sees the resolved identity and user in its context.
func TestGuard_Authorized(t *testing.T) {
	wantUser := utils.UserData{
		UserID:   3,
		AuthID:   "auth-3",
		Email:    "resident@example.com",
		Role:     "supadmin",
		IsActive: true,
	}
	verifier := &mockVerifier{identity: utils.IdentityData{AuthID: "auth-3", Email: "resident@example.com"}}
	resolver := &mockResolver{user: wantUser}

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ident, ok := utils.GetIdentityFromContext(r.Context())
		if !ok || ident.AuthID != "auth-3" {
			http.Error(w, "identity missing from context", http.StatusInternalServerError)
			return
		}
		user, ok := utils.GetUserFromContext(r.Context())
		if !ok || user != wantUser {
			http.Error(w, "user missing from context", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	// A supadmin must pass an admin-tier requirement (tier ordering).
	handler := middleware.AuthMiddleware(verifier, resolver)(middleware.RequireTier(users.TierAdmin)(inner))

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d; body: %s", rec.Code, rec.Body.String())
	}
	if verifier.calls != 1 || resolver.calls != 1 {
		t.Errorf("expected exactly one verify and one resolve, got %d and %d", verifier.calls, resolver.calls)
	}
}
