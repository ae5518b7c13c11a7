package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/danclocks/cleanjam-sub001/internal/utils"
	"github.com/golang-jwt/jwt/v5"
)

// Client talks to the hosted identity provider (GoTrue-style REST surface).
// It is the only component allowed to turn a bearer token into an identity;
// nothing else in the codebase may trust a token at face value.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// LoginResult is what a successful password grant yields. ExpiresAt is read
// from the token's own exp claim via an unverified parse; it only feeds the
// client session payload, never an authorization decision.
type LoginResult struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
	Identity     utils.IdentityData
}

var defaultClient *Client

// Init builds the package-level client from the environment. Missing provider
// config is fatal at process start.
func Init() {
	baseURL := os.Getenv("IDENTITY_PROVIDER_URL")
	apiKey := os.Getenv("IDENTITY_PROVIDER_API_KEY")
	if baseURL == "" {
		log.Fatal("IDENTITY_PROVIDER_URL is empty")
	}
	if apiKey == "" {
		log.Fatal("IDENTITY_PROVIDER_API_KEY is empty")
	}
	defaultClient = New(baseURL, apiKey)
}

func Default() *Client { return defaultClient }

func New(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// providerError is the provider's error body shape; field names vary across
// endpoints so all three are tried.
type providerError struct {
	Error       string `json:"error"`
	Description string `json:"error_description"`
	Msg         string `json:"msg"`
}

func (e providerError) text() string {
	if e.Description != "" {
		return e.Description
	}
	if e.Msg != "" {
		return e.Msg
	}
	return e.Error
}

// SignUp registers a new identity at the provider and returns its subject id.
func (c *Client) SignUp(ctx context.Context, email, password, fullName string) (string, error) {
	if !ValidEmail(email) {
		return "", ErrEmailInvalid
	}

	body := map[string]any{
		"email":    email,
		"password": password,
		"data":     map[string]string{"full_name": fullName},
	}

	resp, err := c.post(ctx, "/auth/v1/signup", "", body)
	if err != nil {
		return "", errors.Join(ErrProvider, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		perr := decodeError(resp.Body)
		if resp.StatusCode == http.StatusConflict || strings.Contains(strings.ToLower(perr.text()), "already registered") {
			return "", ErrEmailTaken
		}
		return "", fmt.Errorf("%w: signup returned %d: %s", ErrProvider, resp.StatusCode, perr.text())
	}

	// The created account comes back either as the bare user object or nested
	// under "user" when the provider also issues a session.
	var created struct {
		ID   string `json:"id"`
		User struct {
			ID string `json:"id"`
		} `json:"user"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return "", fmt.Errorf("%w: decoding signup response: %v", ErrProvider, err)
	}
	if created.ID != "" {
		return created.ID, nil
	}
	return created.User.ID, nil
}

// LogIn performs the password grant and returns the token pair plus identity.
func (c *Client) LogIn(ctx context.Context, email, password string) (LoginResult, error) {
	body := map[string]string{
		"email":    email,
		"password": password,
	}

	resp, err := c.post(ctx, "/auth/v1/token?grant_type=password", "", body)
	if err != nil {
		return LoginResult{}, errors.Join(ErrProvider, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnauthorized {
		return LoginResult{}, ErrInvalidCredentials
	}
	if resp.StatusCode != http.StatusOK {
		perr := decodeError(resp.Body)
		return LoginResult{}, fmt.Errorf("%w: token grant returned %d: %s", ErrProvider, resp.StatusCode, perr.text())
	}

	var grant struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
		ExpiresIn    int    `json:"expires_in"`
		User         struct {
			ID    string `json:"id"`
			Email string `json:"email"`
		} `json:"user"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&grant); err != nil {
		return LoginResult{}, fmt.Errorf("%w: decoding token grant: %v", ErrProvider, err)
	}

	expiresAt := tokenExpiry(grant.AccessToken)
	if expiresAt.IsZero() && grant.ExpiresIn > 0 {
		expiresAt = time.Now().Add(time.Duration(grant.ExpiresIn) * time.Second)
	}

	return LoginResult{
		AccessToken:  grant.AccessToken,
		RefreshToken: grant.RefreshToken,
		ExpiresAt:    expiresAt,
		Identity: utils.IdentityData{
			AuthID: grant.User.ID,
			Email:  grant.User.Email,
		},
	}, nil
}

// LogOut revokes the session at the provider. Callers must clear their local
// session regardless of the outcome here; a failed remote revoke is reported
// but never blocks local cleanup.
func (c *Client) LogOut(ctx context.Context, accessToken string) error {
	if accessToken == "" {
		return ErrNoSession
	}

	resp, err := c.post(ctx, "/auth/v1/logout", accessToken, nil)
	if err != nil {
		return errors.Join(ErrProvider, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		return ErrInvalidSession
	}
	perr := decodeError(resp.Body)
	return fmt.Errorf("%w: logout returned %d: %s", ErrProvider, resp.StatusCode, perr.text())
}

// VerifyToken asks the provider who a bearer token belongs to. A token whose
// own exp claim has already passed is rejected locally; the expiry check only
// ever denies, it never grants.
func (c *Client) VerifyToken(ctx context.Context, accessToken string) (utils.IdentityData, error) {
	if accessToken == "" {
		return utils.IdentityData{}, ErrNoSession
	}
	if exp := tokenExpiry(accessToken); !exp.IsZero() && exp.Before(time.Now()) {
		return utils.IdentityData{}, ErrInvalidSession
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/auth/v1/user", nil)
	if err != nil {
		return utils.IdentityData{}, errors.Join(ErrProvider, err)
	}
	c.setHeaders(req, accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return utils.IdentityData{}, errors.Join(ErrProvider, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return utils.IdentityData{}, ErrInvalidSession
	}
	if resp.StatusCode != http.StatusOK {
		perr := decodeError(resp.Body)
		return utils.IdentityData{}, fmt.Errorf("%w: user lookup returned %d: %s", ErrProvider, resp.StatusCode, perr.text())
	}

	var user struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return utils.IdentityData{}, fmt.Errorf("%w: decoding user: %v", ErrProvider, err)
	}
	if user.ID == "" {
		return utils.IdentityData{}, ErrInvalidSession
	}

	return utils.IdentityData{AuthID: user.ID, Email: user.Email}, nil
}

// ResendVerification asks the provider to re-send the signup confirmation
// email. The identity must already exist; an unknown address is an error
// telling the caller to sign up first, never a silent account creation.
func (c *Client) ResendVerification(ctx context.Context, email string) error {
	if !ValidEmail(email) {
		return ErrEmailInvalid
	}

	body := map[string]string{
		"type":  "signup",
		"email": email,
	}

	resp, err := c.post(ctx, "/auth/v1/resend", "", body)
	if err != nil {
		return errors.Join(ErrProvider, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusNotFound:
		return ErrUserNotFound
	}
	perr := decodeError(resp.Body)
	if strings.Contains(strings.ToLower(perr.text()), "not found") {
		return ErrUserNotFound
	}
	return fmt.Errorf("%w: resend returned %d: %s", ErrProvider, resp.StatusCode, perr.text())
}

func (c *Client) post(ctx context.Context, path, bearer string, body any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	c.setHeaders(req, bearer)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.httpClient.Do(req)
}

func (c *Client) setHeaders(req *http.Request, bearer string) {
	req.Header.Set("apikey", c.apiKey)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
}

func decodeError(r io.Reader) providerError {
	var perr providerError
	_ = json.NewDecoder(io.LimitReader(r, 1<<16)).Decode(&perr)
	return perr
}

// tokenExpiry reads the exp claim without verifying the signature. Zero time
// means the token isn't a parseable JWT (opaque tokens go straight to the
// provider for verification).
func tokenExpiry(accessToken string) time.Time {
	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(accessToken, claims); err != nil {
		return time.Time{}
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time
}
