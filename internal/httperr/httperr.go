package httperr

import (
	"encoding/json"
	"net/http"
)

// Stable machine-readable codes returned to clients. Frontends switch on these,
// so they are part of the API contract; messages are not.
const (
	CodeNoSession         = "NO_SESSION"
	CodeInvalidSession    = "INVALID_SESSION"
	CodeProfileNotFound   = "PROFILE_NOT_FOUND"
	CodeForbidden         = "FORBIDDEN"
	CodeMissingEmail      = "MISSING_EMAIL"
	CodeInvalidEmail      = "INVALID_EMAIL"
	CodeMissingFields     = "MISSING_FIELDS"
	CodeEmailTaken        = "EMAIL_TAKEN"
	CodeInvalidCreds      = "INVALID_CREDENTIALS"
	CodeUserNotFound      = "USER_NOT_FOUND"
	CodeUpstreamError     = "UPSTREAM_ERROR"
	CodeValidationError   = "VALIDATION_ERROR"
	CodeRateLimited       = "RATE_LIMITED"
	CodeNotFound          = "NOT_FOUND"
	CodeInvalidTransition = "INVALID_TRANSITION"
	CodeInsufficient      = "INSUFFICIENT_POINTS"
)

type Response struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Write sends a structured error body with the given status.
func Write(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(Response{Code: code, Message: message})
}

// OK sends a 200 with an arbitrary JSON payload.
func OK(w http.ResponseWriter, payload any) {
	JSON(w, http.StatusOK, payload)
}

// JSON sends any payload with the given status.
func JSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
