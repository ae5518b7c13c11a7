package users

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/danclocks/cleanjam-sub001/internal/db"
	"github.com/danclocks/cleanjam-sub001/internal/httperr"
	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"
)

// ProfileHandler returns the application user for a given provider subject id.
func ProfileHandler(w http.ResponseWriter, r *http.Request) {
	authID := r.URL.Query().Get("authId")
	if authID == "" {
		httperr.Write(w, http.StatusBadRequest, httperr.CodeValidationError, "authId query parameter is required")
		return
	}

	var user User
	if err := db.DB.WithContext(r.Context()).First(&user, "auth_id = ?", authID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.Write(w, http.StatusNotFound, httperr.CodeProfileNotFound, "No application account for this identity")
			return
		}
		httperr.Write(w, http.StatusInternalServerError, httperr.CodeUpstreamError, "Failed to fetch profile")
		return
	}

	httperr.OK(w, map[string]any{"profile": user})
}

// ListHandler returns all users, optionally filtered by role.
func ListHandler(w http.ResponseWriter, r *http.Request) {
	query := db.DB.WithContext(r.Context()).Model(&User{})

	if roleStr := r.URL.Query().Get("role"); roleStr != "" {
		role, ok := ParseRole(roleStr)
		if !ok {
			httperr.Write(w, http.StatusBadRequest, httperr.CodeValidationError, "Unknown role: "+roleStr)
			return
		}
		query = query.Where("role = ?", role)
	}

	var list []User
	if err := query.Order("user_id").Find(&list).Error; err != nil {
		httperr.Write(w, http.StatusInternalServerError, httperr.CodeUpstreamError, "Failed to fetch users")
		return
	}

	httperr.OK(w, list)
}

// UpdateRoleHandler changes a user's role. Supadmin only.
func UpdateRoleHandler(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "user_id")

	var req struct {
		Role string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperr.Write(w, http.StatusBadRequest, httperr.CodeValidationError, "Invalid request body")
		return
	}

	role, ok := ParseRole(req.Role)
	if !ok {
		httperr.Write(w, http.StatusBadRequest, httperr.CodeValidationError, "Unknown role: "+req.Role)
		return
	}

	var user User
	if err := db.DB.WithContext(r.Context()).First(&user, "user_id = ?", userID).Error; err != nil {
		httperr.Write(w, http.StatusNotFound, httperr.CodeNotFound, "User not found")
		return
	}

	if err := db.DB.WithContext(r.Context()).Model(&user).Update("role", role).Error; err != nil {
		httperr.Write(w, http.StatusInternalServerError, httperr.CodeUpstreamError, "Failed to update role")
		return
	}

	httperr.OK(w, user)
}

// SetActiveHandler toggles a user's active flag. Deactivation takes effect on
// the next guarded request without touching the provider's session state.
func SetActiveHandler(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "user_id")

	var req struct {
		IsActive *bool `json:"is_active"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.IsActive == nil {
		httperr.Write(w, http.StatusBadRequest, httperr.CodeValidationError, "is_active is required")
		return
	}

	var user User
	if err := db.DB.WithContext(r.Context()).First(&user, "user_id = ?", userID).Error; err != nil {
		httperr.Write(w, http.StatusNotFound, httperr.CodeNotFound, "User not found")
		return
	}

	if err := db.DB.WithContext(r.Context()).Model(&user).Update("is_active", *req.IsActive).Error; err != nil {
		httperr.Write(w, http.StatusInternalServerError, httperr.CodeUpstreamError, "Failed to update user")
		return
	}

	httperr.OK(w, user)
}
