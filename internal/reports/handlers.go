package reports

import (
	"encoding/json"
	"net/http"

	"github.com/danclocks/cleanjam-sub001/internal/db"
	"github.com/danclocks/cleanjam-sub001/internal/httperr"
	"github.com/danclocks/cleanjam-sub001/internal/users"
	"github.com/danclocks/cleanjam-sub001/internal/utils"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// CreateHandler files a new report for the logged-in resident.
func CreateHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := utils.GetUserFromContext(r.Context())
	if !ok {
		httperr.Write(w, http.StatusUnauthorized, httperr.CodeNoSession, "No resolved user in request context")
		return
	}

	var req struct {
		Category    string   `json:"category"`
		Description string   `json:"description"`
		Parish      string   `json:"parish"`
		Community   string   `json:"community"`
		Latitude    float64  `json:"latitude"`
		Longitude   float64  `json:"longitude"`
		Photos      []string `json:"photos"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperr.Write(w, http.StatusBadRequest, httperr.CodeValidationError, "Invalid request body")
		return
	}

	category, ok := ParseCategory(req.Category)
	if !ok {
		httperr.Write(w, http.StatusBadRequest, httperr.CodeValidationError, "Unknown category: "+req.Category)
		return
	}
	if req.Description == "" || req.Parish == "" {
		httperr.Write(w, http.StatusBadRequest, httperr.CodeValidationError, "Description and parish are required")
		return
	}

	report := Report{
		ID:          uuid.NewString(),
		UserID:      user.UserID,
		Category:    category,
		Description: req.Description,
		Parish:      req.Parish,
		Community:   req.Community,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		Photos:      req.Photos,
		Status:      StatusOpen,
	}
	if err := db.DB.WithContext(r.Context()).Create(&report).Error; err != nil {
		httperr.Write(w, http.StatusInternalServerError, httperr.CodeUpstreamError, "Failed to create report")
		return
	}

	httperr.JSON(w, http.StatusCreated, report)
}

// MineHandler lists the logged-in user's own reports, newest first.
func MineHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := utils.GetUserFromContext(r.Context())
	if !ok {
		httperr.Write(w, http.StatusUnauthorized, httperr.CodeNoSession, "No resolved user in request context")
		return
	}

	var list []Report
	if err := db.DB.WithContext(r.Context()).
		Where("user_id = ?", user.UserID).
		Order("created_at DESC").
		Find(&list).Error; err != nil {
		httperr.Write(w, http.StatusInternalServerError, httperr.CodeUpstreamError, "Failed to fetch reports")
		return
	}

	httperr.OK(w, list)
}

// GetHandler returns one report. Owners see their own; admin tier sees all.
func GetHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := utils.GetUserFromContext(r.Context())
	if !ok {
		httperr.Write(w, http.StatusUnauthorized, httperr.CodeNoSession, "No resolved user in request context")
		return
	}

	reportID := chi.URLParam(r, "report_id")

	var report Report
	if err := db.DB.WithContext(r.Context()).First(&report, "id = ?", reportID).Error; err != nil {
		httperr.Write(w, http.StatusNotFound, httperr.CodeNotFound, "Report not found")
		return
	}

	if report.UserID != user.UserID && !users.IsAdminTier(users.Role(user.Role)) {
		httperr.Write(w, http.StatusForbidden, httperr.CodeForbidden, "Not your report")
		return
	}

	httperr.OK(w, report)
}

// ListHandler returns all reports with optional status/parish filters.
func ListHandler(w http.ResponseWriter, r *http.Request) {
	query := db.DB.WithContext(r.Context()).Model(&Report{})

	if statusStr := r.URL.Query().Get("status"); statusStr != "" {
		status, ok := ParseStatus(statusStr)
		if !ok {
			httperr.Write(w, http.StatusBadRequest, httperr.CodeValidationError, "Unknown status: "+statusStr)
			return
		}
		query = query.Where("status = ?", status)
	}
	if parish := r.URL.Query().Get("parish"); parish != "" {
		query = query.Where("parish = ?", parish)
	}

	var list []Report
	if err := query.Order("created_at DESC").Find(&list).Error; err != nil {
		httperr.Write(w, http.StatusInternalServerError, httperr.CodeUpstreamError, "Failed to fetch reports")
		return
	}

	httperr.OK(w, list)
}

// UpdateStatusHandler moves a report through its lifecycle. Illegal moves are
// rejected and nothing is persisted.
func UpdateStatusHandler(w http.ResponseWriter, r *http.Request) {
	reportID := chi.URLParam(r, "report_id")

	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperr.Write(w, http.StatusBadRequest, httperr.CodeValidationError, "Invalid request body")
		return
	}

	status, ok := ParseStatus(req.Status)
	if !ok {
		httperr.Write(w, http.StatusBadRequest, httperr.CodeValidationError, "Unknown status: "+req.Status)
		return
	}

	var report Report
	if err := db.DB.WithContext(r.Context()).First(&report, "id = ?", reportID).Error; err != nil {
		httperr.Write(w, http.StatusNotFound, httperr.CodeNotFound, "Report not found")
		return
	}

	if !CanTransition(report.Status, status) {
		httperr.Write(w, http.StatusConflict, httperr.CodeInvalidTransition,
			"Cannot move report from "+string(report.Status)+" to "+string(status))
		return
	}

	if err := db.DB.WithContext(r.Context()).Model(&report).Update("status", status).Error; err != nil {
		httperr.Write(w, http.StatusInternalServerError, httperr.CodeUpstreamError, "Failed to update report")
		return
	}

	httperr.OK(w, report)
}

// DeleteHandler removes a report entirely. Supadmin only.
func DeleteHandler(w http.ResponseWriter, r *http.Request) {
	reportID := chi.URLParam(r, "report_id")

	var report Report
	if err := db.DB.WithContext(r.Context()).First(&report, "id = ?", reportID).Error; err != nil {
		httperr.Write(w, http.StatusNotFound, httperr.CodeNotFound, "Report not found")
		return
	}

	if err := db.DB.WithContext(r.Context()).Delete(&report).Error; err != nil {
		httperr.Write(w, http.StatusInternalServerError, httperr.CodeUpstreamError, "Failed to delete report")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
