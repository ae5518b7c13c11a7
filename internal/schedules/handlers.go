package schedules

import (
	"net/http"

	"github.com/danclocks/cleanjam-sub001/internal/db"
	"github.com/danclocks/cleanjam-sub001/internal/httperr"
)

// ListHandler returns pickup zones filtered by parish and optionally community.
func ListHandler(w http.ResponseWriter, r *http.Request) {
	parish := r.URL.Query().Get("parish")
	if parish == "" {
		httperr.Write(w, http.StatusBadRequest, httperr.CodeValidationError, "parish query parameter is required")
		return
	}

	query := db.DB.WithContext(r.Context()).Where("parish = ?", NormalizeArea(parish))
	if community := r.URL.Query().Get("community"); community != "" {
		query = query.Where("community = ?", NormalizeArea(community))
	}

	var zones []Zone
	if err := query.Order("community, pickup_day").Find(&zones).Error; err != nil {
		httperr.Write(w, http.StatusInternalServerError, httperr.CodeUpstreamError, "Failed to fetch schedules")
		return
	}

	httperr.OK(w, zones)
}

// ParishesHandler returns the distinct parishes that have any zone configured.
func ParishesHandler(w http.ResponseWriter, r *http.Request) {
	var parishes []string
	if err := db.DB.WithContext(r.Context()).
		Model(&Zone{}).
		Distinct("parish").
		Order("parish").
		Pluck("parish", &parishes).Error; err != nil {
		httperr.Write(w, http.StatusInternalServerError, httperr.CodeUpstreamError, "Failed to fetch parishes")
		return
	}

	httperr.OK(w, parishes)
}
