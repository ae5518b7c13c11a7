package rewards

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/danclocks/cleanjam-sub001/internal/db"
	"github.com/danclocks/cleanjam-sub001/internal/httperr"
	"github.com/danclocks/cleanjam-sub001/internal/utils"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var errInsufficientBalance = errors.New("insufficient balance")

// balance sums a user's credits minus redeemed points on the given handle,
// which may be a transaction.
func balance(tx *gorm.DB, userID uint) (int, error) {
	var earned, spent int64

	if err := tx.Model(&Entry{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(points), 0)").
		Scan(&earned).Error; err != nil {
		return 0, err
	}
	if err := tx.Model(&Redemption{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(points), 0)").
		Scan(&spent).Error; err != nil {
		return 0, err
	}

	return int(earned - spent), nil
}

// MeHandler returns the logged-in user's balance, display tier and history.
func MeHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := utils.GetUserFromContext(r.Context())
	if !ok {
		httperr.Write(w, http.StatusUnauthorized, httperr.CodeNoSession, "No resolved user in request context")
		return
	}

	points, err := balance(db.DB.WithContext(r.Context()), user.UserID)
	if err != nil {
		httperr.Write(w, http.StatusInternalServerError, httperr.CodeUpstreamError, "Failed to compute balance")
		return
	}

	var entries []Entry
	if err := db.DB.WithContext(r.Context()).
		Where("user_id = ?", user.UserID).
		Order("created_at DESC").
		Limit(50).
		Find(&entries).Error; err != nil {
		httperr.Write(w, http.StatusInternalServerError, httperr.CodeUpstreamError, "Failed to fetch entries")
		return
	}

	httperr.OK(w, map[string]any{
		"points":  points,
		"tier":    DisplayTier(points),
		"entries": entries,
	})
}

// CreateEntryHandler credits points manually (collection drives, bonuses).
func CreateEntryHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID   uint    `json:"user_id"`
		Material string  `json:"material"`
		WeightKg float64 `json:"weight_kg"`
		Points   int     `json:"points"`
		Source   string  `json:"source"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperr.Write(w, http.StatusBadRequest, httperr.CodeValidationError, "Invalid request body")
		return
	}
	if req.UserID == 0 {
		httperr.Write(w, http.StatusBadRequest, httperr.CodeValidationError, "user_id is required")
		return
	}

	entry := Entry{
		ID:     uuid.NewString(),
		UserID: req.UserID,
		Points: req.Points,
		Source: req.Source,
	}
	if entry.Source == "" {
		entry.Source = "bonus"
	}
	if req.Material != "" {
		material, ok := ParseMaterial(req.Material)
		if !ok {
			httperr.Write(w, http.StatusBadRequest, httperr.CodeValidationError, "Unknown material: "+req.Material)
			return
		}
		entry.Material = material
		entry.WeightKg = req.WeightKg
		if entry.Points == 0 {
			entry.Points = PointsFor(material, req.WeightKg)
		}
	}
	if entry.Points <= 0 {
		httperr.Write(w, http.StatusBadRequest, httperr.CodeValidationError, "Entry must credit a positive number of points")
		return
	}

	if err := db.DB.WithContext(r.Context()).Create(&entry).Error; err != nil {
		httperr.Write(w, http.StatusInternalServerError, httperr.CodeUpstreamError, "Failed to create entry")
		return
	}

	httperr.JSON(w, http.StatusCreated, entry)
}

// ListEntriesHandler is the admin audit view over credits.
func ListEntriesHandler(w http.ResponseWriter, r *http.Request) {
	query := db.DB.WithContext(r.Context()).Model(&Entry{})

	if userIDStr := r.URL.Query().Get("userId"); userIDStr != "" {
		userID, err := strconv.ParseUint(userIDStr, 10, 32)
		if err != nil {
			httperr.Write(w, http.StatusBadRequest, httperr.CodeValidationError, "Invalid userId")
			return
		}
		query = query.Where("user_id = ?", uint(userID))
	}

	var entries []Entry
	if err := query.Order("created_at DESC").Limit(200).Find(&entries).Error; err != nil {
		httperr.Write(w, http.StatusInternalServerError, httperr.CodeUpstreamError, "Failed to fetch entries")
		return
	}

	httperr.OK(w, entries)
}

// RedeemHandler exchanges points for a one-time voucher code. The code is
// returned exactly once and stored only as a bcrypt hash.
func RedeemHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := utils.GetUserFromContext(r.Context())
	if !ok {
		httperr.Write(w, http.StatusUnauthorized, httperr.CodeNoSession, "No resolved user in request context")
		return
	}

	var req struct {
		Points int `json:"points"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperr.Write(w, http.StatusBadRequest, httperr.CodeValidationError, "Invalid request body")
		return
	}
	if req.Points <= 0 {
		httperr.Write(w, http.StatusBadRequest, httperr.CodeValidationError, "points must be positive")
		return
	}

	code := voucherCode()
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		httperr.Write(w, http.StatusInternalServerError, httperr.CodeUpstreamError, "Failed to issue voucher")
		return
	}

	redemption := Redemption{
		ID:       uuid.NewString(),
		UserID:   user.UserID,
		Points:   req.Points,
		CodeHash: string(hash),
	}

	// The balance check and the insert must be one atomic step, or two
	// concurrent redeems both pass the check and overdraw. Locking the owning
	// user row serializes redeems per user.
	err = db.DB.WithContext(r.Context()).Transaction(func(tx *gorm.DB) error {
		var locked uint
		if err := tx.Raw(
			"SELECT user_id FROM app_auth.users WHERE user_id = ? FOR UPDATE",
			user.UserID,
		).Scan(&locked).Error; err != nil {
			return err
		}

		points, err := balance(tx, user.UserID)
		if err != nil {
			return err
		}
		if points < req.Points {
			return errInsufficientBalance
		}

		return tx.Create(&redemption).Error
	})
	if errors.Is(err, errInsufficientBalance) {
		httperr.Write(w, http.StatusConflict, httperr.CodeInsufficient, "Not enough points")
		return
	}
	if err != nil {
		httperr.Write(w, http.StatusInternalServerError, httperr.CodeUpstreamError, "Failed to record redemption")
		return
	}

	httperr.JSON(w, http.StatusCreated, map[string]any{
		"redemption_id": redemption.ID,
		"points":        redemption.Points,
		"voucher_code":  code,
	})
}

func voucherCode() string {
	// CJ-XXXXXXXX, derived from a fresh UUID.
	return "CJ-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}
