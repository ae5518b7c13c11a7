package webhooks

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/danclocks/cleanjam-sub001/internal/db"
	"github.com/danclocks/cleanjam-sub001/internal/rewards"
	"github.com/danclocks/cleanjam-sub001/internal/users"
	"github.com/google/uuid"
	"gorm.io/gorm/clause"
)

// RecyclingWebhook ingests weigh-in events from partner depots. The depot
// signs the raw body with the shared secret; a duplicate event id is accepted
// but credited only once.
func RecyclingWebhook(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1 MiB
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "payload too large or unreadable", http.StatusRequestEntityTooLarge)
		return
	}
	defer r.Body.Close()

	sig := r.Header.Get("Depot-Signature")
	eventID := r.Header.Get("Depot-Event-Id")
	if eventID == "" {
		http.Error(w, "missing event id", http.StatusBadRequest)
		return
	}

	secret := os.Getenv("DEPOT_WEBHOOK_SECRET")
	if secret == "" {
		http.Error(w, "server misconfigured", http.StatusInternalServerError)
		return
	}
	if !verifySignature(sig, eventID, raw, secret) {
		http.Error(w, "invalid signature", http.StatusUnauthorized)
		return
	}

	var event struct {
		AuthID   string  `json:"auth_id"`
		Material string  `json:"material"`
		WeightKg float64 `json:"weight_kg"`
	}
	if err := json.Unmarshal(raw, &event); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}

	material, ok := rewards.ParseMaterial(event.Material)
	if !ok {
		http.Error(w, "unknown material", http.StatusBadRequest)
		return
	}

	var user users.User
	if err := db.DB.WithContext(r.Context()).First(&user, "auth_id = ?", event.AuthID).Error; err != nil {
		http.Error(w, "unknown user", http.StatusNotFound)
		return
	}

	points := rewards.PointsFor(material, event.WeightKg)
	if points <= 0 {
		http.Error(w, "weigh-in credits no points", http.StatusBadRequest)
		return
	}

	entry := rewards.Entry{
		ID:       uuid.NewString(),
		UserID:   user.UserID,
		Points:   points,
		Material: material,
		WeightKg: event.WeightKg,
		Source:   "depot",
		EventID:  eventID,
	}
	if err := db.DB.WithContext(r.Context()).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "event_id"}}, DoNothing: true}).
		Create(&entry).Error; err != nil {
		http.Error(w, "failed to record weigh-in", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// verifySignature checks the hex HMAC-SHA256 of "<eventID>.<body>".
func verifySignature(sig, eventID string, body []byte, secret string) bool {
	sig = strings.TrimPrefix(sig, "sha256=")
	want, err := hex.DecodeString(sig)
	if err != nil {
		return false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(eventID))
	mac.Write([]byte("."))
	mac.Write(body)
	return hmac.Equal(want, mac.Sum(nil))
}
