package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	guardRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cleanjamaica_guard_requests_total",
		Help: "Guard pipeline decisions by stage reached and outcome.",
	}, []string{"stage", "outcome"})

	authRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cleanjamaica_auth_requests_total",
		Help: "Auth endpoint calls by operation and outcome.",
	}, []string{"op", "outcome"})
)

// GuardDecision records one guard pipeline result. Stage is the pipeline stage
// at which the request was decided (token, verify, resolve, tier, authorized).
func GuardDecision(stage, outcome string) {
	guardRequests.WithLabelValues(stage, outcome).Inc()
}

// AuthOp records the outcome of one auth endpoint call (signup, login, logout, resend).
func AuthOp(op, outcome string) {
	authRequests.WithLabelValues(op, outcome).Inc()
}
