// Package metrics defines and registers the custom Prometheus metrics of the
// Sadhana API. HTTP request metrics come from echoprometheus; the counters
// here track business outcomes.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "sadhana"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// RegistrationsTotal counts registration attempts.
// Labels:
//   - method: "password" or "google"
//   - result: "created", "pending_verification", "rejected", "error"
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of registration attempts, by method and result.",
	},
	[]string{"method", "result"},
)

// RegistrationRollbacksTotal counts registrations undone because the
// verification email could not be sent.
var RegistrationRollbacksTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registration_rollbacks_total",
		Help:      "Total number of registrations rolled back after a mail delivery failure.",
	},
)

// LoginsTotal counts login attempts.
// Labels:
//   - method: "password" or "google"
//   - result: "success", "needs_role", "rejected", "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by method and result.",
	},
	[]string{"method", "result"},
)

// OTPVerificationsTotal counts verify-otp calls.
// Label:
//   - result: "verified", "invalid", "expired", "throttled", "error"
var OTPVerificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "otp_verifications_total",
		Help:      "Total number of one-time code verifications, by result.",
	},
	[]string{"result"},
)

// ── Sadhana metrics ───────────────────────────────────────────────────────────

// EntriesSubmittedTotal counts add-entry calls.
// Label:
//   - result: "created", "duplicate", "rejected", "error"
var EntriesSubmittedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "entries_submitted_total",
		Help:      "Total number of sadhana card submissions, by result.",
	},
	[]string{"result"},
)

// ReportsServedTotal counts report reads.
// Label:
//   - kind: "counsilli_monthly", "counsellor_full", "counsellor_monthly"
var ReportsServedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reports_served_total",
		Help:      "Total number of sadhana reports served, by kind.",
	},
	[]string{"kind"},
)
