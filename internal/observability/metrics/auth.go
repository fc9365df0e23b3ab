package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RegistrationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "registrations_total",
			Help: "Total number of registration attempts",
		},
		[]string{"result"},
	)

	SigninsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "signins_total",
			Help: "Total number of sign-in attempts",
		},
		[]string{"result"},
	)

	TokensIssued = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tokens_issued_total",
			Help: "Total number of session tokens issued",
		},
	)

	TokenVerificationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "token_verifications_total",
			Help: "Total number of session token verifications",
		},
	)

	TokenVerificationsFailed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "token_verifications_failed_total",
			Help: "Total number of failed session token verifications",
		},
	)
)
