package service

import "github.com/inkpress/inkpress/backend/internal/observability/metrics"

func incrementRegistrations(result string) {
	metrics.RegistrationsTotal.WithLabelValues(result).Inc()
}

func incrementSignins(result string) {
	metrics.SigninsTotal.WithLabelValues(result).Inc()
}

func incrementTokensIssued() {
	metrics.TokensIssued.Inc()
}
