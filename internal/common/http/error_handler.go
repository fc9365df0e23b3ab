package http

import (
	"context"
	"net/http"
	"strconv"

	"github.com/inkpress/inkpress/backend/internal/common/constants"
	commonerrors "github.com/inkpress/inkpress/backend/internal/common/errors"
	"github.com/inkpress/inkpress/backend/internal/common/httpmetrics"
	"github.com/inkpress/inkpress/backend/internal/common/logger"
	"github.com/inkpress/inkpress/backend/internal/observability/metrics"
)

// HandleError translates any error into the JSON error envelope. Domain
// errors keep their code and status; anything else is a 500 with no
// internal detail leaked.
func HandleError(w http.ResponseWriter, r *http.Request, err error, log *logger.Logger) {
	if err == nil {
		return
	}

	ctx := r.Context()
	traceID := getTraceIDFromContext(ctx)
	if traceID != "" {
		w.Header().Set("X-Trace-ID", traceID)
	}

	if domainErr, ok := commonerrors.AsDomainError(err); ok {
		status := domainErr.HTTPStatus()

		if log.ShouldLog(logger.DEBUG) {
			log.WithFields(ctx, logger.Fields{
				"error_code": domainErr.Code(),
				"category":   string(domainErr.Category()),
				"status":     status,
				"action":     "domain_error",
			}).Debugf("domain error: %s", domainErr.Error())
		}

		metrics.DomainErrorsTotal.WithLabelValues(
			string(domainErr.Category()),
			domainErr.Code(),
			strconv.Itoa(status),
		).Inc()
		metrics.HTTPErrorsTotal.WithLabelValues(
			strconv.Itoa(status),
			httpmetrics.NormalizePath(r.URL.Path),
			r.Method,
		).Inc()

		WriteErrorEnvelope(w, status, domainErr.Code(), domainErr.Message(), traceID)
		return
	}

	log.WithFields(ctx, logger.Fields{
		"error":  err.Error(),
		"action": "unhandled_error",
	}).Errorf("unhandled error: %v", err)

	metrics.HTTPErrorsTotal.WithLabelValues(
		strconv.Itoa(http.StatusInternalServerError),
		httpmetrics.NormalizePath(r.URL.Path),
		r.Method,
	).Inc()

	WriteErrorEnvelope(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error", traceID)
}

func getTraceIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	traceID, ok := ctx.Value(constants.TraceIDKey).(string)
	if !ok {
		return ""
	}
	return traceID
}
