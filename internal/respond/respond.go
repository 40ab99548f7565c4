// Package respond writes API envelopes to HTTP responses.
//
// A Responder renders envelopes with a formatter.Formatter, sets the JSON
// content type and writes the text verbatim. The error code given to Error is
// never rendered; it is logged and used as a metric label. When rendering fails
// the client receives a fixed 500 envelope that does not echo any of the data.
package respond

import (
	"io"
	"net/http"

	"github.com/mcncl/jsonenv/internal/errors"
	"github.com/mcncl/jsonenv/internal/formatter"
	"github.com/mcncl/jsonenv/internal/models"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

// ContentType is set on every envelope response
const ContentType = "application/json; charset=utf-8"

// StatusInternal labels responses replaced by the internal error envelope
const StatusInternal = "internal"

// StatusOther labels responses whose caller-supplied status is neither success nor error
const StatusOther = "other"

// InternalErrorBody is written when an envelope cannot be rendered
const InternalErrorBody = `{"status":"error","errors":[{"field":"","message":"internal server error","next_actions":[]}]}`

// Responder writes envelopes to http.ResponseWriters. Safe for concurrent use.
type Responder struct {
	formatter formatter.Formatter
	logger    logrus.FieldLogger
	envelopes *prometheus.CounterVec
}

// NewResponder creates a Responder. Register Collector() with a Prometheus
// registry to expose the envelope counter.
func NewResponder(f formatter.Formatter, logger logrus.FieldLogger) *Responder {
	return &Responder{
		formatter: f,
		logger:    logger,
		envelopes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "jsonenv",
			Name:      "envelopes_total",
			Help:      "API envelopes written, by envelope status and error code.",
		}, []string{"status", "code"}),
	}
}

// Collector exposes the envelope counter
func (r *Responder) Collector() prometheus.Collector {
	return r.envelopes
}

// Success writes {"status":"success","message":...}
func (r *Responder) Success(w http.ResponseWriter, httpStatus int, message string) {
	body, err := r.formatter.FormatSuccess(message)
	r.write(w, httpStatus, formatter.StatusSuccess, "", body, err)
}

// Response writes {"status":...,"message":...,"data":...}
func (r *Responder) Response(w http.ResponseWriter, httpStatus int, status, message string, data models.Value) {
	body, err := r.formatter.FormatResponse(status, message, data)
	r.write(w, httpStatus, status, "", body, err)
}

// Error writes {"status":"error","errors":[...]} and records code out of band.
func (r *Responder) Error(w http.ResponseWriter, httpStatus int, code string, details []models.ErrorDetail) {
	body, err := r.formatter.FormatError(code, details)
	if err == nil {
		r.logger.WithFields(logrus.Fields{
			"code":        code,
			"http_status": httpStatus,
			"errors":      len(details),
		}).Info("error envelope")
	}
	r.write(w, httpStatus, formatter.StatusError, code, body, err)
}

func (r *Responder) write(w http.ResponseWriter, httpStatus int, status, code, body string, renderErr error) {
	if renderErr != nil {
		fields := logrus.Fields{
			"status":      status,
			"code":        code,
			"http_status": httpStatus,
			"error":       renderErr.Error(),
		}
		if errors.IsFormatError(renderErr) {
			fields["error_type"] = string(errors.ErrorTypeRender)
		}
		r.logger.WithFields(fields).Error("failed to render envelope")

		status = StatusInternal
		httpStatus = http.StatusInternalServerError
		body = InternalErrorBody
	}

	r.envelopes.WithLabelValues(statusLabel(status), code).Inc()

	w.Header().Set("Content-Type", ContentType)
	w.WriteHeader(httpStatus)
	if _, err := io.WriteString(w, body); err != nil {
		r.logger.WithError(err).Warn("failed to write envelope")
	}
}

// statusLabel keeps the status label to a fixed set of values.
func statusLabel(status string) string {
	switch status {
	case formatter.StatusSuccess, formatter.StatusError, StatusInternal:
		return status
	default:
		return StatusOther
	}
}
