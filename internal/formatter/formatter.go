package formatter

import (
	"github.com/mcncl/jsonenv/internal/models"
	"github.com/mcncl/jsonenv/internal/renderer"
)

// Envelope status literals
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Envelope keys, in the order they are written
const (
	keyStatus      = "status"
	keyMessage     = "message"
	keyData        = "data"
	keyErrors      = "errors"
	keyField       = "field"
	keyNextActions = "next_actions"
)

// Formatter renders API envelopes as JSON text.
// It is immutable after construction and safe for concurrent use.
type Formatter struct {
	pretty bool
}

// NewFormatter creates a Formatter producing compact output
func NewFormatter() Formatter {
	return Formatter{}
}

// WithPretty creates a Formatter with the given layout
func WithPretty(pretty bool) Formatter {
	return Formatter{pretty: pretty}
}

// Pretty reports whether the formatter produces indented output
func (f Formatter) Pretty() bool {
	return f.pretty
}

// FormatSuccess renders {"status":"success","message":<message>}.
func (f Formatter) FormatSuccess(message string) (string, error) {
	return f.render(SuccessEnvelope(message))
}

// FormatResponse renders {"status":<status>,"message":<message>,"data":<data>}.
func (f Formatter) FormatResponse(status, message string, data models.Value) (string, error) {
	return f.render(ResponseEnvelope(status, message, data))
}

// FormatError renders {"status":"error","errors":[...]}.
// code is not part of the envelope; callers use it for logging and metrics.
func (f Formatter) FormatError(code string, errs []models.ErrorDetail) (string, error) {
	return f.render(ErrorEnvelope(errs))
}

func (f Formatter) render(envelope models.Value) (string, error) {
	return renderer.Render(envelope, f.pretty)
}

// SuccessEnvelope builds the value tree of a success envelope
func SuccessEnvelope(message string) models.Value {
	return models.Obj(
		models.Field(keyStatus, models.Str(StatusSuccess)),
		models.Field(keyMessage, models.Str(message)),
	)
}

// ResponseEnvelope builds the value tree of a generic response envelope
func ResponseEnvelope(status, message string, data models.Value) models.Value {
	return models.Obj(
		models.Field(keyStatus, models.Str(status)),
		models.Field(keyMessage, models.Str(message)),
		models.Field(keyData, data),
	)
}

// ErrorEnvelope builds the value tree of an error envelope. The errors array
// and every next_actions array are always present, even when empty.
func ErrorEnvelope(errs []models.ErrorDetail) models.Value {
	items := make(models.Array, len(errs))
	for i, detail := range errs {
		items[i] = errorDetailValue(detail)
	}
	return models.Obj(
		models.Field(keyStatus, models.Str(StatusError)),
		models.Field(keyErrors, items),
	)
}

func errorDetailValue(detail models.ErrorDetail) models.Value {
	actions := make(models.Array, len(detail.NextActions))
	for i, action := range detail.NextActions {
		actions[i] = models.Str(action)
	}
	return models.Obj(
		models.Field(keyField, models.Str(detail.Field)),
		models.Field(keyMessage, models.Str(detail.Message)),
		models.Field(keyNextActions, actions),
	)
}
