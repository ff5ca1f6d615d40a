package pipeline

import (
	"errors"

	"github.com/rotisserie/eris"

	"github.com/sells-group/brand-cli/internal/resilience"
)

// Messages shown to end users. Anything else stays in the server log.
const (
	MsgInvalidURL = "Please enter a valid URL."
	MsgGeneric    = "We were unable to generate brand assets for this website. Please try again."
	MsgTimeout    = "The website took too long to respond. Please try again."
)

// ErrInvalidURL is returned for empty or non-http(s) input.
var ErrInvalidURL = eris.New("invalid url")

// UserError carries a message that is safe to return to the caller.
type UserError struct {
	Message string
	Err     error
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *UserError) Unwrap() error { return e.Err }

// userMessage returns the safe message carried by err, or the generic one.
func userMessage(err error) string {
	var ue *UserError
	if errors.As(err, &ue) && ue.Message != "" {
		return ue.Message
	}
	return MsgGeneric
}

// failureReason summarizes a dependency failure for a stage report.
func failureReason(err error) string {
	switch resilience.Classify(err) {
	case "circuit_open":
		return "circuit open"
	case "timeout":
		return "timeout"
	default:
		return "request failed"
	}
}

// failureMeta builds log meta for a failed dependency call.
func failureMeta(err error) map[string]any {
	meta := map[string]any{"error": err.Error(), "class": resilience.Classify(err)}
	var se interface{ HTTPStatus() int }
	if errors.As(err, &se) {
		meta["status"] = se.HTTPStatus()
	}
	return meta
}
