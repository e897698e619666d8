package form

import (
	"context"
	"errors"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/letiskotransfer/transfer-api/internal/models"
	"github.com/letiskotransfer/transfer-api/pkg/logger"
	"github.com/letiskotransfer/transfer-api/pkg/reservationclient"
)

// State is the submission lifecycle of a form
type State int

const (
	StateIdle State = iota
	StateSubmitting
	StateSucceeded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateSubmitting:
		return "submitting"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return "idle"
	}
}

// ErrSubmissionInFlight is returned when Submit is called while a previous
// submission of the same form has not finished
var ErrSubmissionInFlight = errors.New("submission already in progress")

// Transport delivers a payload to the reservation endpoint
type Transport interface {
	Submit(ctx context.Context, payload any) *reservationclient.Result
}

// RequiredError reports empty required controls found before any network call
type RequiredError struct {
	Fields FieldMessages
}

func (e *RequiredError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return "required fields missing: " + strings.Join(names, ", ")
}

// SubmitError is a failed submission. Message is what the user is shown.
type SubmitError struct {
	Message string
	Result  *reservationclient.Result
}

func (e *SubmitError) Error() string {
	return e.Message
}

func (e *SubmitError) Unwrap() error {
	return e.Result.Err
}

// Status is a snapshot of the submission lifecycle
type Status struct {
	State   State
	Message string

	// Fields holds per-control messages from the last failed attempt
	Fields FieldMessages
}

// Status returns the current lifecycle state and the message to display
func (f *Form) Status() Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	return Status{State: f.state, Message: f.message, Fields: f.errors}
}

// Dismiss acknowledges the last outcome and returns the form to idle
func (f *Form) Dismiss() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != StateSubmitting {
		f.state = StateIdle
		f.message = ""
		f.errors = nil
	}
}

// Submit checks required controls, posts the payload and records the outcome.
// On success every field, row and the return toggle are reset; on failure the
// form keeps its content so the user can correct it and submit again.
func (f *Form) Submit(ctx context.Context, transport Transport) error {
	f.mu.Lock()
	if f.state == StateSubmitting {
		f.mu.Unlock()
		return ErrSubmissionInFlight
	}
	if missing := f.checkRequired(); missing != nil {
		f.state = StateFailed
		f.message = printer(f.locale).Sprintf(msgCheckFields)
		f.errors = missing
		f.mu.Unlock()
		return &RequiredError{Fields: missing}
	}
	payload := f.buildPayload()
	f.state = StateSubmitting
	f.message = ""
	f.errors = nil
	f.mu.Unlock()

	result := transport.Submit(ctx, payload)

	f.mu.Lock()
	defer f.mu.Unlock()

	if result.OK() {
		f.reset()
		f.state = StateSucceeded
		f.message = printer(f.locale).Sprintf(msgSubmitted)
		return nil
	}

	f.state = StateFailed
	f.message = f.failureMessage(result)
	f.errors = fieldMessages(result.Errors)
	logger.Warn("Reservation submission failed",
		zap.String("kind", string(result.Kind)),
		zap.Int("status", result.Status),
		zap.Error(result.Err))
	return &SubmitError{Message: f.message, Result: result}
}

func (f *Form) failureMessage(result *reservationclient.Result) string {
	p := printer(f.locale)
	switch {
	case result.Kind == reservationclient.KindNetworkError:
		return p.Sprintf(msgNetwork)
	case result.Message() != "":
		return result.Message()
	case !result.Errors.Empty():
		return p.Sprintf(msgCheckFields)
	default:
		return p.Sprintf(msgHTTPStatus, result.Status)
	}
}

// fieldMessages keeps the first server message per top-level field
func fieldMessages(tree *models.ErrorTree) FieldMessages {
	if tree.Empty() {
		return nil
	}
	var out FieldMessages
	for name, child := range tree.Fields {
		messages := child.Messages()
		if len(messages) == 0 {
			continue
		}
		if out == nil {
			out = make(FieldMessages)
		}
		out[name] = messages[0]
	}
	return out
}
