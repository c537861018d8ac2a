package client

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmptySessionID      = errors.New("session id cannot be empty")
	ErrEmptyFilename       = errors.New("filename cannot be empty")
	ErrNilReader           = errors.New("reader cannot be nil")
	ErrNilWriter           = errors.New("writer cannot be nil")
	ErrNoFiles             = errors.New("please select at least one file")
	ErrTooManyFiles        = errors.New("please select only one file for single mode conversion")
	ErrInvalidMode         = errors.New("mode must be single or batch")
	ErrInvalidTransition   = errors.New("invalid wizard transition")
	ErrPollerStarted       = errors.New("poller already started")
	ErrEmptyResponse       = errors.New("response body is empty")
	ErrMissingSessionID    = errors.New("upload succeeded but no session id returned")
	ErrInvalidPackagerMode = errors.New("packager mode must be sandbox or dev")
)

// InvalidFilenamesError lists every selected file whose name was rejected.
type InvalidFilenamesError struct {
	Names []string
}

func (e *InvalidFilenamesError) Error() string {
	return fmt.Sprintf("invalid filename format for: %s; %s", strings.Join(e.Names, ", "), filenameRuleHint)
}

// FieldError is a validation failure for one configuration field.
type FieldError struct {
	Field   string
	Message string
}

// ConfigValidationError carries one message per missing or invalid configuration field.
type ConfigValidationError struct {
	Fields []FieldError
}

func (e *ConfigValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Message)
	}
	return strings.Join(msgs, "; ")
}

// Message returns the validation message for field, or "" when it passed.
func (e *ConfigValidationError) Message(field string) string {
	for _, f := range e.Fields {
		if f.Field == field {
			return f.Message
		}
	}
	return ""
}

// UploadError reports a failed upload call.
type UploadError struct {
	Message string
	Err     error
}

func (e *UploadError) Error() string { return "upload failed: " + e.Message }
func (e *UploadError) Unwrap() error { return e.Err }

// ProcessStartError reports a failed start-processing call for an accepted upload.
type ProcessStartError struct {
	SessionID string
	Message   string
	Err       error
}

func (e *ProcessStartError) Error() string {
	return fmt.Sprintf("start processing session %s failed: %s", e.SessionID, e.Message)
}

func (e *ProcessStartError) Unwrap() error { return e.Err }

// ProgressUnavailableError reports that progress could not be fetched at all.
// It is distinct from a ServiceError, which the service reports itself.
type ProgressUnavailableError struct {
	SessionID string
	Err       error
}

func (e *ProgressUnavailableError) Error() string { return progressUnavailableMessage }
func (e *ProgressUnavailableError) Unwrap() error { return e.Err }

// ServiceError is a session failure reported by the service through a snapshot.
type ServiceError struct {
	SessionID string
	Message   string
}

func (e *ServiceError) Error() string { return e.Message }

// ResultsError reports that the final result set could not be fetched.
type ResultsError struct {
	SessionID string
	Err       error
}

func (e *ResultsError) Error() string {
	return fmt.Sprintf("fetch results for session %s: %v", e.SessionID, e.Err)
}

func (e *ResultsError) Unwrap() error { return e.Err }

// RequestError is a non-success HTTP response from the service.
type RequestError struct {
	Operation  Operation
	StatusCode int
	Status     string
	Message    string // Message embedded in the response body, if any
	TraceID    string
}

func (e *RequestError) Error() string {
	traceID := normalizeTraceID(e.TraceID)
	if e.Message == "" {
		return fmt.Sprintf("%s failed with status %d: %s (trace-id: %s)", e.Operation, e.StatusCode, e.Status, traceID)
	}
	return fmt.Sprintf("%s failed with status %d: %s (trace-id: %s)", e.Operation, e.StatusCode, e.Message, traceID)
}

// UserMessage returns the single human-readable message to show for err.
// A message embedded in a failed response is preferred over transport detail.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var (
		reqErr   *RequestError
		svcErr   *ServiceError
		progErr  *ProgressUnavailableError
		upErr    *UploadError
		startErr *ProcessStartError
		resErr   *ResultsError
	)
	switch {
	case errors.As(err, &svcErr):
		return svcErr.Message
	case errors.As(err, &progErr):
		return progErr.Error()
	case errors.As(err, &resErr):
		return failureMessage(resErr.Err, resultsFailedMessage)
	case errors.As(err, &reqErr) && reqErr.Message != "":
		return reqErr.Message
	case errors.As(err, &upErr):
		return upErr.Message
	case errors.As(err, &startErr):
		return startErr.Message
	default:
		return err.Error()
	}
}

// errStatus builds a RequestError from an HTTP status and optional body message.
func errStatus(operation Operation, statusCode int, status, message, traceID string) error {
	return &RequestError{
		Operation:  operation,
		StatusCode: statusCode,
		Status:     status,
		Message:    message,
		TraceID:    traceID,
	}
}

func normalizeTraceID(traceID string) string {
	if traceID == "" {
		return "unknown"
	}
	return traceID
}
