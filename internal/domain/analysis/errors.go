package analysis

import (
	"errors"
	"fmt"
)

// ErrMissingAPIKey indicates the service credential was never configured.
// No network attempt is made when this fires.
var ErrMissingAPIKey = errors.New("analysis: api key not configured")

// ErrMalformedReply indicates the model body was not valid JSON.
var ErrMalformedReply = errors.New("analysis: malformed model reply")

// ErrorKind classifies a failed cascade attempt.
type ErrorKind int

const (
	// KindTransport is a network-level failure with no HTTP status.
	KindTransport ErrorKind = iota
	// KindCredential is an auth rejection (401/403); fatal to the whole cascade.
	KindCredential
	// KindModelUnavailable is a per-model 400/404; the cascade advances.
	KindModelUnavailable
	// KindUnknown is any other non-success status; fatal, not worth retrying
	// against weaker models.
	KindUnknown
)

func (k ErrorKind) String() string {
	switch k {
	case KindCredential:
		return "credential"
	case KindModelUnavailable:
		return "model_unavailable"
	case KindUnknown:
		return "unknown"
	default:
		return "transport"
	}
}

// CascadeError is the classified outcome of one model attempt.
type CascadeError struct {
	Kind   ErrorKind
	Status int
	Model  string
	Err    error
}

func (e *CascadeError) Error() string {
	return fmt.Sprintf("model %s failed (%s, status %d): %v", e.Model, e.Kind, e.Status, e.Err)
}

func (e *CascadeError) Unwrap() error { return e.Err }

// Fatal reports whether the error must short-circuit the remaining candidates.
func (e *CascadeError) Fatal() bool {
	return e.Kind == KindCredential || e.Kind == KindUnknown
}
