package services

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingCredential means no Gemini API key could be resolved.
	ErrMissingCredential = errors.New("gemini API key not configured")

	ErrWeatherNotConfigured = errors.New("weather API key not configured")
)

// FailureKind classifies an upstream failure into the three user-facing
// outcomes: misconfigured, come back later, try again now.
type FailureKind int

const (
	FailureTransient FailureKind = iota
	FailureQuotaExceeded
	FailureMissingConfig
)

func (k FailureKind) String() string {
	switch k {
	case FailureQuotaExceeded:
		return "quota_exceeded"
	case FailureMissingConfig:
		return "missing_config"
	default:
		return "transient"
	}
}

// UpstreamError wraps a provider failure together with its classification.
type UpstreamError struct {
	Kind FailureKind
	Err  error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream %s: %v", e.Kind, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

func newUpstreamError(err error) *UpstreamError {
	return &UpstreamError{Kind: ClassifyFailure(err), Err: err}
}

// FailureKindOf extracts the classification from err, classifying it on the
// spot when it is not already an *UpstreamError.
func FailureKindOf(err error) FailureKind {
	var ue *UpstreamError
	if errors.As(err, &ue) {
		return ue.Kind
	}
	return ClassifyFailure(err)
}
