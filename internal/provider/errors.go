package provider

import (
	"errors"
	"fmt"
)

var errNotInitialized = errors.New("provider not initialized")

// SynthesisFailureKind classifies a non-fatal per-segment synthesis
// error.
type SynthesisFailureKind string

const (
	FailureTimeout         SynthesisFailureKind = "timeout"
	FailureNetwork         SynthesisFailureKind = "network"
	FailureBackend         SynthesisFailureKind = "backend"
	FailureInvalidResponse SynthesisFailureKind = "invalid_response"
)

// SynthesisFailedError wraps a provider synthesis failure. Callers treat
// this as non-fatal: substitute a zero-filled buffer of the segment's
// estimated duration and continue.
type SynthesisFailedError struct {
	Provider string
	Kind     SynthesisFailureKind
	Cause    error
}

func (e *SynthesisFailedError) Error() string {
	return fmt.Sprintf("synthesis failed (provider=%s, kind=%s): %v", e.Provider, e.Kind, e.Cause)
}

func (e *SynthesisFailedError) Unwrap() error { return e.Cause }

// NoProviderAvailableError means the registry had no provider to select,
// or none was registered. Fatal for single requests; recorded per-item
// in batches.
type NoProviderAvailableError struct{}

func (e *NoProviderAvailableError) Error() string { return "no provider available" }
