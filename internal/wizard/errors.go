package wizard

import (
	"errors"
	"fmt"
)

// Sentinel failures the transport layer maps onto HTTP statuses.
var (
	// ErrGenerationInFlight rejects a second submission while one
	// recommendation call is pending for the session.
	ErrGenerationInFlight = errors.New("a recommendation request is already in progress")

	// ErrStaleResult marks a generation result that arrived after the user
	// navigated away from the lifestyle step. The result is discarded.
	ErrStaleResult = errors.New("recommendation result discarded: session moved on")

	// ErrNoSavedRoutine reports that load-saved found nothing usable.
	ErrNoSavedRoutine = errors.New("no saved routine found")

	// errEmptyRoutine rejects a collaborator payload with no schedule items.
	errEmptyRoutine = errors.New("collaborator returned an empty supplement routine")
)

// ValidationError is a recoverable, user-facing input failure. The step does
// not change and the message is shown inline.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// CollaboratorError wraps a failure of the recommendation collaborator. The
// session stays on the pre-call step and resubmission is always possible.
type CollaboratorError struct {
	Cause error
}

func (e *CollaboratorError) Error() string {
	return fmt.Sprintf("failed to generate recommendations: %v", e.Cause)
}

func (e *CollaboratorError) Unwrap() error { return e.Cause }

// PersistenceError wraps a storage read failure. Writes never surface one:
// save degrades to a side-channel notification instead.
type PersistenceError struct {
	Cause error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("storage unavailable: %v", e.Cause)
}

func (e *PersistenceError) Unwrap() error { return e.Cause }
