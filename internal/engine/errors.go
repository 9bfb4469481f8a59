package engine

import (
	"errors"
	"fmt"

	"github.com/roach88/aisync/internal/model"
)

// SyncErrorCode categorizes engine errors.
type SyncErrorCode string

const (
	// ErrCodeSourceNotConfigured: the source system has no configuration
	// directory under the project root. Fatal for the whole job.
	ErrCodeSourceNotConfigured SyncErrorCode = "SOURCE_NOT_CONFIGURED"

	// ErrCodeUnknownSystem: no adapter is registered for the system ID.
	ErrCodeUnknownSystem SyncErrorCode = "UNKNOWN_SYSTEM"

	// ErrCodeScanFailed: the source adapter could not list its artifacts.
	ErrCodeScanFailed SyncErrorCode = "SCAN_FAILED"

	// ErrCodeUnsafeDestination: the destination is a directory the engine did
	// not create, and Force is not set. Recorded per artifact in
	// SyncResult.ErrorCode, never returned.
	ErrCodeUnsafeDestination SyncErrorCode = "UNSAFE_DESTINATION"

	// ErrCodeNameCollision: two source artifacts of one type normalize to
	// the same name. The later one in scan order is recorded as failed.
	ErrCodeNameCollision SyncErrorCode = "NAME_COLLISION"
)

// SyncError is an engine error with a machine-readable code.
type SyncError struct {
	Code    SyncErrorCode
	Message string
	System  model.SystemID
	Err     error
}

func (e *SyncError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.System != "" {
		msg = fmt.Sprintf("%s (system=%s)", msg, e.System)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *SyncError) Unwrap() error {
	return e.Err
}

func hasCode(err error, code SyncErrorCode) bool {
	var se *SyncError
	if errors.As(err, &se) {
		return se.Code == code
	}
	return false
}

// IsSourceNotConfigured returns true if err reports an unconfigured source system.
func IsSourceNotConfigured(err error) bool {
	return hasCode(err, ErrCodeSourceNotConfigured)
}

// IsUnknownSystem returns true if err reports an unregistered system ID.
func IsUnknownSystem(err error) bool {
	return hasCode(err, ErrCodeUnknownSystem)
}
