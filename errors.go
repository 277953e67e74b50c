package crossterm

import (
	"errors"
	"fmt"
)

var (
	// ErrHandleUnavailable indicates the OS reported an invalid or missing
	// console handle for the process's standard streams.
	ErrHandleUnavailable = errors.New("crossterm: console handle unavailable")

	// ErrInvalidCoordinate indicates a cursor or fill coordinate outside the
	// representable range. The OS call is never issued.
	ErrInvalidCoordinate = errors.New("crossterm: coordinate out of range")

	// ErrUnknownChangeID indicates a lookup for a ChangeID that was never
	// issued by this Context. This is caller misuse, not an OS condition.
	ErrUnknownChangeID = errors.New("crossterm: unknown change id")

	// ErrNoActiveSurface indicates the Context has no resolved screen target.
	// This should not occur after NewContext succeeds.
	ErrNoActiveSurface = errors.New("crossterm: no active screen surface")

	// ErrNoSnapshot indicates an undo was attempted on a mode command that
	// never captured a snapshot (it was never successfully executed).
	ErrNoSnapshot = errors.New("crossterm: no mode snapshot to restore")
)

// OSCallError wraps a failed OS console call with the operation name.
type OSCallError struct {
	Op  string // OS operation, e.g. "SetConsoleMode" or "tcsetattr"
	Err error
}

func (e *OSCallError) Error() string {
	return fmt.Sprintf("crossterm: %s: %v", e.Op, e.Err)
}

func (e *OSCallError) Unwrap() error { return e.Err }

// osCall wraps err as an OSCallError, or returns nil if err is nil.
func osCall(op string, err error) error {
	if err == nil {
		return nil
	}
	return &OSCallError{Op: op, Err: err}
}
