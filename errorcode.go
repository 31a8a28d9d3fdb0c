package parcels

import "fmt"

// ErrorCode is the closed enumeration of per-particle post-step states
// driving the executor's recovery state machine (spec §4.6, §7).
type ErrorCode int32

const (
	// Success is the state of a particle that completed its step
	// normally; it is the zero value so a freshly constructed particle
	// starts "live".
	Success ErrorCode = iota
	// Repeat asks the executor to re-run the step without advancing
	// p.time, e.g. AdvectionRK45 halving its step after an error estimate
	// exceeds tolerance.
	Repeat
	// Delete marks a particle for removal at the next sweep boundary.
	Delete
	// ErrorOutOfBounds records that a field sample fell outside the grid
	// domain; routed through the recovery map unless overridden.
	ErrorOutOfBounds
	// Error records any other kernel failure; routed through the recovery
	// map unless overridden.
	Error
)

func (e ErrorCode) String() string {
	switch e {
	case Success:
		return "Success"
	case Repeat:
		return "Repeat"
	case Delete:
		return "Delete"
	case ErrorOutOfBounds:
		return "ErrorOutOfBounds"
	case Error:
		return "Error"
	default:
		return fmt.Sprintf("ErrorCode(%d)", int32(e))
	}
}

// Live reports whether e is a "live" code (Success or Repeat): the
// executor continues stepping a particle with a live code and only
// dispatches to the recovery map once it leaves the live set.
func (e ErrorCode) Live() bool { return e == Success || e == Repeat }
