package symbols

import "fmt"

// ContractViolation is the panic value for scope misuse by the emitter
// itself. It is never a user-facing error and must not be recovered.
type ContractViolation struct {
	Op       string
	Expected FrameID
	Actual   FrameID
}

func (e *ContractViolation) Error() string {
	if e.Actual == NoFrameID {
		return fmt.Sprintf("symbols: %s: no frame to pop (expected %d)", e.Op, e.Expected)
	}
	return fmt.Sprintf("symbols: %s: scope mismatch: expected %d, got %d", e.Op, e.Expected, e.Actual)
}
