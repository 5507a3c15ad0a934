package emit

import "fmt"

// WriterID identifies a pushed writer frame.
type WriterID uint32

// ContractViolation is the panic value for writer stack misuse.
type ContractViolation struct {
	Op       string
	Expected WriterID
	Actual   WriterID
}

func (e *ContractViolation) Error() string {
	if e.Actual == 0 {
		return fmt.Sprintf("emit: %s: writer stack is empty (expected %d)", e.Op, e.Expected)
	}
	return fmt.Sprintf("emit: %s: writer mismatch: expected %d, got %d", e.Op, e.Expected, e.Actual)
}
