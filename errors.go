package vector

import (
	"errors"
	"fmt"
)

// These errors are wrapped by the errors returned from vector operations so
// callers can tell caller bugs apart from bad input:
//
//	err := vec.Load(meta, buf)
//	if errors.Is(err, vector.ErrCorruptWireData) {
//		// the sender's metadata and buffers disagree
//	}
//
// Allocation failures wrap memory.ErrAllocation.
var (
	// A precondition of the operation was broken by the caller.
	ErrContractViolation = errors.New("drill vector: contract violation")
	// Serialized data does not match its metadata.
	ErrCorruptWireData = errors.New("drill vector: corrupt wire data")
	// No vector implementation exists for the field's type.
	ErrUnsupportedType = errors.New("drill vector: unsupported type")
)

// A ContractViolation is returned, or used as a panic value on hot read and
// write paths, when a caller breaks a documented precondition.
type ContractViolation struct {
	Op     string
	Reason string
}

func (c *ContractViolation) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrContractViolation, c.Op, c.Reason)
}

func (c *ContractViolation) Unwrap() error { return ErrContractViolation }

func contractViolation(op, format string, args ...interface{}) *ContractViolation {
	return &ContractViolation{Op: op, Reason: fmt.Sprintf(format, args...)}
}

func corruptWireData(format string, args ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{ErrCorruptWireData}, args...)...)
}
