package chip8

import (
	"fmt"

	"github.com/pkg/errors"
)

// FaultKind tags the one fatal-error family the interpreter surfaces. All
// other abnormal conditions (overflow, clipped draws, unmapped keys, 0NNN
// routines) are tolerated per spec and never produce a Fault.
type FaultKind uint8

const (
	FaultStackUnderflow FaultKind = iota
	FaultStackOverflow
	FaultInvalidInstruction
	FaultMemoryOverflow
)

func (k FaultKind) String() string {
	switch k {
	case FaultStackUnderflow:
		return "stack underflow"
	case FaultStackOverflow:
		return "stack overflow"
	case FaultInvalidInstruction:
		return "invalid instruction"
	case FaultMemoryOverflow:
		return "memory overflow"
	default:
		return "unknown fault"
	}
}

// Fault is the single fatal error type the Hardware actor can raise. It is
// wrapped with github.com/pkg/errors so a Fault that ends a run carries a
// stack trace into the panic log that cmd/run.go writes.
type Fault struct {
	Kind    FaultKind
	Message string
}

func (f *Fault) Error() string {
	return fmt.Sprintf("%s: %s", f.Kind, f.Message)
}

func newFault(kind FaultKind, format string, args ...interface{}) error {
	return errors.WithStack(&Fault{Kind: kind, Message: fmt.Sprintf(format, args...)})
}
