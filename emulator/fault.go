package emulator

import (
	"github.com/ezrec/umips/cpu"
)

// FaultKind is the typed reason a session faulted.
type FaultKind int

//go:generate go tool stringer -linecomment -type=FaultKind
const (
	FAULT_ADDRESS_ERROR  = FaultKind(0) // address error
	FAULT_ARITHMETIC     = FaultKind(1) // arithmetic fault
	FAULT_INVALID_OPCODE = FaultKind(2) // invalid opcode
	FAULT_SYSCALL        = FaultKind(3) // syscall error
	FAULT_TRAP           = FaultKind(4) // trap
	FAULT_BREAK          = FaultKind(5) // break
)

// faultKind maps an exception code to its fault kind.
func faultKind(code cpu.ExcCode) FaultKind {
	switch code {
	case cpu.EXC_ADEL, cpu.EXC_ADES:
		return FAULT_ADDRESS_ERROR
	case cpu.EXC_OV:
		return FAULT_ARITHMETIC
	case cpu.EXC_SYS:
		return FAULT_SYSCALL
	case cpu.EXC_TR:
		return FAULT_TRAP
	case cpu.EXC_BP:
		return FAULT_BREAK
	}
	return FAULT_INVALID_OPCODE
}

// Fault is an unhandled exception that stopped a session.
type Fault struct {
	Kind      FaultKind
	Address   uint32 // PC of the faulting instruction.
	BadAddr   uint32 // Faulting data address, for address errors.
	Code      cpu.ExcCode
	Line      int // Source line, or 0 if unknown.
	Registers cpu.Registers
	Err       error // The *cpu.Exception.
}

func (fault *Fault) Error() string {
	if fault.Kind == FAULT_ADDRESS_ERROR {
		return f("line %d: %v at %#08x (address %#08x): %v", fault.Line, fault.Kind, fault.Address, fault.BadAddr, fault.Err)
	}
	return f("line %d: %v at %#08x: %v", fault.Line, fault.Kind, fault.Address, fault.Err)
}

func (fault *Fault) Unwrap() error {
	return fault.Err
}
