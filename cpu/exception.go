package cpu

import (
	"log"

	"github.com/ezrec/umips/isa"
)

// ExcCode is the Cause.ExcCode exception number.
type ExcCode int

//go:generate go tool stringer -linecomment -type=ExcCode
const (
	EXC_INT  = ExcCode(0)  // Int
	EXC_MOD  = ExcCode(1)  // Mod
	EXC_TLBL = ExcCode(2)  // TLBL
	EXC_TLBS = ExcCode(3)  // TLBS
	EXC_ADEL = ExcCode(4)  // AdEL
	EXC_ADES = ExcCode(5)  // AdES
	EXC_IBE  = ExcCode(6)  // IBE
	EXC_DBE  = ExcCode(7)  // DBE
	EXC_SYS  = ExcCode(8)  // Sys
	EXC_BP   = ExcCode(9)  // Bp
	EXC_RI   = ExcCode(10) // RI
	EXC_CPU  = ExcCode(11) // CpU
	EXC_OV   = ExcCode(12) // Ov
	EXC_TR   = ExcCode(13) // Tr
)

// Exception is an architectural exception raised by an instruction.
type Exception struct {
	Code        ExcCode
	PC          uint32 // Address of the faulting instruction.
	BadAddr     uint32 // Faulting address, for AdEL/AdES.
	InDelaySlot bool
	TrapCode    uint32 // Code field of break, syscall and trap instructions.
	Err         error  // Underlying cause.
}

func (exc *Exception) Error() string {
	if exc.Err != nil {
		return f("%v exception at %#08x: %v", exc.Code, exc.PC, exc.Err)
	}
	return f("%v exception at %#08x", exc.Code, exc.PC)
}

func (exc *Exception) Unwrap() error {
	return exc.Err
}

// Raise builds an exception for the instruction at the current PC.
func (cpu *Cpu) Raise(code ExcCode, err error) *Exception {
	return &Exception{
		Code:        code,
		PC:          cpu.PC,
		InDelaySlot: cpu.pending,
		Err:         err,
	}
}

// Deliver installs an exception into coprocessor 0 and transfers control
// to the exception handler. Any pending branch is cancelled.
func (cpu *Cpu) Deliver(exc *Exception, handler uint32) {
	if cpu.Verbose {
		log.Printf("cpu: deliver %v at %#08x to %#08x", exc.Code, exc.PC, handler)
	}

	epc := exc.PC
	cause := (uint32(exc.Code) << CAUSE_EXCCODE_SHIFT) & CAUSE_EXCCODE_MASK
	if exc.InDelaySlot {
		epc -= 4
		cause |= CAUSE_BD
	}

	cpu.CP0[isa.CP0_EPC] = epc
	cpu.CP0[isa.CP0_CAUSE] = cause
	if exc.Code == EXC_ADEL || exc.Code == EXC_ADES {
		cpu.CP0[isa.CP0_BADVADDR] = exc.BadAddr
	}
	cpu.CP0[isa.CP0_STATUS] |= STATUS_EXL

	cpu.pending = false
	cpu.llBit = false
	cpu.PC = handler
}
