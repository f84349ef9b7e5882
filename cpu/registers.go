package cpu

import (
	"fmt"
	"strings"

	"github.com/ezrec/umips/isa"
)

// Status register bits.
const (
	STATUS_IE    = uint32(1 << 0) // Interrupt enable.
	STATUS_EXL   = uint32(1 << 1) // Exception level; set while in the handler.
	STATUS_UM    = uint32(1 << 4) // User mode.
	STATUS_RESET = uint32(0x0000ff11)
)

// Cause register bits.
const (
	CAUSE_BD            = uint32(1 << 31) // Exception taken in a delay slot.
	CAUSE_EXCCODE_SHIFT = 2
	CAUSE_EXCCODE_MASK  = uint32(0x1f << CAUSE_EXCCODE_SHIFT)
)

// Indices accepted by Registers.Read beyond the 32 GPRs.
const (
	REGISTER_PC       = 32
	REGISTER_HI       = 33
	REGISTER_LO       = 34
	REGISTER_BADVADDR = 35
	REGISTER_STATUS   = 36
	REGISTER_CAUSE    = 37
	REGISTER_EPC      = 38
	REGISTER_COUNT    = 39
)

// Registers is the architectural register file.
type Registers struct {
	GPR [32]uint32 // General purpose registers; GPR[0] always reads 0.
	PC  uint32
	HI  uint32
	LO  uint32
	CP0 [32]uint32 // Coprocessor 0 registers.
}

// Get a general purpose register.
func (r *Registers) Get(reg uint8) uint32 {
	return r.GPR[reg&31]
}

// Set a general purpose register. Writes to $zero are discarded.
func (r *Registers) Set(reg uint8, value uint32) {
	reg &= 31
	if reg != isa.REG_ZERO {
		r.GPR[reg] = value
	}
}

// Kernel is true while the processor is at exception level.
func (r *Registers) Kernel() bool {
	return r.CP0[isa.CP0_STATUS]&STATUS_EXL != 0
}

// Read returns a register by index: 0..31 are the GPRs, followed by
// REGISTER_PC and friends.
func (r *Registers) Read(index int) (value uint32, err error) {
	switch {
	case index >= 0 && index < 32:
		value = r.GPR[index]
	case index == REGISTER_PC:
		value = r.PC
	case index == REGISTER_HI:
		value = r.HI
	case index == REGISTER_LO:
		value = r.LO
	case index == REGISTER_BADVADDR:
		value = r.CP0[isa.CP0_BADVADDR]
	case index == REGISTER_STATUS:
		value = r.CP0[isa.CP0_STATUS]
	case index == REGISTER_CAUSE:
		value = r.CP0[isa.CP0_CAUSE]
	case index == REGISTER_EPC:
		value = r.CP0[isa.CP0_EPC]
	default:
		err = ErrRegisterIndex(index)
	}
	return
}

// RegisterIndex parses a register name as accepted by Read: "$t0", "$8",
// "pc", "hi", "lo", "badvaddr", "status", "cause" or "epc".
func RegisterIndex(name string) (index int, err error) {
	switch strings.ToLower(strings.TrimPrefix(name, "$")) {
	case "pc":
		return REGISTER_PC, nil
	case "hi":
		return REGISTER_HI, nil
	case "lo":
		return REGISTER_LO, nil
	case "badvaddr":
		return REGISTER_BADVADDR, nil
	case "status":
		return REGISTER_STATUS, nil
	case "cause":
		return REGISTER_CAUSE, nil
	case "epc":
		return REGISTER_EPC, nil
	}

	if !strings.HasPrefix(name, "$") {
		name = "$" + name
	}
	reg, err := isa.Register(name, false)
	if err != nil {
		err = ErrRegisterName(name)
		return
	}
	index = int(reg)
	return
}

// String returns the register file as text, four registers per line.
func (r *Registers) String() (text string) {
	var sb strings.Builder
	for n := range 32 {
		fmt.Fprintf(&sb, "%5s: %08x", isa.RegisterName(uint8(n)), r.GPR[n])
		if n%4 == 3 {
			sb.WriteString("\n")
		} else {
			sb.WriteString("  ")
		}
	}
	fmt.Fprintf(&sb, "%5s: %08x  %5s: %08x  %5s: %08x\n", "pc", r.PC, "hi", r.HI, "lo", r.LO)
	fmt.Fprintf(&sb, "%5s: %08x  %5s: %08x  %5s: %08x  %5s: %08x\n",
		"vaddr", r.CP0[isa.CP0_BADVADDR],
		"sr", r.CP0[isa.CP0_STATUS],
		"cause", r.CP0[isa.CP0_CAUSE],
		"epc", r.CP0[isa.CP0_EPC])
	text = sb.String()
	return
}
