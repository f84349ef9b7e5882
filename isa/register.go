package isa

import (
	"strconv"
	"strings"
)

// General purpose register numbers.
const (
	REG_ZERO = 0
	REG_AT   = 1
	REG_V0   = 2
	REG_V1   = 3
	REG_A0   = 4
	REG_A1   = 5
	REG_A2   = 6
	REG_A3   = 7
	REG_T0   = 8
	REG_S0   = 16
	REG_T9   = 25
	REG_K0   = 26
	REG_K1   = 27
	REG_GP   = 28
	REG_SP   = 29
	REG_FP   = 30
	REG_RA   = 31
)

// Coprocessor 0 register numbers.
const (
	CP0_BADVADDR = 8
	CP0_STATUS   = 12
	CP0_CAUSE    = 13
	CP0_EPC      = 14
)

var registerNames = [32]string{
	"zero", "at", "v0", "v1", "a0", "a1", "a2", "a3",
	"t0", "t1", "t2", "t3", "t4", "t5", "t6", "t7",
	"s0", "s1", "s2", "s3", "s4", "s5", "s6", "s7",
	"t8", "t9", "k0", "k1", "gp", "sp", "fp", "ra",
}

var registerByName = map[string]uint8{
	"s8": REG_FP,
}

func init() {
	for n, name := range registerNames {
		registerByName[name] = uint8(n)
	}
}

// RegisterName returns the conventional name of a register, with its '$'.
func RegisterName(reg uint8) string {
	if reg >= 32 {
		return "$" + strconv.Itoa(int(reg))
	}
	return "$" + registerNames[reg]
}

// Register parses a register operand: "$t0", "$s8" or "$8".
// If numericOnly is set, only the "$8" form is accepted.
func Register(text string, numericOnly bool) (reg uint8, err error) {
	name, ok := strings.CutPrefix(text, "$")
	if !ok || len(name) == 0 {
		err = ErrRegisterInvalid
		return
	}

	if name[0] >= '0' && name[0] <= '9' {
		n, perr := strconv.ParseUint(name, 10, 8)
		if perr != nil || n >= 32 {
			err = ErrRegisterInvalid
			return
		}
		reg = uint8(n)
		return
	}

	if numericOnly {
		err = ErrRegisterInvalid
		return
	}

	reg, ok = registerByName[name]
	if !ok {
		err = ErrRegisterInvalid
	}
	return
}

// IsRegister is true if the text looks like a register operand.
func IsRegister(text string) bool {
	_, err := Register(text, false)
	return err == nil
}
