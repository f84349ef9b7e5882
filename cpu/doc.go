// Package cpu implements the MIPS32 integer processor for umips.
//
// The CPU consists of 32 general purpose registers ($zero hard-wired to 0),
// the program counter, the HI/LO multiply/divide pair, and the coprocessor 0
// registers needed for exception delivery (BadVAddr, Status, Cause, EPC).
//
// Each Tick fetches, decodes and executes one instruction. Branch and jump
// destinations are held for exactly one further instruction when delayed
// branching is enabled, so the delay slot always executes once.
package cpu
