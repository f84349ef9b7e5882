// Package isa describes the MIPS32 integer instruction set used by umips.
//
// Every real instruction has exactly one entry in the instruction table,
// giving its mnemonic, encoding format, fixed opcode/function bits, and the
// operand syntax the assembler accepts. Encode packs an Instruction into a
// 32-bit word with range checks on every field, and Decode is its strict
// inverse: a word only decodes when all bits outside its operand fields match
// the table, so Encode(Decode(w)) == w for every valid word.
//
// Machine words are stored little-endian in memory.
package isa
