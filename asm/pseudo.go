package asm

import (
	"fmt"

	"github.com/ezrec/umips/isa"
)

// proto is one real instruction of a pseudo-instruction expansion, with
// field values in source order.
type proto struct {
	Op     isa.Op
	Values []Value
}

// PseudoOp is a pseudo-instruction: a mnemonic and operand shapes that
// expand into a fixed sequence of real instructions. The expansion only
// depends on the operand shapes, never on addresses, so its size is known
// in the first pass.
type PseudoOp struct {
	Mnemonic    string
	Patterns    []Pattern
	Description string

	expand func(ops []Operand) []proto
}

// Expand the pseudo-instruction.
func (p *PseudoOp) Expand(ops []Operand) (specs []*isa.Spec, values [][]Value) {
	for _, pr := range p.expand(ops) {
		spec, _ := isa.Lookup(pr.Op)
		specs = append(specs, spec)
		values = append(values, pr.Values)
	}
	return
}

func emit(op isa.Op, values ...Value) proto {
	return proto{Op: op, Values: values}
}

var (
	zero Value = Resolved(isa.REG_ZERO)
	at   Value = Resolved(isa.REG_AT)
	ra   Value = Resolved(isa.REG_RA)
)

func reg(op Operand) Value {
	return Resolved(op.Reg)
}

func imm(value int64) Value {
	return Resolved(value)
}

func hi(value int64) Value {
	return Resolved((uint32(value) >> 16) & 0xffff)
}

func lo(value int64) Value {
	return Resolved(uint32(value) & 0xffff)
}

func hiAdjusted(value int64) Value {
	return Resolved(((uint32(value) + 0x8000) >> 16) & 0xffff)
}

func loSigned(value int64) Value {
	return Resolved(int16(uint32(value) & 0xffff))
}

func branch(op Operand) Value {
	return PendingSymbol{Name: op.Label, Addend: op.Value, Reloc: RELOC_BRANCH}
}

// loadImmediate loads a 32-bit immediate into dst.
func loadImmediate(dst Value, op Operand) []proto {
	switch op.Shape() {
	case SHAPE_POSITIVE, SHAPE_NEGATIVE:
		return []proto{emit(isa.OP_ADDIU, dst, zero, imm(op.Value))}
	case SHAPE_UNSIGNED:
		return []proto{emit(isa.OP_ORI, dst, zero, imm(op.Value))}
	}
	return []proto{
		emit(isa.OP_LUI, dst, hi(op.Value)),
		emit(isa.OP_ORI, dst, dst, lo(op.Value)),
	}
}

// loadAddress loads a label or immediate address into dst.
func loadAddress(dst Value, op Operand) []proto {
	if op.Label == "" {
		return []proto{
			emit(isa.OP_LUI, at, hi(op.Value)),
			emit(isa.OP_ORI, dst, at, lo(op.Value)),
		}
	}
	return []proto{
		emit(isa.OP_LUI, at, PendingSymbol{Name: op.Label, Addend: op.Value, Reloc: RELOC_HI}),
		emit(isa.OP_ORI, dst, at, PendingSymbol{Name: op.Label, Addend: op.Value, Reloc: RELOC_LO}),
	}
}

// addressParts splits a label or immediate address for a lui and a signed
// 16-bit offset.
func addressParts(op Operand) (high Value, low Value) {
	if op.Label == "" {
		return hiAdjusted(op.Value), loSigned(op.Value)
	}
	high = PendingSymbol{Name: op.Label, Addend: op.Value, Reloc: RELOC_HI_ADJUSTED}
	low = PendingSymbol{Name: op.Label, Addend: op.Value, Reloc: RELOC_LO}
	return
}

// withAt runs a register form with the immediate operand n loaded into $at.
func withAt(ops []Operand, n int, form func(ops []Operand) []proto) []proto {
	code := loadImmediate(at, ops[n])
	ops = append([]Operand{}, ops...)
	ops[n] = Operand{Kind: OPERAND_REGISTER, Reg: isa.REG_AT}
	return append(code, form(ops)...)
}

func alu3(op isa.Op) func(ops []Operand) []proto {
	return func(ops []Operand) []proto {
		return []proto{emit(op, reg(ops[0]), reg(ops[1]), reg(ops[2]))}
	}
}

func aluImm(op isa.Op) func(ops []Operand) []proto {
	return func(ops []Operand) []proto {
		return []proto{emit(op, reg(ops[0]), reg(ops[1]), imm(ops[2].Value))}
	}
}

func aluAt(op isa.Op) func(ops []Operand) []proto {
	return func(ops []Operand) []proto {
		return withAt(ops, 2, alu3(op))
	}
}

// compareBranch is a set-less-than into $at, then a branch on $at.
// With swap, the comparison operands are reversed.
func compareBranch(slt isa.Op, br isa.Op, swap bool) func(ops []Operand) []proto {
	return func(ops []Operand) []proto {
		a, b := reg(ops[0]), reg(ops[1])
		if swap {
			a, b = b, a
		}
		return []proto{
			emit(slt, at, a, b),
			emit(br, at, zero, branch(ops[2])),
		}
	}
}

func compareBranchImm(slti isa.Op, br isa.Op) func(ops []Operand) []proto {
	return func(ops []Operand) []proto {
		return []proto{
			emit(slti, at, reg(ops[0]), imm(ops[1].Value)),
			emit(br, at, zero, branch(ops[2])),
		}
	}
}

func compareBranchAt(slt isa.Op, br isa.Op, swap bool) func(ops []Operand) []proto {
	return func(ops []Operand) []proto {
		return withAt(ops, 1, compareBranch(slt, br, swap))
	}
}

// setNot is a set-less-than followed by an inversion of the result.
func setNot(slt isa.Op, swap bool) func(ops []Operand) []proto {
	return func(ops []Operand) []proto {
		a, b := reg(ops[1]), reg(ops[2])
		if swap {
			a, b = b, a
		}
		return []proto{
			emit(slt, reg(ops[0]), a, b),
			emit(isa.OP_XORI, reg(ops[0]), reg(ops[0]), imm(1)),
		}
	}
}

func setSwap(slt isa.Op) func(ops []Operand) []proto {
	return func(ops []Operand) []proto {
		return []proto{emit(slt, reg(ops[0]), reg(ops[2]), reg(ops[1]))}
	}
}

// divide is a three operand divide, trapping on a zero divisor.
func divide(div isa.Op, move isa.Op) func(ops []Operand) []proto {
	return func(ops []Operand) []proto {
		return []proto{
			emit(isa.OP_TEQ, reg(ops[2]), zero, imm(7)),
			emit(div, reg(ops[1]), reg(ops[2])),
			emit(move, reg(ops[0])),
		}
	}
}

func multiplyImm(op isa.Op) func(ops []Operand) []proto {
	return func(ops []Operand) []proto {
		return withAt(ops, 1, func(ops []Operand) []proto {
			return []proto{emit(op, reg(ops[0]), reg(ops[1]))}
		})
	}
}

// memory returns the pseudo forms of a load or store.
func memory(op isa.Op) []PseudoOp {
	name := op.String()
	return []PseudoOp{
		{name, []Pattern{"r,ns"}, "absolute 16-bit address", func(ops []Operand) []proto {
			return []proto{emit(op, reg(ops[0]), imm(ops[1].Value), zero)}
		}},
		{name, []Pattern{"r,uil"}, "label or 32-bit address", func(ops []Operand) []proto {
			high, low := addressParts(ops[1])
			return []proto{
				emit(isa.OP_LUI, at, high),
				emit(op, reg(ops[0]), low, at),
			}
		}},
		{name, []Pattern{"r,M"}, "label or 32-bit offset from a register", func(ops []Operand) []proto {
			high, low := addressParts(ops[1])
			return []proto{
				emit(isa.OP_LUI, at, high),
				emit(isa.OP_ADDU, at, at, reg(ops[1])),
				emit(op, reg(ops[0]), low, at),
			}
		}},
	}
}

var pseudoTable = []PseudoOp{
	{"nop", []Pattern{""}, "no operation", func(ops []Operand) []proto {
		return []proto{emit(isa.OP_SLL, zero, zero, imm(0))}
	}},
	{"move", []Pattern{"r,r"}, "copy register", func(ops []Operand) []proto {
		return []proto{emit(isa.OP_ADDU, reg(ops[0]), zero, reg(ops[1]))}
	}},
	{"clear", []Pattern{"r"}, "clear register", func(ops []Operand) []proto {
		return []proto{emit(isa.OP_ADDU, reg(ops[0]), zero, zero)}
	}},
	{"not", []Pattern{"r,r"}, "bitwise not", func(ops []Operand) []proto {
		return []proto{emit(isa.OP_NOR, reg(ops[0]), reg(ops[1]), zero)}
	}},
	{"neg", []Pattern{"r,r"}, "negate, trap on overflow", func(ops []Operand) []proto {
		return []proto{emit(isa.OP_SUB, reg(ops[0]), zero, reg(ops[1]))}
	}},
	{"negu", []Pattern{"r,r"}, "negate", func(ops []Operand) []proto {
		return []proto{emit(isa.OP_SUBU, reg(ops[0]), zero, reg(ops[1]))}
	}},
	{"abs", []Pattern{"r,r"}, "absolute value", func(ops []Operand) []proto {
		return []proto{
			emit(isa.OP_SRA, at, reg(ops[1]), imm(31)),
			emit(isa.OP_XOR, reg(ops[0]), at, reg(ops[1])),
			emit(isa.OP_SUBU, reg(ops[0]), reg(ops[0]), at),
		}
	}},
	{"li", []Pattern{"r,nsui"}, "load immediate", func(ops []Operand) []proto {
		return loadImmediate(reg(ops[0]), ops[1])
	}},
	{"la", []Pattern{"r,nsuil"}, "load address", func(ops []Operand) []proto {
		if ops[1].Kind == OPERAND_IMMEDIATE {
			return loadImmediate(reg(ops[0]), ops[1])
		}
		return loadAddress(reg(ops[0]), ops[1])
	}},
	{"la", []Pattern{"r,m"}, "load address of offset from a register", func(ops []Operand) []proto {
		return []proto{emit(isa.OP_ADDIU, reg(ops[0]), reg(ops[1]), imm(ops[1].Value))}
	}},
	{"la", []Pattern{"r,M"}, "load address of label or 32-bit offset from a register", func(ops []Operand) []proto {
		return append(loadAddress(at, ops[1]), emit(isa.OP_ADDU, reg(ops[0]), at, reg(ops[1])))
	}},

	{"b", []Pattern{"l"}, "branch", func(ops []Operand) []proto {
		return []proto{emit(isa.OP_BEQ, zero, zero, branch(ops[0]))}
	}},
	{"bal", []Pattern{"l"}, "branch and link", func(ops []Operand) []proto {
		return []proto{emit(isa.OP_BGEZAL, zero, branch(ops[0]))}
	}},
	{"beqz", []Pattern{"r,l"}, "branch if zero", func(ops []Operand) []proto {
		return []proto{emit(isa.OP_BEQ, reg(ops[0]), zero, branch(ops[1]))}
	}},
	{"bnez", []Pattern{"r,l"}, "branch if not zero", func(ops []Operand) []proto {
		return []proto{emit(isa.OP_BNE, reg(ops[0]), zero, branch(ops[1]))}
	}},
	{"beq", []Pattern{"r,nsui,l"}, "branch if equal to immediate", func(ops []Operand) []proto {
		return withAt(ops, 1, func(ops []Operand) []proto {
			return []proto{emit(isa.OP_BEQ, reg(ops[0]), reg(ops[1]), branch(ops[2]))}
		})
	}},
	{"bne", []Pattern{"r,nsui,l"}, "branch if not equal to immediate", func(ops []Operand) []proto {
		return withAt(ops, 1, func(ops []Operand) []proto {
			return []proto{emit(isa.OP_BNE, reg(ops[0]), reg(ops[1]), branch(ops[2]))}
		})
	}},

	{"blt", []Pattern{"r,r,l"}, "branch if less than", compareBranch(isa.OP_SLT, isa.OP_BNE, false)},
	{"blt", []Pattern{"r,ns,l"}, "branch if less than immediate", compareBranchImm(isa.OP_SLTI, isa.OP_BNE)},
	{"blt", []Pattern{"r,ui,l"}, "branch if less than immediate", compareBranchAt(isa.OP_SLT, isa.OP_BNE, false)},
	{"bltu", []Pattern{"r,r,l"}, "branch if less than unsigned", compareBranch(isa.OP_SLTU, isa.OP_BNE, false)},
	{"bltu", []Pattern{"r,ns,l"}, "branch if less than unsigned immediate", compareBranchImm(isa.OP_SLTIU, isa.OP_BNE)},
	{"bltu", []Pattern{"r,ui,l"}, "branch if less than unsigned immediate", compareBranchAt(isa.OP_SLTU, isa.OP_BNE, false)},
	{"bge", []Pattern{"r,r,l"}, "branch if greater or equal", compareBranch(isa.OP_SLT, isa.OP_BEQ, false)},
	{"bge", []Pattern{"r,ns,l"}, "branch if greater or equal to immediate", compareBranchImm(isa.OP_SLTI, isa.OP_BEQ)},
	{"bge", []Pattern{"r,ui,l"}, "branch if greater or equal to immediate", compareBranchAt(isa.OP_SLT, isa.OP_BEQ, false)},
	{"bgeu", []Pattern{"r,r,l"}, "branch if greater or equal unsigned", compareBranch(isa.OP_SLTU, isa.OP_BEQ, false)},
	{"bgeu", []Pattern{"r,ns,l"}, "branch if greater or equal to unsigned immediate", compareBranchImm(isa.OP_SLTIU, isa.OP_BEQ)},
	{"bgeu", []Pattern{"r,ui,l"}, "branch if greater or equal to unsigned immediate", compareBranchAt(isa.OP_SLTU, isa.OP_BEQ, false)},
	{"bgt", []Pattern{"r,r,l"}, "branch if greater than", compareBranch(isa.OP_SLT, isa.OP_BNE, true)},
	{"bgt", []Pattern{"r,nsui,l"}, "branch if greater than immediate", compareBranchAt(isa.OP_SLT, isa.OP_BNE, true)},
	{"bgtu", []Pattern{"r,r,l"}, "branch if greater than unsigned", compareBranch(isa.OP_SLTU, isa.OP_BNE, true)},
	{"bgtu", []Pattern{"r,nsui,l"}, "branch if greater than unsigned immediate", compareBranchAt(isa.OP_SLTU, isa.OP_BNE, true)},
	{"ble", []Pattern{"r,r,l"}, "branch if less or equal", compareBranch(isa.OP_SLT, isa.OP_BEQ, true)},
	{"ble", []Pattern{"r,nsui,l"}, "branch if less or equal to immediate", compareBranchAt(isa.OP_SLT, isa.OP_BEQ, true)},
	{"bleu", []Pattern{"r,r,l"}, "branch if less or equal unsigned", compareBranch(isa.OP_SLTU, isa.OP_BEQ, true)},
	{"bleu", []Pattern{"r,nsui,l"}, "branch if less or equal to unsigned immediate", compareBranchAt(isa.OP_SLTU, isa.OP_BEQ, true)},

	{"seq", []Pattern{"r,r,r"}, "set if equal", func(ops []Operand) []proto {
		return []proto{
			emit(isa.OP_SUBU, reg(ops[0]), reg(ops[1]), reg(ops[2])),
			emit(isa.OP_SLTIU, reg(ops[0]), reg(ops[0]), imm(1)),
		}
	}},
	{"sne", []Pattern{"r,r,r"}, "set if not equal", func(ops []Operand) []proto {
		return []proto{
			emit(isa.OP_SUBU, reg(ops[0]), reg(ops[1]), reg(ops[2])),
			emit(isa.OP_SLTU, reg(ops[0]), zero, reg(ops[0])),
		}
	}},
	{"sgt", []Pattern{"r,r,r"}, "set if greater than", setSwap(isa.OP_SLT)},
	{"sgtu", []Pattern{"r,r,r"}, "set if greater than unsigned", setSwap(isa.OP_SLTU)},
	{"sge", []Pattern{"r,r,r"}, "set if greater or equal", setNot(isa.OP_SLT, false)},
	{"sgeu", []Pattern{"r,r,r"}, "set if greater or equal unsigned", setNot(isa.OP_SLTU, false)},
	{"sle", []Pattern{"r,r,r"}, "set if less or equal", setNot(isa.OP_SLT, true)},
	{"sleu", []Pattern{"r,r,r"}, "set if less or equal unsigned", setNot(isa.OP_SLTU, true)},

	{"mulu", []Pattern{"r,r,r"}, "multiply unsigned to register", func(ops []Operand) []proto {
		return []proto{
			emit(isa.OP_MULTU, reg(ops[1]), reg(ops[2])),
			emit(isa.OP_MFLO, reg(ops[0])),
		}
	}},
	{"div", []Pattern{"r,r,r"}, "divide to register, trap on zero divisor", divide(isa.OP_DIV, isa.OP_MFLO)},
	{"divu", []Pattern{"r,r,r"}, "divide unsigned to register, trap on zero divisor", divide(isa.OP_DIVU, isa.OP_MFLO)},
	{"rem", []Pattern{"r,r,r"}, "remainder, trap on zero divisor", divide(isa.OP_DIV, isa.OP_MFHI)},
	{"remu", []Pattern{"r,r,r"}, "remainder unsigned, trap on zero divisor", divide(isa.OP_DIVU, isa.OP_MFHI)},
	{"mult", []Pattern{"r,nsui"}, "multiply by immediate", multiplyImm(isa.OP_MULT)},
	{"multu", []Pattern{"r,nsui"}, "multiply unsigned by immediate", multiplyImm(isa.OP_MULTU)},
	{"div", []Pattern{"r,nsui"}, "divide by immediate", multiplyImm(isa.OP_DIV)},
	{"divu", []Pattern{"r,nsui"}, "divide unsigned by immediate", multiplyImm(isa.OP_DIVU)},

	{"rol", []Pattern{"r,r,r"}, "rotate left", func(ops []Operand) []proto {
		return []proto{
			emit(isa.OP_SUBU, at, zero, reg(ops[2])),
			emit(isa.OP_SRLV, at, reg(ops[1]), at),
			emit(isa.OP_SLLV, reg(ops[0]), reg(ops[1]), reg(ops[2])),
			emit(isa.OP_OR, reg(ops[0]), reg(ops[0]), at),
		}
	}},
	{"rol", []Pattern{"r,r,n"}, "rotate left by immediate", func(ops []Operand) []proto {
		return []proto{
			emit(isa.OP_SRL, at, reg(ops[1]), imm((32-ops[2].Value)&31)),
			emit(isa.OP_SLL, reg(ops[0]), reg(ops[1]), imm(ops[2].Value)),
			emit(isa.OP_OR, reg(ops[0]), reg(ops[0]), at),
		}
	}},
	{"ror", []Pattern{"r,r,r"}, "rotate right", func(ops []Operand) []proto {
		return []proto{
			emit(isa.OP_SUBU, at, zero, reg(ops[2])),
			emit(isa.OP_SLLV, at, reg(ops[1]), at),
			emit(isa.OP_SRLV, reg(ops[0]), reg(ops[1]), reg(ops[2])),
			emit(isa.OP_OR, reg(ops[0]), reg(ops[0]), at),
		}
	}},
	{"ror", []Pattern{"r,r,n"}, "rotate right by immediate", func(ops []Operand) []proto {
		return []proto{
			emit(isa.OP_SLL, at, reg(ops[1]), imm((32-ops[2].Value)&31)),
			emit(isa.OP_SRL, reg(ops[0]), reg(ops[1]), imm(ops[2].Value)),
			emit(isa.OP_OR, reg(ops[0]), reg(ops[0]), at),
		}
	}},

	{"addi", []Pattern{"r,r,ui"}, "add 32-bit immediate, trap on overflow", aluAt(isa.OP_ADD)},
	{"addiu", []Pattern{"r,r,ui"}, "add 32-bit immediate", aluAt(isa.OP_ADDU)},
	{"subi", []Pattern{"r,r,nsui"}, "subtract immediate, trap on overflow", aluAt(isa.OP_SUB)},
	{"subiu", []Pattern{"r,r,nsui"}, "subtract immediate", aluAt(isa.OP_SUBU)},
	{"slti", []Pattern{"r,r,ui"}, "set less than 32-bit immediate", aluAt(isa.OP_SLT)},
	{"sltiu", []Pattern{"r,r,ui"}, "set less than unsigned 32-bit immediate", aluAt(isa.OP_SLTU)},
	{"andi", []Pattern{"r,r,si"}, "bitwise and 32-bit immediate", aluAt(isa.OP_AND)},
	{"ori", []Pattern{"r,r,si"}, "bitwise or 32-bit immediate", aluAt(isa.OP_OR)},
	{"xori", []Pattern{"r,r,si"}, "bitwise exclusive or 32-bit immediate", aluAt(isa.OP_XOR)},

	{"add", []Pattern{"r,r,ns"}, "add immediate, trap on overflow", aluImm(isa.OP_ADDI)},
	{"add", []Pattern{"r,r,ui"}, "add 32-bit immediate, trap on overflow", aluAt(isa.OP_ADD)},
	{"addu", []Pattern{"r,r,ns"}, "add immediate", aluImm(isa.OP_ADDIU)},
	{"addu", []Pattern{"r,r,ui"}, "add 32-bit immediate", aluAt(isa.OP_ADDU)},
	{"sub", []Pattern{"r,r,nsui"}, "subtract immediate, trap on overflow", aluAt(isa.OP_SUB)},
	{"subu", []Pattern{"r,r,nsui"}, "subtract immediate", aluAt(isa.OP_SUBU)},
	{"and", []Pattern{"r,r,nu"}, "bitwise and immediate", aluImm(isa.OP_ANDI)},
	{"and", []Pattern{"r,r,si"}, "bitwise and 32-bit immediate", aluAt(isa.OP_AND)},
	{"or", []Pattern{"r,r,nu"}, "bitwise or immediate", aluImm(isa.OP_ORI)},
	{"or", []Pattern{"r,r,si"}, "bitwise or 32-bit immediate", aluAt(isa.OP_OR)},
	{"xor", []Pattern{"r,r,nu"}, "bitwise exclusive or immediate", aluImm(isa.OP_XORI)},
	{"xor", []Pattern{"r,r,si"}, "bitwise exclusive or 32-bit immediate", aluAt(isa.OP_XOR)},
	{"nor", []Pattern{"r,r,nsui"}, "bitwise nor immediate", aluAt(isa.OP_NOR)},
	{"slt", []Pattern{"r,r,ns"}, "set less than immediate", aluImm(isa.OP_SLTI)},
	{"slt", []Pattern{"r,r,ui"}, "set less than 32-bit immediate", aluAt(isa.OP_SLT)},
	{"sltu", []Pattern{"r,r,ns"}, "set less than unsigned immediate", aluImm(isa.OP_SLTIU)},
	{"sltu", []Pattern{"r,r,ui"}, "set less than unsigned 32-bit immediate", aluAt(isa.OP_SLTU)},
	{"mul", []Pattern{"r,r,nsui"}, "multiply by immediate to register", aluAt(isa.OP_MUL)},
	{"seq", []Pattern{"r,r,nsui"}, "set if equal to immediate", func(ops []Operand) []proto {
		return withAt(ops, 2, func(ops []Operand) []proto {
			return []proto{
				emit(isa.OP_SUBU, reg(ops[0]), reg(ops[1]), reg(ops[2])),
				emit(isa.OP_SLTIU, reg(ops[0]), reg(ops[0]), imm(1)),
			}
		})
	}},
	{"sne", []Pattern{"r,r,nsui"}, "set if not equal to immediate", func(ops []Operand) []proto {
		return withAt(ops, 2, func(ops []Operand) []proto {
			return []proto{
				emit(isa.OP_SUBU, reg(ops[0]), reg(ops[1]), reg(ops[2])),
				emit(isa.OP_SLTU, reg(ops[0]), zero, reg(ops[0])),
			}
		})
	}},
	{"sgt", []Pattern{"r,r,nsui"}, "set if greater than immediate", func(ops []Operand) []proto {
		return withAt(ops, 2, setSwap(isa.OP_SLT))
	}},
	{"sgtu", []Pattern{"r,r,nsui"}, "set if greater than unsigned immediate", func(ops []Operand) []proto {
		return withAt(ops, 2, setSwap(isa.OP_SLTU))
	}},
	{"sge", []Pattern{"r,r,nsui"}, "set if greater or equal to immediate", func(ops []Operand) []proto {
		return withAt(ops, 2, setNot(isa.OP_SLT, false))
	}},
	{"sgeu", []Pattern{"r,r,nsui"}, "set if greater or equal to unsigned immediate", func(ops []Operand) []proto {
		return withAt(ops, 2, setNot(isa.OP_SLTU, false))
	}},
	{"sle", []Pattern{"r,r,nsui"}, "set if less or equal to immediate", func(ops []Operand) []proto {
		return withAt(ops, 2, setNot(isa.OP_SLT, true))
	}},
	{"sleu", []Pattern{"r,r,nsui"}, "set if less or equal to unsigned immediate", func(ops []Operand) []proto {
		return withAt(ops, 2, setNot(isa.OP_SLTU, true))
	}},
	{"sllv", []Pattern{"r,r,n"}, "shift left logical by immediate", aluImm(isa.OP_SLL)},
	{"srlv", []Pattern{"r,r,n"}, "shift right logical by immediate", aluImm(isa.OP_SRL)},
	{"srav", []Pattern{"r,r,n"}, "shift right arithmetic by immediate", aluImm(isa.OP_SRA)},

	{"jalr", []Pattern{"r"}, "jump and link register through $ra", func(ops []Operand) []proto {
		return []proto{emit(isa.OP_JALR, ra, reg(ops[0]))}
	}},
}

var pseudoByMnemonic = map[string][]*PseudoOp{}

// LookupPseudo finds the pseudo-instruction matching the operand shapes.
func LookupPseudo(mnemonic string, shapes string) (pseudo *PseudoOp, ok bool) {
	for _, candidate := range pseudoByMnemonic[mnemonic] {
		for _, pattern := range candidate.Patterns {
			if pattern.Match(shapes) {
				return candidate, true
			}
		}
	}
	return
}

// IsPseudo is true if the mnemonic names any pseudo-instruction.
func IsPseudo(mnemonic string) bool {
	return len(pseudoByMnemonic[mnemonic]) > 0
}

// PseudoOps returns the pseudo-instruction table.
func PseudoOps() (ops []*PseudoOp) {
	for n := range pseudoTable {
		ops = append(ops, &pseudoTable[n])
	}
	return
}

// sampleOperand builds an operand of the given shape, for table validation.
func sampleOperand(shape byte) (op Operand) {
	switch shape {
	case SHAPE_REGISTER:
		op = Operand{Kind: OPERAND_REGISTER, Reg: isa.REG_T0}
	case SHAPE_POSITIVE:
		op = Operand{Kind: OPERAND_IMMEDIATE, Value: 1}
	case SHAPE_NEGATIVE:
		op = Operand{Kind: OPERAND_IMMEDIATE, Value: -1}
	case SHAPE_UNSIGNED:
		op = Operand{Kind: OPERAND_IMMEDIATE, Value: 0x8000}
	case SHAPE_WORD:
		op = Operand{Kind: OPERAND_IMMEDIATE, Value: 0x12345}
	case SHAPE_LABEL:
		op = Operand{Kind: OPERAND_LABEL, Label: "sample"}
	case SHAPE_MEMORY:
		op = Operand{Kind: OPERAND_MEMORY, Reg: isa.REG_SP, Value: 4}
	case SHAPE_MEMORY_32:
		op = Operand{Kind: OPERAND_MEMORY, Reg: isa.REG_SP, Label: "sample"}
	}
	return
}

// validatePseudo checks every shape and every expansion of the table.
func validatePseudo(p *PseudoOp) (err error) {
	spec, hasReal := isa.ByMnemonic(p.Mnemonic)

	for _, pattern := range p.Patterns {
		if !pattern.Valid() {
			return fmt.Errorf("%v: pattern %q invalid", p.Mnemonic, pattern)
		}

		var sets []string
		if pattern != "" {
			sets = splitPattern(pattern)
		}

		// Expand one sample of every shape in every position.
		for _, ops := range sampleOperands(sets) {
			shapes := Shapes(ops)
			if hasReal {
				for _, rp := range syntaxPatterns(spec) {
					if rp.Match(shapes) {
						return fmt.Errorf("%v: pattern %q shadows a real instruction", p.Mnemonic, pattern)
					}
				}
			}
			for _, pr := range p.expand(ops) {
				used, ok := isa.Lookup(pr.Op)
				if !ok {
					return fmt.Errorf("%v: expansion uses %v", p.Mnemonic, pr.Op)
				}
				if len(pr.Values) != operandCount(used.Syntax) {
					return fmt.Errorf("%v: expansion %v has %d operands", p.Mnemonic, pr.Op, len(pr.Values))
				}
			}
		}
	}

	return
}

func splitPattern(pattern Pattern) (sets []string) {
	start := 0
	for n := 0; n <= len(pattern); n++ {
		if n == len(pattern) || pattern[n] == ',' {
			sets = append(sets, string(pattern[start:n]))
			start = n + 1
		}
	}
	return
}

func sampleOperands(sets []string) (samples [][]Operand) {
	if len(sets) == 0 {
		return [][]Operand{nil}
	}
	for _, rest := range sampleOperands(sets[1:]) {
		for _, shape := range []byte(sets[0]) {
			ops := append([]Operand{sampleOperand(shape)}, rest...)
			samples = append(samples, ops)
		}
	}
	return
}

func init() {
	for _, op := range []isa.Op{
		isa.OP_LB, isa.OP_LBU, isa.OP_LH, isa.OP_LHU, isa.OP_LW, isa.OP_LL,
		isa.OP_SB, isa.OP_SH, isa.OP_SW, isa.OP_SC,
	} {
		pseudoTable = append(pseudoTable, memory(op)...)
	}

	for n := range pseudoTable {
		p := &pseudoTable[n]
		if err := validatePseudo(p); err != nil {
			panic("asm: " + err.Error())
		}
		pseudoByMnemonic[p.Mnemonic] = append(pseudoByMnemonic[p.Mnemonic], p)
	}
}
