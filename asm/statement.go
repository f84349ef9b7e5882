package asm

import (
	"github.com/ezrec/umips/isa"
)

// Statement is one machine instruction produced by the first pass. Operands
// are field values in source order, with memory operands contributing their
// offset and then their base register.
type Statement struct {
	Spec     *isa.Spec
	Operands []Value
	Address  uint32
	File     string
	Line     int
	Source   string
}

// syntaxPatterns are the operand shapes each real instruction syntax accepts.
func syntaxPatterns(spec *isa.Spec) []Pattern {
	switch spec.Syntax {
	case isa.SYNTAX_NONE:
		return []Pattern{""}
	case isa.SYNTAX_RD_RS_RT, isa.SYNTAX_RD_RT_RS:
		return []Pattern{"r,r,r"}
	case isa.SYNTAX_RD_RT_SA:
		return []Pattern{"r,r,n"}
	case isa.SYNTAX_RS_RT, isa.SYNTAX_RD_RS, isa.SYNTAX_RT_CP0:
		return []Pattern{"r,r"}
	case isa.SYNTAX_RS_RT_CODE:
		return []Pattern{"r,r", "r,r,n"}
	case isa.SYNTAX_RD, isa.SYNTAX_RS:
		return []Pattern{"r"}
	case isa.SYNTAX_CODE:
		return []Pattern{"", "nui"}
	case isa.SYNTAX_RT_RS_IMM:
		if spec.Imm == isa.IMM_UNSIGNED {
			return []Pattern{"r,r,nu"}
		}
		return []Pattern{"r,r,ns"}
	case isa.SYNTAX_RT_IMM:
		return []Pattern{"r,nu"}
	case isa.SYNTAX_RT_MEM:
		return []Pattern{"r,m"}
	case isa.SYNTAX_RS_RT_LABEL:
		return []Pattern{"r,r,l"}
	case isa.SYNTAX_RS_LABEL:
		return []Pattern{"r,l"}
	case isa.SYNTAX_RS_IMM:
		return []Pattern{"r,ns"}
	case isa.SYNTAX_LABEL:
		return []Pattern{"l", "nui"}
	}
	return nil
}

// operandCount is the number of source-order field values of a syntax.
func operandCount(syntax isa.Syntax) int {
	switch syntax {
	case isa.SYNTAX_NONE:
		return 0
	case isa.SYNTAX_RD, isa.SYNTAX_RS, isa.SYNTAX_CODE, isa.SYNTAX_LABEL:
		return 1
	case isa.SYNTAX_RS_RT, isa.SYNTAX_RD_RS, isa.SYNTAX_RT_IMM,
		isa.SYNTAX_RS_LABEL, isa.SYNTAX_RS_IMM, isa.SYNTAX_RT_CP0:
		return 2
	}
	return 3
}

// labelReloc is the relocation for a label operand of the syntax.
func labelReloc(spec *isa.Spec) Reloc {
	if spec.Imm == isa.IMM_JUMP {
		return RELOC_JUMP
	}
	return RELOC_BRANCH
}

// realValues converts parsed operands into the field values of a real
// instruction at addr.
func realValues(spec *isa.Spec, ops []Operand, addr uint32) (values []Value, err error) {
	for _, op := range ops {
		switch op.Kind {
		case OPERAND_REGISTER:
			values = append(values, Resolved(op.Reg))
		case OPERAND_LABEL:
			values = append(values, PendingSymbol{Name: op.Label, Addend: op.Value, Reloc: labelReloc(spec)})
		case OPERAND_MEMORY:
			values = append(values, Resolved(op.Value), Resolved(op.Reg))
		case OPERAND_IMMEDIATE:
			value := op.Value
			if spec.Imm == isa.IMM_JUMP {
				value, err = relocate(RELOC_JUMP, uint32(op.Value), addr)
				if err != nil {
					return
				}
			}
			values = append(values, Resolved(value))
		}
	}

	// Optional trailing code operands default to zero.
	for len(values) < operandCount(spec.Syntax) {
		values = append(values, Resolved(0))
	}
	return
}

// build assembles the instruction fields from source-order field values.
func build(spec *isa.Spec, fields []int64) (inst isa.Instruction) {
	inst.Op = spec.Op

	reg := func(n int) uint8 {
		v := fields[n]
		if v < 0 || v > 0xff {
			return 0xff
		}
		return uint8(v)
	}

	switch spec.Syntax {
	case isa.SYNTAX_RD_RS_RT:
		inst.Rd, inst.Rs, inst.Rt = reg(0), reg(1), reg(2)
	case isa.SYNTAX_RD_RT_RS:
		inst.Rd, inst.Rt, inst.Rs = reg(0), reg(1), reg(2)
	case isa.SYNTAX_RD_RT_SA:
		inst.Rd, inst.Rt, inst.Shamt = reg(0), reg(1), reg(2)
	case isa.SYNTAX_RS_RT:
		inst.Rs, inst.Rt = reg(0), reg(1)
	case isa.SYNTAX_RS_RT_CODE:
		inst.Rs, inst.Rt, inst.Code = reg(0), reg(1), uint32(fields[2])
	case isa.SYNTAX_RD:
		inst.Rd = reg(0)
	case isa.SYNTAX_RS:
		inst.Rs = reg(0)
	case isa.SYNTAX_RD_RS:
		inst.Rd, inst.Rs = reg(0), reg(1)
	case isa.SYNTAX_CODE:
		inst.Code = uint32(fields[0])
	case isa.SYNTAX_RT_RS_IMM:
		inst.Rt, inst.Rs, inst.Imm = reg(0), reg(1), int32(fields[2])
	case isa.SYNTAX_RT_IMM:
		inst.Rt, inst.Imm = reg(0), int32(fields[1])
	case isa.SYNTAX_RT_MEM:
		inst.Rt, inst.Imm, inst.Rs = reg(0), int32(fields[1]), reg(2)
	case isa.SYNTAX_RS_RT_LABEL:
		inst.Rs, inst.Rt, inst.Imm = reg(0), reg(1), int32(fields[2])
	case isa.SYNTAX_RS_LABEL, isa.SYNTAX_RS_IMM:
		inst.Rs, inst.Imm = reg(0), int32(fields[1])
	case isa.SYNTAX_LABEL:
		inst.Target = uint32(fields[0])
	case isa.SYNTAX_RT_CP0:
		inst.Rt, inst.Rd = reg(0), reg(1)
	}

	return
}
