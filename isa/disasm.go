package isa

import (
	"fmt"
)

// String disassembles the instruction, with branch and jump targets shown
// as raw offsets.
func (inst Instruction) String() string {
	return inst.format(nil)
}

// Disassemble the instruction as located at pc, with absolute targets.
func (inst Instruction) Disassemble(pc uint32) string {
	return inst.format(&pc)
}

func (inst Instruction) format(pc *uint32) string {
	spec, ok := Lookup(inst.Op)
	if !ok {
		return OP_INVALID.String()
	}

	if inst == (Instruction{Op: OP_SLL}) {
		return "nop"
	}

	name := spec.Mnemonic()
	rs := RegisterName(inst.Rs)
	rt := RegisterName(inst.Rt)
	rd := RegisterName(inst.Rd)

	imm := fmt.Sprintf("%d", inst.Imm)
	if spec.Imm == IMM_UNSIGNED {
		imm = fmt.Sprintf("0x%04x", inst.Imm)
	}

	label := fmt.Sprintf("%d", inst.Imm)
	if spec.Imm == IMM_JUMP {
		label = fmt.Sprintf("0x%07x", inst.Target)
	}
	if pc != nil {
		if spec.Imm == IMM_JUMP {
			label = fmt.Sprintf("0x%08x", inst.JumpTarget(*pc))
		} else {
			label = fmt.Sprintf("0x%08x", inst.BranchTarget(*pc))
		}
	}

	switch spec.Syntax {
	case SYNTAX_NONE:
		return name
	case SYNTAX_RD_RS_RT:
		return fmt.Sprintf("%s %s, %s, %s", name, rd, rs, rt)
	case SYNTAX_RD_RT_RS:
		return fmt.Sprintf("%s %s, %s, %s", name, rd, rt, rs)
	case SYNTAX_RD_RT_SA:
		return fmt.Sprintf("%s %s, %s, %d", name, rd, rt, inst.Shamt)
	case SYNTAX_RS_RT:
		return fmt.Sprintf("%s %s, %s", name, rs, rt)
	case SYNTAX_RS_RT_CODE:
		if inst.Code != 0 {
			return fmt.Sprintf("%s %s, %s, %d", name, rs, rt, inst.Code)
		}
		return fmt.Sprintf("%s %s, %s", name, rs, rt)
	case SYNTAX_RD:
		return fmt.Sprintf("%s %s", name, rd)
	case SYNTAX_RS:
		return fmt.Sprintf("%s %s", name, rs)
	case SYNTAX_RD_RS:
		return fmt.Sprintf("%s %s, %s", name, rd, rs)
	case SYNTAX_CODE:
		if inst.Code != 0 {
			return fmt.Sprintf("%s %d", name, inst.Code)
		}
		return name
	case SYNTAX_RT_RS_IMM:
		return fmt.Sprintf("%s %s, %s, %s", name, rt, rs, imm)
	case SYNTAX_RT_IMM:
		return fmt.Sprintf("%s %s, %s", name, rt, imm)
	case SYNTAX_RT_MEM:
		return fmt.Sprintf("%s %s, %s(%s)", name, rt, imm, rs)
	case SYNTAX_RS_RT_LABEL:
		return fmt.Sprintf("%s %s, %s, %s", name, rs, rt, label)
	case SYNTAX_RS_LABEL:
		return fmt.Sprintf("%s %s, %s", name, rs, label)
	case SYNTAX_RS_IMM:
		return fmt.Sprintf("%s %s, %s", name, rs, imm)
	case SYNTAX_LABEL:
		return fmt.Sprintf("%s %s", name, label)
	case SYNTAX_RT_CP0:
		return fmt.Sprintf("%s %s, $%d", name, rt, inst.Rd)
	}

	return name
}
