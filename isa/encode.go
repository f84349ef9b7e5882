package isa

// Instruction is a decoded machine instruction. Only the fields named by the
// instruction's Syntax are meaningful; the rest are zero.
type Instruction struct {
	Op     Op
	Rs     uint8
	Rt     uint8
	Rd     uint8  // Also the coprocessor 0 register for mfc0/mtc0.
	Shamt  uint8
	Imm    int32  // Sign- or zero-extended per Spec.Imm; word offset for branches.
	Target uint32 // 26-bit word index for j/jal.
	Code   uint32 // syscall/break (20 bits), traps (10 bits).
}

// Spec returns the instruction table entry, or nil for an invalid Op.
func (inst Instruction) Spec() *Spec {
	spec, _ := Lookup(inst.Op)
	return spec
}

// BranchTarget returns the destination of a branch located at pc.
func (inst Instruction) BranchTarget(pc uint32) uint32 {
	return pc + 4 + uint32(inst.Imm<<2)
}

// JumpTarget returns the destination of a j/jal located at pc.
func (inst Instruction) JumpTarget(pc uint32) uint32 {
	return ((pc + 4) & 0xf0000000) | (inst.Target << 2)
}

// mirrorsRd is set for clz/clo, which must carry rd in the rt field too.
func (s *Spec) mirrorsRd() bool {
	return s.Format == FORMAT_SPECIAL2 && s.Syntax == SYNTAX_RD_RS
}

func (s *Spec) used() (mask uint32) {
	mask = s.Syntax.usedMask()
	if s.mirrorsRd() {
		mask |= MASK_RT
	}
	return
}

func checkField(name string, value int64, min int64, max int64) (err error) {
	if value < min || value > max {
		err = &ErrFieldRange{Field: name, Value: value, Min: min, Max: max}
	}
	return
}

// Encode packs an instruction into its machine word.
func Encode(inst Instruction) (word uint32, err error) {
	spec, ok := Lookup(inst.Op)
	if !ok {
		err = &ErrOp{Op: inst.Op}
		return
	}

	word = spec.Fixed()
	uses := spec.Syntax.Fields()

	if uses&FIELD_RS != 0 {
		if err = checkField("rs", int64(inst.Rs), 0, 31); err != nil {
			return
		}
		word |= uint32(inst.Rs) << 21
	}
	if uses&FIELD_RT != 0 {
		if err = checkField("rt", int64(inst.Rt), 0, 31); err != nil {
			return
		}
		word |= uint32(inst.Rt) << 16
	}
	if uses&FIELD_RD != 0 {
		if err = checkField("rd", int64(inst.Rd), 0, 31); err != nil {
			return
		}
		word |= uint32(inst.Rd) << 11
		if spec.mirrorsRd() {
			word |= uint32(inst.Rd) << 16
		}
	}
	if uses&FIELD_SHAMT != 0 {
		if err = checkField("sa", int64(inst.Shamt), 0, 31); err != nil {
			return
		}
		word |= uint32(inst.Shamt) << 6
	}
	if uses&FIELD_IMM != 0 {
		switch spec.Imm {
		case IMM_UNSIGNED:
			err = checkField("imm", int64(inst.Imm), 0, 0xffff)
		default:
			err = checkField("imm", int64(inst.Imm), -0x8000, 0x7fff)
		}
		if err != nil {
			return
		}
		word |= uint32(inst.Imm) & MASK_IMM
	}
	if uses&FIELD_TARGET != 0 {
		if err = checkField("target", int64(inst.Target), 0, int64(MASK_TARGET)); err != nil {
			return
		}
		word |= inst.Target
	}
	if uses&FIELD_CODE != 0 {
		code := spec.Syntax.codeMask()
		if err = checkField("code", int64(inst.Code), 0, int64(code>>6)); err != nil {
			return
		}
		word |= inst.Code << 6
	}

	return
}

// Decode unpacks a machine word. Words whose fixed bits do not exactly match
// a table entry are rejected with ErrInvalidOpcode.
func Decode(word uint32) (inst Instruction, err error) {
	opcode := word >> 26

	var op Op
	switch opcode {
	case OPCODE_SPECIAL:
		op = decodeSpecial[word&MASK_FUNCT]
	case OPCODE_SPECIAL2:
		op = decodeSpecial2[word&MASK_FUNCT]
	case OPCODE_REGIMM:
		op = decodeRegimm[(word>>16)&0x1f]
	case OPCODE_COP0:
		op = decodeCop0[(word>>21)&0x1f]
	default:
		op = decodePrimary[opcode]
	}

	if op == OP_INVALID {
		err = &ErrDecode{Word: word}
		return
	}

	spec := &specTable[op]
	if word&^spec.used() != spec.Fixed() {
		err = &ErrDecode{Word: word}
		return
	}

	rs := uint8((word >> 21) & 0x1f)
	rt := uint8((word >> 16) & 0x1f)
	rd := uint8((word >> 11) & 0x1f)

	if spec.mirrorsRd() && rt != rd {
		err = &ErrDecode{Word: word}
		return
	}

	inst.Op = op
	uses := spec.Syntax.Fields()
	if uses&FIELD_RS != 0 {
		inst.Rs = rs
	}
	if uses&FIELD_RT != 0 {
		inst.Rt = rt
	}
	if uses&FIELD_RD != 0 {
		inst.Rd = rd
	}
	if uses&FIELD_SHAMT != 0 {
		inst.Shamt = uint8((word >> 6) & 0x1f)
	}
	if uses&FIELD_IMM != 0 {
		if spec.Imm == IMM_UNSIGNED {
			inst.Imm = int32(word & MASK_IMM)
		} else {
			inst.Imm = int32(int16(word & MASK_IMM))
		}
	}
	if uses&FIELD_TARGET != 0 {
		inst.Target = word & MASK_TARGET
	}
	if uses&FIELD_CODE != 0 {
		inst.Code = (word & spec.Syntax.codeMask()) >> 6
	}

	return
}
