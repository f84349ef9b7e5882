package isa

// Format is the encoding class of an instruction.
type Format int

//go:generate go tool stringer -linecomment -type=Format
const (
	FORMAT_R        = Format(0) // R
	FORMAT_I        = Format(1) // I
	FORMAT_J        = Format(2) // J
	FORMAT_REGIMM   = Format(3) // REGIMM
	FORMAT_COP0     = Format(4) // COP0
	FORMAT_SPECIAL2 = Format(5) // SPECIAL2
)

// Syntax is the source operand layout of an instruction.
type Syntax int

//go:generate go tool stringer -linecomment -type=Syntax
const (
	SYNTAX_NONE        = Syntax(0)  // none
	SYNTAX_RD_RS_RT    = Syntax(1)  // rd,rs,rt
	SYNTAX_RD_RT_RS    = Syntax(2)  // rd,rt,rs
	SYNTAX_RD_RT_SA    = Syntax(3)  // rd,rt,sa
	SYNTAX_RS_RT       = Syntax(4)  // rs,rt
	SYNTAX_RS_RT_CODE  = Syntax(5)  // rs,rt,code
	SYNTAX_RD          = Syntax(6)  // rd
	SYNTAX_RS          = Syntax(7)  // rs
	SYNTAX_RD_RS       = Syntax(8)  // rd,rs
	SYNTAX_CODE        = Syntax(9)  // code
	SYNTAX_RT_RS_IMM   = Syntax(10) // rt,rs,imm
	SYNTAX_RT_IMM      = Syntax(11) // rt,imm
	SYNTAX_RT_MEM      = Syntax(12) // rt,imm(rs)
	SYNTAX_RS_RT_LABEL = Syntax(13) // rs,rt,label
	SYNTAX_RS_LABEL    = Syntax(14) // rs,label
	SYNTAX_RS_IMM      = Syntax(15) // rs,imm
	SYNTAX_LABEL       = Syntax(16) // label
	SYNTAX_RT_CP0      = Syntax(17) // rt,cp0
)

// ImmKind is the interpretation of an instruction's immediate field.
type ImmKind int

const (
	IMM_NONE     = ImmKind(0) // No immediate.
	IMM_SIGNED   = ImmKind(1) // 16-bit, sign-extended.
	IMM_UNSIGNED = ImmKind(2) // 16-bit, zero-extended.
	IMM_BRANCH   = ImmKind(3) // 16-bit signed word offset from the delay slot.
	IMM_JUMP     = ImmKind(4) // 26-bit word index within the 256MiB region.
)

// Field bit masks of the instruction word.
const (
	MASK_OPCODE = uint32(0xfc000000)
	MASK_RS     = uint32(0x03e00000)
	MASK_RT     = uint32(0x001f0000)
	MASK_RD     = uint32(0x0000f800)
	MASK_SHAMT  = uint32(0x000007c0)
	MASK_FUNCT  = uint32(0x0000003f)
	MASK_IMM    = uint32(0x0000ffff)
	MASK_TARGET = uint32(0x03ffffff)
	MASK_CODE20 = uint32(0x03ffffc0)
	MASK_CODE10 = uint32(0x0000ffc0)
)

// Operand fields of the instruction word.
const (
	FIELD_RS     = 1 << iota // rs
	FIELD_RT                 // rt
	FIELD_RD                 // rd (or cp0 register)
	FIELD_SHAMT              // shift amount
	FIELD_IMM                // 16-bit immediate
	FIELD_TARGET             // 26-bit jump index
	FIELD_CODE               // syscall/break/trap code
)

// Fields returns the operand fields carried by this syntax.
func (s Syntax) Fields() (fields int) {
	switch s {
	case SYNTAX_NONE:
	case SYNTAX_RD_RS_RT, SYNTAX_RD_RT_RS:
		fields = FIELD_RD | FIELD_RS | FIELD_RT
	case SYNTAX_RD_RT_SA:
		fields = FIELD_RD | FIELD_RT | FIELD_SHAMT
	case SYNTAX_RS_RT:
		fields = FIELD_RS | FIELD_RT
	case SYNTAX_RS_RT_CODE:
		fields = FIELD_RS | FIELD_RT | FIELD_CODE
	case SYNTAX_RD:
		fields = FIELD_RD
	case SYNTAX_RS:
		fields = FIELD_RS
	case SYNTAX_RD_RS:
		fields = FIELD_RD | FIELD_RS
	case SYNTAX_CODE:
		fields = FIELD_CODE
	case SYNTAX_RT_RS_IMM, SYNTAX_RT_MEM, SYNTAX_RS_RT_LABEL:
		fields = FIELD_RS | FIELD_RT | FIELD_IMM
	case SYNTAX_RT_IMM:
		fields = FIELD_RT | FIELD_IMM
	case SYNTAX_RS_LABEL, SYNTAX_RS_IMM:
		fields = FIELD_RS | FIELD_IMM
	case SYNTAX_LABEL:
		fields = FIELD_TARGET
	case SYNTAX_RT_CP0:
		fields = FIELD_RT | FIELD_RD
	}
	return
}

// usedMask returns the bits of the instruction word carrying operands.
func (s Syntax) usedMask() (mask uint32) {
	fields := s.Fields()
	if fields&FIELD_RS != 0 {
		mask |= MASK_RS
	}
	if fields&FIELD_RT != 0 {
		mask |= MASK_RT
	}
	if fields&FIELD_RD != 0 {
		mask |= MASK_RD
	}
	if fields&FIELD_SHAMT != 0 {
		mask |= MASK_SHAMT
	}
	if fields&FIELD_IMM != 0 {
		mask |= MASK_IMM
	}
	if fields&FIELD_TARGET != 0 {
		mask |= MASK_TARGET
	}
	if fields&FIELD_CODE != 0 {
		mask |= s.codeMask()
	}
	return
}

// codeMask is the code field: 20 bits for syscall/break, 10 bits for traps.
func (s Syntax) codeMask() uint32 {
	if s == SYNTAX_CODE {
		return MASK_CODE20
	}
	return MASK_CODE10
}
