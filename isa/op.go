package isa

// Op identifies a real (non-pseudo) instruction.
type Op int

//go:generate go tool stringer -linecomment -type=Op
const (
	OP_INVALID = Op(iota) // invalid

	// SPECIAL
	OP_SLL     // sll
	OP_SRL     // srl
	OP_SRA     // sra
	OP_SLLV    // sllv
	OP_SRLV    // srlv
	OP_SRAV    // srav
	OP_JR      // jr
	OP_JALR    // jalr
	OP_MOVZ    // movz
	OP_MOVN    // movn
	OP_SYSCALL // syscall
	OP_BREAK   // break
	OP_MFHI    // mfhi
	OP_MTHI    // mthi
	OP_MFLO    // mflo
	OP_MTLO    // mtlo
	OP_MULT    // mult
	OP_MULTU   // multu
	OP_DIV     // div
	OP_DIVU    // divu
	OP_ADD     // add
	OP_ADDU    // addu
	OP_SUB     // sub
	OP_SUBU    // subu
	OP_AND     // and
	OP_OR      // or
	OP_XOR     // xor
	OP_NOR     // nor
	OP_SLT     // slt
	OP_SLTU    // sltu
	OP_TGE     // tge
	OP_TGEU    // tgeu
	OP_TLT     // tlt
	OP_TLTU    // tltu
	OP_TEQ     // teq
	OP_TNE     // tne

	// REGIMM
	OP_BLTZ   // bltz
	OP_BGEZ   // bgez
	OP_TGEI   // tgei
	OP_TGEIU  // tgeiu
	OP_TLTI   // tlti
	OP_TLTIU  // tltiu
	OP_TEQI   // teqi
	OP_TNEI   // tnei
	OP_BLTZAL // bltzal
	OP_BGEZAL // bgezal

	// Jumps, branches and immediates
	OP_J     // j
	OP_JAL   // jal
	OP_BEQ   // beq
	OP_BNE   // bne
	OP_BLEZ  // blez
	OP_BGTZ  // bgtz
	OP_ADDI  // addi
	OP_ADDIU // addiu
	OP_SLTI  // slti
	OP_SLTIU // sltiu
	OP_ANDI  // andi
	OP_ORI   // ori
	OP_XORI  // xori
	OP_LUI   // lui
	OP_LB    // lb
	OP_LH    // lh
	OP_LW    // lw
	OP_LBU   // lbu
	OP_LHU   // lhu
	OP_SB    // sb
	OP_SH    // sh
	OP_SW    // sw
	OP_LL    // ll
	OP_SC    // sc

	// COP0
	OP_MFC0 // mfc0
	OP_MTC0 // mtc0
	OP_ERET // eret

	// SPECIAL2
	OP_MADD  // madd
	OP_MADDU // maddu
	OP_MUL   // mul
	OP_MSUB  // msub
	OP_MSUBU // msubu
	OP_CLZ   // clz
	OP_CLO   // clo

	OP_COUNT // count
)

// Primary opcodes.
const (
	OPCODE_SPECIAL  = 0x00
	OPCODE_REGIMM   = 0x01
	OPCODE_COP0     = 0x10
	OPCODE_SPECIAL2 = 0x1c
)

// Spec is the static description of one real instruction.
type Spec struct {
	Op          Op
	Format      Format
	Opcode      uint8  // Bits 31..26.
	Funct       uint8  // Bits 5..0 (SPECIAL, SPECIAL2, COP0 eret).
	Sub         uint8  // REGIMM rt field, or COP0 rs field.
	Syntax      Syntax // Source operand order.
	Imm         ImmKind
	Description string
}

// Mnemonic of the instruction.
func (s *Spec) Mnemonic() string {
	return s.Op.String()
}

// Fixed returns the instruction word with every operand field zero.
func (s *Spec) Fixed() (word uint32) {
	word = uint32(s.Opcode) << 26
	switch s.Format {
	case FORMAT_R, FORMAT_SPECIAL2:
		word |= uint32(s.Funct)
	case FORMAT_REGIMM:
		word |= uint32(s.Sub) << 16
	case FORMAT_COP0:
		word |= uint32(s.Sub)<<21 | uint32(s.Funct)
	}
	return
}

func special(op Op, funct uint8, syntax Syntax, desc string) Spec {
	return Spec{Op: op, Format: FORMAT_R, Opcode: OPCODE_SPECIAL, Funct: funct, Syntax: syntax, Description: desc}
}

func regimm(op Op, sub uint8, syntax Syntax, imm ImmKind, desc string) Spec {
	return Spec{Op: op, Format: FORMAT_REGIMM, Opcode: OPCODE_REGIMM, Sub: sub, Syntax: syntax, Imm: imm, Description: desc}
}

func itype(op Op, opcode uint8, syntax Syntax, imm ImmKind, desc string) Spec {
	return Spec{Op: op, Format: FORMAT_I, Opcode: opcode, Syntax: syntax, Imm: imm, Description: desc}
}

func special2(op Op, funct uint8, syntax Syntax, desc string) Spec {
	return Spec{Op: op, Format: FORMAT_SPECIAL2, Opcode: OPCODE_SPECIAL2, Funct: funct, Syntax: syntax, Description: desc}
}

var specTable = [OP_COUNT]Spec{
	OP_SLL:     special(OP_SLL, 0x00, SYNTAX_RD_RT_SA, "shift left logical"),
	OP_SRL:     special(OP_SRL, 0x02, SYNTAX_RD_RT_SA, "shift right logical"),
	OP_SRA:     special(OP_SRA, 0x03, SYNTAX_RD_RT_SA, "shift right arithmetic"),
	OP_SLLV:    special(OP_SLLV, 0x04, SYNTAX_RD_RT_RS, "shift left logical variable"),
	OP_SRLV:    special(OP_SRLV, 0x06, SYNTAX_RD_RT_RS, "shift right logical variable"),
	OP_SRAV:    special(OP_SRAV, 0x07, SYNTAX_RD_RT_RS, "shift right arithmetic variable"),
	OP_JR:      special(OP_JR, 0x08, SYNTAX_RS, "jump register"),
	OP_JALR:    special(OP_JALR, 0x09, SYNTAX_RD_RS, "jump and link register"),
	OP_MOVZ:    special(OP_MOVZ, 0x0a, SYNTAX_RD_RS_RT, "move if zero"),
	OP_MOVN:    special(OP_MOVN, 0x0b, SYNTAX_RD_RS_RT, "move if not zero"),
	OP_SYSCALL: special(OP_SYSCALL, 0x0c, SYNTAX_CODE, "system call"),
	OP_BREAK:   special(OP_BREAK, 0x0d, SYNTAX_CODE, "breakpoint"),
	OP_MFHI:    special(OP_MFHI, 0x10, SYNTAX_RD, "move from HI"),
	OP_MTHI:    special(OP_MTHI, 0x11, SYNTAX_RS, "move to HI"),
	OP_MFLO:    special(OP_MFLO, 0x12, SYNTAX_RD, "move from LO"),
	OP_MTLO:    special(OP_MTLO, 0x13, SYNTAX_RS, "move to LO"),
	OP_MULT:    special(OP_MULT, 0x18, SYNTAX_RS_RT, "multiply"),
	OP_MULTU:   special(OP_MULTU, 0x19, SYNTAX_RS_RT, "multiply unsigned"),
	OP_DIV:     special(OP_DIV, 0x1a, SYNTAX_RS_RT, "divide"),
	OP_DIVU:    special(OP_DIVU, 0x1b, SYNTAX_RS_RT, "divide unsigned"),
	OP_ADD:     special(OP_ADD, 0x20, SYNTAX_RD_RS_RT, "add, trap on overflow"),
	OP_ADDU:    special(OP_ADDU, 0x21, SYNTAX_RD_RS_RT, "add unsigned"),
	OP_SUB:     special(OP_SUB, 0x22, SYNTAX_RD_RS_RT, "subtract, trap on overflow"),
	OP_SUBU:    special(OP_SUBU, 0x23, SYNTAX_RD_RS_RT, "subtract unsigned"),
	OP_AND:     special(OP_AND, 0x24, SYNTAX_RD_RS_RT, "bitwise and"),
	OP_OR:      special(OP_OR, 0x25, SYNTAX_RD_RS_RT, "bitwise or"),
	OP_XOR:     special(OP_XOR, 0x26, SYNTAX_RD_RS_RT, "bitwise exclusive or"),
	OP_NOR:     special(OP_NOR, 0x27, SYNTAX_RD_RS_RT, "bitwise nor"),
	OP_SLT:     special(OP_SLT, 0x2a, SYNTAX_RD_RS_RT, "set less than"),
	OP_SLTU:    special(OP_SLTU, 0x2b, SYNTAX_RD_RS_RT, "set less than unsigned"),
	OP_TGE:     special(OP_TGE, 0x30, SYNTAX_RS_RT_CODE, "trap if greater or equal"),
	OP_TGEU:    special(OP_TGEU, 0x31, SYNTAX_RS_RT_CODE, "trap if greater or equal unsigned"),
	OP_TLT:     special(OP_TLT, 0x32, SYNTAX_RS_RT_CODE, "trap if less than"),
	OP_TLTU:    special(OP_TLTU, 0x33, SYNTAX_RS_RT_CODE, "trap if less than unsigned"),
	OP_TEQ:     special(OP_TEQ, 0x34, SYNTAX_RS_RT_CODE, "trap if equal"),
	OP_TNE:     special(OP_TNE, 0x36, SYNTAX_RS_RT_CODE, "trap if not equal"),

	OP_BLTZ:   regimm(OP_BLTZ, 0x00, SYNTAX_RS_LABEL, IMM_BRANCH, "branch if less than zero"),
	OP_BGEZ:   regimm(OP_BGEZ, 0x01, SYNTAX_RS_LABEL, IMM_BRANCH, "branch if greater or equal to zero"),
	OP_TGEI:   regimm(OP_TGEI, 0x08, SYNTAX_RS_IMM, IMM_SIGNED, "trap if greater or equal immediate"),
	OP_TGEIU:  regimm(OP_TGEIU, 0x09, SYNTAX_RS_IMM, IMM_SIGNED, "trap if greater or equal immediate unsigned"),
	OP_TLTI:   regimm(OP_TLTI, 0x0a, SYNTAX_RS_IMM, IMM_SIGNED, "trap if less than immediate"),
	OP_TLTIU:  regimm(OP_TLTIU, 0x0b, SYNTAX_RS_IMM, IMM_SIGNED, "trap if less than immediate unsigned"),
	OP_TEQI:   regimm(OP_TEQI, 0x0c, SYNTAX_RS_IMM, IMM_SIGNED, "trap if equal immediate"),
	OP_TNEI:   regimm(OP_TNEI, 0x0e, SYNTAX_RS_IMM, IMM_SIGNED, "trap if not equal immediate"),
	OP_BLTZAL: regimm(OP_BLTZAL, 0x10, SYNTAX_RS_LABEL, IMM_BRANCH, "branch if less than zero and link"),
	OP_BGEZAL: regimm(OP_BGEZAL, 0x11, SYNTAX_RS_LABEL, IMM_BRANCH, "branch if greater or equal to zero and link"),

	OP_J:     {Op: OP_J, Format: FORMAT_J, Opcode: 0x02, Syntax: SYNTAX_LABEL, Imm: IMM_JUMP, Description: "jump"},
	OP_JAL:   {Op: OP_JAL, Format: FORMAT_J, Opcode: 0x03, Syntax: SYNTAX_LABEL, Imm: IMM_JUMP, Description: "jump and link"},
	OP_BEQ:   itype(OP_BEQ, 0x04, SYNTAX_RS_RT_LABEL, IMM_BRANCH, "branch if equal"),
	OP_BNE:   itype(OP_BNE, 0x05, SYNTAX_RS_RT_LABEL, IMM_BRANCH, "branch if not equal"),
	OP_BLEZ:  itype(OP_BLEZ, 0x06, SYNTAX_RS_LABEL, IMM_BRANCH, "branch if less or equal to zero"),
	OP_BGTZ:  itype(OP_BGTZ, 0x07, SYNTAX_RS_LABEL, IMM_BRANCH, "branch if greater than zero"),
	OP_ADDI:  itype(OP_ADDI, 0x08, SYNTAX_RT_RS_IMM, IMM_SIGNED, "add immediate, trap on overflow"),
	OP_ADDIU: itype(OP_ADDIU, 0x09, SYNTAX_RT_RS_IMM, IMM_SIGNED, "add immediate unsigned"),
	OP_SLTI:  itype(OP_SLTI, 0x0a, SYNTAX_RT_RS_IMM, IMM_SIGNED, "set less than immediate"),
	OP_SLTIU: itype(OP_SLTIU, 0x0b, SYNTAX_RT_RS_IMM, IMM_SIGNED, "set less than immediate unsigned"),
	OP_ANDI:  itype(OP_ANDI, 0x0c, SYNTAX_RT_RS_IMM, IMM_UNSIGNED, "bitwise and immediate"),
	OP_ORI:   itype(OP_ORI, 0x0d, SYNTAX_RT_RS_IMM, IMM_UNSIGNED, "bitwise or immediate"),
	OP_XORI:  itype(OP_XORI, 0x0e, SYNTAX_RT_RS_IMM, IMM_UNSIGNED, "bitwise exclusive or immediate"),
	OP_LUI:   itype(OP_LUI, 0x0f, SYNTAX_RT_IMM, IMM_UNSIGNED, "load upper immediate"),
	OP_LB:    itype(OP_LB, 0x20, SYNTAX_RT_MEM, IMM_SIGNED, "load byte"),
	OP_LH:    itype(OP_LH, 0x21, SYNTAX_RT_MEM, IMM_SIGNED, "load halfword"),
	OP_LW:    itype(OP_LW, 0x23, SYNTAX_RT_MEM, IMM_SIGNED, "load word"),
	OP_LBU:   itype(OP_LBU, 0x24, SYNTAX_RT_MEM, IMM_SIGNED, "load byte unsigned"),
	OP_LHU:   itype(OP_LHU, 0x25, SYNTAX_RT_MEM, IMM_SIGNED, "load halfword unsigned"),
	OP_SB:    itype(OP_SB, 0x28, SYNTAX_RT_MEM, IMM_SIGNED, "store byte"),
	OP_SH:    itype(OP_SH, 0x29, SYNTAX_RT_MEM, IMM_SIGNED, "store halfword"),
	OP_SW:    itype(OP_SW, 0x2b, SYNTAX_RT_MEM, IMM_SIGNED, "store word"),
	OP_LL:    itype(OP_LL, 0x30, SYNTAX_RT_MEM, IMM_SIGNED, "load linked"),
	OP_SC:    itype(OP_SC, 0x38, SYNTAX_RT_MEM, IMM_SIGNED, "store conditional"),

	OP_MFC0: {Op: OP_MFC0, Format: FORMAT_COP0, Opcode: OPCODE_COP0, Sub: 0x00, Syntax: SYNTAX_RT_CP0, Description: "move from coprocessor 0"},
	OP_MTC0: {Op: OP_MTC0, Format: FORMAT_COP0, Opcode: OPCODE_COP0, Sub: 0x04, Syntax: SYNTAX_RT_CP0, Description: "move to coprocessor 0"},
	OP_ERET: {Op: OP_ERET, Format: FORMAT_COP0, Opcode: OPCODE_COP0, Sub: 0x10, Funct: 0x18, Syntax: SYNTAX_NONE, Description: "exception return"},

	OP_MADD:  special2(OP_MADD, 0x00, SYNTAX_RS_RT, "multiply and add to HI,LO"),
	OP_MADDU: special2(OP_MADDU, 0x01, SYNTAX_RS_RT, "multiply unsigned and add to HI,LO"),
	OP_MUL:   special2(OP_MUL, 0x02, SYNTAX_RD_RS_RT, "multiply to register"),
	OP_MSUB:  special2(OP_MSUB, 0x04, SYNTAX_RS_RT, "multiply and subtract from HI,LO"),
	OP_MSUBU: special2(OP_MSUBU, 0x05, SYNTAX_RS_RT, "multiply unsigned and subtract from HI,LO"),
	OP_CLZ:   special2(OP_CLZ, 0x20, SYNTAX_RD_RS, "count leading zeros"),
	OP_CLO:   special2(OP_CLO, 0x21, SYNTAX_RD_RS, "count leading ones"),
}

// Lookup returns the instruction table entry for op.
func Lookup(op Op) (spec *Spec, ok bool) {
	if op <= OP_INVALID || op >= OP_COUNT {
		return
	}
	return &specTable[op], true
}

// ByMnemonic returns the instruction table entry for a mnemonic.
func ByMnemonic(mnemonic string) (spec *Spec, ok bool) {
	op, ok := mnemonicTable[mnemonic]
	if !ok {
		return
	}
	return &specTable[op], true
}

// Specs returns all of the instruction table entries, in Op order.
func Specs() (specs []*Spec) {
	specs = make([]*Spec, 0, OP_COUNT-1)
	for op := OP_INVALID + 1; op < OP_COUNT; op++ {
		specs = append(specs, &specTable[op])
	}
	return
}

var mnemonicTable = map[string]Op{}

// Decode lookup tables, by primary opcode and sub-field.
var (
	decodePrimary  [64]Op
	decodeSpecial  [64]Op
	decodeSpecial2 [64]Op
	decodeRegimm   [32]Op
	decodeCop0     [32]Op
)

func init() {
	for op := OP_INVALID + 1; op < OP_COUNT; op++ {
		spec := &specTable[op]
		if spec.Op != op {
			panic("isa: instruction table out of order at " + op.String())
		}
		mnemonicTable[op.String()] = op
		switch spec.Format {
		case FORMAT_R:
			decodeSpecial[spec.Funct] = op
		case FORMAT_SPECIAL2:
			decodeSpecial2[spec.Funct] = op
		case FORMAT_REGIMM:
			decodeRegimm[spec.Sub] = op
		case FORMAT_COP0:
			decodeCop0[spec.Sub] = op
		default:
			decodePrimary[spec.Opcode] = op
		}
	}
}
