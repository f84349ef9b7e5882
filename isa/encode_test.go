package isa

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncodeKnown(t *testing.T) {
	assert := assert.New(t)

	table := [...]struct {
		inst Instruction
		word uint32
		text string
	}{
		{Instruction{Op: OP_SLL}, 0x00000000, "nop"},
		{Instruction{Op: OP_ADD, Rd: 8, Rs: 9, Rt: 10}, 0x012a4020, "add $t0, $t1, $t2"},
		{Instruction{Op: OP_ADDI, Rt: 8, Rs: 9, Imm: -1}, 0x2128ffff, "addi $t0, $t1, -1"},
		{Instruction{Op: OP_ORI, Rt: 8, Rs: 0, Imm: 0xffff}, 0x3408ffff, "ori $t0, $zero, 0xffff"},
		{Instruction{Op: OP_LW, Rt: 8, Rs: 29, Imm: 4}, 0x8fa80004, "lw $t0, 4($sp)"},
		{Instruction{Op: OP_J, Target: 0x100000}, 0x08100000, "j 0x0100000"},
		{Instruction{Op: OP_SYSCALL}, 0x0000000c, "syscall"},
		{Instruction{Op: OP_BREAK, Code: 7}, 0x000001cd, "break 7"},
		{Instruction{Op: OP_ERET}, 0x42000018, "eret"},
		{Instruction{Op: OP_MUL, Rd: 8, Rs: 9, Rt: 10}, 0x712a4002, "mul $t0, $t1, $t2"},
		{Instruction{Op: OP_CLZ, Rd: 8, Rs: 9}, 0x71284020, "clz $t0, $t1"},
		{Instruction{Op: OP_TEQ, Rs: 9, Rt: 0, Code: 7}, 0x012001f4, "teq $t1, $zero, 7"},
		{Instruction{Op: OP_BLTZAL, Rs: 8, Imm: -1}, 0x0510ffff, "bltzal $t0, -1"},
		{Instruction{Op: OP_MFC0, Rt: 26, Rd: 13}, 0x401a6800, "mfc0 $k0, $13"},
		{Instruction{Op: OP_SLL, Rd: 8, Rt: 9, Shamt: 4}, 0x00094100, "sll $t0, $t1, 4"},
		{Instruction{Op: OP_JR, Rs: 31}, 0x03e00008, "jr $ra"},
	}

	for _, entry := range table {
		word, err := Encode(entry.inst)
		assert.NoError(err, entry.text)
		assert.Equal(entry.word, word, entry.text)

		inst, err := Decode(entry.word)
		assert.NoError(err, entry.text)
		assert.Equal(entry.inst, inst, entry.text)
		assert.Equal(entry.text, inst.String())
	}
}

func TestEncodeRange(t *testing.T) {
	assert := assert.New(t)

	table := [...]Instruction{
		{Op: OP_ADDI, Rt: 8, Rs: 9, Imm: 40000},
		{Op: OP_ADDI, Rt: 8, Rs: 9, Imm: -32769},
		{Op: OP_ORI, Rt: 8, Rs: 9, Imm: -1},
		{Op: OP_ORI, Rt: 8, Rs: 9, Imm: 0x10000},
		{Op: OP_SLL, Rd: 8, Rt: 9, Shamt: 32},
		{Op: OP_ADD, Rd: 32, Rs: 9, Rt: 10},
		{Op: OP_J, Target: 1 << 26},
		{Op: OP_BREAK, Code: 1 << 20},
		{Op: OP_TEQ, Code: 1 << 10},
	}

	for _, inst := range table {
		_, err := Encode(inst)
		assert.ErrorIs(err, ErrRange, inst.Op.String())
	}

	_, err := Encode(Instruction{Op: OP_COUNT})
	assert.ErrorIs(err, ErrInvalidOpcode)
}

func TestDecodeInvalid(t *testing.T) {
	assert := assert.New(t)

	table := [...]uint32{
		0xfc000000, // opcode 0x3f
		0x00000001, // SPECIAL funct 1
		0x00200000, // sll with rs set
		0x71294020, // clz with rt != rd
		0x42000019, // COP0 CO with unknown funct
		0x401a6801, // mfc0 with sel set
		0xc4000000, // lwc1
	}

	for _, word := range table {
		_, err := Decode(word)
		assert.ErrorIs(err, ErrInvalidOpcode)
		var ed *ErrDecode
		assert.True(errors.As(err, &ed))
		assert.Equal(word, ed.Word)
	}
}

// randomInstruction fills every operand field of the instruction with a random value.
func randomInstruction(rnd *rand.Rand, spec *Spec) (inst Instruction) {
	inst.Op = spec.Op
	fields := spec.Syntax.Fields()
	if fields&FIELD_RS != 0 {
		inst.Rs = uint8(rnd.Intn(32))
	}
	if fields&FIELD_RT != 0 {
		inst.Rt = uint8(rnd.Intn(32))
	}
	if fields&FIELD_RD != 0 {
		inst.Rd = uint8(rnd.Intn(32))
	}
	if fields&FIELD_SHAMT != 0 {
		inst.Shamt = uint8(rnd.Intn(32))
	}
	if fields&FIELD_IMM != 0 {
		if spec.Imm == IMM_UNSIGNED {
			inst.Imm = int32(rnd.Intn(0x10000))
		} else {
			inst.Imm = int32(rnd.Intn(0x10000)) - 0x8000
		}
	}
	if fields&FIELD_TARGET != 0 {
		inst.Target = uint32(rnd.Intn(1 << 26))
	}
	if fields&FIELD_CODE != 0 {
		inst.Code = uint32(rnd.Intn(int(spec.Syntax.codeMask()>>6) + 1))
	}
	return
}

func TestEncodeRoundTrip(t *testing.T) {
	assert := assert.New(t)

	rnd := rand.New(rand.NewSource(1))

	for _, spec := range Specs() {
		for range 64 {
			inst := randomInstruction(rnd, spec)
			word, err := Encode(inst)
			assert.NoError(err, inst.String())

			decoded, err := Decode(word)
			assert.NoError(err, inst.String())
			assert.Equal(inst, decoded)
		}
	}
}

func TestTableLookup(t *testing.T) {
	assert := assert.New(t)

	for _, spec := range Specs() {
		found, ok := ByMnemonic(spec.Mnemonic())
		assert.True(ok, spec.Mnemonic())
		assert.Equal(spec, found)
	}

	_, ok := ByMnemonic("lwl")
	assert.False(ok)

	_, ok = Lookup(OP_INVALID)
	assert.False(ok)
}

func TestTargets(t *testing.T) {
	assert := assert.New(t)

	branch := Instruction{Op: OP_BEQ, Imm: -2}
	assert.Equal(uint32(0x00400000), branch.BranchTarget(0x00400004))
	assert.Equal("beq $zero, $zero, 0x00400000", branch.Disassemble(0x00400004))

	jump := Instruction{Op: OP_J, Target: 0x100003}
	assert.Equal(uint32(0x0040000c), jump.JumpTarget(0x00400000))
	assert.Equal("j 0x0040000c", jump.Disassemble(0x00400000))
}

func FuzzDecode(f *testing.F) {
	f.Add(uint32(0))
	f.Add(uint32(0x012a4020))
	f.Add(uint32(0x42000018))
	f.Add(uint32(0xffffffff))

	f.Fuzz(func(t *testing.T, word uint32) {
		inst, err := Decode(word)
		if err != nil {
			assert.ErrorIs(t, err, ErrInvalidOpcode)
			return
		}

		encoded, err := Encode(inst)
		assert.NoError(t, err)
		assert.Equal(t, word, encoded, inst.String())
	})
}
