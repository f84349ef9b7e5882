package asm

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ezrec/umips/mem"
)

func textWords(prog *Program) (words []uint32) {
	for _, word := range prog.Text {
		words = append(words, word.Value)
	}
	return
}

func errorKinds(t *testing.T, err error) []ErrorKind {
	var list ErrorList
	require.ErrorAs(t, err, &list)

	kinds := make([]ErrorKind, len(list))
	for n, e := range list {
		kinds[n] = e.Kind
	}
	return kinds
}

func TestAssembler(t *testing.T) {
	assert := assert.New(t)

	asm := NewAssembler()
	prog, err := asm.AssembleString(`
main:	addi $t0, $zero, 5
	j main
`)
	require.NoError(t, err)

	assert.Equal([]uint32{0x20080005, 0x08100000}, textWords(prog))
	assert.Equal(uint32(0x00400000), prog.Text[0].Address)
	assert.Equal(uint32(0x00400004), prog.Text[1].Address)
	assert.Equal(3, prog.Text[1].Line)
	assert.Equal("j main", prog.Text[1].Source)
	assert.Equal(uint32(0x00400000), prog.Entry)
	assert.Equal(uint32(0x00400008), prog.TextEnd)

	sym, ok := prog.Symbol("main")
	assert.True(ok)
	assert.Equal(uint32(0x00400000), sym.Address)
	assert.Equal(mem.KIND_TEXT, sym.Segment)
}

func TestAssemblerForward(t *testing.T) {
	assert := assert.New(t)

	prog, err := NewAssembler().AssembleString(`
	la $t0, later
	beq $t0, $zero, later
later:	addu $v0, $t0, $t1
	beq $t0, $zero, later
`)
	require.NoError(t, err)

	assert.Equal([]uint32{
		0x3c010040, // lui $at, 0x0040
		0x3428000c, // ori $t0, $at, 0x000c
		0x11000000, // beq $t0, $zero, +0
		0x01091021, // addu $v0, $t0, $t1
		0x1100fffe, // beq $t0, $zero, -2
	}, textWords(prog))

	sym, ok := prog.Symbol("later")
	assert.True(ok)
	assert.Equal(uint32(0x0040000c), sym.Address)
	assert.Len(prog.Statements, 5)
}

func TestAssemblerPseudo(t *testing.T) {
	assert := assert.New(t)

	prog, err := NewAssembler().AssembleString(`
	li $t0, 5
	li $t0, -1
	li $t0, 0x8000
	li $t0, 0x12345678
	nop
	move $t1, $t0
`)
	require.NoError(t, err)

	assert.Equal([]uint32{
		0x24080005,
		0x2408ffff,
		0x34088000,
		0x3c081234, 0x35085678,
		0x00000000,
		0x00084821,
	}, textWords(prog))
	assert.Equal(uint32(0x0040001c), prog.TextEnd)
}

func TestAssemblerPseudoSizes(t *testing.T) {
	table := map[string]int{
		"li $t0, 1":              1,
		"li $t0, 0x10000":        2,
		"la $t0, here":           2,
		"blt $t0, $t1, here":     2,
		"bge $t0, 5, here":       2,
		"ble $t0, 0x12345, here": 4,
		"div $t0, $t1, $t2":      3,
		"lw $t0, here":           2,
		"lw $t0, here($t1)":      3,
		"addi $t0, $t1, 0x12345": 3,
		"mulu $t0, $t1, $t2":     2,
	}

	for line, words := range table {
		prog, err := NewAssembler().AssembleString("here: " + line)
		if assert.NoError(t, err, line) {
			assert.Len(t, prog.Text, words, line)
		}
	}
}

func TestAssemblerData(t *testing.T) {
	assert := assert.New(t)

	prog, err := NewAssembler().AssembleString(`
	.data
x:	.word 1, 2
y:	.byte 3
z:	.half 4
p:	.word z
s:	.asciiz "hi"
	.ascii "ok"
r:	.word 7:2
	.text
	la $t0, x
`)
	require.NoError(t, err)

	addrs := map[string]uint32{
		"x": 0x10010000,
		"y": 0x10010008,
		"z": 0x1001000a,
		"p": 0x1001000c,
		"s": 0x10010010,
		"r": 0x10010018,
	}
	for name, addr := range addrs {
		sym, ok := prog.Symbol(name)
		if assert.True(ok, name) {
			assert.Equal(addr, sym.Address, name)
			assert.Equal(mem.KIND_DATA, sym.Segment, name)
		}
	}

	assert.Equal([]Chunk{
		{Address: 0x10010000, Bytes: []byte{1, 0, 0, 0, 2, 0, 0, 0, 3}},
		{Address: 0x1001000a, Bytes: []byte{
			4, 0,
			0x0a, 0x00, 0x01, 0x10,
			'h', 'i', 0, 'o', 'k',
		}},
		{Address: 0x10010018, Bytes: []byte{7, 0, 0, 0, 7, 0, 0, 0}},
	}, prog.Data)

	assert.Equal([]uint32{0x3c011001, 0x34280000}, textWords(prog))

	memory := mem.NewMemory(prog.Layout)
	require.NoError(t, prog.Load(memory))
	value, err := memory.Load(0x1001000c, 4, false)
	assert.NoError(err)
	assert.Equal(uint32(0x1001000a), value)
}

func TestAssemblerAlign(t *testing.T) {
	assert := assert.New(t)

	prog, err := NewAssembler().AssembleString(`
	.data
a:	.byte 1
	.align 3
b:	.byte 2
	.align 0
c:	.half 3
d:	.space 3
e:	.word 4
`)
	require.NoError(t, err)

	addrs := map[string]uint32{
		"a": 0x10010000,
		"b": 0x10010008,
		"c": 0x10010009,
		"d": 0x1001000b,
		"e": 0x1001000e,
	}
	for name, addr := range addrs {
		sym, ok := prog.Symbol(name)
		assert.True(ok, name)
		assert.Equal(addr, sym.Address, name)
	}
}

func TestAssemblerEquate(t *testing.T) {
	assert := assert.New(t)

	asm := NewAssembler()
	asm.Predefine("BASE", "0x20")
	prog, err := asm.AssembleString(`.eqv COUNT 4
	li $t0, COUNT
	li $t1, $(COUNT * 2 + 1)
	li $t2, LINENO
	li $t3, BASE
	li $v0, SYS_EXIT
x:	nop
	li $t0, $(x + 4)
`)
	require.NoError(t, err)

	assert.Equal([]uint32{
		0x24080004,
		0x24090009,
		0x240a0004,
		0x240b0020,
		0x2402000a,
		0x00000000,
		0x3c080040, 0x35080018,
	}, textWords(prog))

	_, err = asm.AssembleString(".eqv A 1\n.eqv A 2\n")
	assert.ErrorIs(err, ErrEquateDuplicate)

	_, err = asm.AssembleString("li $t0, $(1 +)\n")
	var exprErr *ErrExpression
	assert.ErrorAs(err, &exprErr)
}

func TestAssemblerDefines(t *testing.T) {
	assert := assert.New(t)

	asm := NewAssembler()
	asm.Predefine("FOO", "1")

	defines := map[string]string{}
	last := ""
	for name, value := range asm.Defines() {
		assert.Less(last, name)
		last = name
		defines[name] = value
	}

	assert.Equal("1", defines["FOO"])
	assert.Equal("10", defines["SYS_EXIT"])
	assert.Equal("0x10010000", defines["DATA_ORIGIN"])
}

func TestAssemblerMacro(t *testing.T) {
	assert := assert.New(t)

	prog, err := NewAssembler().AssembleString(`
.macro inc(%r)
	addiu %r, %r, 1
.end_macro
.macro spin
loop:	b loop
.endm
	inc($t0)
	inc $t1
	spin
	spin
`)
	require.NoError(t, err)

	assert.Equal([]uint32{0x25080001, 0x25290001, 0x1000ffff, 0x1000ffff}, textWords(prog))

	first, ok := prog.Symbol("loop_M3")
	assert.True(ok)
	assert.Equal(uint32(0x00400008), first.Address)
	second, ok := prog.Symbol("loop_M4")
	assert.True(ok)
	assert.Equal(uint32(0x0040000c), second.Address)
	assert.Equal(10, prog.Text[2].Line)
	assert.Equal(11, prog.Text[3].Line)
}

func TestAssemblerMacroErrors(t *testing.T) {
	assert := assert.New(t)

	_, err := NewAssembler().AssembleString(`.macro bad
	frob $t0
.end_macro
	bad
`)
	var macroErr *ErrMacro
	if assert.ErrorAs(err, &macroErr) {
		assert.Equal("bad", macroErr.Macro)
		assert.Equal(2, macroErr.Line)
	}
	var asmErr *Error
	if assert.ErrorAs(err, &asmErr) {
		assert.Equal(4, asmErr.Line)
	}
	assert.ErrorIs(err, ErrMnemonicUnknown("frob"))

	table := map[string]error{
		".macro m(%a)\nnop\n.end_macro\nm\n":      ErrMacroArgs,
		".macro r\nr\n.end_macro\nr\n":            ErrMacroDepth,
		".macro m\n.macro n\n.end_macro\n":        ErrMacroNesting,
		".macro m\nnop\n":                         ErrMacroLonely,
		".end_macro\n":                            ErrMacroLonelyEnd,
		".macro m\n.end_macro\n.macro m\n.endm\n": ErrMacroDuplicate,
	}
	for text, expected := range table {
		_, err := NewAssembler().AssembleString(text)
		assert.ErrorIs(err, expected, text)
	}
}

func TestAssemblerFiles(t *testing.T) {
	assert := assert.New(t)

	asm := NewAssembler()
	asm.StartAtMain = true
	prog, err := asm.Assemble(
		Source{Name: "a.s", Input: strings.NewReader(`
	.globl main
	nop
main:	jal helper
loop:	j loop
`)},
		Source{Name: "b.s", Input: strings.NewReader(`
	.globl helper
helper:	jr $ra
loop:	j loop
`)},
	)
	require.NoError(t, err)

	assert.Equal([]uint32{0x00000000, 0x0c100003, 0x08100002, 0x03e00008, 0x08100004}, textWords(prog))
	assert.Equal(uint32(0x00400004), prog.Entry)
	assert.Empty(prog.Warnings)

	main, ok := prog.Symbol("main")
	assert.True(ok)
	assert.True(main.Global)

	helper, ok := prog.Symbol("helper")
	assert.True(ok)
	assert.Equal("b.s", helper.File)
}

func TestAssemblerScope(t *testing.T) {
	assert := assert.New(t)

	_, err := NewAssembler().Assemble(
		Source{Name: "a.s", Input: strings.NewReader("jal helper\n")},
		Source{Name: "b.s", Input: strings.NewReader("helper: jr $ra\n")},
	)
	assert.ErrorIs(err, ErrSymbolUndefined("helper"))

	_, err = NewAssembler().Assemble(
		Source{Name: "a.s", Input: strings.NewReader(".globl x\nx: nop\n")},
		Source{Name: "b.s", Input: strings.NewReader(".globl x\nx: nop\n")},
	)
	assert.ErrorIs(err, ErrSymbolDuplicate("x"))

	_, err = NewAssembler().AssembleString("x: nop\nx: nop\n")
	assert.ErrorIs(err, ErrSymbolDuplicate("x"))
}

func TestAssemblerWarnings(t *testing.T) {
	assert := assert.New(t)

	asm := NewAssembler()
	asm.StartAtMain = true
	prog, err := asm.AssembleString(".set noreorder\n.globl nothing\nnop\n")
	require.NoError(t, err)
	assert.Len(prog.Warnings, 3)
	assert.ErrorIs(prog.Warnings[0].Err, ErrSetIgnored)
	assert.ErrorIs(prog.Warnings[1].Err, ErrGlobalUndefined)
	assert.ErrorIs(prog.Warnings[2].Err, ErrMainMissing)
	assert.Equal(uint32(0x00400000), prog.Entry)

	asm.WarningsAreErrors = true
	prog, err = asm.AssembleString(".set noreorder\nnop\n")
	assert.Nil(prog)
	assert.Equal([]ErrorKind{ERROR_WARNING, ERROR_WARNING}, errorKinds(t, err))
}

func TestAssemblerErrors(t *testing.T) {
	assert := assert.New(t)

	prog, err := NewAssembler().AssembleString(`foo $t0
	add $t0, $t1
	j nowhere
	sll $t0, $t0, 40
	lui $t0, 0x12345
	"string"
`)
	assert.Nil(prog)
	assert.Equal([]ErrorKind{
		ERROR_SYNTAX,
		ERROR_SYNTAX,
		ERROR_SYMBOL,
		ERROR_RANGE,
		ERROR_RANGE,
		ERROR_SYNTAX,
	}, errorKinds(t, err))

	var list ErrorList
	require.ErrorAs(t, err, &list)
	for n, e := range list {
		assert.Equal("<string>", e.File)
		assert.Equal(n+1, e.Line)
	}
	assert.ErrorIs(err, ErrMnemonicUnknown("foo"))
	assert.ErrorIs(err, ErrSymbolUndefined("nowhere"))
	assert.True(errors.Is(list[4], ErrValueRange))
	assert.Equal([]ErrorKind{ERROR_SYNTAX, ERROR_SYMBOL, ERROR_RANGE}, list.Kinds())
}

func TestAssemblerDataRepeat(t *testing.T) {
	assert := assert.New(t)

	table := []string{
		".data\n.word 0:0x7fffffffff\n",
		".data\n.byte 1:0x1000001\n",
		".data\n.half 1:0x800000, 2:0x800000\n",
		".data\nx: .word x:0x7fffffff\n",
	}

	for _, text := range table {
		prog, err := NewAssembler().AssembleString(text)
		assert.Nil(prog, text)
		assert.ErrorIs(err, ErrValueRange, text)
		if assert.Error(err, text) {
			assert.Equal([]ErrorKind{ERROR_RANGE}, errorKinds(t, err), text)
		}
	}

	prog, err := NewAssembler().AssembleString(".data\n.byte 5:4096\n")
	require.NoError(t, err)
	assert.Len(prog.Data[0].Bytes, 4096)
}

func TestAssemblerSegments(t *testing.T) {
	assert := assert.New(t)

	table := map[string]error{
		".data\nadd $t0, $t0, $t0\n":                 ErrCodeInData,
		".text\n.word 1\n":                           ErrDataInText,
		".text 0x400000\nnop\n.text 0x400000\nnop\n": ErrSegmentOverlap,
		".data 0x20000000\n.word 1\n":                ErrSegmentBounds,
		".ktext 0x20000000\nnop\n":                   ErrSegmentBounds,
	}
	for text, expected := range table {
		_, err := NewAssembler().AssembleString(text)
		assert.ErrorIs(err, expected, text)
		assert.Equal([]ErrorKind{ERROR_SEGMENT}, errorKinds(t, err), text)
	}

	prog, err := NewAssembler().AssembleString(".ktext\nhandler: eret\n.kdata\nk: .word 1\n")
	require.NoError(t, err)
	sym, _ := prog.Symbol("handler")
	assert.Equal(mem.KIND_KTEXT, sym.Segment)
	assert.Equal(uint32(0x80000000), sym.Address)
	assert.Equal(uint32(0x00400000), prog.TextEnd)
}

func TestAssemblerDirectives(t *testing.T) {
	assert := assert.New(t)

	prog, err := NewAssembler().AssembleString(`
	.extern buf 6
	.extern count 4
	lw $t0, count
`)
	require.NoError(t, err)
	buf, _ := prog.Symbol("buf")
	count, _ := prog.Symbol("count")
	assert.Equal(uint32(0x10000000), buf.Address)
	assert.Equal(uint32(0x10000008), count.Address)
	assert.True(count.Global)

	table := map[string]error{
		".float 1\n":            ErrDirectiveUnsupported,
		".include \"x\"\n":      ErrDirectiveUnsupported,
		".bogus\n":              ErrDirectiveUnknown(".bogus"),
		".align 5\n":            ErrValueRange,
		".data\n.byte 256\n":    ErrValueRange,
		".data\n.half -32769\n": ErrValueRange,
		".data\n.asciiz\n":      ErrOperandMissing,
	}
	for text, expected := range table {
		_, err := NewAssembler().AssembleString(text)
		assert.ErrorIs(err, expected, text)
	}
}

func TestAssemblerBasic(t *testing.T) {
	assert := assert.New(t)

	asm := NewAssembler()
	asm.ExtendedAssembler = false
	_, err := asm.AssembleString("li $t0, 1\n")
	assert.ErrorIs(err, ErrPseudoDisabled)

	prog, err := asm.AssembleString("addiu $t0, $zero, 1\n")
	assert.NoError(err)
	assert.Equal([]uint32{0x24080001}, textWords(prog))
}
