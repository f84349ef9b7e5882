package asm

import (
	"strings"

	"github.com/ezrec/umips/isa"
)

// OperandKind is the syntactic form of an instruction operand.
type OperandKind int

const (
	OPERAND_REGISTER  = OperandKind(0) // $t0
	OPERAND_IMMEDIATE = OperandKind(1) // -12
	OPERAND_LABEL     = OperandKind(2) // label+4
	OPERAND_MEMORY    = OperandKind(3) // label+4($t0), 8($sp), ($a0)
)

// Operand is one parsed instruction operand.
type Operand struct {
	Kind  OperandKind
	Reg   uint8  // Register, or memory base.
	Value int64  // Immediate, label addend, or memory offset.
	Label string // Label, or memory offset label.
	Col   int
}

// Shape classes of operands.
const (
	SHAPE_REGISTER  = 'r' // register
	SHAPE_POSITIVE  = 'n' // 0..32767
	SHAPE_NEGATIVE  = 's' // -32768..-1
	SHAPE_UNSIGNED  = 'u' // 32768..65535
	SHAPE_WORD      = 'i' // any other 32-bit value
	SHAPE_LABEL     = 'l' // label expression
	SHAPE_MEMORY    = 'm' // 16-bit offset(base)
	SHAPE_MEMORY_32 = 'M' // label or 32-bit offset, optionally (base)
)

const shapeClasses = "rnsuilmM"

// classify returns the shape of an immediate value.
func classify(value int64) byte {
	switch {
	case value >= 0 && value <= 0x7fff:
		return SHAPE_POSITIVE
	case value >= -0x8000 && value < 0:
		return SHAPE_NEGATIVE
	case value >= 0x8000 && value <= 0xffff:
		return SHAPE_UNSIGNED
	}
	return SHAPE_WORD
}

// Shape returns the shape class of the operand.
func (op Operand) Shape() byte {
	switch op.Kind {
	case OPERAND_REGISTER:
		return SHAPE_REGISTER
	case OPERAND_IMMEDIATE:
		return classify(op.Value)
	case OPERAND_LABEL:
		return SHAPE_LABEL
	}

	if op.Label == "" && op.Value >= -0x8000 && op.Value <= 0x7fff {
		return SHAPE_MEMORY
	}
	return SHAPE_MEMORY_32
}

// Shapes returns the comma separated shapes of operands, for example "r,r,n".
func Shapes(ops []Operand) string {
	shapes := make([]string, len(ops))
	for n, op := range ops {
		shapes[n] = string(op.Shape())
	}
	return strings.Join(shapes, ",")
}

// Pattern is a comma separated list of shape sets, for example "r,r,ns"
// matches a register, a register, and a 16-bit signed immediate.
type Pattern string

// Match checks operand shapes against the pattern.
func (p Pattern) Match(shapes string) bool {
	if p == "" || shapes == "" {
		return p == "" && shapes == ""
	}

	want := strings.Split(string(p), ",")
	have := strings.Split(shapes, ",")
	if len(want) != len(have) {
		return false
	}

	for n := range want {
		if len(have[n]) != 1 || !strings.Contains(want[n], have[n]) {
			return false
		}
	}
	return true
}

// Valid checks that the pattern only uses known shape classes.
func (p Pattern) Valid() bool {
	if p == "" {
		return true
	}
	for _, set := range strings.Split(string(p), ",") {
		if len(set) == 0 {
			return false
		}
		for _, c := range []byte(set) {
			if !strings.ContainsRune(shapeClasses, rune(c)) {
				return false
			}
		}
	}
	return true
}

// kindSignature maps shapes to operand kinds only, ignoring value ranges.
func kindSignature(shapes string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case 'n', 's', 'u', 'i':
			return 'i'
		case 'm', 'M':
			return 'm'
		}
		return r
	}, shapes)
}

// parseOperands splits tokens at commas and parses each operand.
func parseOperands(tokens []Token) (ops []Operand, err error) {
	if len(tokens) == 0 {
		return
	}

	start := 0
	depth := 0
	for n := 0; n <= len(tokens); n++ {
		if n < len(tokens) {
			tok := tokens[n]
			switch {
			case tok.Is(TOKEN_SEPARATOR, "("):
				depth++
				continue
			case tok.Is(TOKEN_SEPARATOR, ")"):
				depth--
				continue
			case !tok.Is(TOKEN_SEPARATOR, ",") || depth != 0:
				continue
			}
		}

		group := tokens[start:n]
		if len(group) == 0 {
			err = ErrOperandMissing
			return
		}

		var op Operand
		op, err = parseOperand(group)
		if err != nil {
			return
		}
		ops = append(ops, op)
		start = n + 1
	}

	return
}

// parseSigned parses an optionally signed integer token sequence.
func parseSigned(tokens []Token) (value int64, rest []Token, err error) {
	negative := false
	for len(tokens) > 0 && tokens[0].Kind == TOKEN_OPERATOR {
		if tokens[0].Text == "-" {
			negative = !negative
		}
		tokens = tokens[1:]
	}

	if len(tokens) == 0 || tokens[0].Kind != TOKEN_INTEGER {
		err = ErrOperandInvalid
		return
	}

	value, err = ParseInteger(tokens[0].Text)
	if err != nil {
		return
	}
	if negative {
		value = -value
	}
	rest = tokens[1:]
	return
}

// parseOffset parses "label", "label+n", "label-n" or a signed integer.
func parseOffset(tokens []Token) (label string, value int64, err error) {
	if len(tokens) > 0 && tokens[0].Kind == TOKEN_IDENT {
		label = tokens[0].Text
		tokens = tokens[1:]
		if len(tokens) == 0 {
			return
		}
		if tokens[0].Kind != TOKEN_OPERATOR {
			err = ErrOperandInvalid
			return
		}
	}

	value, tokens, err = parseSigned(tokens)
	if err != nil {
		return
	}
	if len(tokens) != 0 {
		err = ErrOperandInvalid
	}
	return
}

func checkWord(value int64) error {
	if value < -0x80000000 || value > 0xffffffff {
		return ErrValueRange
	}
	return nil
}

func parseOperand(tokens []Token) (op Operand, err error) {
	op.Col = tokens[0].Col

	last := len(tokens) - 1
	if len(tokens) >= 3 && tokens[last].Is(TOKEN_SEPARATOR, ")") &&
		tokens[last-2].Is(TOKEN_SEPARATOR, "(") && tokens[last-1].Kind == TOKEN_REGISTER {
		op.Kind = OPERAND_MEMORY
		op.Reg, err = isa.Register(tokens[last-1].Text, false)
		if err != nil {
			return
		}
		if last-2 > 0 {
			op.Label, op.Value, err = parseOffset(tokens[:last-2])
			if err != nil {
				return
			}
		}
		err = checkWord(op.Value)
		return
	}

	switch {
	case len(tokens) == 1 && tokens[0].Kind == TOKEN_REGISTER:
		op.Kind = OPERAND_REGISTER
		op.Reg, err = isa.Register(tokens[0].Text, false)
	case tokens[0].Kind == TOKEN_IDENT:
		op.Kind = OPERAND_LABEL
		op.Label, op.Value, err = parseOffset(tokens)
	default:
		op.Kind = OPERAND_IMMEDIATE
		var rest []Token
		op.Value, rest, err = parseSigned(tokens)
		if err == nil && len(rest) != 0 {
			err = ErrOperandInvalid
		}
		if err == nil {
			err = checkWord(op.Value)
		}
	}

	return
}
