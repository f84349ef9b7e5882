package asm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLex(t *testing.T) {
	assert := assert.New(t)

	tokens, err := Lex(`loop: lw $t0, -4($sp) # comment`, 3)
	assert.NoError(err)

	expected := []Token{
		{Kind: TOKEN_LABEL, Text: "loop", Line: 3, Col: 1},
		{Kind: TOKEN_IDENT, Text: "lw", Line: 3, Col: 7},
		{Kind: TOKEN_REGISTER, Text: "$t0", Line: 3, Col: 10},
		{Kind: TOKEN_SEPARATOR, Text: ",", Line: 3, Col: 13},
		{Kind: TOKEN_OPERATOR, Text: "-", Line: 3, Col: 15},
		{Kind: TOKEN_INTEGER, Text: "4", Line: 3, Col: 16},
		{Kind: TOKEN_SEPARATOR, Text: "(", Line: 3, Col: 17},
		{Kind: TOKEN_REGISTER, Text: "$sp", Line: 3, Col: 18},
		{Kind: TOKEN_SEPARATOR, Text: ")", Line: 3, Col: 21},
	}
	assert.Equal(expected, tokens)
}

func TestLexLiterals(t *testing.T) {
	assert := assert.New(t)

	tokens, err := Lex(`.ASCIIZ "a\tb\"" 'x' '\n' $(1 + 2) %arg`, 1)
	assert.NoError(err)

	kinds := []TokenKind{}
	texts := []string{}
	for _, tok := range tokens {
		kinds = append(kinds, tok.Kind)
		texts = append(texts, tok.Text)
	}

	assert.Equal([]TokenKind{TOKEN_DIRECTIVE, TOKEN_STRING, TOKEN_INTEGER, TOKEN_INTEGER, TOKEN_EXPRESSION, TOKEN_MACRO_ARG}, kinds)
	assert.Equal([]string{".asciiz", "a\tb\"", "120", "10", "1 + 2", "%arg"}, texts)
}

func TestLexErrors(t *testing.T) {
	assert := assert.New(t)

	table := map[string]error{
		`"open`:       ErrStringUnterminated,
		`'ab'`:        ErrCharacterInvalid,
		`$(1 + 2`:     ErrExpressionUnterminated,
		`"\q"`:        ErrEscapeInvalid,
		`add @`:       ErrTokenInvalid,
		`add $bogus`:  ErrRegister("$bogus"),
		`li $t0, 12z`: ErrNumber("12z"),
	}

	for text, expected := range table {
		_, err := Lex(text, 9)
		assert.ErrorIs(err, expected, text)

		var asmErr *Error
		if assert.ErrorAs(err, &asmErr, text) {
			assert.Equal(ERROR_LEXICAL, asmErr.Kind, text)
			assert.Equal(9, asmErr.Line, text)
		}
	}
}

func TestParseInteger(t *testing.T) {
	assert := assert.New(t)

	table := map[string]int64{
		"0":          0,
		"42":         42,
		"0x10":       16,
		"0XfF":       255,
		"0b101":      5,
		"0xffffffff": 0xffffffff,
	}

	for text, expected := range table {
		value, err := ParseInteger(text)
		assert.NoError(err, text)
		assert.Equal(expected, value, text)
	}

	for _, text := range []string{"0x", "12a", "0b2", "99999999999999999999"} {
		_, err := ParseInteger(text)
		assert.ErrorIs(err, ErrNumber(text), text)
	}
}

func TestUntokenize(t *testing.T) {
	assert := assert.New(t)

	tokens, err := Lex(`x: sw $ra, 8($sp)`, 1)
	assert.NoError(err)
	assert.Equal(`x: sw $ra, 8($sp)`, Untokenize(tokens))
}
