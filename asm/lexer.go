package asm

import (
	"math"
	"strconv"
	"strings"

	"github.com/ezrec/umips/isa"
)

// TokenKind is the lexical class of a token.
type TokenKind int

//go:generate go tool stringer -linecomment -type=TokenKind
const (
	TOKEN_IDENT      = TokenKind(0) // identifier
	TOKEN_REGISTER   = TokenKind(1) // register
	TOKEN_INTEGER    = TokenKind(2) // integer
	TOKEN_LABEL      = TokenKind(3) // label
	TOKEN_DIRECTIVE  = TokenKind(4) // directive
	TOKEN_STRING     = TokenKind(5) // string
	TOKEN_SEPARATOR  = TokenKind(6) // separator
	TOKEN_OPERATOR   = TokenKind(7) // operator
	TOKEN_EXPRESSION = TokenKind(8) // expression
	TOKEN_MACRO_ARG  = TokenKind(9) // macro argument
)

// Token is a lexical item of one source line.
//
// Text is the source spelling, except for: TOKEN_STRING, which holds the
// unescaped contents; TOKEN_LABEL, which omits the ':'; TOKEN_EXPRESSION,
// which holds the text between '$(' and ')'; and TOKEN_INTEGER made from a
// character literal, which holds the decimal value.
type Token struct {
	Kind TokenKind
	Text string
	Line int
	Col  int
}

// Is checks both the kind and the text of a token.
func (tok Token) Is(kind TokenKind, text string) bool {
	return tok.Kind == kind && tok.Text == text
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdent(c byte) bool {
	return isIdentStart(c) || c == '.' || (c >= '0' && c <= '9')
}

func isWord(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\v' || c == '\f'
}

// ParseInteger parses decimal, 0x hexadecimal and 0b binary literals.
func ParseInteger(text string) (value int64, err error) {
	lower := strings.ToLower(text)
	base := 10
	digits := lower
	switch {
	case strings.HasPrefix(lower, "0x"):
		base = 16
		digits = lower[2:]
	case strings.HasPrefix(lower, "0b"):
		base = 2
		digits = lower[2:]
	}

	u, perr := strconv.ParseUint(digits, base, 64)
	if perr != nil || len(digits) == 0 || u > math.MaxInt64 {
		err = ErrNumber(text)
		return
	}

	value = int64(u)
	return
}

// unescape decodes a backslash escape, returning the byte and the number of
// source bytes consumed after the backslash.
func unescape(text string) (c byte, n int, err error) {
	if len(text) == 0 {
		err = ErrEscapeInvalid
		return
	}

	n = 1
	switch text[0] {
	case 'n':
		c = '\n'
	case 't':
		c = '\t'
	case 'r':
		c = '\r'
	case 'b':
		c = '\b'
	case 'f':
		c = '\f'
	case 'e':
		c = '\033'
	case '0':
		c = 0
	case '\\', '\'', '"':
		c = text[0]
	default:
		err = ErrEscapeInvalid
	}
	return
}

// Lex splits one source line into tokens. Comments start with '#'.
func Lex(text string, line int) (tokens []Token, err error) {
	pos := 0

	fail := func(col int, cause error) {
		err = &Error{Line: line, Col: col, Kind: ERROR_LEXICAL, Err: cause}
	}

	emit := func(kind TokenKind, text string, start int) {
		tokens = append(tokens, Token{Kind: kind, Text: text, Line: line, Col: start + 1})
	}

	for pos < len(text) && err == nil {
		c := text[pos]
		start := pos

		switch {
		case isSpace(c):
			pos++
		case c == '#':
			pos = len(text)
		case c == ',' || c == '(' || c == ')' || c == ':':
			emit(TOKEN_SEPARATOR, text[pos:pos+1], start)
			pos++
		case c == '+' || c == '-':
			emit(TOKEN_OPERATOR, text[pos:pos+1], start)
			pos++
		case c == '"':
			var str strings.Builder
			pos++
			closed := false
			for pos < len(text) && !closed {
				switch text[pos] {
				case '"':
					closed = true
					pos++
				case '\\':
					b, n, eerr := unescape(text[pos+1:])
					if eerr != nil {
						fail(pos+1, eerr)
						return
					}
					str.WriteByte(b)
					pos += 1 + n
				default:
					str.WriteByte(text[pos])
					pos++
				}
			}
			if !closed {
				fail(start+1, ErrStringUnterminated)
				return
			}
			emit(TOKEN_STRING, str.String(), start)
		case c == '\'':
			pos++
			if pos >= len(text) {
				fail(start+1, ErrCharacterInvalid)
				return
			}
			b := text[pos]
			n := 1
			if b == '\\' {
				var eerr error
				b, n, eerr = unescape(text[pos+1:])
				if eerr != nil {
					fail(pos+1, eerr)
					return
				}
				n++
			} else if b == '\'' {
				fail(start+1, ErrCharacterInvalid)
				return
			}
			pos += n
			if pos >= len(text) || text[pos] != '\'' {
				fail(start+1, ErrCharacterInvalid)
				return
			}
			pos++
			emit(TOKEN_INTEGER, strconv.Itoa(int(b)), start)
		case c == '$' && pos+1 < len(text) && text[pos+1] == '(':
			depth := 0
			pos++
			end := -1
			for n := pos; n < len(text); n++ {
				if text[n] == '(' {
					depth++
				} else if text[n] == ')' {
					depth--
					if depth == 0 {
						end = n
						break
					}
				}
			}
			if end < 0 {
				fail(start+1, ErrExpressionUnterminated)
				return
			}
			emit(TOKEN_EXPRESSION, strings.TrimSpace(text[pos+1:end]), start)
			pos = end + 1
		case c == '$':
			pos++
			for pos < len(text) && isWord(text[pos]) {
				pos++
			}
			word := text[start:pos]
			if !isa.IsRegister(word) {
				fail(start+1, ErrRegister(word))
				return
			}
			emit(TOKEN_REGISTER, word, start)
		case c == '%':
			pos++
			for pos < len(text) && isWord(text[pos]) {
				pos++
			}
			if pos == start+1 {
				fail(start+1, ErrTokenInvalid)
				return
			}
			emit(TOKEN_MACRO_ARG, text[start:pos], start)
		case c >= '0' && c <= '9':
			for pos < len(text) && isWord(text[pos]) {
				pos++
			}
			word := text[start:pos]
			if _, nerr := ParseInteger(word); nerr != nil {
				fail(start+1, nerr)
				return
			}
			emit(TOKEN_INTEGER, word, start)
		case c == '.' && pos+1 < len(text) && isIdentStart(text[pos+1]):
			pos++
			for pos < len(text) && isIdent(text[pos]) {
				pos++
			}
			emit(TOKEN_DIRECTIVE, strings.ToLower(text[start:pos]), start)
		case isIdentStart(c):
			for pos < len(text) && isIdent(text[pos]) {
				pos++
			}
			word := text[start:pos]
			next := pos
			for next < len(text) && isSpace(text[next]) {
				next++
			}
			if next < len(text) && text[next] == ':' {
				emit(TOKEN_LABEL, word, start)
				pos = next + 1
			} else {
				emit(TOKEN_IDENT, word, start)
			}
		default:
			fail(start+1, ErrTokenInvalid)
			return
		}
	}

	return
}

// Untokenize rebuilds source text from tokens.
func Untokenize(tokens []Token) string {
	var text strings.Builder
	for n, tok := range tokens {
		if n > 0 && tok.Kind != TOKEN_SEPARATOR && !tokens[n-1].Is(TOKEN_SEPARATOR, "(") {
			text.WriteByte(' ')
		}
		switch tok.Kind {
		case TOKEN_STRING:
			text.WriteString(strconv.Quote(tok.Text))
		case TOKEN_LABEL:
			text.WriteString(tok.Text + ":")
		case TOKEN_EXPRESSION:
			text.WriteString("$(" + tok.Text + ")")
		default:
			text.WriteString(tok.Text)
		}
	}
	return text.String()
}
