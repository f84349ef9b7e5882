package asm

import (
	"fmt"
	"strings"
)

// MAX_MACRO_DEPTH limits nested macro expansion.
const MAX_MACRO_DEPTH = 32

// macroLine is one line of a macro body.
type macroLine struct {
	Line   int
	Tokens []Token
}

// Macro represents a macro definition in the assembly language.
type Macro struct {
	Name   string
	Args   []string    // Parameter names, with their '%'.
	LineNo int         // Line number of the macro definition.
	Lines  []macroLine // Body, as tokens.

	labels map[string]bool // Labels defined in the body.
}

func macroKey(name string, arity int) string {
	return fmt.Sprintf("%v/%d", name, arity)
}

// parseMacroHeader parses "name (%a, %b)" or "name %a, %b".
func parseMacroHeader(tokens []Token) (name string, args []string, err error) {
	if len(tokens) == 0 || tokens[0].Kind != TOKEN_IDENT {
		err = ErrMacroSyntax
		return
	}
	name = tokens[0].Text

	rest := tokens[1:]
	if len(rest) > 0 && rest[0].Is(TOKEN_SEPARATOR, "(") {
		if !rest[len(rest)-1].Is(TOKEN_SEPARATOR, ")") {
			err = ErrMacroSyntax
			return
		}
		rest = rest[1 : len(rest)-1]
	}

	for _, tok := range rest {
		switch {
		case tok.Is(TOKEN_SEPARATOR, ","):
		case tok.Kind == TOKEN_MACRO_ARG:
			args = append(args, tok.Text)
		default:
			err = ErrMacroSyntax
			return
		}
	}

	return
}

// splitArgs splits macro invocation arguments at top level commas. The
// arguments may be wrapped in parentheses.
func splitArgs(tokens []Token) (args [][]Token) {
	if len(tokens) == 0 {
		return
	}

	if tokens[0].Is(TOKEN_SEPARATOR, "(") && tokens[len(tokens)-1].Is(TOKEN_SEPARATOR, ")") {
		depth := 0
		wraps := true
		for n, tok := range tokens {
			switch {
			case tok.Is(TOKEN_SEPARATOR, "("):
				depth++
			case tok.Is(TOKEN_SEPARATOR, ")"):
				depth--
				if depth == 0 && n != len(tokens)-1 {
					wraps = false
				}
			}
		}
		if wraps {
			tokens = tokens[1 : len(tokens)-1]
			if len(tokens) == 0 {
				return
			}
		}
	}

	depth := 0
	start := 0
	for n, tok := range tokens {
		switch {
		case tok.Is(TOKEN_SEPARATOR, "("):
			depth++
		case tok.Is(TOKEN_SEPARATOR, ")"):
			depth--
		case tok.Is(TOKEN_SEPARATOR, ",") && depth == 0:
			args = append(args, tokens[start:n])
			start = n + 1
		}
	}
	args = append(args, tokens[start:])
	return
}

// instantiate substitutes arguments into one body line, and makes the
// body's labels unique to this expansion.
func (m *Macro) instantiate(line macroLine, args [][]Token, suffix string) (tokens []Token) {
	for _, tok := range line.Tokens {
		switch tok.Kind {
		case TOKEN_MACRO_ARG:
			n := -1
			for i, name := range m.Args {
				if strings.EqualFold(name, tok.Text) {
					n = i
				}
			}
			if n >= 0 {
				tokens = append(tokens, args[n]...)
				continue
			}
		case TOKEN_LABEL, TOKEN_IDENT:
			if m.labels[tok.Text] {
				tok.Text += suffix
			}
		}
		tokens = append(tokens, tok)
	}
	return
}
