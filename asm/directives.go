package asm

import (
	"fmt"
	"log"
	"strings"

	"github.com/ezrec/umips/mem"
)

// MAX_SPACE is the largest .space reservation, and the largest data
// directive line.
const MAX_SPACE = 1 << 24

// directiveFunc handles a directive's operands.
type directiveFunc func(a *assembly, l srcLine, dir Token, args []Token) error

var directives = map[string]directiveFunc{
	".text":    segmentDirective(mem.KIND_TEXT),
	".data":    segmentDirective(mem.KIND_DATA),
	".ktext":   segmentDirective(mem.KIND_KTEXT),
	".kdata":   segmentDirective(mem.KIND_KDATA),
	".word":    dataDirective(4),
	".half":    dataDirective(2),
	".byte":    dataDirective(1),
	".ascii":   stringDirective(false),
	".asciiz":  stringDirective(true),
	".space":   (*assembly).space,
	".align":   (*assembly).align,
	".globl":   (*assembly).globl,
	".global":  (*assembly).globl,
	".extern":  (*assembly).externDirective,
	".set":     (*assembly).set,
	".include": unsupported,
	".float":   unsupported,
	".double":  unsupported,
}

// directive dispatches a directive line.
func (a *assembly) directive(l srcLine, dir Token, args []Token) {
	handler, ok := directives[dir.Text]
	if !ok {
		a.fail(l, dir.Col, ErrDirectiveUnknown(dir.Text))
		return
	}

	err := handler(a, l, dir, args)
	if err != nil {
		a.fail(l, dir.Col, err)
	}
}

func unsupported(a *assembly, l srcLine, dir Token, args []Token) error {
	return fmt.Errorf("%v: %w", dir.Text, ErrDirectiveUnsupported)
}

func (a *assembly) set(l srcLine, dir Token, args []Token) error {
	a.warn(l, dir.Col, ErrSetIgnored)
	return nil
}

// segmentDirective switches to a section, optionally moving its counter.
func segmentDirective(kind mem.Kind) directiveFunc {
	return func(a *assembly, l srcLine, dir Token, args []Token) (err error) {
		var addr int64
		if len(args) > 0 {
			var rest []Token
			addr, rest, err = parseSigned(args)
			if err != nil || len(rest) != 0 {
				return ErrDirectiveSyntax
			}
			if addr < 0 || addr > 0xffffffff {
				return ErrValueRange
			}
		}

		a.bind(a.current.pc)
		a.current = a.sections[kind]
		a.autoAlign = true
		if len(args) > 0 {
			a.current.pc = uint32(addr)
		}
		return
	}
}

// emitData places a data item in the current section.
func (a *assembly) emitData(data []byte, align uint32, fixups []fixup) (err error) {
	if a.inText() {
		return ErrDataInText
	}

	if a.autoAlign && align > 1 {
		a.current.pc = alignUp(a.current.pc, align)
	}
	addr := a.current.pc

	a.bind(addr)
	err = a.place(a.current.kind, addr, uint64(len(data)))
	if err != nil {
		return
	}

	chunk := len(a.chunks)
	a.chunks = append(a.chunks, Chunk{Address: addr, Bytes: data})
	for _, fix := range fixups {
		fix.chunk = chunk
		a.fixups = append(a.fixups, fix)
	}

	a.current.pc = addr + uint32(len(data))
	return
}

// dataItem is one ".word" style operand: a value or label, repeated.
type dataItem struct {
	label  string
	value  int64
	repeat int64
}

func parseDataItem(tokens []Token) (item dataItem, err error) {
	item.repeat = 1

	// Lexed as "label:" followed by the count.
	if len(tokens) == 2 && tokens[0].Kind == TOKEN_LABEL {
		item.label = tokens[0].Text
		item.repeat, _, err = parseSigned(tokens[1:])
		if err == nil && item.repeat < 0 {
			err = ErrValueRange
		}
		return
	}

	for n, tok := range tokens {
		if tok.Is(TOKEN_SEPARATOR, ":") {
			var rest []Token
			item.repeat, rest, err = parseSigned(tokens[n+1:])
			if err != nil {
				return
			}
			if len(rest) != 0 {
				err = ErrOperandInvalid
				return
			}
			if item.repeat < 0 {
				err = ErrValueRange
				return
			}
			tokens = tokens[:n]
			break
		}
	}

	if len(tokens) == 0 {
		err = ErrOperandMissing
		return
	}

	item.label, item.value, err = parseOffset(tokens)
	return
}

// dataDirective emits integers or label addresses of a given width.
func dataDirective(width int) directiveFunc {
	low := -(int64(1) << (8*width - 1))
	high := int64(1)<<(8*width) - 1

	return func(a *assembly, l srcLine, dir Token, args []Token) (err error) {
		groups := splitArgs(args)
		if len(groups) == 0 {
			return ErrOperandMissing
		}

		items := make([]dataItem, len(groups))
		var total int64
		for n, group := range groups {
			items[n], err = parseDataItem(group)
			if err != nil {
				return
			}
			item := items[n]
			if item.label == "" && (item.value < low || item.value > high) {
				return ErrValueRange
			}
			if item.repeat > (MAX_SPACE-total)/int64(width) {
				return ErrValueRange
			}
			total += item.repeat * int64(width)
		}

		data := make([]byte, 0, total)
		var fixups []fixup
		for _, item := range items {
			for range item.repeat {
				if item.label != "" {
					fixups = append(fixups, fixup{
						offset: len(data),
						width:  width,
						value:  PendingSymbol{Name: item.label, Addend: item.value, Reloc: RELOC_FULL},
						file:   a.file,
						line:   l.number,
					})
				}
				switch width {
				case 1:
					data = append(data, byte(item.value))
				case 2:
					data = mem.ByteOrder.AppendUint16(data, uint16(item.value))
				default:
					data = mem.ByteOrder.AppendUint32(data, uint32(item.value))
				}
			}
		}

		return a.emitData(data, uint32(width), fixups)
	}
}

// stringDirective emits string literals, optionally NUL terminated.
func stringDirective(terminate bool) directiveFunc {
	return func(a *assembly, l srcLine, dir Token, args []Token) (err error) {
		var data []byte
		expect := true
		for _, tok := range args {
			switch {
			case expect && tok.Kind == TOKEN_STRING:
				data = append(data, tok.Text...)
				if terminate {
					data = append(data, 0)
				}
				expect = false
			case !expect && tok.Is(TOKEN_SEPARATOR, ","):
				expect = true
			default:
				return ErrOperandInvalid
			}
		}
		if expect {
			return ErrOperandMissing
		}

		return a.emitData(data, 1, nil)
	}
}

func (a *assembly) space(l srcLine, dir Token, args []Token) (err error) {
	size, rest, err := parseSigned(args)
	if err != nil {
		return
	}
	if len(rest) != 0 {
		return ErrDirectiveSyntax
	}
	if size < 0 || size > MAX_SPACE {
		return ErrValueRange
	}

	return a.emitData(make([]byte, size), 1, nil)
}

func (a *assembly) align(l srcLine, dir Token, args []Token) (err error) {
	n, rest, err := parseSigned(args)
	if err != nil {
		return
	}
	if len(rest) != 0 {
		return ErrDirectiveSyntax
	}
	if n < 0 || n > 3 {
		return ErrValueRange
	}

	if n == 0 {
		a.autoAlign = false
		return
	}
	a.current.pc = alignUp(a.current.pc, 1<<n)
	return
}

func (a *assembly) globl(l srcLine, dir Token, args []Token) (err error) {
	if len(args) == 0 {
		return ErrOperandMissing
	}
	for _, tok := range args {
		switch tok.Kind {
		case TOKEN_IDENT:
			a.globals[a.file] = append(a.globals[a.file], globalDecl{name: tok.Text, line: l.number})
		case TOKEN_SEPARATOR:
			if tok.Text != "," {
				return ErrDirectiveSyntax
			}
		default:
			return ErrDirectiveSyntax
		}
	}
	return
}

// externDirective reserves a global, word aligned variable in the extern area.
func (a *assembly) externDirective(l srcLine, dir Token, args []Token) (err error) {
	if len(args) < 2 || args[0].Kind != TOKEN_IDENT {
		return ErrDirectiveSyntax
	}
	rest := args[1:]
	if rest[0].Is(TOKEN_SEPARATOR, ",") {
		rest = rest[1:]
	}
	size, rest, err := parseSigned(rest)
	if err != nil {
		return
	}
	if len(rest) != 0 {
		return ErrDirectiveSyntax
	}
	if size <= 0 || size > 0xffff {
		return ErrValueRange
	}

	name := args[0].Text
	if _, ok := a.symbols.Global(name); ok {
		// Repeated .extern declarations share the storage.
		return
	}

	addr := alignUp(a.extern, 4)
	err = a.place(mem.KIND_DATA, addr, uint64(size))
	if err != nil {
		return
	}

	err = a.symbols.Define(Symbol{
		Name:    name,
		Address: addr,
		Segment: mem.KIND_DATA,
		Global:  true,
		File:    a.file,
		Line:    l.number,
	})
	a.extern = addr + uint32(size)
	return
}

// isMacro is true if any arity of name is defined in the current file.
func (a *assembly) isMacro(name string) bool {
	prefix := name + "/"
	for key := range a.macros {
		if strings.HasPrefix(key, prefix) {
			return true
		}
	}
	return false
}

// beginMacro starts recording a macro definition.
func (a *assembly) beginMacro(l srcLine, args []Token) {
	name, params, err := parseMacroHeader(args)
	if err != nil {
		a.fail(l, 0, err)
		return
	}

	if _, ok := a.macros[macroKey(name, len(params))]; ok {
		a.fail(l, args[0].Col, ErrMacroDuplicate)
		return
	}

	a.defining = &Macro{
		Name:   name,
		Args:   params,
		LineNo: l.number,
		labels: map[string]bool{},
	}
}

// defineLine records a line into the macro being defined.
func (a *assembly) defineLine(l srcLine) {
	tokens := l.tokens
	if len(tokens) > 0 && tokens[0].Kind == TOKEN_DIRECTIVE {
		switch tokens[0].Text {
		case ".end_macro", ".endm":
			m := a.defining
			a.macros[macroKey(m.Name, len(m.Args))] = m
			a.defining = nil
			return
		case ".macro":
			a.fail(l, tokens[0].Col, ErrMacroNesting)
			return
		}
	}

	for _, tok := range tokens {
		if tok.Kind != TOKEN_LABEL {
			break
		}
		a.defining.labels[tok.Text] = true
	}

	a.defining.Lines = append(a.defining.Lines, macroLine{Line: l.number, Tokens: tokens})
}

// invoke expands a macro call in place.
func (a *assembly) invoke(l srcLine, head Token, rest []Token) {
	args := splitArgs(rest)
	m, ok := a.macros[macroKey(head.Text, len(args))]
	if !ok {
		a.fail(l, head.Col, ErrMacroArgs)
		return
	}

	if a.depth >= MAX_MACRO_DEPTH {
		a.fail(l, head.Col, ErrMacroDepth)
		return
	}

	a.expanded++
	suffix := fmt.Sprintf("_M%d", a.expanded)

	if a.Verbose {
		log.Printf("asm: %v:%v: expand %v%v", a.file, l.number, m.Name, suffix)
	}

	a.depth++
	defer func() { a.depth-- }()

	for _, line := range m.Lines {
		a.processLine(srcLine{
			number:   l.number,
			text:     l.text,
			tokens:   m.instantiate(line, args, suffix),
			macro:    m,
			bodyLine: line.Line,
		})
	}
}
