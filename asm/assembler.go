// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package asm

import (
	"bufio"
	"cmp"
	"errors"
	"io"
	"iter"
	"log"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/ezrec/umips/internal"
	"github.com/ezrec/umips/isa"
	"github.com/ezrec/umips/mem"
	"github.com/ezrec/umips/syscalls"
)

// Source is one named assembly source file.
type Source struct {
	Name  string
	Input io.Reader
}

// Assembler is a two pass macro assembler for MIPS32.
type Assembler struct {
	Verbose           bool        // If set, verbosely logs the assembler actions.
	Layout            *mem.Layout // Memory layout; the default layout if nil.
	ExtendedAssembler bool        // Allow pseudo-instructions.
	WarningsAreErrors bool        // Fail assembly on any warning.
	StartAtMain       bool        // Enter at the global 'main' label.

	predefine map[string]string
}

// NewAssembler creates an assembler with pseudo-instructions enabled.
func NewAssembler() *Assembler {
	return &Assembler{
		ExtendedAssembler: true,
	}
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

func (asm *Assembler) layout() *mem.Layout {
	if asm.Layout == nil {
		return &mem.LayoutDefault
	}
	return asm.Layout
}

// Defines returns every predefined equate: the layout addresses, the
// syscall numbers, and anything given to Predefine.
func (asm *Assembler) Defines() iter.Seq2[string, string] {
	return internal.IterSeq2Sorted(internal.IterSeq2Concat(
		asm.layout().Defines(),
		syscalls.Defines(),
		maps.All(asm.predefine),
	))
}

// AssembleString assembles a single source text.
func (asm *Assembler) AssembleString(text string) (prog *Program, err error) {
	return asm.Assemble(Source{Name: "<string>", Input: strings.NewReader(text)})
}

// Assemble translates the sources into a program image. Every source shares
// the location counters, in order. On failure, err is an ErrorList.
func (asm *Assembler) Assemble(files ...Source) (prog *Program, err error) {
	a := newAssembly(asm)

	for _, file := range files {
		err = a.pass1(file)
		if err != nil {
			return
		}
	}

	a.promote()
	words := a.pass2()
	prog = a.program(words)

	errs := a.errors
	if asm.WarningsAreErrors {
		errs = append(errs, a.warnings...)
	}
	if len(errs) > 0 {
		slices.SortStableFunc(errs, func(x, y *Error) int {
			return cmp.Or(cmp.Compare(a.fileOrder[x.File], a.fileOrder[y.File]), cmp.Compare(x.Line, y.Line))
		})
		prog = nil
		err = errs
	}

	return
}

// srcLine is a line being assembled. Lines expanded from a macro keep the
// invoking line's number and text.
type srcLine struct {
	number   int
	text     string
	tokens   []Token
	macro    *Macro
	bodyLine int
}

type section struct {
	kind mem.Kind
	pc   uint32
}

type span struct {
	start uint64
	end   uint64
}

type fixup struct {
	chunk  int
	offset int
	width  int
	value  PendingSymbol
	file   string
	line   int
}

type pendingLabel struct {
	name string
	line int
	col  int
}

type globalDecl struct {
	name string
	line int
}

// assembly is the state of one Assemble call.
type assembly struct {
	*Assembler
	layout *mem.Layout

	errors    ErrorList
	warnings  []*Error
	fileOrder map[string]int

	symbols *SymbolTable
	globals map[string][]globalDecl

	file     string
	predef   map[string][]Token
	equates  map[string][]Token
	macros   map[string]*Macro
	defining *Macro
	depth    int
	expanded int

	sections  map[mem.Kind]*section
	current   *section
	extern    uint32
	autoAlign bool
	pending   []pendingLabel

	spans      map[mem.Kind][]span
	statements []Statement
	chunks     []Chunk
	fixups     []fixup
}

func newAssembly(asm *Assembler) (a *assembly) {
	layout := asm.layout()

	a = &assembly{
		Assembler: asm,
		layout:    layout,
		fileOrder: map[string]int{},
		symbols:   NewSymbolTable(),
		globals:   map[string][]globalDecl{},
		predef:    map[string][]Token{},
		sections:  map[mem.Kind]*section{},
		extern:    layout.ExternBase,
		spans:     map[mem.Kind][]span{},
	}

	a.sections[mem.KIND_TEXT] = &section{kind: mem.KIND_TEXT, pc: layout.Segment(mem.KIND_TEXT).Base}
	a.sections[mem.KIND_DATA] = &section{kind: mem.KIND_DATA, pc: layout.DataBase}
	a.sections[mem.KIND_KTEXT] = &section{kind: mem.KIND_KTEXT, pc: layout.Segment(mem.KIND_KTEXT).Base}
	a.sections[mem.KIND_KDATA] = &section{kind: mem.KIND_KDATA, pc: layout.Segment(mem.KIND_KDATA).Base}
	a.current = a.sections[mem.KIND_TEXT]

	for name, value := range asm.Defines() {
		tokens, err := Lex(value, 0)
		if err != nil {
			continue
		}
		a.predef[name] = tokens
	}

	return
}

// fail records an error on a line.
func (a *assembly) fail(l srcLine, col int, err error) {
	if l.macro != nil {
		err = &ErrMacro{Macro: l.macro.Name, Line: l.bodyLine, Err: err}
		col = 0
	}
	a.errors = append(a.errors, &Error{File: a.file, Line: l.number, Col: col, Kind: kindOf(err), Err: err})
}

// warn records a warning on a line.
func (a *assembly) warn(l srcLine, col int, err error) {
	a.warnings = append(a.warnings, &Error{File: a.file, Line: l.number, Col: col, Kind: ERROR_WARNING, Err: err})
}

// pass1 reads a source file, expanding and placing every item.
func (a *assembly) pass1(file Source) (err error) {
	a.file = file.Name
	if _, ok := a.fileOrder[file.Name]; !ok {
		a.fileOrder[file.Name] = len(a.fileOrder)
	}
	a.equates = maps.Clone(a.predef)
	a.macros = map[string]*Macro{}
	a.defining = nil
	a.autoAlign = true

	scanner := bufio.NewScanner(file.Input)

	lineno := 0
	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if a.Verbose {
			log.Printf("asm: %v:%v: %v", file.Name, lineno, text)
		}

		l := srcLine{number: lineno, text: strings.TrimSpace(text)}
		tokens, lerr := Lex(text, lineno)
		if lerr != nil {
			var asmErr *Error
			if errors.As(lerr, &asmErr) {
				asmErr.File = a.file
				a.errors = append(a.errors, asmErr)
			} else {
				a.fail(l, 0, lerr)
			}
			continue
		}

		l.tokens = tokens
		a.processLine(l)
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	if a.defining != nil {
		a.fail(srcLine{number: a.defining.LineNo}, 0, ErrMacroLonely)
		a.defining = nil
	}

	a.bind(a.current.pc)
	return
}

// processLine assembles one logical line.
func (a *assembly) processLine(l srcLine) {
	tokens := l.tokens

	if a.defining != nil {
		a.defineLine(l)
		return
	}

	if len(tokens) == 0 {
		return
	}

	if tokens[0].Kind == TOKEN_DIRECTIVE {
		switch tokens[0].Text {
		case ".eqv", ".equ":
			a.defineEquate(l, tokens[1:])
			return
		case ".macro":
			a.beginMacro(l, tokens[1:])
			return
		case ".end_macro", ".endm":
			a.fail(l, tokens[0].Col, ErrMacroLonelyEnd)
			return
		}
	}

	tokens, err := a.expand(l, tokens)
	if err != nil {
		return
	}

	for len(tokens) > 0 && tokens[0].Kind == TOKEN_LABEL {
		a.addLabel(l, tokens[0])
		tokens = tokens[1:]
	}

	if len(tokens) == 0 {
		return
	}

	head := tokens[0]
	switch head.Kind {
	case TOKEN_DIRECTIVE:
		a.directive(l, head, tokens[1:])
	case TOKEN_IDENT:
		if a.isMacro(head.Text) {
			a.invoke(l, head, tokens[1:])
		} else {
			a.instruction(l, head, tokens[1:])
		}
	default:
		a.fail(l, head.Col, ErrMnemonicUnknown(head.Text))
	}
}

// expand substitutes equates and evaluates $(...) expressions.
func (a *assembly) expand(l srcLine, tokens []Token) (out []Token, err error) {
	for _, tok := range tokens {
		switch tok.Kind {
		case TOKEN_IDENT:
			if tok.Text == "LINENO" {
				out = append(out, Token{Kind: TOKEN_INTEGER, Text: strconv.Itoa(l.number), Line: tok.Line, Col: tok.Col})
				continue
			}
			value, ok := a.equates[tok.Text]
			if ok {
				for _, sub := range value {
					sub.Line, sub.Col = tok.Line, tok.Col
					out = append(out, sub)
				}
				continue
			}
		case TOKEN_EXPRESSION:
			var v int64
			v, err = evaluate(tok.Text, a.integers(l))
			if err != nil {
				a.fail(l, tok.Col, err)
				return
			}
			if v < 0 {
				out = append(out, Token{Kind: TOKEN_OPERATOR, Text: "-", Line: tok.Line, Col: tok.Col})
				v = -v
			}
			out = append(out, Token{Kind: TOKEN_INTEGER, Text: strconv.FormatInt(v, 10), Line: tok.Line, Col: tok.Col})
			continue
		}
		out = append(out, tok)
	}
	return
}

// integers returns the integer-valued names visible to an expression.
func (a *assembly) integers(l srcLine) (ints map[string]int64) {
	ints = map[string]int64{}
	for name, addr := range a.symbols.Visible(a.file) {
		ints[name] = int64(addr)
	}
	for name, tokens := range a.equates {
		value, rest, err := parseSigned(tokens)
		if err == nil && len(rest) == 0 {
			ints[name] = value
		}
	}
	ints["LINENO"] = int64(l.number)
	return
}

// defineEquate handles ".eqv NAME tokens...".
func (a *assembly) defineEquate(l srcLine, tokens []Token) {
	if len(tokens) < 2 || tokens[0].Kind != TOKEN_IDENT {
		col := 0
		if len(tokens) > 0 {
			col = tokens[0].Col
		}
		a.fail(l, col, ErrEquateSyntax)
		return
	}

	name := tokens[0].Text
	if _, ok := a.equates[name]; ok {
		a.fail(l, tokens[0].Col, ErrEquateDuplicate)
		return
	}

	value, err := a.expand(l, tokens[1:])
	if err != nil {
		return
	}
	a.equates[name] = value
}

// addLabel queues a label for binding to the next emitted item.
func (a *assembly) addLabel(l srcLine, tok Token) {
	_, defined := a.symbols.local[a.file][tok.Text]
	for _, p := range a.pending {
		if p.name == tok.Text {
			defined = true
		}
	}
	if defined {
		a.fail(l, tok.Col, ErrSymbolDuplicate(tok.Text))
		return
	}
	a.pending = append(a.pending, pendingLabel{name: tok.Text, line: l.number, col: tok.Col})
}

// bind defines the pending labels at addr, in the current section.
func (a *assembly) bind(addr uint32) {
	for _, p := range a.pending {
		sym := Symbol{
			Name:    p.name,
			Address: addr,
			Segment: a.current.kind,
			File:    a.file,
			Line:    p.line,
		}
		err := a.symbols.Define(sym)
		if err != nil {
			a.fail(srcLine{number: p.line}, p.col, err)
		}
	}
	a.pending = a.pending[:0]
}

// place claims [addr, addr+size) in the current section's segment.
func (a *assembly) place(kind mem.Kind, addr uint32, size uint64) (err error) {
	if size == 0 {
		return
	}

	seg := a.layout.Segment(kind)
	start := uint64(addr)
	end := start + size
	if start < uint64(seg.Base) || end-1 > uint64(seg.Limit) {
		err = ErrSegmentBounds
		return
	}

	spans := a.spans[kind]
	for _, sp := range spans {
		if start < sp.end && sp.start < end {
			err = ErrSegmentOverlap
			return
		}
	}

	if n := len(spans); n > 0 && spans[n-1].end == start {
		spans[n-1].end = end
	} else {
		spans = append(spans, span{start: start, end: end})
	}
	a.spans[kind] = spans
	return
}

func alignUp(addr uint32, align uint32) uint32 {
	return (addr + align - 1) &^ (align - 1)
}

func (a *assembly) inText() bool {
	return a.current.kind == mem.KIND_TEXT || a.current.kind == mem.KIND_KTEXT
}

// instruction assembles a real or pseudo instruction.
func (a *assembly) instruction(l srcLine, mnemonic Token, rest []Token) {
	if !a.inText() {
		a.fail(l, mnemonic.Col, ErrCodeInData)
		return
	}

	name := strings.ToLower(mnemonic.Text)
	ops, err := parseOperands(rest)
	if err != nil {
		col := mnemonic.Col
		if len(rest) > 0 {
			col = rest[0].Col
		}
		a.fail(l, col, err)
		return
	}

	a.current.pc = alignUp(a.current.pc, 4)
	addr := a.current.pc
	shapes := Shapes(ops)

	var specs []*isa.Spec
	var values [][]Value

	spec, isReal := isa.ByMnemonic(name)
	pseudo, isPseudo := LookupPseudo(name, shapes)
	switch {
	case isReal && slices.ContainsFunc(syntaxPatterns(spec), func(p Pattern) bool { return p.Match(shapes) }):
		var vals []Value
		vals, err = realValues(spec, ops, addr)
		if err != nil {
			a.fail(l, mnemonic.Col, err)
			return
		}
		specs = []*isa.Spec{spec}
		values = [][]Value{vals}
	case isPseudo && !a.ExtendedAssembler:
		a.fail(l, mnemonic.Col, ErrPseudoDisabled)
		return
	case isPseudo:
		specs, values = pseudo.Expand(ops)
	case a.rangeMismatch(name, shapes):
		a.fail(l, mnemonic.Col, ErrValueRange)
		return
	case isReal || IsPseudo(name):
		a.fail(l, mnemonic.Col, ErrOperandInvalid)
		return
	default:
		a.fail(l, mnemonic.Col, ErrMnemonicUnknown(mnemonic.Text))
		return
	}

	a.bind(addr)
	size := uint64(4 * len(specs))
	err = a.place(a.current.kind, addr, size)
	if err != nil {
		a.fail(l, mnemonic.Col, err)
	}

	for n, used := range specs {
		a.statements = append(a.statements, Statement{
			Spec:     used,
			Operands: values[n],
			Address:  addr + uint32(4*n),
			File:     a.file,
			Line:     l.number,
			Source:   l.text,
		})
	}

	a.current.pc = uint32(uint64(addr) + size)
}

// rangeMismatch is true if the operands would match an instruction form
// but for the range of an immediate.
func (a *assembly) rangeMismatch(name string, shapes string) bool {
	sig := kindSignature(shapes)

	var patterns []Pattern
	if spec, ok := isa.ByMnemonic(name); ok {
		patterns = append(patterns, syntaxPatterns(spec)...)
	}
	for _, p := range pseudoByMnemonic[name] {
		patterns = append(patterns, p.Patterns...)
	}

	for _, pattern := range patterns {
		for _, candidate := range expandPattern(pattern) {
			if kindSignature(candidate) == sig {
				return true
			}
		}
	}
	return false
}

// expandPattern lists every shape string a pattern matches.
func expandPattern(pattern Pattern) (all []string) {
	if pattern == "" {
		return []string{""}
	}
	for _, ops := range sampleOperands(splitPattern(pattern)) {
		all = append(all, Shapes(ops))
	}
	return
}

// pass2 resolves every pending symbol and encodes the instructions.
func (a *assembly) pass2() (words []Word) {
	for _, stmt := range a.statements {
		a.file = stmt.File
		l := srcLine{number: stmt.Line}

		fields := make([]int64, len(stmt.Operands))
		ok := true
		for n, value := range stmt.Operands {
			v, err := a.resolve(value, stmt.File, stmt.Address, stmt.Spec.Imm == isa.IMM_SIGNED)
			if err != nil {
				a.fail(l, 0, err)
				ok = false
				continue
			}
			fields[n] = v
		}
		if !ok {
			continue
		}

		inst := build(stmt.Spec, fields)
		word, err := isa.Encode(inst)
		if err != nil {
			a.fail(l, 0, err)
			continue
		}

		words = append(words, Word{
			Address: stmt.Address,
			Value:   word,
			File:    stmt.File,
			Line:    stmt.Line,
			Source:  stmt.Source,
		})
	}

	for _, fix := range a.fixups {
		a.file = fix.file
		v, err := a.resolve(fix.value, fix.file, a.chunks[fix.chunk].Address+uint32(fix.offset), false)
		if err != nil {
			a.fail(srcLine{number: fix.line}, 0, err)
			continue
		}
		buf := a.chunks[fix.chunk].Bytes[fix.offset:]
		switch fix.width {
		case 1:
			buf[0] = byte(v)
		case 2:
			mem.ByteOrder.PutUint16(buf, uint16(v))
		default:
			mem.ByteOrder.PutUint32(buf, uint32(v))
		}
	}

	return
}

// resolve computes the final field value of an operand.
func (a *assembly) resolve(value Value, file string, addr uint32, signed bool) (v int64, err error) {
	switch value := value.(type) {
	case Resolved:
		v = int64(value)
	case PendingSymbol:
		sym, ok := a.symbols.Lookup(file, value.Name)
		if !ok {
			err = ErrSymbolUndefined(value.Name)
			return
		}
		target := uint32(int64(sym.Address) + value.Addend)
		v, err = relocate(value.Reloc, target, addr)
		if err == nil && value.Reloc == RELOC_LO && signed {
			v = int64(int16(v))
		}
	}
	return
}

// promote moves every .globl label into the global scope.
func (a *assembly) promote() {
	for _, file := range slices.Sorted(maps.Keys(a.globals)) {
		a.file = file
		for _, decl := range a.globals[file] {
			l := srcLine{number: decl.line}
			if _, ok := a.symbols.local[file][decl.name]; ok {
				err := a.symbols.Promote(file, decl.name)
				if err != nil {
					a.fail(l, 0, err)
				}
				continue
			}
			if _, ok := a.symbols.Global(decl.name); !ok {
				a.warn(l, 0, ErrGlobalUndefined)
			}
		}
	}
}

// program builds the image from the encoded words and data.
func (a *assembly) program(words []Word) (prog *Program) {
	text := a.layout.Segment(mem.KIND_TEXT)

	prog = &Program{
		Layout:     a.layout,
		Entry:      text.Base,
		TextEnd:    text.Base,
		Symbols:    a.symbols.All(),
		Statements: a.statements,
	}

	slices.SortStableFunc(words, func(x, y Word) int { return cmp.Compare(x.Address, y.Address) })
	prog.Text = words
	for _, sp := range a.spans[mem.KIND_TEXT] {
		if end := uint32(sp.end); sp.end > uint64(prog.TextEnd) {
			prog.TextEnd = end
		}
	}

	chunks := slices.Clone(a.chunks)
	slices.SortStableFunc(chunks, func(x, y Chunk) int { return cmp.Compare(x.Address, y.Address) })
	for _, chunk := range chunks {
		if len(chunk.Bytes) == 0 {
			continue
		}
		n := len(prog.Data)
		if n > 0 && prog.Data[n-1].Address+uint32(len(prog.Data[n-1].Bytes)) == chunk.Address {
			prog.Data[n-1].Bytes = append(prog.Data[n-1].Bytes, chunk.Bytes...)
			continue
		}
		prog.Data = append(prog.Data, Chunk{Address: chunk.Address, Bytes: slices.Clone(chunk.Bytes)})
	}

	if a.StartAtMain {
		main, ok := a.symbols.Global("main")
		if ok {
			prog.Entry = main.Address
		} else {
			a.file = ""
			a.warnings = append(a.warnings, &Error{Kind: ERROR_WARNING, Err: ErrMainMissing})
		}
	}

	prog.Warnings = a.warnings
	return
}
