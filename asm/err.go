package asm

import (
	"errors"
	"strings"

	"github.com/ezrec/umips/isa"
	"github.com/ezrec/umips/translate"
)

var f = translate.From

var (
	// Lexical errors
	ErrTokenInvalid           = errors.New(f("token invalid"))
	ErrStringUnterminated     = errors.New(f("string unterminated"))
	ErrCharacterInvalid       = errors.New(f("character literal invalid"))
	ErrExpressionUnterminated = errors.New(f("$( without )"))
	ErrEscapeInvalid          = errors.New(f("escape sequence invalid"))

	// Syntax errors
	ErrOperandInvalid       = errors.New(f("operands invalid"))
	ErrOperandMissing       = errors.New(f("operand missing"))
	ErrPseudoDisabled       = errors.New(f("pseudo-instructions disabled"))
	ErrDirectiveSyntax      = errors.New(f("directive syntax"))
	ErrDirectiveUnsupported = errors.New(f("directive unsupported"))
	ErrLabelMisplaced       = errors.New(f("label not allowed here"))
	ErrEquateSyntax         = errors.New(f(".eqv syntax"))
	ErrEquateDuplicate      = errors.New(f(".eqv redefined"))
	ErrMacroSyntax          = errors.New(f(".macro syntax"))
	ErrMacroNesting         = errors.New(f(".macro in .macro prohibited"))
	ErrMacroDuplicate       = errors.New(f(".macro duplicated"))
	ErrMacroLonely          = errors.New(f(".macro without .end_macro"))
	ErrMacroLonelyEnd       = errors.New(f(".end_macro without .macro"))
	ErrMacroDepth           = errors.New(f("macro expansion too deep"))
	ErrMacroArgs            = errors.New(f("macro argument count"))

	// Range errors
	ErrValueRange  = errors.New(f("value out of range"))
	ErrBranchRange = errors.New(f("branch target out of range"))
	ErrJumpRegion  = errors.New(f("jump target outside 256MiB region"))
	ErrAlignment   = errors.New(f("target not word aligned"))

	// Segment errors
	ErrSegmentBounds  = errors.New(f("outside of segment"))
	ErrSegmentOverlap = errors.New(f("overlaps earlier item"))
	ErrDataInText     = errors.New(f("data directive in text segment"))
	ErrCodeInData     = errors.New(f("instruction in data segment"))

	// Warnings
	ErrSetIgnored      = errors.New(f(".set ignored"))
	ErrGlobalUndefined = errors.New(f(".globl of undefined label"))
	ErrMainMissing     = errors.New(f("global main missing"))
)

type ErrMnemonicUnknown string

func (err ErrMnemonicUnknown) Error() string {
	return f("'%v' is not an instruction or macro", string(err))
}

type ErrDirectiveUnknown string

func (err ErrDirectiveUnknown) Error() string {
	return f("'%v' is not a directive", string(err))
}

type ErrNumber string

func (err ErrNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

type ErrRegister string

func (err ErrRegister) Error() string {
	return f("'%v' is not a register", string(err))
}

type ErrSymbolUndefined string

func (err ErrSymbolUndefined) Error() string {
	return f("symbol %v undefined", string(err))
}

type ErrSymbolDuplicate string

func (err ErrSymbolDuplicate) Error() string {
	return f("symbol %v duplicated", string(err))
}

type ErrExpression struct {
	Expr string
	Err  error
}

func (err *ErrExpression) Error() string {
	if err.Err != nil {
		return f("$(%v) is not a valid expression: %v", err.Expr, err.Err)
	}
	return f("$(%v) is not a valid expression", err.Expr)
}

func (err *ErrExpression) Unwrap() error {
	return err.Err
}

type ErrMacro struct {
	Macro string
	Line  int
	Err   error
}

func (err *ErrMacro) Error() string {
	return f("macro %v line %v %v", err.Macro, err.Line, err.Err.Error())
}

func (err *ErrMacro) Unwrap() error {
	return err.Err
}

// ErrorKind classifies an assembly diagnostic.
type ErrorKind int

//go:generate go tool stringer -linecomment -type=ErrorKind
const (
	ERROR_LEXICAL = ErrorKind(0) // lexical
	ERROR_SYNTAX  = ErrorKind(1) // syntax
	ERROR_SYMBOL  = ErrorKind(2) // symbol
	ERROR_RANGE   = ErrorKind(3) // range
	ERROR_SEGMENT = ErrorKind(4) // segment
	ERROR_WARNING = ErrorKind(5) // warning
)

// Error is a diagnostic located in a source file.
type Error struct {
	File string
	Line int
	Col  int // Zero if unknown.
	Kind ErrorKind
	Err  error
}

func (err *Error) Error() string {
	if err.Col > 0 {
		return f("%v:%d:%d: %v: %v", err.File, err.Line, err.Col, err.Kind, err.Err)
	}
	return f("%v:%d: %v: %v", err.File, err.Line, err.Kind, err.Err)
}

func (err *Error) Unwrap() error {
	return err.Err
}

// ErrorList is every diagnostic of a failed assembly, in source order.
type ErrorList []*Error

func (list ErrorList) Error() string {
	lines := make([]string, len(list))
	for n, err := range list {
		lines[n] = err.Error()
	}
	return strings.Join(lines, "\n")
}

func (list ErrorList) Unwrap() []error {
	errs := make([]error, len(list))
	for n, err := range list {
		errs[n] = err
	}
	return errs
}

// Kinds returns the error kinds present in the list.
func (list ErrorList) Kinds() (kinds []ErrorKind) {
	seen := map[ErrorKind]bool{}
	for _, err := range list {
		if !seen[err.Kind] {
			seen[err.Kind] = true
			kinds = append(kinds, err.Kind)
		}
	}
	return
}

// kindOf picks the error kind of an untyped error.
func kindOf(err error) ErrorKind {
	var asmErr *Error
	switch {
	case errors.As(err, &asmErr):
		return asmErr.Kind
	case errors.Is(err, ErrValueRange), errors.Is(err, ErrBranchRange),
		errors.Is(err, ErrJumpRegion), errors.Is(err, ErrAlignment):
		return ERROR_RANGE
	case errors.Is(err, ErrSegmentBounds), errors.Is(err, ErrSegmentOverlap),
		errors.Is(err, ErrDataInText), errors.Is(err, ErrCodeInData):
		return ERROR_SEGMENT
	}

	var fieldRange *isa.ErrFieldRange
	if errors.As(err, &fieldRange) {
		return ERROR_RANGE
	}

	var undefined ErrSymbolUndefined
	var duplicate ErrSymbolDuplicate
	if errors.As(err, &undefined) || errors.As(err, &duplicate) {
		return ERROR_SYMBOL
	}

	var number ErrNumber
	var register ErrRegister
	if errors.As(err, &number) || errors.As(err, &register) ||
		errors.Is(err, ErrTokenInvalid) || errors.Is(err, ErrStringUnterminated) ||
		errors.Is(err, ErrCharacterInvalid) || errors.Is(err, ErrExpressionUnterminated) ||
		errors.Is(err, ErrEscapeInvalid) {
		return ERROR_LEXICAL
	}

	return ERROR_SYNTAX
}
