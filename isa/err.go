package isa

import (
	"errors"

	"github.com/ezrec/umips/translate"
)

var f = translate.From

var (
	ErrInvalidOpcode   = errors.New(f("invalid opcode"))
	ErrRange           = errors.New(f("operand out of range"))
	ErrRegisterInvalid = errors.New(f("register invalid"))
)

// ErrDecode is returned for a word that is not a known instruction.
type ErrDecode struct {
	Word uint32
}

func (err *ErrDecode) Error() string {
	return f("invalid opcode %#08x", err.Word)
}

func (err *ErrDecode) Unwrap() error {
	return ErrInvalidOpcode
}

// ErrOp is returned when encoding an Op with no table entry.
type ErrOp struct {
	Op Op
}

func (err *ErrOp) Error() string {
	return f("invalid op %v", int(err.Op))
}

func (err *ErrOp) Unwrap() error {
	return ErrInvalidOpcode
}

// ErrFieldRange is returned when an operand does not fit its field.
type ErrFieldRange struct {
	Field string
	Value int64
	Min   int64
	Max   int64
}

func (err *ErrFieldRange) Error() string {
	return f("%v %v out of range [%v, %v]", err.Field, err.Value, err.Min, err.Max)
}

func (err *ErrFieldRange) Unwrap() error {
	return ErrRange
}
