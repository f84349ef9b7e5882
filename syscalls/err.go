package syscalls

import (
	"errors"

	"github.com/ezrec/umips/translate"
)

var f = translate.From

var (
	ErrUnknown         = errors.New(f("service unknown"))
	ErrNoConsole       = errors.New(f("no console attached"))
	ErrHeapExhausted   = errors.New(f("heap exhausted"))
	ErrNegativeSbrk    = errors.New(f("negative sbrk"))
	ErrNotInteger      = errors.New(f("input not an integer"))
	ErrStringUnbounded = errors.New(f("string not terminated"))
)

// Error is a failed syscall.
type Error struct {
	Number Number
	Err    error
}

func (err *Error) Error() string {
	return f("syscall %d (%v): %v", int(err.Number), err.Number, err.Err)
}

func (err *Error) Unwrap() error {
	return err.Err
}
