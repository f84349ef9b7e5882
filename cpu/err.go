package cpu

import (
	"errors"

	"github.com/ezrec/umips/translate"
)

var f = translate.From

var (
	ErrOverflow   = errors.New(f("arithmetic overflow"))
	ErrTrap       = errors.New(f("trap"))
	ErrBreak      = errors.New(f("break"))
	ErrSyscall    = errors.New(f("syscall"))
	ErrNoMemory   = errors.New(f("no memory attached"))
	ErrNotSyscall = errors.New(f("not stopped at a syscall"))
)

type ErrRegisterIndex int

func (err ErrRegisterIndex) Error() string {
	return f("register index %d invalid", int(err))
}

type ErrRegisterName string

func (err ErrRegisterName) Error() string {
	return f("register %v unknown", string(err))
}
