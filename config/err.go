package config

import (
	"errors"

	"github.com/ezrec/umips/translate"
)

var f = translate.From

var (
	ErrMaxSteps = errors.New(f("max_steps must not be negative"))
)

// ErrUndecoded lists settings keys that were not recognized.
type ErrUndecoded []string

func (err ErrUndecoded) Error() string {
	return f("settings keys unknown: %v", []string(err))
}

// ErrBreakpoint is a breakpoint that names neither an address nor a label.
type ErrBreakpoint string

func (err ErrBreakpoint) Error() string {
	return f("breakpoint %v unresolved", string(err))
}
