package emulator

import (
	"errors"

	"github.com/ezrec/umips/translate"
)

var f = translate.From

var (
	ErrNotLoaded  = errors.New(f("no program loaded"))
	ErrRunning    = errors.New(f("emulator running"))
	ErrHalted     = errors.New(f("program halted"))
	ErrFaulted    = errors.New(f("program faulted"))
	ErrStepLimit  = errors.New(f("step limit reached"))
	ErrBreakpoint = errors.New(f("breakpoint"))
	ErrCommand    = errors.New(f("command unknown"))
)
