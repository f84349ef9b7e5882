package io

import (
	"errors"

	"github.com/ezrec/umips/translate"
)

var f = translate.From

var (
	// Console errors
	ErrInputPending = errors.New(f("console input pending"))
	ErrNoOutput     = errors.New(f("console has no output"))
	ErrNoInput      = errors.New(f("console has no input"))
)
