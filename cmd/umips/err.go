package main

import (
	"errors"

	"github.com/ezrec/umips/translate"
)

var f = translate.From

var (
	ErrNoSources = errors.New(f("no source files"))
)

// ErrSegment is a segment name that is not in the layout.
type ErrSegment string

func (err ErrSegment) Error() string {
	return f("segment %v unknown", string(err))
}
