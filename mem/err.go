package mem

import (
	"errors"

	"github.com/ezrec/umips/translate"
)

var f = translate.From

var (
	ErrSegmentEmpty   = errors.New(f("segment empty"))
	ErrSegmentOverlap = errors.New(f("segment overlaps"))
	ErrSegmentMissing = errors.New(f("segment does not contain"))
	ErrWidth          = errors.New(f("access width invalid"))
	ErrDumpFormat     = errors.New(f("dump format unknown"))
)

// Access is the kind of memory access that faulted.
type Access int

//go:generate go tool stringer -linecomment -type=Access
const (
	ACCESS_FETCH = Access(0) // fetch
	ACCESS_LOAD  = Access(1) // load
	ACCESS_STORE = Access(2) // store
)

// Reason is why a memory access faulted.
type Reason int

//go:generate go tool stringer -linecomment -type=Reason
const (
	REASON_UNMAPPED   = Reason(0) // unmapped
	REASON_UNALIGNED  = Reason(1) // unaligned
	REASON_PERMISSION = Reason(2) // permission
)

// AddressError is a faulting memory access.
type AddressError struct {
	Addr   uint32
	Width  int
	Access Access
	Reason Reason
}

func (err *AddressError) Error() string {
	return f("%v %v of %v bytes at %#08x", err.Reason, err.Access, err.Width, err.Addr)
}

// ErrLayout is a layout validation failure for one segment.
type ErrLayout struct {
	Layout string
	Kind   Kind
	Err    error
}

func (err *ErrLayout) Error() string {
	return f("layout %v segment %v: %v", err.Layout, err.Kind, err.Err)
}

func (err *ErrLayout) Unwrap() error {
	return err.Err
}

type ErrLayoutUnknown string

func (err ErrLayoutUnknown) Error() string {
	return f("layout %v unknown", string(err))
}
