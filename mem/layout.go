package mem

import (
	"errors"
	"fmt"
	"iter"
	"maps"
	"slices"
	"strings"
)

// Layout is a memory configuration: the segment map plus the conventional
// addresses the loader and assembler start from.
type Layout struct {
	Name     string
	Segments []Segment

	DataBase         uint32 // Default .data origin.
	ExternBase       uint32 // Default .extern origin.
	GlobalPointer    uint32 // Initial $gp.
	StackPointer     uint32 // Initial $sp.
	ExceptionHandler uint32 // Kernel exception vector.
}

var (
	// LayoutDefault is the classic 32-bit MIPS user/kernel split.
	LayoutDefault = Layout{
		Name: "default",
		Segments: []Segment{
			{Kind: KIND_TEXT, Base: 0x00400000, Limit: 0x0fffffff, Perm: PERM_READ | PERM_EXEC},
			{Kind: KIND_DATA, Base: 0x10000000, Limit: 0x1003ffff, Perm: PERM_READ | PERM_WRITE},
			{Kind: KIND_HEAP, Base: 0x10040000, Limit: 0x6fffffff, Perm: PERM_READ | PERM_WRITE},
			{Kind: KIND_STACK, Base: 0x70000000, Limit: 0x7fffffff, Perm: PERM_READ | PERM_WRITE},
			{Kind: KIND_KTEXT, Base: 0x80000000, Limit: 0x8fffffff, Perm: PERM_READ | PERM_EXEC, Privileged: true},
			{Kind: KIND_KDATA, Base: 0x90000000, Limit: 0xfffeffff, Perm: PERM_READ | PERM_WRITE, Privileged: true},
			{Kind: KIND_MMIO, Base: 0xffff0000, Limit: 0xffffffff, Perm: PERM_READ | PERM_WRITE},
		},
		DataBase:         0x10010000,
		ExternBase:       0x10000000,
		GlobalPointer:    0x10008000,
		StackPointer:     0x7fffeffc,
		ExceptionHandler: 0x80000180,
	}

	// LayoutCompactDataAtZero fits in 32KiB, with data at address zero.
	LayoutCompactDataAtZero = Layout{
		Name: "compact-data-at-zero",
		Segments: []Segment{
			{Kind: KIND_DATA, Base: 0x0000, Limit: 0x1fff, Perm: PERM_READ | PERM_WRITE},
			{Kind: KIND_HEAP, Base: 0x2000, Limit: 0x27ff, Perm: PERM_READ | PERM_WRITE},
			{Kind: KIND_STACK, Base: 0x2800, Limit: 0x2fff, Perm: PERM_READ | PERM_WRITE},
			{Kind: KIND_TEXT, Base: 0x3000, Limit: 0x3fff, Perm: PERM_READ | PERM_EXEC},
			{Kind: KIND_KTEXT, Base: 0x4000, Limit: 0x4fff, Perm: PERM_READ | PERM_EXEC, Privileged: true},
			{Kind: KIND_KDATA, Base: 0x5000, Limit: 0x7eff, Perm: PERM_READ | PERM_WRITE, Privileged: true},
			{Kind: KIND_MMIO, Base: 0x7f00, Limit: 0x7fff, Perm: PERM_READ | PERM_WRITE},
		},
		DataBase:         0x0000,
		ExternBase:       0x1000,
		GlobalPointer:    0x1800,
		StackPointer:     0x2ffc,
		ExceptionHandler: 0x4180,
	}

	// LayoutCompactTextAtZero fits in 32KiB, with text at address zero.
	LayoutCompactTextAtZero = Layout{
		Name: "compact-text-at-zero",
		Segments: []Segment{
			{Kind: KIND_TEXT, Base: 0x0000, Limit: 0x0fff, Perm: PERM_READ | PERM_EXEC},
			{Kind: KIND_DATA, Base: 0x1000, Limit: 0x2fff, Perm: PERM_READ | PERM_WRITE},
			{Kind: KIND_HEAP, Base: 0x3000, Limit: 0x37ff, Perm: PERM_READ | PERM_WRITE},
			{Kind: KIND_STACK, Base: 0x3800, Limit: 0x3fff, Perm: PERM_READ | PERM_WRITE},
			{Kind: KIND_KTEXT, Base: 0x4000, Limit: 0x4fff, Perm: PERM_READ | PERM_EXEC, Privileged: true},
			{Kind: KIND_KDATA, Base: 0x5000, Limit: 0x7eff, Perm: PERM_READ | PERM_WRITE, Privileged: true},
			{Kind: KIND_MMIO, Base: 0x7f00, Limit: 0x7fff, Perm: PERM_READ | PERM_WRITE},
		},
		DataBase:         0x2000,
		ExternBase:       0x1000,
		GlobalPointer:    0x1800,
		StackPointer:     0x3ffc,
		ExceptionHandler: 0x4180,
	}
)

var layouts = map[string]*Layout{
	LayoutDefault.Name:           &LayoutDefault,
	LayoutCompactDataAtZero.Name: &LayoutCompactDataAtZero,
	LayoutCompactTextAtZero.Name: &LayoutCompactTextAtZero,
}

// LayoutByName returns one of the predefined layouts.
// An empty name selects the default layout.
func LayoutByName(name string) (layout *Layout, err error) {
	if name == "" {
		name = LayoutDefault.Name
	}
	layout, ok := layouts[name]
	if !ok {
		err = ErrLayoutUnknown(name)
	}
	return
}

// LayoutNames returns the sorted names of the predefined layouts.
func LayoutNames() []string {
	return slices.Sorted(maps.Keys(layouts))
}

// Segment returns the segment of the given kind.
func (layout *Layout) Segment(kind Kind) (seg Segment) {
	for _, seg = range layout.Segments {
		if seg.Kind == kind {
			return
		}
	}
	return Segment{Kind: kind}
}

// Find returns the segment containing addr.
func (layout *Layout) Find(addr uint32) (seg Segment, ok bool) {
	for _, seg = range layout.Segments {
		if seg.Contains(addr, 1) {
			ok = true
			return
		}
	}
	return
}

// Validate checks that segments are well formed and pairwise disjoint, and
// that the conventional addresses fall in the right segments.
func (layout *Layout) Validate() (err error) {
	var errs []error
	for n, seg := range layout.Segments {
		if seg.Limit < seg.Base {
			errs = append(errs, &ErrLayout{Layout: layout.Name, Kind: seg.Kind, Err: ErrSegmentEmpty})
		}
		for _, other := range layout.Segments[n+1:] {
			if seg.Overlaps(other) {
				errs = append(errs, &ErrLayout{Layout: layout.Name, Kind: seg.Kind, Err: fmt.Errorf("%w %v", ErrSegmentOverlap, other.Kind)})
			}
		}
	}

	check := func(kind Kind, addr uint32) {
		if !layout.Segment(kind).Contains(addr, 1) {
			errs = append(errs, &ErrLayout{Layout: layout.Name, Kind: kind, Err: fmt.Errorf("%w %#08x", ErrSegmentMissing, addr)})
		}
	}
	check(KIND_DATA, layout.DataBase)
	check(KIND_DATA, layout.ExternBase)
	check(KIND_DATA, layout.GlobalPointer)
	check(KIND_STACK, layout.StackPointer)
	check(KIND_KTEXT, layout.ExceptionHandler)

	err = errors.Join(errs...)
	return
}

// Defines returns the layout addresses as assembler equates.
func (layout *Layout) Defines() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		for _, seg := range layout.Segments {
			name := strings.ToUpper(seg.Kind.String())
			if !yield(name+"_BASE", fmt.Sprintf("%#08x", seg.Base)) {
				return
			}
			if !yield(name+"_LIMIT", fmt.Sprintf("%#08x", seg.Limit)) {
				return
			}
		}
		extra := [...]struct {
			name  string
			value uint32
		}{
			{"DATA_ORIGIN", layout.DataBase},
			{"EXTERN_BASE", layout.ExternBase},
			{"GLOBAL_POINTER", layout.GlobalPointer},
			{"STACK_POINTER", layout.StackPointer},
			{"EXCEPTION_HANDLER", layout.ExceptionHandler},
		}
		for _, item := range extra {
			if !yield(item.name, fmt.Sprintf("%#08x", item.value)) {
				return
			}
		}
	}
}
