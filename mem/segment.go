package mem

// Kind is the kind of memory segment.
type Kind int

//go:generate go tool stringer -linecomment -type=Kind
const (
	KIND_TEXT  = Kind(0) // text
	KIND_DATA  = Kind(1) // data
	KIND_HEAP  = Kind(2) // heap
	KIND_STACK = Kind(3) // stack
	KIND_KTEXT = Kind(4) // ktext
	KIND_KDATA = Kind(5) // kdata
	KIND_MMIO  = Kind(6) // mmio
)

// Perm is a set of segment access permissions.
type Perm int

const (
	PERM_READ  = Perm(1 << 0)
	PERM_WRITE = Perm(1 << 1)
	PERM_EXEC  = Perm(1 << 2)
)

// Segment is a named, contiguous address range with uniform permissions.
type Segment struct {
	Kind       Kind
	Base       uint32 // First address.
	Limit      uint32 // Last address, inclusive.
	Perm       Perm
	Privileged bool // Only accessible in kernel mode.
}

// Contains is true if all of [addr, addr+width) lies within the segment.
func (seg Segment) Contains(addr uint32, width int) bool {
	if width <= 0 {
		return false
	}
	last := uint64(addr) + uint64(width) - 1
	return addr >= seg.Base && last <= uint64(seg.Limit)
}

// Size of the segment, in bytes.
func (seg Segment) Size() uint64 {
	return uint64(seg.Limit) - uint64(seg.Base) + 1
}

// Overlaps is true if the two segments share any address.
func (seg Segment) Overlaps(other Segment) bool {
	return seg.Base <= other.Limit && other.Base <= seg.Limit
}
