package mem

import (
	"encoding/binary"
	"iter"
	"maps"
	"slices"
)

const (
	PAGE_SHIFT = 12
	PAGE_SIZE  = 1 << PAGE_SHIFT
	PAGE_MASK  = PAGE_SIZE - 1
)

// ByteOrder of all multi-byte values in memory.
var ByteOrder = binary.LittleEndian

type page [PAGE_SIZE]byte

// Memory is a sparse, byte-addressable 32-bit address space, divided into
// the segments of a Layout. Pages are allocated on first write; unwritten
// mapped memory reads as zero.
type Memory struct {
	Layout            *Layout
	SelfModifyingCode bool // Allow user stores into the text segment.

	pages map[uint32]*page
}

// NewMemory creates an empty memory with the given layout.
func NewMemory(layout *Layout) *Memory {
	return &Memory{
		Layout: layout,
		pages:  map[uint32]*page{},
	}
}

// Reset discards all memory contents.
func (m *Memory) Reset() {
	clear(m.pages)
}

// Clone returns an independent deep copy.
func (m *Memory) Clone() (clone *Memory) {
	clone = NewMemory(m.Layout)
	clone.SelfModifyingCode = m.SelfModifyingCode
	for index, pg := range m.pages {
		copied := *pg
		clone.pages[index] = &copied
	}
	return
}

func validWidth(width int) bool {
	return width == 1 || width == 2 || width == 4
}

// check validates an access before any byte is touched.
func (m *Memory) check(addr uint32, width int, access Access, kernel bool, perms bool) (err error) {
	fault := func(reason Reason) error {
		return &AddressError{Addr: addr, Width: width, Access: access, Reason: reason}
	}

	if !validWidth(width) {
		return ErrWidth
	}

	if addr%uint32(width) != 0 {
		return fault(REASON_UNALIGNED)
	}

	seg, ok := m.Layout.Find(addr)
	if !ok || !seg.Contains(addr, width) {
		return fault(REASON_UNMAPPED)
	}

	if !perms {
		return
	}

	if seg.Privileged && !kernel {
		return fault(REASON_PERMISSION)
	}

	switch access {
	case ACCESS_FETCH:
		if seg.Perm&PERM_EXEC == 0 {
			return fault(REASON_PERMISSION)
		}
	case ACCESS_LOAD:
		if seg.Perm&PERM_READ == 0 {
			return fault(REASON_PERMISSION)
		}
	case ACCESS_STORE:
		writable := seg.Perm&PERM_WRITE != 0
		if seg.Perm&PERM_EXEC != 0 && m.SelfModifyingCode {
			writable = true
		}
		if !writable {
			return fault(REASON_PERMISSION)
		}
	}

	return
}

func (m *Memory) get(addr uint32, buf []byte) {
	for n := range buf {
		a := addr + uint32(n)
		pg, ok := m.pages[a>>PAGE_SHIFT]
		if ok {
			buf[n] = pg[a&PAGE_MASK]
		} else {
			buf[n] = 0
		}
	}
}

func (m *Memory) set(addr uint32, data []byte) {
	for n, b := range data {
		a := addr + uint32(n)
		pg, ok := m.pages[a>>PAGE_SHIFT]
		if !ok {
			if b == 0 {
				continue
			}
			pg = &page{}
			m.pages[a>>PAGE_SHIFT] = pg
		}
		pg[a&PAGE_MASK] = b
	}
}

// Read returns width bytes at addr, for inspection. Privilege is not checked.
func (m *Memory) Read(addr uint32, width int) (data []byte, err error) {
	err = m.check(addr, width, ACCESS_LOAD, true, false)
	if err != nil {
		return
	}
	data = make([]byte, width)
	m.get(addr, data)
	return
}

// Write stores width bytes at addr on behalf of a user-mode front end.
func (m *Memory) Write(addr uint32, width int, data []byte) (err error) {
	if len(data) != width {
		return ErrWidth
	}
	err = m.check(addr, width, ACCESS_STORE, false, true)
	if err != nil {
		return
	}
	m.set(addr, data)
	return
}

// Load reads an unsigned 1, 2 or 4 byte value for the CPU.
func (m *Memory) Load(addr uint32, width int, kernel bool) (value uint32, err error) {
	err = m.check(addr, width, ACCESS_LOAD, kernel, true)
	if err != nil {
		return
	}
	var buf [4]byte
	m.get(addr, buf[:width])
	value = ByteOrder.Uint32(buf[:])
	return
}

// Store writes the low width bytes of value for the CPU.
func (m *Memory) Store(addr uint32, width int, value uint32, kernel bool) (err error) {
	err = m.check(addr, width, ACCESS_STORE, kernel, true)
	if err != nil {
		return
	}
	var buf [4]byte
	ByteOrder.PutUint32(buf[:], value)
	m.set(addr, buf[:width])
	return
}

// Fetch reads an instruction word.
func (m *Memory) Fetch(addr uint32, kernel bool) (word uint32, err error) {
	err = m.check(addr, 4, ACCESS_FETCH, kernel, true)
	if err != nil {
		return
	}
	var buf [4]byte
	m.get(addr, buf[:])
	word = ByteOrder.Uint32(buf[:])
	return
}

// CheckRange verifies that every byte of [addr, addr+size) could be
// accessed, without touching memory.
func (m *Memory) CheckRange(addr uint32, size uint32, access Access, kernel bool) (err error) {
	last := uint64(addr) + uint64(size)
	for at := uint64(addr); at < last; {
		if at > 0xffffffff {
			return &AddressError{Addr: 0, Width: 1, Access: access, Reason: REASON_UNMAPPED}
		}
		err = m.check(uint32(at), 1, access, kernel, true)
		if err != nil {
			return
		}
		seg, _ := m.Layout.Find(uint32(at))
		at = uint64(seg.Limit) + 1
	}
	return
}

// Poke writes data for the program loader. Every byte must be mapped, but
// neither alignment nor permissions are checked.
func (m *Memory) Poke(addr uint32, data []byte) (err error) {
	for n := range data {
		a := addr + uint32(n)
		if _, ok := m.Layout.Find(a); !ok {
			return &AddressError{Addr: a, Width: 1, Access: ACCESS_STORE, Reason: REASON_UNMAPPED}
		}
	}
	m.set(addr, data)
	return
}

// Peek reads bytes for inspection without any checks; unmapped bytes read
// as zero.
func (m *Memory) Peek(addr uint32, data []byte) {
	m.get(addr, data)
}

// Pages iterates the allocated page base addresses, in order.
func (m *Memory) Pages() iter.Seq[uint32] {
	return func(yield func(uint32) bool) {
		for _, index := range slices.Sorted(maps.Keys(m.pages)) {
			if !yield(index << PAGE_SHIFT) {
				return
			}
		}
	}
}
