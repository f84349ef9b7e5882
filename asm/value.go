package asm

// Reloc is how a symbol address is folded into an instruction or data field.
type Reloc int

//go:generate go tool stringer -linecomment -type=Reloc
const (
	RELOC_FULL        = Reloc(0) // full
	RELOC_HI          = Reloc(1) // hi
	RELOC_HI_ADJUSTED = Reloc(2) // hi-adjusted
	RELOC_LO          = Reloc(3) // lo
	RELOC_BRANCH      = Reloc(4) // branch
	RELOC_JUMP        = Reloc(5) // jump
)

// Value is an operand field value: either Resolved, or a PendingSymbol
// that is fixed up once every symbol is known.
type Value interface {
	isValue()
}

// Resolved is a field value known during the first pass.
type Resolved int64

func (Resolved) isValue() {}

// PendingSymbol is a symbol reference resolved in the second pass.
type PendingSymbol struct {
	Name   string
	Addend int64
	Reloc  Reloc
}

func (PendingSymbol) isValue() {}

// relocate computes a field value from a target address, for a field in
// the item located at addr.
func relocate(reloc Reloc, target uint32, addr uint32) (value int64, err error) {
	switch reloc {
	case RELOC_FULL:
		value = int64(target)
	case RELOC_HI:
		value = int64(target >> 16)
	case RELOC_HI_ADJUSTED:
		value = int64((target + 0x8000) >> 16)
	case RELOC_LO:
		value = int64(target & 0xffff)
	case RELOC_BRANCH:
		if target&3 != 0 {
			err = ErrAlignment
			return
		}
		offset := int64(int32(target-(addr+4))) >> 2
		if offset < -0x8000 || offset > 0x7fff {
			err = ErrBranchRange
			return
		}
		value = offset
	case RELOC_JUMP:
		if target&3 != 0 {
			err = ErrAlignment
			return
		}
		if (addr+4)&0xf0000000 != target&0xf0000000 {
			err = ErrJumpRegion
			return
		}
		value = int64((target >> 2) & 0x03ffffff)
	}
	return
}
