package mem

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// DumpFormat selects how Dump renders memory.
type DumpFormat int

//go:generate go tool stringer -linecomment -type=DumpFormat
const (
	DUMP_BINARY     = DumpFormat(0) // binary
	DUMP_HEXTEXT    = DumpFormat(1) // hextext
	DUMP_BINARYTEXT = DumpFormat(2) // binarytext
	DUMP_ASCII      = DumpFormat(3) // ascii
)

const dumpFormatCount = 4

// ParseDumpFormat returns the dump format with the given name.
func ParseDumpFormat(name string) (format DumpFormat, err error) {
	for format = range dumpFormatCount {
		if format.String() == name {
			return
		}
	}
	err = fmt.Errorf("%w: %v", ErrDumpFormat, name)
	return
}

// Dump writes the words of [from, to) to w. Binary dumps are the raw
// little-endian bytes; the text formats write one word per line.
func (m *Memory) Dump(w io.Writer, format DumpFormat, from uint32, to uint32) (err error) {
	from &^= 3
	bw := bufio.NewWriter(w)

	var buf [4]byte
	for addr := uint64(from); addr < uint64(to); addr += 4 {
		m.get(uint32(addr), buf[:])
		word := ByteOrder.Uint32(buf[:])
		switch format {
		case DUMP_BINARY:
			_, err = bw.Write(buf[:])
		case DUMP_HEXTEXT:
			_, err = fmt.Fprintf(bw, "%08x\n", word)
		case DUMP_BINARYTEXT:
			_, err = fmt.Fprintf(bw, "%032b\n", word)
		case DUMP_ASCII:
			_, err = fmt.Fprintln(bw, asciiWord(buf))
		default:
			err = ErrDumpFormat
		}
		if err != nil {
			return
		}
	}

	err = bw.Flush()
	return
}

// DumpSegment dumps a segment from its base up to the end of its last
// allocated page, or up to end if it is non-zero.
func (m *Memory) DumpSegment(w io.Writer, format DumpFormat, kind Kind, end uint32) (err error) {
	seg := m.Layout.Segment(kind)
	if end == 0 {
		end = seg.Base
		for base := range m.Pages() {
			last := uint64(base) + PAGE_SIZE
			if base+PAGE_SIZE-1 >= seg.Base && base <= seg.Limit {
				end = uint32(min(last, uint64(seg.Limit)+1) &^ 3)
			}
		}
	}
	return m.Dump(w, format, seg.Base, end)
}

func asciiWord(buf [4]byte) string {
	var sb strings.Builder
	for n, b := range buf {
		if n > 0 {
			sb.WriteByte(' ')
		}
		switch {
		case b == 0:
			sb.WriteString(`\0`)
		case b == '\n':
			sb.WriteString(`\n`)
		case b == '\t':
			sb.WriteString(`\t`)
		case b >= 0x20 && b < 0x7f:
			sb.WriteString(" ")
			sb.WriteByte(b)
		default:
			sb.WriteString(" .")
		}
	}
	return sb.String()
}
