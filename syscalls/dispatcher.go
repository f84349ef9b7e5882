package syscalls

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/ezrec/umips/cpu"
	"github.com/ezrec/umips/io"
	"github.com/ezrec/umips/isa"
	"github.com/ezrec/umips/mem"
)

// MAX_STRING bounds the length of a string argument.
const MAX_STRING = 1 << 16

// Result is the outcome of a completed service.
type Result struct {
	Exit     bool  // The program asked to terminate.
	ExitCode int32 // Exit status, when Exit is set.
}

type service func(d *Dispatcher, regs *cpu.Registers, memory *mem.Memory) (Result, error)

var services = map[Number]service{
	SYS_PRINT_INT:          (*Dispatcher).printInt,
	SYS_PRINT_STRING:       (*Dispatcher).printString,
	SYS_READ_INT:           (*Dispatcher).readInt,
	SYS_READ_STRING:        (*Dispatcher).readString,
	SYS_SBRK:               (*Dispatcher).sbrk,
	SYS_EXIT:               (*Dispatcher).exit,
	SYS_PRINT_CHAR:         (*Dispatcher).printChar,
	SYS_READ_CHAR:          (*Dispatcher).readChar,
	SYS_EXIT2:              (*Dispatcher).exit2,
	SYS_PRINT_INT_HEX:      (*Dispatcher).printHex,
	SYS_PRINT_INT_BINARY:   (*Dispatcher).printBinary,
	SYS_PRINT_INT_UNSIGNED: (*Dispatcher).printUnsigned,
}

// Dispatcher services syscalls for one simulation session.
type Dispatcher struct {
	Verbose bool
	Console io.Console // Target of console services.

	heapBase  uint32
	heapLimit uint32
	brk       uint32
}

// NewDispatcher creates a dispatcher whose heap is the layout's heap segment.
func NewDispatcher(console io.Console, layout *mem.Layout) (d *Dispatcher) {
	heap := layout.Segment(mem.KIND_HEAP)
	d = &Dispatcher{
		Console:   console,
		heapBase:  heap.Base,
		heapLimit: heap.Limit,
	}
	d.Reset()
	return
}

// Reset returns the program break to the start of the heap.
func (d *Dispatcher) Reset() {
	d.brk = d.heapBase
}

// Break is the current program break.
func (d *Dispatcher) Break() uint32 {
	return d.brk
}

// Dispatch runs the service selected by number.
//
// A console read that cannot complete yet returns an error wrapping
// io.ErrInputPending, with registers and memory untouched, so the same
// syscall can be dispatched again later.
func (d *Dispatcher) Dispatch(number uint32, regs *cpu.Registers, memory *mem.Memory) (result Result, err error) {
	num := Number(number)
	call, ok := services[num]
	if !ok {
		err = &Error{Number: num, Err: ErrUnknown}
		return
	}

	if d.Verbose {
		log.Printf("syscalls: %v", num)
	}

	result, err = call(d, regs, memory)
	if err != nil {
		err = &Error{Number: num, Err: err}
	}

	return
}

func (d *Dispatcher) print(text string) (err error) {
	if d.Console == nil {
		err = ErrNoConsole
		return
	}

	_, err = d.Console.Write([]byte(text))
	return
}

func (d *Dispatcher) printInt(regs *cpu.Registers, memory *mem.Memory) (result Result, err error) {
	err = d.print(strconv.Itoa(int(int32(regs.GPR[isa.REG_A0]))))
	return
}

func (d *Dispatcher) printUnsigned(regs *cpu.Registers, memory *mem.Memory) (result Result, err error) {
	err = d.print(strconv.FormatUint(uint64(regs.GPR[isa.REG_A0]), 10))
	return
}

func (d *Dispatcher) printHex(regs *cpu.Registers, memory *mem.Memory) (result Result, err error) {
	err = d.print(fmt.Sprintf("0x%08x", regs.GPR[isa.REG_A0]))
	return
}

func (d *Dispatcher) printBinary(regs *cpu.Registers, memory *mem.Memory) (result Result, err error) {
	err = d.print(fmt.Sprintf("%032b", regs.GPR[isa.REG_A0]))
	return
}

func (d *Dispatcher) printChar(regs *cpu.Registers, memory *mem.Memory) (result Result, err error) {
	err = d.print(string([]byte{byte(regs.GPR[isa.REG_A0])}))
	return
}

func (d *Dispatcher) printString(regs *cpu.Registers, memory *mem.Memory) (result Result, err error) {
	var text strings.Builder

	addr := regs.GPR[isa.REG_A0]
	for {
		if text.Len() >= MAX_STRING {
			err = ErrStringUnbounded
			return
		}
		var c uint32
		c, err = memory.Load(addr, 1, regs.Kernel())
		if err != nil {
			return
		}
		if c == 0 {
			break
		}
		text.WriteByte(byte(c))
		addr++
	}

	err = d.print(text.String())
	return
}

func (d *Dispatcher) readLine() (line string, err error) {
	if d.Console == nil {
		err = ErrNoConsole
		return
	}

	line, err = d.Console.ReadLine()
	return
}

func (d *Dispatcher) readInt(regs *cpu.Registers, memory *mem.Memory) (result Result, err error) {
	line, err := d.readLine()
	if err != nil {
		return
	}

	value, err := parseInt(strings.TrimSpace(line))
	if err != nil {
		return
	}

	regs.Set(isa.REG_V0, value)
	return
}

// parseInt accepts signed decimal, or 0x-prefixed hexadecimal.
func parseInt(text string) (value uint32, err error) {
	lower := strings.ToLower(text)
	if hex, ok := strings.CutPrefix(lower, "0x"); ok {
		var u uint64
		u, err = strconv.ParseUint(hex, 16, 32)
		if err != nil {
			err = errors.Join(ErrNotInteger, err)
			return
		}
		value = uint32(u)
		return
	}

	i, err := strconv.ParseInt(text, 10, 32)
	if err != nil {
		err = errors.Join(ErrNotInteger, err)
		return
	}

	value = uint32(int32(i))
	return
}

// readString stores at most $a1-1 bytes of the next line at $a0, followed
// by a NUL. The newline is kept if it fits.
func (d *Dispatcher) readString(regs *cpu.Registers, memory *mem.Memory) (result Result, err error) {
	addr := regs.GPR[isa.REG_A0]
	size := int32(regs.GPR[isa.REG_A1])
	if size < 1 {
		return
	}

	// The whole buffer must be writable before any input is consumed.
	err = memory.CheckRange(addr, uint32(size), mem.ACCESS_STORE, regs.Kernel())
	if err != nil {
		return
	}

	line := ""
	if size > 1 {
		line, err = d.readLine()
		if err != nil {
			return
		}
	}

	if len(line) > int(size-1) {
		line = line[:size-1]
	}

	for n := 0; n < len(line); n++ {
		err = memory.Store(addr+uint32(n), 1, uint32(line[n]), regs.Kernel())
		if err != nil {
			return
		}
	}

	err = memory.Store(addr+uint32(len(line)), 1, 0, regs.Kernel())
	return
}

func (d *Dispatcher) readChar(regs *cpu.Registers, memory *mem.Memory) (result Result, err error) {
	if d.Console == nil {
		err = ErrNoConsole
		return
	}

	c, err := d.Console.ReadByte()
	if err != nil {
		return
	}

	regs.Set(isa.REG_V0, uint32(c))
	return
}

// sbrk grows the heap by $a0 bytes, rounded up to a word, and returns the
// previous break in $v0.
func (d *Dispatcher) sbrk(regs *cpu.Registers, memory *mem.Memory) (result Result, err error) {
	amount := int32(regs.GPR[isa.REG_A0])
	if amount < 0 {
		err = ErrNegativeSbrk
		return
	}

	grow := (uint64(amount) + 3) &^ 3
	end := uint64(d.brk) + grow
	if end > uint64(d.heapLimit)+1 {
		err = ErrHeapExhausted
		return
	}

	regs.Set(isa.REG_V0, d.brk)
	d.brk = uint32(end)
	return
}

func (d *Dispatcher) exit(regs *cpu.Registers, memory *mem.Memory) (result Result, err error) {
	result = Result{Exit: true}
	return
}

func (d *Dispatcher) exit2(regs *cpu.Registers, memory *mem.Memory) (result Result, err error) {
	result = Result{Exit: true, ExitCode: int32(regs.GPR[isa.REG_A0])}
	return
}
