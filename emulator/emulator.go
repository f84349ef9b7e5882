// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"context"
	"errors"
	"iter"
	"log"
	"maps"
	"os"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/ezrec/umips/asm"
	"github.com/ezrec/umips/cpu"
	"github.com/ezrec/umips/internal"
	"github.com/ezrec/umips/io"
	"github.com/ezrec/umips/isa"
	"github.com/ezrec/umips/mem"
	"github.com/ezrec/umips/syscalls"
)

// Emulator is a simulation session: a CPU, its memory, the loaded program,
// the syscall dispatcher and the breakpoint set. Sessions share no state.
type Emulator struct {
	Verbose  bool         // If set, enables verbose logging.
	*cpu.Cpu              // Reference to the CPU simulation.
	Program  *asm.Program // Reference to the currently loaded program.
	Layout   *mem.Layout

	Syscalls *syscalls.Dispatcher
	MaxSteps int // Instructions per Run; 0 for no limit.

	state atomic.Int32
	pause atomic.Bool
	busy  atomic.Bool

	mutex       sync.Mutex
	breakpoints map[uint32]struct{}

	resumed  bool // Execution stopped at the breakpoint at resumeAt.
	resumeAt uint32
	fault    *Fault
	exitCode int32
}

// Option configures an Emulator.
type Option func(emu *Emulator)

// WithVerbose enables verbose logging of the session and its CPU.
func WithVerbose(verbose bool) Option {
	return func(emu *Emulator) {
		emu.Verbose = verbose
		emu.Cpu.Verbose = verbose
		emu.Syscalls.Verbose = verbose
	}
}

// WithLayout selects the memory layout.
func WithLayout(layout *mem.Layout) Option {
	return func(emu *Emulator) {
		emu.setLayout(layout)
	}
}

// WithConsole attaches the console used by the syscalls.
func WithConsole(console io.Console) Option {
	return func(emu *Emulator) {
		emu.Syscalls.Console = console
	}
}

// WithDelayedBranching selects delay-slot execution.
func WithDelayedBranching(delayed bool) Option {
	return func(emu *Emulator) {
		emu.DelayedBranching = delayed
	}
}

// WithSelfModifyingCode allows user stores into the text segment.
func WithSelfModifyingCode(allow bool) Option {
	return func(emu *Emulator) {
		emu.Memory.SelfModifyingCode = allow
	}
}

// WithMaxSteps bounds the instructions executed by each Run.
func WithMaxSteps(steps int) Option {
	return func(emu *Emulator) {
		emu.MaxSteps = steps
	}
}

// WithBreakpoints sets initial breakpoints.
func WithBreakpoints(addrs ...uint32) Option {
	return func(emu *Emulator) {
		for _, addr := range addrs {
			emu.breakpoints[addr] = struct{}{}
		}
	}
}

// NewEmulator creates a new emulator in the idle state. The console
// defaults to the process' standard input and output.
func NewEmulator(opts ...Option) (emu *Emulator) {
	layout := &mem.LayoutDefault

	emu = &Emulator{
		Cpu:         cpu.NewCpu(mem.NewMemory(layout)),
		Layout:      layout,
		Syscalls:    syscalls.NewDispatcher(&io.Tape{Input: os.Stdin, Output: os.Stdout}, layout),
		breakpoints: map[uint32]struct{}{},
	}

	for _, opt := range opts {
		opt(emu)
	}

	return
}

func (emu *Emulator) setLayout(layout *mem.Layout) {
	if layout == emu.Layout {
		return
	}

	emu.Layout = layout
	emu.Memory.Layout = layout

	dispatcher := syscalls.NewDispatcher(emu.Syscalls.Console, layout)
	dispatcher.Verbose = emu.Syscalls.Verbose
	emu.Syscalls = dispatcher
}

// Defines returns an iterator over all of the predefined equates a program
// for this session can use.
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	return internal.IterSeq2Concat(emu.Layout.Defines(), syscalls.Defines())
}

// State of the session.
func (emu *Emulator) State() State {
	return State(emu.state.Load())
}

func (emu *Emulator) setState(state State) {
	if emu.Verbose {
		log.Printf("emulator: %v", state)
	}
	emu.state.Store(int32(state))
}

// Load a program image and reset to it.
func (emu *Emulator) Load(prog *asm.Program) (err error) {
	if emu.State() == STATE_RUNNING {
		return ErrRunning
	}

	if prog.Layout != nil {
		emu.setLayout(prog.Layout)
	}
	emu.Program = prog

	return emu.reset()
}

// Reset the session to the freshly loaded program.
func (emu *Emulator) Reset() (err error) {
	switch emu.State() {
	case STATE_IDLE:
		return ErrNotLoaded
	case STATE_RUNNING:
		return ErrRunning
	}

	return emu.reset()
}

func (emu *Emulator) reset() (err error) {
	emu.Memory.Reset()
	err = emu.Program.Load(emu.Memory)
	if err != nil {
		emu.setState(STATE_IDLE)
		return
	}

	emu.Cpu.Reset(emu.Program.Entry, emu.Layout.GlobalPointer, emu.Layout.StackPointer)
	emu.Syscalls.Reset()
	if emu.Syscalls.Console != nil {
		emu.Syscalls.Console.Rewind()
	}

	emu.pause.Store(false)
	emu.resumed = false
	emu.fault = nil
	emu.exitCode = 0

	emu.setState(STATE_LOADED)
	return
}

// Pause requests a running session to stop before its next instruction.
// It has no effect on a session that is not running.
func (emu *Emulator) Pause() {
	if emu.State() == STATE_RUNNING {
		emu.pause.Store(true)
	}
}

// SetBreakpoint adds a breakpoint. Safe to call while running.
func (emu *Emulator) SetBreakpoint(addr uint32) {
	emu.mutex.Lock()
	defer emu.mutex.Unlock()
	emu.breakpoints[addr] = struct{}{}
}

// ClearBreakpoint removes a breakpoint. Safe to call while running.
func (emu *Emulator) ClearBreakpoint(addr uint32) {
	emu.mutex.Lock()
	defer emu.mutex.Unlock()
	delete(emu.breakpoints, addr)
}

// Breakpoints returns the breakpoint addresses, in order.
func (emu *Emulator) Breakpoints() []uint32 {
	emu.mutex.Lock()
	defer emu.mutex.Unlock()
	return slices.Sorted(maps.Keys(emu.breakpoints))
}

func (emu *Emulator) isBreakpoint(addr uint32) bool {
	emu.mutex.Lock()
	defer emu.mutex.Unlock()
	_, ok := emu.breakpoints[addr]
	return ok
}

// ReadRegister reads a register by index; see cpu.Registers.Read.
// Reads return ErrRunning while a Run or Step holds the session, and a Run
// or Step started during a read returns ErrRunning.
func (emu *Emulator) ReadRegister(index int) (value uint32, err error) {
	if !emu.busy.CompareAndSwap(false, true) {
		err = ErrRunning
		return
	}
	defer emu.end()

	return emu.Cpu.Registers.Read(index)
}

// ReadMemory reads a 1, 2 or 4 byte value, without privilege checks. It
// excludes Run and Step as ReadRegister does.
func (emu *Emulator) ReadMemory(addr uint32, width int) (value uint32, err error) {
	if !emu.busy.CompareAndSwap(false, true) {
		err = ErrRunning
		return
	}
	defer emu.end()

	data, err := emu.Memory.Read(addr, width)
	if err != nil {
		return
	}
	for n := width - 1; n >= 0; n-- {
		value = value<<8 | uint32(data[n])
	}
	return
}

// FaultInfo returns the fault of a faulted session.
func (emu *Emulator) FaultInfo() (fault *Fault, ok bool) {
	if emu.State() != STATE_FAULTED {
		return
	}
	return emu.fault, true
}

// ExitCode of a halted session.
func (emu *Emulator) ExitCode() int32 {
	return emu.exitCode
}

// Steps returns the instructions completed since the last reset.
func (emu *Emulator) Steps() int {
	return emu.Cpu.Ticks
}

// LineNo returns the source line of the instruction at PC, or 0.
func (emu *Emulator) LineNo() int {
	if emu.Program == nil {
		return 0
	}
	word, ok := emu.Program.WordAt(emu.PC)
	if !ok {
		return 0
	}
	return word.Line
}

// begin claims the session for execution.
func (emu *Emulator) begin() (err error) {
	switch emu.State() {
	case STATE_IDLE:
		return ErrNotLoaded
	case STATE_HALTED:
		return ErrHalted
	case STATE_FAULTED:
		return ErrFaulted
	}

	if !emu.busy.CompareAndSwap(false, true) {
		return ErrRunning
	}

	// Drop a pause that raced with the end of the previous run.
	emu.pause.Store(false)
	return
}

func (emu *Emulator) end() {
	emu.busy.Store(false)
}

// Step executes exactly one instruction, ignoring breakpoints.
func (emu *Emulator) Step() (err error) {
	err = emu.begin()
	if err != nil {
		return
	}
	defer emu.end()

	emu.setState(STATE_RUNNING)
	if emu.droppedOff() {
		emu.halt(0)
		return
	}

	err = emu.tick()
	if emu.State() == STATE_RUNNING {
		emu.setState(STATE_PAUSED)
	}
	return
}

// Run executes until the program halts or faults, a breakpoint or the step
// limit is reached, a pause is requested, or ctx is done. Stopping at a
// breakpoint returns ErrBreakpoint; the next Run resumes past it. A syscall
// waiting on console input returns io.ErrInputPending, and is retried by
// the next Run.
func (emu *Emulator) Run(ctx context.Context) (err error) {
	err = emu.begin()
	if err != nil {
		return
	}
	defer emu.end()

	emu.setState(STATE_RUNNING)

	start := emu.Cpu.Ticks
	for {
		var done bool
		done, err = emu.iterate(ctx, start)
		if done {
			return
		}
	}
}

// iterate runs one iteration of the run loop.
func (emu *Emulator) iterate(ctx context.Context, start int) (done bool, err error) {
	if emu.pause.Swap(false) {
		emu.setState(STATE_PAUSED)
		return true, nil
	}

	if ctx != nil {
		if err = ctx.Err(); err != nil {
			emu.setState(STATE_PAUSED)
			return true, err
		}
	}

	if emu.MaxSteps > 0 && emu.Cpu.Ticks-start >= emu.MaxSteps {
		emu.setState(STATE_PAUSED)
		return true, ErrStepLimit
	}

	pc := emu.PC
	if emu.isBreakpoint(pc) && !(emu.resumed && emu.resumeAt == pc) {
		if emu.Verbose {
			log.Printf("emulator: breakpoint at %#08x", pc)
		}
		emu.resumed = true
		emu.resumeAt = pc
		emu.setState(STATE_PAUSED)
		return true, ErrBreakpoint
	}

	if emu.droppedOff() {
		emu.halt(0)
		return true, nil
	}

	err = emu.tick()
	if err != nil {
		if emu.State() == STATE_RUNNING {
			emu.setState(STATE_PAUSED)
		}
		return true, err
	}

	done = emu.State() != STATE_RUNNING
	return
}

// droppedOff is true when user execution ran past the last instruction.
func (emu *Emulator) droppedOff() bool {
	return emu.PC == emu.Program.TextEnd && !emu.InDelaySlot() && !emu.Kernel()
}

func (emu *Emulator) halt(code int32) {
	emu.exitCode = code
	emu.setState(STATE_HALTED)
}

// tick executes one instruction, servicing syscalls and exceptions.
func (emu *Emulator) tick() (err error) {
	transfer, err := emu.Cpu.Tick()
	if err != nil {
		return emu.exception(err)
	}

	if transfer.Kind == cpu.TRANSFER_SYSCALL {
		err = emu.syscall()
		if err != nil {
			return
		}
	}

	emu.resumed = false
	return
}

func (emu *Emulator) syscall() (err error) {
	number := emu.GPR[isa.REG_V0]
	result, err := emu.Syscalls.Dispatch(number, &emu.Cpu.Registers, emu.Memory)
	if errors.Is(err, io.ErrInputPending) {
		if emu.Verbose {
			log.Printf("emulator: syscall %v waiting for input", number)
		}
		return
	}
	if err != nil {
		return emu.exception(emu.Cpu.Raise(cpu.EXC_SYS, err))
	}

	emu.Cpu.Complete()
	if result.Exit {
		emu.halt(result.ExitCode)
	}
	return
}

// handlerInstalled is true when the image has kernel code at the
// exception vector.
func (emu *Emulator) handlerInstalled() bool {
	_, ok := emu.Program.WordAt(emu.Layout.ExceptionHandler)
	return ok
}

// exception delivers an architectural exception to the installed handler,
// or faults the session. An exception inside the handler always faults.
func (emu *Emulator) exception(err error) error {
	var exc *cpu.Exception
	if !errors.As(err, &exc) {
		return err
	}

	if emu.handlerInstalled() && !emu.Kernel() {
		emu.Cpu.Deliver(exc, emu.Layout.ExceptionHandler)
		emu.resumed = false
		return nil
	}

	fault := &Fault{
		Kind:      faultKind(exc.Code),
		Address:   exc.PC,
		BadAddr:   exc.BadAddr,
		Code:      exc.Code,
		Line:      emu.LineNo(),
		Registers: emu.Cpu.Registers,
		Err:       exc,
	}

	if emu.Verbose {
		log.Printf("emulator: %v", fault)
	}

	emu.fault = fault
	emu.setState(STATE_FAULTED)
	return fault
}
