package emulator

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/ezrec/umips/asm"
	"github.com/ezrec/umips/cpu"
	"github.com/ezrec/umips/io"
	"github.com/ezrec/umips/isa"
	"github.com/ezrec/umips/mem"
	"github.com/ezrec/umips/syscalls"
)

// newSession assembles text and loads it into a new emulator.
func newSession(t *testing.T, text string, opts ...Option) (emu *Emulator, console *io.Queue) {
	t.Helper()

	prog, err := asm.NewAssembler().AssembleString(text)
	require.NoError(t, err)

	console = &io.Queue{}
	emu = NewEmulator(append([]Option{WithConsole(console)}, opts...)...)
	require.NoError(t, emu.Load(prog))
	return
}

func register(t *testing.T, emu *Emulator, reg int) uint32 {
	t.Helper()
	value, err := emu.ReadRegister(reg)
	require.NoError(t, err)
	return value
}

func TestEmulator(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()

	assert.False(emu.Verbose)
	assert.Equal(STATE_IDLE, emu.State())
	assert.ErrorIs(emu.Step(), ErrNotLoaded)
	assert.ErrorIs(emu.Run(context.Background()), ErrNotLoaded)
	assert.ErrorIs(emu.Reset(), ErrNotLoaded)

	defines := map[string]string{}
	for name, value := range emu.Defines() {
		defines[name] = value
	}
	assert.Equal("10", defines["SYS_EXIT"])
}

func TestEmulatorDelaySlot(t *testing.T) {
	assert := assert.New(t)

	emu, _ := newSession(t, `label:	addu $t0, $t0, $t1
	j label
`)
	assert.Equal(STATE_LOADED, emu.State())
	emu.GPR[isa.REG_T0+1] = 2

	pcs := []uint32{emu.PC}
	for range 4 {
		assert.NoError(emu.Step())
		pcs = append(pcs, emu.PC)
	}

	// The word after the jump is executed in its delay slot.
	assert.Equal([]uint32{0x00400000, 0x00400004, 0x00400008, 0x00400000, 0x00400004}, pcs)
	assert.Equal(uint32(4), register(t, emu, isa.REG_T0))
	assert.Equal(STATE_PAUSED, emu.State())
	assert.Equal(4, emu.Steps())
	assert.Equal(2, emu.LineNo())
}

func TestEmulatorNoDelaySlot(t *testing.T) {
	assert := assert.New(t)

	emu, _ := newSession(t, `	jal sub
	li $v0, 10
	syscall
sub:	jr $ra
`, WithDelayedBranching(false))

	assert.NoError(emu.Step())
	assert.Equal(uint32(0x0040000c), emu.PC)
	assert.Equal(uint32(0x00400004), register(t, emu, isa.REG_RA))

	assert.NoError(emu.Run(context.Background()))
	assert.Equal(STATE_HALTED, emu.State())
}

func TestEmulatorExit(t *testing.T) {
	assert := assert.New(t)

	emu, console := newSession(t, `	li $v0, 1
	li $a0, 42
	syscall
	li $v0, 11
	li $a0, '\n'
	syscall
	li $v0, 17
	li $a0, 3
	syscall
	li $v0, 1
	syscall
`)

	assert.NoError(emu.Run(context.Background()))
	assert.Equal(STATE_HALTED, emu.State())
	assert.Equal(int32(3), emu.ExitCode())
	assert.Equal(9, emu.Steps())
	assert.Equal("42\n", console.Drain())

	assert.ErrorIs(emu.Run(context.Background()), ErrHalted)
	assert.ErrorIs(emu.Step(), ErrHalted)

	_, ok := emu.FaultInfo()
	assert.False(ok)

	assert.NoError(emu.Reset())
	assert.Equal(STATE_LOADED, emu.State())
	assert.Equal(int32(0), emu.ExitCode())
	assert.Equal(0, emu.Steps())
}

func TestEmulatorDroppedOff(t *testing.T) {
	assert := assert.New(t)

	emu, _ := newSession(t, "\tli $t0, 1\n\tli $t1, 2\n")

	assert.NoError(emu.Run(context.Background()))
	assert.Equal(STATE_HALTED, emu.State())
	assert.Equal(int32(0), emu.ExitCode())
	assert.Equal(2, emu.Steps())
	assert.Equal(uint32(0x00400008), emu.PC)
}

func TestEmulatorBreakpoint(t *testing.T) {
	assert := assert.New(t)

	emu, _ := newSession(t, `	li $t0, 7
	li $t1, 8
	addu $t2, $t0, $t1
`)

	emu.SetBreakpoint(0x00400004)
	emu.SetBreakpoint(0x00400008)
	assert.Equal([]uint32{0x00400004, 0x00400008}, emu.Breakpoints())

	err := emu.Run(context.Background())
	assert.ErrorIs(err, ErrBreakpoint)
	assert.Equal(STATE_PAUSED, emu.State())
	assert.Equal(uint32(0x00400004), emu.PC)
	assert.Equal(uint32(7), register(t, emu, isa.REG_T0))
	assert.Equal(uint32(0), register(t, emu, isa.REG_T0+1))

	emu.ClearBreakpoint(0x00400008)

	// Resumes past the breakpoint it stopped at.
	assert.NoError(emu.Run(context.Background()))
	assert.Equal(STATE_HALTED, emu.State())
	assert.Equal(uint32(15), register(t, emu, isa.REG_T0+2))

	// Stops again after a reset.
	assert.NoError(emu.Reset())
	assert.ErrorIs(emu.Run(context.Background()), ErrBreakpoint)
	assert.Equal(uint32(0x00400004), emu.PC)
}

func TestEmulatorOverflow(t *testing.T) {
	assert := assert.New(t)

	emu, _ := newSession(t, `	li $t0, 0x7fffffff
	li $t2, 1
	addu $t3, $t0, $t2
	add $t1, $t0, $t2
`)

	err := emu.Run(context.Background())
	assert.ErrorIs(err, cpu.ErrOverflow)
	assert.Equal(STATE_FAULTED, emu.State())

	fault, ok := emu.FaultInfo()
	require.True(t, ok)
	assert.Equal(FAULT_ARITHMETIC, fault.Kind)
	assert.Equal(cpu.EXC_OV, fault.Code)
	assert.Equal(uint32(0x00400010), fault.Address)
	assert.Equal(4, fault.Line)
	assert.Equal(uint32(0x80000000), fault.Registers.GPR[isa.REG_T0+3])

	// Trapping arithmetic leaves its destination untouched.
	assert.Equal(uint32(0), register(t, emu, isa.REG_T0+1))
	assert.Equal(uint32(0x00400010), emu.PC)

	assert.ErrorIs(emu.Step(), ErrFaulted)
	assert.NoError(emu.Reset())
	assert.Equal(uint32(0), register(t, emu, isa.REG_T0))
}

func TestEmulatorAddressError(t *testing.T) {
	assert := assert.New(t)

	emu, _ := newSession(t, `	.data
x:	.word 0x11223344
	.text
	la $t0, x
	li $t1, -1
	sw $t1, 2($t0)
`)

	err := emu.Run(context.Background())
	var addrErr *mem.AddressError
	require.ErrorAs(t, err, &addrErr)
	assert.Equal(mem.REASON_UNALIGNED, addrErr.Reason)

	fault, ok := emu.FaultInfo()
	require.True(t, ok)
	assert.Equal(FAULT_ADDRESS_ERROR, fault.Kind)
	assert.Equal(cpu.EXC_ADES, fault.Code)
	assert.Equal(uint32(0x10010002), fault.BadAddr)

	value, err := emu.ReadMemory(0x10010000, 4)
	assert.NoError(err)
	assert.Equal(uint32(0x11223344), value)

	value, err = emu.ReadMemory(0x10010001, 1)
	assert.NoError(err)
	assert.Equal(uint32(0x33), value)

	_, err = emu.ReadMemory(0x10010001, 4)
	assert.ErrorAs(err, &addrErr)
}

func TestEmulatorFaults(t *testing.T) {
	table := map[string]FaultKind{
		"li $v0, 99\nsyscall\n":            FAULT_SYSCALL,
		"break\n":                          FAULT_BREAK,
		"teq $zero, $zero\n":               FAULT_TRAP,
		"lw $t0, 0($zero)\n":               FAULT_ADDRESS_ERROR,
		"jr $zero\n":                       FAULT_ADDRESS_ERROR,
		"li $t0, 1\ndiv $t0, $t0, $zero\n": FAULT_TRAP,
	}

	for text, kind := range table {
		prog, err := asm.NewAssembler().AssembleString(text)
		require.NoError(t, err, text)

		emu := NewEmulator(WithConsole(&io.Queue{}))
		require.NoError(t, emu.Load(prog))

		err = emu.Run(context.Background())
		var fault *Fault
		if assert.ErrorAs(t, err, &fault, text) {
			assert.Equal(t, kind, fault.Kind, text)
		}
	}

	emu, _ := newSession(t, "li $v0, 99\nsyscall\n")
	assert.ErrorIs(t, emu.Run(context.Background()), syscalls.ErrUnknown)

	// A word no instruction decodes to.
	emu, _ = newSession(t, "nop\n")
	require.NoError(t, emu.Memory.Poke(emu.PC, []byte{0xff, 0xff, 0xff, 0xff}))
	err := emu.Step()
	var fault *Fault
	if assert.ErrorAs(t, err, &fault) {
		assert.Equal(t, FAULT_INVALID_OPCODE, fault.Kind)
		assert.Equal(t, cpu.EXC_RI, fault.Code)
	}
}

func TestEmulatorHandler(t *testing.T) {
	assert := assert.New(t)

	emu, _ := newSession(t, `	.text
	teq $zero, $zero
	li $s0, 5
	li $v0, 10
	syscall

	.ktext 0x80000180
	mfc0 $k0, $14
	addiu $k0, $k0, 4
	mtc0 $k0, $14
	eret
`)

	assert.NoError(emu.Step())
	assert.Equal(uint32(0x80000180), emu.PC)
	assert.True(emu.Kernel())

	assert.NoError(emu.Run(context.Background()))
	assert.Equal(STATE_HALTED, emu.State())
	assert.False(emu.Kernel())
	assert.Equal(uint32(5), register(t, emu, isa.REG_S0))
	assert.Equal(uint32(0x00400004), emu.CP0[isa.CP0_EPC])
	assert.Equal(cpu.EXC_TR, cpu.ExcCode((emu.CP0[isa.CP0_CAUSE]&cpu.CAUSE_EXCCODE_MASK)>>cpu.CAUSE_EXCCODE_SHIFT))
}

func TestEmulatorInput(t *testing.T) {
	assert := assert.New(t)

	emu, console := newSession(t, `	li $v0, 5
	syscall
	move $s0, $v0
	li $v0, 10
	syscall
`)

	err := emu.Run(context.Background())
	assert.ErrorIs(err, io.ErrInputPending)
	assert.Equal(STATE_PAUSED, emu.State())
	assert.Equal(uint32(0x00400004), emu.PC)

	ready := console.Ready()
	console.Send("12\n")
	<-ready

	assert.NoError(emu.Run(context.Background()))
	assert.Equal(STATE_HALTED, emu.State())
	assert.Equal(uint32(12), register(t, emu, isa.REG_S0))
}

func TestEmulatorStepLimit(t *testing.T) {
	assert := assert.New(t)

	emu, _ := newSession(t, "loop:\tj loop\n\tnop\n", WithMaxSteps(100))

	assert.ErrorIs(emu.Run(context.Background()), ErrStepLimit)
	assert.Equal(STATE_PAUSED, emu.State())
	assert.Equal(100, emu.Steps())

	assert.ErrorIs(emu.Run(context.Background()), ErrStepLimit)
	assert.Equal(200, emu.Steps())
}

func TestEmulatorPause(t *testing.T) {
	assert := assert.New(t)

	emu, _ := newSession(t, "loop:\tj loop\n\tnop\n")

	var g errgroup.Group
	g.Go(func() error {
		return emu.Run(context.Background())
	})

	require.Eventually(t, func() bool { return emu.State() == STATE_RUNNING }, time.Second, time.Millisecond)
	assert.ErrorIs(emu.Reset(), ErrRunning)

	emu.Pause()
	assert.NoError(g.Wait())
	assert.Equal(STATE_PAUSED, emu.State())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(emu.Run(ctx), context.Canceled)
	assert.Equal(STATE_PAUSED, emu.State())
}

func TestEmulatorPauseIdle(t *testing.T) {
	assert := assert.New(t)

	emu, _ := newSession(t, `	li $t0, 1
	li $t1, 2
	li $v0, 10
	syscall
`)

	emu.Pause()
	assert.NoError(emu.Run(context.Background()))
	assert.Equal(STATE_HALTED, emu.State())
	assert.Equal(4, emu.Steps())

	assert.NoError(emu.Reset())
	assert.NoError(emu.Step())
	emu.Pause()
	assert.NoError(emu.Run(context.Background()))
	assert.Equal(STATE_HALTED, emu.State())
}

func TestEmulatorReadWhileRunning(t *testing.T) {
	assert := assert.New(t)

	emu, _ := newSession(t, "loop:\tj loop\n\tnop\n")

	var g errgroup.Group
	g.Go(func() error {
		return emu.Run(context.Background())
	})
	require.Eventually(t, func() bool { return emu.State() == STATE_RUNNING }, time.Second, time.Millisecond)

	_, err := emu.ReadRegister(cpu.REGISTER_PC)
	assert.ErrorIs(err, ErrRunning)
	_, err = emu.ReadMemory(0x00400000, 4)
	assert.ErrorIs(err, ErrRunning)

	emu.Pause()
	assert.NoError(g.Wait())

	pc, err := emu.ReadRegister(cpu.REGISTER_PC)
	assert.NoError(err)
	assert.Contains([]uint32{0x00400000, 0x00400004}, pc)
}

// trace is the register file after every step of a session.
func trace(emu *Emulator) (regs []cpu.Registers, err error) {
	for !emu.State().Terminal() {
		err = emu.Step()
		if err != nil {
			return
		}
		regs = append(regs, emu.Cpu.Registers)
	}
	return
}

func TestEmulatorDeterminism(t *testing.T) {
	assert := assert.New(t)

	prog, err := asm.NewAssembler().AssembleString(`	.data
buf:	.space 64
	.text
	la $t0, buf
	li $t1, 16
	li $t2, 1
fill:	sw $t2, 0($t0)
	sll $t2, $t2, 1
	addiu $t0, $t0, 4
	addiu $t1, $t1, -1
	bgtz $t1, fill
	nop
	li $v0, 9
	li $a0, 100
	syscall
	move $s1, $v0
	li $v0, 10
	syscall
`)
	require.NoError(t, err)

	traces := make([][]cpu.Registers, 4)
	var g errgroup.Group
	for n := range traces {
		g.Go(func() (err error) {
			emu := NewEmulator(WithConsole(&io.Queue{}))
			err = emu.Load(prog)
			if err != nil {
				return
			}
			traces[n], err = trace(emu)
			return
		})
	}
	require.NoError(t, g.Wait())

	assert.NotEmpty(traces[0])
	for n := 1; n < len(traces); n++ {
		assert.Empty(cmp.Diff(traces[0], traces[n]), "session %d", n)
	}

	last := traces[0][len(traces[0])-1]
	assert.Equal(uint32(0x10040000), last.GPR[isa.REG_S0+1])
	assert.Equal(uint32(0x10000), last.GPR[isa.REG_T0+2])
}

func TestEmulatorLayout(t *testing.T) {
	assert := assert.New(t)

	layout, err := mem.LayoutByName("compact-data-at-zero")
	require.NoError(t, err)

	assembler := asm.NewAssembler()
	assembler.Layout = layout
	prog, err := assembler.AssembleString(".data\nx: .word 9\n.text\nlw $t0, x\n")
	require.NoError(t, err)

	emu := NewEmulator(WithConsole(&io.Queue{}))
	require.NoError(t, emu.Load(prog))
	assert.Same(layout, emu.Layout)
	assert.Equal(layout.Segment(mem.KIND_TEXT).Base, emu.PC)

	assert.NoError(emu.Run(context.Background()))
	assert.Equal(uint32(9), register(t, emu, isa.REG_T0))
}

func TestFault(t *testing.T) {
	assert := assert.New(t)

	exc := &cpu.Exception{Code: cpu.EXC_OV, PC: 0x400000, Err: cpu.ErrOverflow}
	fault := &Fault{Kind: faultKind(exc.Code), Address: exc.PC, Code: exc.Code, Line: 3, Err: exc}

	assert.Equal(FAULT_ARITHMETIC, fault.Kind)
	assert.True(errors.Is(fault, cpu.ErrOverflow))
	assert.Contains(fault.Error(), "arithmetic fault")
	assert.Equal("address error", FAULT_ADDRESS_ERROR.String())
	assert.True(STATE_FAULTED.Terminal())
	assert.False(STATE_PAUSED.Terminal())
}
