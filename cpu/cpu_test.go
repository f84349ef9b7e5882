package cpu

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ezrec/umips/isa"
	"github.com/ezrec/umips/mem"
)

const textBase = uint32(0x00400000)

func newTestCpu(t *testing.T, insts ...isa.Instruction) (cpu *Cpu) {
	layout := &mem.LayoutDefault
	memory := mem.NewMemory(layout)

	for n, inst := range insts {
		word, err := isa.Encode(inst)
		require.NoError(t, err, inst.String())
		var buf [4]byte
		mem.ByteOrder.PutUint32(buf[:], word)
		require.NoError(t, memory.Poke(textBase+uint32(n*4), buf[:]))
	}

	cpu = NewCpu(memory)
	cpu.Reset(textBase, layout.GlobalPointer, layout.StackPointer)
	return
}

func tickN(t *testing.T, cpu *Cpu, n int) {
	for range n {
		transfer, err := cpu.Tick()
		require.NoError(t, err)
		require.NotEqual(t, TRANSFER_SYSCALL, transfer.Kind)
	}
}

func TestCpuReset(t *testing.T) {
	assert := assert.New(t)

	cpu := newTestCpu(t)
	assert.Equal(textBase, cpu.PC)
	assert.Equal(uint32(0x10008000), cpu.GPR[isa.REG_GP])
	assert.Equal(uint32(0x7fffeffc), cpu.GPR[isa.REG_SP])
	assert.Equal(STATUS_RESET, cpu.CP0[isa.CP0_STATUS])
	assert.False(cpu.Kernel())
	assert.True(cpu.DelayedBranching)

	cpu.Set(isa.REG_ZERO, 1234)
	assert.Equal(uint32(0), cpu.Get(isa.REG_ZERO))
}

func TestCpuOverflow(t *testing.T) {
	assert := assert.New(t)

	cpu := newTestCpu(t,
		isa.Instruction{Op: isa.OP_ADD, Rd: 8, Rs: 9, Rt: 10},
		isa.Instruction{Op: isa.OP_ADDU, Rd: 8, Rs: 9, Rt: 10},
	)
	cpu.GPR[8] = 0xcafe
	cpu.GPR[9] = 0x7fffffff
	cpu.GPR[10] = 1

	_, err := cpu.Tick()
	var exc *Exception
	assert.True(errors.As(err, &exc))
	assert.Equal(EXC_OV, exc.Code)
	assert.Equal(textBase, exc.PC)
	assert.ErrorIs(err, ErrOverflow)
	assert.Equal(uint32(0xcafe), cpu.GPR[8])
	assert.Equal(textBase, cpu.PC)

	cpu.PC += 4
	tickN(t, cpu, 1)
	assert.Equal(uint32(0x80000000), cpu.GPR[8])
}

func TestCpuArithmetic(t *testing.T) {
	assert := assert.New(t)

	table := [...]struct {
		inst     isa.Instruction
		rs, rt   uint32
		expected uint32
	}{
		{isa.Instruction{Op: isa.OP_SUBU, Rd: 8, Rs: 9, Rt: 10}, 1, 2, 0xffffffff},
		{isa.Instruction{Op: isa.OP_SLT, Rd: 8, Rs: 9, Rt: 10}, 0xffffffff, 1, 1},
		{isa.Instruction{Op: isa.OP_SLTU, Rd: 8, Rs: 9, Rt: 10}, 0xffffffff, 1, 0},
		{isa.Instruction{Op: isa.OP_NOR, Rd: 8, Rs: 9, Rt: 10}, 0xf0f0f0f0, 0x0f0f0000, 0x0000_0f0f},
		{isa.Instruction{Op: isa.OP_SRAV, Rd: 8, Rt: 10, Rs: 9}, 4, 0x80000000, 0xf8000000},
		{isa.Instruction{Op: isa.OP_SLLV, Rd: 8, Rt: 10, Rs: 9}, 33, 0x1, 0x2},
		{isa.Instruction{Op: isa.OP_SRA, Rd: 8, Rt: 10, Shamt: 31}, 0, 0x80000000, 0xffffffff},
		{isa.Instruction{Op: isa.OP_MUL, Rd: 8, Rs: 9, Rt: 10}, 0xfffffffe, 3, 0xfffffffa},
		{isa.Instruction{Op: isa.OP_CLZ, Rd: 8, Rs: 9}, 0x00010000, 0, 15},
		{isa.Instruction{Op: isa.OP_CLO, Rd: 8, Rs: 9}, 0xff000000, 0, 8},
		{isa.Instruction{Op: isa.OP_MOVZ, Rd: 8, Rs: 9, Rt: 10}, 77, 0, 77},
		{isa.Instruction{Op: isa.OP_MOVN, Rd: 8, Rs: 9, Rt: 10}, 77, 0, 0xdead},
		{isa.Instruction{Op: isa.OP_ADDIU, Rt: 8, Rs: 9, Imm: -1}, 0, 0, 0xffffffff},
		{isa.Instruction{Op: isa.OP_SLTIU, Rt: 8, Rs: 9, Imm: -1}, 5, 0, 1},
		{isa.Instruction{Op: isa.OP_ORI, Rt: 8, Rs: 9, Imm: 0x8000}, 1, 0, 0x8001},
		{isa.Instruction{Op: isa.OP_LUI, Rt: 8, Imm: 0x1001}, 0, 0, 0x10010000},
	}

	for _, entry := range table {
		cpu := newTestCpu(t, entry.inst)
		cpu.GPR[8] = 0xdead
		cpu.GPR[9] = entry.rs
		cpu.GPR[10] = entry.rt
		tickN(t, cpu, 1)
		assert.Equal(entry.expected, cpu.GPR[8], entry.inst.String())
	}
}

func TestCpuMultiplyDivide(t *testing.T) {
	assert := assert.New(t)

	cpu := newTestCpu(t,
		isa.Instruction{Op: isa.OP_MULT, Rs: 9, Rt: 10},
		isa.Instruction{Op: isa.OP_MADDU, Rs: 9, Rt: 9},
		isa.Instruction{Op: isa.OP_DIV, Rs: 11, Rt: 10},
		isa.Instruction{Op: isa.OP_DIV, Rs: 11, Rt: 0},
		isa.Instruction{Op: isa.OP_DIVU, Rs: 11, Rt: 10},
	)
	cpu.GPR[9] = 0xffffffff  // -1
	cpu.GPR[10] = 0x00000002 // 2
	cpu.GPR[11] = 0xfffffff9 // -7

	tickN(t, cpu, 1)
	assert.Equal(uint32(0xffffffff), cpu.HI)
	assert.Equal(uint32(0xfffffffe), cpu.LO)

	// HI:LO = -2 + 0xffffffff * 0xffffffff
	tickN(t, cpu, 1)
	assert.Equal(uint32(0xfffffffd), cpu.HI)
	assert.Equal(uint32(0xffffffff), cpu.LO)

	tickN(t, cpu, 1)
	assert.Equal(uint32(0xfffffffd), cpu.LO) // -3
	assert.Equal(uint32(0xffffffff), cpu.HI) // -1

	// Division by zero leaves HI/LO alone.
	tickN(t, cpu, 1)
	assert.Equal(uint32(0xfffffffd), cpu.LO)
	assert.Equal(uint32(0xffffffff), cpu.HI)

	tickN(t, cpu, 1)
	assert.Equal(uint32(0x7ffffffc), cpu.LO)
	assert.Equal(uint32(1), cpu.HI)
}

func TestCpuDelaySlot(t *testing.T) {
	assert := assert.New(t)

	program := []isa.Instruction{
		{Op: isa.OP_BEQ, Imm: 2},                  // 0x00: beq $0, $0, 0x0c
		{Op: isa.OP_ADDIU, Rt: 8, Rs: 8, Imm: 1},  // 0x04: delay slot
		{Op: isa.OP_ADDIU, Rt: 9, Rs: 9, Imm: 1},  // 0x08: skipped
		{Op: isa.OP_JAL, Target: textBase>>2 + 5}, // 0x0c: jal 0x14
		{Op: isa.OP_ADDIU, Rt: 10, Rs: 10, Imm: 1},
		{Op: isa.OP_SLL},
	}

	cpu := newTestCpu(t, program...)
	tickN(t, cpu, 1)
	assert.Equal(textBase+4, cpu.PC)
	assert.True(cpu.InDelaySlot())
	target, ok := cpu.Pending()
	assert.True(ok)
	assert.Equal(textBase+0x0c, target)

	tickN(t, cpu, 1)
	assert.Equal(textBase+0x0c, cpu.PC)
	assert.False(cpu.InDelaySlot())
	assert.Equal(uint32(1), cpu.GPR[8])
	assert.Equal(uint32(0), cpu.GPR[9])

	tickN(t, cpu, 2)
	assert.Equal(textBase+0x14, cpu.PC)
	assert.Equal(uint32(1), cpu.GPR[10])
	assert.Equal(textBase+0x14, cpu.GPR[isa.REG_RA])
	assert.Equal(4, cpu.Ticks)

	// Without delay slots, the branch is immediate and links to pc+4.
	cpu = newTestCpu(t, program...)
	cpu.DelayedBranching = false
	tickN(t, cpu, 1)
	assert.Equal(textBase+0x0c, cpu.PC)
	assert.Equal(uint32(0), cpu.GPR[8])
	tickN(t, cpu, 1)
	assert.Equal(textBase+0x14, cpu.PC)
	assert.Equal(textBase+0x10, cpu.GPR[isa.REG_RA])
}

func TestCpuLoadStore(t *testing.T) {
	assert := assert.New(t)

	cpu := newTestCpu(t,
		isa.Instruction{Op: isa.OP_SW, Rt: 9, Rs: 28, Imm: 0},
		isa.Instruction{Op: isa.OP_LB, Rt: 8, Rs: 28, Imm: 0},
		isa.Instruction{Op: isa.OP_LBU, Rt: 10, Rs: 28, Imm: 0},
		isa.Instruction{Op: isa.OP_LH, Rt: 11, Rs: 28, Imm: 2},
		isa.Instruction{Op: isa.OP_LW, Rt: 12, Rs: 28, Imm: 1},
	)
	cpu.GPR[9] = 0x8001ff80

	tickN(t, cpu, 4)
	assert.Equal(uint32(0xffffff80), cpu.GPR[8])
	assert.Equal(uint32(0x80), cpu.GPR[10])
	assert.Equal(uint32(0xffff8001), cpu.GPR[11])

	_, err := cpu.Tick()
	var exc *Exception
	assert.True(errors.As(err, &exc))
	assert.Equal(EXC_ADEL, exc.Code)
	assert.Equal(cpu.GPR[28]+1, exc.BadAddr)
	var ae *mem.AddressError
	assert.True(errors.As(err, &ae))
	assert.Equal(mem.REASON_UNALIGNED, ae.Reason)
	assert.Equal(uint32(0), cpu.GPR[12])
}

func TestCpuLoadLinked(t *testing.T) {
	assert := assert.New(t)

	cpu := newTestCpu(t,
		isa.Instruction{Op: isa.OP_SC, Rt: 9, Rs: 28},
		isa.Instruction{Op: isa.OP_LL, Rt: 8, Rs: 28},
		isa.Instruction{Op: isa.OP_SC, Rt: 10, Rs: 28},
	)
	cpu.GPR[9] = 5
	cpu.GPR[10] = 6

	tickN(t, cpu, 1)
	assert.Equal(uint32(0), cpu.GPR[9])
	tickN(t, cpu, 2)
	assert.Equal(uint32(1), cpu.GPR[10])
	value, err := cpu.Memory.Load(cpu.GPR[28], 4, false)
	assert.NoError(err)
	assert.Equal(uint32(6), value)
}

func TestCpuTrapAndBreak(t *testing.T) {
	assert := assert.New(t)

	cpu := newTestCpu(t,
		isa.Instruction{Op: isa.OP_TNE, Rs: 8, Rt: 0, Code: 3},
		isa.Instruction{Op: isa.OP_TEQ, Rs: 8, Rt: 0, Code: 7},
	)
	tickN(t, cpu, 1)

	_, err := cpu.Tick()
	var exc *Exception
	assert.True(errors.As(err, &exc))
	assert.Equal(EXC_TR, exc.Code)
	assert.Equal(uint32(7), exc.TrapCode)
	assert.ErrorIs(err, ErrTrap)

	cpu = newTestCpu(t, isa.Instruction{Op: isa.OP_BREAK, Code: 1})
	_, err = cpu.Tick()
	assert.True(errors.As(err, &exc))
	assert.Equal(EXC_BP, exc.Code)
	assert.Equal(uint32(1), exc.TrapCode)

	// Reserved instruction
	cpu = newTestCpu(t)
	assert.NoError(cpu.Memory.Poke(textBase, []byte{0xff, 0xff, 0xff, 0xff}))
	_, err = cpu.Tick()
	assert.True(errors.As(err, &exc))
	assert.Equal(EXC_RI, exc.Code)
	assert.ErrorIs(err, isa.ErrInvalidOpcode)
}

func TestCpuSyscall(t *testing.T) {
	assert := assert.New(t)

	cpu := newTestCpu(t,
		isa.Instruction{Op: isa.OP_SYSCALL},
		isa.Instruction{Op: isa.OP_SLL},
	)

	transfer, err := cpu.Tick()
	assert.NoError(err)
	assert.Equal(TRANSFER_SYSCALL, transfer.Kind)
	assert.Equal(textBase, cpu.PC)
	assert.Equal(0, cpu.Ticks)

	cpu.Complete()
	assert.Equal(textBase+4, cpu.PC)
	assert.Equal(1, cpu.Ticks)
}

func TestCpuExceptionDelivery(t *testing.T) {
	assert := assert.New(t)

	const handler = uint32(0x80000180)

	cpu := newTestCpu(t,
		isa.Instruction{Op: isa.OP_J, Target: textBase >> 2},
		isa.Instruction{Op: isa.OP_ADD, Rd: 8, Rs: 9, Rt: 9},
	)
	eret, err := isa.Encode(isa.Instruction{Op: isa.OP_ERET})
	assert.NoError(err)
	var buf [4]byte
	mem.ByteOrder.PutUint32(buf[:], eret)
	assert.NoError(cpu.Memory.Poke(handler, buf[:]))

	cpu.GPR[9] = 0x40000000

	tickN(t, cpu, 1)
	_, err = cpu.Tick()
	var exc *Exception
	assert.True(errors.As(err, &exc))
	assert.True(exc.InDelaySlot)
	assert.Equal(textBase+4, exc.PC)

	cpu.Deliver(exc, handler)
	assert.Equal(handler, cpu.PC)
	assert.True(cpu.Kernel())
	assert.False(cpu.InDelaySlot())
	assert.Equal(textBase, cpu.CP0[isa.CP0_EPC])
	assert.Equal(CAUSE_BD|uint32(EXC_OV)<<2, cpu.CP0[isa.CP0_CAUSE])

	// eret returns to the branch, with no delay slot of its own.
	tickN(t, cpu, 1)
	assert.Equal(textBase, cpu.PC)
	assert.False(cpu.Kernel())
	assert.False(cpu.InDelaySlot())

	// Kernel text is not fetchable from user mode.
	cpu.PC = handler
	_, err = cpu.Tick()
	assert.True(errors.As(err, &exc))
	assert.Equal(EXC_ADEL, exc.Code)
	assert.Equal(handler, exc.BadAddr)

	// Address errors record BadVAddr.
	cpu.Deliver(exc, handler)
	assert.Equal(handler, cpu.CP0[isa.CP0_BADVADDR])
	assert.Equal(handler, cpu.CP0[isa.CP0_EPC])
}

func TestRegisters(t *testing.T) {
	assert := assert.New(t)

	var regs Registers
	regs.GPR[8] = 8
	regs.PC = 0x400000
	regs.CP0[isa.CP0_EPC] = 0x1234

	table := [...]struct {
		name  string
		value uint32
	}{
		{"$t0", 8},
		{"t0", 8},
		{"$8", 8},
		{"pc", 0x400000},
		{"$epc", 0x1234},
		{"HI", 0},
	}

	for _, entry := range table {
		index, err := RegisterIndex(entry.name)
		assert.NoError(err, entry.name)
		value, err := regs.Read(index)
		assert.NoError(err, entry.name)
		assert.Equal(entry.value, value, entry.name)
	}

	_, err := RegisterIndex("$bogus")
	assert.Equal(ErrRegisterName("$bogus"), err)
	_, err = regs.Read(REGISTER_COUNT)
	assert.Equal(ErrRegisterIndex(REGISTER_COUNT), err)

	assert.Contains(regs.String(), "  $t0: 00000008")
}
