package cpu

import (
	"errors"
	"log"

	"github.com/ezrec/umips/isa"
	"github.com/ezrec/umips/mem"
)

// TransferKind is the control-flow effect of one instruction.
type TransferKind int

//go:generate go tool stringer -linecomment -type=TransferKind
const (
	TRANSFER_NEXT    = TransferKind(0) // next
	TRANSFER_BRANCH  = TransferKind(1) // branch
	TRANSFER_SYSCALL = TransferKind(2) // syscall
	TRANSFER_ERET    = TransferKind(3) // eret
)

// Transfer is the control-flow result of executing an instruction.
type Transfer struct {
	Kind   TransferKind
	Target uint32 // Destination for TRANSFER_BRANCH and TRANSFER_ERET.
}

// Cpu is the simulation context for a MIPS32 processor.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	Registers                    // Architectural state.
	Memory           *mem.Memory // Attached memory.
	DelayedBranching bool        // Execute the instruction after a taken branch.

	Ticks int // Instructions completed since reset.

	pending       bool   // A branch target is waiting on the delay slot.
	pendingTarget uint32 // Destination of the pending branch.
	llBit         bool   // Load-linked reservation.
}

// NewCpu creates a new CPU attached to memory.
func NewCpu(memory *mem.Memory) (cpu *Cpu) {
	cpu = &Cpu{
		Memory:           memory,
		DelayedBranching: true,
	}
	cpu.CP0[isa.CP0_STATUS] = STATUS_RESET
	return
}

// Reset the CPU state.
// - Clears all registers, HI/LO and coprocessor 0.
// - Sets the Status register to its reset value.
// - Loads the initial pc, $gp and $sp.
func (cpu *Cpu) Reset(pc uint32, gp uint32, sp uint32) {
	if cpu.Verbose {
		log.Printf("cpu: reset")
	}

	cpu.Registers = Registers{}
	cpu.CP0[isa.CP0_STATUS] = STATUS_RESET
	cpu.PC = pc
	cpu.GPR[isa.REG_GP] = gp
	cpu.GPR[isa.REG_SP] = sp

	cpu.Ticks = 0
	cpu.pending = false
	cpu.pendingTarget = 0
	cpu.llBit = false

	if cpu.Verbose {
		log.Printf("cpu: start at %#08x", pc)
	}
}

// Pending returns the branch target waiting on the current delay slot.
func (cpu *Cpu) Pending() (target uint32, ok bool) {
	return cpu.pendingTarget, cpu.pending
}

// InDelaySlot is true if the instruction at PC is in a branch delay slot.
func (cpu *Cpu) InDelaySlot() bool {
	return cpu.pending
}

// Fetch the instruction word at PC.
func (cpu *Cpu) Fetch() (word uint32, err error) {
	if cpu.Memory == nil {
		err = ErrNoMemory
		return
	}

	word, err = cpu.Memory.Fetch(cpu.PC, cpu.Kernel())
	if err != nil {
		exc := cpu.Raise(EXC_ADEL, err)
		exc.BadAddr = cpu.PC
		err = exc
	}
	return
}

// Tick executes a single instruction.
//
// A syscall instruction does not complete: Tick returns a TRANSFER_SYSCALL
// with PC still at the syscall, and the caller services it and then calls
// Complete (or Deliver). Architectural exceptions are returned as
// *Exception, with the register file unchanged.
func (cpu *Cpu) Tick() (transfer Transfer, err error) {
	word, err := cpu.Fetch()
	if err != nil {
		return
	}

	inst, err := isa.Decode(word)
	if err != nil {
		err = cpu.Raise(EXC_RI, err)
		return
	}

	if cpu.Verbose {
		log.Printf("cpu: %08x: %v", cpu.PC, inst.Disassemble(cpu.PC))
	}

	transfer, err = cpu.Execute(inst)
	if err != nil {
		return
	}

	if transfer.Kind != TRANSFER_SYSCALL {
		cpu.advance(transfer)
	}

	return
}

// Complete finishes a syscall returned by Tick, advancing past it.
func (cpu *Cpu) Complete() {
	cpu.advance(Transfer{Kind: TRANSFER_NEXT})
}

// advance moves PC past the current instruction, consuming any pending
// delay-slot branch.
func (cpu *Cpu) advance(transfer Transfer) {
	next := cpu.PC + 4
	if cpu.pending {
		next = cpu.pendingTarget
		cpu.pending = false
	}

	switch transfer.Kind {
	case TRANSFER_BRANCH:
		if cpu.DelayedBranching {
			cpu.pending = true
			cpu.pendingTarget = transfer.Target
		} else {
			next = transfer.Target
		}
	case TRANSFER_ERET:
		cpu.pending = false
		next = transfer.Target
	}

	cpu.PC = next
	cpu.Ticks++
}

// Execute a single decoded instruction against the current state.
func (cpu *Cpu) Execute(inst isa.Instruction) (transfer Transfer, err error) {
	if inst.Op <= isa.OP_INVALID || inst.Op >= isa.OP_COUNT {
		err = cpu.Raise(EXC_RI, isa.ErrInvalidOpcode)
		return
	}

	transfer, err = semantics[inst.Op](cpu, inst)
	if err != nil {
		var exc *Exception
		if !errors.As(err, &exc) {
			exc = cpu.Raise(EXC_RI, err)
		}
		err = exc
	}
	return
}

// link is the return address written by jal and friends.
func (cpu *Cpu) link() uint32 {
	if cpu.DelayedBranching {
		return cpu.PC + 8
	}
	return cpu.PC + 4
}

func (cpu *Cpu) load(addr uint32, width int) (value uint32, err error) {
	value, err = cpu.Memory.Load(addr, width, cpu.Kernel())
	if err != nil {
		exc := cpu.Raise(EXC_ADEL, err)
		exc.BadAddr = addr
		err = exc
	}
	return
}

func (cpu *Cpu) store(addr uint32, width int, value uint32) (err error) {
	err = cpu.Memory.Store(addr, width, value, cpu.Kernel())
	if err != nil {
		exc := cpu.Raise(EXC_ADES, err)
		exc.BadAddr = addr
		err = exc
	}
	return
}
