package cpu

import (
	"math"
	"math/bits"

	"github.com/ezrec/umips/isa"
)

// semantic executes one instruction. It must not modify any state when it
// returns an error.
type semantic func(cpu *Cpu, inst isa.Instruction) (Transfer, error)

// semantics is indexed by isa.Op, and is immutable after init.
var semantics [isa.OP_COUNT]semantic

var fallThrough = Transfer{Kind: TRANSFER_NEXT}

func branch(target uint32) Transfer {
	return Transfer{Kind: TRANSFER_BRANCH, Target: target}
}

// alu3 builds a non-trapping rd = fn(rs, rt) instruction.
func alu3(fn func(rs, rt uint32) uint32) semantic {
	return func(cpu *Cpu, inst isa.Instruction) (Transfer, error) {
		cpu.Set(inst.Rd, fn(cpu.Get(inst.Rs), cpu.Get(inst.Rt)))
		return fallThrough, nil
	}
}

// aluImm builds a non-trapping rt = fn(rs, imm) instruction.
func aluImm(fn func(rs uint32, imm int32) uint32) semantic {
	return func(cpu *Cpu, inst isa.Instruction) (Transfer, error) {
		cpu.Set(inst.Rt, fn(cpu.Get(inst.Rs), inst.Imm))
		return fallThrough, nil
	}
}

// shift builds an rd = fn(rt, amount) instruction; variable shifts take
// the amount from the low 5 bits of rs.
func shift(variable bool, fn func(rt uint32, sa uint) uint32) semantic {
	return func(cpu *Cpu, inst isa.Instruction) (Transfer, error) {
		sa := uint(inst.Shamt)
		if variable {
			sa = uint(cpu.Get(inst.Rs) & 31)
		}
		cpu.Set(inst.Rd, fn(cpu.Get(inst.Rt), sa))
		return fallThrough, nil
	}
}

// cond builds a branch on a register comparison. Linking variants always
// write $ra, taken or not.
func cond(link bool, fn func(rs, rt int32) bool) semantic {
	return func(cpu *Cpu, inst isa.Instruction) (transfer Transfer, err error) {
		taken := fn(int32(cpu.Get(inst.Rs)), int32(cpu.Get(inst.Rt)))
		target := inst.BranchTarget(cpu.PC)
		if link {
			cpu.Set(isa.REG_RA, cpu.link())
		}
		transfer = fallThrough
		if taken {
			transfer = branch(target)
		}
		return
	}
}

// trap builds a conditional trap on rs against rt (or the immediate).
func trap(immediate bool, fn func(rs, rt uint32) bool) semantic {
	return func(cpu *Cpu, inst isa.Instruction) (transfer Transfer, err error) {
		rt := cpu.Get(inst.Rt)
		if immediate {
			rt = uint32(inst.Imm)
		}
		if fn(cpu.Get(inst.Rs), rt) {
			exc := cpu.Raise(EXC_TR, ErrTrap)
			exc.TrapCode = inst.Code
			err = exc
			return
		}
		transfer = fallThrough
		return
	}
}

// loadOp builds a load of width bytes, sign extending if signed.
func loadOp(width int, signed bool) semantic {
	return func(cpu *Cpu, inst isa.Instruction) (transfer Transfer, err error) {
		addr := cpu.Get(inst.Rs) + uint32(inst.Imm)
		value, err := cpu.load(addr, width)
		if err != nil {
			return
		}
		if signed {
			switch width {
			case 1:
				value = uint32(int32(int8(value)))
			case 2:
				value = uint32(int32(int16(value)))
			}
		}
		cpu.Set(inst.Rt, value)
		transfer = fallThrough
		return
	}
}

func storeOp(width int) semantic {
	return func(cpu *Cpu, inst isa.Instruction) (transfer Transfer, err error) {
		addr := cpu.Get(inst.Rs) + uint32(inst.Imm)
		err = cpu.store(addr, width, cpu.Get(inst.Rt))
		if err != nil {
			return
		}
		transfer = fallThrough
		return
	}
}

func (cpu *Cpu) hilo() int64 {
	return int64(uint64(cpu.HI)<<32 | uint64(cpu.LO))
}

func (cpu *Cpu) setHilo(value int64) {
	cpu.HI = uint32(uint64(value) >> 32)
	cpu.LO = uint32(value)
}

// accumulate builds madd/msub and their unsigned variants.
func accumulate(signed bool, subtract bool) semantic {
	return func(cpu *Cpu, inst isa.Instruction) (Transfer, error) {
		var product int64
		if signed {
			product = int64(int32(cpu.Get(inst.Rs))) * int64(int32(cpu.Get(inst.Rt)))
		} else {
			product = int64(uint64(cpu.Get(inst.Rs)) * uint64(cpu.Get(inst.Rt)))
		}
		if subtract {
			product = -product
		}
		cpu.setHilo(cpu.hilo() + product)
		return fallThrough, nil
	}
}

func b2u(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}

func init() {
	// Shifts
	semantics[isa.OP_SLL] = shift(false, func(rt uint32, sa uint) uint32 { return rt << sa })
	semantics[isa.OP_SRL] = shift(false, func(rt uint32, sa uint) uint32 { return rt >> sa })
	semantics[isa.OP_SRA] = shift(false, func(rt uint32, sa uint) uint32 { return uint32(int32(rt) >> sa) })
	semantics[isa.OP_SLLV] = shift(true, func(rt uint32, sa uint) uint32 { return rt << sa })
	semantics[isa.OP_SRLV] = shift(true, func(rt uint32, sa uint) uint32 { return rt >> sa })
	semantics[isa.OP_SRAV] = shift(true, func(rt uint32, sa uint) uint32 { return uint32(int32(rt) >> sa) })

	// Register jumps
	semantics[isa.OP_JR] = func(cpu *Cpu, inst isa.Instruction) (Transfer, error) {
		return branch(cpu.Get(inst.Rs)), nil
	}
	semantics[isa.OP_JALR] = func(cpu *Cpu, inst isa.Instruction) (Transfer, error) {
		target := cpu.Get(inst.Rs)
		cpu.Set(inst.Rd, cpu.link())
		return branch(target), nil
	}

	// Conditional moves
	semantics[isa.OP_MOVZ] = func(cpu *Cpu, inst isa.Instruction) (Transfer, error) {
		if cpu.Get(inst.Rt) == 0 {
			cpu.Set(inst.Rd, cpu.Get(inst.Rs))
		}
		return fallThrough, nil
	}
	semantics[isa.OP_MOVN] = func(cpu *Cpu, inst isa.Instruction) (Transfer, error) {
		if cpu.Get(inst.Rt) != 0 {
			cpu.Set(inst.Rd, cpu.Get(inst.Rs))
		}
		return fallThrough, nil
	}

	// System
	semantics[isa.OP_SYSCALL] = func(cpu *Cpu, inst isa.Instruction) (Transfer, error) {
		return Transfer{Kind: TRANSFER_SYSCALL}, nil
	}
	semantics[isa.OP_BREAK] = func(cpu *Cpu, inst isa.Instruction) (Transfer, error) {
		exc := cpu.Raise(EXC_BP, ErrBreak)
		exc.TrapCode = inst.Code
		return fallThrough, exc
	}

	// HI/LO
	semantics[isa.OP_MFHI] = func(cpu *Cpu, inst isa.Instruction) (Transfer, error) {
		cpu.Set(inst.Rd, cpu.HI)
		return fallThrough, nil
	}
	semantics[isa.OP_MTHI] = func(cpu *Cpu, inst isa.Instruction) (Transfer, error) {
		cpu.HI = cpu.Get(inst.Rs)
		return fallThrough, nil
	}
	semantics[isa.OP_MFLO] = func(cpu *Cpu, inst isa.Instruction) (Transfer, error) {
		cpu.Set(inst.Rd, cpu.LO)
		return fallThrough, nil
	}
	semantics[isa.OP_MTLO] = func(cpu *Cpu, inst isa.Instruction) (Transfer, error) {
		cpu.LO = cpu.Get(inst.Rs)
		return fallThrough, nil
	}
	semantics[isa.OP_MULT] = func(cpu *Cpu, inst isa.Instruction) (Transfer, error) {
		cpu.setHilo(int64(int32(cpu.Get(inst.Rs))) * int64(int32(cpu.Get(inst.Rt))))
		return fallThrough, nil
	}
	semantics[isa.OP_MULTU] = func(cpu *Cpu, inst isa.Instruction) (Transfer, error) {
		cpu.setHilo(int64(uint64(cpu.Get(inst.Rs)) * uint64(cpu.Get(inst.Rt))))
		return fallThrough, nil
	}
	// Division by zero leaves HI and LO unchanged.
	semantics[isa.OP_DIV] = func(cpu *Cpu, inst isa.Instruction) (Transfer, error) {
		rs, rt := int32(cpu.Get(inst.Rs)), int32(cpu.Get(inst.Rt))
		if rt != 0 {
			if rs == math.MinInt32 && rt == -1 {
				cpu.LO, cpu.HI = uint32(rs), 0
			} else {
				cpu.LO, cpu.HI = uint32(rs/rt), uint32(rs%rt)
			}
		}
		return fallThrough, nil
	}
	semantics[isa.OP_DIVU] = func(cpu *Cpu, inst isa.Instruction) (Transfer, error) {
		rs, rt := cpu.Get(inst.Rs), cpu.Get(inst.Rt)
		if rt != 0 {
			cpu.LO, cpu.HI = rs/rt, rs%rt
		}
		return fallThrough, nil
	}

	// Arithmetic
	semantics[isa.OP_ADD] = func(cpu *Cpu, inst isa.Instruction) (Transfer, error) {
		rs, rt := int32(cpu.Get(inst.Rs)), int32(cpu.Get(inst.Rt))
		sum := rs + rt
		if (rs >= 0) == (rt >= 0) && (sum >= 0) != (rs >= 0) {
			return fallThrough, cpu.Raise(EXC_OV, ErrOverflow)
		}
		cpu.Set(inst.Rd, uint32(sum))
		return fallThrough, nil
	}
	semantics[isa.OP_ADDU] = alu3(func(rs, rt uint32) uint32 { return rs + rt })
	semantics[isa.OP_SUB] = func(cpu *Cpu, inst isa.Instruction) (Transfer, error) {
		rs, rt := int32(cpu.Get(inst.Rs)), int32(cpu.Get(inst.Rt))
		diff := rs - rt
		if (rs >= 0) != (rt >= 0) && (diff >= 0) != (rs >= 0) {
			return fallThrough, cpu.Raise(EXC_OV, ErrOverflow)
		}
		cpu.Set(inst.Rd, uint32(diff))
		return fallThrough, nil
	}
	semantics[isa.OP_SUBU] = alu3(func(rs, rt uint32) uint32 { return rs - rt })
	semantics[isa.OP_AND] = alu3(func(rs, rt uint32) uint32 { return rs & rt })
	semantics[isa.OP_OR] = alu3(func(rs, rt uint32) uint32 { return rs | rt })
	semantics[isa.OP_XOR] = alu3(func(rs, rt uint32) uint32 { return rs ^ rt })
	semantics[isa.OP_NOR] = alu3(func(rs, rt uint32) uint32 { return ^(rs | rt) })
	semantics[isa.OP_SLT] = alu3(func(rs, rt uint32) uint32 { return b2u(int32(rs) < int32(rt)) })
	semantics[isa.OP_SLTU] = alu3(func(rs, rt uint32) uint32 { return b2u(rs < rt) })

	// Register traps
	semantics[isa.OP_TGE] = trap(false, func(rs, rt uint32) bool { return int32(rs) >= int32(rt) })
	semantics[isa.OP_TGEU] = trap(false, func(rs, rt uint32) bool { return rs >= rt })
	semantics[isa.OP_TLT] = trap(false, func(rs, rt uint32) bool { return int32(rs) < int32(rt) })
	semantics[isa.OP_TLTU] = trap(false, func(rs, rt uint32) bool { return rs < rt })
	semantics[isa.OP_TEQ] = trap(false, func(rs, rt uint32) bool { return rs == rt })
	semantics[isa.OP_TNE] = trap(false, func(rs, rt uint32) bool { return rs != rt })

	// REGIMM
	semantics[isa.OP_BLTZ] = cond(false, func(rs, _ int32) bool { return rs < 0 })
	semantics[isa.OP_BGEZ] = cond(false, func(rs, _ int32) bool { return rs >= 0 })
	semantics[isa.OP_BLTZAL] = cond(true, func(rs, _ int32) bool { return rs < 0 })
	semantics[isa.OP_BGEZAL] = cond(true, func(rs, _ int32) bool { return rs >= 0 })
	semantics[isa.OP_TGEI] = trap(true, func(rs, imm uint32) bool { return int32(rs) >= int32(imm) })
	semantics[isa.OP_TGEIU] = trap(true, func(rs, imm uint32) bool { return rs >= imm })
	semantics[isa.OP_TLTI] = trap(true, func(rs, imm uint32) bool { return int32(rs) < int32(imm) })
	semantics[isa.OP_TLTIU] = trap(true, func(rs, imm uint32) bool { return rs < imm })
	semantics[isa.OP_TEQI] = trap(true, func(rs, imm uint32) bool { return rs == imm })
	semantics[isa.OP_TNEI] = trap(true, func(rs, imm uint32) bool { return rs != imm })

	// Jumps
	semantics[isa.OP_J] = func(cpu *Cpu, inst isa.Instruction) (Transfer, error) {
		return branch(inst.JumpTarget(cpu.PC)), nil
	}
	semantics[isa.OP_JAL] = func(cpu *Cpu, inst isa.Instruction) (Transfer, error) {
		cpu.Set(isa.REG_RA, cpu.link())
		return branch(inst.JumpTarget(cpu.PC)), nil
	}

	// Branches
	semantics[isa.OP_BEQ] = cond(false, func(rs, rt int32) bool { return rs == rt })
	semantics[isa.OP_BNE] = cond(false, func(rs, rt int32) bool { return rs != rt })
	semantics[isa.OP_BLEZ] = cond(false, func(rs, _ int32) bool { return rs <= 0 })
	semantics[isa.OP_BGTZ] = cond(false, func(rs, _ int32) bool { return rs > 0 })

	// Immediates
	semantics[isa.OP_ADDI] = func(cpu *Cpu, inst isa.Instruction) (Transfer, error) {
		rs, imm := int32(cpu.Get(inst.Rs)), inst.Imm
		sum := rs + imm
		if (rs >= 0) == (imm >= 0) && (sum >= 0) != (rs >= 0) {
			return fallThrough, cpu.Raise(EXC_OV, ErrOverflow)
		}
		cpu.Set(inst.Rt, uint32(sum))
		return fallThrough, nil
	}
	semantics[isa.OP_ADDIU] = aluImm(func(rs uint32, imm int32) uint32 { return rs + uint32(imm) })
	semantics[isa.OP_SLTI] = aluImm(func(rs uint32, imm int32) uint32 { return b2u(int32(rs) < imm) })
	semantics[isa.OP_SLTIU] = aluImm(func(rs uint32, imm int32) uint32 { return b2u(rs < uint32(imm)) })
	semantics[isa.OP_ANDI] = aluImm(func(rs uint32, imm int32) uint32 { return rs & uint32(imm) })
	semantics[isa.OP_ORI] = aluImm(func(rs uint32, imm int32) uint32 { return rs | uint32(imm) })
	semantics[isa.OP_XORI] = aluImm(func(rs uint32, imm int32) uint32 { return rs ^ uint32(imm) })
	semantics[isa.OP_LUI] = aluImm(func(_ uint32, imm int32) uint32 { return uint32(imm) << 16 })

	// Loads and stores
	semantics[isa.OP_LB] = loadOp(1, true)
	semantics[isa.OP_LH] = loadOp(2, true)
	semantics[isa.OP_LW] = loadOp(4, false)
	semantics[isa.OP_LBU] = loadOp(1, false)
	semantics[isa.OP_LHU] = loadOp(2, false)
	semantics[isa.OP_SB] = storeOp(1)
	semantics[isa.OP_SH] = storeOp(2)
	semantics[isa.OP_SW] = storeOp(4)
	semantics[isa.OP_LL] = func(cpu *Cpu, inst isa.Instruction) (transfer Transfer, err error) {
		transfer, err = loadOp(4, false)(cpu, inst)
		if err == nil {
			cpu.llBit = true
		}
		return
	}
	semantics[isa.OP_SC] = func(cpu *Cpu, inst isa.Instruction) (transfer Transfer, err error) {
		if cpu.llBit {
			addr := cpu.Get(inst.Rs) + uint32(inst.Imm)
			err = cpu.store(addr, 4, cpu.Get(inst.Rt))
			if err != nil {
				return
			}
		}
		cpu.Set(inst.Rt, b2u(cpu.llBit))
		cpu.llBit = false
		transfer = fallThrough
		return
	}

	// Coprocessor 0
	semantics[isa.OP_MFC0] = func(cpu *Cpu, inst isa.Instruction) (Transfer, error) {
		cpu.Set(inst.Rt, cpu.CP0[inst.Rd&31])
		return fallThrough, nil
	}
	semantics[isa.OP_MTC0] = func(cpu *Cpu, inst isa.Instruction) (Transfer, error) {
		cpu.CP0[inst.Rd&31] = cpu.Get(inst.Rt)
		return fallThrough, nil
	}
	semantics[isa.OP_ERET] = func(cpu *Cpu, inst isa.Instruction) (Transfer, error) {
		cpu.CP0[isa.CP0_STATUS] &^= STATUS_EXL
		cpu.llBit = false
		return Transfer{Kind: TRANSFER_ERET, Target: cpu.CP0[isa.CP0_EPC]}, nil
	}

	// SPECIAL2
	semantics[isa.OP_MADD] = accumulate(true, false)
	semantics[isa.OP_MADDU] = accumulate(false, false)
	semantics[isa.OP_MSUB] = accumulate(true, true)
	semantics[isa.OP_MSUBU] = accumulate(false, true)
	semantics[isa.OP_MUL] = alu3(func(rs, rt uint32) uint32 { return uint32(int32(rs) * int32(rt)) })
	semantics[isa.OP_CLZ] = func(cpu *Cpu, inst isa.Instruction) (Transfer, error) {
		cpu.Set(inst.Rd, uint32(bits.LeadingZeros32(cpu.Get(inst.Rs))))
		return fallThrough, nil
	}
	semantics[isa.OP_CLO] = func(cpu *Cpu, inst isa.Instruction) (Transfer, error) {
		cpu.Set(inst.Rd, uint32(bits.LeadingZeros32(^cpu.Get(inst.Rs))))
		return fallThrough, nil
	}

	for op := isa.OP_INVALID + 1; op < isa.OP_COUNT; op++ {
		if semantics[op] == nil {
			panic("cpu: no semantics for " + op.String())
		}
	}
}
