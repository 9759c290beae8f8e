package cpu

// execute dispatches a resolved instruction and returns extra cycles
// taken by branches.
func (cpu *CPU) execute(m Mnemonic, op operand) uint8 {
	switch m {
	// Load/Store
	case LDA:
		cpu.lda(op)
	case LDX:
		cpu.ldx(op)
	case LDY:
		cpu.ldy(op)
	case STA:
		cpu.write(op.addr, cpu.A)
	case STX:
		cpu.write(op.addr, cpu.X)
	case STY:
		cpu.write(op.addr, cpu.Y)

	// Arithmetic and logic
	case ADC:
		cpu.adc(cpu.read(op.addr))
	case SBC:
		cpu.sbc(cpu.read(op.addr))
	case AND:
		cpu.and(op)
	case ORA:
		cpu.ora(op)
	case EOR:
		cpu.eor(op)
	case BIT:
		cpu.bit(op)
	case CMP:
		cpu.compare(cpu.A, cpu.read(op.addr))
	case CPX:
		cpu.compare(cpu.X, cpu.read(op.addr))
	case CPY:
		cpu.compare(cpu.Y, cpu.read(op.addr))

	// Shifts, accumulator or memory
	case ASL:
		cpu.store(op, cpu.asl(cpu.load(op)))
	case LSR:
		cpu.store(op, cpu.lsr(cpu.load(op)))
	case ROL:
		cpu.store(op, cpu.rol(cpu.load(op)))
	case ROR:
		cpu.store(op, cpu.ror(cpu.load(op)))

	// Increment/Decrement
	case INC:
		cpu.inc(op)
	case DEC:
		cpu.dec(op)
	case INX:
		cpu.X++
		cpu.setZN(cpu.X)
	case INY:
		cpu.Y++
		cpu.setZN(cpu.Y)
	case DEX:
		cpu.X--
		cpu.setZN(cpu.X)
	case DEY:
		cpu.Y--
		cpu.setZN(cpu.Y)

	// Transfers
	case TAX:
		cpu.X = cpu.A
		cpu.setZN(cpu.X)
	case TAY:
		cpu.Y = cpu.A
		cpu.setZN(cpu.Y)
	case TXA:
		cpu.A = cpu.X
		cpu.setZN(cpu.A)
	case TYA:
		cpu.A = cpu.Y
		cpu.setZN(cpu.A)
	case TSX:
		cpu.X = cpu.SP
		cpu.setZN(cpu.X)
	case TXS:
		cpu.SP = cpu.X

	// Stack
	case PHA:
		cpu.push(cpu.A)
	case PLA:
		cpu.A = cpu.pop()
		cpu.setZN(cpu.A)
	case PHP:
		cpu.push(cpu.P.pushed(true))
	case PLP:
		cpu.P.pulled(cpu.pop())

	// Flags
	case CLC:
		cpu.P.SetCarry(false)
	case SEC:
		cpu.P.SetCarry(true)
	case CLI:
		cpu.P.SetInterruptDisable(false)
	case SEI:
		cpu.P.SetInterruptDisable(true)
	case CLV:
		cpu.P.SetOverflow(false)
	case CLD:
		cpu.P.SetDecimal(false)
	case SED:
		cpu.P.SetDecimal(true)

	// Control flow
	case JMP:
		cpu.PC = op.addr
	case JSR:
		cpu.pushWord(cpu.PC - 1)
		cpu.PC = op.addr
	case RTS:
		cpu.PC = cpu.popWord() + 1
	case RTI:
		cpu.P.pulled(cpu.pop())
		cpu.PC = cpu.popWord()
	case BRK:
		cpu.brk()

	// Branches
	case BCC:
		return cpu.branch(op, !cpu.P.Carry())
	case BCS:
		return cpu.branch(op, cpu.P.Carry())
	case BNE:
		return cpu.branch(op, !cpu.P.Zero())
	case BEQ:
		return cpu.branch(op, cpu.P.Zero())
	case BPL:
		return cpu.branch(op, !cpu.P.Negative())
	case BMI:
		return cpu.branch(op, cpu.P.Negative())
	case BVC:
		return cpu.branch(op, !cpu.P.Overflow())
	case BVS:
		return cpu.branch(op, cpu.P.Overflow())

	case NOP:
		// Unofficial NOPs with an operand still perform the dummy read
		if !op.accumulator {
			cpu.read(op.addr)
		}

	default:
		cpu.executeUnofficial(m, op)
	}
	return 0
}

// load returns the operand value, from A for accumulator forms
func (cpu *CPU) load(op operand) uint8 {
	if op.accumulator {
		return cpu.A
	}
	return cpu.read(op.addr)
}

// store writes a read-modify-write result back to A or memory
func (cpu *CPU) store(op operand, value uint8) {
	if op.accumulator {
		cpu.A = value
		return
	}
	cpu.write(op.addr, value)
}

func (cpu *CPU) lda(op operand) {
	cpu.A = cpu.read(op.addr)
	cpu.setZN(cpu.A)
}

func (cpu *CPU) ldx(op operand) {
	cpu.X = cpu.read(op.addr)
	cpu.setZN(cpu.X)
}

func (cpu *CPU) ldy(op operand) {
	cpu.Y = cpu.read(op.addr)
	cpu.setZN(cpu.Y)
}

func (cpu *CPU) adc(value uint8) {
	carry := uint16(0)
	if cpu.P.Carry() {
		carry = 1
	}
	sum := uint16(cpu.A) + uint16(value) + carry
	result := uint8(sum)

	cpu.P.SetCarry(sum > 0xFF)
	cpu.P.SetOverflow((value^result)&(result^cpu.A)&0x80 != 0)
	cpu.A = result
	cpu.setZN(cpu.A)
}

func (cpu *CPU) sbc(value uint8) {
	cpu.adc(^value)
}

func (cpu *CPU) and(op operand) {
	cpu.A &= cpu.read(op.addr)
	cpu.setZN(cpu.A)
}

func (cpu *CPU) ora(op operand) {
	cpu.A |= cpu.read(op.addr)
	cpu.setZN(cpu.A)
}

func (cpu *CPU) eor(op operand) {
	cpu.A ^= cpu.read(op.addr)
	cpu.setZN(cpu.A)
}

func (cpu *CPU) bit(op operand) {
	value := cpu.read(op.addr)
	cpu.P.SetNegative(value&nFlagMask != 0)
	cpu.P.SetOverflow(value&vFlagMask != 0)
	cpu.P.SetZero(cpu.A&value == 0)
}

func (cpu *CPU) compare(register, value uint8) {
	cpu.P.SetCarry(register >= value)
	cpu.setZN(register - value)
}

func (cpu *CPU) asl(value uint8) uint8 {
	cpu.P.SetCarry(value&0x80 != 0)
	value <<= 1
	cpu.setZN(value)
	return value
}

func (cpu *CPU) lsr(value uint8) uint8 {
	cpu.P.SetCarry(value&0x01 != 0)
	value >>= 1
	cpu.setZN(value)
	return value
}

func (cpu *CPU) rol(value uint8) uint8 {
	carryIn := cpu.P.Carry()
	cpu.P.SetCarry(value&0x80 != 0)
	value <<= 1
	if carryIn {
		value |= 0x01
	}
	cpu.setZN(value)
	return value
}

func (cpu *CPU) ror(value uint8) uint8 {
	carryIn := cpu.P.Carry()
	cpu.P.SetCarry(value&0x01 != 0)
	value >>= 1
	if carryIn {
		value |= 0x80
	}
	cpu.setZN(value)
	return value
}

func (cpu *CPU) inc(op operand) uint8 {
	value := cpu.read(op.addr) + 1
	cpu.write(op.addr, value)
	cpu.setZN(value)
	return value
}

func (cpu *CPU) dec(op operand) uint8 {
	value := cpu.read(op.addr) - 1
	cpu.write(op.addr, value)
	cpu.setZN(value)
	return value
}

// branch jumps when taken and returns the extra cycles spent
func (cpu *CPU) branch(op operand, taken bool) uint8 {
	if !taken {
		return 0
	}
	cpu.PC = op.addr
	if cpu.PageCrossPenalty && op.pageCrossed {
		return 2
	}
	return 1
}

// brk skips the padding byte, pushes PC and status with B set, and jumps
// through the IRQ vector.
func (cpu *CPU) brk() {
	cpu.PC++
	cpu.pushWord(cpu.PC)
	cpu.push(cpu.P.pushed(true))
	cpu.P.SetInterruptDisable(true)
	cpu.PC = cpu.readWord(irqVector)
}
