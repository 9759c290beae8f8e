package cpu

// executeUnofficial runs the undocumented opcodes. Combined opcodes reuse
// the official handlers for their two halves.
func (cpu *CPU) executeUnofficial(m Mnemonic, op operand) {
	switch m {
	case SLO: // ASL then ORA
		value := cpu.asl(cpu.read(op.addr))
		cpu.write(op.addr, value)
		cpu.A |= value
		cpu.setZN(cpu.A)

	case RLA: // ROL then AND
		value := cpu.rol(cpu.read(op.addr))
		cpu.write(op.addr, value)
		cpu.A &= value
		cpu.setZN(cpu.A)

	case SRE: // LSR then EOR
		value := cpu.lsr(cpu.read(op.addr))
		cpu.write(op.addr, value)
		cpu.A ^= value
		cpu.setZN(cpu.A)

	case RRA: // ROR then ADC
		value := cpu.ror(cpu.read(op.addr))
		cpu.write(op.addr, value)
		cpu.adc(value)

	case DCP: // DEC then CMP
		value := cpu.dec(op)
		cpu.compare(cpu.A, value)

	case ISB: // INC then SBC
		value := cpu.inc(op)
		cpu.sbc(value)

	case LAX:
		cpu.A = cpu.read(op.addr)
		cpu.X = cpu.A
		cpu.setZN(cpu.A)

	case SAX:
		cpu.write(op.addr, cpu.A&cpu.X)

	case ANC:
		cpu.A &= cpu.read(op.addr)
		cpu.setZN(cpu.A)
		cpu.P.SetCarry(cpu.P.Negative())

	case ALR:
		cpu.A &= cpu.read(op.addr)
		cpu.A = cpu.lsr(cpu.A)

	case ARR:
		cpu.A &= cpu.read(op.addr)
		cpu.A = cpu.ror(cpu.A)
		bit6 := cpu.A&0x40 != 0
		bit5 := cpu.A&0x20 != 0
		cpu.P.SetCarry(bit6)
		cpu.P.SetOverflow(bit6 != bit5)

	case AXS:
		value := cpu.read(op.addr)
		ax := cpu.A & cpu.X
		cpu.P.SetCarry(ax >= value)
		cpu.X = ax - value
		cpu.setZN(cpu.X)

	case LAS:
		value := cpu.read(op.addr) & cpu.SP
		cpu.A, cpu.X, cpu.SP = value, value, value
		cpu.setZN(value)

	case TAS:
		cpu.SP = cpu.A & cpu.X
		cpu.unstableStore(op, cpu.SP, cpu.Y)

	case SHA:
		cpu.unstableStore(op, cpu.A&cpu.X, cpu.Y)

	case SHX:
		cpu.unstableStore(op, cpu.X, cpu.Y)

	case SHY:
		cpu.unstableStore(op, cpu.Y, cpu.X)

	default:
		panic("cpu: no handler for " + m.String())
	}
}

// unstableStore implements the SHA/SHX/SHY/TAS family: the stored value is
// ANDed with the high byte of the unindexed base plus one, and a page
// crossing replaces the target high byte with that value.
func (cpu *CPU) unstableStore(op operand, value, index uint8) {
	base := op.addr - uint16(index)
	value &= uint8(base>>8) + 1
	addr := op.addr
	if op.pageCrossed {
		addr = uint16(value)<<8 | addr&0x00FF
	}
	cpu.write(addr, value)
}
