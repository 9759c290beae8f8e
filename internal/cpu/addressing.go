package cpu

const pageMask = 0xFF00

// operand is the result of resolving an addressing mode
type operand struct {
	addr        uint16
	accumulator bool
	pageCrossed bool
}

// resolve consumes the operand bytes following the opcode and returns the
// effective address. PC must already point past the opcode byte.
func (cpu *CPU) resolve(mode AddressingMode) operand {
	switch mode {
	case Implied, Accumulator:
		return operand{accumulator: true}

	case Immediate:
		addr := cpu.PC
		cpu.PC++
		return operand{addr: addr}

	case ZeroPage:
		return operand{addr: uint16(cpu.fetch())}

	case ZeroPageX:
		return operand{addr: uint16(cpu.fetch() + cpu.X)} // wraps within zero page

	case ZeroPageY:
		return operand{addr: uint16(cpu.fetch() + cpu.Y)}

	case Relative:
		offset := int8(cpu.fetch())
		target := uint16(int32(cpu.PC) + int32(offset))
		return operand{addr: target, pageCrossed: cpu.PC&pageMask != target&pageMask}

	case Absolute:
		return operand{addr: cpu.fetchWord()}

	case AbsoluteX:
		return indexedOperand(cpu.fetchWord(), cpu.X)

	case AbsoluteY:
		return indexedOperand(cpu.fetchWord(), cpu.Y)

	case Indirect:
		ptr := cpu.fetchWord()
		// The high byte never carries into the next page
		hiAddr := (ptr & pageMask) | uint16(uint8(ptr)+1)
		lo := uint16(cpu.read(ptr))
		hi := uint16(cpu.read(hiAddr))
		return operand{addr: hi<<8 | lo}

	case IndexedIndirect:
		ptr := cpu.fetch() + cpu.X
		return operand{addr: cpu.readZeroPageWord(ptr)}

	case IndirectIndexed:
		base := cpu.readZeroPageWord(cpu.fetch())
		return indexedOperand(base, cpu.Y)

	default:
		panic("cpu: unknown addressing mode " + mode.String())
	}
}

func indexedOperand(base uint16, index uint8) operand {
	addr := base + uint16(index)
	return operand{addr: addr, pageCrossed: base&pageMask != addr&pageMask}
}

func (cpu *CPU) fetch() uint8 {
	value := cpu.read(cpu.PC)
	cpu.PC++
	return value
}

func (cpu *CPU) fetchWord() uint16 {
	lo := uint16(cpu.fetch())
	hi := uint16(cpu.fetch())
	return hi<<8 | lo
}

// readZeroPageWord reads a pointer from zero page, wrapping $FF to $00
func (cpu *CPU) readZeroPageWord(ptr uint8) uint16 {
	lo := uint16(cpu.read(uint16(ptr)))
	hi := uint16(cpu.read(uint16(ptr + 1)))
	return hi<<8 | lo
}
