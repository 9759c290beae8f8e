// Package cpu implements the 6502 CPU emulation for the NES.
package cpu

import (
	"github.com/golang/glog"
)

const (
	stackBase   = 0x0100
	nmiVector   = 0xFFFA
	resetVector = 0xFFFC
	irqVector   = 0xFFFE

	// nmiCycles is the cost of servicing a non-maskable interrupt
	nmiCycles = 7
)

// Bus is the CPU's only path to memory and to the PPU
type Bus interface {
	Read(address uint16) uint8
	Write(address uint16, value uint8) error
	// Tick advances the rest of the system by the given CPU cycles
	Tick(cycles uint32)
	// PollNMI takes the pending NMI, if any
	PollNMI() bool
	// TakeStallCycles returns and clears cycles owed to DMA
	TakeStallCycles() uint32
}

// Registers is a copy of the register file
type Registers struct {
	A  uint8
	X  uint8
	Y  uint8
	SP uint8
	PC uint16
	P  Status
}

// CPU represents the 6502 processor used in the NES
type CPU struct {
	A  uint8  // Accumulator
	X  uint8  // X register
	Y  uint8  // Y register
	SP uint8  // Stack pointer
	PC uint16 // Program counter
	P  Status // Processor status

	// PageCrossPenalty enables the approximate indexed-read and branch
	// page-crossing cycle penalties.
	PageCrossPenalty bool
	// TraceUnofficial logs every unofficial opcode at V(2)
	TraceUnofficial bool

	bus    Bus
	cycles uint64

	last     Instruction
	jammed   bool
	writeErr error
}

// New powers on a CPU attached to bus. The program counter is loaded from
// the reset vector.
func New(bus Bus) *CPU {
	cpu := &CPU{
		bus:              bus,
		SP:               0xFD,
		P:                NewStatus(powerOnStatus),
		PageCrossPenalty: true,
	}
	cpu.PC = cpu.readWord(resetVector)
	glog.V(1).Infof("[CPU] power on, PC=$%04X", cpu.PC)
	return cpu
}

// Registers returns a copy of the register file
func (cpu *CPU) Registers() Registers {
	return Registers{A: cpu.A, X: cpu.X, Y: cpu.Y, SP: cpu.SP, PC: cpu.PC, P: cpu.P}
}

// Cycles returns the total number of CPU cycles executed since power on
func (cpu *CPU) Cycles() uint64 {
	return cpu.cycles
}

// LastInstruction returns the descriptor of the most recently executed opcode
func (cpu *CPU) LastInstruction() Instruction {
	return cpu.last
}

// Jammed reports whether a JAM opcode has halted the processor
func (cpu *CPU) Jammed() bool {
	return cpu.jammed
}

// Step executes one instruction, then services a pending NMI. It returns
// the cycles consumed by both.
//
// Decode failures return before anything executes, leaving PC at the
// offending opcode. An illegal bus write does not abort the instruction;
// the first such error is returned after it completes.
func (cpu *CPU) Step() (uint32, error) {
	pc := cpu.PC
	if cpu.jammed {
		return 0, &OpcodeError{Opcode: cpu.last.Opcode, PC: pc, Mnemonic: JAM, Err: ErrJammed}
	}

	opcode := cpu.read(pc)
	inst := instructionTable[opcode]

	if inst.Mnemonic == JAM {
		cpu.jammed = true
		cpu.last = inst
		glog.Errorf("[CPU] JAM $%02X at $%04X, processor halted", opcode, pc)
		return 0, &OpcodeError{Opcode: opcode, PC: pc, Mnemonic: inst.Mnemonic, Err: ErrJammed}
	}
	if !inst.Implemented() {
		return 0, &OpcodeError{Opcode: opcode, PC: pc, Mnemonic: inst.Mnemonic, Err: ErrUnimplementedOpcode}
	}

	cpu.PC++
	cpu.writeErr = nil
	op := cpu.resolve(inst.Mode)

	if inst.Unofficial && cpu.TraceUnofficial {
		glog.V(2).Infof("[CPU] unofficial opcode %s ($%02X) at $%04X, operand $%04X", inst.Mnemonic, opcode, pc, op.addr)
	}

	cycles := uint32(inst.Cycles) + uint32(cpu.execute(inst.Mnemonic, op))
	if cpu.PageCrossPenalty && inst.PageCrossPenalty && op.pageCrossed {
		cycles++
	}
	cycles += cpu.bus.TakeStallCycles()
	cpu.last = inst
	cpu.advance(cycles)

	if cpu.bus.PollNMI() {
		cpu.nmi()
		cpu.advance(nmiCycles)
		cycles += nmiCycles
	}

	return cycles, cpu.writeErr
}

func (cpu *CPU) advance(cycles uint32) {
	cpu.cycles += uint64(cycles)
	cpu.bus.Tick(cycles)
}

// nmi pushes PC and status, masks IRQs and jumps through the NMI vector
func (cpu *CPU) nmi() {
	glog.V(1).Infof("[CPU] NMI at $%04X", cpu.PC)
	cpu.pushWord(cpu.PC)
	cpu.push(cpu.P.pushed(false))
	cpu.P.SetInterruptDisable(true)
	cpu.PC = cpu.readWord(nmiVector)
}

func (cpu *CPU) read(address uint16) uint8 {
	return cpu.bus.Read(address)
}

func (cpu *CPU) readWord(address uint16) uint16 {
	lo := uint16(cpu.read(address))
	hi := uint16(cpu.read(address + 1))
	return hi<<8 | lo
}

// write forwards to the bus and keeps the first error of the instruction
func (cpu *CPU) write(address uint16, value uint8) {
	if err := cpu.bus.Write(address, value); err != nil && cpu.writeErr == nil {
		cpu.writeErr = err
	}
}

// Stack operations
func (cpu *CPU) push(value uint8) {
	cpu.write(stackBase|uint16(cpu.SP), value)
	cpu.SP--
}

func (cpu *CPU) pop() uint8 {
	cpu.SP++
	return cpu.read(stackBase | uint16(cpu.SP))
}

func (cpu *CPU) pushWord(value uint16) {
	cpu.push(uint8(value >> 8)) // High byte first
	cpu.push(uint8(value & 0xFF))
}

func (cpu *CPU) popWord() uint16 {
	lo := uint16(cpu.pop())
	hi := uint16(cpu.pop())
	return hi<<8 | lo
}

// setZN sets Zero and Negative from a result value
func (cpu *CPU) setZN(value uint8) {
	cpu.P.SetZero(value == 0)
	cpu.P.SetNegative(value&nFlagMask != 0)
}
