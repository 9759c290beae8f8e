// Package bus implements the CPU address space. The bus owns internal RAM,
// the PPU and the controller ports; the CPU reaches them only through it.
package bus

import (
	"fmt"

	"github.com/golang/glog"

	"nescore/internal/cartridge"
	"nescore/internal/input"
	"nescore/internal/ppu"
)

const (
	ramSize      = 0x0800
	ramMask      = 0x07FF
	ppuRegMask   = 0x2007
	oamDMAPort   = 0x4014
	prgBase      = 0x8000
	dotsPerCycle = 3

	// OAM DMA halts the CPU for 513 cycles, plus one on an odd cycle
	dmaStallCycles = 513
)

// Callback receives the PPU at NMI edges and frame boundaries
type Callback func(p *ppu.PPU)

// Bus connects the CPU to RAM, the PPU and PRG-ROM
type Bus struct {
	ram [ramSize]uint8
	prg []uint8
	ppu *ppu.PPU
	pad input.Ports

	cycles uint64
	stall  uint32

	nmiCallback   Callback
	frameCallback Callback
}

// New builds the address space for a validated cartridge
func New(cart cartridge.Cartridge) *Bus {
	return &Bus{
		prg: cart.PRGROM,
		ppu: ppu.New(cart.CHRROM, cart.Mirroring),
	}
}

// PPU returns the PPU owned by the bus
func (b *Bus) PPU() *ppu.PPU {
	return b.ppu
}

// Input returns the controller ports
func (b *Bus) Input() *input.Ports {
	return &b.pad
}

// SetNMICallback sets the function called when the PPU raises NMI
func (b *Bus) SetNMICallback(callback Callback) {
	b.nmiCallback = callback
}

// SetFrameCallback sets the function called at the end of every frame
func (b *Bus) SetFrameCallback(callback Callback) {
	b.frameCallback = callback
}

// Cycles returns the CPU cycles seen by the bus
func (b *Bus) Cycles() uint64 {
	return b.cycles
}

// Read reads a byte from the CPU address space
func (b *Bus) Read(address uint16) uint8 {
	switch {
	case address < 0x2000:
		return b.ram[address&ramMask]
	case address < 0x4000:
		return b.ppu.ReadRegister(address & ppuRegMask)
	case b.pad.Handles(address):
		return b.pad.Read(address)
	case address < prgBase:
		// APU and cartridge expansion are not mapped
		return 0
	default:
		return b.readPRG(address)
	}
}

// Peek reads without side effects. PPU registers read as zero.
func (b *Bus) Peek(address uint16) uint8 {
	switch {
	case address < 0x2000:
		return b.ram[address&ramMask]
	case address < prgBase:
		return 0
	default:
		return b.readPRG(address)
	}
}

// Write writes a byte to the CPU address space. Writes to PPUSTATUS and
// PRG-ROM are rejected with a *WriteError.
func (b *Bus) Write(address uint16, value uint8) error {
	switch {
	case address < 0x2000:
		b.ram[address&ramMask] = value

	case address < 0x4000:
		reg := address & ppuRegMask
		if reg == 0x2002 {
			return &WriteError{Addr: address, Data: value, Region: RegionPPUStatus}
		}
		nmiBefore := b.ppu.NMIPending()
		b.ppu.WriteRegister(reg, value)
		b.notifyNMI(nmiBefore)

	case address == oamDMAPort:
		b.oamDMA(value)

	case b.pad.Handles(address):
		b.pad.Write(address, value)

	case address < prgBase:
		glog.V(3).Infof("[BUS] ignored write $%02X to $%04X", value, address)

	default:
		return &WriteError{Addr: address, Data: value, Region: RegionPRGROM}
	}
	return nil
}

// Tick advances the PPU by three dots per CPU cycle and fires the NMI-edge
// and frame callbacks.
func (b *Bus) Tick(cycles uint32) {
	b.cycles += uint64(cycles)

	nmiBefore := b.ppu.NMIPending()
	frameComplete := b.ppu.Tick(cycles * dotsPerCycle)
	b.notifyNMI(nmiBefore)

	if frameComplete && b.frameCallback != nil {
		b.frameCallback(b.ppu)
	}
}

// PollNMI takes the PPU's pending NMI
func (b *Bus) PollNMI() bool {
	return b.ppu.PollNMI()
}

// TakeStallCycles returns and clears the cycles owed to OAM DMA
func (b *Bus) TakeStallCycles() uint32 {
	stall := b.stall
	b.stall = 0
	return stall
}

func (b *Bus) notifyNMI(before bool) {
	if !before && b.ppu.NMIPending() && b.nmiCallback != nil {
		b.nmiCallback(b.ppu)
	}
}

// oamDMA copies CPU page $XX00-$XXFF into OAM
func (b *Bus) oamDMA(page uint8) {
	var data [256]uint8
	base := uint16(page) << 8
	for i := range data {
		data[i] = b.Read(base + uint16(i))
	}
	b.ppu.WriteOAMDMA(&data)

	stall := uint32(dmaStallCycles)
	if b.cycles%2 == 1 {
		stall++
	}
	b.stall += stall
	glog.V(1).Infof("[BUS] OAM DMA from $%04X, %d stall cycles", base, stall)
}

func (b *Bus) readPRG(address uint16) uint8 {
	offset := int(address - prgBase)
	if len(b.prg) == cartridge.PRGBankSize {
		offset %= cartridge.PRGBankSize
	}
	if offset >= len(b.prg) {
		panic(fmt.Sprintf("bus: PRG address $%04X outside %d byte image", address, len(b.prg)))
	}
	return b.prg[offset]
}
