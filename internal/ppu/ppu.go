// Package ppu implements the Picture Processing Unit register interface and
// scanline timer for the NES.
package ppu

import (
	"github.com/golang/glog"

	"nescore/internal/cartridge"
)

const (
	vramSize    = 0x800
	paletteSize = 0x20
	oamSize     = 0x100
	chrRAMSize  = cartridge.CHRBankSize

	vramAddrMask = 0x3FFF
)

// PPU represents the NES Picture Processing Unit (2C02)
type PPU struct {
	// CPU-visible registers
	ctrl    Control        // $2000 - PPUCTRL
	mask    Mask           // $2001 - PPUMASK
	status  Status         // $2002 - PPUSTATUS
	oamAddr uint8          // $2003 - OAMADDR
	scroll  scrollRegister // $2005 - PPUSCROLL
	addr    addrRegister   // $2006 - PPUADDR

	// openBus holds the last value driven on the PPU data bus
	openBus    uint8
	readBuffer uint8 // PPUDATA read buffer

	// Memory
	chr       []uint8
	chrRAM    bool
	mirroring cartridge.Mirroring
	vram      [vramSize]uint8
	palette   [paletteSize]uint8
	oam       [oamSize]uint8

	// Timing
	scanline   int
	dot        int
	frame      uint64
	nmiPending bool
}

// New creates a PPU for the given pattern memory and mirroring mode. An empty
// chr slice gives the PPU 8KB of CHR-RAM.
func New(chr []uint8, mirroring cartridge.Mirroring) *PPU {
	p := &PPU{mirroring: mirroring}
	if len(chr) == 0 {
		p.chr = make([]uint8, chrRAMSize)
		p.chrRAM = true
	} else {
		p.chr = chr
	}
	return p
}

// ReadRegister reads from a PPU register (CPU $2000-$2007)
func (p *PPU) ReadRegister(address uint16) uint8 {
	var value uint8

	switch address & 0x0007 {
	case 0x0002: // PPUSTATUS
		value = p.status.Byte()&0xE0 | p.openBus&0x1F
		p.status.SetVBlank(false)
		p.scroll.latch = false
		p.addr.latch = false
	case 0x0004: // OAMDATA
		value = p.oam[p.oamAddr]
	case 0x0007: // PPUDATA
		value = p.readPPUData()
	default: // write-only registers return open bus
		return p.openBus
	}

	p.openBus = value
	return value
}

// WriteRegister writes to a PPU register (CPU $2000-$2007)
func (p *PPU) WriteRegister(address uint16, value uint8) {
	p.openBus = value
	reg := address & 0x0007
	glog.V(3).Infof("[PPU] write $%04X = $%02X", 0x2000|reg, value)

	switch reg {
	case 0x0000: // PPUCTRL
		wasEnabled := p.ctrl.GenerateNMI()
		p.ctrl = Control{value: value}
		if !wasEnabled {
			p.checkNMI()
		}
	case 0x0001: // PPUMASK
		p.mask = Mask{value: value}
	case 0x0002: // PPUSTATUS - read only
	case 0x0003: // OAMADDR
		p.oamAddr = value
	case 0x0004: // OAMDATA
		p.oam[p.oamAddr] = value
		p.oamAddr++
	case 0x0005: // PPUSCROLL
		p.scroll.write(value)
	case 0x0006: // PPUADDR
		p.addr.write(value)
	case 0x0007: // PPUDATA
		p.writePPUData(value)
	}
}

// WriteOAMDMA copies a 256 byte page into OAM starting at OAMADDR,
// wrapping within OAM.
func (p *PPU) WriteOAMDMA(page *[256]uint8) {
	for _, value := range page {
		p.oam[p.oamAddr] = value
		p.oamAddr++
	}
}

// checkNMI raises NMI immediately when it is enabled during VBlank
func (p *PPU) checkNMI() {
	if p.ctrl.GenerateNMI() && p.status.VBlank() {
		p.nmiPending = true
	}
}

// readPPUData handles reads from PPUDATA ($2007)
func (p *PPU) readPPUData() uint8 {
	address := p.addr.value
	p.addr.increment(p.ctrl.VRAMIncrement())

	if address >= 0x3F00 {
		// Palette data is not buffered; the buffer gets the nametable underneath
		p.readBuffer = p.readMemory(address & 0x2FFF)
		return p.palette[paletteIndex(address)]
	}

	data := p.readBuffer
	p.readBuffer = p.readMemory(address)
	return data
}

// writePPUData handles writes to PPUDATA ($2007)
func (p *PPU) writePPUData(value uint8) {
	p.writeMemory(p.addr.value, value)
	p.addr.increment(p.ctrl.VRAMIncrement())
}

// Register accessors return copies of PPUCTRL, PPUMASK and PPUSTATUS

func (p *PPU) Control() Control { return p.ctrl }
func (p *PPU) Mask() Mask       { return p.mask }
func (p *PPU) Status() Status   { return p.status }

// VRAMAddress returns the current 14-bit PPUADDR value
func (p *PPU) VRAMAddress() uint16 { return p.addr.value }

// OAMAddress returns OAMADDR
func (p *PPU) OAMAddress() uint8 { return p.oamAddr }

// Scroll returns the last PPUSCROLL X and Y values
func (p *PPU) Scroll() (x, y uint8) { return p.scroll.x, p.scroll.y }
