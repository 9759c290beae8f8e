package ppu

import (
	"testing"

	"nescore/internal/cartridge"
)

func newTestPPU(m cartridge.Mirroring) *PPU {
	return New(make([]uint8, cartridge.CHRBankSize), m)
}

func setAddr(p *PPU, address uint16) {
	p.WriteRegister(0x2006, uint8(address>>8))
	p.WriteRegister(0x2006, uint8(address))
}

func TestPPUCreation(t *testing.T) {
	p := newTestPPU(cartridge.MirrorHorizontal)

	if p.Scanline() != 0 || p.Dot() != 0 || p.Frame() != 0 {
		t.Errorf("unexpected initial timing: scanline=%d dot=%d frame=%d", p.Scanline(), p.Dot(), p.Frame())
	}
	if p.NMIPending() {
		t.Error("NMI should not be pending at power on")
	}
	if p.chrRAM {
		t.Error("CHR-ROM PPU reported CHR-RAM")
	}
}

func TestPPUDataWrite(t *testing.T) {
	p := newTestPPU(cartridge.MirrorHorizontal)

	p.WriteRegister(0x2006, 0x23)
	p.WriteRegister(0x2006, 0x05)
	p.WriteRegister(0x2007, 0x66)

	if p.vram[0x0305] != 0x66 {
		t.Errorf("Expected vram[0x0305]=0x66, got 0x%02X", p.vram[0x0305])
	}
	if p.VRAMAddress() != 0x2306 {
		t.Errorf("Expected address to increment to 0x2306, got 0x%04X", p.VRAMAddress())
	}
}

func TestPPUDataReadIsBuffered(t *testing.T) {
	p := newTestPPU(cartridge.MirrorHorizontal)
	p.vram[0x0305] = 0x66
	p.readBuffer = 0x11

	setAddr(p, 0x2305)
	if got := p.ReadRegister(0x2007); got != 0x11 {
		t.Errorf("first read should return stale buffer 0x11, got 0x%02X", got)
	}
	setAddr(p, 0x2305)
	if got := p.ReadRegister(0x2007); got != 0x66 {
		t.Errorf("second read should return 0x66, got 0x%02X", got)
	}
}

func TestPPUDataConsecutiveReads(t *testing.T) {
	p := newTestPPU(cartridge.MirrorHorizontal)
	p.vram[0x0000] = 0xAA
	p.vram[0x0001] = 0xBB

	setAddr(p, 0x2000)
	p.ReadRegister(0x2007)
	if got := p.ReadRegister(0x2007); got != 0xAA {
		t.Errorf("Expected 0xAA, got 0x%02X", got)
	}
	if got := p.ReadRegister(0x2007); got != 0xBB {
		t.Errorf("Expected 0xBB, got 0x%02X", got)
	}
}

func TestPaletteReadIsImmediate(t *testing.T) {
	p := newTestPPU(cartridge.MirrorHorizontal)
	p.vram[0x0705] = 0x77 // $2F05 under $3F05 with horizontal mirroring
	p.palette[0x05] = 0x2A

	setAddr(p, 0x3F05)
	if got := p.ReadRegister(0x2007); got != 0x2A {
		t.Errorf("palette read should be immediate, got 0x%02X", got)
	}
	if p.readBuffer != 0x77 {
		t.Errorf("buffer should hold the nametable byte under the palette, got 0x%02X", p.readBuffer)
	}
}

func TestPaletteMirroring(t *testing.T) {
	p := newTestPPU(cartridge.MirrorHorizontal)

	tests := []struct {
		write, read uint16
	}{
		{0x3F10, 0x3F00},
		{0x3F14, 0x3F04},
		{0x3F18, 0x3F08},
		{0x3F1C, 0x3F0C},
		{0x3F21, 0x3F01},
		{0x3FFF, 0x3F1F},
	}

	for i, tt := range tests {
		value := uint8(0x10 + i)
		setAddr(p, tt.write)
		p.WriteRegister(0x2007, value)
		setAddr(p, tt.read)
		if got := p.ReadRegister(0x2007); got != value {
			t.Errorf("write $%04X read $%04X: got 0x%02X, want 0x%02X", tt.write, tt.read, got, value)
		}
	}
}

func TestVRAMIncrement32(t *testing.T) {
	p := newTestPPU(cartridge.MirrorVertical)
	p.WriteRegister(0x2000, 0x04)

	setAddr(p, 0x2000)
	p.WriteRegister(0x2007, 0x01)
	p.WriteRegister(0x2007, 0x02)

	if p.vram[0x0000] != 0x01 || p.vram[0x0020] != 0x02 {
		t.Errorf("increment-by-32 writes landed wrong: %02X %02X", p.vram[0x0000], p.vram[0x0020])
	}
	if p.VRAMAddress() != 0x2040 {
		t.Errorf("Expected address 0x2040, got 0x%04X", p.VRAMAddress())
	}
}

func TestVRAMAddressWraps(t *testing.T) {
	p := newTestPPU(cartridge.MirrorVertical)
	setAddr(p, 0x3FFF)
	p.WriteRegister(0x2007, 0x00)
	if p.VRAMAddress() != 0x0000 {
		t.Errorf("Expected address to wrap to 0, got 0x%04X", p.VRAMAddress())
	}

	setAddr(p, 0xFF00)
	if p.VRAMAddress() != 0x3F00 {
		t.Errorf("PPUADDR must be 14 bits, got 0x%04X", p.VRAMAddress())
	}
}

func TestNametableMirroring(t *testing.T) {
	tests := []struct {
		name      string
		mirroring cartridge.Mirroring
		write     uint16
		mirrors   []uint16
		distinct  []uint16
	}{
		{
			name:      "horizontal",
			mirroring: cartridge.MirrorHorizontal,
			write:     0x2005,
			mirrors:   []uint16{0x2405, 0x3005, 0x3405},
			distinct:  []uint16{0x2805, 0x2C05},
		},
		{
			name:      "horizontal lower",
			mirroring: cartridge.MirrorHorizontal,
			write:     0x2C10,
			mirrors:   []uint16{0x2810, 0x3810},
			distinct:  []uint16{0x2010, 0x2410},
		},
		{
			name:      "vertical",
			mirroring: cartridge.MirrorVertical,
			write:     0x2005,
			mirrors:   []uint16{0x2805, 0x3005},
			distinct:  []uint16{0x2405, 0x2C05},
		},
		{
			name:      "vertical right",
			mirroring: cartridge.MirrorVertical,
			write:     0x2410,
			mirrors:   []uint16{0x2C10, 0x3410},
			distinct:  []uint16{0x2010, 0x2810},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestPPU(tt.mirroring)
			p.writeMemory(tt.write, 0x5A)

			for _, a := range tt.mirrors {
				if got := p.readMemory(a); got != 0x5A {
					t.Errorf("$%04X should mirror $%04X, got 0x%02X", a, tt.write, got)
				}
			}
			for _, a := range tt.distinct {
				if got := p.readMemory(a); got != 0x00 {
					t.Errorf("$%04X should not mirror $%04X, got 0x%02X", a, tt.write, got)
				}
			}
		})
	}
}

func TestMirrorVRAMQuadrants(t *testing.T) {
	tests := []struct {
		mirroring cartridge.Mirroring
		address   uint16
		index     uint16
	}{
		{cartridge.MirrorVertical, 0x2000, 0x000},
		{cartridge.MirrorVertical, 0x2400, 0x400},
		{cartridge.MirrorVertical, 0x2800, 0x000},
		{cartridge.MirrorVertical, 0x2C00, 0x400},
		{cartridge.MirrorHorizontal, 0x2000, 0x000},
		{cartridge.MirrorHorizontal, 0x2400, 0x000},
		{cartridge.MirrorHorizontal, 0x2800, 0x400},
		{cartridge.MirrorHorizontal, 0x2C00, 0x400},
		{cartridge.MirrorHorizontal, 0x3EFF, 0x6FF},
	}

	for _, tt := range tests {
		if got := mirrorVRAM(tt.mirroring, tt.address); got != tt.index {
			t.Errorf("%s $%04X: got 0x%03X, want 0x%03X", tt.mirroring, tt.address, got, tt.index)
		}
	}
}

func TestStatusReadClearsVBlankAndLatches(t *testing.T) {
	p := newTestPPU(cartridge.MirrorHorizontal)
	p.status.SetVBlank(true)

	p.WriteRegister(0x2006, 0x21) // half-written address
	p.WriteRegister(0x2005, 0x08) // half-written scroll

	status := p.ReadRegister(0x2002)
	if status&0x80 == 0 {
		t.Error("status read should report VBlank")
	}
	if p.Status().VBlank() {
		t.Error("status read should clear VBlank")
	}

	p.WriteRegister(0x2006, 0x23)
	p.WriteRegister(0x2006, 0x05)
	if p.VRAMAddress() != 0x2305 {
		t.Errorf("next PPUADDR write should be the high byte, got 0x%04X", p.VRAMAddress())
	}

	p.WriteRegister(0x2005, 0x10)
	p.WriteRegister(0x2005, 0x20)
	if x, y := p.Scroll(); x != 0x10 || y != 0x20 {
		t.Errorf("scroll latch not reset: x=0x%02X y=0x%02X", x, y)
	}
}

func TestScrollAndAddressLatchesAreIndependent(t *testing.T) {
	p := newTestPPU(cartridge.MirrorHorizontal)

	p.WriteRegister(0x2005, 0x11) // X
	p.WriteRegister(0x2006, 0x23) // high byte
	p.WriteRegister(0x2005, 0x22) // Y
	p.WriteRegister(0x2006, 0x45) // low byte

	if x, y := p.Scroll(); x != 0x11 || y != 0x22 {
		t.Errorf("scroll = (0x%02X, 0x%02X), want (0x11, 0x22)", x, y)
	}
	if p.VRAMAddress() != 0x2345 {
		t.Errorf("address = 0x%04X, want 0x2345", p.VRAMAddress())
	}
}

func TestOAMAddressAndData(t *testing.T) {
	p := newTestPPU(cartridge.MirrorHorizontal)

	p.WriteRegister(0x2003, 0xFF)
	p.WriteRegister(0x2004, 0xAB)
	p.WriteRegister(0x2004, 0xCD)

	if p.oam[0xFF] != 0xAB || p.oam[0x00] != 0xCD {
		t.Errorf("OAMDATA writes should increment and wrap: %02X %02X", p.oam[0xFF], p.oam[0x00])
	}

	p.WriteRegister(0x2003, 0xFF)
	if got := p.ReadRegister(0x2004); got != 0xAB {
		t.Errorf("OAMDATA read got 0x%02X", got)
	}
	if p.OAMAddress() != 0xFF {
		t.Error("OAMDATA read must not increment OAMADDR")
	}
}

func TestWriteOAMDMA(t *testing.T) {
	p := newTestPPU(cartridge.MirrorHorizontal)
	var page [256]uint8
	for i := range page {
		page[i] = uint8(i)
	}

	p.WriteRegister(0x2003, 0x10)
	p.WriteOAMDMA(&page)

	if p.oam[0x10] != 0x00 || p.oam[0xFF] != 0xEF || p.oam[0x00] != 0xF0 || p.oam[0x0F] != 0xFF {
		t.Errorf("DMA should start at OAMADDR and wrap: %02X %02X %02X %02X",
			p.oam[0x10], p.oam[0xFF], p.oam[0x00], p.oam[0x0F])
	}
	if p.OAMAddress() != 0x10 {
		t.Errorf("OAMADDR should wrap back to 0x10, got 0x%02X", p.OAMAddress())
	}
}

func TestOpenBus(t *testing.T) {
	p := newTestPPU(cartridge.MirrorHorizontal)

	p.WriteRegister(0x2001, 0x1E)
	if got := p.ReadRegister(0x2000); got != 0x1E {
		t.Errorf("write-only read should return the latch, got 0x%02X", got)
	}

	p.status.SetVBlank(true)
	p.WriteRegister(0x2003, 0x15)
	if got := p.ReadRegister(0x2002); got != 0x95 {
		t.Errorf("status low bits should come from the latch, got 0x%02X", got)
	}
}

func TestCHRMemory(t *testing.T) {
	rom := make([]uint8, cartridge.CHRBankSize)
	rom[0x0010] = 0x42
	p := New(rom, cartridge.MirrorHorizontal)

	setAddr(p, 0x0010)
	p.WriteRegister(0x2007, 0x99)
	if rom[0x0010] != 0x42 {
		t.Error("writes to CHR-ROM must be ignored")
	}

	ram := New(nil, cartridge.MirrorHorizontal)
	setAddr(ram, 0x1FFF)
	ram.WriteRegister(0x2007, 0x99)
	setAddr(ram, 0x1FFF)
	ram.ReadRegister(0x2007)
	if got := ram.ReadRegister(0x2007); got != 0x99 {
		t.Errorf("CHR-RAM should be writable, got 0x%02X", got)
	}
}

func TestRegisterMirrors(t *testing.T) {
	p := newTestPPU(cartridge.MirrorHorizontal)

	// $3FFE is PPUADDR, $200F is PPUDATA
	p.WriteRegister(0x3FFE, 0x21)
	p.WriteRegister(0x2016, 0x00)
	p.WriteRegister(0x200F, 0x7E)

	if p.vram[0x0100] != 0x7E {
		t.Errorf("mirrored register writes failed, vram[0x100]=0x%02X", p.vram[0x0100])
	}
}
