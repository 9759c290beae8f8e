package ppu

import (
	"github.com/golang/glog"

	"nescore/internal/cartridge"
)

// readMemory reads the PPU address space below the palette
func (p *PPU) readMemory(address uint16) uint8 {
	address &= vramAddrMask
	switch {
	case address < 0x2000:
		return p.chr[int(address)%len(p.chr)]
	case address < 0x3F00:
		return p.vram[mirrorVRAM(p.mirroring, address)]
	default:
		return p.palette[paletteIndex(address)]
	}
}

func (p *PPU) writeMemory(address uint16, value uint8) {
	address &= vramAddrMask
	switch {
	case address < 0x2000:
		if !p.chrRAM {
			glog.V(3).Infof("[PPU] ignored write $%02X to CHR-ROM $%04X", value, address)
			return
		}
		p.chr[int(address)%len(p.chr)] = value
	case address < 0x3F00:
		p.vram[mirrorVRAM(p.mirroring, address)] = value
	default:
		p.palette[paletteIndex(address)] = value
	}
}

// mirrorVRAM maps $2000-$3EFF onto the 2KB of physical nametable memory.
//
//	Horizontal: [A a] [B b]    Vertical: [A B] [a b]
func mirrorVRAM(mirroring cartridge.Mirroring, address uint16) uint16 {
	index := (address & 0x2FFF) - 0x2000
	quadrant := index / 0x400

	switch {
	case mirroring == cartridge.MirrorVertical && (quadrant == 2 || quadrant == 3):
		return index - 0x800
	case mirroring == cartridge.MirrorHorizontal && (quadrant == 1 || quadrant == 2):
		return index - 0x400
	case mirroring == cartridge.MirrorHorizontal && quadrant == 3:
		return index - 0x800
	default:
		return index
	}
}

// paletteIndex folds $3F00-$3FFF into the 32 byte palette table. The
// sprite backdrop entries alias the background ones.
func paletteIndex(address uint16) uint16 {
	index := (address - 0x3F00) & 0x1F
	if index == 0x10 || index == 0x14 || index == 0x18 || index == 0x1C {
		index &= 0x0F
	}
	return index
}
