package ppu

import "nescore/internal/cartridge"

// Snapshot is an immutable copy of PPU state taken at a frame boundary.
// It is safe to hand to another goroutine.
type Snapshot struct {
	Frame     uint64
	Control   uint8
	Mask      uint8
	Status    uint8
	ScrollX   uint8
	ScrollY   uint8
	Mirroring cartridge.Mirroring

	VRAM [vramSize]uint8
	// Palette holds $3F00-$3F1F as the CPU reads them, with the sprite
	// backdrop entries resolved to their background aliases.
	Palette [paletteSize]uint8
	OAM     [oamSize]uint8
}

// Snapshot copies the current PPU state
func (p *PPU) Snapshot() Snapshot {
	var palette [paletteSize]uint8
	for i := range palette {
		palette[i] = p.palette[paletteIndex(0x3F00+uint16(i))]
	}

	return Snapshot{
		Frame:     p.frame,
		Control:   p.ctrl.Byte(),
		Mask:      p.mask.Byte(),
		Status:    p.status.Byte(),
		ScrollX:   p.scroll.x,
		ScrollY:   p.scroll.y,
		Mirroring: p.mirroring,
		VRAM:      p.vram,
		Palette:   palette,
		OAM:       p.oam,
	}
}

// NametableByte returns the byte at a logical nametable address
// ($2000-$2FFF), applying the cartridge mirroring.
func (s *Snapshot) NametableByte(address uint16) uint8 {
	return s.VRAM[mirrorVRAM(s.Mirroring, address)]
}

// Sprite is one decoded OAM entry
type Sprite struct {
	Y, Tile, Attributes, X uint8
}

// Sprites decodes the 64 OAM entries
func (s *Snapshot) Sprites() [64]Sprite {
	var sprites [64]Sprite
	for i := range sprites {
		entry := s.OAM[i*4 : i*4+4]
		sprites[i] = Sprite{Y: entry[0], Tile: entry[1], Attributes: entry[2], X: entry[3]}
	}
	return sprites
}
