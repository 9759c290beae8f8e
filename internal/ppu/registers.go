package ppu

// Control is PPUCTRL ($2000)
type Control struct {
	value uint8
}

const (
	ctrlNametableMask   = 0x03
	ctrlIncrement32     = 0x04
	ctrlSpriteTable     = 0x08
	ctrlBackgroundTable = 0x10
	ctrlTallSprites     = 0x20
	ctrlMasterSlave     = 0x40
	ctrlGenerateNMI     = 0x80
)

func (c Control) Byte() uint8 { return c.value }

// BaseNametable returns the nametable address selected by bits 0-1
func (c Control) BaseNametable() uint16 {
	return 0x2000 + uint16(c.value&ctrlNametableMask)*0x400
}

// VRAMIncrement returns 1 (across) or 32 (down)
func (c Control) VRAMIncrement() uint16 {
	if c.value&ctrlIncrement32 != 0 {
		return 32
	}
	return 1
}

// SpritePatternTable returns the 8x8 sprite pattern table base
func (c Control) SpritePatternTable() uint16 {
	if c.value&ctrlSpriteTable != 0 {
		return 0x1000
	}
	return 0
}

// BackgroundPatternTable returns the background pattern table base
func (c Control) BackgroundPatternTable() uint16 {
	if c.value&ctrlBackgroundTable != 0 {
		return 0x1000
	}
	return 0
}

// SpriteHeight returns 8 or 16
func (c Control) SpriteHeight() int {
	if c.value&ctrlTallSprites != 0 {
		return 16
	}
	return 8
}

// MasterSlave reports the EXT pin direction bit
func (c Control) MasterSlave() bool { return c.value&ctrlMasterSlave != 0 }

// GenerateNMI reports whether VBlank raises NMI
func (c Control) GenerateNMI() bool { return c.value&ctrlGenerateNMI != 0 }

// Mask is PPUMASK ($2001). The core stores it; rendering is done elsewhere.
type Mask struct {
	value uint8
}

// Byte returns the raw register value
func (m Mask) Byte() uint8 { return m.value }

// Grayscale reports bit 0
func (m Mask) Grayscale() bool { return m.value&0x01 != 0 }

// ShowBackgroundLeft reports whether the background shows in the leftmost 8 pixels
func (m Mask) ShowBackgroundLeft() bool { return m.value&0x02 != 0 }

// ShowSpritesLeft reports whether sprites show in the leftmost 8 pixels
func (m Mask) ShowSpritesLeft() bool { return m.value&0x04 != 0 }

// ShowBackground reports background rendering
func (m Mask) ShowBackground() bool { return m.value&0x08 != 0 }

// ShowSprites reports sprite rendering
func (m Mask) ShowSprites() bool { return m.value&0x10 != 0 }

// Emphasis bits 5-7 tint the output

func (m Mask) EmphasizeRed() bool   { return m.value&0x20 != 0 }
func (m Mask) EmphasizeGreen() bool { return m.value&0x40 != 0 }
func (m Mask) EmphasizeBlue() bool  { return m.value&0x80 != 0 }

// RenderingEnabled reports whether either layer is on
func (m Mask) RenderingEnabled() bool { return m.ShowBackground() || m.ShowSprites() }

// Status is PPUSTATUS ($2002)
type Status struct {
	value uint8
}

const (
	statusSpriteOverflow = 0x20
	statusSpriteZeroHit  = 0x40
	statusVBlank         = 0x80
)

// Byte returns the raw register value
func (s Status) Byte() uint8 { return s.value }

// SpriteOverflow reports bit 5
func (s Status) SpriteOverflow() bool { return s.value&statusSpriteOverflow != 0 }

// SpriteZeroHit reports bit 6
func (s Status) SpriteZeroHit() bool { return s.value&statusSpriteZeroHit != 0 }

// VBlank reports bit 7, set from scanline 241 until the frame wraps or
// PPUSTATUS is read
func (s Status) VBlank() bool { return s.value&statusVBlank != 0 }

// Setters are used by the timer; the CPU cannot write PPUSTATUS.

func (s *Status) SetSpriteOverflow(on bool) { s.set(statusSpriteOverflow, on) }
func (s *Status) SetSpriteZeroHit(on bool)  { s.set(statusSpriteZeroHit, on) }
func (s *Status) SetVBlank(on bool)         { s.set(statusVBlank, on) }

func (s *Status) set(mask uint8, on bool) {
	if on {
		s.value |= mask
	} else {
		s.value &^= mask
	}
}

// scrollRegister is PPUSCROLL ($2005): X on the first write, Y on the second
type scrollRegister struct {
	x, y  uint8
	latch bool
}

func (r *scrollRegister) write(value uint8) {
	if !r.latch {
		r.x = value
	} else {
		r.y = value
	}
	r.latch = !r.latch
}

// addrRegister is PPUADDR ($2006): high byte first, then low byte
type addrRegister struct {
	value uint16
	latch bool
}

func (r *addrRegister) write(value uint8) {
	if !r.latch {
		r.value = uint16(value)<<8 | r.value&0x00FF
	} else {
		r.value = r.value&0xFF00 | uint16(value)
	}
	r.value &= vramAddrMask
	r.latch = !r.latch
}

func (r *addrRegister) increment(step uint16) {
	r.value = (r.value + step) & vramAddrMask
}
