package ppu

import "github.com/golang/glog"

const (
	dotsPerScanline   = 341
	vblankScanline    = 241
	scanlinesPerFrame = 262
)

// Tick advances the timer by the given number of dots and reports whether
// a frame completed.
func (p *PPU) Tick(dots uint32) bool {
	p.dot += int(dots)
	frameComplete := false

	for p.dot >= dotsPerScanline {
		// Lines skipped by a large tick still get their hit test
		p.checkSpriteZeroHit()

		p.dot -= dotsPerScanline
		p.scanline++

		switch p.scanline {
		case vblankScanline:
			p.status.SetVBlank(true)
			p.status.SetSpriteZeroHit(false)
			if p.ctrl.GenerateNMI() {
				p.nmiPending = true
			}
		case scanlinesPerFrame:
			p.scanline = 0
			p.nmiPending = false
			p.status.SetVBlank(false)
			p.status.SetSpriteZeroHit(false)
			p.frame++
			frameComplete = true
			glog.V(2).Infof("[PPU] frame %d complete", p.frame)
		}
	}

	p.checkSpriteZeroHit()

	return frameComplete
}

// checkSpriteZeroHit approximates the hit test from OAM entry 0's position:
// the hit is set once the beam is on the sprite's line at or past its X.
func (p *PPU) checkSpriteZeroHit() {
	y, x := int(p.oam[0]), int(p.oam[3])
	if y == p.scanline && x <= p.dot && p.mask.ShowSprites() {
		p.status.SetSpriteZeroHit(true)
	}
}

// PollNMI takes the pending NMI, if any
func (p *PPU) PollNMI() bool {
	pending := p.nmiPending
	p.nmiPending = false
	return pending
}

// NMIPending reports the NMI line without clearing it
func (p *PPU) NMIPending() bool { return p.nmiPending }

// Scanline, Dot and Frame report the timer position

func (p *PPU) Scanline() int { return p.scanline }
func (p *PPU) Dot() int      { return p.dot }
func (p *PPU) Frame() uint64 { return p.frame }
