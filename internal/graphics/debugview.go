// Package graphics renders PPU snapshots into a debug view: the four
// logical nametables as a tile map, OAM sprite markers and the 32 palette
// entries. It does not render pixels the way the PPU would.
package graphics

import (
	"image"
	"image/color"

	"nescore/internal/ppu"
)

const (
	// ViewWidth and ViewHeight are the debug view dimensions in pixels
	ViewWidth  = 256
	ViewHeight = 256

	tilesWide = 32
	tilesHigh = 30
	tileSize  = 4 // pixels per tile in the map

	nametableWidth  = tilesWide * tileSize
	nametableHeight = tilesHigh * tileSize

	paletteTop    = 2 * nametableHeight
	swatchWidth   = ViewWidth / 32
	swatchHeight  = ViewHeight - paletteTop
	attributeBase = 0x3C0

	// Sprites with Y at or past this line are hidden
	hiddenSpriteY = 0xEF
)

// NewCanvas allocates an image sized for RenderSnapshot
func NewCanvas() *image.RGBA {
	return image.NewRGBA(image.Rect(0, 0, ViewWidth, ViewHeight))
}

// RenderSnapshot draws s into img, which must be at least
// ViewWidth x ViewHeight.
func RenderSnapshot(s *ppu.Snapshot, img *image.RGBA) {
	for n := 0; n < 4; n++ {
		renderNametable(s, img, n)
	}
	renderSprites(s, img)
	renderPalette(s, img)
}

// renderNametable draws logical nametable n in its quadrant. Tile 0 shows
// the universal background color; other tiles take a color from the
// attribute palette chosen by the tile index.
func renderNametable(s *ppu.Snapshot, img *image.RGBA, n int) {
	base := uint16(0x2000 + n*0x400)
	originX := (n % 2) * nametableWidth
	originY := (n / 2) * nametableHeight

	for ty := 0; ty < tilesHigh; ty++ {
		for tx := 0; tx < tilesWide; tx++ {
			tile := s.NametableByte(base + uint16(ty*tilesWide+tx))

			entry := uint8(0)
			if tile != 0 {
				entry = attributePalette(s, base, tx, ty)*4 + 1 + tile%3
			}
			fillRect(img, originX+tx*tileSize, originY+ty*tileSize, tileSize, tileSize, paletteColor(s, entry))
		}
	}
}

// attributePalette returns the background palette (0-3) of a tile
func attributePalette(s *ppu.Snapshot, base uint16, tx, ty int) uint8 {
	attr := s.NametableByte(base + attributeBase + uint16((ty/4)*8+tx/4))
	shift := ((ty%4)/2)*4 + ((tx%4)/2)*2
	return (attr >> shift) & 0x03
}

// renderSprites outlines visible sprites over the first nametable at half scale
func renderSprites(s *ppu.Snapshot, img *image.RGBA) {
	height := 8
	if s.Control&0x20 != 0 {
		height = 16
	}

	for _, sprite := range s.Sprites() {
		if sprite.Y >= hiddenSpriteY {
			continue
		}
		c := paletteColor(s, 0x10+(sprite.Attributes&0x03)*4+1)
		strokeRect(img, int(sprite.X)/2, int(sprite.Y)/2, 4, height/2, c)
	}
}

func renderPalette(s *ppu.Snapshot, img *image.RGBA) {
	for i := range s.Palette {
		fillRect(img, i*swatchWidth, paletteTop, swatchWidth, swatchHeight, paletteColor(s, uint8(i)))
	}
}

func paletteColor(s *ppu.Snapshot, entry uint8) color.RGBA {
	rgb := ppu.NESColorToRGB(s.Palette[entry&0x1F])
	return color.RGBA{R: uint8(rgb >> 16), G: uint8(rgb >> 8), B: uint8(rgb), A: 0xFF}
}

func fillRect(img *image.RGBA, x, y, w, h int, c color.RGBA) {
	for dy := 0; dy < h; dy++ {
		for dx := 0; dx < w; dx++ {
			img.SetRGBA(x+dx, y+dy, c)
		}
	}
}

func strokeRect(img *image.RGBA, x, y, w, h int, c color.RGBA) {
	for dx := 0; dx < w; dx++ {
		img.SetRGBA(x+dx, y, c)
		img.SetRGBA(x+dx, y+h-1, c)
	}
	for dy := 0; dy < h; dy++ {
		img.SetRGBA(x, y+dy, c)
		img.SetRGBA(x+w-1, y+dy, c)
	}
}

// latestFrame drains ch without blocking and returns the newest snapshot,
// or nil if none was waiting. closed reports a closed channel.
func latestFrame(ch <-chan ppu.Snapshot) (latest *ppu.Snapshot, closed bool) {
	for {
		select {
		case snap, ok := <-ch:
			if !ok {
				return latest, true
			}
			latest = &snap
		default:
			return latest, false
		}
	}
}
