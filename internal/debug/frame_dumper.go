// Package debug writes PPU snapshots to disk for offline inspection
package debug

import (
	"bufio"
	"fmt"
	"image/png"
	"io"
	"os"
	"path/filepath"

	"github.com/golang/glog"

	"nescore/internal/graphics"
	"nescore/internal/ppu"
)

// FrameDumper writes every Nth snapshot as a PNG debug view plus a text
// dump of palette, nametable 0 and OAM
type FrameDumper struct {
	outputDir string
	maxDumps  int
	interval  uint64
	dumped    int
}

// NewFrameDumper creates a dumper. interval < 1 dumps every frame.
func NewFrameDumper(outputDir string, maxDumps, interval int) *FrameDumper {
	if interval < 1 {
		interval = 1
	}
	return &FrameDumper{
		outputDir: outputDir,
		maxDumps:  maxDumps,
		interval:  uint64(interval),
	}
}

// Dumped returns the number of frames written
func (fd *FrameDumper) Dumped() int {
	return fd.dumped
}

// Consume dumps snapshots from frames until the channel is closed. Errors
// stop dumping but the channel is still drained.
func (fd *FrameDumper) Consume(frames <-chan ppu.Snapshot) error {
	var firstErr error
	for snap := range frames {
		if firstErr != nil {
			continue
		}
		if _, err := fd.Dump(&snap); err != nil {
			firstErr = err
		}
	}
	return firstErr
}

// Dump writes s if it falls on the interval and the limit is not reached
func (fd *FrameDumper) Dump(s *ppu.Snapshot) (bool, error) {
	if s.Frame%fd.interval != 0 || fd.dumped >= fd.maxDumps {
		return false, nil
	}
	if err := os.MkdirAll(fd.outputDir, 0755); err != nil {
		return false, fmt.Errorf("failed to create dump directory: %w", err)
	}

	base := filepath.Join(fd.outputDir, fmt.Sprintf("frame_%06d", s.Frame))
	if err := writeFile(base+".png", func(w io.Writer) error {
		img := graphics.NewCanvas()
		graphics.RenderSnapshot(s, img)
		return png.Encode(w, img)
	}); err != nil {
		return false, err
	}
	if err := writeFile(base+".txt", func(w io.Writer) error {
		return WriteSnapshot(w, s)
	}); err != nil {
		return false, err
	}

	fd.dumped++
	glog.V(1).Infof("[DEBUG] dumped frame %d to %s", s.Frame, base)
	return true, nil
}

func writeFile(path string, write func(w io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}

// WriteSnapshot writes a human readable dump of s
func WriteSnapshot(w io.Writer, s *ppu.Snapshot) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "Frame %d\n", s.Frame)
	fmt.Fprintf(bw, "CTRL=$%02X MASK=$%02X STATUS=$%02X SCROLL=%d,%d mirroring=%s\n",
		s.Control, s.Mask, s.Status, s.ScrollX, s.ScrollY, s.Mirroring)

	fmt.Fprintf(bw, "\nPalette\n")
	for i, v := range s.Palette {
		fmt.Fprintf(bw, "%02X", v)
		if i%16 == 15 {
			bw.WriteByte('\n')
		} else {
			bw.WriteByte(' ')
		}
	}

	fmt.Fprintf(bw, "\nNametable $2000\n")
	for row := 0; row < 30; row++ {
		for col := 0; col < 32; col++ {
			if col > 0 {
				bw.WriteByte(' ')
			}
			fmt.Fprintf(bw, "%02X", s.NametableByte(0x2000+uint16(row*32+col)))
		}
		bw.WriteByte('\n')
	}

	fmt.Fprintf(bw, "\nSprites\n")
	for i, sprite := range s.Sprites() {
		if sprite.Y >= 0xEF {
			continue
		}
		fmt.Fprintf(bw, "%2d: x=%3d y=%3d tile=$%02X attr=$%02X\n", i, sprite.X, sprite.Y, sprite.Tile, sprite.Attributes)
	}

	return bw.Flush()
}
