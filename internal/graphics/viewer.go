//go:build !headless

package graphics

import (
	"image"

	"github.com/golang/glog"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"nescore/internal/ppu"
)

// Viewer is an ebiten window showing the newest snapshot from a frame
// channel. The window closes when the channel is closed or Escape is
// pressed.
type Viewer struct {
	frames <-chan ppu.Snapshot
	title  string
	scale  int

	canvas *image.RGBA
	image  *ebiten.Image
	dirty  bool
	shown  uint64
}

// NewViewer creates a viewer reading from frames
func NewViewer(frames <-chan ppu.Snapshot, title string, scale int) *Viewer {
	if scale <= 0 {
		scale = 1
	}
	return &Viewer{
		frames: frames,
		title:  title,
		scale:  scale,
		canvas: NewCanvas(),
	}
}

// Run opens the window and blocks until it closes. It must be called from
// the main goroutine.
func (v *Viewer) Run() error {
	ebiten.SetWindowTitle(v.title)
	ebiten.SetWindowSize(ViewWidth*v.scale, ViewHeight*v.scale)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetScreenFilterEnabled(false)

	if err := ebiten.RunGame(v); err != nil && err != ebiten.Termination {
		return err
	}
	glog.V(1).Infof("[VIEW] closed after %d snapshots", v.shown)
	return nil
}

// Update implements ebiten.Game.Update
func (v *Viewer) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	snap, closed := latestFrame(v.frames)
	if snap != nil {
		RenderSnapshot(snap, v.canvas)
		v.dirty = true
		v.shown++
	}
	if closed {
		return ebiten.Termination
	}
	return nil
}

// Draw implements ebiten.Game.Draw
func (v *Viewer) Draw(screen *ebiten.Image) {
	if v.image == nil {
		v.image = ebiten.NewImage(ViewWidth, ViewHeight)
	}
	if v.dirty {
		v.image.WritePixels(v.canvas.Pix)
		v.dirty = false
	}
	screen.DrawImage(v.image, nil)
}

// Layout implements ebiten.Game.Layout; ebiten scales the fixed view to
// the window.
func (v *Viewer) Layout(outsideWidth, outsideHeight int) (int, int) {
	return ViewWidth, ViewHeight
}
