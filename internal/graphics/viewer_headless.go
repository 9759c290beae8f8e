//go:build headless

package graphics

import (
	"errors"

	"nescore/internal/ppu"
)

// ErrNoDisplay is returned by Run in headless builds
var ErrNoDisplay = errors.New("viewer not available in headless build")

// Viewer stub for headless builds
type Viewer struct{}

// NewViewer creates a stub viewer
func NewViewer(frames <-chan ppu.Snapshot, title string, scale int) *Viewer {
	return &Viewer{}
}

// Run always fails in headless builds
func (v *Viewer) Run() error {
	return ErrNoDisplay
}
