// Package cartridge describes the parsed cartridge image consumed by the emulator core.
//
// Header parsing happens elsewhere; this package only holds the PRG-ROM,
// CHR-ROM and nametable mirroring mode, and validates them.
package cartridge

import (
	"errors"
	"fmt"
)

// Bank sizes for NROM-class boards
const (
	PRGBankSize = 0x4000 // 16KB
	CHRBankSize = 0x2000 // 8KB
)

// CPU interrupt vector locations inside the PRG window
const (
	NMIVector   = 0xFFFA
	ResetVector = 0xFFFC
	IRQVector   = 0xFFFE
)

// Mirroring represents nametable mirroring mode
type Mirroring uint8

const (
	MirrorHorizontal Mirroring = iota
	MirrorVertical
)

func (m Mirroring) String() string {
	switch m {
	case MirrorHorizontal:
		return "horizontal"
	case MirrorVertical:
		return "vertical"
	default:
		return fmt.Sprintf("mirroring(%d)", uint8(m))
	}
}

var (
	// ErrInvalidPRGSize is returned when PRG-ROM is neither 16KB nor 32KB
	ErrInvalidPRGSize = errors.New("invalid PRG-ROM size")
	// ErrInvalidCHRSize is returned when CHR-ROM is larger than one 8KB bank
	ErrInvalidCHRSize = errors.New("invalid CHR-ROM size")
	// ErrInvalidMirroring is returned for an unknown mirroring mode
	ErrInvalidMirroring = errors.New("invalid mirroring mode")
	// ErrProgramTooLarge is returned when a program does not fit below the vectors
	ErrProgramTooLarge = errors.New("program does not fit in address space")
)

// Cartridge is an immutable, already-parsed cartridge image
type Cartridge struct {
	PRGROM    []uint8
	CHRROM    []uint8
	Mirroring Mirroring
}

// New validates and copies the ROM images. An empty CHR image means the
// board carries 8KB of CHR-RAM instead.
func New(prg, chr []uint8, mirroring Mirroring) (Cartridge, error) {
	if len(prg) != PRGBankSize && len(prg) != 2*PRGBankSize {
		return Cartridge{}, fmt.Errorf("%w: %d bytes", ErrInvalidPRGSize, len(prg))
	}
	if len(chr) > CHRBankSize {
		return Cartridge{}, fmt.Errorf("%w: %d bytes", ErrInvalidCHRSize, len(chr))
	}
	if mirroring != MirrorHorizontal && mirroring != MirrorVertical {
		return Cartridge{}, fmt.Errorf("%w: %d", ErrInvalidMirroring, mirroring)
	}

	cart := Cartridge{
		PRGROM:    append([]uint8(nil), prg...),
		Mirroring: mirroring,
	}
	if len(chr) > 0 {
		cart.CHRROM = append([]uint8(nil), chr...)
	}
	return cart, nil
}

// HasCHRRAM reports whether the board has writable pattern memory
func (c Cartridge) HasCHRRAM() bool {
	return len(c.CHRROM) == 0
}

// PRGBanks returns the number of 16KB PRG banks
func (c Cartridge) PRGBanks() int {
	return len(c.PRGROM) / PRGBankSize
}
