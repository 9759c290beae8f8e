package cartridge

import "fmt"

// Vectors holds the interrupt vectors written into a generated PRG image.
// A zero Reset vector means "the load address".
type Vectors struct {
	NMI   uint16
	Reset uint16
	IRQ   uint16
}

// FromProgram builds a 32KB NROM image for a raw program.
//
// Programs loaded at $8000 or above are placed into PRG-ROM directly.
// Programs loaded below $8000 (the $0600 convention) are not part of the
// image; the host copies them into RAM after power-on and the reset vector
// still points at the load address.
func FromProgram(program []uint8, load uint16, vectors Vectors) (Cartridge, error) {
	prg := make([]uint8, 2*PRGBankSize)

	if load >= 0x8000 {
		end := int(load) + len(program)
		if end > NMIVector {
			return Cartridge{}, fmt.Errorf("%w: $%04X+%d overlaps vectors", ErrProgramTooLarge, load, len(program))
		}
		copy(prg[load-0x8000:], program)
	} else if int(load)+len(program) > 0x0800 {
		return Cartridge{}, fmt.Errorf("%w: $%04X+%d exceeds internal RAM", ErrProgramTooLarge, load, len(program))
	}

	if vectors.Reset == 0 {
		vectors.Reset = load
	}
	putWord(prg, NMIVector, vectors.NMI)
	putWord(prg, ResetVector, vectors.Reset)
	putWord(prg, IRQVector, vectors.IRQ)

	return New(prg, nil, MirrorHorizontal)
}

func putWord(prg []uint8, addr uint16, value uint16) {
	prg[addr-0x8000] = uint8(value & 0xFF)
	prg[addr-0x8000+1] = uint8(value >> 8)
}
