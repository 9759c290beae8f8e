package bus

import (
	"errors"
	"fmt"
)

// ErrIllegalWrite is returned for CPU writes to read-only locations
var ErrIllegalWrite = errors.New("illegal bus write")

// Regions reported by WriteError
const (
	RegionPPUStatus = "PPU status register"
	RegionPRGROM    = "PRG-ROM"
)

// WriteError describes a rejected write. The write has no effect.
type WriteError struct {
	Addr   uint16
	Data   uint8
	Region string
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("%v: $%02X to %s at $%04X", ErrIllegalWrite, e.Data, e.Region, e.Addr)
}

func (e *WriteError) Unwrap() error {
	return ErrIllegalWrite
}
