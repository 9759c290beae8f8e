package cpu

import (
	"errors"
	"fmt"
)

var (
	// ErrUnimplementedOpcode is returned for opcodes whose behavior is not modeled
	ErrUnimplementedOpcode = errors.New("unimplemented opcode")
	// ErrJammed is returned once a JAM opcode has halted the processor
	ErrJammed = errors.New("cpu jammed")
)

// OpcodeError reports a decode-time failure at a specific program counter
type OpcodeError struct {
	Opcode   uint8
	PC       uint16
	Mnemonic Mnemonic
	Err      error
}

func (e *OpcodeError) Error() string {
	return fmt.Sprintf("%v: $%02X (%s) at $%04X", e.Err, e.Opcode, e.Mnemonic, e.PC)
}

func (e *OpcodeError) Unwrap() error {
	return e.Err
}
