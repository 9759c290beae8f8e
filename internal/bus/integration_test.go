package bus_test

import (
	"errors"
	"testing"

	"nescore/internal/bus"
	"nescore/internal/cartridge"
	"nescore/internal/cpu"
	"nescore/internal/ppu"
)

func newSystem(t *testing.T, program []uint8, vectors cartridge.Vectors) (*cpu.CPU, *bus.Bus) {
	t.Helper()
	cart, err := cartridge.FromProgram(program, 0x8000, vectors)
	if err != nil {
		t.Fatalf("FromProgram failed: %v", err)
	}
	b := bus.New(cart)
	return cpu.New(b), b
}

func TestCPUServicesVBlankNMI(t *testing.T) {
	program := []uint8{
		0xA9, 0x80, // LDA #$80
		0x8D, 0x00, 0x20, // STA $2000
		0x4C, 0x05, 0x80, // JMP $8005
		0xE6, 0x10, // NMI: INC $10
		0x40, // RTI
	}
	c, b := newSystem(t, program, cartridge.Vectors{NMI: 0x8008})

	callbacks := 0
	b.SetNMICallback(func(*ppu.PPU) { callbacks++ })

	for b.PPU().Frame() < 2 {
		if _, err := c.Step(); err != nil {
			t.Fatalf("Step failed: %v", err)
		}
	}

	if got := b.Read(0x0010); got != 2 {
		t.Errorf("NMI handler ran %d times, want 2", got)
	}
	if callbacks != 2 {
		t.Errorf("NMI callback fired %d times, want 2", callbacks)
	}
	if c.Cycles() != b.Cycles() {
		t.Errorf("CPU cycles %d and bus cycles %d diverged", c.Cycles(), b.Cycles())
	}
}

func TestCPUOAMDMAStall(t *testing.T) {
	program := []uint8{
		0xA9, 0x02, // LDA #$02
		0x8D, 0x14, 0x40, // STA $4014
	}
	c, _ := newSystem(t, program, cartridge.Vectors{})

	c.Step() // LDA, 2 cycles
	cycles, err := c.Step()
	if err != nil {
		t.Fatalf("Step failed: %v", err)
	}
	if cycles != 4+513 {
		t.Errorf("STA $4014 took %d cycles, want %d", cycles, 4+513)
	}
}

func TestCPUIllegalWriteContinues(t *testing.T) {
	program := []uint8{
		0xA9, 0x11, // LDA #$11
		0x8D, 0x02, 0x20, // STA $2002
		0xE8, // INX
	}
	c, _ := newSystem(t, program, cartridge.Vectors{})

	c.Step()
	_, err := c.Step()
	if !errors.Is(err, bus.ErrIllegalWrite) {
		t.Fatalf("Expected ErrIllegalWrite, got %v", err)
	}
	if c.PC != 0x8005 {
		t.Errorf("PC = $%04X, want $8005", c.PC)
	}

	if _, err := c.Step(); err != nil {
		t.Fatalf("INX failed: %v", err)
	}
	if c.X != 1 {
		t.Errorf("X = %d, want 1", c.X)
	}
}
