package cpu

import "testing"

func TestLoadThenZero(t *testing.T) {
	h := NewCPUTestHelper(0x8000)
	h.LoadProgram(0xA9, 0x05, 0xA9, 0x00) // LDA #$05; LDA #$00
	h.Run(t, 2)

	if h.CPU.A != 0 || !h.CPU.P.Zero() || h.CPU.P.Negative() {
		t.Errorf("Expected A=0 Z=1 N=0, got A=0x%02X %s", h.CPU.A, h.CPU.P)
	}
}

func TestLoadTransfer(t *testing.T) {
	h := NewCPUTestHelper(0x8000)
	h.LoadProgram(0xA9, 0x05, 0xAA) // LDA #$05; TAX
	h.Run(t, 2)

	if h.CPU.X != 0x05 || h.CPU.P.Zero() || h.CPU.P.Negative() {
		t.Errorf("Expected X=5 Z=0 N=0, got X=0x%02X %s", h.CPU.X, h.CPU.P)
	}
}

func TestFiveOpProgram(t *testing.T) {
	h := NewCPUTestHelper(0x8000)
	h.LoadProgram(0xA9, 0xC0, 0xAA, 0xE8, 0x00) // LDA #$C0; TAX; INX; BRK
	h.Run(t, 4)

	if h.CPU.X != 0xC1 {
		t.Errorf("Expected X=0xC1, got 0x%02X", h.CPU.X)
	}
	if h.CPU.LastInstruction().Mnemonic != BRK {
		t.Errorf("Expected last instruction BRK, got %s", h.CPU.LastInstruction().Mnemonic)
	}
}

func TestINXWraps(t *testing.T) {
	h := NewCPUTestHelper(0x8000)
	h.LoadProgram(0xE8)
	h.CPU.X = 0xFF
	h.Run(t, 1)

	if h.CPU.X != 0x00 || !h.CPU.P.Zero() {
		t.Errorf("Expected X=0 with Z set, got X=0x%02X %s", h.CPU.X, h.CPU.P)
	}
}

// Every opcode must consume exactly as many bytes as its mode declares,
// otherwise all later decoding goes out of sync.
func TestInstructionLengths(t *testing.T) {
	for i := 0; i < 256; i++ {
		inst := Lookup(uint8(i))
		switch inst.Mnemonic {
		case JMP, JSR, RTS, RTI, BRK, JAM, XAA, LXA:
			continue
		}

		h := NewCPUTestHelper(0x8000)
		h.LoadProgram(uint8(i), 0x00, 0x00)
		if _, err := h.CPU.Step(); err != nil {
			t.Errorf("$%02X %s: unexpected error %v", i, inst.Mnemonic, err)
			continue
		}
		want := 0x8000 + uint16(inst.Bytes)
		if h.CPU.PC != want {
			t.Errorf("$%02X %s %s: PC=0x%04X, want 0x%04X", i, inst.Mnemonic, inst.Mode, h.CPU.PC, want)
		}
	}
}

func TestInstructionTable(t *testing.T) {
	tests := []struct {
		opcode   uint8
		mnemonic Mnemonic
		mode     AddressingMode
		bytes    uint8
		cycles   uint8
		penalty  bool
	}{
		{0xA9, LDA, Immediate, 2, 2, false},
		{0xBD, LDA, AbsoluteX, 3, 4, true},
		{0xB1, LDA, IndirectIndexed, 2, 5, true},
		{0x9D, STA, AbsoluteX, 3, 5, false},
		{0x6C, JMP, Indirect, 3, 5, false},
		{0x00, BRK, Implied, 2, 7, false},
		{0x0A, ASL, Accumulator, 1, 2, false},
		{0xB6, LDX, ZeroPageY, 2, 4, false},
		{0x1C, NOP, AbsoluteX, 3, 4, true},
		{0xEB, SBC, Immediate, 2, 2, false},
		{0xBB, LAS, AbsoluteY, 3, 4, true},
	}

	for _, tt := range tests {
		inst := Lookup(tt.opcode)
		if inst.Mnemonic != tt.mnemonic || inst.Mode != tt.mode || inst.Bytes != tt.bytes ||
			inst.Cycles != tt.cycles || inst.PageCrossPenalty != tt.penalty {
			t.Errorf("$%02X: got %+v", tt.opcode, inst)
		}
	}

	official := 0
	for i := 0; i < 256; i++ {
		if !Lookup(uint8(i)).Unofficial {
			official++
		}
	}
	if official != 151 {
		t.Errorf("Expected 151 official opcodes, got %d", official)
	}
}

func TestLoadStoreInstructions(t *testing.T) {
	h := NewCPUTestHelper(0x8000)
	h.LoadProgram(
		0xA2, 0x10, // LDX #$10
		0xA0, 0x20, // LDY #$20
		0xA9, 0x30, // LDA #$30
		0x85, 0x40, // STA $40
		0x86, 0x41, // STX $41
		0x8C, 0x00, 0x06, // STY $0600
	)
	h.Run(t, 6)

	if h.Bus.data[0x40] != 0x30 || h.Bus.data[0x41] != 0x10 || h.Bus.data[0x0600] != 0x20 {
		t.Errorf("stores landed wrong: $40=%02X $41=%02X $0600=%02X",
			h.Bus.data[0x40], h.Bus.data[0x41], h.Bus.data[0x0600])
	}
}

func TestLogicalInstructions(t *testing.T) {
	tests := []struct {
		name    string
		program []uint8
		a       uint8
		flags   string
	}{
		{"AND", []uint8{0xA9, 0xF0, 0x29, 0x3C}, 0x30, "nv-bdIzc"},
		{"ORA", []uint8{0xA9, 0x80, 0x09, 0x01}, 0x81, "Nv-bdIzc"},
		{"EOR to zero", []uint8{0xA9, 0xAA, 0x49, 0xAA}, 0x00, "nv-bdIZc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewCPUTestHelper(0x8000)
			h.LoadProgram(tt.program...)
			h.Run(t, 2)
			if h.CPU.A != tt.a {
				t.Errorf("Expected A=0x%02X, got 0x%02X", tt.a, h.CPU.A)
			}
			h.AssertFlags(t, tt.name, tt.flags)
		})
	}
}

func TestShiftMemory(t *testing.T) {
	h := NewCPUTestHelper(0x8000)
	h.LoadProgram(
		0x46, 0x10, // LSR $10
		0x26, 0x11, // ROL $11 (carry in from LSR)
		0x66, 0x12, // ROR $12
	)
	h.Bus.SetBytes(0x10, 0x01, 0x40, 0x02)
	h.Run(t, 3)

	if h.Bus.data[0x10] != 0x00 || h.Bus.data[0x11] != 0x81 || h.Bus.data[0x12] != 0x01 {
		t.Errorf("unexpected results % X", h.Bus.data[0x10:0x13])
	}
	if h.CPU.P.Carry() {
		t.Error("ROR of 0x02 should clear carry")
	}
}

func TestIncrementDecrementMemory(t *testing.T) {
	h := NewCPUTestHelper(0x8000)
	h.LoadProgram(0xE6, 0x10, 0xC6, 0x11) // INC $10; DEC $11
	h.Bus.SetBytes(0x10, 0xFF, 0x00)
	h.Run(t, 1)
	if h.Bus.data[0x10] != 0x00 || !h.CPU.P.Zero() {
		t.Errorf("INC should wrap to zero, got 0x%02X %s", h.Bus.data[0x10], h.CPU.P)
	}
	h.Run(t, 1)
	if h.Bus.data[0x11] != 0xFF || !h.CPU.P.Negative() {
		t.Errorf("DEC should wrap to 0xFF, got 0x%02X %s", h.Bus.data[0x11], h.CPU.P)
	}
}

func TestTransferInstructions(t *testing.T) {
	h := NewCPUTestHelper(0x8000)
	h.LoadProgram(
		0xA9, 0x80, // LDA #$80
		0xA8,       // TAY
		0xA2, 0x00, // LDX #$00
		0x9A, // TXS
		0xBA, // TSX
		0x98, // TYA
	)
	h.Run(t, 6)

	h.AssertRegisters(t, "transfers", 0x80, 0x00, 0x80, 0x00, 0x8008)
	h.AssertFlags(t, "transfers", "Nv-bdIzc")
}

func TestBranchesDoNotTouchFlags(t *testing.T) {
	branches := []uint8{0x10, 0x30, 0x50, 0x70, 0x90, 0xB0, 0xD0, 0xF0}
	for _, opcode := range branches {
		h := NewCPUTestHelper(0x8000)
		h.LoadProgram(opcode, 0x04)
		h.CPU.P = NewStatus(0xC3)
		h.Run(t, 1)
		if h.CPU.P.Byte() != 0xE3 {
			t.Errorf("$%02X changed flags to 0x%02X", opcode, h.CPU.P.Byte())
		}
	}
}

func TestBranchPolarity(t *testing.T) {
	tests := []struct {
		opcode uint8
		status uint8
		taken  bool
	}{
		{0x90, 0x00, true}, {0x90, cFlagMask, false}, // BCC
		{0xB0, cFlagMask, true}, {0xB0, 0x00, false}, // BCS
		{0xF0, zFlagMask, true}, {0xF0, 0x00, false}, // BEQ
		{0xD0, 0x00, true}, {0xD0, zFlagMask, false}, // BNE
		{0x30, nFlagMask, true}, {0x30, 0x00, false}, // BMI
		{0x10, 0x00, true}, {0x10, nFlagMask, false}, // BPL
		{0x70, vFlagMask, true}, {0x70, 0x00, false}, // BVS
		{0x50, 0x00, true}, {0x50, vFlagMask, false}, // BVC
	}

	for _, tt := range tests {
		h := NewCPUTestHelper(0x8000)
		h.LoadProgram(tt.opcode, 0x10)
		h.CPU.P = NewStatus(tt.status)
		h.Run(t, 1)

		want := uint16(0x8002)
		if tt.taken {
			want = 0x8012
		}
		if h.CPU.PC != want {
			t.Errorf("$%02X with P=0x%02X: PC=0x%04X, want 0x%04X", tt.opcode, tt.status, h.CPU.PC, want)
		}
	}
}
