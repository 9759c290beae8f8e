package cpu

// Mnemonic identifies the operation an opcode performs
type Mnemonic uint8

const (
	ADC Mnemonic = iota
	AND
	ASL
	BCC
	BCS
	BEQ
	BIT
	BMI
	BNE
	BPL
	BRK
	BVC
	BVS
	CLC
	CLD
	CLI
	CLV
	CMP
	CPX
	CPY
	DEC
	DEX
	DEY
	EOR
	INC
	INX
	INY
	JMP
	JSR
	LDA
	LDX
	LDY
	LSR
	NOP
	ORA
	PHA
	PHP
	PLA
	PLP
	ROL
	ROR
	RTI
	RTS
	SBC
	SEC
	SED
	SEI
	STA
	STX
	STY
	TAX
	TAY
	TSX
	TXA
	TXS
	TYA

	// Unofficial opcodes
	ALR
	ANC
	ARR
	AXS
	DCP
	ISB
	JAM
	LAS
	LAX
	LXA
	RLA
	RRA
	SAX
	SHA
	SHX
	SHY
	SLO
	SRE
	TAS
	XAA
)

var mnemonicNames = [...]string{
	"ADC", "AND", "ASL", "BCC", "BCS", "BEQ", "BIT", "BMI", "BNE", "BPL", "BRK", "BVC", "BVS",
	"CLC", "CLD", "CLI", "CLV", "CMP", "CPX", "CPY", "DEC", "DEX", "DEY", "EOR", "INC", "INX",
	"INY", "JMP", "JSR", "LDA", "LDX", "LDY", "LSR", "NOP", "ORA", "PHA", "PHP", "PLA", "PLP",
	"ROL", "ROR", "RTI", "RTS", "SBC", "SEC", "SED", "SEI", "STA", "STX", "STY", "TAX", "TAY",
	"TSX", "TXA", "TXS", "TYA",
	"ALR", "ANC", "ARR", "AXS", "DCP", "ISB", "JAM", "LAS", "LAX", "LXA", "RLA", "RRA", "SAX",
	"SHA", "SHX", "SHY", "SLO", "SRE", "TAS", "XAA",
}

func (m Mnemonic) String() string {
	if int(m) < len(mnemonicNames) {
		return mnemonicNames[m]
	}
	return "???"
}

// AddressingMode selects the operand resolver for an opcode
type AddressingMode uint8

const (
	Implied AddressingMode = iota
	Accumulator
	Immediate
	ZeroPage
	ZeroPageX
	ZeroPageY
	Relative
	Absolute
	AbsoluteX
	AbsoluteY
	Indirect
	IndexedIndirect // (zp,X)
	IndirectIndexed // (zp),Y
)

var modeNames = [...]string{
	"implied", "accumulator", "immediate", "zeropage", "zeropage,X", "zeropage,Y", "relative",
	"absolute", "absolute,X", "absolute,Y", "indirect", "(indirect,X)", "(indirect),Y",
}

func (m AddressingMode) String() string {
	if int(m) < len(modeNames) {
		return modeNames[m]
	}
	return "unknown"
}

// Size returns the instruction length in bytes for the mode, opcode included
func (m AddressingMode) Size() uint8 {
	switch m {
	case Implied, Accumulator:
		return 1
	case Absolute, AbsoluteX, AbsoluteY, Indirect:
		return 3
	default:
		return 2
	}
}

// Instruction describes one entry of the opcode table
type Instruction struct {
	Opcode   uint8
	Mnemonic Mnemonic
	Mode     AddressingMode
	Bytes    uint8
	Cycles   uint8
	// PageCrossPenalty marks read instructions that take one extra cycle
	// when indexing crosses a page boundary.
	PageCrossPenalty bool
	Unofficial       bool
}

// Implemented reports whether the opcode has modeled behavior
func (i Instruction) Implemented() bool {
	return i.Mnemonic != XAA && i.Mnemonic != LXA
}

// Lookup returns the table entry for an opcode
func Lookup(opcode uint8) Instruction {
	return instructionTable[opcode]
}

// Short names keep the tables below readable
const (
	imp = Implied
	acc = Accumulator
	imm = Immediate
	zp0 = ZeroPage
	zpx = ZeroPageX
	zpy = ZeroPageY
	rel = Relative
	abs = Absolute
	abx = AbsoluteX
	aby = AbsoluteY
	ind = Indirect
	izx = IndexedIndirect
	izy = IndirectIndexed
)

var opcodeMnemonics = [256]Mnemonic{
	BRK, ORA, JAM, SLO, NOP, ORA, ASL, SLO, PHP, ORA, ASL, ANC, NOP, ORA, ASL, SLO, // 00
	BPL, ORA, JAM, SLO, NOP, ORA, ASL, SLO, CLC, ORA, NOP, SLO, NOP, ORA, ASL, SLO, // 10
	JSR, AND, JAM, RLA, BIT, AND, ROL, RLA, PLP, AND, ROL, ANC, BIT, AND, ROL, RLA, // 20
	BMI, AND, JAM, RLA, NOP, AND, ROL, RLA, SEC, AND, NOP, RLA, NOP, AND, ROL, RLA, // 30
	RTI, EOR, JAM, SRE, NOP, EOR, LSR, SRE, PHA, EOR, LSR, ALR, JMP, EOR, LSR, SRE, // 40
	BVC, EOR, JAM, SRE, NOP, EOR, LSR, SRE, CLI, EOR, NOP, SRE, NOP, EOR, LSR, SRE, // 50
	RTS, ADC, JAM, RRA, NOP, ADC, ROR, RRA, PLA, ADC, ROR, ARR, JMP, ADC, ROR, RRA, // 60
	BVS, ADC, JAM, RRA, NOP, ADC, ROR, RRA, SEI, ADC, NOP, RRA, NOP, ADC, ROR, RRA, // 70
	NOP, STA, NOP, SAX, STY, STA, STX, SAX, DEY, NOP, TXA, XAA, STY, STA, STX, SAX, // 80
	BCC, STA, JAM, SHA, STY, STA, STX, SAX, TYA, STA, TXS, TAS, SHY, STA, SHX, SHA, // 90
	LDY, LDA, LDX, LAX, LDY, LDA, LDX, LAX, TAY, LDA, TAX, LXA, LDY, LDA, LDX, LAX, // A0
	BCS, LDA, JAM, LAX, LDY, LDA, LDX, LAX, CLV, LDA, TSX, LAS, LDY, LDA, LDX, LAX, // B0
	CPY, CMP, NOP, DCP, CPY, CMP, DEC, DCP, INY, CMP, DEX, AXS, CPY, CMP, DEC, DCP, // C0
	BNE, CMP, JAM, DCP, NOP, CMP, DEC, DCP, CLD, CMP, NOP, DCP, NOP, CMP, DEC, DCP, // D0
	CPX, SBC, NOP, ISB, CPX, SBC, INC, ISB, INX, SBC, NOP, SBC, CPX, SBC, INC, ISB, // E0
	BEQ, SBC, JAM, ISB, NOP, SBC, INC, ISB, SED, SBC, NOP, ISB, NOP, SBC, INC, ISB, // F0
}

var opcodeModes = [256]AddressingMode{
	imp, izx, imp, izx, zp0, zp0, zp0, zp0, imp, imm, acc, imm, abs, abs, abs, abs, // 00
	rel, izy, imp, izy, zpx, zpx, zpx, zpx, imp, aby, imp, aby, abx, abx, abx, abx, // 10
	abs, izx, imp, izx, zp0, zp0, zp0, zp0, imp, imm, acc, imm, abs, abs, abs, abs, // 20
	rel, izy, imp, izy, zpx, zpx, zpx, zpx, imp, aby, imp, aby, abx, abx, abx, abx, // 30
	imp, izx, imp, izx, zp0, zp0, zp0, zp0, imp, imm, acc, imm, abs, abs, abs, abs, // 40
	rel, izy, imp, izy, zpx, zpx, zpx, zpx, imp, aby, imp, aby, abx, abx, abx, abx, // 50
	imp, izx, imp, izx, zp0, zp0, zp0, zp0, imp, imm, acc, imm, ind, abs, abs, abs, // 60
	rel, izy, imp, izy, zpx, zpx, zpx, zpx, imp, aby, imp, aby, abx, abx, abx, abx, // 70
	imm, izx, imm, izx, zp0, zp0, zp0, zp0, imp, imm, imp, imm, abs, abs, abs, abs, // 80
	rel, izy, imp, izy, zpx, zpx, zpy, zpy, imp, aby, imp, aby, abx, abx, aby, aby, // 90
	imm, izx, imm, izx, zp0, zp0, zp0, zp0, imp, imm, imp, imm, abs, abs, abs, abs, // A0
	rel, izy, imp, izy, zpx, zpx, zpy, zpy, imp, aby, imp, aby, abx, abx, aby, aby, // B0
	imm, izx, imm, izx, zp0, zp0, zp0, zp0, imp, imm, imp, imm, abs, abs, abs, abs, // C0
	rel, izy, imp, izy, zpx, zpx, zpx, zpx, imp, aby, imp, aby, abx, abx, abx, abx, // D0
	imm, izx, imm, izx, zp0, zp0, zp0, zp0, imp, imm, imp, imm, abs, abs, abs, abs, // E0
	rel, izy, imp, izy, zpx, zpx, zpx, zpx, imp, aby, imp, aby, abx, abx, abx, abx, // F0
}

// Base cycle counts, page-cross and branch penalties excluded
var opcodeCycles = [256]uint8{
	7, 6, 2, 8, 3, 3, 5, 5, 3, 2, 2, 2, 4, 4, 6, 6, // 00
	2, 5, 2, 8, 4, 4, 6, 6, 2, 4, 2, 7, 4, 4, 7, 7, // 10
	6, 6, 2, 8, 3, 3, 5, 5, 4, 2, 2, 2, 4, 4, 6, 6, // 20
	2, 5, 2, 8, 4, 4, 6, 6, 2, 4, 2, 7, 4, 4, 7, 7, // 30
	6, 6, 2, 8, 3, 3, 5, 5, 3, 2, 2, 2, 3, 4, 6, 6, // 40
	2, 5, 2, 8, 4, 4, 6, 6, 2, 4, 2, 7, 4, 4, 7, 7, // 50
	6, 6, 2, 8, 3, 3, 5, 5, 4, 2, 2, 2, 5, 4, 6, 6, // 60
	2, 5, 2, 8, 4, 4, 6, 6, 2, 4, 2, 7, 4, 4, 7, 7, // 70
	2, 6, 2, 6, 3, 3, 3, 3, 2, 2, 2, 2, 4, 4, 4, 4, // 80
	2, 6, 2, 6, 4, 4, 4, 4, 2, 5, 2, 5, 5, 5, 5, 5, // 90
	2, 6, 2, 6, 3, 3, 3, 3, 2, 2, 2, 2, 4, 4, 4, 4, // A0
	2, 5, 2, 5, 4, 4, 4, 4, 2, 4, 2, 4, 4, 4, 4, 4, // B0
	2, 6, 2, 8, 3, 3, 5, 5, 2, 2, 2, 2, 4, 4, 6, 6, // C0
	2, 5, 2, 8, 4, 4, 6, 6, 2, 4, 2, 7, 4, 4, 7, 7, // D0
	2, 6, 2, 8, 3, 3, 5, 5, 2, 2, 2, 2, 4, 4, 6, 6, // E0
	2, 5, 2, 8, 4, 4, 6, 6, 2, 4, 2, 7, 4, 4, 7, 7, // F0
}

var instructionTable = buildInstructionTable()

func buildInstructionTable() [256]Instruction {
	var table [256]Instruction
	for i := range table {
		opcode := uint8(i)
		mnemonic := opcodeMnemonics[i]
		mode := opcodeModes[i]
		size := mode.Size()
		if mnemonic == BRK {
			// BRK skips a padding byte
			size = 2
		}
		table[i] = Instruction{
			Opcode:           opcode,
			Mnemonic:         mnemonic,
			Mode:             mode,
			Bytes:            size,
			Cycles:           opcodeCycles[i],
			PageCrossPenalty: readsWithPenalty(mnemonic) && indexed(mode),
			Unofficial:       isUnofficial(opcode, mnemonic),
		}
	}
	return table
}

func readsWithPenalty(m Mnemonic) bool {
	switch m {
	case LDA, LDX, LDY, ADC, SBC, AND, ORA, EOR, CMP, NOP, LAX, LAS:
		return true
	}
	return false
}

func indexed(mode AddressingMode) bool {
	return mode == AbsoluteX || mode == AbsoluteY || mode == IndirectIndexed
}

func isUnofficial(opcode uint8, m Mnemonic) bool {
	switch {
	case m >= ALR:
		return true
	case m == NOP:
		return opcode != 0xEA
	case opcode == 0xEB: // SBC #imm
		return true
	}
	return false
}
