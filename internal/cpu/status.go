package cpu

import "strings"

// Status register bit masks
const (
	cFlagMask  = 0x01
	zFlagMask  = 0x02
	iFlagMask  = 0x04
	dFlagMask  = 0x08
	bFlagMask  = 0x10
	unusedMask = 0x20
	vFlagMask  = 0x40
	nFlagMask  = 0x80
)

// powerOnStatus has the interrupt disable and unused bits set
const powerOnStatus = iFlagMask | unusedMask

// Status is the processor status register (P). The unused bit is always set.
type Status struct {
	value uint8
}

// NewStatus returns a status register holding the given byte
func NewStatus(value uint8) Status {
	return Status{value: value | unusedMask}
}

// Byte returns the raw register value
func (s Status) Byte() uint8 { return s.value }

// Carry reports C (bit 0)
func (s Status) Carry() bool { return s.value&cFlagMask != 0 }

// Zero reports Z (bit 1)
func (s Status) Zero() bool { return s.value&zFlagMask != 0 }

// InterruptDisable reports I (bit 2)
func (s Status) InterruptDisable() bool { return s.value&iFlagMask != 0 }

// Decimal reports D (bit 3). The NES CPU ignores it in arithmetic.
func (s Status) Decimal() bool { return s.value&dFlagMask != 0 }

// Break reports B (bit 4). It is only meaningful in pushed copies of P.
func (s Status) Break() bool { return s.value&bFlagMask != 0 }

// Overflow reports V (bit 6)
func (s Status) Overflow() bool { return s.value&vFlagMask != 0 }

// Negative reports N (bit 7)
func (s Status) Negative() bool { return s.value&nFlagMask != 0 }

// SetCarry sets or clears C
func (s *Status) SetCarry(on bool) { s.set(cFlagMask, on) }

// SetZero sets or clears Z
func (s *Status) SetZero(on bool) { s.set(zFlagMask, on) }

// SetInterruptDisable sets or clears I
func (s *Status) SetInterruptDisable(on bool) { s.set(iFlagMask, on) }

// SetDecimal sets or clears D
func (s *Status) SetDecimal(on bool) { s.set(dFlagMask, on) }

// SetBreak sets or clears B
func (s *Status) SetBreak(on bool) { s.set(bFlagMask, on) }

// SetOverflow sets or clears V
func (s *Status) SetOverflow(on bool) { s.set(vFlagMask, on) }

// SetNegative sets or clears N
func (s *Status) SetNegative(on bool) { s.set(nFlagMask, on) }

func (s *Status) set(mask uint8, on bool) {
	if on {
		s.value |= mask
	} else {
		s.value &^= mask
	}
}

// pushed returns the byte written to the stack by PHP/BRK (brk=true)
// or by a hardware interrupt (brk=false).
func (s Status) pushed(brk bool) uint8 {
	v := s.value | unusedMask
	if brk {
		return v | bFlagMask
	}
	return v &^ bFlagMask
}

// pulled loads the register from a stacked byte. B does not exist in the
// register itself, so it is dropped.
func (s *Status) pulled(value uint8) {
	s.value = (value &^ bFlagMask) | unusedMask
}

// String renders the flags as NV-BDIZC, upper case when set
func (s Status) String() string {
	const names = "NV-BDIZC"
	var sb strings.Builder
	for i := 0; i < 8; i++ {
		c := names[i]
		if s.value&(0x80>>i) == 0 && c != '-' {
			c += 'a' - 'A'
		}
		sb.WriteByte(c)
	}
	return sb.String()
}
