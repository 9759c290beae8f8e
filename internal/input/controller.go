// Package input implements the standard NES controllers behind $4016/$4017.
package input

import (
	"github.com/golang/glog"
)

// Button represents NES controller buttons, in serial read order
type Button uint8

const (
	ButtonA Button = 1 << iota
	ButtonB
	ButtonSelect
	ButtonStart
	ButtonUp
	ButtonDown
	ButtonLeft
	ButtonRight
)

const (
	port1 = 0x4016
	port2 = 0x4017

	// $4017 reads carry open bus in bit 6
	port2OpenBus = 0x40
)

// Controller is one controller's button latch and shift register
type Controller struct {
	buttons uint8
	shift   uint8
	strobe  bool
	reads   uint8
}

// SetButton presses or releases a button
func (c *Controller) SetButton(button Button, pressed bool) {
	if pressed {
		c.buttons |= uint8(button)
	} else {
		c.buttons &^= uint8(button)
	}
}

// SetButtons replaces the whole button mask
func (c *Controller) SetButtons(mask uint8) {
	c.buttons = mask
}

// Buttons returns the current button mask
func (c *Controller) Buttons() uint8 {
	return c.buttons
}

// IsPressed returns true if the button is currently pressed
func (c *Controller) IsPressed(button Button) bool {
	return c.buttons&uint8(button) != 0
}

// write latches the buttons while strobe (bit 0) is high
func (c *Controller) write(value uint8) {
	c.strobe = value&1 != 0
	if c.strobe {
		c.shift = c.buttons
		c.reads = 0
	}
}

// read returns the next button bit. While strobe is high it keeps
// returning A; after eight reads it returns 1.
func (c *Controller) read() uint8 {
	if c.strobe {
		return c.buttons & 1
	}
	if c.reads >= 8 {
		return 1
	}
	bit := c.shift & 1
	c.shift >>= 1
	c.reads++
	return bit
}

// Ports connects two controllers to the CPU bus
type Ports struct {
	Controller1 Controller
	Controller2 Controller
}

// Handles reports whether address is a controller port
func (p *Ports) Handles(address uint16) bool {
	return address == port1 || address == port2
}

// Read reads a controller port
func (p *Ports) Read(address uint16) uint8 {
	switch address {
	case port1:
		return p.Controller1.read()
	case port2:
		return p.Controller2.read() | port2OpenBus
	default:
		return 0
	}
}

// Write writes the strobe to both controllers. Writes to $4017 belong to
// the APU frame counter and are ignored.
func (p *Ports) Write(address uint16, value uint8) {
	if address != port1 {
		return
	}
	glog.V(3).Infof("[INPUT] strobe=%d", value&1)
	p.Controller1.write(value)
	p.Controller2.write(value)
}
