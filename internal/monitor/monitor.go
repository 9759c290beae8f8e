// Package monitor exposes a running emulator to Lua scripts. It is used
// both as a scripted test harness and behind the interactive prompt.
//
// Globals available to scripts:
//
//	peek(addr)          read a byte without side effects
//	read(addr)          read a byte through the bus
//	poke(addr, value)   write a byte through the bus
//	step([n])           execute n instructions, returns cycles
//	frame([n])          run n frames
//	run_until_brk([n])  run until BRK, returns instructions executed
//	regs()              table of CPU registers
//	ppu()               table of PPU timing and register state
//	op(addr)            mnemonic, addressing mode and length at addr
//	buttons(pad, mask)  set controller 1 or 2 buttons (A=1 ... Right=0x80)
//	print(...)          write to the monitor output
package monitor

import (
	"fmt"
	"io"
	"strings"

	"github.com/golang/glog"
	lua "github.com/yuin/gopher-lua"

	"nescore/internal/app"
	"nescore/internal/cpu"
)

const defaultRunLimit = 1000000

// Monitor binds a Lua state to an emulator
type Monitor struct {
	emu *app.Emulator
	out io.Writer
	L   *lua.LState
}

// New creates a monitor writing script output to out
func New(emu *app.Emulator, out io.Writer) *Monitor {
	m := &Monitor{
		emu: emu,
		out: out,
		L:   lua.NewState(),
	}

	for name, fn := range map[string]lua.LGFunction{
		"peek":          m.peek,
		"read":          m.read,
		"poke":          m.poke,
		"step":          m.step,
		"frame":         m.frame,
		"run_until_brk": m.runUntilBreak,
		"regs":          m.regs,
		"ppu":           m.ppu,
		"op":            m.op,
		"buttons":       m.buttons,
		"print":         m.print,
	} {
		m.L.SetGlobal(name, m.L.NewFunction(fn))
	}
	return m
}

// Run executes a Lua chunk
func (m *Monitor) Run(script string) error {
	glog.V(2).Infof("[MON] run %q", script)
	if err := m.L.DoString(script); err != nil {
		return fmt.Errorf("monitor: %w", err)
	}
	return nil
}

// RunFile executes a Lua file
func (m *Monitor) RunFile(path string) error {
	if err := m.L.DoFile(path); err != nil {
		return fmt.Errorf("monitor: %w", err)
	}
	return nil
}

// Close releases the Lua state
func (m *Monitor) Close() {
	m.L.Close()
}

func checkAddress(L *lua.LState, n int) uint16 {
	addr := L.CheckInt(n)
	if addr < 0 || addr > 0xFFFF {
		L.ArgError(n, "address out of range")
	}
	return uint16(addr)
}

func (m *Monitor) peek(L *lua.LState) int {
	L.Push(lua.LNumber(m.emu.Bus().Peek(checkAddress(L, 1))))
	return 1
}

func (m *Monitor) read(L *lua.LState) int {
	L.Push(lua.LNumber(m.emu.Bus().Read(checkAddress(L, 1))))
	return 1
}

func (m *Monitor) poke(L *lua.LState) int {
	addr := checkAddress(L, 1)
	value := L.CheckInt(2)
	if value < 0 || value > 0xFF {
		L.ArgError(2, "value out of range")
	}
	if err := m.emu.Bus().Write(addr, uint8(value)); err != nil {
		L.RaiseError("%v", err)
	}
	return 0
}

func (m *Monitor) step(L *lua.LState) int {
	n := L.OptInt(1, 1)
	var total uint32
	for i := 0; i < n; i++ {
		cycles, err := m.emu.Step()
		total += cycles
		if err != nil {
			L.RaiseError("%v", err)
		}
	}
	L.Push(lua.LNumber(total))
	return 1
}

func (m *Monitor) frame(L *lua.LState) int {
	n := L.OptInt(1, 1)
	for i := 0; i < n; i++ {
		if err := m.emu.StepFrame(); err != nil {
			L.RaiseError("%v", err)
		}
	}
	L.Push(lua.LNumber(m.emu.FrameCount()))
	return 1
}

func (m *Monitor) runUntilBreak(L *lua.LState) int {
	steps, err := m.emu.RunUntilBreak(L.OptInt(1, defaultRunLimit))
	if err != nil {
		L.RaiseError("%v", err)
	}
	L.Push(lua.LNumber(steps))
	return 1
}

func (m *Monitor) regs(L *lua.LState) int {
	r := m.emu.CPU().Registers()
	t := L.NewTable()
	L.SetField(t, "a", lua.LNumber(r.A))
	L.SetField(t, "x", lua.LNumber(r.X))
	L.SetField(t, "y", lua.LNumber(r.Y))
	L.SetField(t, "sp", lua.LNumber(r.SP))
	L.SetField(t, "pc", lua.LNumber(r.PC))
	L.SetField(t, "p", lua.LNumber(r.P.Byte()))
	L.SetField(t, "flags", lua.LString(r.P.String()))
	L.SetField(t, "cycles", lua.LNumber(m.emu.CPU().Cycles()))
	L.Push(t)
	return 1
}

func (m *Monitor) ppu(L *lua.LState) int {
	p := m.emu.Bus().PPU()
	t := L.NewTable()
	L.SetField(t, "scanline", lua.LNumber(p.Scanline()))
	L.SetField(t, "dot", lua.LNumber(p.Dot()))
	L.SetField(t, "frame", lua.LNumber(p.Frame()))
	L.SetField(t, "ctrl", lua.LNumber(p.Control().Byte()))
	L.SetField(t, "mask", lua.LNumber(p.Mask().Byte()))
	L.SetField(t, "status", lua.LNumber(p.Status().Byte()))
	L.SetField(t, "vblank", lua.LBool(p.Status().VBlank()))
	L.SetField(t, "nmi", lua.LBool(p.NMIPending()))
	L.SetField(t, "addr", lua.LNumber(p.VRAMAddress()))
	L.Push(t)
	return 1
}

func (m *Monitor) op(L *lua.LState) int {
	inst := cpu.Lookup(m.emu.Bus().Peek(checkAddress(L, 1)))
	L.Push(lua.LString(inst.Mnemonic.String()))
	L.Push(lua.LString(inst.Mode.String()))
	L.Push(lua.LNumber(inst.Bytes))
	return 3
}

func (m *Monitor) buttons(L *lua.LState) int {
	mask := L.CheckInt(2)
	if mask < 0 || mask > 0xFF {
		L.ArgError(2, "mask out of range")
	}

	ports := m.emu.Bus().Input()
	switch L.CheckInt(1) {
	case 1:
		ports.Controller1.SetButtons(uint8(mask))
	case 2:
		ports.Controller2.SetButtons(uint8(mask))
	default:
		L.ArgError(1, "controller must be 1 or 2")
	}
	return 0
}

func (m *Monitor) print(L *lua.LState) int {
	args := make([]string, L.GetTop())
	for i := range args {
		args[i] = L.ToStringMeta(L.Get(i + 1)).String()
	}
	fmt.Fprintln(m.out, strings.Join(args, "\t"))
	return 0
}
