package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang/glog"

	"nescore/internal/bus"
	"nescore/internal/cartridge"
	"nescore/internal/cpu"
	"nescore/internal/ppu"
)

// ErrStepLimit is returned when a frame does not complete within
// Emulation.MaxStepsPerFrame instructions
var ErrStepLimit = errors.New("frame step limit exceeded")

// Emulator drives the CPU and publishes a PPU snapshot at the end of every
// frame. It is not safe for concurrent use; only the Frames channel may be
// read from another goroutine.
type Emulator struct {
	cpu    *cpu.CPU
	bus    *bus.Bus
	config *Config

	frames        chan ppu.Snapshot
	frameCount    uint64
	droppedFrames uint64
	frameComplete bool
	closed        bool
}

// NewEmulator powers on a system with the given cartridge
func NewEmulator(cart cartridge.Cartridge, config *Config) *Emulator {
	if config == nil {
		config = NewConfig()
	}

	e := &Emulator{
		bus:    bus.New(cart),
		config: config,
		frames: make(chan ppu.Snapshot, config.Debug.FrameQueue),
	}
	e.bus.SetFrameCallback(e.handleFrameComplete)
	e.bus.SetNMICallback(func(p *ppu.PPU) {
		glog.V(2).Infof("[APP] NMI raised at frame %d", p.Frame())
	})

	e.cpu = cpu.New(e.bus)
	e.cpu.PageCrossPenalty = config.Emulation.PageCrossPenalty
	e.cpu.TraceUnofficial = config.Debug.TraceUnofficial

	glog.V(1).Infof("[APP] emulator ready: %d PRG bank(s), %s mirroring, reset $%04X",
		cart.PRGBanks(), cart.Mirroring, e.cpu.PC)
	return e
}

// NewEmulatorWithProgram builds a cartridge for a raw program at
// Emulation.LoadAddress. Programs below $8000 are copied into RAM after
// power-on.
func NewEmulatorWithProgram(program []uint8, config *Config) (*Emulator, error) {
	if config == nil {
		config = NewConfig()
	}
	load := config.Emulation.LoadAddress

	cart, err := cartridge.FromProgram(program, load, cartridge.Vectors{})
	if err != nil {
		return nil, fmt.Errorf("failed to build cartridge: %w", err)
	}

	e := NewEmulator(cart, config)
	if load < 0x8000 {
		for i, value := range program {
			if err := e.bus.Write(load+uint16(i), value); err != nil {
				return nil, fmt.Errorf("failed to load program: %w", err)
			}
		}
	}
	return e, nil
}

// CPU returns the processor
func (e *Emulator) CPU() *cpu.CPU {
	return e.cpu
}

// Bus returns the system bus
func (e *Emulator) Bus() *bus.Bus {
	return e.bus
}

// Frames returns the snapshot channel. A frame that finds the channel full
// is dropped and counted.
func (e *Emulator) Frames() <-chan ppu.Snapshot {
	return e.frames
}

// FrameCount returns the number of completed frames
func (e *Emulator) FrameCount() uint64 {
	return e.frameCount
}

// DroppedFrames returns the number of snapshots the consumer missed
func (e *Emulator) DroppedFrames() uint64 {
	return e.droppedFrames
}

// Step executes one instruction. Illegal writes are logged and ignored
// unless Emulation.HaltOnIllegalWrite is set.
func (e *Emulator) Step() (uint32, error) {
	pc := e.cpu.PC
	cycles, err := e.cpu.Step()
	if err == nil {
		return cycles, nil
	}

	if errors.Is(err, bus.ErrIllegalWrite) && !e.config.Emulation.HaltOnIllegalWrite {
		glog.Warningf("[APP] %v (instruction at $%04X)", err, pc)
		return cycles, nil
	}
	return cycles, err
}

// StepFrame runs until the PPU completes a frame
func (e *Emulator) StepFrame() error {
	e.frameComplete = false
	limit := e.config.Emulation.MaxStepsPerFrame

	for steps := 0; steps < limit; steps++ {
		if _, err := e.Step(); err != nil {
			return err
		}
		if e.frameComplete {
			return nil
		}
	}
	return fmt.Errorf("%w: %d steps at PC=$%04X", ErrStepLimit, limit, e.cpu.PC)
}

// RunUntilBreak runs until a BRK instruction executes or maxSteps
// instructions have run. It returns the number of instructions executed.
func (e *Emulator) RunUntilBreak(maxSteps int) (int, error) {
	for steps := 1; steps <= maxSteps; steps++ {
		if _, err := e.Step(); err != nil {
			return steps, err
		}
		if e.cpu.LastInstruction().Mnemonic == cpu.BRK {
			glog.V(1).Infof("[APP] BRK after %d steps", steps)
			return steps, nil
		}
	}
	return maxSteps, fmt.Errorf("%w: no BRK within %d steps", ErrStepLimit, maxSteps)
}

// Run steps whole frames until ctx is done, an error occurs or the given
// number of frames has run. frames <= 0 runs until ctx is done.
func (e *Emulator) Run(ctx context.Context, frames int) error {
	for n := 0; frames <= 0 || n < frames; n++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err := e.StepFrame(); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the snapshot channel. It must be called from the goroutine
// driving the emulator, after the last step.
func (e *Emulator) Close() {
	if !e.closed {
		e.closed = true
		close(e.frames)
	}
}

func (e *Emulator) handleFrameComplete(p *ppu.PPU) {
	e.frameComplete = true
	e.frameCount++
	glog.V(1).Infof("[APP] frame %d complete, %d CPU cycles", p.Frame(), e.cpu.Cycles())

	if e.closed {
		return
	}
	select {
	case e.frames <- p.Snapshot():
	default:
		e.droppedFrames++
	}
}
