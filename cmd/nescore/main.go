// Package main implements the nescore host. It loads a raw 6502 program,
// runs it on the CPU/PPU core and optionally attaches the debug viewer, a
// Lua monitor or the stats server.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/bradleyjkemp/memviz"
	"github.com/golang/glog"

	"nescore/internal/app"
	"nescore/internal/debug"
	"nescore/internal/graphics"
	"nescore/internal/monitor"
	"nescore/internal/statsview"
	"nescore/internal/version"
)

func main() {
	var (
		programFile = flag.String("program", "", "Path to a raw 6502 program binary")
		loadAddr    = flag.String("load", "", "Load address, e.g. 0x0600 or 0x8000 (overrides config)")
		configFile  = flag.String("config", "", "Path to configuration file")
		frames      = flag.Int("frames", 60, "Frames to run; 0 runs until interrupted")
		untilBRK    = flag.Bool("brk", false, "Run until BRK instead of a number of frames")
		script      = flag.String("script", "", "Lua monitor script to run instead of free running")
		interactive = flag.Bool("monitor", false, "Start the interactive Lua monitor")
		view        = flag.Bool("view", false, "Open the debug viewer window")
		dumpDir     = flag.String("dump", "", "Write snapshot dumps (PNG and text) to this directory")
		dumpEvery   = flag.Int("dump-every", 1, "Dump every Nth frame")
		dumpMax     = flag.Int("dump-max", 10, "Maximum number of frames to dump")
		memvizFile  = flag.String("memviz", "", "Write a Graphviz dump of the emulator to this file on exit")
		stats       = flag.Bool("stats", false, "Serve runtime statistics")
		showVersion = flag.Bool("version", false, "Show version information")
	)
	flag.Usage = printUsage
	flag.Parse()
	defer glog.Flush()

	if *showVersion {
		version.GetBuildInfo().Write(os.Stdout)
		return
	}

	config := app.NewConfig()
	if *configFile != "" {
		if err := config.LoadFromFile(*configFile); err != nil {
			glog.Exitf("Failed to load config: %v", err)
		}
	}
	if *loadAddr != "" {
		addr, err := strconv.ParseUint(*loadAddr, 0, 16)
		if err != nil {
			glog.Exitf("Invalid load address %q: %v", *loadAddr, err)
		}
		config.Emulation.LoadAddress = uint16(addr)
	}
	if *stats {
		config.Debug.StatsView = true
	}

	if *programFile == "" {
		printUsage()
		os.Exit(2)
	}
	program, err := os.ReadFile(*programFile)
	if err != nil {
		glog.Exitf("Failed to read program: %v", err)
	}

	emu, err := app.NewEmulatorWithProgram(program, config)
	if err != nil {
		glog.Exitf("Failed to create emulator: %v", err)
	}
	glog.Infof("[APP] %s: %d bytes at $%04X", version.GetBuildInfo(), len(program), config.Emulation.LoadAddress)

	if config.Debug.StatsView {
		server := statsview.Launch(config.Debug.StatsViewAddr, os.Stderr)
		defer server.Stop()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch {
	case *script != "":
		err = runScript(emu, *script)
	case *interactive:
		err = runMonitor(emu)
	case *view:
		err = runViewer(ctx, emu, config, *frames)
	case *untilBRK:
		_, err = emu.RunUntilBreak(config.Emulation.MaxStepsPerFrame * max(*frames, 1))
	case *dumpDir != "":
		err = runDumper(ctx, emu, debug.NewFrameDumper(*dumpDir, *dumpMax, *dumpEvery), *frames)
	default:
		err = emu.Run(ctx, *frames)
	}

	printSummary(emu)

	if *memvizFile != "" {
		if err := dumpMemviz(emu, *memvizFile); err != nil {
			glog.Errorf("Failed to write memviz dump: %v", err)
		}
	}

	if err != nil && !errors.Is(err, context.Canceled) {
		glog.Errorf("Emulation stopped: %v", err)
		glog.Flush()
		os.Exit(1)
	}
}

func runScript(emu *app.Emulator, path string) error {
	m := monitor.New(emu, os.Stdout)
	defer m.Close()
	return m.RunFile(path)
}

// runViewer emulates on a separate goroutine; the window owns the main one
func runViewer(ctx context.Context, emu *app.Emulator, config *app.Config, frames int) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		err := emu.Run(ctx, frames)
		emu.Close()
		done <- err
	}()

	viewer := graphics.NewViewer(emu.Frames(), config.Viewer.Title, config.Viewer.Scale)
	if err := viewer.Run(); err != nil {
		cancel()
		<-done
		return err
	}

	cancel()
	return <-done
}

// runDumper consumes the frame channel on a separate goroutine
func runDumper(ctx context.Context, emu *app.Emulator, dumper *debug.FrameDumper, frames int) error {
	done := make(chan error, 1)
	go func() {
		done <- dumper.Consume(emu.Frames())
	}()

	err := emu.Run(ctx, frames)
	emu.Close()
	if dumpErr := <-done; dumpErr != nil && err == nil {
		err = dumpErr
	}
	fmt.Printf("dumped %d frame(s)\n", dumper.Dumped())
	return err
}

func printSummary(emu *app.Emulator) {
	r := emu.CPU().Registers()
	p := emu.Bus().PPU()
	fmt.Printf("A=$%02X X=$%02X Y=$%02X SP=$%02X PC=$%04X P=%s\n", r.A, r.X, r.Y, r.SP, r.PC, r.P)
	fmt.Printf("cycles=%d frames=%d dropped=%d scanline=%d dot=%d\n",
		emu.CPU().Cycles(), emu.FrameCount(), emu.DroppedFrames(), p.Scanline(), p.Dot())
}

func dumpMemviz(emu *app.Emulator, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	memviz.Map(f, emu)
	return nil
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "%s\n\n", version.GetBuildInfo())
	fmt.Fprintf(os.Stderr, "Usage: nescore -program FILE [options]\n\n")
	fmt.Fprintf(os.Stderr, "Options:\n")
	flag.PrintDefaults()
	fmt.Fprintf(os.Stderr, "\nExamples:\n")
	fmt.Fprintf(os.Stderr, "  nescore -program snake.bin -load 0x0600 -view\n")
	fmt.Fprintf(os.Stderr, "  nescore -program test.bin -brk -v=1 -logtostderr\n")
	fmt.Fprintf(os.Stderr, "  nescore -program test.bin -script check.lua\n")
}
