package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"nescore/internal/app"
	"nescore/internal/monitor"
)

const prompt = "nescore> "

// runMonitor reads Lua lines from stdin. A terminal gets line editing and
// history; anything else is read line by line.
func runMonitor(emu *app.Emulator) error {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		m := monitor.New(emu, os.Stdout)
		defer m.Close()
		return runLines(m, bufio.NewScanner(os.Stdin), os.Stdout)
	}

	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("failed to set raw mode: %w", err)
	}
	defer term.Restore(fd, oldState)

	t := term.NewTerminal(struct {
		io.Reader
		io.Writer
	}{os.Stdin, os.Stdout}, prompt)

	m := monitor.New(emu, t)
	defer m.Close()

	for {
		line, err := t.ReadLine()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if quit(line) {
			return nil
		}
		if err := m.Run(line); err != nil {
			fmt.Fprintln(t, err)
		}
	}
}

func runLines(m *monitor.Monitor, scanner *bufio.Scanner, out io.Writer) error {
	for scanner.Scan() {
		line := scanner.Text()
		if quit(line) {
			return nil
		}
		if err := m.Run(line); err != nil {
			fmt.Fprintln(out, err)
		}
	}
	return scanner.Err()
}

func quit(line string) bool {
	switch strings.TrimSpace(line) {
	case "quit", "exit", "q":
		return true
	}
	return false
}
