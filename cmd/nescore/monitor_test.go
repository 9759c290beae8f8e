package main

import (
	"bufio"
	"bytes"
	"strings"
	"testing"

	"nescore/internal/app"
	"nescore/internal/monitor"
)

func TestRunLines(t *testing.T) {
	emu, err := app.NewEmulatorWithProgram([]uint8{0xE8, 0xE8, 0x00}, app.NewConfig())
	if err != nil {
		t.Fatalf("NewEmulatorWithProgram failed: %v", err)
	}

	var out bytes.Buffer
	m := monitor.New(emu, &out)
	defer m.Close()

	input := strings.Join([]string{
		"step(2)",
		"print(regs().x)",
		"peek(",
		"quit",
		"print('unreachable')",
	}, "\n")

	if err := runLines(m, bufio.NewScanner(strings.NewReader(input)), &out); err != nil {
		t.Fatalf("runLines failed: %v", err)
	}

	output := out.String()
	if !strings.HasPrefix(output, "2\n") {
		t.Errorf("Expected X=2 first, got %q", output)
	}
	if !strings.Contains(output, "monitor:") {
		t.Errorf("Syntax error should be reported, got %q", output)
	}
	if strings.Contains(output, "unreachable") {
		t.Error("Lines after quit must not run")
	}
}

func TestQuit(t *testing.T) {
	for line, want := range map[string]bool{
		"quit":     true,
		"  exit  ": true,
		"q":        true,
		"step()":   false,
		"":         false,
	} {
		if got := quit(line); got != want {
			t.Errorf("quit(%q) = %v, want %v", line, got, want)
		}
	}
}
