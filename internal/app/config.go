// Package app hosts the emulator: configuration, the step/frame driver loop
// and the frame snapshot channel.
package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultLoadAddress is where raw programs are placed unless configured
const DefaultLoadAddress = 0x0600

var (
	errOutOfRange  = errors.New("out of range")
	errNotPositive = errors.New("must be positive")
)

// Config holds all application configuration
type Config struct {
	Emulation EmulationConfig `json:"emulation"`
	Debug     DebugConfig     `json:"debug"`
	Viewer    ViewerConfig    `json:"viewer"`

	// Internal state
	configPath string
	loaded     bool
}

// EmulationConfig contains emulation-specific settings
type EmulationConfig struct {
	HaltOnIllegalWrite bool   `json:"halt_on_illegal_write"`
	LoadAddress        uint16 `json:"load_address"`
	MaxStepsPerFrame   int    `json:"max_steps_per_frame"` // guards a StepFrame that never reaches VBlank
	PageCrossPenalty   bool   `json:"page_cross_penalty"`
}

// DebugConfig contains debugging and development options
type DebugConfig struct {
	TraceUnofficial bool   `json:"trace_unofficial"`
	FrameQueue      int    `json:"frame_queue"` // capacity of the snapshot channel
	StatsView       bool   `json:"statsview"`
	StatsViewAddr   string `json:"statsview_addr"`
}

// ViewerConfig contains settings for the debug viewer window
type ViewerConfig struct {
	Scale int    `json:"scale"`
	Title string `json:"title"`
}

// NewConfig creates a new configuration with default values
func NewConfig() *Config {
	return &Config{
		Emulation: EmulationConfig{
			HaltOnIllegalWrite: false,
			LoadAddress:        DefaultLoadAddress,
			MaxStepsPerFrame:   100000,
			PageCrossPenalty:   true,
		},
		Debug: DebugConfig{
			TraceUnofficial: false,
			FrameQueue:      1,
			StatsView:       false,
			StatsViewAddr:   "localhost:18066",
		},
		Viewer: ViewerConfig{
			Scale: 2,
			Title: "nescore",
		},
	}
}

// LoadFromFile loads configuration from a JSON file. A missing file is
// created with the current values.
func (c *Config) LoadFromFile(path string) error {
	c.configPath = path

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return c.SaveToFile(path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := json.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := c.validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	c.loaded = true
	return nil
}

// SaveToFile saves configuration to a JSON file
func (c *Config) SaveToFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	c.configPath = path
	return nil
}

// validate rejects settings the emulator cannot run with and repairs
// cosmetic ones.
func (c *Config) validate() error {
	load := c.Emulation.LoadAddress
	if load >= 0x0800 && load < 0x8000 || load >= 0xFFFA {
		return &ConfigError{Field: "emulation.load_address", Value: fmt.Sprintf("$%04X", load), Err: errOutOfRange}
	}

	if c.Emulation.MaxStepsPerFrame <= 0 {
		return &ConfigError{Field: "emulation.max_steps_per_frame", Value: c.Emulation.MaxStepsPerFrame, Err: errNotPositive}
	}

	if c.Debug.FrameQueue < 0 {
		return &ConfigError{Field: "debug.frame_queue", Value: c.Debug.FrameQueue, Err: errOutOfRange}
	}

	if c.Viewer.Scale <= 0 {
		c.Viewer.Scale = 1
	}

	return nil
}

// IsLoaded returns whether the configuration was loaded from file
func (c *Config) IsLoaded() bool {
	return c.loaded
}

// GetConfigPath returns the path to the config file
func (c *Config) GetConfigPath() string {
	return c.configPath
}

// Clone creates a deep copy of the configuration
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// ConfigError represents configuration-related errors
type ConfigError struct {
	Field string
	Value interface{}
	Err   error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error in field '%s' with value '%v': %v", e.Field, e.Value, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}
