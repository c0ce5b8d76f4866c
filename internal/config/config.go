package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/PixPMusic/gopher-flexi/internal/binding"
	"github.com/PixPMusic/gopher-flexi/internal/midi"
	"github.com/PixPMusic/gopher-flexi/internal/surface"
	"github.com/google/uuid"
)

// DeviceConfig holds configuration for a single MIDI controller
type DeviceConfig struct {
	ID      string       `json:"id" yaml:"id" toml:"id"`
	Name    string       `json:"name" yaml:"name" toml:"name"`
	InPort  string       `json:"in_port" yaml:"in_port" toml:"in_port"`
	OutPort string       `json:"out_port" yaml:"out_port" toml:"out_port"`
	Type    surface.Type `json:"type" yaml:"type" toml:"type"`
}

// NewDeviceConfig creates a new device config with a generated ID
func NewDeviceConfig() DeviceConfig {
	return DeviceConfig{
		ID:   uuid.New().String(),
		Name: "New Device",
		Type: surface.TypeGeneric,
	}
}

// BindingConfig is the persisted form of a binding
type BindingConfig struct {
	ID            string `json:"id" yaml:"id" toml:"id"`
	Name          string `json:"name,omitempty" yaml:"name,omitempty" toml:"name,omitempty"`
	MessageType   string `json:"message_type" yaml:"message_type" toml:"message_type"` // note, cc, pitchbend, program_change, aftertouch
	Channel       int    `json:"channel" yaml:"channel" toml:"channel"`                // 0-15, or -1 for any channel
	Number        int    `json:"number" yaml:"number" toml:"number"`                   // Note/CC number (0-127), or -1 for any
	ActionID      string `json:"action_id" yaml:"action_id" toml:"action_id"`
	ActionChannel int    `json:"action_channel" yaml:"action_channel" toml:"action_channel"`
	Encoding      string `json:"encoding,omitempty" yaml:"encoding,omitempty" toml:"encoding,omitempty"`
	Invert        bool   `json:"invert,omitempty" yaml:"invert,omitempty" toml:"invert,omitempty"`
	StepSize      int    `json:"step_size,omitempty" yaml:"step_size,omitempty" toml:"step_size,omitempty"`
	Feedback      bool   `json:"feedback,omitempty" yaml:"feedback,omitempty" toml:"feedback,omitempty"`
}

// Binding converts the record into a table binding
func (bc BindingConfig) Binding() (binding.Binding, error) {
	kind := midi.Kind(bc.MessageType)
	if !kind.Valid() {
		return binding.Binding{}, fmt.Errorf("binding %s: unknown message type %q", bc.ID, bc.MessageType)
	}
	enc, err := midi.ParseEncoding(bc.Encoding)
	if err != nil {
		return binding.Binding{}, fmt.Errorf("binding %s: %w", bc.ID, err)
	}

	id := bc.ID
	if id == "" {
		id = uuid.New().String()
	}
	return binding.Binding{
		ID:            id,
		Name:          bc.Name,
		Trigger:       midi.NewTrigger(kind, bc.Channel, bc.Number),
		ActionID:      bc.ActionID,
		ActionChannel: bc.ActionChannel,
		Encoding:      enc,
		Invert:        bc.Invert,
		StepSize:      bc.StepSize,
		Feedback:      bc.Feedback,
	}, nil
}

// FromBinding converts a table binding into its persisted form
func FromBinding(b binding.Binding) BindingConfig {
	return BindingConfig{
		ID:            b.ID,
		Name:          b.Name,
		MessageType:   string(b.Trigger.Kind),
		Channel:       b.Trigger.Channel,
		Number:        b.Trigger.Data1,
		ActionID:      b.ActionID,
		ActionChannel: b.ActionChannel,
		Encoding:      string(b.Encoding),
		Invert:        b.Invert,
		StepSize:      b.StepSize,
		Feedback:      b.Feedback,
	}
}

// Config holds application configuration
type Config struct {
	FirstLaunchCompleted bool            `json:"first_launch_completed" yaml:"first_launch_completed" toml:"first_launch_completed"`
	OpenAtStartup        bool            `json:"open_at_startup" yaml:"open_at_startup" toml:"open_at_startup"`
	LogLevel             string          `json:"log_level,omitempty" yaml:"log_level,omitempty" toml:"log_level,omitempty"`
	LearnTimeoutMs       int             `json:"learn_timeout_ms,omitempty" yaml:"learn_timeout_ms,omitempty" toml:"learn_timeout_ms,omitempty"`
	EchoWindowMs         int             `json:"echo_window_ms,omitempty" yaml:"echo_window_ms,omitempty" toml:"echo_window_ms,omitempty"`
	Devices              []DeviceConfig  `json:"devices" yaml:"devices" toml:"devices"`
	Bindings             []BindingConfig `json:"bindings" yaml:"bindings" toml:"bindings"`

	path string
}

// configDir returns the platform-appropriate config directory
func configDir() (string, error) {
	configHome, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configHome, "gopher-flexi"), nil
}

// ConfigPath returns the full path to the default config file
func ConfigPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Default returns the configuration used when no file exists yet
func Default() *Config {
	return &Config{
		LogLevel: "info",
		Devices:  []DeviceConfig{},
		Bindings: []BindingConfig{},
	}
}

// Load reads the config from the default location
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFile(path)
}

// LoadFile reads the config at path, returning defaults if it does not exist.
// The format follows the file extension.
func LoadFile(path string) (*Config, error) {
	c, err := codecFor(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		cfg := Default()
		cfg.path = path
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := c.unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	// Ensure slices are not nil
	if cfg.Devices == nil {
		cfg.Devices = []DeviceConfig{}
	}
	if cfg.Bindings == nil {
		cfg.Bindings = []BindingConfig{}
	}
	cfg.path = path
	return cfg, nil
}

// Path returns the file the config was loaded from
func (c *Config) Path() string {
	return c.path
}

// Save writes the config back to the file it was loaded from
func (c *Config) Save() error {
	if c.path == "" {
		path, err := ConfigPath()
		if err != nil {
			return err
		}
		c.path = path
	}
	return c.SaveFile(c.path)
}

// SaveFile writes the config to path in the format its extension names
func (c *Config) SaveFile(path string) error {
	cd, err := codecFor(path)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := cd.marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LearnTimeout returns the configured learn timeout, or zero for the default
func (c *Config) LearnTimeout() time.Duration {
	return time.Duration(c.LearnTimeoutMs) * time.Millisecond
}

// EchoWindow returns the configured echo window, or zero for the default
func (c *Config) EchoWindow() time.Duration {
	return time.Duration(c.EchoWindowMs) * time.Millisecond
}

// AddDevice adds a new device to the config
func (c *Config) AddDevice(device DeviceConfig) {
	c.Devices = append(c.Devices, device)
}

// RemoveDevice removes a device by ID
func (c *Config) RemoveDevice(id string) {
	for i, d := range c.Devices {
		if d.ID == id {
			c.Devices = append(c.Devices[:i], c.Devices[i+1:]...)
			return
		}
	}
}

// Capabilities merges the capabilities of every configured device. With no
// devices the generic profile applies.
func (c *Config) Capabilities() surface.Capabilities {
	if len(c.Devices) == 0 {
		return surface.Lookup(surface.TypeGeneric).Capabilities
	}
	caps := make([]surface.Capabilities, 0, len(c.Devices))
	for _, d := range c.Devices {
		caps = append(caps, surface.Lookup(d.Type).Capabilities)
	}
	return surface.Merge(caps...)
}

// BindingList converts the persisted bindings. Records that cannot be parsed
// are reported and skipped.
func (c *Config) BindingList() ([]binding.Binding, []error) {
	var out []binding.Binding
	var errs []error
	for _, bc := range c.Bindings {
		b, err := bc.Binding()
		if err != nil {
			errs = append(errs, err)
			continue
		}
		out = append(out, b)
	}
	return out, errs
}

// SetBindings replaces the persisted bindings
func (c *Config) SetBindings(bindings []binding.Binding) {
	c.Bindings = make([]BindingConfig, 0, len(bindings))
	for _, b := range bindings {
		c.Bindings = append(c.Bindings, FromBinding(b))
	}
}
