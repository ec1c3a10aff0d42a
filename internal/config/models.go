package config

import (
	"fmt"
	"strings"

	"github.com/Mingyu-Kim/IotWebConfLite/internal/storage"
)

// CurrentVersion is the config file format version.
const CurrentVersion = 1

// Parameter types accepted in ParameterSpec.Type.
const (
	TypeText     = "text"
	TypePassword = "password"
	TypeNumber   = "number"
	TypeCheckbox = "checkbox"
	TypeSelect   = "select"
)

// Default sizes used when a spec omits length.
const (
	DefaultTextLength   = 33
	DefaultNumberLength = 8
	maxParameterLength  = 1024
)

// Config is the device description: identity, listener, storage and the
// custom parameter tree.
type Config struct {
	Version           int    `yaml:"version"`
	ThingName         string `yaml:"thing_name"`
	InitialAPPassword string `yaml:"initial_ap_password"`
	// ConfigVersion tags the persisted layout. Bump it when groups change.
	ConfigVersion string `yaml:"config_version"`
	// UpdatePath adds a firmware update link under the form.
	UpdatePath string          `yaml:"update_path,omitempty"`
	Listen     ListenConfig    `yaml:"listen"`
	Storage    StorageConfig   `yaml:"storage"`
	MDNS       MDNSConfig      `yaml:"mdns"`
	Groups     []GroupSpec     `yaml:"groups,omitempty"`
	Hidden     []ParameterSpec `yaml:"hidden,omitempty"`
}

// ListenConfig is the HTTP listener address.
type ListenConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// Addr returns host:port.
func (l ListenConfig) Addr() string {
	return fmt.Sprintf("%s:%d", l.Host, l.Port)
}

// StorageConfig selects the persistence backend.
type StorageConfig struct {
	Backend       string `yaml:"backend"`                  // memory, file or badger
	Path          string `yaml:"path,omitempty"`           // Image file or database directory
	Key           string `yaml:"key,omitempty"`            // Badger key
	Offset        int    `yaml:"offset,omitempty"`         // Start of the config region
	VersionLength int    `yaml:"version_length,omitempty"` // Tag size, default 4
}

// Options converts the config into storage.Open options.
func (s StorageConfig) Options() storage.Options {
	return storage.Options{Backend: s.Backend, Path: s.Path, Key: s.Key}
}

// MDNSConfig controls the zeroconf announcement.
type MDNSConfig struct {
	Enabled bool `yaml:"enabled"`
}

// GroupSpec is one custom parameter group.
type GroupSpec struct {
	ID         string          `yaml:"id"`
	Label      string          `yaml:"label"`
	Parameters []ParameterSpec `yaml:"parameters"`
}

// ParameterSpec declares one parameter.
type ParameterSpec struct {
	Type        string       `yaml:"type"`
	ID          string       `yaml:"id"`
	Label       string       `yaml:"label"`
	Length      int          `yaml:"length,omitempty"`
	Default     string       `yaml:"default,omitempty"`
	Placeholder string       `yaml:"placeholder,omitempty"`
	Visible     *bool        `yaml:"visible,omitempty"`
	Min         *float64     `yaml:"min,omitempty"`
	Max         *float64     `yaml:"max,omitempty"`
	Step        string       `yaml:"step,omitempty"`
	Options     []OptionSpec `yaml:"options,omitempty"`
}

// OptionSpec is one choice of a select parameter.
type OptionSpec struct {
	Value string `yaml:"value"`
	Label string `yaml:"label"`
}

// Default returns a config that serves the system parameters only, with the
// image stored next to the config file.
func Default() *Config {
	return &Config{
		Version:           CurrentVersion,
		ThingName:         "iotwebconf",
		InitialAPPassword: "smrtTHNG8266",
		ConfigVersion:     "init",
		Listen:            ListenConfig{Host: "0.0.0.0", Port: 8080},
		Storage:           StorageConfig{Backend: storage.BackendFile},
		MDNS:              MDNSConfig{Enabled: true},
	}
}

// length returns the storage size of the spec.
func (p ParameterSpec) length() int {
	switch {
	case p.Type == TypeCheckbox:
		return 1
	case p.Length > 0:
		return p.Length
	case p.Type == TypeNumber:
		return DefaultNumberLength
	default:
		return DefaultTextLength
	}
}

func (p ParameterSpec) validate() error {
	if p.ID == "" {
		return fmt.Errorf("parameter without id")
	}
	if strings.ContainsAny(p.ID, " \t\n'\"<>&") {
		return fmt.Errorf("parameter %q: id contains invalid characters", p.ID)
	}
	if strings.HasPrefix(p.ID, "iwc") {
		return fmt.Errorf("parameter %q: ids starting with iwc are reserved", p.ID)
	}
	if p.Length < 0 || p.Length > maxParameterLength {
		return fmt.Errorf("parameter %q: length %d out of range", p.ID, p.Length)
	}

	switch p.Type {
	case TypeText, TypePassword, TypeCheckbox:
	case TypeNumber:
		if p.Min != nil && p.Max != nil && *p.Min > *p.Max {
			return fmt.Errorf("parameter %q: min greater than max", p.ID)
		}
	case TypeSelect:
		if len(p.Options) == 0 {
			return fmt.Errorf("parameter %q: select needs options", p.ID)
		}
		found := p.Default == ""
		for _, o := range p.Options {
			if len(o.Value) >= p.length() {
				return fmt.Errorf("parameter %q: option %q does not fit in %d bytes", p.ID, o.Value, p.length())
			}
			if o.Value == p.Default {
				found = true
			}
		}
		if !found {
			return fmt.Errorf("parameter %q: default %q is not an option", p.ID, p.Default)
		}
	default:
		return fmt.Errorf("parameter %q: unknown type %q", p.ID, p.Type)
	}
	return nil
}

// Validate checks the config for values the portal cannot run with.
func (c *Config) Validate() error {
	if c.Version != CurrentVersion {
		return fmt.Errorf("unsupported config version: %d (expected %d)", c.Version, CurrentVersion)
	}
	if len(c.ThingName) < 3 {
		return fmt.Errorf("thing_name must be at least 3 characters")
	}
	if len(c.InitialAPPassword) < 8 {
		return fmt.Errorf("initial_ap_password must be at least 8 characters")
	}
	versionLength := c.Storage.VersionLength
	if versionLength == 0 {
		versionLength = 4
	}
	if c.ConfigVersion == "" || len(c.ConfigVersion) > versionLength {
		return fmt.Errorf("config_version must be 1 to %d bytes", versionLength)
	}
	if c.Listen.Port < 0 || c.Listen.Port > 65535 {
		return fmt.Errorf("listen port %d out of range", c.Listen.Port)
	}
	switch c.Storage.Backend {
	case storage.BackendMemory, storage.BackendFile, storage.BackendBadger:
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}
	if c.Storage.Offset < 0 {
		return fmt.Errorf("storage offset must not be negative")
	}

	seen := make(map[string]bool)
	check := func(p ParameterSpec) error {
		if err := p.validate(); err != nil {
			return err
		}
		if seen[p.ID] {
			return fmt.Errorf("duplicate parameter id %q", p.ID)
		}
		seen[p.ID] = true
		return nil
	}
	for _, g := range c.Groups {
		if g.ID == "" {
			return fmt.Errorf("group without id")
		}
		if seen[g.ID] {
			return fmt.Errorf("duplicate id %q", g.ID)
		}
		seen[g.ID] = true
		for _, p := range g.Parameters {
			if err := check(p); err != nil {
				return fmt.Errorf("group %q: %w", g.ID, err)
			}
		}
	}
	for _, p := range c.Hidden {
		if err := check(p); err != nil {
			return fmt.Errorf("hidden: %w", err)
		}
	}
	return nil
}
