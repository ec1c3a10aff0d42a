package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/Mingyu-Kim/IotWebConfLite/internal/storage"
	"gopkg.in/yaml.v3"
)

const (
	appName          = "iotwebconf"
	configFile       = "config.yaml"
	defaultImageFile = "eeprom.bin"
	defaultBadgerDir = "eeprom.db"
)

// Mutex for thread-safe file operations
var fileMutex sync.Mutex

// GetConfigDir returns the OS-appropriate configuration directory for the application.
// This follows platform conventions:
//   - Linux: $XDG_CONFIG_HOME/iotwebconf or $HOME/.config/iotwebconf
//   - macOS: $HOME/.config/iotwebconf (following XDG convention on macOS)
//   - Windows: %LOCALAPPDATA%\iotwebconf
func GetConfigDir() (string, error) {
	var baseDir string

	switch runtime.GOOS {
	case "windows":
		localAppData := os.Getenv("LOCALAPPDATA")
		if localAppData == "" {
			userProfile := os.Getenv("USERPROFILE")
			if userProfile == "" {
				return "", fmt.Errorf("cannot determine user profile directory (LOCALAPPDATA and USERPROFILE not set)")
			}
			baseDir = filepath.Join(userProfile, "AppData", "Local", appName)
		} else {
			baseDir = filepath.Join(localAppData, appName)
		}

	case "darwin":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot determine home directory: %w", err)
		}
		baseDir = filepath.Join(homeDir, ".config", appName)

	default:
		xdgConfigHome := os.Getenv("XDG_CONFIG_HOME")
		if xdgConfigHome != "" {
			baseDir = filepath.Join(xdgConfigHome, appName)
		} else {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("cannot determine home directory: %w", err)
			}
			baseDir = filepath.Join(homeDir, ".config", appName)
		}
	}

	return baseDir, nil
}

// GetConfigPath returns the full path to the default configuration file.
func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, configFile), nil
}

// resolvePath returns path, or the default config path when empty.
func resolvePath(path string) (string, error) {
	if path != "" {
		return path, nil
	}
	return GetConfigPath()
}

// Load reads the config file at path (the default location when empty).
// A missing file yields Default(). Relative storage paths are resolved
// against the config file's directory.
func Load(path string) (*Config, error) {
	configPath, err := resolvePath(path)
	if err != nil {
		return nil, fmt.Errorf("failed to get config path: %w", err)
	}

	cfg := Default()
	data, err := os.ReadFile(configPath)
	switch {
	case os.IsNotExist(err):
		// Defaults only
	case err != nil:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if cfg.Storage.Path == "" && cfg.Storage.Backend != storage.BackendMemory {
		cfg.Storage.Path = defaultImageFile
		if cfg.Storage.Backend == storage.BackendBadger {
			cfg.Storage.Path = defaultBadgerDir
		}
	}
	if !filepath.IsAbs(cfg.Storage.Path) && cfg.Storage.Path != "" {
		cfg.Storage.Path = filepath.Join(filepath.Dir(configPath), cfg.Storage.Path)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", configPath, err)
	}
	return cfg, nil
}

// Save writes the config to path (the default location when empty).
// Performs an atomic write to prevent corruption on crash.
func (c *Config) Save(path string) error {
	fileMutex.Lock()
	defer fileMutex.Unlock()

	configPath, err := resolvePath(path)
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(configPath), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte(`# IotWebConf device configuration
# Describes the device identity, the listener, where the persisted
# parameter image lives and the custom parameter groups.
#
# Changing groups or parameter lengths changes the persisted layout:
# bump config_version at the same time, or stored values are misread.
#
# Location: ` + configPath + `

`)
	data = append(header, data...)

	// Write to temporary file first (atomic write)
	tmpPath := configPath + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write temporary config file: %w", err)
	}
	if err := os.Rename(tmpPath, configPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to save config file: %w", err)
	}
	return nil
}

// CreateDefaultConfig writes a config with an example MQTT group to path.
func CreateDefaultConfig(path string) (*Config, error) {
	cfg := Default()
	cfg.ThingName = "mything"
	cfg.ConfigVersion = "mqt1"
	minPort, maxPort := 1.0, 65535.0
	cfg.Groups = []GroupSpec{
		{
			ID:    "mqtt",
			Label: "MQTT",
			Parameters: []ParameterSpec{
				{Type: TypeText, ID: "mqttServer", Label: "MQTT server", Length: 64, Placeholder: "broker.local"},
				{Type: TypeNumber, ID: "mqttPort", Label: "MQTT port", Length: 6, Default: "1883", Min: &minPort, Max: &maxPort},
				{Type: TypeText, ID: "mqttUser", Label: "MQTT user", Length: 32},
				{Type: TypePassword, ID: "mqttPassword", Label: "MQTT password", Length: 32},
			},
		},
		{
			ID:    "device",
			Label: "Device",
			Parameters: []ParameterSpec{
				{Type: TypeCheckbox, ID: "ledEnabled", Label: "Status LED", Default: "true"},
				{Type: TypeSelect, ID: "units", Label: "Units", Length: 8, Default: "metric", Options: []OptionSpec{
					{Value: "metric", Label: "Metric"},
					{Value: "imperial", Label: "Imperial"},
				}},
			},
		},
	}
	cfg.Hidden = []ParameterSpec{
		{Type: TypeNumber, ID: "bootCount", Label: "Boot count", Length: 8, Default: "0"},
	}

	if err := cfg.Save(path); err != nil {
		return nil, err
	}
	return cfg, nil
}
