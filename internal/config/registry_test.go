package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestGetConfigDir(t *testing.T) {
	configDir, err := GetConfigDir()
	if err != nil {
		t.Fatalf("GetConfigDir() error = %v", err)
	}

	if !strings.Contains(configDir, "iotwebconf") {
		t.Errorf("GetConfigDir() = %v, should contain 'iotwebconf'", configDir)
	}

	switch runtime.GOOS {
	case "windows":
		if !strings.Contains(configDir, "AppData") && !strings.Contains(configDir, "Local") {
			t.Errorf("Windows config dir should contain 'AppData' or 'Local', got: %v", configDir)
		}
	case "darwin", "linux":
		if os.Getenv("XDG_CONFIG_HOME") == "" && !strings.Contains(configDir, ".config") {
			t.Errorf("Unix config dir should contain '.config', got: %v", configDir)
		}
	}
}

func TestGetConfigDirHonoursXDG(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("XDG_CONFIG_HOME only applies on Linux")
	}
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	got, err := GetConfigDir()
	if err != nil {
		t.Fatalf("GetConfigDir() error = %v", err)
	}
	if got != filepath.Join(dir, "iotwebconf") {
		t.Errorf("GetConfigDir() = %v, want under %v", got, dir)
	}
}

func TestGetConfigPath(t *testing.T) {
	configPath, err := GetConfigPath()
	if err != nil {
		t.Fatalf("GetConfigPath() error = %v", err)
	}
	if filepath.Base(configPath) != "config.yaml" {
		t.Errorf("GetConfigPath() should end with 'config.yaml', got: %v", configPath)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.ThingName != Default().ThingName {
		t.Errorf("ThingName = %q", cfg.ThingName)
	}
	if cfg.Storage.Path != filepath.Join(filepath.Dir(path), "eeprom.bin") {
		t.Errorf("Storage.Path = %q, want next to config", cfg.Storage.Path)
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	created, err := CreateDefaultConfig(path)
	if err != nil {
		t.Fatalf("CreateDefaultConfig() error = %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("config file not written: %v", err)
	}
	if runtime.GOOS != "windows" && info.Mode().Perm() != 0600 {
		t.Errorf("config permissions = %o, want 0600", info.Mode().Perm())
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temporary file should be removed after save")
	}

	data, _ := os.ReadFile(path)
	if !strings.HasPrefix(string(data), "# IotWebConf device configuration") {
		t.Error("saved file should start with the header comment")
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.ThingName != created.ThingName || loaded.ConfigVersion != "mqt1" {
		t.Errorf("loaded %q/%q", loaded.ThingName, loaded.ConfigVersion)
	}
	if len(loaded.Groups) != 2 || len(loaded.Groups[0].Parameters) != 4 {
		t.Fatalf("groups not round-tripped: %+v", loaded.Groups)
	}
	port := loaded.Groups[0].Parameters[1]
	if port.Min == nil || *port.Min != 1 || port.Max == nil || *port.Max != 65535 {
		t.Errorf("number bounds lost: %+v", port)
	}
}

func TestLoadParsesYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "device.yaml")
	content := `version: 1
thing_name: lamp
initial_ap_password: lamp-secret
config_version: l1
listen: {host: 127.0.0.1, port: 9000}
storage: {backend: badger, key: lamp/eeprom}
groups:
  - id: light
    label: Light
    parameters:
      - {type: number, id: brightness, label: Brightness, length: 4, default: "80", min: 0, max: 100}
      - {type: checkbox, id: dimmer, label: Dimmer}
hidden:
  - {type: text, id: lastScene, length: 16}
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Listen.Addr() != "127.0.0.1:9000" {
		t.Errorf("Listen.Addr() = %q", cfg.Listen.Addr())
	}
	if cfg.Storage.Path != filepath.Join(dir, "eeprom.db") || cfg.Storage.Key != "lamp/eeprom" {
		t.Errorf("Storage = %+v", cfg.Storage)
	}
	if !cfg.MDNS.Enabled {
		t.Error("mdns should stay enabled by default")
	}
	if opts := cfg.Storage.Options(); opts.Backend != "badger" || opts.Key != "lamp/eeprom" {
		t.Errorf("Options() = %+v", opts)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("version: 2\n"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load() should reject unsupported versions")
	}

	if err := os.WriteFile(path, []byte("version: [\n"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load() should reject malformed YAML")
	}
}
