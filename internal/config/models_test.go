package config

import (
	"strings"
	"testing"

	"github.com/Mingyu-Kim/IotWebConfLite/internal/param"
)

func TestValidate(t *testing.T) {
	lo, hi := 10.0, 1.0
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"default is valid", func(*Config) {}, ""},
		{"short thing name", func(c *Config) { c.ThingName = "ab" }, "thing_name"},
		{"short AP password", func(c *Config) { c.InitialAPPassword = "1234567" }, "initial_ap_password"},
		{"long config version", func(c *Config) { c.ConfigVersion = "toolong" }, "config_version"},
		{"long version fits longer tag", func(c *Config) {
			c.ConfigVersion = "toolong"
			c.Storage.VersionLength = 8
		}, ""},
		{"bad backend", func(c *Config) { c.Storage.Backend = "tape" }, "backend"},
		{"bad port", func(c *Config) { c.Listen.Port = 70000 }, "port"},
		{"reserved id", func(c *Config) {
			c.Groups = []GroupSpec{{ID: "g", Parameters: []ParameterSpec{{Type: TypeText, ID: "iwcThingName"}}}}
		}, "reserved"},
		{"duplicate id", func(c *Config) {
			c.Groups = []GroupSpec{{ID: "g", Parameters: []ParameterSpec{{Type: TypeText, ID: "a"}}}}
			c.Hidden = []ParameterSpec{{Type: TypeText, ID: "a"}}
		}, "duplicate"},
		{"unknown type", func(c *Config) {
			c.Hidden = []ParameterSpec{{Type: "slider", ID: "s"}}
		}, "unknown type"},
		{"select without options", func(c *Config) {
			c.Hidden = []ParameterSpec{{Type: TypeSelect, ID: "s"}}
		}, "options"},
		{"select default not an option", func(c *Config) {
			c.Hidden = []ParameterSpec{{Type: TypeSelect, ID: "s", Default: "c", Options: []OptionSpec{{Value: "a"}}}}
		}, "not an option"},
		{"number min above max", func(c *Config) {
			c.Hidden = []ParameterSpec{{Type: TypeNumber, ID: "n", Min: &lo, Max: &hi}}
		}, "min greater"},
		{"id with quote", func(c *Config) {
			c.Hidden = []ParameterSpec{{Type: TypeText, ID: "a'b"}}
		}, "invalid characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestBuildGroups(t *testing.T) {
	hidden := false
	lo, hi := 0.0, 100.0
	cfg := Default()
	cfg.Groups = []GroupSpec{{
		ID:    "light",
		Label: "Light",
		Parameters: []ParameterSpec{
			{Type: TypeText, ID: "name", Default: "lamp"},
			{Type: TypePassword, ID: "token", Length: 16},
			{Type: TypeNumber, ID: "level", Default: "50", Min: &lo, Max: &hi, Step: "5"},
			{Type: TypeCheckbox, ID: "on", Default: "true"},
			{Type: TypeSelect, ID: "mode", Length: 6, Options: []OptionSpec{{"warm", "Warm"}, {"cold", "Cold"}}},
			{Type: TypeText, ID: "secretNote", Visible: &hidden},
		},
	}}

	groups, err := cfg.BuildGroups()
	if err != nil {
		t.Fatalf("BuildGroups() error = %v", err)
	}
	if len(groups) != 1 {
		t.Fatalf("groups = %d", len(groups))
	}
	g := groups[0]
	g.ApplyDefault()

	want := DefaultTextLength + 16 + DefaultNumberLength + 1 + 6 + DefaultTextLength
	if g.StorageSize() != want {
		t.Errorf("StorageSize() = %d, want %d", g.StorageSize(), want)
	}

	if name := param.Find(g, "name").(*param.Text); name.Value() != "lamp" || name.Label() != "name" {
		t.Errorf("name = %q label %q", name.Value(), name.Label())
	}
	if level := param.Find(g, "level").(*param.Number); level.Int() != 50 || level.Step != "5" {
		t.Errorf("level = %d step %q", level.Int(), level.Step)
	}
	if on := param.Find(g, "on").(*param.Checkbox); !on.Checked() {
		t.Error("checkbox default not applied")
	}
	if mode := param.Find(g, "mode").(*param.Select); mode.Value() != "warm" {
		t.Errorf("select should default to the first option, got %q", mode.Value())
	}
	if param.Find(g, "secretNote").Visible() {
		t.Error("visible: false not applied")
	}
	if _, ok := param.Find(g, "token").(param.Secret); !ok {
		t.Error("password should be a secret")
	}
}

func TestBuildHidden(t *testing.T) {
	cfg := Default()
	cfg.Hidden = []ParameterSpec{{Type: TypeNumber, ID: "bootCount", Default: "0"}}

	items, err := cfg.BuildHidden()
	if err != nil {
		t.Fatalf("BuildHidden() error = %v", err)
	}
	if len(items) != 1 || items[0].ID() != "bootCount" {
		t.Errorf("BuildHidden() = %v", items)
	}

	cfg.Hidden = []ParameterSpec{{Type: "nope", ID: "x"}}
	if _, err := cfg.BuildHidden(); err == nil {
		t.Error("BuildHidden() should fail for unknown types")
	}
}
