package ui

import (
	"errors"
	"strings"
	"testing"

	"github.com/Mingyu-Kim/IotWebConfLite/internal/param"
)

func TestLayoutRows(t *testing.T) {
	rows := LayoutRows([]param.Slot{{ID: "a", Offset: 4, Size: 33}, {ID: "b", Offset: 37, Size: 1}})

	want := [][]string{{"a", "4", "33", "37"}, {"b", "37", "1", "38"}}
	if len(rows) != len(want) {
		t.Fatalf("LayoutRows() = %v", rows)
	}
	for i := range want {
		for j := range want[i] {
			if rows[i][j] != want[i][j] {
				t.Errorf("row %d col %d = %q, want %q", i, j, rows[i][j], want[i][j])
			}
		}
	}
}

func TestEntryRowsMasksSecrets(t *testing.T) {
	entries := []param.Entry{
		{ID: "name", Value: "mything", Visible: true},
		{ID: "pw", Value: "hunter22", Secret: true, Visible: true},
		{ID: "empty", Value: "", Secret: true, Visible: true},
		{ID: "boot", Value: "3", Visible: false},
	}

	tests := []struct {
		name        string
		showSecrets bool
		wantPW      string
	}{
		{"masked", false, SecretMask},
		{"shown", true, "hunter22"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows := EntryRows(entries, tt.showSecrets)
			if rows[1][1] != tt.wantPW {
				t.Errorf("password cell = %q, want %q", rows[1][1], tt.wantPW)
			}
			if rows[2][1] != "" {
				t.Errorf("empty secret should stay empty, got %q", rows[2][1])
			}
			if rows[3][2] != "no" || rows[0][2] != "yes" {
				t.Errorf("visibility column = %q / %q", rows[0][2], rows[3][2])
			}
		})
	}
}

func TestRenderTables(t *testing.T) {
	layout := RenderLayoutTable([]param.Slot{{ID: "iwcThingName", Offset: 4, Size: 33}}, 80)
	for _, want := range []string{"PARAMETER", "OFFSET", "iwcThingName", "33"} {
		if !strings.Contains(layout, want) {
			t.Errorf("layout table missing %q:\n%s", want, layout)
		}
	}

	dump := RenderEntriesTable([]param.Entry{{ID: "pw", Value: "hunter22", Secret: true, Visible: true}}, false, 80)
	if strings.Contains(dump, "hunter22") {
		t.Errorf("secret leaked into dump:\n%s", dump)
	}
}

func TestHeaderRender(t *testing.T) {
	out := NewHeader("Parameter layout", "iotwebconf layout", map[string]string{
		"Version": "mqt1",
		"Storage": "eeprom.bin",
	}).SetWidth(80).Render()

	if !strings.Contains(out, "PARAMETER LAYOUT") {
		t.Errorf("title not upper-cased:\n%s", out)
	}
	if strings.Index(out, "Storage") > strings.Index(out, "Version") {
		t.Errorf("params not sorted:\n%s", out)
	}
}

func TestResultRender(t *testing.T) {
	out := NewFailureResult("Save failed", errors.New("disk full"), []string{"free some space"}).SetWidth(80).Render()
	for _, want := range []string{"FAILED", "Save failed", "disk full", "free some space"} {
		if !strings.Contains(out, want) {
			t.Errorf("failure box missing %q:\n%s", want, out)
		}
	}

	out = NewSuccessResult("Saved", nil).AddDetail("Thing name", "mything").SetWidth(80).Render()
	if !strings.Contains(out, "mything") || !strings.Contains(out, "SUCCESS") {
		t.Errorf("success box:\n%s", out)
	}
}

func TestReadLine(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"yes\n", "yes"},
		{"secret\r\n", "secret"},
		{"no newline", "no newline"},
	}
	for _, tt := range tests {
		got, err := readLine(strings.NewReader(tt.in))
		if err != nil || got != tt.want {
			t.Errorf("readLine(%q) = %q, %v", tt.in, got, err)
		}
	}
	if _, err := readLine(strings.NewReader("")); err == nil {
		t.Error("empty input should fail")
	}
}
