package ui

import (
	"strconv"

	"github.com/Mingyu-Kim/IotWebConfLite/internal/param"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

func newTable(width int, muted func(row int) bool) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(PrimaryColor)).
		Width(boxWidth(width)).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return TableHeaderStyle
			case muted != nil && muted(row):
				return TableMutedCellStyle
			default:
				return TableCellStyle
			}
		})
}

// LayoutRows formats storage slots as table rows. Offsets are shown as given.
func LayoutRows(slots []param.Slot) [][]string {
	rows := make([][]string, 0, len(slots))
	for _, s := range slots {
		rows = append(rows, []string{
			s.ID,
			strconv.Itoa(s.Offset),
			strconv.Itoa(s.Size),
			strconv.Itoa(s.Offset + s.Size),
		})
	}
	return rows
}

// RenderLayoutTable renders where each parameter lives in the storage image.
func RenderLayoutTable(slots []param.Slot, width int) string {
	return newTable(width, nil).
		Headers("PARAMETER", "OFFSET", "SIZE", "END").
		Rows(LayoutRows(slots)...).
		Render()
}

// EntryRows formats parameter values as table rows. Secrets are masked
// unless showSecrets is set.
func EntryRows(entries []param.Entry, showSecrets bool) [][]string {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		value := e.Value
		if e.Secret && !showSecrets && value != "" {
			value = SecretMask
		}
		visible := "yes"
		if !e.Visible {
			visible = "no"
		}
		rows = append(rows, []string{e.ID, value, visible})
	}
	return rows
}

// RenderEntriesTable renders the current value of every parameter. Hidden
// parameters are shown muted.
func RenderEntriesTable(entries []param.Entry, showSecrets bool, width int) string {
	muted := func(row int) bool {
		return row >= 0 && row < len(entries) && !entries[row].Visible
	}
	return newTable(width, muted).
		Headers("PARAMETER", "VALUE", "VISIBLE").
		Rows(EntryRows(entries, showSecrets)...).
		Render()
}
