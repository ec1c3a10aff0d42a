package param

import (
	"fmt"
	"html"
	"io"
	"strconv"
	"strings"
)

// Number is a numeric parameter stored as text, so its persisted form is
// readable by external tools.
type Number struct {
	Parameter

	Placeholder string
	// Min and Max bound accepted values when non-nil.
	Min, Max *float64
	// Step is rendered as the input's step attribute when non-empty.
	Step       string
	CustomHTML string
}

// NewNumber creates a numeric parameter occupying size bytes.
func NewNumber(id, label string, size int, defaultValue string) *Number {
	return &Number{
		Parameter: newParameter(id, label, size, textBytes(defaultValue, size)),
	}
}

// Bounds is a convenience for setting Min and Max together.
func (n *Number) Bounds(lo, hi float64) *Number {
	n.Min, n.Max = &lo, &hi
	return n
}

// Float returns the parsed value, or 0 when the buffer does not hold a number.
func (n *Number) Float() float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(n.Value()), 64)
	if err != nil {
		return 0
	}
	return f
}

// Int returns the value truncated to an integer.
func (n *Number) Int() int {
	return int(n.Float())
}

func (n *Number) attributes() string {
	var parts []string
	if n.Min != nil {
		parts = append(parts, "min='"+strconv.FormatFloat(*n.Min, 'f', -1, 64)+"'")
	}
	if n.Max != nil {
		parts = append(parts, "max='"+strconv.FormatFloat(*n.Max, 'f', -1, 64)+"'")
	}
	if n.Step != "" {
		parts = append(parts, "step='"+html.EscapeString(n.Step)+"'")
	}
	if n.CustomHTML != "" {
		parts = append(parts, n.CustomHTML)
	}
	return strings.Join(parts, " ")
}

func (n *Number) Render(w io.Writer, hasSubmittedData bool) error {
	if !n.visible {
		return nil
	}
	return renderField(w, InputTemplate, fieldArgs{
		id:           n.id,
		label:        n.label,
		inputType:    "number",
		placeholder:  n.Placeholder,
		value:        html.EscapeString(n.Value()),
		custom:       n.attributes(),
		errorMessage: n.errorMessage,
		length:       n.maxLength(),
	}, hasSubmittedData)
}

// Update parses the submitted value. Unparseable input keeps the previous
// value and flags the item; out-of-range input is stored and flagged.
func (n *Number) Update(form Form) {
	if !n.visible || !form.Has(n.id) {
		return
	}
	raw := strings.TrimSpace(form.Get(n.id))
	if raw == "" {
		n.SetValue("")
		return
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		n.errorMessage = "Not a number."
		return
	}
	if len(raw) > n.maxLength() {
		n.errorMessage = fmt.Sprintf("Value is too long (max %d characters).", n.maxLength())
		return
	}
	n.SetValue(raw)
	if n.Min != nil && f < *n.Min {
		n.errorMessage = fmt.Sprintf("Value must be at least %s.", strconv.FormatFloat(*n.Min, 'f', -1, 64))
	} else if n.Max != nil && f > *n.Max {
		n.errorMessage = fmt.Sprintf("Value must be at most %s.", strconv.FormatFloat(*n.Max, 'f', -1, 64))
	}
}
