package param

import (
	"html"
	"io"
	"strings"
)

// Checkbox is a boolean parameter stored in a single byte.
type Checkbox struct {
	Parameter
	CustomHTML string
}

// NewCheckbox creates a checkbox parameter.
func NewCheckbox(id, label string, defaultValue bool) *Checkbox {
	def := []byte{0}
	if defaultValue {
		def[0] = 1
	}
	return &Checkbox{Parameter: newParameter(id, label, 1, def)}
}

func (c *Checkbox) Checked() bool { return c.value[0] != 0 }

func (c *Checkbox) SetChecked(checked bool) {
	if checked {
		c.value[0] = 1
	} else {
		c.value[0] = 0
	}
}

// Value reports "selected" or "" to match the submitted form value.
func (c *Checkbox) Value() string {
	if c.Checked() {
		return "selected"
	}
	return ""
}

func (c *Checkbox) Render(w io.Writer, hasSubmittedData bool) error {
	if !c.visible {
		return nil
	}
	checked := ""
	if c.Checked() {
		checked = "checked"
	}
	return renderField(w, CheckboxTemplate, fieldArgs{
		id:           c.id,
		label:        c.label,
		value:        checked,
		custom:       c.CustomHTML,
		errorMessage: c.errorMessage,
	}, hasSubmittedData)
}

// Update treats an absent field as unchecked; browsers omit unchecked boxes.
func (c *Checkbox) Update(form Form) {
	if !c.visible {
		return
	}
	c.SetChecked(form.Has(c.id))
}

// Option is one choice of a Select parameter.
type Option struct {
	Value string
	Label string
}

// Select is a choice among fixed options, stored as the option value text.
type Select struct {
	Parameter
	Options    []Option
	CustomHTML string
}

// NewSelect creates a select parameter occupying size bytes. Every option
// value must fit in size-1 bytes.
func NewSelect(id, label string, size int, options []Option, defaultValue string) *Select {
	return &Select{
		Parameter: newParameter(id, label, size, textBytes(defaultValue, size)),
		Options:   options,
	}
}

func (s *Select) has(value string) bool {
	for _, o := range s.Options {
		if o.Value == value {
			return true
		}
	}
	return false
}

func (s *Select) Render(w io.Writer, hasSubmittedData bool) error {
	if !s.visible {
		return nil
	}
	current := s.Value()
	var opts strings.Builder
	for _, o := range s.Options {
		selected := ""
		if o.Value == current {
			selected = " selected"
		}
		strings.NewReplacer(
			"{v}", html.EscapeString(o.Value),
			"{s}", selected,
			"{n}", html.EscapeString(o.Label),
		).WriteString(&opts, OptionTemplate)
	}
	return renderField(w, SelectTemplate, fieldArgs{
		id:           s.id,
		label:        s.label,
		custom:       s.CustomHTML,
		options:      opts.String(),
		errorMessage: s.errorMessage,
	}, hasSubmittedData)
}

// Update accepts only known option values.
func (s *Select) Update(form Form) {
	if !s.visible || !form.Has(s.id) {
		return
	}
	v := form.Get(s.id)
	if !s.has(v) {
		s.errorMessage = "Invalid option."
		return
	}
	s.SetValue(v)
}
