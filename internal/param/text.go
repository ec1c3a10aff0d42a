package param

import (
	"fmt"
	"html"
	"io"
)

// Text is a free-form string parameter. Its buffer holds at most size-1
// bytes of text followed by a NUL terminator.
type Text struct {
	Parameter

	// Placeholder is shown in the empty input.
	Placeholder string
	// CustomHTML is appended verbatim to the input element's attributes.
	CustomHTML string
	// Template overrides InputTemplate when set.
	Template string

	inputType string
}

// NewText creates a text parameter occupying size bytes.
func NewText(id, label string, size int, defaultValue string) *Text {
	return &Text{
		Parameter: newParameter(id, label, size, textBytes(defaultValue, size)),
		inputType: "text",
	}
}

func (t *Text) Render(w io.Writer, hasSubmittedData bool) error {
	if !t.visible {
		return nil
	}
	tmpl := t.Template
	if tmpl == "" {
		tmpl = InputTemplate
	}
	return renderField(w, tmpl, fieldArgs{
		id:           t.id,
		label:        t.label,
		inputType:    t.inputType,
		placeholder:  t.Placeholder,
		value:        html.EscapeString(t.Value()),
		custom:       t.CustomHTML,
		errorMessage: t.errorMessage,
		length:       t.maxLength(),
	}, hasSubmittedData)
}

// Update copies the submitted value. A field missing from the form leaves
// the value untouched.
func (t *Text) Update(form Form) {
	if !t.visible || !form.Has(t.id) {
		return
	}
	t.SetValue(form.Get(t.id))
}

// Password is a text parameter whose stored value is never sent back to the
// browser. An empty submission leaves the stored secret unchanged.
type Password struct {
	Parameter

	Placeholder string
	CustomHTML  string
	Template    string

	// MinLength rejects shorter non-empty submissions without touching the
	// stored value and flags the item. Zero disables the check.
	MinLength int
}

// NewPassword creates a password parameter occupying size bytes.
func NewPassword(id, label string, size int, defaultValue string) *Password {
	return &Password{
		Parameter: newParameter(id, label, size, textBytes(defaultValue, size)),
	}
}

func (p *Password) IsSecret() bool { return true }

func (p *Password) Render(w io.Writer, hasSubmittedData bool) error {
	if !p.visible {
		return nil
	}
	tmpl := p.Template
	if tmpl == "" {
		tmpl = PasswordTemplate
	}
	return renderField(w, tmpl, fieldArgs{
		id:           p.id,
		label:        p.label,
		placeholder:  p.Placeholder,
		custom:       p.CustomHTML,
		errorMessage: p.errorMessage,
		length:       p.maxLength(),
	}, hasSubmittedData)
}

func (p *Password) Update(form Form) {
	if !p.visible {
		return
	}
	v := form.Get(p.id)
	if v == "" {
		return
	}
	if len(v) < p.MinLength {
		p.errorMessage = fmt.Sprintf("Password length must be at least %d characters.", p.MinLength)
		return
	}
	p.SetValue(v)
}
