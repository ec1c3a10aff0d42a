package param

import (
	"bytes"
	"unicode/utf8"
)

// Parameter is the base of every leaf item. It owns a fixed-capacity value
// buffer whose length is the item's storage size.
type Parameter struct {
	id           string
	label        string
	value        []byte
	defaultValue []byte
	visible      bool
	errorMessage string
}

func newParameter(id, label string, size int, defaultValue []byte) Parameter {
	if size < 0 {
		size = 0
	}
	def := make([]byte, size)
	copy(def, defaultValue)
	return Parameter{
		id:           id,
		label:        label,
		value:        make([]byte, size),
		defaultValue: def,
		visible:      true,
	}
}

// textBytes encodes s as a NUL-terminated string of at most size bytes.
func textBytes(s string, size int) []byte {
	b := make([]byte, size)
	if size == 0 {
		return b
	}
	copy(b, truncate(s, size-1))
	return b
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

func (p *Parameter) ID() string    { return p.id }
func (p *Parameter) Label() string { return p.label }
func (p *Parameter) Visible() bool { return p.visible }

// SetVisible hides or shows the parameter on the portal. Hidden parameters
// are still persisted.
func (p *Parameter) SetVisible(visible bool) { p.visible = visible }

func (p *Parameter) StorageSize() int { return len(p.value) }

func (p *Parameter) ApplyDefault() { copy(p.value, p.defaultValue) }

// SetDefault replaces the default value. Only call it during setup.
func (p *Parameter) SetDefault(value string) {
	p.defaultValue = textBytes(value, len(p.value))
}

func (p *Parameter) Load(src []byte) (int, error) {
	if len(src) < len(p.value) {
		return 0, &LayoutError{ID: p.id, Declared: len(p.value), Actual: len(src), Short: true}
	}
	return copy(p.value, src[:len(p.value)]), nil
}

func (p *Parameter) Store(dst []byte) (int, error) {
	if len(dst) < len(p.value) {
		return 0, &LayoutError{ID: p.id, Declared: len(p.value), Actual: len(dst), Short: true}
	}
	return copy(dst, p.value), nil
}

func (p *Parameter) ClearError()              { p.errorMessage = "" }
func (p *Parameter) HasError() bool           { return p.errorMessage != "" }
func (p *Parameter) ErrorMessage() string     { return p.errorMessage }
func (p *Parameter) SetErrorMessage(m string) { p.errorMessage = m }

// Value returns the buffer as text, up to the first NUL byte.
func (p *Parameter) Value() string {
	if i := bytes.IndexByte(p.value, 0); i >= 0 {
		return string(p.value[:i])
	}
	return string(p.value)
}

// SetValue stores s as NUL-terminated text, truncated to fit the buffer.
func (p *Parameter) SetValue(s string) {
	copy(p.value, textBytes(s, len(p.value)))
}

// Bytes returns a copy of the raw value buffer.
func (p *Parameter) Bytes() []byte {
	return bytes.Clone(p.value)
}

// maxLength is the number of characters a text buffer can hold.
func (p *Parameter) maxLength() int {
	if len(p.value) == 0 {
		return 0
	}
	return len(p.value) - 1
}
