package param

import (
	"html"
	"io"
	"strconv"
	"strings"
)

// Field templates. Placeholders: {s} error class, {i} id, {b} label,
// {t} input type, {l} length attribute, {p} placeholder, {v} value,
// {c} custom attributes, {e} error message.
const (
	InputTemplate = "<div class='{s}'><label for='{i}'>{b}</label>" +
		"<input type='{t}' id='{i}' name='{i}' {l} placeholder='{p}' value='{v}' {c}/>" +
		"<div class='em'>{e}</div></div>\n"

	PasswordTemplate = "<div class='{s}'><label for='{i}'>{b}</label>" +
		"<input type='password' id='{i}' name='{i}' {l} placeholder='{p}' value='' {c}/>" +
		"<span onclick=\"pw('{i}')\" style='cursor:pointer'>&#128065;</span>" +
		"<div class='em'>{e}</div></div>\n"

	CheckboxTemplate = "<div class='{s}'><label for='{i}'>{b}</label>" +
		"<input type='checkbox' id='{i}' name='{i}' value='selected' {v} {c}/>" +
		"<div class='em'>{e}</div></div>\n"

	SelectTemplate = "<div class='{s}'><label for='{i}'>{b}</label>" +
		"<select id='{i}' name='{i}' {c}>{o}</select>" +
		"<div class='em'>{e}</div></div>\n"

	OptionTemplate = "<option value='{v}'{s}>{n}</option>"

	GroupStartTemplate = "<fieldset id='{i}'><legend>{b}</legend>\n"
	GroupEndTemplate   = "</fieldset>\n"
)

// fieldArgs collects the placeholder values of a field template.
type fieldArgs struct {
	id, label, inputType, placeholder, value, custom, errorMessage string
	length                                                       int
	options                                                      string
}

func renderField(w io.Writer, tmpl string, a fieldArgs, hasSubmittedData bool) error {
	errorClass, errorMessage := "", ""
	if hasSubmittedData && a.errorMessage != "" {
		errorClass = "de"
		errorMessage = html.EscapeString(a.errorMessage)
	}
	lengthAttr := ""
	if a.length > 0 {
		lengthAttr = "maxlength=" + strconv.Itoa(a.length)
	}
	r := strings.NewReplacer(
		"{s}", errorClass,
		"{i}", html.EscapeString(a.id),
		"{b}", html.EscapeString(a.label),
		"{t}", a.inputType,
		"{l}", lengthAttr,
		"{p}", html.EscapeString(a.placeholder),
		"{v}", a.value,
		"{c}", a.custom,
		"{o}", a.options,
		"{e}", errorMessage,
	)
	_, err := r.WriteString(w, tmpl)
	return err
}
