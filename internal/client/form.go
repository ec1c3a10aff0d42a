package client

import (
	"io"
	"net/url"
	"strconv"
	"strings"

	"github.com/Mingyu-Kim/IotWebConfLite/internal/portal"
	"golang.org/x/net/html"
)

// Field is one control found on the config page.
type Field struct {
	ID      string
	Label   string
	Type    string // text, password, number, checkbox, select
	Value   string
	Checked bool
	Options []string
	Error   string
}

// Form is the parsed config page.
type Form struct {
	Fields []Field
	// ConfigVersion is the version shown in the page footer, if any.
	ConfigVersion string
	// Saved is true when the page is the confirmation shown after a successful save.
	Saved bool
}

// Field returns the field with id, or nil.
func (f *Form) Field(id string) *Field {
	for i := range f.Fields {
		if f.Fields[i].ID == id {
			return &f.Fields[i]
		}
	}
	return nil
}

// Errors maps field ids to the error messages rendered next to them.
func (f *Form) Errors() map[string]string {
	errs := make(map[string]string)
	for _, field := range f.Fields {
		if field.Error != "" {
			errs[field.ID] = field.Error
		}
	}
	return errs
}

// Values encodes the current page state the way a browser would submit it.
// Passwords are left out so the portal keeps the stored secrets.
func (f *Form) Values() url.Values {
	values := url.Values{}
	for _, field := range f.Fields {
		switch field.Type {
		case "password":
		case "checkbox":
			if field.Checked {
				values.Set(field.ID, "selected")
			}
		default:
			values.Set(field.ID, field.Value)
		}
	}
	return values
}

// Apply overrides values by field id. Checkbox values are parsed as booleans.
func (f *Form) Apply(values url.Values, overrides map[string]string) error {
	for id, value := range overrides {
		field := f.Field(id)
		if field == nil {
			return NewValidationError("unknown parameter " + strconv.Quote(id))
		}
		if field.Type != "checkbox" {
			values.Set(id, value)
			continue
		}
		checked, err := strconv.ParseBool(value)
		if err != nil {
			return NewValidationError("parameter " + strconv.Quote(id) + " expects true or false")
		}
		if checked {
			values.Set(id, "selected")
		} else {
			values.Del(id)
		}
	}
	return nil
}

const configVersionPrefix = "Firmware config version '"

// ParseForm reads a config page.
func ParseForm(r io.Reader) (*Form, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, NewParseError("failed to parse HTML", err)
	}

	form := &Form{}
	labels := make(map[string]string)
	hasMarker := false

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			if i := strings.Index(n.Data, configVersionPrefix); i >= 0 {
				rest := n.Data[i+len(configVersionPrefix):]
				if j := strings.IndexByte(rest, '\''); j >= 0 {
					form.ConfigVersion = rest[:j]
				}
			}
		}
		if n.Type == html.ElementNode {
			switch n.Data {
			case "label":
				labels[attr(n, "for")] = strings.TrimSpace(text(n))
			case "input":
				name := attr(n, "name")
				typ := attr(n, "type")
				if name == portal.SaveMarker && typ == "hidden" {
					hasMarker = true
				} else if name != "" && typ != "hidden" {
					form.Fields = append(form.Fields, Field{
						ID:      name,
						Type:    typ,
						Value:   attr(n, "value"),
						Checked: hasAttr(n, "checked"),
						Error:   fieldError(n),
					})
				}
			case "select":
				field := Field{ID: attr(n, "name"), Type: "select", Error: fieldError(n)}
				for c := n.FirstChild; c != nil; c = c.NextSibling {
					if c.Type != html.ElementNode || c.Data != "option" {
						continue
					}
					value := attr(c, "value")
					field.Options = append(field.Options, value)
					if hasAttr(c, "selected") {
						field.Value = value
					}
				}
				if field.Value == "" && len(field.Options) > 0 {
					field.Value = field.Options[0]
				}
				form.Fields = append(form.Fields, field)
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	for i := range form.Fields {
		form.Fields[i].Label = labels[form.Fields[i].ID]
	}
	form.Saved = !hasMarker
	return form, nil
}

// fieldError returns the message of the error div sharing the control's parent.
func fieldError(n *html.Node) string {
	if n.Parent == nil {
		return ""
	}
	for c := n.Parent.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == "div" && attr(c, "class") == "em" {
			return strings.TrimSpace(text(c))
		}
	}
	return ""
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasAttr(n *html.Node, key string) bool {
	for _, a := range n.Attr {
		if a.Key == key {
			return true
		}
	}
	return false
}

func text(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}
