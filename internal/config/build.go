package config

import (
	"fmt"

	"github.com/Mingyu-Kim/IotWebConfLite/internal/param"
)

// Build creates the parameter described by the spec.
func (p ParameterSpec) Build() (param.Item, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	label := p.Label
	if label == "" {
		label = p.ID
	}
	size := p.length()

	var item interface {
		param.Item
		SetVisible(bool)
	}
	switch p.Type {
	case TypeText:
		t := param.NewText(p.ID, label, size, p.Default)
		t.Placeholder = p.Placeholder
		item = t
	case TypePassword:
		pw := param.NewPassword(p.ID, label, size, p.Default)
		pw.Placeholder = p.Placeholder
		item = pw
	case TypeNumber:
		n := param.NewNumber(p.ID, label, size, p.Default)
		n.Placeholder = p.Placeholder
		n.Min, n.Max, n.Step = p.Min, p.Max, p.Step
		item = n
	case TypeCheckbox:
		item = param.NewCheckbox(p.ID, label, p.Default == "true" || p.Default == "selected")
	case TypeSelect:
		options := make([]param.Option, len(p.Options))
		for i, o := range p.Options {
			options[i] = param.Option{Value: o.Value, Label: o.Label}
		}
		def := p.Default
		if def == "" {
			def = options[0].Value
		}
		item = param.NewSelect(p.ID, label, size, options, def)
	default:
		return nil, fmt.Errorf("parameter %q: unknown type %q", p.ID, p.Type)
	}

	if p.Visible != nil {
		item.SetVisible(*p.Visible)
	}
	return item, nil
}

// BuildGroups turns the custom group specs into parameter groups, in file
// order.
func (c *Config) BuildGroups() ([]*param.Group, error) {
	groups := make([]*param.Group, 0, len(c.Groups))
	for _, spec := range c.Groups {
		g := param.NewGroup(spec.ID, spec.Label)
		for _, ps := range spec.Parameters {
			item, err := ps.Build()
			if err != nil {
				return nil, fmt.Errorf("group %q: %w", spec.ID, err)
			}
			g.AddItem(item)
		}
		groups = append(groups, g)
	}
	return groups, nil
}

// BuildHidden builds the hidden parameters.
func (c *Config) BuildHidden() ([]param.Item, error) {
	items := make([]param.Item, 0, len(c.Hidden))
	for _, ps := range c.Hidden {
		item, err := ps.Build()
		if err != nil {
			return nil, fmt.Errorf("hidden: %w", err)
		}
		items = append(items, item)
	}
	return items, nil
}
