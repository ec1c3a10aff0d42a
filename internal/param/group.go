package param

import (
	"html"
	"io"
	"strings"
)

// Group is an ordered collection of items. Insertion order is the render
// order and the serialization order.
type Group struct {
	id      string
	label   string
	visible bool
	items   []Item
}

// NewGroup creates an empty group. An empty label renders no heading.
func NewGroup(id, label string) *Group {
	return &Group{id: id, label: label, visible: true}
}

// AddItem appends an item. Call it only while wiring the tree, before the
// first load, store or render.
func (g *Group) AddItem(item Item) {
	g.items = append(g.items, item)
}

func (g *Group) ID() string    { return g.id }
func (g *Group) Label() string { return g.label }
func (g *Group) Visible() bool { return g.visible }

// SetVisible hides the whole group from the portal. Its items are still
// persisted.
func (g *Group) SetVisible(visible bool) { g.visible = visible }

// Items returns the children in insertion order.
func (g *Group) Items() []Item { return g.items }

func (g *Group) StorageSize() int {
	size := 0
	for _, item := range g.items {
		size += item.StorageSize()
	}
	return size
}

func (g *Group) ApplyDefault() {
	for _, item := range g.items {
		item.ApplyDefault()
	}
}

// Load feeds each child its byte range in order.
func (g *Group) Load(src []byte) (int, error) {
	return g.fold(src, Item.Load)
}

// Store writes each child's bytes in order.
func (g *Group) Store(dst []byte) (int, error) {
	return g.fold(dst, Item.Store)
}

// fold threads the offset through the children explicitly and checks that
// every child consumed exactly its declared size.
func (g *Group) fold(buf []byte, op func(Item, []byte) (int, error)) (int, error) {
	offset := 0
	for _, item := range g.items {
		size := item.StorageSize()
		if len(buf)-offset < size {
			return offset, &LayoutError{ID: item.ID(), Declared: size, Actual: len(buf) - offset, Short: true}
		}
		n, err := op(item, buf[offset:offset+size])
		if err != nil {
			return offset, err
		}
		if n != size {
			return offset, &LayoutError{ID: item.ID(), Declared: size, Actual: n}
		}
		offset += n
	}
	return offset, nil
}

// hasVisibleContent reports whether any descendant leaf would render.
func (g *Group) hasVisibleContent() bool {
	if !g.visible {
		return false
	}
	for _, item := range g.items {
		if sub, ok := item.(*Group); ok {
			if sub.hasVisibleContent() {
				return true
			}
			continue
		}
		if item.Visible() {
			return true
		}
	}
	return false
}

func (g *Group) Render(w io.Writer, hasSubmittedData bool) error {
	if !g.hasVisibleContent() {
		return nil
	}
	heading := g.label != ""
	if heading {
		r := strings.NewReplacer("{i}", html.EscapeString(g.id), "{b}", html.EscapeString(g.label))
		if _, err := r.WriteString(w, GroupStartTemplate); err != nil {
			return err
		}
	}
	for _, item := range g.items {
		if err := item.Render(w, hasSubmittedData); err != nil {
			return err
		}
	}
	if heading {
		if _, err := io.WriteString(w, GroupEndTemplate); err != nil {
			return err
		}
	}
	return nil
}

// Update forwards the form to every child, even after one of them flagged
// an error, so no edit is lost.
func (g *Group) Update(form Form) {
	if !g.visible {
		return
	}
	for _, item := range g.items {
		item.Update(form)
	}
}

func (g *Group) ClearError() {
	for _, item := range g.items {
		item.ClearError()
	}
}

func (g *Group) HasError() bool {
	for _, item := range g.items {
		if item.HasError() {
			return true
		}
	}
	return false
}
