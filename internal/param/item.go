package param

import "io"

// Form is the read-only view of submitted form fields. url.Values
// satisfies it.
type Form interface {
	Has(name string) bool
	Get(name string) string
}

// Item is a single configurable value or a group of them.
//
// Load and Store operate on the front of the given slice and report how many
// bytes they consumed. Callers advance their own cursor by that count; an
// item never keeps offset state between calls.
type Item interface {
	ID() string
	Label() string
	Visible() bool

	// StorageSize is the fixed number of bytes the item occupies in
	// persisted state. It never depends on the current value.
	StorageSize() int

	ApplyDefault()
	Load(src []byte) (int, error)
	Store(dst []byte) (int, error)

	// Render writes the form control. Error annotations are only written
	// when hasSubmittedData is true.
	Render(w io.Writer, hasSubmittedData bool) error

	// Update copies the submitted field into the value buffer. It never
	// validates beyond what decoding the value requires.
	Update(form Form)

	ClearError()
	HasError() bool
}

// Container is an Item holding child items.
type Container interface {
	Item
	Items() []Item
}

// Valuer exposes the textual value of a leaf.
type Valuer interface {
	Value() string
}

// Secret is implemented by leaves whose value must not be displayed.
type Secret interface {
	IsSecret() bool
}

// Walk visits every leaf under root in traversal order. Traversal order is
// the same for size, default, load, store, render and update passes.
func Walk(root Item, fn func(leaf Item)) {
	if c, ok := root.(Container); ok {
		for _, child := range c.Items() {
			Walk(child, fn)
		}
		return
	}
	fn(root)
}

// Find returns the first item (leaf or group) with the given id.
func Find(root Item, id string) Item {
	if root.ID() == id {
		return root
	}
	if c, ok := root.(Container); ok {
		for _, child := range c.Items() {
			if found := Find(child, id); found != nil {
				return found
			}
		}
	}
	return nil
}
