package param

// Slot is the position of one leaf in the serialized tree.
type Slot struct {
	ID     string
	Offset int
	Size   int
}

// Layout lists every leaf with its offset relative to the start of the
// tree's bytes.
func Layout(root Item) []Slot {
	var slots []Slot
	offset := 0
	Walk(root, func(leaf Item) {
		size := leaf.StorageSize()
		slots = append(slots, Slot{ID: leaf.ID(), Offset: offset, Size: size})
		offset += size
	})
	return slots
}

// Entry is the displayable state of one leaf.
type Entry struct {
	ID      string
	Value   string
	Secret  bool
	Visible bool
}

// Entries lists every leaf value in traversal order.
func Entries(root Item) []Entry {
	var entries []Entry
	Walk(root, func(leaf Item) {
		e := Entry{ID: leaf.ID(), Visible: leaf.Visible()}
		if v, ok := leaf.(Valuer); ok {
			e.Value = v.Value()
		}
		if s, ok := leaf.(Secret); ok {
			e.Secret = s.IsSecret()
		}
		entries = append(entries, e)
	})
	return entries
}
