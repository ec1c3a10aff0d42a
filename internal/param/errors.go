package param

import "fmt"

// LayoutError reports a disagreement between an item's declared storage
// size and the bytes it actually consumed or was given.
type LayoutError struct {
	ID       string // Item that broke the layout
	Declared int    // StorageSize() of the item
	Actual   int    // Bytes consumed, or bytes available for short buffers
	Short    bool   // True when the buffer was shorter than the declared size
}

func (e *LayoutError) Error() string {
	if e.Short {
		return fmt.Sprintf("item %q needs %d bytes, only %d available", e.ID, e.Declared, e.Actual)
	}
	return fmt.Sprintf("item %q declares %d bytes but consumed %d", e.ID, e.Declared, e.Actual)
}
