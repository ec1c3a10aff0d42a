// Package param implements the configuration parameter tree.
//
// Every configurable value is an Item with a fixed storage size. Leaves
// (Text, Password, Number, Checkbox, Select) own a value buffer of exactly
// that size; a Group holds an ordered list of items, leaves or other groups,
// and forwards every operation to them in insertion order.
//
// # Persistence
//
// Load and Store copy raw bytes and report the count they consumed. A group
// slices its buffer per child and verifies each child consumed exactly its
// declared StorageSize, returning a *LayoutError otherwise. A wrong size in
// one item therefore fails loudly instead of shifting every later sibling.
//
//	buf := make([]byte, root.StorageSize())
//	if _, err := root.Store(buf); err != nil {
//	    return err
//	}
//
// # Form handling
//
// Update reads the field named after the item id. Decoding rules per type:
//   - Text, Number, Select: a missing field leaves the value unchanged
//   - Checkbox: a missing field means unchecked
//   - Password: an empty value leaves the stored secret unchanged, a value
//     shorter than MinLength is flagged and dropped
//
// Render writes the HTML control. Invisible items render nothing and ignore
// Update but are persisted like any other item.
//
// # Thread Safety
//
// Items are not safe for concurrent use. The portal serializes access.
package param
