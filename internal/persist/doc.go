// Package persist saves and restores a parameter tree on a storage medium.
//
// The persisted layout starting at the configured offset is:
//
//	[version tag, VersionLength bytes][item 1][item 2]...[item N]
//
// Items appear in tree traversal order with their declared StorageSize and
// no padding or separators. Load compares the tag with the configured
// version; on mismatch it applies defaults to the whole tree and reports
// false, which is also how a first boot on blank storage behaves. Changing
// the version string is the only supported way to change the layout.
package persist
