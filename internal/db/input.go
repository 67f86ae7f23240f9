package db

import "github.com/ramtk/ram/internal/types"

// FileText is the interned text of one file: its content, an xxhash
// fingerprint used to detect no-op saves and key memoized queries, and the
// durability tier governing how aggressively derived queries are kept
// across edits to it.
type FileText struct {
	Text        string
	Fingerprint uint64
	Durability  types.Durability
}

// SourceRootInput is the interned membership of one source root: the files
// that belong to it.
type SourceRootInput struct {
	Members    []types.FileID
	Durability types.Durability
}

// FileSourceRoot is the interned source root a single file belongs to.
type FileSourceRoot struct {
	Root       types.SourceRootID
	Durability types.Durability
}
