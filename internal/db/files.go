package db

import (
	"sync"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"

	"github.com/ramtk/ram/internal/types"
)

// Files is the interned input registry the rest of the database is built
// on: FileID -> FileText, SourceRootID -> SourceRootInput, FileID ->
// FileSourceRoot. Reads are lock-free (sync.Map); a write replaces one
// entry's value atomically rather than taking a store-wide lock, so many
// readers and one writer can proceed concurrently, matching the
// multi-reader/single-writer model the query engine as a whole follows.
//
// Grounded in base_db::Files, adapted from salsa's built-in dependency
// tracking to explicit xxhash fingerprinting: a FileText's Fingerprint
// field, not a salsa revision counter, is what downstream queries key their
// memoization on.
type Files struct {
	texts           sync.Map // types.FileID -> FileText
	sourceRoots     sync.Map // types.SourceRootID -> SourceRootInput
	fileSourceRoots sync.Map // types.FileID -> FileSourceRoot
	paths           sync.Map // string -> types.FileID

	nextFileID       atomic.Uint32
	nextSourceRootID atomic.Uint32
}

func newFiles() *Files {
	return &Files{}
}

// AllocFileID reserves a fresh FileID. Zero is never returned — it is
// reserved by types.FileID as "no file".
func (f *Files) AllocFileID() types.FileID {
	return types.FileID(f.nextFileID.Add(1))
}

// AllocSourceRootID reserves a fresh SourceRootID.
func (f *Files) AllocSourceRootID() types.SourceRootID {
	return types.SourceRootID(f.nextSourceRootID.Add(1))
}

// EnsureFileID returns the FileID already associated with path, allocating
// one the first time path is seen; it records no text or durability. A workspace watcher
// uses this to turn filesystem paths into stable FileIDs across restarts
// of the walk.
func (f *Files) EnsureFileID(path string) types.FileID {
	if v, ok := f.paths.Load(path); ok {
		return v.(types.FileID)
	}
	id := f.AllocFileID()
	if actual, loaded := f.paths.LoadOrStore(path, id); loaded {
		return actual.(types.FileID)
	}
	return id
}

// FileText returns the current text interned for id.
func (f *Files) FileText(id types.FileID) (FileText, bool) {
	v, ok := f.texts.Load(id)
	if !ok {
		return FileText{}, false
	}
	return v.(FileText), true
}

// SetFileText replaces id's text, keeping its previously recorded
// durability (or DurabilityLow, for a file seen for the first time).
// Reports whether the text actually changed — false means the fingerprint
// matched what was already stored, so no downstream query was invalidated.
func (f *Files) SetFileText(id types.FileID, text string) bool {
	durability := types.DurabilityLow
	if existing, ok := f.FileText(id); ok {
		durability = existing.Durability
	}
	return f.SetFileTextWithDurability(id, text, durability)
}

// SetFileTextWithDurability is SetFileText with an explicit durability tier
// for a first-time write, or to promote/demote an existing file's tier.
func (f *Files) SetFileTextWithDurability(id types.FileID, text string, durability types.Durability) bool {
	fingerprint := xxhash.Sum64String(text)
	if existing, ok := f.FileText(id); ok && existing.Fingerprint == fingerprint {
		return false
	}
	f.texts.Store(id, FileText{Text: text, Fingerprint: fingerprint, Durability: durability})
	return true
}

// SourceRoot returns the membership interned for id.
func (f *Files) SourceRoot(id types.SourceRootID) (SourceRootInput, bool) {
	v, ok := f.sourceRoots.Load(id)
	if !ok {
		return SourceRootInput{}, false
	}
	return v.(SourceRootInput), true
}

// SetSourceRootWithDurability replaces the file membership of source root
// id.
func (f *Files) SetSourceRootWithDurability(id types.SourceRootID, members []types.FileID, durability types.Durability) {
	f.sourceRoots.Store(id, SourceRootInput{Members: members, Durability: durability})
}

// FileSourceRoot returns the source root file belongs to.
func (f *Files) FileSourceRoot(file types.FileID) (FileSourceRoot, bool) {
	v, ok := f.fileSourceRoots.Load(file)
	if !ok {
		return FileSourceRoot{}, false
	}
	return v.(FileSourceRoot), true
}

// SetFileSourceRootWithDurability records which source root file belongs
// to.
func (f *Files) SetFileSourceRootWithDurability(file types.FileID, root types.SourceRootID, durability types.Durability) {
	f.fileSourceRoots.Store(file, FileSourceRoot{Root: root, Durability: durability})
}
