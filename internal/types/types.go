// Package types defines the identifier and span types shared across every
// compiler stage: lexer, parser, item tree, HIR, and analysis. Keeping them
// in one leaf package (no imports from the rest of the module) lets every
// other package depend on them without import cycles.
package types

// Common system-wide constants.
const (
	// DefaultMaxSourceFileSize is the size limit for a single program
	// source file. No loader in this module checks it.
	DefaultMaxSourceFileSize = 4 * 1024 * 1024 // 4MB
	// Rationale: RAM programs are hand-written or generated assembly,
	// not binary payloads. A file past this size is almost certainly
	// not a program and indicates a misconfigured workspace root.

	// DefaultMaxProgramInstructions is the instruction-count limit for a
	// single HIR body. Neither lowering nor the VM checks it.
	DefaultMaxProgramInstructions = 1_000_000

	// DefaultVMMaxSteps is the config's default VM step budget
	// (VM.MaxSteps), so an infinite loop in a user program run through
	// ramc stops instead of hanging. VM.Run itself uses vm.DefaultMaxSteps.
	DefaultVMMaxSteps = 10_000_000
)

// FileID identifies a source file registered with the query engine. Zero is
// never a valid FileID; the database reserves it as "no file".
type FileID uint32

// SourceRootID groups FileIDs belonging to the same logical source root
// (workspace root, or a single ad-hoc file treated as its own root).
type SourceRootID uint32

// Durability classifies how often a piece of input data changes, and is
// used by the query engine to decide how aggressively to invalidate
// downstream memoized computations when any input changes.
type Durability uint8

const (
	// DurabilityLow is for data that changes on essentially every edit
	// (the text of the file currently being edited).
	DurabilityLow Durability = iota
	// DurabilityMedium is for data that changes occasionally (workspace
	// membership, which files exist).
	DurabilityMedium
	// DurabilityHigh is for data that almost never changes after startup
	// (the built-in instruction registry, project configuration).
	DurabilityHigh
)

func (d Durability) String() string {
	switch d {
	case DurabilityLow:
		return "low"
	case DurabilityMedium:
		return "medium"
	case DurabilityHigh:
		return "high"
	default:
		return "unknown"
	}
}

// LocalDefId identifies an instruction or label definition within a single
// HIR body, in lowering order. It is local to a body: combine with FileID to
// form a globally stable identity when one is needed across files.
type LocalDefId uint32

// ExprID identifies an expression node within a HIR body's expression arena.
type ExprID uint32

// LabelID identifies a label definition within a HIR body's label table.
type LabelID uint32

// DefId is a body-qualified reference to a LocalDefId, stable across the
// whole database rather than just within one body.
type DefId struct {
	File  FileID
	Local LocalDefId
}

// TextSize is a byte offset into a file's source text.
type TextSize uint32

// TextRange is a half-open [Start, End) byte range into a file's source
// text, used for every span recorded in the green tree, the diagnostics
// emitted by the parser, and the spans attached to lowered instructions.
type TextRange struct {
	Start TextSize
	End   TextSize
}

// NewTextRange builds a range, normalizing a reversed pair rather than
// panicking — callers computing ranges from recovered parser state should
// never crash the parse over a span bookkeeping bug.
func NewTextRange(start, end TextSize) TextRange {
	if end < start {
		start, end = end, start
	}
	return TextRange{Start: start, End: end}
}

// Len returns the number of bytes covered by the range.
func (r TextRange) Len() TextSize {
	return r.End - r.Start
}

// IsEmpty reports whether the range covers zero bytes.
func (r TextRange) IsEmpty() bool {
	return r.Start == r.End
}

// Contains reports whether offset falls within the range.
func (r TextRange) Contains(offset TextSize) bool {
	return offset >= r.Start && offset < r.End
}

// Overlaps reports whether the two ranges share any byte.
func (r TextRange) Overlaps(other TextRange) bool {
	return r.Start < other.End && other.Start < r.End
}

// Cover returns the smallest range containing both r and other.
func (r TextRange) Cover(other TextRange) TextRange {
	start := r.Start
	if other.Start < start {
		start = other.Start
	}
	end := r.End
	if other.End > end {
		end = other.End
	}
	return TextRange{Start: start, End: end}
}
