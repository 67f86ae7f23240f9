// Package registry implements the instruction registry: the concurrent
// name/kind table the parser, HIR lowering, and the VM all consult to turn
// an opcode's text into a typed InstructionKind (and back), including the
// Custom(name) extension point plugins use to add opcodes the grammar
// never needed to know about in advance.
package registry

import (
	"fmt"
	"strings"
	"sync"

	"github.com/ramtk/ram/internal/operand"
)

// InstructionKind identifies an opcode. The twelve built-ins are fixed
// values; customName carries the custom opcode's text when custom is true —
// two custom InstructionKind values compare equal iff their customName
// matches, so a kind is always safe to use as a map key.
type InstructionKind struct {
	builtin    builtinOp
	custom     bool
	customName string
}

type builtinOp uint8

const (
	opLoad builtinOp = iota + 1
	opStore
	opAdd
	opSub
	opMul
	opDiv
	opJump
	opJumpGtz
	opJumpZero
	opRead
	opWrite
	opHalt
)

var (
	Load     = InstructionKind{builtin: opLoad}
	Store    = InstructionKind{builtin: opStore}
	Add      = InstructionKind{builtin: opAdd}
	Sub      = InstructionKind{builtin: opSub}
	Mul      = InstructionKind{builtin: opMul}
	Div      = InstructionKind{builtin: opDiv}
	Jump     = InstructionKind{builtin: opJump}
	JumpGtz  = InstructionKind{builtin: opJumpGtz}
	JumpZero = InstructionKind{builtin: opJumpZero}
	Read     = InstructionKind{builtin: opRead}
	Write    = InstructionKind{builtin: opWrite}
	Halt     = InstructionKind{builtin: opHalt}
)

// Custom builds the InstructionKind for a plugin-defined opcode. It never
// fails: any name, however unrecognized, is a valid custom instruction
// until proven otherwise by instruction validation.
func Custom(name string) InstructionKind {
	return InstructionKind{custom: true, customName: name}
}

// IsCustom reports whether k is a plugin-defined opcode rather than one of
// the twelve built-ins.
func (k InstructionKind) IsCustom() bool { return k.custom }

// Name returns the opcode's canonical spelling: the reserved upper-case
// form for a built-in, or the registered text as-is for a custom opcode.
// InstructionKind satisfies Definition through this and the three methods
// below, so registering a built-in needs no adapter type.
func (k InstructionKind) Name() string { return k.name() }

func (k InstructionKind) name() string {
	switch k.builtin {
	case opLoad:
		return "LOAD"
	case opStore:
		return "STORE"
	case opAdd:
		return "ADD"
	case opSub:
		return "SUB"
	case opMul:
		return "MUL"
	case opDiv:
		return "DIV"
	case opJump:
		return "JUMP"
	case opJumpGtz:
		return "JGTZ"
	case opJumpZero:
		return "JZERO"
	case opRead:
		return "READ"
	case opWrite:
		return "WRITE"
	case opHalt:
		return "HALT"
	default:
		return k.customName
	}
}

func (k InstructionKind) String() string { return k.name() }

// RequiresOperand reports whether this instruction must be given an
// operand. Every built-in but HALT does; a custom instruction requires one
// unless its definition says otherwise (see Definition).
func (k InstructionKind) RequiresOperand() bool {
	return k.builtin != opHalt
}

// AllowedOperandKinds returns the addressing modes valid for this
// instruction. HALT takes none; every other built-in takes all three.
func (k InstructionKind) AllowedOperandKinds() []operand.Kind {
	if k.builtin == opHalt {
		return nil
	}
	return []operand.Kind{operand.Direct, operand.Indirect, operand.Immediate}
}

// Description returns a one-line human description of the opcode.
func (k InstructionKind) Description() string {
	switch k.builtin {
	case opLoad:
		return "Load a value into the accumulator"
	case opStore:
		return "Store the accumulator value in memory"
	case opAdd:
		return "Add a value to the accumulator"
	case opSub:
		return "Subtract a value from the accumulator"
	case opMul:
		return "Multiply the accumulator by a value"
	case opDiv:
		return "Divide the accumulator by a value"
	case opJump:
		return "Jump to a label"
	case opJumpGtz:
		return "Jump to a label if the accumulator is greater than zero"
	case opJumpZero:
		return "Jump to a label if the accumulator is zero"
	case opRead:
		return "Read a value from input"
	case opWrite:
		return "Write a value to output"
	case opHalt:
		return "Halt the program"
	default:
		return "Custom instruction"
	}
}

// StandardKinds returns the twelve built-in instruction kinds, in the
// canonical order they are documented.
func StandardKinds() []InstructionKind {
	return []InstructionKind{Load, Store, Add, Sub, Mul, Div, Jump, JumpGtz, JumpZero, Read, Write, Halt}
}

// FromName maps an opcode's source text (any case) to its InstructionKind.
// JMP is folded to Jump here — the lexer never recognizes JMP as a keyword,
// so this is the single place the alias is resolved. Unrecognized names
// become Custom, never an error.
func FromName(name string) InstructionKind {
	switch strings.ToUpper(name) {
	case "LOAD":
		return Load
	case "STORE":
		return Store
	case "ADD":
		return Add
	case "SUB":
		return Sub
	case "MUL":
		return Mul
	case "DIV":
		return Div
	case "JUMP", "JMP":
		return Jump
	case "JGTZ":
		return JumpGtz
	case "JZERO":
		return JumpZero
	case "READ":
		return Read
	case "WRITE":
		return Write
	case "HALT":
		return Halt
	default:
		return Custom(name)
	}
}

// Info is a snapshot of an instruction's shape, independent of any
// particular Definition implementation.
type Info struct {
	Name                string
	RequiresOperand     bool
	AllowedOperandKinds []operand.Kind
	Description         string
}

func (k InstructionKind) Info() Info {
	return Info{
		Name:                k.name(),
		RequiresOperand:     k.RequiresOperand(),
		AllowedOperandKinds: k.AllowedOperandKinds(),
		Description:         k.Description(),
	}
}

// ValidationError reports an operand that doesn't fit an instruction's
// shape: missing where required, present where forbidden, or the wrong
// addressing mode.
type ValidationError struct {
	Opcode string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Opcode, e.Reason)
}

// ValidateOperand checks op against def's declared shape.
func ValidateOperand(def Definition, op *operand.Operand) error {
	if def.RequiresOperand() && op == nil {
		return &ValidationError{Opcode: def.Name(), Reason: fmt.Sprintf("%s requires an operand", def.Name())}
	}
	if !def.RequiresOperand() && op != nil {
		return &ValidationError{Opcode: def.Name(), Reason: fmt.Sprintf("%s does not accept an operand", def.Name())}
	}
	if op == nil {
		return nil
	}
	for _, allowed := range def.AllowedOperandKinds() {
		if allowed == op.Kind {
			return nil
		}
	}
	return &ValidationError{
		Opcode: def.Name(),
		Reason: fmt.Sprintf("%s does not accept %s operands", def.Name(), op.Kind),
	}
}

// Definition is how a concrete instruction plugs into the registry: its
// name, operand shape, and (outside the parser's concern) what it does
// when executed by the VM. InstructionKind itself satisfies Definition for
// the twelve built-ins, so registering them needs no adapter type.
type Definition interface {
	Name() string
	RequiresOperand() bool
	AllowedOperandKinds() []operand.Kind
}

// Registry is the thread-safe name/kind table. Reads and writes may happen
// concurrently (e.g. plugin registration racing the language-server's
// background parse), matching the DashMap-style concurrent registry this
// toolkit's instruction model was built against.
type Registry struct {
	definitions     sync.Map // InstructionKind -> Definition
	nameToKind      sync.Map // string (exact) -> InstructionKind
	lowercaseToKind sync.Map // string (lower) -> InstructionKind
}

// New builds an empty registry. Use NewStandard for one pre-populated with
// the twelve built-ins.
func New() *Registry {
	return &Registry{}
}

// NewStandard builds a registry pre-populated with the twelve built-in
// instructions.
func NewStandard() *Registry {
	r := New()
	for _, k := range StandardKinds() {
		r.Register(k, k)
	}
	return r
}

// Register adds or replaces def under kind, indexing it by both its exact
// and lower-cased name for case-sensitive and case-insensitive lookup.
func (r *Registry) Register(kind InstructionKind, def Definition) {
	name := def.Name()
	r.definitions.Store(kind, def)
	r.nameToKind.Store(name, kind)
	r.lowercaseToKind.Store(strings.ToLower(name), kind)
}

// RegisterPlugin registers a third-party instruction set. It is a thin
// convenience wrapper around Register — a plugin's instructions share the
// exact same registry and lookup path as the built-ins, not a separate
// tier, so a custom opcode and a standard one are indistinguishable to
// every later lookup.
func (r *Registry) RegisterPlugin(kind InstructionKind, def Definition) {
	r.Register(kind, def)
}

// Get returns the definition registered for kind, if any.
func (r *Registry) Get(kind InstructionKind) (Definition, bool) {
	v, ok := r.definitions.Load(kind)
	if !ok {
		return nil, false
	}
	return v.(Definition), true
}

// Contains reports whether kind has a registered definition.
func (r *Registry) Contains(kind InstructionKind) bool {
	_, ok := r.definitions.Load(kind)
	return ok
}

// GetByName looks up a definition by its exact (case-sensitive) name.
func (r *Registry) GetByName(name string) (Definition, bool) {
	kind, ok := r.KindByName(name)
	if !ok {
		return nil, false
	}
	return r.Get(kind)
}

// GetByNameCaseInsensitive looks up a definition ignoring case.
func (r *Registry) GetByNameCaseInsensitive(name string) (Definition, bool) {
	kind, ok := r.KindByNameCaseInsensitive(name)
	if !ok {
		return nil, false
	}
	return r.Get(kind)
}

// KindByName resolves a name to its InstructionKind (case-sensitive).
func (r *Registry) KindByName(name string) (InstructionKind, bool) {
	v, ok := r.nameToKind.Load(name)
	if !ok {
		return InstructionKind{}, false
	}
	return v.(InstructionKind), true
}

// KindByNameCaseInsensitive resolves a name to its InstructionKind ignoring
// case.
func (r *Registry) KindByNameCaseInsensitive(name string) (InstructionKind, bool) {
	v, ok := r.lowercaseToKind.Load(strings.ToLower(name))
	if !ok {
		return InstructionKind{}, false
	}
	return v.(InstructionKind), true
}

// Names returns every registered instruction's exact name, in no
// particular order.
func (r *Registry) Names() []string {
	var names []string
	r.nameToKind.Range(func(key, _ any) bool {
		names = append(names, key.(string))
		return true
	})
	return names
}

// AllInfo returns Info for every registered definition, in no particular
// order.
func (r *Registry) AllInfo() []Info {
	var infos []Info
	r.definitions.Range(func(_, value any) bool {
		def := value.(Definition)
		infos = append(infos, Info{
			Name:                def.Name(),
			RequiresOperand:     def.RequiresOperand(),
			AllowedOperandKinds: def.AllowedOperandKinds(),
		})
		return true
	})
	return infos
}
