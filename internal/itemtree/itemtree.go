// Package itemtree summarizes a file's top-level definitions — modules and
// labels — without looking inside instruction bodies. It is the shallow,
// cheap-to-recompute layer HIR lowering builds on: a label's existence and
// name is an item-tree fact, but what instruction it marks is a HIR fact.
package itemtree

import (
	"github.com/ramtk/ram/internal/types"
)

// ID identifies a definition within a single file's item tree, in
// declaration order.
type ID uint32

// Source anchors a definition back to the syntax it was lowered from, for
// diagnostics and go-to-definition.
type Source struct {
	File  types.FileID
	Range types.TextRange
}

// ModuleDef is a `mod NAME` declaration.
type ModuleDef struct {
	Name   string
	ID     ID
	Source Source
}

// LabelDef is a label declaration (`name:`), independent of which
// instruction it marks — that association is a HIR-level fact.
type LabelDef struct {
	Name   string
	ID     ID
	Source Source
}

// DocComment is a doc comment (`#* ...`) attached to the item it
// immediately precedes.
type DocComment struct {
	Text string
	Item ID
}

// Tree is a file's item tree: every module and label it declares, plus the
// doc comments attached to them.
type Tree struct {
	Modules     []ModuleDef
	Labels      []LabelDef
	DocComments []DocComment
}

// New builds an empty item tree.
func New() *Tree {
	return &Tree{}
}

// LabelNames returns every label name declared in the tree, in declaration
// order.
func (t *Tree) LabelNames() []string {
	names := make([]string, len(t.Labels))
	for i, l := range t.Labels {
		names[i] = l.Name
	}
	return names
}
