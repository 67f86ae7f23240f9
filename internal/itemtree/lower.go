package itemtree

import (
	"github.com/ramtk/ram/internal/ast"
	"github.com/ramtk/ram/internal/types"
)

// Lower builds an item tree from program's top-level lines: mod/label
// declarations and the doc comments attached to them. Any other line
// (an instruction, a bare comment, a malformed line) breaks a pending run
// of doc comments rather than attaching to the next item.
func Lower(program ast.Program, file types.FileID) *Tree {
	l := &lowerer{tree: New(), file: file}
	l.run(program)
	return l.tree
}

type lowerer struct {
	tree    *Tree
	file    types.FileID
	nextID  ID
	pending []string
}

func (l *lowerer) run(program ast.Program) {
	for _, line := range program.Lines() {
		if doc, ok := line.DocComment(); ok {
			if text, ok := doc.Text(); ok {
				l.pending = append(l.pending, text)
			}
			continue
		}
		switch {
		case l.lowerModStmt(line):
		case l.lowerLabelDef(line):
		default:
			l.pending = nil
		}
	}
	l.pending = nil
}

func (l *lowerer) lowerModStmt(line ast.Line) bool {
	mod, ok := line.ModStmt()
	if !ok {
		return false
	}
	name, ok := mod.Name()
	if !ok {
		l.pending = nil
		return true
	}
	id := l.allocID()
	l.tree.Modules = append(l.tree.Modules, ModuleDef{
		Name:   name,
		ID:     id,
		Source: l.sourceOf(mod.Syntax().Range()),
	})
	l.attachPending(id)
	return true
}

func (l *lowerer) lowerLabelDef(line ast.Line) bool {
	label, ok := line.LabelDef()
	if !ok {
		return false
	}
	name, ok := label.Name()
	if !ok {
		l.pending = nil
		return true
	}
	id := l.allocID()
	l.tree.Labels = append(l.tree.Labels, LabelDef{
		Name:   name,
		ID:     id,
		Source: l.sourceOf(label.Syntax().Range()),
	})
	l.attachPending(id)
	return true
}

func (l *lowerer) allocID() ID {
	id := l.nextID
	l.nextID++
	return id
}

func (l *lowerer) sourceOf(r types.TextRange) Source {
	return Source{File: l.file, Range: r}
}

func (l *lowerer) attachPending(id ID) {
	for _, text := range l.pending {
		l.tree.DocComments = append(l.tree.DocComments, DocComment{Text: text, Item: id})
	}
	l.pending = nil
}
