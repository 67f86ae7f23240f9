// Package ast provides typed views over the lossless syntax tree: each node
// type wraps a syntax.SyntaxNode of a known kind and exposes accessors for
// its meaningful children, mirroring the green/red split in internal/syntax
// but at the level callers actually want to program against.
package ast

import (
	"strconv"

	"github.com/ramtk/ram/internal/syntax"
)

// Node is implemented by every typed AST wrapper.
type Node interface {
	Syntax() *syntax.SyntaxNode
}

func firstOfKind[N Node](parent *syntax.SyntaxNode, kind syntax.Kind, wrap func(*syntax.SyntaxNode) N) (N, bool) {
	var zero N
	n, ok := parent.FirstChildOfKind(kind)
	if !ok {
		return zero, false
	}
	return wrap(n), true
}

func childrenOfKind[N Node](parent *syntax.SyntaxNode, kind syntax.Kind, wrap func(*syntax.SyntaxNode) N) []N {
	nodes := parent.ChildrenOfKind(kind)
	out := make([]N, len(nodes))
	for i, n := range nodes {
		out[i] = wrap(n)
	}
	return out
}

func firstTokenText(parent *syntax.SyntaxNode, kind syntax.Kind) (string, bool) {
	tok, ok := parent.FirstTokenOfKind(kind)
	if !ok {
		return "", false
	}
	return tok.Text(), true
}

// Program is the root of a parsed file.
type Program struct{ syn *syntax.SyntaxNode }

// CastProgram casts a syntax node to Program if its kind matches.
func CastProgram(n *syntax.SyntaxNode) (Program, bool) {
	if n.Kind() != syntax.ROOT {
		return Program{}, false
	}
	return Program{syn: n}, true
}

func (p Program) Syntax() *syntax.SyntaxNode { return p.syn }

// Lines returns every top-level line in source order.
func (p Program) Lines() []Line {
	return childrenOfKind(p.syn, syntax.LINE, func(n *syntax.SyntaxNode) Line { return Line{syn: n} })
}

// Line wraps one LINE node: a label definition, an instruction, a comment,
// a module statement, or an empty line, in any combination the grammar
// allows on one physical line.
type Line struct{ syn *syntax.SyntaxNode }

// CastLine casts a syntax node to Line if its kind matches.
func CastLine(n *syntax.SyntaxNode) (Line, bool) {
	if n.Kind() != syntax.LINE {
		return Line{}, false
	}
	return Line{syn: n}, true
}

func (l Line) Syntax() *syntax.SyntaxNode { return l.syn }

func (l Line) Instruction() (Instruction, bool) {
	return firstOfKind(l.syn, syntax.INSTRUCTION, func(n *syntax.SyntaxNode) Instruction { return Instruction{syn: n} })
}

func (l Line) LabelDef() (LabelDef, bool) {
	return firstOfKind(l.syn, syntax.LABEL_DEF, func(n *syntax.SyntaxNode) LabelDef { return LabelDef{syn: n} })
}

func (l Line) Comment() (Comment, bool) {
	return firstOfKind(l.syn, syntax.COMMENT, func(n *syntax.SyntaxNode) Comment { return Comment{syn: n} })
}

func (l Line) DocComment() (DocComment, bool) {
	return firstOfKind(l.syn, syntax.DOC_COMMENT, func(n *syntax.SyntaxNode) DocComment { return DocComment{syn: n} })
}

func (l Line) ModStmt() (ModStmt, bool) {
	return firstOfKind(l.syn, syntax.MOD_STMT, func(n *syntax.SyntaxNode) ModStmt { return ModStmt{syn: n} })
}

func (l Line) UseStmt() (UseStmt, bool) {
	return firstOfKind(l.syn, syntax.USE_STMT, func(n *syntax.SyntaxNode) UseStmt { return UseStmt{syn: n} })
}

// Instruction wraps an INSTRUCTION node.
type Instruction struct{ syn *syntax.SyntaxNode }

func CastInstruction(n *syntax.SyntaxNode) (Instruction, bool) {
	if n.Kind() != syntax.INSTRUCTION {
		return Instruction{}, false
	}
	return Instruction{syn: n}, true
}

func (i Instruction) Syntax() *syntax.SyntaxNode { return i.syn }

// Opcode returns the instruction's opcode token text, whether lexed as a
// reserved keyword or as a plain identifier (custom/plugin opcode).
func (i Instruction) Opcode() (string, bool) {
	for _, el := range i.syn.ChildrenWithTokens() {
		if !el.IsToken() {
			continue
		}
		k := el.Token.Kind()
		if k.IsKeyword() || k == syntax.IDENTIFIER {
			return el.Token.Text(), true
		}
	}
	return "", false
}

func (i Instruction) Operand() (Operand, bool) {
	return firstOfKind(i.syn, syntax.OPERAND, func(n *syntax.SyntaxNode) Operand { return Operand{syn: n} })
}

// LabelDef wraps a LABEL_DEF node.
type LabelDef struct{ syn *syntax.SyntaxNode }

func CastLabelDef(n *syntax.SyntaxNode) (LabelDef, bool) {
	if n.Kind() != syntax.LABEL_DEF {
		return LabelDef{}, false
	}
	return LabelDef{syn: n}, true
}

func (l LabelDef) Syntax() *syntax.SyntaxNode { return l.syn }

func (l LabelDef) Name() (string, bool) {
	return firstTokenText(l.syn, syntax.IDENTIFIER)
}

// Comment wraps a COMMENT node.
type Comment struct{ syn *syntax.SyntaxNode }

func CastComment(n *syntax.SyntaxNode) (Comment, bool) {
	if n.Kind() != syntax.COMMENT {
		return Comment{}, false
	}
	return Comment{syn: n}, true
}

func (c Comment) Syntax() *syntax.SyntaxNode { return c.syn }

func (c Comment) Text() (string, bool) {
	return firstTokenText(c.syn, syntax.COMMENT_TEXT)
}

// DocComment wraps a DOC_COMMENT node (a comment whose text begins with
// `*`, per lexer.IsDocComment).
type DocComment struct{ syn *syntax.SyntaxNode }

func CastDocComment(n *syntax.SyntaxNode) (DocComment, bool) {
	if n.Kind() != syntax.DOC_COMMENT {
		return DocComment{}, false
	}
	return DocComment{syn: n}, true
}

func (d DocComment) Syntax() *syntax.SyntaxNode { return d.syn }

func (d DocComment) Text() (string, bool) {
	return firstTokenText(d.syn, syntax.COMMENT_TEXT)
}

// CommentGroup wraps a run of adjacent comments/doc comments attached to
// the item tree entry that follows them.
type CommentGroup struct{ syn *syntax.SyntaxNode }

func CastCommentGroup(n *syntax.SyntaxNode) (CommentGroup, bool) {
	if n.Kind() != syntax.COMMENT_GROUP {
		return CommentGroup{}, false
	}
	return CommentGroup{syn: n}, true
}

func (g CommentGroup) Syntax() *syntax.SyntaxNode { return g.syn }

func (g CommentGroup) Comments() []Comment {
	return childrenOfKind(g.syn, syntax.COMMENT, func(n *syntax.SyntaxNode) Comment { return Comment{syn: n} })
}

func (g CommentGroup) DocComments() []DocComment {
	return childrenOfKind(g.syn, syntax.DOC_COMMENT, func(n *syntax.SyntaxNode) DocComment { return DocComment{syn: n} })
}

// Operand wraps an OPERAND node, dispatching to exactly one addressing-mode
// variant.
type Operand struct{ syn *syntax.SyntaxNode }

func CastOperand(n *syntax.SyntaxNode) (Operand, bool) {
	if n.Kind() != syntax.OPERAND {
		return Operand{}, false
	}
	return Operand{syn: n}, true
}

func (o Operand) Syntax() *syntax.SyntaxNode { return o.syn }

func (o Operand) AsDirect() (DirectOperand, bool) {
	return firstOfKind(o.syn, syntax.DIRECT_OPERAND, func(n *syntax.SyntaxNode) DirectOperand { return DirectOperand{syn: n} })
}

func (o Operand) AsIndirect() (IndirectOperand, bool) {
	return firstOfKind(o.syn, syntax.INDIRECT_OPERAND, func(n *syntax.SyntaxNode) IndirectOperand { return IndirectOperand{syn: n} })
}

func (o Operand) AsImmediate() (ImmediateOperand, bool) {
	return firstOfKind(o.syn, syntax.IMMEDIATE_OPERAND, func(n *syntax.SyntaxNode) ImmediateOperand { return ImmediateOperand{syn: n} })
}

func (o Operand) Value() (OperandValue, bool) {
	return firstOfKind(o.syn, syntax.OPERAND_VALUE, func(n *syntax.SyntaxNode) OperandValue { return OperandValue{syn: n} })
}

// DirectOperand is an operand read from an address (e.g. `x`, `5`).
type DirectOperand struct{ syn *syntax.SyntaxNode }

func (d DirectOperand) Syntax() *syntax.SyntaxNode { return d.syn }
func (d DirectOperand) Value() (OperandValue, bool) {
	return firstOfKind(d.syn, syntax.OPERAND_VALUE, func(n *syntax.SyntaxNode) OperandValue { return OperandValue{syn: n} })
}

// IndirectOperand is an operand read through a pointer (e.g. `*x`).
type IndirectOperand struct{ syn *syntax.SyntaxNode }

func (i IndirectOperand) Syntax() *syntax.SyntaxNode { return i.syn }
func (i IndirectOperand) Value() (OperandValue, bool) {
	return firstOfKind(i.syn, syntax.OPERAND_VALUE, func(n *syntax.SyntaxNode) OperandValue { return OperandValue{syn: n} })
}

// ImmediateOperand is a literal operand (e.g. `=5`).
type ImmediateOperand struct{ syn *syntax.SyntaxNode }

func (i ImmediateOperand) Syntax() *syntax.SyntaxNode { return i.syn }
func (i ImmediateOperand) Value() (OperandValue, bool) {
	return firstOfKind(i.syn, syntax.OPERAND_VALUE, func(n *syntax.SyntaxNode) OperandValue { return OperandValue{syn: n} })
}

// OperandValue is a NUMBER or IDENTIFIER, optionally indexed by an
// ArrayAccessor.
type OperandValue struct{ syn *syntax.SyntaxNode }

func CastOperandValue(n *syntax.SyntaxNode) (OperandValue, bool) {
	if n.Kind() != syntax.OPERAND_VALUE {
		return OperandValue{}, false
	}
	return OperandValue{syn: n}, true
}

func (v OperandValue) Syntax() *syntax.SyntaxNode { return v.syn }

// AsNumber returns the parsed integer value if this value is a NUMBER
// token.
func (v OperandValue) AsNumber() (int64, bool) {
	text, ok := firstTokenText(v.syn, syntax.NUMBER)
	if !ok {
		return 0, false
	}
	n, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func (v OperandValue) AsIdentifier() (string, bool) {
	return firstTokenText(v.syn, syntax.IDENTIFIER)
}

func (v OperandValue) ArrayAccessor() (ArrayAccessor, bool) {
	return firstOfKind(v.syn, syntax.ARRAY_ACCESSOR, func(n *syntax.SyntaxNode) ArrayAccessor { return ArrayAccessor{syn: n} })
}

// ArrayAccessor is the `[index]` suffix on an operand value.
type ArrayAccessor struct{ syn *syntax.SyntaxNode }

func CastArrayAccessor(n *syntax.SyntaxNode) (ArrayAccessor, bool) {
	if n.Kind() != syntax.ARRAY_ACCESSOR {
		return ArrayAccessor{}, false
	}
	return ArrayAccessor{syn: n}, true
}

func (a ArrayAccessor) Syntax() *syntax.SyntaxNode { return a.syn }

func (a ArrayAccessor) IndexNumber() (int64, bool) {
	text, ok := firstTokenText(a.syn, syntax.NUMBER)
	if !ok {
		return 0, false
	}
	n, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func (a ArrayAccessor) IndexIdentifier() (string, bool) {
	return firstTokenText(a.syn, syntax.IDENTIFIER)
}

// ModStmt is a `mod NAME` declaration, grouping subsequent lines under a
// named module until the next ModStmt or end of file.
type ModStmt struct{ syn *syntax.SyntaxNode }

func CastModStmt(n *syntax.SyntaxNode) (ModStmt, bool) {
	if n.Kind() != syntax.MOD_STMT {
		return ModStmt{}, false
	}
	return ModStmt{syn: n}, true
}

func (m ModStmt) Syntax() *syntax.SyntaxNode { return m.syn }
func (m ModStmt) Name() (string, bool)       { return firstTokenText(m.syn, syntax.IDENTIFIER) }

// UseStmt is a `use "path"` import of another module's labels.
type UseStmt struct{ syn *syntax.SyntaxNode }

func CastUseStmt(n *syntax.SyntaxNode) (UseStmt, bool) {
	if n.Kind() != syntax.USE_STMT {
		return UseStmt{}, false
	}
	return UseStmt{syn: n}, true
}

func (u UseStmt) Syntax() *syntax.SyntaxNode { return u.syn }

func (u UseStmt) Path() (ModulePath, bool) {
	return firstOfKind(u.syn, syntax.MODULE_PATH, func(n *syntax.SyntaxNode) ModulePath { return ModulePath{syn: n} })
}

// ModulePath wraps the quoted path string of a UseStmt.
type ModulePath struct{ syn *syntax.SyntaxNode }

func CastModulePath(n *syntax.SyntaxNode) (ModulePath, bool) {
	if n.Kind() != syntax.MODULE_PATH {
		return ModulePath{}, false
	}
	return ModulePath{syn: n}, true
}

func (m ModulePath) Syntax() *syntax.SyntaxNode { return m.syn }

// AsString returns the path with its surrounding quotes stripped.
func (m ModulePath) AsString() (string, bool) {
	text, ok := firstTokenText(m.syn, syntax.STRING)
	if !ok {
		return "", false
	}
	if len(text) >= 2 && text[0] == '"' && text[len(text)-1] == '"' {
		return text[1 : len(text)-1], true
	}
	return text, true
}
