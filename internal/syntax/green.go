package syntax

import "github.com/ramtk/ram/internal/types"

// GreenToken is a leaf of the green tree: one token's kind and its exact
// source text. GreenTokens are immutable and safe to share across many
// GreenNodes.
type GreenToken struct {
	Kind Kind
	Text string
}

func (t *GreenToken) textLen() types.TextSize {
	return types.TextSize(len(t.Text))
}

// GreenChild is one child of a GreenNode: either a nested GreenNode or a
// GreenToken, never both. The zero value is not a valid child.
type GreenChild struct {
	Node  *GreenNode
	Token *GreenToken
}

// IsToken reports whether this child is a token rather than a node.
func (c GreenChild) IsToken() bool {
	return c.Token != nil
}

// Kind returns the child's kind, whichever variant it holds.
func (c GreenChild) Kind() Kind {
	if c.Token != nil {
		return c.Token.Kind
	}
	return c.Node.Kind
}

func (c GreenChild) textLen() types.TextSize {
	if c.Token != nil {
		return c.Token.textLen()
	}
	return c.Node.textLen
}

// GreenNode is an interior node of the green tree: a kind plus an ordered
// list of children (nodes or tokens). GreenNodes are immutable once built
// and are shared by every red SyntaxNode that projects them — there is
// one allocation per node the builder finishes, never per AST view; the
// builder does not deduplicate identical subtrees.
type GreenNode struct {
	Kind     Kind
	Children []GreenChild
	textLen  types.TextSize
}

// NewGreenNode builds a GreenNode from already-finished children and caches
// its total text length.
func NewGreenNode(kind Kind, children []GreenChild) *GreenNode {
	var length types.TextSize
	for _, c := range children {
		length += c.textLen()
	}
	return &GreenNode{Kind: kind, Children: children, textLen: length}
}

// TextLen returns the number of source bytes this node (and everything
// beneath it) spans.
func (n *GreenNode) TextLen() types.TextSize {
	return n.textLen
}

// Text reconstructs this node's exact source text by concatenating every
// descendant token's text in order. Used by losslessness tests and by
// diagnostic rendering that needs a node's literal source.
func (n *GreenNode) Text() string {
	var sb []byte
	n.appendText(&sb)
	return string(sb)
}

func (n *GreenNode) appendText(buf *[]byte) {
	for _, c := range n.Children {
		if c.Token != nil {
			*buf = append(*buf, c.Token.Text...)
		} else {
			c.Node.appendText(buf)
		}
	}
}
