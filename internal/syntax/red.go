package syntax

import "github.com/ramtk/ram/internal/types"

// SyntaxNode is the position-aware ("red") view of a GreenNode: the same
// shared, immutable green data, plus the absolute offset this particular
// occurrence starts at and a link to its parent. Casting a SyntaxNode to
// an AST type is O(1); walking children is O(arity). SyntaxNode never
// owns tree storage — the GreenNode it wraps may be shared by many
// SyntaxNodes at different offsets (e.g. after incremental reuse).
type SyntaxNode struct {
	green  *GreenNode
	parent *SyntaxNode
	offset types.TextSize
}

// NewRoot builds the red view of a tree rooted at green, with no parent and
// offset zero.
func NewRoot(green *GreenNode) *SyntaxNode {
	return &SyntaxNode{green: green, offset: 0}
}

// Kind returns the node's syntax kind.
func (n *SyntaxNode) Kind() Kind {
	return n.green.Kind
}

// Green returns the underlying immutable green node.
func (n *SyntaxNode) Green() *GreenNode {
	return n.green
}

// Parent returns the enclosing SyntaxNode, or nil at the root.
func (n *SyntaxNode) Parent() *SyntaxNode {
	return n.parent
}

// Range returns this node's half-open byte range in the original source.
func (n *SyntaxNode) Range() types.TextRange {
	return types.NewTextRange(n.offset, n.offset+n.green.textLen)
}

// Text returns this node's exact source text.
func (n *SyntaxNode) Text() string {
	return n.green.Text()
}

// SyntaxElement is either a SyntaxNode or a SyntaxToken.
type SyntaxElement struct {
	Node  *SyntaxNode
	Token *SyntaxToken
}

// IsToken reports whether this element is a token.
func (e SyntaxElement) IsToken() bool {
	return e.Token != nil
}

// Kind returns the element's kind, whichever variant it holds.
func (e SyntaxElement) Kind() Kind {
	if e.Token != nil {
		return e.Token.Kind()
	}
	return e.Node.Kind()
}

// Range returns the element's byte range, whichever variant it holds.
func (e SyntaxElement) Range() types.TextRange {
	if e.Token != nil {
		return e.Token.Range()
	}
	return e.Node.Range()
}

// SyntaxToken is the position-aware view of a GreenToken.
type SyntaxToken struct {
	green  *GreenToken
	parent *SyntaxNode
	offset types.TextSize
}

// Kind returns the token's syntax kind.
func (t *SyntaxToken) Kind() Kind {
	return t.green.Kind
}

// Text returns the token's exact source text.
func (t *SyntaxToken) Text() string {
	return t.green.Text
}

// Parent returns the enclosing SyntaxNode.
func (t *SyntaxToken) Parent() *SyntaxNode {
	return t.parent
}

// Range returns the token's half-open byte range in the original source.
func (t *SyntaxToken) Range() types.TextRange {
	return types.NewTextRange(t.offset, t.offset+types.TextSize(len(t.green.Text)))
}

// ChildrenWithTokens returns every direct child of n, nodes and tokens
// alike, in source order, each positioned at its absolute offset.
func (n *SyntaxNode) ChildrenWithTokens() []SyntaxElement {
	out := make([]SyntaxElement, 0, len(n.green.Children))
	offset := n.offset
	for _, c := range n.green.Children {
		if c.Token != nil {
			out = append(out, SyntaxElement{Token: &SyntaxToken{green: c.Token, parent: n, offset: offset}})
		} else {
			out = append(out, SyntaxElement{Node: &SyntaxNode{green: c.Node, parent: n, offset: offset}})
		}
		offset += c.textLen()
	}
	return out
}

// Children returns only the direct child nodes of n (tokens are skipped),
// in source order.
func (n *SyntaxNode) Children() []*SyntaxNode {
	all := n.ChildrenWithTokens()
	out := make([]*SyntaxNode, 0, len(all))
	for _, e := range all {
		if !e.IsToken() {
			out = append(out, e.Node)
		}
	}
	return out
}

// ChildrenOfKind returns direct child nodes matching kind, in source order.
func (n *SyntaxNode) ChildrenOfKind(kind Kind) []*SyntaxNode {
	var out []*SyntaxNode
	for _, c := range n.Children() {
		if c.Kind() == kind {
			out = append(out, c)
		}
	}
	return out
}

// FirstChildOfKind returns the first direct child node matching kind, if
// any.
func (n *SyntaxNode) FirstChildOfKind(kind Kind) (*SyntaxNode, bool) {
	for _, c := range n.Children() {
		if c.Kind() == kind {
			return c, true
		}
	}
	return nil, false
}

// FirstTokenOfKind returns the first direct child token matching kind, if
// any. Used by AST accessors that pull out a single identifier or literal
// token (e.g. an instruction's opcode).
func (n *SyntaxNode) FirstTokenOfKind(kind Kind) (*SyntaxToken, bool) {
	for _, e := range n.ChildrenWithTokens() {
		if e.IsToken() && e.Token.Kind() == kind {
			return e.Token, true
		}
	}
	return nil, false
}

// Descendants returns every node in the subtree rooted at n, including n
// itself, in pre-order.
func (n *SyntaxNode) Descendants() []*SyntaxNode {
	out := []*SyntaxNode{n}
	for _, c := range n.Children() {
		out = append(out, c.Descendants()...)
	}
	return out
}
