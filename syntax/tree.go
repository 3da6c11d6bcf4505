package syntax

import (
	"strings"

	"github.com/sapling-lang/sapling/language"
	"github.com/sapling-lang/sapling/text"
)

// Tree is one parse result: an immutable node structure over a source
// snapshot. Trees share unchanged subtrees with their predecessors, so
// keeping an old Tree alive is cheap and always safe.
type Tree struct {
	Lang   *language.Language
	Source []byte
	Root   *Node
	Lines  *text.LineIndex

	// Diagnostics lists what recovery had to do, in source order.
	Diagnostics []Diagnostic
}

// Span returns the root span, which always covers the whole source.
func (t *Tree) Span() text.Span {
	return text.Span{Start: 0, End: t.Root.Len()}
}

// HasError reports whether the tree contains any error or missing node.
func (t *Tree) HasError() bool {
	return t.Root.HasError()
}

// KindName resolves a node's symbol to its grammar name.
func (t *Tree) KindName(n *Node) string {
	return t.Lang.SymbolName(n.Kind())
}

// Text returns the source bytes a span covers.
func (t *Tree) Text(sp text.Span) []byte {
	if !sp.IsValid() || int(sp.End) > len(t.Source) {
		return nil
	}
	return t.Source[sp.Start:sp.End]
}

// NodeAt returns the deepest node containing the offset together with its
// absolute span. Spans are half-open, so an offset on the boundary between
// two siblings resolves to the one that starts there; zero-width nodes
// never match. Offsets at or beyond end of input return the root.
func (t *Tree) NodeAt(off text.ByteOffset) (*Node, text.Span) {
	n := t.Root
	start := text.ByteOffset(0)
	for {
		i := n.childContaining(off - start)
		if i < 0 {
			return n, text.Span{Start: start, End: start + n.Len()}
		}
		start += n.ChildStart(i)
		n = n.Child(i)
	}
}

// PreOrder walks the tree depth-first, handing each node its absolute span.
// Returning false from visit skips the node's children.
func (t *Tree) PreOrder(visit func(n *Node, span text.Span) bool) {
	t.walk(t.Root, 0, visit)
}

func (t *Tree) walk(n *Node, start text.ByteOffset, visit func(*Node, text.Span) bool) {
	if !visit(n, text.Span{Start: start, End: start + n.Len()}) {
		return
	}
	for i := 0; i < n.ChildCount(); i++ {
		t.walk(n.Child(i), start+n.ChildStart(i), visit)
	}
}

// SExpr renders the tree's named structure as an s-expression, the compact
// form used in tests and the CLI. Anonymous tokens are omitted; error and
// missing nodes always surface.
func (t *Tree) SExpr() string {
	var sb strings.Builder
	t.sexpr(&sb, t.Root)
	return sb.String()
}

func (t *Tree) sexpr(sb *strings.Builder, n *Node) {
	switch {
	case n.IsError():
		writeSExprAtom(sb, "(ERROR)")
		return
	case n.IsMissing():
		writeSExprAtom(sb, "(MISSING "+t.KindName(n)+")")
		return
	}

	info := t.Lang.Symbols[n.Kind()]
	if n.IsLeaf() {
		if info.Named {
			writeSExprAtom(sb, "("+info.Name+")")
		}
		return
	}

	if !info.Named {
		for i := 0; i < n.ChildCount(); i++ {
			t.sexpr(sb, n.Child(i))
		}
		return
	}

	writeSExprAtom(sb, "("+info.Name)
	for i := 0; i < n.ChildCount(); i++ {
		t.sexpr(sb, n.Child(i))
	}
	sb.WriteString(")")
}

func writeSExprAtom(sb *strings.Builder, s string) {
	if sb.Len() > 0 {
		sb.WriteString(" ")
	}
	sb.WriteString(s)
}
