package syntax

import (
	"testing"

	"github.com/sapling-lang/sapling/language"
	"github.com/sapling-lang/sapling/text"
)

// testLang builds a tiny symbol table: end, two terminals, two
// nonterminals.
func testLang() *language.Language {
	return &language.Language{
		Name: "test",
		Symbols: []language.SymbolInfo{
			{Name: "end", Terminal: true, Hidden: true},
			{Name: "word", Terminal: true, Named: true},
			{Name: ",", Terminal: true},
			{Name: "list", Named: true},
			{Name: "pair", Named: true},
		},
		NonterminalBase: 3,
		Entry:           3,
	}
}

const (
	symWord  language.Symbol = 1
	symComma language.Symbol = 2
	symList  language.Symbol = 3
	symPair  language.Symbol = 4
)

func TestInternalNodeAggregatesChildren(t *testing.T) {
	t.Parallel()

	a := NewLeaf(symWord, 3, 0, 1, 0, 0)
	comma := NewLeaf(symComma, 1, 0, 0, 0, 0)
	b := NewLeaf(symWord, 4, 1, 1, 0, 0)
	pair := NewInternal(symPair, []*Node{a, comma, b}, 0, 0)

	if pair.Len() != 8 {
		t.Fatalf("Len() = %d, want 8", pair.Len())
	}
	if pair.Newlines() != 1 {
		t.Fatalf("Newlines() = %d, want 1", pair.Newlines())
	}
	if pair.ChildCount() != 3 {
		t.Fatalf("ChildCount() = %d, want 3", pair.ChildCount())
	}
	if got := pair.ChildStart(2); got != 4 {
		t.Fatalf("ChildStart(2) = %d, want 4", got)
	}
	if pair.HasError() {
		t.Fatal("clean subtree should not report errors")
	}
	if pair.TrailingLookahead() != 1 {
		t.Fatalf("TrailingLookahead() = %d, want last leaf's lookahead", pair.TrailingLookahead())
	}
}

func TestErrorPropagatesToAncestors(t *testing.T) {
	t.Parallel()

	missing := NewMissing(symComma, 0)
	if !missing.IsMissing() || !missing.HasError() || missing.Len() != 0 {
		t.Fatalf("missing node flags = %v len = %d", missing.Flags(), missing.Len())
	}

	pair := NewInternal(symPair, []*Node{NewLeaf(symWord, 2, 0, 0, 0, 0), missing}, 0, 0)
	list := NewInternal(symList, []*Node{pair}, 0, 0)
	if !pair.HasError() || !list.HasError() {
		t.Fatal("error flag should propagate upward")
	}
	if list.IsMissing() {
		t.Fatal("ancestor is not itself missing")
	}
}

func TestNodeAtDescendsToDeepestLeaf(t *testing.T) {
	t.Parallel()

	// list(pair(word "ab" , word "cd")) over "ab,cd"
	pair := NewInternal(symPair, []*Node{
		NewLeaf(symWord, 2, 0, 0, 0, 0),
		NewLeaf(symComma, 1, 0, 0, 0, 0),
		NewLeaf(symWord, 2, 0, 0, 0, 0),
	}, 0, 0)
	tree := &Tree{
		Lang:   testLang(),
		Source: []byte("ab,cd"),
		Root:   NewInternal(symList, []*Node{pair}, 0, 0),
		Lines:  text.NewLineIndex([]byte("ab,cd")),
	}

	n, span := tree.NodeAt(1)
	if tree.KindName(n) != "word" || span != (text.Span{Start: 0, End: 2}) {
		t.Fatalf("NodeAt(1) = %s %s", tree.KindName(n), span)
	}

	// A boundary offset belongs to the node that starts there.
	n, span = tree.NodeAt(2)
	if tree.KindName(n) != "," || span.Start != 2 {
		t.Fatalf("NodeAt(2) = %s %s, want comma", tree.KindName(n), span)
	}

	// End of input resolves to the root.
	n, _ = tree.NodeAt(5)
	if n != tree.Root {
		t.Fatalf("NodeAt(5) = %s, want root", tree.KindName(n))
	}
}

func TestCursorNavigation(t *testing.T) {
	t.Parallel()

	pair := NewInternal(symPair, []*Node{
		NewLeaf(symWord, 2, 0, 0, 0, 0),
		NewLeaf(symComma, 1, 0, 0, 0, 0),
		NewLeaf(symWord, 2, 0, 0, 0, 0),
	}, 0, 0)
	tree := &Tree{
		Lang:   testLang(),
		Source: []byte("ab,cd"),
		Root:   NewInternal(symList, []*Node{pair}, 0, 0),
		Lines:  text.NewLineIndex([]byte("ab,cd")),
	}

	c := NewCursor(tree)
	if c.KindName() != "list" || c.Depth() != 0 {
		t.Fatalf("cursor starts at %s depth %d", c.KindName(), c.Depth())
	}
	if !c.GoToFirstChild() || c.KindName() != "pair" {
		t.Fatalf("first child = %s", c.KindName())
	}
	if !c.GoToFirstChild() || c.Span() != (text.Span{Start: 0, End: 2}) {
		t.Fatalf("grandchild span = %s", c.Span())
	}
	if !c.GoToNextSibling() || c.Span().Start != 2 {
		t.Fatalf("sibling span = %s", c.Span())
	}
	if !c.GoToNextSibling() || c.Span() != (text.Span{Start: 3, End: 5}) {
		t.Fatalf("last sibling span = %s", c.Span())
	}
	if c.GoToNextSibling() {
		t.Fatal("no sibling after the last child")
	}
	if !c.GoToPrevSibling() || c.KindName() != "," {
		t.Fatalf("previous sibling = %s", c.KindName())
	}
	if !c.GoToParent() || c.KindName() != "pair" {
		t.Fatalf("parent = %s", c.KindName())
	}
	c.Reset()
	if c.Node() != tree.Root {
		t.Fatal("Reset should return to the root")
	}
}

func TestSExprRendering(t *testing.T) {
	t.Parallel()

	pair := NewInternal(symPair, []*Node{
		NewLeaf(symWord, 2, 0, 0, 0, 0),
		NewLeaf(symComma, 1, 0, 0, 0, 0),
		NewMissing(symWord, 0),
	}, 0, 0)
	tree := &Tree{
		Lang:   testLang(),
		Source: []byte("ab,"),
		Root:   NewInternal(symList, []*Node{pair}, 0, 0),
		Lines:  text.NewLineIndex([]byte("ab,")),
	}

	want := "(list (pair (word) (MISSING word)))"
	if got := tree.SExpr(); got != want {
		t.Fatalf("SExpr() = %q, want %q", got, want)
	}
}
