// Package syntax defines the immutable parse tree. Nodes store their byte
// length and newline count rather than absolute positions, so a subtree can
// be shared between the trees before and after an edit without rewriting
// offsets: absolute spans are derived while walking down from the root.
package syntax

import (
	"github.com/sapling-lang/sapling/language"
	"github.com/sapling-lang/sapling/text"
)

// NodeFlags carries per-node facts.
type NodeFlags uint8

// Node flag bits.
const (
	// FlagError marks a node wrapping input the parser could not place.
	FlagError NodeFlags = 1 << iota
	// FlagMissing marks a zero-width token inserted during recovery.
	FlagMissing
	// FlagExtra marks whitespace and comment tokens.
	FlagExtra
	// FlagHasError is set on every node whose subtree contains an error or
	// missing node.
	FlagHasError
)

// Node is one immutable tree node. A Node never changes after construction
// and may belong to several trees at once; all mutation happens by building
// new parents around shared children.
type Node struct {
	kind      language.Symbol
	flags     NodeFlags
	length    text.ByteOffset
	newlines  int
	lookahead int
	// state is the parser state this node was completed in. Incremental
	// reparsing only reuses a subtree where the running automaton reaches
	// the same state.
	state language.StateID

	children []*Node
	// starts[i] is children[i]'s offset relative to this node's start.
	starts []text.ByteOffset
}

// NewLeaf builds a token node.
func NewLeaf(kind language.Symbol, length text.ByteOffset, newlines, lookahead int, state language.StateID, flags NodeFlags) *Node {
	if flags&(FlagError|FlagMissing) != 0 {
		flags |= FlagHasError
	}
	return &Node{
		kind:      kind,
		flags:     flags,
		length:    length,
		newlines:  newlines,
		lookahead: lookahead,
		state:     state,
	}
}

// NewMissing builds the zero-width placeholder recovery inserts for an
// expected but absent token.
func NewMissing(kind language.Symbol, state language.StateID) *Node {
	return NewLeaf(kind, 0, 0, 0, state, FlagMissing)
}

// NewInternal builds an interior node over contiguous children. Length,
// newline count, and error propagation are derived from the children.
func NewInternal(kind language.Symbol, children []*Node, state language.StateID, flags NodeFlags) *Node {
	n := &Node{
		kind:     kind,
		flags:    flags,
		state:    state,
		children: children,
		starts:   make([]text.ByteOffset, len(children)),
	}
	for i, c := range children {
		n.starts[i] = n.length
		n.length += c.length
		n.newlines += c.newlines
		if c.flags&FlagHasError != 0 {
			n.flags |= FlagHasError
		}
	}
	if n.flags&(FlagError|FlagMissing) != 0 {
		n.flags |= FlagHasError
	}
	return n
}

// Kind returns the node's symbol id.
func (n *Node) Kind() language.Symbol { return n.kind }

// Flags returns the node's flag bits.
func (n *Node) Flags() NodeFlags { return n.flags }

// IsError reports whether the node wraps unplaceable input.
func (n *Node) IsError() bool { return n.flags&FlagError != 0 }

// IsMissing reports whether the node was inserted by recovery.
func (n *Node) IsMissing() bool { return n.flags&FlagMissing != 0 }

// IsExtra reports whether the node is whitespace or a comment.
func (n *Node) IsExtra() bool { return n.flags&FlagExtra != 0 }

// HasError reports whether the subtree contains any error or missing node.
func (n *Node) HasError() bool { return n.flags&FlagHasError != 0 }

// IsLeaf reports whether the node has no children.
func (n *Node) IsLeaf() bool { return len(n.children) == 0 }

// Len returns the subtree's byte length.
func (n *Node) Len() text.ByteOffset { return n.length }

// Newlines returns the number of line feeds in the subtree.
func (n *Node) Newlines() int { return n.newlines }

// Lookahead returns how many bytes past the node's end the lexer examined
// while producing it. Zero for interior nodes, whose footprint is their
// children's.
func (n *Node) Lookahead() int { return n.lookahead }

// State returns the parser state the node was completed in.
func (n *Node) State() language.StateID { return n.state }

// TrailingLookahead returns the lookahead of the subtree's last token: how
// many bytes past the subtree's end the lexer examined. An edit within that
// distance invalidates the subtree even though it ends before the edit.
func (n *Node) TrailingLookahead() int {
	for len(n.children) > 0 {
		n = n.children[len(n.children)-1]
	}
	return n.lookahead
}

// ChildCount returns the number of children.
func (n *Node) ChildCount() int { return len(n.children) }

// Child returns the i-th child, or nil if out of range.
func (n *Node) Child(i int) *Node {
	if i < 0 || i >= len(n.children) {
		return nil
	}
	return n.children[i]
}

// ChildStart returns the i-th child's offset relative to the node's start.
func (n *Node) ChildStart(i int) text.ByteOffset {
	if i < 0 || i >= len(n.starts) {
		return 0
	}
	return n.starts[i]
}

// childContaining returns the index of the child whose half-open span
// contains the relative offset, or -1. Zero-width children contain nothing.
func (n *Node) childContaining(rel text.ByteOffset) int {
	lo, hi := 0, len(n.children)-1
	for lo <= hi {
		mid := (lo + hi) / 2
		start := n.starts[mid]
		end := start + n.children[mid].length
		switch {
		case rel < start:
			hi = mid - 1
		case rel >= end:
			lo = mid + 1
		default:
			return mid
		}
	}
	return -1
}
