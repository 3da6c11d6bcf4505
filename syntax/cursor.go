package syntax

import "github.com/sapling-lang/sapling/text"

// Cursor navigates a tree while tracking absolute positions, which nodes
// themselves do not store. The zero Cursor is not usable; start with
// NewCursor. A Cursor is cheap to copy and must not be shared across
// goroutines.
type Cursor struct {
	tree  *Tree
	stack []cursorFrame
}

type cursorFrame struct {
	node  *Node
	index int // position in parent's child list, -1 for the root
	start text.ByteOffset
}

// NewCursor returns a cursor positioned at the tree's root.
func NewCursor(t *Tree) *Cursor {
	return &Cursor{
		tree:  t,
		stack: []cursorFrame{{node: t.Root, index: -1}},
	}
}

func (c *Cursor) top() cursorFrame {
	return c.stack[len(c.stack)-1]
}

// Node returns the node the cursor points at.
func (c *Cursor) Node() *Node { return c.top().node }

// Span returns the current node's absolute span.
func (c *Cursor) Span() text.Span {
	f := c.top()
	return text.Span{Start: f.start, End: f.start + f.node.Len()}
}

// KindName returns the current node's grammar name.
func (c *Cursor) KindName() string {
	return c.tree.KindName(c.top().node)
}

// GoToFirstChild descends to the first child. Returns false at a leaf.
func (c *Cursor) GoToFirstChild() bool {
	f := c.top()
	if f.node.ChildCount() == 0 {
		return false
	}
	c.stack = append(c.stack, cursorFrame{
		node:  f.node.Child(0),
		index: 0,
		start: f.start + f.node.ChildStart(0),
	})
	return true
}

// GoToNextSibling moves to the next sibling. Returns false at the last
// child or at the root.
func (c *Cursor) GoToNextSibling() bool {
	if len(c.stack) < 2 {
		return false
	}
	f := c.top()
	parent := c.stack[len(c.stack)-2]
	next := f.index + 1
	if next >= parent.node.ChildCount() {
		return false
	}
	c.stack[len(c.stack)-1] = cursorFrame{
		node:  parent.node.Child(next),
		index: next,
		start: parent.start + parent.node.ChildStart(next),
	}
	return true
}

// GoToPrevSibling moves to the previous sibling. Returns false at the
// first child or at the root.
func (c *Cursor) GoToPrevSibling() bool {
	if len(c.stack) < 2 {
		return false
	}
	f := c.top()
	if f.index == 0 {
		return false
	}
	parent := c.stack[len(c.stack)-2]
	prev := f.index - 1
	c.stack[len(c.stack)-1] = cursorFrame{
		node:  parent.node.Child(prev),
		index: prev,
		start: parent.start + parent.node.ChildStart(prev),
	}
	return true
}

// StartPoint returns the current node's start as a line/column point.
func (c *Cursor) StartPoint() (text.Point, error) {
	return c.tree.Lines.PointFor(c.Span().Start)
}

// EndPoint returns the current node's end as a line/column point.
func (c *Cursor) EndPoint() (text.Point, error) {
	return c.tree.Lines.PointFor(c.Span().End)
}

// GoToParent ascends one level. Returns false at the root.
func (c *Cursor) GoToParent() bool {
	if len(c.stack) < 2 {
		return false
	}
	c.stack = c.stack[:len(c.stack)-1]
	return true
}

// Depth returns how many ancestors the current node has.
func (c *Cursor) Depth() int {
	return len(c.stack) - 1
}

// Reset repositions the cursor at the root.
func (c *Cursor) Reset() {
	c.stack = c.stack[:1]
}
