package parser

import (
	"github.com/sapling-lang/sapling/language"
	"github.com/sapling-lang/sapling/syntax"
	"github.com/sapling-lang/sapling/text"
)

// reuseCursor walks the previous tree in pre-order offering subtrees that
// survived the edit. A subtree qualifies only when its whole byte footprint
// (span plus trailing lexer lookahead) lies strictly before the edit, or
// its span starts at or after the edited old range; everything overlapping
// the damage is reparsed from bytes.
type reuseCursor struct {
	edit  text.Edit
	delta text.ByteOffset
	stack []reuseFrame
}

type reuseFrame struct {
	node     *syntax.Node
	oldStart text.ByteOffset
}

func newReuseCursor(old *syntax.Tree, edit text.Edit) *reuseCursor {
	return &reuseCursor{
		edit:  edit,
		delta: edit.Delta(),
		stack: []reuseFrame{{node: old.Root}},
	}
}

// classify reports whether the node's footprint avoids the damage zone and,
// if so, its start offset in new-source coordinates.
func (rc *reuseCursor) classify(n *syntax.Node, oldStart text.ByteOffset) (text.ByteOffset, bool) {
	oldEnd := oldStart + n.Len()
	switch {
	case oldEnd+text.ByteOffset(n.TrailingLookahead()) <= rc.edit.Start:
		return oldStart, true
	case oldStart >= rc.edit.OldEnd:
		return oldStart + rc.delta, true
	default:
		return 0, false
	}
}

// candidate returns the largest surviving subtree starting exactly at pos
// (new coordinates), or nil. The returned node stays current until the
// caller calls accept or reject; repeated calls with the same pos after
// reject yield progressively smaller candidates.
func (rc *reuseCursor) candidate(pos text.ByteOffset) *syntax.Node {
	for len(rc.stack) > 0 {
		f := rc.stack[len(rc.stack)-1]
		n := f.node

		newStart, ok := rc.classify(n, f.oldStart)
		if !ok {
			// Footprint overlaps the edit; children before the damage may
			// still survive.
			if n.IsLeaf() {
				rc.accept()
				continue
			}
			rc.reject()
			continue
		}

		switch {
		case newStart+n.Len() <= pos:
			rc.accept() // wholly behind the parse position
		case newStart > pos:
			return nil
		case newStart == pos && n.Len() > 0 && !n.HasError():
			return n
		default:
			if n.IsLeaf() {
				rc.accept()
				continue
			}
			rc.reject()
		}
	}
	return nil
}

// accept discards the current subtree from the walk (it was reused or
// passed over whole).
func (rc *reuseCursor) accept() {
	rc.stack = rc.stack[:len(rc.stack)-1]
}

// reject replaces the current subtree with its children, exposing smaller
// reuse candidates.
func (rc *reuseCursor) reject() {
	f := rc.stack[len(rc.stack)-1]
	rc.stack = rc.stack[:len(rc.stack)-1]
	for i := f.node.ChildCount() - 1; i >= 0; i-- {
		rc.stack = append(rc.stack, reuseFrame{
			node:     f.node.Child(i),
			oldStart: f.oldStart + f.node.ChildStart(i),
		})
	}
}

// tryReuse attempts to graft a surviving subtree at the lexer's position.
// Reductions pending under the subtree's first token are applied first, so
// a subtree can be reused even when the automaton still has to fold the
// preceding phrase.
func (r *run) tryReuse() bool {
	pos := r.lx.Pos()
	for {
		n := r.rc.candidate(pos)
		if n == nil {
			return false
		}
		if r.graft(n) {
			r.rc.accept()
			r.lx.SeekTo(pos + n.Len())
			r.trace("reuse", "kind", r.p.lang.SymbolName(n.Kind()), "at", pos, "len", n.Len())
			return true
		}
		r.rc.reject()
	}
}

// graft pushes a reused subtree onto the parse stack if the automaton can
// take it here. Extras ride along neutrally; terminals need a shift action
// and nonterminals a goto transition.
func (r *run) graft(n *syntax.Node) bool {
	lang := r.p.lang
	kind := n.Kind()

	if n.IsExtra() {
		r.pushNeutral(n)
		return true
	}

	// Drive reductions with the subtree's leading token as lookahead; those
	// reduces are exactly what consuming that token would do.
	if la, ok := firstGrammarToken(n); ok {
		for steps := 0; steps < maxActionsPerToken; steps++ {
			act := lang.ActionFor(r.top().state, la)
			if act.Type != language.ActionReduce {
				break
			}
			if err := r.reduce(act.Production); err != nil {
				return false
			}
		}
	}

	state := r.top().state
	if lang.IsTerminal(kind) {
		act := lang.ActionFor(state, kind)
		if act.Type != language.ActionShift {
			return false
		}
		r.push(n, act.State, false)
		r.budget = r.p.missing
		return true
	}
	// A goto transition alone is not enough: the node must land in the same
	// state it was completed in originally, or the surrounding phrase would
	// fold differently than a from-scratch parse.
	target, ok := lang.GotoFor(state, kind)
	if !ok || target != n.State() {
		return false
	}
	r.push(n, target, false)
	return true
}

// firstGrammarToken returns the kind of the subtree's first non-extra
// token.
func firstGrammarToken(n *syntax.Node) (language.Symbol, bool) {
	if n.IsLeaf() {
		if n.IsExtra() {
			return 0, false
		}
		return n.Kind(), true
	}
	for i := 0; i < n.ChildCount(); i++ {
		if kind, ok := firstGrammarToken(n.Child(i)); ok {
			return kind, true
		}
	}
	return 0, false
}
