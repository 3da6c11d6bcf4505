package compile

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sapling-lang/sapling/language"
)

// item is one LR(0) item: a production with a dot position.
type item struct {
	prod int // index into builder.prods
	dot  int
}

// itemSet is a closed, canonically ordered set of items. The kernel comes
// first; ordering makes the key deterministic.
type itemSet struct {
	items []item
}

// key returns a canonical string identity for the set, used to deduplicate
// states during construction.
func (s *itemSet) key() string {
	var sb strings.Builder
	for _, it := range s.items {
		fmt.Fprintf(&sb, "%d.%d;", it.prod, it.dot)
	}
	return sb.String()
}

func (s *itemSet) sortItems() {
	sort.Slice(s.items, func(i, j int) bool {
		if s.items[i].prod != s.items[j].prod {
			return s.items[i].prod < s.items[j].prod
		}
		return s.items[i].dot < s.items[j].dot
	})
}

// automaton is the LR(0) state machine before action table filling.
type automaton struct {
	states      []*itemSet
	transitions []map[language.Symbol]language.StateID
}

// closure expands an item set: whenever the dot sits before a nonterminal,
// every production of that nonterminal joins with the dot at 0.
func closure(b *builder, nonterminalBase language.Symbol, kernel []item) *itemSet {
	seen := map[item]bool{}
	work := append([]item(nil), kernel...)
	var all []item

	for len(work) > 0 {
		it := work[len(work)-1]
		work = work[:len(work)-1]
		if seen[it] {
			continue
		}
		seen[it] = true
		all = append(all, it)

		rhs := b.prods[it.prod].RHS
		if it.dot >= len(rhs) {
			continue
		}
		next := rhs[it.dot]
		if next < nonterminalBase {
			continue
		}
		for pi, p := range b.prods {
			if p.LHS == next {
				work = append(work, item{prod: pi})
			}
		}
	}

	set := &itemSet{items: all}
	set.sortItems()
	return set
}

// buildAutomaton constructs the canonical LR(0) collection from the
// augmented start item. Goto targets are discovered breadth-first so state
// numbering is deterministic for a given grammar.
func buildAutomaton(b *builder, nonterminalBase language.Symbol) (*automaton, error) {
	a := &automaton{}
	index := map[string]language.StateID{}

	add := func(set *itemSet) language.StateID {
		k := set.key()
		if id, ok := index[k]; ok {
			return id
		}
		id := language.StateID(len(a.states))
		index[k] = id
		a.states = append(a.states, set)
		a.transitions = append(a.transitions, map[language.Symbol]language.StateID{})
		return id
	}

	add(closure(b, nonterminalBase, []item{{prod: 0}}))

	for si := 0; si < len(a.states); si++ {
		if si > int(language.NoGoto())-1 {
			return nil, errMalformed("", fmt.Sprintf("state count exceeds %d", language.NoGoto()), nil)
		}

		// Group advanceable items by the symbol after the dot, preserving
		// symbol order for determinism.
		kernels := map[language.Symbol][]item{}
		var order []language.Symbol
		for _, it := range a.states[si].items {
			rhs := b.prods[it.prod].RHS
			if it.dot >= len(rhs) {
				continue
			}
			sym := rhs[it.dot]
			if _, ok := kernels[sym]; !ok {
				order = append(order, sym)
			}
			kernels[sym] = append(kernels[sym], item{prod: it.prod, dot: it.dot + 1})
		}
		sort.Slice(order, func(i, j int) bool { return order[i] < order[j] })

		for _, sym := range order {
			target := add(closure(b, nonterminalBase, kernels[sym]))
			a.transitions[si][sym] = target
		}
	}
	return a, nil
}
