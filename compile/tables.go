package compile

import (
	"fmt"

	"github.com/sapling-lang/sapling/language"
)

// buildTables fills the ACTION and GOTO tables from the LR(0) automaton and
// FOLLOW sets (SLR(1)). Conflicts are resolved by the documented policy:
//
//   - shift/reduce: when both sides declare precedence, the higher level
//     wins; at equal levels left associativity reduces and right
//     associativity shifts. Without precedence on both sides, shift wins.
//   - reduce/reduce: the higher declared precedence wins. Otherwise the
//     conflict must be whitelisted in the grammar's conflicts list, in
//     which case the earlier-declared production wins; unlisted conflicts
//     fail compilation.
func buildTables(b *builder, a *automaton, sets *symbolSets, nonterminalBase language.Symbol) ([][]language.Action, [][]language.StateID, error) {
	numStates := len(a.states)
	numTerminals := int(nonterminalBase)
	numNonterminals := len(b.symbols) - numTerminals

	actions := make([][]language.Action, numStates)
	gotos := make([][]language.StateID, numStates)
	for i := range actions {
		actions[i] = make([]language.Action, numTerminals)
		gotos[i] = make([]language.StateID, numNonterminals)
		for j := range gotos[i] {
			gotos[i][j] = language.NoGoto()
		}
	}

	whitelisted := conflictWhitelist(b)

	for si, set := range a.states {
		state := language.StateID(si)

		for sym, target := range a.transitions[si] {
			if sym < nonterminalBase {
				actions[si][sym] = language.Action{Type: language.ActionShift, State: target}
			} else {
				gotos[si][sym-nonterminalBase] = target
			}
		}

		for _, it := range set.items {
			prod := b.prods[it.prod]
			if it.dot < len(prod.RHS) {
				continue
			}

			if it.prod == 0 {
				actions[si][language.SymbolEnd] = language.Action{Type: language.ActionAccept}
				continue
			}

			reduce := language.Action{Type: language.ActionReduce, Production: uint32(it.prod)}
			for _, la := range sets.follow[prod.LHS].members() {
				resolved, err := resolveConflict(b, state, la, actions[si][la], reduce, set, whitelisted)
				if err != nil {
					return nil, nil, err
				}
				actions[si][la] = resolved
			}
		}
	}
	return actions, gotos, nil
}

// conflictWhitelist flattens the grammar's conflicts groups into a pair set
// keyed on rule names.
func conflictWhitelist(b *builder) map[[2]string]bool {
	out := map[[2]string]bool{}
	for _, group := range b.g.Conflicts {
		for _, x := range group {
			for _, y := range group {
				out[[2]string{x, y}] = true
			}
		}
	}
	return out
}

func resolveConflict(b *builder, state language.StateID, la language.Symbol, existing, reduce language.Action, set *itemSet, whitelisted map[[2]string]bool) (language.Action, error) {
	switch existing.Type {
	case language.ActionError:
		return reduce, nil

	case language.ActionShift:
		rp := b.prods[reduce.Production]
		shiftPrec, shiftHas := shiftPrecedence(b, set, la)
		if rp.HasPrecedence && shiftHas {
			switch {
			case rp.Precedence > shiftPrec:
				return reduce, nil
			case rp.Precedence < shiftPrec:
				return existing, nil
			case rp.Assoc == language.AssocLeft:
				return reduce, nil
			default:
				return existing, nil
			}
		}
		// Preferring shift gives dangling-else style grammars the longest
		// match without annotations.
		return existing, nil

	case language.ActionReduce:
		a := b.prods[existing.Production]
		c := b.prods[reduce.Production]
		switch {
		case a.HasPrecedence && c.HasPrecedence && a.Precedence != c.Precedence:
			if a.Precedence > c.Precedence {
				return existing, nil
			}
			return reduce, nil
		case whitelisted[[2]string{b.conflictName(a.LHS), b.conflictName(c.LHS)}]:
			if a.DeclIndex <= c.DeclIndex {
				return existing, nil
			}
			return reduce, nil
		default:
			return language.Action{}, errAmbiguous(fmt.Sprintf(
				"state %d: reduce/reduce conflict on %q between %q and %q",
				state, b.symbols[la].Name, b.symbols[a.LHS].Name, b.symbols[c.LHS].Name))
		}

	case language.ActionAccept:
		return language.Action{}, errAmbiguous(fmt.Sprintf(
			"state %d: reduce conflicts with accept on %q", state, b.symbols[la].Name))

	default:
		return existing, nil
	}
}

// shiftPrecedence returns the strongest precedence declared by any item in
// the state whose dot sits immediately before the lookahead terminal; that
// production is the one a shift would be building.
func shiftPrecedence(b *builder, set *itemSet, la language.Symbol) (int, bool) {
	best, found := 0, false
	for _, it := range set.items {
		prod := b.prods[it.prod]
		if it.dot >= len(prod.RHS) || prod.RHS[it.dot] != la || !prod.HasPrecedence {
			continue
		}
		if !found || prod.Precedence > best {
			best = prod.Precedence
			found = true
		}
	}
	return best, found
}
