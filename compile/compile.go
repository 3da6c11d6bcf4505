// Package compile builds parse tables from grammar descriptions. The
// pipeline flattens the rule combinators into plain productions, runs SLR
// set analysis, constructs the LR(0) automaton, and fills the action and
// goto tables, resolving conflicts by precedence and declaration order.
// Compilation either succeeds completely or returns a *CompileError; no
// partial Language is ever produced.
package compile

import (
	"fmt"

	"github.com/sapling-lang/sapling/grammar"
	"github.com/sapling-lang/sapling/language"
)

// Grammar compiles g into an immutable Language ready for parsing. The
// grammar should already have passed grammar.Validate; compilation repeats
// the checks it depends on (defined symbols, no externals) so a Language can
// never be built from a structurally broken grammar.
func Grammar(g *grammar.Grammar) (*language.Language, error) {
	if g == nil || len(g.RuleNames) == 0 {
		return nil, errMalformed("", "grammar has no rules", nil)
	}
	if len(g.Externals) > 0 {
		return nil, errMalformed("", "external scanner rules are not supported", nil)
	}

	b, err := flatten(g)
	if err != nil {
		return nil, err
	}

	nonterminalBase := countTerminals(b)
	if len(b.symbols) > int(language.NoGoto()) {
		return nil, errMalformed("", fmt.Sprintf("symbol count exceeds %d", language.NoGoto()), nil)
	}

	sets := analyze(b, nonterminalBase)
	auto, err := buildAutomaton(b, nonterminalBase)
	if err != nil {
		return nil, err
	}
	actions, gotos, err := buildTables(b, auto, sets, nonterminalBase)
	if err != nil {
		return nil, err
	}
	lexRules, err := compileLexRules(b)
	if err != nil {
		return nil, err
	}

	return &language.Language{
		Name:            g.Name,
		Symbols:         b.symbols,
		NonterminalBase: nonterminalBase,
		Productions:     b.prods,
		Actions:         actions,
		Gotos:           gotos,
		LexRules:        lexRules,
		Entry:           b.ntIDs[g.EntryRule()],
	}, nil
}

// countTerminals returns the id of the first nonterminal. Flattening numbers
// every terminal before any nonterminal, so this is a prefix length.
func countTerminals(b *builder) language.Symbol {
	for i, info := range b.symbols {
		if !info.Terminal {
			return language.Symbol(i)
		}
	}
	return language.Symbol(len(b.symbols))
}
