// Package language holds the compiled, immutable form of a grammar: the
// symbol inventory, productions, parser action/goto tables, and lexical
// rules. A Language is built once by the compile package and may be shared
// by any number of concurrent parses without locking.
package language

import (
	"fmt"
	"regexp"
)

// Symbol is a grammar symbol id. Id 0 is reserved for end-of-input;
// terminals occupy the ids below NonterminalBase, nonterminals the ids at
// and above it.
type Symbol uint16

// SymbolEnd is the end-of-input terminal.
const SymbolEnd Symbol = 0

// StateID is a parser state index. State 0 is the start state.
type StateID uint16

// Associativity of a production, from PREC_LEFT / PREC_RIGHT wrappers.
type Associativity uint8

// Associativity values.
const (
	AssocNone Associativity = iota
	AssocLeft
	AssocRight
)

// SymbolInfo describes one symbol.
type SymbolInfo struct {
	Name     string
	Terminal bool
	Named    bool // named nodes surface in the tree under their rule name
	Extra    bool // may appear between any two tokens (whitespace, comments)
	Hidden   bool // synthesized during flattening (repeat helpers, start rule)
}

// Production is a flattened rule LHS -> RHS.
type Production struct {
	LHS           Symbol
	RHS           []Symbol
	Precedence    int
	HasPrecedence bool
	Assoc         Associativity
	// Alias overrides the node kind name produced by a reduce, "" if unset.
	Alias string
	// DeclIndex is the declaration order used for deterministic
	// reduce/reduce resolution.
	DeclIndex int
}

// ActionType identifies a parser action.
type ActionType uint8

// Action types. ActionError is the zero value so an unset table cell is an
// error cell.
const (
	ActionError ActionType = iota
	ActionShift
	ActionReduce
	ActionAccept
)

// Action is one parser table cell.
type Action struct {
	Type       ActionType
	State      StateID // shift target
	Production uint32  // reduce production index
}

func (a Action) String() string {
	switch a.Type {
	case ActionShift:
		return fmt.Sprintf("shift(%d)", a.State)
	case ActionReduce:
		return fmt.Sprintf("reduce(%d)", a.Production)
	case ActionAccept:
		return "accept"
	default:
		return "error"
	}
}

// LexRule is one compiled terminal matcher. Exactly one of Literal and
// Pattern is set.
type LexRule struct {
	Symbol  Symbol
	Literal string
	Pattern *regexp.Regexp
	Extra   bool
	// Lookahead is the number of bytes beyond a match the lexer may have
	// examined; it widens a token's damage zone during incremental reuse.
	Lookahead int
}

// Language is a compiled grammar table.
type Language struct {
	Name string

	Symbols         []SymbolInfo
	NonterminalBase Symbol
	Productions     []Production

	// Actions is indexed [state][terminal]; Gotos is indexed
	// [state][nonterminal-NonterminalBase].
	Actions [][]Action
	Gotos   [][]StateID

	LexRules []LexRule

	// Entry is the grammar's first declared rule.
	Entry Symbol
}

// SymbolCount returns the total number of symbols, terminals included.
func (l *Language) SymbolCount() int {
	return len(l.Symbols)
}

// StateCount returns the number of parser states.
func (l *Language) StateCount() int {
	return len(l.Actions)
}

// SymbolName resolves a symbol id to its grammar name.
func (l *Language) SymbolName(s Symbol) string {
	if int(s) >= len(l.Symbols) {
		return fmt.Sprintf("symbol(%d)", s)
	}
	return l.Symbols[s].Name
}

// SymbolByName returns the id of the named symbol.
func (l *Language) SymbolByName(name string) (Symbol, bool) {
	for i, info := range l.Symbols {
		if info.Name == name {
			return Symbol(i), true
		}
	}
	return 0, false
}

// IsTerminal reports whether s is a terminal symbol.
func (l *Language) IsTerminal(s Symbol) bool {
	return s < l.NonterminalBase
}

// IsExtra reports whether s is an extra terminal.
func (l *Language) IsExtra(s Symbol) bool {
	return int(s) < len(l.Symbols) && l.Symbols[s].Extra
}

// ActionFor returns the table cell for (state, terminal).
func (l *Language) ActionFor(state StateID, sym Symbol) Action {
	if int(state) >= len(l.Actions) || int(sym) >= len(l.Actions[state]) {
		return Action{}
	}
	return l.Actions[state][sym]
}

// GotoFor returns the goto target for (state, nonterminal), or false if the
// table has no transition.
func (l *Language) GotoFor(state StateID, sym Symbol) (StateID, bool) {
	if sym < l.NonterminalBase {
		return 0, false
	}
	idx := int(sym - l.NonterminalBase)
	if int(state) >= len(l.Gotos) || idx >= len(l.Gotos[state]) {
		return 0, false
	}
	target := l.Gotos[state][idx]
	if target == noGoto {
		return 0, false
	}
	return target, true
}

// ExpectedTerminals returns the terminals with a non-error action in state,
// in symbol order. Used by error recovery and diagnostics.
func (l *Language) ExpectedTerminals(state StateID) []Symbol {
	if int(state) >= len(l.Actions) {
		return nil
	}
	var out []Symbol
	for sym, act := range l.Actions[state] {
		if act.Type != ActionError {
			out = append(out, Symbol(sym))
		}
	}
	return out
}

// noGoto marks the absence of a goto transition.
const noGoto = StateID(0xFFFF)

// NoGoto returns the sentinel used in Gotos for missing transitions.
func NoGoto() StateID { return noGoto }
