// Package grammar models the external grammar description format: the rule
// combinators of tree-sitter's grammar.json schema, loadable from JSON or
// YAML, together with structural validation. The compile package turns a
// validated Grammar into parse tables.
package grammar

// RuleType is the discriminant identifying what kind of rule a node is.
type RuleType string

// Rule combinators recognized in grammar descriptions.
const (
	TypeBlank          RuleType = "BLANK"
	TypeString         RuleType = "STRING"
	TypePattern        RuleType = "PATTERN"
	TypeSymbol         RuleType = "SYMBOL"
	TypeChoice         RuleType = "CHOICE"
	TypeSeq            RuleType = "SEQ"
	TypeRepeat         RuleType = "REPEAT"
	TypeRepeat1        RuleType = "REPEAT1"
	TypePrec           RuleType = "PREC"
	TypePrecLeft       RuleType = "PREC_LEFT"
	TypePrecRight      RuleType = "PREC_RIGHT"
	TypePrecDynamic    RuleType = "PREC_DYNAMIC"
	TypeField          RuleType = "FIELD"
	TypeAlias          RuleType = "ALIAS"
	TypeToken          RuleType = "TOKEN"
	TypeImmediateToken RuleType = "IMMEDIATE_TOKEN"
	TypeReserved       RuleType = "RESERVED"
)

// Rule is one node in a grammar's rule graph. A rule can be atomic (a
// literal or pattern) or composite (a sequence, choice, or precedence
// wrapper over nested rules).
type Rule struct {
	// Type identifies the combinator.
	Type RuleType

	// StringValue holds the literal text of STRING rules and the pattern
	// source of PATTERN rules.
	StringValue string

	// IntValue holds the numeric precedence of PREC* wrappers.
	IntValue int

	// Name is the referenced rule for SYMBOL, the field name for FIELD,
	// and the alias name for ALIAS.
	Name string

	// Content is the nested rule of unary combinators (REPEAT, PREC, ...).
	Content *Rule

	// Members are the child rules of SEQ and CHOICE.
	Members []*Rule

	// Named reports whether an ALIAS produces a named node.
	Named bool
}

// Grammar is a full grammar definition as parsed from its serialized form.
// Rule declaration order is preserved: the first rule is the entry point.
type Grammar struct {
	Name string

	// RuleNames lists rule identifiers in declaration order.
	RuleNames []string
	// Rules maps each identifier to its definition.
	Rules map[string]*Rule

	// Extras may appear between any two tokens (whitespace, comments).
	Extras []*Rule

	// Externals declares externally scanned rules. External scanners are
	// unsupported; validation rejects a grammar that declares any.
	Externals []*Rule

	// Inline names rules to be inlined into their use sites.
	Inline []string

	// Conflicts whitelists rule groups whose table conflicts are expected
	// and resolved by declaration order.
	Conflicts [][]string

	// Word names the rule used for keyword extraction.
	Word string

	// Supertypes groups related syntactic forms; accepted and unused.
	Supertypes []string
}

// Rule returns the named rule's definition, or nil.
func (g *Grammar) Rule(name string) *Rule {
	if g == nil {
		return nil
	}
	return g.Rules[name]
}

// EntryRule returns the name of the first declared rule, the grammar's
// entry point by convention.
func (g *Grammar) EntryRule() string {
	if g == nil || len(g.RuleNames) == 0 {
		return ""
	}
	return g.RuleNames[0]
}

// IsTerminal reports whether the rule is a lexical token (literal or
// pattern).
func (r *Rule) IsTerminal() bool {
	return r != nil && (r.Type == TypeString || r.Type == TypePattern)
}

// Precedence returns the numeric precedence of a PREC* wrapper.
func (r *Rule) Precedence() (int, bool) {
	if r == nil {
		return 0, false
	}
	switch r.Type {
	case TypePrec, TypePrecLeft, TypePrecRight, TypePrecDynamic:
		return r.IntValue, true
	default:
		return 0, false
	}
}

// children returns the nested rules, whatever the combinator shape.
func (r *Rule) children() []*Rule {
	if r == nil {
		return nil
	}
	if r.Content != nil {
		return []*Rule{r.Content}
	}
	return r.Members
}

// Walk visits r and every nested rule in depth-first order.
func (r *Rule) Walk(visit func(*Rule)) {
	if r == nil {
		return
	}
	visit(r)
	for _, c := range r.children() {
		c.Walk(visit)
	}
}
