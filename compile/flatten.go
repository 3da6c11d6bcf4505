package compile

import (
	"fmt"
	"strings"

	"github.com/sapling-lang/sapling/grammar"
	"github.com/sapling-lang/sapling/language"
)

// lexSpec is a terminal's lexical definition before regexp compilation.
type lexSpec struct {
	sym     language.Symbol
	literal string
	pattern string
	extra   bool
}

// builder accumulates the flattened symbol inventory and productions.
type builder struct {
	g *grammar.Grammar

	symbols  []language.SymbolInfo
	termIDs  map[string]language.Symbol // intern key -> terminal id
	ntIDs    map[string]language.Symbol // rule/helper name -> nonterminal id
	termRule map[string]bool            // rule name -> compiles to a terminal
	lexSpecs []lexSpec

	prods   []language.Production
	helpers []helperRule
	origins map[language.Symbol]string // helper symbol -> originating rule
	start   language.Symbol
}

// helperRule is a synthesized repetition nonterminal awaiting expansion.
type helperRule struct {
	sym       language.Symbol
	content   *grammar.Rule
	ctx       string // rule the helper was synthesized for
	oneOrMore bool
}

// alt is one alternative right-hand side produced by rule expansion.
type alt struct {
	syms    []language.Symbol
	prec    int
	hasPrec bool
	assoc   language.Associativity
}

const startRuleName = "$start"

// flatten turns the combinator grammar into numbered symbols and plain
// productions. Terminals are discovered in a pre-scan so their ids stay
// below every nonterminal id.
func flatten(g *grammar.Grammar) (*builder, error) {
	b := &builder{
		g:        g,
		termIDs:  map[string]language.Symbol{},
		ntIDs:    map[string]language.Symbol{},
		termRule: map[string]bool{},
		origins:  map[language.Symbol]string{},
	}

	if err := b.collectTerminals(); err != nil {
		return nil, err
	}
	if err := b.numberNonterminals(); err != nil {
		return nil, err
	}
	if err := b.expandRules(); err != nil {
		return nil, err
	}
	return b, nil
}

func internKeyLiteral(text string) string { return "lit\x00" + text }
func internKeyPattern(src string) string  { return "pat\x00" + src }
func internKeyRule(name string) string    { return "rule\x00" + name }

// terminalDefinition unwraps TOKEN/IMMEDIATE_TOKEN and reports whether the
// rule body is a single literal or pattern.
func terminalDefinition(r *grammar.Rule) (*grammar.Rule, bool) {
	for r != nil && (r.Type == grammar.TypeToken || r.Type == grammar.TypeImmediateToken) {
		r = r.Content
	}
	if r != nil && (r.Type == grammar.TypeString || r.Type == grammar.TypePattern) {
		return r, true
	}
	return nil, false
}

func (b *builder) collectTerminals() error {
	// Symbol 0 is the end-of-input terminal.
	b.symbols = append(b.symbols, language.SymbolInfo{Name: "end", Terminal: true, Hidden: true})

	// Named terminal rules first, in declaration order.
	for _, name := range b.g.RuleNames {
		def, ok := terminalDefinition(b.g.Rules[name])
		if !ok {
			continue
		}
		if def.StringValue == "" {
			return errMalformed(name, "terminal rule with empty value", nil)
		}
		b.termRule[name] = true
		sym := b.addTerminal(internKeyRule(name), language.SymbolInfo{
			Name:     name,
			Terminal: true,
			Named:    !strings.HasPrefix(name, "_"),
			Hidden:   strings.HasPrefix(name, "_"),
		})
		b.setLexSpec(sym, def)
	}

	// Anonymous literals and patterns referenced inside nonterminal rules.
	for _, name := range b.g.RuleNames {
		if b.termRule[name] {
			continue
		}
		var err error
		b.g.Rules[name].Walk(func(r *grammar.Rule) {
			if err == nil {
				err = b.internAnonymous(r, false)
			}
		})
		if err != nil {
			return err
		}
	}

	// Extras: anonymous definitions or references to terminal rules.
	for i, r := range b.g.Extras {
		switch {
		case r.Type == grammar.TypeSymbol:
			if !b.termRule[r.Name] {
				return errMalformed(r.Name, fmt.Sprintf("extras[%d] references a non-terminal rule", i), nil)
			}
			sym := b.termIDs[internKeyRule(r.Name)]
			b.symbols[sym].Extra = true
			b.markLexExtra(sym)
		default:
			if _, ok := terminalDefinition(r); !ok {
				return errMalformed("", fmt.Sprintf("extras[%d] is not a token definition", i), nil)
			}
			if err := b.internAnonymous(unwrapToken(r), true); err != nil {
				return err
			}
		}
	}
	return nil
}

func unwrapToken(r *grammar.Rule) *grammar.Rule {
	for r != nil && (r.Type == grammar.TypeToken || r.Type == grammar.TypeImmediateToken) {
		r = r.Content
	}
	return r
}

// internAnonymous interns a STRING or PATTERN occurrence as an anonymous
// terminal. Other rule types are ignored.
func (b *builder) internAnonymous(r *grammar.Rule, extra bool) error {
	var key string
	switch r.Type {
	case grammar.TypeString:
		if r.StringValue == "" {
			return errMalformed("", "STRING rule with empty value", nil)
		}
		key = internKeyLiteral(r.StringValue)
	case grammar.TypePattern:
		if r.StringValue == "" {
			return errMalformed("", "PATTERN rule with empty value", nil)
		}
		key = internKeyPattern(r.StringValue)
	default:
		return nil
	}

	if sym, ok := b.termIDs[key]; ok {
		if extra {
			b.symbols[sym].Extra = true
			b.markLexExtra(sym)
		}
		return nil
	}
	sym := b.addTerminal(key, language.SymbolInfo{
		Name:     r.StringValue,
		Terminal: true,
		Extra:    extra,
	})
	b.setLexSpec(sym, r)
	if extra {
		b.markLexExtra(sym)
	}
	return nil
}

func (b *builder) addTerminal(key string, info language.SymbolInfo) language.Symbol {
	sym := language.Symbol(len(b.symbols))
	b.symbols = append(b.symbols, info)
	b.termIDs[key] = sym
	return sym
}

func (b *builder) setLexSpec(sym language.Symbol, def *grammar.Rule) {
	spec := lexSpec{sym: sym}
	if def.Type == grammar.TypeString {
		spec.literal = def.StringValue
	} else {
		spec.pattern = def.StringValue
	}
	b.lexSpecs = append(b.lexSpecs, spec)
}

func (b *builder) markLexExtra(sym language.Symbol) {
	for i := range b.lexSpecs {
		if b.lexSpecs[i].sym == sym {
			b.lexSpecs[i].extra = true
		}
	}
}

func (b *builder) numberNonterminals() error {
	for _, name := range b.g.RuleNames {
		if b.termRule[name] {
			continue
		}
		b.ntIDs[name] = language.Symbol(len(b.symbols))
		b.symbols = append(b.symbols, language.SymbolInfo{
			Name:   name,
			Named:  !strings.HasPrefix(name, "_"),
			Hidden: strings.HasPrefix(name, "_"),
		})
	}

	entry := b.g.EntryRule()
	if b.termRule[entry] {
		return errMalformed(entry, "entry rule must not be a terminal", nil)
	}
	if _, ok := b.ntIDs[entry]; !ok {
		return errMalformed(entry, "entry rule is not defined", nil)
	}

	// Augmented start rule anchors acceptance at end-of-input.
	b.start = language.Symbol(len(b.symbols))
	b.symbols = append(b.symbols, language.SymbolInfo{Name: startRuleName, Hidden: true})
	b.prods = append(b.prods, language.Production{
		LHS: b.start,
		RHS: []language.Symbol{b.ntIDs[entry]},
	})
	return nil
}

func (b *builder) expandRules() error {
	for _, name := range b.g.RuleNames {
		if b.termRule[name] {
			continue
		}
		alts, err := b.expand(b.g.Rules[name], name)
		if err != nil {
			return err
		}
		b.emitProductions(b.ntIDs[name], alts)
	}

	// Helpers may synthesize further helpers; drain until settled.
	for i := 0; i < len(b.helpers); i++ {
		h := b.helpers[i]
		alts, err := b.expand(h.content, h.ctx)
		if err != nil {
			return err
		}
		var out []alt
		if !h.oneOrMore {
			out = append(out, alt{})
		}
		for _, a := range alts {
			if h.oneOrMore {
				out = append(out, alt{syms: a.syms})
			}
			out = append(out, alt{syms: append([]language.Symbol{h.sym}, a.syms...)})
		}
		b.emitProductions(h.sym, out)
	}
	return nil
}

func (b *builder) emitProductions(lhs language.Symbol, alts []alt) {
	for _, a := range alts {
		b.prods = append(b.prods, language.Production{
			LHS:           lhs,
			RHS:           a.syms,
			Precedence:    a.prec,
			HasPrecedence: a.hasPrec,
			Assoc:         a.assoc,
			DeclIndex:     len(b.prods),
		})
	}
}

func (b *builder) newHelper(ctx string, content *grammar.Rule, oneOrMore bool) language.Symbol {
	sym := language.Symbol(len(b.symbols))
	b.symbols = append(b.symbols, language.SymbolInfo{
		Name:   fmt.Sprintf("_%s_repeat%d", ctx, len(b.helpers)+1),
		Hidden: true,
	})
	b.helpers = append(b.helpers, helperRule{sym: sym, content: content, ctx: ctx, oneOrMore: oneOrMore})
	b.origins[sym] = ctx
	return sym
}

// conflictName resolves a symbol to the name grammar authors use in the
// conflicts list: synthesized repetition helpers count as the rule they
// were expanded from.
func (b *builder) conflictName(sym language.Symbol) string {
	if origin, ok := b.origins[sym]; ok {
		return origin
	}
	return b.symbols[sym].Name
}

// expand turns a rule body into its alternative RHS sequences. Precedence
// wrappers apply to every alternative they enclose; wrappers nested inside a
// SEQ member affect only flattening, not the produced production.
func (b *builder) expand(r *grammar.Rule, ctx string) ([]alt, error) {
	if r == nil {
		return nil, errMalformed(ctx, "missing rule content", nil)
	}

	switch r.Type {
	case grammar.TypeBlank:
		return []alt{{}}, nil

	case grammar.TypeString:
		sym, ok := b.termIDs[internKeyLiteral(r.StringValue)]
		if !ok {
			return nil, errMalformed(ctx, fmt.Sprintf("uninterned literal %q", r.StringValue), nil)
		}
		return []alt{{syms: []language.Symbol{sym}}}, nil

	case grammar.TypePattern:
		sym, ok := b.termIDs[internKeyPattern(r.StringValue)]
		if !ok {
			return nil, errMalformed(ctx, fmt.Sprintf("uninterned pattern %q", r.StringValue), nil)
		}
		return []alt{{syms: []language.Symbol{sym}}}, nil

	case grammar.TypeSymbol:
		if b.termRule[r.Name] {
			return []alt{{syms: []language.Symbol{b.termIDs[internKeyRule(r.Name)]}}}, nil
		}
		if sym, ok := b.ntIDs[r.Name]; ok {
			return []alt{{syms: []language.Symbol{sym}}}, nil
		}
		return nil, errUnknown(ctx, fmt.Sprintf("undefined symbol %q", r.Name))

	case grammar.TypeSeq:
		acc := []alt{{}}
		for _, m := range r.Members {
			malts, err := b.expand(m, ctx)
			if err != nil {
				return nil, err
			}
			var next []alt
			for _, a := range acc {
				for _, ma := range malts {
					syms := make([]language.Symbol, 0, len(a.syms)+len(ma.syms))
					syms = append(syms, a.syms...)
					syms = append(syms, ma.syms...)
					next = append(next, alt{syms: syms})
				}
			}
			acc = next
		}
		return acc, nil

	case grammar.TypeChoice:
		var out []alt
		for _, m := range r.Members {
			malts, err := b.expand(m, ctx)
			if err != nil {
				return nil, err
			}
			out = append(out, malts...)
		}
		return out, nil

	case grammar.TypeRepeat, grammar.TypeRepeat1:
		helper := b.newHelper(ctx, r.Content, r.Type == grammar.TypeRepeat1)
		return []alt{{syms: []language.Symbol{helper}}}, nil

	case grammar.TypePrec, grammar.TypePrecLeft, grammar.TypePrecRight, grammar.TypePrecDynamic:
		alts, err := b.expand(r.Content, ctx)
		if err != nil {
			return nil, err
		}
		assoc := language.AssocNone
		switch r.Type {
		case grammar.TypePrecLeft:
			assoc = language.AssocLeft
		case grammar.TypePrecRight:
			assoc = language.AssocRight
		}
		for i := range alts {
			alts[i].prec = r.IntValue
			alts[i].hasPrec = true
			alts[i].assoc = assoc
		}
		return alts, nil

	case grammar.TypeField, grammar.TypeAlias:
		// Field and alias annotations are query-layer concerns; compile
		// through to the underlying rule.
		return b.expand(r.Content, ctx)

	case grammar.TypeToken, grammar.TypeImmediateToken:
		inner := unwrapToken(r)
		if inner == nil || (inner.Type != grammar.TypeString && inner.Type != grammar.TypePattern) {
			return nil, errMalformed(ctx, "token combinators must wrap a literal or pattern", nil)
		}
		return b.expand(inner, ctx)

	case grammar.TypeReserved:
		return nil, errMalformed(ctx, "RESERVED rules are not supported", nil)

	default:
		return nil, errMalformed(ctx, fmt.Sprintf("unknown rule type %q", r.Type), nil)
	}
}
