// Package parser runs a compiled language's shift-reduce automaton over
// source bytes and produces immutable syntax trees. Parsing always
// terminates with a tree: input the grammar rejects is absorbed by bounded
// recovery (inserting zero-width missing tokens, wrapping unplaceable
// tokens as error nodes) and reported through tree diagnostics.
package parser

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/sapling-lang/sapling/language"
	"github.com/sapling-lang/sapling/lexer"
	"github.com/sapling-lang/sapling/syntax"
	"github.com/sapling-lang/sapling/text"
)

const (
	defaultMissingBudget = 3
	// maxActionsPerToken bounds reduce chains between shifts. A healthy
	// table never approaches it; hitting it is an InvariantError.
	maxActionsPerToken = 100_000
)

// Parser drives one compiled Language. A Parser is stateless between calls
// and safe for concurrent use; each parse builds its own run state.
type Parser struct {
	lang    *language.Language
	logger  *log.Logger
	missing int
}

// Option configures a Parser.
type Option func(*Parser)

// WithLogger enables debug-level tracing of shifts, reduces, and recovery.
func WithLogger(l *log.Logger) Option {
	return func(p *Parser) { p.logger = l }
}

// WithMissingBudget caps consecutive missing-token insertions during
// recovery before the parser falls back to skipping input.
func WithMissingBudget(n int) Option {
	return func(p *Parser) {
		if n >= 0 {
			p.missing = n
		}
	}
}

// New returns a parser for the language.
func New(lang *language.Language, opts ...Option) *Parser {
	p := &Parser{lang: lang, missing: defaultMissingBudget}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse builds a tree for src from scratch. The returned tree always spans
// the entire input; grammar violations surface as diagnostics and error or
// missing nodes, never as a returned error. A non-nil error means the
// context was cancelled (partial tree returned alongside) or an internal
// invariant broke (nil tree).
func (p *Parser) Parse(ctx context.Context, src []byte) (*syntax.Tree, error) {
	return p.parse(ctx, src, nil)
}

// ParseIncremental reparses after an edit, reusing unchanged subtrees of
// the old tree. newSrc must be the old source with the edit applied; the
// old tree is not modified and remains valid for its own source.
func (p *Parser) ParseIncremental(ctx context.Context, old *syntax.Tree, edit text.Edit, newSrc []byte) (*syntax.Tree, error) {
	if old == nil {
		return p.parse(ctx, newSrc, nil)
	}
	if err := edit.ValidateFor(len(old.Source), len(newSrc)); err != nil {
		return nil, fmt.Errorf("incremental parse: %w", err)
	}
	return p.parse(ctx, newSrc, newReuseCursor(old, edit))
}

// ApplyEdit applies a replacement to the old tree's source and reparses
// incrementally.
func (p *Parser) ApplyEdit(ctx context.Context, old *syntax.Tree, edit text.Edit, replacement []byte) (*syntax.Tree, error) {
	if old == nil {
		return nil, fmt.Errorf("incremental parse: nil tree")
	}
	newSrc, err := edit.Apply(old.Source, replacement)
	if err != nil {
		return nil, fmt.Errorf("incremental parse: %w", err)
	}
	return p.ParseIncremental(ctx, old, edit, newSrc)
}

// stackEntry pairs an automaton state with the node built under it. Neutral
// entries (extras, error leaves) occupy source bytes without consuming a
// grammar symbol; they ride along until the next reduce collects them.
type stackEntry struct {
	state   language.StateID
	node    *syntax.Node
	neutral bool
}

type run struct {
	p      *Parser
	lx     *lexer.Lexer
	rc     *reuseCursor
	stack  []stackEntry
	diags  []syntax.Diagnostic
	budget int
}

func (p *Parser) parse(ctx context.Context, src []byte, rc *reuseCursor) (*syntax.Tree, error) {
	r := &run{
		p:      p,
		lx:     lexer.New(p.lang, src),
		rc:     rc,
		stack:  []stackEntry{{state: 0}},
		budget: p.missing,
	}

	for {
		if err := ctx.Err(); err != nil {
			return r.finishTree(src), err
		}

		if r.rc != nil && r.tryReuse() {
			continue
		}

		tok := r.lx.Next()
		switch {
		case tok.IsExtra():
			r.pushNeutral(r.leafFor(tok, syntax.FlagExtra))
		case tok.IsError():
			r.recordInvalidBytes(tok)
			r.pushNeutral(r.leafFor(tok, syntax.FlagError))
		default:
			done, err := r.consume(tok)
			if err != nil {
				return nil, err
			}
			if done {
				return r.finishTree(src), nil
			}
		}
	}
}

// consume feeds one grammatical token through the automaton, applying
// reduces until the token shifts, the parse accepts, or recovery gives up
// on it.
func (r *run) consume(tok lexer.Token) (bool, error) {
	lang := r.p.lang
	for steps := 0; ; steps++ {
		if steps > maxActionsPerToken {
			return false, invariant("consume", "no progress after %d actions at offset %d", steps, tok.Span.Start)
		}

		state := r.top().state
		act := lang.ActionFor(state, tok.Symbol)
		switch act.Type {
		case language.ActionShift:
			r.trace("shift", "symbol", lang.SymbolName(tok.Symbol), "state", act.State)
			r.push(r.leafFor(tok, 0), act.State, false)
			r.budget = r.p.missing
			return false, nil

		case language.ActionReduce:
			if err := r.reduce(act.Production); err != nil {
				return false, err
			}

		case language.ActionAccept:
			return true, nil

		default:
			if r.insertMissing(tok) {
				continue
			}
			if tok.IsEOF() {
				// Out of repairs at end of input; finish with what stands.
				return true, nil
			}
			r.skipToken(tok)
			return false, nil
		}
	}
}

func (r *run) reduce(prodIdx uint32) error {
	lang := r.p.lang
	prod := lang.Productions[prodIdx]

	var collected []*syntax.Node
	for need := len(prod.RHS); need > 0; {
		if len(r.stack) <= 1 {
			return invariant("reduce", "stack underflow reducing %s", lang.SymbolName(prod.LHS))
		}
		e := r.pop()
		collected = append(collected, e.node)
		if !e.neutral {
			need--
		}
	}
	// collected is reversed; rebuild in source order, splicing hidden
	// interior nodes (repeat helpers, underscore rules) into the parent.
	var children []*syntax.Node
	for i := len(collected) - 1; i >= 0; i-- {
		n := collected[i]
		if lang.Symbols[n.Kind()].Hidden && !n.IsError() && !n.IsMissing() && !lang.IsTerminal(n.Kind()) {
			if n.Len() == 0 && n.ChildCount() == 0 {
				continue
			}
			for j := 0; j < n.ChildCount(); j++ {
				children = append(children, n.Child(j))
			}
			continue
		}
		children = append(children, n)
	}

	target, ok := lang.GotoFor(r.top().state, prod.LHS)
	if !ok {
		return invariant("reduce", "no goto on %s from state %d", lang.SymbolName(prod.LHS), r.top().state)
	}
	r.trace("reduce", "lhs", lang.SymbolName(prod.LHS), "rhs", len(prod.RHS), "state", target)
	r.push(syntax.NewInternal(prod.LHS, children, target, 0), target, false)
	return nil
}

// insertMissing tries one recovery insertion: a zero-width token the
// current state could shift, preferring one after which the real lookahead
// becomes actionable. Reports whether an insertion happened.
func (r *run) insertMissing(tok lexer.Token) bool {
	if r.budget <= 0 {
		return false
	}
	lang := r.p.lang
	state := r.top().state

	var chosen language.Symbol
	var target language.StateID
	found := false
	fallbackOK := false
	var fallbackSym language.Symbol
	var fallbackState language.StateID

	for _, sym := range lang.ExpectedTerminals(state) {
		if sym == language.SymbolEnd || lang.IsExtra(sym) {
			continue
		}
		act := lang.ActionFor(state, sym)
		if act.Type != language.ActionShift {
			continue
		}
		if !fallbackOK {
			fallbackSym, fallbackState, fallbackOK = sym, act.State, true
		}
		if lang.ActionFor(act.State, tok.Symbol).Type != language.ActionError {
			chosen, target, found = sym, act.State, true
			break
		}
	}
	if !found {
		// Blind insertion only helps at end of input, where skipping is
		// not an option.
		if !tok.IsEOF() || !fallbackOK {
			return false
		}
		chosen, target = fallbackSym, fallbackState
	}

	r.budget--
	at := tok.Span.Start
	r.diags = append(r.diags, syntax.Diagnostic{
		Code:        syntax.CodeMissingToken,
		Message:     fmt.Sprintf("missing %q", lang.SymbolName(chosen)),
		Severity:    syntax.SeverityError,
		Span:        text.Span{Start: at, End: at},
		Source:      syntax.SourceParser,
		Recoverable: true,
	})
	r.trace("recover", "insert", lang.SymbolName(chosen), "at", at)
	r.push(syntax.NewMissing(chosen, target), target, false)
	return true
}

// skipToken wraps an unplaceable token as an error leaf and moves on.
func (r *run) skipToken(tok lexer.Token) {
	lang := r.p.lang
	expected := lang.ExpectedTerminals(r.top().state)
	r.diags = append(r.diags, syntax.Diagnostic{
		Code:        syntax.CodeUnexpectedToken,
		Message:     fmt.Sprintf("unexpected %q%s", lang.SymbolName(tok.Symbol), expectedHint(lang, expected)),
		Severity:    syntax.SeverityError,
		Span:        tok.Span,
		Source:      syntax.SourceParser,
		Recoverable: true,
	})
	r.trace("recover", "skip", lang.SymbolName(tok.Symbol), "at", tok.Span.Start)
	r.pushNeutral(r.leafFor(tok, syntax.FlagError))
}

func (r *run) recordInvalidBytes(tok lexer.Token) {
	r.diags = append(r.diags, syntax.Diagnostic{
		Code:        syntax.CodeInvalidBytes,
		Message:     fmt.Sprintf("unrecognized input (%d bytes)", tok.Span.Len()),
		Severity:    syntax.SeverityError,
		Span:        tok.Span,
		Source:      syntax.SourceLexer,
		Recoverable: true,
	})
}

func expectedHint(lang *language.Language, expected []language.Symbol) string {
	const maxNames = 4
	var names []string
	for _, sym := range expected {
		if sym == language.SymbolEnd || lang.IsExtra(sym) {
			continue
		}
		names = append(names, fmt.Sprintf("%q", lang.SymbolName(sym)))
		if len(names) == maxNames {
			break
		}
	}
	if len(names) == 0 {
		return ""
	}
	return ", expected " + strings.Join(names, ", ")
}

func (r *run) leafFor(tok lexer.Token, flags syntax.NodeFlags) *syntax.Node {
	newlines := 0
	if tok.Span.Len() > 0 {
		newlines = text.CountNewlines(r.lx.Text(tok.Span))
	}
	return syntax.NewLeaf(tok.Symbol, tok.Span.Len(), newlines, tok.Lookahead, r.top().state, flags)
}

func (r *run) top() stackEntry { return r.stack[len(r.stack)-1] }

func (r *run) pop() stackEntry {
	e := r.stack[len(r.stack)-1]
	r.stack = r.stack[:len(r.stack)-1]
	return e
}

func (r *run) push(n *syntax.Node, state language.StateID, neutral bool) {
	r.stack = append(r.stack, stackEntry{state: state, node: n, neutral: neutral})
}

// pushNeutral places a node on the stack without changing the automaton
// state; the next reduce sweeps it into the tree.
func (r *run) pushNeutral(n *syntax.Node) {
	r.push(n, r.top().state, true)
}

func (r *run) trace(msg string, kv ...any) {
	if r.p.logger != nil {
		r.p.logger.Debug(msg, kv...)
	}
}

// finishTree assembles the final tree from whatever stands on the stack:
// in the common case a single entry node, otherwise the entry node's
// children merged with surrounding extras and error leaves under a fresh
// entry-kind root so the root always spans the whole input.
func (r *run) finishTree(src []byte) *syntax.Tree {
	lang := r.p.lang
	nodes := make([]*syntax.Node, 0, len(r.stack)-1)
	for _, e := range r.stack[1:] {
		nodes = append(nodes, e.node)
	}

	var root *syntax.Node
	if len(nodes) == 1 && nodes[0].Kind() == lang.Entry {
		root = nodes[0]
	} else {
		var children []*syntax.Node
		for _, n := range nodes {
			if n.Kind() == lang.Entry && n.ChildCount() > 0 {
				for i := 0; i < n.ChildCount(); i++ {
					children = append(children, n.Child(i))
				}
				continue
			}
			children = append(children, n)
		}
		root = syntax.NewInternal(lang.Entry, children, 0, 0)
	}

	return &syntax.Tree{
		Lang:        lang,
		Source:      src,
		Root:        root,
		Lines:       text.NewLineIndex(src),
		Diagnostics: r.diags,
	}
}
