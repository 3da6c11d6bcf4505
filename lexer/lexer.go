// Package lexer tokenizes source bytes against a compiled language's
// lexical rules. The lexer is restartable: SeekTo repositions it at any
// byte offset, which is how the incremental reparser resumes scanning just
// before an edit instead of rescanning the whole file.
package lexer

import (
	"bytes"

	"github.com/sapling-lang/sapling/language"
	"github.com/sapling-lang/sapling/text"
)

// TokenFlags carries per-token facts the parser needs.
type TokenFlags uint8

// Token flag bits.
const (
	// FlagError marks a run of bytes no lexical rule matched.
	FlagError TokenFlags = 1 << iota
	// FlagExtra marks a token the grammar allows between any two others.
	FlagExtra
	// FlagEOF marks the zero-width end-of-input token.
	FlagEOF
)

// Token is one lexed token.
type Token struct {
	Symbol language.Symbol
	Span   text.Span
	// Lookahead is how many bytes past Span.End the lexer examined while
	// matching. Reuse decisions treat those bytes as part of the token's
	// footprint.
	Lookahead int
	Flags     TokenFlags
}

// IsError reports whether the token is an unmatched byte run.
func (t Token) IsError() bool { return t.Flags&FlagError != 0 }

// IsExtra reports whether the token is an extra (whitespace, comment).
func (t Token) IsExtra() bool { return t.Flags&FlagExtra != 0 }

// IsEOF reports whether the token is the end-of-input marker.
func (t Token) IsEOF() bool { return t.Flags&FlagEOF != 0 }

// Lexer scans one source buffer. Not safe for concurrent use; create one
// per parse.
type Lexer struct {
	lang *language.Language
	src  []byte
	pos  text.ByteOffset
}

// New returns a lexer positioned at offset 0.
func New(lang *language.Language, src []byte) *Lexer {
	return &Lexer{lang: lang, src: src}
}

// Pos returns the offset the next Next call will scan from.
func (lx *Lexer) Pos() text.ByteOffset { return lx.pos }

// Text returns the source bytes a span covers.
func (lx *Lexer) Text(sp text.Span) []byte {
	if !sp.IsValid() || int(sp.End) > len(lx.src) {
		return nil
	}
	return lx.src[sp.Start:sp.End]
}

// SeekTo repositions the lexer. Offsets past the end of input clamp to it.
func (lx *Lexer) SeekTo(offset text.ByteOffset) {
	if int(offset) > len(lx.src) {
		offset = text.ByteOffset(len(lx.src))
	}
	lx.pos = offset
}

// Next returns the next token. At end of input it returns a zero-width EOF
// token once, then keeps returning it.
func (lx *Lexer) Next() Token {
	if int(lx.pos) >= len(lx.src) {
		end := text.ByteOffset(len(lx.src))
		return Token{
			Symbol: language.SymbolEnd,
			Span:   text.Span{Start: end, End: end},
			Flags:  FlagEOF,
		}
	}

	if tok, ok := lx.match(lx.pos); ok {
		lx.pos = tok.Span.End
		return tok
	}

	// Group consecutive unmatchable bytes into one error token so a run of
	// garbage costs one recovery step, not one per byte.
	start := lx.pos
	end := start + 1
	for int(end) < len(lx.src) {
		if _, ok := lx.match(end); ok {
			break
		}
		end++
	}
	lx.pos = end
	return Token{
		Span:  text.Span{Start: start, End: end},
		Flags: FlagError,
	}
}

// match attempts every lexical rule at offset and picks the winner: longest
// match first, then literals over patterns, then declaration order.
func (lx *Lexer) match(offset text.ByteOffset) (Token, bool) {
	rest := lx.src[offset:]

	var best Token
	bestLen := -1
	bestLiteral := false

	for _, rule := range lx.lang.LexRules {
		var n int
		literal := rule.Pattern == nil
		if literal {
			if !bytes.HasPrefix(rest, []byte(rule.Literal)) {
				continue
			}
			n = len(rule.Literal)
		} else {
			loc := rule.Pattern.FindIndex(rest)
			if loc == nil || loc[1] == 0 {
				continue
			}
			n = loc[1]
		}

		// Longest match wins; at equal length a literal beats a pattern and
		// the earlier-declared rule beats the later one.
		if n < bestLen || (n == bestLen && (bestLiteral || !literal)) {
			continue
		}

		bestLen = n
		bestLiteral = literal
		best = Token{
			Symbol:    rule.Symbol,
			Span:      text.Span{Start: offset, End: offset + text.ByteOffset(n)},
			Lookahead: rule.Lookahead,
		}
		if rule.Extra {
			best.Flags |= FlagExtra
		}
	}

	if bestLen < 0 {
		return Token{}, false
	}
	return best, true
}
