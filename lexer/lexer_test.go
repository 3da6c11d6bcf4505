package lexer_test

import (
	"testing"

	"github.com/sapling-lang/sapling/internal/testutil"
	"github.com/sapling-lang/sapling/lexer"
	"github.com/sapling-lang/sapling/text"
)

func TestNextTokenStream(t *testing.T) {
	t.Parallel()

	lang := testutil.ArithLanguage(t)
	lx := lexer.New(lang, []byte("12+3"))

	want := []struct {
		name string
		span text.Span
	}{
		{"number", text.Span{Start: 0, End: 2}},
		{"+", text.Span{Start: 2, End: 3}},
		{"number", text.Span{Start: 3, End: 4}},
	}
	for _, w := range want {
		tok := lx.Next()
		if got := lang.SymbolName(tok.Symbol); got != w.name {
			t.Fatalf("token = %q, want %q", got, w.name)
		}
		if tok.Span != w.span {
			t.Fatalf("%s span = %s, want %s", w.name, tok.Span, w.span)
		}
	}

	eof := lx.Next()
	if !eof.IsEOF() {
		t.Fatalf("expected EOF, got %q", lang.SymbolName(eof.Symbol))
	}
	if !eof.Span.IsEmpty() || eof.Span.Start != 4 {
		t.Fatalf("EOF span = %s, want empty at 4", eof.Span)
	}
	// EOF repeats once reached.
	if again := lx.Next(); !again.IsEOF() {
		t.Fatal("EOF should repeat")
	}
}

func TestExtrasAreFlagged(t *testing.T) {
	t.Parallel()

	lang := testutil.StatementsLanguage(t)
	lx := lexer.New(lang, []byte("a ; # note\nb;"))

	var kinds []string
	for {
		tok := lx.Next()
		if tok.IsEOF() {
			break
		}
		name := lang.SymbolName(tok.Symbol)
		if tok.IsExtra() {
			name = "extra:" + name
		}
		kinds = append(kinds, name)
	}

	want := []string{
		"identifier", "extra: ", ";", "extra: ", "extra:comment", "extra: ", "identifier", ";",
	}
	if len(kinds) != len(want) {
		t.Fatalf("token kinds = %v", kinds)
	}
	for i := range want {
		// Anonymous extras are named after their pattern source; only check
		// the extra prefix for those.
		if want[i] == "extra: " {
			if len(kinds[i]) < 6 || kinds[i][:6] != "extra:" {
				t.Fatalf("kinds[%d] = %q, want an extra", i, kinds[i])
			}
			continue
		}
		if kinds[i] != want[i] {
			t.Fatalf("kinds[%d] = %q, want %q", i, kinds[i], want[i])
		}
	}
}

func TestErrorBytesGroupIntoOneToken(t *testing.T) {
	t.Parallel()

	lang := testutil.StatementsLanguage(t)
	lx := lexer.New(lang, []byte("ab?!cd"))

	first := lx.Next()
	if lang.SymbolName(first.Symbol) != "identifier" {
		t.Fatalf("first = %q, want identifier", lang.SymbolName(first.Symbol))
	}

	errTok := lx.Next()
	if !errTok.IsError() {
		t.Fatalf("expected error token, got %q", lang.SymbolName(errTok.Symbol))
	}
	if errTok.Span != (text.Span{Start: 2, End: 4}) {
		t.Fatalf("error span = %s, want [2,4)", errTok.Span)
	}

	next := lx.Next()
	if lang.SymbolName(next.Symbol) != "identifier" || next.Span.Start != 4 {
		t.Fatalf("after error = %q at %s", lang.SymbolName(next.Symbol), next.Span)
	}
}

func TestSeekToResumesMidSource(t *testing.T) {
	t.Parallel()

	lang := testutil.ArithLanguage(t)
	src := []byte("1+2*3")
	lx := lexer.New(lang, src)

	lx.SeekTo(2)
	tok := lx.Next()
	if lang.SymbolName(tok.Symbol) != "number" || tok.Span.Start != 2 {
		t.Fatalf("after seek = %q at %s", lang.SymbolName(tok.Symbol), tok.Span)
	}

	lx.SeekTo(100)
	if !lx.Next().IsEOF() {
		t.Fatal("seek past end should clamp to EOF")
	}

	lx.SeekTo(0)
	if got := lx.Next().Span; got != (text.Span{Start: 0, End: 1}) {
		t.Fatalf("after rewind span = %s, want [0,1)", got)
	}
}

func TestLongestMatchAndLiteralPreference(t *testing.T) {
	t.Parallel()

	lang := testutil.MustLanguage(t, `{
		"name": "kw",
		"rules": {
			"file": {"type": "CHOICE", "members": [
				{"type": "STRING", "value": "if"},
				{"type": "SYMBOL", "name": "word"}
			]},
			"word": {"type": "PATTERN", "value": "[a-z]+"}
		}
	}`)

	// Equal length: the literal wins over the pattern.
	lx := lexer.New(lang, []byte("if"))
	tok := lx.Next()
	if got := lang.SymbolName(tok.Symbol); got != "if" {
		t.Fatalf("token = %q, want literal if", got)
	}

	// Longer pattern match beats the shorter literal.
	lx = lexer.New(lang, []byte("iffy"))
	tok = lx.Next()
	if got := lang.SymbolName(tok.Symbol); got != "word" {
		t.Fatalf("token = %q, want word", got)
	}
	if tok.Span.Len() != 4 {
		t.Fatalf("span = %s, want 4 bytes", tok.Span)
	}
}

func TestLiteralLookaheadForWordyTokens(t *testing.T) {
	t.Parallel()

	lang := testutil.MustLanguage(t, `{
		"name": "kw",
		"rules": {
			"file": {"type": "SEQ", "members": [
				{"type": "STRING", "value": "if"},
				{"type": "STRING", "value": "("}
			]}
		}
	}`)

	lx := lexer.New(lang, []byte("if("))
	ifTok := lx.Next()
	if ifTok.Lookahead < 1 {
		t.Fatalf("identifier-like literal lookahead = %d, want >= 1", ifTok.Lookahead)
	}
	paren := lx.Next()
	if paren.Lookahead != 0 {
		t.Fatalf("punctuation lookahead = %d, want 0", paren.Lookahead)
	}
}

func FuzzLexerCoversInput(f *testing.F) {
	f.Add("1+2*3")
	f.Add("  (1) * 22 +")
	f.Add("@@@")
	f.Add("")

	f.Fuzz(func(t *testing.T, src string) {
		lang := testutil.ArithLanguage(t)
		lx := lexer.New(lang, []byte(src))

		pos := text.ByteOffset(0)
		for {
			tok := lx.Next()
			if tok.IsEOF() {
				if int(tok.Span.Start) != len(src) {
					t.Fatalf("EOF at %d, want %d", tok.Span.Start, len(src))
				}
				return
			}
			if tok.Span.Start != pos {
				t.Fatalf("token starts at %d, want %d (gap or overlap)", tok.Span.Start, pos)
			}
			if tok.Span.IsEmpty() {
				t.Fatalf("zero-width token at %d", tok.Span.Start)
			}
			pos = tok.Span.End
		}
	})
}
