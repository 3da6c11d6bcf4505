// Package testutil provides shared fixture grammars for repository tests.
package testutil

import (
	"testing"

	"github.com/sapling-lang/sapling/compile"
	"github.com/sapling-lang/sapling/grammar"
	"github.com/sapling-lang/sapling/language"
)

// ArithJSON is an expression grammar with left-associative precedence
// levels, parentheses, and whitespace extras. Used across lexer, parser,
// and incremental tests.
const ArithJSON = `{
  "name": "arith",
  "rules": {
    "expression": {"type": "CHOICE", "members": [
      {"type": "PREC_LEFT", "value": 1, "content": {"type": "SEQ", "members": [
        {"type": "SYMBOL", "name": "expression"},
        {"type": "STRING", "value": "+"},
        {"type": "SYMBOL", "name": "expression"}
      ]}},
      {"type": "PREC_LEFT", "value": 2, "content": {"type": "SEQ", "members": [
        {"type": "SYMBOL", "name": "expression"},
        {"type": "STRING", "value": "*"},
        {"type": "SYMBOL", "name": "expression"}
      ]}},
      {"type": "SYMBOL", "name": "number"},
      {"type": "SEQ", "members": [
        {"type": "STRING", "value": "("},
        {"type": "SYMBOL", "name": "expression"},
        {"type": "STRING", "value": ")"}
      ]}
    ]},
    "number": {"type": "PATTERN", "value": "[0-9]+"}
  },
  "extras": [{"type": "PATTERN", "value": "[ \\t\\n]+"}]
}`

// StatementsJSON is a repetition grammar: a file of identifier statements
// terminated by semicolons, with a line comment extra.
const StatementsJSON = `{
  "name": "statements",
  "rules": {
    "source_file": {"type": "REPEAT", "content": {"type": "SYMBOL", "name": "statement"}},
    "statement": {"type": "SEQ", "members": [
      {"type": "SYMBOL", "name": "identifier"},
      {"type": "STRING", "value": ";"}
    ]},
    "identifier": {"type": "PATTERN", "value": "[a-z_]+"},
    "comment": {"type": "PATTERN", "value": "#[^\\n]*"}
  },
  "extras": [
    {"type": "PATTERN", "value": "[ \\t\\n]+"},
    {"type": "SYMBOL", "name": "comment"}
  ]
}`

// MustGrammar decodes a JSON grammar fixture or fails the test.
func MustGrammar(t testing.TB, src string) *grammar.Grammar {
	t.Helper()
	g, err := grammar.ParseJSON([]byte(src))
	if err != nil {
		t.Fatalf("ParseJSON: %v", err)
	}
	return g
}

// MustLanguage decodes and compiles a JSON grammar fixture or fails the
// test.
func MustLanguage(t testing.TB, src string) *language.Language {
	t.Helper()
	lang, err := compile.Grammar(MustGrammar(t, src))
	if err != nil {
		t.Fatalf("compile.Grammar: %v", err)
	}
	return lang
}

// ArithLanguage compiles the expression fixture.
func ArithLanguage(t testing.TB) *language.Language {
	t.Helper()
	return MustLanguage(t, ArithJSON)
}

// StatementsLanguage compiles the repetition fixture.
func StatementsLanguage(t testing.TB) *language.Language {
	t.Helper()
	return MustLanguage(t, StatementsJSON)
}
