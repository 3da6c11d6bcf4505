package compile

import "fmt"

// ErrorKind classifies grammar compilation failures.
type ErrorKind string

// Compilation failure kinds.
const (
	// ErrUnknownSymbol reports a reference to an undefined rule.
	ErrUnknownSymbol ErrorKind = "unknown_symbol"
	// ErrAmbiguousGrammar reports a table conflict the documented
	// resolution policy cannot resolve.
	ErrAmbiguousGrammar ErrorKind = "ambiguous_grammar"
	// ErrMalformedSpec reports a structurally invalid grammar description.
	ErrMalformedSpec ErrorKind = "malformed_spec"
)

// CompileError is a fatal grammar compilation failure. No partial Language
// is ever returned alongside one.
type CompileError struct {
	Kind   ErrorKind
	Rule   string // offending rule name, "" when not rule-specific
	Detail string
	Err    error // wrapped cause, may be nil
}

func (e *CompileError) Error() string {
	msg := string(e.Kind)
	if e.Rule != "" {
		msg += fmt.Sprintf(": rule %q", e.Rule)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *CompileError) Unwrap() error {
	return e.Err
}

func errMalformed(rule, detail string, err error) *CompileError {
	return &CompileError{Kind: ErrMalformedSpec, Rule: rule, Detail: detail, Err: err}
}

func errUnknown(rule, detail string) *CompileError {
	return &CompileError{Kind: ErrUnknownSymbol, Rule: rule, Detail: detail}
}

func errAmbiguous(detail string) *CompileError {
	return &CompileError{Kind: ErrAmbiguousGrammar, Detail: detail}
}
