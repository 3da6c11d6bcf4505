package syntax

import (
	"fmt"

	"github.com/sapling-lang/sapling/text"
)

// Severity ranks a diagnostic.
type Severity uint8

// Severity levels, most severe first.
const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityInfo
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	default:
		return fmt.Sprintf("severity(%d)", s)
	}
}

// Diagnostic codes emitted by the parser.
const (
	CodeUnexpectedToken = "unexpected-token"
	CodeMissingToken    = "missing-token"
	CodeInvalidBytes    = "invalid-bytes"
)

// Diagnostic sources.
const (
	SourceLexer  = "lexer"
	SourceParser = "parser"
)

// Diagnostic is one parse finding attached to a tree.
type Diagnostic struct {
	Code     string
	Message  string
	Severity Severity
	Span     text.Span
	// Source names the stage that produced the finding.
	Source string
	// Recoverable reports whether parsing continued past the finding. All
	// parser diagnostics are recoverable; the flag exists for tooling that
	// filters on it.
	Recoverable bool
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s %s [%s]: %s", d.Severity, d.Span, d.Code, d.Message)
}
