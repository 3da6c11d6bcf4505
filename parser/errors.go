package parser

import "fmt"

// InvariantError reports an internal inconsistency: a compiled table cell
// or tree-construction step that the parser's own invariants forbid. It
// indicates a bug in table construction, never bad input; malformed input
// is handled by recovery and surfaces as tree diagnostics.
type InvariantError struct {
	Op     string
	Detail string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("parser invariant violated in %s: %s", e.Op, e.Detail)
}

func invariant(op, format string, args ...any) *InvariantError {
	return &InvariantError{Op: op, Detail: fmt.Sprintf(format, args...)}
}
