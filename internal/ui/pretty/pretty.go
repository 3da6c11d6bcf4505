// Package pretty renders trees, diagnostics, and validation findings for
// terminal output.
package pretty

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/sapling-lang/sapling/grammar"
	"github.com/sapling-lang/sapling/syntax"
	"github.com/sapling-lang/sapling/text"
)

var (
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	kindStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	spanStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	literalStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
)

// Diagnostic renders one parse diagnostic with a line:column location.
func Diagnostic(lines *text.LineIndex, d syntax.Diagnostic) string {
	loc := d.Span.String()
	if p, err := lines.PointFor(d.Span.Start); err == nil {
		loc = fmt.Sprintf("%d:%d", p.Line+1, p.Column+1)
	}

	style := infoStyle
	switch d.Severity {
	case syntax.SeverityError:
		style = errorStyle
	case syntax.SeverityWarning:
		style = warnStyle
	}
	return fmt.Sprintf("%s %s %s %s",
		style.Render(d.Severity.String()),
		spanStyle.Render(loc),
		spanStyle.Render("["+d.Code+"]"),
		d.Message)
}

// Warning renders a grammar validation finding.
func Warning(w grammar.Warning) string {
	return fmt.Sprintf("%s rule %s: %s",
		warnStyle.Render(string(w.Kind)),
		kindStyle.Render(w.Rule),
		w.Message)
}

// Tree renders the tree as an indented outline with kinds and spans. Leaf
// token text is shown truncated.
func Tree(t *syntax.Tree) string {
	var sb strings.Builder
	var walk func(n *syntax.Node, start text.ByteOffset, depth int)
	walk = func(n *syntax.Node, start text.ByteOffset, depth int) {
		span := text.Span{Start: start, End: start + n.Len()}
		sb.WriteString(strings.Repeat("  ", depth))
		sb.WriteString(renderNode(t, n, span))
		sb.WriteString("\n")
		for i := 0; i < n.ChildCount(); i++ {
			walk(n.Child(i), start+n.ChildStart(i), depth+1)
		}
	}
	walk(t.Root, 0, 0)
	return sb.String()
}

func renderNode(t *syntax.Tree, n *syntax.Node, span text.Span) string {
	name := t.KindName(n)
	switch {
	case n.IsError():
		name = errorStyle.Render("ERROR")
	case n.IsMissing():
		name = errorStyle.Render("MISSING " + name)
	default:
		name = kindStyle.Render(name)
	}

	out := name + " " + spanStyle.Render(span.String())
	if n.IsLeaf() && !span.IsEmpty() {
		out += " " + literalStyle.Render(truncate(string(t.Text(span)), 24))
	}
	return out
}

func truncate(s string, n int) string {
	s = strings.ReplaceAll(s, "\n", "\\n")
	if len(s) <= n {
		return fmt.Sprintf("%q", s)
	}
	return fmt.Sprintf("%q…", s[:n])
}
