package grammar

import (
	"errors"
	"fmt"
)

// WarningKind categorizes non-fatal validation findings.
type WarningKind string

// Warning kinds reported by Validate.
const (
	WarnUnreachableRule        WarningKind = "unreachable_rule"
	WarnLeftRecursion          WarningKind = "left_recursion"
	WarnInconsistentPrecedence WarningKind = "inconsistent_precedence"
)

// Warning is a non-fatal validation finding.
type Warning struct {
	Kind    WarningKind
	Rule    string
	Message string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: rule %q: %s", w.Kind, w.Rule, w.Message)
}

// Validate runs the structural consistency passes over a parsed grammar:
// every referenced symbol must be defined, external scanners are rejected,
// and unreachable rules, immediate left recursion, and conflicting
// precedence declarations are reported as warnings. Left recursion is fine
// for a bottom-up table; the warning exists so grammar authors porting from
// top-down tools notice it.
func Validate(g *Grammar) ([]Warning, error) {
	if g == nil {
		return nil, errors.New("nil grammar")
	}
	if len(g.RuleNames) == 0 {
		return nil, errors.New("grammar has no rules")
	}
	if len(g.Externals) > 0 {
		return nil, errors.New("external scanner rules are not supported")
	}

	if err := checkSymbolReferences(g); err != nil {
		return nil, err
	}

	var warnings []Warning
	warnings = append(warnings, unreachableRules(g)...)
	warnings = append(warnings, leftRecursiveRules(g)...)
	warnings = append(warnings, precedenceConflicts(g)...)
	return warnings, nil
}

func checkSymbolReferences(g *Grammar) error {
	var err error
	for _, name := range g.RuleNames {
		g.Rules[name].Walk(func(r *Rule) {
			if err != nil || r.Type != TypeSymbol {
				return
			}
			if r.Name == "" {
				err = fmt.Errorf("rule %q: symbol reference without a name", name)
				return
			}
			if _, ok := g.Rules[r.Name]; !ok {
				err = fmt.Errorf("undefined symbol %q referenced in rule %q", r.Name, name)
			}
		})
		if err != nil {
			return err
		}
	}
	for i, r := range g.Extras {
		r.Walk(func(r *Rule) {
			if err != nil || r.Type != TypeSymbol {
				return
			}
			if _, ok := g.Rules[r.Name]; !ok {
				err = fmt.Errorf("undefined symbol %q referenced in extras[%d]", r.Name, i)
			}
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func unreachableRules(g *Grammar) []Warning {
	reachable := map[string]bool{}
	queue := []string{g.EntryRule()}
	for _, r := range g.Extras {
		r.Walk(func(r *Rule) {
			if r.Type == TypeSymbol {
				queue = append(queue, r.Name)
			}
		})
	}

	for len(queue) > 0 {
		name := queue[len(queue)-1]
		queue = queue[:len(queue)-1]
		if reachable[name] {
			continue
		}
		reachable[name] = true
		if rule := g.Rules[name]; rule != nil {
			rule.Walk(func(r *Rule) {
				if r.Type == TypeSymbol {
					queue = append(queue, r.Name)
				}
			})
		}
	}

	inline := map[string]bool{}
	for _, name := range g.Inline {
		inline[name] = true
	}

	var out []Warning
	for _, name := range g.RuleNames {
		if !reachable[name] && !inline[name] {
			out = append(out, Warning{
				Kind:    WarnUnreachableRule,
				Rule:    name,
				Message: "not reachable from the entry rule",
			})
		}
	}
	return out
}

func leftRecursiveRules(g *Grammar) []Warning {
	var out []Warning
	for _, name := range g.RuleNames {
		if immediateLeftRecursion(g.Rules[name], name) {
			out = append(out, Warning{
				Kind:    WarnLeftRecursion,
				Rule:    name,
				Message: "immediately left recursive",
			})
		}
	}
	return out
}

func immediateLeftRecursion(r *Rule, target string) bool {
	if r == nil {
		return false
	}
	switch r.Type {
	case TypeSymbol:
		return r.Name == target
	case TypeSeq:
		return len(r.Members) > 0 && immediateLeftRecursion(r.Members[0], target)
	case TypeChoice:
		for _, m := range r.Members {
			if immediateLeftRecursion(m, target) {
				return true
			}
		}
		return false
	case TypePrec, TypePrecLeft, TypePrecRight, TypePrecDynamic, TypeField, TypeAlias:
		return immediateLeftRecursion(r.Content, target)
	default:
		return false
	}
}

func precedenceConflicts(g *Grammar) []Warning {
	var out []Warning
	for _, name := range g.RuleNames {
		levels := map[int]bool{}
		g.Rules[name].Walk(func(r *Rule) {
			if p, ok := r.Precedence(); ok {
				levels[p] = true
			}
		})
		if len(levels) > 1 {
			out = append(out, Warning{
				Kind:    WarnInconsistentPrecedence,
				Rule:    name,
				Message: fmt.Sprintf("declares %d distinct precedence levels", len(levels)),
			})
		}
	}
	return out
}
