package compile

import (
	"regexp"
	"strings"

	"github.com/sapling-lang/sapling/language"
)

// compileLexRules turns the interned terminal specs into matchers. Patterns
// are anchored so the lexer can match at an offset without scanning ahead.
func compileLexRules(b *builder) ([]language.LexRule, error) {
	rules := make([]language.LexRule, 0, len(b.lexSpecs))
	for _, spec := range b.lexSpecs {
		rule := language.LexRule{
			Symbol:  spec.sym,
			Literal: spec.literal,
			Extra:   spec.extra,
		}
		if spec.pattern != "" {
			re, err := regexp.Compile("^(?:" + spec.pattern + ")")
			if err != nil {
				return nil, errMalformed(b.symbols[spec.sym].Name, "invalid pattern", err)
			}
			rule.Pattern = re
		}
		rules = append(rules, rule)
	}

	for i := range rules {
		rules[i].Lookahead = lookaheadBytes(rules, i)
	}
	return rules, nil
}

// lookaheadBytes estimates how many bytes past a token's end the lexer may
// inspect before settling on it. The incremental reparser widens a reused
// token's damage zone by this amount, so overestimating is safe and
// underestimating is not.
func lookaheadBytes(rules []language.LexRule, i int) int {
	r := rules[i]
	if r.Pattern != nil {
		// Greedy pattern matches stop only after seeing a byte that cannot
		// extend them.
		return 1
	}

	last := r.Literal[len(r.Literal)-1]
	if isWordByte(last) {
		// An identifier-like literal is rejected when the next byte extends
		// the word, so that byte was examined.
		return 1
	}
	max := 0
	for j, other := range rules {
		if j == i {
			continue
		}
		longer := other.Literal
		if len(longer) > len(r.Literal) && strings.HasPrefix(longer, r.Literal) {
			if n := len(longer) - len(r.Literal); n > max {
				max = n
			}
		}
	}
	return max
}

func isWordByte(b byte) bool {
	return b == '_' || b >= '0' && b <= '9' || b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z'
}
