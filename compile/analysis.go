package compile

import (
	"math/bits"

	"github.com/sapling-lang/sapling/language"
)

// symbolSets holds the grammar analysis results the table builder needs:
// which nonterminals derive the empty string, and the FIRST and FOLLOW
// terminal sets. Sets are bitmaps indexed by symbol id.
type symbolSets struct {
	nonterminalBase language.Symbol
	nullable        []bool
	first           []bitset
	follow          []bitset
}

type bitset []uint64

func newBitset(n int) bitset { return make(bitset, (n+63)/64) }

func (b bitset) has(i language.Symbol) bool {
	return b[i/64]&(1<<(i%64)) != 0
}

func (b bitset) set(i language.Symbol) bool {
	word, mask := i/64, uint64(1)<<(i%64)
	if b[word]&mask != 0 {
		return false
	}
	b[word] |= mask
	return true
}

// union ors other into b, reporting whether b grew.
func (b bitset) union(other bitset) bool {
	grew := false
	for i, w := range other {
		if b[i]|w != b[i] {
			b[i] |= w
			grew = true
		}
	}
	return grew
}

func (b bitset) members() []language.Symbol {
	var out []language.Symbol
	for i, w := range b {
		for w != 0 {
			out = append(out, language.Symbol(i*64+bits.TrailingZeros64(w)))
			w &= w - 1
		}
	}
	return out
}

// analyze computes nullable, FIRST, and FOLLOW by fixpoint iteration.
// Production 0 is the augmented start rule, so FOLLOW(start) naturally
// contains only end-of-input.
func analyze(b *builder, nonterminalBase language.Symbol) *symbolSets {
	n := len(b.symbols)
	s := &symbolSets{
		nonterminalBase: nonterminalBase,
		nullable:        make([]bool, n),
		first:           make([]bitset, n),
		follow:          make([]bitset, n),
	}
	for i := 0; i < n; i++ {
		s.first[i] = newBitset(n)
		s.follow[i] = newBitset(n)
	}
	for i := language.Symbol(0); i < nonterminalBase; i++ {
		s.first[i].set(i)
	}

	s.follow[b.start].set(language.SymbolEnd)

	for changed := true; changed; {
		changed = false
		for _, p := range b.prods {
			if s.computeNullable(p) {
				changed = true
			}
			if s.computeFirst(p) {
				changed = true
			}
			if s.computeFollow(p) {
				changed = true
			}
		}
	}
	return s
}

func (s *symbolSets) computeNullable(p language.Production) bool {
	if s.nullable[p.LHS] {
		return false
	}
	for _, sym := range p.RHS {
		if !s.nullable[sym] {
			return false
		}
	}
	s.nullable[p.LHS] = true
	return true
}

func (s *symbolSets) computeFirst(p language.Production) bool {
	grew := false
	for _, sym := range p.RHS {
		if s.first[p.LHS].union(s.first[sym]) {
			grew = true
		}
		if !s.nullable[sym] {
			break
		}
	}
	return grew
}

func (s *symbolSets) computeFollow(p language.Production) bool {
	grew := false
	for i, sym := range p.RHS {
		if sym < s.nonterminalBase {
			continue
		}
		// Everything derivable right after sym is in FOLLOW(sym); if the
		// tail is nullable, FOLLOW(LHS) is too.
		tailNullable := true
		for _, next := range p.RHS[i+1:] {
			if s.follow[sym].union(s.first[next]) {
				grew = true
			}
			if !s.nullable[next] {
				tailNullable = false
				break
			}
		}
		if tailNullable {
			if s.follow[sym].union(s.follow[p.LHS]) {
				grew = true
			}
		}
	}
	return grew
}
