package grammar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustJSON(t *testing.T, src string) *Grammar {
	t.Helper()
	g, err := ParseJSON([]byte(src))
	require.NoError(t, err)
	return g
}

func TestValidateUndefinedSymbol(t *testing.T) {
	t.Parallel()

	g := mustJSON(t, `{
		"name": "demo",
		"rules": {"a": {"type": "SYMBOL", "name": "ghost"}}
	}`)
	_, err := Validate(g)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ghost")
}

func TestValidateRejectsExternals(t *testing.T) {
	t.Parallel()

	g := mustJSON(t, `{
		"name": "demo",
		"rules": {"a": {"type": "BLANK"}},
		"externals": [{"type": "SYMBOL", "name": "a"}]
	}`)
	_, err := Validate(g)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "external")
}

func TestValidateUnreachableRule(t *testing.T) {
	t.Parallel()

	g := mustJSON(t, `{
		"name": "demo",
		"rules": {
			"a": {"type": "STRING", "value": "a"},
			"orphan": {"type": "STRING", "value": "o"}
		}
	}`)
	warnings, err := Validate(g)
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.Equal(t, WarnUnreachableRule, warnings[0].Kind)
	assert.Equal(t, "orphan", warnings[0].Rule)
}

func TestValidateExtrasKeepRulesReachable(t *testing.T) {
	t.Parallel()

	g := mustJSON(t, `{
		"name": "demo",
		"rules": {
			"a": {"type": "STRING", "value": "a"},
			"comment": {"type": "PATTERN", "value": "#.*"}
		},
		"extras": [{"type": "SYMBOL", "name": "comment"}]
	}`)
	warnings, err := Validate(g)
	require.NoError(t, err)
	assert.Empty(t, warnings)
}

func TestValidateLeftRecursionWarning(t *testing.T) {
	t.Parallel()

	g := mustJSON(t, `{
		"name": "demo",
		"rules": {
			"expr": {"type": "CHOICE", "members": [
				{"type": "SEQ", "members": [
					{"type": "SYMBOL", "name": "expr"},
					{"type": "STRING", "value": "+"},
					{"type": "SYMBOL", "name": "num"}
				]},
				{"type": "SYMBOL", "name": "num"}
			]},
			"num": {"type": "PATTERN", "value": "[0-9]+"}
		}
	}`)
	warnings, err := Validate(g)
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.Equal(t, WarnLeftRecursion, warnings[0].Kind)
	assert.Equal(t, "expr", warnings[0].Rule)
}

func TestValidateInconsistentPrecedence(t *testing.T) {
	t.Parallel()

	g := mustJSON(t, `{
		"name": "demo",
		"rules": {
			"expr": {"type": "CHOICE", "members": [
				{"type": "PREC", "value": 1, "content": {"type": "STRING", "value": "a"}},
				{"type": "PREC", "value": 2, "content": {"type": "STRING", "value": "b"}}
			]}
		}
	}`)
	warnings, err := Validate(g)
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.Equal(t, WarnInconsistentPrecedence, warnings[0].Kind)
}

func TestValidateNilAndEmpty(t *testing.T) {
	t.Parallel()

	_, err := Validate(nil)
	assert.Error(t, err)

	_, err = Validate(&Grammar{Name: "demo"})
	assert.Error(t, err)
}
