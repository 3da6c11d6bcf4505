package grammar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJSONPreservesRuleOrder(t *testing.T) {
	t.Parallel()

	g, err := ParseJSON([]byte(`{
		"name": "demo",
		"rules": {
			"zebra": {"type": "STRING", "value": "z"},
			"apple": {"type": "STRING", "value": "a"},
			"mango": {"type": "STRING", "value": "m"}
		}
	}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"zebra", "apple", "mango"}, g.RuleNames)
	assert.Equal(t, "zebra", g.EntryRule())
}

func TestParseJSONValueDispatch(t *testing.T) {
	t.Parallel()

	g, err := ParseJSON([]byte(`{
		"name": "demo",
		"rules": {
			"expr": {"type": "PREC_LEFT", "value": 3, "content": {"type": "STRING", "value": "x"}}
		}
	}`))
	require.NoError(t, err)

	rule := g.Rule("expr")
	require.NotNil(t, rule)
	assert.Equal(t, TypePrecLeft, rule.Type)
	assert.Equal(t, 3, rule.IntValue)
	require.NotNil(t, rule.Content)
	assert.Equal(t, "x", rule.Content.StringValue)

	prec, ok := rule.Precedence()
	assert.True(t, ok)
	assert.Equal(t, 3, prec)
}

func TestParseJSONErrors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		src  string
	}{
		{"missing name", `{"rules": {"a": {"type": "BLANK"}}}`},
		{"missing rules", `{"name": "demo"}`},
		{"rule missing type", `{"name": "demo", "rules": {"a": {}}}`},
		{"duplicate rule", `{"name": "demo", "rules": {"a": {"type": "BLANK"}, "a": {"type": "BLANK"}}}`},
		{"not json", `nope`},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := ParseJSON([]byte(tc.src))
			assert.Error(t, err)
		})
	}
}

func TestParseYAML(t *testing.T) {
	t.Parallel()

	g, err := ParseYAML([]byte(`
name: demo
rules:
  first:
    type: SEQ
    members:
      - type: SYMBOL
        name: word
      - type: STRING
        value: ";"
  word:
    type: PATTERN
    value: "[a-z]+"
extras:
  - type: PATTERN
    value: "\\s+"
`))
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "word"}, g.RuleNames)
	require.Len(t, g.Extras, 1)
	assert.Equal(t, TypePattern, g.Extras[0].Type)

	seq := g.Rule("first")
	require.NotNil(t, seq)
	require.Len(t, seq.Members, 2)
	assert.Equal(t, "word", seq.Members[0].Name)
	assert.Equal(t, ";", seq.Members[1].StringValue)
}

func TestParseYAMLIntValue(t *testing.T) {
	t.Parallel()

	g, err := ParseYAML([]byte(`
name: demo
rules:
  expr:
    type: PREC_RIGHT
    value: 2
    content:
      type: STRING
      value: "^"
`))
	require.NoError(t, err)
	rule := g.Rule("expr")
	assert.Equal(t, 2, rule.IntValue)
	assert.Equal(t, "^", rule.Content.StringValue)
}
