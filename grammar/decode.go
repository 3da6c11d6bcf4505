package grammar

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// ParseJSON decodes a grammar from its canonical JSON form, preserving rule
// declaration order.
func ParseJSON(data []byte) (*Grammar, error) {
	var raw struct {
		Name       string          `json:"name"`
		Rules      json.RawMessage `json:"rules"`
		Extras     []*Rule         `json:"extras"`
		Externals  []*Rule         `json:"externals"`
		Inline     []string        `json:"inline"`
		Conflicts  [][]string      `json:"conflicts"`
		Word       string          `json:"word"`
		Supertypes []string        `json:"supertypes"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode grammar: %w", err)
	}
	if raw.Name == "" {
		return nil, errors.New("decode grammar: missing name")
	}

	g := &Grammar{
		Name:       raw.Name,
		Rules:      map[string]*Rule{},
		Extras:     raw.Extras,
		Externals:  raw.Externals,
		Inline:     raw.Inline,
		Conflicts:  raw.Conflicts,
		Word:       raw.Word,
		Supertypes: raw.Supertypes,
	}
	if err := decodeOrderedRules(raw.Rules, g); err != nil {
		return nil, err
	}
	return g, nil
}

// decodeOrderedRules walks the rules object token by token; encoding/json
// map decoding would lose declaration order, which is significant.
func decodeOrderedRules(raw json.RawMessage, g *Grammar) error {
	if len(raw) == 0 {
		return errors.New("decode grammar: missing rules")
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("decode rules: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return errors.New("decode rules: not an object")
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("decode rules: %w", err)
		}
		name, ok := tok.(string)
		if !ok {
			return errors.New("decode rules: non-string rule name")
		}

		var rule Rule
		if err := dec.Decode(&rule); err != nil {
			return fmt.Errorf("decode rule %q: %w", name, err)
		}
		if _, dup := g.Rules[name]; dup {
			return fmt.Errorf("decode rules: duplicate rule %q", name)
		}
		g.RuleNames = append(g.RuleNames, name)
		g.Rules[name] = &rule
	}
	return nil
}

// UnmarshalJSON decodes a rule node. The "value" field is a string for
// STRING/PATTERN rules and an integer for PREC* wrappers.
func (r *Rule) UnmarshalJSON(data []byte) error {
	var raw struct {
		Type    string          `json:"type"`
		Value   json.RawMessage `json:"value"`
		Name    string          `json:"name"`
		Content *Rule           `json:"content"`
		Members []*Rule         `json:"members"`
		Named   bool            `json:"named"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Type == "" {
		return errors.New("rule missing type")
	}

	r.Type = RuleType(raw.Type)
	r.Name = raw.Name
	r.Content = raw.Content
	r.Members = raw.Members
	r.Named = raw.Named

	if len(raw.Value) > 0 {
		if raw.Value[0] == '"' {
			if err := json.Unmarshal(raw.Value, &r.StringValue); err != nil {
				return fmt.Errorf("rule value: %w", err)
			}
		} else {
			if err := json.Unmarshal(raw.Value, &r.IntValue); err != nil {
				return fmt.Errorf("rule value: %w", err)
			}
		}
	}
	return nil
}

// ParseYAML decodes a grammar from YAML. yaml.v3 mapping nodes preserve key
// order, so declaration order survives without extra bookkeeping.
func ParseYAML(data []byte) (*Grammar, error) {
	var g Grammar
	if err := yaml.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("decode grammar: %w", err)
	}
	if g.Name == "" {
		return nil, errors.New("decode grammar: missing name")
	}
	if len(g.RuleNames) == 0 {
		return nil, errors.New("decode grammar: missing rules")
	}
	return &g, nil
}

// UnmarshalYAML decodes the grammar document node.
func (g *Grammar) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return errors.New("grammar document is not a mapping")
	}

	for i := 0; i+1 < len(value.Content); i += 2 {
		key := value.Content[i].Value
		node := value.Content[i+1]

		var err error
		switch key {
		case "name":
			err = node.Decode(&g.Name)
		case "rules":
			err = g.decodeYAMLRules(node)
		case "extras":
			err = node.Decode(&g.Extras)
		case "externals":
			err = node.Decode(&g.Externals)
		case "inline":
			err = node.Decode(&g.Inline)
		case "conflicts":
			err = node.Decode(&g.Conflicts)
		case "word":
			err = node.Decode(&g.Word)
		case "supertypes":
			err = node.Decode(&g.Supertypes)
		}
		if err != nil {
			return fmt.Errorf("decode %s: %w", key, err)
		}
	}
	return nil
}

func (g *Grammar) decodeYAMLRules(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return errors.New("rules is not a mapping")
	}
	g.Rules = map[string]*Rule{}
	for i := 0; i+1 < len(node.Content); i += 2 {
		name := node.Content[i].Value
		var rule Rule
		if err := node.Content[i+1].Decode(&rule); err != nil {
			return fmt.Errorf("rule %q: %w", name, err)
		}
		if _, dup := g.Rules[name]; dup {
			return fmt.Errorf("duplicate rule %q", name)
		}
		g.RuleNames = append(g.RuleNames, name)
		g.Rules[name] = &rule
	}
	return nil
}

// UnmarshalYAML decodes a rule node, dispatching on the value's shape the
// same way the JSON decoder does.
func (r *Rule) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return errors.New("rule is not a mapping")
	}

	for i := 0; i+1 < len(value.Content); i += 2 {
		key := value.Content[i].Value
		node := value.Content[i+1]

		var err error
		switch key {
		case "type":
			var t string
			if err = node.Decode(&t); err == nil {
				r.Type = RuleType(t)
			}
		case "value":
			if n, convErr := strconv.Atoi(node.Value); convErr == nil && node.Tag == "!!int" {
				r.IntValue = n
			} else {
				err = node.Decode(&r.StringValue)
			}
		case "name":
			err = node.Decode(&r.Name)
		case "content":
			r.Content = &Rule{}
			err = node.Decode(r.Content)
		case "members":
			err = node.Decode(&r.Members)
		case "named":
			err = node.Decode(&r.Named)
		}
		if err != nil {
			return fmt.Errorf("rule %s: %w", key, err)
		}
	}
	if r.Type == "" {
		return errors.New("rule missing type")
	}
	return nil
}
