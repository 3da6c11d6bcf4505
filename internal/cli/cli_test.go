package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sapling-lang/sapling/internal/testutil"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand(BuildInfo{Version: "test"})
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCheckCommand(t *testing.T) {
	dir := t.TempDir()
	grammarPath := writeFile(t, dir, "arith.json", testutil.ArithJSON)

	out, err := execute(t, "check", grammarPath)
	require.NoError(t, err)
	assert.Contains(t, out, "arith")
	assert.Contains(t, out, "states")
}

func TestCheckCommandReportsWarnings(t *testing.T) {
	dir := t.TempDir()
	grammarPath := writeFile(t, dir, "orphan.json", `{
		"name": "demo",
		"rules": {
			"a": {"type": "STRING", "value": "a"},
			"orphan": {"type": "STRING", "value": "o"}
		}
	}`)

	out, err := execute(t, "check", grammarPath)
	require.NoError(t, err)
	assert.Contains(t, out, "unreachable_rule")

	_, err = execute(t, "check", "--strict", grammarPath)
	assert.ErrorIs(t, err, ErrFindings)
}

func TestCheckCommandCompileFailure(t *testing.T) {
	dir := t.TempDir()
	grammarPath := writeFile(t, dir, "bad.json", `{
		"name": "demo",
		"rules": {"a": {"type": "SYMBOL", "name": "ghost"}}
	}`)

	_, err := execute(t, "check", grammarPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ghost")
}

func TestParseCommand(t *testing.T) {
	dir := t.TempDir()
	grammarPath := writeFile(t, dir, "arith.json", testutil.ArithJSON)
	srcPath := writeFile(t, dir, "input.txt", "1+2*3")

	out, err := execute(t, "parse", "-g", grammarPath, "--sexpr", srcPath)
	require.NoError(t, err)
	assert.Contains(t, out, "(expression (expression (number))")
}

func TestParseCommandReportsFindings(t *testing.T) {
	dir := t.TempDir()
	grammarPath := writeFile(t, dir, "arith.json", testutil.ArithJSON)
	srcPath := writeFile(t, dir, "input.txt", "1+")

	out, err := execute(t, "parse", "-g", grammarPath, "--sexpr", srcPath)
	assert.ErrorIs(t, err, ErrFindings)
	assert.Contains(t, out, "MISSING")
	assert.Contains(t, out, "missing-token")
}

func TestTokensCommand(t *testing.T) {
	dir := t.TempDir()
	grammarPath := writeFile(t, dir, "arith.json", testutil.ArithJSON)
	srcPath := writeFile(t, dir, "input.txt", "12+3")

	out, err := execute(t, "tokens", "-g", grammarPath, srcPath)
	require.NoError(t, err)
	assert.Contains(t, out, "number")
	assert.Contains(t, out, "<eof>")
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "sapling test")
}

func TestLoadGrammarYAML(t *testing.T) {
	dir := t.TempDir()
	grammarPath := writeFile(t, dir, "g.yaml", `
name: demo
rules:
  word:
    type: PATTERN
    value: "[a-z]+"
`)
	g, err := loadGrammar(grammarPath)
	require.NoError(t, err)
	assert.Equal(t, "demo", g.Name)
	assert.Equal(t, []string{"word"}, g.RuleNames)
}
