// Package cli provides the Cobra command structure for the sapling tool.
package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/sapling-lang/sapling/compile"
	"github.com/sapling-lang/sapling/grammar"
	"github.com/sapling-lang/sapling/internal/logging"
	"github.com/sapling-lang/sapling/language"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// Exit codes.
const (
	ExitSuccess       = 0
	ExitFindings      = 1
	ExitInvalidUsage  = 64
	ExitInternalError = 70
)

// ErrFindings signals a clean run that reported findings; the caller maps
// it to ExitFindings without logging.
var ErrFindings = errors.New("findings reported")

// NewRootCommand creates the root sapling command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	var debug bool

	rootCmd := &cobra.Command{
		Use:   "sapling",
		Short: "Grammar-driven incremental parsing toolkit",
		Long: `sapling compiles declarative grammar descriptions into parse tables and
parses source files with them, incrementally reusing unchanged syntax across
edits. Grammars use the combinator schema of grammar.json and load from JSON
or YAML.`,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if debug {
				logging.SetLevel(logging.Default(), "debug")
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(newCheckCommand())
	rootCmd.AddCommand(newParseCommand())
	rootCmd.AddCommand(newTokensCommand())
	rootCmd.AddCommand(newVersionCommand(info))

	return rootCmd
}

// loadGrammar reads and decodes a grammar file, dispatching on extension.
func loadGrammar(path string) (*grammar.Grammar, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read grammar: %w", err)
	}
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		return grammar.ParseYAML(data)
	default:
		return grammar.ParseJSON(data)
	}
}

// compileGrammar loads, validates, and compiles a grammar file, returning
// the table together with any validation warnings.
func compileGrammar(path string) (*language.Language, []grammar.Warning, error) {
	g, err := loadGrammar(path)
	if err != nil {
		return nil, nil, err
	}
	warnings, err := grammar.Validate(g)
	if err != nil {
		return nil, nil, fmt.Errorf("validate grammar: %w", err)
	}
	lang, err := compile.Grammar(g)
	if err != nil {
		return nil, warnings, err
	}
	return lang, warnings, nil
}
