package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sapling-lang/sapling/internal/logging"
	"github.com/sapling-lang/sapling/internal/ui/pretty"
	"github.com/sapling-lang/sapling/parser"
)

func newParseCommand() *cobra.Command {
	var grammarPath string
	var sexpr bool

	cmd := &cobra.Command{
		Use:   "parse -g <grammar> <file>",
		Short: "Parse a source file and print its tree",
		Long: `parse compiles the grammar, parses the file, and prints the resulting
tree. The parse always produces a tree spanning the whole input; syntax
errors appear as diagnostics and as error or missing nodes. The exit code is
1 when the tree contains errors.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.FromContext(cmd.Context())

			lang, _, err := compileGrammar(grammarPath)
			if err != nil {
				return err
			}
			src, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read source: %w", err)
			}

			p := parser.New(lang, parser.WithLogger(logger))
			tree, err := p.Parse(cmd.Context(), src)
			if err != nil {
				return err
			}

			if sexpr {
				fmt.Fprintln(cmd.OutOrStdout(), tree.SExpr())
			} else {
				fmt.Fprint(cmd.OutOrStdout(), pretty.Tree(tree))
			}
			for _, d := range tree.Diagnostics {
				fmt.Fprintln(cmd.ErrOrStderr(), pretty.Diagnostic(tree.Lines, d))
			}

			if tree.HasError() {
				return ErrFindings
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&grammarPath, "grammar", "g", "", "grammar file (JSON or YAML)")
	cmd.Flags().BoolVar(&sexpr, "sexpr", false, "print the tree as an s-expression")
	_ = cmd.MarkFlagRequired("grammar")
	return cmd
}
