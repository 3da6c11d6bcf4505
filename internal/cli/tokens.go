package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sapling-lang/sapling/lexer"
)

func newTokensCommand() *cobra.Command {
	var grammarPath string

	cmd := &cobra.Command{
		Use:   "tokens -g <grammar> <file>",
		Short: "Dump the token stream for a source file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lang, _, err := compileGrammar(grammarPath)
			if err != nil {
				return err
			}
			src, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read source: %w", err)
			}

			hadError := false
			lx := lexer.New(lang, src)
			for {
				tok := lx.Next()
				name := lang.SymbolName(tok.Symbol)
				switch {
				case tok.IsEOF():
					name = "<eof>"
				case tok.IsError():
					name = "<error>"
					hadError = true
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-20s %s %q\n", name, tok.Span, lx.Text(tok.Span))
				if tok.IsEOF() {
					break
				}
			}
			if hadError {
				return ErrFindings
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&grammarPath, "grammar", "g", "", "grammar file (JSON or YAML)")
	_ = cmd.MarkFlagRequired("grammar")
	return cmd
}
