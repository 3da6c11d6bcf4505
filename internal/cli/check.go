package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sapling-lang/sapling/internal/logging"
	"github.com/sapling-lang/sapling/internal/ui/pretty"
)

func newCheckCommand() *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "check <grammar>",
		Short: "Validate and compile a grammar",
		Long: `check loads a grammar description, runs structural validation, and
compiles it to parse tables. Validation warnings print to stdout; compile
failures (undefined symbols, unresolvable table conflicts, malformed rules)
are fatal.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.FromContext(cmd.Context())

			lang, warnings, err := compileGrammar(args[0])
			for _, w := range warnings {
				fmt.Fprintln(cmd.OutOrStdout(), pretty.Warning(w))
			}
			if err != nil {
				return err
			}

			logger.Debug("grammar compiled",
				"symbols", lang.SymbolCount(),
				"states", lang.StateCount(),
				"productions", len(lang.Productions))
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d symbols, %d states, %d productions\n",
				lang.Name, lang.SymbolCount(), lang.StateCount(), len(lang.Productions))

			if strict && len(warnings) > 0 {
				return ErrFindings
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "treat validation warnings as findings")
	return cmd
}
