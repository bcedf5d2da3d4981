package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"zephyr/internal/diag"
	"zephyr/internal/diagfmt"
	"zephyr/internal/driver"
)

var tokenizeFormat string

func init() {
	tokenizeCmd.Flags().StringVar(&tokenizeFormat, "format", "pretty", "output format (pretty|json)")
}

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize <file>",
	Short: "Dump the token stream of one source file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		maxDiags, _ := cmd.Flags().GetInt("max-diagnostics")
		colorValue, _ := cmd.Flags().GetString("color")
		useColor, err := readColorMode(colorValue)
		if err != nil {
			return err
		}

		bag := diag.NewBag(maxDiags)
		toks, fileSet, err := driver.TokenizeFile(args[0], diag.BagReporter{Bag: bag})
		if err != nil {
			return err
		}

		switch strings.ToLower(tokenizeFormat) {
		case "pretty":
			if err := diagfmt.FormatTokensPretty(cmd.OutOrStdout(), toks, fileSet); err != nil {
				return err
			}
		case "json":
			if err := diagfmt.FormatTokensJSON(cmd.OutOrStdout(), toks); err != nil {
				return err
			}
		default:
			return fmt.Errorf("unsupported format %q (must be pretty or json)", tokenizeFormat)
		}

		if bag.Len() > 0 {
			bag.Sort()
			diagfmt.Pretty(cmd.ErrOrStderr(), bag, fileSet, diagfmt.PrettyOpts{
				Color:     useColor,
				ShowNotes: true,
			})
		}
		if bag.HasErrors() {
			return fmt.Errorf("tokenization produced errors")
		}
		return nil
	},
}
