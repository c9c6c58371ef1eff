package main

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/spf13/cobra"
)

func newLexiconCommand(ctx *commandContext) *cobra.Command {
	lexiconCmd := &cobra.Command{
		Use:   "lexicon",
		Short: "Inspect the embedded lexicon",
	}

	lexiconCmd.AddCommand(&cobra.Command{
		Use:   "check",
		Short: "Validate the lexicon and print table sizes",
		RunE: func(cmd *cobra.Command, args []string) error {
			lex, err := ctx.lexicon()
			if err != nil {
				return err
			}
			stats := lex.Stats()

			if ctx.useJSON(cmd.OutOrStdout()) {
				return writeJSON(cmd, stats)
			}

			names := make([]string, 0, len(stats))
			for name := range stats {
				names = append(names, name)
			}
			sort.Strings(names)

			rows := make([][]string, len(names))
			for i, name := range names {
				rows[i] = []string{name, strconv.Itoa(stats[name])}
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Table", "Entries"},
				rows,
				[]columnAlignment{alignLeft, alignRight},
			))
			fmt.Fprintln(cmd.OutOrStdout(), "Lexicon OK")
			return nil
		},
	})

	return lexiconCmd
}
