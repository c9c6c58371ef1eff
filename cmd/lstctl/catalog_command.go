package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"lstbot/internal/catalog"
	"lstbot/internal/domain"
	"lstbot/internal/repository/postgres"
	"lstbot/internal/service"

	"github.com/spf13/cobra"
)

func newCatalogCommand(ctx *commandContext) *cobra.Command {
	catalogCmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect and import the sign catalog",
	}

	catalogCmd.AddCommand(newCatalogScanCommand(ctx))
	catalogCmd.AddCommand(newCatalogImportCommand(ctx))
	catalogCmd.AddCommand(newCatalogStatsCommand(ctx))

	return catalogCmd
}

func newCatalogScanCommand(ctx *commandContext) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "scan <dir>",
		Short: "List the clips found in a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := catalog.Scan(os.DirFS(args[0]))
			if err != nil {
				return err
			}
			c := catalog.New(entries, ctx.log())

			if output != "" {
				return writeManifestFile(output, c.Entries())
			}
			if ctx.useJSON(cmd.OutOrStdout()) {
				return catalog.WriteManifest(cmd.OutOrStdout(), c.Entries())
			}
			printEntries(cmd.OutOrStdout(), c.Entries())
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the result as an animation manifest")

	return cmd
}

func newCatalogImportCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "import",
		Short: "Store the signs of --manifest or --clips in the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !ctx.hasFileSource() {
				return fmt.Errorf("catalog import needs --clips or --manifest")
			}

			entries, origin, err := service.ImportEntries(ctx.source())
			if err != nil {
				return err
			}
			c := catalog.New(entries, ctx.log())

			db, err := ctx.database()
			if err != nil {
				return err
			}
			n, err := postgres.NewSignRepo(db).UpsertSigns(c.Entries())
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d signs from %s\n", n, origin)
			return nil
		},
	}
}

func newCatalogStatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Summarize the sign catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := ctx.catalog()
			if err != nil {
				return err
			}
			stats := c.Stats()

			if ctx.useJSON(cmd.OutOrStdout()) {
				return writeJSON(cmd, stats)
			}
			printStats(cmd.OutOrStdout(), stats)
			return nil
		},
	}
}

func writeManifestFile(path string, entries []domain.SignEntry) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create manifest: %w", err)
	}
	if err := catalog.WriteManifest(f, entries); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func printEntries(out io.Writer, entries []domain.SignEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(out, "No clips found")
		return
	}

	rows := make([][]string, len(entries))
	for i, e := range entries {
		rows[i] = []string{e.ID, e.Format, strings.Join(e.Tags, ", "), e.File}
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Sign", "Format", "Tags", "File"},
		rows,
		nil,
	))
	fmt.Fprintf(out, "%d signs\n", len(entries))
}

func printStats(out io.Writer, stats domain.SignStats) {
	fmt.Fprintf(out, "Signs:    %d\n", stats.Total)
	fmt.Fprintf(out, "Duration: %s\n", stats.TotalDuration.Round(time.Second))

	rows := countRows("format", stats.ByFormat)
	rows = append(rows, countRows("tag", stats.ByTag)...)
	if len(rows) > 0 {
		fmt.Fprintln(out, renderTable(
			[]string{"Kind", "Value", "Signs"},
			rows,
			[]columnAlignment{alignLeft, alignLeft, alignRight},
		))
	}
}

func countRows(kind string, counts map[string]int) [][]string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	rows := make([][]string, len(keys))
	for i, k := range keys {
		rows[i] = []string{kind, k, strconv.Itoa(counts[k])}
	}
	return rows
}
