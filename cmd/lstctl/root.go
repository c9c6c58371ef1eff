package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	opts := &globalOptions{}
	ctx := newCommandContext(opts)

	rootCmd := &cobra.Command{
		Use:           "lstctl",
		Short:         "Text to sign language tools",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			ctx.close()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.clipsDir, "clips", "", "Clips directory used as catalog instead of the database")
	flags.StringVar(&opts.manifest, "manifest", "", "Animation manifest used as catalog instead of the database")
	flags.BoolVar(&opts.json, "json", false, "Print JSON instead of tables")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Log to stderr")

	rootCmd.AddCommand(newTranslateCommand(ctx))
	rootCmd.AddCommand(newCatalogCommand(ctx))
	rootCmd.AddCommand(newLexiconCommand(ctx))

	return rootCmd
}
