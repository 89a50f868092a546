package commands

import (
	"github.com/spf13/cobra"

	"github.com/finman-dev/finman/internal/buildinfo"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	var opts globalOptions

	rootCmd := &cobra.Command{
		Use:     "finman",
		Short:   "Club finance records from bank statements",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.repo, "repo", ".", "project directory")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(
		newInitCommand(),
		newDecodeCommand(&opts),
		newExportCommand(&opts),
		newImportCommand(&opts),
		newReportCommand(&opts),
		newAddCommand(&opts),
		newListCommand(&opts),
		newCodesCommand(&opts),
	)

	return rootCmd
}
