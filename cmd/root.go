package cmd

import (
	"github.com/spf13/cobra"
)

var tokenSymbol string

// NewRootCmd returns the root command for the enricher
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "enricher",
		Short:         "Merge scot curation data into steem content",
		Long:          "enricher fetches posts, feeds and page state from steemd and attaches scot token curation data.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVar(&tokenSymbol, "token", "", "token symbol (overrides TOKEN_SYMBOL)")

	rootCmd.AddCommand(newWorkerCmd())
	rootCmd.AddCommand(newStateCmd())
	rootCmd.AddCommand(newFeedCmd())
	rootCmd.AddCommand(newContentCmd())

	return rootCmd
}
