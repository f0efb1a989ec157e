package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var normalizeCmd = &cobra.Command{
	Use:   "normalize <value>...",
	Short: "Print the display form of raw numeric input",
	Long: `Strips everything but digits from each argument and groups the
result with the configured locale, the way the calculator fields do.
Arguments without digits print an empty line.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := formatter()
		if err != nil {
			return err
		}
		for _, raw := range args {
			if _, err := fmt.Fprintln(cmd.OutOrStdout(), f.Normalize(raw)); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(normalizeCmd)
}
