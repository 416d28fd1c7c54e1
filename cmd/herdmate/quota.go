// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/pdiddy/herdmate/internal/allocation"
)

var quotaCmd = &cobra.Command{
	Use:   "quota <bull>...",
	Short: "Split a number of cows evenly across bulls",
	Long: `Quota prints how many cows each bull receives when --cows are spread
evenly. Bulls listed first take the remainder.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, _ := cmd.Flags().GetInt("cows")
		if n < 0 {
			return errors.New("--cows must not be negative")
		}
		printQuotas(cmd.OutOrStdout(), allocation.EqualAllocation(args, n))
		return nil
	},
}

func init() {
	quotaCmd.Flags().Int("cows", 0, "number of cows to split")
	_ = quotaCmd.MarkFlagRequired("cows")
	rootCmd.AddCommand(quotaCmd)
}
