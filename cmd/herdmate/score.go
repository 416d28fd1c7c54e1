// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/herdmate/internal/allocation"
	"github.com/pdiddy/herdmate/internal/dataset"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Rank the best bulls for every cow",
	Long: `Score evaluates every present cow against every bull with semen in stock
and prints each cow's top choices per semen type. Pairings above the
inbreeding threshold, with a confirmed defect risk, or below the minimum
score are left out.`,
	Args: cobra.NoArgs,
	RunE: runScore,
}

func runScore(cmd *cobra.Command, args []string) error {
	h, err := loadHerd()
	if err != nil {
		return err
	}
	pairings, err := scoreHerd(cmd.Context(), h)
	if err != nil {
		return err
	}
	recs := allocation.NewEngine(cfg.Allocation.MaxChoices, logger).Recommend(pairings, cfg.Constraints)

	if out, _ := cmd.Flags().GetString("out"); out != "" {
		if err := dataset.WriteYAML(out, recs); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d recommendations to %s\n", len(recs), out)
		return nil
	}
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return writeJSON(cmd.OutOrStdout(), recs)
	}
	printRecommendations(cmd.OutOrStdout(), recs)
	return nil
}

func init() {
	scoreCmd.Flags().Bool("json", false, "output recommendations as JSON")
	scoreCmd.Flags().String("out", "", "write recommendations to a YAML file")
	rootCmd.AddCommand(scoreCmd)
}
