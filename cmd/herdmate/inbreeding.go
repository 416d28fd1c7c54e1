// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/herdmate/internal/defect"
	"github.com/pdiddy/herdmate/internal/inbreeding"
)

var inbreedingCmd = &cobra.Command{
	Use:   "inbreeding <sire> <dam>",
	Short: "Compute the expected inbreeding of a calf from one mating",
	Long: `Inbreeding prints the expected inbreeding coefficient of a calf sired by
<sire> out of <dam>, and the recessive defect verdict per locus. Either
animal may be named by any of its identifiers.`,
	Args: cobra.ExactArgs(2),
	RunE: runInbreeding,
}

func runInbreeding(cmd *cobra.Command, args []string) error {
	h, err := loadHerd()
	if err != nil {
		return err
	}
	sireID, damID := args[0], args[1]
	if a, ok := h.Registry.Resolve(sireID); ok {
		sireID = a.ID
	}
	if a, ok := h.Registry.Resolve(damID); ok {
		damID = a.ID
	}

	calc := inbreeding.NewCalculator(h.Registry, cfg.Pedigree.MaxDepth)
	f := calc.Coefficient(sireID, damID)

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "%s x %s\n", sireID, damID)
	fmt.Fprintf(w, "  inbreeding  %s  (threshold %.2f%%)\n", percent(f), cfg.Constraints.ThresholdPercent)

	a := defect.NewClassifier(cfg.Scoring.DefectPanel).Assess(h.Genotypes[sireID], h.Genotypes[damID])
	fmt.Fprintf(w, "  defects     %s\n", a.Verdict)
	for _, l := range a.Loci {
		fmt.Fprintf(w, "    %-12s  sire %-8s  dam %-8s  %s\n", l.Locus, l.Sire, l.Dam, l.Verdict)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(inbreedingCmd)
}
