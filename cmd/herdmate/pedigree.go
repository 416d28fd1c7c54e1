// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/herdmate/internal/pedigree"
)

var pedigreeCmd = &cobra.Command{
	Use:   "pedigree [id]",
	Short: "Print an animal's ancestry or check lineage records",
	Long: `Pedigree prints the ancestor tree of a bull or cow, marking founders,
branches cut at the depth limit, and circular references.

With --validate it checks every record for self-parentage, parents that
resolve to no animal, parents recorded with the wrong sex, and cycles.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPedigree,
}

func runPedigree(cmd *cobra.Command, args []string) error {
	validate, _ := cmd.Flags().GetBool("validate")
	if len(args) == 0 && !validate {
		return errors.New("animal ID required (or use --validate)")
	}

	h, err := loadHerd()
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()

	if len(args) == 1 {
		b := pedigree.NewBuilder(h.Registry, cfg.Pedigree.MaxDepth)
		root := b.Build(args[0])
		if root == nil {
			return errors.New("animal ID required")
		}
		if !root.Resolved {
			logger.Warn("animal not in any dataset", "id", args[0])
		}
		pedigree.FormatTree(w, root)
	}

	if validate {
		if len(args) == 1 {
			fmt.Fprintln(w)
		}
		printIssues(w, pedigree.Validate(h.Animals(), h.Registry))
	}
	return nil
}

func init() {
	pedigreeCmd.Flags().Bool("validate", false, "report lineage issues across all records")
	rootCmd.AddCommand(pedigreeCmd)
}
