// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/herdmate/internal/allocation"
	"github.com/pdiddy/herdmate/pkg/types"
)

var allocateCmd = &cobra.Command{
	Use:   "allocate",
	Short: "Build a semen allocation plan for the herd",
	Long: `Allocate scores the herd, then gives each cow the best-ranked eligible
bull that still has units of the semen type in stock. Cows are taken in
group order, highest breeding index first. The plan is stored so it can
be listed, shown, and exported later.

With --ratio or --target, allocation ignores per-cow rank for one semen
type and spreads that share of the cows evenly across the stocked bulls.`,
	Args: cobra.NoArgs,
	RunE: runAllocate,
}

func runAllocate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	h, err := loadHerd()
	if err != nil {
		return err
	}
	pairings, err := scoreHerd(ctx, h)
	if err != nil {
		return err
	}

	engine := allocation.NewEngine(cfg.Allocation.MaxChoices, logger)
	ratio, _ := cmd.Flags().GetFloat64("ratio")
	target, _ := cmd.Flags().GetInt("target")

	var plan *types.AllocationPlan
	if ratio > 0 || target > 0 {
		semen, _ := cmd.Flags().GetString("semen-type")
		bulls, _ := cmd.Flags().GetStringSlice("bulls")
		for i, b := range bulls {
			if a, ok := h.Registry.Resolve(b); ok {
				bulls[i] = a.ID
			}
		}
		plan, err = engine.AllocateRatio(ctx, allocation.RatioRequest{
			Groups:      h.Groups,
			SemenType:   types.SemenType(semen),
			Pairings:    pairings,
			Inventories: h.Inventory,
			Constraints: cfg.Constraints,
			CowScores:   h.CowScores,
			Bulls:       bulls,
			Target:      target,
			Ratio:       ratio,
		})
	} else {
		plan, err = engine.Allocate(ctx, allocation.Request{
			Groups:      h.Groups,
			Pairings:    pairings,
			Inventories: h.Inventory,
			Constraints: cfg.Constraints,
			CowScores:   h.CowScores,
		})
	}
	if err != nil {
		return err
	}

	noStore, _ := cmd.Flags().GetBool("no-store")
	export, _ := cmd.Flags().GetString("export")
	if !noStore {
		if err := savePlan(ctx, cmd, plan, export); err != nil {
			return err
		}
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return writeJSON(cmd.OutOrStdout(), plan)
	}
	printPlan(cmd.OutOrStdout(), plan)
	return nil
}

func savePlan(ctx context.Context, cmd *cobra.Command, plan *types.AllocationPlan, export string) error {
	s, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.SaveRun(ctx, plan); err != nil {
		return err
	}
	logger.Info("plan stored", "run_id", plan.RunID)

	var path string
	switch export {
	case "":
		return nil
	case "yaml":
		path, err = s.ExportYAML(ctx, plan.RunID)
	case "json":
		path, err = s.ExportJSON(ctx, plan.RunID)
	default:
		return fmt.Errorf("unsupported export format %q: use yaml or json", export)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Exported to %s\n", path)
	return nil
}

func init() {
	allocateCmd.Flags().Bool("json", false, "output the plan as JSON")
	allocateCmd.Flags().Bool("no-store", false, "do not persist the plan")
	allocateCmd.Flags().String("export", "", "also export the stored plan: yaml or json")
	allocateCmd.Flags().Float64("ratio", 0, "ratio mode: share of eligible cows to assign (0-1]")
	allocateCmd.Flags().Int("target", 0, "ratio mode: number of cows to assign")
	allocateCmd.Flags().String("semen-type", string(types.SemenSexed), "ratio mode: semen type to allocate")
	allocateCmd.Flags().StringSlice("bulls", nil, "ratio mode: bulls in quota order (default: all stocked)")
	rootCmd.AddCommand(allocateCmd)
}
