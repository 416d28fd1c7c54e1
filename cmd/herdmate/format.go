// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/herdmate/internal/allocation"
	"github.com/pdiddy/herdmate/internal/pedigree"
	"github.com/pdiddy/herdmate/internal/store"
	"github.com/pdiddy/herdmate/pkg/types"
)

// percent formats a coefficient in [0, 1] as a percentage with two decimals.
func percent(f float64) string {
	return fmt.Sprintf("%.2f%%", f*100)
}

func rate(r *float64) string {
	if r == nil {
		return "n/a"
	}
	return percent(*r)
}

func score(p types.CandidatePairing) string {
	if !p.ScoreKnown {
		return "-"
	}
	return fmt.Sprintf("%.1f", p.Score)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printRecommendations(w io.Writer, recs []types.Recommendation) {
	if len(recs) == 0 {
		fmt.Fprintln(w, "No cows to score.")
		return
	}
	fmt.Fprintf(w, "%-12s  %-8s  %-4s  %-16s  %-8s  %-8s  %s\n",
		"Cow", "Semen", "Rank", "Bull", "F", "Defects", "Score")
	fmt.Fprintln(w, strings.Repeat("-", 76))
	for _, r := range recs {
		if len(r.Choices) == 0 {
			fmt.Fprintf(w, "%-12s  %-8s  %-4s  %s\n", truncate(r.CowID, 12), r.SemenType, "-", "no eligible bull")
			continue
		}
		for i, c := range r.Choices {
			fmt.Fprintf(w, "%-12s  %-8s  %-4d  %-16s  %-8s  %-8s  %s\n",
				truncate(r.CowID, 12), r.SemenType, i+1, truncate(c.BullID, 16),
				percent(c.Coefficient), c.Verdict, score(c))
		}
	}
}

func printPlan(w io.Writer, plan *types.AllocationPlan) {
	fmt.Fprintf(w, "Run %s  (%s, threshold %.2f%%)\n\n",
		plan.RunID, plan.CreatedAt.Format("2006-01-02 15:04"), plan.Constraints.ThresholdPercent)

	fmt.Fprintf(w, "%-12s  %-12s  %-8s  %-16s  %-4s  %-8s  %-8s  %s\n",
		"Cow", "Group", "Semen", "Bull", "Rank", "F", "Defects", "Mode")
	fmt.Fprintln(w, strings.Repeat("-", 90))
	for _, r := range plan.Results {
		rank := fmt.Sprint(r.ChoiceRank)
		if r.ChoiceRank == 0 {
			rank = "-"
		}
		fmt.Fprintf(w, "%-12s  %-12s  %-8s  %-16s  %-4s  %-8s  %-8s  %s\n",
			truncate(r.CowID, 12), truncate(r.Group, 12), r.SemenType, truncate(r.BullID, 16),
			rank, percent(r.Coefficient), r.Verdict, r.Mode)
	}

	fmt.Fprintf(w, "\n%-12s  %-8s  %5s  %9s  %11s  %s\n", "Group", "Semen", "Cows", "Allocated", "Unallocated", "Rate")
	for _, g := range plan.Groups {
		fmt.Fprintf(w, "%-12s  %-8s  %5d  %9d  %11d  %s\n",
			truncate(g.Group, 12), g.SemenType, g.Cows, g.Allocated, g.Unallocated, percent(g.AllocationRate))
	}

	fmt.Fprintf(w, "\n%-16s  %-8s  %8s  %4s  %9s  %s\n", "Bull", "Semen", "Original", "Used", "Remaining", "Usage")
	for _, b := range plan.Bulls {
		fmt.Fprintf(w, "%-16s  %-8s  %8d  %4d  %9d  %s\n",
			truncate(b.BullID, 16), b.SemenType, b.Original, b.Used, b.Remaining, rate(b.UsageRate))
	}

	if ids := plan.UnallocatedCowIDs(); len(ids) > 0 {
		fmt.Fprintf(w, "\nUnallocated: %s\n", strings.Join(ids, ", "))
	}
	fmt.Fprintf(w, "\n%d allocated, %d unallocated\n", len(plan.Results), len(plan.Unallocated))
}

func printIssues(w io.Writer, issues []pedigree.Issue) {
	if len(issues) == 0 {
		fmt.Fprintln(w, "No lineage issues found.")
		return
	}
	for _, is := range issues {
		fmt.Fprintf(w, "%-14s  %-12s  %s\n", is.Kind, truncate(is.AnimalID, 12), is.Message)
	}
	fmt.Fprintf(w, "\n%d issues\n", len(issues))
}

func printQuotas(w io.Writer, quotas []allocation.Quota) {
	total := 0
	for _, q := range quotas {
		fmt.Fprintf(w, "%-16s  %d\n", q.BullID, q.Count)
		total += q.Count
	}
	fmt.Fprintf(w, "\n%d cows over %d bulls\n", total, len(quotas))
}

func printRuns(w io.Writer, runs []store.RunSummary) {
	if len(runs) == 0 {
		fmt.Fprintln(w, "No stored runs.")
		return
	}
	fmt.Fprintf(w, "%-36s  %-16s  %9s  %9s  %s\n", "Run", "Created", "Threshold", "Allocated", "Unallocated")
	fmt.Fprintln(w, strings.Repeat("-", 90))
	for _, r := range runs {
		fmt.Fprintf(w, "%-36s  %-16s  %8.2f%%  %9d  %d\n",
			r.ID, r.CreatedAt.Format("2006-01-02 15:04"), r.ThresholdPercent, r.Allocated, r.Unallocated)
	}
}

func printHistory(w io.Writer, cowID string, hist []store.HistoryEntry) {
	if len(hist) == 0 {
		fmt.Fprintf(w, "No allocations stored for %s.\n", cowID)
		return
	}
	for _, h := range hist {
		fmt.Fprintf(w, "%s  %-36s  %-16s  %-8s  rank %d  F %s  %s\n",
			h.CreatedAt.Format("2006-01-02"), h.RunID, h.BullID, h.SemenType, h.ChoiceRank, percent(h.Coefficient), h.Mode)
	}
}
