// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package allocation

import (
	"context"
	"fmt"
	"math"

	"github.com/pdiddy/herdmate/internal/pairing"
	"github.com/pdiddy/herdmate/pkg/types"
)

// Quota is the number of cows assigned to one bull in ratio mode.
type Quota struct {
	BullID string `json:"bull_id" yaml:"bull_id"`
	Count  int    `json:"count" yaml:"count"`
}

// EqualAllocation splits total cows evenly over bulls. The first
// total mod len(bulls) bulls, in input order, get one extra cow.
func EqualAllocation(bulls []string, total int) []Quota {
	if len(bulls) == 0 {
		return nil
	}
	if total < 0 {
		total = 0
	}
	base, rem := total/len(bulls), total%len(bulls)
	out := make([]Quota, len(bulls))
	for i, b := range bulls {
		out[i] = Quota{BullID: b, Count: base}
		if i < rem {
			out[i].Count++
		}
	}
	return out
}

// RatioRequest is the input of a ratio-mode run for one semen type.
type RatioRequest struct {
	Groups      []types.CowGroup
	SemenType   types.SemenType
	Pairings    []types.CandidatePairing
	Inventories []types.SemenInventory
	Constraints types.MatingConstraints
	CowScores   map[string]float64

	// Bulls is the bull set in quota order. Empty means every bull with an
	// inventory row for SemenType, in inventory order.
	Bulls []string

	// Target is the number of cows to assign. When zero it is
	// ceil(Ratio * eligible cows).
	Target int
	Ratio  float64
}

// AllocateRatio assigns a target number of cows evenly across a bull set,
// ignoring per-cow rank. Each quota is capped by the bull's units. A cow
// takes the first bull with quota left whose pairing, when one was scored,
// meets the constraints.
func (e *Engine) AllocateRatio(ctx context.Context, req RatioRequest) (*types.AllocationPlan, error) {
	if !req.SemenType.Valid() {
		return nil, fmt.Errorf("%w: unknown semen type %q", ErrInvalidConfig, req.SemenType)
	}
	groups, err := validate(req.Groups, req.Inventories, req.Constraints)
	if err != nil {
		return nil, err
	}
	if req.Target < 0 {
		return nil, fmt.Errorf("%w: negative target %d", ErrInvalidConfig, req.Target)
	}
	if req.Target == 0 && (math.IsNaN(req.Ratio) || req.Ratio <= 0 || req.Ratio > 1) {
		return nil, fmt.Errorf("%w: ratio %v must be in (0, 1]", ErrInvalidConfig, req.Ratio)
	}

	groups = onlySemen(groups, req.SemenType)
	if len(groups) == 0 {
		return nil, fmt.Errorf("%w: no group draws %s semen", ErrInvalidConfig, req.SemenType)
	}

	remaining := inventoryFor(req.Inventories, req.SemenType)
	bulls, err := ratioBulls(req.Bulls, req.Inventories, req.SemenType)
	if err != nil {
		return nil, err
	}

	slots := orderedSlots(groups, req.CowScores)[req.SemenType]
	target := req.Target
	if target == 0 {
		target = int(math.Ceil(req.Ratio * float64(len(slots))))
	}
	target = min(target, len(slots))

	quota := make(map[string]int, len(bulls))
	for _, q := range EqualAllocation(bulls, target) {
		quota[q.BullID] = min(q.Count, remaining[q.BullID])
	}

	pairs := make(map[slotKey]map[string]types.CandidatePairing)
	for _, p := range req.Pairings {
		if p.SemenType != req.SemenType {
			continue
		}
		k := slotKey{p.CowID, p.SemenType}
		if pairs[k] == nil {
			pairs[k] = make(map[string]types.CandidatePairing)
		}
		pairs[k][p.BullID] = p
	}
	ranked, _ := rankAll(req.Pairings, req.Constraints, e.maxChoices())

	plan := &types.AllocationPlan{Constraints: req.Constraints}
	plan.RunID, plan.CreatedAt = e.stamp()

	for _, s := range slots {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("allocating: %w", err)
		}
		// Cows past the target stay unallocated, as do cows no bull can take.
		if len(plan.Results) < target {
			k := slotKey{s.cow, req.SemenType}
			r, ok, err := ratioPick(s, req.SemenType, bulls, quota, remaining, pairs[k], ranked[k], req.Constraints)
			if err != nil {
				return nil, err
			}
			if ok {
				plan.Results = append(plan.Results, r)
				continue
			}
		}
		plan.Unallocated = append(plan.Unallocated, types.UnallocatedCow{CowID: s.cow, Group: s.group, SemenType: req.SemenType})
	}

	plan.Groups, plan.Bulls = Summarize(plan.Results, groups, req.Inventories)
	e.Logger.Info("ratio allocation complete",
		"run_id", plan.RunID,
		"semen_type", req.SemenType,
		"target", target,
		"allocated", len(plan.Results))
	return plan, nil
}

// ratioBulls returns the quota order for st. An explicit list must name
// distinct bulls that each have an inventory row for st; an empty list
// means every such bull in inventory order.
func ratioBulls(requested []string, inv []types.SemenInventory, st types.SemenType) ([]string, error) {
	stocked := make(map[string]bool)
	var all []string
	for _, row := range inv {
		if row.SemenType == st && !stocked[row.BullID] {
			stocked[row.BullID] = true
			all = append(all, row.BullID)
		}
	}
	if len(requested) == 0 {
		if len(all) == 0 {
			return nil, fmt.Errorf("%w: no bulls stocked for %s", ErrInvalidConfig, st)
		}
		return all, nil
	}

	seen := make(map[string]bool, len(requested))
	for _, b := range requested {
		switch {
		case seen[b]:
			return nil, fmt.Errorf("%w: bull %s listed twice", ErrInvalidConfig, b)
		case !stocked[b]:
			return nil, fmt.Errorf("%w: bull %s has no %s inventory", ErrInvalidConfig, b, st)
		}
		seen[b] = true
	}
	return requested, nil
}

func ratioPick(s slot, st types.SemenType, bulls []string, quota, remaining map[string]int,
	scored map[string]types.CandidatePairing, ranked []types.CandidatePairing, c types.MatingConstraints,
) (types.AllocationResult, bool, error) {
	for _, b := range bulls {
		n, err := unitsLeft(remaining, b, st)
		if err != nil {
			return types.AllocationResult{}, false, err
		}
		if quota[b] <= 0 || n == 0 {
			continue
		}
		r := types.AllocationResult{
			CowID:     s.cow,
			Group:     s.group,
			BullID:    b,
			SemenType: st,
			Mode:      types.ModeRatio,
		}
		if p, ok := scored[b]; ok {
			if len(pairing.Check(c, p)) > 0 {
				continue
			}
			r.Score, r.Coefficient, r.Verdict = p.Score, p.Coefficient, p.Verdict
		} else {
			r.Verdict = types.VerdictUnknown
		}
		for i, p := range ranked {
			if p.BullID == b {
				r.ChoiceRank = i + 1
				break
			}
		}
		quota[b]--
		remaining[b] = n - 1
		return r, true, nil
	}
	return types.AllocationResult{}, false, nil
}

// onlySemen restricts groups drawing from st to that semen type.
func onlySemen(groups []types.CowGroup, st types.SemenType) []types.CowGroup {
	var out []types.CowGroup
	for _, g := range groups {
		for _, t := range g.SemenTypes {
			if t == st {
				g.SemenTypes = []types.SemenType{st}
				out = append(out, g)
				break
			}
		}
	}
	return out
}
