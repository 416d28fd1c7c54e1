// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package allocation turns scored candidate pairings into a semen
// allocation plan that respects bull inventory and per-cow preference.
//
// Ranked mode walks each cow's best eligible bulls and takes the first one
// with units left. Ratio mode spreads a target cow count evenly over a bull
// set regardless of rank. Summaries are derived only from the result log
// and the original inventories.
package allocation

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/herdmate/internal/logging"
	"github.com/pdiddy/herdmate/pkg/types"
)

var (
	// ErrInvalidConfig is returned before any assignment when a request's
	// constraints, inventories or groups are unusable.
	ErrInvalidConfig = errors.New("invalid allocation config")

	// ErrInvariant reports an engine bug, such as inventory dropping below
	// zero. The run is aborted.
	ErrInvariant = errors.New("allocation invariant violated")
)

// Engine runs allocations. The zero value is usable.
type Engine struct {
	// MaxChoices is the number of ranked bulls kept per cow and semen type.
	MaxChoices int
	Logger     *logging.Logger

	now   func() time.Time
	newID func() string
}

// NewEngine returns an Engine keeping maxChoices ranked bulls per cow
// (<= 0 uses the default of 3).
func NewEngine(maxChoices int, log *logging.Logger) *Engine {
	return &Engine{MaxChoices: maxChoices, Logger: log}
}

func (e *Engine) maxChoices() int {
	if e.MaxChoices <= 0 {
		return types.DefaultMaxChoices
	}
	return e.MaxChoices
}

func (e *Engine) stamp() (string, time.Time) {
	id, now := uuid.NewString(), time.Now().UTC()
	if e.newID != nil {
		id = e.newID()
	}
	if e.now != nil {
		now = e.now()
	}
	return id, now
}

// Request is the input of a ranked allocation run. Inventory bull IDs must
// use the same canonical IDs as the pairings.
type Request struct {
	Groups      []types.CowGroup
	Pairings    []types.CandidatePairing
	Inventories []types.SemenInventory
	Constraints types.MatingConstraints

	// CowScores orders cows within a group, highest first. Cows without a
	// score go after scored ones.
	CowScores map[string]float64
}

// Allocate runs ranked allocation. Pairings are re-checked against the
// request's constraints, so the plan reflects the constraints it records.
// Semen types are allocated concurrently over disjoint inventories and the
// results merged in semen type order.
func (e *Engine) Allocate(ctx context.Context, req Request) (*types.AllocationPlan, error) {
	groups, err := validate(req.Groups, req.Inventories, req.Constraints)
	if err != nil {
		return nil, err
	}
	log := e.Logger

	ranked, _ := rankAll(req.Pairings, req.Constraints, e.maxChoices())
	slots := orderedSlots(groups, req.CowScores)
	semen := semenTypesOf(groups)

	results := make([][]types.AllocationResult, len(semen))
	unalloc := make([][]types.UnallocatedCow, len(semen))

	g, ctx := errgroup.WithContext(ctx)
	for i, st := range semen {
		g.Go(func() error {
			remaining := inventoryFor(req.Inventories, st)
			for _, s := range slots[st] {
				if err := ctx.Err(); err != nil {
					return err
				}
				r, ok, err := assign(s, ranked[slotKey{s.cow, st}], remaining)
				if err != nil {
					return err
				}
				if ok {
					results[i] = append(results[i], r)
				} else {
					unalloc[i] = append(unalloc[i], types.UnallocatedCow{CowID: s.cow, Group: s.group, SemenType: st})
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("allocating: %w", err)
	}

	plan := &types.AllocationPlan{Constraints: req.Constraints}
	plan.RunID, plan.CreatedAt = e.stamp()
	for i := range semen {
		plan.Results = append(plan.Results, results[i]...)
		plan.Unallocated = append(plan.Unallocated, unalloc[i]...)
	}
	plan.Groups, plan.Bulls = Summarize(plan.Results, groups, req.Inventories)
	plan.Recommendations = recommendations(slots, semen, ranked)

	log.Info("allocation complete",
		"run_id", plan.RunID,
		"allocated", len(plan.Results),
		"unallocated", len(plan.Unallocated))
	return plan, nil
}

// assign gives s the first ranked bull with units left.
func assign(s slot, choices []types.CandidatePairing, remaining map[string]int) (types.AllocationResult, bool, error) {
	for rank, p := range choices {
		n, err := unitsLeft(remaining, p.BullID, p.SemenType)
		if err != nil {
			return types.AllocationResult{}, false, err
		}
		if n == 0 {
			continue
		}
		remaining[p.BullID] = n - 1
		return types.AllocationResult{
			CowID:       s.cow,
			Group:       s.group,
			BullID:      p.BullID,
			SemenType:   p.SemenType,
			ChoiceRank:  rank + 1,
			Score:       p.Score,
			Coefficient: p.Coefficient,
			Verdict:     p.Verdict,
			Mode:        types.ModeRanked,
		}, true, nil
	}
	return types.AllocationResult{}, false, nil
}

// unitsLeft reads a bull's working inventory. A negative count means an
// earlier decrement went below zero.
func unitsLeft(remaining map[string]int, bull string, st types.SemenType) (int, error) {
	n := remaining[bull]
	if n < 0 {
		return 0, fmt.Errorf("%w: bull %s %s inventory below zero", ErrInvariant, bull, st)
	}
	return n, nil
}

type slot struct {
	cow   string
	group string
}

// orderedSlots lists, per semen type, the cows to allocate in group input
// order, then cow score descending, then cow ID.
func orderedSlots(groups []types.CowGroup, scores map[string]float64) map[types.SemenType][]slot {
	out := make(map[types.SemenType][]slot)
	for _, g := range groups {
		cows := sortedCows(g.CowIDs, scores)
		for _, st := range g.SemenTypes {
			for _, c := range cows {
				out[st] = append(out[st], slot{cow: c, group: g.Name})
			}
		}
	}
	return out
}

func sortedCows(ids []string, scores map[string]float64) []string {
	cows := append([]string(nil), ids...)
	score := func(id string) float64 {
		if s, ok := scores[id]; ok {
			return s
		}
		return math.Inf(-1)
	}
	sort.SliceStable(cows, func(i, j int) bool {
		si, sj := score(cows[i]), score(cows[j])
		if si != sj {
			return si > sj
		}
		return cows[i] < cows[j]
	})
	return cows
}

func semenTypesOf(groups []types.CowGroup) []types.SemenType {
	set := make(map[types.SemenType]bool)
	for _, g := range groups {
		for _, st := range g.SemenTypes {
			set[st] = true
		}
	}
	return semenOrder(set)
}

// inventoryFor copies the units of one semen type keyed by bull.
func inventoryFor(inv []types.SemenInventory, st types.SemenType) map[string]int {
	out := make(map[string]int)
	for _, row := range inv {
		if row.SemenType == st {
			out[row.BullID] = row.Units
		}
	}
	return out
}

func recommendations(slots map[types.SemenType][]slot, semen []types.SemenType, ranked map[slotKey][]types.CandidatePairing) []types.Recommendation {
	var out []types.Recommendation
	for _, st := range semen {
		for _, s := range slots[st] {
			out = append(out, types.Recommendation{
				CowID:     s.cow,
				SemenType: st,
				Choices:   ranked[slotKey{s.cow, st}],
			})
		}
	}
	return out
}

// validate checks a request before any assignment and returns the groups
// with default semen types filled in.
func validate(groups []types.CowGroup, inv []types.SemenInventory, c types.MatingConstraints) ([]types.CowGroup, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	type invKey struct {
		bull  string
		semen types.SemenType
	}
	seenInv := make(map[invKey]bool, len(inv))
	for i, row := range inv {
		switch {
		case row.BullID == "":
			return nil, fmt.Errorf("%w: inventory row %d has no bull", ErrInvalidConfig, i+1)
		case !row.SemenType.Valid():
			return nil, fmt.Errorf("%w: inventory row %d: unknown semen type %q", ErrInvalidConfig, i+1, row.SemenType)
		case row.Units < 0:
			return nil, fmt.Errorf("%w: inventory row %d: bull %s has %d units", ErrInvalidConfig, i+1, row.BullID, row.Units)
		}
		k := invKey{row.BullID, row.SemenType}
		if seenInv[k] {
			return nil, fmt.Errorf("%w: duplicate inventory for bull %s %s", ErrInvalidConfig, row.BullID, row.SemenType)
		}
		seenInv[k] = true
	}

	out := make([]types.CowGroup, 0, len(groups))
	names := make(map[string]bool, len(groups))
	member := make(map[string]string)
	for _, g := range groups {
		if g.Name == "" {
			return nil, fmt.Errorf("%w: group with no name", ErrInvalidConfig)
		}
		if names[g.Name] {
			return nil, fmt.Errorf("%w: duplicate group %q", ErrInvalidConfig, g.Name)
		}
		names[g.Name] = true

		for _, id := range g.CowIDs {
			if id == "" {
				return nil, fmt.Errorf("%w: group %q lists an empty cow ID", ErrInvalidConfig, g.Name)
			}
			if prev, ok := member[id]; ok {
				return nil, fmt.Errorf("%w: cow %s is in groups %q and %q", ErrInvalidConfig, id, prev, g.Name)
			}
			member[id] = g.Name
		}

		semen := g.SemenTypes
		if len(semen) == 0 {
			semen = types.SemenTypes
		}
		seen := make(map[types.SemenType]bool, len(semen))
		var uniq []types.SemenType
		for _, st := range semen {
			if !st.Valid() {
				return nil, fmt.Errorf("%w: group %q: unknown semen type %q", ErrInvalidConfig, g.Name, st)
			}
			if !seen[st] {
				seen[st] = true
				uniq = append(uniq, st)
			}
		}
		g.SemenTypes = uniq
		g.CowIDs = append([]string(nil), g.CowIDs...)
		out = append(out, g)
	}
	return out, nil
}
