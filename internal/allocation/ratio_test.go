// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package allocation

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/herdmate/pkg/types"
)

func TestEqualAllocation(t *testing.T) {
	tests := []struct {
		name  string
		bulls []string
		total int
		want  []Quota
	}{
		{"remainder to first bulls", []string{"A", "B", "C"}, 10, []Quota{{"A", 4}, {"B", 3}, {"C", 3}}},
		{"even", []string{"A", "B"}, 4, []Quota{{"A", 2}, {"B", 2}}},
		{"fewer cows than bulls", []string{"A", "B", "C"}, 2, []Quota{{"A", 1}, {"B", 1}, {"C", 0}}},
		{"no cows", []string{"A"}, 0, []Quota{{"A", 0}}},
		{"no bulls", nil, 5, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EqualAllocation(tt.bulls, tt.total))
		})
	}
}

func ratioRequest() RatioRequest {
	cows := []string{"C1", "C2", "C3", "C4", "C5", "C6"}
	return RatioRequest{
		Groups:    []types.CowGroup{{Name: "g", CowIDs: cows, SemenTypes: []types.SemenType{types.SemenSexed}}},
		SemenType: types.SemenSexed,
		Pairings: []types.CandidatePairing{
			pair("C1", "B", types.SemenSexed, 5, 0),
			pair("C1", "A", types.SemenSexed, 4, 0),
		},
		Inventories: []types.SemenInventory{
			{BullID: "A", SemenType: types.SemenSexed, Units: 10},
			{BullID: "B", SemenType: types.SemenSexed, Units: 10},
		},
		Constraints: types.DefaultConstraints(),
		Ratio:       0.5,
	}
}

func TestAllocateRatio(t *testing.T) {
	plan, err := fixedEngine().AllocateRatio(context.Background(), ratioRequest())
	require.NoError(t, err)

	// ceil(0.5 * 6) = 3 cows split A:2, B:1.
	require.Len(t, plan.Results, 3)
	got := map[string]int{}
	for _, r := range plan.Results {
		got[r.BullID]++
		assert.Equal(t, types.ModeRatio, r.Mode)
	}
	assert.Equal(t, map[string]int{"A": 2, "B": 1}, got)

	c1 := plan.Results[0]
	assert.Equal(t, "C1", c1.CowID)
	assert.Equal(t, "A", c1.BullID)
	assert.Equal(t, 2, c1.ChoiceRank)
	assert.Equal(t, 0, plan.Results[1].ChoiceRank, "unscored pairing is off the ranked list")
	assert.Equal(t, types.VerdictUnknown, plan.Results[1].Verdict)

	require.Len(t, plan.Groups, 1)
	assert.Equal(t, 3, plan.Groups[0].Allocated)
	assert.Equal(t, []string{"C4", "C5", "C6"}, plan.UnallocatedCowIDs(), "cows past the target")
	assert.Equal(t, plan.Groups[0].Unallocated, len(plan.UnallocatedCowIDs()))
}

func TestAllocateRatioUnallocatedMatchesSummary(t *testing.T) {
	req := ratioRequest()
	req.Inventories[0].Units = 0
	req.Inventories[1].Units = 1
	req.Target = 4
	plan, err := fixedEngine().AllocateRatio(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, plan.Results, 1)
	require.Len(t, plan.Groups, 1)
	assert.Len(t, plan.UnallocatedCowIDs(), 5)
	assert.Equal(t, plan.Groups[0].Unallocated, len(plan.UnallocatedCowIDs()))
}

func TestAllocateRatioExplicitBulls(t *testing.T) {
	req := ratioRequest()
	req.Bulls = []string{"B", "A"}
	req.Target = 3
	plan, err := fixedEngine().AllocateRatio(context.Background(), req)
	require.NoError(t, err)
	got := map[string]int{}
	for _, r := range plan.Results {
		got[r.BullID]++
	}
	assert.Equal(t, map[string]int{"B": 2, "A": 1}, got)
}

func TestAllocateRatioSkipsIneligibleBull(t *testing.T) {
	req := ratioRequest()
	req.Pairings[1].Coefficient = 0.25
	req.Target = 2
	plan, err := fixedEngine().AllocateRatio(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, plan.Results, 2)
	assert.Equal(t, "C1", plan.Results[0].CowID)
	assert.Equal(t, "B", plan.Results[0].BullID, "A is skipped when the pairing fails")
	assert.Equal(t, "C2", plan.Results[1].CowID)
	assert.Equal(t, "A", plan.Results[1].BullID)
}

func TestAllocateRatioCapsQuotaByInventory(t *testing.T) {
	req := ratioRequest()
	req.Inventories[0].Units = 1
	req.Target = 4
	plan, err := fixedEngine().AllocateRatio(context.Background(), req)
	require.NoError(t, err)
	assert.Len(t, plan.Results, 3)
	for _, b := range plan.Bulls {
		if b.BullID == "A" {
			assert.Equal(t, 0, b.Remaining)
		}
	}
}

func TestAllocateRatioInvalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*RatioRequest)
	}{
		{"ratio above one", func(r *RatioRequest) { r.Ratio = 1.5 }},
		{"no ratio or target", func(r *RatioRequest) { r.Ratio = 0 }},
		{"negative target", func(r *RatioRequest) { r.Target = -1 }},
		{"bad semen type", func(r *RatioRequest) { r.SemenType = "frozen" }},
		{"no stocked bulls", func(r *RatioRequest) { r.Inventories = nil }},
		{"duplicate bull", func(r *RatioRequest) {
			r.Bulls = []string{"A", "A", "B"}
			r.Target = 3
		}},
		{"bull without inventory", func(r *RatioRequest) { r.Bulls = []string{"A", "Z"} }},
		{"semen type no group draws", func(r *RatioRequest) {
			r.Groups[0].SemenTypes = []types.SemenType{types.SemenRegular}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := ratioRequest()
			tt.mutate(&req)
			_, err := fixedEngine().AllocateRatio(context.Background(), req)
			assert.True(t, errors.Is(err, ErrInvalidConfig), "got %v", err)
		})
	}
}
