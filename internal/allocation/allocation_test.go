// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package allocation

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/herdmate/pkg/types"
)

func pair(cow, bull string, st types.SemenType, score, coef float64) types.CandidatePairing {
	return types.CandidatePairing{
		CowID: cow, BullID: bull, SemenType: st,
		Score: score, ScoreKnown: true, Coefficient: coef,
		Verdict: types.VerdictSafe, MeetsConstraints: true,
	}
}

func fixedEngine() *Engine {
	e := NewEngine(0, nil)
	e.now = func() time.Time { return time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC) }
	e.newID = func() string { return "run-1" }
	return e
}

// fiveCows ranks A > B > C identically for five cows.
func fiveCows() Request {
	var cows []string
	var pairings []types.CandidatePairing
	scores := map[string]float64{}
	for i := 1; i <= 5; i++ {
		id := fmt.Sprintf("C%d", i)
		cows = append(cows, id)
		scores[id] = float64(10 - i)
		pairings = append(pairings,
			pair(id, "A", types.SemenRegular, 3, 0),
			pair(id, "B", types.SemenRegular, 2, 0),
			pair(id, "C", types.SemenRegular, 1, 0),
		)
	}
	return Request{
		Groups:   []types.CowGroup{{Name: "cows", CowIDs: cows, SemenTypes: []types.SemenType{types.SemenRegular}}},
		Pairings: pairings,
		Inventories: []types.SemenInventory{
			{BullID: "A", SemenType: types.SemenRegular, Units: 2},
			{BullID: "B", SemenType: types.SemenRegular, Units: 1},
			{BullID: "C", SemenType: types.SemenRegular, Units: 0},
		},
		Constraints: types.DefaultConstraints(),
		CowScores:   scores,
	}
}

func TestAllocateRespectsInventory(t *testing.T) {
	req := fiveCows()
	plan, err := fixedEngine().Allocate(context.Background(), req)
	require.NoError(t, err)

	require.Len(t, plan.Results, 3)
	assert.Equal(t, "A", plan.Results[0].BullID)
	assert.Equal(t, 1, plan.Results[0].ChoiceRank)
	assert.Equal(t, "A", plan.Results[1].BullID)
	assert.Equal(t, "B", plan.Results[2].BullID)
	assert.Equal(t, 2, plan.Results[2].ChoiceRank)
	assert.Equal(t, "C3", plan.Results[2].CowID)

	assert.Equal(t, []string{"C4", "C5"}, plan.UnallocatedCowIDs())

	require.Len(t, plan.Bulls, 3)
	for i, want := range []string{"A", "B", "C"} {
		assert.Equal(t, want, plan.Bulls[i].BullID)
	}
	require.NotNil(t, plan.Bulls[0].UsageRate)
	assert.Equal(t, 1.0, *plan.Bulls[0].UsageRate)
	require.NotNil(t, plan.Bulls[1].UsageRate)
	assert.Equal(t, 1.0, *plan.Bulls[1].UsageRate)
	assert.Nil(t, plan.Bulls[2].UsageRate, "zero capacity has no usage rate")

	require.Len(t, plan.Groups, 1)
	assert.Equal(t, types.GroupAllocationSummary{
		Group: "cows", SemenType: types.SemenRegular,
		Cows: 5, Allocated: 3, Unallocated: 2, AllocationRate: 0.6,
	}, plan.Groups[0])

	assert.Equal(t, 2, req.Inventories[0].Units, "input inventory is not modified")
}

func TestAllocateIsIdempotent(t *testing.T) {
	e := fixedEngine()
	first, err := e.Allocate(context.Background(), fiveCows())
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := e.Allocate(context.Background(), fiveCows())
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestAllocateCowOrder(t *testing.T) {
	req := Request{
		Groups: []types.CowGroup{
			{Name: "heifers", CowIDs: []string{"H2", "H1"}, SemenTypes: []types.SemenType{types.SemenSexed}},
			{Name: "cows", CowIDs: []string{"K1"}, SemenTypes: []types.SemenType{types.SemenSexed}},
		},
		Pairings: []types.CandidatePairing{
			pair("H1", "A", types.SemenSexed, 1, 0),
			pair("H2", "A", types.SemenSexed, 1, 0),
			pair("K1", "A", types.SemenSexed, 1, 0),
		},
		Inventories: []types.SemenInventory{{BullID: "A", SemenType: types.SemenSexed, Units: 2}},
		Constraints: types.DefaultConstraints(),
		CowScores:   map[string]float64{"K1": 100},
	}
	plan, err := fixedEngine().Allocate(context.Background(), req)
	require.NoError(t, err)

	require.Len(t, plan.Results, 2)
	assert.Equal(t, "H1", plan.Results[0].CowID, "equal scores fall back to cow ID")
	assert.Equal(t, "H2", plan.Results[1].CowID)
	assert.Equal(t, []string{"K1"}, plan.UnallocatedCowIDs(), "group order beats cow score")
}

func TestAllocateRankingTieBreaks(t *testing.T) {
	req := Request{
		Groups: []types.CowGroup{{Name: "g", CowIDs: []string{"X"}, SemenTypes: []types.SemenType{types.SemenRegular}}},
		Pairings: []types.CandidatePairing{
			pair("X", "Z", types.SemenRegular, 5, 0.01),
			pair("X", "Y", types.SemenRegular, 5, 0.01),
			pair("X", "W", types.SemenRegular, 5, 0.02),
			pair("X", "V", types.SemenRegular, 4, 0),
			pair("X", "U", types.SemenRegular, 9, 0.2),
		},
		Inventories: []types.SemenInventory{{BullID: "Y", SemenType: types.SemenRegular, Units: 1}},
		Constraints: types.DefaultConstraints(),
	}
	plan, err := fixedEngine().Allocate(context.Background(), req)
	require.NoError(t, err)

	require.Len(t, plan.Recommendations, 1)
	var bulls []string
	for _, c := range plan.Recommendations[0].Choices {
		bulls = append(bulls, c.BullID)
	}
	assert.Equal(t, []string{"Y", "Z", "W"}, bulls, "U exceeds the threshold, V falls outside the top three")

	require.Len(t, plan.Results, 1)
	assert.Equal(t, "Y", plan.Results[0].BullID)
	assert.Equal(t, 1, plan.Results[0].ChoiceRank)
}

func TestAllocateSemenTypesIndependently(t *testing.T) {
	req := Request{
		Groups: []types.CowGroup{{Name: "g", CowIDs: []string{"X"}}},
		Pairings: []types.CandidatePairing{
			pair("X", "A", types.SemenRegular, 1, 0),
			pair("X", "A", types.SemenSexed, 1, 0),
		},
		Inventories: []types.SemenInventory{
			{BullID: "A", SemenType: types.SemenRegular, Units: 1},
			{BullID: "A", SemenType: types.SemenSexed, Units: 1},
		},
		Constraints: types.DefaultConstraints(),
	}
	plan, err := fixedEngine().Allocate(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, plan.Results, 2)
	assert.Equal(t, types.SemenRegular, plan.Results[0].SemenType)
	assert.Equal(t, types.SemenSexed, plan.Results[1].SemenType)
	assert.Len(t, plan.Groups, 2)
}

func TestAllocateRejectsRiskPairings(t *testing.T) {
	req := fiveCows()
	for i := range req.Pairings {
		if req.Pairings[i].BullID == "A" {
			req.Pairings[i].Verdict = types.VerdictRisk
		}
	}
	plan, err := fixedEngine().Allocate(context.Background(), req)
	require.NoError(t, err)
	for _, r := range plan.Results {
		assert.NotEqual(t, "A", r.BullID)
	}
}

func TestAllocateInvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Request)
	}{
		{"zero threshold", func(r *Request) { r.Constraints.ThresholdPercent = 0 }},
		{"negative units", func(r *Request) { r.Inventories[0].Units = -1 }},
		{"unknown semen type", func(r *Request) { r.Inventories[0].SemenType = "frozen" }},
		{"duplicate inventory", func(r *Request) { r.Inventories[1].BullID = "A" }},
		{"unnamed group", func(r *Request) { r.Groups[0].Name = "" }},
		{"cow in two groups", func(r *Request) {
			r.Groups = append(r.Groups, types.CowGroup{Name: "dup", CowIDs: []string{"C1"}})
		}},
		{"duplicate group", func(r *Request) { r.Groups = append(r.Groups, types.CowGroup{Name: "cows"}) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := fiveCows()
			tt.mutate(&req)
			plan, err := fixedEngine().Allocate(context.Background(), req)
			assert.Nil(t, plan)
			assert.True(t, errors.Is(err, ErrInvalidConfig), "got %v", err)
		})
	}
}

func TestAllocateCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := fixedEngine().Allocate(ctx, fiveCows())
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestAssignDecrements(t *testing.T) {
	remaining := map[string]int{"A": 1}
	_, ok, err := assign(slot{cow: "X"}, []types.CandidatePairing{pair("X", "A", types.SemenRegular, 1, 0)}, remaining)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 0, remaining["A"])
}

func TestAssignRejectsNegativeInventory(t *testing.T) {
	remaining := map[string]int{"A": -1, "B": 2}
	choices := []types.CandidatePairing{
		pair("X", "A", types.SemenRegular, 2, 0),
		pair("X", "B", types.SemenRegular, 1, 0),
	}
	_, ok, err := assign(slot{cow: "X"}, choices, remaining)
	assert.False(t, ok)
	assert.True(t, errors.Is(err, ErrInvariant), "got %v", err)
	assert.Equal(t, 2, remaining["B"], "nothing taken after the violation")
}

func TestRecommend(t *testing.T) {
	e := NewEngine(2, nil)
	recs := e.Recommend([]types.CandidatePairing{
		pair("X", "A", types.SemenSexed, 1, 0),
		pair("X", "B", types.SemenRegular, 1, 0),
		pair("X", "C", types.SemenRegular, 3, 0),
		pair("X", "D", types.SemenRegular, 2, 0),
		pair("Y", "A", types.SemenRegular, 1, 0.5),
	}, types.DefaultConstraints())

	require.Len(t, recs, 3)
	assert.Equal(t, "X", recs[0].CowID)
	assert.Equal(t, types.SemenRegular, recs[0].SemenType)
	require.Len(t, recs[0].Choices, 2)
	assert.Equal(t, "C", recs[0].Choices[0].BullID)
	assert.Equal(t, "D", recs[0].Choices[1].BullID)
	assert.Equal(t, types.SemenSexed, recs[1].SemenType)
	assert.Equal(t, "Y", recs[2].CowID)
	assert.Empty(t, recs[2].Choices)
}
