// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pairing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/herdmate/internal/registry"
	"github.com/pdiddy/herdmate/pkg/types"
)

func idx(v float64) *float64 { return &v }

func present(v bool) *bool { return &v }

type fixture struct {
	in    Input
	bulls []types.BullRecord
	cows  []types.CowRecord
}

func newFixture() fixture {
	bulls := []types.BullRecord{
		{RegistrationNumber: "B1", NAABCode: "7HO1", SireID: "P", BreedingIndex: idx(200)},
		{RegistrationNumber: "B2", SireID: "Q", BreedingIndex: idx(100)},
		{RegistrationNumber: "B3", BreedingIndex: idx(300)},
	}
	cows := []types.CowRecord{
		{ID: "C1", SireID: "P", DamID: "M", BreedingIndex: idx(100)},
		{ID: "C2", SireID: "X", Present: present(false)},
		{ID: "C3", Sex: types.SexMale},
		{ID: "C4"},
	}
	in := Input{
		Registry: registry.New(bulls, cows),
		Inventories: []types.SemenInventory{
			{BullID: "7ho1", SemenType: types.SemenRegular, Units: 2},
			{BullID: "B1", SemenType: types.SemenSexed, Units: 1},
			{BullID: "B2", SemenType: types.SemenRegular, Units: 3},
		},
		Genotypes: map[string]*types.GenotypeRecord{
			"B1": {AnimalID: "B1", Loci: map[string]types.GenotypeStatus{"HH1": types.StatusCarrier}},
			"B2": {AnimalID: "B2", Loci: map[string]types.GenotypeStatus{"HH1": types.StatusClear}},
			"C1": {AnimalID: "C1", Loci: map[string]types.GenotypeStatus{"HH1": types.StatusCarrier}},
		},
	}
	for _, b := range bulls {
		in.Bulls = append(in.Bulls, registry.BullAnimal(b))
	}
	for _, c := range cows {
		in.Cows = append(in.Cows, registry.CowAnimal(c))
	}
	return fixture{in: in, bulls: bulls, cows: cows}
}

func options() Options {
	return Options{MaxDepth: 6, Constraints: types.DefaultConstraints(), Panel: []string{"HH1"}}
}

func TestScoreAll(t *testing.T) {
	f := newFixture()
	got, err := ScoreAll(context.Background(), f.in, options())
	require.NoError(t, err)

	type key struct{ cow, bull, semen string }
	var order []key
	byKey := map[key]types.CandidatePairing{}
	for _, p := range got {
		k := key{p.CowID, p.BullID, string(p.SemenType)}
		order = append(order, k)
		byKey[k] = p
	}
	assert.Equal(t, []key{
		{"C1", "B1", "regular"}, {"C1", "B1", "sexed"}, {"C1", "B2", "regular"},
		{"C4", "B1", "regular"}, {"C4", "B1", "sexed"}, {"C4", "B2", "regular"},
	}, order)

	halfSib := byKey[key{"C1", "B1", "regular"}]
	assert.InDelta(t, 0.125, halfSib.Coefficient, 1e-12)
	assert.Equal(t, types.VerdictRisk, halfSib.Verdict)
	assert.InDelta(t, 150, halfSib.Score, 1e-9)
	assert.False(t, halfSib.MeetsConstraints)
	assert.Len(t, halfSib.Rejections, 2)

	ok := byKey[key{"C1", "B2", "regular"}]
	assert.Equal(t, 0.0, ok.Coefficient)
	assert.Equal(t, types.VerdictSafe, ok.Verdict)
	assert.True(t, ok.MeetsConstraints)
	assert.Empty(t, ok.Rejections)

	untested := byKey[key{"C4", "B1", "regular"}]
	assert.Equal(t, types.VerdictUnknown, untested.Verdict)
	assert.True(t, untested.MeetsConstraints, "unknown is not rejected")
	assert.Equal(t, 200.0, untested.Score)
	assert.True(t, untested.ScoreKnown)
}

func TestScoreAllIsIndependentOfWorkerCount(t *testing.T) {
	f := newFixture()
	opts := options()
	opts.Workers = 1
	serial, err := ScoreAll(context.Background(), f.in, opts)
	require.NoError(t, err)

	opts.Workers = 8
	parallel, err := ScoreAll(context.Background(), f.in, opts)
	require.NoError(t, err)
	assert.Equal(t, serial, parallel)
}

func TestScoreAllCancelled(t *testing.T) {
	f := newFixture()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := ScoreAll(ctx, f.in, options())
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestScoreAllNoCows(t *testing.T) {
	f := newFixture()
	f.in.Cows = nil
	got, err := ScoreAll(context.Background(), f.in, options())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestScoreMinScore(t *testing.T) {
	f := newFixture()
	opts := options()
	opts.Constraints.MinScore = idx(120)
	s := NewScorer(f.in.Registry, f.in.Genotypes, opts)

	c4 := registry.CowAnimal(f.cows[3])
	b2 := registry.BullAnimal(f.bulls[1])
	low := s.Score(c4, b2, types.SemenRegular)
	assert.False(t, low.MeetsConstraints)
	assert.Equal(t, []string{"score 100 below minimum 120"}, low.Rejections)

	noIndex := s.Score(c4, types.Animal{ID: "Z", Sex: types.SexMale}, types.SemenRegular)
	assert.False(t, noIndex.ScoreKnown)
	assert.False(t, noIndex.MeetsConstraints)
}

func TestScoreThresholdIsInclusive(t *testing.T) {
	p := types.CandidatePairing{Coefficient: 0.0625, Verdict: types.VerdictSafe}
	assert.Empty(t, Check(types.DefaultConstraints(), p))

	p.Coefficient = 0.0626
	assert.Len(t, Check(types.DefaultConstraints(), p), 1)
}

func TestCheckRiskAllowedWhenNotRejecting(t *testing.T) {
	p := types.CandidatePairing{Verdict: types.VerdictRisk}
	c := types.DefaultConstraints()
	c.RejectRisk = false
	assert.Empty(t, Check(c, p))
}

func TestWeightedAverage(t *testing.T) {
	tests := []struct {
		name      string
		w         WeightedAverage
		sire, dam *float64
		want      float64
		known     bool
	}{
		{"both", DefaultStrategy(), idx(200), idx(100), 150, true},
		{"weighted", WeightedAverage{SireWeight: 3, DamWeight: 1}, idx(200), idx(100), 175, true},
		{"sire only", DefaultStrategy(), idx(200), nil, 200, true},
		{"dam only", DefaultStrategy(), nil, idx(80), 80, true},
		{"none", DefaultStrategy(), nil, nil, 0, false},
		{"zero weights", WeightedAverage{}, idx(10), idx(20), 15, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, known := tt.w.OffspringScore(
				types.Animal{BreedingIndex: tt.sire},
				types.Animal{BreedingIndex: tt.dam},
			)
			assert.InDelta(t, tt.want, got, 1e-9)
			assert.Equal(t, tt.known, known)
		})
	}
}
