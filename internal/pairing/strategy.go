// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pairing

import "github.com/pdiddy/herdmate/pkg/types"

// ScoreStrategy derives a composite offspring score from the two parents.
// known is false when the parents carry nothing to score from.
type ScoreStrategy interface {
	OffspringScore(sire, dam types.Animal) (score float64, known bool)
}

// WeightedAverage averages the parents' breeding indices. When only one
// parent has an index it is used alone. Non-positive weights fall back to
// an even split.
type WeightedAverage struct {
	SireWeight float64
	DamWeight  float64
}

// DefaultStrategy weighs sire and dam equally.
func DefaultStrategy() WeightedAverage {
	return WeightedAverage{SireWeight: 0.5, DamWeight: 0.5}
}

func (w WeightedAverage) OffspringScore(sire, dam types.Animal) (float64, bool) {
	sw, dw := w.SireWeight, w.DamWeight
	if sw <= 0 || dw <= 0 {
		sw, dw = 0.5, 0.5
	}
	switch {
	case sire.BreedingIndex != nil && dam.BreedingIndex != nil:
		return (sw**sire.BreedingIndex + dw**dam.BreedingIndex) / (sw + dw), true
	case sire.BreedingIndex != nil:
		return *sire.BreedingIndex, true
	case dam.BreedingIndex != nil:
		return *dam.BreedingIndex, true
	default:
		return 0, false
	}
}
