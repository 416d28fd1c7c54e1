// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"math"
)

// SemenType distinguishes conventional from sexed semen inventory.
type SemenType string

const (
	SemenRegular SemenType = "regular"
	SemenSexed   SemenType = "sexed"
)

// SemenTypes lists the known semen types in processing order.
var SemenTypes = []SemenType{SemenRegular, SemenSexed}

// Valid reports whether t is a known semen type.
func (t SemenType) Valid() bool {
	return t == SemenRegular || t == SemenSexed
}

// DefaultThresholdPercent is the inbreeding threshold used when none is
// configured, equal to the offspring coefficient of a first-cousin mating.
const DefaultThresholdPercent = 6.25

// MatingConstraints decides whether a candidate pairing is eligible.
// It is immutable for the duration of an allocation run.
type MatingConstraints struct {
	// ThresholdPercent is the maximum offspring inbreeding coefficient, in percent.
	ThresholdPercent float64 `json:"threshold_percent" yaml:"threshold_percent"`

	// RejectRisk excludes pairings whose aggregate defect verdict is Risk.
	RejectRisk bool `json:"reject_risk" yaml:"reject_risk"`

	// MinScore, when set, is the minimum composite offspring score.
	MinScore *float64 `json:"min_score,omitempty" yaml:"min_score,omitempty"`
}

// DefaultConstraints returns the 6.25% threshold with risk rejection on.
func DefaultConstraints() MatingConstraints {
	return MatingConstraints{ThresholdPercent: DefaultThresholdPercent, RejectRisk: true}
}

// Validate rejects thresholds outside (0, 100] and non-finite values.
func (c MatingConstraints) Validate() error {
	t := c.ThresholdPercent
	if math.IsNaN(t) || math.IsInf(t, 0) || t <= 0 || t > 100 {
		return fmt.Errorf("inbreeding threshold %v%% must be in (0, 100]", t)
	}
	if c.MinScore != nil && (math.IsNaN(*c.MinScore) || math.IsInf(*c.MinScore, 0)) {
		return fmt.Errorf("minimum score %v is not a finite number", *c.MinScore)
	}
	return nil
}

// CandidatePairing is the scored outcome of mating one cow with one bull
// using one semen type. It is a pure function of the two animals and their
// genotype records.
type CandidatePairing struct {
	CowID     string    `json:"cow_id" yaml:"cow_id"`
	BullID    string    `json:"bull_id" yaml:"bull_id"`
	SemenType SemenType `json:"semen_type" yaml:"semen_type"`

	// Coefficient is the expected offspring inbreeding coefficient (0.0-1.0).
	Coefficient float64 `json:"coefficient" yaml:"coefficient"`

	Verdict    RiskVerdict `json:"verdict" yaml:"verdict"`
	LocusRisks []LocusRisk `json:"locus_risks,omitempty" yaml:"locus_risks,omitempty"`

	Score float64 `json:"score" yaml:"score"`

	// ScoreKnown is false when neither parent has a breeding index.
	ScoreKnown bool `json:"score_known" yaml:"score_known"`

	MeetsConstraints bool     `json:"meets_constraints" yaml:"meets_constraints"`
	Rejections       []string `json:"rejections,omitempty" yaml:"rejections,omitempty"`
}
