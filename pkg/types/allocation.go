// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// SemenInventory is the number of units held for one bull and semen type.
type SemenInventory struct {
	BullID    string    `json:"bull_id" yaml:"bull"`
	SemenType SemenType `json:"semen_type" yaml:"semen_type"`
	Units     int       `json:"units" yaml:"units"`
}

// CowGroup is an ordered set of cows allocated together. Groups are processed
// in input order; SemenTypes selects which inventories the group draws from.
type CowGroup struct {
	Name       string      `json:"name" yaml:"name"`
	CowIDs     []string    `json:"cows" yaml:"cows"`
	SemenTypes []SemenType `json:"semen_types" yaml:"semen_types"`
}

// AllocationMode records how an AllocationResult was produced.
type AllocationMode string

const (
	ModeRanked AllocationMode = "ranked"
	ModeRatio  AllocationMode = "ratio"
)

// AllocationResult is one satisfied cow×semen-type slot. Results are only
// appended, never edited.
type AllocationResult struct {
	CowID     string    `json:"cow_id" yaml:"cow_id"`
	Group     string    `json:"group" yaml:"group"`
	BullID    string    `json:"bull_id" yaml:"bull_id"`
	SemenType SemenType `json:"semen_type" yaml:"semen_type"`

	// ChoiceRank is the bull's 1-based position in the cow's ranked list.
	// Ratio-mode assignments outside the ranked list carry 0.
	ChoiceRank int `json:"choice_rank" yaml:"choice_rank"`

	Score       float64        `json:"score" yaml:"score"`
	Coefficient float64        `json:"coefficient" yaml:"coefficient"`
	Verdict     RiskVerdict    `json:"verdict" yaml:"verdict"`
	Mode        AllocationMode `json:"mode" yaml:"mode"`
}

// UnallocatedCow is a cow×semen-type slot no ranked bull could fill.
type UnallocatedCow struct {
	CowID     string    `json:"cow_id" yaml:"cow_id"`
	Group     string    `json:"group" yaml:"group"`
	SemenType SemenType `json:"semen_type" yaml:"semen_type"`
}

// GroupAllocationSummary aggregates outcomes for one group and semen type.
type GroupAllocationSummary struct {
	Group          string    `json:"group" yaml:"group"`
	SemenType      SemenType `json:"semen_type" yaml:"semen_type"`
	Cows           int       `json:"cows" yaml:"cows"`
	Allocated      int       `json:"allocated" yaml:"allocated"`
	Unallocated    int       `json:"unallocated" yaml:"unallocated"`
	AllocationRate float64   `json:"allocation_rate" yaml:"allocation_rate"`
}

// BullUsageSummary compares used units against the original inventory.
// UsageRate is nil when the original inventory was zero.
type BullUsageSummary struct {
	BullID    string    `json:"bull_id" yaml:"bull_id"`
	SemenType SemenType `json:"semen_type" yaml:"semen_type"`
	Original  int       `json:"original" yaml:"original"`
	Used      int       `json:"used" yaml:"used"`
	Remaining int       `json:"remaining" yaml:"remaining"`
	UsageRate *float64  `json:"usage_rate,omitempty" yaml:"usage_rate,omitempty"`
}

// Recommendation holds a cow's top ranked pairings for one semen type.
type Recommendation struct {
	CowID     string             `json:"cow_id" yaml:"cow_id"`
	SemenType SemenType          `json:"semen_type" yaml:"semen_type"`
	Choices   []CandidatePairing `json:"choices" yaml:"choices"`
}

// AllocationPlan is the complete output of one allocation run.
type AllocationPlan struct {
	RunID           string                   `json:"run_id" yaml:"run_id"`
	CreatedAt       time.Time                `json:"created_at" yaml:"created_at"`
	Constraints     MatingConstraints        `json:"constraints" yaml:"constraints"`
	Results         []AllocationResult       `json:"results" yaml:"results"`
	Groups          []GroupAllocationSummary `json:"groups" yaml:"groups"`
	Bulls           []BullUsageSummary       `json:"bulls" yaml:"bulls"`
	Unallocated     []UnallocatedCow         `json:"unallocated" yaml:"unallocated"`
	Recommendations []Recommendation         `json:"recommendations,omitempty" yaml:"recommendations,omitempty"`
}

// UnallocatedCowIDs returns the distinct IDs of cows left without a bull for
// at least one semen type, in first-seen order.
func (p *AllocationPlan) UnallocatedCowIDs() []string {
	seen := make(map[string]bool, len(p.Unallocated))
	var ids []string
	for _, u := range p.Unallocated {
		if seen[u.CowID] {
			continue
		}
		seen[u.CowID] = true
		ids = append(ids, u.CowID)
	}
	return ids
}
