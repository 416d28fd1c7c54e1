// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the herdmate engine.
//
// Records here are plain values: the engine materializes them fresh for each
// calculation run from read-only input tables and never mutates them.
package types

// Sex is the recorded sex of an animal.
type Sex string

const (
	SexFemale  Sex = "female"
	SexMale    Sex = "male"
	SexUnknown Sex = ""
)

// AnimalSource identifies which dataset an Animal was resolved from.
type AnimalSource string

const (
	SourceBull AnimalSource = "bull"
	SourceHerd AnimalSource = "herd"
)

// Animal is the normalized view of a bull reference record or a herd cow.
// SireID and DamID are empty when unrecorded; identifiers that do not resolve
// through the registry are treated as unknown founders.
type Animal struct {
	// ID is the canonical identifier: the registration number for bulls,
	// the herd-local cow ID for cows.
	ID string `json:"id" yaml:"id"`

	SireID string `json:"sire_id,omitempty" yaml:"sire_id,omitempty"`
	DamID  string `json:"dam_id,omitempty" yaml:"dam_id,omitempty"`

	Sex Sex `json:"sex,omitempty" yaml:"sex,omitempty"`

	// Present is false for animals kept only as pedigree references
	// (sold, culled or dead).
	Present bool `json:"present" yaml:"present"`

	// Lactations is the lactation count; 0 means a nulliparous heifer.
	Lactations int `json:"lactations" yaml:"lactations"`

	Breed string `json:"breed,omitempty" yaml:"breed,omitempty"`

	// Group is the herd-local management group (pen, parity class).
	Group string `json:"group,omitempty" yaml:"group,omitempty"`

	Source AnimalSource `json:"source" yaml:"source"`

	// BreedingIndex is the animal's index score, nil when none is published.
	BreedingIndex *float64 `json:"breeding_index,omitempty" yaml:"breeding_index,omitempty"`
}

// HasParents reports whether at least one parent is recorded.
func (a Animal) HasParents() bool {
	return a.SireID != "" || a.DamID != ""
}

// IsHeifer reports whether the animal has not yet calved.
func (a Animal) IsHeifer() bool {
	return a.Lactations == 0
}

// BullRecord is one row of the bull reference dataset. A bull may be
// referenced by either of its two registration identifiers.
type BullRecord struct {
	RegistrationNumber string   `json:"reg_number" yaml:"reg_number"`
	NAABCode           string   `json:"naab_code,omitempty" yaml:"naab_code,omitempty"`
	SireID             string   `json:"sire,omitempty" yaml:"sire,omitempty"`
	DamID              string   `json:"dam,omitempty" yaml:"dam,omitempty"`
	Breed              string   `json:"breed,omitempty" yaml:"breed,omitempty"`
	BreedingIndex      *float64 `json:"index,omitempty" yaml:"index,omitempty"`
}

// CowRecord is one row of the herd dataset.
type CowRecord struct {
	ID            string   `json:"id" yaml:"id"`
	SireID        string   `json:"sire,omitempty" yaml:"sire,omitempty"`
	DamID         string   `json:"dam,omitempty" yaml:"dam,omitempty"`
	Sex           Sex      `json:"sex,omitempty" yaml:"sex,omitempty"`
	Present       *bool    `json:"present,omitempty" yaml:"present,omitempty"`
	Lactations    int      `json:"lactations" yaml:"lactations"`
	Breed         string   `json:"breed,omitempty" yaml:"breed,omitempty"`
	Group         string   `json:"group,omitempty" yaml:"group,omitempty"`
	BreedingIndex *float64 `json:"index,omitempty" yaml:"index,omitempty"`
}

// IsPresent reports whether the cow is currently in the herd. Rows without
// an explicit flag are present.
func (c CowRecord) IsPresent() bool {
	return c.Present == nil || *c.Present
}
