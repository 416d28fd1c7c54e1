// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package registry resolves animal identifiers across the bull reference
// dataset and the herd dataset behind a single lookup interface.
//
// Bull reference records are shared across herds and matched on either of
// two registration identifiers; cow IDs are herd-local. When an identifier
// exists in both sources the bull record wins.
package registry

import (
	"strings"

	"github.com/pdiddy/herdmate/pkg/types"
)

// Resolver looks up an animal by identifier. A false result is a normal
// outcome: callers treat the identifier as an unknown founder.
type Resolver interface {
	Resolve(id string) (types.Animal, bool)
}

// Chain tries each resolver in order and returns the first match.
type Chain []Resolver

// Resolve implements Resolver.
func (c Chain) Resolve(id string) (types.Animal, bool) {
	for _, r := range c {
		if a, ok := r.Resolve(id); ok {
			return a, true
		}
	}
	return types.Animal{}, false
}

// New builds the standard bull-first resolver over both datasets.
func New(bulls []types.BullRecord, cows []types.CowRecord) Chain {
	return Chain{NewBullIndex(bulls), NewHerdIndex(cows)}
}

// BullIndex resolves bull reference records by registration number or NAAB code.
type BullIndex struct {
	byKey map[string]types.Animal
}

// NewBullIndex indexes bulls under both identifiers. Rows without any
// identifier are skipped. A later row does not replace an earlier one that
// claimed the same key.
func NewBullIndex(bulls []types.BullRecord) *BullIndex {
	idx := &BullIndex{byKey: make(map[string]types.Animal, 2*len(bulls))}
	for _, b := range bulls {
		a := BullAnimal(b)
		if a.ID == "" {
			continue
		}
		for _, key := range []string{b.RegistrationNumber, b.NAABCode} {
			k := bullKey(key)
			if k == "" {
				continue
			}
			if _, taken := idx.byKey[k]; !taken {
				idx.byKey[k] = a
			}
		}
	}
	return idx
}

// Resolve implements Resolver.
func (b *BullIndex) Resolve(id string) (types.Animal, bool) {
	k := bullKey(id)
	if k == "" {
		return types.Animal{}, false
	}
	a, ok := b.byKey[k]
	return a, ok
}

// Len returns the number of distinct bulls indexed.
func (b *BullIndex) Len() int {
	seen := make(map[string]struct{}, len(b.byKey))
	for _, a := range b.byKey {
		seen[a.ID] = struct{}{}
	}
	return len(seen)
}

// canonicalBullID prefers the registration number so a bull reached through
// either code has one identity during kinship recursion.
func canonicalBullID(b types.BullRecord) string {
	if id := strings.TrimSpace(b.RegistrationNumber); id != "" {
		return id
	}
	return strings.TrimSpace(b.NAABCode)
}

// bullKey normalizes registration codes, which are published in mixed case
// and with stray whitespace.
func bullKey(id string) string {
	return strings.ToUpper(strings.TrimSpace(id))
}

// HerdIndex resolves herd cows by their primary cow ID.
type HerdIndex struct {
	byID map[string]types.Animal
}

// NewHerdIndex indexes cows by trimmed ID; the first row for an ID wins.
func NewHerdIndex(cows []types.CowRecord) *HerdIndex {
	idx := &HerdIndex{byID: make(map[string]types.Animal, len(cows))}
	for _, c := range cows {
		id := strings.TrimSpace(c.ID)
		if id == "" {
			continue
		}
		if _, dup := idx.byID[id]; dup {
			continue
		}
		idx.byID[id] = CowAnimal(c)
	}
	return idx
}

// BullAnimal normalizes a bull reference row. ID is empty when the row
// carries neither identifier.
func BullAnimal(b types.BullRecord) types.Animal {
	return types.Animal{
		ID:            canonicalBullID(b),
		SireID:        strings.TrimSpace(b.SireID),
		DamID:         strings.TrimSpace(b.DamID),
		Sex:           types.SexMale,
		Breed:         b.Breed,
		Source:        types.SourceBull,
		BreedingIndex: b.BreedingIndex,
	}
}

// CowAnimal normalizes a herd row. An unrecorded sex stays SexUnknown;
// callers that need a female decide how to treat it.
func CowAnimal(c types.CowRecord) types.Animal {
	return types.Animal{
		ID:            strings.TrimSpace(c.ID),
		SireID:        strings.TrimSpace(c.SireID),
		DamID:         strings.TrimSpace(c.DamID),
		Sex:           c.Sex,
		Present:       c.IsPresent(),
		Lactations:    c.Lactations,
		Breed:         c.Breed,
		Group:         c.Group,
		Source:        types.SourceHerd,
		BreedingIndex: c.BreedingIndex,
	}
}

// Resolve implements Resolver.
func (h *HerdIndex) Resolve(id string) (types.Animal, bool) {
	a, ok := h.byID[strings.TrimSpace(id)]
	return a, ok
}

// Len returns the number of cows indexed.
func (h *HerdIndex) Len() int {
	return len(h.byID)
}

// Map is a Resolver over a fixed set of animals keyed by ID. Tests and
// lineage validation use it to resolve already-normalized animals.
type Map map[string]types.Animal

// NewMap indexes animals by ID.
func NewMap(animals ...types.Animal) Map {
	m := make(Map, len(animals))
	for _, a := range animals {
		m[a.ID] = a
	}
	return m
}

// Resolve implements Resolver.
func (m Map) Resolve(id string) (types.Animal, bool) {
	if id == "" {
		return types.Animal{}, false
	}
	a, ok := m[id]
	return a, ok
}
