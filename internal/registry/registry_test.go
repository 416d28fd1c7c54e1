// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/herdmate/pkg/types"
)

func ptr(f float64) *float64 { return &f }

func sampleBulls() []types.BullRecord {
	return []types.BullRecord{
		{RegistrationNumber: "HOUSA000003012345", NAABCode: "7HO12345", SireID: "HOUSA000002000001", BreedingIndex: ptr(2800)},
		{RegistrationNumber: "HOCAN000012000000", NAABCode: "", DamID: "HOCAN000011000000"},
		{NAABCode: "200HO999"},
		{RegistrationNumber: "C100"}, // collides with a herd cow ID
	}
}

func sampleCows() []types.CowRecord {
	no := false
	return []types.CowRecord{
		{ID: "C100", SireID: "7HO12345", DamID: "C050", Lactations: 2, Group: "pen1"},
		{ID: "C050", Lactations: 5, Present: &no},
		{ID: " C200 ", SireID: "hocan000012000000", Lactations: 0},
		{ID: "C050", Lactations: 9}, // duplicate row ignored
	}
}

func TestChainResolve(t *testing.T) {
	reg := New(sampleBulls(), sampleCows())

	tests := []struct {
		name       string
		id         string
		wantOK     bool
		wantID     string
		wantSource types.AnimalSource
	}{
		{"bull by registration number", "HOUSA000003012345", true, "HOUSA000003012345", types.SourceBull},
		{"bull by NAAB code", "7HO12345", true, "HOUSA000003012345", types.SourceBull},
		{"bull code is case insensitive", " 7ho12345 ", true, "HOUSA000003012345", types.SourceBull},
		{"bull with NAAB code only", "200HO999", true, "200HO999", types.SourceBull},
		{"herd cow", "C050", true, "C050", types.SourceHerd},
		{"herd ID is trimmed", "C200", true, "C200", types.SourceHerd},
		{"ambiguous ID prefers bull", "C100", true, "C100", types.SourceBull},
		{"unknown ID", "NOPE", false, "", ""},
		{"empty ID", "", false, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, ok := reg.Resolve(tt.id)
			require.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantID, a.ID)
			assert.Equal(t, tt.wantSource, a.Source)
		})
	}
}

func TestHerdIndexNormalizesRows(t *testing.T) {
	idx := NewHerdIndex(sampleCows())
	assert.Equal(t, 3, idx.Len())

	c050, ok := idx.Resolve("C050")
	require.True(t, ok)
	assert.False(t, c050.Present)
	assert.Equal(t, 5, c050.Lactations, "first row wins")
	assert.Equal(t, types.SexUnknown, c050.Sex, "unrecorded sex is not defaulted")

	c100, ok := idx.Resolve("C100")
	require.True(t, ok)
	assert.True(t, c100.Present)
	assert.Equal(t, "7HO12345", c100.SireID)
	assert.Equal(t, "pen1", c100.Group)
}

func TestBullIndexLen(t *testing.T) {
	idx := NewBullIndex(sampleBulls())
	assert.Equal(t, 4, idx.Len())

	b, ok := idx.Resolve("HOCAN000012000000")
	require.True(t, ok)
	assert.Equal(t, types.SexMale, b.Sex)
	assert.Equal(t, "HOCAN000011000000", b.DamID)
}

func TestMapResolve(t *testing.T) {
	m := NewMap(types.Animal{ID: "A", SireID: "B"})
	a, ok := m.Resolve("A")
	require.True(t, ok)
	assert.Equal(t, "B", a.SireID)

	_, ok = m.Resolve("")
	assert.False(t, ok)
}
