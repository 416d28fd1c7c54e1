// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/herdmate/internal/defect"
	"github.com/pdiddy/herdmate/pkg/types"
)

func TestConfigDefaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)

	c, err := configFrom(v)
	require.NoError(t, err)
	assert.Equal(t, "data", c.DataDir)
	assert.Equal(t, types.DefaultMaxDepth, c.Pedigree.MaxDepth)
	assert.Equal(t, types.DefaultConstraints(), c.Constraints)
	assert.Equal(t, 0.5, c.Scoring.SireWeight)
	assert.Equal(t, defect.DefaultPanel, c.Scoring.DefectPanel)
	assert.Equal(t, types.DefaultMaxChoices, c.Allocation.MaxChoices)
	assert.Equal(t, types.SemenTypes, c.Allocation.SemenTypes)
	assert.Equal(t, "sqlite3", c.Store.Driver)
	assert.Equal(t, "plans", c.Store.Dir)
}

func TestConfigOverrides(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("constraints.min_score", 80.5)
	v.Set("constraints.threshold_percent", 3.125)
	v.Set("allocation.semen_types", []string{"sexed"})

	c, err := configFrom(v)
	require.NoError(t, err)
	require.NotNil(t, c.Constraints.MinScore)
	assert.Equal(t, 80.5, *c.Constraints.MinScore)
	assert.Equal(t, 3.125, c.Constraints.ThresholdPercent)
	assert.Equal(t, []types.SemenType{types.SemenSexed}, c.Allocation.SemenTypes)
}

func TestConfigRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  any
	}{
		{"unknown semen type", "allocation.semen_types", []string{"frozen"}},
		{"zero threshold", "constraints.threshold_percent", 0.0},
		{"threshold above 100", "constraints.threshold_percent", 150.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := viper.New()
			setDefaults(v)
			v.Set(tt.key, tt.val)
			_, err := configFrom(v)
			assert.Error(t, err)
		})
	}
}
