// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/pdiddy/herdmate/internal/defect"
	"github.com/pdiddy/herdmate/internal/store"
	"github.com/pdiddy/herdmate/pkg/types"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("data_dir", "data")
	v.SetDefault("pedigree.max_depth", types.DefaultMaxDepth)
	v.SetDefault("constraints.threshold_percent", types.DefaultThresholdPercent)
	v.SetDefault("constraints.reject_risk", true)
	v.SetDefault("scoring.sire_weight", 0.5)
	v.SetDefault("scoring.dam_weight", 0.5)
	v.SetDefault("scoring.workers", 0)
	v.SetDefault("defects.panel", defect.DefaultPanel)
	v.SetDefault("allocation.max_choices", types.DefaultMaxChoices)
	v.SetDefault("allocation.semen_types", []string{string(types.SemenRegular), string(types.SemenSexed)})
	v.SetDefault("store.driver", store.DriverSQLite)
	v.SetDefault("store.dir", "plans")
	v.SetDefault("log.mode", "development")
	v.SetDefault("log.level", "info")
}

// configFrom reads typed settings from v.
func configFrom(v *viper.Viper) (types.Config, error) {
	c := types.Config{
		DataDir:  v.GetString("data_dir"),
		Pedigree: types.PedigreeConfig{MaxDepth: v.GetInt("pedigree.max_depth")},
		Constraints: types.MatingConstraints{
			ThresholdPercent: v.GetFloat64("constraints.threshold_percent"),
			RejectRisk:       v.GetBool("constraints.reject_risk"),
		},
		Scoring: types.ScoringConfig{
			SireWeight:  v.GetFloat64("scoring.sire_weight"),
			DamWeight:   v.GetFloat64("scoring.dam_weight"),
			Workers:     v.GetInt("scoring.workers"),
			DefectPanel: v.GetStringSlice("defects.panel"),
		},
		Allocation: types.AllocationConfig{
			MaxChoices: v.GetInt("allocation.max_choices"),
		},
		Store: types.StoreConfig{
			Driver: v.GetString("store.driver"),
			DSN:    v.GetString("store.dsn"),
			Dir:    v.GetString("store.dir"),
		},
		Log: types.LogConfig{
			Mode:  v.GetString("log.mode"),
			Level: v.GetString("log.level"),
		},
	}
	if v.IsSet("constraints.min_score") {
		m := v.GetFloat64("constraints.min_score")
		c.Constraints.MinScore = &m
	}
	for _, s := range v.GetStringSlice("allocation.semen_types") {
		st := types.SemenType(s)
		if !st.Valid() {
			return c, fmt.Errorf("allocation.semen_types: unknown semen type %q", s)
		}
		c.Allocation.SemenTypes = append(c.Allocation.SemenTypes, st)
	}
	if err := c.Constraints.Validate(); err != nil {
		return c, fmt.Errorf("constraints: %w", err)
	}
	return c, nil
}

func loadConfig() (types.Config, error) {
	c, err := configFrom(viper.GetViper())
	if err != nil {
		return c, err
	}
	if d, _ := rootCmd.PersistentFlags().GetInt("depth"); d > 0 {
		c.Pedigree.MaxDepth = d
	}
	return c, nil
}
