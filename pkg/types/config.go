// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// DefaultMaxDepth bounds pedigree traversal. Ancestors beyond depth d
// influence the coefficient by less than 2^-(2d).
const DefaultMaxDepth = 6

// DefaultMaxChoices is the number of ranked bulls kept per cow and semen type.
const DefaultMaxChoices = 3

// PedigreeConfig holds settings for pedigree traversal.
type PedigreeConfig struct {
	// MaxDepth is the number of generations expanded above an animal (default 6).
	MaxDepth int `json:"max_depth" yaml:"max_depth"`
}

// ScoringConfig holds settings for the pairing scorer.
type ScoringConfig struct {
	// SireWeight and DamWeight weight the bull's and cow's breeding indices
	// in the default offspring score (default 0.5 each).
	SireWeight float64 `json:"sire_weight" yaml:"sire_weight"`
	DamWeight  float64 `json:"dam_weight" yaml:"dam_weight"`

	// Workers bounds concurrent scoring goroutines. Zero uses GOMAXPROCS.
	Workers int `json:"workers" yaml:"workers"`

	// DefectPanel lists the loci always evaluated, in report order.
	DefectPanel []string `json:"defect_panel" yaml:"defect_panel"`
}

// AllocationConfig holds settings for the allocation engine.
type AllocationConfig struct {
	// MaxChoices is the number of ranked bulls retained per cow (default 3).
	MaxChoices int `json:"max_choices" yaml:"max_choices"`

	// SemenTypes are allocated for groups that do not name their own.
	SemenTypes []SemenType `json:"semen_types" yaml:"semen_types"`
}

// StoreConfig selects the plan store backend.
type StoreConfig struct {
	// Driver is "sqlite3" (default) or "pgx".
	Driver string `json:"driver" yaml:"driver"`

	// DSN is the Postgres connection string. Ignored for sqlite3.
	DSN string `json:"dsn,omitempty" yaml:"dsn,omitempty"`

	// Dir holds the SQLite database and exported plans (default "plans").
	Dir string `json:"dir" yaml:"dir"`
}

// LogConfig selects the logger encoding and level.
type LogConfig struct {
	// Mode is "development" (console) or "production" (JSON).
	Mode  string `json:"mode" yaml:"mode"`
	Level string `json:"level" yaml:"level"`
}

// Config groups all settings for one herdmate invocation.
type Config struct {
	DataDir     string            `json:"data_dir" yaml:"data_dir"`
	Pedigree    PedigreeConfig    `json:"pedigree" yaml:"pedigree"`
	Constraints MatingConstraints `json:"constraints" yaml:"constraints"`
	Scoring     ScoringConfig     `json:"scoring" yaml:"scoring"`
	Allocation  AllocationConfig  `json:"allocation" yaml:"allocation"`
	Store       StoreConfig       `json:"store" yaml:"store"`
	Log         LogConfig         `json:"log" yaml:"log"`
}
