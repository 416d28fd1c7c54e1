// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package dataset reads and writes the flat record tables herdmate runs on
// and assembles them into the in-memory views the engine consumes.
package dataset

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/herdmate/pkg/types"
)

// Table file names inside a data directory.
const (
	BullsFile     = "bulls.yaml"
	HerdFile      = "herd.yaml"
	GenotypesFile = "genotypes.yaml"
	InventoryFile = "inventory.yaml"
	GroupsFile    = "groups.yaml"
)

// ErrMissingTable is returned when a required table file does not exist.
var ErrMissingTable = errors.New("missing table")

// GenotypeEntry is a genotype row as written by labs. Status is free text
// and is parsed when the herd is built.
type GenotypeEntry struct {
	AnimalID string `yaml:"id"`
	Locus    string `yaml:"locus"`
	Status   string `yaml:"status"`
}

// Tables holds the raw input rows.
type Tables struct {
	Bulls     []types.BullRecord     `yaml:"bulls"`
	Cows      []types.CowRecord      `yaml:"cows"`
	Genotypes []GenotypeEntry        `yaml:"genotypes"`
	Inventory []types.SemenInventory `yaml:"inventory"`

	// Groups is optional; when empty, groups are derived from the herd.
	Groups []types.CowGroup `yaml:"groups,omitempty"`
}

type bullsFile struct {
	Bulls []types.BullRecord `yaml:"bulls"`
}

type herdFile struct {
	Cows []types.CowRecord `yaml:"cows"`
}

type genotypesFile struct {
	Genotypes []GenotypeEntry `yaml:"genotypes"`
}

type inventoryFile struct {
	Inventory []types.SemenInventory `yaml:"inventory"`
}

type groupsFile struct {
	Groups []types.CowGroup `yaml:"groups"`
}

// Load reads every table from dir. groups.yaml may be absent; any other
// missing file wraps ErrMissingTable.
func Load(dir string) (*Tables, error) {
	var (
		t   Tables
		b   bullsFile
		h   herdFile
		g   genotypesFile
		inv inventoryFile
		grp groupsFile
	)
	for _, f := range []struct {
		name     string
		into     any
		optional bool
	}{
		{BullsFile, &b, false},
		{HerdFile, &h, false},
		{GenotypesFile, &g, false},
		{InventoryFile, &inv, false},
		{GroupsFile, &grp, true},
	} {
		if err := readYAML(filepath.Join(dir, f.name), f.into); err != nil {
			if f.optional && errors.Is(err, ErrMissingTable) {
				continue
			}
			return nil, err
		}
	}
	t.Bulls, t.Cows, t.Genotypes, t.Inventory, t.Groups = b.Bulls, h.Cows, g.Genotypes, inv.Inventory, grp.Groups
	return &t, nil
}

// Save writes every table to dir, creating it if needed. groups.yaml is
// written only when t has groups.
func Save(dir string, t *Tables) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	files := []struct {
		name string
		v    any
	}{
		{BullsFile, bullsFile{t.Bulls}},
		{HerdFile, herdFile{t.Cows}},
		{GenotypesFile, genotypesFile{t.Genotypes}},
		{InventoryFile, inventoryFile{t.Inventory}},
	}
	if len(t.Groups) > 0 {
		files = append(files, struct {
			name string
			v    any
		}{GroupsFile, groupsFile{t.Groups}})
	}
	for _, f := range files {
		if err := WriteYAML(filepath.Join(dir, f.name), f.v); err != nil {
			return err
		}
	}
	return nil
}

func readYAML(path string, v any) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrMissingTable, path)
	}
	if err != nil {
		return fmt.Errorf("reading %s: %w", filepath.Base(path), err)
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}
	return nil
}

// WriteYAML marshals v to path.
func WriteYAML(path string, v any) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", filepath.Base(path), err)
	}
	return os.WriteFile(path, data, 0o644)
}
