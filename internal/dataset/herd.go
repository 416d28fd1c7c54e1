// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dataset

import (
	"strings"

	"github.com/pdiddy/herdmate/internal/defect"
	"github.com/pdiddy/herdmate/internal/logging"
	"github.com/pdiddy/herdmate/internal/registry"
	"github.com/pdiddy/herdmate/pkg/types"
)

// Default group names used when groups are derived from lactation count.
const (
	HeiferGroup    = "heifers"
	LactatingGroup = "cows"
)

// Herd is the in-memory view of one data directory. Every bull reference,
// in genotypes and inventory alike, uses the bull's canonical ID.
type Herd struct {
	Registry  registry.Chain
	Bulls     []types.Animal
	Cows      []types.Animal
	Genotypes map[string]*types.GenotypeRecord
	Inventory []types.SemenInventory
	Groups    []types.CowGroup

	// CowScores holds each cow's breeding index, for allocation order.
	CowScores map[string]float64
}

// Build normalizes the tables. semenTypes fills groups that name none.
// Unparseable genotype statuses are logged and read as unknown.
func (t *Tables) Build(semenTypes []types.SemenType, log *logging.Logger) *Herd {
	if len(semenTypes) == 0 {
		semenTypes = types.SemenTypes
	}
	reg := registry.New(t.Bulls, t.Cows)
	h := &Herd{
		Registry:  reg,
		CowScores: make(map[string]float64),
	}

	seen := make(map[string]bool)
	for _, b := range t.Bulls {
		a := registry.BullAnimal(b)
		if a.ID == "" || seen[a.ID] {
			continue
		}
		seen[a.ID] = true
		h.Bulls = append(h.Bulls, a)
	}
	seen = make(map[string]bool)
	for _, c := range t.Cows {
		a := registry.CowAnimal(c)
		if a.ID == "" || seen[a.ID] {
			continue
		}
		seen[a.ID] = true
		h.Cows = append(h.Cows, a)
		if a.BreedingIndex != nil {
			h.CowScores[a.ID] = *a.BreedingIndex
		}
	}

	rows := make([]types.GenotypeRow, 0, len(t.Genotypes))
	for _, g := range t.Genotypes {
		status, err := defect.ParseStatus(g.Status)
		if err != nil {
			log.Warn("unreadable genotype status", "animal", g.AnimalID, "locus", g.Locus, "error", err)
		}
		rows = append(rows, types.GenotypeRow{AnimalID: canonical(reg, g.AnimalID), Locus: g.Locus, Status: status})
	}
	h.Genotypes = defect.Fold(rows)

	for _, inv := range t.Inventory {
		inv.BullID = canonical(reg, inv.BullID)
		h.Inventory = append(h.Inventory, inv)
	}

	if len(t.Groups) > 0 {
		for _, g := range t.Groups {
			g.Name = strings.TrimSpace(g.Name)
			if len(g.SemenTypes) == 0 {
				g.SemenTypes = append([]types.SemenType(nil), semenTypes...)
			}
			ids := make([]string, 0, len(g.CowIDs))
			for _, id := range g.CowIDs {
				ids = append(ids, strings.TrimSpace(id))
			}
			g.CowIDs = ids
			h.Groups = append(h.Groups, g)
		}
	} else {
		h.Groups = DeriveGroups(h.Cows, semenTypes)
	}

	log.Debug("herd built",
		"bulls", len(h.Bulls),
		"cows", len(h.Cows),
		"genotyped", len(h.Genotypes),
		"groups", len(h.Groups))
	return h
}

// Animals returns bulls followed by cows.
func (h *Herd) Animals() []types.Animal {
	out := make([]types.Animal, 0, len(h.Bulls)+len(h.Cows))
	out = append(out, h.Bulls...)
	return append(out, h.Cows...)
}

// DeriveGroups groups present female cows by their Group label, or by
// heifer/cow status when unlabeled, in first-seen order.
func DeriveGroups(cows []types.Animal, semenTypes []types.SemenType) []types.CowGroup {
	var out []types.CowGroup
	index := make(map[string]int)
	for _, c := range cows {
		if !c.Present || c.Sex == types.SexMale {
			continue
		}
		name := strings.TrimSpace(c.Group)
		if name == "" {
			name = LactatingGroup
			if c.IsHeifer() {
				name = HeiferGroup
			}
		}
		i, ok := index[name]
		if !ok {
			i = len(out)
			index[name] = i
			out = append(out, types.CowGroup{
				Name:       name,
				SemenTypes: append([]types.SemenType(nil), semenTypes...),
			})
		}
		out[i].CowIDs = append(out[i].CowIDs, c.ID)
	}
	return out
}

func canonical(r registry.Resolver, id string) string {
	id = strings.TrimSpace(id)
	if a, ok := r.Resolve(id); ok {
		return a.ID
	}
	return id
}
