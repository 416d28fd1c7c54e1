// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package defect classifies offspring risk for recessive genetic defects
// from the carrier status of both parents.
//
// A locus is Risk only when both parents are confirmed carriers. When
// either side is untested the verdict is Unknown, which is reported
// separately from Safe. Verdicts aggregate with precedence
// Risk > Unknown > Safe.
package defect

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pdiddy/herdmate/pkg/types"
)

// DefaultPanel lists the Holstein haplotypes and recessives screened when
// no panel is configured.
var DefaultPanel = []string{
	"HH1", "HH3", "HH4", "HH5", "HH6",
	"BLAD", "CVM", "Brachyspina", "DUMPS", "Mulefoot",
}

// OffspringRisk classifies one locus. The same policy applies at every
// locus, so the locus name is not consulted.
func OffspringRisk(_ string, sire, dam types.GenotypeStatus) types.RiskVerdict {
	sire, dam = normalize(sire), normalize(dam)
	switch {
	case sire == types.StatusCarrier && dam == types.StatusCarrier:
		return types.VerdictRisk
	case sire == types.StatusUnknown || dam == types.StatusUnknown:
		return types.VerdictUnknown
	default:
		return types.VerdictSafe
	}
}

// Aggregate combines per-locus verdicts. An empty input is Safe.
func Aggregate(verdicts ...types.RiskVerdict) types.RiskVerdict {
	out := types.VerdictSafe
	for _, v := range verdicts {
		switch v {
		case types.VerdictRisk:
			return types.VerdictRisk
		case types.VerdictUnknown:
			out = types.VerdictUnknown
		}
	}
	return out
}

// normalize maps anything other than Clear or Carrier to Unknown.
func normalize(s types.GenotypeStatus) types.GenotypeStatus {
	switch s {
	case types.StatusClear, types.StatusCarrier:
		return s
	default:
		return types.StatusUnknown
	}
}

// Assessment is the defect outcome of one mating.
type Assessment struct {
	Loci    []types.LocusRisk
	Verdict types.RiskVerdict
}

// Classifier evaluates every locus of a panel plus any locus tested on
// either parent.
type Classifier struct {
	Panel []string
}

// NewClassifier returns a Classifier over panel, or DefaultPanel when
// panel is empty.
func NewClassifier(panel []string) *Classifier {
	if len(panel) == 0 {
		panel = DefaultPanel
	}
	return &Classifier{Panel: append([]string(nil), panel...)}
}

// Assess classifies the mating of sire and dam. Either record may be nil;
// its loci are then Unknown. Panel loci come first in panel order, other
// tested loci follow alphabetically.
func (c *Classifier) Assess(sire, dam *types.GenotypeRecord) Assessment {
	loci := c.loci(sire, dam)
	out := Assessment{Loci: make([]types.LocusRisk, 0, len(loci))}
	verdicts := make([]types.RiskVerdict, 0, len(loci))
	for _, locus := range loci {
		s, d := sire.Status(locus), dam.Status(locus)
		v := OffspringRisk(locus, s, d)
		out.Loci = append(out.Loci, types.LocusRisk{Locus: locus, Sire: normalize(s), Dam: normalize(d), Verdict: v})
		verdicts = append(verdicts, v)
	}
	out.Verdict = Aggregate(verdicts...)
	return out
}

func (c *Classifier) loci(records ...*types.GenotypeRecord) []string {
	seen := make(map[string]bool, len(c.Panel))
	loci := make([]string, 0, len(c.Panel))
	for _, l := range c.Panel {
		if !seen[l] {
			seen[l] = true
			loci = append(loci, l)
		}
	}
	var extra []string
	for _, r := range records {
		if r == nil {
			continue
		}
		for l := range r.Loci {
			if !seen[l] {
				seen[l] = true
				extra = append(extra, l)
			}
		}
	}
	sort.Strings(extra)
	return append(loci, extra...)
}

// ParseStatus reads a test result as published by breed associations and
// genomic labs. Blank and unrecognized text are Unknown.
func ParseStatus(raw string) (types.GenotypeStatus, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "clear", "free", "tested free", "tested-free", "tf", "f", "0", "normal":
		return types.StatusClear, nil
	case "carrier", "c", "tc", "1", "het", "heterozygous":
		return types.StatusCarrier, nil
	case "", "unknown", "untested", "na", "n/a", "?":
		return types.StatusUnknown, nil
	default:
		return types.StatusUnknown, fmt.Errorf("unrecognized genotype status %q", raw)
	}
}

// Fold groups flat genotype rows into one record per animal. Rows with an
// empty animal ID or locus are skipped. A later row for the same animal and
// locus replaces an Unknown status but never overrides a tested one.
func Fold(rows []types.GenotypeRow) map[string]*types.GenotypeRecord {
	out := make(map[string]*types.GenotypeRecord)
	for _, row := range rows {
		id := strings.TrimSpace(row.AnimalID)
		locus := strings.TrimSpace(row.Locus)
		if id == "" || locus == "" {
			continue
		}
		rec, ok := out[id]
		if !ok {
			rec = &types.GenotypeRecord{AnimalID: id, Loci: make(map[string]types.GenotypeStatus)}
			out[id] = rec
		}
		status := normalize(row.Status)
		if prev, ok := rec.Loci[locus]; ok && prev != types.StatusUnknown {
			continue
		}
		rec.Loci[locus] = status
	}
	return out
}
