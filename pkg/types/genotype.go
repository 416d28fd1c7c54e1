// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// GenotypeStatus is an animal's test result at one recessive-defect locus.
type GenotypeStatus string

const (
	StatusClear   GenotypeStatus = "clear"
	StatusCarrier GenotypeStatus = "carrier"

	// StatusUnknown is the default when no test result exists. It is never
	// equivalent to StatusClear.
	StatusUnknown GenotypeStatus = "unknown"
)

// RiskVerdict is the offspring risk at a locus or across all loci.
type RiskVerdict string

const (
	VerdictSafe    RiskVerdict = "safe"
	VerdictRisk    RiskVerdict = "risk"
	VerdictUnknown RiskVerdict = "unknown"
)

// GenotypeRow is the flat input form of one test result.
type GenotypeRow struct {
	AnimalID string         `json:"id" yaml:"id"`
	Locus    string         `json:"locus" yaml:"locus"`
	Status   GenotypeStatus `json:"status" yaml:"status"`
}

// GenotypeRecord maps gene-locus names to an animal's status.
type GenotypeRecord struct {
	AnimalID string                    `json:"id" yaml:"id"`
	Loci     map[string]GenotypeStatus `json:"loci" yaml:"loci"`
}

// Status returns the status at locus, or StatusUnknown when the record is
// nil or the locus was never tested.
func (r *GenotypeRecord) Status(locus string) GenotypeStatus {
	if r == nil {
		return StatusUnknown
	}
	s, ok := r.Loci[locus]
	if !ok || s == "" {
		return StatusUnknown
	}
	return s
}

// LocusRisk is the offspring verdict at one locus.
type LocusRisk struct {
	Locus   string         `json:"locus" yaml:"locus"`
	Sire    GenotypeStatus `json:"sire" yaml:"sire"`
	Dam     GenotypeStatus `json:"dam" yaml:"dam"`
	Verdict RiskVerdict    `json:"verdict" yaml:"verdict"`
}
