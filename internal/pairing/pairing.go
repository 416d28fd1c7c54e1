// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pairing scores every eligible cow against every stocked bull and
// semen type by combining the offspring inbreeding coefficient, the
// recessive defect verdict and a composite breeding score.
package pairing

import (
	"context"
	"fmt"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/herdmate/internal/defect"
	"github.com/pdiddy/herdmate/internal/inbreeding"
	"github.com/pdiddy/herdmate/internal/logging"
	"github.com/pdiddy/herdmate/internal/registry"
	"github.com/pdiddy/herdmate/pkg/types"
)

// Options configures a Scorer.
type Options struct {
	MaxDepth    int
	Constraints types.MatingConstraints
	Strategy    ScoreStrategy // nil uses DefaultStrategy
	Panel       []string      // nil uses defect.DefaultPanel
	Workers     int           // ScoreAll only; <= 0 uses GOMAXPROCS
	Logger      *logging.Logger
}

// Scorer scores single pairings. It owns a kinship calculator and must not
// be shared between goroutines.
type Scorer struct {
	calc        *inbreeding.Calculator
	classifier  *defect.Classifier
	genotypes   map[string]*types.GenotypeRecord
	strategy    ScoreStrategy
	constraints types.MatingConstraints
}

// NewScorer returns a Scorer resolving pedigrees through resolver.
// genotypes is keyed by canonical animal ID and may be nil.
func NewScorer(resolver registry.Resolver, genotypes map[string]*types.GenotypeRecord, opts Options) *Scorer {
	strategy := opts.Strategy
	if strategy == nil {
		strategy = DefaultStrategy()
	}
	return &Scorer{
		calc:        inbreeding.NewCalculator(resolver, opts.MaxDepth),
		classifier:  defect.NewClassifier(opts.Panel),
		genotypes:   genotypes,
		strategy:    strategy,
		constraints: opts.Constraints,
	}
}

// Score evaluates mating cow with bull using semenType.
func (s *Scorer) Score(cow, bull types.Animal, semenType types.SemenType) types.CandidatePairing {
	coef := s.calc.Coefficient(bull.ID, cow.ID)
	assessment := s.classifier.Assess(s.genotypes[bull.ID], s.genotypes[cow.ID])
	score, known := s.strategy.OffspringScore(bull, cow)

	p := types.CandidatePairing{
		CowID:       cow.ID,
		BullID:      bull.ID,
		SemenType:   semenType,
		Coefficient: coef,
		Verdict:     assessment.Verdict,
		LocusRisks:  assessment.Loci,
		Score:       score,
		ScoreKnown:  known,
	}
	p.Rejections = Check(s.constraints, p)
	p.MeetsConstraints = len(p.Rejections) == 0
	return p
}

// Check returns the reasons p fails c, or nil when it is eligible.
func Check(c types.MatingConstraints, p types.CandidatePairing) []string {
	var out []string
	if pct := p.Coefficient * 100; pct > c.ThresholdPercent {
		out = append(out, fmt.Sprintf("inbreeding %.2f%% exceeds %.2f%%", pct, c.ThresholdPercent))
	}
	if c.RejectRisk && p.Verdict == types.VerdictRisk {
		out = append(out, "defect risk at "+strings.Join(riskLoci(p.LocusRisks), ", "))
	}
	if c.MinScore != nil {
		switch {
		case !p.ScoreKnown:
			out = append(out, fmt.Sprintf("no breeding index, minimum score %g", *c.MinScore))
		case p.Score < *c.MinScore:
			out = append(out, fmt.Sprintf("score %g below minimum %g", p.Score, *c.MinScore))
		}
	}
	return out
}

func riskLoci(loci []types.LocusRisk) []string {
	var out []string
	for _, l := range loci {
		if l.Verdict == types.VerdictRisk {
			out = append(out, l.Locus)
		}
	}
	return out
}

// Input is the material for one scoring run.
type Input struct {
	Registry    registry.Resolver
	Cows        []types.Animal
	Bulls       []types.Animal
	Inventories []types.SemenInventory
	Genotypes   map[string]*types.GenotypeRecord
}

// ScoreAll scores every present female herd animal against every bull that
// has at least one inventory row, for each semen type stocked for that
// bull. Output order is cow input order, then bull input order, then semen
// type order, whatever the worker count.
func ScoreAll(ctx context.Context, in Input, opts Options) ([]types.CandidatePairing, error) {
	log := opts.Logger
	cows := eligibleCows(in.Cows)
	bulls := stockedBulls(in.Registry, in.Bulls, in.Inventories, log)

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > len(cows) {
		workers = len(cows)
	}
	log.Info("scoring pairings", "cows", len(cows), "bulls", len(bulls), "workers", workers)

	perCow := make([][]types.CandidatePairing, len(cows))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	chunk := 1
	if workers > 0 {
		chunk = (len(cows) + workers - 1) / workers
	}
	for start := 0; start < len(cows); start += chunk {
		start, end := start, min(start+chunk, len(cows))
		g.Go(func() error {
			scorer := NewScorer(in.Registry, in.Genotypes, opts)
			for i := start; i < end; i++ {
				select {
				case <-ctx.Done():
					return ctx.Err()
				default:
				}
				cow := cows[i]
				var out []types.CandidatePairing
				for _, b := range bulls {
					for _, st := range b.semen {
						out = append(out, scorer.Score(cow, b.animal, st))
					}
				}
				perCow[i] = out
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("scoring pairings: %w", err)
	}

	var all []types.CandidatePairing
	for _, ps := range perCow {
		all = append(all, ps...)
	}
	log.Debug("scored pairings", "pairings", len(all))
	return all, nil
}

func eligibleCows(animals []types.Animal) []types.Animal {
	var out []types.Animal
	seen := make(map[string]bool)
	for _, a := range animals {
		if a.Source != types.SourceHerd || !a.Present || a.Sex == types.SexMale || seen[a.ID] {
			continue
		}
		seen[a.ID] = true
		out = append(out, a)
	}
	return out
}

type stocked struct {
	animal types.Animal
	semen  []types.SemenType
}

// stockedBulls keeps the bulls with inventory, each with its stocked semen
// types in canonical order. Inventory rows may name a bull by either
// identifier.
func stockedBulls(resolver registry.Resolver, bulls []types.Animal, inv []types.SemenInventory, log *logging.Logger) []stocked {
	byBull := make(map[string]map[types.SemenType]bool)
	for _, row := range inv {
		id := canonical(resolver, strings.TrimSpace(row.BullID))
		if byBull[id] == nil {
			byBull[id] = make(map[types.SemenType]bool)
		}
		byBull[id][row.SemenType] = true
	}

	var out []stocked
	seen := make(map[string]bool)
	for _, b := range bulls {
		st := byBull[b.ID]
		if st == nil || seen[b.ID] {
			continue
		}
		seen[b.ID] = true
		s := stocked{animal: b}
		for _, t := range types.SemenTypes {
			if st[t] {
				s.semen = append(s.semen, t)
			}
		}
		out = append(out, s)
	}
	for _, row := range inv {
		if id := strings.TrimSpace(row.BullID); !seen[id] && !seen[canonical(resolver, id)] {
			log.Warn("inventory bull not in bull dataset", "bull", id)
			seen[id] = true
		}
	}
	return out
}

func canonical(resolver registry.Resolver, id string) string {
	if resolver == nil {
		return id
	}
	if a, ok := resolver.Resolve(id); ok {
		return a.ID
	}
	return id
}
