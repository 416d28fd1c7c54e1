// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pedigree

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pdiddy/herdmate/internal/registry"
	"github.com/pdiddy/herdmate/pkg/types"
)

// IssueKind categorizes a lineage finding.
type IssueKind string

const (
	IssueSelfParent    IssueKind = "self_parent"
	IssueMissingParent IssueKind = "missing_parent"
	IssueSexMismatch   IssueKind = "sex_mismatch"
	IssueCycle         IssueKind = "cycle"
)

// Issue is one lineage finding. None of them stop scoring: the resolver
// treats missing parents as founders and cuts cycles with Cyclic nodes.
type Issue struct {
	Kind     IssueKind `json:"kind" yaml:"kind"`
	AnimalID string    `json:"animal_id" yaml:"animal_id"`
	Message  string    `json:"message" yaml:"message"`
	Cycle    []string  `json:"cycle,omitempty" yaml:"cycle,omitempty"`
}

// DFS vertex states.
const (
	white = iota
	gray
	black
)

// Validate checks parent references of animals against resolver and
// reports self-parentage, unresolvable parents, parents recorded with the
// wrong sex, and circular parentage. Output is sorted by kind, then animal.
func Validate(animals []types.Animal, resolver registry.Resolver) []Issue {
	var issues []Issue

	for _, a := range animals {
		for _, p := range []struct {
			role string
			id   string
			sex  types.Sex
		}{
			{"sire", a.SireID, types.SexMale},
			{"dam", a.DamID, types.SexFemale},
		} {
			if p.id == "" {
				continue
			}
			parent, ok := resolver.Resolve(p.id)
			if !ok {
				issues = append(issues, Issue{
					Kind:     IssueMissingParent,
					AnimalID: a.ID,
					Message:  fmt.Sprintf("%s %s of %s is not in any dataset", p.role, p.id, a.ID),
				})
				continue
			}
			if parent.ID == a.ID {
				issues = append(issues, Issue{
					Kind:     IssueSelfParent,
					AnimalID: a.ID,
					Message:  fmt.Sprintf("%s references itself as %s", a.ID, p.role),
				})
				continue
			}
			if parent.Sex != types.SexUnknown && parent.Sex != p.sex {
				issues = append(issues, Issue{
					Kind:     IssueSexMismatch,
					AnimalID: a.ID,
					Message:  fmt.Sprintf("%s %s of %s is recorded as %s", p.role, parent.ID, a.ID, parent.Sex),
				})
			}
		}
	}

	for _, c := range detectCycles(animals, resolver) {
		loop := append(append([]string{}, c...), c[0])
		issues = append(issues, Issue{
			Kind:     IssueCycle,
			AnimalID: c[0],
			Message:  "circular parentage: " + strings.Join(loop, " -> "),
			Cycle:    c,
		})
	}

	sort.SliceStable(issues, func(i, j int) bool {
		if issues[i].Kind != issues[j].Kind {
			return issues[i].Kind < issues[j].Kind
		}
		return issues[i].AnimalID < issues[j].AnimalID
	})
	return issues
}

// detectCycles finds parent-edge cycles with a three-colour DFS. Each cycle
// is reported once, rotated to start at its smallest identifier.
func detectCycles(animals []types.Animal, resolver registry.Resolver) [][]string {
	state := make(map[string]int)
	seen := make(map[string]bool)
	var path []string
	var cycles [][]string

	var visit func(id string)
	visit = func(id string) {
		state[id] = gray
		path = append(path, id)

		a, ok := resolver.Resolve(id)
		if ok {
			for _, pid := range []string{a.SireID, a.DamID} {
				if pid == "" {
					continue
				}
				parent, ok := resolver.Resolve(pid)
				if !ok || parent.ID == id {
					continue
				}
				switch state[parent.ID] {
				case white:
					visit(parent.ID)
				case gray:
					start := indexOf(path, parent.ID)
					cycle := canonicalCycle(path[start:])
					sig := strings.Join(cycle, ",")
					if !seen[sig] {
						seen[sig] = true
						cycles = append(cycles, cycle)
					}
				}
			}
		}

		path = path[:len(path)-1]
		state[id] = black
	}

	ids := make([]string, 0, len(animals))
	for _, a := range animals {
		ids = append(ids, a.ID)
	}
	sort.Strings(ids)
	for _, id := range ids {
		if state[id] == white {
			visit(id)
		}
	}

	sort.Slice(cycles, func(i, j int) bool {
		return strings.Join(cycles[i], ",") < strings.Join(cycles[j], ",")
	})
	return cycles
}

func indexOf(s []string, v string) int {
	for i, x := range s {
		if x == v {
			return i
		}
	}
	return -1
}

// canonicalCycle rotates c so its smallest identifier comes first.
func canonicalCycle(c []string) []string {
	lo := 0
	for i := range c {
		if c[i] < c[lo] {
			lo = i
		}
	}
	out := make([]string, 0, len(c))
	out = append(out, c[lo:]...)
	return append(out, c[:lo]...)
}
