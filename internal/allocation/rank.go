// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package allocation

import (
	"sort"

	"github.com/pdiddy/herdmate/internal/pairing"
	"github.com/pdiddy/herdmate/pkg/types"
)

type slotKey struct {
	cow   string
	semen types.SemenType
}

// Less orders candidate pairings best first: higher score, then lower
// inbreeding coefficient, then bull ID.
func Less(a, b types.CandidatePairing) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	if a.Coefficient != b.Coefficient {
		return a.Coefficient < b.Coefficient
	}
	return a.BullID < b.BullID
}

// rankAll groups eligible pairings by cow and semen type, best first, and
// keeps at most limit of them per slot. It also returns the slots in
// first-seen order.
func rankAll(pairings []types.CandidatePairing, c types.MatingConstraints, limit int) (map[slotKey][]types.CandidatePairing, []slotKey) {
	ranked := make(map[slotKey][]types.CandidatePairing)
	var order []slotKey
	for _, p := range pairings {
		k := slotKey{p.CowID, p.SemenType}
		if _, ok := ranked[k]; !ok {
			ranked[k] = nil
			order = append(order, k)
		}
		if len(pairing.Check(c, p)) > 0 {
			continue
		}
		p.MeetsConstraints = true
		p.Rejections = nil
		ranked[k] = append(ranked[k], p)
	}
	for k, ps := range ranked {
		sort.SliceStable(ps, func(i, j int) bool { return Less(ps[i], ps[j]) })
		if len(ps) > limit {
			ps = ps[:limit]
		}
		ranked[k] = ps
	}
	return ranked, order
}

// Recommend returns up to MaxChoices eligible pairings for every cow and
// semen type present in pairings, in first-seen cow order and semen type
// order. Slots with no eligible pairing are included with no choices.
func (e *Engine) Recommend(pairings []types.CandidatePairing, c types.MatingConstraints) []types.Recommendation {
	ranked, order := rankAll(pairings, c, e.maxChoices())

	cowOrder := make([]string, 0)
	bySemen := make(map[string]map[types.SemenType]bool)
	for _, k := range order {
		if bySemen[k.cow] == nil {
			bySemen[k.cow] = make(map[types.SemenType]bool)
			cowOrder = append(cowOrder, k.cow)
		}
		bySemen[k.cow][k.semen] = true
	}

	var out []types.Recommendation
	for _, cow := range cowOrder {
		for _, st := range semenOrder(bySemen[cow]) {
			out = append(out, types.Recommendation{
				CowID:     cow,
				SemenType: st,
				Choices:   ranked[slotKey{cow, st}],
			})
		}
	}
	return out
}

// semenOrder lists the semen types in set, known types first in canonical
// order and any others alphabetically.
func semenOrder(set map[types.SemenType]bool) []types.SemenType {
	var out []types.SemenType
	for _, st := range types.SemenTypes {
		if set[st] {
			out = append(out, st)
		}
	}
	var extra []types.SemenType
	for st := range set {
		if !st.Valid() {
			extra = append(extra, st)
		}
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i] < extra[j] })
	return append(out, extra...)
}
