// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package allocation

import (
	"sort"

	"github.com/pdiddy/herdmate/pkg/types"
)

// Summarize derives group and bull summaries from the result log and the
// original inventories only. Groups without semen types count against
// every known semen type. Bull summaries are sorted by bull, then semen
// type; a bull used without an inventory row reports zero original units.
func Summarize(results []types.AllocationResult, groups []types.CowGroup, inventories []types.SemenInventory) ([]types.GroupAllocationSummary, []types.BullUsageSummary) {
	type gk struct {
		group string
		semen types.SemenType
	}
	type bk struct {
		bull  string
		semen types.SemenType
	}
	allocated := make(map[gk]int)
	used := make(map[bk]int)
	for _, r := range results {
		allocated[gk{r.Group, r.SemenType}]++
		used[bk{r.BullID, r.SemenType}]++
	}

	var gs []types.GroupAllocationSummary
	for _, g := range groups {
		semen := g.SemenTypes
		if len(semen) == 0 {
			semen = types.SemenTypes
		}
		cows := countDistinct(g.CowIDs)
		for _, st := range semen {
			n := allocated[gk{g.Name, st}]
			s := types.GroupAllocationSummary{
				Group:       g.Name,
				SemenType:   st,
				Cows:        cows,
				Allocated:   n,
				Unallocated: cows - n,
			}
			if cows > 0 {
				s.AllocationRate = float64(n) / float64(cows)
			}
			gs = append(gs, s)
		}
	}

	original := make(map[bk]int)
	for _, row := range inventories {
		original[bk{row.BullID, row.SemenType}] += row.Units
	}
	keys := make([]bk, 0, len(original))
	for k := range original {
		keys = append(keys, k)
	}
	for k := range used {
		if _, ok := original[k]; !ok {
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].bull != keys[j].bull {
			return keys[i].bull < keys[j].bull
		}
		return semenRank(keys[i].semen) < semenRank(keys[j].semen)
	})

	bs := make([]types.BullUsageSummary, 0, len(keys))
	for _, k := range keys {
		o, u := original[k], used[k]
		s := types.BullUsageSummary{
			BullID:    k.bull,
			SemenType: k.semen,
			Original:  o,
			Used:      u,
			Remaining: o - u,
		}
		if o > 0 {
			rate := float64(u) / float64(o)
			s.UsageRate = &rate
		}
		bs = append(bs, s)
	}
	return gs, bs
}

func countDistinct(ids []string) int {
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		seen[id] = true
	}
	return len(seen)
}

func semenRank(st types.SemenType) int {
	for i, t := range types.SemenTypes {
		if t == st {
			return i
		}
	}
	return len(types.SemenTypes)
}
