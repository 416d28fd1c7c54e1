// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package inbreeding computes expected offspring inbreeding coefficients
// with the recursive kinship (coancestry) method over pedigree trees.
//
// For two animals x and y:
//
//	f(x, x) = 0.5                        x has no expandable ancestry
//	f(x, x) = 0.5 * (1 + f(sire, dam))   otherwise
//	f(x, y) = 0.5 * (f(sire(a), b) + f(dam(a), b))
//
// where a is whichever of x, y ranks higher in generation order (and so
// cannot be an ancestor of the other) and b is the other. Unknown parents
// contribute 0. The offspring coefficient is F = f(sire, dam).
package inbreeding

import (
	"strings"

	"github.com/pdiddy/herdmate/internal/pedigree"
	"github.com/pdiddy/herdmate/internal/registry"
)

type pairKey struct {
	a, b *pedigree.Node
}

// Calculator computes coefficients for one run. Pedigree nodes and kinship
// values are memoized across calls, so reuse one Calculator for every
// pairing in a run but never share it between goroutines.
type Calculator struct {
	builder *pedigree.Builder
	memo    map[pairKey]float64
}

// NewCalculator returns a Calculator expanding maxDepth generations above
// each parent. maxDepth <= 0 uses the package default.
func NewCalculator(resolver registry.Resolver, maxDepth int) *Calculator {
	return &Calculator{
		builder: pedigree.NewBuilder(resolver, maxDepth),
		memo:    make(map[pairKey]float64),
	}
}

// Builder exposes the run's pedigree builder.
func (c *Calculator) Builder() *pedigree.Builder {
	return c.builder
}

// Coefficient returns the expected inbreeding coefficient of an offspring
// of sireID and damID, in [0, 1). A missing identifier on either side
// yields 0: no known inbreeding, not a verdict of safety.
func (c *Calculator) Coefficient(sireID, damID string) float64 {
	sireID = strings.TrimSpace(sireID)
	damID = strings.TrimSpace(damID)
	if sireID == "" || damID == "" {
		return 0
	}
	return c.Kinship(c.builder.Build(sireID), c.builder.Build(damID))
}

// Kinship returns the coancestry coefficient of two pedigree nodes.
func (c *Calculator) Kinship(x, y *pedigree.Node) float64 {
	if x == nil || y == nil {
		return 0
	}
	key := pairKey{x, y}
	if keyLess(y, x) {
		key = pairKey{y, x}
	}
	if v, ok := c.memo[key]; ok {
		return v
	}

	var v float64
	if x.ID == y.ID {
		n := richer(x, y)
		if n.Expandable() {
			v = 0.5 * (1 + c.Kinship(n.Sire, n.Dam))
		} else {
			v = 0.5
		}
	} else {
		a, b := x, y
		if expandFirst(y, x) {
			a, b = y, x
		}
		if a.Expandable() {
			v = 0.5 * (c.Kinship(a.Sire, b) + c.Kinship(a.Dam, b))
		}
	}

	c.memo[key] = v
	return v
}

// expandFirst reports whether p should be expanded instead of q. The
// higher generation goes first; on a tie, an expandable node beats a leaf.
func expandFirst(p, q *pedigree.Node) bool {
	if p.Generation != q.Generation {
		return p.Generation > q.Generation
	}
	return p.Expandable() && !q.Expandable()
}

// richer picks, of two nodes for the same animal, the one carrying more
// ancestry: an expandable node, then the one nearer its tree root.
func richer(x, y *pedigree.Node) *pedigree.Node {
	if x.Expandable() != y.Expandable() {
		if x.Expandable() {
			return x
		}
		return y
	}
	if y.Depth < x.Depth {
		return y
	}
	return x
}

// keyLess orders memo keys so f(x, y) and f(y, x) share an entry.
func keyLess(p, q *pedigree.Node) bool {
	if p.ID != q.ID {
		return p.ID < q.ID
	}
	return p.Depth < q.Depth
}
