// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pedigree expands animals into ancestor trees with cycle detection
// and a bounded traversal depth, and validates lineage records.
//
// A Builder is scoped to one calculation run. It memoizes nodes so an
// ancestor reached from both the sire side and the dam side is the same
// *Node, which keeps kinship recursion near-linear in distinct ancestors.
package pedigree

import (
	"strings"

	"github.com/pdiddy/herdmate/internal/registry"
	"github.com/pdiddy/herdmate/pkg/types"
)

// rankDepthLimit caps the generation-rank walk, which is not bounded by
// MaxDepth.
const rankDepthLimit = 64

// Kind describes how a node was resolved.
type Kind int

const (
	// Complete nodes have at least one expanded parent subtree.
	Complete Kind = iota
	// Founder nodes have no recorded or resolvable ancestry.
	Founder
	// Truncated nodes sit at the depth limit and were not expanded.
	Truncated
	// Cyclic nodes re-enter an identifier already on the traversal path.
	Cyclic
)

func (k Kind) String() string {
	switch k {
	case Complete:
		return "complete"
	case Founder:
		return "founder"
	case Truncated:
		return "truncated"
	case Cyclic:
		return "cyclic"
	default:
		return "unknown"
	}
}

// Node is one animal in a pedigree tree.
type Node struct {
	ID   string
	Sire *Node
	Dam  *Node

	Founder   bool
	Truncated bool
	Cyclic    bool

	// Depth is the distance from the tree root (0 for the root).
	Depth int

	// Generation ranks the animal in the full pedigree: 0 for animals
	// without resolvable parents, otherwise one more than the highest
	// parent. An ancestor always ranks below its descendants.
	Generation int

	// Resolved is false when the registry had no record for ID.
	Resolved bool
	Animal   types.Animal

	hasCycle bool
}

// Kind returns the node's resolution state.
func (n *Node) Kind() Kind {
	switch {
	case n.Cyclic:
		return Cyclic
	case n.Truncated:
		return Truncated
	case n.Founder:
		return Founder
	default:
		return Complete
	}
}

// Expandable reports whether the node has parent subtrees to recurse into.
func (n *Node) Expandable() bool {
	return n != nil && n.Kind() == Complete
}

type memoKey struct {
	id        string
	remaining int
}

// Builder expands pedigree trees for one run. It is not safe for
// concurrent use; give each worker its own Builder.
type Builder struct {
	resolver registry.Resolver
	maxDepth int

	onPath map[string]bool
	memo   map[memoKey]*Node

	ranks    map[string]int
	rankPath map[string]bool
}

// NewBuilder returns a Builder over resolver. maxDepth <= 0 uses
// types.DefaultMaxDepth.
func NewBuilder(resolver registry.Resolver, maxDepth int) *Builder {
	if maxDepth <= 0 {
		maxDepth = types.DefaultMaxDepth
	}
	return &Builder{
		resolver: resolver,
		maxDepth: maxDepth,
		onPath:   make(map[string]bool),
		memo:     make(map[memoKey]*Node),
		ranks:    make(map[string]int),
		rankPath: make(map[string]bool),
	}
}

// MaxDepth returns the configured traversal depth.
func (b *Builder) MaxDepth() int {
	return b.maxDepth
}

// Build expands id into a pedigree tree. It returns nil for an empty id.
// Unknown identifiers produce a Founder node, never an error.
func (b *Builder) Build(id string) *Node {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil
	}
	return b.build(id, 0)
}

func (b *Builder) build(id string, depth int) *Node {
	animal, ok := b.resolver.Resolve(id)
	key := id
	if ok {
		key = animal.ID
	}

	if b.onPath[key] {
		return &Node{ID: key, Cyclic: true, Depth: depth, Resolved: ok, Animal: animal, Generation: b.rank(key), hasCycle: true}
	}
	if depth == b.maxDepth {
		return &Node{ID: key, Truncated: true, Depth: depth, Resolved: ok, Animal: animal, Generation: b.rank(key)}
	}
	if !ok {
		return &Node{ID: key, Founder: true, Depth: depth}
	}

	mk := memoKey{id: key, remaining: b.maxDepth - depth}
	if n, hit := b.memo[mk]; hit {
		return n
	}

	n := &Node{ID: key, Depth: depth, Resolved: true, Animal: animal}
	if !animal.HasParents() {
		n.Founder = true
		b.memo[mk] = n
		return n
	}

	b.onPath[key] = true
	if animal.SireID != "" {
		n.Sire = b.build(animal.SireID, depth+1)
	}
	if animal.DamID != "" {
		n.Dam = b.build(animal.DamID, depth+1)
	}
	delete(b.onPath, key)

	n.hasCycle = (n.Sire != nil && n.Sire.hasCycle) || (n.Dam != nil && n.Dam.hasCycle)
	n.Generation = b.rank(key)
	if !n.hasCycle {
		b.memo[mk] = n
	}
	return n
}

// rank returns the generation rank of id over the whole pedigree.
func (b *Builder) rank(id string) int {
	return b.rankAt(id, 0)
}

func (b *Builder) rankAt(id string, depth int) int {
	animal, ok := b.resolver.Resolve(id)
	if !ok {
		return 0
	}
	key := animal.ID
	if r, hit := b.ranks[key]; hit {
		return r
	}
	if b.rankPath[key] || depth >= rankDepthLimit || !animal.HasParents() {
		return 0
	}

	b.rankPath[key] = true
	r := 0
	for _, parent := range []string{animal.SireID, animal.DamID} {
		if parent == "" {
			continue
		}
		if pr := b.rankAt(parent, depth+1) + 1; pr > r {
			r = pr
		}
	}
	delete(b.rankPath, key)

	b.ranks[key] = r
	return r
}

// Walk visits n and its ancestors in pre-order, sire before dam. A shared
// node is visited once per path that reaches it. Returning false from fn
// skips the node's ancestors.
func Walk(n *Node, fn func(*Node) bool) {
	if n == nil {
		return
	}
	if !fn(n) {
		return
	}
	Walk(n.Sire, fn)
	Walk(n.Dam, fn)
}

// Ancestors returns the distinct ancestor identifiers of n in pre-order,
// excluding n itself.
func Ancestors(n *Node) []string {
	if n == nil {
		return nil
	}
	seen := map[string]bool{n.ID: true}
	var ids []string
	Walk(n, func(a *Node) bool {
		if !seen[a.ID] {
			seen[a.ID] = true
			ids = append(ids, a.ID)
		}
		return true
	})
	return ids
}

// Leaves counts leaf nodes of n by kind.
func Leaves(n *Node) map[Kind]int {
	counts := make(map[Kind]int)
	Walk(n, func(a *Node) bool {
		if !a.Expandable() {
			counts[a.Kind()]++
		}
		return true
	})
	return counts
}
