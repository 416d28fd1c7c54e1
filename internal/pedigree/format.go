// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pedigree

import (
	"fmt"
	"io"
	"strings"
)

// FormatTree writes n as an indented tree, sire branch first. Leaves carry
// their kind in brackets.
func FormatTree(w io.Writer, n *Node) {
	if n == nil {
		fmt.Fprintln(w, "(no animal)")
		return
	}
	formatNode(w, n, "", "")
	counts := Leaves(n)
	fmt.Fprintf(w, "\n%d ancestors (%d founder, %d truncated, %d cyclic)\n",
		len(Ancestors(n)), counts[Founder], counts[Truncated], counts[Cyclic])
}

func formatNode(w io.Writer, n *Node, role, indent string) {
	label := n.ID
	if role != "" {
		label = role + ": " + label
	}
	if !n.Expandable() {
		label += " [" + n.Kind().String() + "]"
	}
	fmt.Fprintln(w, indent+label)

	child := indent + strings.Repeat(" ", 2)
	if n.Sire != nil {
		formatNode(w, n.Sire, "sire", child)
	}
	if n.Dam != nil {
		formatNode(w, n.Dam, "dam", child)
	}
}
