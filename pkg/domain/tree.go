package domain

import (
	"encoding/json"
	"strings"

	"github.com/dustin/go-humanize"
)

// TreeResult is the aggregate output of a build.
type TreeResult struct {
	// Children holds the root nodes in generation order.
	Children []*Node

	// NodeCount is the total number of generated nodes.
	NodeCount int

	// Depth is the number of non-empty levels along the deepest branch
	// (0 for an empty tree).
	Depth int
}

// NodeCountDisp renders NodeCount in a compact form: "8", "1.2k", "3.4M".
func (t *TreeResult) NodeCountDisp() string {
	return FormatCount(t.NodeCount)
}

// Walk visits every node in pre-order.
func (t *TreeResult) Walk(fn func(n *Node)) {
	var visit func(nodes []*Node)
	visit = func(nodes []*Node) {
		for _, n := range nodes {
			fn(n)
			visit(n.Children)
		}
	}
	visit(t.Children)
}

// MarshalJSON encodes the tree as the plain list of its roots.
func (t *TreeResult) MarshalJSON() ([]byte, error) {
	if t.Children == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(t.Children)
}

// FormatCount collapses a count into an SI suffixed string with one decimal.
func FormatCount(n int) string {
	return strings.ReplaceAll(humanize.SIWithDigits(float64(n), 1, ""), " ", "")
}

// Measure counts the nodes of a forest and the number of levels along its
// deepest branch, independently of any bookkeeping done while building it.
func Measure(nodes []*Node) (count, depth int) {
	for _, n := range nodes {
		c, d := Measure(n.Children)
		count += 1 + c
		if d+1 > depth {
			depth = d + 1
		}
	}
	return count, depth
}
