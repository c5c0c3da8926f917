package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/thicket/pkg/domain"
)

// Options controls how much of a tree GenerateMermaid draws.
type Options struct {
	// Label is the field shown in each node box. Nodes without it show their ID.
	Label string
	// MaxNodes stops the walk once this many nodes are drawn. Zero draws all.
	MaxNodes int
}

// GenerateMermaid produces a Mermaid flowchart of a generated tree.
// Shapes follow the node's position:
// - Root: ([Stadium])
// - Inner: [Rectangle]
// - Leaf: (Rounded)
// Nodes past MaxNodes are summarized in a single trailing note.
func GenerateMermaid(tree *domain.TreeResult, opts Options) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	drawn := 0
	var visit func(parent, node *domain.Node) bool
	visit = func(parent, node *domain.Node) bool {
		if opts.MaxNodes > 0 && drawn >= opts.MaxNodes {
			return false
		}
		drawn++

		opener, closer := "[", "]"
		switch {
		case parent == nil:
			opener, closer = "([", "])"
		case len(node.Children) == 0:
			opener, closer = "(", ")"
		}
		fmt.Fprintf(&sb, "    n%d%s\"%s\"%s\n", node.ID, opener, label(node, opts.Label), closer)
		if parent != nil {
			fmt.Fprintf(&sb, "    n%d --> n%d\n", parent.ID, node.ID)
		}

		for _, child := range node.Children {
			if !visit(node, child) {
				return false
			}
		}
		return true
	}

	for _, root := range tree.Children {
		if !visit(nil, root) {
			break
		}
	}

	if rest := tree.NodeCount - drawn; rest > 0 {
		fmt.Fprintf(&sb, "    more>\"... %d more nodes\"]\n", rest)
	}
	return sb.String()
}

func label(node *domain.Node, field string) string {
	if field != "" && node.Fields != nil {
		if v, ok := node.Fields.Get(field); ok && v != nil {
			// Mermaid labels cannot hold double quotes
			return strings.ReplaceAll(fmt.Sprint(v), "\"", "'")
		}
	}
	return fmt.Sprintf("#%d", node.ID)
}
