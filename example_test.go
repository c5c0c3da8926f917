package thicket_test

import (
	"fmt"
	"log"

	"github.com/aretw0/thicket"
	"github.com/aretw0/thicket/pkg/dsl"
)

// ExampleGenerateTree demonstrates how to declare levels with the DSL and
// generate a reproducible tree.
func ExampleGenerateTree() {
	b := dsl.New()
	b.Level().Count(2).Field("type", "folder").Field("title", "$(Noun:plural)")
	b.Level().Count(3).Field("type", "leaf").Range("size", 1, 4096)

	levels, err := b.Build()
	if err != nil {
		log.Fatal(err)
	}

	tree, err := thicket.GenerateTree(levels, thicket.WithSeed(42))
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Generated tree with %d nodes, depth: %d\n", tree.NodeCount, tree.Depth)
	fmt.Println(tree.Children[0].Fields.Keys())
	// Output:
	// Generated tree with 8 nodes, depth: 2
	// [type title]
}
