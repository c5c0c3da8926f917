/*
Package thicket generates synthetic hierarchical datasets: trees of nodes with
generated attributes, used as load and visual-test fixtures for tree and table
widgets.

# Concept

A tree is declared as an ordered list of levels, shallowest first. Each level
says how many nodes to create under every parent of the previous level and how
to populate their fields:

  - Literal values are copied verbatim.
  - Randomizers (ranges, dates, samples, probability-gated values, faker
    templates) draw a value per node, or omit the field.
  - Templates such as "Dept. for $(Noun:plural)" are expanded against a
    lexicon with grammatical word forms.

An optional callback adjusts each node after its fields are resolved. A count
of zero prunes the branch.

# Key Features

  - Deterministic Builds: with WithSeed the same levels always produce the same tree.
  - Fail Fast: invalid randomizers, unknown placeholders and malformed levels abort the build.
  - Ordered Output: fields and children keep their generation order in JSON.
  - Parallel Mode: root subtrees can be built concurrently without losing determinism.

# Usage

	package main

	import (
		"encoding/json"
		"log"
		"os"

		"github.com/aretw0/thicket"
		"github.com/aretw0/thicket/pkg/dsl"
	)

	func main() {
		b := dsl.New()
		b.Level().Count(2).Field("type", "folder").Field("title", "$(Noun:plural)")
		b.Level().CountRange(1, 5).Field("type", "leaf").Range("size", 1, 4096)

		levels, err := b.Build()
		if err != nil {
			log.Fatal(err)
		}

		tree, err := thicket.GenerateTree(levels, thicket.WithSeed(42))
		if err != nil {
			log.Fatal(err)
		}

		log.Printf("%s nodes, depth %d", tree.NodeCountDisp(), tree.Depth)
		json.NewEncoder(os.Stdout).Encode(tree)
	}

Named fixtures with presentation metadata and multiple JSON layouts live in
package fixture; the thicket command writes them to disk, serves them over HTTP
and exposes them as MCP tools.
*/
package thicket
