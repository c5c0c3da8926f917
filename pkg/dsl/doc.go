/*
Package dsl provides a Go DSL for declaring the levels of a generated tree.

It is the programmatic counterpart of the YAML fixture format: a fluent builder
that collects levels, fields and callbacks and reports every construction
error when Build is called, instead of forcing an error check after each
randomizer.

Example usage:

	b := dsl.New()

	b.Level().Count(10).
		Field("title", "Dept. for $(Noun:plural)").
		Field("type", "department").
		Value("expanded", true, 0.2)

	b.Level().CountRange(7, 13).
		Text("title", "$(Verb:ing) $(Noun:plural)").
		Field("type", "role")

	b.Level().CountRange(0, 20).
		Text("title", "$(name)").
		Range("age", 21, 99).
		Date("date", start, time.Now(), randomizer.WithProbability(0.6))

	levels, err := b.Build()
	// ... pass levels to thicket.GenerateTree(levels)
*/
package dsl
