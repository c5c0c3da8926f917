/*
Package domain contains the core data model of the Thicket generator.

It defines the entities produced by a build, the error taxonomy shared by every
layer, and the lifecycle hooks used for observability. The package is kept free of
I/O and randomness so that every other package can depend on it.

# Key Entities

  - Fields: insertion-ordered attribute map of a generated node.
  - Node: one generated tree node (attributes, children, creation ordinal).
  - TreeResult: the roots of a build plus node count and depth statistics.
  - LifecycleHooks: callbacks fired while a tree is being built.
*/
package domain
