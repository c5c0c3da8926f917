/*
Package ports defines the driven ports (interfaces) around fixture generation.

These interfaces decouple the serving surfaces (HTTP, MCP, CLI) from where
definitions come from and where generated output is kept.

# Key Interfaces

  - Catalog: Lists and resolves fixture definitions (e.g., built-in or a directory).
  - Watchable: Signals that a catalog's backend changed and should be reloaded.
  - FixtureCache: Keeps serialized fixture layouts produced from a fixed seed.
*/
package ports
