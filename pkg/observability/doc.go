/*
Package observability provides tools for monitoring tree generation.

It exposes Prometheus collectors that plug into a Generator through
domain.LifecycleHooks, counting generated nodes and pruned branches per level
and timing every build.
*/
package observability
