// Package manager implements the container lifecycle manager, the core of
// nihil. It maps user intents (start, stop, exec, remove, info) onto Docker
// Engine state: every operation re-queries the daemon, computes the action
// from (observed state, desired spec), and issues the corresponding engine
// calls. The manager owns no state of its own and holds no locks; the
// daemon is the serialization point for concurrent invocations.
package manager
