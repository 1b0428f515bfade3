// Package orchestrator drives wave-by-wave execution of a planned task set.
// The plan is computed once, up front; each wave launches its tasks
// concurrently against an identical frozen context snapshot, waits for every
// member to reach a terminal state and only then merges completed outputs
// back into the session. A task failure never fails the session.
package orchestrator
