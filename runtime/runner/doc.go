// Package runner executes a single task declaration against a frozen
// context snapshot: condition gate, declared-input validation, a timeout
// race around the body and fallback-policy application. Results are always
// terminal; the orchestrator aggregates them without ever failing a run on
// a task failure.
package runner
