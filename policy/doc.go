// Package policy provides optional declarative gating rules that can be
// applied on top of a Cascade run, for example to block selected tasks or
// to require confirmation before a gated task executes.
package policy
