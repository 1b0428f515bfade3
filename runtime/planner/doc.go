// Package planner partitions a task set into ordered waves of mutually
// independent tasks. The partition may come from an external planning
// oracle; a statically configured plan, validated at construction time,
// backs every oracle miss so that a run can always proceed.
package planner
