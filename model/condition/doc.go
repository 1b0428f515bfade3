// Package condition implements the activation-condition grammar used by task
// declarations. An expression is parsed once at declaration load time into a
// small tagged AST (equality, membership, substring, identifier) and then
// evaluated against the merged key/value context of a run. Connectives are
// applied left to right with equal precedence; nesting is not supported.
package condition
