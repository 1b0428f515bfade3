// Package model contains the in-memory representation of task declarations
// and task sets executed by the Cascade engine.
//
// A task set is typically loaded from a YAML or JSON document into the
// structures defined here and in the `condition`, `state` and `types`
// sub-packages. Declarations are immutable once constructed; the runtime
// only ever reads them.
package model
