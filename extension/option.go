package extension

import "github.com/viant/cascade/model"

// Option customises a type lookup.
type Option func(*Types)

// WithImports scopes the lookup to the supplied package imports.
func WithImports(imports model.Imports) Option {
	return func(t *Types) {
		t.imports = imports
	}
}
