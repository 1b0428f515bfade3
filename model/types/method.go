package types

import (
	"context"
	"reflect"
)

// Signatures is a lookup list of method signatures
type Signatures []Signature

func (s Signatures) Lookup(name string) *Signature {
	for i := range s {
		sig := &s[i]
		if sig.Name == name {
			return sig
		}
	}
	return nil
}

// Signature describes a body method: its name, an optional human readable
// description and the input/output struct types. Internal methods are
// registered for runtime use but hidden from operator facing listings.
type Signature struct {
	Name        string
	Description string
	Internal    bool
	Input       reflect.Type
	Output      reflect.Type
}

// Executable runs a body method with a populated input, writing into output
type Executable func(context context.Context, input, output interface{}) error
