package extension

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/viant/cascade/model"
	"github.com/viant/x"
)

// Types is an x.Registry that also tracks package imports, so task
// declarations can reference registered Go types by short package name.
type Types struct {
	x.Registry
	imports model.Imports
}

// Register adds a data type and records its package import.
func (t *Types) Register(dataType *x.Type) {
	if dataType.PkgPath != "" {
		if idx := strings.LastIndex(dataType.PkgPath, "/"); idx > 0 {
			pkgPath := dataType.PkgPath[:idx]
			if !t.imports.HasPkgPath(pkgPath) {
				t.imports = append(t.imports, &model.Import{
					Package: dataType.PkgPath[idx+1:],
					PkgPath: dataType.PkgPath,
				})
			}
		}
	}
	t.Registry.Register(dataType)
}

// Lookup resolves a data type name, expanding short package names via the
// recorded imports and applying a leading slice or map modifier, e.g.
// "[]triage.Vitals" or "map[string]triage.Config".
func (t *Types) Lookup(dataType string, options ...Option) *x.Type {
	scoped := &Types{imports: t.imports}
	for _, option := range options {
		option(scoped)
	}

	modifier := ""
	if idx := strings.LastIndex(dataType, "]"); idx != -1 {
		modifier = strings.TrimSpace(dataType[:idx+1])
		dataType = dataType[idx+1:]
	}
	if idx := strings.LastIndex(dataType, "."); idx != -1 {
		pkg, typeName := dataType[:idx], dataType[idx+1:]
		if pkgPath := scoped.imports.PkgPath(pkg); pkgPath != "" {
			pkg = pkgPath
		}
		dataType = fmt.Sprintf("%s.%s", pkg, typeName)
	}

	ret := t.Registry.Lookup(dataType)
	rType := applyModifier(modifier, ret.Type)
	if rType != ret.Type {
		return x.NewType(rType)
	}
	return ret
}

func applyModifier(modifier string, rType reflect.Type) reflect.Type {
	switch modifier {
	case "[]":
		return reflect.SliceOf(rType)
	case "[][]":
		return reflect.SliceOf(reflect.SliceOf(rType))
	case "map[string]":
		return reflect.MapOf(reflect.TypeOf(""), rType)
	case "map[string][]":
		return reflect.MapOf(reflect.TypeOf(""), reflect.SliceOf(rType))
	}
	return rType
}

// Imports returns the recorded package imports.
func (t *Types) Imports() model.Imports {
	return t.imports
}

// NewTypes creates a type registry.
func NewTypes(options ...x.RegistryOption) *Types {
	return &Types{Registry: *x.NewRegistry(options...)}
}
