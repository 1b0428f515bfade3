package dao

// Parameter filters List results by field name. A single value matches
// equality; multiple values match any of them.
type Parameter struct {
	Name  string
	Value interface{}
}

// NewParameter creates a filter parameter.
func NewParameter(name string, values ...string) *Parameter {
	if len(values) == 1 {
		return &Parameter{Name: name, Value: values[0]}
	}
	return &Parameter{Name: name, Value: values}
}
