package condition

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name     string
		expr     string
		context  map[string]interface{}
		expected bool
	}{
		{
			name:     "empty expression is unconditional",
			expr:     "",
			context:  map[string]interface{}{},
			expected: true,
		},
		{
			name:     "equality match",
			expr:     "status == 'active'",
			context:  map[string]interface{}{"status": "active"},
			expected: true,
		},
		{
			name:     "equality mismatch",
			expr:     "status == 'active'",
			context:  map[string]interface{}{"status": "closed"},
			expected: false,
		},
		{
			name:     "equality against absent key",
			expr:     "status == 'active'",
			context:  map[string]interface{}{},
			expected: false,
		},
		{
			name:     "inequality",
			expr:     "status != 'closed'",
			context:  map[string]interface{}{"status": "active"},
			expected: true,
		},
		{
			name:     "inequality against absent key",
			expr:     "status != 'closed'",
			context:  map[string]interface{}{},
			expected: true,
		},
		{
			name:     "numeric equality with loose coercion",
			expr:     "severity == 3",
			context:  map[string]interface{}{"severity": "3"},
			expected: true,
		},
		{
			name:     "membership hit",
			expr:     "color IN ['red', 'orange']",
			context:  map[string]interface{}{"color": "orange"},
			expected: true,
		},
		{
			name:     "membership miss",
			expr:     "color IN ['red', 'orange']",
			context:  map[string]interface{}{"color": "green"},
			expected: false,
		},
		{
			name:     "membership with numbers",
			expr:     "code IN [200, 201]",
			context:  map[string]interface{}{"code": 201},
			expected: true,
		},
		{
			name:     "substring hit",
			expr:     "symptoms CONTAINS 'chest pain'",
			context:  map[string]interface{}{"symptoms": "acute chest pain, dizziness"},
			expected: true,
		},
		{
			name:     "substring on non string",
			expr:     "symptoms CONTAINS 'chest pain'",
			context:  map[string]interface{}{"symptoms": 42},
			expected: false,
		},
		{
			name:     "substring element in slice",
			expr:     "tags CONTAINS 'urgent'",
			context:  map[string]interface{}{"tags": []string{"urgent", "followup"}},
			expected: true,
		},
		{
			name:     "bare identifier truthy",
			expr:     "escalated",
			context:  map[string]interface{}{"escalated": true},
			expected: true,
		},
		{
			name:     "bare identifier falsy value",
			expr:     "escalated",
			context:  map[string]interface{}{"escalated": ""},
			expected: false,
		},
		{
			name:     "bare identifier absent",
			expr:     "escalated",
			context:  map[string]interface{}{},
			expected: false,
		},
		{
			name:     "and short of one operand",
			expr:     "status == 'active' AND escalated",
			context:  map[string]interface{}{"status": "active"},
			expected: false,
		},
		{
			name:     "and with both operands",
			expr:     "status == 'active' AND escalated",
			context:  map[string]interface{}{"status": "active", "escalated": true},
			expected: true,
		},
		{
			name:     "or with one operand",
			expr:     "status == 'active' OR escalated",
			context:  map[string]interface{}{"escalated": true},
			expected: true,
		},
		{
			name:     "left to right without precedence",
			expr:     "a OR b AND c",
			context:  map[string]interface{}{"a": true, "b": false, "c": false},
			expected: false,
		},
		{
			name:     "malformed expression yields false",
			expr:     "status ==",
			context:  map[string]interface{}{"status": "active"},
			expected: false,
		},
		{
			name:     "garbage yields false",
			expr:     "== != [[",
			context:  map[string]interface{}{},
			expected: false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			actual := Evaluate(tc.expr, tc.context)
			assert.Equal(t, tc.expected, actual)
		})
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		expr string
	}{
		{name: "dangling operator", expr: "status =="},
		{name: "missing connective", expr: "a == 'x' b == 'y'"},
		{name: "unterminated list", expr: "color IN ['red'"},
		{name: "keyword as key", expr: "IN == 'x'"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(tc.expr)
			assert.Error(t, err)
			var evalErr *EvaluationError
			assert.ErrorAs(t, err, &evalErr)
		})
	}
}

func TestParse_AST(t *testing.T) {
	expr, err := Parse("status == 'active' AND color IN ['red', 'orange'] OR escalated")
	assert.NoError(t, err)
	assert.Len(t, expr.Terms, 3)
	assert.Equal(t, []Join{JoinAnd, JoinOr}, expr.Joins)
	assert.Equal(t, KindEquality, expr.Terms[0].Kind)
	assert.Equal(t, KindMembership, expr.Terms[1].Kind)
	assert.Equal(t, KindIdentifier, expr.Terms[2].Kind)
	assert.Equal(t, []interface{}{"red", "orange"}, expr.Terms[1].Values)
}
