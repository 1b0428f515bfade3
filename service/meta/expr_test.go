package meta

import (
	"testing"
)

func TestExpandEnvExpr(t *testing.T) {
	testCases := []struct {
		name     string
		env      map[string]string
		input    string
		expected string
	}{
		{
			name:     "no expressions",
			input:    "just a plain string",
			expected: "just a plain string",
		},
		{
			name:     "single expression",
			env:      map[string]string{"TRIAGE_REGION": "us-east"},
			input:    "region is ${env.TRIAGE_REGION}",
			expected: "region is us-east",
		},
		{
			name:     "repeated and multiple expressions",
			env:      map[string]string{"A": "1", "B": "2"},
			input:    "${env.A}-${env.B}-${env.A}",
			expected: "1-2-1",
		},
		{
			name:     "unset variable expands to empty",
			input:    "unset=${env.NOTSET}-end",
			expected: "unset=-end",
		},
		{
			name:     "missing closing brace keeps prefix literal",
			env:      map[string]string{"X": "x"},
			input:    "start ${env.X and ${env.Y} end",
			expected: "start ${env.X and  end",
		},
		{
			name:     "empty key expands to empty",
			input:    "oops ${env.} done",
			expected: "oops  done",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			for key, value := range tc.env {
				t.Setenv(key, value)
			}
			actual := expandEnvExpr(tc.input)
			if actual != tc.expected {
				t.Errorf("expandEnvExpr(%q) = %q, want %q", tc.input, actual, tc.expected)
			}
		})
	}
}
