package parameters

import (
	"github.com/stretchr/testify/assert"
	bstate "github.com/viant/bindly/state"
	"github.com/viant/cascade/model/state"
	"testing"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		description string
		input       string
		expected    *state.Parameter
		shouldError bool
	}{
		{
			description: "basic parameter with type and kind/location",
			input:       "myParam[com.example.Type](kind/location)",
			expected: &state.Parameter{
				Name:     "myParam",
				DataType: "com.example.Type",
				Location: &bstate.Location{
					Kind: "kind",
					In:   "location",
				},
			},
			shouldError: false,
		},
		{
			description: "parameter with only kind",
			input:       "patientID[string](id)",
			expected: &state.Parameter{
				Name:     "patientID",
				DataType: "string",
				Location: &bstate.Location{
					Kind: "id",
				},
			},
			shouldError: false,
		},

		{
			description: "variable with only kind",
			input:       "Vitals[triage.Vitals]()",
			expected: &state.Parameter{
				Name:     "Vitals",
				DataType: "triage.Vitals",
				Location: &bstate.Location{
					Kind: "",
				},
			},
			shouldError: false,
		},

		{
			description: "parameter with nested bracket type",
			input:       "symptoms[map[string]string](collection/memory)",
			expected: &state.Parameter{
				Name:     "symptoms",
				DataType: "map[string]string",
				Location: &bstate.Location{
					Kind: "collection",
					In:   "memory",
				},
			},
			shouldError: false,
		},
		{
			description: "parameter with URI location",
			input:       "config[triage.Config](resource/file:///etc/triage.json)",
			expected: &state.Parameter{
				Name:     "config",
				DataType: "triage.Config",
				Location: &bstate.Location{
					Kind: "resource",
					In:   "file:///etc/triage.json",
				},
			},
			shouldError: false,
		},
		{
			description: "invalid parameter - missing closing bracket",
			input:       "myParam[com.example.Type(kind/location)",
			shouldError: true,
		},
		{
			description: "invalid parameter - missing opening parenthesis",
			input:       "myParam[com.example.Type]kind/location)",
			shouldError: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			result, err := Parse([]byte(tc.input))

			if tc.shouldError {
				assert.Error(t, err)
			} else {
				assert.EqualValues(t, tc.expected, result)
				assert.NoError(t, err)
			}
		})
	}
}
