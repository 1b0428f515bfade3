package input

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"

	"github.com/viant/cascade/model/types"
)

// Name of the service as used by task declarations.
const Name = "input"

// Service collects data from an operator over standard input/output. Tasks
// routed to manual review bind to it: "ask" prompts a single free-form
// question, "form" walks a list of fields with optional predefined choices.
// Tests substitute the reader and writer to avoid a TTY.
type Service struct {
	in  io.Reader
	out io.Writer
}

// New returns a Service that reads from stdin and writes to stdout.
func New() *Service {
	return &Service{in: os.Stdin, out: os.Stdout}
}

// NewWithIO lets callers override the input and output streams.
func NewWithIO(in io.Reader, out io.Writer) *Service {
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}
	return &Service{in: in, out: out}
}

type AskInput struct {
	// Message is the prompt shown to the operator.
	Message string `json:"message,omitempty"`
	// Default is used when the operator enters an empty line.
	Default string `json:"default,omitempty"`
}

type AskOutput struct {
	Text string `json:"text,omitempty"`
}

func (s *Service) ask(ctx context.Context, in, out interface{}) error {
	input, ok := in.(*AskInput)
	if !ok {
		return types.NewInvalidInputError(in)
	}
	output, ok := out.(*AskOutput)
	if !ok {
		return types.NewInvalidOutputError(out)
	}

	prompt := strings.TrimSpace(input.Message)
	if prompt == "" {
		prompt = "?"
	}
	fmt.Fprint(s.out, prompt+" ")

	response, err := bufio.NewReader(s.in).ReadString('\n')
	if err != nil && err != io.EOF {
		return err
	}
	response = strings.TrimSpace(response)
	if response == "" {
		response = input.Default
	}
	output.Text = response
	return nil
}

// Field describes a single entry in a form.
type Field struct {
	// Label displayed to the operator.
	Label string `json:"label,omitempty"`
	// Name keys the value in the resulting map, Label when empty.
	Name string `json:"name,omitempty"`
	// Options, when present, restrict the answer to a single choice; the
	// operator may answer with a 1-based index or the option value itself.
	Options []string `json:"options,omitempty"`
	// Default value used when the operator enters an empty line.
	Default string `json:"default,omitempty"`
}

type FormInput struct {
	Fields []Field `json:"fields,omitempty"`
	// Message is an optional introduction printed before the fields.
	Message string `json:"message,omitempty"`
}

type FormOutput struct {
	Values map[string]string `json:"values,omitempty"`
}

func (s *Service) form(ctx context.Context, in, out interface{}) error {
	input, ok := in.(*FormInput)
	if !ok {
		return types.NewInvalidInputError(in)
	}
	output, ok := out.(*FormOutput)
	if !ok {
		return types.NewInvalidOutputError(out)
	}
	output.Values = make(map[string]string, len(input.Fields))
	if len(input.Fields) == 0 {
		return nil
	}

	reader := bufio.NewReader(s.in)
	if message := strings.TrimSpace(input.Message); message != "" {
		fmt.Fprintln(s.out, message)
	}

	for _, field := range input.Fields {
		label := strings.TrimSpace(field.Label)
		if label == "" {
			label = "?"
		}
		name := field.Name
		if name == "" {
			name = label
		}

		fmt.Fprint(s.out, fieldPrompt(label, field.Options))
		response, err := reader.ReadString('\n')
		if err != nil && err != io.EOF {
			return err
		}
		response = strings.TrimSpace(response)
		if response == "" {
			response = field.Default
		}
		if len(field.Options) > 0 {
			if idx, ok := parseChoice(response, len(field.Options)); ok {
				response = field.Options[idx]
			}
		}
		output.Values[name] = response
	}
	return nil
}

func fieldPrompt(label string, options []string) string {
	var prompt strings.Builder
	prompt.WriteString(label)
	for i, option := range options {
		if i == 0 {
			prompt.WriteString(" (")
		} else {
			prompt.WriteString(", ")
		}
		fmt.Fprintf(&prompt, "%d:%s", i+1, option)
	}
	if len(options) > 0 {
		prompt.WriteString(")")
	}
	prompt.WriteString(": ")
	return prompt.String()
}

// parseChoice interprets a 1-based numeric selection against n options.
func parseChoice(s string, n int) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" || n == 0 {
		return 0, false
	}
	var idx int
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
		idx = idx*10 + int(r-'0')
	}
	idx--
	if idx < 0 || idx >= n {
		return 0, false
	}
	return idx, true
}

func (s *Service) Name() string { return Name }

func (s *Service) Methods() types.Signatures {
	return []types.Signature{
		{
			Name:        "ask",
			Description: "Prompts the operator for free-form input and returns the response.",
			Input:       reflect.TypeOf(&AskInput{}),
			Output:      reflect.TypeOf(&AskOutput{}),
		},
		{
			Name:        "form",
			Description: "Prompts the operator with multiple questions, optionally with single-choice fields.",
			Input:       reflect.TypeOf(&FormInput{}),
			Output:      reflect.TypeOf(&FormOutput{}),
		},
	}
}

func (s *Service) Method(name string) (types.Executable, error) {
	switch strings.ToLower(name) {
	case "ask":
		return s.ask, nil
	case "form":
		return s.form, nil
	default:
		return nil, types.NewMethodNotFoundError(name)
	}
}
