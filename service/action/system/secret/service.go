// Package secret exposes scy secret encryption and decryption as task
// bodies, so pipelines can resolve credentials without embedding them in
// task set documents.
package secret

import (
	"context"
	"reflect"
	"strings"

	"github.com/viant/cascade/model/types"
	"github.com/viant/scy"
)

const Name = "system/secret"

// Service wraps the scy secret service.
type Service struct {
	secrets *scy.Service
}

// New creates a new secret service
func New() *Service {
	return &Service{secrets: scy.New()}
}

func (s *Service) Name() string {
	return Name
}

func (s *Service) Methods() types.Signatures {
	return []types.Signature{
		{
			Name:        "secure",
			Description: "Encrypts content and stores it at a destination URL.",
			Input:       reflect.TypeOf(&SecureInput{}),
			Output:      reflect.TypeOf(&SecureOutput{}),
		},
		{
			Name:        "reveal",
			Description: "Decrypts a stored secret.",
			Input:       reflect.TypeOf(&RevealInput{}),
			Output:      reflect.TypeOf(&RevealOutput{}),
		},
	}
}

// Method returns a method by name
func (s *Service) Method(name string) (types.Executable, error) {
	switch strings.ToLower(name) {
	case "secure":
		return s.secure, nil
	case "reveal":
		return s.reveal, nil
	default:
		return nil, types.NewMethodNotFoundError(name)
	}
}

func (s *Service) secure(ctx context.Context, in, out interface{}) error {
	input, ok := in.(*SecureInput)
	if !ok {
		return types.NewInvalidInputError(in)
	}
	output, ok := out.(*SecureOutput)
	if !ok {
		return types.NewInvalidOutputError(out)
	}
	return s.Secure(ctx, input, output)
}

func (s *Service) reveal(ctx context.Context, in, out interface{}) error {
	input, ok := in.(*RevealInput)
	if !ok {
		return types.NewInvalidInputError(in)
	}
	output, ok := out.(*RevealOutput)
	if !ok {
		return types.NewInvalidOutputError(out)
	}
	return s.Reveal(ctx, input, output)
}
