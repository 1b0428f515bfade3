package secret

import (
	"context"
	"fmt"

	"github.com/viant/scy"
	"github.com/viant/scy/cred"
	"github.com/viant/toolbox"
)

// RevealInput locates an encrypted secret.
type RevealInput struct {
	SourceURL string `json:"sourceURL" required:"true" description:"URL of the encrypted secret"`
	Target    string `json:"target,omitempty" description:"credential type: raw, basic, key, generic"`
	Key       string `json:"key,omitempty" description:"encryption key, e.g. blowfish://default"`
}

// RevealOutput carries the decrypted secret, PlainText for raw secrets or
// Data for typed credentials.
type RevealOutput struct {
	PlainText string                 `json:"plainText,omitempty"`
	Data      map[string]interface{} `json:"data,omitempty"`
	Success   bool                   `json:"success"`
}

// Reveal decrypts the secret at SourceURL.
func (s *Service) Reveal(ctx context.Context, input *RevealInput, output *RevealOutput) error {
	var target interface{}
	if input.Target != "" && input.Target != "raw" {
		targetType, err := cred.TargetType(input.Target)
		if err != nil {
			return fmt.Errorf("invalid target type %q: %w", input.Target, err)
		}
		if targetType != nil {
			target = targetType
		}
	}

	resource := scy.NewResource(target, input.SourceURL, input.Key)
	loaded, err := s.secrets.Load(ctx, resource)
	if err != nil {
		return fmt.Errorf("failed to load secret from %s: %w", input.SourceURL, err)
	}

	if loaded.IsPlain || loaded.Target == nil {
		output.PlainText = loaded.String()
		output.Success = true
		return nil
	}
	data := map[string]interface{}{}
	if err := toolbox.DefaultConverter.AssignConverted(&data, loaded.Target); err != nil {
		return fmt.Errorf("failed to convert secret data: %w", err)
	}
	output.Data = toolbox.DeleteEmptyKeys(data)
	output.Success = true
	return nil
}
