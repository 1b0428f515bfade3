package secret

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/viant/afs"
	"github.com/viant/scy"
	"github.com/viant/scy/cred"
)

// SecureInput supplies content to encrypt, exactly one of Content, Data or
// SourceURL.
type SecureInput struct {
	SourceURL string                 `json:"sourceURL,omitempty" description:"URL to read plain content from"`
	Content   string                 `json:"content,omitempty" description:"raw content to encrypt"`
	Data      map[string]interface{} `json:"data,omitempty" description:"structured data to encrypt"`
	DestURL   string                 `json:"destURL" required:"true" description:"destination of the encrypted secret"`
	Target    string                 `json:"target,omitempty" description:"credential type: raw, basic, key, generic"`
	Key       string                 `json:"key,omitempty" description:"encryption key, e.g. blowfish://default"`
}

// SecureOutput reports the store outcome.
type SecureOutput struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// Secure encrypts the supplied content and stores it at DestURL.
func (s *Service) Secure(ctx context.Context, input *SecureInput, output *SecureOutput) error {
	data, err := s.sourceContent(ctx, input)
	if err != nil {
		return err
	}

	var targetType reflect.Type
	if input.Target != "" && input.Target != "raw" {
		if targetType, err = cred.TargetType(input.Target); err != nil {
			return fmt.Errorf("invalid target type %q: %w", input.Target, err)
		}
	}

	var aSecret *scy.Secret
	if targetType != nil {
		instance := reflect.New(targetType).Interface()
		if err := json.Unmarshal(data, instance); err != nil {
			return fmt.Errorf("failed to unmarshal content as %s: %w", input.Target, err)
		}
		aSecret = scy.NewSecret(instance, scy.NewResource(targetType, input.DestURL, input.Key))
	} else {
		aSecret = scy.NewSecret(string(data), scy.NewResource(nil, input.DestURL, input.Key))
	}

	if err := s.secrets.Store(ctx, aSecret); err != nil {
		return fmt.Errorf("failed to store secret: %w", err)
	}
	output.Success = true
	output.Message = fmt.Sprintf("secret stored at %s", input.DestURL)
	return nil
}

func (s *Service) sourceContent(ctx context.Context, input *SecureInput) ([]byte, error) {
	switch {
	case input.Content != "":
		return []byte(input.Content), nil
	case len(input.Data) > 0:
		data, err := json.Marshal(input.Data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal data: %w", err)
		}
		return data, nil
	case input.SourceURL != "":
		data, err := afs.New().DownloadWithURL(ctx, input.SourceURL)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", input.SourceURL, err)
		}
		return data, nil
	}
	return nil, fmt.Errorf("no content supplied: set sourceURL, content or data")
}
