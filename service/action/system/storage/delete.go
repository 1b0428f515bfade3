package storage

import (
	"context"
	"fmt"
)

// DeleteInput names the assets to remove.
type DeleteInput struct {
	Assets []string `json:"assets" required:"true" description:"URLs of assets to delete"`
}

// DeleteOutput lists the URLs actually removed.
type DeleteOutput struct {
	Deleted []string `json:"deleted,omitempty"`
}

// Delete removes each named asset; absent assets are skipped.
func (s *Service) Delete(ctx context.Context, input *DeleteInput, output *DeleteOutput) error {
	if len(input.Assets) == 0 {
		return fmt.Errorf("no asset URLs supplied")
	}
	for _, assetURL := range input.Assets {
		if assetURL == "" {
			continue
		}
		if ok, _ := s.fs.Exists(ctx, assetURL); !ok {
			continue
		}
		if err := s.fs.Delete(ctx, assetURL); err != nil {
			return fmt.Errorf("failed to delete %s: %w", assetURL, err)
		}
		output.Deleted = append(output.Deleted, assetURL)
	}
	return nil
}
