package storage

import (
	"bytes"
	"context"
	"fmt"

	"github.com/viant/afs/file"
)

// UploadInput carries assets with inline content to write.
type UploadInput struct {
	Assets []*Asset `json:"assets" required:"true" description:"assets to upload"`
}

// UploadOutput echoes the written assets with their stored metadata.
type UploadOutput struct {
	Assets []*Asset `json:"assets,omitempty"`
}

// Upload writes each asset's data to its URL.
func (s *Service) Upload(ctx context.Context, input *UploadInput, output *UploadOutput) error {
	if len(input.Assets) == 0 {
		return fmt.Errorf("no assets supplied")
	}
	output.Assets = make([]*Asset, 0, len(input.Assets))
	for _, asset := range input.Assets {
		if asset.URL == "" {
			return fmt.Errorf("asset URL was empty")
		}
		if err := s.fs.Upload(ctx, asset.URL, file.DefaultFileOsMode, bytes.NewReader(asset.Data)); err != nil {
			return fmt.Errorf("failed to upload %s: %w", asset.URL, err)
		}
		object, err := s.fs.Object(ctx, asset.URL)
		if err != nil {
			return fmt.Errorf("failed to stat %s: %w", asset.URL, err)
		}
		output.Assets = append(output.Assets, newAsset(asset.URL, object))
	}
	return nil
}
