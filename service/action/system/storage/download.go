package storage

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/viant/afs/url"
)

// DownloadInput names the assets to fetch.
type DownloadInput struct {
	Assets      []string `json:"assets" required:"true" description:"URLs of assets to download"`
	IncludeData bool     `json:"includeData,omitempty" description:"return asset content inline"`
	Dest        string   `json:"dest,omitempty" description:"optional destination to copy assets to"`
}

// DownloadOutput carries the fetched assets.
type DownloadOutput struct {
	Assets []*Asset `json:"assets,omitempty"`
}

// Download fetches each asset, inlining content and copying to Dest when
// requested. Directories are rejected, callers list them first.
func (s *Service) Download(ctx context.Context, input *DownloadInput, output *DownloadOutput) error {
	if len(input.Assets) == 0 {
		return fmt.Errorf("no asset URLs supplied")
	}
	output.Assets = make([]*Asset, 0, len(input.Assets))
	for _, assetURL := range input.Assets {
		if assetURL == "" {
			continue
		}
		object, err := s.fs.Object(ctx, assetURL)
		if err != nil {
			return fmt.Errorf("failed to stat %s: %w", assetURL, err)
		}
		if object.IsDir() {
			return fmt.Errorf("%s is a directory, list it instead", assetURL)
		}
		asset := newAsset(assetURL, object)
		if input.IncludeData {
			if asset.Data, err = s.fs.DownloadWithURL(ctx, assetURL); err != nil {
				return fmt.Errorf("failed to download %s: %w", assetURL, err)
			}
		}
		if input.Dest != "" {
			dest := input.Dest
			if destObject, _ := s.fs.Object(ctx, dest); destObject != nil && destObject.IsDir() {
				dest = url.Join(dest, filepath.Base(assetURL))
			}
			if err := s.fs.Copy(ctx, assetURL, dest); err != nil {
				return fmt.Errorf("failed to copy %s to %s: %w", assetURL, dest, err)
			}
		}
		output.Assets = append(output.Assets, asset)
	}
	return nil
}
