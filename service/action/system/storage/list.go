package storage

import (
	"context"
	"fmt"

	"github.com/viant/afs/option"
	astorage "github.com/viant/afs/storage"
)

// ListInput selects assets under a URL.
type ListInput struct {
	URL       string `json:"url" required:"true" description:"URL to list assets from"`
	Recursive bool   `json:"recursive,omitempty" description:"walk sub directories"`
	PageSize  int    `json:"pageSize,omitempty" description:"maximum number of results"`
}

// ListOutput carries the matched assets.
type ListOutput struct {
	Assets []*Asset `json:"assets,omitempty"`
}

// List enumerates files and directories under the input URL.
func (s *Service) List(ctx context.Context, input *ListInput, output *ListOutput) error {
	if input.URL == "" {
		return fmt.Errorf("url was empty")
	}
	var listOptions []astorage.Option
	if input.Recursive {
		listOptions = append(listOptions, option.NewRecursive(true))
	}
	if input.PageSize > 0 {
		listOptions = append(listOptions, option.NewPage(0, input.PageSize))
	}
	objects, err := s.fs.List(ctx, input.URL, listOptions...)
	if err != nil {
		return fmt.Errorf("failed to list %s: %w", input.URL, err)
	}
	output.Assets = make([]*Asset, 0, len(objects))
	for _, object := range objects {
		output.Assets = append(output.Assets, newAsset(object.URL(), object))
	}
	return nil
}
