// Package meta loads configuration assets from afs URLs with ${env.KEY}
// expansion.
package meta

import (
	"context"
	"encoding/json"
	"fmt"
	"path"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/afs/storage"
	"github.com/viant/afs/url"
	"gopkg.in/yaml.v3"
)

// Service loads YAML or JSON assets addressed by afs URLs. Relative URLs are
// resolved against the optional base URL.
type Service struct {
	fs      afs.Service
	baseURL string
	options []storage.Option
}

// New creates a meta service backed by the supplied afs service. Storage
// options apply to every download, e.g. an embed.FS for the embed scheme.
func New(fs afs.Service, baseURL string, options ...storage.Option) *Service {
	return &Service{fs: fs, baseURL: baseURL, options: options}
}

// Load downloads the asset at URL, expands ${env.KEY} expressions and
// unmarshals it into target based on the URL extension (JSON for .json,
// YAML otherwise).
func (s *Service) Load(ctx context.Context, URL string, target interface{}) error {
	URL = s.normalizeURL(URL)
	data, err := s.fs.DownloadWithURL(ctx, URL, s.options...)
	if err != nil {
		return fmt.Errorf("failed to download %s: %w", URL, err)
	}
	data = []byte(expandEnvExpr(string(data)))
	switch strings.ToLower(path.Ext(URL)) {
	case ".json":
		if err = json.Unmarshal(data, target); err != nil {
			return fmt.Errorf("failed to unmarshal json %s: %w", URL, err)
		}
	default:
		if err = yaml.Unmarshal(data, target); err != nil {
			return fmt.Errorf("failed to unmarshal yaml %s: %w", URL, err)
		}
	}
	return nil
}

// Exists checks whether the asset at URL is present.
func (s *Service) Exists(ctx context.Context, URL string) (bool, error) {
	return s.fs.Exists(ctx, s.normalizeURL(URL), s.options...)
}

func (s *Service) normalizeURL(URL string) string {
	if s.baseURL == "" || strings.Contains(URL, "://") || strings.HasPrefix(URL, "/") {
		return URL
	}
	return url.Join(s.baseURL, URL)
}
