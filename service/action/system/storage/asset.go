package storage

import (
	"mime"
	"path/filepath"
	"time"

	"github.com/viant/afs/storage"
)

// Asset describes a file or directory, optionally with its content.
type Asset struct {
	URL         string    `json:"url"`
	Name        string    `json:"name"`
	IsDir       bool      `json:"isDir"`
	Mode        string    `json:"mode,omitempty"`
	Size        int64     `json:"size,omitempty"`
	ModTime     time.Time `json:"modTime,omitempty"`
	Data        []byte    `json:"data,omitempty"`
	ContentType string    `json:"contentType,omitempty"`
}

func newAsset(URL string, object storage.Object) *Asset {
	return &Asset{
		URL:         URL,
		Name:        filepath.Base(URL),
		IsDir:       object.IsDir(),
		Mode:        object.Mode().String(),
		Size:        object.Size(),
		ModTime:     object.ModTime(),
		ContentType: contentType(URL),
	}
}

func contentType(name string) string {
	if detected := mime.TypeByExtension(filepath.Ext(name)); detected != "" {
		return detected
	}
	return "application/octet-stream"
}
