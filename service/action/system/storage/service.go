// Package storage exposes afs backed asset operations as task bodies.
package storage

import (
	"context"
	"reflect"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/cascade/model/types"
)

const name = "system/storage"

// Service runs list, download, upload and delete operations over afs URLs,
// so the same task body works against local files, memory or cloud storage.
type Service struct {
	fs afs.Service
}

// New creates a new storage service
func New() *Service {
	return &Service{fs: afs.New()}
}

func (s *Service) Name() string {
	return name
}

func (s *Service) Methods() types.Signatures {
	return []types.Signature{
		{
			Name:        "list",
			Description: "Lists assets under a URL.",
			Input:       reflect.TypeOf(&ListInput{}),
			Output:      reflect.TypeOf(&ListOutput{}),
		},
		{
			Name:        "download",
			Description: "Downloads assets, optionally inlining their content.",
			Input:       reflect.TypeOf(&DownloadInput{}),
			Output:      reflect.TypeOf(&DownloadOutput{}),
		},
		{
			Name:        "upload",
			Description: "Uploads assets with inline content.",
			Input:       reflect.TypeOf(&UploadInput{}),
			Output:      reflect.TypeOf(&UploadOutput{}),
		},
		{
			Name:        "delete",
			Description: "Deletes assets by URL.",
			Input:       reflect.TypeOf(&DeleteInput{}),
			Output:      reflect.TypeOf(&DeleteOutput{}),
		},
	}
}

// Method returns a method by name
func (s *Service) Method(name string) (types.Executable, error) {
	switch strings.ToLower(name) {
	case "list":
		return s.list, nil
	case "download":
		return s.download, nil
	case "upload":
		return s.upload, nil
	case "delete":
		return s.delete, nil
	default:
		return nil, types.NewMethodNotFoundError(name)
	}
}

func (s *Service) list(ctx context.Context, in, out interface{}) error {
	input, ok := in.(*ListInput)
	if !ok {
		return types.NewInvalidInputError(in)
	}
	output, ok := out.(*ListOutput)
	if !ok {
		return types.NewInvalidOutputError(out)
	}
	return s.List(ctx, input, output)
}

func (s *Service) download(ctx context.Context, in, out interface{}) error {
	input, ok := in.(*DownloadInput)
	if !ok {
		return types.NewInvalidInputError(in)
	}
	output, ok := out.(*DownloadOutput)
	if !ok {
		return types.NewInvalidOutputError(out)
	}
	return s.Download(ctx, input, output)
}

func (s *Service) upload(ctx context.Context, in, out interface{}) error {
	input, ok := in.(*UploadInput)
	if !ok {
		return types.NewInvalidInputError(in)
	}
	output, ok := out.(*UploadOutput)
	if !ok {
		return types.NewInvalidOutputError(out)
	}
	return s.Upload(ctx, input, output)
}

func (s *Service) delete(ctx context.Context, in, out interface{}) error {
	input, ok := in.(*DeleteInput)
	if !ok {
		return types.NewInvalidInputError(in)
	}
	output, ok := out.(*DeleteOutput)
	if !ok {
		return types.NewInvalidOutputError(out)
	}
	return s.Delete(ctx, input, output)
}
