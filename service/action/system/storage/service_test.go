package storage

import (
	"context"
	"path"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestService_AssetLifecycle(t *testing.T) {
	service := New()
	ctx := context.Background()
	baseDir := t.TempDir()
	reportURL := path.Join(baseDir, "triage-report.json")

	uploadOutput := &UploadOutput{}
	err := service.Upload(ctx, &UploadInput{
		Assets: []*Asset{{URL: reportURL, Data: []byte(`{"severity":"high"}`)}},
	}, uploadOutput)
	if !assert.NoError(t, err) {
		return
	}
	assert.Equal(t, 1, len(uploadOutput.Assets))
	assert.Equal(t, "triage-report.json", uploadOutput.Assets[0].Name)
	assert.Equal(t, "application/json", uploadOutput.Assets[0].ContentType)

	listOutput := &ListOutput{}
	err = service.List(ctx, &ListInput{URL: baseDir}, listOutput)
	if !assert.NoError(t, err) {
		return
	}
	var names []string
	for _, asset := range listOutput.Assets {
		if !asset.IsDir {
			names = append(names, asset.Name)
		}
	}
	assert.Equal(t, []string{"triage-report.json"}, names)

	downloadOutput := &DownloadOutput{}
	err = service.Download(ctx, &DownloadInput{Assets: []string{reportURL}, IncludeData: true}, downloadOutput)
	if !assert.NoError(t, err) {
		return
	}
	assert.Equal(t, []byte(`{"severity":"high"}`), downloadOutput.Assets[0].Data)

	deleteOutput := &DeleteOutput{}
	err = service.Delete(ctx, &DeleteInput{Assets: []string{reportURL}}, deleteOutput)
	if !assert.NoError(t, err) {
		return
	}
	assert.Equal(t, []string{reportURL}, deleteOutput.Deleted)

	// A second delete finds nothing to remove.
	again := &DeleteOutput{}
	assert.NoError(t, service.Delete(ctx, &DeleteInput{Assets: []string{reportURL}}, again))
	assert.Empty(t, again.Deleted)
}

func TestService_DownloadRejectsDirectory(t *testing.T) {
	service := New()
	err := service.Download(context.Background(), &DownloadInput{Assets: []string{t.TempDir()}}, &DownloadOutput{})
	assert.Error(t, err)
}

func TestService_Methods(t *testing.T) {
	service := New()
	for _, method := range []string{"list", "download", "upload", "delete"} {
		executable, err := service.Method(method)
		assert.NoError(t, err, method)
		assert.NotNil(t, executable, method)
	}
	_, err := service.Method("move")
	assert.Error(t, err)
}
