// Package noop provides an ObjectStorage that discards artifacts, used when
// artifact storage is disabled.
package noop

import (
	"context"
	"io"

	"privlens/internal/domain"
	"privlens/internal/port"
)

type storage struct{}

// NewStorage returns an ObjectStorage that accepts uploads and stores nothing.
func NewStorage() port.ObjectStorage {
	return storage{}
}

func (storage) Upload(_ context.Context, input port.UploadInput) (*port.UploadOutput, error) {
	if input.Body != nil {
		if _, err := io.Copy(io.Discard, input.Body); err != nil {
			return nil, err
		}
	}
	return &port.UploadOutput{}, nil
}

func (storage) Download(context.Context, string) ([]byte, error) {
	return nil, domain.ErrAnalysisNotFound
}

func (storage) Delete(context.Context, string) error { return nil }

func (storage) GetPresignedURL(context.Context, string, int64) (string, error) {
	return "", nil
}
