// Package blobmirror copies downloaded feed files into a gocloud.dev bucket.
//
// Supported URL schemes are those registered by the blank imports below:
// file:///abs/dir and mem://.
package blobmirror

import (
	"context"
	"fmt"
	"io"
	"os"

	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/memblob"

	"github.com/vertextoedge/tidf-puller/internal/port"
)

// Mirror writes feed files to a bucket under an optional key prefix
type Mirror struct {
	bucket *blob.Bucket
	prefix string
}

// Ensure Mirror implements port.Mirror
var _ port.Mirror = (*Mirror)(nil)

// Open opens the bucket at bucketURL
func Open(ctx context.Context, bucketURL, prefix string) (*Mirror, error) {
	bucket, err := blob.OpenBucket(ctx, bucketURL)
	if err != nil {
		return nil, fmt.Errorf("open bucket %s: %w", bucketURL, err)
	}
	return New(bucket, prefix), nil
}

// New wraps an already opened bucket
func New(bucket *blob.Bucket, prefix string) *Mirror {
	return &Mirror{bucket: bucket, prefix: prefix}
}

// Key returns the object key used for name
func (m *Mirror) Key(name string) string {
	return m.prefix + name
}

// Put uploads the file at localPath under the prefixed key
func (m *Mirror) Put(ctx context.Context, key, localPath string) error {
	f, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("open %s: %w", localPath, err)
	}
	defer f.Close()

	w, err := m.bucket.NewWriter(ctx, m.Key(key), &blob.WriterOptions{
		ContentType: "application/gzip",
	})
	if err != nil {
		return fmt.Errorf("new writer: %w", err)
	}

	if _, err := io.Copy(w, f); err != nil {
		w.Close()
		return fmt.Errorf("upload %s: %w", key, err)
	}

	// The object only becomes visible once Close succeeds
	if err := w.Close(); err != nil {
		return fmt.Errorf("finalize %s: %w", key, err)
	}
	return nil
}

// Close releases the bucket
func (m *Mirror) Close() error {
	return m.bucket.Close()
}
