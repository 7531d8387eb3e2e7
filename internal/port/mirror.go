package port

import "context"

// Mirror copies downloaded feed files to secondary storage
type Mirror interface {
	// Put uploads the file at localPath under key
	Put(ctx context.Context, key, localPath string) error

	// Close releases the underlying bucket
	Close() error
}
