package port

import (
	"io"
	"time"
)

// FileSystem defines the interface for local feed storage
type FileSystem interface {
	// WriteFile streams reader into localPath through a temp file that is
	// renamed into place on success and removed on failure.
	// Returns: bytes written, error
	WriteFile(localPath string, reader io.Reader) (int64, error)

	// CleanOldTempFiles removes temp files under dir older than the specified duration
	// Returns the number of files deleted
	CleanOldTempFiles(dir string, olderThan time.Duration) (int, error)
}
