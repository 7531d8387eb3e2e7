//go:build !unix

package filesystem

// Permission bits are not meaningful here; the write itself reports failures.
func checkWritable(dir string) error {
	return nil
}
