// Package fs holds filesystem helpers shared by the download and manifest
// install paths.
package fs

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// FileMode is the permission WriteFileAtomic leaves on the destination.
const FileMode os.FileMode = 0o644

// WriteFileAtomic copies r to destPath through a temp file in the same
// directory that is renamed over destPath once the copy is complete. On
// any failure the temp file is removed and destPath is left as it was.
// Returns the number of bytes written.
func WriteFileAtomic(destPath string, r io.Reader) (written int64, err error) {
	dir := filepath.Dir(destPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, fmt.Errorf("creating %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(destPath)+".tmp-*")
	if err != nil {
		return 0, fmt.Errorf("creating temp file: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if written, err = io.Copy(tmp, r); err != nil {
		return 0, fmt.Errorf("writing %s: %w", destPath, err)
	}
	// CreateTemp opens with 0600.
	if err = tmp.Chmod(FileMode); err != nil {
		return 0, fmt.Errorf("setting mode on %s: %w", destPath, err)
	}
	if err = tmp.Close(); err != nil {
		return 0, fmt.Errorf("closing temp file: %w", err)
	}
	if err = os.Rename(tmp.Name(), destPath); err != nil {
		return 0, fmt.Errorf("replacing %s: %w", destPath, err)
	}
	return written, nil
}
