package manifest

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/zip"

	"destiny2-go/internal/fs"
)

var sqliteHeader = []byte("SQLite format 3\x00")

// Install places the content package at src as the manifest database at
// dbPath. The platform serves the database zipped with a single entry; a
// bare SQLite file is accepted too. dbPath is replaced atomically.
func Install(src, dbPath string) (int64, error) {
	f, err := os.Open(src)
	if err != nil {
		return 0, fmt.Errorf("opening content package: %w", err)
	}
	defer f.Close()

	header := make([]byte, len(sqliteHeader))
	if _, err := io.ReadFull(f, header); err != nil {
		return 0, fmt.Errorf("reading content package header: %w", err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return 0, fmt.Errorf("rewinding content package: %w", err)
	}

	if bytes.Equal(header, sqliteHeader) {
		return fs.WriteFileAtomic(dbPath, f)
	}

	info, err := f.Stat()
	if err != nil {
		return 0, fmt.Errorf("stat content package: %w", err)
	}
	return installZip(f, info.Size(), dbPath)
}

func installZip(r io.ReaderAt, size int64, dbPath string) (int64, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return 0, fmt.Errorf("reading content archive: %w", err)
	}

	for _, entry := range zr.File {
		if entry.FileInfo().IsDir() {
			continue
		}

		rc, err := entry.Open()
		if err != nil {
			return 0, fmt.Errorf("opening %s in archive: %w", entry.Name, err)
		}
		written, err := fs.WriteFileAtomic(dbPath, rc)
		rc.Close()
		if err != nil {
			return 0, fmt.Errorf("extracting %s: %w", entry.Name, err)
		}
		return written, nil
	}

	return 0, fmt.Errorf("content archive is empty")
}
