// internal/importer/copy.go
package importer

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// CopyFile copies src to dst, creating the destination directory.
// The destination is opened exclusively, so an existing file is never
// overwritten: ErrDestinationExists is returned instead. Mode and
// modification time are carried over. A partial copy is removed on error.
func CopyFile(src, dst string) (int64, error) {
	srcFile, err := os.Open(src)
	if err != nil {
		return 0, fmt.Errorf("%w: open source: %v", ErrCopyFailed, err)
	}
	defer func() { _ = srcFile.Close() }()

	info, err := srcFile.Stat()
	if err != nil {
		return 0, fmt.Errorf("%w: stat source: %v", ErrCopyFailed, err)
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return 0, fmt.Errorf("%w: create directory: %v", ErrCopyFailed, err)
	}

	dstFile, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, info.Mode().Perm())
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return 0, fmt.Errorf("%w: %s", ErrDestinationExists, dst)
		}
		return 0, fmt.Errorf("%w: create destination: %v", ErrCopyFailed, err)
	}

	size, err := copyContent(dstFile, srcFile, info.Size())
	if closeErr := dstFile.Close(); err == nil && closeErr != nil {
		err = fmt.Errorf("%w: close destination: %v", ErrCopyFailed, closeErr)
	}
	if err != nil {
		_ = os.Remove(dst)
		return 0, err
	}

	// Best effort: a filesystem that rejects timestamps still holds the data.
	_ = os.Chtimes(dst, info.ModTime(), info.ModTime())
	return size, nil
}

func copyContent(dst *os.File, src io.Reader, want int64) (int64, error) {
	size, err := io.Copy(dst, src)
	if err != nil {
		return 0, fmt.Errorf("%w: copy content: %v", ErrCopyFailed, err)
	}
	if size != want {
		return 0, fmt.Errorf("%w: short copy: wrote %d of %d bytes", ErrCopyFailed, size, want)
	}
	if err := dst.Sync(); err != nil {
		return 0, fmt.Errorf("%w: sync: %v", ErrCopyFailed, err)
	}
	return size, nil
}
