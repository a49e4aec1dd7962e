// internal/importer/move.go
package importer

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"golang.org/x/sys/unix"
)

// renameFile renames without replacing an existing destination.
// Tests swap it to simulate cross-device moves.
var renameFile = renameNoReplace

// moveFile renames src to dst. When the two are on different filesystems it
// falls back to copy, then remove of the source.
func moveFile(src, dst string) error {
	err := renameFile(src, dst)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, fs.ErrExist):
		return fmt.Errorf("%w: %s", ErrDestinationExists, dst)
	case !errors.Is(err, unix.EXDEV):
		return fmt.Errorf("%w: %v", ErrMoveFailed, err)
	}

	if _, err := CopyFile(src, dst); err != nil {
		if errors.Is(err, ErrDestinationExists) {
			return err
		}
		return fmt.Errorf("%w: cross-device copy: %v", ErrMoveFailed, err)
	}
	if err := os.Remove(src); err != nil {
		return fmt.Errorf("%w: remove source after copy: %v", ErrMoveFailed, err)
	}
	return nil
}

// renameChecked is the portable fallback. It leaves a small window between
// the check and the rename.
func renameChecked(src, dst string) error {
	if _, err := os.Lstat(dst); err == nil {
		return &os.LinkError{Op: "rename", Old: src, New: dst, Err: fs.ErrExist}
	}
	return os.Rename(src, dst)
}
