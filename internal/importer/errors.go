// internal/importer/errors.go
package importer

import "errors"

var (
	// ErrCopyFailed indicates the file copy operation failed.
	ErrCopyFailed = errors.New("failed to copy file")

	// ErrLinkFailed indicates the hard link could not be created.
	ErrLinkFailed = errors.New("failed to link file")

	// ErrMoveFailed indicates the rename (or copy+remove fallback) failed.
	ErrMoveFailed = errors.New("failed to move file")

	// ErrDestinationExists indicates the destination file already exists.
	ErrDestinationExists = errors.New("destination file already exists")

	// ErrDestinationVanished indicates a destination judged equivalent at
	// planning time was gone when the plan ran.
	ErrDestinationVanished = errors.New("destination vanished after planning")

	// ErrPathTraversal indicates a path traversal attack was detected.
	ErrPathTraversal = errors.New("path traversal detected")

	// ErrNoMediaFiles indicates a source contained no video or subtitle files.
	ErrNoMediaFiles = errors.New("no media files found")

	// ErrLocked indicates another process holds the target tree lock.
	ErrLocked = errors.New("target directory is locked by another process")
)
