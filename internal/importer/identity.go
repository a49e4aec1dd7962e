package importer

import (
	"errors"
	"fmt"
	"time"

	"golang.org/x/sys/unix"
)

// FileIdentity is what the planner knows about a path on disk.
type FileIdentity struct {
	Dev     uint64
	Ino     uint64
	Size    int64
	ModTime time.Time
}

// SameFile reports whether both identities refer to one inode.
func (a FileIdentity) SameFile(b FileIdentity) bool {
	return a.Dev == b.Dev && a.Ino == b.Ino
}

// FileInspector looks at paths without following symlinks.
type FileInspector interface {
	// Lstat returns exists=false, with no error, for a missing path or one
	// whose parent is not a directory.
	Lstat(path string) (id FileIdentity, exists bool, err error)
}

// OSInspector inspects the real filesystem.
type OSInspector struct{}

// Lstat implements FileInspector.
func (OSInspector) Lstat(path string) (FileIdentity, bool, error) {
	var st unix.Stat_t
	if err := unix.Lstat(path, &st); err != nil {
		if errors.Is(err, unix.ENOENT) || errors.Is(err, unix.ENOTDIR) {
			return FileIdentity{}, false, nil
		}
		return FileIdentity{}, false, fmt.Errorf("lstat %s: %w", path, err)
	}
	sec, nsec := st.Mtim.Unix()
	return FileIdentity{
		Dev:     uint64(st.Dev),
		Ino:     st.Ino,
		Size:    st.Size,
		ModTime: time.Unix(sec, nsec),
	}, true, nil
}

// RerunPolicy decides when an existing destination counts as already done.
type RerunPolicy string

const (
	// PolicyInode treats a destination that is the same inode as the source
	// as done. This is what a re-run of link mode produces.
	PolicyInode RerunPolicy = "inode"

	// PolicySizeMtime additionally accepts, for copy, a destination with the
	// same size and modification time, which is what a previous copy leaves
	// behind.
	PolicySizeMtime RerunPolicy = "size_mtime"

	// PolicyStrict only accepts the same inode in link mode.
	PolicyStrict RerunPolicy = "strict"
)

// ParseRerunPolicy validates a policy name. Empty selects PolicyInode.
func ParseRerunPolicy(s string) (RerunPolicy, error) {
	switch p := RerunPolicy(s); p {
	case "":
		return PolicyInode, nil
	case PolicyInode, PolicySizeMtime, PolicyStrict:
		return p, nil
	default:
		return "", fmt.Errorf("unknown rerun policy %q (want inode, size_mtime or strict)", s)
	}
}

// Equivalent reports whether dst already holds what executing action on
// src would produce. For move only the same inode qualifies: the executor
// then drops the source, and a look-alike copy is not proof the data is safe.
func (p RerunPolicy) Equivalent(action Action, src, dst FileIdentity) bool {
	if src.SameFile(dst) {
		return action == ActionLink || p != PolicyStrict
	}
	if p == PolicySizeMtime && action == ActionCopy {
		return src.Size == dst.Size && src.ModTime.Equal(dst.ModTime)
	}
	return false
}
