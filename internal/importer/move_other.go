//go:build !linux

package importer

func renameNoReplace(src, dst string) error {
	return renameChecked(src, dst)
}
