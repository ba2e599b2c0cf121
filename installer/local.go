package installer

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	shutil "github.com/termie/go-shutil"
)

// copyLocal recursively copies src to dst. Symlinks with an absolute
// target are rejected up front; relative symlinks are recreated as
// symlinks with the same target (CopyTreeOptions.Symlinks).
func copyLocal(src, dst string) error {
	if err := rejectAbsoluteSymlinks(src); err != nil {
		return err
	}
	return shutil.CopyTree(src, dst, &shutil.CopyTreeOptions{Symlinks: true, CopyFunction: shutil.Copy})
}

func rejectAbsoluteSymlinks(root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.Mode()&os.ModeSymlink == 0 {
			return nil
		}
		target, err := os.Readlink(path)
		if err != nil {
			return errors.Wrapf(err, "reading symlink %s", path)
		}
		if filepath.IsAbs(target) {
			return errors.Errorf("refusing to copy symlink %s with absolute target %s", path, target)
		}
		return nil
	})
}
