package installer

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"
)

// extractZip extracts zipPath into destDir, which must not already
// exist. Entries whose name contains a ".."/root component or isn't
// valid UTF-8 are rejected outright — one bad entry fails the whole
// extraction rather than silently skipping it.
func extractZip(zipPath, destDir string) error {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return errors.Wrapf(err, "opening %s", zipPath)
	}
	defer r.Close()

	if err := os.MkdirAll(destDir, 0777); err != nil {
		return errors.Wrapf(err, "creating %s", destDir)
	}

	for _, f := range r.File {
		if err := extractEntry(f, destDir); err != nil {
			return errors.Wrapf(err, "extracting %s", f.Name)
		}
	}
	return nil
}

func extractEntry(f *zip.File, destDir string) error {
	if !utf8.ValidString(f.Name) {
		return errors.New("entry name is not valid UTF-8")
	}
	if !safeZipEntryName(f.Name) {
		return errors.Errorf("unsafe entry path %q", f.Name)
	}

	target := filepath.Join(destDir, filepath.FromSlash(f.Name))

	if f.FileInfo().IsDir() {
		return os.MkdirAll(target, 0777)
	}

	if err := os.MkdirAll(filepath.Dir(target), 0777); err != nil {
		return err
	}

	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, f.Mode())
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, rc)
	return err
}

// safeZipEntryName rejects an absolute path, empty name, or any ".."
// path component.
func safeZipEntryName(name string) bool {
	if name == "" || strings.HasPrefix(name, "/") || filepath.IsAbs(name) {
		return false
	}
	for _, part := range strings.Split(name, "/") {
		if part == ".." {
			return false
		}
	}
	return true
}
