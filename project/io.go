package project

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"

	"github.com/pkg/errors"
)

// nativeEOL returns "\r\n" on platforms whose native text format is
// CRLF, "\n" elsewhere.
func nativeEOL() string {
	if runtime.GOOS == "windows" {
		return "\r\n"
	}
	return "\n"
}

func toNativeEOL(data []byte) []byte {
	eol := nativeEOL()
	if eol == "\n" {
		return data
	}
	return bytes.ReplaceAll(data, []byte("\n"), []byte(eol))
}

// writeFileAtomic serializes data to path: write to a sibling temp file,
// fsync, then rename over the destination. A crash mid-write never
// corrupts the existing file.
func writeFileAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0777); err != nil {
		return errors.Wrapf(err, "creating %s", filepath.Dir(path))
	}
	tmp := path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0666)
	if err != nil {
		return errors.Wrapf(err, "creating %s", tmp)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return errors.Wrapf(err, "writing %s", tmp)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return errors.Wrapf(err, "syncing %s", tmp)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return errors.Wrapf(err, "closing %s", tmp)
	}
	if err := os.Rename(tmp, path); err != nil {
		return errors.Wrapf(err, "replacing %s", path)
	}
	return nil
}

// manifestPath returns the path of Packages/vpm-manifest.json under the
// project rooted at dir.
func manifestPath(dir string) string {
	return filepath.Join(dir, "Packages", "vpm-manifest.json")
}

// upmManifestPath returns the path of the loose UPM manifest.
func upmManifestPath(dir string) string {
	return filepath.Join(dir, "Packages", "manifest.json")
}

// projectVersionPath returns the path of the Unity version marker file.
func projectVersionPath(dir string) string {
	return filepath.Join(dir, "ProjectSettings", "ProjectVersion.txt")
}

// Save writes m to Packages/vpm-manifest.json under dir.
func (m *Manifest) Save(dir string) error {
	data, err := m.Encode()
	if err != nil {
		return errors.Wrap(err, "encoding vpm-manifest.json")
	}
	return writeFileAtomic(manifestPath(dir), toNativeEOL(data))
}

// LoadManifest reads Packages/vpm-manifest.json under dir. A missing
// file yields an empty manifest.
func LoadManifest(dir string) (*Manifest, error) {
	f, err := os.Open(manifestPath(dir))
	if os.IsNotExist(err) {
		return NewManifest(), nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", manifestPath(dir))
	}
	defer f.Close()
	return ReadManifest(f)
}
