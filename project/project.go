package project

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/vrc-community/vpmctl/descriptor"
)

// UnlockedPackage is an on-disk package folder under Packages/ that is
// not referenced by the manifest's locked state.
type UnlockedPackage struct {
	FolderName string
	Descriptor *descriptor.Descriptor // nil if package.json is missing or unreadable
	Warnings   []string
}

// Project is a loaded VPM project: its manifest, the legacy UPM
// manifest (read-only unless migrating), the optional Unity version,
// and the unlocked package folders found under Packages/.
type Project struct {
	Dir              string
	Manifest         *Manifest
	UpmDependencies  map[string]string // read-only UPM manifest.json dependencies
	UnityVersion     *descriptor.UnityVersion
	UnlockedPackages []UnlockedPackage
}

// Load reads a project rooted at dir: the strict vpm-manifest.json, the
// loose UPM manifest.json, the optional Unity version marker, and scans
// Packages/ for folders not referenced by locked.
func Load(dir string) (*Project, error) {
	manifest, err := LoadManifest(dir)
	if err != nil {
		return nil, err
	}

	upmDeps, err := loadUpmManifest(dir)
	if err != nil {
		return nil, err
	}

	unity, err := loadUnityVersion(dir)
	if err != nil {
		return nil, err
	}

	unlocked, err := scanUnlockedPackages(dir, manifest)
	if err != nil {
		return nil, err
	}

	return &Project{
		Dir:              dir,
		Manifest:         manifest,
		UpmDependencies:  upmDeps,
		UnityVersion:     unity,
		UnlockedPackages: unlocked,
	}, nil
}

func loadUpmManifest(dir string) (map[string]string, error) {
	data, err := os.ReadFile(upmManifestPath(dir))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", upmManifestPath(dir))
	}
	var raw struct {
		Dependencies map[string]string `json:"dependencies"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		// Loose parsing mode: a malformed UPM manifest is not fatal to
		// loading the project, only to reading its dependency map.
		return nil, nil
	}
	return raw.Dependencies, nil
}

// loadUnityVersion reads the "m_EditorVersion:" line of
// ProjectSettings/ProjectVersion.txt. The file is optional.
func loadUnityVersion(dir string) (*descriptor.UnityVersion, error) {
	f, err := os.Open(projectVersionPath(dir))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", projectVersionPath(dir))
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := sc.Text()
		const prefix = "m_EditorVersion:"
		if !strings.HasPrefix(line, prefix) {
			continue
		}
		editor := strings.TrimSpace(strings.TrimPrefix(line, prefix))
		return parseEditorVersion(editor), nil
	}
	return nil, nil
}

// parseEditorVersion extracts (major, minor) from a Unity editor
// version string like "2019.4.31f1". A malformed string yields nil
// rather than an error: the Unity version is optional everywhere it is
// consulted.
func parseEditorVersion(s string) *descriptor.UnityVersion {
	fields := strings.SplitN(s, ".", 3)
	if len(fields) < 2 {
		return nil
	}
	major, err := strconv.Atoi(fields[0])
	if err != nil {
		return nil
	}
	minorDigits := fields[1]
	for i, c := range minorDigits {
		if c < '0' || c > '9' {
			minorDigits = minorDigits[:i]
			break
		}
	}
	minor, err := strconv.Atoi(minorDigits)
	if err != nil {
		return nil
	}
	return &descriptor.UnityVersion{Major: major, Minor: minor}
}

// scanUnlockedPackages enumerates direct children of Packages/ that
// aren't referenced by manifest.Locked.
func scanUnlockedPackages(dir string, manifest *Manifest) ([]UnlockedPackage, error) {
	packagesDir := filepath.Join(dir, "Packages")
	entries, err := os.ReadDir(packagesDir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", packagesDir)
	}

	var out []UnlockedPackage
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		name := entry.Name()
		if _, locked := manifest.Locked.Get(name); locked {
			continue
		}

		up := UnlockedPackage{FolderName: name}
		pkgJSON := filepath.Join(packagesDir, name, "package.json")
		f, err := os.Open(pkgJSON)
		if err == nil {
			d, warnings, perr := descriptor.ParseLoose(f)
			f.Close()
			if perr == nil {
				up.Descriptor = d
				up.Warnings = warnings
			}
		}
		out = append(out, up)
	}
	return out, nil
}
