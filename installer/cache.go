// Package installer applies a planner.PendingChanges to a project: it
// downloads and verifies remote package archives (or copies local
// package folders), extracts/copies them into Packages/<name>, removes
// packages and legacy assets, and finally writes the updated manifest.
package installer

import "path/filepath"

// cachePath returns the on-disk path of a cached package archive and
// its sibling SHA-256 sidecar, matching
// <cache_root>/Repos/<name>/vrc-get-<name>-<version>.zip.
func cachePath(cacheRoot, name, version string) (zipPath, shaPath string) {
	dir := filepath.Join(cacheRoot, "Repos", name)
	base := "vrc-get-" + name + "-" + version + ".zip"
	zipPath = filepath.Join(dir, base)
	shaPath = zipPath + ".sha256"
	return
}
