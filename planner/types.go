// Package planner computes a PendingChanges plan from a resolved
// package set and the project's current state, and renders it as a
// human-readable diff. Applying a plan is the installer's job; the
// plan itself is a pure function of the resolution and the filesystem
// state observed while collecting legacy assets.
package planner

import (
	"github.com/vrc-community/vpmctl/descriptor"
	"github.com/vrc-community/vpmctl/vpmver"
)

// RemoveReason explains why a package is being removed.
type RemoveReason int

const (
	// ReasonUnused marks a locked package no longer reachable from any
	// root or unlocked-package dependency.
	ReasonUnused RemoveReason = iota
	// ReasonRequested marks a package the caller explicitly asked to
	// remove.
	ReasonRequested
	// ReasonReplaced marks a package named in some other package's
	// legacyPackages list.
	ReasonReplaced
)

func (r RemoveReason) String() string {
	switch r {
	case ReasonRequested:
		return "requested"
	case ReasonReplaced:
		return "replaced"
	default:
		return "unused"
	}
}

// Install is one package to extract/copy into Packages/<name>. LocalPath
// is non-empty when the package's source is an on-disk folder rather
// than a repository-hosted zip. RepoHeaders carries the originating
// repository's HTTP headers, merged over the descriptor's own Headers
// when fetching a remote archive. DependencyRange is the range to
// record in the manifest's dependencies when ToDependencies is set,
// carried verbatim from the originating request rather than
// reconstructed from the resolved version.
type Install struct {
	Descriptor      *descriptor.Descriptor
	ToDependencies  bool
	LocalPath       string
	RepoHeaders     map[string]string
	DependencyRange vpmver.Range
}

// Remove is one package whose Packages/<name> folder should be deleted.
type Remove struct {
	Name   string
	Reason RemoveReason
}

// ConflictsWith is returned instead of a plan when an explicit removal
// request is still depended on by a package that isn't itself being
// removed.
type ConflictsWith struct {
	Name       string
	Dependents []string
}

func (c *ConflictsWith) Error() string {
	return c.Name + " is still required by: " + joinNames(c.Dependents)
}

func joinNames(names []string) string {
	out := ""
	for i, n := range names {
		if i > 0 {
			out += ", "
		}
		out += n
	}
	return out
}

// LegacyAsset is one on-disk file or folder to remove after the main
// install/remove sweep, resolved either directly by path or by walking
// the project for a .meta file carrying a matching GUID.
type LegacyAsset struct {
	Path  string
	IsDir bool
}

// PendingChanges is the full result of planning one resolve/apply
// cycle.
type PendingChanges struct {
	Installs     []Install
	Removes      []Remove
	LegacyAssets []LegacyAsset
}
