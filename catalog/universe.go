package catalog

import (
	"github.com/vrc-community/vpmctl/descriptor"
	"github.com/vrc-community/vpmctl/vpmver"
)

// Origin identifies where a descriptor came from: a repository id, or
// the empty string for a user-local unlocked package folder.
type Origin string

// Found pairs a descriptor with its originating repository, so the
// installer can later resolve per-repo HTTP headers.
type Found struct {
	Descriptor *descriptor.Descriptor
	Origin     Origin
	Headers    map[string]string
}

// Selector narrows a universe query.
type Selector struct {
	Range           *vpmver.Range
	Unity           *descriptor.UnityVersion
	AllowPrerelease bool
	AllowYanked     bool
}

// curatedID is the well-known identifier of VRChat's curated repository.
const curatedID = "com.vrchat.repos.curated"

// sdkAvatarsPackage and resolverPackage name the two packages with
// hard-coded Unity-version exceptions baked into the query contract.
const (
	sdkAvatarsPackage = "com.vrchat.avatars"
	resolverPackage   = "com.vrchat.core.vpm-resolver"
)

// Universe is the flat, read-only aggregation of all loaded caches plus
// user-local package folders. Queries never mutate.
type Universe struct {
	repos []*LocalCachedRepository
	local []Found // unlocked on-disk packages
}

// NewUniverse aggregates repos (in insertion order) and local unlocked
// package descriptors into a queryable universe.
func NewUniverse(repos []*LocalCachedRepository, local []Found) *Universe {
	return &Universe{repos: repos, local: local}
}

// FindAll returns every (descriptor, origin) pair across all repos and
// local folders.
func (u *Universe) FindAll() []Found {
	var out []Found
	for _, r := range u.repos {
		for _, pv := range r.Repo.Packages {
			for _, d := range pv.Versions {
				out = append(out, Found{Descriptor: d, Origin: Origin(r.Repo.ID), Headers: r.Headers})
			}
		}
	}
	out = append(out, u.local...)
	return out
}

// Find returns every known version of name across all origins.
func (u *Universe) Find(name string) []Found {
	var out []Found
	for _, r := range u.repos {
		pv, ok := r.Repo.Packages[name]
		if !ok {
			continue
		}
		for _, d := range pv.Versions {
			out = append(out, Found{Descriptor: d, Origin: Origin(r.Repo.ID), Headers: r.Headers})
		}
	}
	for _, f := range u.local {
		if f.Descriptor.Name == name {
			out = append(out, f)
		}
	}
	return out
}

// FindLatest returns the highest version of name satisfying sel, or
// (Found{}, false) if none qualifies. Ties across origins break by
// origin iteration order (earlier repos win).
func (u *Universe) FindLatest(name string, sel Selector) (Found, bool) {
	var best Found
	var haveBest bool

	for _, f := range u.Find(name) {
		if !qualifies(f.Descriptor, sel) {
			continue
		}
		if !haveBest || f.Descriptor.Version.Compare(best.Descriptor.Version) > 0 {
			best, haveBest = f, true
		}
	}
	return best, haveBest
}

// Curated returns every descriptor whose originating repository id is
// the well-known curated id.
func (u *Universe) Curated() []Found {
	var out []Found
	for _, f := range u.FindAll() {
		if f.Origin == curatedID {
			out = append(out, f)
		}
	}
	return out
}

func qualifies(d *descriptor.Descriptor, sel Selector) bool {
	if sel.Range != nil && !sel.Range.Matches(d.Version, sel.AllowPrerelease) {
		return false
	}
	if d.Yanked.Yanked && !sel.AllowYanked {
		return false
	}
	if sel.Unity != nil && d.Unity != nil {
		if !unityCompatible(d, *sel.Unity) {
			return false
		}
	}
	return true
}

// unityCompatible implements the query contract's Unity filter: a
// descriptor satisfies iff its declared minimum Unity version is <= the
// project's, with two hard-coded exceptions carried over unchanged from
// the source catalog's historical package layout.
func unityCompatible(d *descriptor.Descriptor, project descriptor.UnityVersion) bool {
	if d.Name == sdkAvatarsPackage && d.Version.Major == 3 && d.Version.Minor <= 4 {
		return project.Major == 2019
	}
	if d.Name == resolverPackage && d.Version.Major == 0 && d.Version.Minor == 1 && d.Version.Patch <= 26 {
		return project.Major == 2019
	}
	return !project.Less(*d.Unity)
}
