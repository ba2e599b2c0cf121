package planner

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/vrc-community/vpmctl/descriptor"
	"github.com/vrc-community/vpmctl/project"
	"github.com/vrc-community/vpmctl/resolver"
	"github.com/vrc-community/vpmctl/vpmver"
)

// BuildPlan computes a PendingChanges from a resolver result and the
// project's current state. explicitRemovals names packages the caller
// asked to remove outright; requests carries the ToDependencies flag
// for each newly-resolved root-level package (looked up by name).
// originHeaders optionally supplies each resolved package's originating
// repository headers, by name, for the installer to merge over the
// descriptor's own headers.
func BuildPlan(p *project.Project, resolved []*descriptor.Descriptor, requests []resolver.Request, explicitRemovals []string, originHeaders map[string]map[string]string) (*PendingChanges, error) {
	toDeps := map[string]bool{}
	declaredRanges := map[string]vpmver.Range{}
	for _, r := range requests {
		if r.ToDependencies {
			toDeps[r.Descriptor.Name] = true
			declaredRanges[r.Descriptor.Name] = r.DeclaredRange
		}
	}
	removalSet := map[string]bool{}
	for _, name := range explicitRemovals {
		removalSet[name] = true
	}

	resolvedByName := map[string]*descriptor.Descriptor{}
	for _, d := range resolved {
		resolvedByName[d.Name] = d
	}

	// Build the final dependency graph: every touched package uses its
	// newly resolved dependency set; every untouched locked package
	// keeps its previously recorded one.
	graph := map[string][]string{}
	p.Manifest.Locked.Range(func(name string, lp project.LockedPackage) bool {
		var deps []string
		if lp.Dependencies != nil {
			deps = lp.Dependencies.Keys()
		}
		graph[name] = deps
		return true
	})
	for name, d := range resolvedByName {
		var deps []string
		if d.VpmDependencies != nil {
			deps = d.VpmDependencies.Keys()
		}
		graph[name] = deps
	}

	roots := map[string]bool{}
	for _, name := range p.Manifest.Dependencies.Keys() {
		if !removalSet[name] {
			roots[name] = true
		}
	}
	for _, up := range p.UnlockedPackages {
		if up.Descriptor == nil || up.Descriptor.VpmDependencies == nil {
			continue
		}
		up.Descriptor.VpmDependencies.Range(func(name string, _ vpmver.Range) bool {
			roots[name] = true
			return true
		})
	}

	reachable := map[string]bool{}
	var visit func(string)
	visit = func(name string) {
		if reachable[name] {
			return
		}
		reachable[name] = true
		for _, dep := range graph[name] {
			visit(dep)
		}
	}
	for name := range roots {
		visit(name)
	}

	plan := &PendingChanges{}

	// Explicit removals: reject if some non-removed package still
	// depends on the name.
	for _, name := range explicitRemovals {
		var dependents []string
		for source, deps := range graph {
			if removalSet[source] {
				continue
			}
			for _, dep := range deps {
				if dep == name {
					dependents = append(dependents, source)
					break
				}
			}
		}
		if len(dependents) > 0 {
			sort.Strings(dependents)
			return nil, &ConflictsWith{Name: name, Dependents: dependents}
		}
		plan.Removes = append(plan.Removes, Remove{Name: name, Reason: ReasonRequested})
	}

	// Installs: any resolved descriptor whose (name, version) differs
	// from what's currently locked.
	for _, name := range sortedKeys(resolvedByName) {
		d := resolvedByName[name]
		if locked, ok := p.Manifest.Locked.Get(name); ok && locked.Version.Compare(d.Version) == 0 {
			continue
		}
		plan.Installs = append(plan.Installs, Install{
			Descriptor:      d,
			ToDependencies:  toDeps[name],
			RepoHeaders:     originHeaders[name],
			DependencyRange: declaredRanges[name],
		})
	}

	// Unused removals: currently-locked names that are neither being
	// explicitly removed nor reachable from any root.
	for _, name := range p.Manifest.Locked.Keys() {
		if removalSet[name] || reachable[name] {
			continue
		}
		plan.Removes = append(plan.Removes, Remove{Name: name, Reason: ReasonUnused})
	}

	// legacyPackages: a package replaced entirely by a newly resolved
	// one becomes an implicit removal, unless already scheduled.
	alreadyRemoved := map[string]bool{}
	for _, r := range plan.Removes {
		alreadyRemoved[r.Name] = true
	}
	for _, name := range sortedKeys(resolvedByName) {
		d := resolvedByName[name]
		for _, legacy := range d.LegacyPackages {
			if alreadyRemoved[legacy] {
				continue
			}
			plan.Removes = append(plan.Removes, Remove{Name: legacy, Reason: ReasonReplaced})
			alreadyRemoved[legacy] = true
		}
	}

	// Legacy files/folders of every package that ends up installed:
	// everything freshly resolved, plus whatever remains reachable and
	// locked (untouched).
	finalNames := map[string]bool{}
	for name := range resolvedByName {
		finalNames[name] = true
	}
	for name := range reachable {
		if _, locked := p.Manifest.Locked.Get(name); locked {
			finalNames[name] = true
		}
	}

	seenPaths := map[string]bool{}
	for _, name := range sortedBoolKeys(finalNames) {
		d := resolvedByName[name]
		if d == nil {
			continue // untouched locked package: no descriptor in hand to scan
		}
		collectLegacy(p.Dir, d.LegacyFiles, false, seenPaths, plan)
		collectLegacy(p.Dir, d.LegacyFolders, true, seenPaths, plan)
	}

	return plan, nil
}

func collectLegacy(dir string, m legacyMap, isDir bool, seen map[string]bool, plan *PendingChanges) {
	if m == nil {
		return
	}
	m.Range(func(path, guid string) bool {
		resolved, ok := resolveLegacyEntry(dir, path, guid, isDir)
		if !ok || seen[resolved] {
			return true
		}
		seen[resolved] = true
		plan.LegacyAssets = append(plan.LegacyAssets, LegacyAsset{Path: resolved, IsDir: isDir})
		return true
	})
}

// legacyMap is the subset of *ordered.Map[string]'s API this file
// needs, so collectLegacy can accept either LegacyFiles or
// LegacyFolders without importing the ordered package just for the
// type name.
type legacyMap interface {
	Range(func(key string, value string) bool)
}

func resolveLegacyEntry(dir, path, guid string, isDir bool) (string, bool) {
	if path != "" {
		if isSafePath(path) {
			full := filepath.Join(dir, path)
			if _, err := os.Lstat(full); err == nil {
				return path, true
			}
		}
	}
	if guid == "" {
		return "", false
	}
	found, ok := findByGUID(dir, guid, isDir)
	if !ok {
		return "", false
	}
	rel, err := filepath.Rel(dir, found)
	if err != nil {
		return "", false
	}
	return rel, true
}

// isSafePath rejects absolute paths and any path whose literal,
// uncleaned components include ".." or "." — checking before any
// cleaning matters, since Clean would silently collapse a traversal
// attempt like "Assets/../../secret" into something that looks benign.
func isSafePath(p string) bool {
	if p == "" || filepath.IsAbs(p) {
		return false
	}
	norm := filepath.ToSlash(p)
	for _, part := range strings.Split(norm, "/") {
		if part == "" || part == "." || part == ".." {
			return false
		}
	}
	return true
}

func sortedKeys(m map[string]*descriptor.Descriptor) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func sortedBoolKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
