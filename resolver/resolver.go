// Package resolver implements the worklist dependency resolution
// algorithm: given a project's declared and locked state plus a set of
// newly requested packages, it computes the full resolved set or
// reports the first DependencyNotFoundError/ConflictError found.
//
// The algorithm mirrors original_source/src/vpm/package_resolution.rs's
// collect_adding_packages shape: a name -> info map seeded from root
// dependencies and locked state, a FIFO worklist of requested
// descriptors, and a final conflict-detection pass.
package resolver

import (
	"fmt"
	"sort"

	"github.com/vrc-community/vpmctl/catalog"
	"github.com/vrc-community/vpmctl/descriptor"
	"github.com/vrc-community/vpmctl/project"
	"github.com/vrc-community/vpmctl/vpmver"
)

// Request is a package the caller wants added or upgraded/downgraded to
// a specific descriptor. ToDependencies marks a root-intent operation
// ("install to dependencies"), which is the only way to request a
// version lower than the one currently locked for that name.
// DeclaredRange is the range the caller wants recorded against this
// name in the manifest's dependencies when ToDependencies is set; it is
// opaque to the resolution algorithm itself, carried through purely for
// the planner/installer to persist.
type Request struct {
	Descriptor     *descriptor.Descriptor
	ToDependencies bool
	DeclaredRange  vpmver.Range
}

// Result is the successful outcome of Resolve: every package that ends
// up with a chosen descriptor, in name-sorted order.
type Result struct {
	Locked []*descriptor.Descriptor
}

// depInfo tracks, per package name, the descriptor currently selected
// for it ("using"/"current"), the set of names it requires
// ("dependencies"), and the requirement ranges placed on it by every
// source that depends on it ("requirements", keyed by source name, ""
// for a root dependency).
type depInfo struct {
	using        *descriptor.Descriptor
	current      *vpmver.Version
	requirements map[string]vpmver.Range
	dependencies map[string]bool
	allowPre     bool
}

func newDepInfo() *depInfo {
	return &depInfo{requirements: map[string]vpmver.Range{}, dependencies: map[string]bool{}}
}

// Resolve runs the worklist algorithm described above and returns the
// full resolved package set.
func Resolve(
	manifest *project.Manifest,
	universe *catalog.Universe,
	unity *descriptor.UnityVersion,
	requests []Request,
	allowPrerelease bool,
) (*Result, error) {
	infos := map[string]*depInfo{}
	entry := func(name string) *depInfo {
		e, ok := infos[name]
		if !ok {
			e = newDepInfo()
			infos[name] = e
		}
		return e
	}

	// Seed from the project's declared root dependencies: the floor is
	// max(declared range's own lower bound, the currently-locked
	// version), expressed as a ">=" range so a resolution never silently
	// downgrades a root dependency.
	for _, name := range manifest.Dependencies.Keys() {
		dep, _ := manifest.Dependencies.Get(name)
		minVer := dep.Version.LowerBound()
		allowPre := minVer.IsPrerelease()

		if locked, ok := manifest.Locked.Get(name); ok {
			if locked.Version.Compare(minVer) > 0 {
				minVer = locked.Version
			}
			allowPre = allowPre || locked.Version.IsPrerelease()
		}

		floor, err := vpmver.ParseRange(fmt.Sprintf(">=%s", minVer.String()))
		if err != nil {
			return nil, fmt.Errorf("building downgrade floor for %s: %w", name, err)
		}

		e := entry(name)
		e.requirements[""] = floor
		e.allowPre = e.allowPre || allowPre
	}

	// Seed from locked state: pre-populate current/dependencies for
	// every locked package, and fan out its recorded transitive ranges
	// as requirements on its dependencies.
	for _, name := range manifest.Locked.Keys() {
		locked, _ := manifest.Locked.Get(name)
		v := locked.Version

		e := entry(name)
		e.current = &v
		e.allowPre = e.allowPre || v.IsPrerelease()
		e.dependencies = map[string]bool{}
		if locked.Dependencies != nil {
			locked.Dependencies.Range(func(depName string, _ vpmver.Range) bool {
				e.dependencies[depName] = true
				return true
			})
		}

		if locked.Dependencies != nil {
			locked.Dependencies.Range(func(depName string, r vpmver.Range) bool {
				entry(depName).requirements[name] = r
				return true
			})
		}
	}

	worklist := make([]*descriptor.Descriptor, 0, len(requests))
	for _, req := range requests {
		if !req.ToDependencies {
			if locked, ok := manifest.Locked.Get(req.Descriptor.Name); ok {
				if req.Descriptor.Version.Compare(locked.Version) < 0 {
					return nil, &ConflictError{Conflicts: map[string]string{req.Descriptor.Name: "locked"}}
				}
			}
		}
		worklist = append(worklist, req.Descriptor)
	}

	for len(worklist) > 0 {
		x := worklist[0]
		worklist = worklist[1:]

		name := x.Name
		e := entry(name)
		oldDeps := e.dependencies

		newDeps := map[string]bool{}
		if x.VpmDependencies != nil {
			x.VpmDependencies.Range(func(depName string, _ vpmver.Range) bool {
				newDeps[depName] = true
				return true
			})
		}

		v := x.Version
		e.using = x
		e.current = &v
		e.dependencies = newDeps

		for dep := range oldDeps {
			if newDeps[dep] {
				continue
			}
			if de, ok := infos[dep]; ok {
				delete(de.requirements, name)
			}
		}

		if x.VpmDependencies == nil {
			continue
		}

		var depErr error
		x.VpmDependencies.Range(func(depName string, r vpmver.Range) bool {
			de := entry(depName)
			effectiveAllowPre := de.allowPre || allowPrerelease

			install := true
			for _, qd := range worklist {
				if qd.Name == depName && r.Matches(qd.Version, effectiveAllowPre) {
					install = false
					break
				}
			}
			if install && de.current != nil && r.Matches(*de.current, effectiveAllowPre) {
				install = false
			}

			de.requirements[name] = r

			if install {
				sel := catalog.Selector{Range: &r, Unity: unity, AllowPrerelease: effectiveAllowPre}
				found, ok := universe.FindLatest(depName, sel)
				if !ok {
					depErr = &DependencyNotFoundError{Name: depName}
					return false
				}
				filtered := worklist[:0]
				for _, qd := range worklist {
					if qd.Name != depName {
						filtered = append(filtered, qd)
					}
				}
				worklist = append(filtered, found.Descriptor)
			}
			return true
		})
		if depErr != nil {
			return nil, depErr
		}
	}

	conflicts := map[string]string{}
	for name, e := range infos {
		if e.current == nil {
			continue
		}
		effectiveAllowPre := e.allowPre || allowPrerelease
		sources := make([]string, 0, len(e.requirements))
		for source := range e.requirements {
			sources = append(sources, source)
		}
		sort.Strings(sources)
		for _, source := range sources {
			if !e.requirements[source].Matches(*e.current, effectiveAllowPre) {
				label := source
				if label == "" {
					label = "dependencies"
				}
				conflicts[name] = label
				break
			}
		}
	}
	if len(conflicts) > 0 {
		return nil, &ConflictError{Conflicts: conflicts}
	}

	names := make([]string, 0, len(infos))
	for name, e := range infos {
		if e.using != nil {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	out := make([]*descriptor.Descriptor, 0, len(names))
	for _, name := range names {
		out = append(out, infos[name].using)
	}
	return &Result{Locked: out}, nil
}
