package main

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/vrc-community/vpmctl/catalog"
	"github.com/vrc-community/vpmctl/descriptor"
	"github.com/vrc-community/vpmctl/resolver"
	"github.com/vrc-community/vpmctl/vpmver"
)

// findExactVersion returns the descriptor for name at exactly version,
// regardless of which repository it comes from.
func findExactVersion(universe *catalog.Universe, name string, version vpmver.Version) (catalog.Found, bool) {
	for _, f := range universe.Find(name) {
		if f.Descriptor.Version.Compare(version) == 0 {
			return f, true
		}
	}
	return catalog.Found{}, false
}

// parsePackageSpec splits a CLI argument of the form "name[@range]" per
// spec.md's "<pkg[@range]>" grammar. A missing range defaults to "*"
// (the newest version satisfying everything else).
func parsePackageSpec(spec string) (name string, r vpmver.Range, err error) {
	name, r, _, err = parsePackageSpecExplicit(spec)
	return name, r, err
}

// parsePackageSpecExplicit is parsePackageSpec plus whether the caller
// actually wrote an "@range" suffix, so resolveRequest can tell "any
// version" apart from "the version the caller asked for".
func parsePackageSpecExplicit(spec string) (name string, r vpmver.Range, explicit bool, err error) {
	name = spec
	rangeStr := ""
	if idx := strings.Index(spec, "@"); idx >= 0 {
		name = spec[:idx]
		rangeStr = spec[idx+1:]
		explicit = true
	}
	if name == "" {
		return "", vpmver.Range{}, false, errors.Errorf("empty package name in %q", spec)
	}
	r, err = vpmver.ParseRange(rangeStr)
	if err != nil {
		return "", vpmver.Range{}, false, errors.Wrapf(err, "parsing version range for %s", name)
	}
	return name, r, explicit, nil
}

// resolveRequest finds the best descriptor in universe satisfying spec
// and builds a resolver.Request for it, marked toDependencies. When the
// user gave no explicit "@range", the declared range recorded against
// this name (if toDependencies) is a caret range pinned to whichever
// version gets resolved, matching the common "install records what you
// got" package-manager convention.
func resolveRequest(universe *catalog.Universe, unity *descriptor.UnityVersion, spec string, allowPrerelease, toDependencies bool) (resolver.Request, error) {
	name, r, explicit, err := parsePackageSpecExplicit(spec)
	if err != nil {
		return resolver.Request{}, err
	}
	found, ok := universe.FindLatest(name, catalog.Selector{Range: &r, Unity: unity, AllowPrerelease: allowPrerelease})
	if !ok {
		return resolver.Request{}, &resolver.DependencyNotFoundError{Name: name}
	}

	declared := r
	if !explicit {
		pinned, err := vpmver.ParseRange("^" + found.Descriptor.Version.String())
		if err != nil {
			return resolver.Request{}, errors.Wrapf(err, "building dependency range for %s", name)
		}
		declared = pinned
	}

	return resolver.Request{Descriptor: found.Descriptor, ToDependencies: toDependencies, DeclaredRange: declared}, nil
}
