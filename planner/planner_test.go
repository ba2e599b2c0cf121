package planner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/vrc-community/vpmctl/descriptor"
	"github.com/vrc-community/vpmctl/internal/ordered"
	"github.com/vrc-community/vpmctl/project"
	"github.com/vrc-community/vpmctl/resolver"
	"github.com/vrc-community/vpmctl/vpmver"
)

func mustVersion(t *testing.T, s string) vpmver.Version {
	t.Helper()
	v, err := vpmver.Parse(s)
	if err != nil {
		t.Fatalf("Parse(%q): %v", s, err)
	}
	return v
}

func mustRange(t *testing.T, s string) vpmver.Range {
	t.Helper()
	r, err := vpmver.ParseRange(s)
	if err != nil {
		t.Fatalf("ParseRange(%q): %v", s, err)
	}
	return r
}

func desc(t *testing.T, name, version string) *descriptor.Descriptor {
	t.Helper()
	return &descriptor.Descriptor{Name: name, Version: mustVersion(t, version)}
}

func TestBuildPlanInstallsNewResolution(t *testing.T) {
	m := project.NewManifest()
	m.Dependencies.Set("pkg.a", project.Dependency{Version: mustRange(t, "^1.0.0")})
	p := &project.Project{Dir: t.TempDir(), Manifest: m}

	a := desc(t, "pkg.a", "1.0.0")
	plan, err := BuildPlan(p, []*descriptor.Descriptor{a}, []resolver.Request{{Descriptor: a, ToDependencies: true}}, nil, nil)
	if err != nil {
		t.Fatalf("BuildPlan: %v", err)
	}
	if len(plan.Installs) != 1 || plan.Installs[0].Descriptor.Name != "pkg.a" {
		t.Fatalf("expected one install of pkg.a, got %+v", plan.Installs)
	}
	if !plan.Installs[0].ToDependencies {
		t.Fatalf("expected ToDependencies to propagate from the request")
	}
}

func TestBuildPlanSkipsUnchangedVersion(t *testing.T) {
	m := project.NewManifest()
	m.Locked.Set("pkg.a", project.LockedPackage{Version: mustVersion(t, "1.0.0"), Dependencies: ordered.NewMap[vpmver.Range]()})
	p := &project.Project{Dir: t.TempDir(), Manifest: m}

	a := desc(t, "pkg.a", "1.0.0")
	plan, err := BuildPlan(p, []*descriptor.Descriptor{a}, nil, nil, nil)
	if err != nil {
		t.Fatalf("BuildPlan: %v", err)
	}
	if len(plan.Installs) != 0 {
		t.Fatalf("expected no installs for an unchanged version, got %+v", plan.Installs)
	}
}

func TestBuildPlanRemovesUnreachableLockedPackage(t *testing.T) {
	m := project.NewManifest()
	m.Locked.Set("pkg.orphan", project.LockedPackage{Version: mustVersion(t, "1.0.0"), Dependencies: ordered.NewMap[vpmver.Range]()})
	p := &project.Project{Dir: t.TempDir(), Manifest: m}

	plan, err := BuildPlan(p, nil, nil, nil, nil)
	if err != nil {
		t.Fatalf("BuildPlan: %v", err)
	}
	if len(plan.Removes) != 1 || plan.Removes[0].Name != "pkg.orphan" || plan.Removes[0].Reason != ReasonUnused {
		t.Fatalf("expected pkg.orphan removed as unused, got %+v", plan.Removes)
	}
}

func TestBuildPlanExplicitRemovalConflict(t *testing.T) {
	m := project.NewManifest()
	m.Dependencies.Set("pkg.a", project.Dependency{Version: mustRange(t, "^1.0.0")})
	deps := ordered.NewMap[vpmver.Range]()
	deps.Set("pkg.b", mustRange(t, "^1.0.0"))
	m.Locked.Set("pkg.a", project.LockedPackage{Version: mustVersion(t, "1.0.0"), Dependencies: deps})
	m.Locked.Set("pkg.b", project.LockedPackage{Version: mustVersion(t, "1.0.0"), Dependencies: ordered.NewMap[vpmver.Range]()})
	p := &project.Project{Dir: t.TempDir(), Manifest: m}

	_, err := BuildPlan(p, nil, nil, []string{"pkg.b"}, nil)
	conflict, ok := err.(*ConflictsWith)
	if !ok {
		t.Fatalf("expected *ConflictsWith, got %v", err)
	}
	if conflict.Name != "pkg.b" || len(conflict.Dependents) != 1 || conflict.Dependents[0] != "pkg.a" {
		t.Fatalf("unexpected conflict: %+v", conflict)
	}
}

func TestBuildPlanExplicitRemovalSucceedsWhenUnreferenced(t *testing.T) {
	m := project.NewManifest()
	m.Locked.Set("pkg.a", project.LockedPackage{Version: mustVersion(t, "1.0.0"), Dependencies: ordered.NewMap[vpmver.Range]()})
	p := &project.Project{Dir: t.TempDir(), Manifest: m}

	plan, err := BuildPlan(p, nil, nil, []string{"pkg.a"}, nil)
	if err != nil {
		t.Fatalf("BuildPlan: %v", err)
	}
	if len(plan.Removes) != 1 || plan.Removes[0].Reason != ReasonRequested {
		t.Fatalf("expected a requested removal of pkg.a, got %+v", plan.Removes)
	}
}

func TestBuildPlanLegacyPackagesBecomeImplicitRemovals(t *testing.T) {
	m := project.NewManifest()
	m.Dependencies.Set("pkg.new", project.Dependency{Version: mustRange(t, "^1.0.0")})
	p := &project.Project{Dir: t.TempDir(), Manifest: m}

	newPkg := desc(t, "pkg.new", "1.0.0")
	newPkg.LegacyPackages = []string{"pkg.old"}

	plan, err := BuildPlan(p, []*descriptor.Descriptor{newPkg}, nil, nil, nil)
	if err != nil {
		t.Fatalf("BuildPlan: %v", err)
	}
	found := false
	for _, r := range plan.Removes {
		if r.Name == "pkg.old" && r.Reason == ReasonReplaced {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected pkg.old to be removed as replaced, got %+v", plan.Removes)
	}
}

func TestBuildPlanLegacyAssetResolvedByPath(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "Assets", "OldStuff"), 0777); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}

	m := project.NewManifest()
	m.Dependencies.Set("pkg.new", project.Dependency{Version: mustRange(t, "^1.0.0")})
	p := &project.Project{Dir: dir, Manifest: m}

	newPkg := desc(t, "pkg.new", "1.0.0")
	newPkg.LegacyFolders = ordered.NewMap[string]()
	newPkg.LegacyFolders.Set("Assets/OldStuff", "")

	plan, err := BuildPlan(p, []*descriptor.Descriptor{newPkg}, nil, nil, nil)
	if err != nil {
		t.Fatalf("BuildPlan: %v", err)
	}
	if len(plan.LegacyAssets) != 1 || plan.LegacyAssets[0].Path != filepath.Join("Assets", "OldStuff") {
		t.Fatalf("expected the legacy folder resolved by path, got %+v", plan.LegacyAssets)
	}
}

func TestIsSafePathRejectsTraversal(t *testing.T) {
	cases := map[string]bool{
		"Assets/Foo":    true,
		"Assets/../bar": false,
		"../escape":     false,
		"/abs/path":     false,
		".":             false,
	}
	for p, want := range cases {
		if got := isSafePath(p); got != want {
			t.Errorf("isSafePath(%q) = %v, want %v", p, got, want)
		}
	}
}
