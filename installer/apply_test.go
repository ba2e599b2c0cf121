package installer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/vrc-community/vpmctl/descriptor"
	"github.com/vrc-community/vpmctl/internal/ordered"
	"github.com/vrc-community/vpmctl/planner"
	"github.com/vrc-community/vpmctl/project"
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

func TestApplyInstallsLocalPackageRemovesAndUpdatesManifest(t *testing.T) {
	projectDir := t.TempDir()

	// An existing locked package that will be removed.
	oldDir := filepath.Join(projectDir, "Packages", "com.vrchat.old")
	if err := os.MkdirAll(oldDir, 0777); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}

	// A legacy asset to be cleaned up after install.
	legacyDir := filepath.Join(projectDir, "Assets", "OldStuff")
	if err := os.MkdirAll(legacyDir, 0777); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}

	// The local source folder for the new package being installed.
	localSrc := t.TempDir()
	if err := os.WriteFile(filepath.Join(localSrc, "package.json"), []byte(`{"name":"com.vrchat.new"}`), 0666); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	m := project.NewManifest()
	m.Dependencies.Set("com.vrchat.old", project.Dependency{Version: mustRangeForApply(t, "^1.0.0")})
	m.Locked.Set("com.vrchat.old", project.LockedPackage{Version: mustVersion(t, "1.0.0"), Dependencies: ordered.NewMap[vpmver.Range]()})
	p := &project.Project{Dir: projectDir, Manifest: m}

	newPkg := &descriptor.Descriptor{Name: "com.vrchat.new", Version: mustVersion(t, "2.0.0"), VpmDependencies: ordered.NewMap[vpmver.Range]()}

	plan := &planner.PendingChanges{
		Installs:     []planner.Install{{Descriptor: newPkg, ToDependencies: true, LocalPath: localSrc, DependencyRange: mustRangeForApply(t, "^2.0.0")}},
		Removes:      []planner.Remove{{Name: "com.vrchat.old", Reason: planner.ReasonReplaced}},
		LegacyAssets: []planner.LegacyAsset{{Path: filepath.Join("Assets", "OldStuff"), IsDir: true}},
	}

	if err := Apply(p, plan, Options{CacheRoot: t.TempDir()}); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	if _, err := os.Stat(filepath.Join(projectDir, "Packages", "com.vrchat.new", "package.json")); err != nil {
		t.Fatalf("expected the new package to be installed: %v", err)
	}
	if _, err := os.Stat(oldDir); !os.IsNotExist(err) {
		t.Fatalf("expected the old package folder to be removed")
	}
	if _, err := os.Stat(legacyDir); !os.IsNotExist(err) {
		t.Fatalf("expected the legacy asset folder to be removed")
	}

	saved, err := project.LoadManifest(projectDir)
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	if _, ok := saved.Locked.Get("com.vrchat.old"); ok {
		t.Fatalf("expected com.vrchat.old to be removed from locked")
	}
	locked, ok := saved.Locked.Get("com.vrchat.new")
	if !ok || locked.Version.Compare(mustVersion(t, "2.0.0")) != 0 {
		t.Fatalf("expected com.vrchat.new locked at 2.0.0, got %+v ok=%v", locked, ok)
	}
	dep, ok := saved.Dependencies.Get("com.vrchat.new")
	if !ok {
		t.Fatalf("expected com.vrchat.new to be promoted to dependencies")
	}
	if dep.Version.String() != "^2.0.0" {
		t.Fatalf("dependency range = %q, want ^2.0.0", dep.Version.String())
	}
}

func TestMergedHeadersOverridesRepoHeadersWithPackageHeaders(t *testing.T) {
	got := mergedHeaders(map[string]string{"Authorization": "pkg", "X-Pkg-Only": "1"}, map[string]string{"Authorization": "repo"})
	if got["Authorization"] != "pkg" {
		t.Fatalf("expected the package header to win, got %q", got["Authorization"])
	}
	if got["X-Pkg-Only"] != "1" {
		t.Fatalf("expected package-only headers to survive the merge")
	}
}

func TestMergedHeadersNilWhenBothEmpty(t *testing.T) {
	if got := mergedHeaders(nil, nil); got != nil {
		t.Fatalf("expected nil for no headers at all, got %+v", got)
	}
}

func mustRangeForApply(t *testing.T, s string) vpmver.Range {
	t.Helper()
	r, err := vpmver.ParseRange(s)
	if err != nil {
		t.Fatalf("ParseRange(%q): %v", s, err)
	}
	return r
}
