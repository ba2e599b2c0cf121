package project

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0777); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(path, []byte(contents), 0666); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func TestParseEditorVersion(t *testing.T) {
	tests := []struct {
		in        string
		wantMajor int
		wantMinor int
		wantNil   bool
	}{
		{"2019.4.31f1", 2019, 4, false},
		{"2022.3.6f1", 2022, 3, false},
		{"2019.4", 2019, 4, false},
		{"garbage", 0, 0, true},
		{"2019", 0, 0, true},
	}
	for _, tt := range tests {
		got := parseEditorVersion(tt.in)
		if tt.wantNil {
			if got != nil {
				t.Errorf("parseEditorVersion(%q) = %+v, want nil", tt.in, got)
			}
			continue
		}
		if got == nil || got.Major != tt.wantMajor || got.Minor != tt.wantMinor {
			t.Errorf("parseEditorVersion(%q) = %+v, want {%d %d}", tt.in, got, tt.wantMajor, tt.wantMinor)
		}
	}
}

func TestLoadEmptyProject(t *testing.T) {
	dir := t.TempDir()
	p, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if p.Manifest.Dependencies.Len() != 0 || p.Manifest.Locked.Len() != 0 {
		t.Fatalf("expected empty manifest for a bare directory, got %+v", p.Manifest)
	}
	if p.UnityVersion != nil {
		t.Fatalf("expected no unity version, got %+v", p.UnityVersion)
	}
	if len(p.UnlockedPackages) != 0 {
		t.Fatalf("expected no unlocked packages, got %+v", p.UnlockedPackages)
	}
}

func TestLoadPopulatedProject(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "Packages", "vpm-manifest.json"), `{
		"dependencies": {"pkg.a": {"version": "^1.0.0"}},
		"locked": {"pkg.a": {"version": "1.0.0", "dependencies": {}}}
	}`)
	writeFile(t, filepath.Join(dir, "Packages", "manifest.json"), `{
		"dependencies": {"com.unity.textmeshpro": "3.0.6"}
	}`)
	writeFile(t, filepath.Join(dir, "ProjectSettings", "ProjectVersion.txt"), "m_EditorVersion: 2019.4.31f1\nm_EditorVersionWithRevision: 2019.4.31f1 (abcdef123456)\n")
	writeFile(t, filepath.Join(dir, "Packages", "pkg.a", "package.json"), `{"name":"pkg.a","version":"1.0.0"}`)
	writeFile(t, filepath.Join(dir, "Packages", "com.example.unlocked", "package.json"), `{"name":"com.example.unlocked","version":"0.1.0"}`)

	p, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if p.UnityVersion == nil || p.UnityVersion.Major != 2019 || p.UnityVersion.Minor != 4 {
		t.Fatalf("unexpected unity version: %+v", p.UnityVersion)
	}
	if p.UpmDependencies["com.unity.textmeshpro"] != "3.0.6" {
		t.Fatalf("unexpected upm dependencies: %+v", p.UpmDependencies)
	}
	if len(p.UnlockedPackages) != 1 || p.UnlockedPackages[0].FolderName != "com.example.unlocked" {
		t.Fatalf("expected exactly the unlocked folder, got %+v", p.UnlockedPackages)
	}
	if p.UnlockedPackages[0].Descriptor == nil || p.UnlockedPackages[0].Descriptor.Name != "com.example.unlocked" {
		t.Fatalf("expected parsed descriptor for unlocked package, got %+v", p.UnlockedPackages[0])
	}
}

func TestLoadUpmManifestMalformedIsNonFatal(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "Packages", "manifest.json"), `not json`)
	p, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if p.UpmDependencies != nil {
		t.Fatalf("expected nil dependencies for malformed upm manifest, got %+v", p.UpmDependencies)
	}
}
