package project

import (
	"strings"
	"testing"

	"github.com/vrc-community/vpmctl/internal/ordered"
	"github.com/vrc-community/vpmctl/vpmver"
)

func mustRange(t *testing.T, s string) vpmver.Range {
	t.Helper()
	r, err := vpmver.ParseRange(s)
	if err != nil {
		t.Fatalf("ParseRange(%q): %v", s, err)
	}
	return r
}

func mustV(t *testing.T, s string) vpmver.Version {
	t.Helper()
	v, err := vpmver.Parse(s)
	if err != nil {
		t.Fatalf("Parse(%q): %v", s, err)
	}
	return v
}

func TestManifestEncodeRoundTrip(t *testing.T) {
	m := NewManifest()
	m.Dependencies.Set("pkg.b", Dependency{Version: mustRange(t, "^2.0.0")})
	m.Dependencies.Set("pkg.a", Dependency{Version: mustRange(t, "^1.0.0")})

	deps := ordered.NewMap[vpmver.Range]()
	m.Locked.Set("pkg.a", LockedPackage{Version: mustV(t, "1.0.0"), Dependencies: deps})

	data, err := m.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	// Insertion order of "dependencies" keys must be preserved: pkg.b
	// was set before pkg.a.
	text := string(data)
	if strings.Index(text, `"pkg.b"`) > strings.Index(text, `"pkg.a"`) {
		t.Fatalf("expected pkg.b to precede pkg.a in encoded output:\n%s", text)
	}

	round, err := ReadManifest(strings.NewReader(text))
	if err != nil {
		t.Fatalf("ReadManifest: %v", err)
	}
	if round.Dependencies.Len() != 2 {
		t.Fatalf("expected 2 dependencies, got %d", round.Dependencies.Len())
	}
	dep, ok := round.Dependencies.Get("pkg.a")
	if !ok || dep.Version.String() != "^1.0.0" {
		t.Fatalf("pkg.a dependency mismatch: %+v ok=%v", dep, ok)
	}
	locked, ok := round.Locked.Get("pkg.a")
	if !ok || locked.Version.String() != "1.0.0" {
		t.Fatalf("pkg.a locked mismatch: %+v ok=%v", locked, ok)
	}
}

func TestDependencyJSONShape(t *testing.T) {
	d := Dependency{Version: mustRange(t, "^1.0.0")}
	data, err := d.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON: %v", err)
	}
	if string(data) != `{"version":"^1.0.0"}` {
		t.Fatalf("unexpected encoding: %s", data)
	}
}

func TestLockedPackageJSONShapeNoDependencies(t *testing.T) {
	l := LockedPackage{Version: mustV(t, "1.0.0"), Dependencies: ordered.NewMap[vpmver.Range]()}
	data, err := l.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON: %v", err)
	}
	if string(data) != `{"version":"1.0.0"}` {
		t.Fatalf("unexpected encoding: %s", data)
	}
}

func TestReadManifestEmptyFile(t *testing.T) {
	m, err := ReadManifest(strings.NewReader(`{"dependencies":{},"locked":{}}`))
	if err != nil {
		t.Fatalf("ReadManifest: %v", err)
	}
	if m.Dependencies.Len() != 0 || m.Locked.Len() != 0 {
		t.Fatalf("expected empty manifest, got %+v", m)
	}
}

func TestReadManifestMissingSections(t *testing.T) {
	m, err := ReadManifest(strings.NewReader(`{}`))
	if err != nil {
		t.Fatalf("ReadManifest: %v", err)
	}
	if m.Dependencies == nil || m.Locked == nil {
		t.Fatalf("expected non-nil maps even when sections are absent, got %+v", m)
	}
}
