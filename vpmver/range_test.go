package vpmver

import "testing"

func mustV(t *testing.T, s string) Version {
	t.Helper()
	v, err := Parse(s)
	if err != nil {
		t.Fatalf("Parse(%q): %v", s, err)
	}
	return v
}

func TestRangeMatches(t *testing.T) {
	tests := []struct {
		rng  string
		ver  string
		want bool
	}{
		{"1.2.3", "1.2.3", true},
		{"1.2.3", "1.2.4", false},
		{"^1.2.3", "1.2.3", true},
		{"^1.2.3", "1.9.9", true},
		{"^1.2.3", "2.0.0", false},
		{"^0.2.3", "0.2.9", true},
		{"^0.2.3", "0.3.0", false},
		{"^0.0.3", "0.0.3", true},
		{"^0.0.3", "0.0.4", false},
		{"~1.2.3", "1.2.9", true},
		{"~1.2.3", "1.3.0", false},
		{"~1.2", "1.2.9", true},
		{"~1", "1.9.9", true},
		{"~1", "2.0.0", false},
		{"1.x", "1.5.0", true},
		{"1.x", "2.0.0", false},
		{"*", "9.9.9", true},
		{"1.2.3 - 2.3.4", "2.0.0", true},
		{"1.2.3 - 2.3.4", "2.3.5", false},
		{"1.2.3 - 2.3", "2.3.99", true},
		{"1.2.3 - 2.3", "2.4.0", false},
		{">=1.0.0", "1.0.0", true},
		{">=1.0.0", "0.9.9", false},
		{"<2.0.0", "1.9.9", true},
		{"<2.0.0", "2.0.0", false},
		{"1.0.0 || 2.0.0", "2.0.0", true},
		{"1.0.0 || 2.0.0", "1.5.0", false},
	}
	for _, tc := range tests {
		r, err := ParseRange(tc.rng)
		if err != nil {
			t.Fatalf("ParseRange(%q): %v", tc.rng, err)
		}
		v := mustV(t, tc.ver)
		if got := r.Matches(v, false); got != tc.want {
			t.Errorf("ParseRange(%q).Matches(%q) = %v, want %v", tc.rng, tc.ver, got, tc.want)
		}
	}
}

func TestRangePrereleasePolicy(t *testing.T) {
	r, err := ParseRange("^1.0.0")
	if err != nil {
		t.Fatal(err)
	}
	pre := mustV(t, "1.1.0-beta.1")
	if r.Matches(pre, false) {
		t.Error("^1.0.0 should not match 1.1.0-beta.1 without allow_prerelease")
	}
	if !r.Matches(pre, true) {
		t.Error("^1.0.0 should match 1.1.0-beta.1 with allow_prerelease=true")
	}

	r2, err := ParseRange("^1.0.0-0")
	if err != nil {
		t.Fatal(err)
	}
	if !r2.Matches(pre, false) {
		t.Error("^1.0.0-0 should match 1.1.0-beta.1 even without allow_prerelease, since the literal bound carries a prerelease tag")
	}
}

func TestRangeMonotoneInAllowPrerelease(t *testing.T) {
	r, err := ParseRange("^1.0.0")
	if err != nil {
		t.Fatal(err)
	}
	v := mustV(t, "1.1.0-beta.1")
	if r.Matches(v, false) && !r.Matches(v, true) {
		t.Error("allow_prerelease=false matching but true not matching violates monotonicity")
	}
}
