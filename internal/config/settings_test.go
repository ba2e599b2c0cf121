package config

import (
	"strings"
	"testing"
)

func TestReadSettings(t *testing.T) {
	const doc = `
cache_root = "/tmp/vpm-cache"

[resolver]
default_allow_prerelease = true
hash_mismatch_is_fatal = false

[[repo]]
name = "curated"
url = "https://packages.vrchat.com/curated"
`
	s, err := read(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if s.CacheRoot != "/tmp/vpm-cache" {
		t.Errorf("CacheRoot = %q", s.CacheRoot)
	}
	if !s.DefaultAllowPrerelease {
		t.Error("DefaultAllowPrerelease = false, want true")
	}
	if len(s.Repos) != 1 || s.Repos[0].Name != "curated" {
		t.Errorf("Repos = %+v", s.Repos)
	}
}

func TestAddRemoveRepo(t *testing.T) {
	s := &Settings{}
	s.AddRepo(RepoSetting{Name: "a", URL: "https://a"})
	s.AddRepo(RepoSetting{Name: "b", URL: "https://b"})
	s.AddRepo(RepoSetting{Name: "a", URL: "https://a2"}) // replace
	if len(s.Repos) != 2 {
		t.Fatalf("Repos = %+v", s.Repos)
	}
	if s.Repos[0].URL != "https://a2" {
		t.Errorf("expected replace in place, got %+v", s.Repos[0])
	}
	if !s.RemoveRepo("a") {
		t.Error("RemoveRepo(a) = false")
	}
	if len(s.Repos) != 1 || s.Repos[0].Name != "b" {
		t.Errorf("Repos after remove = %+v", s.Repos)
	}
}

func TestLoadMissingFileIsNotError(t *testing.T) {
	s, err := Load("/nonexistent/path/settings.toml")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.CacheRoot != "" {
		t.Errorf("expected zero-value Settings, got %+v", s)
	}
}
