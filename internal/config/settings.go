// Package config reads and writes the user-global vpmctl settings file:
// known repositories, an optional cache root override, and resolver
// defaults that apply across all projects.
package config

import (
	"io"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"
)

// RepoSetting is one configured remote repository.
type RepoSetting struct {
	Name    string            `toml:"name"`
	URL     string            `toml:"url"`
	Headers map[string]string `toml:"headers"`
}

// Settings is the user-global configuration persisted to
// "<user config dir>/vpmctl/settings.toml".
type Settings struct {
	CacheRoot              string        `toml:"cache_root"`
	Repos                  []RepoSetting `toml:"repo"`
	DefaultAllowPrerelease bool          `toml:"default_allow_prerelease"`
	HashMismatchIsFatal    bool          `toml:"hash_mismatch_is_fatal"`
}

type rawSettings struct {
	CacheRoot string `toml:"cache_root"`
	Resolver  struct {
		DefaultAllowPrerelease bool `toml:"default_allow_prerelease"`
		HashMismatchIsFatal    bool `toml:"hash_mismatch_is_fatal"`
	} `toml:"resolver"`
	Repo []RepoSetting `toml:"repo"`
}

// DefaultPath returns the platform settings file path, honoring
// VPMCTL_CONFIG_DIR for tests and CI.
func DefaultPath() (string, error) {
	if dir := os.Getenv("VPMCTL_CONFIG_DIR"); dir != "" {
		return filepath.Join(dir, "settings.toml"), nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", errors.Wrap(err, "locating user config directory")
	}
	return filepath.Join(dir, "vpmctl", "settings.toml"), nil
}

// Load reads settings from path. A missing file yields zero-value
// Settings and no error, matching the CLI's "works with no config"
// contract.
func Load(path string) (*Settings, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return &Settings{}, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", path)
	}
	defer f.Close()
	return read(f)
}

func read(r io.Reader) (*Settings, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var raw rawSettings
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(err, "parsing settings")
	}
	return &Settings{
		CacheRoot:              raw.CacheRoot,
		Repos:                  raw.Repo,
		DefaultAllowPrerelease: raw.Resolver.DefaultAllowPrerelease,
		HashMismatchIsFatal:    raw.Resolver.HashMismatchIsFatal,
	}, nil
}

// Save writes s to path, creating parent directories as needed.
func (s *Settings) Save(path string) error {
	raw := rawSettings{CacheRoot: s.CacheRoot, Repo: s.Repos}
	raw.Resolver.DefaultAllowPrerelease = s.DefaultAllowPrerelease
	raw.Resolver.HashMismatchIsFatal = s.HashMismatchIsFatal

	data, err := toml.Marshal(raw)
	if err != nil {
		return errors.Wrap(err, "encoding settings")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0777); err != nil {
		return errors.Wrapf(err, "creating %s", filepath.Dir(path))
	}
	return os.WriteFile(path, data, 0666)
}

// CacheRootOrDefault returns s.CacheRoot if set, else the platform cache
// directory joined with "VRChatPackageManager".
func (s *Settings) CacheRootOrDefault() (string, error) {
	if s.CacheRoot != "" {
		return s.CacheRoot, nil
	}
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", errors.Wrap(err, "locating user cache directory")
	}
	return filepath.Join(dir, "VRChatPackageManager"), nil
}

// AddRepo appends or replaces a repo entry by name.
func (s *Settings) AddRepo(r RepoSetting) {
	for i, existing := range s.Repos {
		if existing.Name == r.Name {
			s.Repos[i] = r
			return
		}
	}
	s.Repos = append(s.Repos, r)
}

// RemoveRepo removes the repo entry named name, reporting whether one
// was found.
func (s *Settings) RemoveRepo(name string) bool {
	for i, r := range s.Repos {
		if r.Name == name {
			s.Repos = append(s.Repos[:i], s.Repos[i+1:]...)
			return true
		}
	}
	return false
}
