package main

import (
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/vrc-community/vpmctl/catalog"
	"github.com/vrc-community/vpmctl/internal/config"
	"github.com/vrc-community/vpmctl/project"
)

// Ctx carries the state every subcommand needs: where to log, which
// project directory to operate on, the global settings file, and a
// process-lifetime repository cache shared across commands that load
// the universe more than once in a single run.
type Ctx struct {
	Loggers

	ProjectDir string
	Offline    bool
	Prerelease bool

	Settings *config.Settings
	Cache    *catalog.Cache
}

// LoadProject loads the VPM project rooted at c.ProjectDir.
func (c *Ctx) LoadProject() (*project.Project, error) {
	return project.Load(c.ProjectDir)
}

// Universe loads every configured repository into a queryable package
// universe, honoring c.Offline.
func (c *Ctx) Universe() (*catalog.Universe, error) {
	cacheRoot, err := c.Settings.CacheRootOrDefault()
	if err != nil {
		return nil, err
	}

	var repos []*catalog.LocalCachedRepository
	for _, r := range c.Settings.Repos {
		src := catalog.Source{
			Key:       r.Name,
			Path:      filepath.Join(cacheRoot, "Repos", repoCacheFileName(r.Name), "repo.json"),
			RemoteURL: r.URL,
			Headers:   r.Headers,
		}
		lcr, err := c.Cache.Load(src, c.Offline)
		if err != nil {
			return nil, errors.Wrapf(err, "loading repository %s", r.Name)
		}
		repos = append(repos, lcr)
	}
	return catalog.NewUniverse(repos, nil), nil
}

// repoCacheFileName derives a filesystem-safe cache directory name from
// a repository's configured name: the hex-encoded SHA-256 of the name,
// rather than a hand-sanitized copy of it.
func repoCacheFileName(name string) string {
	sum := sha256.Sum256([]byte(name))
	return hex.EncodeToString(sum[:])
}

func newCtx(loggers Loggers, projectDir string, settings *config.Settings) *Ctx {
	return &Ctx{
		Loggers:    loggers,
		ProjectDir: projectDir,
		Settings:   settings,
		Cache:      catalog.NewCache(http.DefaultClient),
	}
}
