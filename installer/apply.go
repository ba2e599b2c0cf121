package installer

import (
	"log"
	"net/http"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/vrc-community/vpmctl/internal/fs"
	"github.com/vrc-community/vpmctl/internal/ordered"
	"github.com/vrc-community/vpmctl/planner"
	"github.com/vrc-community/vpmctl/project"
	"github.com/vrc-community/vpmctl/vpmver"
)

// Options configures one Apply call.
type Options struct {
	CacheRoot         string
	HTTPClient        *http.Client
	HashMismatchFatal bool
	Logger            *log.Logger
}

// Apply executes plan against p's directory in the commit order
// required for crash safety: (1) extract/copy every install, (2)
// remove packages, (3) remove legacy assets, (4) write the manifest. A
// failure before step 4 leaves the tree dirty but the manifest
// untouched, which is recoverable by re-running resolve.
func Apply(p *project.Project, plan *planner.PendingChanges, opts Options) error {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(os.Stderr, "", 0)
	}
	client := opts.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}

	for _, in := range plan.Installs {
		dest := filepath.Join(p.Dir, "Packages", in.Descriptor.Name)
		staging := dest + ".vpmctl-staging"
		os.RemoveAll(staging)

		if in.LocalPath != "" {
			if err := copyLocal(in.LocalPath, staging); err != nil {
				os.RemoveAll(staging)
				return errors.Wrapf(err, "copying local package %s", in.Descriptor.Name)
			}
		} else {
			headers := mergedHeaders(in.Descriptor.Headers, in.RepoHeaders)
			zipPath, hashOK, err := fetchArchive(client, opts.CacheRoot, in.Descriptor.Name, in.Descriptor.Version.String(), in.Descriptor.URL, headers, in.Descriptor.ZipSHA256)
			if err != nil {
				return errors.Wrapf(err, "fetching %s", in.Descriptor.Name)
			}
			if !hashOK {
				msg := "downloaded archive hash does not match the declared zipSHA256 for " + in.Descriptor.Name
				if opts.HashMismatchFatal {
					return errors.New(msg)
				}
				logger.Printf("warning: %s", msg)
			}
			if err := extractZip(zipPath, staging); err != nil {
				os.RemoveAll(staging)
				return errors.Wrapf(err, "extracting %s", in.Descriptor.Name)
			}
		}

		if err := os.RemoveAll(dest); err != nil {
			os.RemoveAll(staging)
			return errors.Wrapf(err, "removing previous %s before install", in.Descriptor.Name)
		}
		if err := fs.RenameWithFallback(staging, dest); err != nil {
			return errors.Wrapf(err, "installing %s", in.Descriptor.Name)
		}
	}

	for _, rm := range plan.Removes {
		dest := filepath.Join(p.Dir, "Packages", rm.Name)
		if err := os.RemoveAll(dest); err != nil {
			return errors.Wrapf(err, "removing %s", rm.Name)
		}
	}

	for _, asset := range plan.LegacyAssets {
		full := filepath.Join(p.Dir, asset.Path)
		if err := os.RemoveAll(full); err != nil && !os.IsNotExist(err) {
			return errors.Wrapf(err, "removing legacy asset %s", asset.Path)
		}
	}

	updateManifest(p.Manifest, plan)
	return p.Manifest.Save(p.Dir)
}

// mergedHeaders merges repo and package HTTP headers, with package
// headers winning on key collision (spec: repo.headers ∪ package.headers,
// package wins).
func mergedHeaders(packageHeaders, repoHeaders map[string]string) map[string]string {
	merged := map[string]string{}
	for k, v := range repoHeaders {
		merged[k] = v
	}
	for k, v := range packageHeaders {
		merged[k] = v
	}
	if len(merged) == 0 {
		return nil
	}
	return merged
}

// updateManifest folds a completed plan's installs/removes into the
// project manifest's locked state in memory; the caller still owns
// writing it (Apply calls Manifest.Save immediately after).
func updateManifest(m *project.Manifest, plan *planner.PendingChanges) {
	for _, in := range plan.Installs {
		deps := ordered.NewMap[vpmver.Range]()
		if in.Descriptor.VpmDependencies != nil {
			in.Descriptor.VpmDependencies.Range(func(name string, r vpmver.Range) bool {
				deps.Set(name, r)
				return true
			})
		}
		m.Locked.Set(in.Descriptor.Name, project.LockedPackage{Version: in.Descriptor.Version, Dependencies: deps})
		if in.ToDependencies {
			m.Dependencies.Set(in.Descriptor.Name, project.Dependency{Version: in.DependencyRange})
		}
	}
	for _, rm := range plan.Removes {
		m.Locked.Delete(rm.Name)
		m.Dependencies.Delete(rm.Name)
	}
}
