// Package catalog implements the repository cache (one on-disk JSON
// file per remote catalog, etag-conditional refresh) and its in-memory
// aggregation into a single package universe.
package catalog

import (
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	flock "github.com/theckman/go-flock"

	"github.com/pkg/errors"
)

// Source describes one configured remote repository.
type Source struct {
	// Key identifies the cache entry; it is also used to derive the
	// on-disk file name.
	Key       string
	Path      string // local cache file path
	RemoteURL string // empty means a purely local (offline-only) source
	Headers   map[string]string
}

// entry is the append-only handle described in the design notes: each
// cache key gets exactly one loader, guarded by a sync.Once so N
// concurrent callers converge on one I/O and one parse.
type entry struct {
	once  sync.Once
	value *LocalCachedRepository
	err   error
}

// Cache owns the set of loaded repositories for one process run.
type Cache struct {
	http *http.Client

	mu      sync.Mutex
	entries map[string]*entry
}

// NewCache returns a Cache. client may be nil, in which case an HTTP
// client with a 30-second timeout is used.
func NewCache(client *http.Client) *Cache {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &Cache{http: client, entries: make(map[string]*entry)}
}

func (c *Cache) getEntry(key string) *entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		e = &entry{}
		c.entries[key] = e
	}
	return e
}

// Load returns the cached repository for src, fetching or refreshing it
// as needed. Concurrent calls for the same src.Key converge on a single
// load. A network error never fails the call: the previously cached
// value (or an empty repository) is returned, matching the "a network
// error for one cache must not fail the aggregation" rule; parse errors
// for an on-disk file are returned as a hard error for this cache only.
func (c *Cache) Load(src Source, offline bool) (*LocalCachedRepository, error) {
	e := c.getEntry(src.Key)
	e.once.Do(func() {
		e.value, e.err = c.load(src, offline)
	})
	return e.value, e.err
}

func (c *Cache) load(src Source, offline bool) (*LocalCachedRepository, error) {
	existing, readErr := readCacheFile(src.Path)
	if readErr != nil {
		return nil, readErr // parse error: fatal for this cache only
	}

	if existing == nil {
		empty := &LocalCachedRepository{
			Repo:    &RemoteRepository{Packages: map[string]*PackageVersions{}},
			Headers: src.Headers,
			Path:    src.Path,
		}
		if offline || src.RemoteURL == "" {
			return empty, nil
		}
		if lcr, err := c.download(src); err == nil {
			return lcr, nil
		}
		// Network failure with nothing stored: present an empty repository.
		return empty, nil
	}

	if offline || src.RemoteURL == "" {
		return existing, nil
	}

	refreshed, err := c.refresh(src, existing)
	if err != nil {
		// Network failure: keep the stored value.
		return existing, nil
	}
	return refreshed, nil
}

func readCacheFile(path string) (*LocalCachedRepository, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "reading cache file %s", path)
	}
	lcr, err := decodeLocalCachedRepository(data, path)
	if err != nil {
		return nil, err
	}
	return lcr, nil
}

// download performs an unconditional GET for a cache file that does not
// exist yet on disk.
func (c *Cache) download(src Source) (*LocalCachedRepository, error) {
	req, err := http.NewRequest(http.MethodGet, src.RemoteURL, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "building request for %s", src.RemoteURL)
	}
	for k, v := range src.Headers {
		req.Header.Set(k, v)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "fetching %s", src.RemoteURL)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("fetching %s: unexpected status %s", src.RemoteURL, resp.Status)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "reading response body from %s", src.RemoteURL)
	}
	repo, err := ParseRemoteRepository(data)
	if err != nil {
		return nil, err
	}
	lcr := &LocalCachedRepository{Repo: repo, Headers: src.Headers, Etag: resp.Header.Get("ETag"), Path: src.Path}
	writeCacheFileBestEffort(lcr)
	return lcr, nil
}

// refresh issues a conditional GET against the stored etag.
func (c *Cache) refresh(src Source, existing *LocalCachedRepository) (*LocalCachedRepository, error) {
	req, err := http.NewRequest(http.MethodGet, src.RemoteURL, nil)
	if err != nil {
		return nil, err
	}
	for k, v := range src.Headers {
		req.Header.Set(k, v)
	}
	if existing.Etag != "" {
		req.Header.Set("If-None-Match", existing.Etag)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusNotModified:
		return existing, nil
	case http.StatusOK:
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}
		repo, err := ParseRemoteRepository(data)
		if err != nil {
			return nil, err
		}
		lcr := &LocalCachedRepository{Repo: repo, Headers: src.Headers, Etag: resp.Header.Get("ETag"), Path: src.Path}
		writeCacheFileBestEffort(lcr)
		return lcr, nil
	default:
		return nil, errors.Errorf("refreshing %s: unexpected status %s", src.RemoteURL, resp.Status)
	}
}

// writeCacheFileBestEffort rewrites the on-disk cache file, guarded by a
// file lock so concurrent writer processes don't corrupt each other's
// output. Losing the lock race is a no-op, matching the "loser's cache
// refresh becomes a no-op" rule.
func writeCacheFileBestEffort(lcr *LocalCachedRepository) {
	if lcr.Path == "" {
		return
	}
	if err := os.MkdirAll(filepath.Dir(lcr.Path), 0777); err != nil {
		return
	}
	lock := flock.NewFlock(lcr.Path + ".lock")
	locked, err := lock.TryLock()
	if err != nil || !locked {
		return
	}
	defer lock.Unlock()

	data, err := lcr.encode()
	if err != nil {
		return
	}
	tmp := lcr.Path + ".tmp"
	if err := os.WriteFile(tmp, data, 0666); err != nil {
		return
	}
	_ = os.Rename(tmp, lcr.Path)
}
