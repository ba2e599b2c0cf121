package planner

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/karrick/godirwalk"

	"github.com/vrc-community/vpmctl/internal/fdlimit"
)

// legacyScanConcurrencyCeiling caps how many .meta files are inspected
// at once during a GUID scan, even on a box with a very high file
// descriptor limit.
const legacyScanConcurrencyCeiling = 32

// legacyScanConcurrency returns how many .meta files to inspect
// concurrently: a quarter of the process's file descriptor limit (each
// goroutine holds at most one file open), floored at 1 and capped at
// legacyScanConcurrencyCeiling. Falls back to a conservative default
// when the limit can't be determined.
func legacyScanConcurrency() int {
	const fallback = 4
	limit, err := fdlimit.Current()
	if err != nil || limit == 0 {
		return fallback
	}
	n := int(limit / 4)
	if n < 1 {
		n = 1
	}
	if n > legacyScanConcurrencyCeiling {
		n = legacyScanConcurrencyCeiling
	}
	return n
}

// findByGUID performs a breadth-first walk of dir's Assets/ and
// Packages/ trees looking for a "*.meta" file whose guid: line matches
// guid and whose companion asset matches wantDir (directory vs file).
// Symlinks to absolute targets are not descended into.
func findByGUID(dir, guid string, wantDir bool) (string, bool) {
	var queue []string
	for _, root := range []string{filepath.Join(dir, "Assets"), filepath.Join(dir, "Packages")} {
		if _, err := os.Lstat(root); err == nil {
			queue = append(queue, root)
		}
	}

	var (
		mu      sync.Mutex
		found   string
		foundOK bool
	)

	for len(queue) > 0 && !foundOK {
		level := queue
		queue = nil

		var wg sync.WaitGroup
		sem := make(chan struct{}, legacyScanConcurrency())

		for _, d := range level {
			entries, err := godirwalk.ReadDirents(d, nil)
			if err != nil {
				continue
			}
			for _, e := range entries {
				full := filepath.Join(d, e.Name())

				if e.IsSymlink() {
					target, err := os.Readlink(full)
					if err == nil && filepath.IsAbs(target) {
						continue
					}
				}
				if e.IsDir() {
					queue = append(queue, full)
					continue
				}
				if !strings.HasSuffix(e.Name(), ".meta") {
					continue
				}

				wg.Add(1)
				sem <- struct{}{}
				go func(metaPath string) {
					defer wg.Done()
					defer func() { <-sem }()
					match, isDir := metaMatches(metaPath, guid)
					if !match || isDir != wantDir {
						return
					}
					mu.Lock()
					if !foundOK {
						found, foundOK = strings.TrimSuffix(metaPath, ".meta"), true
					}
					mu.Unlock()
				}(full)
			}
		}
		wg.Wait()
	}
	return found, foundOK
}

// metaMatches reports whether metaPath's "guid:" line equals guid, and
// whether the asset it describes is currently a directory.
func metaMatches(metaPath, guid string) (match bool, isDir bool) {
	assetPath := strings.TrimSuffix(metaPath, ".meta")
	if fi, err := os.Stat(assetPath); err == nil {
		isDir = fi.IsDir()
	}

	f, err := os.Open(metaPath)
	if err != nil {
		return false, isDir
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if !strings.HasPrefix(line, "guid:") {
			continue
		}
		return strings.TrimSpace(strings.TrimPrefix(line, "guid:")) == guid, isDir
	}
	return false, isDir
}
