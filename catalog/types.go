package catalog

import (
	"bytes"
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/vrc-community/vpmctl/descriptor"
)

// RemoteRepository is the parsed form of a remote catalog document. The
// raw JSON is retained so unknown keys round-trip when the local cache
// file is rewritten.
type RemoteRepository struct {
	ID       string
	URL      string
	Name     string
	Packages map[string]*PackageVersions
	Raw      json.RawMessage
}

// PackageVersions is the set of known versions of one package name.
type PackageVersions struct {
	Versions map[string]*descriptor.Descriptor
}

type rawRepository struct {
	ID       string                         `json:"id,omitempty"`
	URL      string                         `json:"url,omitempty"`
	Name     string                         `json:"name,omitempty"`
	Packages map[string]rawPackageVersions  `json:"packages"`
}

type rawPackageVersions struct {
	Versions map[string]json.RawMessage `json:"versions"`
}

// ParseRemoteRepository parses a catalog document as served by a VPM
// repository endpoint.
func ParseRemoteRepository(data []byte) (*RemoteRepository, error) {
	var raw rawRepository
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(err, "parsing repository JSON")
	}

	id := raw.ID
	if id == "" {
		id = raw.URL
	}

	r := &RemoteRepository{
		ID:       id,
		URL:      raw.URL,
		Name:     raw.Name,
		Packages: make(map[string]*PackageVersions, len(raw.Packages)),
		Raw:      json.RawMessage(data),
	}

	for name, rpv := range raw.Packages {
		pv := &PackageVersions{Versions: make(map[string]*descriptor.Descriptor, len(rpv.Versions))}
		for verStr, rd := range rpv.Versions {
			d, err := descriptor.ParseStrict(bytes.NewReader(rd))
			if err != nil {
				return nil, errors.Wrapf(err, "parsing %s@%s", name, verStr)
			}
			pv.Versions[verStr] = d
		}
		r.Packages[name] = pv
	}
	return r, nil
}

// LocalCachedRepository is the on-disk representation of one cached
// catalog: the parsed remote repository plus the headers used to fetch
// it and the etag from the last successful conditional GET.
type LocalCachedRepository struct {
	Repo    *RemoteRepository
	Headers map[string]string
	Etag    string

	// Path is the cache file this entry was loaded from/written to.
	Path string
}

type rawLocalCachedRepository struct {
	Repo    json.RawMessage   `json:"repo"`
	Headers map[string]string `json:"headers,omitempty"`
	VrcGet  *struct {
		Etag string `json:"etag,omitempty"`
	} `json:"vrc-get,omitempty"`
}

func decodeLocalCachedRepository(data []byte, path string) (*LocalCachedRepository, error) {
	var raw rawLocalCachedRepository
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrapf(err, "parsing cached repository %s", path)
	}
	repo, err := ParseRemoteRepository(raw.Repo)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing cached repository %s", path)
	}
	lcr := &LocalCachedRepository{Repo: repo, Headers: raw.Headers, Path: path}
	if raw.VrcGet != nil {
		lcr.Etag = raw.VrcGet.Etag
	}
	return lcr, nil
}

func (l *LocalCachedRepository) encode() ([]byte, error) {
	raw := rawLocalCachedRepository{Repo: l.Repo.Raw, Headers: l.Headers}
	if l.Etag != "" {
		raw.VrcGet = &struct {
			Etag string `json:"etag,omitempty"`
		}{Etag: l.Etag}
	}
	return json.MarshalIndent(raw, "", "  ")
}
