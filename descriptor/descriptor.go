// Package descriptor provides a typed view of a VPM package descriptor —
// the unit record inside a repository's "packages" map and inside a
// project's on-disk package folders.
package descriptor

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/pkg/errors"
	"github.com/vrc-community/vpmctl/internal/ordered"
	"github.com/vrc-community/vpmctl/vpmver"
)

// UnityVersion is an (major, minor) Unity editor version, e.g. 2019.4.
type UnityVersion struct {
	Major, Minor int
}

// Less reports whether u orders before o.
func (u UnityVersion) Less(o UnityVersion) bool {
	if u.Major != o.Major {
		return u.Major < o.Major
	}
	return u.Minor < o.Minor
}

// YankState records whether a version has been yanked and, if so, why.
type YankState struct {
	Yanked bool
	Reason string
}

// Descriptor is the typed view of a package's metadata.
type Descriptor struct {
	Name            string
	Version         vpmver.Version
	DisplayName     string
	Description     string
	URL             string
	ZipSHA256       string
	VpmDependencies *ordered.Map[vpmver.Range]
	LegacyFolders   *ordered.Map[string] // path -> optional guid
	LegacyFiles     *ordered.Map[string] // path -> optional guid
	LegacyPackages  []string
	Unity           *UnityVersion
	Headers         map[string]string
	Yanked          YankState

	// Raw retains the original JSON object so unrecognized fields
	// round-trip when the descriptor is re-serialized as part of a
	// cached repository.
	Raw json.RawMessage
}

type rawDescriptor struct {
	Name           string                       `json:"name"`
	Version        string                       `json:"version"`
	DisplayName    string                       `json:"displayName,omitempty"`
	Description    string                       `json:"description,omitempty"`
	URL            string                       `json:"url,omitempty"`
	ZipSHA256      string                       `json:"zipSHA256,omitempty"`
	VpmDependencies map[string]string           `json:"vpmDependencies,omitempty"`
	LegacyFolders  map[string]*string           `json:"legacyFolders,omitempty"`
	LegacyFiles    map[string]*string           `json:"legacyFiles,omitempty"`
	LegacyPackages []string                     `json:"legacyPackages,omitempty"`
	Unity          string                       `json:"unity,omitempty"`
	Headers        map[string]string            `json:"headers,omitempty"`
	Yanked         json.RawMessage              `json:"yanked,omitempty"`
}

// ParseStrict parses a catalog descriptor. name and version are required;
// version must parse under vpmver's strict grammar.
func ParseStrict(r io.Reader) (*Descriptor, error) {
	raw, rd, err := decodeRaw(r)
	if err != nil {
		return nil, errors.Wrap(err, "decoding package descriptor")
	}
	if rd.Name == "" {
		return nil, errors.New("package descriptor missing required field \"name\"")
	}
	if rd.Version == "" {
		return nil, errors.New("package descriptor missing required field \"version\"")
	}
	return fromRaw(raw, rd, false)
}

// ParseLoose parses a descriptor found in an on-disk "unlocked" package
// folder. Unrecognized-schema problems are returned as warnings rather
// than errors; callers should skip the folder on warnings rather than
// abort the whole walk.
func ParseLoose(r io.Reader) (*Descriptor, []string, error) {
	raw, rd, err := decodeRaw(r)
	if err != nil {
		return nil, nil, errors.Wrap(err, "decoding package descriptor")
	}
	var warnings []string
	if rd.Name == "" {
		warnings = append(warnings, "missing \"name\"")
	}
	if rd.Version == "" {
		warnings = append(warnings, "missing \"version\"")
		d, _ := fromRaw(raw, rd, true)
		return d, warnings, nil
	}
	d, err := fromRaw(raw, rd, true)
	if err != nil {
		warnings = append(warnings, err.Error())
	}
	return d, warnings, nil
}

func decodeRaw(r io.Reader) (json.RawMessage, rawDescriptor, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, rawDescriptor{}, err
	}
	var rd rawDescriptor
	if err := json.Unmarshal(data, &rd); err != nil {
		return nil, rawDescriptor{}, err
	}
	return json.RawMessage(data), rd, nil
}

func fromRaw(raw json.RawMessage, rd rawDescriptor, loose bool) (*Descriptor, error) {
	d := &Descriptor{
		Name:           rd.Name,
		DisplayName:    rd.DisplayName,
		Description:    rd.Description,
		URL:            rd.URL,
		ZipSHA256:      rd.ZipSHA256,
		LegacyPackages: rd.LegacyPackages,
		Headers:        rd.Headers,
		Raw:            raw,
	}

	if rd.Version != "" {
		v, err := vpmver.Parse(rd.Version)
		if err != nil {
			if loose {
				return d, errors.Wrapf(err, "parsing version of %s", rd.Name)
			}
			return nil, errors.Wrapf(err, "parsing version of %s", rd.Name)
		}
		d.Version = v
	}

	d.VpmDependencies = ordered.NewMap[vpmver.Range]()
	for name, rng := range rd.VpmDependencies {
		r, err := vpmver.ParseRange(rng)
		if err != nil {
			if loose {
				continue
			}
			return nil, errors.Wrapf(err, "parsing dependency range %s for %s", name, rd.Name)
		}
		d.VpmDependencies.Set(name, r)
	}

	d.LegacyFolders = ordered.NewMap[string]()
	for path, guid := range rd.LegacyFolders {
		g := ""
		if guid != nil {
			g = *guid
		}
		d.LegacyFolders.Set(path, g)
	}
	d.LegacyFiles = ordered.NewMap[string]()
	for path, guid := range rd.LegacyFiles {
		g := ""
		if guid != nil {
			g = *guid
		}
		d.LegacyFiles.Set(path, g)
	}

	if rd.Unity != "" {
		u, err := parseUnityVersion(rd.Unity)
		if err != nil && !loose {
			return nil, errors.Wrapf(err, "parsing unity version for %s", rd.Name)
		}
		if err == nil {
			d.Unity = &u
		}
	}

	if len(rd.Yanked) > 0 {
		d.Yanked = parseYanked(rd.Yanked)
	}

	return d, nil
}

func parseYanked(raw json.RawMessage) YankState {
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return YankState{Yanked: b}
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil && s != "" {
		return YankState{Yanked: true, Reason: s}
	}
	return YankState{}
}

func parseUnityVersion(s string) (UnityVersion, error) {
	var major, minor int
	n, err := fmt.Sscanf(s, "%d.%d", &major, &minor)
	if err != nil || n < 1 {
		return UnityVersion{}, errors.Errorf("invalid unity version %q", s)
	}
	return UnityVersion{Major: major, Minor: minor}, nil
}
