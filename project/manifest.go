// Package project reads and writes a VPM project: its manifest, the
// legacy UPM manifest, the Unity version file, and the set of on-disk
// package folders not referenced by the lock.
package project

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/pkg/errors"
	"github.com/vrc-community/vpmctl/internal/ordered"
	"github.com/vrc-community/vpmctl/vpmver"
)

// Dependency is one entry of the manifest's user-declared "dependencies".
type Dependency struct {
	Version vpmver.Range
}

type rawDependency struct {
	Version string `json:"version"`
}

// MarshalJSON renders d as {"version": "<range>"}.
func (d Dependency) MarshalJSON() ([]byte, error) {
	return json.Marshal(rawDependency{Version: d.Version.String()})
}

// UnmarshalJSON parses {"version": "<range>"}.
func (d *Dependency) UnmarshalJSON(data []byte) error {
	var raw rawDependency
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	r, err := vpmver.ParseRange(raw.Version)
	if err != nil {
		return errors.Wrap(err, "parsing dependency version range")
	}
	d.Version = r
	return nil
}

// LockedPackage is one entry of the manifest's resolved "locked" state.
type LockedPackage struct {
	Version      vpmver.Version
	Dependencies *ordered.Map[vpmver.Range]
}

type rawLockedPackage struct {
	Version      string                     `json:"version"`
	Dependencies *ordered.Map[jsonRangeStr] `json:"dependencies,omitempty"`
}

// jsonRangeStr is vpmver.Range's textual form, used only during
// (de)serialization of the locked dependency map.
type jsonRangeStr string

func (l LockedPackage) MarshalJSON() ([]byte, error) {
	raw := rawLockedPackage{Version: l.Version.String()}
	if l.Dependencies != nil && l.Dependencies.Len() > 0 {
		deps := ordered.NewMap[jsonRangeStr]()
		l.Dependencies.Range(func(k string, v vpmver.Range) bool {
			deps.Set(k, jsonRangeStr(v.String()))
			return true
		})
		raw.Dependencies = deps
	}
	return json.Marshal(raw)
}

func (l *LockedPackage) UnmarshalJSON(data []byte) error {
	var raw rawLockedPackage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	v, err := vpmver.Parse(raw.Version)
	if err != nil {
		return errors.Wrap(err, "parsing locked package version")
	}
	l.Version = v
	l.Dependencies = ordered.NewMap[vpmver.Range]()
	if raw.Dependencies != nil {
		raw.Dependencies.Range(func(k string, v jsonRangeStr) bool {
			r, rerr := vpmver.ParseRange(string(v))
			if rerr != nil {
				err = rerr
				return false
			}
			l.Dependencies.Set(k, r)
			return true
		})
	}
	return err
}

// Manifest is the typed view of Packages/vpm-manifest.json. Dependencies
// is the user's declared intent; Locked is the resolved state. Both
// preserve insertion order across reads and writes.
type Manifest struct {
	Dependencies *ordered.Map[Dependency]
	Locked       *ordered.Map[LockedPackage]
}

type rawManifest struct {
	Dependencies *ordered.Map[Dependency]    `json:"dependencies"`
	Locked       *ordered.Map[LockedPackage] `json:"locked"`
}

// NewManifest returns an empty manifest.
func NewManifest() *Manifest {
	return &Manifest{Dependencies: ordered.NewMap[Dependency](), Locked: ordered.NewMap[LockedPackage]()}
}

// ReadManifest parses Packages/vpm-manifest.json under its strict schema.
func ReadManifest(r io.Reader) (*Manifest, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var raw rawManifest
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(err, "parsing vpm-manifest.json")
	}
	m := &Manifest{Dependencies: raw.Dependencies, Locked: raw.Locked}
	if m.Dependencies == nil {
		m.Dependencies = ordered.NewMap[Dependency]()
	}
	if m.Locked == nil {
		m.Locked = ordered.NewMap[LockedPackage]()
	}
	return m, nil
}

// Encode serializes m with 2-space indentation and insertion-order-
// preserving keys. Line endings are always "\n"; callers writing to disk
// should use Manifest.Save instead, which converts them to the
// platform-native EOL.
func (m *Manifest) Encode() ([]byte, error) {
	raw := rawManifest{Dependencies: m.Dependencies, Locked: m.Locked}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(raw); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
