// Package vpmver implements the semver-with-npm-ranges dialect used to
// order and satisfy VPM package versions.
package vpmver

import (
	"strconv"
	"strings"
)

// maxSegment is the largest value a major/minor/patch/numeric-identifier
// segment may hold; anything larger is a parse error.
const maxSegment = 1<<63 - 1

// ErrorKind classifies a parse failure.
type ErrorKind int

const (
	// UnexpectedEnd means the input ran out before a required segment.
	UnexpectedEnd ErrorKind = iota
	// InvalidChar means an unexpected character was encountered.
	InvalidChar
	// SegmentTooBig means a numeric segment overflowed maxSegment.
	SegmentTooBig
)

// ParseError reports why a version or range string failed to parse.
type ParseError struct {
	Kind  ErrorKind
	Input string
	Msg   string
}

func (e *ParseError) Error() string {
	return "vpmver: parsing " + strconv.Quote(e.Input) + ": " + e.Msg
}

func parseErr(kind ErrorKind, input, msg string) *ParseError {
	return &ParseError{Kind: kind, Input: input, Msg: msg}
}

// Version is a parsed (major, minor, patch) triple plus prerelease and
// build metadata. Identifiers are immutable once constructed.
type Version struct {
	Major, Minor, Patch uint64
	Prerelease          []string
	Build               []string
}

// Parse parses a strict major.minor.patch[-prerelease][+build] version.
// All three numeric segments are required.
func Parse(s string) (Version, error) {
	return parseVersion(s, false)
}

// parseVersion parses s. When loose is true, missing minor/patch segments
// default to zero instead of failing — used internally by range parsing,
// never exposed for bare version parsing (spec: "omitted segments in a
// version context fail").
func parseVersion(s string, loose bool) (Version, error) {
	orig := s
	rest := s

	major, rest, err := takeNumericSegment(rest, orig)
	if err != nil {
		return Version{}, err
	}

	var minor, patch uint64
	if strings.HasPrefix(rest, ".") {
		minor, rest, err = takeNumericSegment(rest[1:], orig)
		if err != nil {
			return Version{}, err
		}
		if strings.HasPrefix(rest, ".") {
			patch, rest, err = takeNumericSegment(rest[1:], orig)
			if err != nil {
				return Version{}, err
			}
		} else if !loose {
			return Version{}, parseErr(UnexpectedEnd, orig, "missing patch segment")
		}
	} else if !loose {
		return Version{}, parseErr(UnexpectedEnd, orig, "missing minor segment")
	}

	var pre, build []string
	if strings.HasPrefix(rest, "-") {
		rest = rest[1:]
		var raw string
		if i := strings.IndexByte(rest, '+'); i >= 0 {
			raw, rest = rest[:i], rest[i:]
		} else {
			raw, rest = rest, ""
		}
		pre, err = splitIdentifiers(raw, orig, true)
		if err != nil {
			return Version{}, err
		}
	}
	if strings.HasPrefix(rest, "+") {
		rest = rest[1:]
		build, err = splitIdentifiers(rest, orig, false)
		if err != nil {
			return Version{}, err
		}
		rest = ""
	}
	if rest != "" {
		return Version{}, parseErr(InvalidChar, orig, "unexpected trailing input "+strconv.Quote(rest))
	}

	return Version{Major: major, Minor: minor, Patch: patch, Prerelease: pre, Build: build}, nil
}

func takeNumericSegment(s, orig string) (uint64, string, error) {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == 0 {
		return 0, s, parseErr(UnexpectedEnd, orig, "expected a numeric segment")
	}
	digits := s[:i]
	if len(digits) > 1 && digits[0] == '0' {
		return 0, s, parseErr(InvalidChar, orig, "numeric segment has a leading zero")
	}
	n, err := strconv.ParseUint(digits, 10, 64)
	if err != nil || n > maxSegment {
		return 0, s, parseErr(SegmentTooBig, orig, "numeric segment overflows 63 bits")
	}
	return n, s[i:], nil
}

func splitIdentifiers(s, orig string, numericRule bool) ([]string, error) {
	if s == "" {
		return nil, parseErr(UnexpectedEnd, orig, "empty identifier list")
	}
	parts := strings.Split(s, ".")
	for _, p := range parts {
		if p == "" {
			return nil, parseErr(UnexpectedEnd, orig, "empty identifier component")
		}
		for _, c := range p {
			if !isIdentChar(c) {
				return nil, parseErr(InvalidChar, orig, "invalid identifier character "+strconv.QuoteRune(c))
			}
		}
		if numericRule && isAllDigits(p) && len(p) > 1 && p[0] == '0' {
			return nil, parseErr(InvalidChar, orig, "numeric prerelease identifier has a leading zero")
		}
	}
	return parts, nil
}

func isIdentChar(c rune) bool {
	return c == '-' || (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isAllDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// String renders v back to its canonical textual form. Well-formed input
// never carries redundant zeros, so rendering is lossless.
func (v Version) String() string {
	var b strings.Builder
	b.WriteString(strconv.FormatUint(v.Major, 10))
	b.WriteByte('.')
	b.WriteString(strconv.FormatUint(v.Minor, 10))
	b.WriteByte('.')
	b.WriteString(strconv.FormatUint(v.Patch, 10))
	if len(v.Prerelease) > 0 {
		b.WriteByte('-')
		b.WriteString(strings.Join(v.Prerelease, "."))
	}
	if len(v.Build) > 0 {
		b.WriteByte('+')
		b.WriteString(strings.Join(v.Build, "."))
	}
	return b.String()
}

// IsPrerelease reports whether v carries a prerelease tag.
func (v Version) IsPrerelease() bool {
	return len(v.Prerelease) > 0
}

// Compare returns -1, 0, or 1 as v is less than, equal to, or greater than
// o. Build metadata never participates.
func (v Version) Compare(o Version) int {
	if c := cmpUint(v.Major, o.Major); c != 0 {
		return c
	}
	if c := cmpUint(v.Minor, o.Minor); c != 0 {
		return c
	}
	if c := cmpUint(v.Patch, o.Patch); c != 0 {
		return c
	}
	switch {
	case len(v.Prerelease) == 0 && len(o.Prerelease) == 0:
		return 0
	case len(v.Prerelease) == 0:
		return 1 // no prerelease > has prerelease
	case len(o.Prerelease) == 0:
		return -1
	}
	return comparePrerelease(v.Prerelease, o.Prerelease)
}

func cmpUint(a, b uint64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func comparePrerelease(a, b []string) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if c := compareIdentifier(a[i], b[i]); c != 0 {
			return c
		}
	}
	return cmpUint(uint64(len(a)), uint64(len(b)))
}

func compareIdentifier(a, b string) int {
	an, aIsNum := asNumeric(a)
	bn, bIsNum := asNumeric(b)
	switch {
	case aIsNum && bIsNum:
		return cmpUint(an, bn)
	case aIsNum && !bIsNum:
		return -1 // numeric < alphanumeric
	case !aIsNum && bIsNum:
		return 1
	default:
		return strings.Compare(a, b) // byte-wise, case sensitive
	}
}

func asNumeric(s string) (uint64, bool) {
	if !isAllDigits(s) {
		return 0, false
	}
	n, err := strconv.ParseUint(s, 10, 64)
	return n, err == nil
}

// Less reports whether v orders before o.
func (v Version) Less(o Version) bool { return v.Compare(o) < 0 }

// Equal reports whether v and o are identical for ordering purposes
// (build metadata ignored).
func (v Version) Equal(o Version) bool { return v.Compare(o) == 0 }
