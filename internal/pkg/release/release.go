// Copyright (c) 2023, Sylabs Inc. All rights reserved.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE file distributed with the sources of this project regarding your
// rights to use or distribute this software.

// Package release computes the next release version from a baseline version and the most recent
// release tag.
package release

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/blang/semver/v4"
)

// Kind selects which version component is bumped.
type Kind int

const (
	Patch Kind = iota
	Minor
	Major
)

func (k Kind) String() string {
	switch k {
	case Patch:
		return "patch"
	case Minor:
		return "minor"
	case Major:
		return "major"
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// ErrInvalidKind is returned when a release kind is not one of patch, minor or major.
var ErrInvalidKind = errors.New("invalid release kind")

// ParseKind parses s as a release kind. The match is exact: s must be one of "patch", "minor" or
// "major".
func ParseKind(s string) (Kind, error) {
	switch s {
	case "patch":
		return Patch, nil
	case "minor":
		return Minor, nil
	case "major":
		return Major, nil
	}
	return 0, fmt.Errorf("%w %q (want patch, minor or major)", ErrInvalidKind, s)
}

// DefaultPreReleaseID is the identifier appended to pre-release versions.
const DefaultPreReleaseID = "b"

// Request describes the release being prepared.
type Request struct {
	Kind         string `default:"patch"`
	PreRelease   bool
	PreReleaseID string `default:"b"`
}

// Outcome is the result of a version computation.
type Outcome struct {
	Version      semver.Version // final version, including any pre-release marker
	PreviousTag  string         // most recent release tag, or empty if none was found
	FromBaseline bool           // true if the baseline already matched the computed target
}

// Pair is a single key/value output.
type Pair struct {
	Key   string
	Value string
}

// Pairs returns the outputs consumed by the calling pipeline, in emission order.
func (o Outcome) Pairs() []Pair {
	return []Pair{
		{"fullsemver", o.Version.String()},
		{"major", strconv.FormatUint(o.Version.Major, 10)},
		{"minor", strconv.FormatUint(o.Version.Minor, 10)},
		{"patch", strconv.FormatUint(o.Version.Patch, 10)},
		{"previous_tag", o.PreviousTag},
	}
}

// ParseTag parses a release tag leniently. A leading "v" and any pre-release or build suffix are
// stripped, and each missing or unparsable component is treated as 0. Fields beyond the third are
// ignored. An empty tag yields 0.0.0.
func ParseTag(tag string) semver.Version {
	s := strings.TrimSpace(tag)
	s = strings.TrimPrefix(strings.TrimPrefix(s, "v"), "V")

	if i := strings.IndexAny(s, "-+"); i >= 0 {
		s = s[:i]
	}

	fields := strings.Split(s, ".")
	if len(fields) > 3 {
		fields = fields[:3]
	}

	var parts [3]uint64
	for i, f := range fields {
		if n, err := strconv.ParseUint(f, 10, 64); err == nil {
			parts[i] = n
		}
	}

	return semver.Version{Major: parts[0], Minor: parts[1], Patch: parts[2]}
}

// Bump returns v with the component selected by k incremented. Lower components are reset to 0,
// and any pre-release or build identifiers are dropped.
func Bump(v semver.Version, k Kind) semver.Version {
	n := semver.Version{Major: v.Major, Minor: v.Minor, Patch: v.Patch}

	switch k {
	case Major:
		n.Major++
		n.Minor = 0
		n.Patch = 0
	case Minor:
		n.Minor++
		n.Patch = 0
	default:
		n.Patch++
	}

	return n
}

// sameRelease returns true if a and b share major, minor and patch components.
func sameRelease(a, b semver.Version) bool {
	return a.Major == b.Major && a.Minor == b.Minor && a.Patch == b.Patch
}

// Next computes the version following latest according to k.
//
// If baseline already equals the computed target, the baseline is used as-is; it was bumped by
// hand ahead of the release. Otherwise the computed target is adopted. If pre is non-empty, it
// is appended as a single pre-release identifier.
func Next(baseline, latest semver.Version, previousTag string, k Kind, pre string) (Outcome, error) {
	o := Outcome{
		Version:     Bump(latest, k),
		PreviousTag: previousTag,
	}

	if sameRelease(baseline, o.Version) {
		o.Version = semver.Version{Major: baseline.Major, Minor: baseline.Minor, Patch: baseline.Patch}
		o.FromBaseline = true
	}

	if pre != "" {
		pr, err := semver.NewPRVersion(pre)
		if err != nil {
			return Outcome{}, fmt.Errorf("invalid pre-release identifier: %w", err)
		}
		o.Version.Pre = []semver.PRVersion{pr}
	}

	return o, nil
}
