// Copyright (c) 2023, Sylabs Inc. All rights reserved.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE file distributed with the sources of this project regarding your
// rights to use or distribute this software.

// Package config reads the baseline version from an XML property file.
//
// The first PropertyGroup of the file carries three integer fields:
//
//	<Project>
//	  <PropertyGroup>
//	    <MajorVersion>1</MajorVersion>
//	    <MinorVersion>2</MinorVersion>
//	    <PatchVersion>3</PatchVersion>
//	  </PropertyGroup>
//	</Project>
package config

import (
	"encoding/xml"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/blang/semver/v4"
)

// DefaultPath is the property file consulted when no path is given.
const DefaultPath = "Directory.Build.props"

var (
	errGroupNotFound = errors.New("no PropertyGroup found")
	errFieldMissing  = errors.New("field missing")
)

// ConfigError is returned for any problem with the baseline configuration or the requested
// release. It is always fatal.
type ConfigError struct {
	Path  string // property file, if the error relates to one
	Field string // offending field, if any
	Err   error
}

func (e *ConfigError) Error() string {
	var b strings.Builder

	b.WriteString("configuration error")

	if e.Path != "" {
		fmt.Fprintf(&b, " in %v", e.Path)
	}

	if e.Field != "" {
		fmt.Fprintf(&b, ": %v", e.Field)
	}

	fmt.Fprintf(&b, ": %v", e.Err)

	return b.String()
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

type propertyGroup struct {
	Major *string `xml:"MajorVersion"`
	Minor *string `xml:"MinorVersion"`
	Patch *string `xml:"PatchVersion"`
}

type project struct {
	Groups []propertyGroup `xml:"PropertyGroup"`
}

// parseField parses a baseline component named name.
func parseField(name string, s *string) (uint64, error) {
	if s == nil {
		return 0, errFieldMissing
	}

	v, err := strconv.ParseUint(strings.TrimSpace(*s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%v is not a non-negative integer: %w", name, err)
	}

	return v, nil
}

// Parse decodes the baseline version from the XML document b.
func Parse(b []byte) (semver.Version, error) {
	var p project
	if err := xml.Unmarshal(b, &p); err != nil {
		return semver.Version{}, &ConfigError{Err: fmt.Errorf("while decoding XML: %w", err)}
	}

	// Only the first group is consulted.
	if len(p.Groups) == 0 {
		return semver.Version{}, &ConfigError{Err: errGroupNotFound}
	}
	g := p.Groups[0]

	var v semver.Version

	fields := []struct {
		name string
		s    *string
		dst  *uint64
	}{
		{"MajorVersion", g.Major, &v.Major},
		{"MinorVersion", g.Minor, &v.Minor},
		{"PatchVersion", g.Patch, &v.Patch},
	}

	for _, f := range fields {
		n, err := parseField(f.name, f.s)
		if err != nil {
			return semver.Version{}, &ConfigError{Field: f.name, Err: err}
		}
		*f.dst = n
	}

	return v, nil
}

// Load reads the baseline version from the property file at path. If path is empty,
// DefaultPath is used.
func Load(path string) (semver.Version, error) {
	if path == "" {
		path = DefaultPath
	}

	b, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return semver.Version{}, &ConfigError{Path: path, Err: err}
	}

	v, err := Parse(b)
	if err != nil {
		var ce *ConfigError
		if errors.As(err, &ce) {
			ce.Path = path
		}
		return semver.Version{}, err
	}

	return v, nil
}
