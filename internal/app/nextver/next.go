// Copyright (c) 2023, Sylabs Inc. All rights reserved.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE file distributed with the sources of this project regarding your
// rights to use or distribute this software.

package nextver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/creasty/defaults"
	"github.com/sylabs/nextver/internal/pkg/config"
	"github.com/sylabs/nextver/internal/pkg/git"
	"github.com/sylabs/nextver/internal/pkg/release"
)

// writePairs writes each pair to w as a key=value line.
func writePairs(w io.Writer, pairs []release.Pair) error {
	for _, p := range pairs {
		if _, err := fmt.Fprintf(w, "%v=%v\n", p.Key, p.Value); err != nil {
			return err
		}
	}
	return nil
}

// appendPairs appends pairs to the file at path, creating it if necessary.
func appendPairs(path string, pairs []release.Pair) (err error) {
	f, err := os.OpenFile(filepath.Clean(path), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	return writePairs(f, pairs)
}

// latestTag returns the most recent release tag, or an empty string if there is none. Lookup
// failures are logged and treated as the absence of a tag.
func (a *App) latestTag(ctx context.Context) string {
	tag, err := a.opts.tags.LatestTag(ctx)
	switch {
	case errors.Is(err, git.ErrNoTag):
		a.opts.log.Infow("No release tag found, starting from 0.0.0")
		return ""
	case err != nil:
		a.opts.log.Warnw("Tag lookup failed, starting from 0.0.0", "error", err)
		return ""
	}

	a.opts.log.Debugw("Found release tag", "tag", tag)
	return tag
}

// Next computes the version of the release described by req, using the baseline version in the
// property file at configPath. The outputs are written as key=value lines.
//
// Configuration errors are returned as *config.ConfigError. A failure to look up the most recent
// tag is not an error; the release is computed as if no tag existed.
func (a *App) Next(ctx context.Context, configPath string, req release.Request) (release.Outcome, error) {
	if err := defaults.Set(&req); err != nil {
		return release.Outcome{}, err
	}

	baseline, err := config.Load(configPath)
	if err != nil {
		return release.Outcome{}, err
	}
	a.opts.log.Debugw("Loaded baseline", "version", baseline.String())

	kind, err := release.ParseKind(req.Kind)
	if err != nil {
		return release.Outcome{}, &config.ConfigError{Field: "release kind", Err: err}
	}

	tag := a.latestTag(ctx)

	var pre string
	if req.PreRelease {
		pre = req.PreReleaseID
	}

	o, err := release.Next(baseline, release.ParseTag(tag), tag, kind, pre)
	if err != nil {
		return release.Outcome{}, &config.ConfigError{Field: "pre-release identifier", Err: err}
	}

	if o.FromBaseline {
		a.opts.log.Infof("Version already at target %v", o.Version)
	} else {
		a.opts.log.Infof("Incrementing from %v to %v", release.ParseTag(tag), o.Version)
	}

	a.opts.log.Debugw("Computed release version",
		"version", o.Version.String(),
		"kind", kind.String(),
		"previous", tag,
		"baseline", o.FromBaseline,
	)

	pairs := o.Pairs()

	if err := writePairs(a.opts.out, pairs); err != nil {
		return release.Outcome{}, fmt.Errorf("while writing outputs: %w", err)
	}

	if a.opts.githubOutput != "" {
		if err := appendPairs(a.opts.githubOutput, pairs); err != nil {
			return release.Outcome{}, fmt.Errorf("while writing outputs to %v: %w", a.opts.githubOutput, err)
		}
	}

	return o, nil
}

// Latest writes the most recent release tag, if any. Unlike Next, a failure to look up the tag
// is returned.
func (a *App) Latest(ctx context.Context) error {
	tag, err := a.opts.tags.LatestTag(ctx)
	if errors.Is(err, git.ErrNoTag) {
		a.opts.log.Infow("No release tag found")
		return nil
	}
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(a.opts.out, tag)
	return err
}
