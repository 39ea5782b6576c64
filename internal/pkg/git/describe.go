// Copyright (c) 2023, Sylabs Inc. All rights reserved.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE file distributed with the sources of this project regarding your
// rights to use or distribute this software.

package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// DefaultTimeout bounds a single git subprocess.
const DefaultTimeout = 30 * time.Second

// runFunc runs the git executable in dir with args, returning its standard output and error.
type runFunc func(ctx context.Context, dir string, args ...string) (stdout, stderr []byte, err error)

// runGit runs the git executable found in PATH.
func runGit(ctx context.Context, dir string, args ...string) ([]byte, []byte, error) {
	var stdout, stderr bytes.Buffer

	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}

// describeOpts contains configured options.
type describeOpts struct {
	dir         string
	lightweight bool
	timeout     time.Duration
	run         runFunc
}

// DescribeOpt are used to configure optional Describe behavior.
type DescribeOpt func(*describeOpts) error

// OptDescribeDir specifies the directory git is run in.
func OptDescribeDir(dir string) DescribeOpt {
	return func(do *describeOpts) error {
		do.dir = dir
		return nil
	}
}

// OptDescribeLightweight specifies whether lightweight tags are considered when no annotated tag
// is found.
func OptDescribeLightweight(b bool) DescribeOpt {
	return func(do *describeOpts) error {
		do.lightweight = b
		return nil
	}
}

var errInvalidTimeout = errors.New("timeout must be positive")

// OptDescribeTimeout bounds each git invocation to d.
func OptDescribeTimeout(d time.Duration) DescribeOpt {
	return func(do *describeOpts) error {
		if d <= 0 {
			return errInvalidTimeout
		}
		do.timeout = d
		return nil
	}
}

// Describe finds the most recent tag by running "git describe".
type Describe struct {
	opts describeOpts
}

// NewDescribe returns a Describe configured with opts.
func NewDescribe(opts ...DescribeOpt) (*Describe, error) {
	d := Describe{
		opts: describeOpts{
			dir:     ".",
			timeout: DefaultTimeout,
			run:     runGit,
		},
	}

	for _, opt := range opts {
		if err := opt(&d.opts); err != nil {
			return nil, err
		}
	}

	return &d, nil
}

// noTagMessages are fragments of git diagnostics that mean no suitable tag exists.
var noTagMessages = []string{
	"No names found",
	"No annotated tags can describe",
	"No tags can describe",
}

// describe runs git describe with extra args.
func (d *Describe) describe(ctx context.Context, extra ...string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, d.opts.timeout)
	defer cancel()

	args := append([]string{"describe", "--abbrev=0"}, extra...)

	stdout, stderr, err := d.opts.run(ctx, d.opts.dir, args...)
	if err != nil {
		msg := strings.TrimSpace(string(stderr))

		for _, s := range noTagMessages {
			if strings.Contains(msg, s) {
				return "", ErrNoTag
			}
		}

		if msg != "" {
			return "", fmt.Errorf("git %v: %w: %v", strings.Join(args, " "), err, msg)
		}
		return "", fmt.Errorf("git %v: %w", strings.Join(args, " "), err)
	}

	tag := strings.TrimSpace(string(stdout))
	if tag == "" {
		return "", ErrNoTag
	}

	return tag, nil
}

// LatestTag returns the most recent annotated tag reachable from HEAD. If lightweight tags are
// enabled and no annotated tag is found, a second lookup considers all tags. If no tag is found,
// ErrNoTag is returned.
func (d *Describe) LatestTag(ctx context.Context) (string, error) {
	tag, err := d.describe(ctx)
	if errors.Is(err, ErrNoTag) && d.opts.lightweight {
		return d.describe(ctx, "--tags")
	}
	return tag, err
}
