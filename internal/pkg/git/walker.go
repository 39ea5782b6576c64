// Copyright (c) 2021-2023, Sylabs Inc. All rights reserved.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE file distributed with the sources of this project regarding your
// rights to use or distribute this software.

package git

import (
	"context"
	"errors"
	"fmt"

	"github.com/blang/semver/v4"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"
)

// walkerOpts contains configured options.
type walkerOpts struct {
	lightweight bool
}

// WalkerOpt are used to configure optional Walker behavior.
type WalkerOpt func(*walkerOpts) error

// OptWalkerLightweight specifies whether lightweight tags are considered in addition to annotated
// tags.
func OptWalkerLightweight(b bool) WalkerOpt {
	return func(wo *walkerOpts) error {
		wo.lightweight = b
		return nil
	}
}

// Walker finds the nearest release tag by walking the commit log from HEAD in-process.
type Walker struct {
	r    *git.Repository
	opts walkerOpts
}

// NewWalker returns a Walker that reads tags from r, configured with opts.
func NewWalker(r *git.Repository, opts ...WalkerOpt) (*Walker, error) {
	w := Walker{r: r}

	for _, opt := range opts {
		if err := opt(&w.opts); err != nil {
			return nil, err
		}
	}

	return &w, nil
}

// OpenWalker opens the git repository at path and returns a Walker for it. Parent directories are
// searched for the repository.
func OpenWalker(path string, opts ...WalkerOpt) (*Walker, error) {
	r, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("while opening repository: %w", err)
	}

	return NewWalker(r, opts...)
}

type taggedVersion struct {
	name string
	v    semver.Version
}

// getTags returns a map of commit hashes to the highest release tag pointing at each.
func (w *Walker) getTags() (map[plumbing.Hash]taggedVersion, error) {
	// Get a list of tags. Note that we cannot use r.TagObjects() directly, since that returns
	// objects that are not referenced (for example, deleted tags.)
	iter, err := w.r.Tags()
	if err != nil {
		return nil, err
	}

	// Iterate through tags, selecting those that contain a version.
	tags := make(map[plumbing.Hash]taggedVersion)
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		name := ref.Name().Short()

		v, err := semver.ParseTolerant(name)
		if err != nil {
			return nil
		}

		var target plumbing.Hash

		obj, err := w.r.TagObject(ref.Hash())
		switch {
		case err == nil:
			target = obj.Target // annotated tag
		case errors.Is(err, plumbing.ErrObjectNotFound):
			if !w.opts.lightweight {
				return nil
			}
			target = ref.Hash() // lightweight tag
		default:
			return err
		}

		if prev, ok := tags[target]; !ok || v.GT(prev.v) {
			tags[target] = taggedVersion{name: name, v: v}
		}
		return nil
	})
	return tags, err
}

// LatestTag returns the name of the release tag nearest to HEAD. If no release tag is reachable
// from HEAD, ErrNoTag is returned.
func (w *Walker) LatestTag(ctx context.Context) (string, error) {
	tags, err := w.getTags()
	if err != nil {
		return "", fmt.Errorf("while reading tags: %w", err)
	}

	if len(tags) == 0 {
		return "", ErrNoTag
	}

	head, err := w.r.Head()
	if err != nil {
		return "", fmt.Errorf("while resolving HEAD: %w", err)
	}

	// Get commit log.
	logIter, err := w.r.Log(&git.LogOptions{
		Order: git.LogOrderCommitterTime,
		From:  head.Hash(),
	})
	if err != nil {
		return "", fmt.Errorf("while reading log: %w", err)
	}
	defer logIter.Close()

	// Iterate through commit log until we find a tagged commit.
	var name string
	err = logIter.ForEach(func(c *object.Commit) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		if tv, ok := tags[c.Hash]; ok {
			name = tv.name
			return storer.ErrStop
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("while walking log: %w", err)
	}

	if name == "" {
		return "", ErrNoTag
	}

	return name, nil
}
