// Copyright (c) 2023, Sylabs Inc. All rights reserved.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE file distributed with the sources of this project regarding your
// rights to use or distribute this software.

package git

import (
	"fmt"
	"testing"
	"time"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/storage/memory"
)

// testRepo wraps a repository with helpers that build history deterministically.
type testRepo struct {
	t *testing.T
	r *git.Repository
	n int
}

func newMemRepo(t *testing.T) *testRepo {
	t.Helper()

	r, err := git.Init(memory.NewStorage(), memfs.New())
	if err != nil {
		t.Fatal(err)
	}

	return &testRepo{t: t, r: r}
}

func newDiskRepo(t *testing.T, dir string) *testRepo {
	t.Helper()

	r, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatal(err)
	}

	return &testRepo{t: t, r: r}
}

// signature returns a signature with a strictly increasing timestamp.
func (tr *testRepo) signature() *object.Signature {
	tr.n++

	return &object.Signature{
		Name:  "Release Bot",
		Email: "release@example.com",
		When:  time.Unix(1504657553, 0).Add(time.Duration(tr.n) * time.Minute),
	}
}

// commit records a new commit touching a single file.
func (tr *testRepo) commit() plumbing.Hash {
	tr.t.Helper()

	w, err := tr.r.Worktree()
	if err != nil {
		tr.t.Fatal(err)
	}

	name := fmt.Sprintf("file-%d", tr.n)

	f, err := w.Filesystem.Create(name)
	if err != nil {
		tr.t.Fatal(err)
	}

	if _, err := f.Write([]byte(name)); err != nil {
		tr.t.Fatal(err)
	}

	if err := f.Close(); err != nil {
		tr.t.Fatal(err)
	}

	if _, err := w.Add(name); err != nil {
		tr.t.Fatal(err)
	}

	h, err := w.Commit(name, &git.CommitOptions{Author: tr.signature()})
	if err != nil {
		tr.t.Fatal(err)
	}

	return h
}

// tag creates a tag named name pointing at h. Annotated tags carry a tagger and message.
func (tr *testRepo) tag(name string, h plumbing.Hash, annotated bool) {
	tr.t.Helper()

	var opts *git.CreateTagOptions
	if annotated {
		opts = &git.CreateTagOptions{
			Tagger:  tr.signature(),
			Message: "Release " + name,
		}
	}

	if _, err := tr.r.CreateTag(name, h, opts); err != nil {
		tr.t.Fatal(err)
	}
}
