// Copyright (c) 2023, Sylabs Inc. All rights reserved.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE file distributed with the sources of this project regarding your
// rights to use or distribute this software.

package git

import (
	"context"
	"errors"
	"os/exec"
	"reflect"
	"testing"
)

// fakeRun records invocations and replays canned results in order.
type fakeRun struct {
	calls   [][]string
	results []fakeResult
}

type fakeResult struct {
	stdout string
	stderr string
	err    error
}

func (f *fakeRun) run(_ context.Context, _ string, args ...string) ([]byte, []byte, error) {
	f.calls = append(f.calls, args)

	r := f.results[0]
	f.results = f.results[1:]

	return []byte(r.stdout), []byte(r.stderr), r.err
}

var errExit = errors.New("exit status 128")

func TestDescribe_LatestTag(t *testing.T) {
	annotated := []string{"describe", "--abbrev=0"}
	all := []string{"describe", "--abbrev=0", "--tags"}

	tests := []struct {
		name        string
		lightweight bool
		results     []fakeResult
		want        string
		wantErr     error
		wantCalls   [][]string
	}{
		{
			name:      "Found",
			results:   []fakeResult{{stdout: "v1.2.2\n"}},
			want:      "v1.2.2",
			wantCalls: [][]string{annotated},
		},
		{
			name: "NoNames",
			results: []fakeResult{{
				stderr: "fatal: No names found, cannot describe anything.\n",
				err:    errExit,
			}},
			wantErr:   ErrNoTag,
			wantCalls: [][]string{annotated},
		},
		{
			name:    "EmptyOutput",
			results: []fakeResult{{stdout: "\n"}},
			wantErr: ErrNoTag,
			wantCalls: [][]string{
				annotated,
			},
		},
		{
			name:        "FallbackToLightweight",
			lightweight: true,
			results: []fakeResult{
				{
					stderr: "fatal: No annotated tags can describe 'abc123'.\nHowever, there were unannotated tags: try --tags.",
					err:    errExit,
				},
				{stdout: "v0.3.0\n"},
			},
			want:      "v0.3.0",
			wantCalls: [][]string{annotated, all},
		},
		{
			name:        "FallbackNoTags",
			lightweight: true,
			results: []fakeResult{
				{stderr: "fatal: No names found, cannot describe anything.", err: errExit},
				{stderr: "fatal: No names found, cannot describe anything.", err: errExit},
			},
			wantErr:   ErrNoTag,
			wantCalls: [][]string{annotated, all},
		},
		{
			name:        "LookupFailure",
			lightweight: true,
			results: []fakeResult{{
				stderr: "fatal: not a git repository (or any of the parent directories): .git",
				err:    errExit,
			}},
			wantErr:   errExit,
			wantCalls: [][]string{annotated},
		},
		{
			name:      "NoStderr",
			results:   []fakeResult{{err: exec.ErrNotFound}},
			wantErr:   exec.ErrNotFound,
			wantCalls: [][]string{annotated},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &fakeRun{results: tt.results}

			d, err := NewDescribe(OptDescribeLightweight(tt.lightweight))
			if err != nil {
				t.Fatal(err)
			}
			d.opts.run = f.run

			got, err := d.LatestTag(context.Background())
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("got error %v, want %v", err, tt.wantErr)
			}

			if got != tt.want {
				t.Errorf("got tag %q, want %q", got, tt.want)
			}

			if !reflect.DeepEqual(f.calls, tt.wantCalls) {
				t.Errorf("got calls %v, want %v", f.calls, tt.wantCalls)
			}
		})
	}
}

func TestOptDescribeTimeout(t *testing.T) {
	if _, err := NewDescribe(OptDescribeTimeout(0)); !errors.Is(err, errInvalidTimeout) {
		t.Errorf("got error %v, want %v", err, errInvalidTimeout)
	}
}

func TestDescribe_Git(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not found in PATH")
	}

	dir := t.TempDir()
	tr := newDiskRepo(t, dir)

	d, err := NewDescribe(OptDescribeDir(dir))
	if err != nil {
		t.Fatal(err)
	}

	tr.commit()

	if _, err := d.LatestTag(context.Background()); !errors.Is(err, ErrNoTag) {
		t.Fatalf("got error %v, want %v", err, ErrNoTag)
	}

	tr.tag("v1.2.2", tr.commit(), true)
	tr.commit()

	got, err := d.LatestTag(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if want := "v1.2.2"; got != want {
		t.Errorf("got tag %q, want %q", got, want)
	}
}
