// Copyright (c) 2023, Sylabs Inc. All rights reserved.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE file distributed with the sources of this project regarding your
// rights to use or distribute this software.

package main

import (
	"bytes"
	"runtime"
	"strings"
	"testing"
)

func TestWriteVersion(t *testing.T) {
	tests := []struct {
		name    string
		commit  string
		state   string
		want    []string
		notWant []string
	}{
		{
			name:    "Unknown",
			want:    []string{"Version:  unknown\n", "Runtime:  " + runtime.Version()},
			notWant: []string{"Commit:"},
		},
		{
			name:   "Clean",
			commit: "3f1c2d4",
			want:   []string{"Commit:   3f1c2d4\n"},
		},
		{
			name:   "Dirty",
			commit: "3f1c2d4",
			state:  "dirty",
			want:   []string{"Commit:   3f1c2d4 (dirty)\n"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			commit, state = tt.commit, tt.state
			t.Cleanup(func() { commit, state = "", "" })

			var b bytes.Buffer
			if err := writeVersion(&b); err != nil {
				t.Fatal(err)
			}

			for _, s := range tt.want {
				if !strings.Contains(b.String(), s) {
					t.Errorf("output %q does not contain %q", b.String(), s)
				}
			}

			for _, s := range tt.notWant {
				if strings.Contains(b.String(), s) {
					t.Errorf("output %q contains %q", b.String(), s)
				}
			}
		})
	}
}
