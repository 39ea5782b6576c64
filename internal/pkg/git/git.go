// Copyright (c) 2021-2023, Sylabs Inc. All rights reserved.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE file distributed with the sources of this project regarding your
// rights to use or distribute this software.

// Package git looks up the most recent release tag of a git repository.
package git

import (
	"context"
	"errors"
)

// ErrNoTag is returned when the repository has no release tag reachable from HEAD. It is distinct
// from failures of the lookup itself.
var ErrNoTag = errors.New("no release tag found")

// TagSource returns the most recent release tag.
type TagSource interface {
	LatestTag(ctx context.Context) (string, error)
}
