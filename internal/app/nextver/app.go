// Copyright (c) 2021-2023, Sylabs Inc. All rights reserved.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE file distributed with the sources of this project regarding your
// rights to use or distribute this software.

package nextver

import (
	"io"
	"os"

	"github.com/sylabs/nextver/internal/pkg/git"
	"github.com/sylabs/nextver/internal/pkg/logger"
	"go.uber.org/zap"
)

// appOpts contains configured options.
type appOpts struct {
	out          io.Writer
	log          *zap.SugaredLogger
	tags         git.TagSource
	githubOutput string
}

// AppOpt are used to configure optional behavior.
type AppOpt func(*appOpts) error

// App holds state and configured options.
type App struct {
	opts appOpts
}

// OptAppOutput specifies that output should be written to w.
func OptAppOutput(w io.Writer) AppOpt {
	return func(o *appOpts) error {
		o.out = w
		return nil
	}
}

// OptAppLogger specifies that diagnostics should be written to l.
func OptAppLogger(l *zap.SugaredLogger) AppOpt {
	return func(o *appOpts) error {
		o.log = l
		return nil
	}
}

// OptAppTagSource specifies the source of the most recent release tag.
func OptAppTagSource(s git.TagSource) AppOpt {
	return func(o *appOpts) error {
		o.tags = s
		return nil
	}
}

// OptAppGitHubOutput specifies a file that outputs are appended to, in addition to the output
// writer. This is typically the file named by the GITHUB_OUTPUT environment variable.
func OptAppGitHubOutput(path string) AppOpt {
	return func(o *appOpts) error {
		o.githubOutput = path
		return nil
	}
}

// New creates a new App configured with opts.
func New(opts ...AppOpt) (*App, error) {
	a := App{
		opts: appOpts{
			out: os.Stdout,
			log: logger.Nop(),
		},
	}

	for _, opt := range opts {
		if err := opt(&a.opts); err != nil {
			return nil, err
		}
	}

	if a.opts.tags == nil {
		d, err := git.NewDescribe()
		if err != nil {
			return nil, err
		}
		a.opts.tags = d
	}

	return &a, nil
}
