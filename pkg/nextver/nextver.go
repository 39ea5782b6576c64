// Copyright (c) 2021-2023, Sylabs Inc. All rights reserved.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE file distributed with the sources of this project regarding your
// rights to use or distribute this software.

// Package nextver adds nextver commands to a parent cobra.Command.
package nextver

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/sylabs/nextver/internal/app/nextver"
	"github.com/sylabs/nextver/internal/pkg/git"
	"github.com/sylabs/nextver/internal/pkg/logger"
	"go.uber.org/zap"
)

// Environment variables consulted when the corresponding flag is not set.
const (
	EnvReleaseKind  = "RELEASE_TYPE"
	EnvPreRelease   = "IS_BETA"
	EnvGitHubOutput = "GITHUB_OUTPUT"
)

// commandOpts contains configured options.
type commandOpts struct {
	rootPath  string
	lookupEnv func(string) (string, bool)
}

// CommandOpt are used to configure optional command behavior.
type CommandOpt func(*commandOpts) error

// OptWithLookupEnv specifies the function used to read environment variables. By default,
// os.LookupEnv is used.
func OptWithLookupEnv(fn func(string) (string, bool)) CommandOpt {
	return func(co *commandOpts) error {
		co.lookupEnv = fn
		return nil
	}
}

// tagFlags holds the flags that select and configure the tag source.
type tagFlags struct {
	source      string
	dir         string
	lightweight bool
	timeout     time.Duration
}

// addTagFlags declares the command line flags that configure the tag source.
func addTagFlags(fs *pflag.FlagSet, tf *tagFlags) {
	fs.StringVar(&tf.source, "tag-source", "describe", "how to find the latest tag (describe, go-git)")
	fs.StringVar(&tf.dir, "git-dir", ".", "directory of the git repository")
	fs.BoolVar(&tf.lightweight, "include-lightweight", false, "also consider lightweight tags")
	fs.DurationVar(&tf.timeout, "timeout", git.DefaultTimeout, "time limit for each git invocation")
}

// command holds state shared by the nextver commands.
type command struct {
	opts     commandOpts
	logLevel string
	tags     tagFlags
	log      *zap.SugaredLogger
	app      *nextver.App
}

// env returns the value of the environment variable key, and whether it is set and non-empty.
func (c *command) env(key string) (string, bool) {
	v, ok := c.opts.lookupEnv(key)
	return v, ok && v != ""
}

// envBool returns true only if the environment variable key is "true", ignoring case. Any other
// value is false.
func (c *command) envBool(key string) bool {
	s, ok := c.env(key)
	if !ok {
		return false
	}

	if strings.EqualFold(s, "true") {
		return true
	}

	if !strings.EqualFold(s, "false") {
		c.log.Warnw("Unrecognized boolean, assuming false", "variable", key, "value", s)
	}
	return false
}

var errUnknownTagSource = errors.New("unknown tag source")

// tagSource returns the tag source selected by the tag flags.
func (c *command) tagSource() (git.TagSource, error) {
	switch c.tags.source {
	case "describe":
		return git.NewDescribe(
			git.OptDescribeDir(c.tags.dir),
			git.OptDescribeLightweight(c.tags.lightweight),
			git.OptDescribeTimeout(c.tags.timeout),
		)
	case "go-git":
		return git.OpenWalker(c.tags.dir, git.OptWalkerLightweight(c.tags.lightweight))
	}
	return nil, fmt.Errorf("%w %q (want describe or go-git)", errUnknownTagSource, c.tags.source)
}

// initApp initializes the logger and application, and is intended to be used as the PreRunE
// function of a command. Diagnostics are written to the command's error stream so that its
// output stream carries only results.
func (c *command) initApp(cmd *cobra.Command, _ []string) error {
	level, err := logger.ParseLevel(c.logLevel)
	if err != nil {
		return err
	}
	c.log = logger.New(cmd.ErrOrStderr(), level)

	ts, err := c.tagSource()
	if err != nil {
		return err
	}

	opts := []nextver.AppOpt{
		nextver.OptAppOutput(cmd.OutOrStdout()),
		nextver.OptAppLogger(c.log),
		nextver.OptAppTagSource(ts),
	}

	if path := c.githubOutput(cmd); path != "" {
		opts = append(opts, nextver.OptAppGitHubOutput(path))
	}

	c.app, err = nextver.New(opts...)
	return err
}

// githubOutput returns the path of the GitHub output file, if one is configured.
func (c *command) githubOutput(cmd *cobra.Command) string {
	f := cmd.Flags().Lookup("github-output")
	if f == nil {
		return ""
	}

	if f.Changed {
		return f.Value.String()
	}

	path, _ := c.env(EnvGitHubOutput)
	return path
}

// AddCommands adds nextver commands to cmd according to opts.
//
// The next command computes the version of an upcoming release from a baseline version file and
// the most recent git tag. The latest command displays that tag.
func AddCommands(cmd *cobra.Command, opts ...CommandOpt) error {
	c := command{
		opts: commandOpts{
			rootPath:  cmd.CommandPath(),
			lookupEnv: os.LookupEnv,
		},
	}

	for _, opt := range opts {
		if err := opt(&c.opts); err != nil {
			return err
		}
	}

	cmd.PersistentFlags().StringVar(&c.logLevel, "log-level", "info", "diagnostic log level (debug, info, warn, error)")

	cmd.AddCommand(
		c.getNext(),
		c.getLatest(),
	)

	return nil
}
