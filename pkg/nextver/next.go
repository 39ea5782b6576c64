// Copyright (c) 2023, Sylabs Inc. All rights reserved.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE file distributed with the sources of this project regarding your
// rights to use or distribute this software.

package nextver

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/sylabs/nextver/internal/pkg/config"
	"github.com/sylabs/nextver/internal/pkg/release"
)

// nextFlags holds the flags of the next command.
type nextFlags struct {
	configPath   string
	kind         string
	preRelease   bool
	preReleaseID string
	githubOutput string
}

// addNextFlags declares the command line flags for the next command.
func addNextFlags(fs *pflag.FlagSet, nf *nextFlags) {
	fs.StringVarP(&nf.configPath, "config", "c", config.DefaultPath, "property file holding the baseline version")
	fs.StringVar(&nf.kind, "kind", "patch", "release kind: patch, minor or major [env: "+EnvReleaseKind+"]")
	fs.BoolVar(&nf.preRelease, "pre-release", false, "mark the version as a pre-release [env: "+EnvPreRelease+"]")
	fs.StringVar(&nf.preReleaseID, "pre-release-id", release.DefaultPreReleaseID, "identifier appended to pre-release versions")
	fs.StringVar(&nf.githubOutput, "github-output", "", "file to append outputs to [env: "+EnvGitHubOutput+"]")
}

// getNextExamples returns next command examples based on rootPath.
func getNextExamples(rootPath string) string {
	examples := []string{
		rootPath + " next",
		rootPath + " next --config src/Directory.Build.props --kind minor",
		EnvReleaseKind + "=major " + EnvPreRelease + "=true " + rootPath + " next",
	}
	return strings.Join(examples, "\n")
}

// request returns the release request described by flags and, where a flag was not set, the
// environment.
func (c *command) request(fs *pflag.FlagSet, nf *nextFlags) (release.Request, error) {
	req := release.Request{
		Kind:         nf.kind,
		PreRelease:   nf.preRelease,
		PreReleaseID: nf.preReleaseID,
	}

	if !fs.Changed("kind") {
		// A variable that is set but empty is rejected, not defaulted.
		if s, ok := c.opts.lookupEnv(EnvReleaseKind); ok {
			if _, err := release.ParseKind(s); err != nil {
				return release.Request{}, &config.ConfigError{Field: EnvReleaseKind, Err: err}
			}
			req.Kind = s
		}
	}

	if !fs.Changed("pre-release") {
		req.PreRelease = c.envBool(EnvPreRelease)
	}

	return req, nil
}

// getNext returns a command that computes the version of the next release.
func (c *command) getNext() *cobra.Command {
	var nf nextFlags

	cmd := &cobra.Command{
		Use:   "next",
		Short: "Compute next release version",
		Long: `Compute the version of the next release from the baseline version in a property
file and the most recent git tag, and write it as key=value lines.`,
		Example: getNextExamples(c.opts.rootPath),
		Args:    cobra.NoArgs,
		PreRunE: c.initApp,
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := c.request(cmd.Flags(), &nf)
			if err != nil {
				return err
			}

			_, err = c.app.Next(cmd.Context(), nf.configPath, req)
			return err
		},
	}

	addNextFlags(cmd.Flags(), &nf)
	addTagFlags(cmd.Flags(), &c.tags)

	return cmd
}
