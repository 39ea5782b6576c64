// Copyright (c) 2023, Sylabs Inc. All rights reserved.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE file distributed with the sources of this project regarding your
// rights to use or distribute this software.

package nextver

import (
	"github.com/spf13/cobra"
)

// getLatest returns a command that displays the most recent release tag.
func (c *command) getLatest() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "latest",
		Short:   "Display latest release tag",
		Long:    "Display the most recent release tag reachable from HEAD, if any.",
		Example: c.opts.rootPath + " latest --tag-source go-git",
		Args:    cobra.NoArgs,
		PreRunE: c.initApp,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.app.Latest(cmd.Context())
		},
		DisableFlagsInUseLine: true,
	}

	addTagFlags(cmd.Flags(), &c.tags)

	return cmd
}
