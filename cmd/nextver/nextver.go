// Copyright (c) 2021-2023, Sylabs Inc. All rights reserved.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE file distributed with the sources of this project regarding your
// rights to use or distribute this software.

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/sylabs/nextver/pkg/nextver"
)

var (
	version = "unknown"
	date    = ""
	builtBy = ""
	commit  = ""
	state   = ""
)

func writeVersion(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	defer tw.Flush()

	fmt.Fprintf(tw, "Version:\t%v\n", version)

	if builtBy != "" {
		fmt.Fprintf(tw, "By:\t%v\n", builtBy)
	}

	if commit != "" {
		if state == "" {
			fmt.Fprintf(tw, "Commit:\t%v\n", commit)
		} else {
			fmt.Fprintf(tw, "Commit:\t%v (%v)\n", commit, state)
		}
	}

	if date != "" {
		fmt.Fprintf(tw, "Date:\t%v\n", date)
	}

	fmt.Fprintf(tw, "Runtime:\t%v (%v/%v)\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)

	return nil
}

func getVersion() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Display version information",
		Long:  "Display binary version and build info.",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeVersion(cmd.OutOrStdout())
		},
		DisableFlagsInUseLine: true,
	}
}

func main() {
	root := cobra.Command{
		Use:   "nextver",
		Short: "nextver computes the version of the next release",
		Long: `Compute the version of the next release from a baseline version file and the
most recent git tag, for consumption by a CI pipeline.`,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	root.AddCommand(getVersion())

	if err := nextver.AddCommands(&root); err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Println("Error:", err)
		stop()
		os.Exit(1) //nolint:gocritic // stop is called explicitly before exiting.
	}
}
