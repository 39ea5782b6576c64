// Copyright (c) 2023, Sylabs Inc. All rights reserved.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE file distributed with the sources of this project regarding your
// rights to use or distribute this software.

/*
Nextver computes the version of the next release in a CI pipeline.

The baseline version is read from an XML property file, and the most recent release tag is read
from git. The release kind (patch, minor or major) selects the component of the tagged version
that is bumped. The result is written to standard output as key=value lines:

	fullsemver=1.2.3
	major=1
	minor=2
	patch=3
	previous_tag=v1.2.2

On error, a message is written to standard output and the exit code is 1.
*/
package main
