package main

// Positional argument layout: skeleton motion type angles N output
const (
	positionalArgs = 6

	argSkeleton = 0
	argInput    = 1
	argType     = 2
	argAngles   = 3
	argSkip     = 4
	argOutput   = 5
)

// Exit codes
const (
	exitFailure = 1
	exitUsage   = 2
)

// Output file permissions
const (
	outputFileMode = 0o644
)

const wavExtension = ".wav"
