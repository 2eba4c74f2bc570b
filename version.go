package main

// These variables are set at build time using -ldflags
var (
	// VERSION represents the current version of the tool
	VERSION string = "0.0.0"
	// GITCOMMIT represents the git commit hash
	GITCOMMIT string = "unknown"
	// BUILDTIME represents when the binary was built
	BUILDTIME string = "unknown"
)
