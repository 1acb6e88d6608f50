// Package version reports build information for the diarsplit binary.
//
// Version, git commit, branch, and build time are set at compile time
// via -ldflags; blanks fall back to the VCS settings Go embeds:
//
//	go build -ldflags "-X github.com/kbukum/diarsplit/version.Version=1.0.0"
package version
