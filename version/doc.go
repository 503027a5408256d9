// Package version exposes build information set with -ldflags:
//
//	go build -ldflags "-X github.com/kbukum/mediascribe/version.Version=v1.2.0 \
//	    -X github.com/kbukum/mediascribe/version.GitCommit=$(git rev-parse --short HEAD)"
//
// Missing values fall back to the VCS stamps embedded by the Go toolchain.
package version
