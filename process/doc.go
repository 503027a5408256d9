// Package process runs external binaries with streamed stdin and captured
// stdout, inside their own process group so that cancellation reaches every
// child.
package process
