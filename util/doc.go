// Package util holds small helpers shared across packages: human-readable
// sizes, secret masking, string truncation and filename sanitizing.
package util
