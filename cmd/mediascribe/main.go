// Command mediascribe serves the transcription API and runs one-shot
// transcriptions of local files.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "mediascribe:", err)
		os.Exit(1)
	}
}
