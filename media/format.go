package media

import (
	"fmt"
	"slices"
	"sort"
)

// Format describes the canonical audio encoding produced by extraction.
type Format struct {
	// Name is the config identifier ("wav", "mp3", "flac").
	Name string
	// Extension is the filename extension sent to the speech API.
	Extension string
	// ContentType is the MIME type of the encoded audio.
	ContentType string
	// EncoderArgs are the ffmpeg output options, excluding the output target.
	EncoderArgs []string
}

// FileName returns base with the format extension.
func (f Format) FileName(base string) string {
	return base + "." + f.Extension
}

var formats = map[string]Format{
	"wav": {
		Name: "wav", Extension: "wav", ContentType: "audio/wav",
		EncoderArgs: []string{"-ac", "1", "-ar", "16000", "-c:a", "pcm_s16le", "-f", "wav"},
	},
	"mp3": {
		Name: "mp3", Extension: "mp3", ContentType: "audio/mpeg",
		EncoderArgs: []string{"-ac", "1", "-ar", "16000", "-c:a", "libmp3lame", "-b:a", "64k", "-f", "mp3"},
	},
	"flac": {
		Name: "flac", Extension: "flac", ContentType: "audio/flac",
		EncoderArgs: []string{"-ac", "1", "-ar", "16000", "-c:a", "flac", "-f", "flac"},
	},
}

// DefaultFormat is the canonical extraction format.
const DefaultFormat = "wav"

// LookupFormat returns the named canonical format.
func LookupFormat(name string) (Format, error) {
	f, ok := formats[name]
	if !ok {
		return Format{}, fmt.Errorf("unknown audio format %q (supported: %v)", name, FormatNames())
	}
	f.EncoderArgs = slices.Clone(f.EncoderArgs)
	return f, nil
}

// FormatNames lists the supported canonical formats.
func FormatNames() []string {
	names := make([]string, 0, len(formats))
	for n := range formats {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
