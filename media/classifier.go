package media

import (
	"mime"
	"path/filepath"
	"strings"
)

// ClassifierConfig lists the filename extensions recognized when the content
// type does not decide. Extensions are matched case-insensitively, with or
// without a leading dot.
type ClassifierConfig struct {
	AudioExtensions []string `yaml:"audio_extensions" mapstructure:"audio_extensions"`
	VideoExtensions []string `yaml:"video_extensions" mapstructure:"video_extensions"`
}

// DefaultAudioExtensions and DefaultVideoExtensions are used for empty lists.
var (
	DefaultAudioExtensions = []string{"mp3", "wav", "m4a", "flac", "ogg"}
	DefaultVideoExtensions = []string{"mp4", "avi", "mov", "mkv", "webm"}
)

// ApplyDefaults fills empty extension lists.
func (c *ClassifierConfig) ApplyDefaults() {
	if len(c.AudioExtensions) == 0 {
		c.AudioExtensions = DefaultAudioExtensions
	}
	if len(c.VideoExtensions) == 0 {
		c.VideoExtensions = DefaultVideoExtensions
	}
}

// Classifier maps a declared filename and content type to a Kind.
// It is pure and safe for concurrent use.
type Classifier struct {
	audio map[string]struct{}
	video map[string]struct{}
}

// NewClassifier builds a Classifier. Empty lists fall back to the defaults.
func NewClassifier(cfg ClassifierConfig) *Classifier {
	cfg.ApplyDefaults()
	return &Classifier{
		audio: extensionSet(cfg.AudioExtensions),
		video: extensionSet(cfg.VideoExtensions),
	}
}

func extensionSet(exts []string) map[string]struct{} {
	set := make(map[string]struct{}, len(exts))
	for _, e := range exts {
		e = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(e), "."))
		if e != "" {
			set[e] = struct{}{}
		}
	}
	return set
}

// Classify returns KindAudio for an audio/* content type and KindVideo for
// video/*. Any other content type defers to the filename extension. Neither
// matching yields KindUnsupported.
func (c *Classifier) Classify(filename, contentType string) Kind {
	switch topLevelType(contentType) {
	case "audio":
		return KindAudio
	case "video":
		return KindVideo
	}

	ext := extension(filename)
	if ext == "" {
		return KindUnsupported
	}
	if _, ok := c.audio[ext]; ok {
		return KindAudio
	}
	if _, ok := c.video[ext]; ok {
		return KindVideo
	}
	return KindUnsupported
}

// audioExtensionsByType covers the common audio MIME types whose extension
// cannot be derived from the subtype alone.
var audioExtensionsByType = map[string]string{
	"audio/mpeg":   "mp3",
	"audio/mp3":    "mp3",
	"audio/wav":    "wav",
	"audio/x-wav":  "wav",
	"audio/wave":   "wav",
	"audio/mp4":    "m4a",
	"audio/x-m4a":  "m4a",
	"audio/m4a":    "m4a",
	"audio/flac":   "flac",
	"audio/x-flac": "flac",
	"audio/ogg":    "ogg",
	"audio/webm":   "webm",
}

// AudioFileName returns a filename for a pass-through upload that carries an
// extension the speech API can use to detect the format. Names that already
// end in a known audio extension are returned unchanged.
func (c *Classifier) AudioFileName(filename, contentType string) string {
	base := filename
	if base == "" {
		base = "audio"
	}
	if _, ok := c.audio[extension(base)]; ok {
		return base
	}
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return base
	}
	if ext, ok := audioExtensionsByType[mt]; ok {
		return strings.TrimSuffix(base, filepath.Ext(base)) + "." + ext
	}
	return base
}

func topLevelType(contentType string) string {
	if contentType == "" {
		return ""
	}
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ""
	}
	top, _, _ := strings.Cut(mt, "/")
	return top
}

func extension(filename string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
}
