package media

import "testing"

func TestClassify(t *testing.T) {
	c := NewClassifier(ClassifierConfig{})
	tests := []struct {
		name        string
		filename    string
		contentType string
		want        Kind
	}{
		{"audio content type", "talk.mp3", "audio/mpeg", KindAudio},
		{"video content type", "talk.mp4", "video/mp4", KindVideo},
		{"content type wins over extension", "talk.mp3", "video/mp4", KindVideo},
		{"content type with params", "x", "audio/ogg; codecs=opus", KindAudio},
		{"content type case", "x", "Video/QuickTime", KindVideo},
		{"octet-stream falls back to extension", "clip.mkv", "application/octet-stream", KindVideo},
		{"missing content type audio ext", "song.FLAC", "", KindAudio},
		{"missing content type video ext", "movie.WebM", "", KindVideo},
		{"unsupported", "document.pdf", "application/pdf", KindUnsupported},
		{"no extension", "README", "", KindUnsupported},
		{"malformed content type", "a.wav", "audio/", KindAudio},
		{"empty everything", "", "", KindUnsupported},
		{"dot only", ".", "", KindUnsupported},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.Classify(tt.filename, tt.contentType); got != tt.want {
				t.Errorf("Classify(%q, %q) = %s, want %s", tt.filename, tt.contentType, got, tt.want)
			}
		})
	}
}

func TestClassify_CustomLists(t *testing.T) {
	c := NewClassifier(ClassifierConfig{
		AudioExtensions: []string{".OPUS", "aac"},
		VideoExtensions: []string{"ts"},
	})
	if got := c.Classify("voice.opus", ""); got != KindAudio {
		t.Errorf("expected audio, got %s", got)
	}
	if got := c.Classify("stream.ts", ""); got != KindVideo {
		t.Errorf("expected video, got %s", got)
	}
	if got := c.Classify("song.mp3", ""); got != KindUnsupported {
		t.Errorf("custom list must replace defaults, got %s", got)
	}
}

func TestAudioFileName(t *testing.T) {
	c := NewClassifier(ClassifierConfig{})
	tests := []struct {
		filename, contentType, want string
	}{
		{"song.mp3", "audio/mpeg", "song.mp3"},
		{"recording", "audio/mpeg", "recording.mp3"},
		{"voice.bin", "audio/x-wav", "voice.wav"},
		{"", "audio/flac", "audio.flac"},
		{"memo", "audio/unknown-codec", "memo"},
		{"memo", "", "memo"},
	}
	for _, tt := range tests {
		if got := c.AudioFileName(tt.filename, tt.contentType); got != tt.want {
			t.Errorf("AudioFileName(%q, %q) = %q, want %q", tt.filename, tt.contentType, got, tt.want)
		}
	}
}

func TestKindString(t *testing.T) {
	if KindAudio.String() != "audio" || KindVideo.String() != "video" || KindUnsupported.String() != "unsupported" {
		t.Error("unexpected Kind strings")
	}
}

func TestLookupFormat(t *testing.T) {
	for _, name := range []string{"wav", "mp3", "flac"} {
		f, err := LookupFormat(name)
		if err != nil {
			t.Fatalf("LookupFormat(%q): %v", name, err)
		}
		if f.FileName("audio") != "audio."+f.Extension {
			t.Errorf("unexpected file name %q", f.FileName("audio"))
		}
	}
	if _, err := LookupFormat("aac"); err == nil {
		t.Error("expected error for unknown format")
	}
	f, _ := LookupFormat("wav")
	f.EncoderArgs[0] = "mutated"
	g, _ := LookupFormat("wav")
	if g.EncoderArgs[0] == "mutated" {
		t.Error("LookupFormat must return a copy")
	}
}
