package media

// Kind is the media category of an upload.
type Kind int

const (
	KindUnsupported Kind = iota
	KindAudio
	KindVideo
)

func (k Kind) String() string {
	switch k {
	case KindAudio:
		return "audio"
	case KindVideo:
		return "video"
	default:
		return "unsupported"
	}
}
