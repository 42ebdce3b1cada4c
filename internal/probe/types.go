package probe

// FormatInfo holds container-level metadata from ffprobe's format section.
type FormatInfo struct {
	Filename   string
	FormatName string
	Duration   float64 // Seconds; 0 when ffprobe could not report one.
	Size       int64
	BitRate    int64
}

// AudioStream holds the parsed properties of a single audio stream.
type AudioStream struct {
	Index         int
	Codec         string
	Channels      int
	ChannelLayout string
	SampleRate    int
	BitRate       int64
	Language      string
}

// Result is the fully parsed output of a single ffprobe JSON call.
// PrimaryAudio is the first audio stream (nil if none).
type Result struct {
	Format       FormatInfo
	PrimaryAudio *AudioStream
	AudioStreams []AudioStream
}

// Duration returns the container duration in seconds, or 0 when unknown.
// Callers must treat 0 as "indeterminate progress", not as an empty file.
func (r *Result) Duration() float64 {
	if r == nil || r.Format.Duration < 0 {
		return 0
	}
	return r.Format.Duration
}

// AudioBitRate returns the primary audio stream bitrate in bits/sec,
// falling back to the format-level bitrate when the stream value is
// unavailable or zero.
func (r *Result) AudioBitRate() int64 {
	if r.PrimaryAudio != nil && r.PrimaryAudio.BitRate > 0 {
		return r.PrimaryAudio.BitRate
	}
	return r.Format.BitRate
}
