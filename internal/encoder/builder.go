// Package encoder runs ffmpeg audio-extraction jobs and parses the
// machine-readable progress stream ffmpeg emits on stdout.
package encoder

import (
	"strconv"

	"github.com/Yuyan-Li1/audiorip/internal/config"
)

// BuildArgs assembles the ffmpeg argument list for one audio extraction:
// video dropped (-vn), audio re-encoded at the configured VBR quality, and
// key=value progress lines on stdout (-progress pipe:1) while stderr carries
// only errors for diagnostic capture.
func BuildArgs(cfg *config.Config, src, dst string) []string {
	return []string{
		"-hide_banner", "-nostdin",
		"-loglevel", "error", "-nostats",
		"-i", src,
		"-vn",
		"-c:a", cfg.AudioCodec,
		"-q:a", strconv.Itoa(cfg.AudioQuality),
		"-progress", "pipe:1",
		"-y",
		dst,
	}
}
