package display

import (
	"testing"
	"time"
)

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		name  string
		bytes int64
		want  string
	}{
		{"zero", 0, "0 B"},
		{"small bytes", 512, "512 B"},
		{"exactly 1 KiB", 1024, "1.0 KiB"},
		{"1.5 KiB", 1536, "1.5 KiB"},
		{"1 MiB", 1024 * 1024, "1.0 MiB"},
		{"typical video 700 MiB", 734003200, "700.0 MiB"},
		{"4.7 GiB", 5046586572, "4.7 GiB"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatBytes(tt.bytes)
			if got != tt.want {
				t.Errorf("FormatBytes(%d) = %q, want %q", tt.bytes, got, tt.want)
			}
		})
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		name string
		d    time.Duration
		want string
	}{
		{"sub-second", 500 * time.Millisecond, "500ms"},
		{"zero", 0, "0ms"},
		{"negative clamps to zero", -time.Second, "0ms"},
		{"seconds", 1500 * time.Millisecond, "1.5s"},
		{"just under a minute", 59*time.Second + 900*time.Millisecond, "59.9s"},
		{"exactly a minute", time.Minute, "0:01:00"},
		{"over an hour", time.Hour + time.Minute + time.Second, "1:01:01"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatDuration(tt.d)
			if got != tt.want {
				t.Errorf("FormatDuration(%v) = %q, want %q", tt.d, got, tt.want)
			}
		})
	}
}

func TestFormatBitrateLabel(t *testing.T) {
	tests := []struct {
		name string
		kbps int64
		want string
	}{
		{"typical aac", 128, "128 kbps"},
		{"sub-megabit", 800, "800 kbps"},
		{"exactly 1 Mbps", 1000, "1.0 Mbps"},
		{"lossless-ish", 1500, "1.5 Mbps"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatBitrateLabel(tt.kbps)
			if got != tt.want {
				t.Errorf("FormatBitrateLabel(%d) = %q, want %q", tt.kbps, got, tt.want)
			}
		})
	}
}

func TestProgressLine(t *testing.T) {
	tests := []struct {
		name      string
		completed int
		total     int
		overall   float64
		want      string
	}{
		{"mid-batch", 3, 10, 0.42, "Overall: 3/10 files (42%)"},
		{"start", 0, 5, 0, "Overall: 0/5 files (0%)"},
		{"done", 5, 5, 1, "Overall: 5/5 files (100%)"},
		{"overshoot clamps", 5, 5, 1.2, "Overall: 5/5 files (100%)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ProgressLine(tt.completed, tt.total, tt.overall)
			if got != tt.want {
				t.Errorf("ProgressLine(%d, %d, %v) = %q, want %q",
					tt.completed, tt.total, tt.overall, got, tt.want)
			}
		})
	}
}
