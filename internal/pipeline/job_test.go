package pipeline

import "testing"

func TestNewJob_DestExtension(t *testing.T) {
	tests := []struct {
		name   string
		source string
		ext    string
		want   string
	}{
		{"simple mp4", "/media/movie.mp4", ".m4a", "/media/movie.m4a"},
		{"uppercase ext", "/media/MOVIE.MP4", ".m4a", "/media/MOVIE.m4a"},
		{"dotted name", "/media/my.show.s01e01.mkv", ".m4a", "/media/my.show.s01e01.m4a"},
		{"no extension", "/media/raw", ".m4a", "/media/raw.m4a"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			job := NewJob(tt.source, tt.ext)
			if job.Dest != tt.want {
				t.Errorf("Dest = %q, want %q", job.Dest, tt.want)
			}
			if job.Source != tt.source {
				t.Errorf("Source = %q, want %q", job.Source, tt.source)
			}
		})
	}
}

func TestNewJob_UniqueIDs(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		job := NewJob("/media/movie.mp4", ".m4a")
		if job.ID == "" {
			t.Fatal("job ID must not be empty")
		}
		if seen[job.ID] {
			t.Fatalf("duplicate job ID %q", job.ID)
		}
		seen[job.ID] = true
	}
}

func TestStatus_String(t *testing.T) {
	tests := []struct {
		status Status
		want   string
	}{
		{StatusPending, "pending"},
		{StatusRunning, "running"},
		{StatusSucceeded, "succeeded"},
		{StatusFailed, "failed"},
		{StatusCancelled, "cancelled"},
		{StatusSkipped, "skipped"},
		{Status(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.status.String(); got != tt.want {
			t.Errorf("Status(%d).String() = %q, want %q", tt.status, got, tt.want)
		}
	}
}
