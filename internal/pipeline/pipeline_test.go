package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/Yuyan-Li1/audiorip/internal/config"
	"github.com/Yuyan-Li1/audiorip/internal/logging"
)

// writeStub drops an executable shell script standing in for ffmpeg/ffprobe.
func writeStub(t *testing.T, dir, name, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("stub scripts require a POSIX shell")
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

// Prints a fixed probe result: 10 s duration, one stereo AAC stream.
const fakeProbe = `cat <<'EOF'
{"format":{"duration":"10.0","size":"1000","bit_rate":"800000"},
 "streams":[{"index":1,"codec_name":"aac","codec_type":"audio","channels":2}]}
EOF
`

// Emits progress, writes the destination (the last argument), and fails on
// any invocation that mentions bad.mp4.
const fakeEncode = `for last; do :; done
case "$*" in
  *bad.mp4*)
    echo "bad.mp4: Invalid data found when processing input" >&2
    exit 1
    ;;
esac
echo "out_time_us=5000000"
echo "out_time_us=10000000"
echo "progress=end"
echo audio > "$last"
exit 0
`

func testConfig(t *testing.T, inputDir string) config.Config {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.InputDir = inputDir
	cfg.Workers = 2
	cfg.ShowProgress = false
	cfg.ColorMode = config.ColorNever
	return cfg
}

func testLogger(t *testing.T, cfg *config.Config) *logging.Logger {
	t.Helper()
	log, err := logging.NewLogger(cfg)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { log.Close() })
	return log
}

func TestRun_EndToEnd(t *testing.T) {
	bindir := t.TempDir()
	media := t.TempDir()

	touch(t, filepath.Join(media, "good1.mp4"))
	touch(t, filepath.Join(media, "good2.mp4"))
	touch(t, filepath.Join(media, "bad.mp4"))

	cfg := testConfig(t, media)
	cfg.FFprobeBin = writeStub(t, bindir, "fake-ffprobe", fakeProbe)
	cfg.FFmpegBin = writeStub(t, bindir, "fake-ffmpeg", fakeEncode)
	log := testLogger(t, &cfg)

	s, err := Run(context.Background(), &cfg, log)
	if err != nil {
		t.Fatal(err)
	}

	if s.Succeeded != 2 || s.Failed != 1 {
		t.Fatalf("Succeeded=%d Failed=%d, want 2/1", s.Succeeded, s.Failed)
	}

	// Successful sources are removed, outputs exist.
	for _, name := range []string{"good1", "good2"} {
		if _, err := os.Stat(filepath.Join(media, name+".mp4")); !os.IsNotExist(err) {
			t.Errorf("%s.mp4 should be deleted after success", name)
		}
		if _, err := os.Stat(filepath.Join(media, name+".m4a")); err != nil {
			t.Errorf("%s.m4a missing: %v", name, err)
		}
	}

	// Failed source stays, its partial output is cleaned up.
	if _, err := os.Stat(filepath.Join(media, "bad.mp4")); err != nil {
		t.Errorf("bad.mp4 must survive a failed conversion: %v", err)
	}
	if _, err := os.Stat(filepath.Join(media, "bad.m4a")); !os.IsNotExist(err) {
		t.Error("bad.m4a should not exist after a failed conversion")
	}

	if len(s.Failures) != 1 || !strings.Contains(s.Failures[0].ErrText, "Invalid data found") {
		t.Errorf("Failures = %+v", s.Failures)
	}
}

func TestRun_ProbeFailureDoesNotBlockConversions(t *testing.T) {
	bindir := t.TempDir()
	media := t.TempDir()

	touch(t, filepath.Join(media, "a.mp4"))
	touch(t, filepath.Join(media, "mystery.mp4"))
	touch(t, filepath.Join(media, "c.mp4"))

	cfg := testConfig(t, media)
	// ffprobe fails for mystery.mp4; that job must still convert with
	// indeterminate progress, and its siblings keep their durations.
	cfg.FFprobeBin = writeStub(t, bindir, "fake-ffprobe", `case "$*" in
  *mystery.mp4*) exit 1 ;;
esac
`+fakeProbe)
	cfg.FFmpegBin = writeStub(t, bindir, "fake-ffmpeg", fakeEncode)
	log := testLogger(t, &cfg)

	s, err := Run(context.Background(), &cfg, log)
	if err != nil {
		t.Fatal(err)
	}

	if s.Succeeded != 3 || s.Failed != 0 {
		t.Fatalf("Succeeded=%d Failed=%d, want 3/0", s.Succeeded, s.Failed)
	}
	for _, name := range []string{"a", "mystery", "c"} {
		if _, err := os.Stat(filepath.Join(media, name+".m4a")); err != nil {
			t.Errorf("%s.m4a missing: %v", name, err)
		}
		if _, err := os.Stat(filepath.Join(media, name+".mp4")); !os.IsNotExist(err) {
			t.Errorf("%s.mp4 should be deleted after success", name)
		}
	}
}

func TestRun_AllProbesFailing(t *testing.T) {
	bindir := t.TempDir()
	media := t.TempDir()
	touch(t, filepath.Join(media, "a.mp4"))
	touch(t, filepath.Join(media, "b.mp4"))

	cfg := testConfig(t, media)
	cfg.FFprobeBin = writeStub(t, bindir, "fake-ffprobe", `exit 1`)
	cfg.FFmpegBin = writeStub(t, bindir, "fake-ffmpeg", fakeEncode)
	log := testLogger(t, &cfg)

	s, err := Run(context.Background(), &cfg, log)
	if err != nil {
		t.Fatal(err)
	}
	if s.Succeeded != 2 || s.Failed != 0 {
		t.Errorf("Succeeded=%d Failed=%d, want 2/0", s.Succeeded, s.Failed)
	}
}

func TestRun_KeepSource(t *testing.T) {
	bindir := t.TempDir()
	media := t.TempDir()
	touch(t, filepath.Join(media, "movie.mp4"))

	cfg := testConfig(t, media)
	cfg.KeepSource = true
	cfg.FFprobeBin = writeStub(t, bindir, "fake-ffprobe", fakeProbe)
	cfg.FFmpegBin = writeStub(t, bindir, "fake-ffmpeg", fakeEncode)
	log := testLogger(t, &cfg)

	s, err := Run(context.Background(), &cfg, log)
	if err != nil {
		t.Fatal(err)
	}
	if s.Succeeded != 1 {
		t.Fatalf("Succeeded = %d, want 1", s.Succeeded)
	}
	if _, err := os.Stat(filepath.Join(media, "movie.mp4")); err != nil {
		t.Errorf("source must be kept with --keep: %v", err)
	}
	if _, err := os.Stat(filepath.Join(media, "movie.m4a")); err != nil {
		t.Errorf("output missing: %v", err)
	}
}

func TestRun_SkipExisting(t *testing.T) {
	bindir := t.TempDir()
	media := t.TempDir()
	touch(t, filepath.Join(media, "movie.mp4"))
	touch(t, filepath.Join(media, "movie.m4a")) // pre-existing output

	cfg := testConfig(t, media)
	cfg.FFprobeBin = writeStub(t, bindir, "fake-ffprobe", fakeProbe)
	cfg.FFmpegBin = writeStub(t, bindir, "fake-ffmpeg", `echo "must not run" >&2; exit 1`)
	log := testLogger(t, &cfg)

	s, err := Run(context.Background(), &cfg, log)
	if err != nil {
		t.Fatal(err)
	}
	if s.Skipped != 1 || s.Succeeded != 0 || s.Failed != 0 {
		t.Errorf("Skipped=%d Succeeded=%d Failed=%d, want 1/0/0", s.Skipped, s.Succeeded, s.Failed)
	}
	if _, err := os.Stat(filepath.Join(media, "movie.mp4")); err != nil {
		t.Errorf("skipped source must not be deleted: %v", err)
	}
}

func TestRun_DryRun(t *testing.T) {
	media := t.TempDir()
	touch(t, filepath.Join(media, "a.mp4"))
	touch(t, filepath.Join(media, "b.mp4"))

	cfg := testConfig(t, media)
	cfg.DryRun = true
	// Binaries intentionally bogus: a dry run must never invoke them.
	cfg.FFmpegBin = "/nonexistent/ffmpeg"
	cfg.FFprobeBin = "/nonexistent/ffprobe"
	log := testLogger(t, &cfg)

	s, err := Run(context.Background(), &cfg, log)
	if err != nil {
		t.Fatal(err)
	}
	if s.Succeeded != 2 {
		t.Fatalf("Succeeded = %d, want 2", s.Succeeded)
	}

	// Nothing on disk changes.
	for _, name := range []string{"a.mp4", "b.mp4"} {
		if _, err := os.Stat(filepath.Join(media, name)); err != nil {
			t.Errorf("%s must be untouched in dry run: %v", name, err)
		}
	}
	if _, err := os.Stat(filepath.Join(media, "a.m4a")); !os.IsNotExist(err) {
		t.Error("dry run must not create outputs")
	}
}

func TestRun_NoFiles(t *testing.T) {
	cfg := testConfig(t, t.TempDir())
	log := testLogger(t, &cfg)

	s, err := Run(context.Background(), &cfg, log)
	if err != nil {
		t.Fatal(err)
	}
	if s.Total() != 0 {
		t.Errorf("Total() = %d, want 0", s.Total())
	}
}

func TestRun_Cancellation(t *testing.T) {
	bindir := t.TempDir()
	media := t.TempDir()
	for _, name := range []string{"a.mp4", "b.mp4", "c.mp4", "d.mp4", "e.mp4"} {
		touch(t, filepath.Join(media, name))
	}

	cfg := testConfig(t, media)
	cfg.Workers = 2
	cfg.FFprobeBin = writeStub(t, bindir, "fake-ffprobe", fakeProbe)
	cfg.FFmpegBin = writeStub(t, bindir, "fake-ffmpeg", `exec sleep 5`)
	log := testLogger(t, &cfg)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(200 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	s, err := Run(ctx, &cfg, log)
	if err != nil {
		t.Fatal(err)
	}

	if s.Cancelled != 5 {
		t.Errorf("Cancelled = %d, want 5 (running and unstarted jobs alike)", s.Cancelled)
	}
	if s.Succeeded != 0 || s.Failed != 0 {
		t.Errorf("Succeeded=%d Failed=%d, want 0/0", s.Succeeded, s.Failed)
	}
	if elapsed := time.Since(start); elapsed > 4*time.Second {
		t.Errorf("Run took %v after cancellation, children were not terminated", elapsed)
	}

	// Sources survive, no partial outputs remain.
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		if _, err := os.Stat(filepath.Join(media, name+".mp4")); err != nil {
			t.Errorf("%s.mp4 must survive cancellation: %v", name, err)
		}
		if _, err := os.Stat(filepath.Join(media, name+".m4a")); !os.IsNotExist(err) {
			t.Errorf("%s.m4a should not remain after cancellation", name)
		}
	}
}
