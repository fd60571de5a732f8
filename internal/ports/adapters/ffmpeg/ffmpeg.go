// Package ffmpeg shells out to ffmpeg/ffprobe for clip cutting and probing.
package ffmpeg

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

type Adapter struct {
	ffmpeg  string
	ffprobe string
}

func New(ffmpegPath, ffprobePath string) *Adapter {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	return &Adapter{ffmpeg: ffmpegPath, ffprobe: ffprobePath}
}

// CutClip re-encodes the [start, end) range of in into out. Encoding policy
// is fixed: x264 medium preset, 24 fps, AAC audio.
func (a *Adapter) CutClip(ctx context.Context, in string, start, end float64, out string) error {
	cmd := exec.CommandContext(ctx, a.ffmpeg,
		"-y",
		"-ss", fmtSeconds(start),
		"-to", fmtSeconds(end),
		"-i", in,
		"-c:v", "libx264",
		"-preset", "medium",
		"-r", "24",
		"-c:a", "aac",
		"-threads", "2",
		out,
	)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg cut clip: %w\n%s", err, string(b))
	}
	return nil
}

// ProbeDuration returns the container duration of in, in seconds.
func (a *Adapter) ProbeDuration(ctx context.Context, in string) (float64, error) {
	cmd := exec.CommandContext(ctx, a.ffprobe,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		in,
	)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return 0, fmt.Errorf("ffprobe duration: %w\n%s", err, string(b))
	}
	s := strings.TrimSpace(string(b))
	sec, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse duration %q: %w", s, err)
	}
	return sec, nil
}

func fmtSeconds(sec float64) string {
	return strconv.FormatFloat(sec, 'f', 3, 64)
}
