// Package ytdlp downloads source videos with the yt-dlp tool.
package ytdlp

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/forPelevin/reelcut/internal/types"
	"github.com/forPelevin/reelcut/internal/videoid"
)

type Adapter struct {
	bin     string
	tempDir string
	log     zerolog.Logger
}

func New(bin, tempDir string, log zerolog.Logger) *Adapter {
	if bin == "" {
		bin = "yt-dlp"
	}
	return &Adapter{bin: bin, tempDir: tempDir, log: log}
}

// Fetch downloads the video to <tempDir>/<id>.mp4 and returns that path.
// Idempotent: an already-downloaded identity is returned without
// re-fetching. The timeout bounds the download; exceeding it surfaces as a
// normal error, not a crash.
func (a *Adapter) Fetch(ctx context.Context, id types.VideoID, maxHeight int, timeout time.Duration) (string, error) {
	out := filepath.Join(a.tempDir, string(id)+".mp4")
	if _, err := os.Stat(out); err == nil {
		a.log.Debug().Str("video_id", string(id)).Str("path", out).Msg("source already downloaded")
		return out, nil
	}

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, a.bin,
		"-f", fmt.Sprintf("best[height<=%d]", maxHeight),
		"-o", out,
		videoid.WatchURL(id),
	)
	b, err := cmd.CombinedOutput()
	if err != nil {
		// A partial file left by a killed download must not satisfy the
		// idempotency check on the next attempt.
		os.Remove(out)
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("download timed out after %s", timeout)
		}
		return "", fmt.Errorf("yt-dlp: %w\n%s", err, string(b))
	}
	return out, nil
}
