package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/forPelevin/reelcut/internal/pipeline"
	"github.com/forPelevin/reelcut/internal/usecase"
)

func configFromFlags(cmd *cobra.Command) (pipeline.Config, error) {
	cfg := pipeline.DefaultConfig()
	cfg.CacheDir, _ = cmd.Flags().GetString("cache-dir")
	cfg.ReelsDir, _ = cmd.Flags().GetString("reels-dir")
	cfg.TempDir, _ = cmd.Flags().GetString("temp-dir")
	cfg.FFmpegPath, _ = cmd.Flags().GetString("ffmpeg")
	cfg.FFprobePath, _ = cmd.Flags().GetString("ffprobe")
	cfg.YtDlpPath, _ = cmd.Flags().GetString("yt-dlp")

	cfg.YouTubeAPIKey = os.Getenv("YOUTUBE_API_KEY")
	if cfg.YouTubeAPIKey == "" {
		return cfg, errors.New("YOUTUBE_API_KEY is required (set it in .env)")
	}

	if v := getenvDefault("REELCUT_MAX_HEIGHT", ""); v != "" {
		h, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("REELCUT_MAX_HEIGHT: %w", err)
		}
		cfg.MaxHeight = h
	}
	if v := getenvDefault("REELCUT_DOWNLOAD_TIMEOUT", ""); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return cfg, fmt.Errorf("REELCUT_DOWNLOAD_TIMEOUT: %w", err)
		}
		cfg.DownloadTimeout = d
	}
	return cfg, nil
}

// runOnce drives a single pipeline run from the command line and prints
// the resulting clip paths.
func runOnce(cmd *cobra.Command, rawURL string) error {
	cfg, err := configFromFlags(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	progress := func(_ usecase.Stage, message string) {
		fmt.Fprintln(cmd.ErrOrStderr(), message)
	}

	res, err := pipeline.Run(ctx, cfg, rawURL, progress)
	if err != nil {
		return fmt.Errorf("%s (%w)", usecase.UserMessage(err), err)
	}

	if res.FromCache {
		fmt.Fprintln(cmd.ErrOrStderr(), "Served from cache.")
	}
	for _, clip := range res.Clips {
		fmt.Fprintln(cmd.OutOrStdout(), clip.Path)
	}
	return nil
}
