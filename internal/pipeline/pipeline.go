// Package pipeline wires the adapters and core components into a ready
// orchestrator and owns the on-disk workspace layout.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/forPelevin/reelcut/internal/cache"
	"github.com/forPelevin/reelcut/internal/domain/highlights"
	"github.com/forPelevin/reelcut/internal/extract"
	"github.com/forPelevin/reelcut/internal/logging"
	"github.com/forPelevin/reelcut/internal/ports"
	"github.com/forPelevin/reelcut/internal/ports/adapters/ffmpeg"
	"github.com/forPelevin/reelcut/internal/ports/adapters/innertube"
	"github.com/forPelevin/reelcut/internal/ports/adapters/ytdlp"
	"github.com/forPelevin/reelcut/internal/ports/adapters/youtubeapi"
	"github.com/forPelevin/reelcut/internal/usecase"
	"github.com/forPelevin/reelcut/internal/videoid"
)

type Config struct {
	// CacheDir holds the result record, ReelsDir the finished clips,
	// TempDir the downloaded sources. All are created on startup.
	CacheDir string
	ReelsDir string
	TempDir  string

	YouTubeAPIKey string

	FFmpegPath  string
	FFprobePath string
	YtDlpPath   string

	// MaxHeight caps the downloaded resolution; DownloadTimeout bounds the
	// download step's wall clock.
	MaxHeight       int
	DownloadTimeout time.Duration
}

func (c Config) Validate() error {
	if c.YouTubeAPIKey == "" {
		return errors.New("youtube api key is required")
	}
	if c.CacheDir == "" || c.ReelsDir == "" || c.TempDir == "" {
		return errors.New("cache, reels and temp directories are required")
	}
	if c.MaxHeight <= 0 {
		return fmt.Errorf("max height must be > 0")
	}
	if c.DownloadTimeout <= 0 {
		return fmt.Errorf("download timeout must be > 0")
	}
	return nil
}

// DefaultConfig mirrors the conventional workspace layout.
func DefaultConfig() Config {
	return Config{
		CacheDir:        "cache",
		ReelsDir:        "reels",
		TempDir:         "temp",
		MaxHeight:       720,
		DownloadTimeout: 120 * time.Second,
	}
}

// New validates cfg, pre-creates the workspace directories, and assembles
// the orchestrator with the real adapters.
func New(cfg Config) (*usecase.Usecase, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	for _, dir := range []string{cfg.CacheDir, cfg.ReelsDir, cfg.TempDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create %s: %w", dir, err)
		}
	}

	video := ffmpeg.New(cfg.FFmpegPath, cfg.FFprobePath)
	deps := usecase.Deps{
		Resolve:         videoid.Resolve,
		Cache:           cache.New(filepath.Join(cfg.CacheDir, "cache.json"), logging.WithComponent("cache")),
		Metadata:        youtubeapi.New(cfg.YouTubeAPIKey, ""),
		Transcripts:     innertube.New("", logging.WithComponent("innertube")),
		Acquirer:        ytdlp.New(cfg.YtDlpPath, cfg.TempDir, logging.WithComponent("ytdlp")),
		Selector:        highlights.NewSelector(nil),
		Extractor:       extract.New(video, cfg.ReelsDir, logging.WithComponent("extract")),
		Log:             logging.WithComponent("pipeline"),
		MaxHeight:       cfg.MaxHeight,
		DownloadTimeout: cfg.DownloadTimeout,
	}
	return usecase.New(deps), nil
}

// Run is the one-shot convenience used by the CLI: build, run one request,
// return the produced clips.
func Run(ctx context.Context, cfg Config, rawURL string, progress usecase.Progress) (usecase.Result, error) {
	uc, err := New(cfg)
	if err != nil {
		return usecase.Result{}, err
	}
	return uc.Run(ctx, usecase.Request{RawURL: rawURL, Progress: progress})
}

// adapter conformance
var (
	_ ports.VideoTool          = (*ffmpeg.Adapter)(nil)
	_ ports.MetadataProvider   = (*youtubeapi.Adapter)(nil)
	_ ports.TranscriptProvider = (*innertube.Adapter)(nil)
	_ ports.VideoAcquirer      = (*ytdlp.Adapter)(nil)
)
