// Package extract cuts selected segments out of a downloaded source video
// and materializes them as clip files.
package extract

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/forPelevin/reelcut/internal/ports"
	"github.com/forPelevin/reelcut/internal/types"
)

// Extractor validates segments against the source duration and produces
// one clip per in-bounds segment.
type Extractor struct {
	video    ports.VideoTool
	reelsDir string
	log      zerolog.Logger
	now      func() time.Time
}

func New(video ports.VideoTool, reelsDir string, log zerolog.Logger) *Extractor {
	return &Extractor{video: video, reelsDir: reelsDir, log: log, now: time.Now}
}

// Extract cuts segments from sourcePath in input order. Segments that fall
// outside the source duration are skipped with a warning; the call still
// succeeds with fewer clips, and all segments out of bounds yields an empty
// result. A failed cut aborts the whole call: clips already written in this
// call are removed best-effort and an error is returned, so callers never
// see a partial set.
func (e *Extractor) Extract(ctx context.Context, sourcePath string, segments []types.Segment, id types.VideoID) ([]types.Clip, error) {
	duration, err := e.video.ProbeDuration(ctx, sourcePath)
	if err != nil {
		return nil, fmt.Errorf("probe source duration: %w", err)
	}

	var clips []types.Clip
	for i, seg := range segments {
		if seg.Start >= duration || seg.End > duration {
			e.log.Warn().Str("video_id", string(id)).Int("segment", i).
				Float64("start", seg.Start).Float64("end", seg.End).Float64("source_duration", duration).
				Msg("segment out of source bounds, skipping")
			continue
		}

		out := filepath.Join(e.reelsDir, fmt.Sprintf("%s_reel_%d_%d.mp4", id, i, e.now().Unix()))
		e.log.Info().Str("video_id", string(id)).Int("segment", i).
			Float64("start", seg.Start).Float64("end", seg.End).Str("out", out).
			Msg("cutting clip")

		if err := e.video.CutClip(ctx, sourcePath, seg.Start, seg.End, out); err != nil {
			e.discard(clips, out)
			return nil, fmt.Errorf("cut segment %d [%.2f, %.2f): %w", i, seg.Start, seg.End, err)
		}
		clips = append(clips, types.Clip{Path: out, Ordinal: len(clips)})
	}
	return clips, nil
}

// discard removes artifacts from an aborted call, best effort.
func (e *Extractor) discard(clips []types.Clip, failed string) {
	for _, c := range clips {
		if err := os.Remove(c.Path); err != nil && !os.IsNotExist(err) {
			e.log.Warn().Err(err).Str("path", c.Path).Msg("could not remove aborted clip")
		}
	}
	if err := os.Remove(failed); err != nil && !os.IsNotExist(err) {
		e.log.Debug().Err(err).Str("path", failed).Msg("could not remove failed clip output")
	}
}
