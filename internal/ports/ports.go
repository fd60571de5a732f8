// Package ports defines the seams to the external collaborators the
// pipeline drives: platform metadata, transcripts, video download, and the
// media tool that does the actual cutting.
package ports

import (
	"context"
	"errors"
	"time"

	"github.com/forPelevin/reelcut/internal/types"
)

// ErrNotFound is returned by MetadataProvider when the platform has no
// video for the given identity.
var ErrNotFound = errors.New("video not found")

// MetadataProvider fetches platform-side video details.
type MetadataProvider interface {
	Fetch(ctx context.Context, id types.VideoID) (types.VideoMetadata, error)
}

// TranscriptProvider fetches the timed transcript for a video. A video
// without a transcript yields an empty slice and a nil error; absence is
// not a failure.
type TranscriptProvider interface {
	Fetch(ctx context.Context, id types.VideoID) ([]types.TranscriptEntry, error)
}

// VideoAcquirer downloads the source video and returns its local path.
// Implementations must be idempotent: an identity that is already on disk
// is returned as-is without re-fetching. The timeout bounds wall-clock
// download time; exceeding it is a normal, reported failure.
type VideoAcquirer interface {
	Fetch(ctx context.Context, id types.VideoID, maxHeight int, timeout time.Duration) (string, error)
}

// VideoTool is the media backend used by the extractor.
type VideoTool interface {
	// CutClip writes the [start, end) range of in as an independent clip.
	CutClip(ctx context.Context, in string, start, end float64, out string) error
	// ProbeDuration returns the duration of in, in seconds.
	ProbeDuration(ctx context.Context, in string) (float64, error)
}
