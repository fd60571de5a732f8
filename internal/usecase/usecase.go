// Package usecase sequences one pipeline run: resolve the video identity,
// serve from cache when complete, otherwise acquire, score, extract, and
// commit.
package usecase

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/forPelevin/reelcut/internal/ports"
	"github.com/forPelevin/reelcut/internal/types"
)

// Stage names one state of the pipeline run, reported through the progress
// callback in the order the state machine visits them.
type Stage string

const (
	StageResolving          Stage = "resolving"
	StageCacheCheck         Stage = "cache_check"
	StageFetchingMetadata   Stage = "fetching_metadata"
	StageFetchingVideo      Stage = "fetching_video"
	StageFetchingTranscript Stage = "fetching_transcript"
	StageScoring            Stage = "scoring"
	StageExtracting         Stage = "extracting"
	StageCommitting         Stage = "committing"
	StageServing            Stage = "serving"
)

// Progress receives one human-readable update per stage transition.
type Progress func(stage Stage, message string)

// ResultCache is the persistent identity → clips mapping the orchestrator
// consults before any expensive work.
type ResultCache interface {
	IsCached(id types.VideoID) bool
	Get(id types.VideoID) []types.Clip
	Put(id types.VideoID, clips []types.Clip) error
}

// Selector produces ranked candidate segments from a transcript.
type Selector interface {
	Select(entries []types.TranscriptEntry) []types.Segment
}

// Extractor cuts segments into clip artifacts.
type Extractor interface {
	Extract(ctx context.Context, sourcePath string, segments []types.Segment, id types.VideoID) ([]types.Clip, error)
}

type Deps struct {
	Resolve     func(rawURL string) (types.VideoID, error)
	Cache       ResultCache
	Metadata    ports.MetadataProvider
	Transcripts ports.TranscriptProvider
	Acquirer    ports.VideoAcquirer
	Selector    Selector
	Extractor   Extractor
	Log         zerolog.Logger

	MaxHeight       int
	DownloadTimeout time.Duration
}

type Usecase struct {
	d Deps
	// flight collapses concurrent runs for the same identity into one, so
	// the cache entry is written at most once per in-flight video.
	flight singleflight.Group
}

func New(d Deps) *Usecase { return &Usecase{d: d} }

type Request struct {
	RawURL   string
	Progress Progress
}

type Result struct {
	VideoID types.VideoID
	Clips   []types.Clip
	// FromCache is true only when the clips were served from the verified
	// result cache. A freshly produced result shared with a concurrent
	// request for the same video still reports false.
	FromCache bool
}

// flightOutcome carries a produce result through the singleflight group.
type flightOutcome struct {
	clips     []types.Clip
	fromCache bool
}

// Run executes one request end to end. Failures are terminal and mapped to
// the error taxonomy; Run never leaves a partial cache entry behind.
//
// Concurrent calls for the same identity collapse into one in-flight run:
// callers that join receive the shared outcome, but the intermediate
// acquisition and extraction progress updates go only to the caller that
// started the run.
func (u *Usecase) Run(ctx context.Context, req Request) (Result, error) {
	progress := req.Progress
	if progress == nil {
		progress = func(Stage, string) {}
	}

	progress(StageResolving, "Analyzing YouTube video...")
	id, err := u.d.Resolve(req.RawURL)
	if err != nil {
		return Result{}, fmt.Errorf("resolve %q: %w", req.RawURL, err)
	}
	log := u.d.Log.With().Str("video_id", string(id)).Logger()

	progress(StageCacheCheck, "Checking for existing reels...")
	if u.d.Cache.IsCached(id) {
		clips := u.d.Cache.Get(id)
		log.Info().Int("clips", len(clips)).Msg("cache hit")
		progress(StageServing, "Found cached reels! Sending them now...")
		return Result{VideoID: id, Clips: clips, FromCache: true}, nil
	}

	v, err, shared := u.flight.Do(string(id), func() (any, error) {
		clips, fromCache, err := u.produce(ctx, id, log, progress)
		if err != nil {
			return nil, err
		}
		return flightOutcome{clips: clips, fromCache: fromCache}, nil
	})
	if err != nil {
		log.Error().Err(err).Bool("shared", shared).Msg("pipeline run failed")
		return Result{}, err
	}
	out := v.(flightOutcome)

	progress(StageServing, "Sending reels...")
	return Result{VideoID: id, Clips: out.clips, FromCache: out.fromCache}, nil
}

// produce is the cache-miss path. It runs at most once per identity at a
// time; a second request for the same video joins the in-flight run.
func (u *Usecase) produce(ctx context.Context, id types.VideoID, log zerolog.Logger, progress Progress) ([]types.Clip, bool, error) {
	// A joined flight may have committed between our cache check and now.
	if u.d.Cache.IsCached(id) {
		return u.d.Cache.Get(id), true, nil
	}

	progress(StageFetchingMetadata, "Fetching video details...")
	md, err := u.d.Metadata.Fetch(ctx, id)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return nil, false, fmt.Errorf("metadata for %s: %w", id, err)
		}
		return nil, false, &AcquisitionError{Step: "metadata", Err: err}
	}
	log.Info().Str("title", md.Title).Str("channel", md.ChannelTitle).
		Uint64("views", md.ViewCount).Msg("video found")

	progress(StageFetchingVideo, "Downloading video...")
	sourcePath, err := u.d.Acquirer.Fetch(ctx, id, u.d.MaxHeight, u.d.DownloadTimeout)
	if err != nil {
		return nil, false, &AcquisitionError{Step: "download", Err: err}
	}

	progress(StageFetchingTranscript, "Fetching transcript...")
	entries, err := u.d.Transcripts.Fetch(ctx, id)
	if err != nil {
		return nil, false, &AcquisitionError{Step: "transcript", Err: err}
	}
	log.Debug().Int("entries", len(entries)).Msg("transcript fetched")

	progress(StageScoring, "Identifying viral moments...")
	segments := u.d.Selector.Select(entries)
	if len(segments) == 0 {
		return nil, false, ErrNoCandidates
	}

	progress(StageExtracting, "Creating reels (this may take a few minutes)...")
	clips, err := u.d.Extractor.Extract(ctx, sourcePath, segments, id)
	if err != nil {
		return nil, false, &ExtractionError{Err: err}
	}
	if len(clips) == 0 {
		return nil, false, &ExtractionError{Err: fmt.Errorf("no clips produced from %d segments", len(segments))}
	}

	progress(StageCommitting, "Saving results...")
	if err := u.d.Cache.Put(id, clips); err != nil {
		return nil, false, fmt.Errorf("commit cache entry for %s: %w", id, err)
	}

	// The downloaded source is scratch space; reclaim it once the clips are
	// committed. Best effort.
	if err := os.Remove(sourcePath); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Str("path", sourcePath).Msg("could not remove downloaded source")
	}

	log.Info().Int("clips", len(clips)).Msg("pipeline run complete")
	return clips, false, nil
}
