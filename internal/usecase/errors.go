package usecase

import (
	"errors"

	"github.com/forPelevin/reelcut/internal/ports"
	"github.com/forPelevin/reelcut/internal/videoid"
)

// Terminal, user-correctable or user-reportable outcomes. Every pipeline
// failure maps onto exactly one taxonomy entry; UserMessage turns it into
// the short string a front end shows, while the full error goes to the log.
var (
	// ErrInvalidInput marks input that is not a recognizable video URL.
	ErrInvalidInput = videoid.ErrNoVideoID
	// ErrNotFound marks an identity the platform has no video for.
	ErrNotFound = ports.ErrNotFound
	// ErrNoCandidates marks a transcript that produced zero segments.
	ErrNoCandidates = errors.New("no viral moments found")
)

// AcquisitionError is a failure of an external acquisition step: download,
// metadata, or transcript service. Terminal for the request; no automatic
// retry happens at this layer.
type AcquisitionError struct {
	Step string // "metadata", "download", "transcript"
	Err  error
}

func (e *AcquisitionError) Error() string { return "acquire " + e.Step + ": " + e.Err.Error() }
func (e *AcquisitionError) Unwrap() error { return e.Err }

// ExtractionError is a failed or empty media-cutting step. All-or-nothing:
// no clips from the run survive it.
type ExtractionError struct {
	Err error
}

func (e *ExtractionError) Error() string { return "extract clips: " + e.Err.Error() }
func (e *ExtractionError) Unwrap() error { return e.Err }

// UserMessage maps a pipeline error to the short, user-facing description
// a messaging front should display.
func UserMessage(err error) string {
	var acq *AcquisitionError
	var ext *ExtractionError
	switch {
	case errors.Is(err, ErrInvalidInput):
		return "This doesn't look like a valid YouTube URL. Please send a valid YouTube video link."
	case errors.Is(err, ErrNotFound):
		return "Couldn't retrieve video information. Please try again later."
	case errors.Is(err, ErrNoCandidates):
		return "Couldn't identify viral moments in this video."
	case errors.As(err, &ext):
		return "Failed to create reels. Please try again later."
	case errors.As(err, &acq):
		if acq.Step == "download" {
			return "Failed to download video. Please try again later."
		}
		return "Couldn't retrieve video data. Please try again later."
	default:
		return "An error occurred. Please try again later."
	}
}
