package types

// VideoID is the canonical identity of a source video, stable across the
// URL shapes that can reference it (watch, short-link, embed, shorts).
type VideoID string

func (id VideoID) String() string { return string(id) }

// TranscriptEntry is one time-stamped line of a video transcript.
type TranscriptEntry struct {
	Text     string  `json:"text"`
	Start    float64 `json:"start"`
	Duration float64 `json:"duration"`
}

// Segment is a scored candidate time window of the source video. Segments
// are ephemeral: produced by the scorer, consumed by the extractor within a
// single pipeline run, never persisted.
type Segment struct {
	Start float64
	End   float64
	Score float64
	Text  string
}

// Span returns the segment length in seconds.
func (s Segment) Span() float64 { return s.End - s.Start }

// Clip is a finished, independently playable artifact cut from a segment.
// Ordinal is the ranking position among the clips delivered for one video.
type Clip struct {
	Path    string
	Ordinal int
}

// VideoMetadata is the platform-side description of a video.
type VideoMetadata struct {
	Title        string
	ChannelTitle string
	ViewCount    uint64
	LikeCount    uint64
}
