// Package highlights selects candidate clip windows from a timed
// transcript. Window building is fixed; ranking is a pluggable strategy.
package highlights

import (
	"strings"

	"github.com/forPelevin/reelcut/internal/types"
)

const (
	// windowEntries is the number of consecutive transcript entries per
	// candidate window.
	windowEntries = 30
	// maxSpanSec caps a window's duration; longer natural spans are clamped.
	maxSpanSec = 30.0
	// minSpanSec discards windows too short to make a watchable clip.
	minSpanSec = 5.0
	// maxSegments bounds the number of returned candidates.
	maxSegments = 5
)

// Selector turns a transcript into a ranked, bounded list of candidate
// segments.
type Selector struct {
	ranker Ranker
}

func NewSelector(r Ranker) Selector {
	if r == nil {
		r = KeywordRanker{}
	}
	return Selector{ranker: r}
}

// Select slides a window of 30 consecutive entries across the transcript
// and returns at most 5 candidates ordered by non-increasing score.
// Transcripts with fewer than 30 entries produce no candidates; candidate
// windows overlap by construction and are not merged.
func (s Selector) Select(entries []types.TranscriptEntry) []types.Segment {
	if len(entries) < windowEntries {
		return nil
	}

	var cands []types.Segment
	for i := 0; i+windowEntries <= len(entries); i++ {
		win := entries[i : i+windowEntries]
		start := win[0].Start
		end := win[len(win)-1].Start + win[len(win)-1].Duration
		if end-start > maxSpanSec {
			end = start + maxSpanSec
		}
		if end-start < minSpanSec {
			continue
		}

		parts := make([]string, 0, len(win))
		for _, e := range win {
			parts = append(parts, e.Text)
		}
		cands = append(cands, types.Segment{
			Start: start,
			End:   end,
			Text:  strings.Join(parts, " "),
		})
	}

	ranked := s.ranker.Rank(cands)
	if len(ranked) > maxSegments {
		ranked = ranked[:maxSegments]
	}
	return ranked
}
