package highlights

import (
	"sort"
	"strings"

	"github.com/forPelevin/reelcut/internal/types"
)

// Ranker assigns scores to candidate segments and returns them ordered by
// non-increasing score. Implementations must be stable on ties so earlier
// windows keep their precedence.
type Ranker interface {
	Rank(cands []types.Segment) []types.Segment
}

// viralKeywords is the fixed vocabulary of the keyword heuristic. Each
// keyword contributes at most once per window regardless of repetition.
var viralKeywords = []string{
	"amazing", "incredible", "wow", "awesome", "best",
	"perfect", "insane", "unbelievable", "shocking", "surprising",
}

// KeywordRanker is the default ranking strategy: a deliberately cheap
// keyword-counting heuristic over the window text.
type KeywordRanker struct{}

// Rank scores each candidate as 1.0 + 0.2 per distinct keyword present in
// its text (case-insensitive substring match) and sorts descending,
// preserving window order among equal scores.
func (KeywordRanker) Rank(cands []types.Segment) []types.Segment {
	out := make([]types.Segment, len(cands))
	for i, c := range cands {
		c.Score = scoreText(c.Text)
		out[i] = c
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}

func scoreText(text string) float64 {
	lower := strings.ToLower(text)
	matched := 0
	for _, kw := range viralKeywords {
		if strings.Contains(lower, kw) {
			matched++
		}
	}
	return 1.0 + 0.2*float64(matched)
}
