// Package youtubeapi fetches video metadata from the YouTube Data API v3.
package youtubeapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/forPelevin/reelcut/internal/ports"
	"github.com/forPelevin/reelcut/internal/types"
)

const defaultBaseURL = "https://www.googleapis.com/youtube/v3"

type Adapter struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func New(apiKey, baseURL string) *Adapter {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Adapter{
		apiKey:  apiKey,
		baseURL: baseURL,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

type videosResp struct {
	Items []struct {
		Snippet struct {
			Title        string `json:"title"`
			ChannelTitle string `json:"channelTitle"`
		} `json:"snippet"`
		Statistics struct {
			ViewCount string `json:"viewCount"`
			LikeCount string `json:"likeCount"`
		} `json:"statistics"`
	} `json:"items"`
}

// Fetch looks the video up via GET /videos?part=snippet,statistics.
// An empty items list means the platform has no such video.
func (a *Adapter) Fetch(ctx context.Context, id types.VideoID) (types.VideoMetadata, error) {
	params := url.Values{}
	params.Set("part", "snippet,statistics")
	params.Set("id", string(id))
	params.Set("key", a.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"/videos?"+params.Encode(), nil)
	if err != nil {
		return types.VideoMetadata{}, err
	}
	resp, err := a.client.Do(req)
	if err != nil {
		return types.VideoMetadata{}, fmt.Errorf("youtube data api: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return types.VideoMetadata{}, fmt.Errorf("youtube data api: HTTP %d: %s", resp.StatusCode, snippet)
	}

	var vr videosResp
	if err := json.NewDecoder(resp.Body).Decode(&vr); err != nil {
		return types.VideoMetadata{}, fmt.Errorf("decode videos response: %w", err)
	}
	if len(vr.Items) == 0 {
		return types.VideoMetadata{}, ports.ErrNotFound
	}

	item := vr.Items[0]
	views, _ := strconv.ParseUint(item.Statistics.ViewCount, 10, 64)
	likes, _ := strconv.ParseUint(item.Statistics.LikeCount, 10, 64)
	return types.VideoMetadata{
		Title:        item.Snippet.Title,
		ChannelTitle: item.Snippet.ChannelTitle,
		ViewCount:    views,
		LikeCount:    likes,
	}, nil
}
