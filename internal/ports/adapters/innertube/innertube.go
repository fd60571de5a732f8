// Package innertube fetches timed transcripts through YouTube's Innertube
// /player endpoint: resolve caption tracks with the ANDROID client, then
// pull the chosen track's timedtext XML.
package innertube

import (
	"bytes"
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"html"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/forPelevin/reelcut/internal/types"
)

const (
	defaultPlayerURL = "https://www.youtube.com/youtubei/v1/player"
	androidVersion   = "20.10.38"
	androidUA        = "com.google.android.youtube/" + androidVersion + " (Linux; U; Android 11) gzip"
)

type Adapter struct {
	playerURL string
	client    *http.Client
	log       zerolog.Logger
}

func New(playerURL string, log zerolog.Logger) *Adapter {
	if playerURL == "" {
		playerURL = defaultPlayerURL
	}
	return &Adapter{
		playerURL: playerURL,
		client:    &http.Client{Timeout: 20 * time.Second},
		log:       log,
	}
}

type playerReq struct {
	VideoID        string    `json:"videoId"`
	Context        playerCtx `json:"context"`
	RacyCheckOk    bool      `json:"racyCheckOk"`
	ContentCheckOk bool      `json:"contentCheckOk"`
}

type playerCtx struct {
	Client playerClient `json:"client"`
}

type playerClient struct {
	ClientName        string `json:"clientName"`
	ClientVersion     string `json:"clientVersion"`
	AndroidSdkVersion int    `json:"androidSdkVersion,omitempty"`
	Hl                string `json:"hl,omitempty"`
	Gl                string `json:"gl,omitempty"`
}

type playerResp struct {
	Captions *struct {
		PlayerCaptionsTracklistRenderer struct {
			CaptionTracks []captionTrack `json:"captionTracks"`
		} `json:"playerCaptionsTracklistRenderer"`
	} `json:"captions"`
}

type captionTrack struct {
	BaseURL      string `json:"baseUrl"`
	LanguageCode string `json:"languageCode"`
	Kind         string `json:"kind"` // "asr" = auto-generated
}

type timedText struct {
	Lines []timedLine `xml:"text"`
}

type timedLine struct {
	Start float64 `xml:"start,attr"`
	Dur   float64 `xml:"dur,attr"`
	Text  string  `xml:",chardata"`
}

// Fetch returns the timed transcript for id. A video without usable
// captions yields an empty transcript and a nil error; transcript absence
// is a normal outcome, not a failure.
func (a *Adapter) Fetch(ctx context.Context, id types.VideoID) ([]types.TranscriptEntry, error) {
	tracks, err := a.captionTracks(ctx, id)
	if err != nil {
		a.log.Warn().Err(err).Str("video_id", string(id)).Msg("could not resolve caption tracks")
		return nil, nil
	}
	if len(tracks) == 0 {
		a.log.Debug().Str("video_id", string(id)).Msg("no caption tracks")
		return nil, nil
	}

	entries, err := a.fetchTimedText(ctx, pickTrack(tracks).BaseURL)
	if err != nil {
		a.log.Warn().Err(err).Str("video_id", string(id)).Msg("could not fetch timedtext")
		return nil, nil
	}
	return entries, nil
}

func (a *Adapter) captionTracks(ctx context.Context, id types.VideoID) ([]captionTrack, error) {
	body, err := json.Marshal(playerReq{
		VideoID: string(id),
		Context: playerCtx{Client: playerClient{
			ClientName:        "ANDROID",
			ClientVersion:     androidVersion,
			AndroidSdkVersion: 30,
			Hl:                "en",
			Gl:                "US",
		}},
		RacyCheckOk:    true,
		ContentCheckOk: true,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.playerURL+"?prettyPrint=false", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", androidUA)
	req.Header.Set("X-Youtube-Client-Name", "3")
	req.Header.Set("X-Youtube-Client-Version", androidVersion)

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("innertube player: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return nil, fmt.Errorf("innertube player: HTTP %d: %s", resp.StatusCode, snippet)
	}

	var pr playerResp
	if err := json.NewDecoder(resp.Body).Decode(&pr); err != nil {
		return nil, fmt.Errorf("decode player response: %w", err)
	}
	if pr.Captions == nil {
		return nil, nil
	}
	return pr.Captions.PlayerCaptionsTracklistRenderer.CaptionTracks, nil
}

// pickTrack prefers a manual English track, then auto-generated English,
// then whatever comes first.
func pickTrack(tracks []captionTrack) captionTrack {
	for _, t := range tracks {
		if strings.HasPrefix(t.LanguageCode, "en") && t.Kind != "asr" {
			return t
		}
	}
	for _, t := range tracks {
		if strings.HasPrefix(t.LanguageCode, "en") {
			return t
		}
	}
	return tracks[0]
}

func (a *Adapter) fetchTimedText(ctx context.Context, baseURL string) ([]types.TranscriptEntry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch timedtext: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch timedtext: HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 2*1024*1024))
	if err != nil {
		return nil, err
	}
	return parseTimedText(body)
}

func parseTimedText(b []byte) ([]types.TranscriptEntry, error) {
	var tt timedText
	if err := xml.Unmarshal(b, &tt); err != nil {
		return nil, fmt.Errorf("parse timedtext XML: %w", err)
	}
	entries := make([]types.TranscriptEntry, 0, len(tt.Lines))
	for _, line := range tt.Lines {
		text := strings.TrimSpace(html.UnescapeString(line.Text))
		if text == "" || line.Dur <= 0 {
			continue
		}
		entries = append(entries, types.TranscriptEntry{
			Text:     text,
			Start:    line.Start,
			Duration: line.Dur,
		})
	}
	return entries, nil
}
