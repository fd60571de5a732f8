package telegram

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/forPelevin/reelcut/internal/cache"
	"github.com/forPelevin/reelcut/internal/logging"
	"github.com/forPelevin/reelcut/internal/types"
	"github.com/forPelevin/reelcut/internal/usecase"
	"github.com/forPelevin/reelcut/internal/videoid"
)

type fakeSender struct {
	sent []tgbotapi.Chattable
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.sent = append(f.sent, c)
	return tgbotapi.Message{MessageID: len(f.sent)}, nil
}

func (f *fakeSender) texts() []string {
	var out []string
	for _, c := range f.sent {
		switch m := c.(type) {
		case tgbotapi.MessageConfig:
			out = append(out, m.Text)
		case tgbotapi.EditMessageTextConfig:
			out = append(out, m.Text)
		case tgbotapi.VideoConfig:
			out = append(out, "[video] "+m.Caption)
		}
	}
	return out
}

type fakeMeta struct{}

func (fakeMeta) Fetch(context.Context, types.VideoID) (types.VideoMetadata, error) {
	return types.VideoMetadata{Title: "t"}, nil
}

type fakeTranscripts struct{ entries []types.TranscriptEntry }

func (f fakeTranscripts) Fetch(context.Context, types.VideoID) ([]types.TranscriptEntry, error) {
	return f.entries, nil
}

type fakeAcquirer struct{ path string }

func (f fakeAcquirer) Fetch(context.Context, types.VideoID, int, time.Duration) (string, error) {
	return f.path, nil
}

type fixedSelector struct{}

func (fixedSelector) Select([]types.TranscriptEntry) []types.Segment {
	return []types.Segment{{Start: 0, End: 10, Score: 1}}
}

type fakeExtractor struct{ dir string }

func (f fakeExtractor) Extract(_ context.Context, _ string, _ []types.Segment, id types.VideoID) ([]types.Clip, error) {
	p := filepath.Join(f.dir, string(id)+"_reel_0.mp4")
	if err := os.WriteFile(p, []byte("clip"), 0o644); err != nil {
		return nil, err
	}
	return []types.Clip{{Path: p, Ordinal: 0}}, nil
}

func newTestBot(t *testing.T) (*Bot, *fakeSender) {
	t.Helper()
	dir := t.TempDir()
	src := filepath.Join(dir, "src.mp4")
	if err := os.WriteFile(src, []byte("video"), 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}

	uc := usecase.New(usecase.Deps{
		Resolve:     videoid.Resolve,
		Cache:       cache.New(filepath.Join(dir, "cache.json"), logging.New(os.Stderr)),
		Metadata:    fakeMeta{},
		Transcripts: fakeTranscripts{},
		Acquirer:    fakeAcquirer{path: src},
		Selector:    fixedSelector{},
		Extractor:   fakeExtractor{dir: dir},
		Log:         logging.New(os.Stderr),
	})
	sender := &fakeSender{}
	return &Bot{send: sender, uc: uc, log: logging.New(os.Stderr)}, sender
}

func command(text string) *tgbotapi.Message {
	return &tgbotapi.Message{
		Text:     text,
		Chat:     &tgbotapi.Chat{ID: 42},
		Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(text)}},
	}
}

func TestHandle_Commands(t *testing.T) {
	t.Parallel()

	tests := []struct {
		cmd  string
		want string
	}{
		{"/start", "Welcome"},
		{"/help", "Supported URL formats"},
		{"/bogus", "Unknown command"},
	}
	for _, tt := range tests {
		t.Run(tt.cmd, func(t *testing.T) {
			b, sender := newTestBot(t)
			b.handle(context.Background(), command(tt.cmd))
			texts := sender.texts()
			if len(texts) != 1 || !strings.Contains(texts[0], tt.want) {
				t.Fatalf("reply to %s = %v, want mention of %q", tt.cmd, texts, tt.want)
			}
		})
	}
}

func TestProcessLink_DeliversReels(t *testing.T) {
	t.Parallel()

	b, sender := newTestBot(t)
	b.processLink(context.Background(), 42, "https://youtu.be/dQw4w9WgXcQ")

	texts := sender.texts()
	if len(texts) == 0 {
		t.Fatalf("expected messages to be sent")
	}
	var videos, done int
	for _, txt := range texts {
		if strings.HasPrefix(txt, "[video] Viral Reel #1") {
			videos++
		}
		if strings.Contains(txt, "All done") {
			done++
		}
	}
	if videos != 1 {
		t.Fatalf("expected 1 delivered reel, got %d in %v", videos, texts)
	}
	if done != 1 {
		t.Fatalf("expected completion message, got %v", texts)
	}
}

func TestProcessLink_InvalidURLReportsWithoutWork(t *testing.T) {
	t.Parallel()

	b, sender := newTestBot(t)
	b.processLink(context.Background(), 42, "not a url")

	texts := sender.texts()
	// Status message plus one failure edit, nothing else.
	if len(texts) != 2 {
		t.Fatalf("expected status + failure messages, got %v", texts)
	}
	if !strings.Contains(texts[1], "valid YouTube URL") {
		t.Fatalf("expected invalid-URL report, got %q", texts[1])
	}
}

func TestProcessLink_ProgressEditsStatusMessage(t *testing.T) {
	t.Parallel()

	b, sender := newTestBot(t)
	b.processLink(context.Background(), 42, "https://youtu.be/dQw4w9WgXcQ")

	var edits int
	for _, c := range sender.sent {
		if _, ok := c.(tgbotapi.EditMessageTextConfig); ok {
			edits++
		}
	}
	if edits < 3 {
		t.Fatalf("expected several status edits across stages, got %d", edits)
	}
}
