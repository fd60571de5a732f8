// Package telegram is the chat front end: it receives YouTube links,
// streams progress updates while the pipeline runs, and delivers the
// finished reels as videos.
package telegram

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"github.com/forPelevin/reelcut/internal/usecase"
)

const (
	startReply = "👋 Welcome to YouTube Viral Reels Bot!\n\n" +
		"Send me a YouTube video link, and I'll generate up to 5 viral reels from it.\n\n" +
		"Just paste the URL and I'll take care of the rest!"

	helpReply = "📖 YouTube Viral Reels Bot Help\n\n" +
		"This bot creates viral reels from YouTube videos. Here's how to use it:\n\n" +
		"1. Simply paste a YouTube video URL\n" +
		"2. Wait while I process the video\n" +
		"3. Receive up to 5 viral reels extracted from the video\n\n" +
		"Supported URL formats:\n" +
		"• youtube.com/watch?v=VIDEO_ID\n" +
		"• youtu.be/VIDEO_ID\n" +
		"• youtube.com/shorts/VIDEO_ID"

	doneReply = "✅ All done! These are the top viral moments from your video."
)

// sender is the slice of the Telegram API the bot uses; split out so
// handler tests can run against a fake.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type Bot struct {
	api  *tgbotapi.BotAPI
	send sender
	uc   *usecase.Usecase
	log  zerolog.Logger
}

// New connects to the Telegram Bot API with the given token.
func New(token string, uc *usecase.Usecase, log zerolog.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram connect: %w", err)
	}
	log.Info().Str("username", api.Self.UserName).Msg("bot authorized")
	return &Bot{api: api, send: api, uc: uc, log: log}, nil
}

// Run long-polls for updates until ctx is cancelled. Each incoming message
// is handled on its own goroutine so one slow video never blocks other
// chats.
func (b *Bot) Run(ctx context.Context) error {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = 30
	updates := b.api.GetUpdatesChan(cfg)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil || update.Message.Text == "" {
				continue
			}
			msg := update.Message
			go b.handle(ctx, msg)
		}
	}
}

func (b *Bot) handle(ctx context.Context, msg *tgbotapi.Message) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Error().Interface("panic", r).Int64("chat_id", msg.Chat.ID).Msg("handler panicked")
		}
	}()

	if msg.IsCommand() {
		switch msg.Command() {
		case "start":
			b.reply(msg.Chat.ID, startReply)
		case "help":
			b.reply(msg.Chat.ID, helpReply)
		default:
			b.reply(msg.Chat.ID, "Unknown command. Send a YouTube link or /help.")
		}
		return
	}

	b.processLink(ctx, msg.Chat.ID, strings.TrimSpace(msg.Text))
}

// processLink drives one pipeline run for a chat, editing a single status
// message as the stages advance.
func (b *Bot) processLink(ctx context.Context, chatID int64, url string) {
	status, err := b.send.Send(tgbotapi.NewMessage(chatID, "🔍 Analyzing YouTube video..."))
	if err != nil {
		b.log.Error().Err(err).Int64("chat_id", chatID).Msg("could not send status message")
		return
	}

	progress := func(stage usecase.Stage, message string) {
		if stage == usecase.StageResolving {
			return // the initial status message already covers it
		}
		edit := tgbotapi.NewEditMessageText(chatID, status.MessageID, stageEmoji(stage)+" "+message)
		if _, err := b.send.Send(edit); err != nil {
			b.log.Debug().Err(err).Msg("could not edit status message")
		}
	}

	res, err := b.uc.Run(ctx, usecase.Request{RawURL: url, Progress: progress})
	if err != nil {
		b.log.Error().Err(err).Int64("chat_id", chatID).Str("url", url).Msg("pipeline failed")
		edit := tgbotapi.NewEditMessageText(chatID, status.MessageID, "❌ "+usecase.UserMessage(err))
		if _, serr := b.send.Send(edit); serr != nil {
			b.log.Debug().Err(serr).Msg("could not report failure")
		}
		return
	}

	for _, clip := range res.Clips {
		video := tgbotapi.NewVideo(chatID, tgbotapi.FilePath(clip.Path))
		video.Caption = fmt.Sprintf("Viral Reel #%d from your video", clip.Ordinal+1)
		if _, err := b.send.Send(video); err != nil {
			b.log.Error().Err(err).Str("path", clip.Path).Msg("could not deliver clip")
		}
	}
	b.reply(chatID, doneReply)
}

func (b *Bot) reply(chatID int64, text string) {
	if _, err := b.send.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		b.log.Error().Err(err).Int64("chat_id", chatID).Msg("could not send reply")
	}
}

func stageEmoji(stage usecase.Stage) string {
	switch stage {
	case usecase.StageCacheCheck:
		return "🔍"
	case usecase.StageFetchingMetadata:
		return "🔍"
	case usecase.StageFetchingVideo:
		return "⬇️"
	case usecase.StageFetchingTranscript:
		return "📜"
	case usecase.StageScoring:
		return "🔎"
	case usecase.StageExtracting:
		return "✂️"
	case usecase.StageCommitting:
		return "💾"
	case usecase.StageServing:
		return "📤"
	default:
		return "ℹ️"
	}
}
