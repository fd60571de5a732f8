package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/forPelevin/reelcut/internal/front/telegram"
	"github.com/forPelevin/reelcut/internal/logging"
	"github.com/forPelevin/reelcut/internal/pipeline"
)

func botCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bot",
		Short: "Run the Telegram bot front end",
		Args:  cobra.NoArgs,
		RunE:  runBot,
	}
}

func runBot(cmd *cobra.Command, _ []string) error {
	cfg, err := configFromFlags(cmd)
	if err != nil {
		return err
	}

	token := os.Getenv("TELEGRAM_BOT_TOKEN")
	if token == "" {
		return errors.New("TELEGRAM_BOT_TOKEN is required (set it in .env)")
	}

	uc, err := pipeline.New(cfg)
	if err != nil {
		return err
	}

	log := logging.WithComponent("bot")
	bot, err := telegram.New(token, uc, log)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info().Msg("starting bot")
	err = bot.Run(ctx)
	if errors.Is(err, context.Canceled) {
		log.Info().Msg("bot stopped")
		return nil
	}
	return err
}
