package cli

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/forPelevin/reelcut/internal/logging"
)

func Main() {
	_ = godotenv.Load() // best-effort: load .env if present

	var verbose bool

	root := &cobra.Command{
		Use:          "reelcut <youtube-url>",
		Short:        "Cut viral reels from a YouTube video",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			logging.Init(verbose)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOnce(cmd, args[0])
		},
	}

	root.SetOut(os.Stdout)
	root.SetErr(os.Stderr)
	root.SilenceErrors = true

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Debug logging")
	root.PersistentFlags().String("cache-dir", "cache", "Result cache directory")
	root.PersistentFlags().String("reels-dir", "reels", "Finished clips directory")
	root.PersistentFlags().String("temp-dir", "temp", "Downloaded sources directory")

	// Hidden tool-path overrides
	root.PersistentFlags().String("ffmpeg", "ffmpeg", "ffmpeg binary")
	root.PersistentFlags().String("ffprobe", "ffprobe", "ffprobe binary")
	root.PersistentFlags().String("yt-dlp", "yt-dlp", "yt-dlp binary")
	_ = root.PersistentFlags().MarkHidden("ffmpeg")
	_ = root.PersistentFlags().MarkHidden("ffprobe")
	_ = root.PersistentFlags().MarkHidden("yt-dlp")

	root.AddCommand(botCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func getenvDefault(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}
