package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	verbose bool
	quiet   bool
	cfgFile string
)

var rootCmd = &cobra.Command{
	Use:   "translate-subs",
	Short: "Translate SRT subtitle files while preserving font markup",
	Long: `Translate-subs parses SRT subtitle files into tagged and plain text spans,
sends only the human-readable text to a translation service and rebuilds the
file with the original font/color markup around the translated text. It can
also extract embedded subtitle tracks from video files via ffmpeg and keeps
an on-disk cache of finished translations.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogging()
	},
}

func setupLogging() {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	if quiet {
		level = slog.LevelError
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress non-error output")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: user config dir)")
}
