package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jcbastosportela/translate-subs/internal/ffmpeg"
)

var extractCmd = &cobra.Command{
	Use:   "extract <video-file>",
	Short: "Extract an embedded subtitle track to an SRT file",
	Args:  cobra.ExactArgs(1),
	RunE:  runExtract,
}

var (
	extractTrackLang string
	extractOutput    string
)

func init() {
	extractCmd.Flags().StringVarP(&extractTrackLang, "lang", "l", "eng", "ISO 639-2 language of the track to extract")
	extractCmd.Flags().StringVarP(&extractOutput, "output", "o", "", "output SRT path (default: <input>.<lang>.srt)")

	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	inputPath, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}
	if _, err := os.Stat(inputPath); os.IsNotExist(err) {
		return fmt.Errorf("file not found: %s", args[0])
	}

	ext := strings.ToLower(filepath.Ext(inputPath))
	if !ffmpeg.IsVideoExtension(ext) {
		return fmt.Errorf("not a video file: %s", ext)
	}
	if !ffmpeg.Available() {
		return fmt.Errorf("ffmpeg not found on PATH")
	}

	outputPath := extractOutput
	if outputPath == "" {
		outputPath = strings.TrimSuffix(inputPath, filepath.Ext(inputPath)) + "." + extractTrackLang + ".srt"
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	progress := func(pct float64) {
		slog.Debug("extraction progress", "percent", fmt.Sprintf("%.0f%%", pct))
	}
	if err := ffmpeg.ExtractSubtitle(ctx, inputPath, outputPath, extractTrackLang, progress); err != nil {
		return err
	}

	slog.Info("subtitle track saved", "path", outputPath)
	return nil
}
