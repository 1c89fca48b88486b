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

	"github.com/jcbastosportela/translate-subs/internal/config"
	"github.com/jcbastosportela/translate-subs/internal/ffmpeg"
	"github.com/jcbastosportela/translate-subs/internal/worker"
)

var translateCmd = &cobra.Command{
	Use:   "translate <input-file>",
	Short: "Translate an SRT file (or a video's embedded subtitles)",
	Long: `Translate an SRT subtitle file into the target language. When the input is
a video file and --extract-lang is given, the matching embedded subtitle
track is extracted with ffmpeg first. Font/color markup is preserved around
the translated text; other tags are dropped.`,
	Args: cobra.ExactArgs(1),
	RunE: runTranslate,
}

var (
	sourceLang    string
	targetLang    string
	output        string
	stripTags     bool
	extractLang   string
	noCache       bool
	maxConcurrent int
	maxRetries    int
	rateLimit     int
	batchChars    int
)

func init() {
	defaults := config.Default()

	translateCmd.Flags().StringVarP(&sourceLang, "source", "s", defaults.SourceLang, "source language code, or 'auto'")
	translateCmd.Flags().StringVarP(&targetLang, "target", "t", defaults.TargetLang, "target language code")
	translateCmd.Flags().StringVarP(&output, "output", "o", "", "output SRT path (default: <input>.<target>.srt)")
	translateCmd.Flags().BoolVar(&stripTags, "strip-tags", defaults.SuppressMarkup, "drop font/color tags from the output")
	translateCmd.Flags().StringVar(&extractLang, "extract-lang", "", "ISO 639-2 subtitle track to extract from video input (e.g. eng)")
	translateCmd.Flags().BoolVar(&noCache, "no-cache", false, "bypass the translation cache")
	translateCmd.Flags().IntVarP(&maxConcurrent, "max-concurrent", "j", defaults.MaxConcurrent, "max concurrent translation requests")
	translateCmd.Flags().IntVar(&maxRetries, "max-retries", defaults.MaxRetries, "max retries per batch")
	translateCmd.Flags().IntVar(&rateLimit, "rate-limit", defaults.APIRateLimitPerMin, "translation requests per minute")
	translateCmd.Flags().IntVar(&batchChars, "batch-chars", defaults.BatchMaxChars, "max characters per translation request")

	rootCmd.AddCommand(translateCmd)
}

func runTranslate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	applyTranslateFlags(cmd, cfg)

	inputPath, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}
	if _, err := os.Stat(inputPath); os.IsNotExist(err) {
		return fmt.Errorf("file not found: %s", args[0])
	}

	ext := strings.ToLower(filepath.Ext(inputPath))
	if ext != ".srt" && !ffmpeg.IsVideoExtension(ext) {
		return fmt.Errorf("unsupported file type: %s", ext)
	}
	if ffmpeg.IsVideoExtension(ext) && extractLang == "" {
		return fmt.Errorf("video input needs --extract-lang to pick a subtitle track")
	}

	// Setup signal handling for graceful cancellation.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	opts := worker.Options{
		InputPath:       inputPath,
		OutputPath:      output,
		SourceLang:      cfg.SourceLang,
		TargetLang:      cfg.TargetLang,
		SuppressMarkup:  cfg.SuppressMarkup,
		ExtractLang:     extractLang,
		BatchMaxChars:   cfg.BatchMaxChars,
		MaxConcurrent:   cfg.MaxConcurrent,
		MaxRetries:      cfg.MaxRetries,
		RateLimitPerMin: cfg.APIRateLimitPerMin,
		CacheDir:        cfg.ResolvedCacheDir(),
		CacheMaxAge:     cfg.CacheMaxAge(),
		NoCache:         noCache,
	}

	if err := worker.Run(ctx, opts); err != nil {
		return err
	}

	if !quiet {
		slog.Info("done")
	}
	return nil
}

// applyTranslateFlags overlays flags the user actually set on top of the
// loaded config file values.
func applyTranslateFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("source") {
		cfg.SourceLang = sourceLang
	}
	if flags.Changed("target") {
		cfg.TargetLang = targetLang
	}
	if flags.Changed("strip-tags") {
		cfg.SuppressMarkup = stripTags
	}
	if flags.Changed("max-concurrent") {
		cfg.MaxConcurrent = maxConcurrent
	}
	if flags.Changed("max-retries") {
		cfg.MaxRetries = maxRetries
	}
	if flags.Changed("rate-limit") {
		cfg.APIRateLimitPerMin = rateLimit
	}
	if flags.Changed("batch-chars") {
		cfg.BatchMaxChars = batchChars
	}
}
