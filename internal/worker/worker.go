// Package worker orchestrates one translation run: optional subtitle
// extraction, cache lookup, parsing, batched translation and write-back.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jcbastosportela/translate-subs/internal/cache"
	"github.com/jcbastosportela/translate-subs/internal/ffmpeg"
	"github.com/jcbastosportela/translate-subs/internal/srt"
	"github.com/jcbastosportela/translate-subs/internal/translate"
)

// Options configures the worker.
type Options struct {
	InputPath  string
	OutputPath string

	SourceLang     string
	TargetLang     string
	SuppressMarkup bool

	// ExtractLang is the ISO 639-2 track language to pull out of a video
	// input. Empty means the input is already a subtitle file.
	ExtractLang string

	BatchMaxChars   int
	MaxConcurrent   int
	MaxRetries      int
	RateLimitPerMin int

	CacheDir    string
	CacheMaxAge time.Duration
	NoCache     bool

	// Translator overrides the default client; tests use this.
	Translator translate.Translator
}

// Run is the top-level orchestrator for one subtitle translation.
func Run(ctx context.Context, opts Options) error {
	logger := slog.With("job", uuid.NewString()[:8])

	subsPath, err := resolveSubtitles(ctx, opts, logger)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(subsPath)
	if err != nil {
		return fmt.Errorf("read subtitles: %w", err)
	}

	outputPath := opts.OutputPath
	if outputPath == "" {
		base := strings.TrimSuffix(subsPath, filepath.Ext(subsPath))
		outputPath = base + "." + opts.TargetLang + ".srt"
	}

	// The input path identifies the video/subtitle source; query strings
	// are unique per playback instance and must not defeat the cache.
	sourceID := strings.SplitN(opts.InputPath, "?", 2)[0]
	key := cache.Key(sourceID, data, opts.TargetLang)

	var store *cache.Store
	if !opts.NoCache {
		store, err = cache.NewStore(opts.CacheDir)
		if err != nil {
			logger.Warn("cache unavailable", "err", err)
		} else {
			if opts.CacheMaxAge > 0 {
				if removed, err := store.Clean(opts.CacheMaxAge); err == nil && removed > 0 {
					logger.Debug("pruned stale cache entries", "removed", removed)
				}
			}
			if cached, ok, err := store.Get(key); err == nil && ok {
				logger.Info("cache hit, skipping translation", "output", outputPath)
				return os.WriteFile(outputPath, cached, 0o644)
			}
		}
	}

	doc := srt.Parse(string(data), opts.SuppressMarkup)
	spans := doc.Spans()
	if len(spans) == 0 {
		return fmt.Errorf("no translatable text in %s", subsPath)
	}
	logger.Info("parsed subtitles", "blocks", len(doc.Blocks), "spans", len(spans))

	texts := make([]string, len(spans))
	for i, sp := range spans {
		texts[i] = sp.Text
	}

	tr := opts.Translator
	if tr == nil {
		tr = translate.NewGoogleClient()
	}
	translated, err := translateAll(ctx, tr, texts, opts, logger)
	if err != nil {
		return err
	}

	// Write back by position: the traversal order is stable, so index i of
	// the results belongs to span i.
	for i, sp := range spans {
		sp.Text = strings.TrimSpace(translated[i])
	}

	rendered := doc.Render()
	if rendered == "" {
		return fmt.Errorf("rendering produced empty output")
	}
	if err := os.WriteFile(outputPath, []byte(rendered), 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	logger.Info("translated subtitles saved", "path", outputPath)

	if store != nil {
		if err := store.Put(key, []byte(rendered)); err != nil {
			logger.Warn("failed to cache translation", "err", err)
		}
	}
	return nil
}

// resolveSubtitles returns the subtitle file to translate, extracting it
// from the video first when asked to.
func resolveSubtitles(ctx context.Context, opts Options, logger *slog.Logger) (string, error) {
	inputPath := opts.InputPath
	ext := filepath.Ext(inputPath)

	if opts.ExtractLang == "" || !ffmpeg.IsVideoExtension(ext) {
		return inputPath, nil
	}
	if !ffmpeg.Available() {
		return "", fmt.Errorf("ffmpeg not found, cannot extract subtitles from %s", filepath.Base(inputPath))
	}

	subsPath := strings.TrimSuffix(inputPath, ext) + "." + opts.ExtractLang + ".srt"
	progress := func(pct float64) {
		logger.Debug("extraction progress", "percent", fmt.Sprintf("%.0f%%", pct))
	}
	if err := ffmpeg.ExtractSubtitle(ctx, inputPath, subsPath, opts.ExtractLang, progress); err != nil {
		return "", fmt.Errorf("extract subtitles: %w", err)
	}
	return subsPath, nil
}
