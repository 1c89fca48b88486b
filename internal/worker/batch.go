package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/jcbastosportela/translate-subs/internal/translate"
)

// batch is a contiguous slice of span texts plus its offset into the full
// sequence, so results can land in the right output positions without a
// mutex.
type batch struct {
	start int
	texts []string
}

// makeBatches groups texts into request-sized batches. A batch is closed
// when adding the next text would push its payload past maxChars; a single
// oversized text still gets its own batch.
func makeBatches(texts []string, maxChars int) []batch {
	var batches []batch
	cur := batch{start: 0}
	size := 0
	for i, text := range texts {
		if len(cur.texts) > 0 && size+len(text)+1 > maxChars {
			batches = append(batches, cur)
			cur = batch{start: i}
			size = 0
		}
		cur.texts = append(cur.texts, text)
		size += len(text) + 1
	}
	if len(cur.texts) > 0 {
		batches = append(batches, cur)
	}
	return batches
}

// translateAll translates every text through tr, batching requests and
// running them concurrently with bounded parallelism, rate limiting and
// retry with exponential backoff. The result has the same length and order
// as texts.
func translateAll(ctx context.Context, tr translate.Translator, texts []string, opts Options, logger *slog.Logger) ([]string, error) {
	batches := makeBatches(texts, opts.BatchMaxChars)
	logger.Info("starting translation",
		"texts", len(texts),
		"batches", len(batches),
		"max_concurrent", opts.MaxConcurrent,
		"rate_limit_rpm", opts.RateLimitPerMin)

	// Rate limiter: tokens per second = RPM / 60.
	limiter := rate.NewLimiter(rate.Limit(float64(opts.RateLimitPerMin)/60.0), 1)

	out := make([]string, len(texts))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.MaxConcurrent)

	for bi, b := range batches {
		bi, b := bi, b
		g.Go(func() error {
			if err := limiter.Wait(gctx); err != nil {
				return fmt.Errorf("rate limiter: %w", err)
			}

			var translated []string
			var lastErr error

			// Retry loop with exponential backoff.
			for attempt := 0; attempt < opts.MaxRetries; attempt++ {
				select {
				case <-gctx.Done():
					return gctx.Err()
				default:
				}

				res, err := tr.Translate(gctx, b.texts, opts.SourceLang, opts.TargetLang)
				if err == nil {
					translated = res
					break
				}

				lastErr = err
				if attempt < opts.MaxRetries-1 {
					backoff := 1 << uint(attempt) // 1s, 2s, 4s...
					logger.Warn("batch failed, retrying",
						"batch", fmt.Sprintf("%d/%d", bi+1, len(batches)),
						"attempt", attempt+1,
						"backoff_sec", backoff,
						"err", err)

					timer := time.NewTimer(time.Duration(backoff) * time.Second)
					select {
					case <-gctx.Done():
						timer.Stop()
						return gctx.Err()
					case <-timer.C:
					}
				}
			}

			if translated == nil {
				return fmt.Errorf("batch %d/%d failed after %d retries: %w",
					bi+1, len(batches), opts.MaxRetries, lastErr)
			}
			if len(translated) != len(b.texts) {
				return fmt.Errorf("batch %d/%d: got %d translations for %d texts",
					bi+1, len(batches), len(translated), len(b.texts))
			}

			// Batches cover disjoint ranges of out.
			copy(out[b.start:], translated)

			logger.Debug("batch completed", "batch", fmt.Sprintf("%d/%d", bi+1, len(batches)))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
