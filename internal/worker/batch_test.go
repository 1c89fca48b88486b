package worker

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
)

// funcTranslator adapts a function to the Translator interface.
type funcTranslator func(ctx context.Context, texts []string, source, target string) ([]string, error)

func (f funcTranslator) Translate(ctx context.Context, texts []string, source, target string) ([]string, error) {
	return f(ctx, texts, source, target)
}

func testOptions() Options {
	return Options{
		SourceLang:      "en",
		TargetLang:      "fr",
		BatchMaxChars:   20,
		MaxConcurrent:   2,
		MaxRetries:      3,
		RateLimitPerMin: 60000, // effectively unlimited in tests
	}
}

func TestMakeBatches_Empty(t *testing.T) {
	if got := makeBatches(nil, 100); got != nil {
		t.Errorf("expected nil for empty input, got %v", got)
	}
}

func TestMakeBatches_SplitsAtLimit(t *testing.T) {
	texts := []string{"aaaa", "bbbb", "cccc", "dddd"}
	batches := makeBatches(texts, 10)
	if len(batches) != 2 {
		t.Fatalf("expected 2 batches, got %d", len(batches))
	}
	if batches[0].start != 0 || len(batches[0].texts) != 2 {
		t.Errorf("batch 0 = start %d, %d texts", batches[0].start, len(batches[0].texts))
	}
	if batches[1].start != 2 || len(batches[1].texts) != 2 {
		t.Errorf("batch 1 = start %d, %d texts", batches[1].start, len(batches[1].texts))
	}
}

func TestMakeBatches_OversizedTextGetsOwnBatch(t *testing.T) {
	texts := []string{strings.Repeat("x", 50), "small"}
	batches := makeBatches(texts, 10)
	if len(batches) != 2 {
		t.Fatalf("expected 2 batches, got %d", len(batches))
	}
	if len(batches[0].texts) != 1 {
		t.Errorf("oversized text should sit alone in its batch")
	}
}

func TestMakeBatches_CoverEverythingInOrder(t *testing.T) {
	texts := make([]string, 17)
	for i := range texts {
		texts[i] = fmt.Sprintf("text-%02d", i)
	}
	var flat []string
	next := 0
	for _, b := range makeBatches(texts, 25) {
		if b.start != next {
			t.Errorf("batch start = %d, want %d", b.start, next)
		}
		flat = append(flat, b.texts...)
		next += len(b.texts)
	}
	if len(flat) != len(texts) {
		t.Fatalf("batches cover %d texts, want %d", len(flat), len(texts))
	}
	for i := range flat {
		if flat[i] != texts[i] {
			t.Errorf("text %d = %q, want %q", i, flat[i], texts[i])
		}
	}
}

func TestTranslateAll_PositionalResults(t *testing.T) {
	tr := funcTranslator(func(_ context.Context, texts []string, _, _ string) ([]string, error) {
		out := make([]string, len(texts))
		for i, s := range texts {
			out[i] = strings.ToUpper(s)
		}
		return out, nil
	})

	texts := []string{"one", "two", "three", "four", "five", "six"}
	out, err := translateAll(context.Background(), tr, texts, testOptions(), slog.Default())
	if err != nil {
		t.Fatalf("translateAll: %v", err)
	}
	if len(out) != len(texts) {
		t.Fatalf("got %d results, want %d", len(out), len(texts))
	}
	for i := range texts {
		if out[i] != strings.ToUpper(texts[i]) {
			t.Errorf("result %d = %q, want %q", i, out[i], strings.ToUpper(texts[i]))
		}
	}
}

func TestTranslateAll_RetriesTransientFailure(t *testing.T) {
	var calls atomic.Int32
	var mu sync.Mutex
	failed := map[string]bool{}

	tr := funcTranslator(func(_ context.Context, texts []string, _, _ string) ([]string, error) {
		calls.Add(1)
		mu.Lock()
		first := !failed[texts[0]]
		failed[texts[0]] = true
		mu.Unlock()
		if first {
			return nil, fmt.Errorf("transient")
		}
		return texts, nil
	})

	texts := []string{"alpha", "beta"}
	opts := testOptions()
	opts.BatchMaxChars = 4 // one text per batch
	out, err := translateAll(context.Background(), tr, texts, opts, slog.Default())
	if err != nil {
		t.Fatalf("translateAll: %v", err)
	}
	if out[0] != "alpha" || out[1] != "beta" {
		t.Errorf("results = %v", out)
	}
	if calls.Load() != 4 {
		t.Errorf("expected 4 calls (2 failures + 2 retries), got %d", calls.Load())
	}
}

func TestTranslateAll_PersistentFailure(t *testing.T) {
	tr := funcTranslator(func(_ context.Context, _ []string, _, _ string) ([]string, error) {
		return nil, fmt.Errorf("service down")
	})

	opts := testOptions()
	opts.MaxRetries = 1 // no backoff sleeps
	_, err := translateAll(context.Background(), tr, []string{"x"}, opts, slog.Default())
	if err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	if !strings.Contains(err.Error(), "service down") {
		t.Errorf("error should wrap the cause: %v", err)
	}
}

func TestTranslateAll_CountMismatchIsError(t *testing.T) {
	tr := funcTranslator(func(_ context.Context, texts []string, _, _ string) ([]string, error) {
		return texts[:len(texts)-1], nil
	})

	opts := testOptions()
	opts.MaxRetries = 1
	_, err := translateAll(context.Background(), tr, []string{"a", "b"}, opts, slog.Default())
	if err == nil {
		t.Fatal("expected error on translation count mismatch")
	}
}
