// Package ffmpeg wraps the ffmpeg/ffprobe binaries for probing media and
// extracting embedded subtitle tracks.
package ffmpeg

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

// fallbackDuration is assumed when ffprobe cannot tell, so progress still
// moves instead of dividing by zero.
const fallbackDuration = 3600.0

// ProgressFunc is called with the completion percentage (0-100) while an
// extraction runs.
type ProgressFunc func(percent float64)

// Available returns true if ffmpeg is on the PATH.
func Available() bool {
	_, err := exec.LookPath("ffmpeg")
	return err == nil
}

// probeOutput mirrors ffprobe JSON structure.
type probeOutput struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

// ProbeDuration uses ffprobe to get the media duration in seconds.
func ProbeDuration(ctx context.Context, path string) (float64, error) {
	if _, err := exec.LookPath("ffprobe"); err != nil {
		return 0, fmt.Errorf("ffprobe not found: %w", err)
	}

	cmd := exec.CommandContext(ctx,
		"ffprobe",
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "json",
		path,
	)

	out, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("ffprobe failed: %w", err)
	}

	var probe probeOutput
	if err := json.Unmarshal(out, &probe); err != nil {
		return 0, fmt.Errorf("ffprobe JSON parse error: %w", err)
	}

	dur, err := strconv.ParseFloat(probe.Format.Duration, 64)
	if err != nil {
		return 0, fmt.Errorf("ffprobe duration %q: %w", probe.Format.Duration, err)
	}
	return dur, nil
}

// ExtractSubtitle extracts the first subtitle stream tagged with the given
// ISO 639-2 language from a video file into outputPath. ffmpeg reports
// position on stderr while it runs; progress (optional) receives the
// percentage derived from those reports.
func ExtractSubtitle(ctx context.Context, videoPath, outputPath, lang string, progress ProgressFunc) error {
	slog.Info("extracting subtitle track",
		"input", filepath.Base(videoPath), "output", filepath.Base(outputPath), "lang", lang)

	total, err := ProbeDuration(ctx, videoPath)
	if err != nil || total <= 0 {
		slog.Debug("could not determine video duration, assuming one hour", "err", err)
		total = fallbackDuration
	}

	cmd := exec.CommandContext(ctx,
		"ffmpeg", "-i", videoPath,
		"-map", "0:s:m:language:"+lang,
		"-y",
		outputPath,
	)

	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("stderr pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start ffmpeg: %w", err)
	}

	// ffmpeg writes status lines terminated by \r while running and by \n
	// otherwise; split on both.
	scanner := bufio.NewScanner(stderr)
	scanner.Split(scanCRorLF)
	var tail []string
	for scanner.Scan() {
		line := scanner.Text()
		tail = append(tail, line)
		if len(tail) > 10 {
			tail = tail[1:]
		}
		if sec, ok := parseProgress(line); ok && progress != nil {
			pct := sec / total * 100
			if pct > 100 {
				pct = 100
			}
			progress(pct)
		}
	}

	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("ffmpeg extract subtitle failed: %w\n%s", err, strings.Join(tail, "\n"))
	}
	return nil
}

// IsVideoExtension returns true for common video file extensions.
func IsVideoExtension(ext string) bool {
	switch strings.ToLower(ext) {
	case ".mp4", ".mkv", ".mov", ".avi", ".flv", ".webm":
		return true
	}
	return false
}

// scanCRorLF is a bufio.SplitFunc treating both \r and \n as line ends.
func scanCRorLF(data []byte, atEOF bool) (advance int, token []byte, err error) {
	for i, b := range data {
		if b == '\n' || b == '\r' {
			return i + 1, data[:i], nil
		}
	}
	if atEOF && len(data) > 0 {
		return len(data), data, nil
	}
	return 0, nil, nil
}
