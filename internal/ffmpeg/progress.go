package ffmpeg

import (
	"strconv"
	"strings"
)

// parseProgress extracts the current position in seconds from an ffmpeg
// status line ("frame=... time=00:01:23.45 bitrate=..."). Lines without a
// parseable time= field report ok=false.
func parseProgress(line string) (seconds float64, ok bool) {
	if !strings.Contains(line, "time=") {
		return 0, false
	}
	for _, part := range strings.Fields(line) {
		k, v, found := strings.Cut(part, "=")
		if !found || k != "time" {
			continue
		}
		return parseClock(v)
	}
	return 0, false
}

// parseClock converts an ffmpeg clock value (H:MM:SS.cc) to seconds.
func parseClock(v string) (float64, bool) {
	parts := strings.Split(v, ":")
	if len(parts) != 3 {
		return 0, false
	}
	h, err1 := strconv.Atoi(parts[0])
	m, err2 := strconv.Atoi(parts[1])
	s, err3 := strconv.ParseFloat(parts[2], 64)
	if err1 != nil || err2 != nil || err3 != nil {
		return 0, false
	}
	return float64(h)*3600 + float64(m)*60 + s, true
}
