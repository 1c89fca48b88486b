package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	googleEndpoint = "https://translate.googleapis.com/translate_a/single"
	requestTimeout = 2 * time.Minute
)

// GoogleClient talks to the free Google translate web endpoint (the same
// one the gtx browser client uses, so no API key is involved). Rate
// limiting and retries are the caller's concern; this client performs one
// request per call.
type GoogleClient struct {
	endpoint string
	client   *http.Client
}

// NewGoogleClient returns a client against the public endpoint.
func NewGoogleClient() *GoogleClient {
	return &GoogleClient{
		endpoint: googleEndpoint,
		client:   &http.Client{Timeout: requestTimeout},
	}
}

// Translate sends the batch as a single newline-joined request. When the
// service merges or splits lines so the count no longer matches, it falls
// back to one request per text, which cannot misalign.
func (c *GoogleClient) Translate(ctx context.Context, texts []string, source, target string) ([]string, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	translated, err := c.translateText(ctx, strings.Join(texts, "\n"), source, target)
	if err != nil {
		return nil, err
	}
	parts := strings.Split(translated, "\n")
	if len(parts) == len(texts) {
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts, nil
	}

	out := make([]string, len(texts))
	for i, text := range texts {
		translated, err := c.translateText(ctx, text, source, target)
		if err != nil {
			return nil, fmt.Errorf("translate text %d/%d: %w", i+1, len(texts), err)
		}
		out[i] = strings.TrimSpace(translated)
	}
	return out, nil
}

func (c *GoogleClient) translateText(ctx context.Context, text, source, target string) (string, error) {
	q := url.Values{}
	q.Set("client", "gtx")
	q.Set("sl", source)
	q.Set("tl", target)
	q.Set("dt", "t")
	q.Set("q", text)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	for k, vals := range RandomHeaders() {
		for _, v := range vals {
			req.Header.Set(k, v)
		}
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("translation API returned status %d: %s", resp.StatusCode, string(body))
	}

	return decodeResponse(resp.Body)
}

// decodeResponse digs the translated segments out of the endpoint's nested
// array payload ([[["<translated>","<original>",...],...],...]) and
// concatenates them. Segment boundaries carry the newlines of the source
// text, so the concatenation preserves line structure.
func decodeResponse(r io.Reader) (string, error) {
	var payload []json.RawMessage
	if err := json.NewDecoder(r).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(payload) == 0 {
		return "", fmt.Errorf("empty translation payload")
	}

	var segments [][]json.RawMessage
	if err := json.Unmarshal(payload[0], &segments); err != nil {
		return "", fmt.Errorf("decode segments: %w", err)
	}

	var sb strings.Builder
	for _, seg := range segments {
		if len(seg) == 0 {
			continue
		}
		var text string
		// Null segments happen in the wild; skip them.
		if err := json.Unmarshal(seg[0], &text); err != nil {
			continue
		}
		sb.WriteString(text)
	}
	return sb.String(), nil
}
