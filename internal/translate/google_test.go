package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// fakeEndpoint builds an httptest server that uppercases each input line
// and answers in the endpoint's nested-array format, one segment per line.
func fakeEndpoint(t *testing.T, calls *int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*calls++
		q := r.URL.Query().Get("q")
		lines := strings.Split(q, "\n")
		segments := make([][]any, 0, len(lines))
		for i, line := range lines {
			text := strings.ToUpper(line)
			if i < len(lines)-1 {
				text += "\n"
			}
			segments = append(segments, []any{text, line})
		}
		payload := []any{segments, nil, "auto"}
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			t.Errorf("encode payload: %v", err)
		}
	}))
}

func newTestClient(srv *httptest.Server) *GoogleClient {
	return &GoogleClient{endpoint: srv.URL, client: srv.Client()}
}

func TestGoogleClient_TranslateBatch(t *testing.T) {
	calls := 0
	srv := fakeEndpoint(t, &calls)
	defer srv.Close()

	c := newTestClient(srv)
	out, err := c.Translate(context.Background(), []string{"hello", "world"}, "en", "fr")
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 results, got %d", len(out))
	}
	if out[0] != "HELLO" || out[1] != "WORLD" {
		t.Errorf("results = %v, want [HELLO WORLD]", out)
	}
	if calls != 1 {
		t.Errorf("expected a single batched request, got %d", calls)
	}
}

func TestGoogleClient_EmptyBatch(t *testing.T) {
	c := NewGoogleClient()
	out, err := c.Translate(context.Background(), nil, "en", "fr")
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if out != nil {
		t.Errorf("expected nil for empty batch, got %v", out)
	}
}

func TestGoogleClient_LineCountMismatchFallsBack(t *testing.T) {
	calls := 0
	// Server collapses every request to a single line, so the batched
	// request mismatches and the client retries text by text.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		payload := []any{[][]any{{"collapsed"}}, nil, "auto"}
		json.NewEncoder(w).Encode(payload)
	}))
	defer srv.Close()

	c := newTestClient(srv)
	out, err := c.Translate(context.Background(), []string{"a", "b"}, "en", "fr")
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if len(out) != 2 || out[0] != "collapsed" || out[1] != "collapsed" {
		t.Errorf("results = %v", out)
	}
	if calls != 3 {
		t.Errorf("expected 1 batch + 2 fallback requests, got %d", calls)
	}
}

func TestGoogleClient_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := newTestClient(srv)
	_, err := c.Translate(context.Background(), []string{"hello"}, "en", "fr")
	if err == nil {
		t.Fatal("expected error on 429 response")
	}
	if !strings.Contains(err.Error(), "429") {
		t.Errorf("error should mention the status code: %v", err)
	}
}

func TestDecodeResponse_SkipsNullSegments(t *testing.T) {
	body := `[[["Bonjour ","Hello ",null],[null],["monde","world"]],null,"en"]`
	got, err := decodeResponse(strings.NewReader(body))
	if err != nil {
		t.Fatalf("decodeResponse: %v", err)
	}
	if got != "Bonjour monde" {
		t.Errorf("decoded = %q, want 'Bonjour monde'", got)
	}
}

func TestDecodeResponse_MalformedPayload(t *testing.T) {
	for _, body := range []string{"", "{}", "[]", `["not-an-array"]`} {
		if _, err := decodeResponse(strings.NewReader(body)); err == nil {
			t.Errorf("expected error for payload %q", body)
		}
	}
}

// Guard against the batch joining logic dropping texts when inputs contain
// many entries.
func TestGoogleClient_LargeBatchOrderPreserved(t *testing.T) {
	calls := 0
	srv := fakeEndpoint(t, &calls)
	defer srv.Close()

	c := newTestClient(srv)
	texts := make([]string, 40)
	for i := range texts {
		texts[i] = fmt.Sprintf("line %d", i)
	}
	out, err := c.Translate(context.Background(), texts, "en", "de")
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if len(out) != len(texts) {
		t.Fatalf("expected %d results, got %d", len(texts), len(out))
	}
	for i, got := range out {
		want := strings.ToUpper(texts[i])
		if got != want {
			t.Errorf("result %d = %q, want %q", i, got, want)
		}
	}
}
