package srt

import "strings"

// Span is the smallest translatable unit of a subtitle line: one run of
// text, optionally wrapped in font markup. Text is the only mutable field;
// a translator overwrites it between parsing and rendering, and the markup
// is reattached around whatever it holds.
type Span struct {
	Text        string
	OpenMarkup  string
	CloseMarkup string

	suppressMarkup bool
}

// NewSpan trims the text and copies the document's markup-suppression mode.
func NewSpan(text, openMarkup, closeMarkup string, suppressMarkup bool) *Span {
	return &Span{
		Text:           strings.TrimSpace(text),
		OpenMarkup:     openMarkup,
		CloseMarkup:    closeMarkup,
		suppressMarkup: suppressMarkup,
	}
}

// IsEmpty reports whether the span holds no text.
func (s *Span) IsEmpty() bool {
	return s.Text == ""
}

// Render returns the span as subtitle file text: the markup around the text,
// the bare text when the document was parsed with markup suppression, or ""
// for an empty span.
func (s *Span) Render() string {
	if s.Text == "" {
		return ""
	}
	if s.suppressMarkup {
		return s.Text
	}
	return s.OpenMarkup + s.Text + s.CloseMarkup
}
