package srt

import "strings"

// Line is one physical subtitle text line: the ordered spans the tokenizer
// produced for it. Empty spans are never stored.
type Line struct {
	spans []*Span
}

// ParseLine tokenizes a raw text line. Any input yields a (possibly empty)
// line; there is no failure mode.
func ParseLine(raw string, suppressMarkup bool) *Line {
	return &Line{spans: Tokenize(raw, suppressMarkup)}
}

// IsEmpty reports whether the line holds no spans.
func (l *Line) IsEmpty() bool {
	return len(l.spans) == 0
}

// Spans returns the spans in match order.
func (l *Line) Spans() []*Span {
	return l.spans
}

// Render joins the rendered spans with single spaces; an empty line renders
// to "".
func (l *Line) Render() string {
	parts := make([]string, len(l.spans))
	for i, sp := range l.spans {
		parts[i] = sp.Render()
	}
	return strings.Join(parts, " ")
}
