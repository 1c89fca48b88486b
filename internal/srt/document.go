// Package srt parses blank-line-delimited subtitle files into a
// document/block/line/span tree, hands the plain span texts to a translator
// and reconstructs the file with the original font markup around the
// translated text.
//
// Parsing never returns an error: malformed or truncated input degrades to
// empty blocks and lines, which rendering filters out.
package srt

import (
	"strconv"
	"strings"
)

// Document is a whole parsed subtitle file: its cues in source order.
type Document struct {
	Blocks []*Block
}

// Parse splits the file text on blank-line separators and parses every
// non-empty chunk as a block. Blocks without text lines are kept here and
// only filtered out at render time.
func Parse(text string, suppressMarkup bool) *Document {
	doc := &Document{}
	for _, chunk := range strings.Split(text, "\n\n") {
		if chunk == "" {
			continue
		}
		doc.Blocks = append(doc.Blocks, ParseBlock(chunk, suppressMarkup))
	}
	return doc
}

// Spans flattens the document in source order: block by block, line by
// line, span by span. The order is stable across calls as long as no blocks
// or lines are added or removed, so texts pulled from one traversal can be
// written back by position after translation with a guaranteed one-to-one
// correspondence.
func (d *Document) Spans() []*Span {
	var spans []*Span
	for _, b := range d.Blocks {
		for _, l := range b.lines {
			spans = append(spans, l.spans...)
		}
	}
	return spans
}

// Render drops empty blocks, renumbers the survivors from 1 and
// concatenates their rendered forms. Output indices are gap-free even when
// the input indices were sparse or cues were dropped for having no text.
func (d *Document) Render() string {
	var sb strings.Builder
	idx := 1
	for _, b := range d.Blocks {
		if b.IsEmpty() {
			continue
		}
		b.Index = strconv.Itoa(idx)
		idx++
		sb.WriteString(b.Render())
	}
	return sb.String()
}
