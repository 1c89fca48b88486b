package srt

import "strings"

// Block is one subtitle cue: an index label, a timestamp range and the text
// lines shown for it. Index and TimeRange are opaque strings; nothing here
// validates that the index is numeric or that the range parses as
// timestamps. Index is rewritten by Document.Render when cues are
// renumbered.
type Block struct {
	Index     string
	TimeRange string
	lines     []*Line
}

// ParseBlock parses one blank-line-delimited chunk of a subtitle file.
// Chunks with fewer than two physical lines populate Index and TimeRange as
// far as possible and leave the block empty; truncated trailing cues are
// routine in real-world files and must not fail.
func ParseBlock(chunk string, suppressMarkup bool) *Block {
	b := &Block{}
	raw := strings.Split(strings.TrimSpace(chunk), "\n")
	if len(raw) > 0 {
		b.Index = raw[0]
	}
	if len(raw) < 2 {
		return b
	}
	b.TimeRange = raw[1]
	for _, text := range raw[2:] {
		line := ParseLine(strings.TrimSpace(text), suppressMarkup)
		if !line.IsEmpty() {
			b.lines = append(b.lines, line)
		}
	}
	return b
}

// IsEmpty reports whether the block has no text lines. Empty blocks are
// dropped from rendered output.
func (b *Block) IsEmpty() bool {
	return len(b.lines) == 0
}

// Lines returns the text lines in source order.
func (b *Block) Lines() []*Line {
	return b.lines
}

// Render returns the cue as subtitle file text, ending with the blank-line
// separator. An empty block renders to "".
func (b *Block) Render() string {
	if b.IsEmpty() {
		return ""
	}
	parts := make([]string, 0, len(b.lines)+3)
	parts = append(parts, b.Index, b.TimeRange)
	for _, l := range b.lines {
		parts = append(parts, l.Render())
	}
	// The final "\n" element makes the join emit the trailing blank line.
	parts = append(parts, "\n")
	return strings.Join(parts, "\n")
}
