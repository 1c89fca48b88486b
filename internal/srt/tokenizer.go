package srt

import "strings"

// The tokenizer splits one physical subtitle line into tagged and plain
// runs. The grammar needs a conditional rule (the number of font closing
// tags at the end of a tagged run must equal the number of font opening tags
// at its start), which RE2 cannot express, so this is a hand-written scanner
// with an explicit counter instead of a regexp.
//
// Only font tags are preserved. One other opening tag directly after the
// font tags and one other closing tag directly before them are recognized
// and discarded: there is no sane way to reattach partial-sentence bold or
// italic markup to machine-translated text, so it is dropped on purpose.

// Tokenize scans a line (already stripped of its trailing newline) left to
// right. Two match kinds are tried at each position, tagged runs first:
//
//   - tagged run: one or more font opening tags, optionally one non-font
//     opening tag (discarded), the shortest inner text, optionally one
//     non-font closing tag (discarded), then as many font closing tags as
//     there were opening ones.
//   - plain run: a maximal run of characters without '<' or '>', valid only
//     at the start of the line or directly after a '>'.
//
// Positions matching neither are skipped a byte at a time, so malformed or
// unterminated markup degrades silently instead of failing. Matches whose
// trimmed text is empty produce no span.
func Tokenize(line string, suppressMarkup bool) []*Span {
	var spans []*Span
	i := 0
	for i < len(line) {
		if sp, end, ok := matchTagged(line, i, suppressMarkup); ok {
			if !sp.IsEmpty() {
				spans = append(spans, sp)
			}
			i = end
			continue
		}
		if i == 0 || line[i-1] == '>' {
			if run, end, ok := matchPlain(line, i); ok {
				sp := NewSpan(run, "", "", suppressMarkup)
				if !sp.IsEmpty() {
					spans = append(spans, sp)
				}
				i = end
				continue
			}
		}
		i++
	}
	return spans
}

// matchPlain matches a maximal run of characters containing no angle
// bracket. The caller has already checked the position is valid for a plain
// run.
func matchPlain(s string, i int) (run string, end int, ok bool) {
	j := i
	for j < len(s) && s[j] != '<' && s[j] != '>' {
		j++
	}
	if j == i {
		return "", 0, false
	}
	return s[i:j], j, true
}

// matchTagged matches a full tagged run starting at i and builds its span.
func matchTagged(s string, i int, suppressMarkup bool) (*Span, int, bool) {
	// Opening font tags, counted.
	opens := 0
	j := i
	for {
		end, ok := matchFontOpen(s, j)
		if !ok {
			break
		}
		j = end
		opens++
	}
	if opens == 0 {
		return nil, 0, false
	}
	openMarkup := s[i:j]

	// At most one non-font opening tag, discarded.
	if end, ok := matchNonFontOpen(s, j); ok {
		j = end
	}

	// Lazy inner text: at every position try to complete the closing
	// sequence, with and without a leading discarded non-font closing tag.
	for k := j; k < len(s); k++ {
		if mid, ok := matchNonFontClose(s, k); ok {
			if end, ok := matchFontCloseRun(s, mid, opens); ok {
				return NewSpan(s[j:k], openMarkup, s[mid:end], suppressMarkup), end, true
			}
		}
		if end, ok := matchFontCloseRun(s, k, opens); ok {
			return NewSpan(s[j:k], openMarkup, s[k:end], suppressMarkup), end, true
		}
	}
	return nil, 0, false
}

// matchFontOpen matches `<\s*font[^>]*>`.
func matchFontOpen(s string, i int) (end int, ok bool) {
	j, ok := expect(s, i, '<')
	if !ok {
		return 0, false
	}
	j = skipSpace(s, j)
	if !strings.HasPrefix(s[j:], "font") {
		return 0, false
	}
	return closingBracket(s, j+len("font"))
}

// matchNonFontOpen matches `<\s*[^/f][^>]*>`: any opening tag that is not a
// font tag and not a closing tag.
func matchNonFontOpen(s string, i int) (end int, ok bool) {
	j, ok := expect(s, i, '<')
	if !ok {
		return 0, false
	}
	j = skipSpace(s, j)
	if j >= len(s) || s[j] == '/' || s[j] == 'f' {
		return 0, false
	}
	return closingBracket(s, j+1)
}

// matchNonFontClose matches `<\s*/[^f][^>]*>`: any closing tag except a font
// one.
func matchNonFontClose(s string, i int) (end int, ok bool) {
	j, ok := expect(s, i, '<')
	if !ok {
		return 0, false
	}
	j = skipSpace(s, j)
	j, ok = expect(s, j, '/')
	if !ok {
		return 0, false
	}
	if j >= len(s) || s[j] == 'f' {
		return 0, false
	}
	return closingBracket(s, j+1)
}

// matchFontCloseRun matches exactly n consecutive `<\s*/font\s*>` tags.
func matchFontCloseRun(s string, i, n int) (end int, ok bool) {
	j := i
	for k := 0; k < n; k++ {
		j, ok = matchFontClose(s, j)
		if !ok {
			return 0, false
		}
	}
	return j, true
}

// matchFontClose matches `<\s*/font\s*>`. Note the space tolerance: extra
// whitespace is allowed after '<' and before '>', but not between '/' and
// the tag name.
func matchFontClose(s string, i int) (end int, ok bool) {
	j, ok := expect(s, i, '<')
	if !ok {
		return 0, false
	}
	j = skipSpace(s, j)
	if !strings.HasPrefix(s[j:], "/font") {
		return 0, false
	}
	j = skipSpace(s, j+len("/font"))
	return expect(s, j, '>')
}

// expect consumes exactly one byte c at position i.
func expect(s string, i int, c byte) (int, bool) {
	if i < len(s) && s[i] == c {
		return i + 1, true
	}
	return 0, false
}

func skipSpace(s string, i int) int {
	for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
		i++
	}
	return i
}

// closingBracket consumes `[^>]*>` from position i and returns the position
// after the '>'.
func closingBracket(s string, i int) (end int, ok bool) {
	for i < len(s) {
		if s[i] == '>' {
			return i + 1, true
		}
		i++
	}
	return 0, false
}
