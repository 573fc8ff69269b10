package writeup

import (
	"bufio"
	"io"
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/text/width"
)

var spanTagPattern = regexp.MustCompile(`</?(?:strong|em|code)>`)

// TextOptions controls terminal rendering.
type TextOptions struct {
	// Width wraps paragraphs and list items at this many display columns; 0 disables wrapping.
	Width int
	// Sanitized decodes the entities Sanitize introduced. Trusted writeups are printed as written.
	Sanitized bool
}

// WriteText renders doc for a terminal. East Asian wide characters count as two columns.
func WriteText(w io.Writer, doc Document, opts TextOptions) error {
	cols := opts.Width
	decode := func(s string) string {
		if opts.Sanitized {
			return html.UnescapeString(s)
		}
		return s
	}
	plain := func(s string) string { return decode(stripSpans(s)) }

	bw := bufio.NewWriter(w)
	for i, b := range doc {
		if i > 0 {
			_ = bw.WriteByte('\n')
		}
		switch v := b.(type) {
		case Heading:
			text := plain(v.Text)
			_, _ = bw.WriteString(text + "\n")
			switch v.Level {
			case 1:
				_, _ = bw.WriteString(strings.Repeat("=", displayWidth(text)) + "\n")
			case 2:
				_, _ = bw.WriteString(strings.Repeat("-", displayWidth(text)) + "\n")
			}
		case Paragraph:
			for _, line := range wrap(plain(v.HTML), cols) {
				_, _ = bw.WriteString(line + "\n")
			}
		case List:
			for _, item := range v.Items {
				for j, line := range wrap(plain(item), cols-2) {
					if j == 0 {
						_, _ = bw.WriteString("• " + line + "\n")
					} else {
						_, _ = bw.WriteString("  " + line + "\n")
					}
				}
			}
		case CodeBlock:
			for _, line := range strings.Split(decode(v.Text), "\n") {
				_, _ = bw.WriteString("    " + line + "\n")
			}
		}
	}
	return bw.Flush()
}

// stripSpans removes the inline span tags produced by Render.
func stripSpans(s string) string {
	return spanTagPattern.ReplaceAllString(s, "")
}

func runeWidth(r rune) int {
	switch width.LookupRune(r).Kind() {
	case width.EastAsianWide, width.EastAsianFullwidth:
		return 2
	default:
		return 1
	}
}

func displayWidth(s string) int {
	n := 0
	for _, r := range s {
		n += runeWidth(r)
	}
	return n
}

// wrap breaks text on spaces at limit columns. Words wider than limit, such as
// unspaced Japanese sentences, are broken between runes.
func wrap(text string, limit int) []string {
	if limit <= 0 {
		return []string{text}
	}

	var lines []string
	var cur strings.Builder
	used := 0
	flush := func() {
		lines = append(lines, cur.String())
		cur.Reset()
		used = 0
	}

	for _, word := range strings.Fields(text) {
		ww := displayWidth(word)
		if used > 0 && used+1+ww > limit && ww <= limit {
			flush()
		}
		if used > 0 {
			if used+1 >= limit {
				flush()
			} else {
				_ = cur.WriteByte(' ')
				used++
			}
		}
		if ww <= limit {
			_, _ = cur.WriteString(word)
			used += ww
			continue
		}
		for _, r := range word {
			rw := runeWidth(r)
			if used > 0 && used+rw > limit {
				flush()
			}
			_, _ = cur.WriteRune(r)
			used += rw
		}
	}
	if used > 0 {
		flush()
	}
	if len(lines) == 0 {
		lines = append(lines, "")
	}
	return lines
}
