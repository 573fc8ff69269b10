package writeup

import (
	"bufio"
	"fmt"
	"io"
)

// WriteHTML writes doc as an HTML fragment. Block strings are written verbatim: they must
// come from a trusted writeup or from one passed through Sanitize before Render.
func WriteHTML(w io.Writer, doc Document) error {
	bw := bufio.NewWriter(w)
	for _, b := range doc {
		switch v := b.(type) {
		case Heading:
			fmt.Fprintf(bw, "<h%d>%s</h%d>\n", v.Level, v.Text, v.Level)
		case Paragraph:
			fmt.Fprintf(bw, "<p>%s</p>\n", v.HTML)
		case List:
			_, _ = bw.WriteString("<ul>\n")
			for _, item := range v.Items {
				fmt.Fprintf(bw, "<li>%s</li>\n", item)
			}
			_, _ = bw.WriteString("</ul>\n")
		case CodeBlock:
			fmt.Fprintf(bw, "<pre><code>%s</code></pre>\n", v.Text)
		}
	}
	return bw.Flush()
}
