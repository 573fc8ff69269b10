package writeup

import (
	"strings"

	"golang.org/x/net/html"
)

// Sanitize escapes markup-significant characters in an untrusted writeup so the strings
// Render produces from it can be inserted into HTML as-is. None of the escaped characters
// take part in block or inline syntax, so segmentation is unchanged.
func Sanitize(raw string) string {
	return html.EscapeString(strings.ReplaceAll(raw, "\r\n", "\n"))
}
