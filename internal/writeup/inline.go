package writeup

import "regexp"

var (
	boldPattern   = regexp.MustCompile(`\*\*(.+?)\*\*`)
	italicPattern = regexp.MustCompile(`\*(.+?)\*`)
	codePattern   = regexp.MustCompile("`(.+?)`")
)

// Inline applies the bold, italic and code span substitutions, in that order.
// Each pass is a single non-recursive find/replace over the output of the previous one.
func Inline(text string) string {
	text = boldPattern.ReplaceAllString(text, "<strong>$1</strong>")
	text = italicPattern.ReplaceAllString(text, "<em>$1</em>")
	return codePattern.ReplaceAllString(text, "<code>$1</code>")
}
