package markdown

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func kinds(cs []Construct) []ConstructKind {
	out := make([]ConstructKind, 0, len(cs))
	for _, c := range cs {
		out = append(out, c.Kind)
	}
	return out
}

func TestFindConstructs_SupportedSubsetIsClean(t *testing.T) {
	body := "# Recon\n\nScan the **target** with `nmap`.\n\n- one\n- *two*\n\n```bash\nnmap -sV host\n```\n"
	require.Empty(t, FindConstructs([]byte(body)))
}

func TestFindConstructs_LinksAndImages(t *testing.T) {
	body := "Intro\n\nSee [docs](https://example.com/docs).\n\n![diagram](net.png)\n"
	got := FindConstructs([]byte(body))

	require.Equal(t, []ConstructKind{ConstructLink, ConstructImage}, kinds(got))
	require.Equal(t, 3, got[0].Line)
	require.Equal(t, "https://example.com/docs", got[0].Detail)
	require.Equal(t, 5, got[1].Line)
	require.Equal(t, "net.png", got[1].Detail)
}

func TestFindConstructs_AutoLink(t *testing.T) {
	got := FindConstructs([]byte("Visit <https://ctf.example>\n"))
	require.Equal(t, []ConstructKind{ConstructAutoLink}, kinds(got))
	require.Equal(t, "https://ctf.example", got[0].Detail)
	require.Equal(t, 1, got[0].Line)
}

func TestFindConstructs_Headings(t *testing.T) {
	body := "#### Deep\n\nTitle\n=====\n"
	got := FindConstructs([]byte(body))

	require.Equal(t, []ConstructKind{ConstructDeepHeading, ConstructSetextHeading}, kinds(got))
	require.Equal(t, 1, got[0].Line)
	require.Equal(t, "####", got[0].Detail)
	require.Equal(t, 3, got[1].Line)
}

func TestFindConstructs_BlockquoteAndHTML(t *testing.T) {
	body := "> quoted hint\n\n<div>\nraw\n</div>\n"
	got := FindConstructs([]byte(body))

	require.Equal(t, []ConstructKind{ConstructBlockquote, ConstructHTMLBlock}, kinds(got))
	require.Equal(t, 1, got[0].Line)
	require.Equal(t, 3, got[1].Line)
	require.Equal(t, "<div>", got[1].Detail)
}

func TestFindConstructs_RawInlineHTML(t *testing.T) {
	got := FindConstructs([]byte("Press <kbd>Enter</kbd>\n"))
	require.Equal(t, []ConstructKind{ConstructRawHTML, ConstructRawHTML}, kinds(got))
	require.Equal(t, "<kbd>", got[0].Detail)
}

func TestFindConstructs_ThematicBreak(t *testing.T) {
	body := "Part one\n\n---\n\n```\n---\n```\n\n***\n"
	got := FindConstructs([]byte(body))

	require.Equal(t, []ConstructKind{ConstructThematicBreak, ConstructThematicBreak}, kinds(got))
	require.Equal(t, 3, got[0].Line)
	require.Equal(t, 9, got[1].Line)
}

func TestFindConstructs_IndentedCode(t *testing.T) {
	got := FindConstructs([]byte("Text\n\n    indented\n"))
	require.Equal(t, []ConstructKind{ConstructIndentedCode}, kinds(got))
	require.Equal(t, 3, got[0].Line)
}

func TestFindConstructs_UnderscoreEmphasis(t *testing.T) {
	got := FindConstructs([]byte("This is _quiet_ and *loud*.\n"))
	require.Equal(t, []ConstructKind{ConstructUnderscoreEmphasis}, kinds(got))
}

func TestFindConstructs_NestedUnderscoreEmphasis(t *testing.T) {
	got := FindConstructs([]byte("_*x*_ and __y__\n"))
	require.Equal(t, []ConstructKind{ConstructUnderscoreEmphasis, ConstructUnderscoreEmphasis}, kinds(got))

	got = FindConstructs([]byte("*_x_* and _`code`_\n"))
	require.Equal(t, []ConstructKind{ConstructUnderscoreEmphasis, ConstructUnderscoreEmphasis}, kinds(got))
}

func TestThematicBreakLines_SkipsSetextUnderline(t *testing.T) {
	require.Equal(t, []int{4}, thematicBreakLines([]byte("Title\n---\n\n- - -\n")))
}
