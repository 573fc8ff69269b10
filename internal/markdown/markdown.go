// Package markdown inspects writeup sources with a CommonMark parser to find syntax
// the writeup renderer does not understand.
package markdown

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// ConstructKind names a CommonMark construct outside the rendered subset.
type ConstructKind string

const (
	ConstructLink               ConstructKind = "link"
	ConstructImage              ConstructKind = "image"
	ConstructAutoLink           ConstructKind = "autolink"
	ConstructRawHTML            ConstructKind = "raw_html"
	ConstructHTMLBlock          ConstructKind = "html_block"
	ConstructBlockquote         ConstructKind = "blockquote"
	ConstructThematicBreak      ConstructKind = "thematic_break"
	ConstructDeepHeading        ConstructKind = "deep_heading"
	ConstructSetextHeading      ConstructKind = "setext_heading"
	ConstructIndentedCode       ConstructKind = "indented_code"
	ConstructUnderscoreEmphasis ConstructKind = "underscore_emphasis"
)

// Construct is one occurrence of an unsupported construct.
type Construct struct {
	Kind   ConstructKind
	Line   int    // 1-based; 0 when the parser gives no position
	Detail string // destination, heading level or tag, when meaningful
}

// ParseBody parses a Markdown body into a Goldmark AST.
func ParseBody(body []byte) gmast.Node {
	return goldmark.New().Parser().Parse(text.NewReader(body))
}

// FindConstructs parses body and lists constructs a CommonMark renderer would
// display differently from the writeup renderer, in document order.
func FindConstructs(body []byte) []Construct {
	root := ParseBody(body)
	breaks := thematicBreakLines(body)

	out := make([]Construct, 0)
	add := func(kind ConstructKind, n gmast.Node, detail string) {
		out = append(out, Construct{Kind: kind, Line: lineOf(body, n), Detail: detail})
	}

	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *gmast.Link:
			add(ConstructLink, node, string(node.Destination))
		case *gmast.Image:
			add(ConstructImage, node, string(node.Destination))
			return gmast.WalkSkipChildren, nil
		case *gmast.AutoLink:
			add(ConstructAutoLink, node, string(node.URL(body)))
		case *gmast.RawHTML:
			add(ConstructRawHTML, node, segmentsText(body, node.Segments))
		case *gmast.HTMLBlock:
			add(ConstructHTMLBlock, node, strings.TrimSpace(firstLine(body, node)))
			return gmast.WalkSkipChildren, nil
		case *gmast.Blockquote:
			add(ConstructBlockquote, node, "")
		case *gmast.ThematicBreak:
			line := 0
			if len(breaks) > 0 {
				line, breaks = breaks[0], breaks[1:]
			}
			out = append(out, Construct{Kind: ConstructThematicBreak, Line: line})
		case *gmast.Heading:
			switch {
			case !isATX(body, node):
				add(ConstructSetextHeading, node, "")
			case node.Level > 3:
				add(ConstructDeepHeading, node, strings.Repeat("#", node.Level))
			}
		case *gmast.CodeBlock:
			add(ConstructIndentedCode, node, "")
			return gmast.WalkSkipChildren, nil
		case *gmast.Emphasis:
			if delimiterOf(body, node) == '_' {
				add(ConstructUnderscoreEmphasis, node, "")
			}
		}
		return gmast.WalkContinue, nil
	})

	return out
}

// offsetOf returns the source offset of n or, failing that, of its nearest positioned ancestor.
func offsetOf(n gmast.Node) (int, bool) {
	for cur := n; cur != nil; cur = cur.Parent() {
		if off, ok := ownOffset(cur); ok {
			return off, true
		}
	}
	return 0, false
}

// ownOffset returns the offset of n itself or of its first positioned descendant.
func ownOffset(n gmast.Node) (int, bool) {
	switch v := n.(type) {
	case *gmast.Text:
		return v.Segment.Start, true
	case *gmast.RawHTML:
		if v.Segments.Len() > 0 {
			return v.Segments.At(0).Start, true
		}
	}
	// Inline nodes panic on Lines().
	if n.Type() == gmast.TypeBlock && n.Lines().Len() > 0 {
		return n.Lines().At(0).Start, true
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if off, ok := ownOffset(c); ok {
			return off, true
		}
	}
	return 0, false
}

func lineOf(body []byte, n gmast.Node) int {
	off, ok := offsetOf(n)
	if !ok || off > len(body) {
		return 0
	}
	return bytes.Count(body[:off], []byte("\n")) + 1
}

func lineStart(body []byte, off int) int {
	return bytes.LastIndexByte(body[:off], '\n') + 1
}

func firstLine(body []byte, n gmast.Node) string {
	if n.Lines().Len() == 0 {
		return ""
	}
	seg := n.Lines().At(0)
	return string(seg.Value(body))
}

func segmentsText(body []byte, segs *text.Segments) string {
	var b strings.Builder
	for i := 0; i < segs.Len(); i++ {
		seg := segs.At(i)
		b.Write(seg.Value(body))
	}
	return b.String()
}

// isATX reports whether the heading line starts with '#' markers.
func isATX(body []byte, h *gmast.Heading) bool {
	off, ok := offsetOf(h)
	if !ok {
		return true
	}
	line := bytes.TrimLeft(body[lineStart(body, off):], " ")
	return len(line) > 0 && line[0] == '#'
}

// delimiterOf returns the character that opened an emphasis span, or 0.
// Emphasis nodes carry no position, so the opening run is found by stepping back
// from the first text leaf over every delimiter nested at the start of the span.
func delimiterOf(body []byte, e *gmast.Emphasis) byte {
	var path []gmast.Node
	n := gmast.Node(e)
	for n != nil {
		if _, ok := n.(*gmast.Text); ok {
			break
		}
		path = append(path, n)
		n = n.FirstChild()
	}
	leaf, ok := n.(*gmast.Text)
	if !ok {
		return 0
	}

	start := leaf.Segment.Start
	for i := len(path) - 1; i >= 0; i-- {
		switch v := path[i].(type) {
		case *gmast.Emphasis:
			start -= v.Level
		case *gmast.CodeSpan:
			for start > 0 && body[start-1] == ' ' {
				start--
			}
			for start > 0 && body[start-1] == '`' {
				start--
			}
		default:
			return 0
		}
	}
	if start < 0 || start >= len(body) {
		return 0
	}
	return body[start]
}

var thematicBreakPattern = regexp.MustCompile(`^ {0,3}(?:(?:\*[ \t]*){3,}|(?:-[ \t]*){3,}|(?:_[ \t]*){3,})$`)

// thematicBreakLines lists 1-based line numbers of thematic breaks outside fenced code.
// Goldmark's ThematicBreak nodes carry no source position. A run of dashes directly
// under text is a setext underline, not a break.
func thematicBreakLines(body []byte) []int {
	var out []int
	inFence := false
	fence := ""
	prevBlank := true
	for i, line := range strings.Split(string(body), "\n") {
		line = strings.TrimSuffix(line, "\r")
		trimmed := strings.TrimSpace(line)
		for _, f := range []string{"```", "~~~"} {
			if strings.HasPrefix(trimmed, f) {
				switch {
				case !inFence:
					inFence, fence = true, f
				case fence == f:
					inFence, fence = false, ""
				}
			}
		}
		if !inFence && thematicBreakPattern.MatchString(line) {
			setext := !prevBlank && strings.Trim(trimmed, "- \t") == ""
			if !setext {
				out = append(out, i+1)
			}
		}
		prevBlank = trimmed == ""
	}
	return out
}
