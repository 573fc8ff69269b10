package writeup

import (
	"regexp"
	"strings"
)

const fence = "```"

// headingMarkers are checked longest first so "### " is never read as "# ".
var headingMarkers = []struct {
	prefix string
	level  int
}{
	{"### ", 3},
	{"## ", 2},
	{"# ", 1},
}

var listMarkerPattern = regexp.MustCompile(`^(?:[-*]|\d+\.) `)

type parseMode int

const (
	modeNone parseMode = iota
	modeCode
)

// parser holds the accumulation state of a single Render call.
// At most one of paragraph, list and code is non-empty between flushes.
type parser struct {
	mode      parseMode
	paragraph []string
	list      []string
	code      []string
	blocks    Document
}

// Render segments markdown into blocks in a single forward pass over its lines.
// It is total: unterminated fences and unknown syntax degrade to code or paragraph text.
func Render(markdown string) Document {
	p := &parser{}
	for _, line := range strings.Split(markdown, "\n") {
		p.consume(strings.TrimSuffix(line, "\r"))
	}
	p.flushParagraph()
	p.flushList()
	if p.mode == modeCode {
		p.flushCode()
	}
	return p.blocks
}

func (p *parser) consume(line string) {
	if strings.HasPrefix(line, fence) {
		if p.mode == modeCode {
			p.flushCode()
			p.mode = modeNone
			return
		}
		p.flushParagraph()
		p.flushList()
		p.mode = modeCode
		return
	}

	if p.mode == modeCode {
		p.code = append(p.code, line)
		return
	}

	if level, text, ok := headingOf(line); ok {
		p.flushParagraph()
		p.flushList()
		p.emit(Heading{Level: level, Text: text})
		return
	}

	if loc := listMarkerPattern.FindStringIndex(line); loc != nil {
		p.flushParagraph()
		p.list = append(p.list, line[loc[1]:])
		return
	}

	if strings.TrimSpace(line) == "" {
		p.flushParagraph()
		p.flushList()
		return
	}

	p.flushList()
	p.paragraph = append(p.paragraph, line)
}

func headingOf(line string) (int, string, bool) {
	for _, m := range headingMarkers {
		if rest, ok := strings.CutPrefix(line, m.prefix); ok {
			return m.level, rest, true
		}
	}
	return 0, "", false
}

func (p *parser) flushParagraph() {
	if len(p.paragraph) == 0 {
		return
	}
	text := strings.Join(p.paragraph, " ")
	p.paragraph = nil
	if strings.TrimSpace(text) == "" {
		return
	}
	p.emit(Paragraph{HTML: Inline(text)})
}

func (p *parser) flushList() {
	if len(p.list) == 0 {
		return
	}
	items := make([]string, len(p.list))
	for i, item := range p.list {
		items[i] = Inline(item)
	}
	p.list = nil
	p.emit(List{Items: items})
}

func (p *parser) flushCode() {
	p.emit(CodeBlock{Text: strings.Join(p.code, "\n")})
	p.code = nil
}

func (p *parser) emit(b Block) {
	key := len(p.blocks)
	switch v := b.(type) {
	case Heading:
		v.Key = key
		b = v
	case Paragraph:
		v.Key = key
		b = v
	case List:
		v.Key = key
		b = v
	case CodeBlock:
		v.Key = key
		b = v
	}
	p.blocks = append(p.blocks, b)
}
