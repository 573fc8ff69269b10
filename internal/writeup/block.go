package writeup

// Kind names a block variant.
type Kind string

const (
	KindHeading   Kind = "heading"
	KindParagraph Kind = "paragraph"
	KindList      Kind = "list"
	KindCode      Kind = "code"
)

// Block is one top-level unit of rendered output. The set of implementations is closed:
// Heading, Paragraph, List and CodeBlock.
type Block interface {
	Kind() Kind
	// Index is the block's emission position, usable as a stable display key.
	Index() int
	block()
}

// Heading is a level 1-3 heading. Text carries no inline formatting.
type Heading struct {
	Key   int
	Level int
	Text  string
}

// Paragraph holds consecutive text lines joined by a single space, with inline spans applied.
type Paragraph struct {
	Key  int
	HTML string
}

// List holds consecutive list items regardless of marker style. Each item has inline spans applied.
type List struct {
	Key   int
	Items []string
}

// CodeBlock holds the verbatim lines of a fenced block joined by newlines.
type CodeBlock struct {
	Key  int
	Text string
}

func (Heading) Kind() Kind   { return KindHeading }
func (Paragraph) Kind() Kind { return KindParagraph }
func (List) Kind() Kind      { return KindList }
func (CodeBlock) Kind() Kind { return KindCode }

func (b Heading) Index() int   { return b.Key }
func (b Paragraph) Index() int { return b.Key }
func (b List) Index() int      { return b.Key }
func (b CodeBlock) Index() int { return b.Key }

func (Heading) block()   {}
func (Paragraph) block() {}
func (List) block()      {}
func (CodeBlock) block() {}

// Document is the ordered output of Render.
type Document []Block

// Count returns the number of blocks of each kind.
func (d Document) Count() map[Kind]int {
	counts := make(map[Kind]int, 4)
	for _, b := range d {
		counts[b.Kind()]++
	}
	return counts
}
