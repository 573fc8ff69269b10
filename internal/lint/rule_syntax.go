package lint

import (
	"github.com/projectsol/solclient/internal/markdown"
)

type syntaxAdvice struct {
	message     string
	explanation string
	fix         string
	severity    Severity
}

var unsupportedSyntax = map[markdown.ConstructKind]syntaxAdvice{
	markdown.ConstructLink: {
		message:     "Markdown link",
		explanation: "Links are not rendered. The brackets and URL appear as plain text.",
		fix:         "Write the URL on its own, or put it in a code span",
		severity:    SeverityWarning,
	},
	markdown.ConstructImage: {
		message:     "Markdown image",
		explanation: "Images are not rendered. The reference appears as plain text.",
		fix:         "Describe the image in prose or link it from the challenge description",
		severity:    SeverityWarning,
	},
	markdown.ConstructAutoLink: {
		message:     "Autolink",
		explanation: "Angle-bracket URLs are not turned into links.",
		fix:         "Drop the angle brackets",
		severity:    SeverityInfo,
	},
	markdown.ConstructRawHTML: {
		message:     "Inline HTML",
		explanation: "Untrusted writeups escape raw markup, so the tag appears as text.",
		fix:         "Use **bold**, *italic* or `code` instead",
		severity:    SeverityWarning,
	},
	markdown.ConstructHTMLBlock: {
		message:     "HTML block",
		explanation: "Untrusted writeups escape raw markup, so the block appears as text.",
		fix:         "Replace the HTML with headings, paragraphs or lists",
		severity:    SeverityWarning,
	},
	markdown.ConstructBlockquote: {
		message:     "Blockquote",
		explanation: "Blockquotes are not rendered. The > marker stays in the paragraph.",
		fix:         "Remove the > marker",
		severity:    SeverityWarning,
	},
	markdown.ConstructThematicBreak: {
		message:     "Thematic break",
		explanation: "Horizontal rules are not rendered and may be read as a list item.",
		fix:         "Separate sections with a heading instead",
		severity:    SeverityWarning,
	},
	markdown.ConstructDeepHeading: {
		message:     "Heading deeper than level 3",
		explanation: "Only #, ## and ### are headings. Deeper markers render as paragraph text.",
		fix:         "Use ### or bold text",
		severity:    SeverityWarning,
	},
	markdown.ConstructSetextHeading: {
		message:     "Underlined heading",
		explanation: "Setext headings are not recognised. The title and underline render as text.",
		fix:         "Use a # marker instead of the underline",
		severity:    SeverityWarning,
	},
	markdown.ConstructIndentedCode: {
		message:     "Indented code block",
		explanation: "Indentation does not make a code block. The lines are joined into a paragraph.",
		fix:         "Wrap the code in ``` fences",
		severity:    SeverityWarning,
	},
	markdown.ConstructUnderscoreEmphasis: {
		message:     "Underscore emphasis",
		explanation: "Only * marks emphasis. Underscores render literally.",
		fix:         "Use *text* or **text**",
		severity:    SeverityInfo,
	},
}

// UnsupportedSyntaxRule flags CommonMark constructs outside the rendered subset.
type UnsupportedSyntaxRule struct{}

// Name returns the rule identifier.
func (r *UnsupportedSyntaxRule) Name() string {
	return "unsupported-syntax"
}

// AppliesTo returns true for writeup files.
func (r *UnsupportedSyntaxRule) AppliesTo(filePath string) bool {
	return IsWriteupFile(filePath)
}

// Check parses content with a full CommonMark parser and reports each unsupported construct.
func (r *UnsupportedSyntaxRule) Check(filePath string, content []byte) ([]Issue, error) {
	var issues []Issue
	for _, c := range markdown.FindConstructs(content) {
		advice, ok := unsupportedSyntax[c.Kind]
		if !ok {
			continue
		}
		message := advice.message
		if c.Detail != "" {
			message += ": " + c.Detail
		}
		issues = append(issues, Issue{
			FilePath:    filePath,
			Severity:    advice.severity,
			Rule:        r.Name(),
			Message:     message,
			Explanation: advice.explanation,
			Fix:         advice.fix,
			Line:        c.Line,
		})
	}
	return issues, nil
}
