// Package writeup turns a challenge writeup into an ordered list of typed content blocks.
//
// The supported syntax is a fixed subset of Markdown: ATX headings of level 1 to 3,
// fenced code blocks, list items (`-`, `*` or `N.` markers) and paragraphs, with bold,
// italic and inline code spans inside paragraphs and list items. Everything else is
// treated as paragraph text.
//
// Render never fails and never escapes raw text. Callers that display untrusted
// writeups as HTML run the source through Sanitize first.
package writeup
