package lint

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Formatter formats linting results for output.
type Formatter interface {
	Format(w io.Writer, result *Result, path string) error
}

// TextFormatter formats results as human-readable text.
type TextFormatter struct{}

// NewTextFormatter creates a text formatter.
func NewTextFormatter() *TextFormatter {
	return &TextFormatter{}
}

// Format outputs results in human-readable text format.
func (f *TextFormatter) Format(w io.Writer, result *Result, path string) error {
	p := &printer{w: w}

	p.linef("Linting writeups in: %s", path)
	p.linef("%s", strings.Repeat("━", 60))
	p.linef("")

	for _, issue := range result.Issues {
		f.formatIssue(p, issue)
		p.linef("")
	}

	p.linef("%s", strings.Repeat("━", 60))
	p.linef("Results:")
	p.linef("  %d file%s scanned", result.FilesTotal, pluralize(result.FilesTotal))
	if n := result.ErrorCount(); n > 0 {
		p.linef("  %d error%s (renders incorrectly)", n, pluralize(n))
	}
	if n := result.WarningCount(); n > 0 {
		p.linef("  %d warning%s (shown as plain text)", n, pluralize(n))
	}
	if n := result.InfoCount(); n > 0 {
		p.linef("  %d info", n)
	}
	p.linef("")

	switch {
	case result.HasErrors():
		p.linef("❌ Writeups have errors that break rendering.")
	case result.HasWarnings():
		p.linef("⚠️  Writeups use syntax outside the rendered subset.")
	case len(result.Issues) > 0:
		p.linef("ℹ️  All issues are informational.")
	default:
		p.linef("✨ All writeups pass linting!")
	}

	return p.err
}

// formatIssue formats a single issue.
func (f *TextFormatter) formatIssue(p *printer, issue Issue) {
	var icon string
	switch issue.Severity {
	case SeverityError:
		icon = "✗"
	case SeverityWarning:
		icon = "⚠"
	case SeverityInfo:
		icon = "ℹ"
	}

	location := issue.FilePath
	if issue.Line > 0 {
		location = fmt.Sprintf("%s:%d", issue.FilePath, issue.Line)
	}
	p.linef("%s %s", icon, location)
	p.linef("  %s [%s]: %s", issue.Severity, issue.Rule, issue.Message)

	if issue.Explanation != "" {
		for line := range strings.SplitSeq(strings.TrimSpace(issue.Explanation), "\n") {
			p.linef("  %s", line)
		}
	}
	if issue.Fix != "" {
		p.linef("  Fix: %s", issue.Fix)
	}
}

// printer stops writing after the first error and keeps it.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) linef(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format+"\n", args...)
}

// JSONFormatter formats results as JSON.
type JSONFormatter struct{}

// NewJSONFormatter creates a JSON formatter.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// JSONOutput represents the JSON output structure.
type JSONOutput struct {
	Path         string      `json:"path"`
	FilesTotal   int         `json:"files_total"`
	ErrorCount   int         `json:"error_count"`
	WarningCount int         `json:"warning_count"`
	InfoCount    int         `json:"info_count"`
	Issues       []JSONIssue `json:"issues"`
}

// JSONIssue represents a single issue in JSON format.
type JSONIssue struct {
	FilePath    string `json:"file_path"`
	Severity    string `json:"severity"`
	Rule        string `json:"rule"`
	Message     string `json:"message"`
	Explanation string `json:"explanation,omitempty"`
	Fix         string `json:"fix,omitempty"`
	Line        int    `json:"line,omitempty"`
}

// Format outputs results in JSON format.
func (f *JSONFormatter) Format(w io.Writer, result *Result, path string) error {
	output := JSONOutput{
		Path:         path,
		FilesTotal:   result.FilesTotal,
		ErrorCount:   result.ErrorCount(),
		WarningCount: result.WarningCount(),
		InfoCount:    result.InfoCount(),
		Issues:       make([]JSONIssue, 0, len(result.Issues)),
	}

	for _, issue := range result.Issues {
		output.Issues = append(output.Issues, JSONIssue{
			FilePath:    issue.FilePath,
			Severity:    issue.Severity.String(),
			Rule:        issue.Rule,
			Message:     issue.Message,
			Explanation: issue.Explanation,
			Fix:         issue.Fix,
			Line:        issue.Line,
		})
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}

// NewFormatter creates the appropriate formatter based on format string.
func NewFormatter(format string) Formatter {
	switch format {
	case "json":
		return NewJSONFormatter()
	default:
		return NewTextFormatter()
	}
}

// pluralize returns "s" if count != 1, otherwise empty string.
func pluralize(count int) string {
	if count == 1 {
		return ""
	}
	return "s"
}
