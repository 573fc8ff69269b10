package lint

import "path/filepath"

// Severity indicates the importance level of a linting issue.
type Severity int

const (
	// SeverityInfo marks constructs that render but may surprise the author.
	SeverityInfo Severity = iota
	// SeverityWarning marks syntax the writeup renderer shows as plain text.
	SeverityWarning
	// SeverityError marks content that renders incorrectly.
	SeverityError
)

// String returns the human-readable severity name.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "INFO"
	case SeverityWarning:
		return "WARNING"
	case SeverityError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Issue represents a single linting problem found in a file.
type Issue struct {
	FilePath    string   // Path as given to the linter
	Severity    Severity // Issue severity level
	Rule        string   // Rule identifier (e.g., "unclosed-fence")
	Message     string   // Brief description of the issue
	Explanation string   // Detailed explanation with context
	Fix         string   // Suggested fix
	Line        int      // Line number (0 if file-level issue)
}

// Result contains all issues found during linting.
type Result struct {
	Issues     []Issue
	FilesTotal int // Total files scanned
}

// HasErrors returns true if any error-level issues exist.
func (r *Result) HasErrors() bool {
	return r.count(SeverityError) > 0
}

// HasWarnings returns true if any warning-level issues exist.
func (r *Result) HasWarnings() bool {
	return r.count(SeverityWarning) > 0
}

// ErrorCount returns the number of error-level issues.
func (r *Result) ErrorCount() int {
	return r.count(SeverityError)
}

// WarningCount returns the number of warning-level issues.
func (r *Result) WarningCount() int {
	return r.count(SeverityWarning)
}

// InfoCount returns the number of info-level issues.
func (r *Result) InfoCount() int {
	return r.count(SeverityInfo)
}

func (r *Result) count(s Severity) int {
	count := 0
	for _, issue := range r.Issues {
		if issue.Severity == s {
			count++
		}
	}
	return count
}

// Rule defines a linting rule that can be applied to a writeup.
type Rule interface {
	// Name returns the unique identifier for this rule.
	Name() string

	// Check validates file content and returns any issues found.
	Check(filePath string, content []byte) ([]Issue, error)

	// AppliesTo returns true if this rule should be checked for the given file.
	AppliesTo(filePath string) bool
}

// Config contains configuration for the linter.
type Config struct {
	// Quiet suppresses warnings, only showing errors.
	Quiet bool

	// Format specifies output format (text, json).
	Format string

	// HostPlaceholder is the only placeholder the portal substitutes.
	HostPlaceholder string
}

// IsWriteupFile returns true if the file is a Markdown writeup.
func IsWriteupFile(path string) bool {
	ext := filepath.Ext(path)
	return ext == ".md" || ext == ".markdown"
}
