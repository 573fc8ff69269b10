package lint

import (
	"regexp"
	"strings"
)

var placeholderPattern = regexp.MustCompile(`\{\{\s*[A-Za-z0-9_.-]+\s*\}\}`)

// PlaceholderRule flags template placeholders the portal will not substitute.
type PlaceholderRule struct {
	Placeholder string
}

// Name returns the rule identifier.
func (r *PlaceholderRule) Name() string {
	return "unknown-placeholder"
}

// AppliesTo returns true for writeup files.
func (r *PlaceholderRule) AppliesTo(filePath string) bool {
	return IsWriteupFile(filePath)
}

// Check reports every {{NAME}} other than the configured host placeholder.
func (r *PlaceholderRule) Check(filePath string, content []byte) ([]Issue, error) {
	var issues []Issue
	for _, line := range scanLines(content) {
		for _, found := range placeholderPattern.FindAllString(line.Text, -1) {
			if found == r.Placeholder {
				continue
			}
			issue := Issue{
				FilePath:    filePath,
				Severity:    SeverityWarning,
				Rule:        r.Name(),
				Message:     "Unknown placeholder " + found,
				Explanation: "Only " + r.Placeholder + " is replaced with the mission host. Other placeholders render literally.",
				Line:        line.Number,
			}
			if normalized := strings.Join(strings.Fields(found), ""); normalized == r.Placeholder {
				issue.Fix = "Remove the whitespace: " + r.Placeholder
			}
			issues = append(issues, issue)
		}
	}
	return issues, nil
}
