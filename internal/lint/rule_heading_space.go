package lint

import (
	"regexp"
	"strings"
)

var headingWithoutSpace = regexp.MustCompile(`^#{1,3}[^#\s]`)

// HeadingSpaceRule flags heading markers not followed by a space.
type HeadingSpaceRule struct{}

// Name returns the rule identifier.
func (r *HeadingSpaceRule) Name() string {
	return "missing-heading-space"
}

// AppliesTo returns true for writeup files.
func (r *HeadingSpaceRule) AppliesTo(filePath string) bool {
	return IsWriteupFile(filePath)
}

// Check validates heading marker spacing outside code blocks.
func (r *HeadingSpaceRule) Check(filePath string, content []byte) ([]Issue, error) {
	var issues []Issue
	for _, line := range scanLines(content) {
		if line.Fence || line.InCode || !headingWithoutSpace.MatchString(line.Text) {
			continue
		}
		marker := line.Text[:strings.IndexFunc(line.Text, func(r rune) bool { return r != '#' })]
		issues = append(issues, Issue{
			FilePath:    filePath,
			Severity:    SeverityWarning,
			Rule:        r.Name(),
			Message:     "Heading marker without space",
			Explanation: "A heading needs one space after its markers. This line renders as paragraph text.",
			Fix:         "Write \"" + marker + " " + strings.TrimLeft(line.Text, "#") + "\"",
			Line:        line.Number,
		})
	}
	return issues, nil
}
