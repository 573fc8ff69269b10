package lint

import (
	"fmt"
	"strings"
)

// UnclosedFenceRule flags code fences the renderer would pair differently than intended.
type UnclosedFenceRule struct{}

// Name returns the rule identifier.
func (r *UnclosedFenceRule) Name() string {
	return "unclosed-fence"
}

// AppliesTo returns true for writeup files.
func (r *UnclosedFenceRule) AppliesTo(filePath string) bool {
	return IsWriteupFile(filePath)
}

// Check reports an unterminated fence, indented fences and tilde fences.
func (r *UnclosedFenceRule) Check(filePath string, content []byte) ([]Issue, error) {
	var issues []Issue
	openLine := 0

	for _, line := range scanLines(content) {
		if line.Fence {
			if openLine == 0 {
				openLine = line.Number
			} else {
				openLine = 0
			}
			continue
		}
		if line.InCode {
			continue
		}

		trimmed := strings.TrimLeft(line.Text, " \t")
		switch {
		case strings.HasPrefix(trimmed, backtickFence):
			issues = append(issues, Issue{
				FilePath:    filePath,
				Severity:    SeverityWarning,
				Rule:        r.Name(),
				Message:     "Indented code fence",
				Explanation: "Fences only open a code block at the start of a line. This line renders as paragraph text.",
				Fix:         "Remove the leading whitespace before the backticks",
				Line:        line.Number,
			})
		case strings.HasPrefix(trimmed, "~~~"):
			issues = append(issues, Issue{
				FilePath:    filePath,
				Severity:    SeverityWarning,
				Rule:        r.Name(),
				Message:     "Tilde code fence",
				Explanation: "Only backtick fences open a code block. The enclosed lines render as paragraphs.",
				Fix:         "Replace ~~~ with ```",
				Line:        line.Number,
			})
		}
	}

	if openLine != 0 {
		issues = append(issues, Issue{
			FilePath: filePath,
			Severity: SeverityError,
			Rule:     r.Name(),
			Message:  "Unclosed code fence",
			Explanation: fmt.Sprintf(
				"The fence opened on line %d is never closed. Everything after it renders as one code block.",
				openLine),
			Fix:  "Add a closing ``` line",
			Line: openLine,
		})
	}

	return issues, nil
}
