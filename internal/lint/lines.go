package lint

import "strings"

const backtickFence = "```"

// writeupLine is one source line with its fence state as the writeup renderer sees it.
type writeupLine struct {
	Number int
	Text   string
	Fence  bool // the line opens or closes a code block
	InCode bool // the line is captured verbatim inside a code block
}

// scanLines splits content the way the renderer does: on "\n", trailing "\r"
// dropped, a fence only when the line itself begins with three backticks.
func scanLines(content []byte) []writeupLine {
	raw := strings.Split(string(content), "\n")
	out := make([]writeupLine, 0, len(raw))
	inCode := false
	for i, line := range raw {
		line = strings.TrimSuffix(line, "\r")
		if strings.HasPrefix(line, backtickFence) {
			out = append(out, writeupLine{Number: i + 1, Text: line, Fence: true})
			inCode = !inCode
			continue
		}
		out = append(out, writeupLine{Number: i + 1, Text: line, InCode: inCode})
	}
	return out
}
