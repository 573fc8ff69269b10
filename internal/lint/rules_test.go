package lint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnclosedFenceRule(t *testing.T) {
	rule := &UnclosedFenceRule{}

	t.Run("balanced fences", func(t *testing.T) {
		issues, err := rule.Check("w.md", []byte("```\ncode\n```\n\ntext\n"))
		require.NoError(t, err)
		assert.Empty(t, issues)
	})

	t.Run("unterminated fence", func(t *testing.T) {
		issues, err := rule.Check("w.md", []byte("intro\n\n```bash\nls\n"))
		require.NoError(t, err)
		require.Len(t, issues, 1)
		assert.Equal(t, SeverityError, issues[0].Severity)
		assert.Equal(t, 3, issues[0].Line)
		assert.Contains(t, issues[0].Explanation, "line 3")
	})

	t.Run("indented and tilde fences", func(t *testing.T) {
		issues, err := rule.Check("w.md", []byte("  ```\n~~~\nx\n~~~\n"))
		require.NoError(t, err)
		require.Len(t, issues, 3)
		assert.Equal(t, "Indented code fence", issues[0].Message)
		assert.Equal(t, "Tilde code fence", issues[1].Message)
		assert.Equal(t, 4, issues[2].Line)
	})

	t.Run("fence-like lines inside code are ignored", func(t *testing.T) {
		issues, err := rule.Check("w.md", []byte("```\n  ```x\n~~~\n```\n"))
		require.NoError(t, err)
		// "  ```x" does not start with backticks, so it is captured as code.
		assert.Empty(t, issues)
	})
}

func TestHeadingSpaceRule(t *testing.T) {
	rule := &HeadingSpaceRule{}
	content := []byte("#Intro\n## Fine\n####Deep\n```\n#comment\n```\n")

	issues, err := rule.Check("w.md", content)
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, 1, issues[0].Line)
	assert.Equal(t, `Write "# Intro"`, issues[0].Fix)
}

func TestPlaceholderRule(t *testing.T) {
	rule := &PlaceholderRule{Placeholder: "{{CONTAINER_HOST}}"}
	content := []byte("curl http://{{CONTAINER_HOST}}/\nssh {{ CONTAINER_HOST }}\nuse {{FLAG}}\n")

	issues, err := rule.Check("w.md", content)
	require.NoError(t, err)
	require.Len(t, issues, 2)

	assert.Equal(t, 2, issues[0].Line)
	assert.Equal(t, "Remove the whitespace: {{CONTAINER_HOST}}", issues[0].Fix)
	assert.Equal(t, 3, issues[1].Line)
	assert.Equal(t, "Unknown placeholder {{FLAG}}", issues[1].Message)
	assert.Empty(t, issues[1].Fix)
}

func TestUnsupportedSyntaxRule(t *testing.T) {
	rule := &UnsupportedSyntaxRule{}
	content := []byte("# Title\n\nRead [this](https://x.test).\n\n> note\n")

	issues, err := rule.Check("w.md", content)
	require.NoError(t, err)
	require.Len(t, issues, 2)

	assert.Equal(t, "Markdown link: https://x.test", issues[0].Message)
	assert.Equal(t, 3, issues[0].Line)
	assert.Equal(t, SeverityWarning, issues[0].Severity)
	assert.Equal(t, "Blockquote", issues[1].Message)
	assert.Equal(t, 5, issues[1].Line)
}

func TestRulesApplyToWriteupsOnly(t *testing.T) {
	for _, rule := range NewLinter(nil).rules {
		assert.True(t, rule.AppliesTo("docs/intro.md"), rule.Name())
		assert.True(t, rule.AppliesTo("intro.markdown"), rule.Name())
		assert.False(t, rule.AppliesTo("image.png"), rule.Name())
	}
}
