package cmd

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderMarkdownish(t *testing.T) {
	t.Run("should leave plain prose untouched", func(t *testing.T) {
		assert.Equal(t, "just some words", renderMarkdownish("just some words"))
	})

	t.Run("should highlight fenced code and keep surrounding text", func(t *testing.T) {
		input := "Here you go:\n```go\nfmt.Println(\"hi\")\n```\nDone."
		out := renderMarkdownish(input)

		assert.Contains(t, out, "Here you go:")
		assert.Contains(t, out, "Done.")
		assert.NotContains(t, out, "```")
		// The code itself survives highlighting, possibly wrapped in
		// escape sequences
		assert.Contains(t, stripEscapes(out), "fmt.Println")
	})

	t.Run("should render an unterminated fence", func(t *testing.T) {
		out := renderMarkdownish("```python\nprint('hi')")
		assert.Contains(t, stripEscapes(out), "print")
	})
}

func TestHighlightCode(t *testing.T) {
	t.Run("should fall back to raw text for unknown languages", func(t *testing.T) {
		code := "totally opaque content 12345"
		out := highlightCode(code, "no-such-language")
		assert.Contains(t, stripEscapes(out), "opaque content")
	})
}

// stripEscapes drops ANSI color sequences so assertions can see the text.
func stripEscapes(s string) string {
	var sb strings.Builder
	inEscape := false
	for _, r := range s {
		switch {
		case r == '\x1b':
			inEscape = true
		case inEscape:
			if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
				inEscape = false
			}
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
