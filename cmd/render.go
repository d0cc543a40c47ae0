package cmd

import (
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/lipgloss"
	"github.com/loomchat/loom/pkg/chat"
)

var (
	promptStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#eb8755"))
	userStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#6b93b5"))
	assistantStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#93b56b"))
	infoStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#61afaf"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#d95f5f"))
)

func assistantLabel() string {
	return assistantStyle.Render("assistant") + " "
}

// printTranscript replays a transcript to stdout, highlighting fenced code
// blocks as they are encountered.
func printTranscript(msgs []chat.Message) {
	for _, msg := range msgs {
		switch {
		case msg.IsUser():
			fmt.Println(userStyle.Render("you") + " " + msg.Content)
		case msg.IsAssistant():
			fmt.Println(assistantStyle.Render("assistant") + " " + renderMarkdownish(msg.Content))
		default:
			fmt.Println(infoStyle.Render(msg.Content))
		}
	}
}

// renderMarkdownish highlights ```lang fenced blocks and leaves the rest of
// the content untouched.
func renderMarkdownish(content string) string {
	if !strings.Contains(content, "```") {
		return content
	}

	var out strings.Builder
	lines := strings.Split(content, "\n")
	inBlock := false
	language := ""
	var block []string

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") {
			if inBlock {
				out.WriteString(highlightCode(strings.Join(block, "\n"), language))
				out.WriteString("\n")
				block = nil
			} else {
				language = strings.TrimPrefix(trimmed, "```")
			}
			inBlock = !inBlock
			continue
		}
		if inBlock {
			block = append(block, line)
			continue
		}
		out.WriteString(line)
		out.WriteString("\n")
	}
	if len(block) > 0 {
		// Unterminated fence: render what we have
		out.WriteString(highlightCode(strings.Join(block, "\n"), language))
		out.WriteString("\n")
	}
	return strings.TrimSuffix(out.String(), "\n")
}

// highlightCode applies chroma syntax highlighting, falling back to the raw
// text when the content cannot be tokenized.
func highlightCode(code, language string) string {
	var lexer chroma.Lexer
	if language != "" {
		lexer = lexers.Get(language)
	}
	if lexer == nil {
		lexer = lexers.Analyse(code)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}

	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return code
	}

	var buf strings.Builder
	if err := formatter.Format(&buf, styles.Get("monokai"), iterator); err != nil {
		return code
	}
	return buf.String()
}
