package tui

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/charmbracelet/lipgloss"

	"github.com/batalabs/pinchat/internal/domain"
)

var (
	numberedListRe = regexp.MustCompile(`^(\s*)(\d+)\.\s+(.+)`)
	inlineCodeRe   = regexp.MustCompile("`([^`]+)`")
	boldRe         = regexp.MustCompile(`\*\*(.+?)\*\*`)
)

// WrapWords splits s into lines that fit within width, breaking at word
// boundaries. Words longer than width are hard-broken.
func WrapWords(s string, width int) []string {
	if width < 10 {
		width = 10
	}
	parts := strings.Fields(s)
	if len(parts) == 0 {
		return []string{""}
	}
	var lines []string
	cur := ""
	for _, word := range parts {
		next := word
		if cur != "" {
			next = cur + " " + word
		}
		if lipgloss.Width(next) <= width {
			cur = next
			continue
		}
		if cur != "" {
			lines = append(lines, cur)
		}
		for lipgloss.Width(word) > width {
			head := TruncateToWidth(word, width)
			lines = append(lines, head)
			word = word[len(head):]
		}
		cur = word
	}
	if cur != "" {
		lines = append(lines, cur)
	}
	return lines
}

// TruncateToWidth truncates s to fit within maxWidth visible columns,
// handling multi-byte characters safely.
func TruncateToWidth(s string, maxWidth int) string {
	if lipgloss.Width(s) <= maxWidth {
		return s
	}
	runes := []rune(s)
	for i := len(runes); i > 0; i-- {
		candidate := string(runes[:i])
		if lipgloss.Width(candidate) <= maxWidth {
			return candidate
		}
	}
	return ""
}

// RenderMarkdownLines converts markdown-ish text into styled, word-wrapped
// terminal lines. Fenced code is syntax-highlighted.
func RenderMarkdownLines(content string, width int) []string {
	if width < 20 {
		width = 20
	}
	rawLines := strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n")
	out := make([]string, 0, len(rawLines))

	inCode := false
	codeLang := ""
	var codeBuf []string

	for _, raw := range rawLines {
		line := strings.TrimRight(raw, " \t")
		trimmed := strings.TrimSpace(line)

		if strings.HasPrefix(trimmed, "```") {
			if !inCode {
				inCode = true
				codeLang = strings.TrimSpace(strings.TrimPrefix(trimmed, "```"))
				codeBuf = codeBuf[:0]
			} else {
				out = append(out, renderHighlightedCodeBlock(codeLang, strings.Join(codeBuf, "\n"))...)
				inCode = false
			}
			continue
		}
		if inCode {
			codeBuf = append(codeBuf, line)
			continue
		}

		switch {
		case trimmed == "":
			out = append(out, "")
		case strings.HasPrefix(trimmed, "#"):
			heading := strings.TrimSpace(strings.TrimLeft(trimmed, "#"))
			for _, wl := range WrapWords(heading, width) {
				out = append(out, HeadingStyle.Render(wl))
			}
		default:
			if indent, item, ok := ParseBulletLine(line); ok {
				out = append(out, listItem(strings.Repeat(" ", indent), BulletStyle.Render("• "), 2, item, width)...)
				continue
			}
			if m := numberedListRe.FindStringSubmatch(line); m != nil {
				prefix := m[2] + ". "
				out = append(out, listItem(m[1], BulletStyle.Render(prefix), len(prefix), m[3], width)...)
				continue
			}
			for _, wl := range WrapWords(line, width) {
				out = append(out, ApplyInlineFormatting(wl))
			}
		}
	}

	// Unterminated fence: still show the code.
	if inCode {
		out = append(out, renderHighlightedCodeBlock(codeLang, strings.Join(codeBuf, "\n"))...)
	}
	return out
}

func listItem(indent, marker string, markerWidth int, item string, width int) []string {
	wrapped := WrapWords(item, width-markerWidth-len(indent))
	out := make([]string, 0, len(wrapped))
	for i, wl := range wrapped {
		if i == 0 {
			out = append(out, indent+marker+ApplyInlineFormatting(wl))
		} else {
			out = append(out, indent+strings.Repeat(" ", markerWidth)+ApplyInlineFormatting(wl))
		}
	}
	return out
}

// ParseBulletLine detects a bullet list line (-, + or *) with optional
// leading spaces. Returns the indent, the item text, and whether it matched.
func ParseBulletLine(line string) (indent int, item string, ok bool) {
	rest := strings.TrimLeft(line, " ")
	indent = len(line) - len(rest)
	if len(rest) < 2 || rest[1] != ' ' {
		return 0, "", false
	}
	switch rest[0] {
	case '-', '+', '*':
		return indent, strings.TrimSpace(rest[2:]), true
	}
	return 0, "", false
}

// renderHighlightedCodeBlock syntax-highlights a fenced code block using
// Chroma and prepends line numbers with a gutter.
func renderHighlightedCodeBlock(lang, code string) []string {
	if lang == "" || lang == "text" {
		lang = "plaintext"
	}
	var highlighted bytes.Buffer
	if err := quick.Highlight(&highlighted, code, lang, "terminal256", "dracula"); err != nil {
		highlighted.Reset()
		highlighted.WriteString(code)
	}
	// Trailing reset sequences can land after the final newline; fold them
	// back onto the last source line.
	hlLines := strings.Split(highlighted.String(), "\n")
	if n := strings.Count(code, "\n") + 1; len(hlLines) > n {
		tail := strings.Join(hlLines[n:], "")
		hlLines = append(hlLines[:n-1], hlLines[n-1]+tail)
	}

	out := make([]string, 0, len(hlLines))
	for i, line := range hlLines {
		out = append(out, CodeGutterStyle.Render(fmt.Sprintf("%3d │ ", i+1))+line)
	}
	return out
}

// ApplyInlineFormatting handles `code` and **bold** spans.
func ApplyInlineFormatting(s string) string {
	s = inlineCodeRe.ReplaceAllStringFunc(s, func(match string) string {
		return InlineCodeStyle.Render(inlineCodeRe.FindStringSubmatch(match)[1])
	})
	return boldRe.ReplaceAllStringFunc(s, func(match string) string {
		return BoldInlineStyle.Render(boldRe.FindStringSubmatch(match)[1])
	})
}

// RenderBubble draws one chat message as a bordered bubble: user messages
// right-aligned, everything else left-aligned.
func RenderBubble(msg domain.ChatMessage, width int) string {
	if width < 30 {
		width = 30
	}
	maxInner := width*4/5 - 4

	var lines []string
	style := AsstBubbleStyle
	label := AsstIconStyle.Render("assistant")
	if msg.IsUser() {
		style = UserBubbleStyle
		label = UserIconStyle.Render("you")
		for _, para := range strings.Split(msg.Content, "\n") {
			lines = append(lines, WrapWords(para, maxInner)...)
		}
	} else {
		lines = RenderMarkdownLines(msg.Content, maxInner)
	}

	box := style.Render(strings.Join(lines, "\n"))
	block := lipgloss.JoinVertical(lipgloss.Left, label, box)
	if msg.IsUser() {
		block = lipgloss.JoinVertical(lipgloss.Right, label, box)
		return lipgloss.PlaceHorizontal(width, lipgloss.Right, block)
	}
	return block
}

// RenderTranscript draws every message, separated by blank lines.
func RenderTranscript(msgs []domain.ChatMessage, width int) string {
	parts := make([]string, 0, len(msgs))
	for _, m := range msgs {
		parts = append(parts, RenderBubble(m, width))
	}
	return strings.Join(parts, "\n\n")
}
