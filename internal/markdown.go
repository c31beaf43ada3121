package internal

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// InlineNode is one span of markdown-lite text. The renderer only
// understands **bold** spans and line breaks; everything else is plain
// text and is never interpreted as markup.
type InlineNode struct {
	Text string
	Bold bool
}

// ParseInline splits a markdown-lite string into inline nodes. Newlines
// are preserved inside the text of the surrounding node. An unterminated
// ** marker is treated as literal text.
func ParseInline(input string) []InlineNode {
	var nodes []InlineNode
	rest := input
	for {
		start := strings.Index(rest, "**")
		if start == -1 {
			break
		}
		end := strings.Index(rest[start+2:], "**")
		if end == -1 {
			break
		}
		if start > 0 {
			nodes = append(nodes, InlineNode{Text: rest[:start]})
		}
		nodes = append(nodes, InlineNode{Text: rest[start+2 : start+2+end], Bold: true})
		rest = rest[start+2+end+2:]
	}
	if rest != "" {
		nodes = append(nodes, InlineNode{Text: rest})
	}
	return nodes
}

var boldStyle = lipgloss.NewStyle().Bold(true)

// RenderInline renders markdown-lite text for the terminal. The input is
// parsed into a small inline node set and rendered span by span, so
// server-supplied content can never inject markup.
func RenderInline(input string) string {
	var b strings.Builder
	for _, node := range ParseInline(input) {
		if node.Bold {
			b.WriteString(boldStyle.Render(node.Text))
		} else {
			b.WriteString(node.Text)
		}
	}
	return b.String()
}

// PlainInline renders markdown-lite text with bold markers stripped,
// for non-TTY output.
func PlainInline(input string) string {
	var b strings.Builder
	for _, node := range ParseInline(input) {
		b.WriteString(node.Text)
	}
	return b.String()
}
