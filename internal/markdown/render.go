package markdown

import (
	"fmt"
	"strings"

	"github.com/marginalia-app/marginalia/internal/block"
)

// Render produces markdown text for a block sequence, the inverse of
// Convert up to whitespace.
func Render(blocks []block.Block) string {
	var sb strings.Builder
	for i, b := range blocks {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(renderBlock(b))
	}
	sb.WriteString("\n")
	return sb.String()
}

func renderBlock(b block.Block) string {
	switch b.Type {
	case block.Heading1:
		return "# " + b.Content
	case block.Heading2:
		return "## " + b.Content
	case block.Heading3:
		return "### " + b.Content
	case block.BulletList:
		var lines []string
		for _, item := range b.Items() {
			lines = append(lines, "- "+item)
		}
		return strings.Join(lines, "\n")
	case block.NumberedList:
		var lines []string
		for i, item := range b.Items() {
			lines = append(lines, fmt.Sprintf("%d. %s", i+1, item))
		}
		return strings.Join(lines, "\n")
	case block.Image:
		return fmt.Sprintf("![](%s)", b.Content)
	default:
		return b.Content
	}
}
