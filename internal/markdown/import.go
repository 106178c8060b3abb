// Package markdown bridges between markdown text and block documents:
// importing an existing markdown file as notes, and rendering notes
// back to markdown for previews.
package markdown

import (
	"fmt"
	"os"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/marginalia-app/marginalia/internal/block"
)

// ImportFile parses a markdown file into a block sequence.
func ImportFile(path string) ([]block.Block, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading file: %w", err)
	}
	return Convert(source), nil
}

// Convert maps top-level markdown nodes onto blocks: headings one to
// three (deeper levels clamp to three), bullet and ordered lists,
// image-only paragraphs, and plain paragraphs. Anything else is kept as
// its text content in a plain block.
func Convert(source []byte) []block.Block {
	parser := goldmark.DefaultParser()
	doc := parser.Parse(text.NewReader(source))

	var blocks []block.Block
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Heading:
			b := block.New(headingType(node.Level))
			b.Content = string(node.Text(source))
			blocks = append(blocks, b)

		case *ast.List:
			t := block.BulletList
			if node.IsOrdered() {
				t = block.NumberedList
			}
			b := block.New(t)
			b.Content = block.JoinItems(listItems(node, source))
			blocks = append(blocks, b)

		case *ast.Paragraph:
			if dest, ok := soleImage(node); ok {
				b := block.New(block.Image)
				b.Content = dest
				blocks = append(blocks, b)
				continue
			}
			b := block.New(block.Text)
			b.Content = string(node.Text(source))
			blocks = append(blocks, b)

		default:
			content := string(n.Text(source))
			if content == "" {
				continue
			}
			b := block.New(block.Text)
			b.Content = content
			blocks = append(blocks, b)
		}
	}

	if len(blocks) == 0 {
		blocks = []block.Block{block.New(block.Text)}
	}
	return blocks
}

func headingType(level int) block.Type {
	switch {
	case level <= 1:
		return block.Heading1
	case level == 2:
		return block.Heading2
	default:
		return block.Heading3
	}
}

func listItems(list *ast.List, source []byte) []string {
	var items []string
	for li := list.FirstChild(); li != nil; li = li.NextSibling() {
		items = append(items, string(li.Text(source)))
	}
	if len(items) == 0 {
		items = []string{""}
	}
	return items
}

// soleImage reports whether the paragraph wraps exactly one image node,
// which is how standalone markdown images parse.
func soleImage(p *ast.Paragraph) (string, bool) {
	if p.ChildCount() != 1 {
		return "", false
	}
	img, ok := p.FirstChild().(*ast.Image)
	if !ok {
		return "", false
	}
	return string(img.Destination), true
}
