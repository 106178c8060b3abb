package document

import (
	"testing"
	"time"

	"github.com/marginalia-app/marginalia/internal/block"
)

func TestNewDocumentBootstrapsSingleTextBlock(t *testing.T) {
	t.Parallel()

	created := time.Date(2024, 3, 7, 0, 0, 0, 0, time.UTC)
	doc := New(42, "Graph Compression at Scale!!", created)

	if len(doc.Blocks) != 1 {
		t.Fatalf("expected 1 block, got %d", len(doc.Blocks))
	}
	if doc.Blocks[0].Type != block.Text || doc.Blocks[0].Content != "" {
		t.Fatalf("expected empty text block, got %+v", doc.Blocks[0])
	}
	if doc.Version != FormatVersion {
		t.Fatalf("expected version %d, got %d", FormatVersion, doc.Version)
	}
	if !doc.CreatedAt.Equal(created) {
		t.Fatalf("createdAt mangled: %v", doc.CreatedAt)
	}
}

func TestSummaryCountsBlocksAndWords(t *testing.T) {
	t.Parallel()

	heading := block.New(block.Heading1)
	heading.Content = "Findings"
	para := block.New(block.Text)
	para.Content = "three more words"
	img := block.New(block.Image)
	img.Content = "imported-images/fig1.png"

	doc := Document{Blocks: []block.Block{heading, para, img}}
	sum := doc.Summary()

	if sum.BlockCount != 3 {
		t.Fatalf("expected 3 blocks, got %d", sum.BlockCount)
	}
	if sum.WordCount != 4 {
		t.Fatalf("expected 4 words, got %d", sum.WordCount)
	}
}
