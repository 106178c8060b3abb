package utils

import (
	"strings"
	"testing"

	"github.com/marginalia-app/marginalia/internal/block"
)

func TestAppendIfNotExists(t *testing.T) {
	t.Parallel()

	got := AppendIfNotExists([]string{"a", "b"}, "b")
	if len(got) != 2 {
		t.Fatalf("expected duplicate to be skipped: %v", got)
	}

	got = AppendIfNotExists(got, "c")
	if len(got) != 3 || got[2] != "c" {
		t.Fatalf("expected new value appended: %v", got)
	}
}

func TestValidateInput(t *testing.T) {
	t.Parallel()

	items, err := ValidateInput("alpha beta-1 under_score")
	if err != nil {
		t.Fatalf("expected valid input, got %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %v", items)
	}

	if _, err := ValidateInput("bad!input"); err == nil {
		t.Fatal("expected error for invalid characters")
	}

	items, err = ValidateInput("")
	if err != nil || len(items) != 0 {
		t.Fatalf("expected empty slice for empty input, got %v, %v", items, err)
	}
}

func TestRenderNotesPreviewIncludesContent(t *testing.T) {
	t.Parallel()

	blocks := []block.Block{
		{ID: "a", Type: block.Heading1, Content: "Findings"},
		{ID: "b", Type: block.Text, Content: "The compression ratio held"},
	}

	rendered := RenderNotesPreview(blocks, 80)

	if !strings.Contains(rendered, "Findings") {
		t.Errorf("rendered preview missing heading:\n%s", rendered)
	}
	if !strings.Contains(rendered, "compression ratio") {
		t.Errorf("rendered preview missing body text:\n%s", rendered)
	}
}
