package editor

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/marginalia-app/marginalia/internal/block"
	"github.com/marginalia-app/marginalia/internal/config"
	session "github.com/marginalia-app/marginalia/internal/editor"
	"github.com/marginalia-app/marginalia/internal/state"
	"github.com/marginalia-app/marginalia/internal/store"
)

func newTestModel(t *testing.T, blocks []block.Block) *EditorModel {
	t.Helper()

	s := &state.State{
		Config: &config.Config{AutosaveSeconds: 60},
		Store:  store.New(t.TempDir()),
	}
	ref := session.PaperRef{ID: 7, Title: "Sparse Attention Revisited", CreatedAt: time.Now()}
	return NewEditorModel(s, ref, blocks)
}

func TestConfirmSplitsTextBlock(t *testing.T) {
	t.Parallel()

	m := newTestModel(t, []block.Block{
		{ID: "a", Type: block.Text, Content: "first thought"},
	})

	m.handleConfirm()

	blocks := m.session.Blocks()
	if len(blocks) != 2 {
		t.Fatalf("expected 2 blocks after confirm, got %d", len(blocks))
	}
	if blocks[1].Type != block.Text || blocks[1].Content != "" {
		t.Errorf("expected fresh empty text block, got %+v", blocks[1])
	}
	if m.focus != 1 {
		t.Errorf("expected focus on the new block, got %d", m.focus)
	}
}

func TestListConfirmSplicesAndExits(t *testing.T) {
	t.Parallel()

	m := newTestModel(t, []block.Block{
		{ID: "l", Type: block.BulletList, Content: "one"},
	})

	// Confirming a non-empty item splices a new empty one after it.
	m.handleConfirm()
	if got := m.session.Blocks()[0].Items(); len(got) != 2 || got[0] != "one" || got[1] != "" {
		t.Fatalf("expected spliced empty item, got %v", got)
	}
	if m.itemIndex != 1 {
		t.Fatalf("expected focus on new item, got %d", m.itemIndex)
	}

	// Confirming the empty trailing item drops it and exits the list.
	m.handleConfirm()

	blocks := m.session.Blocks()
	if len(blocks) != 2 {
		t.Fatalf("expected list + new text block, got %d blocks", len(blocks))
	}
	if got := blocks[0].Items(); len(got) != 1 || got[0] != "one" {
		t.Errorf("expected trailing empty item removed, got %v", got)
	}
	if blocks[1].Type != block.Text {
		t.Errorf("expected text block after the list, got %s", blocks[1].Type)
	}
	if m.focus != 1 {
		t.Errorf("expected focus on the text block, got %d", m.focus)
	}
}

func TestListConfirmOnSoleEmptyItemExits(t *testing.T) {
	t.Parallel()

	m := newTestModel(t, []block.Block{
		{ID: "l", Type: block.BulletList, Content: ""},
	})

	m.handleConfirm()

	blocks := m.session.Blocks()
	if len(blocks) != 2 {
		t.Fatalf("expected list + new text block, got %d blocks", len(blocks))
	}
	if got := blocks[0].Items(); len(got) != 1 || got[0] != "" {
		t.Errorf("expected the sole empty item kept, got %v", got)
	}
	if blocks[1].Type != block.Text {
		t.Errorf("expected text block after the list, got %s", blocks[1].Type)
	}
	if m.focus != 1 {
		t.Errorf("expected focus on the text block, got %d", m.focus)
	}
}

func TestBackspaceOnEmptyBlockDeletesIt(t *testing.T) {
	t.Parallel()

	m := newTestModel(t, []block.Block{
		{ID: "a", Type: block.Text, Content: "keep me"},
		{ID: "b", Type: block.Text, Content: ""},
	})
	m.enterBlock(1, false)

	handled, _ := m.handleBackspace()
	if !handled {
		t.Fatal("expected backspace on an empty block to be intercepted")
	}

	blocks := m.session.Blocks()
	if len(blocks) != 1 || blocks[0].ID != "a" {
		t.Fatalf("expected only the first block to remain, got %+v", blocks)
	}
	if m.focus != 0 {
		t.Errorf("expected focus to move to the previous block, got %d", m.focus)
	}
}

func TestBackspaceWithContentFallsThrough(t *testing.T) {
	t.Parallel()

	m := newTestModel(t, []block.Block{
		{ID: "a", Type: block.Text, Content: "still typing"},
	})

	handled, _ := m.handleBackspace()
	if handled {
		t.Fatal("expected backspace to reach the editable surface")
	}
	if len(m.session.Blocks()) != 1 {
		t.Fatal("block should not have been deleted")
	}
}

func TestDeletingSoleBlockLeavesFreshDocument(t *testing.T) {
	t.Parallel()

	m := newTestModel(t, []block.Block{
		{ID: "a", Type: block.Text, Content: ""},
	})

	handled, _ := m.handleBackspace()
	if !handled {
		t.Fatal("expected backspace to be intercepted")
	}

	blocks := m.session.Blocks()
	if len(blocks) != 1 || blocks[0].Type != block.Text || blocks[0].Content != "" {
		t.Fatalf("expected a fresh empty text block, got %+v", blocks)
	}
}

func TestSlashOnEmptyTextBlockOpensMenu(t *testing.T) {
	t.Parallel()

	m := newTestModel(t, nil)

	m.handleEditKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'/'}})

	if m.mode != modeMenu {
		t.Fatal("expected the slash menu to open")
	}
	if !m.menu.IsOpen() {
		t.Fatal("expected menu state to be open")
	}
	if got := m.session.Blocks()[0].Content; got != "/" {
		t.Errorf("expected the trigger to land in the block, got %q", got)
	}
}

func TestSlashAfterContentOpensMenu(t *testing.T) {
	t.Parallel()

	m := newTestModel(t, []block.Block{
		{ID: "a", Type: block.Text, Content: "sparse attention"},
	})

	m.handleEditKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'/'}})

	if m.mode != modeMenu {
		t.Fatal("expected the slash menu to open")
	}
	if got := m.session.Blocks()[0].Content; got != "sparse attention/" {
		t.Errorf("expected the trigger appended to the block, got %q", got)
	}

	m.handleMenuKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("h2")})
	m.handleMenuKey(tea.KeyMsg{Type: tea.KeyEnter})

	b := m.session.Blocks()[0]
	if b.Type != block.Heading2 {
		t.Fatalf("expected conversion to heading-2, got %s", b.Type)
	}
	if b.Content != "sparse attention" {
		t.Errorf("expected trigger stripped keeping the content, got %q", b.Content)
	}
}

func TestMenuSelectionConvertsBlock(t *testing.T) {
	t.Parallel()

	m := newTestModel(t, nil)
	m.handleEditKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'/'}})

	m.handleMenuKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("h2")})
	m.handleMenuKey(tea.KeyMsg{Type: tea.KeyEnter})

	b := m.session.Blocks()[0]
	if b.Type != block.Heading2 {
		t.Fatalf("expected conversion to heading-2, got %s", b.Type)
	}
	if b.Content != "" {
		t.Errorf("expected trigger stripped on conversion, got %q", b.Content)
	}
	if m.mode != modeEdit {
		t.Error("expected menu to close after selection")
	}
}
