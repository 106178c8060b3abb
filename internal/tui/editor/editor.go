// Package editor hosts the interactive block editor. One block is
// focused at a time; textual blocks share a textarea surface, list
// blocks edit one item at a time through a text input, and the slash
// menu converts the focused block between types.
package editor

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/marginalia-app/marginalia/internal/block"
	session "github.com/marginalia-app/marginalia/internal/editor"
	"github.com/marginalia-app/marginalia/internal/markdown"
	"github.com/marginalia-app/marginalia/internal/state"
	"github.com/marginalia-app/marginalia/internal/store"
)

type mode int

const (
	modeEdit mode = iota
	modeMenu
	modeImage
)

type saveResultMsg struct {
	res session.SaveResult
}

type EditorModel struct {
	session    *session.Session
	store      *store.Store
	watcher    *state.NotesWatcher
	keys       *editorKeyMap
	menu       MenuModel
	input      textarea.Model
	itemInput  textinput.Model
	imageInput textinput.Model
	items      []string
	itemIndex  int
	focus      int
	mode       mode
	status     string
	width      int
	height     int
}

func NewEditorModel(s *state.State, ref session.PaperRef, blocks []block.Block) *EditorModel {
	st := s.Store
	sess := session.NewSession(ref, blocks, func(ref session.PaperRef, blocks []block.Block) error {
		return st.Save(ref.ID, ref.Title, ref.CreatedAt, blocks)
	}, s.Config.AutosaveDelay())

	ta := textarea.New()
	ta.CharLimit = 0
	ta.SetHeight(3)
	ta.SetWidth(80)
	ta.ShowLineNumbers = false
	ta.Focus()

	ti := textinput.New()
	ti.CharLimit = 0

	ii := textinput.New()
	ii.Placeholder = "path/to/image.png"
	ii.CharLimit = 0

	// External edits to the open folder are worth knowing about, but a
	// missing watcher should not block editing.
	var watcher *state.NotesWatcher
	if w, err := state.NewNotesWatcher(st.ResolveFolder(ref.ID, ref.Title, ref.CreatedAt)); err == nil {
		watcher = w
	}

	m := &EditorModel{
		session:    sess,
		store:      st,
		watcher:    watcher,
		keys:       newEditorKeyMap(),
		menu:       NewMenu(),
		input:      ta,
		itemInput:  ti,
		imageInput: ii,
	}
	m.enterBlock(0, false)
	return m
}

func (m *EditorModel) Init() tea.Cmd {
	cmds := []tea.Cmd{textarea.Blink, m.listenForSaves()}
	if m.watcher != nil {
		cmds = append(cmds, m.watcher.Start())
	}
	return tea.Batch(cmds...)
}

func (m *EditorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.SetWidth(msg.Width - 8)
		return m, nil

	case saveResultMsg:
		if msg.res.Err != nil {
			m.status = warnStyle(fmt.Sprintf("Save failed: %v", msg.res.Err))
		} else {
			m.status = statusStyle(fmt.Sprintf("Saved %s", msg.res.At.Format("15:04:05")))
		}
		return m, m.listenForSaves()

	case state.NotesChangedMsg:
		m.handleExternalChange()
		if m.watcher != nil {
			return m, m.watcher.Start()
		}
		return m, nil

	case state.WatcherErrMsg:
		m.status = warnStyle(fmt.Sprintf("Watcher error: %v", msg.Err))
		if m.watcher != nil {
			return m, m.watcher.Start()
		}
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case modeMenu:
			return m.handleMenuKey(msg)
		case modeImage:
			return m.handleImageKey(msg)
		default:
			return m.handleEditKey(msg)
		}
	}

	return m, nil
}

func (m *EditorModel) handleEditKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m.quit()

	case key.Matches(msg, m.keys.save):
		m.commitFocused()
		if err := m.session.SaveNow(); err != nil {
			m.status = warnStyle(fmt.Sprintf("Save failed: %v", err))
		} else {
			m.status = statusStyle("Saved ✓")
		}
		return m, nil

	case key.Matches(msg, m.keys.copyExport):
		m.commitFocused()
		if err := m.writeExport(); err != nil {
			m.status = warnStyle(fmt.Sprintf("Export failed: %v", err))
		} else {
			m.status = statusStyle("Exported ✓ (also on clipboard as markdown)")
		}
		return m, nil

	case key.Matches(msg, m.keys.paste):
		return m.handlePaste()

	case key.Matches(msg, m.keys.focusUp):
		m.commitFocused()
		if m.focusedIsList() && m.itemIndex > 0 {
			m.itemIndex--
			m.loadItem()
			return m, nil
		}
		if m.focus > 0 {
			m.enterBlock(m.focus-1, true)
		}
		return m, nil

	case key.Matches(msg, m.keys.focusDown):
		m.commitFocused()
		if m.focusedIsList() && m.itemIndex < len(m.items)-1 {
			m.itemIndex++
			m.loadItem()
			return m, nil
		}
		if m.focus < len(m.session.Blocks())-1 {
			m.enterBlock(m.focus+1, false)
		}
		return m, nil

	case key.Matches(msg, m.keys.confirm):
		return m.handleConfirm()

	case key.Matches(msg, m.keys.deleteBack):
		if handled, cmd := m.handleBackspace(); handled {
			return m, cmd
		}
	}

	// "/" at the end of a text block summons the command menu. The
	// trigger lands in the block and is stripped again on conversion.
	if msg.String() == "/" {
		if b, ok := m.focusedBlock(); ok && b.Type == block.Text {
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			m.commitFocused()
			if strings.HasSuffix(m.input.Value(), "/") {
				m.menu.Open()
				m.mode = modeMenu
			}
			return m, cmd
		}
	}

	var cmd tea.Cmd
	if m.focusedIsList() {
		m.itemInput, cmd = m.itemInput.Update(msg)
	} else {
		m.input, cmd = m.input.Update(msg)
	}
	m.commitFocused()
	return m, cmd
}

func (m *EditorModel) handleMenuKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.menuClose):
		m.menu.Close()
		m.mode = modeEdit
		return m, nil

	case key.Matches(msg, m.keys.menuUp):
		m.menu.MoveUp()
		return m, nil

	case key.Matches(msg, m.keys.menuDown):
		m.menu.MoveDown()
		return m, nil

	case key.Matches(msg, m.keys.menuSelect):
		cmd, ok := m.menu.Selected()
		if !ok {
			return m, nil
		}
		m.menu.Close()
		return m.applyCommand(cmd)
	}

	switch msg.Type {
	case tea.KeyBackspace:
		if m.menu.Query() == "" {
			m.menu.Close()
			m.mode = modeEdit
			return m, nil
		}
		q := []rune(m.menu.Query())
		m.menu.Filter(string(q[:len(q)-1]))
	case tea.KeyRunes:
		m.menu.Filter(m.menu.Query() + string(msg.Runes))
	}

	return m, nil
}

func (m *EditorModel) handleImageKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.promptExit):
		m.mode = modeEdit
		m.imageInput.Blur()
		return m, nil

	case key.Matches(msg, m.keys.promptEnter):
		m.importImage(m.imageInput.Value())
		m.mode = modeEdit
		m.imageInput.Blur()
		m.imageInput.SetValue("")
		return m, nil
	}

	var cmd tea.Cmd
	m.imageInput, cmd = m.imageInput.Update(msg)
	return m, cmd
}

// applyCommand converts the focused block per the chosen slash command.
// The image command detours through a path prompt first.
func (m *EditorModel) applyCommand(cmd Command) (tea.Model, tea.Cmd) {
	b, ok := m.focusedBlock()
	if !ok {
		m.mode = modeEdit
		return m, nil
	}

	if cmd.Target == block.Image {
		m.mode = modeImage
		m.imageInput.SetValue("")
		return m, m.imageInput.Focus()
	}

	m.session.ConvertBlock(b.ID, cmd.Target)
	m.mode = modeEdit
	m.enterBlock(m.focus, false)
	return m, nil
}

func (m *EditorModel) importImage(path string) {
	b, ok := m.focusedBlock()
	if !ok || path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		m.status = warnStyle(fmt.Sprintf("Image read failed: %v", err))
		return
	}

	ref := m.session.Ref()
	rel, err := m.store.SaveImportedImage(ref.ID, ref.Title, ref.CreatedAt, data, filepath.Base(path))
	if err != nil {
		m.status = warnStyle(fmt.Sprintf("Image import failed: %v", err))
		return
	}

	m.session.ConvertBlock(b.ID, block.Image)
	m.session.UpdateContent(b.ID, rel)
	m.status = statusStyle("Image imported ✓")
	m.enterBlock(m.focus, false)
}

// handleConfirm implements the confirm-key protocol: textual blocks
// split off a fresh text block, list items splice in a new item, and a
// trailing empty item exits the list.
func (m *EditorModel) handleConfirm() (tea.Model, tea.Cmd) {
	b, ok := m.focusedBlock()
	if !ok {
		return m, nil
	}

	if b.Type.IsList() {
		current := m.itemInput.Value()
		m.items[m.itemIndex] = current

		if current != "" || m.itemIndex < len(m.items)-1 {
			m.items = append(m.items[:m.itemIndex+1], append([]string{""}, m.items[m.itemIndex+1:]...)...)
			m.itemIndex++
			m.commitItems()
			m.loadItem()
			return m, nil
		}

		// Confirming an empty trailing item leaves the list.
		if len(m.items) > 1 {
			m.items = m.items[:len(m.items)-1]
			m.itemIndex = len(m.items) - 1
		}
		m.commitItems()
		m.session.AddBlockAfter(b.ID, block.Text)
		m.enterBlock(m.focus+1, false)
		return m, nil
	}

	m.commitFocused()
	m.session.AddBlockAfter(b.ID, block.Text)
	m.enterBlock(m.focus+1, false)
	return m, nil
}

// handleBackspace erases the focused block when its surface is already
// empty. It reports false when the key should fall through to the
// editable surface instead.
func (m *EditorModel) handleBackspace() (bool, tea.Cmd) {
	b, ok := m.focusedBlock()
	if !ok {
		return false, nil
	}

	if b.Type.IsList() {
		if m.itemInput.Value() != "" || m.itemInput.Position() > 0 {
			return false, nil
		}
		if len(m.items) > 1 {
			m.items = append(m.items[:m.itemIndex], m.items[m.itemIndex+1:]...)
			if m.itemIndex > 0 {
				m.itemIndex--
			}
			m.commitItems()
			m.loadItem()
			return true, nil
		}
		m.session.DeleteBlock(b.ID)
		m.enterBlock(max(m.focus-1, 0), true)
		return true, nil
	}

	if m.input.Value() != "" {
		return false, nil
	}
	m.session.DeleteBlock(b.ID)
	m.enterBlock(max(m.focus-1, 0), true)
	return true, nil
}

// writeExport stores the single-document export artifact alongside the
// notes file and mirrors a markdown rendering onto the clipboard.
func (m *EditorModel) writeExport() error {
	ref := m.session.Ref()
	folder, err := m.store.EnsureFolder(ref.ID, ref.Title, ref.CreatedAt)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(m.session.Export(), "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(folder, "export.json"), data, 0o644); err != nil {
		return err
	}

	// Clipboard availability varies by host; the file is the artifact.
	_ = clipboard.WriteAll(markdown.Render(m.session.Blocks()))
	return nil
}

func (m *EditorModel) handlePaste() (tea.Model, tea.Cmd) {
	content, err := clipboard.ReadAll()
	if err != nil {
		m.status = warnStyle(fmt.Sprintf("Paste failed: %v", err))
		return m, nil
	}
	content = strings.ReplaceAll(content, "\r", "")

	if m.focusedIsList() {
		m.itemInput.SetValue(m.itemInput.Value() + content)
		m.itemInput.CursorEnd()
	} else {
		m.input.InsertString(content)
	}
	m.commitFocused()
	return m, nil
}

// handleExternalChange reloads the document when the stored notes file
// changed underneath a clean session. Unsaved edits win.
func (m *EditorModel) handleExternalChange() {
	if m.session.Dirty() {
		m.status = warnStyle("Notes changed on disk; keeping unsaved edits")
		return
	}

	ref := m.session.Ref()
	doc, found, err := m.store.Load(ref.ID, ref.Title, ref.CreatedAt)
	if err != nil || !found {
		return
	}

	m.session.SetBlocks(doc.Blocks)
	if m.focus >= len(doc.Blocks) {
		m.focus = len(doc.Blocks) - 1
	}
	m.enterBlock(m.focus, false)
	m.status = statusStyle("Reloaded from disk")
}

func (m *EditorModel) quit() (tea.Model, tea.Cmd) {
	m.commitFocused()
	if err := m.session.Close(); err != nil {
		log.Printf("failed to flush notes on exit: %v", err)
	}
	if m.watcher != nil {
		_ = m.watcher.Close()
	}
	return m, tea.Quit
}

func (m *EditorModel) focusedBlock() (block.Block, bool) {
	blocks := m.session.Blocks()
	if m.focus < 0 || m.focus >= len(blocks) {
		return block.Block{}, false
	}
	return blocks[m.focus], true
}

func (m *EditorModel) focusedIsList() bool {
	b, ok := m.focusedBlock()
	return ok && b.Type.IsList()
}

// enterBlock moves focus and loads the block into the matching surface.
// atEnd places the cursor on the last list item when arriving from
// below.
func (m *EditorModel) enterBlock(i int, atEnd bool) {
	blocks := m.session.Blocks()
	if len(blocks) == 0 {
		return
	}
	if i < 0 {
		i = 0
	}
	if i >= len(blocks) {
		i = len(blocks) - 1
	}
	m.focus = i

	b := blocks[i]
	if b.Type.IsList() {
		m.items = b.Items()
		if atEnd {
			m.itemIndex = len(m.items) - 1
		} else {
			m.itemIndex = 0
		}
		m.loadItem()
		return
	}

	if m.input.Value() != b.Content {
		m.input.SetValue(b.Content)
	}
	m.input.CursorEnd()
	m.input.Placeholder = b.Placeholder
}

func (m *EditorModel) loadItem() {
	if m.itemIndex < 0 || m.itemIndex >= len(m.items) {
		m.itemIndex = 0
	}
	if m.itemInput.Value() != m.items[m.itemIndex] {
		m.itemInput.SetValue(m.items[m.itemIndex])
	}
	m.itemInput.CursorEnd()
	m.itemInput.Focus()
}

// commitFocused flows the surface value back into the session, which
// arms the autosave debounce when anything actually changed.
func (m *EditorModel) commitFocused() {
	b, ok := m.focusedBlock()
	if !ok {
		return
	}

	if b.Type.IsList() {
		if m.itemIndex >= 0 && m.itemIndex < len(m.items) {
			m.items[m.itemIndex] = m.itemInput.Value()
		}
		m.commitItems()
		return
	}

	m.session.UpdateContent(b.ID, m.input.Value())
}

func (m *EditorModel) commitItems() {
	b, ok := m.focusedBlock()
	if !ok {
		return
	}
	m.session.UpdateContent(b.ID, block.JoinItems(m.items))
}

func (m *EditorModel) listenForSaves() tea.Cmd {
	return func() tea.Msg {
		res, ok := <-m.session.Results()
		if !ok {
			return nil
		}
		return saveResultMsg{res: res}
	}
}

func (m *EditorModel) View() string {
	var sb strings.Builder

	ref := m.session.Ref()
	title := ref.Title
	if m.session.Dirty() {
		title += " ●"
	}
	sb.WriteString(titleStyle.Render(title))
	sb.WriteString("\n\n")

	for i, b := range m.session.Blocks() {
		sb.WriteString(m.renderBlock(i, b))
		sb.WriteString("\n")

		if i == m.focus {
			if m.mode == modeMenu {
				sb.WriteString(m.menu.View())
				sb.WriteString("\n")
			}
			if m.mode == modeImage {
				sb.WriteString(menuStyle.Render("Import image: " + m.imageInput.View()))
				sb.WriteString("\n")
			}
		}
	}

	if m.status != "" {
		sb.WriteString("\n")
		sb.WriteString(m.status)
	}

	sb.WriteString("\n")
	sb.WriteString(helpStyle.Render("↵ new block · / commands · ctrl+s save · ctrl+e export · esc quit"))

	return appStyle.Render(sb.String())
}

func (m *EditorModel) renderBlock(i int, b block.Block) string {
	focused := i == m.focus
	style := blockStyle
	if focused {
		style = focusedBlockStyle
	}

	switch {
	case b.Type.IsList():
		marker := func(n int) string { return "•" }
		if b.Type == block.NumberedList {
			marker = func(n int) string { return fmt.Sprintf("%d.", n+1) }
		}

		items := b.Items()
		if focused {
			items = append([]string(nil), m.items...)
		}

		var lines []string
		for n, item := range items {
			if focused && n == m.itemIndex {
				lines = append(lines, marker(n)+" "+m.itemInput.View())
				continue
			}
			lines = append(lines, marker(n)+" "+item)
		}
		return style.Render(strings.Join(lines, "\n"))

	case b.Type == block.Image:
		return style.Render("🖼 " + b.Content)

	case focused:
		return style.Render(m.input.View())

	default:
		content := b.Content
		if content == "" {
			content = placeholderStyle.Render(b.Placeholder)
		}
		if b.Type == block.Heading1 || b.Type == block.Heading2 || b.Type == block.Heading3 {
			content = headingStyle.Render(content)
		}
		return style.Render(content)
	}
}

func Run(s *state.State, ref session.PaperRef, blocks []block.Block) error {
	m := NewEditorModel(s, ref, blocks)

	if _, err := tea.NewProgram(m, tea.WithInput(os.Stdin), tea.WithAltScreen()).Run(); err != nil {
		if strings.Contains(err.Error(), "resource temporarily unavailable") {
			os.Exit(0)
		} else {
			log.Fatalf("Error running program: %v", err)
		}
	}

	return nil
}
