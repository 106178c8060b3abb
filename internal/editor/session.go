// Package editor owns one document for the lifetime of an editing
// session: block mutations, debounced autosave, manual save, and
// export.
package editor

import (
	"strings"
	"sync"
	"time"

	"github.com/marginalia-app/marginalia/internal/block"
	"github.com/marginalia-app/marginalia/internal/document"
)

// DefaultAutosaveDelay is the quiet period after the last edit before
// an autosave fires. The autosave policy is pure debounce: every edit
// re-arms the timer.
const DefaultAutosaveDelay = 2 * time.Second

// PaperRef identifies the library entry a session is attached to. The
// three fields are exactly the inputs of the store's folder address.
type PaperRef struct {
	ID        int
	Title     string
	CreatedAt time.Time
}

// SaveFunc persists a serialized block sequence. The session never
// talks to the store directly.
type SaveFunc func(ref PaperRef, blocks []block.Block) error

// SaveResult reports one completed autosave on the session's results
// channel. Manual saves return their error synchronously instead.
type SaveResult struct {
	Err error
	At  time.Time
}

type Session struct {
	mu      sync.Mutex
	ref     PaperRef
	blocks  []block.Block
	dirty   bool
	closed  bool
	saver   SaveFunc
	deb     *Debouncer
	results chan SaveResult
}

// NewSession bootstraps from loaded blocks, or from a default singleton
// empty text block when none exist.
func NewSession(ref PaperRef, blocks []block.Block, saver SaveFunc, delay time.Duration) *Session {
	if len(blocks) == 0 {
		blocks = []block.Block{block.New(block.Text)}
	}
	if delay <= 0 {
		delay = DefaultAutosaveDelay
	}

	s := &Session{
		ref:     ref,
		blocks:  blocks,
		saver:   saver,
		results: make(chan SaveResult, 8),
	}
	s.deb = NewDebouncer(delay, s.autosave)
	return s
}

func (s *Session) Ref() PaperRef {
	return s.ref
}

// Blocks returns a copy of the current sequence.
func (s *Session) Blocks() []block.Block {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]block.Block, len(s.blocks))
	copy(out, s.blocks)
	return out
}

func (s *Session) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.dirty
}

// Results delivers autosave outcomes. Failures are informational; the
// in-memory sequence is never discarded.
func (s *Session) Results() <-chan SaveResult {
	return s.results
}

// AddBlockAfter inserts a fresh empty block of the given type after the
// block with the given id and returns it.
func (s *Session) AddBlockAfter(id string, t block.Type) block.Block {
	s.mu.Lock()
	defer s.mu.Unlock()

	nb := block.New(t)
	s.blocks = block.InsertAfter(s.blocks, id, nb)
	s.markDirtyLocked()
	return nb
}

// DeleteBlock removes the block; the never-empty invariant is upheld by
// the block model.
func (s *Session) DeleteBlock(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.blocks = block.RemoveByID(s.blocks, id)
	s.markDirtyLocked()
}

// UpdateContent replaces a block's content wholesale.
func (s *Session) UpdateContent(id, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := block.Find(s.blocks, id)
	if i < 0 || s.blocks[i].Content == text {
		return
	}
	s.blocks[i].Content = text
	s.markDirtyLocked()
}

// ConvertBlock changes a block's type, strips one trailing trigger
// character left over from the slash command, and recomputes the
// placeholder.
func (s *Session) ConvertBlock(id string, t block.Type) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := block.Find(s.blocks, id)
	if i < 0 {
		return
	}
	s.blocks[i].Type = t
	s.blocks[i].Content = strings.TrimSuffix(s.blocks[i].Content, "/")
	s.blocks[i].Placeholder = block.PlaceholderFor(t)
	s.markDirtyLocked()
}

// SetBlocks replaces the sequence from an external reload (the stored
// document changed underneath a clean session). The pending autosave is
// dropped and the session is considered clean.
func (s *Session) SetBlocks(blocks []block.Block) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(blocks) == 0 {
		blocks = []block.Block{block.New(block.Text)}
	}
	s.blocks = blocks
	s.dirty = false
	s.deb.Cancel()
}

func (s *Session) markDirtyLocked() {
	s.dirty = true
	s.deb.Trigger()
}

// autosave runs on the debouncer's goroutine once a quiet period has
// elapsed. Edits made while the save is in flight mark the session
// dirty again and land in the next debounce cycle.
func (s *Session) autosave() {
	s.mu.Lock()
	if !s.dirty || s.closed {
		s.mu.Unlock()
		return
	}
	ref := s.ref
	blocks := make([]block.Block, len(s.blocks))
	copy(blocks, s.blocks)
	s.dirty = false
	s.mu.Unlock()

	err := s.saver(ref, blocks)
	if err != nil {
		s.mu.Lock()
		s.dirty = true
		s.mu.Unlock()
	}

	select {
	case s.results <- SaveResult{Err: err, At: time.Now()}:
	default:
	}
}

// SaveNow serializes and saves immediately, independent of the debounce
// timer. On failure the session stays dirty so a retry loses nothing.
func (s *Session) SaveNow() error {
	s.mu.Lock()
	s.deb.Cancel()
	ref := s.ref
	blocks := make([]block.Block, len(s.blocks))
	copy(blocks, s.blocks)
	s.dirty = false
	s.mu.Unlock()

	err := s.saver(ref, blocks)
	if err != nil {
		s.mu.Lock()
		s.dirty = true
		s.mu.Unlock()
	}
	return err
}

// Document assembles the current state as a serializable document.
func (s *Session) Document() document.Document {
	return document.Document{
		PaperID:      s.ref.ID,
		Title:        s.ref.Title,
		Blocks:       s.Blocks(),
		LastModified: time.Now(),
		Version:      document.FormatVersion,
		CreatedAt:    s.ref.CreatedAt,
	}
}

// Export produces the downloadable artifact: document plus summary.
// This is a pure read with no store interaction.
func (s *Session) Export() document.Export {
	doc := s.Document()
	return document.Export{
		Document:   doc,
		Summary:    doc.Summary(),
		ExportedAt: time.Now(),
	}
}

// Close cancels any pending autosave and flushes unsaved changes.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.deb.Cancel()
	dirty := s.dirty
	ref := s.ref
	blocks := make([]block.Block, len(s.blocks))
	copy(blocks, s.blocks)
	s.dirty = false
	s.mu.Unlock()

	if !dirty {
		return nil
	}
	return s.saver(ref, blocks)
}
