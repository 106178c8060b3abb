// Package block holds the in-memory model of one notes document: an
// ordered sequence of typed blocks.
package block

import (
	"strconv"
	"strings"
	"sync/atomic"
	"time"
)

type Type string

const (
	Text         Type = "text"
	Heading1     Type = "heading-1"
	Heading2     Type = "heading-2"
	Heading3     Type = "heading-3"
	BulletList   Type = "bullet-list"
	NumberedList Type = "numbered-list"
	Image        Type = "image"
)

// IsList reports whether content is a joined list of items.
func (t Type) IsList() bool {
	return t == BulletList || t == NumberedList
}

// IsTextual reports whether content is user-typed text rather than an
// image reference.
func (t Type) IsTextual() bool {
	return t != Image
}

// Block is one editable unit. Content is raw text for textual types,
// items joined by newlines for list types, and a relative path or URL
// for image blocks. Placeholder is display-only hint text and is
// recomputed whenever the type changes.
type Block struct {
	ID          string `json:"id"`
	Type        Type   `json:"type"`
	Content     string `json:"content"`
	Placeholder string `json:"placeholder,omitempty"`
}

var idSeq uint64

// NewID returns a time-derived id unique within a document. The counter
// suffix keeps ids distinct when several blocks are created in the same
// nanosecond tick.
func NewID() string {
	seq := atomic.AddUint64(&idSeq, 1)
	return strconv.FormatInt(time.Now().UnixNano(), 36) + "-" + strconv.FormatUint(seq&0xfff, 36)
}

// New returns a fresh empty block of the given type.
func New(t Type) Block {
	return Block{
		ID:          NewID(),
		Type:        t,
		Placeholder: PlaceholderFor(t),
	}
}

func PlaceholderFor(t Type) string {
	switch t {
	case Heading1:
		return "Heading 1"
	case Heading2:
		return "Heading 2"
	case Heading3:
		return "Heading 3"
	case BulletList, NumberedList:
		return "List item"
	case Image:
		return "Image path or URL"
	default:
		return "Type '/' for commands"
	}
}

// Find returns the index of the block with the given id, or -1.
func Find(blocks []Block, id string) int {
	for i, b := range blocks {
		if b.ID == id {
			return i
		}
	}
	return -1
}

// InsertAfter inserts nb immediately following the block with id refID.
// When refID is absent the sequence is returned unchanged.
func InsertAfter(blocks []Block, refID string, nb Block) []Block {
	i := Find(blocks, refID)
	if i < 0 {
		return blocks
	}

	out := make([]Block, 0, len(blocks)+1)
	out = append(out, blocks[:i+1]...)
	out = append(out, nb)
	out = append(out, blocks[i+1:]...)
	return out
}

// RemoveByID removes the block with the given id. A document is never
// empty: removing the sole remaining block yields a singleton sequence
// holding one fresh empty text block.
func RemoveByID(blocks []Block, id string) []Block {
	i := Find(blocks, id)
	if i < 0 {
		return blocks
	}

	out := make([]Block, 0, len(blocks)-1)
	out = append(out, blocks[:i]...)
	out = append(out, blocks[i+1:]...)

	if len(out) == 0 {
		return []Block{New(Text)}
	}
	return out
}

// Items splits a list block's content into its items. An empty content
// still holds one (empty) item.
func (b Block) Items() []string {
	return strings.Split(b.Content, "\n")
}

// JoinItems is the inverse of Items.
func JoinItems(items []string) string {
	return strings.Join(items, "\n")
}

// Words counts whitespace-separated words across all non-image blocks.
func Words(blocks []Block) int {
	n := 0
	for _, b := range blocks {
		if b.Type == Image {
			continue
		}
		n += len(strings.Fields(b.Content))
	}
	return n
}
