// Package document defines the serialized shapes shared by the editor,
// the notes store, and the export/import commands.
package document

import (
	"time"

	"github.com/marginalia-app/marginalia/internal/block"
)

// FormatVersion is written into every notes.json and export bundle.
const FormatVersion = 1

// Document is the ordered block sequence attached to one library entry,
// exactly as persisted in notes.json.
type Document struct {
	PaperID      int           `json:"paperId"`
	Title        string        `json:"title"`
	Blocks       []block.Block `json:"blocks"`
	LastModified time.Time     `json:"lastModified"`
	Version      int           `json:"version"`
	CreatedAt    time.Time     `json:"createdAt"`
}

// New returns a document bootstrapped with a single empty text block.
func New(paperID int, title string, createdAt time.Time) Document {
	return Document{
		PaperID:      paperID,
		Title:        title,
		Blocks:       []block.Block{block.New(block.Text)},
		LastModified: time.Now(),
		Version:      FormatVersion,
		CreatedAt:    createdAt,
	}
}

type Summary struct {
	BlockCount int `json:"blockCount"`
	WordCount  int `json:"wordCount"`
}

func (d Document) Summary() Summary {
	return Summary{
		BlockCount: len(d.Blocks),
		WordCount:  block.Words(d.Blocks),
	}
}

// Export is the downloadable artifact for a single document: the
// document itself plus summary metadata. Producing it touches no store.
type Export struct {
	Document   Document  `json:"document"`
	Summary    Summary   `json:"summary"`
	ExportedAt time.Time `json:"exportedAt"`
}

// Bundle is the bulk export/import format covering every stored
// document.
type Bundle struct {
	Version    int           `json:"version"`
	ExportDate time.Time     `json:"exportDate"`
	Papers     []BundlePaper `json:"papers"`
}

type BundlePaper struct {
	PaperID    int      `json:"paperId"`
	PaperTitle string   `json:"paperTitle"`
	Notes      Document `json:"notes"`
}
