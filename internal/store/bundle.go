package store

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/marginalia-app/marginalia/internal/document"
)

// BatchError records one entry that failed during a bulk operation.
type BatchError struct {
	Folder string
	Err    error
}

func (e BatchError) Error() string {
	return fmt.Sprintf("%s: %v", e.Folder, e.Err)
}

// BatchResult summarizes a bulk export or import. Individual failures
// are collected here instead of aborting the remaining entries.
type BatchResult struct {
	Succeeded int
	Failed    int
	Errors    []BatchError
}

func (r *BatchResult) fail(folder string, err error) {
	r.Failed++
	r.Errors = append(r.Errors, BatchError{Folder: folder, Err: err})
}

// ExportAll walks every entry folder under the store root and collects
// each stored document into a bundle.
func (s *Store) ExportAll() (document.Bundle, BatchResult, error) {
	bundle := document.Bundle{
		Version:    document.FormatVersion,
		ExportDate: time.Now(),
		Papers:     []document.BundlePaper{},
	}
	var result BatchResult

	entries, err := os.ReadDir(s.root)
	if err != nil {
		if os.IsNotExist(err) {
			return bundle, result, nil
		}
		return bundle, result, err
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		path := filepath.Join(s.root, entry.Name(), NotesFile)
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				// Entry folder without notes yet, nothing to export.
				continue
			}
			result.fail(entry.Name(), err)
			continue
		}

		var doc document.Document
		if err := json.Unmarshal(data, &doc); err != nil {
			result.fail(entry.Name(), err)
			continue
		}

		bundle.Papers = append(bundle.Papers, document.BundlePaper{
			PaperID:    doc.PaperID,
			PaperTitle: doc.Title,
			Notes:      doc,
		})
		result.Succeeded++
	}

	return bundle, result, nil
}

// ImportAll restores every document in the bundle, recomputing each
// entry's folder from the document's own identity. Existing documents
// are overwritten. Per-entry failures are collected, never fatal to the
// rest of the batch.
func (s *Store) ImportAll(bundle document.Bundle) BatchResult {
	var result BatchResult

	for _, paper := range bundle.Papers {
		doc := paper.Notes
		folder := FolderName(doc.PaperID, doc.Title, doc.CreatedAt)

		if len(doc.Blocks) == 0 {
			result.fail(folder, fmt.Errorf("bundle entry %d has no blocks", paper.PaperID))
			continue
		}

		if err := s.Save(doc.PaperID, doc.Title, doc.CreatedAt, doc.Blocks); err != nil {
			result.fail(folder, err)
			continue
		}
		result.Succeeded++
	}

	return result
}

// ReadBundle decodes a bundle from an export artifact.
func ReadBundle(r io.Reader) (document.Bundle, error) {
	var bundle document.Bundle
	if err := json.NewDecoder(r).Decode(&bundle); err != nil {
		return document.Bundle{}, fmt.Errorf("failed to decode bundle: %w", err)
	}
	return bundle, nil
}
