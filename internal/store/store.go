// Package store persists notes documents and their image attachments
// under a deterministic per-entry folder layout:
//
//	<root>/<paperID>_<sanitizedTitle>_<ddmmyy>/
//	  notes.json
//	  source-images/
//	  imported-images/
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/marginalia-app/marginalia/internal/block"
	"github.com/marginalia-app/marginalia/internal/document"
)

const (
	NotesFile         = "notes.json"
	SourceImagesDir   = "source-images"
	ImportedImagesDir = "imported-images"

	maxTitleLen = 50
)

var (
	ErrImageTooLarge    = errors.New("image exceeds the configured size limit")
	ErrUnsupportedImage = errors.New("unsupported image type")
)

var (
	titleStripPattern = regexp.MustCompile(`[^a-zA-Z0-9 \-]+`)
	whitespaceRun     = regexp.MustCompile(`\s+`)
	imageNamePattern  = regexp.MustCompile(`[^a-zA-Z0-9.\-]+`)
)

type Store struct {
	root          string
	maxImageBytes int64
}

type Option func(*Store)

// WithMaxImageSize caps imported image payloads in bytes.
func WithMaxImageSize(limit int64) Option {
	return func(s *Store) {
		if limit > 0 {
			s.maxImageBytes = limit
		}
	}
}

func New(root string, opts ...Option) *Store {
	s := &Store{
		root:          root,
		maxImageBytes: 10 << 20,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Root() string {
	return s.root
}

// FolderName computes the deterministic folder name for an entry. The
// title is stripped to letters, digits, spaces, and hyphens, whitespace
// runs collapse to a single underscore, and the result is truncated to
// 50 characters. The date token is day-month-year, two digits each.
func FolderName(paperID int, title string, createdAt time.Time) string {
	t := titleStripPattern.ReplaceAllString(title, "")
	t = whitespaceRun.ReplaceAllString(strings.TrimSpace(t), "_")
	if len(t) > maxTitleLen {
		t = t[:maxTitleLen]
	}
	return fmt.Sprintf("%d_%s_%s", paperID, t, createdAt.Format("020106"))
}

// ResolveFolder returns the absolute folder path for an entry without
// touching the file system. Same inputs always yield the same path,
// which lets callers recompute image addresses independently.
func (s *Store) ResolveFolder(paperID int, title string, createdAt time.Time) string {
	return filepath.Join(s.root, FolderName(paperID, title, createdAt))
}

// EnsureFolder resolves the entry folder and lazily creates it together
// with its two image sub-areas.
func (s *Store) EnsureFolder(paperID int, title string, createdAt time.Time) (string, error) {
	folder := s.ResolveFolder(paperID, title, createdAt)
	for _, dir := range []string{folder, filepath.Join(folder, SourceImagesDir), filepath.Join(folder, ImportedImagesDir)} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("failed to create notes folder: %w", err)
		}
	}
	return folder, nil
}

// Save writes the whole block sequence as one notes.json, fully
// superseding any prior content. The write goes through a temp file and
// a rename so a crash never leaves a truncated document behind.
func (s *Store) Save(paperID int, title string, createdAt time.Time, blocks []block.Block) error {
	folder, err := s.EnsureFolder(paperID, title, createdAt)
	if err != nil {
		return err
	}

	doc := document.Document{
		PaperID:      paperID,
		Title:        title,
		Blocks:       blocks,
		LastModified: time.Now(),
		Version:      document.FormatVersion,
		CreatedAt:    createdAt,
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode notes: %w", err)
	}

	tmp, err := os.CreateTemp(folder, NotesFile+".tmp-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}

	return os.Rename(tmp.Name(), filepath.Join(folder, NotesFile))
}

// Load reads the stored document for an entry. An absent file is not an
// error: found is false and err is nil. Malformed content is reported
// through err; callers are expected to log it and fall back to treating
// the notes as absent.
func (s *Store) Load(paperID int, title string, createdAt time.Time) (document.Document, bool, error) {
	path := filepath.Join(s.ResolveFolder(paperID, title, createdAt), NotesFile)

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return document.Document{}, false, nil
		}
		return document.Document{}, false, err
	}

	var doc document.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return document.Document{}, false, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return doc, true, nil
}

// Exists reports whether a stored document is present for the entry.
func (s *Store) Exists(paperID int, title string, createdAt time.Time) bool {
	path := filepath.Join(s.ResolveFolder(paperID, title, createdAt), NotesFile)
	_, err := os.Stat(path)
	return err == nil
}

// Delete removes the whole per-entry folder tree. Deleting an absent
// folder is not an error.
func (s *Store) Delete(paperID int, title string, createdAt time.Time) error {
	return os.RemoveAll(s.ResolveFolder(paperID, title, createdAt))
}

// ReadFile fetches a stored file by entry folder and relative path,
// rejecting paths that escape the folder.
func (s *Store) ReadFile(folder, rel string) ([]byte, error) {
	if !filepath.IsLocal(folder) || !filepath.IsLocal(rel) {
		return nil, fmt.Errorf("invalid file path %q", filepath.Join(folder, rel))
	}
	return os.ReadFile(filepath.Join(s.root, folder, filepath.FromSlash(rel)))
}
