// Package paperref resolves which library paper a command should act
// on, either from flags or interactively.
package paperref

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	fuzzyfinder "github.com/ktr0731/go-fuzzyfinder"

	"github.com/marginalia-app/marginalia/internal/editor"
	"github.com/marginalia-app/marginalia/internal/library"
	"github.com/marginalia-app/marginalia/internal/state"
)

// Resolve picks a paper. With --paper and --title given the library is
// not consulted, which keeps the editor usable while the API is down.
// With only --paper the metadata is fetched. With neither, a fuzzy
// picker over the library is shown.
func Resolve(ctx context.Context, s *state.State, paperID int, title, created string) (editor.PaperRef, error) {
	if paperID > 0 && title != "" {
		createdAt := time.Now()
		if created != "" {
			parsed, err := dateparse.ParseAny(created)
			if err != nil {
				return editor.PaperRef{}, fmt.Errorf("could not parse created date %q: %w", created, err)
			}
			createdAt = parsed
		}
		return editor.PaperRef{ID: paperID, Title: title, CreatedAt: createdAt}, nil
	}

	if paperID > 0 {
		paper, err := s.Client.Paper(ctx, paperID)
		if err != nil {
			return editor.PaperRef{}, fmt.Errorf("could not fetch paper %d: %w", paperID, err)
		}
		return refFromPaper(paper), nil
	}

	papers, err := s.Client.Papers(ctx)
	if err != nil {
		return editor.PaperRef{}, fmt.Errorf("could not list papers: %w", err)
	}
	if len(papers) == 0 {
		return editor.PaperRef{}, fmt.Errorf("the library has no papers yet")
	}

	idx, err := fuzzyfinder.Find(papers, func(i int) string {
		return fmt.Sprintf("%s (%d)", papers[i].Title, papers[i].Year)
	}, fuzzyfinder.WithPreviewWindow(func(i, w, h int) string {
		if i < 0 {
			return ""
		}
		p := papers[i]
		return fmt.Sprintf(
			"%s\n\n%s\n\nAuthors: %s\nDOI: %s",
			p.Title, p.Abstract, strings.Join(p.Authors, ", "), p.DOI,
		)
	}))
	if err != nil {
		return editor.PaperRef{}, err
	}

	return refFromPaper(papers[idx]), nil
}

func refFromPaper(p library.Paper) editor.PaperRef {
	return editor.PaperRef{ID: p.ID, Title: p.Title, CreatedAt: p.CreatedAt}
}
