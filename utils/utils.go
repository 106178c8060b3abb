package utils

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/marginalia-app/marginalia/internal/block"
	"github.com/marginalia-app/marginalia/internal/markdown"
)

// AppendIfNotExists returns slice with value appended unless it is
// already present.
func AppendIfNotExists(slice []string, value string) []string {
	for _, v := range slice {
		if v == value {
			return slice
		}
	}
	return append(slice, value)
}

var namePattern = regexp.MustCompile(`^[a-zA-Z0-9-_]+$`)

// ValidateInput splits space-separated input into names, rejecting
// anything outside alphanumerics, hyphens, and underscores.
func ValidateInput(input string) ([]string, error) {
	if input == "" {
		return []string{}, nil
	}

	names := strings.Split(input, " ")
	for _, name := range names {
		if !namePattern.MatchString(name) {
			return nil, fmt.Errorf(
				"invalid name %q: only alphanumeric characters, hyphens, and underscores are allowed",
				name,
			)
		}
	}
	return names, nil
}

// TerminalWidth reports the current terminal width, falling back to a
// sane default when stdout is not a terminal.
func TerminalWidth() int {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return 100
	}
	return w
}

// RenderNotesPreview renders a block document as styled markdown for
// terminal display.
func RenderNotesPreview(blocks []block.Block, width int) string {
	if width <= 0 {
		width = 100
	}

	r, _ := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dracula"),
		glamour.WithWordWrap(width),
		glamour.WithColorProfile(termenv.ANSI256),
	)

	out, err := r.Render(markdown.Render(blocks))
	if err != nil {
		return "Error rendering markdown"
	}

	return out
}
