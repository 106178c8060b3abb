package edit

import (
	"fmt"
	"strconv"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/marginalia-app/marginalia/internal/state"
	tuieditor "github.com/marginalia-app/marginalia/internal/tui/editor"
	"github.com/marginalia-app/marginalia/pkg/cmd/paperref"
)

func NewCmdEdit(s *state.State) *cobra.Command {
	var (
		paperID int
		title   string
		created string
	)

	cmd := &cobra.Command{
		Use:     "edit [paper-id]",
		Aliases: []string{"e", "notes"},
		Short:   "Open the block editor for a paper's notes.",
		Long: heredoc.Doc(`
			Opens the interactive notes editor for one paper. Without an id a
			fuzzy picker over the library is shown. Notes autosave a moment
			after you stop typing.

			Examples:
			  marginalia edit
			  marginalia edit 42
			  marginalia edit --paper 42 --title "Graph Compression at Scale" --created 2024-03-07
		`),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				id, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("paper id must be a number: %w", err)
				}
				paperID = id
			}

			ref, err := paperref.Resolve(cmd.Context(), s, paperID, title, created)
			if err != nil {
				return err
			}

			doc, found, err := s.Store.Load(ref.ID, ref.Title, ref.CreatedAt)
			if err != nil {
				return err
			}

			blocks := doc.Blocks
			if !found {
				blocks = nil
			}

			return tuieditor.Run(s, ref, blocks)
		},
	}

	cmd.Flags().IntVarP(&paperID, "paper", "p", 0, "Paper id to open")
	cmd.Flags().StringVarP(&title, "title", "t", "", "Paper title (skips the library lookup)")
	cmd.Flags().StringVarP(&created, "created", "c", "", "Paper creation date, any common format")

	return cmd
}
