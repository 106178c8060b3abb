package view

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marginalia-app/marginalia/internal/state"
	"github.com/marginalia-app/marginalia/pkg/cmd/paperref"
	"github.com/marginalia-app/marginalia/utils"
)

func NewCmdView(s *state.State) *cobra.Command {
	var (
		paperID int
		title   string
		created string
	)

	cmd := &cobra.Command{
		Use:     "view",
		Aliases: []string{"v", "preview"},
		Short:   "Render a paper's notes in the terminal.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := paperref.Resolve(cmd.Context(), s, paperID, title, created)
			if err != nil {
				return err
			}

			doc, found, err := s.Store.Load(ref.ID, ref.Title, ref.CreatedAt)
			if err != nil {
				return err
			}
			if !found {
				fmt.Printf("No notes yet for %q.\n", ref.Title)
				return nil
			}

			fmt.Print(utils.RenderNotesPreview(doc.Blocks, utils.TerminalWidth()))
			return nil
		},
	}

	cmd.Flags().IntVarP(&paperID, "paper", "p", 0, "Paper id to view")
	cmd.Flags().StringVarP(&title, "title", "t", "", "Paper title (skips the library lookup)")
	cmd.Flags().StringVarP(&created, "created", "c", "", "Paper creation date, any common format")

	return cmd
}
