package remove

import (
	"fmt"

	"github.com/erikgeiser/promptkit/confirmation"
	"github.com/spf13/cobra"

	"github.com/marginalia-app/marginalia/internal/state"
	"github.com/marginalia-app/marginalia/pkg/cmd/paperref"
)

func NewCmdRemove(s *state.State) *cobra.Command {
	var (
		paperID int
		title   string
		created string
		library bool
		yes     bool
	)

	cmd := &cobra.Command{
		Use:     "remove",
		Aliases: []string{"rm"},
		Short:   "Delete a paper's notes, and optionally its library entry.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := paperref.Resolve(cmd.Context(), s, paperID, title, created)
			if err != nil {
				return err
			}

			if !yes {
				prompt := fmt.Sprintf("Delete notes for %q?", ref.Title)
				if library {
					prompt = fmt.Sprintf("Delete notes AND library entry for %q?", ref.Title)
				}

				input := confirmation.New(prompt, confirmation.No)
				confirmed, err := input.RunPrompt()
				if err != nil {
					return err
				}
				if !confirmed {
					fmt.Println("Aborted.")
					return nil
				}
			}

			if err := s.Store.Delete(ref.ID, ref.Title, ref.CreatedAt); err != nil {
				return err
			}

			if library {
				if err := s.Client.DeletePaper(cmd.Context(), ref.ID); err != nil {
					return fmt.Errorf("notes deleted, but the library entry was not: %w", err)
				}
				fmt.Printf("Deleted notes and library entry for %q.\n", ref.Title)
				return nil
			}

			fmt.Printf("Deleted notes for %q.\n", ref.Title)
			return nil
		},
	}

	cmd.Flags().IntVarP(&paperID, "paper", "p", 0, "Paper id to remove")
	cmd.Flags().StringVarP(&title, "title", "t", "", "Paper title (skips the library lookup)")
	cmd.Flags().StringVarP(&created, "created", "c", "", "Paper creation date, any common format")
	cmd.Flags().BoolVar(&library, "library", false, "Also delete the paper from the library")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")

	return cmd
}
