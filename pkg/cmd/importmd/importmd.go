package importmd

import (
	"fmt"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/marginalia-app/marginalia/internal/markdown"
	"github.com/marginalia-app/marginalia/internal/state"
	"github.com/marginalia-app/marginalia/pkg/cmd/paperref"
)

func NewCmdImport(s *state.State) *cobra.Command {
	var (
		paperID int
		title   string
		created string
		force   bool
	)

	cmd := &cobra.Command{
		Use:     "import [file.md]",
		Aliases: []string{"im"},
		Short:   "Import a markdown file as a paper's notes.",
		Long: heredoc.Doc(`
			Converts a markdown file into blocks and stores it as the paper's
			notes. Existing notes are only replaced with --force.

			Examples:
			  marginalia import ./reading-notes.md --paper 42
		`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := paperref.Resolve(cmd.Context(), s, paperID, title, created)
			if err != nil {
				return err
			}

			if s.Store.Exists(ref.ID, ref.Title, ref.CreatedAt) && !force {
				return fmt.Errorf("paper %d already has notes, pass --force to replace them", ref.ID)
			}

			blocks, err := markdown.ImportFile(args[0])
			if err != nil {
				return err
			}

			if err := s.Store.Save(ref.ID, ref.Title, ref.CreatedAt, blocks); err != nil {
				return err
			}

			fmt.Printf("Imported %d blocks into notes for %q.\n", len(blocks), ref.Title)
			return nil
		},
	}

	cmd.Flags().IntVarP(&paperID, "paper", "p", 0, "Paper id to import into")
	cmd.Flags().StringVarP(&title, "title", "t", "", "Paper title (skips the library lookup)")
	cmd.Flags().StringVarP(&created, "created", "c", "", "Paper creation date, any common format")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Replace existing notes")

	return cmd
}
