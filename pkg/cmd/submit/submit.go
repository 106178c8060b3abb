package submit

import (
	"fmt"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/marginalia-app/marginalia/internal/library"
	"github.com/marginalia-app/marginalia/internal/state"
	"github.com/marginalia-app/marginalia/utils"
)

func NewCmdSubmit(s *state.State) *cobra.Command {
	var (
		authors  []string
		year     int
		doi      string
		abstract string
		tagIDs   []int
		source   string
	)

	cmd := &cobra.Command{
		Use:   "submit [title]",
		Short: "Submit a new paper to the library.",
		Long: heredoc.Doc(`
			Submits a paper's metadata, optionally attaching the source PDF.

			Examples:
			  marginalia submit "Graph Compression at Scale" --author "J. Doe" --year 2024
			  marginalia submit "Graph Compression at Scale" --source ./paper.pdf --tag 3 --tag 7
		`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var unique []string
			for _, a := range authors {
				unique = utils.AppendIfNotExists(unique, a)
			}

			sub := library.PaperSubmission{
				Title:    args[0],
				Authors:  unique,
				Year:     year,
				DOI:      doi,
				Abstract: abstract,
				TagIDs:   tagIDs,
			}

			paper, err := s.Client.SubmitPaper(cmd.Context(), sub, source)
			if err != nil {
				return err
			}

			fmt.Printf("Submitted %q as paper %d.\n", paper.Title, paper.ID)
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&authors, "author", "a", nil, "Author name, repeatable")
	cmd.Flags().IntVarP(&year, "year", "y", 0, "Publication year")
	cmd.Flags().StringVar(&doi, "doi", "", "DOI identifier")
	cmd.Flags().StringVar(&abstract, "abstract", "", "Abstract text")
	cmd.Flags().IntSliceVarP(&tagIDs, "tag", "t", nil, "Tag id, repeatable")
	cmd.Flags().StringVarP(&source, "source", "s", "", "Path to the source PDF")

	return cmd
}
