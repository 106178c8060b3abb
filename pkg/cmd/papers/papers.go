package papers

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/marginalia-app/marginalia/internal/state"
)

func NewCmdPapers(s *state.State) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "papers",
		Aliases: []string{"ls"},
		Short:   "List the papers in the library.",
		RunE: func(cmd *cobra.Command, args []string) error {
			papers, err := s.Client.Papers(cmd.Context())
			if err != nil {
				return err
			}

			if len(papers) == 0 {
				fmt.Println("The library has no papers yet.")
				return nil
			}

			for _, p := range papers {
				tags := make([]string, 0, len(p.Tags))
				for _, t := range p.Tags {
					tags = append(tags, t.Name)
				}

				line := fmt.Sprintf("%4d  %s (%d)", p.ID, p.Title, p.Year)
				if len(tags) > 0 {
					line += "  [" + strings.Join(tags, ", ") + "]"
				}
				if s.Store.Exists(p.ID, p.Title, p.CreatedAt) {
					line += "  ✎"
				}
				fmt.Println(line)
			}

			return nil
		},
	}

	return cmd
}
