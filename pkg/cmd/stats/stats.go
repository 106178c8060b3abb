package stats

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marginalia-app/marginalia/internal/state"
)

func NewCmdStats(s *state.State) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show library statistics.",
		RunE: func(cmd *cobra.Command, args []string) error {
			stats, err := s.Client.Stats(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Printf("Papers:       %d\n", stats.Papers)
			fmt.Printf("Tags:         %d\n", stats.Tags)
			fmt.Printf("With notes:   %d\n", stats.WithNotes)
			fmt.Printf("With source:  %d\n", stats.WithSource)
			return nil
		},
	}
}
