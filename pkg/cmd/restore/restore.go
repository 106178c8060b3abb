package restore

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/marginalia-app/marginalia/internal/state"
	"github.com/marginalia-app/marginalia/internal/store"
)

func NewCmdRestore(s *state.State) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "restore [bundle.json]",
		Short: "Restore notes from an exported bundle.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			bundle, err := store.ReadBundle(f)
			if err != nil {
				return err
			}

			result := s.Store.ImportAll(bundle)
			for _, e := range result.Errors {
				fmt.Fprintf(os.Stderr, "Skipped %s: %v\n", e.Folder, e.Err)
			}

			fmt.Printf("Restored %d papers (%d skipped).\n", result.Succeeded, result.Failed)
			return nil
		},
	}

	return cmd
}
