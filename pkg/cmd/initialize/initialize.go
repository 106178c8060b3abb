package initialize

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/marginalia-app/marginalia/internal/config"
	"github.com/marginalia-app/marginalia/internal/state"
)

func NewCmdInit(s *state.State) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "initialize",
		Aliases: []string{"i", "init"},
		Short:   "Initialize the marginalia configuration.",
		Long:    "Creates the config file with defaults and the notes directory, then prints where everything lives.",
		Example: "marginalia init",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.EnsureConfigExists(s.Home); err != nil {
				return err
			}

			if err := os.MkdirAll(s.Config.NotesDir, 0o755); err != nil {
				return fmt.Errorf("failed to create notes directory: %w", err)
			}

			fmt.Printf("Config:    %s\n", config.GetConfigPath(s.Home))
			fmt.Printf("Notes dir: %s\n", s.Config.NotesDir)
			fmt.Printf("API base:  %s\n", s.Config.APIBase)
			return nil
		},
	}

	return cmd
}
