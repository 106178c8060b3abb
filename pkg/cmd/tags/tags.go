package tags

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/marginalia-app/marginalia/internal/state"
	"github.com/marginalia-app/marginalia/utils"
)

func NewCmdTags(s *state.State) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tags",
		Short: "List and manage library tags.",
		RunE: func(cmd *cobra.Command, args []string) error {
			tags, err := s.Client.Tags(cmd.Context())
			if err != nil {
				return err
			}

			if len(tags) == 0 {
				fmt.Println("No tags yet.")
				return nil
			}

			for _, t := range tags {
				fmt.Printf("%4d  %s\n", t.ID, t.Name)
			}
			return nil
		},
	}

	cmd.AddCommand(newCmdAdd(s), newCmdRemove(s))

	return cmd
}

func newCmdAdd(s *state.State) *cobra.Command {
	return &cobra.Command{
		Use:   "add [name]",
		Short: "Create a tag.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := utils.ValidateInput(args[0]); err != nil {
				return err
			}

			tag, err := s.Client.CreateTag(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Printf("Created tag %q (%d).\n", tag.Name, tag.ID)
			return nil
		},
	}
}

func newCmdRemove(s *state.State) *cobra.Command {
	return &cobra.Command{
		Use:     "remove [id]",
		Aliases: []string{"rm"},
		Short:   "Delete a tag by id.",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("tag id must be a number: %w", err)
			}

			if err := s.Client.DeleteTag(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Printf("Deleted tag %d.\n", id)
			return nil
		},
	}
}
