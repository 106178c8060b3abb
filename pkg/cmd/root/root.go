package root

import (
	"github.com/spf13/cobra"

	"github.com/marginalia-app/marginalia/internal/state"
	"github.com/marginalia-app/marginalia/pkg/cmd/edit"
	"github.com/marginalia-app/marginalia/pkg/cmd/export"
	"github.com/marginalia-app/marginalia/pkg/cmd/importmd"
	"github.com/marginalia-app/marginalia/pkg/cmd/initialize"
	"github.com/marginalia-app/marginalia/pkg/cmd/papers"
	"github.com/marginalia-app/marginalia/pkg/cmd/remove"
	"github.com/marginalia-app/marginalia/pkg/cmd/restore"
	"github.com/marginalia-app/marginalia/pkg/cmd/stats"
	"github.com/marginalia-app/marginalia/pkg/cmd/submit"
	"github.com/marginalia-app/marginalia/pkg/cmd/tags"
	"github.com/marginalia-app/marginalia/pkg/cmd/view"
)

func NewCmdRoot(s *state.State) (*cobra.Command, error) {
	cmd := &cobra.Command{
		Use:     "marginalia",
		Aliases: []string{"mg"},
		Short:   "Block-based notes for your research paper library.",
		Long: `Take structured notes on the papers in your library: headings,
lists and figures, autosaved as you type.

  marginalia edit --paper 42
  marginalia papers
  `,
		// Open the editor by default.
		RunE: edit.NewCmdEdit(s).RunE,
	}

	cmd.AddCommand(
		initialize.NewCmdInit(s),
		edit.NewCmdEdit(s),
		view.NewCmdView(s),
		papers.NewCmdPapers(s),
		tags.NewCmdTags(s),
		stats.NewCmdStats(s),
		submit.NewCmdSubmit(s),
		importmd.NewCmdImport(s),
		export.NewCmdExport(s),
		restore.NewCmdRestore(s),
		remove.NewCmdRemove(s),
	)

	return cmd, nil
}
