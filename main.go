package main

import (
	"github.com/spf13/cobra"

	"github.com/marginalia-app/marginalia/internal/state"
	"github.com/marginalia-app/marginalia/pkg/cmd/root"
)

func main() {
	s, err := state.NewState()
	cobra.CheckErr(err)

	cmd, err := root.NewCmdRoot(s)
	cobra.CheckErr(err)

	cobra.CheckErr(cmd.Execute())
}
