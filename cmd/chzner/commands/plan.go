package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/chzner/cmd/chzner/handlers"
)

// Plan returns the command that prints the cluster plan without touching
// Hetzner Cloud.
func Plan() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show node names, addresses and the install plan",
		Long: `Show the cluster plan without creating anything.

Prints every node's name and private address, the peers each node will
list in its topology, and whether the latest stable release or a pinned
build is installed. All configuration errors, including a subnet too
small for the requested cluster size, are reported here.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Plan(cmd.Context(), configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", configFlagUsage)

	return cmd
}
