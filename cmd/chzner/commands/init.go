package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/chzner/cmd/chzner/handlers"
)

// Init returns the command for interactively creating a cluster configuration.
func Init() *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Interactively create a cluster configuration",
		Long: `Interactively create a cluster configuration file.

The wizard asks for the resource name prefix, location, node count,
server type, SSH key and an optional pinned ClickHouse build. When the
public key does not exist yet, it offers to generate one.

The cluster password is not stored in the file. Export CHZNER_PASSWORD
before running plan, render or apply.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Init(cmd.Context(), outputPath)
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "chzner.yaml", "Output file path")

	return cmd
}
