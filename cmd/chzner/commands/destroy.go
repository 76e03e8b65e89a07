package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/chzner/cmd/chzner/handlers"
)

// Destroy returns the destroy command.
func Destroy() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "destroy",
		Short: "Destroy the cluster and all associated resources",
		Long: `Destroy removes all cluster resources from Hetzner Cloud.

Every resource labeled with the cluster prefix is deleted in dependency
order: servers, the firewall, the network and the SSH key. When a publish
section is configured, the published artifacts are deleted as well.

Example:
  chzner destroy -c chzner.yaml

WARNING: This operation is irreversible. All cluster data will be lost.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Destroy(cmd.Context(), configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", configFlagUsage)

	return cmd
}
