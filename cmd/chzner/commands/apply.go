package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/chzner/cmd/chzner/handlers"
)

// Apply returns the command for provisioning the cluster.
//
// Optional flags:
//
//	--config, -c: Path to cluster configuration YAML file (default: auto-detect chzner.yaml)
//
// Environment variables:
//
//	HCLOUD_TOKEN: Hetzner Cloud API token (required)
//	CHZNER_PASSWORD: cluster password, unless set in the file
func Apply() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Create the cluster",
		Long: `Create the ClickHouse cluster on Hetzner Cloud.

The full plan is built first; configuration errors abort the run before
any cloud call. Then the SSH key, private network, subnet and firewall
are reconciled, and one server per node is created in parallel with its
bootstrap script as user data and its planned private address.

Existing servers are left untouched, so re-running apply after a partial
failure only creates the missing nodes.

Examples:
  # Create cluster using chzner.yaml in current directory
  chzner apply

  # Create cluster using specific config file
  chzner apply -c production.yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Apply(cmd.Context(), configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", configFlagUsage)

	return cmd
}
