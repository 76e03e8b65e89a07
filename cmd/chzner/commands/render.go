package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/chzner/cmd/chzner/handlers"
)

// Render returns the command that writes every node's bootstrap script and
// configuration payloads to disk, and optionally to object storage.
func Render() *cobra.Command {
	var (
		configPath string
		outputDir  string
		publish    bool
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Write per-node bootstrap scripts and ClickHouse configuration",
		Long: `Render the per-node artifacts without creating any servers.

For each node, writes bootstrap.sh, cluster.xml and users.xml below the
output directory, plus a plan.yaml manifest. The files contain the
cluster password and are written with owner-only permissions.

With --publish, the same files are uploaded to the bucket configured in
the publish section of the configuration.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Render(cmd.Context(), configPath, outputDir, publish)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", configFlagUsage)
	cmd.Flags().StringVarP(&outputDir, "output", "o", "rendered", "Output directory")
	cmd.Flags().BoolVar(&publish, "publish", false, "Upload the artifacts to the configured bucket")

	return cmd
}
