package wizard

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/huh"

	"github.com/imamik/chzner/internal/clickhouse"
	"github.com/imamik/chzner/internal/config"
	"github.com/imamik/chzner/internal/util/sshkey"
)

const (
	defaultLocation    = config.DefaultLocation
	defaultClusterSize = config.DefaultClusterSize
	defaultServerType  = config.DefaultServerType
	defaultKeyPath     = "~/.ssh/id_ed25519.pub"
)

// maxClusterSize bounds the size selector; larger clusters can be set in the file.
const maxClusterSize = 9

// runClusterIdentityGroup prompts for the prefix and location.
func runClusterIdentityGroup(ctx context.Context, result *WizardResult) error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name prefix").
				Description("Prefix for every resource: servers are named <prefix>-node-<n>").
				Placeholder(config.DefaultPrefix).
				Value(&result.Prefix).
				Validate(validatePrefix),
			huh.NewSelect[string]().
				Title("Location").
				Description("Hetzner Cloud datacenter").
				Options(locationOptions()...).
				Value(&result.Location),
		).Title("Cluster Identity"),
	).RunWithContext(ctx)
}

// runNodesGroup prompts for the node count and server type.
func runNodesGroup(ctx context.Context, result *WizardResult) error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int]().
				Title("Number of nodes").
				Description("Every node is a one-replica shard of the same cluster").
				Options(sizeOptions()...).
				Value(&result.ClusterSize),
			huh.NewInput().
				Title("Server type").
				Description("Hetzner server type, e.g. ccx23, ccx33, cpx41").
				Value(&result.ServerType).
				Validate(validateServerType),
		).Title("Nodes"),
	).RunWithContext(ctx)
}

// runSSHAccessGroup prompts for the public key and the SSH source range.
func runSSHAccessGroup(ctx context.Context, result *WizardResult) error {
	sourceOptions := []huh.Option[string]{
		huh.NewOption("Anywhere (0.0.0.0/0, ::/0)", SSHFromAnywhere),
	}
	if result.CurrentIP != "" {
		sourceOptions = append(sourceOptions,
			huh.NewOption(fmt.Sprintf("Only this machine (%s/32)", result.CurrentIP), SSHFromCurrent))
	}

	err := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("SSH public key").
				Description("Path to the public key registered for every node").
				Value(&result.SSHPublicKeyPath),
			huh.NewSelect[string]().
				Title("Allow SSH from").
				Options(sourceOptions...).
				Value(&result.SSHSource),
		).Title("SSH Access"),
	).RunWithContext(ctx)
	if err != nil {
		return err
	}

	if keyExists(result.SSHPublicKeyPath) {
		return nil
	}

	result.GenerateKey = true
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Key not found").
				Description(fmt.Sprintf("Generate a new RSA key pair at %s?", result.SSHPublicKeyPath)).
				Value(&result.GenerateKey),
		),
	).RunWithContext(ctx)
}

// runVersionGroup prompts for an optional pinned build.
func runVersionGroup(ctx context.Context, result *WizardResult) error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("ClickHouse server package URL (optional)").
				Description("URL of a clickhouse-server_<version>_amd64.deb. Leave empty for the latest stable release.").
				Value(&result.DevClickHouseURL).
				Validate(validateDevURL),
		).Title("ClickHouse Version"),
	).RunWithContext(ctx)
}

func locationOptions() []huh.Option[string] {
	return []huh.Option[string]{
		huh.NewOption("Falkenstein, Germany (fsn1)", "fsn1"),
		huh.NewOption("Nuremberg, Germany (nbg1)", "nbg1"),
		huh.NewOption("Helsinki, Finland (hel1)", "hel1"),
		huh.NewOption("Ashburn, USA (ash)", "ash"),
		huh.NewOption("Hillsboro, USA (hil)", "hil"),
		huh.NewOption("Singapore (sin)", "sin"),
	}
}

func sizeOptions() []huh.Option[int] {
	opts := make([]huh.Option[int], 0, maxClusterSize)
	for n := 1; n <= maxClusterSize; n++ {
		label := strconv.Itoa(n) + " nodes"
		if n == 1 {
			label = "1 node"
		}
		opts = append(opts, huh.NewOption(label, n))
	}
	return opts
}

func validatePrefix(s string) error {
	if s == "" {
		return nil // default applies
	}
	if !config.ValidPrefix(s) {
		return errors.New("must be 1-32 lowercase alphanumeric characters or hyphens")
	}
	return nil
}

func validateServerType(s string) error {
	if s == "" {
		return errors.New("server type is required")
	}
	return nil
}

func validateDevURL(s string) error {
	_, err := clickhouse.ResolveInstallPlan(s)
	return err
}

func keyExists(path string) bool {
	expanded, err := sshkey.ExpandPath(path)
	if err != nil {
		return false
	}
	_, err = os.Stat(expanded)
	return err == nil
}
