package compute

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/imamik/chzner/internal/cluster"
	"github.com/imamik/chzner/internal/platform/hcloud"
	"github.com/imamik/chzner/internal/provisioning"
	"github.com/imamik/chzner/internal/util/labels"
	"github.com/imamik/chzner/internal/util/retry"
)

// ipPollMaxDelay caps the backoff while waiting for a public address.
const ipPollMaxDelay = 10 * time.Second

// ensureNode makes sure the server for node exists and records its
// addresses. An existing server is left untouched, but it must already hold
// the planned private address.
func (p *Provisioner) ensureNode(ctx *provisioning.Context, node cluster.Node) error {
	networkID := ctx.State.Network.ID

	existing, err := ctx.Infra.GetServerByName(ctx, node.Name)
	if err != nil {
		return fmt.Errorf("failed to look up server: %w", err)
	}
	if existing != nil {
		privateIP := hcloud.ServerPrivateIP(existing, networkID)
		if privateIP != node.Address.String() {
			// Peers address this node by its planned IP, so a server that lost
			// its network attachment or sits on another address cannot be reused.
			err := fmt.Errorf("existing server %s has private IP %q, planned %s; delete it or run destroy before apply",
				node.Name, privateIP, node.Address)
			provisioning.LogResourceFailed(ctx.Observer, phase, "server", node.Name, err)
			return err
		}
		provisioning.LogResourceExists(ctx.Observer, phase, "server", node.Name, strconv.FormatInt(existing.ID, 10))
		ctx.State.RecordNode(provisioning.NodeResult{
			Index:     node.Index,
			Name:      node.Name,
			ServerID:  existing.ID,
			PublicIP:  hcloud.ServerIPv4(existing),
			PrivateIP: privateIP,
			Existing:  true,
		})
		return nil
	}

	provisioning.LogResourceCreating(ctx.Observer, phase, "server", node.Name)

	serverLabels := labels.NewLabelBuilder(ctx.Config.Prefix).
		WithRole(labels.RoleClickHouse).
		WithNodeIndex(node.Index).
		Merge(ctx.Config.Labels).
		Build()

	server, err := ctx.Infra.CreateServer(ctx, hcloud.ServerCreateOpts{
		Name:       node.Name,
		Image:      ctx.Config.Image,
		ServerType: ctx.Config.ServerType,
		Location:   ctx.Config.Location,
		SSHKeys:    []string{ctx.State.SSHKeyName},
		Labels:     serverLabels,
		UserData:   node.Script,
		NetworkID:  networkID,
		PrivateIP:  node.Address,
	})
	if err != nil {
		provisioning.LogResourceFailed(ctx.Observer, phase, "server", node.Name, err)
		return fmt.Errorf("failed to create server %s: %w", node.Name, err)
	}

	publicIP, err := p.waitForPublicIP(ctx, node.Name, hcloud.ServerIPv4(server))
	if err != nil {
		return err
	}

	provisioning.LogResourceCreated(ctx.Observer, phase, "server", node.Name, strconv.FormatInt(server.ID, 10))
	ctx.State.RecordNode(provisioning.NodeResult{
		Index:     node.Index,
		Name:      node.Name,
		ServerID:  server.ID,
		PublicIP:  publicIP,
		PrivateIP: node.Address.String(),
	})
	return nil
}

// waitForPublicIP returns known when set, otherwise polls the server
// until its public IPv4 address is assigned.
func (p *Provisioner) waitForPublicIP(ctx *provisioning.Context, name, known string) (string, error) {
	if known != "" {
		return known, nil
	}

	ipCtx, cancel := context.WithTimeout(ctx, ctx.Timeouts.ServerCreate)
	defer cancel()

	var ip string
	err := retry.WithExponentialBackoff(ipCtx, func() error {
		server, err := ctx.Infra.GetServerByName(ipCtx, name)
		if err != nil {
			return err
		}
		if server == nil {
			return retry.Fatal(fmt.Errorf("server %s disappeared", name))
		}
		ip = hcloud.ServerIPv4(server)
		if ip == "" {
			return fmt.Errorf("server IP not yet assigned")
		}
		return nil
	}, retry.WithMaxRetries(ctx.Timeouts.RetryMaxAttempts),
		retry.WithInitialDelay(ctx.Timeouts.RetryInitialDelay),
		retry.WithMaxDelay(ipPollMaxDelay))
	if err != nil {
		return "", fmt.Errorf("failed to get server IP for %s: %w", name, err)
	}
	return ip, nil
}
