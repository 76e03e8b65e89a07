package infrastructure

import (
	"fmt"

	"github.com/imamik/chzner/internal/provisioning"
	"github.com/imamik/chzner/internal/util/naming"
)

// ProvisionNetwork provisions the private network and the node subnet.
func (p *Provisioner) ProvisionNetwork(ctx *provisioning.Context) error {
	name := naming.Network(ctx.Config.Prefix)
	ctx.Observer.Printf("[%s] Reconciling network %s...", phase, name)

	ipRange, err := ctx.Config.NetworkPrefix()
	if err != nil {
		return err
	}
	subnet := ctx.Plan.Subnet()

	network, err := ctx.Infra.EnsureNetwork(ctx, name, ipRange, resourceLabels(ctx))
	if err != nil {
		return fmt.Errorf("failed to ensure network: %w", err)
	}

	if err := ctx.Infra.EnsureSubnet(ctx, network, subnet, ctx.Config.Network.Zone); err != nil {
		return fmt.Errorf("failed to ensure subnet %s: %w", subnet, err)
	}

	ctx.State.Network = network
	ctx.Observer.Printf("[%s] Network %s ready with subnet %s", phase, name, subnet)
	return nil
}
