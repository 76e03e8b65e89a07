package infrastructure

import (
	"fmt"
	"net"
	"strconv"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"

	"github.com/imamik/chzner/internal/config"
	"github.com/imamik/chzner/internal/provisioning"
	"github.com/imamik/chzner/internal/util/labels"
	"github.com/imamik/chzner/internal/util/naming"
)

// ProvisionFirewall provisions the cluster firewall. Only SSH is opened to
// the public side; node to node traffic uses the private network, which
// Hetzner firewalls do not filter.
func (p *Provisioner) ProvisionFirewall(ctx *provisioning.Context) error {
	name := naming.Firewall(ctx.Config.Prefix)
	ctx.Observer.Printf("[%s] Reconciling firewall %s...", phase, name)

	rules := buildRules(ctx.Config.Firewall.SSHSourceIPs)

	// Apply firewall to all servers in this cluster using label selector
	selector := labels.SelectorForCluster(ctx.Config.Prefix)

	result, err := ctx.Infra.EnsureFirewall(ctx, name, rules, resourceLabels(ctx), selector)
	if err != nil {
		return fmt.Errorf("failed to ensure firewall: %w", err)
	}
	ctx.State.Firewall = result
	ctx.Observer.Printf("[%s] Firewall %s applied to servers with label selector: %s", phase, name, selector)
	return nil
}

// buildRules returns the inbound rule set. An empty source list yields no
// rules, which closes SSH entirely.
func buildRules(sshSources []string) []hcloud.FirewallRule {
	sourceNets := parseCIDRs(sshSources)
	if len(sourceNets) == 0 {
		return []hcloud.FirewallRule{}
	}
	return []hcloud.FirewallRule{{
		Description: hcloud.Ptr("Allow incoming SSH"),
		Direction:   hcloud.FirewallRuleDirectionIn,
		Protocol:    hcloud.FirewallRuleProtocolTCP,
		Port:        hcloud.Ptr(strconv.Itoa(config.SSHPort)),
		SourceIPs:   sourceNets,
	}}
}

// parseCIDRs parses a slice of CIDR strings into net.IPNet, skipping invalid entries.
func parseCIDRs(cidrs []string) []net.IPNet {
	var nets []net.IPNet
	for _, cidr := range cidrs {
		_, n, err := net.ParseCIDR(cidr)
		if err == nil {
			nets = append(nets, *n)
		}
	}
	return nets
}
