package hcloud

import (
	"context"
	"fmt"
	"net"
	"net/netip"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"
)

// EnsureNetwork ensures the network exists with the given range. An existing
// network with a different range is an error, not something to repair.
func (c *RealClient) EnsureNetwork(ctx context.Context, name string, ipRange netip.Prefix, labels map[string]string) (*hcloud.Network, error) {
	want := toIPNet(ipRange)
	return (&EnsureOperation[*hcloud.Network, hcloud.NetworkCreateOpts, any]{
		Name:         name,
		ResourceType: "network",
		Get:          c.client.Network.Get,
		Create:       simpleCreate(c.client.Network.Create),
		Validate: func(network *hcloud.Network) error {
			if network.IPRange == nil || network.IPRange.String() != want.String() {
				return fmt.Errorf("network %s exists with IP range %v, expected %s", name, network.IPRange, want)
			}
			return nil
		},
		CreateOptsMapper: func() hcloud.NetworkCreateOpts {
			return hcloud.NetworkCreateOpts{
				Name:    name,
				IPRange: want,
				Labels:  labels,
			}
		},
	}).Execute(ctx, c)
}

// EnsureSubnet adds a cloud subnet to network unless one with ipRange exists.
func (c *RealClient) EnsureSubnet(ctx context.Context, network *hcloud.Network, ipRange netip.Prefix, networkZone string) error {
	want := toIPNet(ipRange)
	for _, subnet := range network.Subnets {
		if subnet.IPRange != nil && subnet.IPRange.String() == want.String() {
			return nil
		}
	}

	action, _, err := c.client.Network.AddSubnet(ctx, network, hcloud.NetworkAddSubnetOpts{
		Subnet: hcloud.NetworkSubnet{
			Type:        hcloud.NetworkSubnetTypeCloud,
			IPRange:     want,
			NetworkZone: hcloud.NetworkZone(networkZone),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to add subnet %s: %w", want, err)
	}
	if err := c.client.Action.WaitFor(ctx, action); err != nil {
		return fmt.Errorf("failed to wait for subnet creation: %w", err)
	}
	return nil
}

// DeleteNetwork deletes the network with the given name.
func (c *RealClient) DeleteNetwork(ctx context.Context, name string) error {
	return (&DeleteOperation[*hcloud.Network]{
		Name:         name,
		ResourceType: "network",
		Get:          c.client.Network.Get,
		Delete:       c.client.Network.Delete,
	}).Execute(ctx, c)
}

func toIPNet(p netip.Prefix) *net.IPNet {
	p = p.Masked()
	return &net.IPNet{
		IP:   net.IP(p.Addr().AsSlice()),
		Mask: net.CIDRMask(p.Bits(), p.Addr().BitLen()),
	}
}
