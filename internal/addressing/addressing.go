package addressing

import (
	"fmt"
	"net/netip"

	sideronet "github.com/siderolabs/net"

	"github.com/imamik/chzner/internal/config"
)

const (
	// GatewayOffset is the gateway's offset from the network address.
	GatewayOffset = 1
	// NodeOffset is the offset of the first node address. Everything below it is reserved.
	NodeOffset = 10
)

// CapacityError reports a cluster that does not fit into its subnet.
type CapacityError struct {
	Subnet    netip.Prefix
	Requested int
	Available int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("subnet %s has room for %d nodes, %d requested", e.Subnet, e.Available, e.Requested)
}

// Capacity returns how many node addresses subnet can hold: the addresses
// from network+NodeOffset up to, not including, the broadcast address.
// For prefixes shorter than /2 the result is a lower bound: it is the
// capacity of a /2, which keeps the count within a 32-bit int.
func Capacity(subnet netip.Prefix) int {
	hostBits := subnet.Addr().BitLen() - subnet.Bits()
	if hostBits > 30 {
		hostBits = 30
	}
	total := 1 << hostBits
	available := total - NodeOffset - 1
	if available < 0 {
		return 0
	}
	return available
}

// Gateway returns the gateway address of subnet.
func Gateway(subnet netip.Prefix) (netip.Addr, error) {
	return sideronet.NthIPInNetwork(subnet.Masked(), GatewayOffset)
}

// Plan returns size addresses from subnet; address i is network+NodeOffset+i.
// The check against the subnet's capacity happens before any address is produced.
func Plan(subnet netip.Prefix, size int) ([]netip.Addr, error) {
	if !subnet.IsValid() {
		return nil, config.Errorf("network.subnet_cidr", "invalid subnet")
	}
	if !subnet.Addr().Is4() {
		return nil, config.Errorf("network.subnet_cidr", "only IPv4 is supported, got %s", subnet)
	}
	if size < 1 {
		return nil, config.Errorf("cluster_size", "must be at least 1, got %d", size)
	}

	subnet = subnet.Masked()
	if available := Capacity(subnet); size > available {
		return nil, &CapacityError{Subnet: subnet, Requested: size, Available: available}
	}

	addrs := make([]netip.Addr, size)
	for i := range addrs {
		ip, err := sideronet.NthIPInNetwork(subnet, NodeOffset+i)
		if err != nil {
			return nil, fmt.Errorf("failed to plan address for node %d: %w", i, err)
		}
		addrs[i] = ip
	}
	return addrs, nil
}
