package config

import (
	"encoding/binary"
	"fmt"
	"net/netip"
)

// ParseIPv4Prefix parses s as an IPv4 network/prefix pair. Host bits are
// allowed and masked away. Failures are ConfigurationErrors for field.
func ParseIPv4Prefix(field, s string) (netip.Prefix, error) {
	if s == "" {
		return netip.Prefix{}, Errorf(field, "is required")
	}
	p, err := netip.ParsePrefix(s)
	if err != nil {
		return netip.Prefix{}, Errorf(field, "invalid CIDR %q: %v", s, err)
	}
	if !p.Addr().Is4() {
		return netip.Prefix{}, Errorf(field, "only IPv4 is supported, got %q", s)
	}
	return p.Masked(), nil
}

// PrefixContains reports whether inner lies entirely inside outer.
func PrefixContains(outer, inner netip.Prefix) bool {
	return outer.Bits() <= inner.Bits() && outer.Contains(inner.Addr())
}

// CIDRSubnet calculates a subnet of prefix, like Terraform's cidrsubnet:
// the prefix length grows by newbits and netnum selects the subnet.
// Only IPv4 is supported.
func CIDRSubnet(prefix string, newbits int, netnum int) (string, error) {
	p, err := netip.ParsePrefix(prefix)
	if err != nil {
		return "", fmt.Errorf("invalid CIDR prefix: %w", err)
	}
	if !p.Addr().Is4() {
		return "", fmt.Errorf("only IPv4 addresses are supported, got IPv6: %s", prefix)
	}
	p = p.Masked()

	newBits := p.Bits() + newbits
	if newbits < 0 || newBits > 32 {
		return "", fmt.Errorf("prefix extension of %d bits is too large for %s", newbits, prefix)
	}

	maxSubnets := 1 << newbits
	if netnum < 0 || netnum >= maxSubnets {
		return "", fmt.Errorf("subnet number %d exceeds max subnets %d", netnum, maxSubnets)
	}

	base := p.Addr().As4()
	value := uint64(binary.BigEndian.Uint32(base[:]))
	value += uint64(netnum) << (32 - newBits)

	var out [4]byte
	// #nosec G115
	binary.BigEndian.PutUint32(out[:], uint32(value))

	return netip.PrefixFrom(netip.AddrFrom4(out), newBits).String(), nil
}
