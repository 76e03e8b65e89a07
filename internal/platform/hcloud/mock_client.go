package hcloud

import (
	"context"
	"net/netip"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"

	"github.com/imamik/chzner/internal/util/sshkey"
)

// MockClient is a mock implementation of InfrastructureManager. Unset
// hooks return a plausible default.
type MockClient struct {
	// Server
	CreateServerFunc      func(ctx context.Context, opts ServerCreateOpts) (*hcloud.Server, error)
	DeleteServerFunc      func(ctx context.Context, name string) error
	GetServerByNameFunc   func(ctx context.Context, name string) (*hcloud.Server, error)
	GetServersByLabelFunc func(ctx context.Context, labels map[string]string) ([]*hcloud.Server, error)

	// SSH key
	EnsureSSHKeyFunc func(ctx context.Context, name string, key sshkey.PublicKey, labels map[string]string) (*hcloud.SSHKey, error)
	DeleteSSHKeyFunc func(ctx context.Context, name string) error

	// Network
	EnsureNetworkFunc func(ctx context.Context, name string, ipRange netip.Prefix, labels map[string]string) (*hcloud.Network, error)
	EnsureSubnetFunc  func(ctx context.Context, network *hcloud.Network, ipRange netip.Prefix, networkZone string) error
	DeleteNetworkFunc func(ctx context.Context, name string) error

	// Firewall
	EnsureFirewallFunc func(ctx context.Context, name string, rules []hcloud.FirewallRule, labels map[string]string, applyToLabelSelector string) (*hcloud.Firewall, error)
	DeleteFirewallFunc func(ctx context.Context, name string) error

	CleanupByLabelFunc func(ctx context.Context, labels map[string]string) error
	GetPublicIPFunc    func(ctx context.Context) (string, error)
}

var _ InfrastructureManager = (*MockClient)(nil)

// CreateServer mocks server creation.
func (m *MockClient) CreateServer(ctx context.Context, opts ServerCreateOpts) (*hcloud.Server, error) {
	if m.CreateServerFunc != nil {
		return m.CreateServerFunc(ctx, opts)
	}
	return &hcloud.Server{ID: 1, Name: opts.Name, Labels: opts.Labels}, nil
}

// DeleteServer mocks server deletion.
func (m *MockClient) DeleteServer(ctx context.Context, name string) error {
	if m.DeleteServerFunc != nil {
		return m.DeleteServerFunc(ctx, name)
	}
	return nil
}

// GetServerByName mocks server lookup. Defaults to not found.
func (m *MockClient) GetServerByName(ctx context.Context, name string) (*hcloud.Server, error) {
	if m.GetServerByNameFunc != nil {
		return m.GetServerByNameFunc(ctx, name)
	}
	return nil, nil
}

// GetServersByLabel mocks server listing.
func (m *MockClient) GetServersByLabel(ctx context.Context, labels map[string]string) ([]*hcloud.Server, error) {
	if m.GetServersByLabelFunc != nil {
		return m.GetServersByLabelFunc(ctx, labels)
	}
	return nil, nil
}

// EnsureSSHKey mocks SSH key registration.
func (m *MockClient) EnsureSSHKey(ctx context.Context, name string, key sshkey.PublicKey, labels map[string]string) (*hcloud.SSHKey, error) {
	if m.EnsureSSHKeyFunc != nil {
		return m.EnsureSSHKeyFunc(ctx, name, key, labels)
	}
	return &hcloud.SSHKey{ID: 1, Name: name, Fingerprint: key.Fingerprint, PublicKey: key.Authorized}, nil
}

// DeleteSSHKey mocks SSH key deletion.
func (m *MockClient) DeleteSSHKey(ctx context.Context, name string) error {
	if m.DeleteSSHKeyFunc != nil {
		return m.DeleteSSHKeyFunc(ctx, name)
	}
	return nil
}

// EnsureNetwork mocks network creation.
func (m *MockClient) EnsureNetwork(ctx context.Context, name string, ipRange netip.Prefix, labels map[string]string) (*hcloud.Network, error) {
	if m.EnsureNetworkFunc != nil {
		return m.EnsureNetworkFunc(ctx, name, ipRange, labels)
	}
	return &hcloud.Network{ID: 1, Name: name, IPRange: toIPNet(ipRange), Labels: labels}, nil
}

// EnsureSubnet mocks subnet creation.
func (m *MockClient) EnsureSubnet(ctx context.Context, network *hcloud.Network, ipRange netip.Prefix, networkZone string) error {
	if m.EnsureSubnetFunc != nil {
		return m.EnsureSubnetFunc(ctx, network, ipRange, networkZone)
	}
	return nil
}

// DeleteNetwork mocks network deletion.
func (m *MockClient) DeleteNetwork(ctx context.Context, name string) error {
	if m.DeleteNetworkFunc != nil {
		return m.DeleteNetworkFunc(ctx, name)
	}
	return nil
}

// EnsureFirewall mocks firewall creation.
func (m *MockClient) EnsureFirewall(ctx context.Context, name string, rules []hcloud.FirewallRule, labels map[string]string, applyToLabelSelector string) (*hcloud.Firewall, error) {
	if m.EnsureFirewallFunc != nil {
		return m.EnsureFirewallFunc(ctx, name, rules, labels, applyToLabelSelector)
	}
	return &hcloud.Firewall{ID: 1, Name: name, Rules: rules, Labels: labels}, nil
}

// DeleteFirewall mocks firewall deletion.
func (m *MockClient) DeleteFirewall(ctx context.Context, name string) error {
	if m.DeleteFirewallFunc != nil {
		return m.DeleteFirewallFunc(ctx, name)
	}
	return nil
}

// CleanupByLabel mocks label-based cleanup.
func (m *MockClient) CleanupByLabel(ctx context.Context, labels map[string]string) error {
	if m.CleanupByLabelFunc != nil {
		return m.CleanupByLabelFunc(ctx, labels)
	}
	return nil
}

// GetPublicIP mocks the public IP lookup.
func (m *MockClient) GetPublicIP(ctx context.Context) (string, error) {
	if m.GetPublicIPFunc != nil {
		return m.GetPublicIPFunc(ctx)
	}
	return "203.0.113.1", nil
}
