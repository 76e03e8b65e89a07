package hcloud

import (
	"context"
	"net/netip"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"

	"github.com/imamik/chzner/internal/util/sshkey"
)

// ServerCreateOpts holds all parameters for creating a node server.
type ServerCreateOpts struct {
	Name       string
	Image      string
	ServerType string
	Location   string
	SSHKeys    []string
	Labels     map[string]string
	UserData   string
	// NetworkID and PrivateIP are set together or not at all.
	NetworkID int64
	PrivateIP netip.Addr
}

// ServerProvisioner creates and removes servers.
type ServerProvisioner interface {
	CreateServer(ctx context.Context, opts ServerCreateOpts) (*hcloud.Server, error)
	DeleteServer(ctx context.Context, name string) error
	// GetServerByName returns nil if the server does not exist.
	GetServerByName(ctx context.Context, name string) (*hcloud.Server, error)
	GetServersByLabel(ctx context.Context, labels map[string]string) ([]*hcloud.Server, error)
}

// SSHKeyManager registers the cluster's SSH key.
type SSHKeyManager interface {
	// EnsureSSHKey returns the key already registered with the same
	// fingerprint, whatever its name, or registers it as name.
	EnsureSSHKey(ctx context.Context, name string, key sshkey.PublicKey, labels map[string]string) (*hcloud.SSHKey, error)
	DeleteSSHKey(ctx context.Context, name string) error
}

// NetworkManager manages the private network.
type NetworkManager interface {
	EnsureNetwork(ctx context.Context, name string, ipRange netip.Prefix, labels map[string]string) (*hcloud.Network, error)
	EnsureSubnet(ctx context.Context, network *hcloud.Network, ipRange netip.Prefix, networkZone string) error
	DeleteNetwork(ctx context.Context, name string) error
}

// FirewallManager manages the cluster firewall.
type FirewallManager interface {
	// EnsureFirewall creates or updates the firewall and applies it to
	// every server matching applyToLabelSelector.
	EnsureFirewall(ctx context.Context, name string, rules []hcloud.FirewallRule, labels map[string]string, applyToLabelSelector string) (*hcloud.Firewall, error)
	DeleteFirewall(ctx context.Context, name string) error
}

// InfrastructureManager combines all infrastructure interfaces.
type InfrastructureManager interface {
	ServerProvisioner
	SSHKeyManager
	NetworkManager
	FirewallManager

	// CleanupByLabel deletes every resource matching the labels.
	CleanupByLabel(ctx context.Context, labels map[string]string) error
	// GetPublicIP returns the public IPv4 address of the calling host.
	GetPublicIP(ctx context.Context) (string, error)
}
