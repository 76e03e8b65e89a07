package wizard

import (
	"context"
	"fmt"
)

// Source choices for the SSH firewall rule.
const (
	SSHFromAnywhere = "anywhere"
	SSHFromCurrent  = "current"
)

// WizardResult holds all the answers from the interactive wizard.
type WizardResult struct {
	// Cluster identity
	Prefix      string
	Location    string
	ClusterSize int
	ServerType  string

	// SSH access
	SSHPublicKeyPath string
	GenerateKey      bool
	SSHSource        string // SSHFromAnywhere or SSHFromCurrent
	CurrentIP        string // detected public IPv4, may be empty

	// Optional pinned build
	DevClickHouseURL string
}

// RunWizard runs the interactive configuration wizard. currentIP is the
// caller's public IPv4 address, offered as the SSH source when known.
// The context is used for cancellation support (e.g., Ctrl+C).
func RunWizard(ctx context.Context, currentIP string) (*WizardResult, error) {
	result := &WizardResult{
		Location:         defaultLocation,
		ClusterSize:      defaultClusterSize,
		ServerType:       defaultServerType,
		SSHPublicKeyPath: defaultKeyPath,
		SSHSource:        SSHFromAnywhere,
		CurrentIP:        currentIP,
	}

	if err := runClusterIdentityGroup(ctx, result); err != nil {
		return nil, fmt.Errorf("cluster identity: %w", err)
	}

	if err := runNodesGroup(ctx, result); err != nil {
		return nil, fmt.Errorf("nodes: %w", err)
	}

	if err := runSSHAccessGroup(ctx, result); err != nil {
		return nil, fmt.Errorf("ssh access: %w", err)
	}

	if err := runVersionGroup(ctx, result); err != nil {
		return nil, fmt.Errorf("clickhouse version: %w", err)
	}

	return result, nil
}
