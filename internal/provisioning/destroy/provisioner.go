package destroy

import (
	"context"
	"fmt"

	"github.com/imamik/chzner/internal/provisioning"
	"github.com/imamik/chzner/internal/util/labels"
	"github.com/imamik/chzner/internal/util/naming"
)

// ArtifactRemover deletes published artifacts under a key prefix.
type ArtifactRemover interface {
	DeletePrefix(ctx context.Context, bucket, prefix string) (int, error)
}

// Provisioner handles cluster destruction.
type Provisioner struct {
	artifacts ArtifactRemover
	bucket    string
}

// NewProvisioner creates a new destroy provisioner.
func NewProvisioner() *Provisioner {
	return &Provisioner{}
}

// WithArtifacts also removes the artifacts published to bucket.
func (p *Provisioner) WithArtifacts(remover ArtifactRemover, bucket string) *Provisioner {
	p.artifacts = remover
	p.bucket = bucket
	return p
}

// Name implements the provisioning.Phase interface.
func (p *Provisioner) Name() string {
	return "destroy"
}

// Provision destroys the cluster and all associated resources.
func (p *Provisioner) Provision(ctx *provisioning.Context) error {
	prefix := ctx.Config.Prefix
	ctx.Observer.Printf("[Destroy] Starting cluster destruction for: %s", prefix)

	// Only the cluster label is matched so resources carrying extra user
	// labels are removed too.
	if err := ctx.Infra.CleanupByLabel(ctx, labels.ForCluster(prefix)); err != nil {
		return fmt.Errorf("failed to cleanup cluster resources: %w", err)
	}

	if err := sweepByName(ctx); err != nil {
		return err
	}

	if p.artifacts != nil {
		n, err := p.artifacts.DeletePrefix(ctx, p.bucket, prefix+"/")
		if err != nil {
			return fmt.Errorf("failed to delete published artifacts: %w", err)
		}
		ctx.Observer.Printf("[Destroy] Deleted %d published artifacts from s3://%s/%s/", n, p.bucket, prefix)
	}

	ctx.Observer.Printf("[Destroy] Cluster %s destroyed successfully", prefix)
	return nil
}

// sweepByName deletes the resources the cluster names deterministically, in
// case their labels were edited after creation. Missing resources are fine.
func sweepByName(ctx *provisioning.Context) error {
	prefix := ctx.Config.Prefix
	for i := range ctx.Config.ClusterSize {
		name := naming.Node(prefix, i)
		if err := ctx.Infra.DeleteServer(ctx, name); err != nil {
			return fmt.Errorf("failed to delete server %s: %w", name, err)
		}
	}
	if err := ctx.Infra.DeleteFirewall(ctx, naming.Firewall(prefix)); err != nil {
		return fmt.Errorf("failed to delete firewall: %w", err)
	}
	if err := ctx.Infra.DeleteNetwork(ctx, naming.Network(prefix)); err != nil {
		return fmt.Errorf("failed to delete network: %w", err)
	}
	if err := ctx.Infra.DeleteSSHKey(ctx, naming.SSHKey(prefix)); err != nil {
		return fmt.Errorf("failed to delete ssh key: %w", err)
	}
	return nil
}
