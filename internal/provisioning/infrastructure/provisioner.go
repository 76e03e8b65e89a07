package infrastructure

import (
	"github.com/imamik/chzner/internal/provisioning"
	"github.com/imamik/chzner/internal/util/labels"
	"github.com/imamik/chzner/internal/util/sshkey"
)

const phase = "infrastructure"

// Provisioner handles infrastructure provisioning.
type Provisioner struct {
	loadKey func(path string) (*sshkey.PublicKey, error)
}

// NewProvisioner creates a new infrastructure provisioner.
func NewProvisioner() *Provisioner {
	return &Provisioner{loadKey: sshkey.LoadPublicKey}
}

// Name implements the provisioning.Phase interface.
func (p *Provisioner) Name() string {
	return phase
}

// Provision implements the provisioning.Phase interface.
func (p *Provisioner) Provision(ctx *provisioning.Context) error {
	if err := p.ProvisionSSHKey(ctx); err != nil {
		return err
	}
	if err := p.ProvisionNetwork(ctx); err != nil {
		return err
	}
	return p.ProvisionFirewall(ctx)
}

// resourceLabels are applied to every shared resource of the cluster.
func resourceLabels(ctx *provisioning.Context) map[string]string {
	return labels.NewLabelBuilder(ctx.Config.Prefix).
		Merge(ctx.Config.Labels).
		Build()
}
