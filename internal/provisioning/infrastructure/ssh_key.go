package infrastructure

import (
	"fmt"
	"strconv"

	"github.com/imamik/chzner/internal/provisioning"
	"github.com/imamik/chzner/internal/util/naming"
)

// ProvisionSSHKey registers the configured public key. A key already
// registered with the same fingerprint is reused under its existing name.
func (p *Provisioner) ProvisionSSHKey(ctx *provisioning.Context) error {
	name := naming.SSHKey(ctx.Config.Prefix)
	ctx.Observer.Printf("[%s] Reconciling SSH key %s...", phase, name)

	key, err := p.loadKey(ctx.Config.SSHPublicKeyPath)
	if err != nil {
		return fmt.Errorf("failed to load SSH public key: %w", err)
	}

	result, err := ctx.Infra.EnsureSSHKey(ctx, name, *key, resourceLabels(ctx))
	if err != nil {
		return fmt.Errorf("failed to ensure SSH key: %w", err)
	}

	if result.Name != name {
		provisioning.LogResourceExists(ctx.Observer, phase, "ssh_key", result.Name, strconv.FormatInt(result.ID, 10))
	}

	ctx.State.SSHKey = result
	ctx.State.SSHKeyName = result.Name
	return nil
}
