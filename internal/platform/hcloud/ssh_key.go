package hcloud

import (
	"context"
	"fmt"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"

	"github.com/imamik/chzner/internal/util/sshkey"
)

// EnsureSSHKey returns the registered key with key's fingerprint, or
// registers key as name. Hetzner rejects a second upload of the same key,
// so an existing registration under another name is reused as is.
func (c *RealClient) EnsureSSHKey(ctx context.Context, name string, key sshkey.PublicKey, labels map[string]string) (*hcloud.SSHKey, error) {
	existing, _, err := c.client.SSHKey.GetByFingerprint(ctx, key.Fingerprint)
	if err != nil {
		return nil, fmt.Errorf("failed to look up ssh key %s: %w", key.Fingerprint, err)
	}
	if existing != nil {
		return existing, nil
	}

	return (&EnsureOperation[*hcloud.SSHKey, hcloud.SSHKeyCreateOpts, any]{
		Name:         name,
		ResourceType: "ssh key",
		Get:          c.client.SSHKey.Get,
		Create:       simpleCreate(c.client.SSHKey.Create),
		Validate: func(k *hcloud.SSHKey) error {
			return fmt.Errorf("ssh key %s is already registered with fingerprint %s, not %s", name, k.Fingerprint, key.Fingerprint)
		},
		CreateOptsMapper: func() hcloud.SSHKeyCreateOpts {
			return hcloud.SSHKeyCreateOpts{
				Name:      name,
				PublicKey: key.Authorized,
				Labels:    labels,
			}
		},
	}).Execute(ctx, c)
}

// DeleteSSHKey deletes the SSH key with the given name.
func (c *RealClient) DeleteSSHKey(ctx context.Context, name string) error {
	return (&DeleteOperation[*hcloud.SSHKey]{
		Name:         name,
		ResourceType: "ssh key",
		Get:          c.client.SSHKey.Get,
		Delete:       c.client.SSHKey.Delete,
	}).Execute(ctx, c)
}
