package hcloud

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"

	"github.com/imamik/chzner/internal/util/retry"
)

// CleanupError collects the failures of a cleanup run.
type CleanupError struct {
	Errors []error
}

func (e *CleanupError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	return fmt.Sprintf("cleanup encountered %d errors: %v", len(e.Errors), errors.Join(e.Errors...))
}

func (e *CleanupError) Unwrap() []error {
	return e.Errors
}

// Add records err if it is not nil.
func (e *CleanupError) Add(err error) {
	if err != nil {
		e.Errors = append(e.Errors, err)
	}
}

// HasErrors reports whether anything failed.
func (e *CleanupError) HasErrors() bool {
	return len(e.Errors) > 0
}

type resource interface {
	*hcloud.Server | *hcloud.Firewall | *hcloud.Network | *hcloud.SSHKey
}

func resourceName[T resource](r T) (string, int64) {
	switch v := any(r).(type) {
	case *hcloud.Server:
		return v.Name, v.ID
	case *hcloud.Firewall:
		return v.Name, v.ID
	case *hcloud.Network:
		return v.Name, v.ID
	case *hcloud.SSHKey:
		return v.Name, v.ID
	default:
		return "", 0
	}
}

// deleteResourcesByLabel lists resources with listFn and deletes each one,
// continuing past failures.
func deleteResourcesByLabel[T resource](
	ctx context.Context,
	resourceType string,
	listFn func(context.Context) ([]T, error),
	deleteFn func(context.Context, T) error,
) error {
	resources, err := listFn(ctx)
	if err != nil {
		return fmt.Errorf("failed to list %s: %w", resourceType, err)
	}

	var errs []error
	for _, r := range resources {
		name, id := resourceName(r)
		log.Printf("[Cleanup] Deleting %s: %s (ID: %d)", resourceType, name, id)
		if err := deleteFn(ctx, r); err != nil {
			log.Printf("[Cleanup] Warning: Failed to delete %s %s: %v", resourceType, name, err)
			errs = append(errs, fmt.Errorf("%s %q: %w", resourceType, name, err))
		}
	}
	return errors.Join(errs...)
}

// CleanupByLabel deletes every server, firewall, network and SSH key
// matching labels. Servers go first and are awaited, since the firewall
// and the network cannot be deleted while servers still use them.
func (c *RealClient) CleanupByLabel(ctx context.Context, labels map[string]string) error {
	selector := buildLabelSelector(labels)
	log.Printf("[Cleanup] Starting cleanup for resources with labels: %s", selector)

	cleanupErrs := &CleanupError{}
	steps := []struct {
		name string
		fn   func(context.Context, string) error
	}{
		{"servers", c.deleteServersByLabel},
		{"firewalls", c.deleteFirewallsByLabel},
		{"networks", c.deleteNetworksByLabel},
		{"SSH keys", c.deleteSSHKeysByLabel},
	}
	for _, step := range steps {
		if err := step.fn(ctx, selector); err != nil {
			log.Printf("[Cleanup] Warning: Failed to delete %s: %v", step.name, err)
			cleanupErrs.Add(fmt.Errorf("%s: %w", step.name, err))
		}
	}

	if cleanupErrs.HasErrors() {
		log.Printf("[Cleanup] Cleanup completed with %d errors", len(cleanupErrs.Errors))
		return cleanupErrs
	}
	log.Printf("[Cleanup] Cleanup complete")
	return nil
}

func (c *RealClient) listServers(ctx context.Context, selector string) ([]*hcloud.Server, error) {
	return c.client.Server.AllWithOpts(ctx, hcloud.ServerListOpts{
		ListOpts: hcloud.ListOpts{LabelSelector: selector},
	})
}

// deleteServersByLabel deletes the matching servers and waits until they are gone.
func (c *RealClient) deleteServersByLabel(ctx context.Context, selector string) error {
	err := deleteResourcesByLabel(ctx, "server",
		func(ctx context.Context) ([]*hcloud.Server, error) { return c.listServers(ctx, selector) },
		func(ctx context.Context, s *hcloud.Server) error {
			_, _, err := c.client.Server.DeleteWithResult(ctx, s)
			return err
		},
	)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeouts.Delete)
	defer cancel()
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		remaining, err := c.listServers(ctx, selector)
		if err != nil {
			return fmt.Errorf("failed to check remaining servers: %w", err)
		}
		if len(remaining) == 0 {
			return nil
		}
		log.Printf("[Cleanup] Waiting for %d servers to be deleted...", len(remaining))
		select {
		case <-ctx.Done():
			return fmt.Errorf("timed out waiting for servers to be deleted: %w", ctx.Err())
		case <-ticker.C:
		}
	}
}

// deleteFirewallsByLabel retries firewalls still attached to servers being deleted.
func (c *RealClient) deleteFirewallsByLabel(ctx context.Context, selector string) error {
	return deleteResourcesByLabel(ctx, "firewall",
		func(ctx context.Context) ([]*hcloud.Firewall, error) {
			return c.client.Firewall.AllWithOpts(ctx, hcloud.FirewallListOpts{
				ListOpts: hcloud.ListOpts{LabelSelector: selector},
			})
		},
		func(ctx context.Context, fw *hcloud.Firewall) error {
			return retry.WithExponentialBackoff(ctx, func() error {
				_, err := c.client.Firewall.Delete(ctx, fw)
				if err != nil && !IsResourceInUse(err) && !isResourceLocked(err) {
					return retry.Fatal(err)
				}
				return err
			}, retry.WithMaxRetries(c.timeouts.RetryMaxAttempts), retry.WithInitialDelay(c.timeouts.RetryInitialDelay))
		},
	)
}

func (c *RealClient) deleteNetworksByLabel(ctx context.Context, selector string) error {
	return deleteResourcesByLabel(ctx, "network",
		func(ctx context.Context) ([]*hcloud.Network, error) {
			return c.client.Network.AllWithOpts(ctx, hcloud.NetworkListOpts{
				ListOpts: hcloud.ListOpts{LabelSelector: selector},
			})
		},
		func(ctx context.Context, n *hcloud.Network) error {
			_, err := c.client.Network.Delete(ctx, n)
			return err
		},
	)
}

func (c *RealClient) deleteSSHKeysByLabel(ctx context.Context, selector string) error {
	return deleteResourcesByLabel(ctx, "SSH key",
		func(ctx context.Context) ([]*hcloud.SSHKey, error) {
			return c.client.SSHKey.AllWithOpts(ctx, hcloud.SSHKeyListOpts{
				ListOpts: hcloud.ListOpts{LabelSelector: selector},
			})
		},
		func(ctx context.Context, k *hcloud.SSHKey) error {
			_, err := c.client.SSHKey.Delete(ctx, k)
			return err
		},
	)
}
