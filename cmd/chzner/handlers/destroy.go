package handlers

import (
	"context"
	"fmt"
	"log"

	"github.com/imamik/chzner/internal/config"
	"github.com/imamik/chzner/internal/provisioning"
	"github.com/imamik/chzner/internal/provisioning/destroy"
)

// Provisioner interface for testing - matches provisioning.Phase.
type Provisioner interface {
	Provision(ctx *provisioning.Context) error
}

// Factory function variables for destroy - can be replaced in tests.
var (
	// newDestroyProvisioner creates a new destroy provisioner. store is nil
	// when no publish section is configured.
	newDestroyProvisioner = func(store ObjectStore, bucket string) Provisioner {
		p := destroy.NewProvisioner()
		if store != nil {
			p.WithArtifacts(store, bucket)
		}
		return p
	}

	// loadTeardownConfig loads config without full validation; destroy only needs the prefix.
	loadTeardownConfig = config.LoadFileUnvalidated
)

// Destroy handles the destroy command.
//
// It loads the cluster configuration and deletes all associated resources
// from Hetzner Cloud. Resources are deleted in dependency order. Published
// artifacts are removed when a publish section is configured.
func Destroy(ctx context.Context, configPath string) error {
	path, err := resolveConfigPath(configPath)
	if err != nil {
		return fmt.Errorf("no config file found: %w", err)
	}
	cfg, err := loadTeardownConfig(path)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log.Printf("Destroying cluster: %s", cfg.Prefix)

	client, err := initializeClient()
	if err != nil {
		return err
	}

	var store ObjectStore
	bucket := ""
	if cfg.Publish.Enabled() {
		store, err = newObjectStore(ctx, cfg.Publish)
		if err != nil {
			return fmt.Errorf("failed to create object storage client: %w", err)
		}
		bucket = cfg.Publish.Bucket
	}

	// Destroy needs neither a plan nor generated artifacts.
	pCtx := newProvisioningContext(ctx, cfg, nil, client)

	if err := newDestroyProvisioner(store, bucket).Provision(pCtx); err != nil {
		return fmt.Errorf("destroy failed: %w", err)
	}

	log.Printf("Cluster %s destroyed successfully", cfg.Prefix)
	return nil
}
