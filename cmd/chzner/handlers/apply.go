package handlers

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/imamik/chzner/internal/artifacts"
	"github.com/imamik/chzner/internal/cluster"
	"github.com/imamik/chzner/internal/config"
	"github.com/imamik/chzner/internal/provisioning"
	"github.com/imamik/chzner/internal/provisioning/compute"
	"github.com/imamik/chzner/internal/provisioning/infrastructure"
)

// Factory function variables for apply - can be replaced in tests.
var (
	// newProvisioningContext creates a new provisioning context.
	newProvisioningContext = provisioning.NewContext

	// newApplyPhases returns the phases run by apply, in order.
	newApplyPhases = func() []provisioning.Phase {
		return []provisioning.Phase{
			infrastructure.NewProvisioner(),
			compute.NewProvisioner(),
		}
	}

	// runPhases executes the phases.
	runPhases = provisioning.RunPhases
)

// Apply provisions the ClickHouse cluster on Hetzner Cloud.
//
// This function orchestrates the complete provisioning workflow:
//  1. Loads and validates the configuration
//  2. Builds the full cluster plan; any planning error aborts before cloud calls
//  3. Publishes the rendered artifacts when a publish section is configured
//  4. Runs the infrastructure and compute phases
//  5. Pushes metrics when CHZNER_PUSHGATEWAY_URL is set
//  6. Prints node addresses and the SSH key name
func Apply(ctx context.Context, configPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	plan, err := cluster.FromConfig(cfg)
	if err != nil {
		return fmt.Errorf("failed to build plan: %w", err)
	}

	client, err := initializeClient()
	if err != nil {
		return err
	}

	log.Printf("Applying configuration for cluster: %s (%d nodes, %s)", cfg.Prefix, plan.Size(), plan.Install())

	if cfg.Publish.Enabled() {
		files, err := artifacts.CollectRedacted(plan)
		if err != nil {
			return fmt.Errorf("failed to render artifacts: %w", err)
		}
		if _, err := publishArtifacts(ctx, cfg, files); err != nil {
			return err
		}
	}

	pCtx := newProvisioningContext(ctx, cfg, plan, client)
	runErr := runPhases(pCtx, newApplyPhases())
	pushMetrics(ctx, cfg, pCtx.Metrics)
	if runErr != nil {
		return fmt.Errorf("provisioning failed: %w", runErr)
	}

	fmt.Print(renderApplySummary(cfg, pCtx.State, isInteractiveTTY()))
	return nil
}

// pushMetrics sends the run's metrics to the Pushgateway, if one is configured.
// Failures are logged and never fail the run.
func pushMetrics(ctx context.Context, cfg *config.Config, m *provisioning.Metrics) {
	url := os.Getenv(config.EnvPushgatewayURL)
	if url == "" {
		return
	}
	if err := m.Push(ctx, url, cfg.Prefix); err != nil {
		log.Printf("Warning: %v", err)
	}
}
