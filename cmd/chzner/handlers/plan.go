package handlers

import (
	"context"
	"fmt"

	"github.com/imamik/chzner/internal/cluster"
)

// Plan loads the configuration, builds the cluster plan and prints it.
// Nothing is created.
func Plan(_ context.Context, configPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	plan, err := cluster.FromConfig(cfg)
	if err != nil {
		return fmt.Errorf("failed to build plan: %w", err)
	}

	fmt.Print(renderPlanSummary(plan, isInteractiveTTY()))
	return nil
}
