package handlers

import (
	"context"
	"fmt"
	"log"

	"github.com/imamik/chzner/internal/artifacts"
	"github.com/imamik/chzner/internal/cluster"
	"github.com/imamik/chzner/internal/config"
)

// Factory function variables for render - can be replaced in tests.
var (
	// writeArtifacts writes rendered files to a directory.
	writeArtifacts = artifacts.WriteDir
)

// Render writes every node's artifacts to outputDir and, when publish is
// set, uploads a redacted copy to the configured bucket.
func Render(ctx context.Context, configPath, outputDir string, publish bool) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if publish && !cfg.Publish.Enabled() {
		return fmt.Errorf("--publish requires a publish section in the configuration")
	}

	plan, err := cluster.FromConfig(cfg)
	if err != nil {
		return fmt.Errorf("failed to build plan: %w", err)
	}

	files, err := artifacts.Collect(plan)
	if err != nil {
		return fmt.Errorf("failed to render artifacts: %w", err)
	}

	if err := writeArtifacts(outputDir, files); err != nil {
		return err
	}
	fmt.Printf("Wrote %d files for %d nodes to %s\n", len(files), plan.Size(), outputDir)

	if publish {
		redacted, err := artifacts.CollectRedacted(plan)
		if err != nil {
			return fmt.Errorf("failed to render artifacts: %w", err)
		}
		keys, err := publishArtifacts(ctx, cfg, redacted)
		if err != nil {
			return err
		}
		fmt.Printf("Published %d objects to s3://%s/%s/\n", len(keys), cfg.Publish.Bucket, cfg.Prefix)
	}
	return nil
}

// publishArtifacts uploads files below the cluster prefix.
func publishArtifacts(ctx context.Context, cfg *config.Config, files []artifacts.File) ([]string, error) {
	store, err := newObjectStore(ctx, cfg.Publish)
	if err != nil {
		return nil, fmt.Errorf("failed to create object storage client: %w", err)
	}

	log.Printf("Publishing %d artifacts to s3://%s/%s/", len(files), cfg.Publish.Bucket, cfg.Prefix)
	keys, err := artifacts.Publish(ctx, store, cfg.Publish.Bucket, cfg.Prefix, files)
	if err != nil {
		return keys, fmt.Errorf("failed to publish artifacts: %w", err)
	}
	return keys, nil
}
