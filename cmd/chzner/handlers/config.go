// Package handlers implements the business logic for CLI commands.
//
// This package contains handler functions that are called by command definitions
// in the commands package. Handlers are framework-agnostic and can be tested
// independently of the CLI framework.
package handlers

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/imamik/chzner/internal/config"
	"github.com/imamik/chzner/internal/platform/hcloud"
	"github.com/imamik/chzner/internal/platform/s3"
)

// Factory function variables shared by several handlers - can be replaced in tests.
var (
	// newInfraClient creates a new infrastructure client.
	newInfraClient = func(token string) hcloud.InfrastructureManager {
		return hcloud.NewRealClient(token)
	}

	// newObjectStore creates the client artifacts are published with.
	newObjectStore = func(ctx context.Context, p *config.PublishConfig) (ObjectStore, error) {
		return s3.NewClient(ctx, p.Endpoint, p.Region, p.AccessKey, p.SecretKey, s3.WithPathStyle())
	}

	// resolveConfigPath finds the configuration file.
	resolveConfigPath = config.ResolvePath

	// loadConfigFile loads and validates config from file.
	loadConfigFile = config.LoadFile

	// isInteractiveTTY reports whether stdout is a terminal.
	isInteractiveTTY = func() bool {
		return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	}
)

// ObjectStore is the subset of the S3 client handlers use.
type ObjectStore interface {
	EnsureBucket(ctx context.Context, bucket string) error
	PutObject(ctx context.Context, bucket, key, contentType string, data []byte) error
	DeletePrefix(ctx context.Context, bucket, prefix string) (int, error)
}

// loadConfig loads and validates cluster configuration.
// If configPath is empty, it looks for chzner.yaml in the current directory and its parents.
func loadConfig(configPath string) (*config.Config, error) {
	path, err := resolveConfigPath(configPath)
	if err != nil {
		return nil, fmt.Errorf("no config file found: %w\nRun 'chzner init' to create one", err)
	}

	cfg, err := loadConfigFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	log.Printf("Using config: %s", path)
	return cfg, nil
}

// initializeClient creates a Hetzner Cloud client using HCLOUD_TOKEN from environment.
func initializeClient() (hcloud.InfrastructureManager, error) {
	token := os.Getenv(config.EnvHCloudToken)
	if token == "" {
		return nil, fmt.Errorf("%s is not set", config.EnvHCloudToken)
	}
	return newInfraClient(token), nil
}
