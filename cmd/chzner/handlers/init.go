package handlers

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/imamik/chzner/internal/config"
	"github.com/imamik/chzner/internal/config/wizard"
)

// publicIPTimeout bounds the lookup of the caller's address offered as SSH source.
const publicIPTimeout = 5 * time.Second

// Factory function variables for init - can be replaced in tests.
var (
	// fileExists checks if a file exists.
	fileExists = func(path string) bool {
		_, err := os.Stat(path)
		return err == nil
	}

	// runWizard runs the interactive wizard.
	runWizard = wizard.RunWizard

	// writeConfig writes the config to a file.
	writeConfig = wizard.WriteConfig

	// generateKey creates a key pair at the given public key path.
	generateKey = wizard.GenerateKey
)

// Init runs the configuration wizard and writes the result to outputPath.
func Init(ctx context.Context, outputPath string) error {
	if !isInteractiveTTY() {
		return fmt.Errorf("init requires an interactive terminal; write %s by hand instead", config.DefaultConfigFilename)
	}

	if fileExists(outputPath) {
		fmt.Printf("Warning: %s already exists and will be overwritten.\n\n", outputPath)
	}

	printWelcome()

	result, err := runWizard(ctx, detectPublicIP(ctx))
	if err != nil {
		return fmt.Errorf("wizard canceled: %w", err)
	}

	if result.GenerateKey {
		if err := generateKey(result.SSHPublicKeyPath); err != nil {
			return fmt.Errorf("failed to generate SSH key: %w", err)
		}
		fmt.Printf("Generated SSH key pair: %s\n", result.SSHPublicKeyPath)
	}

	cfg := wizard.BuildConfig(result)
	if err := writeConfig(cfg, outputPath); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	printInitSuccess(outputPath, cfg)
	return nil
}

// detectPublicIP returns the caller's public IPv4 address, or "" when it
// cannot be determined quickly.
func detectPublicIP(ctx context.Context) string {
	ipCtx, cancel := context.WithTimeout(ctx, publicIPTimeout)
	defer cancel()

	ip, err := newInfraClient(os.Getenv(config.EnvHCloudToken)).GetPublicIP(ipCtx)
	if err != nil {
		log.Printf("Could not detect public IP: %v", err)
		return ""
	}
	return ip
}

// printWelcome prints the welcome message.
func printWelcome() {
	fmt.Println()
	fmt.Println("chzner - ClickHouse on Hetzner Cloud")
	fmt.Println("====================================")
	fmt.Println()
}

// printInitSuccess prints the success message with summary and next steps.
func printInitSuccess(outputPath string, cfg *config.Config) {
	fmt.Println()
	fmt.Println("Configuration saved!")
	fmt.Println()
	fmt.Printf("  File:     %s\n", outputPath)
	fmt.Printf("  Prefix:   %s\n", cfg.Prefix)
	fmt.Printf("  Nodes:    %d x %s in %s\n", cfg.ClusterSize, cfg.ServerType, cfg.Location)
	fmt.Printf("  Subnet:   %s\n", cfg.Network.SubnetCIDR)
	fmt.Println()
	fmt.Println("Next steps:")
	fmt.Printf("  export %s=<password>\n", config.EnvPassword)
	fmt.Printf("  export %s=<token>\n", config.EnvHCloudToken)
	fmt.Printf("  chzner plan -c %s\n", outputPath)
	fmt.Printf("  chzner apply -c %s\n", outputPath)
	fmt.Println()
}
