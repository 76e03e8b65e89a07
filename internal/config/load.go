package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadFile reads, defaults, applies environment overrides to and validates
// the configuration at path.
func LoadFile(path string) (*Config, error) {
	// #nosec G304
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return LoadFromBytes(data)
}

// LoadFromBytes is LoadFile for in-memory YAML.
func LoadFromBytes(data []byte) (*Config, error) {
	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}

	cfg.ApplyDefaults()
	cfg.ApplyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// Parse decodes YAML without defaulting or validation. Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return &cfg, nil
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills omitted fields.
func (c *Config) ApplyDefaults() {
	if c.Prefix == "" {
		c.Prefix = DefaultPrefix
	}
	if c.ClusterSize == 0 {
		c.ClusterSize = DefaultClusterSize
	}
	if c.ServerType == "" {
		c.ServerType = DefaultServerType
	}
	if c.Location == "" {
		c.Location = DefaultLocation
	}
	if c.Image == "" {
		c.Image = DefaultImage
	}
	if c.Network.IPv4CIDR == "" {
		c.Network.IPv4CIDR = DefaultNetworkCIDR
	}
	if c.Network.SubnetCIDR == "" {
		if subnet, err := CIDRSubnet(c.Network.IPv4CIDR, subnetNewBits, 0); err == nil {
			c.Network.SubnetCIDR = subnet
		}
	}
	if c.Network.Zone == "" {
		c.Network.Zone = DefaultNetworkZone
	}
	if c.Firewall.SSHSourceIPs == nil {
		c.Firewall.SSHSourceIPs = []string{"0.0.0.0/0", "::/0"}
	}
	if c.Publish != nil && c.Publish.Region == "" {
		c.Publish.Region = DefaultS3Region
	}
}

// ApplyEnv fills secrets from the environment when the file leaves them empty.
func (c *Config) ApplyEnv() {
	if c.Password == "" {
		c.Password = os.Getenv(EnvPassword)
	}
	if c.Publish != nil {
		if c.Publish.AccessKey == "" {
			c.Publish.AccessKey = os.Getenv(EnvS3AccessKey)
		}
		if c.Publish.SecretKey == "" {
			c.Publish.SecretKey = os.Getenv(EnvS3SecretKey)
		}
	}
}

// Encode renders cfg as the YAML a config file holds.
func Encode(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}

// FindConfigFile looks for chzner.yaml in the working directory and its parents.
func FindConfigFile() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current directory: %w", err)
	}

	dir := cwd
	for {
		path := filepath.Join(dir, DefaultConfigFilename)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("config file %s not found", DefaultConfigFilename)
}

// ResolvePath returns explicit when set, otherwise the auto-detected config file.
func ResolvePath(explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	return FindConfigFile()
}

// LoadFileUnvalidated reads, defaults and applies environment overrides to
// the configuration at path without validating it. Teardown uses it because
// it only needs the prefix.
func LoadFileUnvalidated(path string) (*Config, error) {
	// #nosec G304
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	cfg.ApplyEnv()
	if !ValidPrefix(cfg.Prefix) {
		return nil, Errorf("prefix", "%q must be 1-32 lowercase alphanumeric characters or hyphens", cfg.Prefix)
	}
	return cfg, nil
}
