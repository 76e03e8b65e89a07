package config

// Config is the full cluster configuration.
type Config struct {
	// Prefix names the cluster and every resource in it.
	Prefix string `yaml:"prefix"`

	// ClusterSize is the number of ClickHouse nodes, each its own shard.
	ClusterSize int `yaml:"cluster_size"`

	// ServerType is the Hetzner server type for every node (e.g. ccx33).
	ServerType string `yaml:"server_type"`

	// Location is the Hetzner datacenter location (e.g. fsn1).
	Location string `yaml:"location"`

	// Image is the OS image servers boot from. The bootstrap script assumes a Debian family image.
	Image string `yaml:"image"`

	Network NetworkConfig `yaml:"network"`

	// SSHPublicKeyPath points to the public key registered for server access.
	SSHPublicKeyPath string `yaml:"ssh_public_key_path"`

	// Password is the shared password of the ClickHouse default user.
	// It can be supplied through CHZNER_PASSWORD instead.
	Password string `yaml:"password,omitempty"`

	// DevClickHouseURL optionally pins a build:
	// <base>/clickhouse-server_<version>_amd64.deb
	DevClickHouseURL string `yaml:"dev_clickhouse_url,omitempty"`

	Firewall FirewallConfig `yaml:"firewall"`

	// Publish optionally uploads rendered artifacts to S3-compatible storage.
	Publish *PublishConfig `yaml:"publish,omitempty"`

	// Labels are merged into the labels of every created resource.
	Labels map[string]string `yaml:"labels,omitempty"`
}

// NetworkConfig describes the private network the nodes live in.
type NetworkConfig struct {
	// IPv4CIDR is the private network range.
	IPv4CIDR string `yaml:"ipv4_cidr"`
	// SubnetCIDR is the subnet node addresses are planned from.
	// Defaults to the first /24 (or the next 8 bits) of IPv4CIDR.
	SubnetCIDR string `yaml:"subnet_cidr"`
	// Zone is the Hetzner network zone.
	Zone string `yaml:"zone"`
}

// FirewallConfig holds the public ingress rules.
type FirewallConfig struct {
	// SSHSourceIPs are the CIDRs allowed to reach port 22.
	SSHSourceIPs []string `yaml:"ssh_source_ips"`
}

// PublishConfig is an S3-compatible bucket receiving rendered artifacts.
// Published scripts and XML carry a placeholder instead of the password.
type PublishConfig struct {
	Endpoint  string `yaml:"endpoint"`
	Region    string `yaml:"region"`
	Bucket    string `yaml:"bucket"`
	AccessKey string `yaml:"access_key,omitempty"`
	SecretKey string `yaml:"secret_key,omitempty"`
}

// Enabled reports whether publishing is configured.
func (p *PublishConfig) Enabled() bool {
	return p != nil && p.Bucket != ""
}
