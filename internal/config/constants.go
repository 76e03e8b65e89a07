package config

// Defaults applied to omitted fields.
const (
	DefaultPrefix      = "clickhouse"
	DefaultClusterSize = 3
	DefaultServerType  = "ccx33"
	DefaultLocation    = "fsn1"
	DefaultImage       = "ubuntu-24.04"
	DefaultNetworkCIDR = "10.10.0.0/16"
	DefaultSubnetCIDR  = "10.10.0.0/24"
	DefaultNetworkZone = "eu-central"
	DefaultS3Region    = "us-east-1"
)

// DefaultConfigFilename is the configuration file looked up by default.
const DefaultConfigFilename = "chzner.yaml"

// Environment variables read by the loader.
const (
	EnvPassword    = "CHZNER_PASSWORD"
	EnvS3AccessKey = "CHZNER_S3_ACCESS_KEY"
	EnvS3SecretKey = "CHZNER_S3_SECRET_KEY"
	EnvHCloudToken = "HCLOUD_TOKEN"
	// EnvPushgatewayURL enables pushing provisioning metrics when set.
	EnvPushgatewayURL = "CHZNER_PUSHGATEWAY_URL"
)

// SSHPort is the only public ingress port opened by default.
const SSHPort = 22

// subnetNewBits is the prefix extension used to derive a default subnet from the network range.
const subnetNewBits = 8
