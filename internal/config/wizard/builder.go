package wizard

import (
	"strings"

	"github.com/imamik/chzner/internal/config"
)

// BuildConfig converts wizard answers into a configuration with defaults applied.
func BuildConfig(result *WizardResult) *config.Config {
	cfg := &config.Config{
		Prefix:           result.Prefix,
		ClusterSize:      result.ClusterSize,
		ServerType:       result.ServerType,
		Location:         result.Location,
		SSHPublicKeyPath: result.SSHPublicKeyPath,
		DevClickHouseURL: strings.TrimSpace(result.DevClickHouseURL),
	}

	if result.Location != "" {
		cfg.Network.Zone = zoneFor(result.Location)
	}
	if result.SSHSource == SSHFromCurrent && result.CurrentIP != "" {
		cfg.Firewall.SSHSourceIPs = []string{result.CurrentIP + "/32"}
	}

	cfg.ApplyDefaults()
	return cfg
}

// zoneFor returns the network zone a location belongs to.
func zoneFor(location string) string {
	switch location {
	case "ash":
		return "us-east"
	case "hil":
		return "us-west"
	case "sin":
		return "ap-southeast"
	default:
		return "eu-central"
	}
}
