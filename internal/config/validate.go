package config

import (
	"net/netip"
	"regexp"
	"sort"
	"strings"

	"github.com/hashicorp/go-multierror"
)

// ValidLocations contains the Hetzner Cloud datacenter locations.
var ValidLocations = map[string]bool{
	"nbg1": true, // Nuremberg, Germany
	"fsn1": true, // Falkenstein, Germany
	"hel1": true, // Helsinki, Finland
	"ash":  true, // Ashburn, USA
	"hil":  true, // Hillsboro, USA
	"sin":  true, // Singapore
}

// ValidNetworkZones contains the Hetzner Cloud network zones.
var ValidNetworkZones = map[string]bool{
	"eu-central":   true,
	"us-east":      true,
	"us-west":      true,
	"ap-southeast": true,
}

// prefixRegex keeps the prefix usable inside server names and labels.
var prefixRegex = regexp.MustCompile(`^[a-z0-9](?:[a-z0-9-]{0,30}[a-z0-9])?$`)

// ValidPrefix reports whether prefix can name servers and label values.
func ValidPrefix(prefix string) bool {
	return prefixRegex.MatchString(prefix)
}

// Validate checks the configuration and returns every problem found, each
// as a *ConfigurationError, combined into one error.
func (c *Config) Validate() error {
	var result *multierror.Error

	if !ValidPrefix(c.Prefix) {
		result = multierror.Append(result, Errorf("prefix", "%q must be 1-32 lowercase alphanumeric characters or hyphens", c.Prefix))
	}
	if c.ClusterSize < 1 {
		result = multierror.Append(result, Errorf("cluster_size", "must be at least 1, got %d", c.ClusterSize))
	}
	if c.ServerType == "" {
		result = multierror.Append(result, Errorf("server_type", "is required"))
	}
	if c.Image == "" {
		result = multierror.Append(result, Errorf("image", "is required"))
	}
	if !ValidLocations[c.Location] {
		result = multierror.Append(result, Errorf("location", "%q must be one of %s", c.Location, keys(ValidLocations)))
	}
	if !ValidNetworkZones[c.Network.Zone] {
		result = multierror.Append(result, Errorf("network.zone", "%q must be one of %s", c.Network.Zone, keys(ValidNetworkZones)))
	}
	if c.SSHPublicKeyPath == "" {
		result = multierror.Append(result, Errorf("ssh_public_key_path", "is required"))
	}
	if c.Password == "" {
		result = multierror.Append(result, Errorf("password", "is required (set it in the file or via %s)", EnvPassword))
	}

	result = multierror.Append(result, c.validateNetwork()...)
	result = multierror.Append(result, c.validateFirewall()...)
	result = multierror.Append(result, c.validatePublish()...)

	return result.ErrorOrNil()
}

func (c *Config) validateNetwork() []error {
	var errs []error

	network, err := ParseIPv4Prefix("network.ipv4_cidr", c.Network.IPv4CIDR)
	if err != nil {
		errs = append(errs, err)
	}
	subnet, err := ParseIPv4Prefix("network.subnet_cidr", c.Network.SubnetCIDR)
	if err != nil {
		errs = append(errs, err)
	}

	if len(errs) == 0 && !PrefixContains(network, subnet) {
		errs = append(errs, Errorf("network.subnet_cidr", "%s is not inside network %s", subnet, network))
	}
	return errs
}

func (c *Config) validateFirewall() []error {
	var errs []error
	for i, src := range c.Firewall.SSHSourceIPs {
		if _, err := netip.ParsePrefix(src); err != nil {
			errs = append(errs, Errorf("firewall.ssh_source_ips", "entry %d: invalid CIDR %q", i, src))
		}
	}
	return errs
}

func (c *Config) validatePublish() []error {
	if c.Publish == nil {
		return nil
	}
	var errs []error
	if c.Publish.Bucket == "" {
		errs = append(errs, Errorf("publish.bucket", "is required when publish is set"))
	}
	if c.Publish.Endpoint == "" {
		errs = append(errs, Errorf("publish.endpoint", "is required when publish is set"))
	}
	if c.Publish.AccessKey == "" || c.Publish.SecretKey == "" {
		errs = append(errs, Errorf("publish", "access_key and secret_key are required (or %s / %s)", EnvS3AccessKey, EnvS3SecretKey))
	}
	return errs
}

// SubnetPrefix returns the parsed node subnet.
func (c *Config) SubnetPrefix() (netip.Prefix, error) {
	return ParseIPv4Prefix("network.subnet_cidr", c.Network.SubnetCIDR)
}

func keys(m map[string]bool) string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return strings.Join(out, ", ")
}

// NetworkPrefix returns the parsed private network range.
func (c *Config) NetworkPrefix() (netip.Prefix, error) {
	return ParseIPv4Prefix("network.ipv4_cidr", c.Network.IPv4CIDR)
}
