// Package config defines the cluster configuration read from chzner.yaml.
//
// [Config] is the user's desired state: prefix, cluster size, server
// sizing, network CIDRs, SSH key, shared password, optional pinned
// ClickHouse build and optional artifact publishing. [LoadFile] parses,
// defaults, applies environment overrides and validates it. Every
// validation problem is reported as a [ConfigurationError].
package config
