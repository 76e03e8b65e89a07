// Package provisioning provides shared types, interfaces, and orchestration for
// turning a cluster plan into Hetzner Cloud resources.
//
// # Subpackages
//
//   - infrastructure/: SSH key, private network and subnet, firewall
//   - compute/: one server per planned node, created in parallel
//   - destroy/: label-driven teardown
//
// # Core Types
//
// Context carries the configuration, the immutable cluster plan, state,
// infrastructure client, observer and metrics.
// Phase defines a provisioning step with Name() and Provision() methods.
// State accumulates results from each phase (network, firewall, SSH key, nodes).
package provisioning
