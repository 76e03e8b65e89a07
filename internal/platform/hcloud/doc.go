// Package hcloud wraps the Hetzner Cloud API for the resources a ClickHouse
// cluster needs: one private network with a subnet, a firewall, an SSH key
// and one server per node.
//
// # Generic Operations
//
// EnsureOperation gives every resource get-or-create semantics with
// optional validation or update of an existing resource. DeleteOperation
// deletes idempotently and retries while a resource is locked.
//
// # Retry and Timeout Configuration
//
// Timeouts come from [config.LoadTimeouts]:
//
//   - HCLOUD_TIMEOUT_SERVER_CREATE: server creation incl. network attach (default: 10m)
//   - HCLOUD_TIMEOUT_DELETE: resource deletion (default: 5m)
//   - HCLOUD_RETRY_MAX_ATTEMPTS: maximum retry attempts (default: 5)
//   - HCLOUD_RETRY_INITIAL_DELAY: initial retry delay (default: 1s)
//
// # Private Addresses
//
// Servers that join the network are created powered off, attached with
// their planned private IP and only then powered on. The bootstrap script
// in their user data therefore always runs with the private interface up.
package hcloud
