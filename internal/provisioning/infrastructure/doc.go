// Package infrastructure provisions the shared cluster resources: the SSH
// key, the private network with its node subnet, and the firewall.
package infrastructure
