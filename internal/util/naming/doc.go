// Package naming derives Hetzner Cloud resource names from the cluster prefix.
//
// Every resource of one cluster shares the prefix, so a cluster's
// resources can be listed by name as well as by label.
package naming
