// Package labels builds the label sets attached to every Hetzner Cloud
// resource of a cluster.
//
// Keys use the chzner.io prefix. Teardown and server discovery select on
// [KeyCluster].
package labels
