// Package cluster builds the immutable plan of a ClickHouse cluster.
//
// A [Plan] is computed entirely up front: addresses, install plan, every
// node's topology view and bootstrap script. Nothing touches the cloud
// until a plan exists, so a configuration or capacity error never leaves
// a half-created cluster behind.
package cluster
