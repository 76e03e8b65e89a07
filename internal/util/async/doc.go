// Package async runs independent tasks concurrently and collects their errors.
//
// [RunParallel] is used for per-node generation in the cluster plan and for
// parallel server creation during provisioning.
package async
