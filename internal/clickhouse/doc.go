// Package clickhouse models what gets installed on a node and how the node
// sees the rest of the cluster.
//
// [ResolveInstallPlan] turns an optional build URL into the package set to
// install. [RenderTopology] builds a node's remote_servers view, where the
// node itself is the first shard (as localhost) followed by every peer.
// Both views and the users payload serialize to the XML files ClickHouse
// reads from config.d and users.d.
package clickhouse
