// Package artifacts collects the rendered per-node files of a cluster plan
// and writes them to a directory or publishes them to object storage.
//
// Layout, relative to the output directory or key prefix:
//
//	plan.yaml
//	<node-name>/bootstrap.sh
//	<node-name>/cluster.xml
//	<node-name>/users.xml
//
// Scripts and users.xml carry the cluster password.
package artifacts
