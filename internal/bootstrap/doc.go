// Package bootstrap synthesizes the first-boot script of a ClickHouse node.
//
// A script is built as a [Script] of ordered [Step]s and rendered to bash
// only at the end, so quoting and heredoc escaping live in one place:
//
//  1. install ClickHouse (latest release or pinned .deb packages)
//  2. create the config.d and users.d directories
//  3. write the remote_servers topology
//  4. write the users file
//  5. enable listening on all interfaces
//  6. enable and restart clickhouse-server
//
// The script runs with set -euo pipefail, so the first failing command
// aborts the bootstrap.
package bootstrap
