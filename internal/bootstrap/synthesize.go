package bootstrap

import (
	"fmt"
	"path"

	"github.com/imamik/chzner/internal/clickhouse"
)

// On-node paths and names ClickHouse expects.
const (
	ConfigDir         = "/etc/clickhouse-server"
	ServerConfigPath  = ConfigDir + "/config.xml"
	ConfigDDir        = ConfigDir + "/config.d"
	UsersDDir         = ConfigDir + "/users.d"
	ClusterConfigPath = ConfigDDir + "/cluster.xml"
	UsersConfigPath   = UsersDDir + "/users.xml"
	ServiceName       = "clickhouse-server"
)

// Package repository used for latest installs.
const (
	repositoryKeyURL  = "https://packages.clickhouse.com/rpm/lts/repodata/repomd.xml.key"
	repositoryKeyring = "/usr/share/keyrings/clickhouse-keyring.gpg"
	repositoryList    = "/etc/apt/sources.list.d/clickhouse.list"
	repositoryLine    = "deb [signed-by=" + repositoryKeyring + "] https://packages.clickhouse.com/deb stable main"
	downloadDir       = "/tmp/clickhouse"
)

// listenHostPattern uncomments <listen_host>::</listen_host> in config.xml.
const listenHostPattern = `s/<!-- *<listen_host>::<\/listen_host> *-->/<listen_host>::<\/listen_host>/g`

// Build composes the bootstrap steps for one node.
func Build(plan clickhouse.InstallPlan, view clickhouse.TopologyView, creds clickhouse.Credentials) (Script, error) {
	install, err := installStep(plan)
	if err != nil {
		return Script{}, err
	}

	topology, err := view.Bytes()
	if err != nil {
		return Script{}, fmt.Errorf("failed to render topology: %w", err)
	}
	writeTopology, err := writeFile(ClusterConfigPath, topology)
	if err != nil {
		return Script{}, err
	}

	users, err := clickhouse.RenderUsers(creds)
	if err != nil {
		return Script{}, fmt.Errorf("failed to render users: %w", err)
	}
	writeUsers, err := writeFile(UsersConfigPath, users)
	if err != nil {
		return Script{}, err
	}

	return Script{
		Header: []string{
			fmt.Sprintf("# chzner bootstrap for node %d", view.OwnerIndex),
			"export DEBIAN_FRONTEND=noninteractive",
		},
		Steps: []Step{
			install,
			{Name: "create configuration directories", Commands: []string{command("mkdir", "-p", ConfigDDir, UsersDDir)}},
			{Name: "write cluster topology", Commands: []string{writeTopology}},
			{Name: "write users", Commands: []string{writeUsers}},
			{Name: "listen on all interfaces", Commands: []string{command("sed", "-i", listenHostPattern, ServerConfigPath)}},
			{Name: "start clickhouse-server", Commands: []string{
				command("systemctl", "enable", ServiceName),
				command("systemctl", "restart", ServiceName),
			}},
		},
	}, nil
}

// Synthesize renders the bootstrap script for one node.
func Synthesize(plan clickhouse.InstallPlan, view clickhouse.TopologyView, creds clickhouse.Credentials) (string, error) {
	script, err := Build(plan, view, creds)
	if err != nil {
		return "", err
	}
	return script.Render(), nil
}

func installStep(plan clickhouse.InstallPlan) (Step, error) {
	switch plan.Kind {
	case clickhouse.InstallLatest:
		return Step{
			Name: "install clickhouse (latest stable release)",
			Commands: []string{
				command("apt-get", "update"),
				command("apt-get", "install", "-y", "apt-transport-https", "ca-certificates", "curl", "gnupg"),
				command("curl", "-fsSL", repositoryKeyURL) + " | " + command("gpg", "--dearmor", "--yes", "-o", repositoryKeyring),
				command("echo", repositoryLine) + " > " + command(repositoryList),
				command("apt-get", "update"),
				command("apt-get", "install", "-y", clickhouse.PackageServer, clickhouse.PackageClient),
			},
		}, nil

	case clickhouse.InstallPinned:
		if len(plan.Artifacts) == 0 {
			return Step{}, fmt.Errorf("pinned install plan for %s has no artifacts", plan.Version)
		}
		cmds := []string{
			command("apt-get", "update"),
			command("apt-get", "install", "-y", "wget"),
			command("mkdir", "-p", downloadDir),
			command("cd", downloadDir),
		}
		for _, url := range plan.URLs() {
			cmds = append(cmds, command("wget", "-q", url))
		}
		for _, artifact := range plan.Artifacts {
			cmds = append(cmds, command("dpkg", "-i", path.Join(downloadDir, artifact)))
		}
		return Step{Name: "install clickhouse " + plan.Version, Commands: cmds}, nil

	default:
		return Step{}, fmt.Errorf("unknown install kind %s", plan.Kind)
	}
}
