package artifacts

import (
	"fmt"
	"path"

	"gopkg.in/yaml.v3"

	"github.com/imamik/chzner/internal/clickhouse"
	"github.com/imamik/chzner/internal/cluster"
)

// File names.
const (
	ManifestFile  = "plan.yaml"
	BootstrapFile = "bootstrap.sh"
	ClusterFile   = "cluster.xml"
	UsersFile     = "users.xml"
)

// Content types used when publishing.
const (
	contentTypeShell = "text/x-shellscript"
	contentTypeXML   = "application/xml"
	contentTypeYAML  = "application/yaml"
)

// File is one rendered artifact. Node is empty for cluster-wide files.
type File struct {
	Node        string
	Name        string
	ContentType string
	Data        []byte
}

// Path returns the file's slash-separated path relative to the artifact root.
func (f File) Path() string {
	if f.Node == "" {
		return f.Name
	}
	return path.Join(f.Node, f.Name)
}

// Manifest summarizes a plan without secrets.
type Manifest struct {
	Prefix  string         `yaml:"prefix"`
	Size    int            `yaml:"size"`
	Subnet  string         `yaml:"subnet"`
	Install InstallSummary `yaml:"install"`
	Nodes   []NodeSummary  `yaml:"nodes"`
}

// InstallSummary describes the install plan.
type InstallSummary struct {
	Kind    string   `yaml:"kind"`
	Version string   `yaml:"version,omitempty"`
	URLs    []string `yaml:"urls,omitempty"`
}

// NodeSummary describes one node.
type NodeSummary struct {
	Index   int      `yaml:"index"`
	Name    string   `yaml:"name"`
	Address string   `yaml:"address"`
	Peers   []string `yaml:"peers"`
}

// NewManifest summarizes plan.
func NewManifest(plan *cluster.Plan) Manifest {
	install := plan.Install()
	m := Manifest{
		Prefix: plan.Spec().Prefix,
		Size:   plan.Size(),
		Subnet: plan.Subnet().String(),
		Install: InstallSummary{
			Kind:    install.Kind.String(),
			Version: install.Version,
		},
	}
	if install.Pinned() {
		m.Install.URLs = install.URLs()
	}
	for _, n := range plan.Nodes() {
		peers := n.Topology.PeerHosts()
		if peers == nil {
			peers = []string{}
		}
		m.Nodes = append(m.Nodes, NodeSummary{
			Index:   n.Index,
			Name:    n.Name,
			Address: n.Address.String(),
			Peers:   peers,
		})
	}
	return m
}

// Collect renders every artifact of plan: the manifest first, then each
// node's files in index order.
func Collect(plan *cluster.Plan) ([]File, error) {
	manifest, err := yaml.Marshal(NewManifest(plan))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal manifest: %w", err)
	}

	users, err := clickhouse.RenderUsers(plan.Credentials())
	if err != nil {
		return nil, err
	}

	files := []File{{Name: ManifestFile, ContentType: contentTypeYAML, Data: manifest}}
	for _, n := range plan.Nodes() {
		topology, err := n.Topology.Bytes()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", n.Name, err)
		}
		files = append(files,
			File{Node: n.Name, Name: BootstrapFile, ContentType: contentTypeShell, Data: []byte(n.Script)},
			File{Node: n.Name, Name: ClusterFile, ContentType: contentTypeXML, Data: topology},
			File{Node: n.Name, Name: UsersFile, ContentType: contentTypeXML, Data: users},
		)
	}
	return files, nil
}

// CollectRedacted renders the artifacts of plan with the cluster password
// replaced by cluster.RedactedPassword. Published artifacts go through here.
func CollectRedacted(plan *cluster.Plan) ([]File, error) {
	redacted, err := plan.Redacted()
	if err != nil {
		return nil, fmt.Errorf("failed to redact plan: %w", err)
	}
	return Collect(redacted)
}
