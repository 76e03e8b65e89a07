package cluster

import (
	"context"
	"fmt"
	"net/netip"

	"github.com/hashicorp/go-multierror"

	"github.com/imamik/chzner/internal/addressing"
	"github.com/imamik/chzner/internal/bootstrap"
	"github.com/imamik/chzner/internal/clickhouse"
	"github.com/imamik/chzner/internal/config"
	"github.com/imamik/chzner/internal/util/async"
	"github.com/imamik/chzner/internal/util/naming"
)

// ClusterSpec is shared by every node of one run.
type ClusterSpec struct {
	Prefix   string
	Size     int
	Password string
}

// Validate returns every problem with s as *config.ConfigurationError values.
func (s ClusterSpec) Validate() error {
	var result *multierror.Error
	if !config.ValidPrefix(s.Prefix) {
		result = multierror.Append(result, config.Errorf("prefix", "%q is not a valid resource name prefix", s.Prefix))
	}
	if s.Size < 1 {
		result = multierror.Append(result, config.Errorf("cluster_size", "must be at least 1, got %d", s.Size))
	}
	if s.Password == "" {
		result = multierror.Append(result, config.Errorf("password", "is required"))
	} else if !clickhouse.ValidText(s.Password) {
		result = multierror.Append(result, config.Errorf("password", "must be valid UTF-8 without control characters other than tab and newline"))
	}
	return result.ErrorOrNil()
}

// NodeIdentity is fixed at plan time.
type NodeIdentity struct {
	Index   int
	Name    string
	Address netip.Addr
}

// Node is a planned node with its rendered artifacts.
type Node struct {
	NodeIdentity
	Topology clickhouse.TopologyView
	Script   string
}

func (n Node) clone() Node {
	n.Topology.Shards = append([]clickhouse.ShardEntry(nil), n.Topology.Shards...)
	return n
}

// Plan is the complete, immutable plan of one cluster.
type Plan struct {
	spec    ClusterSpec
	subnet  netip.Prefix
	install clickhouse.InstallPlan
	nodes   []Node
}

// NewPlan validates spec, resolves the install plan, assigns addresses and
// renders every node's topology and bootstrap script. Nodes are rendered
// concurrently; each depends only on the address list and its own index.
func NewPlan(spec ClusterSpec, subnet netip.Prefix, devRef string) (*Plan, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	install, err := clickhouse.ResolveInstallPlan(devRef)
	if err != nil {
		return nil, err
	}
	return render(spec, subnet, install)
}

func render(spec ClusterSpec, subnet netip.Prefix, install clickhouse.InstallPlan) (*Plan, error) {
	addrs, err := addressing.Plan(subnet, spec.Size)
	if err != nil {
		return nil, err
	}

	creds := clickhouse.DefaultCredentials(spec.Password)
	nodes, err := async.Map(context.Background(), len(addrs),
		func(i int) string { return naming.Node(spec.Prefix, i) },
		func(_ context.Context, i int) (Node, error) {
			view, err := clickhouse.RenderTopology(i, addrs, creds)
			if err != nil {
				return Node{}, err
			}
			script, err := bootstrap.Synthesize(install, view, creds)
			if err != nil {
				return Node{}, err
			}
			return Node{
				NodeIdentity: NodeIdentity{Index: i, Name: naming.Node(spec.Prefix, i), Address: addrs[i]},
				Topology:     view,
				Script:       script,
			}, nil
		})
	if err != nil {
		return nil, fmt.Errorf("failed to render nodes: %w", err)
	}

	return &Plan{spec: spec, subnet: subnet.Masked(), install: install, nodes: nodes}, nil
}

// FromConfig builds the plan described by cfg. cfg is validated first.
func FromConfig(cfg *config.Config) (*Plan, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	subnet, err := cfg.SubnetPrefix()
	if err != nil {
		return nil, err
	}
	spec := ClusterSpec{Prefix: cfg.Prefix, Size: cfg.ClusterSize, Password: cfg.Password}
	return NewPlan(spec, subnet, cfg.DevClickHouseURL)
}

// RedactedPassword stands in for the cluster password in redacted plans.
const RedactedPassword = "REDACTED"

// Redacted returns a copy of the plan rendered with RedactedPassword, for
// artifacts that leave the machine. Addresses and the install plan are the same.
func (p *Plan) Redacted() (*Plan, error) {
	spec := p.spec
	spec.Password = RedactedPassword
	return render(spec, p.subnet, p.install)
}

// Spec returns the cluster spec.
func (p *Plan) Spec() ClusterSpec { return p.spec }

// Subnet returns the subnet addresses were planned from.
func (p *Plan) Subnet() netip.Prefix { return p.subnet }

// Install returns the install plan shared by all nodes.
func (p *Plan) Install() clickhouse.InstallPlan { return p.install }

// Size returns the number of nodes.
func (p *Plan) Size() int { return len(p.nodes) }

// Credentials returns the credentials every node is configured with.
func (p *Plan) Credentials() clickhouse.Credentials {
	return clickhouse.DefaultCredentials(p.spec.Password)
}

// Nodes returns a copy of the planned nodes in index order.
func (p *Plan) Nodes() []Node {
	out := make([]Node, len(p.nodes))
	for i, n := range p.nodes {
		out[i] = n.clone()
	}
	return out
}

// Node returns the node at index i.
func (p *Plan) Node(i int) (Node, bool) {
	if i < 0 || i >= len(p.nodes) {
		return Node{}, false
	}
	return p.nodes[i].clone(), true
}

// Addresses returns the node addresses in index order.
func (p *Plan) Addresses() []netip.Addr {
	out := make([]netip.Addr, len(p.nodes))
	for i, n := range p.nodes {
		out[i] = n.Address
	}
	return out
}
