package provisioning

import (
	"sort"
	"sync"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"
)

// NodeResult is the outcome of provisioning one planned node.
type NodeResult struct {
	Index     int
	Name      string
	ServerID  int64
	PublicIP  string
	PrivateIP string
	// Existing is true when the server was found rather than created.
	Existing bool
}

// State holds the shared results of provisioning phases.
// It is progressively populated as each phase completes and is passed
// to subsequent phases that need earlier results.
type State struct {
	// Infrastructure results (populated by infrastructure provisioner)
	Network    *hcloud.Network
	Firewall   *hcloud.Firewall
	SSHKey     *hcloud.SSHKey
	SSHKeyName string // name the servers were created with
	PublicIP   string // current execution environment's public IPv4

	// Compute results (populated by compute provisioner, concurrently)
	mu    sync.Mutex
	nodes map[int]NodeResult
}

// NewState creates an empty provisioning state.
func NewState() *State {
	return &State{
		nodes: make(map[int]NodeResult),
	}
}

// RecordNode stores the result for one node. Safe for concurrent use.
func (s *State) RecordNode(r NodeResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nodes[r.Index] = r
}

// Nodes returns the recorded node results ordered by index.
func (s *State) Nodes() []NodeResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]NodeResult, 0, len(s.nodes))
	for _, r := range s.nodes {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out
}
