package compute

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/imamik/chzner/internal/provisioning"
	"github.com/imamik/chzner/internal/util/async"
	"github.com/imamik/chzner/internal/util/labels"
)

const phase = "compute"

// Provisioner handles server provisioning.
type Provisioner struct{}

// NewProvisioner creates a new compute provisioner.
func NewProvisioner() *Provisioner {
	return &Provisioner{}
}

// Name implements the provisioning.Phase interface.
func (p *Provisioner) Name() string {
	return phase
}

// Provision implements the provisioning.Phase interface.
// Every node is created in parallel; nodes do not wait for each other.
func (p *Provisioner) Provision(ctx *provisioning.Context) error {
	if ctx.State.Network == nil {
		return fmt.Errorf("network not initialized in provisioning state")
	}
	if ctx.State.SSHKeyName == "" {
		return fmt.Errorf("SSH key not initialized in provisioning state")
	}

	nodes := ctx.Plan.Nodes()
	ctx.Observer.Printf("[%s] Provisioning %d servers in parallel...", phase, len(nodes))

	var done atomic.Int32
	tasks := make([]async.Task, 0, len(nodes))
	for _, node := range nodes {
		tasks = append(tasks, async.Task{
			Name: node.Name,
			Func: func(_ context.Context) error {
				if err := p.ensureNode(ctx, node); err != nil {
					return err
				}
				ctx.Observer.Progress(phase, int(done.Add(1)), len(nodes))
				return nil
			},
		})
	}

	err := async.RunParallel(ctx, tasks)
	p.recordMetrics(ctx, len(nodes))
	if err != nil {
		return fmt.Errorf("failed to provision servers: %w", err)
	}

	ctx.Observer.Printf("[%s] All %d servers ready", phase, len(nodes))
	p.warnStrays(ctx)
	return nil
}

// warnStrays reports servers labeled for this cluster that the plan does not
// name, usually left behind after cluster_size was reduced. They are never
// deleted here.
func (p *Provisioner) warnStrays(ctx *provisioning.Context) {
	servers, err := ctx.Infra.GetServersByLabel(ctx, labels.ForCluster(ctx.Config.Prefix))
	if err != nil {
		ctx.Observer.Printf("[%s] WARNING: could not list cluster servers: %v", phase, err)
		return
	}
	planned := make(map[string]bool)
	for _, node := range ctx.Plan.Nodes() {
		planned[node.Name] = true
	}
	for _, s := range servers {
		if !planned[s.Name] {
			ctx.Observer.Printf("[%s] WARNING: server %s is labeled for this cluster but not part of the plan", phase, s.Name)
		}
	}
}

func (p *Provisioner) recordMetrics(ctx *provisioning.Context, planned int) {
	var created, existing int
	for _, r := range ctx.State.Nodes() {
		if r.Existing {
			existing++
		} else {
			created++
		}
	}
	ctx.Metrics.RecordNodes(ctx.Config.Prefix, planned, created, existing)
}
