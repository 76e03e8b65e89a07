package provisioning

import (
	"context"

	"github.com/imamik/chzner/internal/cluster"
	"github.com/imamik/chzner/internal/config"
	hcloud_internal "github.com/imamik/chzner/internal/platform/hcloud"
)

// Context wraps all dependencies and state needed for a provisioning phase.
type Context struct {
	context.Context
	Config   *config.Config
	Plan     *cluster.Plan
	State    *State
	Infra    hcloud_internal.InfrastructureManager
	Observer Observer
	Timeouts *config.Timeouts
	Metrics  *Metrics
}

// NewContext creates a new provisioning context.
func NewContext(
	ctx context.Context,
	cfg *config.Config,
	plan *cluster.Plan,
	infra hcloud_internal.InfrastructureManager,
) *Context {
	observer := NewConsoleObserver().WithFields(map[string]string{"cluster": cfg.Prefix})
	return &Context{
		Context:  ctx,
		Config:   cfg,
		Plan:     plan,
		State:    NewState(),
		Infra:    infra,
		Observer: observer,
		Timeouts: config.LoadTimeouts(),
		Metrics:  NewMetrics(),
	}
}
