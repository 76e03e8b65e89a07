package provisioning

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/chzner/internal/config"
)

// phaseFunc adapts a function to the Phase interface.
type phaseFunc struct {
	name string
	fn   func(*Context) error
}

func (p phaseFunc) Name() string                 { return p.name }
func (p phaseFunc) Provision(ctx *Context) error { return p.fn(ctx) }

func newTestContext(observer Observer) *Context {
	return &Context{
		Context:  context.Background(),
		Config:   &config.Config{Prefix: "ch"},
		State:    NewState(),
		Observer: observer,
		Metrics:  NewMetrics(),
	}
}

func TestRunPhases_Success(t *testing.T) {
	t.Parallel()
	var executed []string
	record := func(name string) Phase {
		return phaseFunc{name: name, fn: func(_ *Context) error {
			executed = append(executed, name)
			return nil
		}}
	}

	observer := NewMockObserver()
	ctx := newTestContext(observer)

	err := RunPhases(ctx, []Phase{record("infrastructure"), record("compute")})

	require.NoError(t, err)
	assert.Equal(t, []string{"infrastructure", "compute"}, executed)
	assert.Equal(t, EventPhaseStarted, observer.events[0].Type)
	assert.Equal(t, "infrastructure (1/2)", observer.events[0].Phase)
	assert.Equal(t, EventPhaseCompleted, observer.events[len(observer.events)-1].Type)

	counter, err := ctx.Metrics.phaseTotal.GetMetricWithLabelValues("ch", "compute", ResultSuccess)
	require.NoError(t, err)
	assert.Equal(t, float64(1), testutil.ToFloat64(counter))
}

func TestRunPhases_StopsOnError(t *testing.T) {
	t.Parallel()
	boom := errors.New("boom")
	var executed []string

	observer := NewMockObserver()
	ctx := newTestContext(observer)

	err := RunPhases(ctx, []Phase{
		phaseFunc{name: "infrastructure", fn: func(_ *Context) error {
			executed = append(executed, "infrastructure")
			return boom
		}},
		phaseFunc{name: "compute", fn: func(_ *Context) error {
			executed = append(executed, "compute")
			return nil
		}},
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "infrastructure phase failed")
	assert.Equal(t, []string{"infrastructure"}, executed)
	assert.Equal(t, EventPhaseFailed, observer.events[len(observer.events)-1].Type)

	counter, err := ctx.Metrics.phaseTotal.GetMetricWithLabelValues("ch", "infrastructure", ResultError)
	require.NoError(t, err)
	assert.Equal(t, float64(1), testutil.ToFloat64(counter))
}

func TestRunPhases_Empty(t *testing.T) {
	t.Parallel()
	require.NoError(t, RunPhases(newTestContext(NewMockObserver()), nil))
}

func TestRunPhases_NilMetrics(t *testing.T) {
	t.Parallel()
	ctx := newTestContext(NewMockObserver())
	ctx.Metrics = nil

	err := RunPhases(ctx, []Phase{phaseFunc{name: "noop", fn: func(_ *Context) error { return nil }}})
	assert.NoError(t, err)
}
