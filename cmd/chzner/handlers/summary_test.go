package handlers

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/chzner/internal/cluster"
	"github.com/imamik/chzner/internal/provisioning"
)

func TestRenderPlanSummary(t *testing.T) {
	t.Parallel()
	plan, err := cluster.FromConfig(testConfig())
	require.NoError(t, err)

	out := renderPlanSummary(plan, false)
	assert.Contains(t, out, "chzner plan: ch")
	assert.Contains(t, out, `cluster "default"`)
	assert.Contains(t, out, "Subnet:   10.10.0.0/24")
	assert.Contains(t, out, "Gateway:  10.10.0.1")
	assert.Contains(t, out, "Range:    10.10.0.10 - 10.10.0.12")
	assert.Contains(t, out, "Install:  ")
	assert.Contains(t, out, "Nothing was created")
	assert.NotContains(t, out, "\x1b[")
}

func TestRenderApplySummary(t *testing.T) {
	t.Parallel()
	state := provisioning.NewState()
	state.SSHKeyName = "shared-key"
	state.RecordNode(provisioning.NodeResult{Index: 1, Name: "ch-node-1", PrivateIP: "10.10.0.11", Existing: true})
	state.RecordNode(provisioning.NodeResult{Index: 0, Name: "ch-node-0", PublicIP: "203.0.113.5", PrivateIP: "10.10.0.10"})

	out := renderApplySummary(testConfig(), state, false)
	assert.Contains(t, out, "SSH key:  shared-key")
	assert.Contains(t, out, "ssh root@203.0.113.5")
	assert.Contains(t, out, "clickhouse-client --host 203.0.113.5")
	assert.Contains(t, out, "existing")
	assert.Less(t, strings.Index(out, "ch-node-0"), strings.Index(out, "ch-node-1"))
}

func TestRenderApplySummary_NoNodes(t *testing.T) {
	t.Parallel()
	out := renderApplySummary(testConfig(), provisioning.NewState(), false)
	assert.NotContains(t, out, "ssh root@")
}

