package handlers

import (
	"context"
	"errors"
	"net"
	"net/netip"
	"path/filepath"
	"sync"
	"testing"

	hcloudgo "github.com/hetznercloud/hcloud-go/v2/hcloud"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/chzner/internal/config"
	"github.com/imamik/chzner/internal/platform/hcloud"
	"github.com/imamik/chzner/internal/provisioning"
	"github.com/imamik/chzner/internal/util/sshkey"
)

type phaseFunc struct {
	name string
	fn   func(*provisioning.Context) error
}

func (p phaseFunc) Name() string                            { return p.name }
func (p phaseFunc) Provision(ctx *provisioning.Context) error { return p.fn(ctx) }

func saveAndRestoreApplyFactories(t *testing.T) {
	t.Helper()
	saveAndRestoreFactories(t)
	origCtx := newProvisioningContext
	origPhases := newApplyPhases
	origRun := runPhases
	t.Cleanup(func() {
		newProvisioningContext = origCtx
		newApplyPhases = origPhases
		runPhases = origRun
	})
	newInfraClient = func(string) hcloud.InfrastructureManager { return &hcloud.MockClient{} }
}

func TestApply(t *testing.T) {
	saveAndRestoreApplyFactories(t)
	t.Setenv(config.EnvHCloudToken, "tok")
	t.Setenv(config.EnvPushgatewayURL, "")
	useConfig(testConfig())

	var seen []string
	newApplyPhases = func() []provisioning.Phase {
		return []provisioning.Phase{
			phaseFunc{name: "infrastructure", fn: func(ctx *provisioning.Context) error {
				seen = append(seen, "infrastructure")
				ctx.State.SSHKeyName = "ch-keypair"
				return nil
			}},
			phaseFunc{name: "compute", fn: func(ctx *provisioning.Context) error {
				seen = append(seen, "compute")
				require.NotNil(t, ctx.Plan)
				for _, n := range ctx.Plan.Nodes() {
					ctx.State.RecordNode(provisioning.NodeResult{
						Index:     n.Index,
						Name:      n.Name,
						PublicIP:  netip.AddrFrom4([4]byte{203, 0, 113, byte(10 + n.Index)}).String(),
						PrivateIP: n.Address.String(),
						Existing:  n.Index == 1,
					})
				}
				return nil
			}},
		}
	}

	var err error
	output := captureOutput(func() {
		err = Apply(context.Background(), "")
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"infrastructure", "compute"}, seen)
	assert.Contains(t, output, "chzner apply: ch")
	assert.Contains(t, output, "ch-node-0")
	assert.Contains(t, output, "203.0.113.10")
	assert.Contains(t, output, "10.10.0.11")
	assert.Contains(t, output, "existing")
	assert.Contains(t, output, "SSH key:  ch-keypair")
	assert.Contains(t, output, "ssh root@203.0.113.10")
}

func TestApply_PhaseFailure(t *testing.T) {
	saveAndRestoreApplyFactories(t)
	t.Setenv(config.EnvHCloudToken, "tok")
	t.Setenv(config.EnvPushgatewayURL, "")
	useConfig(testConfig())

	newApplyPhases = func() []provisioning.Phase {
		return []provisioning.Phase{
			phaseFunc{name: "infrastructure", fn: func(*provisioning.Context) error { return errors.New("quota exceeded") }},
		}
	}

	err := Apply(context.Background(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "provisioning failed")
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestApply_PlanErrorBeforeCloudCalls(t *testing.T) {
	saveAndRestoreApplyFactories(t)
	t.Setenv(config.EnvHCloudToken, "tok")
	cfg := testConfig()
	cfg.DevClickHouseURL = "not a url"
	useConfig(cfg)

	newInfraClient = func(string) hcloud.InfrastructureManager {
		t.Fatal("cloud client must not be created when planning fails")
		return nil
	}

	err := Apply(context.Background(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to build plan")
}

func TestApply_MissingToken(t *testing.T) {
	saveAndRestoreApplyFactories(t)
	t.Setenv(config.EnvHCloudToken, "")
	useConfig(testConfig())

	err := Apply(context.Background(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), config.EnvHCloudToken)
}

func TestApply_PublishesBeforeProvisioning(t *testing.T) {
	saveAndRestoreApplyFactories(t)
	t.Setenv(config.EnvHCloudToken, "tok")
	t.Setenv(config.EnvPushgatewayURL, "")
	cfg := testConfig()
	cfg.Publish = &config.PublishConfig{Endpoint: "http://minio:9000", Bucket: "artifacts", AccessKey: "a", SecretKey: "b"}
	useConfig(cfg)

	store := &fakeStore{}
	newObjectStore = func(context.Context, *config.PublishConfig) (ObjectStore, error) { return store, nil }

	published := 0
	newApplyPhases = func() []provisioning.Phase {
		return []provisioning.Phase{
			phaseFunc{name: "compute", fn: func(*provisioning.Context) error {
				published = len(store.puts)
				return nil
			}},
		}
	}

	captureOutput(func() {
		require.NoError(t, Apply(context.Background(), ""))
	})
	assert.Equal(t, 10, published)
	for key, data := range store.puts {
		assert.NotContains(t, string(data), "s3cret", key)
	}
}

func TestApply_RealPhasesAgainstMock(t *testing.T) {
	saveAndRestoreApplyFactories(t)
	t.Setenv(config.EnvHCloudToken, "tok")
	t.Setenv(config.EnvPushgatewayURL, "")

	kp, err := sshkey.GenerateRSAKeyPair(2048)
	require.NoError(t, err)
	pubPath, err := sshkey.WriteKeyPair(kp, filepath.Join(t.TempDir(), "id_rsa"))
	require.NoError(t, err)

	cfg := testConfig()
	cfg.SSHPublicKeyPath = pubPath
	useConfig(cfg)

	var mu sync.Mutex
	created := map[string]hcloud.ServerCreateOpts{}
	mock := &hcloud.MockClient{
		CreateServerFunc: func(_ context.Context, opts hcloud.ServerCreateOpts) (*hcloudgo.Server, error) {
			mu.Lock()
			defer mu.Unlock()
			created[opts.Name] = opts
			return &hcloudgo.Server{
				ID:   int64(len(created)),
				Name: opts.Name,
				PublicNet: hcloudgo.ServerPublicNet{
					IPv4: hcloudgo.ServerPublicNetIPv4{IP: net.ParseIP("203.0.113.1")},
				},
			}, nil
		},
	}
	newInfraClient = func(string) hcloud.InfrastructureManager { return mock }

	output := captureOutput(func() {
		err = Apply(context.Background(), "")
	})
	require.NoError(t, err)

	require.Len(t, created, 3)
	assert.Equal(t, netip.MustParseAddr("10.10.0.11"), created["ch-node-1"].PrivateIP)
	assert.Equal(t, []string{"ch-keypair"}, created["ch-node-1"].SSHKeys)
	assert.Contains(t, created["ch-node-1"].UserData, "#!/bin/bash")
	assert.Contains(t, output, "SSH key:  ch-keypair")
}
