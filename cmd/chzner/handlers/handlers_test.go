package handlers

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/chzner/internal/config"
	"github.com/imamik/chzner/internal/platform/hcloud"
)

// captureOutput captures stdout during function execution.
func captureOutput(f func()) string {
	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	f()

	w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	io.Copy(&buf, r)
	return buf.String()
}

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Prefix = "ch"
	cfg.ClusterSize = 3
	cfg.Password = "s3cret"
	cfg.SSHPublicKeyPath = "/tmp/id.pub"
	return cfg
}

// saveAndRestoreFactories restores every shared factory after the test.
func saveAndRestoreFactories(t *testing.T) {
	t.Helper()
	origInfra := newInfraClient
	origStore := newObjectStore
	origResolve := resolveConfigPath
	origLoad := loadConfigFile
	origTTY := isInteractiveTTY

	t.Cleanup(func() {
		newInfraClient = origInfra
		newObjectStore = origStore
		resolveConfigPath = origResolve
		loadConfigFile = origLoad
		isInteractiveTTY = origTTY
	})

	isInteractiveTTY = func() bool { return false }
}

// useConfig makes loadConfig return cfg regardless of path.
func useConfig(cfg *config.Config) {
	resolveConfigPath = func(string) (string, error) { return "chzner.yaml", nil }
	loadConfigFile = func(string) (*config.Config, error) { return cfg, nil }
}

type fakeStore struct {
	buckets []string
	puts    map[string][]byte
	deleted []string
	putErr  error
}

func (f *fakeStore) EnsureBucket(_ context.Context, bucket string) error {
	f.buckets = append(f.buckets, bucket)
	return nil
}

func (f *fakeStore) PutObject(_ context.Context, _, key, _ string, data []byte) error {
	if f.putErr != nil {
		return f.putErr
	}
	if f.puts == nil {
		f.puts = make(map[string][]byte)
	}
	f.puts[key] = data
	return nil
}

func (f *fakeStore) DeletePrefix(_ context.Context, _, prefix string) (int, error) {
	f.deleted = append(f.deleted, prefix)
	return 1, nil
}

func TestLoadConfig(t *testing.T) {
	saveAndRestoreFactories(t)

	t.Run("no config file", func(t *testing.T) {
		resolveConfigPath = func(string) (string, error) { return "", errors.New("not found") }
		_, err := loadConfig("")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "chzner init")
	})

	t.Run("invalid config", func(t *testing.T) {
		resolveConfigPath = func(string) (string, error) { return "chzner.yaml", nil }
		loadConfigFile = func(string) (*config.Config, error) { return nil, config.Errorf("prefix", "bad") }
		_, err := loadConfig("")
		require.Error(t, err)
		var cfgErr *config.ConfigurationError
		assert.ErrorAs(t, err, &cfgErr)
	})

	t.Run("success", func(t *testing.T) {
		useConfig(testConfig())
		cfg, err := loadConfig("")
		require.NoError(t, err)
		assert.Equal(t, "ch", cfg.Prefix)
	})
}

func TestInitializeClient(t *testing.T) {
	saveAndRestoreFactories(t)

	t.Run("missing token", func(t *testing.T) {
		t.Setenv(config.EnvHCloudToken, "")
		_, err := initializeClient()
		require.Error(t, err)
		assert.Contains(t, err.Error(), config.EnvHCloudToken)
	})

	t.Run("token passed through", func(t *testing.T) {
		t.Setenv(config.EnvHCloudToken, "tok")
		var got string
		newInfraClient = func(token string) hcloud.InfrastructureManager {
			got = token
			return &hcloud.MockClient{}
		}
		_, err := initializeClient()
		require.NoError(t, err)
		assert.Equal(t, "tok", got)
	})
}

func TestPlan(t *testing.T) {
	saveAndRestoreFactories(t)
	useConfig(testConfig())

	var err error
	output := captureOutput(func() {
		err = Plan(context.Background(), "")
	})
	require.NoError(t, err)

	assert.Contains(t, output, "chzner plan: ch")
	assert.Contains(t, output, "Nodes:    3")
	assert.Contains(t, output, "ch-node-0")
	assert.Contains(t, output, "ch-node-2")
	assert.Contains(t, output, "10.10.0.10")
	assert.Contains(t, output, "10.10.0.12")
	assert.NotContains(t, output, "s3cret")
}

func TestPlan_InvalidDevURL(t *testing.T) {
	saveAndRestoreFactories(t)
	cfg := testConfig()
	cfg.DevClickHouseURL = "https://example.com/not-a-package"
	useConfig(cfg)

	err := Plan(context.Background(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to build plan")
}

func TestRender(t *testing.T) {
	saveAndRestoreFactories(t)
	useConfig(testConfig())
	dir := t.TempDir()

	var err error
	output := captureOutput(func() {
		err = Render(context.Background(), "", dir, false)
	})
	require.NoError(t, err)
	assert.Contains(t, output, "Wrote 10 files for 3 nodes")

	for _, path := range []string{"plan.yaml", "ch-node-0/bootstrap.sh", "ch-node-1/cluster.xml", "ch-node-2/users.xml"} {
		assert.FileExists(t, filepath.Join(dir, path))
	}
}

func TestRender_PublishWithoutSection(t *testing.T) {
	saveAndRestoreFactories(t)
	useConfig(testConfig())

	err := Render(context.Background(), "", t.TempDir(), true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--publish")
}

func TestRender_Publish(t *testing.T) {
	saveAndRestoreFactories(t)
	cfg := testConfig()
	cfg.Publish = &config.PublishConfig{Endpoint: "http://minio:9000", Bucket: "artifacts", AccessKey: "a", SecretKey: "b"}
	useConfig(cfg)

	store := &fakeStore{}
	newObjectStore = func(context.Context, *config.PublishConfig) (ObjectStore, error) { return store, nil }

	dir := t.TempDir()
	var err error
	output := captureOutput(func() {
		err = Render(context.Background(), "", dir, true)
	})
	require.NoError(t, err)

	assert.Contains(t, output, "Published 10 objects to s3://artifacts/ch/")
	assert.Equal(t, []string{"artifacts"}, store.buckets)
	assert.Contains(t, store.puts, "ch/plan.yaml")
	for key, data := range store.puts {
		assert.NotContains(t, string(data), "s3cret", key)
	}
	assert.Contains(t, string(store.puts["ch/ch-node-0/users.xml"]), "<password>REDACTED</password>")

	// The local copy keeps the real password.
	local, err := os.ReadFile(filepath.Join(dir, "ch-node-0", "users.xml"))
	require.NoError(t, err)
	assert.Contains(t, string(local), "<password>s3cret</password>")
}

func TestRender_PublishError(t *testing.T) {
	saveAndRestoreFactories(t)
	cfg := testConfig()
	cfg.Publish = &config.PublishConfig{Endpoint: "http://minio:9000", Bucket: "artifacts", AccessKey: "a", SecretKey: "b"}
	useConfig(cfg)

	newObjectStore = func(context.Context, *config.PublishConfig) (ObjectStore, error) {
		return &fakeStore{putErr: errors.New("denied")}, nil
	}

	err := Render(context.Background(), "", t.TempDir(), true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to publish artifacts")
}

func TestPushMetrics_Unset(t *testing.T) {
	t.Setenv(config.EnvPushgatewayURL, "")
	// Nil metrics must not be touched when no gateway is configured.
	pushMetrics(context.Background(), testConfig(), nil)
}
