package artifacts

import (
	"context"
	"errors"
	"net/netip"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/imamik/chzner/internal/cluster"
)

func newPlan(t *testing.T, size int, devRef string) *cluster.Plan {
	t.Helper()
	plan, err := cluster.NewPlan(
		cluster.ClusterSpec{Prefix: "ch", Size: size, Password: "s3cret"},
		netip.MustParsePrefix("10.10.0.0/24"),
		devRef,
	)
	require.NoError(t, err)
	return plan
}

func TestCollect_Layout(t *testing.T) {
	t.Parallel()
	files, err := Collect(newPlan(t, 2, ""))
	require.NoError(t, err)

	paths := make([]string, 0, len(files))
	for _, f := range files {
		paths = append(paths, f.Path())
	}
	assert.Equal(t, []string{
		"plan.yaml",
		"ch-node-0/bootstrap.sh",
		"ch-node-0/cluster.xml",
		"ch-node-0/users.xml",
		"ch-node-1/bootstrap.sh",
		"ch-node-1/cluster.xml",
		"ch-node-1/users.xml",
	}, paths)

	assert.True(t, strings.HasPrefix(string(files[1].Data), "#!/bin/bash\n"))
	assert.Contains(t, string(files[2].Data), "<host>10.10.0.11</host>")
	assert.Contains(t, string(files[3].Data), "<password>s3cret</password>")
}

func TestCollect_ManifestHasNoPassword(t *testing.T) {
	t.Parallel()
	files, err := Collect(newPlan(t, 3, "https://x/y/clickhouse-server_25.4.1.1_amd64.deb"))
	require.NoError(t, err)

	manifest := files[0]
	assert.Equal(t, ManifestFile, manifest.Name)
	assert.NotContains(t, string(manifest.Data), "s3cret")

	var m Manifest
	require.NoError(t, yaml.Unmarshal(manifest.Data, &m))
	assert.Equal(t, "ch", m.Prefix)
	assert.Equal(t, 3, m.Size)
	assert.Equal(t, "10.10.0.0/24", m.Subnet)
	assert.Equal(t, "pinned", m.Install.Kind)
	assert.Equal(t, "25.4.1.1", m.Install.Version)
	assert.Len(t, m.Install.URLs, 3)
	require.Len(t, m.Nodes, 3)
	assert.Equal(t, "10.10.0.11", m.Nodes[1].Address)
	assert.Equal(t, []string{"10.10.0.10", "10.10.0.12"}, m.Nodes[1].Peers)
}

func TestCollectRedacted(t *testing.T) {
	t.Parallel()
	plan := newPlan(t, 3, "")

	full, err := Collect(plan)
	require.NoError(t, err)
	redacted, err := CollectRedacted(plan)
	require.NoError(t, err)
	require.Len(t, redacted, len(full))

	for i, f := range redacted {
		assert.Equal(t, full[i].Path(), f.Path())
		assert.NotContains(t, string(f.Data), "s3cret", f.Path())
	}
	assert.Equal(t, full[0].Data, redacted[0].Data, "manifest is unchanged")
	assert.Contains(t, string(redacted[2].Data), "<password>"+cluster.RedactedPassword+"</password>")

	// The source plan still carries the real password.
	assert.Equal(t, "s3cret", plan.Credentials().Password)
	assert.Contains(t, string(full[3].Data), "<password>s3cret</password>")
}

func TestNewManifest_SingleNodeHasEmptyPeers(t *testing.T) {
	t.Parallel()
	m := NewManifest(newPlan(t, 1, ""))
	require.Len(t, m.Nodes, 1)
	assert.NotNil(t, m.Nodes[0].Peers)
	assert.Empty(t, m.Nodes[0].Peers)
	assert.Equal(t, "latest", m.Install.Kind)
	assert.Empty(t, m.Install.URLs)
}

func TestWriteDir(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	files, err := Collect(newPlan(t, 2, ""))
	require.NoError(t, err)

	require.NoError(t, WriteDir(dir, files))

	data, err := os.ReadFile(filepath.Join(dir, "ch-node-1", "cluster.xml"))
	require.NoError(t, err)
	assert.Equal(t, files[5].Data, data)

	info, err := os.Stat(filepath.Join(dir, "ch-node-0", "bootstrap.sh"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o700), info.Mode().Perm())

	info, err = os.Stat(filepath.Join(dir, "ch-node-0", "users.xml"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

type fakeUploader struct {
	bucketErr error
	failKey   string
	objects   map[string]string
	types     map[string]string
}

func (f *fakeUploader) EnsureBucket(context.Context, string) error { return f.bucketErr }

func (f *fakeUploader) PutObject(_ context.Context, bucket, key, contentType string, data []byte) error {
	if key == f.failKey {
		return errors.New("access denied")
	}
	if f.objects == nil {
		f.objects = map[string]string{}
		f.types = map[string]string{}
	}
	f.objects[bucket+"/"+key] = string(data)
	f.types[key] = contentType
	return nil
}

func TestPublish(t *testing.T) {
	t.Parallel()
	files, err := Collect(newPlan(t, 2, ""))
	require.NoError(t, err)
	up := &fakeUploader{}

	keys, err := Publish(context.Background(), up, "bucket", "ch", files)
	require.NoError(t, err)

	assert.Equal(t, "ch/plan.yaml", keys[0])
	assert.Equal(t, "ch/ch-node-0/bootstrap.sh", keys[1])
	assert.Len(t, up.objects, 7)
	assert.Equal(t, contentTypeShell, up.types["ch/ch-node-1/bootstrap.sh"])
	assert.Equal(t, contentTypeXML, up.types["ch/ch-node-1/users.xml"])
	assert.Equal(t, contentTypeYAML, up.types["ch/plan.yaml"])
}

func TestPublish_Errors(t *testing.T) {
	t.Parallel()
	files, err := Collect(newPlan(t, 1, ""))
	require.NoError(t, err)

	_, err = Publish(context.Background(), &fakeUploader{bucketErr: errors.New("nope")}, "bucket", "ch", files)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to ensure bucket")

	keys, err := Publish(context.Background(), &fakeUploader{failKey: "ch/ch-node-0/cluster.xml"}, "bucket", "ch", files)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to upload ch/ch-node-0/cluster.xml")
	assert.Equal(t, []string{"ch/plan.yaml", "ch/ch-node-0/bootstrap.sh"}, keys)
}
