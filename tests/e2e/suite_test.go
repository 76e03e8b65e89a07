//go:build e2e

// Package e2e provisions a real cluster in a Hetzner Cloud project and
// checks that every node comes up with the planned topology.
//
// Run with:
//
//	HCLOUD_TOKEN=... go test -v -tags=e2e -timeout 40m ./tests/e2e/...
//
// Set E2E_KEEP_CLUSTER=true to skip teardown for debugging.
package e2e

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/imamik/chzner/internal/config"
	"github.com/imamik/chzner/internal/platform/hcloud"
	"github.com/imamik/chzner/internal/util/sshkey"
)

const clusterSize = 2

var (
	ctx    context.Context
	cancel context.CancelFunc

	client     hcloud.InfrastructureManager
	cfg        *config.Config
	privateKey []byte
)

func TestE2E(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "chzner E2E Suite")
}

var _ = BeforeSuite(func() {
	token := os.Getenv(config.EnvHCloudToken)
	if token == "" {
		Skip(config.EnvHCloudToken + " not set, skipping e2e suite")
	}

	ctx, cancel = context.WithTimeout(context.Background(), 35*time.Minute)
	client = hcloud.NewRealClient(token)

	By("generating a throwaway SSH key pair")
	kp, err := sshkey.GenerateRSAKeyPair(2048)
	Expect(err).NotTo(HaveOccurred())
	pubPath, err := sshkey.WriteKeyPair(kp, filepath.Join(GinkgoT().TempDir(), "id_rsa"))
	Expect(err).NotTo(HaveOccurred())
	privateKey = kp.PrivateKey

	cfg = config.Default()
	cfg.Prefix = "e2e-" + randomSuffix()
	cfg.ClusterSize = clusterSize
	cfg.ServerType = envOr("E2E_SERVER_TYPE", "cx22")
	cfg.Location = envOr("E2E_LOCATION", config.DefaultLocation)
	cfg.SSHPublicKeyPath = pubPath
	cfg.Password = "e2e-" + randomSuffix()
	cfg.Labels = map[string]string{"test-id": cfg.Prefix}
	Expect(cfg.Validate()).To(Succeed())

	GinkgoWriter.Printf("Cluster prefix: %s\n", cfg.Prefix)
})

var _ = AfterSuite(func() {
	if cancel != nil {
		defer cancel()
	}
	if client == nil || cfg == nil || os.Getenv("E2E_KEEP_CLUSTER") == "true" {
		return
	}
	By("removing every resource labeled for the test run")
	cleanupCtx, cleanupCancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cleanupCancel()
	if err := client.CleanupByLabel(cleanupCtx, map[string]string{"test-id": cfg.Prefix}); err != nil {
		GinkgoWriter.Printf("Warning: cleanup encountered errors: %v\n", err)
	}
})

func randomSuffix() string {
	b := make([]byte, 3)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
