//go:build e2e

package e2e

import (
	"fmt"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/imamik/chzner/internal/cluster"
	"github.com/imamik/chzner/internal/provisioning"
	"github.com/imamik/chzner/internal/provisioning/compute"
	"github.com/imamik/chzner/internal/provisioning/destroy"
	"github.com/imamik/chzner/internal/provisioning/infrastructure"
)

var _ = Describe("Cluster lifecycle", Ordered, func() {
	var (
		plan *cluster.Plan
		pCtx *provisioning.Context
	)

	BeforeAll(func() {
		var err error
		plan, err = cluster.FromConfig(cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(plan.Nodes()).To(HaveLen(clusterSize))
	})

	It("provisions infrastructure and servers", func() {
		pCtx = provisioning.NewContext(ctx, cfg, plan, client)
		err := provisioning.RunPhases(pCtx, []provisioning.Phase{
			infrastructure.NewProvisioner(),
			compute.NewProvisioner(),
		})
		Expect(err).NotTo(HaveOccurred())

		nodes := pCtx.State.Nodes()
		Expect(nodes).To(HaveLen(clusterSize))
		for i, n := range nodes {
			Expect(n.PrivateIP).To(Equal(plan.Nodes()[i].Address.String()))
			Expect(n.PublicIP).NotTo(BeEmpty())
			Expect(n.Existing).To(BeFalse())
		}
	})

	It("is idempotent on re-run", func() {
		again := provisioning.NewContext(ctx, cfg, plan, client)
		Expect(provisioning.RunPhases(again, []provisioning.Phase{
			infrastructure.NewProvisioner(),
			compute.NewProvisioner(),
		})).To(Succeed())

		for _, n := range again.State.Nodes() {
			Expect(n.Existing).To(BeTrue(), n.Name)
		}
	})

	It("brings every node up with the full shard list", func() {
		for _, n := range pCtx.State.Nodes() {
			By("waiting for ClickHouse on " + n.Name)
			query := fmt.Sprintf("clickhouse-client --password '%s' -q \"SELECT count() FROM system.clusters WHERE cluster = 'default'\"", cfg.Password)
			Eventually(func() (string, error) {
				out, err := runSSH(n.PublicIP, privateKey, query)
				return strings.TrimSpace(out), err
			}).WithTimeout(15 * time.Minute).WithPolling(20 * time.Second).Should(Equal(fmt.Sprint(clusterSize)))
		}
	})

	It("answers distributed queries from any node", func() {
		first := pCtx.State.Nodes()[0]
		query := fmt.Sprintf("clickhouse-client --password '%s' -q \"SELECT count() FROM clusterAllReplicas('default', system.one)\"", cfg.Password)
		out, err := runSSH(first.PublicIP, privateKey, query)
		Expect(err).NotTo(HaveOccurred())
		Expect(strings.TrimSpace(out)).To(Equal(fmt.Sprint(clusterSize)))
	})

	It("destroys every cluster resource", func() {
		dCtx := provisioning.NewContext(ctx, cfg, nil, client)
		Expect(destroy.NewProvisioner().Provision(dCtx)).To(Succeed())

		for _, n := range plan.Nodes() {
			server, err := client.GetServerByName(ctx, n.Name)
			Expect(err).NotTo(HaveOccurred())
			Expect(server).To(BeNil(), n.Name)
		}
	})
})
