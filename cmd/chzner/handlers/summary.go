package handlers

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/imamik/chzner/internal/addressing"
	"github.com/imamik/chzner/internal/clickhouse"
	"github.com/imamik/chzner/internal/cluster"
	"github.com/imamik/chzner/internal/config"
	"github.com/imamik/chzner/internal/provisioning"
)

var (
	colorGreen = lipgloss.Color("#22c55e")
	colorBlue  = lipgloss.Color("#3b82f6")
	colorDim   = lipgloss.Color("#6b7280")
	colorWhite = lipgloss.Color("#f9fafb")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorWhite)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorBlue)

	dimStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	greenStyle = lipgloss.NewStyle().
			Foreground(colorGreen)
)

// summaryWriter renders with or without styling so piped output stays plain.
type summaryWriter struct {
	b      strings.Builder
	styled bool
}

func (w *summaryWriter) render(style lipgloss.Style, s string) string {
	if !w.styled {
		return s
	}
	return style.Render(s)
}

func (w *summaryWriter) title(s string) {
	w.b.WriteString("\n")
	w.b.WriteString(w.render(titleStyle, "  "+s))
	w.b.WriteString("\n")
	w.b.WriteString(w.render(dimStyle, "  "+strings.Repeat("═", 30)))
	w.b.WriteString("\n")
}

func (w *summaryWriter) section(s string) {
	w.b.WriteString("\n")
	w.b.WriteString(w.render(sectionStyle, "  "+s))
	w.b.WriteString("\n")
	w.b.WriteString(w.render(dimStyle, "  "+strings.Repeat("─", 35)))
	w.b.WriteString("\n")
}

func (w *summaryWriter) linef(format string, args ...any) {
	fmt.Fprintf(&w.b, "    "+format+"\n", args...)
}

// renderPlanSummary describes what apply would create.
func renderPlanSummary(plan *cluster.Plan, styled bool) string {
	w := &summaryWriter{styled: styled}
	spec := plan.Spec()

	w.title("chzner plan: " + spec.Prefix)

	w.section("Cluster")
	w.linef("Nodes:    %d (one shard each, cluster %q)", plan.Size(), clickhouse.DefaultCluster)
	w.linef("Subnet:   %s", plan.Subnet())
	if gw, err := addressing.Gateway(plan.Subnet()); err == nil {
		w.linef("Gateway:  %s", gw)
	}
	if addrs := plan.Addresses(); len(addrs) > 0 {
		w.linef("Range:    %s - %s", addrs[0], addrs[len(addrs)-1])
	}
	w.linef("Install:  %s", plan.Install())

	w.section("Nodes")
	for _, n := range plan.Nodes() {
		w.linef("%-3d %-24s %s", n.Index, n.Name, n.Address)
	}

	w.b.WriteString("\n")
	w.b.WriteString(w.render(dimStyle, "  Nothing was created. Run 'chzner apply' to provision."))
	w.b.WriteString("\n")
	return w.b.String()
}

// renderApplySummary lists the provisioned nodes and how to reach them.
func renderApplySummary(cfg *config.Config, state *provisioning.State, styled bool) string {
	w := &summaryWriter{styled: styled}
	nodes := state.Nodes()

	w.title("chzner apply: " + cfg.Prefix)

	w.section("Nodes")
	for _, n := range nodes {
		status := w.render(greenStyle, "created")
		if n.Existing {
			status = w.render(dimStyle, "existing")
		}
		w.linef("%-24s public %-15s private %-15s %s", n.Name, orDash(n.PublicIP), n.PrivateIP, status)
	}

	w.section("Access")
	w.linef("SSH key:  %s", state.SSHKeyName)
	if len(nodes) > 0 && nodes[0].PublicIP != "" {
		w.linef("ssh root@%s", nodes[0].PublicIP)
		w.linef("clickhouse-client --host %s --password $%s", nodes[0].PublicIP, config.EnvPassword)
	}

	w.b.WriteString("\n")
	w.b.WriteString(w.render(dimStyle, "  Nodes finish installing ClickHouse in the background after boot."))
	w.b.WriteString("\n")
	return w.b.String()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
