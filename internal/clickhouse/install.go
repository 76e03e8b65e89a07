package clickhouse

import (
	"fmt"
	"strings"
)

// InstallKind selects how ClickHouse is installed.
type InstallKind int

const (
	// InstallLatest installs the latest stable release from the package repository.
	InstallLatest InstallKind = iota
	// InstallPinned installs one specific build from .deb artifacts.
	InstallPinned
)

func (k InstallKind) String() string {
	switch k {
	case InstallLatest:
		return "latest"
	case InstallPinned:
		return "pinned"
	default:
		return fmt.Sprintf("InstallKind(%d)", int(k))
	}
}

// Package names, in required install order: client and server depend on common-static.
const (
	PackageCommonStatic = "clickhouse-common-static"
	PackageClient       = "clickhouse-client"
	PackageServer       = "clickhouse-server"
)

const (
	artifactArch   = "amd64"
	artifactSuffix = "_" + artifactArch + ".deb"
)

// InstallPlan is the resolved decision of what to install. It is shared by every node.
type InstallPlan struct {
	Kind InstallKind

	// Set for InstallPinned only.
	BaseURL   string // ends with "/"
	Version   string
	Artifacts []string // common-static, client, server
}

// LatestInstallPlan returns the unpinned plan.
func LatestInstallPlan() InstallPlan {
	return InstallPlan{Kind: InstallLatest}
}

// Pinned reports whether a specific build is installed.
func (p InstallPlan) Pinned() bool {
	return p.Kind == InstallPinned
}

// URLs returns the absolute artifact URLs in install order.
func (p InstallPlan) URLs() []string {
	urls := make([]string, 0, len(p.Artifacts))
	for _, a := range p.Artifacts {
		urls = append(urls, p.BaseURL+a)
	}
	return urls
}

func (p InstallPlan) String() string {
	if !p.Pinned() {
		return "latest stable release"
	}
	return fmt.Sprintf("%s from %s", p.Version, p.BaseURL)
}

// ArtifactName returns the .deb file name of pkg at version.
func ArtifactName(pkg, version string) string {
	return pkg + "_" + version + artifactSuffix
}

// InvalidReferenceError reports a build URL that does not name a clickhouse-server package.
type InvalidReferenceError struct {
	Reference string
	Reason    string
}

func (e *InvalidReferenceError) Error() string {
	return fmt.Sprintf("invalid ClickHouse build reference %q: %s", e.Reference, e.Reason)
}

// ResolveInstallPlan derives the install plan from an optional build reference
// of the form <base>/clickhouse-server_<version>_amd64.deb. An empty
// reference yields the latest plan. The three sibling packages share the
// reference's base URL and version.
func ResolveInstallPlan(ref string) (InstallPlan, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return LatestInstallPlan(), nil
	}

	base, version, err := parseServerReference(ref)
	if err != nil {
		return InstallPlan{}, err
	}

	return InstallPlan{
		Kind:    InstallPinned,
		BaseURL: base,
		Version: version,
		Artifacts: []string{
			ArtifactName(PackageCommonStatic, version),
			ArtifactName(PackageClient, version),
			ArtifactName(PackageServer, version),
		},
	}, nil
}

func parseServerReference(ref string) (base, version string, err error) {
	invalid := func(format string, args ...any) error {
		return &InvalidReferenceError{Reference: ref, Reason: fmt.Sprintf(format, args...)}
	}

	slash := strings.LastIndex(ref, "/")
	if slash <= 0 {
		return "", "", invalid("expected <base-url>/%s", ArtifactName(PackageServer, "<version>"))
	}
	base, file := ref[:slash+1], ref[slash+1:]

	serverPrefix := PackageServer + "_"
	if !strings.HasPrefix(file, serverPrefix) || !strings.HasSuffix(file, artifactSuffix) {
		return "", "", invalid("file name %q is not %s", file, ArtifactName(PackageServer, "<version>"))
	}

	version = strings.TrimSuffix(strings.TrimPrefix(file, serverPrefix), artifactSuffix)
	if err := validateVersion(version); err != nil {
		return "", "", invalid("%v", err)
	}
	return base, version, nil
}

// validateVersion accepts dot-separated, non-empty, all-digit components.
func validateVersion(version string) error {
	if version == "" {
		return fmt.Errorf("version is empty")
	}
	for i, part := range strings.Split(version, ".") {
		if part == "" {
			return fmt.Errorf("version %q has an empty component at position %d", version, i)
		}
		for _, r := range part {
			if r < '0' || r > '9' {
				return fmt.Errorf("version %q has a non-numeric component %q", version, part)
			}
		}
	}
	return nil
}
