package labels

import "strconv"

const (
	// KeyCluster identifies which cluster a resource belongs to.
	KeyCluster = "chzner.io/cluster"
	// KeyRole identifies the role of a server.
	KeyRole = "chzner.io/role"
	// KeyNodeIndex holds the node's index in the cluster plan.
	KeyNodeIndex = "chzner.io/node-index"
	// KeyManagedBy identifies the management system.
	KeyManagedBy = "chzner.io/managed-by"
)

const (
	RoleClickHouse = "clickhouse"

	ManagedByChzner = "chzner"
)

// LabelBuilder builds Hetzner Cloud resource labels.
type LabelBuilder struct {
	labels map[string]string
}

// NewLabelBuilder returns a builder with the cluster and managed-by labels set.
func NewLabelBuilder(prefix string) *LabelBuilder {
	return &LabelBuilder{
		labels: map[string]string{
			KeyCluster:   prefix,
			KeyManagedBy: ManagedByChzner,
		},
	}
}

// WithRole adds a role label.
func (lb *LabelBuilder) WithRole(role string) *LabelBuilder {
	lb.labels[KeyRole] = role
	return lb
}

// WithNodeIndex adds the node index label.
func (lb *LabelBuilder) WithNodeIndex(index int) *LabelBuilder {
	lb.labels[KeyNodeIndex] = strconv.Itoa(index)
	return lb
}

// Merge adds all labels from extra, overriding existing keys.
func (lb *LabelBuilder) Merge(extra map[string]string) *LabelBuilder {
	for k, v := range extra {
		lb.labels[k] = v
	}
	return lb
}

// Build returns a copy of the labels.
func (lb *LabelBuilder) Build() map[string]string {
	result := make(map[string]string, len(lb.labels))
	for k, v := range lb.labels {
		result[k] = v
	}
	return result
}

// SelectorForCluster returns a label selector matching every resource of the cluster.
func SelectorForCluster(prefix string) string {
	return KeyCluster + "=" + prefix
}

// ForCluster returns the bare cluster label set, suitable for label-based queries.
func ForCluster(prefix string) map[string]string {
	return map[string]string{KeyCluster: prefix}
}
