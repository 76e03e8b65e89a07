package labels

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewLabelBuilder(t *testing.T) {
	t.Parallel()
	got := NewLabelBuilder("ch").Build()
	assert.Equal(t, map[string]string{
		KeyCluster:   "ch",
		KeyManagedBy: ManagedByChzner,
	}, got)
}

func TestLabelBuilder_Node(t *testing.T) {
	t.Parallel()
	got := NewLabelBuilder("ch").
		WithRole(RoleClickHouse).
		WithNodeIndex(2).
		Merge(map[string]string{"team": "analytics"}).
		Build()

	assert.Equal(t, "ch", got[KeyCluster])
	assert.Equal(t, RoleClickHouse, got[KeyRole])
	assert.Equal(t, "2", got[KeyNodeIndex])
	assert.Equal(t, "analytics", got["team"])
}

func TestLabelBuilder_BuildReturnsCopy(t *testing.T) {
	t.Parallel()
	lb := NewLabelBuilder("ch")
	first := lb.Build()
	first[KeyCluster] = "mutated"
	assert.Equal(t, "ch", lb.Build()[KeyCluster])
}

func TestSelectorForCluster(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "chzner.io/cluster=ch", SelectorForCluster("ch"))
	assert.Equal(t, map[string]string{KeyCluster: "ch"}, ForCluster("ch"))
}
