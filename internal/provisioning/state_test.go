package provisioning

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestState_RecordNodeConcurrent(t *testing.T) {
	t.Parallel()
	s := NewState()

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.RecordNode(NodeResult{Index: 7 - i, Name: "n"})
		}()
	}
	wg.Wait()

	nodes := s.Nodes()
	assert.Len(t, nodes, 8)
	for i, n := range nodes {
		assert.Equal(t, i, n.Index)
	}
}

func TestState_RecordNodeOverwrites(t *testing.T) {
	t.Parallel()
	s := NewState()
	s.RecordNode(NodeResult{Index: 0, PublicIP: "1.1.1.1"})
	s.RecordNode(NodeResult{Index: 0, PublicIP: "2.2.2.2"})

	assert.Equal(t, []NodeResult{{Index: 0, PublicIP: "2.2.2.2"}}, s.Nodes())
}
