// Package treesink implements the tree-writer contract from spec §6: a
// pluggable sink the split kernel and leaf finaliser write node and leaf
// records into. Per spec §9's "template over tree representation" note,
// a single concrete implementation is expected per deployment — we supply
// two: ArraySink (in-memory, cmd/buildtree's default sink) and
// SQLiteSink (a persistent backend built on the teacher's own go-sqlite3
// dependency).
package treesink

import (
	"github.com/pkg/errors"

	"radixtree/types"
)

// Writer is the four-operation tree-sink contract from spec §6.
// reserve_nodes/reserve_leaves must be idempotent and monotonic;
// write_node/write_leaf are called exactly once per node_id/leaf_id.
type Writer interface {
	ReserveNodes(n int) error
	ReserveLeaves(n int) error
	WriteNode(id uint32, hasLeft, hasRight bool, childOrLeafIndex uint32) error
	WriteLeaf(id uint32, begin, end uint32) error
}

// ArraySink is an in-memory Writer backed by flat slices. Node records are
// packed into a single uint32 as spec §3 suggests. Disjoint node_ids are
// written by disjoint goroutines (spec §5), so no locking is needed here;
// only ReserveNodes/ReserveLeaves (Driver-only, between levels) ever
// reallocates the backing slices.
type ArraySink struct {
	nodes  []types.NodeWord
	leaves []types.LeafRange
}

// NewArraySink returns an empty ArraySink.
func NewArraySink() *ArraySink {
	return &ArraySink{}
}

// ReserveNodes grows the node slice to at least n entries.
func (s *ArraySink) ReserveNodes(n int) error {
	if len(s.nodes) >= n {
		return nil
	}
	grown := make([]types.NodeWord, n)
	copy(grown, s.nodes)
	s.nodes = grown
	return nil
}

// ReserveLeaves grows the leaf slice to at least n entries.
func (s *ArraySink) ReserveLeaves(n int) error {
	if len(s.leaves) >= n {
		return nil
	}
	grown := make([]types.LeafRange, n)
	copy(grown, s.leaves)
	s.leaves = grown
	return nil
}

// WriteNode packs and stores the node record at id.
func (s *ArraySink) WriteNode(id uint32, hasLeft, hasRight bool, childOrLeafIndex uint32) error {
	if int(id) >= len(s.nodes) {
		return errors.Errorf("treesink: node id %d exceeds reserved capacity %d", id, len(s.nodes))
	}
	s.nodes[id] = types.PackNode(hasLeft, hasRight, childOrLeafIndex)
	return nil
}

// WriteLeaf stores the leaf range at id.
func (s *ArraySink) WriteLeaf(id uint32, begin, end uint32) error {
	if int(id) >= len(s.leaves) {
		return errors.Errorf("treesink: leaf id %d exceeds reserved capacity %d", id, len(s.leaves))
	}
	s.leaves[id] = types.LeafRange{Begin: begin, End: end}
	return nil
}

// Nodes returns the backing node slice, including any unwritten trailing
// capacity beyond the Driver's published total_nodes count.
func (s *ArraySink) Nodes() []types.NodeWord { return s.nodes }

// Leaves returns the backing leaf slice, including any unwritten trailing
// capacity beyond the Driver's published total_leaves count.
func (s *ArraySink) Leaves() []types.LeafRange { return s.leaves }
