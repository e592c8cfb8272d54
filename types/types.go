// Package types holds the small value types shared across the radix tree
// builder: the per-level split task, the leaf range, and the packed node
// word written into tree storage.
package types

// Code is a 32-bit Morton-coded spatial key. The builder only ever reads
// codes; it never sorts, dedupes, or decodes them (see spec Non-goals).
type Code = uint32

// SplitTask is the unit of work ping-ponged between the two task queues.
// NodeID is pre-allocated by the caller before the task is enqueued, so a
// task always knows the index it will be written to once consumed.
//
//go:notinheap
//go:align 32
type SplitTask struct {
	NodeID uint32 // index this task's node record will be written to
	Begin  uint32 // half-open code range start
	End    uint32 // half-open code range end
	Bit    int32  // discriminating bit for this task, or <0 if exhausted
}

// LeafRange is a half-open index range into the code array, covering the
// codes a single leaf is responsible for.
//
//go:notinheap
//go:align 16
type LeafRange struct {
	Begin uint32
	End   uint32
}

// NodeWord is the packed 32-bit tree node record described in spec §3:
// two child-presence bits plus a 30-bit child-or-leaf index. Bit 31 marks
// "has left child", bit 30 marks "has right child"; the index packs into
// the low 30 bits. A node with both presence bits clear is a leaf, and its
// index field holds the leaf index rather than a child index.
type NodeWord uint32

const (
	hasLeftBit  = 1 << 31
	hasRightBit = 1 << 30
	indexMask   = (1 << 30) - 1
)

// PackNode builds a NodeWord from the tree-writer contract's three fields.
// index must fit in 30 bits; the Driver's storage sizing (spec §4.5) keeps
// tree sizes well under that bound for any realistic N.
func PackNode(hasLeft, hasRight bool, index uint32) NodeWord {
	w := index & indexMask
	if hasLeft {
		w |= hasLeftBit
	}
	if hasRight {
		w |= hasRightBit
	}
	return NodeWord(w)
}

// HasLeft reports whether the node's left child slot is occupied.
func (w NodeWord) HasLeft() bool { return w&hasLeftBit != 0 }

// HasRight reports whether the node's right child slot is occupied.
func (w NodeWord) HasRight() bool { return w&hasRightBit != 0 }

// IsLeaf reports whether the node has no children — its Index is a leaf
// index rather than a child index.
func (w NodeWord) IsLeaf() bool { return w&(hasLeftBit|hasRightBit) == 0 }

// Index returns the packed child-or-leaf index.
func (w NodeWord) Index() uint32 { return uint32(w) & indexMask }
