package octree

import (
	"testing"

	"radixtree/types"
)

// buildFullTriple constructs a complete 3-level binary subtree rooted at
// id 0: level 1 at ids 1-2, level 2 at ids 3-6, level 3 (the octant
// leaves) at ids 7-14, every node with two contiguous children.
func buildFullTriple() []types.NodeWord {
	nodes := make([]types.NodeWord, 15)
	nodes[0] = types.PackNode(true, true, 1)
	nodes[1] = types.PackNode(true, true, 3)
	nodes[2] = types.PackNode(true, true, 5)
	nodes[3] = types.PackNode(true, true, 7)
	nodes[4] = types.PackNode(true, true, 9)
	nodes[5] = types.PackNode(true, true, 11)
	nodes[6] = types.PackNode(true, true, 13)
	for i := 7; i <= 14; i++ {
		nodes[i] = types.PackNode(false, false, uint32(i)) // leaf, arbitrary leaf index
	}
	return nodes
}

func TestCollapseTripleFull(t *testing.T) {
	nodes := buildFullTriple()
	n := CollapseTriple(nodes, 0)
	if n.ChildMask() != 0xFF {
		t.Fatalf("ChildMask = %#x, want 0xff", n.ChildMask())
	}
	if n.ChildOffset() != 7 {
		t.Fatalf("ChildOffset = %d, want 7", n.ChildOffset())
	}
	for i := uint(0); i < 8; i++ {
		if got, want := n.GetOctant(i), uint32(7+i); got != want {
			t.Errorf("GetOctant(%d) = %d, want %d", i, got, want)
		}
	}
}

func TestCollapseTriplePartial(t *testing.T) {
	nodes := buildFullTriple()
	// Cut off node 2, the root's right subtree (octants 4-7's parent
	// branch): make node2 a leaf early, so octants 4-7 disappear from the
	// fold.
	nodes[2] = types.PackNode(false, false, 99)

	n := CollapseTriple(nodes, 0)
	if n.ChildMask() != 0x0F {
		t.Fatalf("ChildMask = %#x, want 0x0f", n.ChildMask())
	}
	for i := uint(0); i < 4; i++ {
		if got, want := n.GetOctant(i), uint32(7+i); got != want {
			t.Errorf("GetOctant(%d) = %d, want %d", i, got, want)
		}
	}
	for i := uint(4); i < 8; i++ {
		if got := n.GetOctant(i); got != Invalid {
			t.Errorf("GetOctant(%d) = %d, want Invalid", i, got)
		}
	}
}

func TestCollapseTripleSingletonForwarder(t *testing.T) {
	nodes := buildFullTriple()
	// node3 (level 2, covers octants 0-1) forwards through a single child
	// instead of splitting: only its left child exists, at its own Index().
	nodes[3] = types.PackNode(true, false, 7)
	nodes[7] = types.PackNode(false, false, 0) // leaf
	// node3's old right child (id 8) is now unreachable garbage; collapse
	// must not walk into it.

	n := CollapseTriple(nodes, 0)
	if n.IsActive(0) != true || n.IsActive(1) != false {
		t.Fatalf("mask = %#x, want octant 0 active and octant 1 absent", n.ChildMask())
	}
	if got := n.GetOctant(0); got != 7 {
		t.Errorf("GetOctant(0) = %d, want 7", got)
	}
}

func TestCollapseTripleAllAbsent(t *testing.T) {
	nodes := []types.NodeWord{types.PackNode(false, false, 0)}
	n := CollapseTriple(nodes, 0)
	if !n.IsLeaf() {
		t.Fatalf("collapsing a bare leaf root must yield an empty mask")
	}
}
