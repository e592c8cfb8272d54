package octree

import "radixtree/types"

// CollapseTriple folds the 3-level binary subtree rooted at root into a
// single octree node, the post-pass spec §6 describes as an external
// collaborator's option: "a consumer may walk three consecutive binary
// levels and fold them into octree nodes, since three Morton bits select
// one of eight octants exactly the way one bit selects one of two
// children." Octants are numbered MSB-first over those three bits, so
// octant 0 is the path left-left-left and octant 7 is right-right-right.
//
// The result stores only the id of the first active octant's node;
// GetOctant derives the others from it by popcount rank, the same way the
// original's get_octant turns a popcount into an offset instead of storing
// eight pointers. The ids GetOctant returns are therefore the binary
// tree's own ids only when the active octants' nodes occupy consecutive
// ids in octant order; sibling contiguity (spec §3 I4) alone does not
// ensure that.
//
// If root, or a node on either of the two levels beneath it, is a leaf
// before all three octant bits are consumed, that whole subtree of
// octants is absent from the result — the caller keeps consuming the
// binary tree directly for it instead of collapsing. Leaves on the third
// level down are the octant nodes themselves and stay active.
func CollapseTriple(nodes []types.NodeWord, root uint32) Node {
	var mask uint8
	var firstChild uint32
	haveFirst := false

	for octant := uint(0); octant < 8; octant++ {
		id, ok := walkOctant(nodes, root, octant)
		if !ok {
			continue
		}
		mask |= 1 << octant
		if !haveFirst {
			firstChild = id
			haveFirst = true
		}
	}
	return NewInternal(mask, firstChild)
}

// walkOctant descends the 3 bits of octant, most significant first,
// through the binary tree starting at root. Bit value 0 takes the left
// child, 1 takes the right child; a node's right child sits at Index()+1
// when both children exist, or at Index() alone when it is the node's
// only child (the keep_singletons forwarder case from spec §4.3 step 4).
func walkOctant(nodes []types.NodeWord, root uint32, octant uint) (uint32, bool) {
	id := root
	for level := 2; level >= 0; level-- {
		if int(id) >= len(nodes) {
			return 0, false
		}
		w := nodes[id]
		if w.IsLeaf() {
			return 0, false
		}

		bit := (octant >> uint(level)) & 1
		switch bit {
		case 0:
			if !w.HasLeft() {
				return 0, false
			}
			id = w.Index()
		default:
			if !w.HasRight() {
				return 0, false
			}
			id = w.Index()
			if w.HasLeft() {
				id++
			}
		}
	}
	return id, true
}
