// Package integrity computes a canonical digest over a built tree's node
// and leaf arrays, used to check spec §8's P5 (shape determinism: two
// builds over the same input produce byte-identical trees) and P6
// (idempotence: re-running reserve calls never perturbs already-written
// records) without comparing whole arrays by hand in every test.
//
// Uses golang.org/x/crypto/sha3 rather than the stdlib crypto/sha256,
// matching the one non-stdlib hashing import the retrieved corpus
// actually carries.
package integrity

import (
	"encoding/binary"

	"golang.org/x/crypto/sha3"

	"radixtree/types"
)

// Digest hashes nodes and leaves into a single 32-byte SHA3-256 sum. The
// encoding is little-endian and length-prefixed so no two distinct
// (nodes, leaves) pairs can collide by shifted framing.
func Digest(nodes []types.NodeWord, leaves []types.LeafRange) [32]byte {
	h := sha3.New256()

	var hdr [8]byte
	binary.LittleEndian.PutUint32(hdr[0:4], uint32(len(nodes)))
	binary.LittleEndian.PutUint32(hdr[4:8], uint32(len(leaves)))
	h.Write(hdr[:])

	buf := make([]byte, 4)
	for _, n := range nodes {
		binary.LittleEndian.PutUint32(buf, uint32(n))
		h.Write(buf)
	}

	buf8 := make([]byte, 8)
	for _, l := range leaves {
		binary.LittleEndian.PutUint32(buf8[0:4], l.Begin)
		binary.LittleEndian.PutUint32(buf8[4:8], l.End)
		h.Write(buf8)
	}

	var sum [32]byte
	copy(sum[:], h.Sum(nil))
	return sum
}
